package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateWorker(); err != nil {
		return err
	}
	if err := c.validateTracking(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateWorker() error {
	if strings.TrimSpace(c.Worker.URL) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/transcodectl/config.toml"
		}
		return fmt.Errorf("worker.url is required. Edit %s (create with 'transcodectl config init')", defaultPath)
	}
	parsed, err := url.Parse(c.Worker.URL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("worker.url must be an absolute URL, got %q", c.Worker.URL)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("worker.url must use http or https, got %q", parsed.Scheme)
	}
	if c.Worker.RequestTimeout <= 0 {
		return errors.New("worker.request_timeout must be positive")
	}
	return nil
}

func (c *Config) validateTracking() error {
	if c.Tracking.PollInterval < 1 {
		return errors.New("tracking.poll_interval must be at least 1 second")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
