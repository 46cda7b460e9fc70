package main

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"transcodectl/internal/catalog"
	"transcodectl/internal/config"
	"transcodectl/internal/coordinator"
	"transcodectl/internal/logging"
	"transcodectl/internal/workerapi"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) workerClient() (*workerapi.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return workerapi.NewFromConfig(cfg, c.ensureLogger()), nil
}

func (c *commandContext) catalogLoader() (*catalog.Loader, error) {
	client, err := c.workerClient()
	if err != nil {
		return nil, err
	}
	return catalog.NewLoader(client, c.ensureLogger()), nil
}

// newCoordinator wires a coordinator for one tracked job using the
// configured poll cadence.
func (c *commandContext) newCoordinator(listener coordinator.Listener) (*coordinator.Coordinator, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	client, err := c.workerClient()
	if err != nil {
		return nil, err
	}
	loader, err := c.catalogLoader()
	if err != nil {
		return nil, err
	}
	interval := time.Duration(cfg.Tracking.PollInterval) * time.Second
	return coordinator.New(client, loader, listener, interval, c.ensureLogger()), nil
}
