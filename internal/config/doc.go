// Package config loads, normalizes, and validates the TOML configuration
// used by the CLI and the job coordinator.
package config
