// Package logging constructs the slog loggers used across the CLI and the
// coordinator, providing a console handler with a component prefix and a
// JSON handler for machine consumption.
package logging
