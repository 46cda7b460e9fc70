package config

const (
	defaultRequestTimeout = 30
	defaultPollInterval   = 2
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Worker: Worker{
			RequestTimeout: defaultRequestTimeout,
		},
		Tracking: Tracking{
			PollInterval: defaultPollInterval,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
