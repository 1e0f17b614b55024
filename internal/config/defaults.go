package config

import "github.com/coral-mesh/dwprod/internal/constants"

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: SchemaVersion,
		Log: LogConfig{
			Level: constants.DefaultLogLevel,
		},
		Output: OutputConfig{
			Format: constants.DefaultFormat,
		},
	}
}
