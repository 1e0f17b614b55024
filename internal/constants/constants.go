// Package constants defines shared configuration constants.
package constants

var (
	ConfigFile = "config.yaml"

	DefaultDir = ".dwprod"

	// ConfigDirEnv overrides the base directory that holds DefaultDir.
	ConfigDirEnv = "DWPROD_CONFIG"

	// FallbackDir is used when no home directory exists (scratch images).
	FallbackDir = "/tmp/dwprod-fallback"

	DefaultFormat = "text"

	// DefaultLogLevel keeps stderr quiet unless something is wrong.
	DefaultLogLevel = "warn"

	// OutputFormats lists the accepted values of --format.
	OutputFormats = []string{"text", "json", "csv"}

	// LogLevels lists the accepted values of --log-level.
	LogLevels = []string{"trace", "debug", "info", "warn", "error"}
)
