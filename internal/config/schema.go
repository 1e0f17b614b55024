package config

// SchemaVersion is the configuration schema version.
const SchemaVersion = "1"

// Config represents the ~/.dwprod/config.yaml file.
// Every field can be overridden by the environment variable in its env tag,
// and then by the matching command-line flag.
type Config struct {
	Version string       `yaml:"version"`
	Log     LogConfig    `yaml:"log"`
	Output  OutputConfig `yaml:"output"`
	Scan    ScanConfig   `yaml:"scan"`
}

// LogConfig controls diagnostics written to stderr.
type LogConfig struct {
	Level string `yaml:"level" env:"DWPROD_LOG_LEVEL"`
	// Pretty forces console output on or off. Unset means auto-detect.
	Pretty *bool `yaml:"pretty,omitempty"`
}

// OutputConfig controls how results are written to stdout.
type OutputConfig struct {
	Format string `yaml:"format" env:"DWPROD_FORMAT"`
}

// ScanConfig controls how compilation units are reported.
type ScanConfig struct {
	IncludeMissing   bool   `yaml:"include_missing" env:"DWPROD_INCLUDE_MISSING"`
	RequireDebugInfo bool   `yaml:"require_debug_info" env:"DWPROD_REQUIRE_DEBUG_INFO"`
	Where            string `yaml:"where,omitempty" env:"DWPROD_WHERE"`
}
