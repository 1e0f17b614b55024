// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/coral-mesh/dwprod/internal/constants"
)

// Loader locates and reads the configuration file.
type Loader struct {
	homeDir string
}

// NewLoader creates a new config loader.
// The base directory is resolved in this order:
//  1. DWPROD_CONFIG environment variable.
//  2. User home directory (~/).
//  3. constants.FallbackDir (containers without a home dir).
//
// The loader never returns an error. Where no home directory exists, Load
// still returns defaults with env var overrides applied.
func NewLoader() (*Loader, error) {
	if baseDir := os.Getenv(constants.ConfigDirEnv); baseDir != "" {
		return &Loader{
			homeDir: baseDir,
		}, nil
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		return &Loader{
			homeDir: homeDir,
		}, nil
	}

	return &Loader{
		homeDir: constants.FallbackDir,
	}, nil
}

// ConfigPath returns the path to the config file.
func (l *Loader) ConfigPath() string {
	return filepath.Join(l.homeDir, constants.DefaultDir, constants.ConfigFile)
}

// Load reads the config file over the defaults and applies environment
// overrides. A missing file yields defaults. The result is not validated:
// callers layer their own overrides first and then call Validate.
func (l *Loader) Load() (*Config, error) {
	path := l.ConfigPath()

	config := DefaultConfig()
	//nolint:gosec // G304: Path is from trusted config directory.
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := MergeFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	return config, nil
}
