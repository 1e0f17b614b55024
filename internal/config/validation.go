package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/coral-mesh/dwprod/internal/constants"
)

// Validate checks that enumerated settings hold known values.
func (c *Config) Validate() error {
	if !slices.Contains(constants.OutputFormats, c.Output.Format) {
		return fmt.Errorf("invalid output format %q, must be one of: %s",
			c.Output.Format, strings.Join(constants.OutputFormats, ", "))
	}
	if !slices.Contains(constants.LogLevels, c.Log.Level) {
		return fmt.Errorf("invalid log level %q, must be one of: %s",
			c.Log.Level, strings.Join(constants.LogLevels, ", "))
	}
	return nil
}
