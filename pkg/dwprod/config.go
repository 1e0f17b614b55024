package dwprod

import (
	"github.com/rs/zerolog"
)

// Config controls how a binary is opened and scanned.
type Config struct {
	// Logger receives debug and trace output. Defaults to a no-op logger.
	Logger zerolog.Logger

	// IncludeMissing yields a Producer with Missing set and an empty Value for
	// units without DW_AT_producer, instead of skipping them.
	IncludeMissing bool

	// RequireDebugInfo makes a missing .debug_info an ErrMissingRequiredSection
	// error. By default such binaries simply have no compilation units.
	RequireDebugInfo bool
}

// DefaultConfig returns a default configuration.
func DefaultConfig() *Config {
	return &Config{
		Logger: zerolog.Nop(),
	}
}
