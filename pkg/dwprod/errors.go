package dwprod

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package wraps exactly one of these,
// so callers can branch with errors.Is.
var (
	// ErrFileNotFound is returned when the input path does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrUnsupportedContainerFormat is returned when the input is not an ELF,
	// Mach-O or PE image, or the container headers cannot be parsed.
	ErrUnsupportedContainerFormat = errors.New("unsupported container format")

	// ErrMissingRequiredSection is returned when .debug_info is absent and the
	// caller asked for it to be mandatory (Config.RequireDebugInfo).
	ErrMissingRequiredSection = errors.New("missing required section")

	// ErrMalformedUnitHeader is returned for compilation unit headers that are
	// truncated, declare a length past the end of .debug_info, or carry an
	// unsupported DWARF version.
	ErrMalformedUnitHeader = errors.New("malformed unit header")

	// ErrMalformedAbbreviation is returned for truncated abbreviation tables and
	// for entries that reference an abbreviation code absent from their table.
	ErrMalformedAbbreviation = errors.New("malformed abbreviation")

	// ErrMalformedAttribute is returned when attribute data runs past the end
	// of its unit.
	ErrMalformedAttribute = errors.New("malformed attribute")

	// ErrUnsupportedForm is returned for form codes whose value size is
	// unknown, so the rest of the entry cannot be decoded.
	ErrUnsupportedForm = errors.New("unsupported form")

	// ErrStringSectionOffsetOutOfRange is returned when a string table offset or
	// index points outside its section, or the string there is unterminated.
	ErrStringSectionOffsetOutOfRange = errors.New("string section offset out of range")
)

// ParseError describes a failure while decoding debug information.
type ParseError struct {
	// Kind is one of the Err* sentinels above.
	Kind error
	// Section is the ELF-style section name, e.g. ".debug_info".
	Section string
	// Offset is the byte offset within Section where decoding failed.
	Offset uint64
	// Detail is a human-readable description.
	Detail string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v: %s+0x%x: %s", e.Kind, e.Section, e.Offset, e.Detail)
}

// Unwrap returns the error kind.
func (e *ParseError) Unwrap() error {
	return e.Kind
}

func parseErrorf(kind error, section string, offset uint64, format string, args ...interface{}) *ParseError {
	return &ParseError{
		Kind:    kind,
		Section: section,
		Offset:  offset,
		Detail:  fmt.Sprintf(format, args...),
	}
}
