package dwprod

import (
	"encoding/binary"
	"fmt"
)

// Logical debug section names, without the container-specific prefix.
const (
	SectionInfo       = "info"
	SectionAbbrev     = "abbrev"
	SectionStr        = "str"
	SectionLineStr    = "line_str"
	SectionStrOffsets = "str_offsets"
)

// bundledSections are the sections a Sections value loads.
var bundledSections = []string{
	SectionInfo,
	SectionAbbrev,
	SectionStr,
	SectionLineStr,
	SectionStrOffsets,
}

// SectionLoader extracts raw debug sections from an object file container.
type SectionLoader interface {
	// Section returns the contents of the named logical section, decompressed
	// if needed. An absent section is reported as nil, nil.
	Section(name string) ([]byte, error)
	// ByteOrder is the byte order of the image.
	ByteOrder() binary.ByteOrder
	// Format names the container format, e.g. "elf".
	Format() string
}

// Sections is the read-only set of debug sections a scan works on.
// Missing sections are present as zero-length slices.
type Sections struct {
	order binary.ByteOrder
	data  map[string][]byte
}

// NewSections loads the debug sections from loader. When requireInfo is set,
// a missing .debug_info fails with ErrMissingRequiredSection; otherwise it
// reads as an empty section and yields no compilation units.
func NewSections(loader SectionLoader, requireInfo bool) (*Sections, error) {
	s := &Sections{
		order: loader.ByteOrder(),
		data:  make(map[string][]byte, len(bundledSections)),
	}
	if s.order == nil {
		s.order = binary.LittleEndian
	}

	for _, name := range bundledSections {
		b, err := loader.Section(name)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", sectionLabel(name), err)
		}
		if b == nil {
			if name == SectionInfo && requireInfo {
				return nil, fmt.Errorf("%w: %s", ErrMissingRequiredSection, sectionLabel(name))
			}
			b = []byte{}
		}
		s.data[name] = b
	}

	return s, nil
}

// Section returns the named logical section, or an empty slice if it is absent.
func (s *Sections) Section(name string) []byte {
	if b, ok := s.data[name]; ok {
		return b
	}
	return []byte{}
}

// ByteOrder returns the byte order of the sections.
func (s *Sections) ByteOrder() binary.ByteOrder {
	return s.order
}

// Has reports whether the named section is present and non-empty.
func (s *Sections) Has(name string) bool {
	return len(s.data[name]) > 0
}

func sectionLabel(name string) string {
	return ".debug_" + name
}
