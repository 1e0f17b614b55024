package dwprod

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"

	"github.com/rs/zerolog"

	dwerrors "github.com/coral-mesh/dwprod/internal/errors"
)

// Producer is the DW_AT_producer of one compilation unit.
type Producer struct {
	// Value is the producer string. Empty when Missing is set.
	Value string `json:"producer"`
	// UnitOffset is the offset of the unit header in .debug_info.
	UnitOffset uint64 `json:"unit_offset"`
	// Version is the DWARF version of the unit.
	Version uint16 `json:"dwarf_version"`
	// Missing is set for units without DW_AT_producer when
	// Config.IncludeMissing is enabled.
	Missing bool `json:"missing,omitempty"`
}

// File is an opened binary with its debug sections loaded.
type File struct {
	cfg      *Config
	format   string
	sections *Sections
	img      *image
}

// Open loads the binary at path. The file is memory-mapped where supported;
// call Close to release it.
func Open(path string, cfg *Config) (*File, error) {
	img, err := mapImage(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	f, err := OpenBytes(img.data, cfg)
	if err != nil {
		_ = img.close()
		return nil, err
	}
	f.img = img

	f.cfg.Logger.Debug().
		Str("path", path).
		Str("format", f.format).
		Stringer("byte_order", f.sections.ByteOrder()).
		Int("size", len(img.data)).
		Msg("Opened binary")

	return f, nil
}

// OpenBytes parses an in-memory binary image.
func OpenBytes(data []byte, cfg *Config) (*File, error) {
	loader, err := NewLoader(data)
	if err != nil {
		return nil, err
	}
	return New(loader, cfg)
}

// New builds a File from an arbitrary section loader.
func New(loader SectionLoader, cfg *Config) (*File, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	sections, err := NewSections(loader, cfg.RequireDebugInfo)
	if err != nil {
		return nil, err
	}

	for _, name := range bundledSections {
		cfg.Logger.Trace().
			Str("section", sectionLabel(name)).
			Int("size", len(sections.Section(name))).
			Bool("present", sections.Has(name)).
			Msg("Loaded debug section")
	}
	if !sections.Has(SectionInfo) {
		cfg.Logger.Debug().Str("format", loader.Format()).Msg("No .debug_info section, nothing to scan")
	}

	return &File{
		cfg:      cfg,
		format:   loader.Format(),
		sections: sections,
	}, nil
}

// Format returns the container format of the binary.
func (f *File) Format() string {
	return f.format
}

// Sections returns the loaded debug sections.
func (f *File) Sections() *Sections {
	return f.sections
}

// Producers returns a new sequence over the producers of every compilation
// unit. Independent sequences over the same File may coexist.
func (f *File) Producers() *Producers {
	return NewProducers(f.sections, f.cfg)
}

// Close releases the binary image.
func (f *File) Close() error {
	return f.img.close()
}

// Scan opens path, hands a Producers sequence to fn and closes the file once
// fn returns. The sequence must not be used after fn returns.
func Scan(path string, cfg *Config, fn func(*Producers) error) error {
	f, err := Open(path, cfg)
	if err != nil {
		return err
	}
	defer dwerrors.DeferClose(f.cfg.Logger.With().Str("path", path).Logger(), f, "Failed to release binary image")

	return fn(f.Producers())
}

type iterState uint8

const (
	stateReady iterState = iota
	stateDone
	stateFailed
)

// Producers is a lazy, forward-only sequence of compilation unit producers.
// Each call to Next parses at most as many units as needed to find the next
// producer. A Producers is not safe for concurrent use.
type Producers struct {
	logger         zerolog.Logger
	includeMissing bool

	cursor    *unitCursor
	abbrevs   *abbrevResolver
	extractor *extractor

	state   iterState
	err     error
	visited int
}

// NewProducers returns a sequence over the units in sections.
func NewProducers(sections *Sections, cfg *Config) *Producers {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	order := sections.ByteOrder()
	return &Producers{
		logger:         cfg.Logger,
		includeMissing: cfg.IncludeMissing,
		cursor:         newUnitCursor(sections.Section(SectionInfo), order),
		abbrevs: &abbrevResolver{
			section: sections.Section(SectionAbbrev),
			order:   order,
			logger:  cfg.Logger,
		},
		extractor: &extractor{sections: sections},
	}
}

// Next returns the next producer string. ok is false once the sequence is
// exhausted. After an error, Next keeps returning that error.
func (p *Producers) Next() (producer string, ok bool, err error) {
	rec, ok, err := p.NextProducer()
	return rec.Value, ok, err
}

// NextProducer is like Next but returns the full record.
func (p *Producers) NextProducer() (Producer, bool, error) {
	switch p.state {
	case stateDone:
		return Producer{}, false, nil
	case stateFailed:
		return Producer{}, false, p.err
	}

	for {
		h, err := p.cursor.next()
		if err != nil {
			return p.fail(err)
		}
		if h == nil {
			p.state = stateDone
			p.logger.Debug().Int("units", p.visited).Msg("Reached end of .debug_info")
			return Producer{}, false, nil
		}
		p.visited++

		p.logger.Trace().
			Uint64("offset", h.offset).
			Uint64("length", h.length).
			Uint16("version", h.enc.version).
			Uint64("abbrev_offset", h.abbrevOffset).
			Msg("Parsed unit header")

		table, err := p.abbrevs.resolve(h.abbrevOffset)
		if err != nil {
			return p.fail(fmt.Errorf("unit at .debug_info+0x%x: %w", h.offset, err))
		}

		value, found, err := p.extractor.extract(h, table)
		if err != nil {
			return p.fail(fmt.Errorf("unit at .debug_info+0x%x: %w", h.offset, err))
		}

		rec := Producer{
			Value:      value,
			UnitOffset: h.offset,
			Version:    h.enc.version,
		}
		if found {
			return rec, true, nil
		}

		p.logger.Debug().Uint64("offset", h.offset).Msg("Unit has no DW_AT_producer")
		if p.includeMissing {
			rec.Missing = true
			return rec, true, nil
		}
	}
}

func (p *Producers) fail(err error) (Producer, bool, error) {
	p.state = stateFailed
	p.err = err
	return Producer{}, false, err
}

// UnitsVisited returns how many unit headers have been parsed so far.
func (p *Producers) UnitsVisited() int {
	return p.visited
}

// All returns an iterator over the remaining producers. Iteration stops after
// the first error, which is yielded with a zero Producer.
func (p *Producers) All() iter.Seq2[Producer, error] {
	return func(yield func(Producer, error) bool) {
		for {
			rec, ok, err := p.NextProducer()
			if err != nil {
				yield(Producer{}, err)
				return
			}
			if !ok || !yield(rec, nil) {
				return
			}
		}
	}
}

// Collect drains the sequence into a slice of producer strings.
func (p *Producers) Collect() ([]string, error) {
	var out []string
	for rec, err := range p.All() {
		if err != nil {
			return out, err
		}
		out = append(out, rec.Value)
	}
	return out, nil
}
