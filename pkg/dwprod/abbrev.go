package dwprod

import (
	"debug/dwarf"
	"encoding/binary"

	"github.com/rs/zerolog"
)

// attrSpec is one (attribute, form) pair of an abbreviation.
type attrSpec struct {
	attr dwarf.Attr
	form form
	// implicit is the value of a DW_FORM_implicit_const attribute.
	implicit int64
}

// abbrev is a template for debugging information entries.
type abbrev struct {
	code     uint64
	tag      dwarf.Tag
	children bool
	attrs    []attrSpec
}

// abbrevTable maps abbreviation codes to templates.
type abbrevTable map[uint64]*abbrev

// abbrevResolver parses abbreviation tables out of .debug_abbrev.
// Tables are rebuilt for every unit; nothing is cached.
type abbrevResolver struct {
	section []byte
	order   binary.ByteOrder
	logger  zerolog.Logger
}

// resolve parses the table starting at offset, up to its terminating null
// code. When a code appears twice, the first definition wins.
func (a *abbrevResolver) resolve(offset uint64) (abbrevTable, error) {
	label := sectionLabel(SectionAbbrev)
	if offset >= uint64(len(a.section)) {
		return nil, parseErrorf(ErrMalformedAbbreviation, label, offset,
			"table offset beyond section size 0x%x", len(a.section))
	}

	r := newReader(label, a.order, ErrMalformedAbbreviation, a.section[offset:], offset)
	table := abbrevTable{}

	for {
		code, err := r.uleb()
		if err != nil {
			return nil, err
		}
		if code == 0 {
			return table, nil
		}

		entryOffset := r.offset()
		tag, err := r.uleb()
		if err != nil {
			return nil, err
		}
		children, err := r.u8()
		if err != nil {
			return nil, err
		}

		ab := &abbrev{
			code:     code,
			tag:      dwarf.Tag(tag),
			children: children != 0,
		}

		for {
			attr, err := r.uleb()
			if err != nil {
				return nil, err
			}
			f, err := r.uleb()
			if err != nil {
				return nil, err
			}
			if attr == 0 && f == 0 {
				break
			}

			spec := attrSpec{attr: dwarf.Attr(attr), form: form(f)}
			if spec.form == formImplicitConst {
				if spec.implicit, err = r.sleb(); err != nil {
					return nil, err
				}
			}
			ab.attrs = append(ab.attrs, spec)
		}

		if _, dup := table[code]; dup {
			a.logger.Debug().
				Uint64("table_offset", offset).
				Uint64("entry_offset", entryOffset).
				Uint64("code", code).
				Msg("Duplicate abbreviation code, keeping first definition")
			continue
		}
		table[code] = ab
	}
}
