package dwprod

import (
	"bytes"
	"debug/dwarf"

	"github.com/coral-mesh/dwprod/internal/safe"
)

// extractor decodes the root entry of a unit far enough to find DW_AT_producer.
type extractor struct {
	sections *Sections
}

// strIndexRef is a DW_AT_producer given as a .debug_str_offsets index, which
// cannot be resolved until DW_AT_str_offsets_base is known.
type strIndexRef struct {
	index  uint64
	offset uint64 // in .debug_info, for error reporting
}

// extract returns the producer of the unit, or ok=false when the root entry
// carries none. Decoding stops at the producer unless it is a string index
// whose base attribute has not been seen yet.
func (x *extractor) extract(h *unitHeader, abbrevs abbrevTable) (producer string, ok bool, err error) {
	r := newReader(sectionLabel(SectionInfo), h.enc.order, ErrMalformedAttribute, h.entries, h.entriesOffset)

	code, err := r.uleb()
	if err != nil {
		return "", false, err
	}
	if code == 0 {
		return "", false, nil
	}

	ab, found := abbrevs[code]
	if !found {
		return "", false, parseErrorf(ErrMalformedAbbreviation, r.section, h.entriesOffset,
			"abbreviation code %d not in table at .debug_abbrev+0x%x", code, h.abbrevOffset)
	}

	var (
		pending    *strIndexRef
		strOffBase uint64
		haveBase   bool
	)

	for _, spec := range ab.attrs {
		f := spec.form
		for f == formIndirect {
			v, err := r.uleb()
			if err != nil {
				return "", false, err
			}
			f = form(v)
		}

		switch spec.attr {
		case dwarf.AttrProducer:
			valueOffset := r.offset()
			fs, known := lookupForm(f)
			if !known {
				return "", false, parseErrorf(ErrUnsupportedForm, r.section, valueOffset,
					"unknown form 0x%x", uint64(f))
			}
			if fs.class == classStrx {
				idx, err := readStrIndex(r, fs.size)
				if err != nil {
					return "", false, err
				}
				if haveBase {
					s, err := x.indexedString(h.enc, strOffBase, idx, valueOffset)
					return s, err == nil, err
				}
				pending = &strIndexRef{index: idx, offset: valueOffset}
				continue
			}
			if !carriesString(fs.class) {
				// A producer we cannot read as text, such as a dwz
				// alternate-file string, leaves the unit without one.
				if err := skipValue(r, h.enc, f); err != nil {
					return "", false, err
				}
				return "", false, nil
			}
			s, err := x.stringValue(r, h.enc, fs)
			return s, err == nil, err

		case dwarf.AttrStrOffsetsBase:
			if f == formImplicitConst {
				strOffBase, haveBase = uint64(spec.implicit), true
			} else {
				base, err := r.uint(h.enc.offsetSize)
				if err != nil {
					return "", false, err
				}
				strOffBase, haveBase = base, true
			}
			if pending != nil {
				s, err := x.indexedString(h.enc, strOffBase, pending.index, pending.offset)
				return s, err == nil, err
			}

		default:
			if err := skipValue(r, h.enc, f); err != nil {
				return "", false, err
			}
		}
	}

	if pending != nil {
		// No DW_AT_str_offsets_base: assume the first contribution, right after
		// its header (length, version, padding).
		base := uint64(8)
		if h.enc.offsetSize == 8 {
			base = 16
		}
		s, err := x.indexedString(h.enc, base, pending.index, pending.offset)
		return s, err == nil, err
	}

	return "", false, nil
}

// carriesString reports whether a producer of this class decodes to text.
func carriesString(c formClass) bool {
	switch c {
	case classString, classBlock, classStrp, classLineStrp:
		return true
	}
	return false
}

// stringValue decodes a producer held in a direct string form.
func (x *extractor) stringValue(r *reader, enc encoding, fs formSpec) (string, error) {
	switch fs.class {
	case classString:
		b, err := r.cstring()
		if err != nil {
			return "", err
		}
		return string(b), nil

	case classBlock:
		n, err := readBlockLength(r, fs.size)
		if err != nil {
			return "", err
		}
		size, clamped := safe.Uint64ToInt(n)
		if clamped {
			return "", r.errorf("block length 0x%x overflows", n)
		}
		b, err := r.next(size)
		if err != nil {
			return "", err
		}
		return string(bytes.TrimRight(b, "\x00")), nil

	case classStrp, classLineStrp:
		off, err := r.uint(enc.offsetSize)
		if err != nil {
			return "", err
		}
		name := SectionStr
		if fs.class == classLineStrp {
			name = SectionLineStr
		}
		return stringAt(x.sections.Section(name), sectionLabel(name), off)
	}

	return "", parseErrorf(ErrUnsupportedForm, r.section, r.offset(),
		"DW_AT_producer in non-string class %d", fs.class)
}

// indexedString resolves a .debug_str_offsets index to a .debug_str string.
func (x *extractor) indexedString(enc encoding, base, index, at uint64) (string, error) {
	label := sectionLabel(SectionStrOffsets)
	offsets := x.sections.Section(SectionStrOffsets)
	width := uint64(enc.offsetSize)

	pos := base + index*width
	if index > (^uint64(0)-base)/width || pos+width > uint64(len(offsets)) {
		return "", parseErrorf(ErrStringSectionOffsetOutOfRange, label, pos,
			"string index %d (from .debug_info+0x%x) outside section of 0x%x bytes", index, at, len(offsets))
	}

	r := newReader(label, enc.order, ErrStringSectionOffsetOutOfRange, offsets[pos:pos+width], pos)
	off, err := r.uint(enc.offsetSize)
	if err != nil {
		return "", err
	}
	return stringAt(x.sections.Section(SectionStr), sectionLabel(SectionStr), off)
}

// stringAt reads the NUL-terminated string at offset in a string section.
func stringAt(section []byte, label string, offset uint64) (string, error) {
	if offset >= uint64(len(section)) {
		return "", parseErrorf(ErrStringSectionOffsetOutOfRange, label, offset,
			"offset past section end 0x%x", len(section))
	}
	b := section[offset:]
	end := bytes.IndexByte(b, 0)
	if end < 0 {
		return "", parseErrorf(ErrStringSectionOffsetOutOfRange, label, offset, "unterminated string")
	}
	return string(b[:end]), nil
}
