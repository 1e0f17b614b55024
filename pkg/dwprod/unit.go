package dwprod

import (
	"encoding/binary"
)

// DWARF 5 unit types (section 7.5.1).
const (
	utCompile      = 0x01
	utType         = 0x02
	utPartial      = 0x03
	utSkeleton     = 0x04
	utSplitCompile = 0x05
	utSplitType    = 0x06
)

// encoding is the per-unit decoding context. It is passed by value to every
// parsing step instead of living in shared state.
type encoding struct {
	order      binary.ByteOrder
	version    uint16
	offsetSize int // 4 for 32-bit DWARF, 8 for 64-bit DWARF
	addrSize   int
}

// unitHeader is one parsed compilation unit header.
type unitHeader struct {
	offset       uint64 // of the unit in .debug_info
	length       uint64 // unit_length, excluding the length field itself
	unitType     uint8
	abbrevOffset uint64
	enc          encoding

	// entries holds the debugging information entries following the header.
	entries       []byte
	entriesOffset uint64
}

// end returns the .debug_info offset just past this unit.
func (h *unitHeader) end() uint64 {
	return h.entriesOffset + uint64(len(h.entries))
}

// unitCursor walks compilation unit headers in .debug_info, strictly forward.
type unitCursor struct {
	info      []byte
	order     binary.ByteOrder
	offset    uint64
	exhausted bool
}

func newUnitCursor(info []byte, order binary.ByteOrder) *unitCursor {
	return &unitCursor{info: info, order: order}
}

// next parses the header at the current position and moves past the unit.
// It returns nil, nil once the section is exhausted.
func (c *unitCursor) next() (*unitHeader, error) {
	if c.exhausted || c.offset >= uint64(len(c.info)) {
		c.exhausted = true
		return nil, nil
	}

	h, err := parseUnitHeader(c.info, c.offset, c.order)
	if err != nil {
		c.exhausted = true
		return nil, err
	}

	c.offset = h.end()
	return h, nil
}

func parseUnitHeader(info []byte, offset uint64, order binary.ByteOrder) (*unitHeader, error) {
	r := newReader(sectionLabel(SectionInfo), order, ErrMalformedUnitHeader, info[offset:], offset)

	h := &unitHeader{
		offset: offset,
		enc:    encoding{order: order, offsetSize: 4},
	}

	length32, err := r.u32()
	if err != nil {
		return nil, err
	}
	switch {
	case length32 == 0xffffffff:
		h.enc.offsetSize = 8
		if h.length, err = r.u64(); err != nil {
			return nil, err
		}
	case length32 >= 0xfffffff0:
		return nil, parseErrorf(ErrMalformedUnitHeader, r.section, offset,
			"reserved unit length 0x%x", length32)
	default:
		h.length = uint64(length32)
	}

	// Everything after the length field must fit in the section.
	start := r.offset()
	if h.length > uint64(r.remaining()) {
		return nil, parseErrorf(ErrMalformedUnitHeader, r.section, offset,
			"unit length 0x%x exceeds the 0x%x bytes left in the section", h.length, r.remaining())
	}
	end := start + h.length
	r = newReader(r.section, order, ErrMalformedUnitHeader, info[start:end], start)

	if h.enc.version, err = r.u16(); err != nil {
		return nil, err
	}

	switch h.enc.version {
	case 2, 3, 4:
		h.unitType = utCompile
		if h.abbrevOffset, err = r.uint(h.enc.offsetSize); err != nil {
			return nil, err
		}
		addrSize, err := r.u8()
		if err != nil {
			return nil, err
		}
		h.enc.addrSize = int(addrSize)

	case 5:
		if h.unitType, err = r.u8(); err != nil {
			return nil, err
		}
		addrSize, err := r.u8()
		if err != nil {
			return nil, err
		}
		h.enc.addrSize = int(addrSize)
		if h.abbrevOffset, err = r.uint(h.enc.offsetSize); err != nil {
			return nil, err
		}

		switch h.unitType {
		case utCompile, utPartial:
		case utSkeleton, utSplitCompile:
			// dwo_id
			if err := r.skip(8); err != nil {
				return nil, err
			}
		case utType, utSplitType:
			// type_signature, type_offset
			if err := r.skip(8 + uint64(h.enc.offsetSize)); err != nil {
				return nil, err
			}
		default:
			return nil, parseErrorf(ErrMalformedUnitHeader, r.section, offset,
				"unknown unit type 0x%x", h.unitType)
		}

	default:
		return nil, parseErrorf(ErrMalformedUnitHeader, r.section, offset,
			"unsupported DWARF version %d", h.enc.version)
	}

	h.entriesOffset = r.offset()
	h.entries = info[h.entriesOffset:end]
	return h, nil
}
