package dwprod

import (
	"bytes"
	"encoding/binary"

	"github.com/go-delve/delve/pkg/dwarf/util"
)

// Attribute and tag codes used by the fixtures.
const (
	tagCompileUnit = 0x11
	tagSubprogram  = 0x2e

	atName           = 0x03
	atLanguage       = 0x13
	atLowPC          = 0x11
	atProducer       = 0x25
	atStrOffsetsBase = 0x72
)

// dwarfBuilder assembles synthetic debug sections.
type dwarfBuilder struct {
	order      binary.ByteOrder
	info       bytes.Buffer
	abbrev     bytes.Buffer
	str        bytes.Buffer
	lineStr    bytes.Buffer
	strOffsets bytes.Buffer
}

func newDWARFBuilder(order binary.ByteOrder) *dwarfBuilder {
	return &dwarfBuilder{order: order}
}

type testAttr struct {
	attr     uint64
	form     form
	implicit int64
}

type testAbbrev struct {
	code     uint64
	tag      uint64
	children bool
	attrs    []testAttr
}

// addAbbrevTable appends a null-terminated table and returns its offset.
func (b *dwarfBuilder) addAbbrevTable(abbrevs ...testAbbrev) uint64 {
	off := uint64(b.abbrev.Len())
	for _, a := range abbrevs {
		util.EncodeULEB128(&b.abbrev, a.code)
		util.EncodeULEB128(&b.abbrev, a.tag)
		if a.children {
			b.abbrev.WriteByte(1)
		} else {
			b.abbrev.WriteByte(0)
		}
		for _, at := range a.attrs {
			util.EncodeULEB128(&b.abbrev, at.attr)
			util.EncodeULEB128(&b.abbrev, uint64(at.form))
			if at.form == formImplicitConst {
				util.EncodeSLEB128(&b.abbrev, at.implicit)
			}
		}
		b.abbrev.Write([]byte{0, 0})
	}
	b.abbrev.WriteByte(0)
	return off
}

// addStr appends a string to .debug_str and returns its offset.
func (b *dwarfBuilder) addStr(s string) uint64 {
	off := uint64(b.str.Len())
	b.str.WriteString(s)
	b.str.WriteByte(0)
	return off
}

// addLineStr appends a string to .debug_line_str and returns its offset.
func (b *dwarfBuilder) addLineStr(s string) uint64 {
	off := uint64(b.lineStr.Len())
	b.lineStr.WriteString(s)
	b.lineStr.WriteByte(0)
	return off
}

// addStrOffsets appends a 32-bit .debug_str_offsets contribution holding the
// given .debug_str offsets and returns the base to use for DW_AT_str_offsets_base.
func (b *dwarfBuilder) addStrOffsets(offsets ...uint64) uint64 {
	b.u32(&b.strOffsets, uint32(4+4*len(offsets)))
	b.u16(&b.strOffsets, 5)
	b.u16(&b.strOffsets, 0)
	base := uint64(b.strOffsets.Len())
	for _, off := range offsets {
		b.u32(&b.strOffsets, uint32(off))
	}
	return base
}

type testUnit struct {
	version      uint16
	dwarf64      bool
	unitType     uint8
	addrSize     uint8
	abbrevOffset uint64
	entries      []byte
}

// addUnit appends a unit to .debug_info and returns its offset.
func (b *dwarfBuilder) addUnit(u testUnit) uint64 {
	off := uint64(b.info.Len())
	if u.addrSize == 0 {
		u.addrSize = 8
	}
	if u.unitType == 0 {
		u.unitType = utCompile
	}

	var hdr bytes.Buffer
	b.u16(&hdr, u.version)
	offsetWidth := 4
	if u.dwarf64 {
		offsetWidth = 8
	}
	if u.version >= 5 {
		hdr.WriteByte(u.unitType)
		hdr.WriteByte(u.addrSize)
		b.uint(&hdr, u.abbrevOffset, offsetWidth)
		switch u.unitType {
		case utSkeleton, utSplitCompile:
			b.u64(&hdr, 0xdeadbeefcafef00d)
		case utType, utSplitType:
			b.u64(&hdr, 0x0123456789abcdef)
			b.uint(&hdr, 0, offsetWidth)
		}
	} else {
		b.uint(&hdr, u.abbrevOffset, offsetWidth)
		hdr.WriteByte(u.addrSize)
	}
	hdr.Write(u.entries)

	if u.dwarf64 {
		b.u32(&b.info, 0xffffffff)
		b.u64(&b.info, uint64(hdr.Len()))
	} else {
		b.u32(&b.info, uint32(hdr.Len()))
	}
	b.info.Write(hdr.Bytes())
	return off
}

func (b *dwarfBuilder) loader() *stubLoader {
	return &stubLoader{
		order: b.order,
		sections: map[string][]byte{
			SectionInfo:       b.info.Bytes(),
			SectionAbbrev:     b.abbrev.Bytes(),
			SectionStr:        b.str.Bytes(),
			SectionLineStr:    b.lineStr.Bytes(),
			SectionStrOffsets: b.strOffsets.Bytes(),
		},
		calls: map[string]int{},
	}
}

func (b *dwarfBuilder) sections() *Sections {
	s, err := NewSections(b.loader(), false)
	if err != nil {
		panic(err)
	}
	return s
}

func (b *dwarfBuilder) u16(buf *bytes.Buffer, v uint16) {
	var tmp [2]byte
	b.order.PutUint16(tmp[:], v)
	buf.Write(tmp[:])
}

func (b *dwarfBuilder) u32(buf *bytes.Buffer, v uint32) {
	var tmp [4]byte
	b.order.PutUint32(tmp[:], v)
	buf.Write(tmp[:])
}

func (b *dwarfBuilder) u64(buf *bytes.Buffer, v uint64) {
	var tmp [8]byte
	b.order.PutUint64(tmp[:], v)
	buf.Write(tmp[:])
}

func (b *dwarfBuilder) uint(buf *bytes.Buffer, v uint64, width int) {
	if width == 8 {
		b.u64(buf, v)
		return
	}
	b.u32(buf, uint32(v))
}

// die encodes one debugging information entry from pre-encoded values.
func (b *dwarfBuilder) die(code uint64, values ...[]byte) []byte {
	var buf bytes.Buffer
	util.EncodeULEB128(&buf, code)
	for _, v := range values {
		buf.Write(v)
	}
	return buf.Bytes()
}

func (b *dwarfBuilder) cstr(s string) []byte {
	return append([]byte(s), 0)
}

func (b *dwarfBuilder) data1(v uint8) []byte {
	return []byte{v}
}

func (b *dwarfBuilder) data2(v uint16) []byte {
	var buf bytes.Buffer
	b.u16(&buf, v)
	return buf.Bytes()
}

func (b *dwarfBuilder) data4(v uint32) []byte {
	var buf bytes.Buffer
	b.u32(&buf, v)
	return buf.Bytes()
}

func (b *dwarfBuilder) data8(v uint64) []byte {
	var buf bytes.Buffer
	b.u64(&buf, v)
	return buf.Bytes()
}

func (b *dwarfBuilder) uleb(v uint64) []byte {
	var buf bytes.Buffer
	util.EncodeULEB128(&buf, v)
	return buf.Bytes()
}

func (b *dwarfBuilder) sleb(v int64) []byte {
	var buf bytes.Buffer
	util.EncodeSLEB128(&buf, v)
	return buf.Bytes()
}

// stubLoader serves fixed sections and counts how often each is requested.
type stubLoader struct {
	order    binary.ByteOrder
	sections map[string][]byte
	calls    map[string]int
	err      error
}

func (l *stubLoader) Section(name string) ([]byte, error) {
	l.calls[name]++
	if l.err != nil {
		return nil, l.err
	}
	b, ok := l.sections[name]
	if !ok {
		return nil, nil
	}
	return b, nil
}

func (l *stubLoader) ByteOrder() binary.ByteOrder { return l.order }

func (l *stubLoader) Format() string { return "stub" }

func (l *stubLoader) totalCalls() int {
	n := 0
	for _, c := range l.calls {
		n += c
	}
	return n
}
