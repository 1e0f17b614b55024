package dwprod

import (
	"bytes"
	"encoding/binary"

	"github.com/go-delve/delve/pkg/dwarf/util"

	"github.com/coral-mesh/dwprod/internal/safe"
)

// reader is a forward-only decoder over a window of one debug section.
// Truncation is reported as a ParseError of the reader's kind.
type reader struct {
	section string
	order   binary.ByteOrder
	kind    error
	base    uint64 // section offset of the first byte of the window
	size    int
	buf     *bytes.Buffer
}

func newReader(section string, order binary.ByteOrder, kind error, data []byte, base uint64) *reader {
	return &reader{
		section: section,
		order:   order,
		kind:    kind,
		base:    base,
		size:    len(data),
		buf:     bytes.NewBuffer(data),
	}
}

// offset returns the section offset of the next unread byte.
func (r *reader) offset() uint64 {
	return r.base + uint64(r.size-r.buf.Len())
}

func (r *reader) remaining() int {
	return r.buf.Len()
}

func (r *reader) errorf(format string, args ...interface{}) error {
	return parseErrorf(r.kind, r.section, r.offset(), format, args...)
}

func (r *reader) next(n int) ([]byte, error) {
	if n < 0 || n > r.buf.Len() {
		return nil, r.errorf("need %d bytes, have %d", n, r.buf.Len())
	}
	return r.buf.Next(n), nil
}

func (r *reader) skip(n uint64) error {
	size, clamped := safe.Uint64ToInt(n)
	if clamped {
		return r.errorf("skip of %d bytes overflows", n)
	}
	_, err := r.next(size)
	return err
}

func (r *reader) u8() (uint8, error) {
	b, err := r.next(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) u16() (uint16, error) {
	b, err := r.next(2)
	if err != nil {
		return 0, err
	}
	return r.order.Uint16(b), nil
}

func (r *reader) u32() (uint32, error) {
	b, err := r.next(4)
	if err != nil {
		return 0, err
	}
	return r.order.Uint32(b), nil
}

func (r *reader) u64() (uint64, error) {
	b, err := r.next(8)
	if err != nil {
		return 0, err
	}
	return r.order.Uint64(b), nil
}

// uint reads an unsigned value of width 1, 2, 3, 4 or 8 bytes.
func (r *reader) uint(width int) (uint64, error) {
	switch width {
	case 1:
		v, err := r.u8()
		return uint64(v), err
	case 2:
		v, err := r.u16()
		return uint64(v), err
	case 3:
		b, err := r.next(3)
		if err != nil {
			return 0, err
		}
		if r.order == binary.BigEndian {
			return uint64(b[0])<<16 | uint64(b[1])<<8 | uint64(b[2]), nil
		}
		return uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16, nil
	case 4:
		v, err := r.u32()
		return uint64(v), err
	case 8:
		return r.u64()
	}
	return 0, r.errorf("unsupported integer width %d", width)
}

// lebTerminated reports whether p holds a complete LEB128 value, i.e. a byte
// with the continuation bit clear. The LEB128 decoder panics on short input.
func lebTerminated(p []byte) bool {
	for _, c := range p {
		if c&0x80 == 0 {
			return true
		}
	}
	return false
}

func (r *reader) uleb() (uint64, error) {
	if !lebTerminated(r.buf.Bytes()) {
		return 0, r.errorf("truncated unsigned LEB128")
	}
	v, _ := util.DecodeULEB128(r.buf)
	return v, nil
}

func (r *reader) sleb() (int64, error) {
	if !lebTerminated(r.buf.Bytes()) {
		return 0, r.errorf("truncated signed LEB128")
	}
	v, _ := util.DecodeSLEB128(r.buf)
	return v, nil
}

// cstring reads a NUL-terminated string, excluding the terminator.
func (r *reader) cstring() ([]byte, error) {
	end := bytes.IndexByte(r.buf.Bytes(), 0)
	if end < 0 {
		return nil, r.errorf("unterminated string")
	}
	s := r.buf.Next(end)
	r.buf.Next(1)
	return s, nil
}
