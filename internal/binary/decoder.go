package binary

import (
	"encoding/binary"
	"math"

	"github.com/robert-malhotra/go-ogawa/internal/errs"
)

// Decoder walks an in-memory little-endian blob, such as a header or table
// chunk that has already been read from the archive.
type Decoder struct {
	buf  []byte
	pos  int
	op   string
	base int64
}

// NewDecoder creates a decoder over buf. base is the file offset of buf[0]
// and op names the structure being decoded; both only feed error messages.
func NewDecoder(buf []byte, op string, base int64) *Decoder {
	return &Decoder{buf: buf, op: op, base: base}
}

// Pos returns the current read position within the blob.
func (d *Decoder) Pos() int {
	return d.pos
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int {
	return len(d.buf) - d.pos
}

// Done reports whether the whole blob has been consumed.
func (d *Decoder) Done() bool {
	return d.pos >= len(d.buf)
}

func (d *Decoder) offset() int64 {
	if d.base < 0 {
		return errs.NoOffset
	}
	return d.base + int64(d.pos)
}

// ReadBytes reads exactly n bytes. The result aliases the blob.
func (d *Decoder) ReadBytes(n int) ([]byte, error) {
	if n < 0 || n > d.Remaining() {
		return nil, errs.Corrupt(d.op, d.offset(), "truncated: need %d bytes, have %d", n, d.Remaining())
	}
	b := d.buf[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

// ReadUint8 reads an unsigned 8-bit integer.
func (d *Decoder) ReadUint8() (uint8, error) {
	b, err := d.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadUint16 reads an unsigned 16-bit integer.
func (d *Decoder) ReadUint16() (uint16, error) {
	b, err := d.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadUint32 reads an unsigned 32-bit integer.
func (d *Decoder) ReadUint32() (uint32, error) {
	b, err := d.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadUint64 reads an unsigned 64-bit integer.
func (d *Decoder) ReadUint64() (uint64, error) {
	b, err := d.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadFloat64 reads an IEEE 754 double.
func (d *Decoder) ReadFloat64() (float64, error) {
	v, err := d.ReadUint64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// ReadUintN reads an unsigned integer of n bytes (1, 2, 4, or 8).
func (d *Decoder) ReadUintN(n int) (uint64, error) {
	b, err := d.ReadBytes(n)
	if err != nil {
		return 0, err
	}
	return decodeUint(b, n), nil
}

// ReadString reads n bytes as a string.
func (d *Decoder) ReadString(n int) (string, error) {
	b, err := d.ReadBytes(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeUint(buf []byte, size int) uint64 {
	switch size {
	case 1:
		return uint64(buf[0])
	case 2:
		return uint64(binary.LittleEndian.Uint16(buf))
	case 4:
		return uint64(binary.LittleEndian.Uint32(buf))
	case 8:
		return binary.LittleEndian.Uint64(buf)
	default:
		var val uint64
		for i := size - 1; i >= 0; i-- {
			val = (val << 8) | uint64(buf[i])
		}
		return val
	}
}
