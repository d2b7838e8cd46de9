package binary

import (
	"encoding/binary"
	"io"
	"math"
)

// Writer writes little-endian values at a position of an io.WriterAt.
type Writer struct {
	w   io.WriterAt
	pos int64
}

// NewWriter creates a writer positioned at offset 0.
func NewWriter(w io.WriterAt) *Writer {
	return &Writer{w: w}
}

// At returns a writer over the same destination positioned at offset.
func (w *Writer) At(offset int64) *Writer {
	return &Writer{w: w.w, pos: offset}
}

// Pos returns the current write position.
func (w *Writer) Pos() int64 {
	return w.pos
}

// WriteBytes writes the given bytes at the current position.
func (w *Writer) WriteBytes(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	n, err := w.w.WriteAt(data, w.pos)
	w.pos += int64(n)
	return err
}

// WriteUint8 writes one byte.
func (w *Writer) WriteUint8(v uint8) error {
	return w.WriteBytes([]byte{v})
}

// WriteUint32 writes a little-endian uint32.
func (w *Writer) WriteUint32(v uint32) error {
	return w.WriteBytes(binary.LittleEndian.AppendUint32(nil, v))
}

// WriteUint64 writes a little-endian uint64.
func (w *Writer) WriteUint64(v uint64) error {
	return w.WriteBytes(binary.LittleEndian.AppendUint64(nil, v))
}

// WriteFloat64 writes an IEEE 754 double.
func (w *Writer) WriteFloat64(v float64) error {
	return w.WriteUint64(math.Float64bits(v))
}

// WriteUintN writes the low n bytes of v, n at most 8. Property headers
// size their counts to 1, 2 or 4 bytes.
func (w *Writer) WriteUintN(v uint64, n int) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	return w.WriteBytes(buf[:n])
}

// Buffer is a growable in-memory file. It implements io.WriterAt, io.ReaderAt
// and Sizer.
type Buffer struct {
	data []byte
}

// WriteAt implements io.WriterAt, growing the buffer as needed.
func (b *Buffer) WriteAt(p []byte, off int64) (int, error) {
	end := int(off) + len(p)
	if end > len(b.data) {
		if end > cap(b.data) {
			grown := make([]byte, end, 2*end)
			copy(grown, b.data)
			b.data = grown
		} else {
			b.data = b.data[:end]
		}
	}
	return copy(b.data[off:], p), nil
}

// ReadAt implements io.ReaderAt.
func (b *Buffer) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(b.data)) {
		return 0, io.EOF
	}
	n := copy(p, b.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Size returns the buffer length.
func (b *Buffer) Size() int64 {
	return int64(len(b.data))
}

// Bytes returns the buffer contents.
func (b *Buffer) Bytes() []byte {
	return b.data
}
