// Package binary provides low-level binary I/O for Ogawa archive parsing.
//
// All reads are addressed by absolute file offset; the reader keeps no cursor
// into the underlying source. Parsed blobs are walked with a Decoder.
package binary

import (
	"encoding/binary"
	"io"

	"github.com/robert-malhotra/go-ogawa/internal/errs"
)

// UnknownSize is reported by Size when the source cannot report its length.
const UnknownSize int64 = -1

// Sizer is implemented by sources that know their total length.
type Sizer interface {
	Size() int64
}

// Reader reads little-endian values at absolute offsets of an io.ReaderAt.
type Reader struct {
	r    io.ReaderAt
	size int64
}

// NewReader creates a reader over r. If r implements Sizer, reads are checked
// against its size before touching the source.
func NewReader(r io.ReaderAt) *Reader {
	size := UnknownSize
	if s, ok := r.(Sizer); ok {
		size = s.Size()
	}
	return &Reader{r: r, size: size}
}

// NewReaderSize creates a reader with an explicit size.
func NewReaderSize(r io.ReaderAt, size int64) *Reader {
	return &Reader{r: r, size: size}
}

// Size returns the source length, or UnknownSize.
func (r *Reader) Size() int64 {
	return r.size
}

// Source returns the underlying io.ReaderAt.
func (r *Reader) Source() io.ReaderAt {
	return r.r
}

// CheckRange reports Corrupt if [offset, offset+n) is not inside the source.
func (r *Reader) CheckRange(op string, offset int64, n uint64) error {
	if offset < 0 {
		return errs.Corrupt(op, offset, "negative offset")
	}
	if r.size == UnknownSize {
		return nil
	}
	if uint64(offset) > uint64(r.size) || n > uint64(r.size)-uint64(offset) {
		return errs.Corrupt(op, offset, "%d bytes extend past end of file (size %d)", n, r.size)
	}
	return nil
}

// blockSize bounds each read when the source size is unknown, so a corrupt
// length fails at end of file instead of allocating the whole claimed range.
const blockSize = 1 << 20

// ReadAt reads exactly n bytes at offset.
func (r *Reader) ReadAt(op string, offset int64, n int) ([]byte, error) {
	if n < 0 {
		return nil, errs.Corrupt(op, offset, "negative length %d", n)
	}
	if n == 0 {
		return nil, nil
	}
	if err := r.CheckRange(op, offset, uint64(n)); err != nil {
		return nil, err
	}
	if r.size != UnknownSize || n <= blockSize {
		buf := make([]byte, n)
		if err := r.readFull(op, offset, buf); err != nil {
			return nil, err
		}
		return buf, nil
	}

	buf := make([]byte, 0, blockSize)
	for len(buf) < n {
		step := min(blockSize, n-len(buf))
		block := make([]byte, step)
		if err := r.readFull(op, offset+int64(len(buf)), block); err != nil {
			return nil, err
		}
		buf = append(buf, block...)
	}
	return buf, nil
}

func (r *Reader) readFull(op string, offset int64, buf []byte) error {
	read, err := r.r.ReadAt(buf, offset)
	if read == len(buf) {
		// io.ReaderAt may return io.EOF together with a full read.
		return nil
	}
	if err == nil {
		err = io.ErrUnexpectedEOF
	}
	return errs.FromRead(op, offset, len(buf), err)
}

// ReadUint64At reads an unsigned 64-bit integer at offset.
func (r *Reader) ReadUint64At(op string, offset int64) (uint64, error) {
	buf, err := r.ReadAt(op, offset, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf), nil
}

// ReadUint64sAt reads count consecutive unsigned 64-bit integers at offset.
func (r *Reader) ReadUint64sAt(op string, offset int64, count uint64) ([]uint64, error) {
	if count == 0 {
		return nil, nil
	}
	if count > (1<<62)/8 {
		return nil, errs.Corrupt(op, offset, "implausible count %d", count)
	}
	if err := r.CheckRange(op, offset, count*8); err != nil {
		return nil, err
	}
	buf, err := r.ReadAt(op, offset, int(count*8))
	if err != nil {
		return nil, err
	}
	out := make([]uint64, count)
	for i := range out {
		out[i] = binary.LittleEndian.Uint64(buf[i*8:])
	}
	return out, nil
}
