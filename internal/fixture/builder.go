package fixture

import (
	"encoding/binary"
	"fmt"

	"github.com/robert-malhotra/go-ogawa/internal/alloc"
	binpkg "github.com/robert-malhotra/go-ogawa/internal/binary"
	"github.com/robert-malhotra/go-ogawa/internal/chunk"
	"github.com/robert-malhotra/go-ogawa/internal/fileheader"
)

// Builder places chunks into an in-memory file image.
type Builder struct {
	// Frozen is written into the file header. New sets it.
	Frozen bool

	// Version is the Ogawa format version written into the file header.
	Version uint16

	buf   *binpkg.Buffer
	alloc *alloc.Allocator
}

// New creates a builder for a frozen version 1 archive.
func New() *Builder {
	b := &Builder{
		Frozen:  true,
		Version: fileheader.Version,
		buf:     &binpkg.Buffer{},
		alloc:   alloc.New(fileheader.Size),
	}
	b.buf.WriteAt(make([]byte, fileheader.Size), 0)
	return b
}

// Data writes a data chunk and returns its address. An empty payload yields
// the empty data address without writing.
func (b *Builder) Data(payload []byte) chunk.Address {
	if len(payload) == 0 {
		return chunk.EmptyData
	}
	off := b.alloc.Chunk(8+uint64(len(payload)), "data")
	w := binpkg.NewWriter(b.buf).At(int64(off))
	w.WriteUint64(uint64(len(payload)))
	w.WriteBytes(payload)
	return chunk.DataAddress(int64(off))
}

// Group writes a group chunk and returns its address. A group without
// children yields the empty group address without writing.
func (b *Builder) Group(children ...chunk.Address) chunk.Address {
	if len(children) == 0 {
		return chunk.EmptyGroup
	}
	off := b.alloc.Chunk(8+8*uint64(len(children)), "group")
	w := binpkg.NewWriter(b.buf).At(int64(off))
	w.WriteUint64(uint64(len(children)))
	for _, c := range children {
		w.WriteUint64(uint64(c))
	}
	return chunk.GroupAddress(int64(off))
}

// Int32 writes a 4-byte data chunk holding v.
func (b *Builder) Int32(v int32) chunk.Address {
	return b.Data(binary.LittleEndian.AppendUint32(nil, uint32(v)))
}

// Bytes finishes the image with top as the root address and returns it.
func (b *Builder) Bytes(top chunk.Address) ([]byte, error) {
	if err := b.alloc.Validate(); err != nil {
		return nil, fmt.Errorf("fixture layout: %w", err)
	}
	h := fileheader.Header{Frozen: b.Frozen, Version: b.Version, RootAddress: uint64(top)}
	b.buf.WriteAt(h.Encode(), 0)
	out := make([]byte, b.buf.Size())
	copy(out, b.buf.Bytes())
	return out, nil
}

// Stats reports the placement statistics so far.
func (b *Builder) Stats() alloc.Stats {
	return b.alloc.Stats()
}
