package fileheader

import (
	"bytes"
	"encoding/binary"

	binpkg "github.com/robert-malhotra/go-ogawa/internal/binary"
	"github.com/robert-malhotra/go-ogawa/internal/errs"
)

// Magic is the Ogawa file signature.
var Magic = []byte{'O', 'g', 'a', 'w', 'a'}

const (
	// Size is the length of the file header in bytes.
	Size = 16

	// Version is the only Ogawa format version this package reads.
	Version uint16 = 1

	frozenFlag = 0xff
)

// Header contains the fixed Ogawa file header fields.
type Header struct {
	// Frozen is true once the writer has closed the archive.
	Frozen bool

	// Version is the Ogawa format version.
	Version uint16

	// RootAddress is the address of the archive's top group.
	RootAddress uint64
}

// Read parses the file header at offset 0.
func Read(r *binpkg.Reader) (*Header, error) {
	buf, err := r.ReadAt("read file header", 0, Size)
	if err != nil {
		return nil, err
	}
	return Parse(buf)
}

// Parse parses a 16-byte file header.
func Parse(buf []byte) (*Header, error) {
	if len(buf) < Size {
		return nil, errs.Mismatch("read file header", 0, "header length", Size, len(buf))
	}
	if !bytes.Equal(buf[:len(Magic)], Magic) {
		return nil, errs.Corrupt("read file header", 0, "bad magic %q", buf[:len(Magic)])
	}

	h := &Header{
		Frozen:      buf[5] == frozenFlag,
		Version:     binary.BigEndian.Uint16(buf[6:8]),
		RootAddress: binary.LittleEndian.Uint64(buf[8:16]),
	}
	if h.Version != Version {
		return nil, errs.Unsupported("read file header", 6, "ogawa format version", h.Version)
	}
	return h, nil
}

// Encode serializes h into its 16-byte on-disk form.
func (h *Header) Encode() []byte {
	buf := make([]byte, Size)
	copy(buf, Magic)
	if h.Frozen {
		buf[5] = frozenFlag
	}
	binary.BigEndian.PutUint16(buf[6:8], h.Version)
	binary.LittleEndian.PutUint64(buf[8:16], h.RootAddress)
	return buf
}
