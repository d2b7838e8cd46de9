package pod

import (
	"encoding/binary"

	"github.com/spaolacci/murmur3"
)

// DigestSize is the length of the digest that prefixes every non-empty
// sample data chunk.
const DigestSize = 16

// Digest is the 128-bit content key of a sample payload.
type Digest [DigestSize]byte

// ComputeDigest returns the MurmurHash3 x64 128-bit digest of payload, laid
// out as two little-endian 64-bit words.
func ComputeDigest(payload []byte) Digest {
	h1, h2 := murmur3.Sum128(payload)
	var d Digest
	binary.LittleEndian.PutUint64(d[:8], h1)
	binary.LittleEndian.PutUint64(d[8:], h2)
	return d
}
