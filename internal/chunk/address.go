package chunk

import "fmt"

// Address names a chunk: bit 63 tags Data, the low 63 bits are the offset.
type Address uint64

const (
	// DataBit tags an address as a Data chunk.
	DataBit Address = 1 << 63

	// EmptyGroup is the address of the empty group.
	EmptyGroup Address = 0

	// EmptyData is the address of the empty data chunk.
	EmptyData Address = DataBit

	// Alignment is the required alignment of every chunk offset.
	Alignment = 8
)

// IsGroup reports whether addr names a Group chunk. It never reads.
func IsGroup(addr Address) bool {
	return addr&DataBit == 0
}

// IsData reports whether addr names a Data chunk.
func (a Address) IsData() bool {
	return a&DataBit != 0
}

// Offset returns the byte offset of the chunk.
func (a Address) Offset() int64 {
	return int64(a &^ DataBit)
}

// IsEmpty reports whether a is the empty sentinel of its kind.
func (a Address) IsEmpty() bool {
	return a.Offset() == 0
}

// GroupAddress returns the group address of a chunk at offset.
func GroupAddress(offset int64) Address {
	return Address(offset)
}

// DataAddress returns the data address of a chunk at offset.
func DataAddress(offset int64) Address {
	return Address(offset) | DataBit
}

func (a Address) String() string {
	kind := "group"
	if a.IsData() {
		kind = "data"
	}
	if a.IsEmpty() {
		return "empty " + kind
	}
	return fmt.Sprintf("%s@0x%x", kind, a.Offset())
}
