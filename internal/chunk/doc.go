// Package chunk decodes the Ogawa chunk-address tree.
//
// An Ogawa archive is a tree of two kinds of chunk, each named by a 64-bit
// address:
//
//   - Group: an 8-byte child count followed by that many child addresses.
//   - Data: an 8-byte size followed by that many opaque payload bytes.
//
// Bit 63 of an address tags it as Data; the remaining bits are the byte
// offset of the chunk. Offset 0 is reserved as the empty sentinel (the file
// header lives there), so the empty group is address 0 and the empty data is
// address 1<<63. Empty chunks are never read.
//
// Loads are pure functions of (parent group, child index, reader). Nothing is
// cached: two loads of the same child produce two independent values.
//
// # Usage
//
//	root, err := chunk.ReadRoot(r, hdr.RootAddress)
//	for i := 0; i < root.ChildCount(); i++ {
//	    c, err := root.LoadChunk(r, i)
//	    ...
//	}
//
// # Errors
//
//   - errs.ErrOutOfBounds: child index >= ChildCount
//   - errs.ErrCorrupt: wrong chunk kind at a slot, misaligned address, or a
//     count/size that reaches past end of file
package chunk
