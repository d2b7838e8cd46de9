// Package header parses the packed header blobs stored at the end of object
// and compound property groups.
//
// # Object headers
//
// The last child of an object group is a data chunk listing the headers of
// its child objects. Each entry is:
//
//	u32 name length, name bytes
//	u8  metadata index (0xff = inline)
//	[u32 metadata length, metadata bytes]   if inline
//
// followed by a 32-byte trailer of digests. A blob of 32 bytes or less holds
// no entries.
//
// # Property headers
//
// The last child of a compound property group lists its sub-property
// headers. Each entry starts with a u32 info word:
//
//	bits 0-1   type: compound, scalar, array, scalar-like array
//	bits 2-3   width of the following integers: u8, u16, u32
//	bits 4-7   POD kind
//	bit  8     time sampling index present
//	bit  9     first and last changed indices present
//	bit  10    homogeneous
//	bit  11    constant
//	bits 12-19 extent
//	bits 20-27 metadata index (0xff = inline)
//	bit  28    sample indirection table stored as the group's last child
//
// # Sample mapping
//
// [PropertyHeader.MapIndex] translates a logical sample index into the
// physical child slot holding its bytes. Consecutive identical samples are
// written once, so several logical indices may share a slot.
package header
