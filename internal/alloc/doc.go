// Package alloc hands out file offsets for chunks when an archive image is
// assembled.
//
// Every Ogawa chunk starts on an 8-byte boundary and chunks are only ever
// appended, so the [Allocator] is a bump pointer that rounds each request up
// to the chunk alignment and records what it handed out. [Allocator.Validate]
// checks the recorded allocations never overlap, which catches builder bugs
// that would otherwise surface as confusing decode failures.
//
//	a := alloc.New(fileheader.Size)
//	off := a.Chunk(8 + 8*uint64(len(children)), "group")
package alloc
