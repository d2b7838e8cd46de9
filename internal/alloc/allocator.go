package alloc

import (
	"fmt"
	"sort"
	"sync"
)

// Alignment is the boundary every chunk starts on.
const Alignment = 8

// Allocator is an append-only, aligned space allocator.
type Allocator struct {
	mu sync.Mutex

	// end is the next free offset, always aligned.
	end uint64

	// base is the first offset that may be handed out.
	base uint64

	allocations []Allocation
	stats       Stats
}

// Allocation records one chunk placement.
type Allocation struct {
	Offset uint64
	Size   uint64
	Tag    string
}

// Stats summarizes the allocations made.
type Stats struct {
	Chunks  uint64 // number of chunks placed
	Bytes   uint64 // bytes requested, excluding padding
	Padding uint64 // bytes lost to alignment
	Largest uint64 // largest single request
}

// New creates an allocator whose first chunk lands at or after base.
func New(base uint64) *Allocator {
	aligned := align(base)
	return &Allocator{end: aligned, base: base, stats: Stats{Padding: aligned - base}}
}

func align(v uint64) uint64 {
	return (v + Alignment - 1) &^ (Alignment - 1)
}

// Chunk reserves size bytes and returns the aligned offset. A zero-size
// request still reserves an aligned slot so every chunk has a distinct
// offset.
func (a *Allocator) Chunk(size uint64, tag string) uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	off := a.end
	reserved := align(max(size, 1))
	a.end += reserved

	a.allocations = append(a.allocations, Allocation{Offset: off, Size: size, Tag: tag})
	a.stats.Chunks++
	a.stats.Bytes += size
	a.stats.Padding += reserved - size
	a.stats.Largest = max(a.stats.Largest, size)
	return off
}

// End returns the offset one past the last reserved byte.
func (a *Allocator) End() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.end
}

// Base returns the offset allocation started from.
func (a *Allocator) Base() uint64 {
	return a.base
}

// Stats returns a copy of the allocation statistics.
func (a *Allocator) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}

// Allocations returns a copy of the allocations in the order they were made.
func (a *Allocator) Allocations() []Allocation {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Allocation(nil), a.allocations...)
}

// Validate checks that allocations are aligned, inside [base, end), and
// pairwise disjoint.
func (a *Allocator) Validate() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	sorted := append([]Allocation(nil), a.allocations...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Offset < sorted[j].Offset })

	for i, c := range sorted {
		if c.Offset%Alignment != 0 {
			return fmt.Errorf("%s chunk at 0x%x is not %d-byte aligned", c.Tag, c.Offset, Alignment)
		}
		if c.Offset < a.base {
			return fmt.Errorf("%s chunk at 0x%x is before base 0x%x", c.Tag, c.Offset, a.base)
		}
		if c.Offset+c.Size > a.end {
			return fmt.Errorf("%s chunk at 0x%x size %d extends past end 0x%x", c.Tag, c.Offset, c.Size, a.end)
		}
		if i > 0 {
			prev := sorted[i-1]
			if prev.Offset+prev.Size > c.Offset {
				return fmt.Errorf("overlapping chunks: %s [0x%x, size %d] and %s [0x%x, size %d]",
					prev.Tag, prev.Offset, prev.Size, c.Tag, c.Offset, c.Size)
			}
		}
	}
	return nil
}

// Reset forgets every allocation.
func (a *Allocator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.end = align(a.base)
	a.allocations = nil
	a.stats = Stats{Padding: a.end - a.base}
}
