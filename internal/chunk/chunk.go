package chunk

import (
	"math"

	"github.com/robert-malhotra/go-ogawa/internal/binary"
	"github.com/robert-malhotra/go-ogawa/internal/errs"
	"github.com/robert-malhotra/go-ogawa/internal/pod"
)

// Group is a node holding an ordered list of child addresses.
type Group struct {
	// Position is the offset the group was loaded from (0 for the empty group).
	Position int64

	// Children are the child addresses in file order.
	Children []Address
}

// ChildCount returns len(Children).
func (g *Group) ChildCount() int {
	return len(g.Children)
}

// IsEmpty reports whether g is the empty group.
func (g *Group) IsEmpty() bool {
	return g.Position == 0
}

// Data is an opaque byte range. The payload is read only on request.
type Data struct {
	// Position is the offset of the first payload byte (0 for empty data).
	Position int64

	// Size is the payload length in bytes.
	Size uint64
}

// IsEmpty reports whether d is the empty data chunk.
func (d Data) IsEmpty() bool {
	return d.Position == 0
}

// Chunk is either a *Group or a Data.
type Chunk struct {
	Group *Group
	Data  Data
}

// IsGroup reports whether c holds a group.
func (c Chunk) IsGroup() bool {
	return c.Group != nil
}

// ReadRoot reads the archive's top group, whose address comes from the file
// header rather than from a parent group. The root may not be empty.
func ReadRoot(r *binary.Reader, addr uint64) (*Group, error) {
	a := Address(addr)
	if !IsGroup(a) {
		return nil, errs.Corrupt("read root group", a.Offset(), "root address %s is not a group", a)
	}
	if a.IsEmpty() {
		return nil, errs.Corrupt("read root group", 0, "root address is empty")
	}
	return readGroup(r, a)
}

func readGroup(r *binary.Reader, a Address) (*Group, error) {
	if a.IsEmpty() {
		return &Group{}, nil
	}
	off := a.Offset()
	if off%Alignment != 0 {
		return nil, errs.Corrupt("load group", off, "address is not %d-byte aligned", Alignment)
	}
	count, err := r.ReadUint64At("load group", off)
	if err != nil {
		return nil, err
	}
	raw, err := r.ReadUint64sAt("load group", off+8, count)
	if err != nil {
		return nil, err
	}
	children := make([]Address, len(raw))
	for i, v := range raw {
		children[i] = Address(v)
	}
	return &Group{Position: off, Children: children}, nil
}

func readData(r *binary.Reader, a Address) (Data, error) {
	if a.IsEmpty() {
		return Data{}, nil
	}
	off := a.Offset()
	if off%Alignment != 0 {
		return Data{}, errs.Corrupt("load data", off, "address is not %d-byte aligned", Alignment)
	}
	size, err := r.ReadUint64At("load data", off)
	if err != nil {
		return Data{}, err
	}
	if uint64(off) > math.MaxInt64-8 || size > math.MaxInt64-8-uint64(off) {
		return Data{}, errs.Corrupt("load data", off, "size %d extends past the largest file offset", size)
	}
	if err := r.CheckRange("load data", off+8, size); err != nil {
		return Data{}, err
	}
	return Data{Position: off + 8, Size: size}, nil
}

func (g *Group) child(op string, index int) (Address, error) {
	if index < 0 || index >= len(g.Children) {
		return 0, errs.OutOfBounds(op, index, len(g.Children))
	}
	return g.Children[index], nil
}

// LoadGroup loads child index as a group. An empty group address yields the
// empty group; a data address is Corrupt.
func (g *Group) LoadGroup(r *binary.Reader, index int) (*Group, error) {
	a, err := g.child("load group", index)
	if err != nil {
		return nil, err
	}
	if !IsGroup(a) {
		return nil, errs.CorruptIndex("load group", g.Position, index, "child %s is not a group", a)
	}
	return readGroup(r, a)
}

// LoadData loads child index as a data chunk. An empty data address yields
// the empty data; a group address is Corrupt.
func (g *Group) LoadData(r *binary.Reader, index int) (Data, error) {
	a, err := g.child("load data", index)
	if err != nil {
		return Data{}, err
	}
	if IsGroup(a) {
		return Data{}, errs.CorruptIndex("load data", g.Position, index, "child %s is not data", a)
	}
	return readData(r, a)
}

// LoadChunk loads child index as whichever kind its address names.
func (g *Group) LoadChunk(r *binary.Reader, index int) (Chunk, error) {
	a, err := g.child("load chunk", index)
	if err != nil {
		return Chunk{}, err
	}
	if IsGroup(a) {
		grp, err := readGroup(r, a)
		return Chunk{Group: grp}, err
	}
	d, err := readData(r, a)
	return Chunk{Data: d}, err
}

// IsChildGroup reports whether child index is a group address.
func (g *Group) IsChildGroup(index int) bool {
	return index >= 0 && index < len(g.Children) && IsGroup(g.Children[index])
}

// IsChildData reports whether child index is a data address.
func (g *Group) IsChildData(index int) bool {
	return index >= 0 && index < len(g.Children) && !IsGroup(g.Children[index])
}

// Read reads the whole payload.
func (d Data) Read(r *binary.Reader) ([]byte, error) {
	return d.ReadRange(r, 0, d.Size)
}

// ReadRange reads n payload bytes starting at off within the payload.
func (d Data) ReadRange(r *binary.Reader, off, n uint64) ([]byte, error) {
	if off > d.Size || n > d.Size-off {
		return nil, errs.Corrupt("read data", d.Position, "range [%d, %d) outside payload of %d bytes", off, off+n, d.Size)
	}
	if n == 0 {
		return []byte{}, nil
	}
	if n > math.MaxInt || off > uint64(math.MaxInt64-d.Position) {
		return nil, errs.Corrupt("read data", d.Position, "range [%d, %d) is not addressable", off, off+n)
	}
	return r.ReadAt("read data", d.Position+int64(off), int(n))
}

// ReadPODArray decodes the whole payload as elements of dt.
func (d Data) ReadPODArray(r *binary.Reader, dt pod.DataType) (pod.Array, error) {
	buf, err := d.Read(r)
	if err != nil {
		return pod.Array{}, err
	}
	arr, err := pod.Decode(dt, buf)
	if err != nil {
		return pod.Array{}, withOffset(err, d.Position)
	}
	return arr, nil
}

func withOffset(err error, off int64) error {
	if e, ok := err.(*errs.Error); ok && e.Offset == errs.NoOffset {
		cp := *e
		cp.Offset = off
		return &cp
	}
	return err
}
