package ogawa

import (
	"fmt"

	"github.com/robert-malhotra/go-ogawa/internal/chunk"
	"github.com/robert-malhotra/go-ogawa/internal/errs"
	"github.com/robert-malhotra/go-ogawa/internal/header"
)

// ObjectReader is a node of the object hierarchy. Child objects and the
// property tree are loaded on demand.
type ObjectReader struct {
	archive  *Archive
	header   *ObjectHeader
	group    *chunk.Group
	children []*ObjectHeader
	childMap map[string]int
}

// newObjectReader reads the child headers blob of group. An object group
// holds the property group, one group per child, then the headers blob; an
// empty group is an object with neither.
func newObjectReader(a *Archive, group *chunk.Group, h *ObjectHeader) (*ObjectReader, error) {
	o := &ObjectReader{archive: a, header: h, group: group}
	n := group.ChildCount()
	if n == 0 {
		return o, nil
	}
	if n < 2 {
		return nil, errs.Corrupt("read object", group.Position,
			"object %q has %d children, need properties and headers", h.FullName, n)
	}

	blob, err := group.LoadData(a.reader, n-1)
	if err != nil {
		return nil, err
	}
	buf, err := blob.Read(a.reader)
	if err != nil {
		return nil, err
	}
	o.children, err = header.ReadObjectHeaders(buf, blob.Position, h.FullName, a.indexed)
	if err != nil {
		return nil, err
	}
	if len(o.children) != n-2 {
		return nil, errs.Mismatch("read object", group.Position,
			fmt.Sprintf("child headers of %q", h.FullName), n-2, len(o.children))
	}

	o.childMap = make(map[string]int, len(o.children))
	for i, c := range o.children {
		o.childMap[c.Name] = i
	}
	return o, nil
}

// Header returns the object's header.
func (o *ObjectReader) Header() *ObjectHeader {
	return o.header
}

// Name returns the object's name.
func (o *ObjectReader) Name() string {
	return o.header.Name
}

// FullName returns the path of the object from the archive root.
func (o *ObjectReader) FullName() string {
	return o.header.FullName
}

// MetaData returns the object's metadata.
func (o *ObjectReader) MetaData() MetaData {
	return o.header.MetaData
}

// Group returns the group backing the object.
func (o *ObjectReader) Group() *Group {
	return o.group
}

// Archive returns the archive the object belongs to.
func (o *ObjectReader) Archive() *Archive {
	return o.archive
}

// NumChildren returns the number of child objects.
func (o *ObjectReader) NumChildren() int {
	return len(o.children)
}

// ChildHeader returns the header of child index without loading it.
func (o *ObjectReader) ChildHeader(index int) (*ObjectHeader, error) {
	if index < 0 || index >= len(o.children) {
		return nil, errs.OutOfBounds("object child header", index, len(o.children))
	}
	return o.children[index], nil
}

// ChildIndex returns the index of the child named name.
func (o *ObjectReader) ChildIndex(name string) (int, bool) {
	i, ok := o.childMap[name]
	return i, ok
}

// LoadChild loads child object index.
func (o *ObjectReader) LoadChild(index int) (*ObjectReader, error) {
	if index < 0 || index >= len(o.children) {
		return nil, errs.OutOfBounds("load child object", index, len(o.children))
	}
	g, err := o.group.LoadGroup(o.archive.reader, index+1)
	if err != nil {
		return nil, err
	}
	return newObjectReader(o.archive, g, o.children[index])
}

// LoadChildByName loads the child object called name.
func (o *ObjectReader) LoadChildByName(name string) (*ObjectReader, error) {
	i, ok := o.childMap[name]
	if !ok {
		return nil, fmt.Errorf("%w: object %q has no child %q", ErrNotFound, o.header.FullName, name)
	}
	return o.LoadChild(i)
}

// Properties returns the object's top-level compound property, or nil when
// the object declares no properties.
func (o *ObjectReader) Properties() (*CompoundPropertyReader, error) {
	if o.group.ChildCount() == 0 {
		return nil, nil
	}
	g, err := o.group.LoadGroup(o.archive.reader, 0)
	if err != nil {
		return nil, err
	}
	if g.IsEmpty() {
		return nil, nil
	}
	top := &PropertyHeader{Kind: KindCompound, MetaData: o.header.MetaData}
	c, err := newCompoundReader(o.archive, g, top, "")
	if err != nil {
		return nil, err
	}
	if c.SubPropertyCount() == 0 {
		return nil, nil
	}
	return c, nil
}

func (o *ObjectReader) String() string {
	return fmt.Sprintf("%s (%d children)", o.header.FullName, len(o.children))
}
