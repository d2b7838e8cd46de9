package ogawa

import (
	"fmt"
	"strings"

	"github.com/robert-malhotra/go-ogawa/internal/chunk"
	"github.com/robert-malhotra/go-ogawa/internal/errs"
	"github.com/robert-malhotra/go-ogawa/internal/header"
)

// PropertyReader is one of *ScalarPropertyReader, *ArrayPropertyReader or
// *CompoundPropertyReader. The set is closed.
type PropertyReader interface {
	// Name returns the property name.
	Name() string

	// Path returns the property path below the object, e.g. ".geom/P".
	Path() string

	// Header returns the property header.
	Header() *PropertyHeader

	property()
}

// KindOf returns the variant of p.
func KindOf(p PropertyReader) PropertyKind {
	switch p.(type) {
	case *ScalarPropertyReader:
		return KindScalar
	case *ArrayPropertyReader:
		return KindArray
	default:
		return KindCompound
	}
}

// Describe returns a one-line summary of p.
func Describe(p PropertyReader) string {
	switch p := p.(type) {
	case *ScalarPropertyReader:
		return fmt.Sprintf("%s: scalar %s, %d samples", p.Name(), p.DataType(), p.SampleCount())
	case *ArrayPropertyReader:
		kind := "array"
		if p.header.ScalarLike {
			kind = "scalar-like array"
		}
		return fmt.Sprintf("%s: %s %s, %d samples", p.Name(), kind, p.DataType(), p.SampleCount())
	case *CompoundPropertyReader:
		return fmt.Sprintf("%s: compound, %d sub-properties", p.Name(), p.SubPropertyCount())
	default:
		return fmt.Sprintf("%T", p)
	}
}

func joinPropertyPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}

// CompoundPropertyReader is a named set of sub-properties.
type CompoundPropertyReader struct {
	archive *Archive
	header  *PropertyHeader
	path    string
	group   *chunk.Group
	subs    []*PropertyHeader
	names   map[string]int
}

// newCompoundReader reads the sub-property headers blob, the last child of
// group. Every earlier child backs one sub-property.
func newCompoundReader(a *Archive, group *chunk.Group, h *PropertyHeader, path string) (*CompoundPropertyReader, error) {
	c := &CompoundPropertyReader{archive: a, header: h, path: path, group: group}
	n := group.ChildCount()
	if n == 0 {
		return c, nil
	}

	blob, err := group.LoadData(a.reader, n-1)
	if err != nil {
		return nil, err
	}
	buf, err := blob.Read(a.reader)
	if err != nil {
		return nil, err
	}
	c.subs, err = header.ReadPropertyHeaders(buf, blob.Position, a.indexed, a.samplings)
	if err != nil {
		return nil, err
	}
	if len(c.subs) != n-1 {
		return nil, errs.Mismatch("read compound property", group.Position,
			fmt.Sprintf("sub-property headers of %q", path), n-1, len(c.subs))
	}

	c.names = make(map[string]int, len(c.subs))
	for i, h := range c.subs {
		c.names[h.Name] = i
	}
	return c, nil
}

func (c *CompoundPropertyReader) property() {}

// Name returns the property name; the top-level compound of an object has
// an empty name.
func (c *CompoundPropertyReader) Name() string {
	return c.header.Name
}

// Path returns the property path below the object.
func (c *CompoundPropertyReader) Path() string {
	return c.path
}

// Header returns the property header.
func (c *CompoundPropertyReader) Header() *PropertyHeader {
	return c.header
}

// Group returns the group backing the compound.
func (c *CompoundPropertyReader) Group() *Group {
	return c.group
}

// SubPropertyCount returns the number of sub-properties.
func (c *CompoundPropertyReader) SubPropertyCount() int {
	return len(c.subs)
}

// SubPropertyHeader returns the header of sub-property index without
// loading it.
func (c *CompoundPropertyReader) SubPropertyHeader(index int) (*PropertyHeader, error) {
	if index < 0 || index >= len(c.subs) {
		return nil, errs.OutOfBounds("sub-property header", index, len(c.subs))
	}
	return c.subs[index], nil
}

// SubPropertyIndex returns the index of the sub-property named name.
func (c *CompoundPropertyReader) SubPropertyIndex(name string) (int, bool) {
	i, ok := c.names[name]
	return i, ok
}

// LoadSubProperty loads sub-property index.
func (c *CompoundPropertyReader) LoadSubProperty(index int) (PropertyReader, error) {
	if index < 0 || index >= len(c.subs) {
		return nil, errs.OutOfBounds("load sub-property", index, len(c.subs))
	}
	g, err := c.group.LoadGroup(c.archive.reader, index)
	if err != nil {
		return nil, err
	}

	// Each load gets its own header copy; indexed properties install their
	// indirection table into it.
	h := *c.subs[index]
	path := joinPropertyPath(c.path, h.Name)
	switch h.Kind {
	case KindCompound:
		sub, err := newCompoundReader(c.archive, g, &h, path)
		if err != nil {
			return nil, err
		}
		return sub, nil
	case KindScalar:
		s, err := newSampleStore(c.archive, g, &h, path, 1)
		if err != nil {
			return nil, err
		}
		return &ScalarPropertyReader{sampleStore: s}, nil
	default:
		s, err := newSampleStore(c.archive, g, &h, path, 2)
		if err != nil {
			return nil, err
		}
		return &ArrayPropertyReader{sampleStore: s}, nil
	}
}

// LoadSubPropertyByName loads the sub-property called name.
func (c *CompoundPropertyReader) LoadSubPropertyByName(name string) (PropertyReader, error) {
	i, ok := c.names[name]
	if !ok {
		return nil, fmt.Errorf("%w: compound %q has no property %q", ErrNotFound, c.path, name)
	}
	return c.LoadSubProperty(i)
}

// LoadPath loads the property at a slash-separated path below c.
func (c *CompoundPropertyReader) LoadPath(path string) (PropertyReader, error) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		return nil, fmt.Errorf("%w: empty property path", ErrInvalidPath)
	}

	current := c
	last := len(parts) - 1
	for _, name := range parts[:last] {
		p, err := current.LoadSubPropertyByName(name)
		if err != nil {
			return nil, err
		}
		next, ok := p.(*CompoundPropertyReader)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrNotCompound, p.Path())
		}
		current = next
	}
	return current.LoadSubPropertyByName(parts[last])
}
