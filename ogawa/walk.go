package ogawa

import (
	"errors"

	"github.com/robert-malhotra/go-ogawa/internal/chunk"
	"github.com/robert-malhotra/go-ogawa/internal/errs"
)

// SkipSubtree can be returned from a walk callback to skip the children of
// the node just visited. Any other non-nil error stops the walk and is
// returned by it.
var SkipSubtree = errors.New("skip this subtree")

// All walkers are pre-order over an explicit stack. Children are pushed last
// to first so they pop, and are visited, in declaration order.

// ChunkWalkFunc is called for each chunk. depth is 0 for the top group and
// index is the chunk's slot in its parent (-1 for the top group).
type ChunkWalkFunc func(depth, index int, addr Address, c Chunk) error

type chunkFrame struct {
	depth  int
	index  int
	addr   Address
	parent *chunkFrame
	group  *chunk.Group
}

// WalkChunks visits the raw chunk tree of a from its top group. A group that
// contains itself is reported as Corrupt.
func WalkChunks(a *Archive, fn ChunkWalkFunc) error {
	top := a.TopGroup()
	stack := []*chunkFrame{{depth: 0, index: -1, addr: chunk.GroupAddress(top.Position), group: top}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		var c Chunk
		if f.group != nil {
			c = Chunk{Group: f.group}
		} else {
			parent := f.parent.group
			var err error
			if c, err = a.LoadChunk(parent, f.index); err != nil {
				return err
			}
			f.group = c.Group
		}

		err := fn(f.depth, f.index, f.addr, c)
		if errors.Is(err, SkipSubtree) {
			continue
		}
		if err != nil {
			return err
		}
		if !c.IsGroup() || c.Group.IsEmpty() {
			continue
		}
		for p := f.parent; p != nil; p = p.parent {
			if p.group.Position == c.Group.Position {
				return errs.Corrupt("walk chunks", c.Group.Position, "group contains itself")
			}
		}

		for i := c.Group.ChildCount() - 1; i >= 0; i-- {
			stack = append(stack, &chunkFrame{
				depth:  f.depth + 1,
				index:  i,
				addr:   c.Group.Children[i],
				parent: f,
			})
		}
	}
	return nil
}

// ObjectWalkFunc is called for each object. On a load failure obj is nil and
// err describes it; returning nil then skips that object.
type ObjectWalkFunc func(fullName string, obj *ObjectReader, err error) error

type objectFrame struct {
	obj    *ObjectReader
	parent *ObjectReader
	index  int
}

// WalkObjects visits root and every object below it.
func WalkObjects(root *ObjectReader, fn ObjectWalkFunc) error {
	stack := []objectFrame{{obj: root}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		obj := f.obj
		var name string
		var loadErr error
		if obj == nil {
			h, _ := f.parent.ChildHeader(f.index)
			name = h.FullName
			obj, loadErr = f.parent.LoadChild(f.index)
		} else {
			name = obj.FullName()
		}

		if loadErr != nil {
			if err := fn(name, nil, loadErr); err != nil && !errors.Is(err, SkipSubtree) {
				return err
			}
			continue
		}

		err := fn(name, obj, nil)
		if errors.Is(err, SkipSubtree) {
			continue
		}
		if err != nil {
			return err
		}
		for i := obj.NumChildren() - 1; i >= 0; i-- {
			stack = append(stack, objectFrame{parent: obj, index: i})
		}
	}
	return nil
}

// PropertyWalkFunc is called for each property. On a load failure prop is
// nil and err describes it; returning nil then skips that property.
type PropertyWalkFunc func(path string, prop PropertyReader, err error) error

type propertyFrame struct {
	parent *CompoundPropertyReader
	index  int
}

// WalkProperties visits every property below c, not including c itself.
func WalkProperties(c *CompoundPropertyReader, fn PropertyWalkFunc) error {
	if c == nil {
		return nil
	}
	var stack []propertyFrame
	push := func(parent *CompoundPropertyReader) {
		for i := parent.SubPropertyCount() - 1; i >= 0; i-- {
			stack = append(stack, propertyFrame{parent: parent, index: i})
		}
	}
	push(c)

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		h, _ := f.parent.SubPropertyHeader(f.index)
		path := joinPropertyPath(f.parent.Path(), h.Name)
		prop, err := f.parent.LoadSubProperty(f.index)
		if err != nil {
			if err := fn(path, nil, err); err != nil && !errors.Is(err, SkipSubtree) {
				return err
			}
			continue
		}

		err = fn(path, prop, nil)
		if errors.Is(err, SkipSubtree) {
			continue
		}
		if err != nil {
			return err
		}
		if sub, ok := prop.(*CompoundPropertyReader); ok {
			push(sub)
		}
	}
	return nil
}
