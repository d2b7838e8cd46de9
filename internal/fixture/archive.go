package fixture

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/robert-malhotra/go-ogawa/internal/chunk"
	"github.com/robert-malhotra/go-ogawa/internal/header"
	"github.com/robert-malhotra/go-ogawa/internal/pod"
	"github.com/robert-malhotra/go-ogawa/internal/table"
)

// Archive describes a whole archive.
type Archive struct {
	ArchiveVersion int32
	LibraryVersion int32
	MetaData       table.MetaData

	// IndexedMetaData are the table entries from index 1 on.
	IndexedMetaData []table.MetaData

	// TimeSamplings defaults to a single identity sampling.
	TimeSamplings []*table.TimeSampling

	// Root holds the root object's properties and children. Its name and
	// metadata are ignored.
	Root *Object
}

// Object describes one object.
type Object struct {
	Name string

	// MetaData is written inline unless MetaDataIndex is non-zero.
	MetaData      table.MetaData
	MetaDataIndex uint8

	Properties []*Property
	Children   []*Object
}

// Property describes one property.
type Property struct {
	Name     string
	Kind     header.PropertyKind
	DataType pod.DataType

	MetaData      table.MetaData
	MetaDataIndex uint8

	TimeSamplingIndex uint32
	Homogeneous       bool
	ScalarLike        bool

	// Indexed stores an explicit indirection table instead of the
	// first/last changed range.
	Indexed bool

	// Samples are the logical samples in order.
	Samples []pod.Array

	// Dims optionally gives the dimensions of each array sample.
	Dims [][]uint64

	// Children are the sub-properties of a compound.
	Children []*Property
}

// LibraryVersion is written when an Archive leaves it zero.
const LibraryVersion = 10709

// Build lays out a into a new file image.
func Build(a *Archive) ([]byte, error) {
	b := New()
	top, err := b.Archive(a)
	if err != nil {
		return nil, err
	}
	return b.Bytes(top)
}

// Archive writes every chunk of a and returns the address of the top group.
func (b *Builder) Archive(a *Archive) (chunk.Address, error) {
	root := a.Root
	if root == nil {
		root = &Object{}
	}
	rootAddr, err := b.object(root)
	if err != nil {
		return 0, err
	}

	samplings := a.TimeSamplings
	if len(samplings) == 0 {
		samplings = []*table.TimeSampling{{MaxSample: 1, TimePerCycle: 1, StoredTimes: []float64{0}}}
	}
	libVersion := a.LibraryVersion
	if libVersion == 0 {
		libVersion = LibraryVersion
	}

	return b.Group(
		b.Int32(a.ArchiveVersion),
		b.Int32(libVersion),
		rootAddr,
		b.Data([]byte(a.MetaData.Serialize())),
		b.Data(table.EncodeTimeSamplings(samplings)),
		b.Data(table.EncodeIndexedMetaData(a.IndexedMetaData)),
	), nil
}

func metaDataIndex(md table.MetaData, index uint8) uint8 {
	if index != 0 {
		return index
	}
	if md.Len() > 0 {
		return header.InlineMetaData
	}
	return 0
}

// object writes o's group: properties, child objects, then the child
// headers blob.
func (b *Builder) object(o *Object) (chunk.Address, error) {
	props := chunk.EmptyGroup
	if len(o.Properties) > 0 {
		var err error
		if props, err = b.compound(o.Properties); err != nil {
			return 0, fmt.Errorf("object %q: %w", o.Name, err)
		}
	}

	children := []chunk.Address{props}
	headers := make([]*header.ObjectHeader, 0, len(o.Children))
	for _, c := range o.Children {
		addr, err := b.object(c)
		if err != nil {
			return 0, err
		}
		children = append(children, addr)
		headers = append(headers, &header.ObjectHeader{
			Name:          c.Name,
			MetaData:      c.MetaData,
			MetaDataIndex: metaDataIndex(c.MetaData, c.MetaDataIndex),
		})
	}
	children = append(children, b.Data(header.EncodeObjectHeaders(headers)))
	return b.Group(children...), nil
}

func (b *Builder) compound(props []*Property) (chunk.Address, error) {
	children := make([]chunk.Address, 0, len(props)+1)
	headers := make([]*header.PropertyHeader, 0, len(props))
	for _, p := range props {
		addr, h, err := b.property(p)
		if err != nil {
			return 0, fmt.Errorf("property %q: %w", p.Name, err)
		}
		children = append(children, addr)
		headers = append(headers, h)
	}
	children = append(children, b.Data(header.EncodePropertyHeaders(headers)))
	return b.Group(children...), nil
}

func (b *Builder) property(p *Property) (chunk.Address, *header.PropertyHeader, error) {
	h := &header.PropertyHeader{
		Name:              p.Name,
		Kind:              p.Kind,
		DataType:          p.DataType,
		MetaData:          p.MetaData,
		MetaDataIndex:     metaDataIndex(p.MetaData, p.MetaDataIndex),
		TimeSamplingIndex: p.TimeSamplingIndex,
		Homogeneous:       p.Homogeneous,
		ScalarLike:        p.ScalarLike,
		Indexed:           p.Indexed,
	}
	if p.Kind == header.Compound {
		addr, err := b.compound(p.Children)
		return addr, h, err
	}
	if p.DataType.Extent == 0 {
		h.DataType.Extent = 1
	}
	if p.Dims != nil && len(p.Dims) != len(p.Samples) {
		return 0, nil, fmt.Errorf("%d dims for %d samples", len(p.Dims), len(p.Samples))
	}

	samples := make([]sample, len(p.Samples))
	for i, s := range p.Samples {
		if s.Kind() != p.DataType.Kind {
			return 0, nil, fmt.Errorf("sample %d is %s, property is %s", i, s.Kind(), p.DataType.Kind)
		}
		samples[i].payload = pod.Encode(s)
		if p.Dims != nil {
			samples[i].dims = p.Dims[i]
		}
	}

	h.NextSampleIndex = uint32(len(samples))
	var slots []sample
	var indirection []uint32
	if p.Indexed {
		slots, indirection = dedupRuns(samples)
		h.FirstChangedIndex = 1
		if h.NextSampleIndex > 0 {
			h.LastChangedIndex = h.NextSampleIndex - 1
		}
	} else {
		slots, h.FirstChangedIndex, h.LastChangedIndex = changedRange(samples)
	}

	var children []chunk.Address
	for _, s := range slots {
		children = append(children, b.sampleData(s.payload))
		if p.Kind == header.Array {
			children = append(children, b.Data(encodeDims(s.dims)))
		}
	}
	if p.Indexed {
		children = append(children, b.Data(pod.Encode(pod.NewArray(indirection))))
	}
	return b.Group(children...), h, nil
}

type sample struct {
	payload []byte
	dims    []uint64
}

func (s sample) equal(o sample) bool {
	return bytes.Equal(s.payload, o.payload) && slices.Equal(s.dims, o.dims)
}

// changedRange keeps the first sample plus the span between the first and
// last sample that differs from its predecessor.
func changedRange(samples []sample) (slots []sample, first, last uint32) {
	if len(samples) == 0 {
		return nil, 0, 0
	}
	for i := 1; i < len(samples); i++ {
		if !samples[i].equal(samples[i-1]) {
			if first == 0 {
				first = uint32(i)
			}
			last = uint32(i)
		}
	}
	if first == 0 {
		return samples[:1], 0, 0
	}
	slots = append([]sample{samples[0]}, samples[first:last+1]...)
	return slots, first, last
}

// dedupRuns stores each run of identical consecutive samples once.
func dedupRuns(samples []sample) (slots []sample, indirection []uint32) {
	indirection = make([]uint32, len(samples))
	for i, s := range samples {
		if i == 0 || !s.equal(samples[i-1]) {
			slots = append(slots, s)
		}
		indirection[i] = uint32(len(slots) - 1)
	}
	return slots, indirection
}

// sampleData writes a payload prefixed by its digest.
func (b *Builder) sampleData(payload []byte) chunk.Address {
	if len(payload) == 0 {
		return chunk.EmptyData
	}
	d := pod.ComputeDigest(payload)
	return b.Data(append(d[:], payload...))
}

func encodeDims(dims []uint64) []byte {
	var out []byte
	for _, d := range dims {
		out = binary.LittleEndian.AppendUint64(out, d)
	}
	return out
}
