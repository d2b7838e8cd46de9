package ogawa

import (
	"fmt"

	"github.com/robert-malhotra/go-ogawa/internal/chunk"
	"github.com/robert-malhotra/go-ogawa/internal/errs"
	"github.com/robert-malhotra/go-ogawa/internal/pod"
)

// sampleStore resolves logical samples to the data chunks of a scalar or
// array property group. Physical slot p occupies children
// [p*stride, (p+1)*stride); an indexed property's indirection table follows
// the last slot.
type sampleStore struct {
	archive *Archive
	header  *PropertyHeader
	path    string
	group   *chunk.Group
	stride  int
	slots   uint32
}

func newSampleStore(a *Archive, group *chunk.Group, h *PropertyHeader, path string, stride int) (*sampleStore, error) {
	const op = "read property samples"
	s := &sampleStore{archive: a, header: h, path: path, group: group, stride: stride}

	children := group.ChildCount()
	var indices []uint32
	var tableOffset int64 = errs.NoOffset
	if h.Indexed && children > 0 {
		d, err := group.LoadData(a.reader, children-1)
		if err != nil {
			return nil, err
		}
		arr, err := d.ReadPODArray(a.reader, pod.DataType{Kind: pod.Uint32, Extent: 1})
		if err != nil {
			return nil, err
		}
		indices, _ = pod.Values[uint32](arr)
		tableOffset = d.Position
		children--
	}

	if children%stride != 0 {
		return nil, errs.Corrupt(op, group.Position, "property %q has %d children, not a multiple of %d", path, children, stride)
	}
	s.slots = uint32(children / stride)

	if h.Indexed {
		if err := h.SetIndirection(indices, s.slots, tableOffset); err != nil {
			return nil, err
		}
	} else if want := h.PhysicalSampleCount(); want > s.slots {
		return nil, errs.Mismatch(op, group.Position, "physical samples of "+path, want, s.slots)
	}
	return s, nil
}

func (s *sampleStore) property() {}

// Name returns the property name.
func (s *sampleStore) Name() string {
	return s.header.Name
}

// Path returns the property path below the object.
func (s *sampleStore) Path() string {
	return s.path
}

// Header returns the property header.
func (s *sampleStore) Header() *PropertyHeader {
	return s.header
}

// Group returns the group backing the property.
func (s *sampleStore) Group() *Group {
	return s.group
}

// DataType returns the declared element type.
func (s *sampleStore) DataType() DataType {
	return s.header.DataType
}

// MetaData returns the property's metadata.
func (s *sampleStore) MetaData() MetaData {
	return s.header.MetaData
}

// SampleCount returns the number of logical samples.
func (s *sampleStore) SampleCount() int {
	return int(s.header.NextSampleIndex)
}

// PhysicalSampleCount returns the number of distinct stored samples.
func (s *sampleStore) PhysicalSampleCount() int {
	return int(s.slots)
}

// IsConstant reports whether every sample shares one stored value.
func (s *sampleStore) IsConstant() bool {
	return s.header.IsConstant()
}

// TimeSampling returns the property's time sampling.
func (s *sampleStore) TimeSampling() *TimeSampling {
	return s.header.TimeSampling
}

// MapIndex returns the physical slot holding logical sample index.
func (s *sampleStore) MapIndex(index int) (int, error) {
	if index < 0 || index >= s.SampleCount() {
		return 0, errs.OutOfBounds("map sample index", index, s.SampleCount())
	}
	p, err := s.header.MapIndex(uint32(index))
	if err != nil {
		return 0, err
	}
	if p >= s.slots {
		return 0, errs.CorruptIndex("map sample index", s.group.Position, index,
			"slot %d outside %d physical samples of %q", p, s.slots, s.path)
	}
	return int(p), nil
}

// SampleTime returns the time of sample index.
func (s *sampleStore) SampleTime(index int) (float64, error) {
	if index < 0 || index >= s.SampleCount() {
		return 0, errs.OutOfBounds("sample time", index, s.SampleCount())
	}
	if s.header.TimeSampling == nil {
		return float64(index), nil
	}
	return s.header.TimeSampling.SampleTime(uint32(index)), nil
}

func (s *sampleStore) dataChunk(index int) (chunk.Data, int, error) {
	p, err := s.MapIndex(index)
	if err != nil {
		return chunk.Data{}, 0, err
	}
	d, err := s.group.LoadData(s.archive.reader, p*s.stride)
	if err != nil {
		return chunk.Data{}, 0, err
	}
	if !d.IsEmpty() && d.Size < pod.DigestSize {
		return chunk.Data{}, 0, errs.CorruptIndex("read sample", d.Position, index,
			"%d-byte sample is shorter than its %d-byte digest", d.Size, pod.DigestSize)
	}
	return d, p, nil
}

// SampleSize returns the size of the data chunk behind sample index,
// including its digest, without reading the payload.
func (s *sampleStore) SampleSize(index int) (uint64, error) {
	d, _, err := s.dataChunk(index)
	return d.Size, err
}

// SampleKey returns the stored digest of sample index. Empty samples have a
// zero key.
func (s *sampleStore) SampleKey(index int) (Digest, error) {
	var key Digest
	d, _, err := s.dataChunk(index)
	if err != nil || d.IsEmpty() {
		return key, err
	}
	buf, err := d.ReadRange(s.archive.reader, 0, pod.DigestSize)
	if err != nil {
		return key, err
	}
	copy(key[:], buf)
	return key, nil
}

// payload returns the sample bytes after the digest.
func (s *sampleStore) payload(index int) ([]byte, chunk.Data, error) {
	d, _, err := s.dataChunk(index)
	if err != nil {
		return nil, d, err
	}
	if d.IsEmpty() {
		return []byte{}, d, nil
	}
	buf, err := d.ReadRange(s.archive.reader, pod.DigestSize, d.Size-pod.DigestSize)
	return buf, d, err
}

// RawSample returns the undecoded payload of sample index.
func (s *sampleStore) RawSample(index int) ([]byte, error) {
	buf, _, err := s.payload(index)
	return buf, err
}

// VerifySampleKey recomputes the digest of sample index and compares it with
// the stored one.
func (s *sampleStore) VerifySampleKey(index int) error {
	key, err := s.SampleKey(index)
	if err != nil {
		return err
	}
	buf, d, err := s.payload(index)
	if err != nil || d.IsEmpty() {
		return err
	}
	if got := pod.ComputeDigest(buf); got != key {
		return errs.CorruptIndex("verify sample key", d.Position, index,
			"digest %x does not match payload digest %x", key, got)
	}
	return nil
}

func (s *sampleStore) decode(index int) (Array, chunk.Data, error) {
	buf, d, err := s.payload(index)
	if err != nil {
		return Array{}, d, err
	}
	arr, err := pod.Decode(s.header.DataType, buf)
	if err != nil {
		if e, ok := err.(*errs.Error); ok && e.Offset == errs.NoOffset {
			cp := *e
			cp.Offset = d.Position
			cp.Index = int64(index)
			return Array{}, d, &cp
		}
		return Array{}, d, err
	}
	return arr, d, nil
}

// SampledProperty is implemented by the scalar and array readers.
type SampledProperty interface {
	PropertyReader
	SampleCount() int
	LoadSample(index int) (Array, error)
	SampleSize(index int) (uint64, error)
	VerifySampleKey(index int) error
}

// SampleValues loads sample index of p as []T.
func SampleValues[T Element](p SampledProperty, index int) ([]T, error) {
	arr, err := p.LoadSample(index)
	if err != nil {
		return nil, err
	}
	v, ok := Values[T](arr)
	if !ok {
		return nil, fmt.Errorf("%w: %q holds %s", ErrTypeMismatch, p.Path(), arr.Kind())
	}
	return v, nil
}
