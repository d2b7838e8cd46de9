package ogawa

import (
	"encoding/binary"

	"github.com/robert-malhotra/go-ogawa/internal/errs"
	"github.com/robert-malhotra/go-ogawa/internal/pod"
)

// ArrayPropertyReader reads a property whose samples vary in length. Each
// physical sample is a data chunk followed by a dimensions chunk.
type ArrayPropertyReader struct {
	*sampleStore
}

// LoadSample decodes logical sample index as a flat element sequence.
func (p *ArrayPropertyReader) LoadSample(index int) (Array, error) {
	arr, d, err := p.decode(index)
	if err != nil {
		return Array{}, err
	}
	if extent := int(p.header.DataType.Extent); arr.Len()%extent != 0 {
		return Array{}, errs.CorruptIndex("read array sample", d.Position, index,
			"%d elements is not a whole number of %s", arr.Len(), p.header.DataType)
	}
	return arr, nil
}

// LoadDimensions returns the dimensions of sample index, counted in
// extent-sized elements. A sample stored without dimensions is rank 1.
func (p *ArrayPropertyReader) LoadDimensions(index int) ([]uint64, error) {
	const op = "read array dimensions"
	slot, err := p.MapIndex(index)
	if err != nil {
		return nil, err
	}
	d, err := p.group.LoadData(p.archive.reader, slot*p.stride+1)
	if err != nil {
		return nil, err
	}

	if d.IsEmpty() {
		n, err := p.elementCount(index)
		if err != nil {
			return nil, err
		}
		return []uint64{n}, nil
	}

	if d.Size%8 != 0 {
		return nil, errs.CorruptIndex(op, d.Position, index, "%d bytes is not a whole number of u64 dimensions", d.Size)
	}
	buf, err := d.Read(p.archive.reader)
	if err != nil {
		return nil, err
	}
	dims := make([]uint64, len(buf)/8)
	for i := range dims {
		dims[i] = binary.LittleEndian.Uint64(buf[i*8:])
	}
	return dims, nil
}

// elementCount derives the rank-1 length of sample index from its size,
// reading the payload only for string kinds.
func (p *ArrayPropertyReader) elementCount(index int) (uint64, error) {
	dt := p.header.DataType
	if dt.Kind.IsString() {
		buf, err := p.RawSample(index)
		if err != nil {
			return 0, err
		}
		return uint64(pod.CountStrings(dt.Kind, buf) / int(dt.Extent)), nil
	}
	size, err := p.SampleSize(index)
	if err != nil || size == 0 {
		return 0, err
	}
	return (size - pod.DigestSize) / uint64(dt.ElementSize()), nil
}

// NumElements returns the product of the dimensions of sample index.
func (p *ArrayPropertyReader) NumElements(index int) (uint64, error) {
	dims, err := p.LoadDimensions(index)
	if err != nil {
		return 0, err
	}
	n := uint64(1)
	for _, d := range dims {
		n *= d
	}
	return n, nil
}
