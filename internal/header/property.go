package header

import (
	"fmt"

	"github.com/robert-malhotra/go-ogawa/internal/binary"
	"github.com/robert-malhotra/go-ogawa/internal/errs"
	"github.com/robert-malhotra/go-ogawa/internal/pod"
	"github.com/robert-malhotra/go-ogawa/internal/table"
)

// PropertyKind is the variant of a property.
type PropertyKind uint8

const (
	Compound PropertyKind = iota
	Scalar
	Array
)

func (k PropertyKind) String() string {
	switch k {
	case Compound:
		return "compound"
	case Scalar:
		return "scalar"
	case Array:
		return "array"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Info word layout.
const (
	infoTypeMask       = 0x3
	infoHintShift      = 2
	infoHintMask       = 0x3
	infoPODShift       = 4
	infoPODMask        = 0xf
	infoHasTimeSampl   = 1 << 8
	infoHasFirstLast   = 1 << 9
	infoHomogeneous    = 1 << 10
	infoConstant       = 1 << 11
	infoExtentShift    = 12
	infoExtentMask     = 0xff
	infoMetaDataShift  = 20
	infoMetaDataMask   = 0xff
	infoIndexedSamples = 1 << 28

	typeScalarLikeArray = 3
)

// PropertyHeader describes one property of a compound.
type PropertyHeader struct {
	Name     string
	Kind     PropertyKind
	DataType pod.DataType

	// NextSampleIndex is the number of logical samples written.
	NextSampleIndex uint32

	// FirstChangedIndex and LastChangedIndex bound the run of samples that
	// differ from their predecessor. Both are 0 for a constant property.
	FirstChangedIndex uint32
	LastChangedIndex  uint32

	TimeSamplingIndex uint32
	TimeSampling      *table.TimeSampling

	MetaData      table.MetaData
	MetaDataIndex uint8

	// Homogeneous reports that every array sample has the same length.
	Homogeneous bool

	// ScalarLike marks an array property whose samples all hold one element.
	ScalarLike bool

	// Indexed reports that the property group ends with an indirection table.
	Indexed bool

	indirection []uint32
	slots       uint32
}

// IsConstant reports whether every logical sample maps to slot 0.
func (h *PropertyHeader) IsConstant() bool {
	if h.indirection != nil {
		return h.slots <= 1
	}
	return h.FirstChangedIndex == 0 && h.LastChangedIndex == 0
}

// MapIndex returns the physical slot backing logical sample index.
func (h *PropertyHeader) MapIndex(index uint32) (uint32, error) {
	if index >= h.NextSampleIndex {
		return 0, errs.OutOfBounds("map sample index", int(index), int(h.NextSampleIndex))
	}
	if h.Indexed {
		if h.indirection == nil {
			return 0, errs.Corrupt("map sample index", errs.NoOffset,
				"property %q has no indirection table loaded", h.Name)
		}
		return h.indirection[index], nil
	}
	first, last := h.FirstChangedIndex, h.LastChangedIndex
	switch {
	case first == 0 && last == 0:
		return 0, nil
	case index < first:
		return 0, nil
	case index >= last:
		return last - first + 1, nil
	default:
		return index - first + 1, nil
	}
}

// PhysicalSampleCount returns the number of distinct sample slots the header
// implies.
func (h *PropertyHeader) PhysicalSampleCount() uint32 {
	if h.NextSampleIndex == 0 {
		return 0
	}
	if h.Indexed {
		return h.slots
	}
	if h.IsConstant() {
		return 1
	}
	return h.LastChangedIndex + 2 - h.FirstChangedIndex
}

// SetIndirection validates and installs the indirection table of an indexed
// property. slots is the number of physical samples the property group
// holds.
func (h *PropertyHeader) SetIndirection(indices []uint32, slots uint32, offset int64) error {
	const op = "read indirection table"
	if len(indices) != int(h.NextSampleIndex) {
		return errs.Mismatch(op, offset, "table length", h.NextSampleIndex, len(indices))
	}
	for i, p := range indices {
		if p >= slots {
			return errs.CorruptIndex(op, offset, i, "slot %d outside %d physical samples", p, slots)
		}
		if i > 0 && p < indices[i-1] {
			return errs.CorruptIndex(op, offset, i, "slot %d precedes slot %d of previous sample", p, indices[i-1])
		}
	}
	h.indirection = indices
	h.slots = slots
	return nil
}

// Indirection returns the installed indirection table, or nil.
func (h *PropertyHeader) Indirection() []uint32 {
	return h.indirection
}

func (h *PropertyHeader) String() string {
	if h.Kind == Compound {
		return fmt.Sprintf("%s (compound)", h.Name)
	}
	return fmt.Sprintf("%s (%s %s, %d samples)", h.Name, h.Kind, h.DataType, h.NextSampleIndex)
}

// ReadPropertyHeaders decodes a property headers blob. base is the file
// offset of blob[0]. Time sampling indices are checked against ts.
func ReadPropertyHeaders(blob []byte, base int64, md *table.IndexedMetaData, ts *table.TimeSamplings) ([]*PropertyHeader, error) {
	const op = "read property headers"
	d := binary.NewDecoder(blob, op, base)

	var headers []*PropertyHeader
	for !d.Done() {
		start := base + int64(d.Pos())
		info, err := d.ReadUint32()
		if err != nil {
			return nil, err
		}

		hint := (info >> infoHintShift) & infoHintMask
		if hint == infoHintMask {
			return nil, errs.CorruptIndex(op, start, len(headers), "invalid size hint %d", hint)
		}
		width := 1 << hint
		next := func() (uint32, error) {
			v, err := d.ReadUintN(width)
			return uint32(v), err
		}

		h := &PropertyHeader{MetaDataIndex: uint8((info >> infoMetaDataShift) & infoMetaDataMask)}
		switch info & infoTypeMask {
		case 0:
			h.Kind = Compound
		case 1:
			h.Kind = Scalar
		default:
			h.Kind = Array
			h.ScalarLike = info&infoTypeMask == typeScalarLikeArray
		}

		if h.Kind != Compound {
			h.DataType = pod.DataType{
				Kind:   pod.Kind((info >> infoPODShift) & infoPODMask),
				Extent: uint8((info >> infoExtentShift) & infoExtentMask),
			}
			if !h.DataType.Kind.Valid() {
				return nil, errs.CorruptIndex(op, start, len(headers), "unknown POD kind %d", h.DataType.Kind)
			}
			if h.DataType.Extent == 0 {
				return nil, errs.CorruptIndex(op, start, len(headers), "zero extent")
			}
			h.Homogeneous = info&infoHomogeneous != 0
			h.Indexed = info&infoIndexedSamples != 0

			if h.NextSampleIndex, err = next(); err != nil {
				return nil, err
			}
			switch {
			case info&infoHasFirstLast != 0:
				if h.FirstChangedIndex, err = next(); err != nil {
					return nil, err
				}
				if h.LastChangedIndex, err = next(); err != nil {
					return nil, err
				}
				if err := h.checkChangedRange(start, len(headers)); err != nil {
					return nil, err
				}
			case info&infoConstant != 0:
				h.FirstChangedIndex, h.LastChangedIndex = 0, 0
			default:
				h.FirstChangedIndex = 1
				if h.NextSampleIndex > 0 {
					h.LastChangedIndex = h.NextSampleIndex - 1
				}
			}
			if info&infoHasTimeSampl != 0 {
				if h.TimeSamplingIndex, err = next(); err != nil {
					return nil, err
				}
			}
			if ts != nil {
				if h.TimeSampling, err = ts.Resolve(int(h.TimeSamplingIndex)); err != nil {
					return nil, err
				}
			}
		}

		nameLen, err := next()
		if err != nil {
			return nil, err
		}
		if h.Name, err = d.ReadString(int(nameLen)); err != nil {
			return nil, err
		}

		if h.MetaDataIndex == InlineMetaData {
			mdLen, err := next()
			if err != nil {
				return nil, err
			}
			s, err := d.ReadString(int(mdLen))
			if err != nil {
				return nil, err
			}
			h.MetaData = table.ParseMetaData(s)
		} else if md != nil {
			if h.MetaData, err = md.Resolve(int(h.MetaDataIndex)); err != nil {
				return nil, err
			}
		}

		headers = append(headers, h)
	}
	return headers, nil
}

func (h *PropertyHeader) checkChangedRange(offset int64, index int) error {
	first, last := h.FirstChangedIndex, h.LastChangedIndex
	if first == 0 && last == 0 {
		return nil
	}
	if first == 0 || first > last+1 || (h.NextSampleIndex > 0 && last >= h.NextSampleIndex) {
		return errs.CorruptIndex("read property headers", offset, index,
			"changed range [%d, %d] invalid for %d samples", first, last, h.NextSampleIndex)
	}
	return nil
}

// EncodePropertyHeaders serializes headers in the packed form.
func EncodePropertyHeaders(headers []*PropertyHeader) []byte {
	buf := &binary.Buffer{}
	w := binary.NewWriter(buf)
	for _, h := range headers {
		encodePropertyHeader(w, h)
	}
	return buf.Bytes()
}

func encodePropertyHeader(w *binary.Writer, h *PropertyHeader) {
	var info uint32
	var fields []uint32
	switch h.Kind {
	case Compound:
	case Scalar:
		info |= 1
	default:
		info |= 2
		if h.ScalarLike {
			info |= typeScalarLikeArray
		}
	}

	if h.Kind != Compound {
		info |= uint32(h.DataType.Kind&infoPODMask) << infoPODShift
		info |= uint32(h.DataType.Extent) << infoExtentShift
		if h.Homogeneous {
			info |= infoHomogeneous
		}
		if h.Indexed {
			info |= infoIndexedSamples
		}

		fields = append(fields, h.NextSampleIndex)
		defaultLast := uint32(0)
		if h.NextSampleIndex > 0 {
			defaultLast = h.NextSampleIndex - 1
		}
		switch {
		case h.FirstChangedIndex == 0 && h.LastChangedIndex == 0:
			info |= infoConstant
		case h.FirstChangedIndex == 1 && h.LastChangedIndex == defaultLast:
		default:
			info |= infoHasFirstLast
			fields = append(fields, h.FirstChangedIndex, h.LastChangedIndex)
		}
		if h.TimeSamplingIndex != 0 {
			info |= infoHasTimeSampl
			fields = append(fields, h.TimeSamplingIndex)
		}
	}

	md := ""
	if h.MetaDataIndex == InlineMetaData {
		md = h.MetaData.Serialize()
	}
	largest := max(uint32(len(h.Name)), uint32(len(md)))
	for _, v := range fields {
		largest = max(largest, v)
	}
	hint, width := uint32(0), 1
	switch {
	case largest > 0xffff:
		hint, width = 2, 4
	case largest > 0xff:
		hint, width = 1, 2
	}
	info |= hint << infoHintShift
	info |= uint32(h.MetaDataIndex) << infoMetaDataShift

	w.WriteUint32(info)
	for _, v := range fields {
		w.WriteUintN(uint64(v), width)
	}
	w.WriteUintN(uint64(len(h.Name)), width)
	w.WriteBytes([]byte(h.Name))
	if h.MetaDataIndex == InlineMetaData {
		w.WriteUintN(uint64(len(md)), width)
		w.WriteBytes([]byte(md))
	}
}
