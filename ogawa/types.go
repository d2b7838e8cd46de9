package ogawa

import (
	"github.com/robert-malhotra/go-ogawa/internal/chunk"
	"github.com/robert-malhotra/go-ogawa/internal/header"
	"github.com/robert-malhotra/go-ogawa/internal/pod"
	"github.com/robert-malhotra/go-ogawa/internal/table"
)

// Chunk tree.
type (
	Address = chunk.Address
	Group   = chunk.Group
	Data    = chunk.Data
	Chunk   = chunk.Chunk
)

// IsGroup reports whether addr names a group chunk, without reading.
func IsGroup(addr Address) bool {
	return chunk.IsGroup(addr)
}

// Plain-old-data values.
type (
	PODKind  = pod.Kind
	DataType = pod.DataType
	Array    = pod.Array
	Element  = pod.Element
	Digest   = pod.Digest
)

// POD kinds.
const (
	Bool    = pod.Bool
	Uint8   = pod.Uint8
	Int8    = pod.Int8
	Uint16  = pod.Uint16
	Int16   = pod.Int16
	Uint32  = pod.Uint32
	Int32   = pod.Int32
	Uint64  = pod.Uint64
	Int64   = pod.Int64
	Float16 = pod.Float16
	Float32 = pod.Float32
	Float64 = pod.Float64
	String  = pod.String
	Wstring = pod.Wstring
)

// NewArray wraps values as an Array.
func NewArray[T Element](values []T) Array {
	return pod.NewArray(values)
}

// Values returns the elements of a as []T, or false if a holds another kind.
func Values[T Element](a Array) ([]T, bool) {
	return pod.Values[T](a)
}

// Headers and shared tables.
type (
	ObjectHeader    = header.ObjectHeader
	PropertyHeader  = header.PropertyHeader
	PropertyKind    = header.PropertyKind
	MetaData        = table.MetaData
	IndexedMetaData = table.IndexedMetaData
	TimeSampling    = table.TimeSampling
	TimeSamplings   = table.TimeSamplings
	SamplingType    = table.SamplingType
)

// Property kinds.
const (
	KindCompound = header.Compound
	KindScalar   = header.Scalar
	KindArray    = header.Array
)

// Time sampling types.
const (
	Uniform = table.Uniform
	Cyclic  = table.Cyclic
	Acyclic = table.Acyclic
)

// AcyclicTimePerCycle is the time per cycle that marks an acyclic sampling.
const AcyclicTimePerCycle = table.AcyclicTimePerCycle

// ParseMetaData parses "key=value;key=value".
func ParseMetaData(s string) MetaData {
	return table.ParseMetaData(s)
}
