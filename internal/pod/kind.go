package pod

import "fmt"

// Kind is the on-disk POD element kind.
type Kind uint8

// POD kinds, numbered as stored in property headers.
const (
	Bool Kind = iota
	Uint8
	Int8
	Uint16
	Int16
	Uint32
	Int32
	Uint64
	Int64
	Float16
	Float32
	Float64
	String
	Wstring

	numKinds
)

var kindNames = [...]string{
	Bool:    "bool",
	Uint8:   "uint8",
	Int8:    "int8",
	Uint16:  "uint16",
	Int16:   "int16",
	Uint32:  "uint32",
	Int32:   "int32",
	Uint64:  "uint64",
	Int64:   "int64",
	Float16: "float16",
	Float32: "float32",
	Float64: "float64",
	String:  "string",
	Wstring: "wstring",
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k < numKinds
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("pod(%d)", uint8(k))
	}
	return kindNames[k]
}

// Width returns the element width in bytes, or 0 for variable-width strings.
// For wstring it is the code unit width.
func (k Kind) Width() int {
	switch k {
	case Bool, Uint8, Int8:
		return 1
	case Uint16, Int16, Float16:
		return 2
	case Uint32, Int32, Float32:
		return 4
	case Uint64, Int64, Float64:
		return 8
	default:
		return 0
	}
}

// IsString reports whether k is one of the string kinds.
func (k Kind) IsString() bool {
	return k == String || k == Wstring
}

// DataType is an element kind plus the number of elements per value, e.g. a
// 3-vector of float32 is {Float32, 3}.
type DataType struct {
	Kind   Kind
	Extent uint8
}

// ElementSize returns the byte size of one value (Width * Extent), or 0 for
// string kinds.
func (dt DataType) ElementSize() int {
	return dt.Kind.Width() * int(dt.Extent)
}

func (dt DataType) String() string {
	if dt.Extent <= 1 {
		return dt.Kind.String()
	}
	return fmt.Sprintf("%s[%d]", dt.Kind, dt.Extent)
}
