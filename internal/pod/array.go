package pod

import (
	"fmt"
	"strings"

	"github.com/x448/float16"
)

// Element is the set of Go types an Array can hold.
type Element interface {
	bool | uint8 | int8 | uint16 | int16 | uint32 | int32 | uint64 | int64 |
		float16.Float16 | float32 | float64 | string
}

// Array is a decoded sequence of POD elements tagged with their kind.
type Array struct {
	kind   Kind
	values any
}

// NewArray wraps values as an Array of the matching kind. Strings become
// String; use NewWstringArray for wide strings.
func NewArray[T Element](values []T) Array {
	var kind Kind
	switch any(values).(type) {
	case []bool:
		kind = Bool
	case []uint8:
		kind = Uint8
	case []int8:
		kind = Int8
	case []uint16:
		kind = Uint16
	case []int16:
		kind = Int16
	case []uint32:
		kind = Uint32
	case []int32:
		kind = Int32
	case []uint64:
		kind = Uint64
	case []int64:
		kind = Int64
	case []float16.Float16:
		kind = Float16
	case []float32:
		kind = Float32
	case []float64:
		kind = Float64
	case []string:
		kind = String
	}
	return Array{kind: kind, values: values}
}

// NewWstringArray wraps values as a Wstring array.
func NewWstringArray(values []string) Array {
	return Array{kind: Wstring, values: values}
}

// Kind returns the element kind.
func (a Array) Kind() Kind {
	return a.kind
}

// Values returns the underlying slice, e.g. []float32 for Float32.
func (a Array) Values() any {
	return a.values
}

// Len returns the number of elements.
func (a Array) Len() int {
	switch v := a.values.(type) {
	case []bool:
		return len(v)
	case []uint8:
		return len(v)
	case []int8:
		return len(v)
	case []uint16:
		return len(v)
	case []int16:
		return len(v)
	case []uint32:
		return len(v)
	case []int32:
		return len(v)
	case []uint64:
		return len(v)
	case []int64:
		return len(v)
	case []float16.Float16:
		return len(v)
	case []float32:
		return len(v)
	case []float64:
		return len(v)
	case []string:
		return len(v)
	default:
		return 0
	}
}

// Values returns the elements of a as []T, or false if a holds another type.
func Values[T Element](a Array) ([]T, bool) {
	v, ok := a.values.([]T)
	return v, ok
}

// Format renders at most limit elements (all when limit <= 0).
func (a Array) Format(limit int) string {
	n := a.Len()
	shown := n
	if limit > 0 && limit < n {
		shown = limit
	}

	var sb strings.Builder
	sb.WriteByte('[')
	for i := 0; i < shown; i++ {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(a.elementString(i))
	}
	if shown < n {
		fmt.Fprintf(&sb, " ... (%d more)", n-shown)
	}
	sb.WriteByte(']')
	return sb.String()
}

func (a Array) elementString(i int) string {
	switch v := a.values.(type) {
	case []float16.Float16:
		return fmt.Sprint(v[i].Float32())
	case []string:
		return fmt.Sprintf("%q", v[i])
	case []bool:
		return fmt.Sprint(v[i])
	case []uint8:
		return fmt.Sprint(v[i])
	case []int8:
		return fmt.Sprint(v[i])
	case []uint16:
		return fmt.Sprint(v[i])
	case []int16:
		return fmt.Sprint(v[i])
	case []uint32:
		return fmt.Sprint(v[i])
	case []int32:
		return fmt.Sprint(v[i])
	case []uint64:
		return fmt.Sprint(v[i])
	case []int64:
		return fmt.Sprint(v[i])
	case []float32:
		return fmt.Sprint(v[i])
	case []float64:
		return fmt.Sprint(v[i])
	default:
		return "?"
	}
}

func (a Array) String() string {
	return fmt.Sprintf("%s%s", a.kind, a.Format(8))
}
