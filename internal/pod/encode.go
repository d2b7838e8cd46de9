package pod

import (
	"encoding/binary"
	"math"

	"github.com/x448/float16"
)

// Encode serializes a into the on-disk byte form Decode reads.
func Encode(a Array) []byte {
	le := binary.LittleEndian
	switch v := a.values.(type) {
	case []bool:
		out := make([]byte, len(v))
		for i, b := range v {
			if b {
				out[i] = 1
			}
		}
		return out
	case []uint8:
		return append([]byte(nil), v...)
	case []int8:
		out := make([]byte, len(v))
		for i, x := range v {
			out[i] = byte(x)
		}
		return out
	case []uint16:
		out := make([]byte, 2*len(v))
		for i, x := range v {
			le.PutUint16(out[i*2:], x)
		}
		return out
	case []int16:
		out := make([]byte, 2*len(v))
		for i, x := range v {
			le.PutUint16(out[i*2:], uint16(x))
		}
		return out
	case []uint32:
		out := make([]byte, 4*len(v))
		for i, x := range v {
			le.PutUint32(out[i*4:], x)
		}
		return out
	case []int32:
		out := make([]byte, 4*len(v))
		for i, x := range v {
			le.PutUint32(out[i*4:], uint32(x))
		}
		return out
	case []uint64:
		out := make([]byte, 8*len(v))
		for i, x := range v {
			le.PutUint64(out[i*8:], x)
		}
		return out
	case []int64:
		out := make([]byte, 8*len(v))
		for i, x := range v {
			le.PutUint64(out[i*8:], uint64(x))
		}
		return out
	case []float16.Float16:
		out := make([]byte, 2*len(v))
		for i, x := range v {
			le.PutUint16(out[i*2:], x.Bits())
		}
		return out
	case []float32:
		out := make([]byte, 4*len(v))
		for i, x := range v {
			le.PutUint32(out[i*4:], math.Float32bits(x))
		}
		return out
	case []float64:
		out := make([]byte, 8*len(v))
		for i, x := range v {
			le.PutUint64(out[i*8:], math.Float64bits(x))
		}
		return out
	case []string:
		if a.kind == Wstring {
			return encodeWstrings(v)
		}
		var out []byte
		for _, s := range v {
			out = append(out, s...)
			out = append(out, 0)
		}
		return out
	default:
		return nil
	}
}

func encodeWstrings(v []string) []byte {
	var out []byte
	for _, s := range v {
		for _, r := range s {
			out = binary.LittleEndian.AppendUint32(out, uint32(r))
		}
		out = binary.LittleEndian.AppendUint32(out, 0)
	}
	return out
}
