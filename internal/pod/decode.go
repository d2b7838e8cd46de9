package pod

import (
	"bytes"
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/x448/float16"

	"github.com/robert-malhotra/go-ogawa/internal/errs"
)

// Decode interprets buf as a sequence of dt.Kind elements. The extent is not
// enforced here; a payload only has to be a whole number of elements.
func Decode(dt DataType, buf []byte) (Array, error) {
	k := dt.Kind
	if !k.Valid() {
		return Array{}, errs.Corrupt("decode pod", errs.NoOffset, "unknown pod kind %d", uint8(k))
	}
	if k == String {
		return decodeStrings(buf)
	}
	if k == Wstring {
		return decodeWstrings(buf)
	}

	w := k.Width()
	if len(buf)%w != 0 {
		return Array{}, errs.Corrupt("decode pod", errs.NoOffset,
			"%d bytes is not a multiple of %s width %d", len(buf), k, w)
	}
	n := len(buf) / w
	le := binary.LittleEndian

	switch k {
	case Bool:
		out := make([]bool, n)
		for i := range out {
			out[i] = buf[i] != 0
		}
		return Array{kind: k, values: out}, nil
	case Uint8:
		out := make([]uint8, n)
		copy(out, buf)
		return Array{kind: k, values: out}, nil
	case Int8:
		out := make([]int8, n)
		for i := range out {
			out[i] = int8(buf[i])
		}
		return Array{kind: k, values: out}, nil
	case Uint16:
		out := make([]uint16, n)
		for i := range out {
			out[i] = le.Uint16(buf[i*2:])
		}
		return Array{kind: k, values: out}, nil
	case Int16:
		out := make([]int16, n)
		for i := range out {
			out[i] = int16(le.Uint16(buf[i*2:]))
		}
		return Array{kind: k, values: out}, nil
	case Uint32:
		out := make([]uint32, n)
		for i := range out {
			out[i] = le.Uint32(buf[i*4:])
		}
		return Array{kind: k, values: out}, nil
	case Int32:
		out := make([]int32, n)
		for i := range out {
			out[i] = int32(le.Uint32(buf[i*4:]))
		}
		return Array{kind: k, values: out}, nil
	case Uint64:
		out := make([]uint64, n)
		for i := range out {
			out[i] = le.Uint64(buf[i*8:])
		}
		return Array{kind: k, values: out}, nil
	case Int64:
		out := make([]int64, n)
		for i := range out {
			out[i] = int64(le.Uint64(buf[i*8:]))
		}
		return Array{kind: k, values: out}, nil
	case Float16:
		out := make([]float16.Float16, n)
		for i := range out {
			out[i] = float16.Frombits(le.Uint16(buf[i*2:]))
		}
		return Array{kind: k, values: out}, nil
	case Float32:
		out := make([]float32, n)
		for i := range out {
			out[i] = math.Float32frombits(le.Uint32(buf[i*4:]))
		}
		return Array{kind: k, values: out}, nil
	default: // Float64
		out := make([]float64, n)
		for i := range out {
			out[i] = math.Float64frombits(le.Uint64(buf[i*8:]))
		}
		return Array{kind: k, values: out}, nil
	}
}

// decodeStrings splits a run of NUL-terminated strings.
func decodeStrings(buf []byte) (Array, error) {
	if len(buf) == 0 {
		return Array{kind: String, values: []string{}}, nil
	}
	if buf[len(buf)-1] != 0 {
		return Array{}, errs.Corrupt("decode pod", errs.NoOffset, "string payload is not NUL-terminated")
	}
	parts := bytes.Split(buf[:len(buf)-1], []byte{0})
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = string(p)
	}
	return Array{kind: String, values: out}, nil
}

// decodeWstrings splits a run of NUL-terminated UTF-32LE strings.
func decodeWstrings(buf []byte) (Array, error) {
	if len(buf)%4 != 0 {
		return Array{}, errs.Corrupt("decode pod", errs.NoOffset,
			"%d bytes is not a multiple of wstring width 4", len(buf))
	}
	out := []string{}
	var cur []byte
	terminated := true
	for i := 0; i < len(buf); i += 4 {
		r := rune(binary.LittleEndian.Uint32(buf[i:]))
		if r == 0 {
			out = append(out, string(cur))
			cur = cur[:0]
			terminated = true
			continue
		}
		if !utf8.ValidRune(r) {
			return Array{}, errs.Corrupt("decode pod", errs.NoOffset, "invalid code point 0x%x in wstring", uint32(r))
		}
		cur = utf8.AppendRune(cur, r)
		terminated = false
	}
	if !terminated {
		return Array{}, errs.Corrupt("decode pod", errs.NoOffset, "wstring payload is not NUL-terminated")
	}
	return Array{kind: Wstring, values: out}, nil
}

// CountStrings returns the number of NUL-terminated strings in a string or
// wstring payload without decoding it.
func CountStrings(k Kind, buf []byte) int {
	switch k {
	case String:
		return bytes.Count(buf, []byte{0})
	case Wstring:
		n := 0
		for i := 0; i+4 <= len(buf); i += 4 {
			if binary.LittleEndian.Uint32(buf[i:]) == 0 {
				n++
			}
		}
		return n
	default:
		return 0
	}
}
