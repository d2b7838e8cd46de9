// Package pod decodes plain-old-data sample payloads.
//
// Every property sample in an archive is a flat, little-endian sequence of
// elements of one POD kind. This package maps the on-disk kinds to Go types:
//
//	Kind     | Width | Go type
//	---------|-------|------------------
//	bool     | 1     | bool
//	uint8    | 1     | uint8 (byte)
//	int8     | 1     | int8
//	uint16   | 2     | uint16
//	int16    | 2     | int16
//	uint32   | 4     | uint32
//	int32    | 4     | int32
//	uint64   | 8     | uint64
//	int64    | 8     | int64
//	float16  | 2     | float16.Float16
//	float32  | 4     | float32
//	float64  | 8     | float64
//	string   | var   | string (NUL-terminated UTF-8)
//	wstring  | var   | string (NUL-terminated UTF-32LE)
//
// The declared [DataType] is authoritative: values are never widened or
// narrowed, and [Encode] reproduces the bytes [Decode] consumed.
//
// # Usage
//
//	arr, err := pod.Decode(pod.DataType{Kind: pod.Float32, Extent: 3}, payload)
//	xyz, ok := pod.Values[float32](arr)
package pod
