// Package errs defines the error kinds shared by every layer of the reader.
//
// Every failure surfaced by the reader matches exactly one of the kind
// sentinels with errors.Is. The concrete *Error carries enough context
// (operation, file offset, index, expected vs. actual) to locate the
// malformed part of an archive.
package errs

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Error kinds.
var (
	ErrOutOfBounds        = errors.New("index out of bounds")
	ErrCorrupt            = errors.New("corrupt archive")
	ErrUnsupportedVersion = errors.New("unsupported version")
	ErrIO                 = errors.New("i/o error")
)

// NoOffset marks an Error that is not tied to a file position.
const NoOffset int64 = -1

// Error is a structured reader error.
type Error struct {
	// Kind is one of the Err* sentinels.
	Kind error
	// Op names the operation that failed, e.g. "load group".
	Op string
	// Offset is the file offset involved, or NoOffset.
	Offset int64
	// Index is the child or sample index involved, or -1.
	Index int64
	// Msg is a human readable detail.
	Msg string
	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.Error())
	if e.Op != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Op)
	}
	if e.Offset != NoOffset {
		fmt.Fprintf(&sb, " at 0x%x", e.Offset)
	}
	if e.Index >= 0 {
		fmt.Fprintf(&sb, " [index %d]", e.Index)
	}
	if e.Msg != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Msg)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// OutOfBounds reports index >= count for the named collection.
func OutOfBounds(op string, index, count int) error {
	return &Error{
		Kind:   ErrOutOfBounds,
		Op:     op,
		Offset: NoOffset,
		Index:  int64(index),
		Msg:    fmt.Sprintf("valid range is [0, %d)", count),
	}
}

// Corrupt reports a structural violation at the given offset.
func Corrupt(op string, offset int64, format string, args ...interface{}) error {
	return &Error{
		Kind:   ErrCorrupt,
		Op:     op,
		Offset: offset,
		Index:  -1,
		Msg:    fmt.Sprintf(format, args...),
	}
}

// CorruptIndex is Corrupt with an index attached.
func CorruptIndex(op string, offset int64, index int, format string, args ...interface{}) error {
	e := Corrupt(op, offset, format, args...).(*Error)
	e.Index = int64(index)
	return e
}

// Mismatch reports an expected vs. actual value mismatch.
func Mismatch(op string, offset int64, what string, expected, actual interface{}) error {
	return Corrupt(op, offset, "%s: expected %v, got %v", what, expected, actual)
}

// Unsupported reports a version the reader does not implement.
func Unsupported(op string, offset int64, what string, version interface{}) error {
	return &Error{
		Kind:   ErrUnsupportedVersion,
		Op:     op,
		Offset: offset,
		Index:  -1,
		Msg:    fmt.Sprintf("%s %v", what, version),
	}
}

// FromRead classifies an error returned by a byte source. A short read means
// the structure points past the end of the file, which is corruption rather
// than a transport failure.
func FromRead(op string, offset int64, n int, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &Error{
			Kind:   ErrCorrupt,
			Op:     op,
			Offset: offset,
			Index:  -1,
			Msg:    fmt.Sprintf("%d bytes extend past end of file", n),
		}
	}
	return &Error{Kind: ErrIO, Op: op, Offset: offset, Index: -1, Err: err}
}

// Kind returns the sentinel kind of err, or nil when err carries none.
func Kind(err error) error {
	for _, k := range []error{ErrOutOfBounds, ErrCorrupt, ErrUnsupportedVersion, ErrIO} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
