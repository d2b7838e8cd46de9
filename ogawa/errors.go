// Package ogawa provides a pure Go reader for Ogawa (Alembic) archives.
//
// An archive is a tree of chunks addressed by 8-byte file offsets. On top of
// that tree sit the object hierarchy and, per object, a tree of typed,
// time-sampled properties. Every node is loaded on demand from its parent
// and an index; nothing is cached unless the caller layers a cache under the
// byte source (see [WithCache]).
package ogawa

import (
	"errors"

	"github.com/robert-malhotra/go-ogawa/internal/errs"
)

// Error kinds. Every error returned by a read operation matches exactly one
// of these with errors.Is.
var (
	ErrOutOfBounds        = errs.ErrOutOfBounds
	ErrCorrupt            = errs.ErrCorrupt
	ErrUnsupportedVersion = errs.ErrUnsupportedVersion
	ErrIO                 = errs.ErrIO
)

// Lookup errors.
var (
	ErrNotFound     = errors.New("not found")
	ErrTypeMismatch = errors.New("sample type mismatch")
	ErrInvalidPath  = errors.New("invalid path")
	ErrNotCompound  = errors.New("property is not a compound")
)

// Error is the structured error carried by every read failure. Use
// errors.As to get at the offset and index.
type Error = errs.Error

// ErrorKind returns which of the error kinds err matches, or nil.
func ErrorKind(err error) error {
	return errs.Kind(err)
}
