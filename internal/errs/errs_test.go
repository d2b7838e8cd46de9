package errs

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromReadClassification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
	}{
		{"eof", io.EOF, ErrCorrupt},
		{"unexpected eof", io.ErrUnexpectedEOF, ErrCorrupt},
		{"wrapped eof", fmt.Errorf("read: %w", io.EOF), ErrCorrupt},
		{"other", errors.New("disk on fire"), ErrIO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FromRead("load group", 64, 8, tt.err)
			require.ErrorIs(t, err, tt.kind)
			require.Equal(t, tt.kind, Kind(err))
		})
	}

	require.NoError(t, FromRead("op", 0, 0, nil))
}

func TestFromReadKeepsStructuredError(t *testing.T) {
	inner := OutOfBounds("load sample", 5, 5)
	require.Same(t, inner, FromRead("op", 0, 1, inner))
}

func TestErrorMessage(t *testing.T) {
	err := CorruptIndex("load data", 0x40, 3, "size %d overruns file", 100)
	require.Equal(t, "corrupt archive: load data at 0x40 [index 3]: size 100 overruns file", err.Error())

	err = OutOfBounds("load child", 7, 2)
	require.Equal(t, "index out of bounds: load child [index 7]: valid range is [0, 2)", err.Error())
}

func TestIOErrorUnwrapsCause(t *testing.T) {
	cause := errors.New("device gone")
	err := FromRead("read", 0, 8, cause)
	require.ErrorIs(t, err, ErrIO)
	require.ErrorIs(t, err, cause)
}
