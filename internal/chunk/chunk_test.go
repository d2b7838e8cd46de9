package chunk_test

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-ogawa/internal/binary"
	"github.com/robert-malhotra/go-ogawa/internal/chunk"
	"github.com/robert-malhotra/go-ogawa/internal/errs"
	"github.com/robert-malhotra/go-ogawa/internal/fileheader"
	"github.com/robert-malhotra/go-ogawa/internal/fixture"
	"github.com/robert-malhotra/go-ogawa/internal/pod"
)

// twoChildRoot builds a top group holding a group of three children and a
// 16-byte data chunk of four float32 values.
func twoChildRoot(t *testing.T) (*binary.Reader, *chunk.Group) {
	t.Helper()
	b := fixture.New()
	sub := b.Group(
		b.Data([]byte("abc")),
		b.Group(b.Int32(1)),
		chunk.EmptyData,
	)
	data := b.Data(pod.Encode(pod.NewArray([]float32{1, 2, 3, 4})))
	img, err := b.Bytes(b.Group(sub, data))
	require.NoError(t, err)

	r := binary.NewReader(bytes.NewReader(img))
	h, err := fileheader.Read(r)
	require.NoError(t, err)
	root, err := chunk.ReadRoot(r, h.RootAddress)
	require.NoError(t, err)
	return r, root
}

func TestLoadGroupAndData(t *testing.T) {
	r, root := twoChildRoot(t)
	require.Equal(t, 2, root.ChildCount())

	g, err := root.LoadGroup(r, 0)
	require.NoError(t, err)
	require.Equal(t, 3, g.ChildCount())

	d, err := root.LoadData(r, 1)
	require.NoError(t, err)
	require.Equal(t, uint64(16), d.Size)

	arr, err := d.ReadPODArray(r, pod.DataType{Kind: pod.Float32, Extent: 1})
	require.NoError(t, err)
	require.Equal(t, 4, arr.Len())
	vals, ok := pod.Values[float32](arr)
	require.True(t, ok)
	require.Equal(t, []float32{1, 2, 3, 4}, vals)
}

// TestAddressPredictsKind checks that IsGroup on every child address tells
// which of LoadGroup and LoadData succeeds.
func TestAddressPredictsKind(t *testing.T) {
	r, root := twoChildRoot(t)

	var check func(g *chunk.Group)
	check = func(g *chunk.Group) {
		for i, addr := range g.Children {
			sub, gerr := g.LoadGroup(r, i)
			_, derr := g.LoadData(r, i)
			if chunk.IsGroup(addr) {
				require.NoError(t, gerr, "child %d", i)
				require.ErrorIs(t, derr, errs.ErrCorrupt, "child %d", i)
				check(sub)
			} else {
				require.NoError(t, derr, "child %d", i)
				require.ErrorIs(t, gerr, errs.ErrCorrupt, "child %d", i)
			}
			require.Equal(t, chunk.IsGroup(addr), g.IsChildGroup(i))
			require.Equal(t, !chunk.IsGroup(addr), g.IsChildData(i))
		}
	}
	check(root)
}

func TestLoadOutOfBounds(t *testing.T) {
	r, root := twoChildRoot(t)

	for _, index := range []int{2, 3, -1} {
		_, err := root.LoadGroup(r, index)
		require.ErrorIs(t, err, errs.ErrOutOfBounds, "LoadGroup(%d)", index)
		_, err = root.LoadData(r, index)
		require.ErrorIs(t, err, errs.ErrOutOfBounds, "LoadData(%d)", index)
		_, err = root.LoadChunk(r, index)
		require.ErrorIs(t, err, errs.ErrOutOfBounds, "LoadChunk(%d)", index)
	}
}

func TestEmptyChildren(t *testing.T) {
	r, root := twoChildRoot(t)
	g, err := root.LoadGroup(r, 0)
	require.NoError(t, err)

	d, err := g.LoadData(r, 2)
	require.NoError(t, err)
	require.True(t, d.IsEmpty())
	require.Equal(t, uint64(0), d.Size)

	buf, err := d.Read(r)
	require.NoError(t, err)
	require.Empty(t, buf)

	c, err := g.LoadChunk(r, 1)
	require.NoError(t, err)
	require.True(t, c.IsGroup())
	require.Equal(t, 1, c.Group.ChildCount())
}

func TestAddress(t *testing.T) {
	tests := []struct {
		addr    chunk.Address
		isGroup bool
		offset  int64
		empty   bool
		str     string
	}{
		{chunk.EmptyGroup, true, 0, true, "empty group"},
		{chunk.EmptyData, false, 0, true, "empty data"},
		{chunk.GroupAddress(0x40), true, 0x40, false, "group@0x40"},
		{chunk.DataAddress(0x48), false, 0x48, false, "data@0x48"},
	}
	for _, tt := range tests {
		if chunk.IsGroup(tt.addr) != tt.isGroup {
			t.Errorf("%s: IsGroup = %v", tt.str, !tt.isGroup)
		}
		if tt.addr.Offset() != tt.offset {
			t.Errorf("%s: Offset = 0x%x", tt.str, tt.addr.Offset())
		}
		if tt.addr.IsEmpty() != tt.empty {
			t.Errorf("%s: IsEmpty = %v", tt.str, !tt.empty)
		}
		if tt.addr.String() != tt.str {
			t.Errorf("expected %q, got %q", tt.str, tt.addr.String())
		}
	}
}

func TestReadRootErrors(t *testing.T) {
	r, _ := twoChildRoot(t)

	_, err := chunk.ReadRoot(r, 0)
	require.ErrorIs(t, err, errs.ErrCorrupt, "empty root")

	_, err = chunk.ReadRoot(r, uint64(chunk.DataAddress(16)))
	require.ErrorIs(t, err, errs.ErrCorrupt, "data root")

	_, err = chunk.ReadRoot(r, 20)
	require.ErrorIs(t, err, errs.ErrCorrupt, "misaligned root")

	_, err = chunk.ReadRoot(r, 1<<40)
	require.ErrorIs(t, err, errs.ErrCorrupt, "root past end of file")
}

func TestGroupCountOverrunsFile(t *testing.T) {
	b := fixture.New()
	top := b.Group(chunk.EmptyData)
	img, err := b.Bytes(top)
	require.NoError(t, err)

	// Claim a million children.
	img[top.Offset()+2] = 0x0f
	r := binary.NewReader(bytes.NewReader(img))
	_, err = chunk.ReadRoot(r, uint64(top))
	if !errors.Is(err, errs.ErrCorrupt) {
		t.Fatalf("expected corrupt error, got %v", err)
	}
}

func TestDataReadRange(t *testing.T) {
	b := fixture.New()
	top := b.Group(b.Data([]byte("0123456789")))
	img, err := b.Bytes(top)
	require.NoError(t, err)

	r := binary.NewReader(bytes.NewReader(img))
	root, err := chunk.ReadRoot(r, uint64(top))
	require.NoError(t, err)
	d, err := root.LoadData(r, 0)
	require.NoError(t, err)

	buf, err := d.ReadRange(r, 2, 3)
	require.NoError(t, err)
	require.Equal(t, "234", string(buf))

	_, err = d.ReadRange(r, 8, 3)
	require.ErrorIs(t, err, errs.ErrCorrupt)

	_, err = d.ReadPODArray(r, pod.DataType{Kind: pod.Float32, Extent: 1})
	require.ErrorIs(t, err, errs.ErrCorrupt, "10 bytes of float32")
}

// sizeless hides the length of a source, so chunk sizes cannot be checked
// against the end of file before reading.
type sizeless struct {
	io.ReaderAt
}

// TestHugeDataSizeWithoutSourceSize checks that a data chunk claiming more
// bytes than can exist fails Corrupt on a source that does not report its
// size, rather than reading as an empty payload.
func TestHugeDataSizeWithoutSourceSize(t *testing.T) {
	tests := []struct {
		name string
		size uint64
	}{
		{"top bit set", 1<<63 | 16},
		{"max", 1<<64 - 1},
		{"past end of file", 1 << 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &binary.Buffer{}
			w := binary.NewWriter(buf).At(8)
			w.WriteUint64(1)
			w.WriteUint64(uint64(chunk.DataAddress(24)))
			w.WriteUint64(tt.size)

			r := binary.NewReader(sizeless{bytes.NewReader(buf.Bytes())})
			require.Equal(t, binary.UnknownSize, r.Size())
			root, err := chunk.ReadRoot(r, uint64(chunk.GroupAddress(8)))
			require.NoError(t, err)

			d, err := root.LoadData(r, 0)
			if err == nil {
				_, err = d.Read(r)
			}
			require.ErrorIs(t, err, errs.ErrCorrupt)
		})
	}

	// A range no int can hold is rejected before any read.
	r := binary.NewReader(sizeless{bytes.NewReader(make([]byte, 64))})
	forged := chunk.Data{Position: 32, Size: 1<<64 - 1}
	_, err := forged.ReadRange(r, 0, 1<<63)
	require.ErrorIs(t, err, errs.ErrCorrupt)
	_, err = forged.ReadPODArray(r, pod.DataType{Kind: pod.Uint8, Extent: 1})
	require.ErrorIs(t, err, errs.ErrCorrupt)
}
