package ogawa

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-ogawa/internal/fixture"
	"github.com/robert-malhotra/go-ogawa/internal/header"
	"github.com/robert-malhotra/go-ogawa/internal/pod"
)

func TestObjectHierarchy(t *testing.T) {
	a := openScene(t)
	root := a.Root()

	h, err := root.ChildHeader(0)
	require.NoError(t, err)
	require.Equal(t, "xform", h.Name)
	require.Equal(t, "/xform", h.FullName)
	schema, _ := h.MetaData.Get("schema")
	require.Equal(t, "AbcGeom_Xform_v3", schema)

	xform, err := root.LoadChild(0)
	require.NoError(t, err)
	require.Equal(t, 1, xform.NumChildren())

	mesh, err := xform.LoadChildByName("mesh")
	require.NoError(t, err)
	schema, _ = mesh.MetaData().Get("schema")
	require.Equal(t, "AbcGeom_PolyMesh_v1", schema)

	camera, err := root.LoadChildByName("camera")
	require.NoError(t, err)
	require.Equal(t, 0, camera.NumChildren())
	props, err := camera.Properties()
	require.NoError(t, err)
	require.Nil(t, props, "camera declares no properties")

	_, err = root.LoadChildByName("light")
	require.ErrorIs(t, err, ErrNotFound)

	i, ok := root.ChildIndex("dedup")
	require.True(t, ok)
	require.Equal(t, 2, i)
}

// TestBoundsEnforcement checks that every indexed load fails OutOfBounds
// exactly when the index reaches the count.
func TestBoundsEnforcement(t *testing.T) {
	a := openScene(t)

	err := WalkObjects(a.Root(), func(name string, obj *ObjectReader, err error) error {
		require.NoError(t, err)
		for i := 0; i < obj.NumChildren(); i++ {
			_, err := obj.LoadChild(i)
			require.NoError(t, err, "%s child %d", name, i)
		}
		for _, i := range []int{obj.NumChildren(), obj.NumChildren() + 1, -1} {
			_, err := obj.LoadChild(i)
			require.ErrorIs(t, err, ErrOutOfBounds, "%s child %d", name, i)
			_, err = obj.ChildHeader(i)
			require.ErrorIs(t, err, ErrOutOfBounds)
		}

		props, err := obj.Properties()
		require.NoError(t, err)
		return WalkProperties(props, func(path string, p PropertyReader, err error) error {
			require.NoError(t, err)
			switch p := p.(type) {
			case *CompoundPropertyReader:
				for i := 0; i < p.SubPropertyCount(); i++ {
					_, err := p.LoadSubProperty(i)
					require.NoError(t, err)
				}
				_, err := p.LoadSubProperty(p.SubPropertyCount())
				require.ErrorIs(t, err, ErrOutOfBounds, path)
			case SampledProperty:
				for i := 0; i < p.SampleCount(); i++ {
					_, err := p.LoadSample(i)
					require.NoError(t, err, "%s sample %d", path, i)
				}
				for _, i := range []int{p.SampleCount(), p.SampleCount() + 1, -1} {
					_, err := p.LoadSample(i)
					require.ErrorIs(t, err, ErrOutOfBounds, "%s sample %d", path, i)
				}
			}
			return nil
		})
	})
	require.NoError(t, err)
}

// TestSampleMapping checks that every logical sample maps inside the
// property group, that the mapping never decreases, and that aliased
// samples decode to identical bytes.
func TestSampleMapping(t *testing.T) {
	a := openScene(t)

	err := WalkObjects(a.Root(), func(_ string, obj *ObjectReader, _ error) error {
		props, err := obj.Properties()
		require.NoError(t, err)
		return WalkProperties(props, func(path string, p PropertyReader, _ error) error {
			var s *sampleStore
			switch p := p.(type) {
			case *ScalarPropertyReader:
				s = p.sampleStore
			case *ArrayPropertyReader:
				s = p.sampleStore
			default:
				return nil
			}

			prev := -1
			var prevRaw []byte
			for i := 0; i < s.SampleCount(); i++ {
				slot, err := s.MapIndex(i)
				require.NoError(t, err)
				require.Less(t, slot, s.PhysicalSampleCount(), path)
				require.GreaterOrEqual(t, slot, prev, path)

				raw, err := s.RawSample(i)
				require.NoError(t, err)
				if slot == prev {
					require.True(t, bytes.Equal(prevRaw, raw), "%s: samples %d and %d share slot %d", path, i-1, i, slot)
				}
				prev, prevRaw = slot, raw
				require.NoError(t, s.VerifySampleKey(i))
			}
			return nil
		})
	})
	require.NoError(t, err)
}

func TestIndexedScalarDedup(t *testing.T) {
	a := openScene(t)
	dedup, err := a.Object("/dedup")
	require.NoError(t, err)

	props, err := dedup.Properties()
	require.NoError(t, err)
	require.Equal(t, 2, props.SubPropertyCount())

	p, err := props.LoadSubProperty(1)
	require.NoError(t, err)
	second, ok := p.(*ScalarPropertyReader)
	require.True(t, ok)
	require.Equal(t, KindScalar, KindOf(second))
	require.True(t, second.Header().Indexed)
	require.Equal(t, 5, second.SampleCount())
	require.Equal(t, 3, second.PhysicalSampleCount())

	for i, want := range []int{0, 1, 1, 2, 2} {
		slot, err := second.MapIndex(i)
		require.NoError(t, err)
		require.Equal(t, want, slot, "sample %d", i)
	}

	s1, err := second.RawSample(1)
	require.NoError(t, err)
	s2, err := second.RawSample(2)
	require.NoError(t, err)
	require.Equal(t, s1, s2)
	s3, err := second.RawSample(3)
	require.NoError(t, err)
	s4, err := second.RawSample(4)
	require.NoError(t, err)
	require.Equal(t, s3, s4)
	require.NotEqual(t, s2, s3)

	v, err := SampleValues[int32](second, 4)
	require.NoError(t, err)
	require.Equal(t, []int32{30}, v)

	_, err = second.LoadSample(5)
	require.ErrorIs(t, err, ErrOutOfBounds)
	_, err = props.LoadSubProperty(2)
	require.ErrorIs(t, err, ErrOutOfBounds)

	first, err := props.LoadSubPropertyByName("first")
	require.NoError(t, err)
	require.True(t, first.(*ScalarPropertyReader).IsConstant())
}

func TestScalarSamples(t *testing.T) {
	a := openScene(t)
	vals := mustProperty(t, a, "/xform@.xform/.vals").(*ScalarPropertyReader)

	require.Equal(t, "float64[3]", vals.DataType().String())
	require.Equal(t, 3, vals.SampleCount())
	require.Equal(t, ".xform/.vals", vals.Path())

	v, err := SampleValues[float64](vals, 1)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 0, 0}, v)

	_, err = SampleValues[float32](vals, 1)
	require.ErrorIs(t, err, ErrTypeMismatch)

	size, err := vals.SampleSize(0)
	require.NoError(t, err)
	require.Equal(t, uint64(pod.DigestSize+24), size)

	require.Equal(t, Uniform, vals.TimeSampling().Type())
	tm, err := vals.SampleTime(2)
	require.NoError(t, err)
	require.InDelta(t, 3.0/24, tm, 1e-12)
	_, err = vals.SampleTime(3)
	require.ErrorIs(t, err, ErrOutOfBounds)

	title := mustProperty(t, a, "/@title").(*ScalarPropertyReader)
	s, err := SampleValues[string](title, 0)
	require.NoError(t, err)
	require.Equal(t, []string{"demo"}, s)
}

func TestArraySamples(t *testing.T) {
	a := openScene(t)
	p := mustProperty(t, a, "/xform/mesh@.geom/P").(*ArrayPropertyReader)

	require.Equal(t, KindArray, KindOf(p))
	require.True(t, p.Header().Homogeneous)
	require.Equal(t, 3, p.SampleCount())
	require.Equal(t, 2, p.PhysicalSampleCount())
	interp, _ := p.MetaData().Get("interpretation")
	require.Equal(t, "point", interp)

	dims, err := p.LoadDimensions(0)
	require.NoError(t, err)
	require.Equal(t, []uint64{3}, dims)

	k0, err := p.SampleKey(0)
	require.NoError(t, err)
	k1, err := p.SampleKey(1)
	require.NoError(t, err)
	k2, err := p.SampleKey(2)
	require.NoError(t, err)
	require.Equal(t, k0, k1)
	require.NotEqual(t, k1, k2)

	faces := mustProperty(t, a, "/xform/mesh@.geom/.faceIndices").(*ArrayPropertyReader)
	dims, err = faces.LoadDimensions(0)
	require.NoError(t, err)
	require.Equal(t, []uint64{3}, dims)
	n, err := faces.NumElements(0)
	require.NoError(t, err)
	require.Equal(t, uint64(3), n)

	names := mustProperty(t, a, "/xform/mesh@.geom/names").(*ArrayPropertyReader)
	dims, err = names.LoadDimensions(0)
	require.NoError(t, err)
	require.Equal(t, []uint64{2}, dims)
	s, err := SampleValues[string](names, 0)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "bc"}, s)

	uv := mustProperty(t, a, "/xform/mesh@.geom/uv/vals").(*ArrayPropertyReader)
	dims, err = uv.LoadDimensions(0)
	require.NoError(t, err)
	require.Equal(t, []uint64{3}, dims, "six floats of extent 2")
}

func TestCompoundLookup(t *testing.T) {
	a := openScene(t)
	geom := mustProperty(t, a, "/xform/mesh@.geom").(*CompoundPropertyReader)

	require.Equal(t, 4, geom.SubPropertyCount())
	require.Equal(t, "compound", KindOf(geom).String())
	require.Equal(t, ".geom: compound, 4 sub-properties", Describe(geom))

	h, err := geom.SubPropertyHeader(3)
	require.NoError(t, err)
	require.Equal(t, "names", h.Name)
	_, err = geom.SubPropertyHeader(4)
	require.ErrorIs(t, err, ErrOutOfBounds)

	_, err = geom.LoadSubPropertyByName("N")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = geom.LoadPath("P/x")
	require.ErrorIs(t, err, ErrNotCompound)

	_, err = a.Property("/xform/mesh")
	require.ErrorIs(t, err, ErrInvalidPath)

	_, err = a.Property("/camera@x")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDescribe(t *testing.T) {
	a := openScene(t)
	tests := []struct {
		path     string
		expected string
	}{
		{"/xform@.xform/.vals", ".vals: scalar float64[3], 3 samples"},
		{"/xform/mesh@.geom/P", "P: array float32[3], 3 samples"},
		{"/xform@.xform", ".xform: compound, 2 sub-properties"},
	}
	for _, tt := range tests {
		if got := Describe(mustProperty(t, a, tt.path)); got != tt.expected {
			t.Errorf("Describe(%s): expected %q, got %q", tt.path, tt.expected, got)
		}
	}
}

func TestCorruptSamples(t *testing.T) {
	tests := []struct {
		name string
		prop *fixture.Property
	}{
		{
			// Scalar of extent 3 holding one element.
			name: "scalar extent",
			prop: &fixture.Property{
				Name: "x", Kind: header.Scalar,
				DataType: pod.DataType{Kind: pod.Int32, Extent: 3},
				Samples:  []pod.Array{int32s(1)},
			},
		},
		{
			name: "array extent",
			prop: &fixture.Property{
				Name: "x", Kind: header.Array,
				DataType: pod.DataType{Kind: pod.Int32, Extent: 2},
				Samples:  []pod.Array{int32s(1, 2, 3)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc := &fixture.Archive{Root: &fixture.Object{Properties: []*fixture.Property{tt.prop}}}
			a, err := New(BytesSource(buildImage(t, desc)))
			require.NoError(t, err)
			p, err := a.Property("/@x")
			require.NoError(t, err)
			_, err = p.(SampledProperty).LoadSample(0)
			require.ErrorIs(t, err, ErrCorrupt)
		})
	}
}

func TestEmptyArraySample(t *testing.T) {
	desc := &fixture.Archive{Root: &fixture.Object{Properties: []*fixture.Property{{
		Name: "empty", Kind: header.Array,
		DataType: pod.DataType{Kind: pod.Float32, Extent: 1},
		Samples:  []pod.Array{pod.NewArray([]float32{}), pod.NewArray([]float32{1})},
	}}}}
	a, err := New(BytesSource(buildImage(t, desc)))
	require.NoError(t, err)

	p := mustProperty(t, a, "/@empty").(*ArrayPropertyReader)
	arr, err := p.LoadSample(0)
	require.NoError(t, err)
	require.Equal(t, 0, arr.Len())

	size, err := p.SampleSize(0)
	require.NoError(t, err)
	require.Equal(t, uint64(0), size)

	dims, err := p.LoadDimensions(0)
	require.NoError(t, err)
	require.Equal(t, []uint64{0}, dims)

	var zero Digest
	key, err := p.SampleKey(0)
	require.NoError(t, err)
	require.Equal(t, zero, key)
}

func TestLoadPath(t *testing.T) {
	a := openScene(t)
	geom := mustProperty(t, a, "/xform/mesh@.geom").(*CompoundPropertyReader)

	tests := []struct {
		path string
		want string
		err  error
	}{
		{"P", ".geom/P", nil},
		{"/uv/vals/", ".geom/uv/vals", nil},
		{"uv", ".geom/uv", nil},
		{"uv/missing", "", ErrNotFound},
		{"missing/vals", "", ErrNotFound},
		{"names/x", "", ErrNotCompound},
		{"", "", ErrInvalidPath},
		{"/", "", ErrInvalidPath},
	}

	for _, tt := range tests {
		p, err := geom.LoadPath(tt.path)
		if tt.err != nil {
			require.ErrorIs(t, err, tt.err, tt.path)
			require.Nil(t, p, tt.path)
			continue
		}
		require.NoError(t, err, tt.path)
		require.NotNil(t, p, tt.path)
		require.Equal(t, tt.want, p.Path())
	}
}
