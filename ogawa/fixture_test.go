package ogawa

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-ogawa/internal/fixture"
	"github.com/robert-malhotra/go-ogawa/internal/header"
	"github.com/robert-malhotra/go-ogawa/internal/pod"
	"github.com/robert-malhotra/go-ogawa/internal/table"
)

func vec3(x, y, z float64) Array {
	return pod.NewArray([]float64{x, y, z})
}

func int32s(v ...int32) Array {
	return pod.NewArray(v)
}

// sceneArchive describes the archive most tests read:
//
//	/                title
//	/xform           .xform{.vals, .inherits}
//	/xform/mesh      .geom{P, .faceIndices, uv{vals}, names}
//	/camera
//	/dedup           first, second
func sceneArchive() *fixture.Archive {
	tri := []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}
	triUp := []float32{0, 0, 1, 1, 0, 1, 0, 1, 1}

	mesh := &fixture.Object{
		Name:     "mesh",
		MetaData: table.ParseMetaData("schema=AbcGeom_PolyMesh_v1"),
		Properties: []*fixture.Property{{
			Name: ".geom",
			Kind: header.Compound,
			Children: []*fixture.Property{
				{
					Name: "P", Kind: header.Array, Homogeneous: true,
					DataType: pod.DataType{Kind: pod.Float32, Extent: 3},
					MetaData: table.ParseMetaData("interpretation=point"),
					Samples:  []pod.Array{pod.NewArray(tri), pod.NewArray(tri), pod.NewArray(triUp)},
				},
				{
					Name: ".faceIndices", Kind: header.Array,
					DataType: pod.DataType{Kind: pod.Int32, Extent: 1},
					Samples:  []pod.Array{int32s(0, 1, 2)},
					Dims:     [][]uint64{{3}},
				},
				{
					Name: "uv", Kind: header.Compound,
					Children: []*fixture.Property{{
						Name: "vals", Kind: header.Array,
						DataType: pod.DataType{Kind: pod.Float32, Extent: 2},
						Samples:  []pod.Array{pod.NewArray([]float32{0, 0, 1, 0, 0, 1})},
					}},
				},
				{
					Name: "names", Kind: header.Array,
					DataType: pod.DataType{Kind: pod.String, Extent: 1},
					Samples:  []pod.Array{pod.NewArray([]string{"a", "bc"})},
				},
			},
		}},
	}

	xform := &fixture.Object{
		Name:          "xform",
		MetaData:      table.ParseMetaData("schema=AbcGeom_Xform_v3"),
		MetaDataIndex: 1,
		Properties: []*fixture.Property{{
			Name: ".xform",
			Kind: header.Compound,
			Children: []*fixture.Property{
				{
					Name: ".vals", Kind: header.Scalar, TimeSamplingIndex: 1,
					DataType: pod.DataType{Kind: pod.Float64, Extent: 3},
					Samples:  []pod.Array{vec3(0, 0, 0), vec3(1, 0, 0), vec3(2, 0, 0)},
				},
				{
					Name: ".inherits", Kind: header.Scalar,
					DataType: pod.DataType{Kind: pod.Bool, Extent: 1},
					Samples:  []pod.Array{pod.NewArray([]bool{true})},
				},
			},
		}},
		Children: []*fixture.Object{mesh},
	}

	dedup := &fixture.Object{
		Name: "dedup",
		Properties: []*fixture.Property{
			{
				Name: "first", Kind: header.Scalar,
				DataType: pod.DataType{Kind: pod.Int32, Extent: 1},
				Samples:  []pod.Array{int32s(7)},
			},
			{
				Name: "second", Kind: header.Scalar, Indexed: true,
				DataType: pod.DataType{Kind: pod.Int32, Extent: 1},
				Samples:  []pod.Array{int32s(10), int32s(20), int32s(20), int32s(30), int32s(30)},
			},
		},
	}

	return &fixture.Archive{
		MetaData: table.ParseMetaData("_ai_Application=go-ogawa;_ai_Description=scene"),
		IndexedMetaData: []table.MetaData{
			table.ParseMetaData("schema=AbcGeom_Xform_v3"),
		},
		TimeSamplings: []*table.TimeSampling{
			{MaxSample: 1, TimePerCycle: 1, StoredTimes: []float64{0}},
			{MaxSample: 3, TimePerCycle: 1.0 / 24, StoredTimes: []float64{1.0 / 24}},
		},
		Root: &fixture.Object{
			Properties: []*fixture.Property{{
				Name: "title", Kind: header.Scalar,
				DataType: pod.DataType{Kind: pod.String, Extent: 1},
				Samples:  []pod.Array{pod.NewArray([]string{"demo"})},
			}},
			Children: []*fixture.Object{xform, {Name: "camera"}, dedup},
		},
	}
}

func buildImage(t *testing.T, a *fixture.Archive) []byte {
	t.Helper()
	img, err := fixture.Build(a)
	require.NoError(t, err)
	return img
}

func openScene(t *testing.T, opts ...Option) *Archive {
	t.Helper()
	a, err := New(BytesSource(buildImage(t, sceneArchive())), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func mustProperty(t *testing.T, a *Archive, path string) PropertyReader {
	t.Helper()
	p, err := a.Property(path)
	require.NoError(t, err, path)
	return p
}
