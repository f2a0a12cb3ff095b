package centroid_test

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/tricenter/pkg/centroid"
	"github.com/chazu/tricenter/pkg/xform"
)

const eps = 1e-5

type meshSource struct {
	indices  []uint32
	vertices []mgl32.Vec3
	matrix   mgl32.Mat4
}

func (m *meshSource) Indices() []uint32        { return m.indices }
func (m *meshSource) Vertices() []mgl32.Vec3   { return m.vertices }
func (m *meshSource) LocalToWorld() mgl32.Mat4 { return m.matrix }

type mapResolver map[string]centroid.MeshSource

func (r mapResolver) Resolve(target string) (centroid.MeshSource, bool) {
	src, ok := r[target]
	return src, ok
}

func rightTriangle() []mgl32.Vec3 {
	return []mgl32.Vec3{{0, 0, 0}, {3, 0, 0}, {0, 3, 0}}
}

// grid returns a fan of n triangles sharing one apex. Triangle k has center
// ((2k+2)/3, 1/3, 0).
func grid(n int) ([]uint32, []mgl32.Vec3) {
	vertices := make([]mgl32.Vec3, 0, n+2)
	for i := 0; i < n+2; i++ {
		vertices = append(vertices, mgl32.Vec3{float32(i), 0, 0})
	}
	vertices = append(vertices, mgl32.Vec3{0, 1, 0})
	apex := uint32(len(vertices) - 1)

	indices := make([]uint32, 0, n*3)
	for k := 0; k < n; k++ {
		indices = append(indices, uint32(k), uint32(k+2), apex)
	}
	return indices, vertices
}

func TestExtractCentroid(t *testing.T) {
	got, err := centroid.Extract([]uint32{0, 1, 2}, rightTriangle())
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{1, 1, 0}, got, eps)
}

func TestExtractTriangleCount(t *testing.T) {
	for _, n := range []int{1, 2, 7, 100} {
		indices, vertices := grid(n)
		got, err := centroid.Extract(indices, vertices)
		require.NoError(t, err)
		assert.Len(t, got, 3*n)
	}
}

func TestExtractSharedVertices(t *testing.T) {
	vertices := []mgl32.Vec3{{0, 0, 0}, {6, 0, 0}, {6, 6, 0}, {0, 6, 3}}
	indices := []uint32{0, 1, 2, 2, 3, 0}
	got, err := centroid.Extract(indices, vertices)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{4, 2, 0, 2, 4, 1}, got, eps)
}

func TestExtractDoesNotMutateInputs(t *testing.T) {
	indices := []uint32{0, 1, 2}
	vertices := rightTriangle()
	_, err := centroid.Extract(indices, vertices)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 1, 2}, indices)
	assert.Equal(t, rightTriangle(), vertices)
}

func TestExtractEmptyInput(t *testing.T) {
	tests := []struct {
		name     string
		indices  []uint32
		vertices []mgl32.Vec3
	}{
		{"nil indices", nil, rightTriangle()},
		{"empty indices", []uint32{}, rightTriangle()},
		{"nil vertices", []uint32{0, 1, 2}, nil},
		{"empty vertices", []uint32{0, 1, 2}, []mgl32.Vec3{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := centroid.Extract(tt.indices, tt.vertices)
			assert.ErrorIs(t, err, centroid.ErrInvalidInput)
			assert.Nil(t, got)
		})
	}
}

func TestExtractIndexOutOfRange(t *testing.T) {
	got, err := centroid.Extract([]uint32{0, 1, 2, 0, 3, 2}, rightTriangle())
	require.ErrorIs(t, err, centroid.ErrIndexOutOfRange)
	assert.Nil(t, got)

	var ce *centroid.Error
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "extract", ce.Op)
	assert.Contains(t, ce.Detail, "triangle 1")
	assert.Contains(t, ce.Detail, "index 3")
}

func TestExtractPartialTriangle(t *testing.T) {
	indices := []uint32{0, 1, 2, 1, 2}

	t.Run("truncate", func(t *testing.T) {
		calc := &centroid.Calculator{Partial: centroid.Truncate}
		got, err := calc.Extract(indices, rightTriangle())
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float32{1, 1, 0}, got, eps)
	})

	t.Run("truncate below one triangle", func(t *testing.T) {
		calc := &centroid.Calculator{Partial: centroid.Truncate}
		got, err := calc.Extract([]uint32{0, 1}, rightTriangle())
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("strict", func(t *testing.T) {
		calc := &centroid.Calculator{Partial: centroid.Strict}
		got, err := calc.Extract(indices, rightTriangle())
		assert.ErrorIs(t, err, centroid.ErrInvalidInput)
		assert.Nil(t, got)
	})

	t.Run("strict accepts whole triangles", func(t *testing.T) {
		calc := &centroid.Calculator{Partial: centroid.Strict}
		_, err := calc.Extract(indices[:3], rightTriangle())
		assert.NoError(t, err)
	})
}

func TestTransformIdentity(t *testing.T) {
	in := []float32{1, 2, 3, -4.5, 0.25, 1e3}
	got, err := centroid.Transform(in, xform.Identity())
	require.NoError(t, err)
	assert.InDeltaSlice(t, in, got, eps)
}

func TestTransformTranslation(t *testing.T) {
	in := []float32{1, 2, 3, 0, 0, 0}
	got, err := centroid.Transform(in, xform.Translation(10, -1, 0.5))
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{11, 1, 3.5, 10, -1, 0.5}, got, eps)
	assert.Equal(t, []float32{1, 2, 3, 0, 0, 0}, in, "input must not change")
}

func TestTransformInvalidInput(t *testing.T) {
	t.Run("absent", func(t *testing.T) {
		got, err := centroid.Transform(nil, xform.Identity())
		assert.ErrorIs(t, err, centroid.ErrInvalidInput)
		assert.Nil(t, got)
	})
	t.Run("not a multiple of 3", func(t *testing.T) {
		got, err := centroid.Transform([]float32{1, 2, 3, 4}, xform.Identity())
		assert.ErrorIs(t, err, centroid.ErrInvalidInput)
		assert.Nil(t, got)
	})
	t.Run("point at infinity", func(t *testing.T) {
		m := xform.Identity()
		m.Set(3, 3, 0)
		got, err := centroid.Transform([]float32{1, 2, 3}, m)
		assert.ErrorIs(t, err, centroid.ErrInvalidInput)
		assert.Nil(t, got)
	})
	t.Run("empty is fine", func(t *testing.T) {
		got, err := centroid.Transform([]float32{}, xform.Identity())
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestComputeEndToEnd(t *testing.T) {
	src := &meshSource{
		indices:  []uint32{0, 1, 2},
		vertices: []mgl32.Vec3{{0, 0, 0}, {2, 0, 0}, {0, 2, 0}},
		matrix:   xform.Translation(10, 0, 0),
	}
	got, err := centroid.Compute(src)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{10 + 2.0/3, 2.0 / 3, 0}, got, eps)

	both, err := centroid.ComputeBoth(src)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{2.0 / 3, 2.0 / 3, 0}, both.Local, eps)
	assert.Equal(t, got, both.World)
	assert.Equal(t, 1, both.TriangleCount())
	assert.Len(t, both.Local, len(both.World))
}

func TestComputeMissingSource(t *testing.T) {
	_, err := centroid.Compute(nil)
	assert.ErrorIs(t, err, centroid.ErrMissingSource)

	r := mapResolver{"cube": &meshSource{
		indices:  []uint32{0, 1, 2},
		vertices: rightTriangle(),
		matrix:   xform.Identity(),
	}}

	got, err := centroid.ComputeTarget(r, "sphere")
	assert.ErrorIs(t, err, centroid.ErrMissingSource)
	assert.Nil(t, got)
	assert.Equal(t, centroid.ErrMissingSource, centroid.Kind(err))

	got, err = centroid.ComputeTarget(nil, "cube")
	assert.ErrorIs(t, err, centroid.ErrMissingSource)
	assert.Nil(t, got)

	got, err = centroid.ComputeTarget(r, "cube")
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{1, 1, 0}, got, eps)
}

func TestComputeStopsAtFirstStage(t *testing.T) {
	src := &meshSource{
		indices:  []uint32{0, 1, 9},
		vertices: rightTriangle(),
		matrix:   xform.Identity(),
	}
	got, err := centroid.Compute(src)
	assert.ErrorIs(t, err, centroid.ErrIndexOutOfRange)
	assert.Nil(t, got)
}

func TestKindOfForeignError(t *testing.T) {
	assert.Nil(t, centroid.Kind(errors.New("boom")))
	assert.Nil(t, centroid.Kind(nil))
}

func TestParallelMatchesSequential(t *testing.T) {
	n := centroid.ParallelThreshold*3 + 17
	indices, vertices := grid(n)
	m := xform.Placement{
		Translation: mgl32.Vec3{1, 2, 3},
		Rotation:    mgl32.Vec3{30, 45, 60},
		Scale:       mgl32.Vec3{2, 2, 2},
	}.Matrix()
	src := &meshSource{indices: indices, vertices: vertices, matrix: m}

	seq, err := (&centroid.Calculator{}).ComputeBoth(src)
	require.NoError(t, err)
	par, err := (&centroid.Calculator{Workers: 4}).ComputeBoth(src)
	require.NoError(t, err)

	assert.Equal(t, seq.Local, par.Local)
	assert.Equal(t, seq.World, par.World)
	assert.InDelta(t, float64(2*n)/3, seq.Local[3*(n-1)], 1e-2)
}

func TestParallelReportsFirstBadTriangle(t *testing.T) {
	n := centroid.ParallelThreshold * 4
	indices, vertices := grid(n)
	bad := uint32(len(vertices))
	indices[3*(n-10)] = bad
	indices[3*(n/2)+1] = bad

	calc := &centroid.Calculator{Workers: 8}
	_, err := calc.Extract(indices, vertices)
	require.ErrorIs(t, err, centroid.ErrIndexOutOfRange)

	var ce *centroid.Error
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Detail, "triangle 8192 vertex 1")
}
