// Package centroid computes the center of every triangle of an indexed mesh,
// first in the mesh's local space and then in world space.
//
// Buffers follow the usual GPU layout: an index buffer of uint32 triples,
// a vertex buffer of points, and a flat []float32 output holding x, y, z for
// triangle k at positions 3k, 3k+1 and 3k+2. Every call allocates fresh
// output; inputs are never modified.
package centroid

import "github.com/go-gl/mathgl/mgl32"

// MeshSource is what a host hands over for one object.
type MeshSource interface {
	Indices() []uint32
	Vertices() []mgl32.Vec3
	LocalToWorld() mgl32.Mat4
}

// Resolver maps an opaque target handle to a MeshSource. It reports false
// when the handle has no mesh attached.
type Resolver interface {
	Resolve(target string) (MeshSource, bool)
}

// PartialPolicy selects what happens to trailing indices that do not form a
// complete triangle.
type PartialPolicy int

const (
	// Truncate ignores the trailing one or two indices.
	Truncate PartialPolicy = iota
	// Strict rejects the index buffer with ErrInvalidInput.
	Strict
)

func (p PartialPolicy) String() string {
	switch p {
	case Truncate:
		return "truncate"
	case Strict:
		return "strict"
	default:
		return "unknown"
	}
}

// ParallelThreshold is the triangle count below which stages always run on
// the calling goroutine.
const ParallelThreshold = 4096

// Calculator holds the knobs shared by both stages. The zero value is ready
// to use: truncating, sequential.
type Calculator struct {
	Partial PartialPolicy
	Workers int // values <= 1 run sequentially
}

// Default is the calculator behind the package-level functions.
var Default = &Calculator{}

// Centers holds both coordinate spaces for one mesh.
type Centers struct {
	Local []float32
	World []float32
}

// TriangleCount returns the number of triangles described by the buffers.
func (c Centers) TriangleCount() int {
	return len(c.World) / 3
}

// Extract runs the extractor with Default.
func Extract(indices []uint32, vertices []mgl32.Vec3) ([]float32, error) {
	return Default.Extract(indices, vertices)
}

// Transform runs the transformer with Default.
func Transform(centers []float32, m mgl32.Mat4) ([]float32, error) {
	return Default.Transform(centers, m)
}

// Compute runs the full pipeline with Default.
func Compute(src MeshSource) ([]float32, error) {
	return Default.Compute(src)
}

// ComputeTarget resolves target and runs the full pipeline with Default.
func ComputeTarget(r Resolver, target string) ([]float32, error) {
	return Default.ComputeTarget(r, target)
}

// ComputeBoth runs the full pipeline with Default and keeps the local buffer.
func ComputeBoth(src MeshSource) (Centers, error) {
	return Default.ComputeBoth(src)
}
