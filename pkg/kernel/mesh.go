package kernel

import "github.com/go-gl/mathgl/mgl32"

// Mesh is an indexed triangle mesh in the object's local space.
// Vertices has 3 floats per vertex (x,y,z); Indices has 3 entries per
// triangle, each an offset into the vertex list.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	PartName string    `json:"partName"` // which scene object this came from
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of complete triangles. Trailing indices
// that do not fill a triangle are not counted.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Positions returns the vertex list as points. A trailing partial vertex is
// dropped.
func (m *Mesh) Positions() []mgl32.Vec3 {
	n := m.VertexCount()
	out := make([]mgl32.Vec3, n)
	for i := 0; i < n; i++ {
		out[i] = mgl32.Vec3{m.Vertices[i*3], m.Vertices[i*3+1], m.Vertices[i*3+2]}
	}
	return out
}
