package kernel

// Weld builds an indexed mesh from a triangle soup. Corners with identical
// positions share one vertex; triangle order and winding are preserved.
func Weld(triangles [][3][3]float32) *Mesh {
	m := &Mesh{
		Vertices: make([]float32, 0, len(triangles)*3),
		Indices:  make([]uint32, 0, len(triangles)*3),
	}
	seen := make(map[[3]float32]uint32, len(triangles))

	for _, tri := range triangles {
		for _, p := range tri {
			idx, ok := seen[p]
			if !ok {
				idx = uint32(len(m.Vertices) / 3)
				seen[p] = idx
				m.Vertices = append(m.Vertices, p[0], p[1], p[2])
			}
			m.Indices = append(m.Indices, idx)
		}
	}
	return m
}
