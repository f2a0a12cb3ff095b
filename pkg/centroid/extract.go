package centroid

import "github.com/go-gl/mathgl/mgl32"

// Extract returns the local-space center of every triangle named by indices.
//
// Empty buffers are rejected with ErrInvalidInput and a nil result. A trailing
// partial triangle is dropped or rejected according to c.Partial. Indices are
// checked before use; the first one past the end of vertices fails the whole
// call with ErrIndexOutOfRange.
func (c *Calculator) Extract(indices []uint32, vertices []mgl32.Vec3) ([]float32, error) {
	if len(indices) == 0 {
		return nil, newError("extract", ErrInvalidInput, "index buffer is empty")
	}
	if len(vertices) == 0 {
		return nil, newError("extract", ErrInvalidInput, "vertex buffer is empty")
	}
	if rem := len(indices) % 3; rem != 0 && c.Partial == Strict {
		return nil, newError("extract", ErrInvalidInput,
			"index buffer length %d is not a multiple of 3 (%d trailing)", len(indices), rem)
	}

	numTriangles := len(indices) / 3
	out := make([]float32, numTriangles*3)

	err := c.forEachRange(numTriangles, func(lo, hi int) error {
		return extractRange(out, indices, vertices, lo, hi)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func extractRange(out []float32, indices []uint32, vertices []mgl32.Vec3, lo, hi int) error {
	nv := uint32(len(vertices))
	for k := lo; k < hi; k++ {
		base := k * 3
		tri := indices[base : base+3 : base+3]
		for slot, idx := range tri {
			if idx >= nv {
				return newError("extract", ErrIndexOutOfRange,
					"triangle %d vertex %d references index %d, vertex buffer has %d entries",
					k, slot, idx, nv)
			}
		}

		a, b, v := vertices[tri[0]], vertices[tri[1]], vertices[tri[2]]
		out[base] = (a[0] + b[0] + v[0]) / 3
		out[base+1] = (a[1] + b[1] + v[1]) / 3
		out[base+2] = (a[2] + b[2] + v[2]) / 3
	}
	return nil
}
