package centroid

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/chazu/tricenter/pkg/xform"
)

// Transform maps a flat buffer of local-space centers through m and returns
// a new buffer of the same length. A nil buffer or one whose length is not a
// multiple of 3 is rejected with ErrInvalidInput.
func (c *Calculator) Transform(centers []float32, m mgl32.Mat4) ([]float32, error) {
	if centers == nil {
		return nil, newError("transform", ErrInvalidInput, "center buffer is absent")
	}
	if len(centers)%3 != 0 {
		return nil, newError("transform", ErrInvalidInput,
			"center buffer length %d is not a multiple of 3", len(centers))
	}

	numTriangles := len(centers) / 3
	out := make([]float32, len(centers))

	err := c.forEachRange(numTriangles, func(lo, hi int) error {
		for k := lo; k < hi; k++ {
			base := k * 3
			p := mgl32.Vec3{centers[base], centers[base+1], centers[base+2]}
			w, err := xform.ApplyPoint(m, p)
			if err != nil {
				return newError("transform", ErrInvalidInput, "triangle %d: %v", k, err)
			}
			out[base], out[base+1], out[base+2] = w[0], w[1], w[2]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
