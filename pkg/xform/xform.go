// Package xform builds and applies the 4x4 local-to-world matrices used to
// move triangle centers from mesh space into world space. Matrices are
// mgl32.Mat4 values (column-major storage, column-vector convention).
package xform

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrPointAtInfinity is returned by ApplyPoint when the homogeneous w of the
// transformed point is zero.
var ErrPointAtInfinity = errors.New("xform: transformed point has w = 0")

// Identity returns the 4x4 identity matrix.
func Identity() mgl32.Mat4 {
	return mgl32.Ident4()
}

// Translation returns a pure translation by (x, y, z).
func Translation(x, y, z float32) mgl32.Mat4 {
	return mgl32.Translate3D(x, y, z)
}

// FromRows builds a matrix from 16 values listed row by row, the way a
// matrix is written on paper. The last four values are the homogeneous row.
func FromRows(v [16]float32) mgl32.Mat4 {
	return mgl32.Mat4FromRows(
		mgl32.Vec4{v[0], v[1], v[2], v[3]},
		mgl32.Vec4{v[4], v[5], v[6], v[7]},
		mgl32.Vec4{v[8], v[9], v[10], v[11]},
		mgl32.Vec4{v[12], v[13], v[14], v[15]},
	)
}

// Rows is the inverse of FromRows.
func Rows(m mgl32.Mat4) [16]float32 {
	var out [16]float32
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out[r*4+c] = m.At(r, c)
		}
	}
	return out
}

// IsAffine reports whether the bottom row of m is exactly (0, 0, 0, 1).
func IsAffine(m mgl32.Mat4) bool {
	row := m.Row(3)
	return row[0] == 0 && row[1] == 0 && row[2] == 0 && row[3] == 1
}

// ApplyPoint multiplies m by p treated as a column vector with w = 1.
// When the resulting w is not exactly 1 the coordinates are divided by it.
func ApplyPoint(m mgl32.Mat4, p mgl32.Vec3) (mgl32.Vec3, error) {
	h := m.Mul4x1(p.Vec4(1))
	w := h.W()
	if w == 1 {
		return h.Vec3(), nil
	}
	if w == 0 {
		return mgl32.Vec3{}, ErrPointAtInfinity
	}
	return mgl32.Vec3{h.X() / w, h.Y() / w, h.Z() / w}, nil
}
