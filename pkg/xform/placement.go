package xform

import "github.com/go-gl/mathgl/mgl32"

// Placement is a translate/rotate/scale description of where an object sits
// in the world.
type Placement struct {
	Translation mgl32.Vec3 `json:"translation"`
	Rotation    mgl32.Vec3 `json:"rotation"` // Euler angles in degrees
	Scale       mgl32.Vec3 `json:"scale"`
}

// NewPlacement returns a placement at the origin with unit scale.
func NewPlacement() Placement {
	return Placement{Scale: mgl32.Vec3{1, 1, 1}}
}

// Matrix composes the placement as T * Rz * Ry * Rx * S, so points are
// scaled first, rotated about X then Y then Z, and translated last.
func (p Placement) Matrix() mgl32.Mat4 {
	if p.IsIdentity() {
		return mgl32.Ident4()
	}
	t := mgl32.Translate3D(p.Translation.X(), p.Translation.Y(), p.Translation.Z())
	r := mgl32.HomogRotate3DZ(mgl32.DegToRad(p.Rotation.Z())).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(p.Rotation.Y()))).
		Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(p.Rotation.X())))
	s := mgl32.Scale3D(p.Scale.X(), p.Scale.Y(), p.Scale.Z())
	return t.Mul4(r).Mul4(s)
}

// IsIdentity reports whether the placement leaves points unchanged.
func (p Placement) IsIdentity() bool {
	return p.Translation == mgl32.Vec3{} &&
		p.Rotation == mgl32.Vec3{} &&
		p.Scale == mgl32.Vec3{1, 1, 1}
}
