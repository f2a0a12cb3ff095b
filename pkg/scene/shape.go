package scene

import "fmt"

// Shape is the interface for the geometry attached to an object.
type Shape interface {
	shape() // marker method restricting implementations to this package
	String() string
}

// BoxShape is an axis-aligned box centered on the object origin.
type BoxShape struct {
	X, Y, Z float64
}

func (BoxShape) shape() {}

func (b BoxShape) String() string { return fmt.Sprintf("box %gx%gx%g", b.X, b.Y, b.Z) }

// CylinderShape is a cylinder along the local Z axis centered on the origin.
type CylinderShape struct {
	Height float64
	Radius float64
}

func (CylinderShape) shape() {}

func (c CylinderShape) String() string {
	return fmt.Sprintf("cylinder h=%g r=%g", c.Height, c.Radius)
}

// SphereShape is a sphere centered on the origin.
type SphereShape struct {
	Radius float64
}

func (SphereShape) shape() {}

func (s SphereShape) String() string { return fmt.Sprintf("sphere r=%g", s.Radius) }

// CSGOp enumerates boolean combinations.
type CSGOp int

const (
	CSGUnion CSGOp = iota
	CSGDifference
	CSGIntersection
)

func (op CSGOp) String() string {
	switch op {
	case CSGUnion:
		return "union"
	case CSGDifference:
		return "difference"
	case CSGIntersection:
		return "intersection"
	default:
		return "unknown"
	}
}

// CSGShape combines two shapes. B is rotated by Rotate (Euler angles in
// degrees, X then Y then Z) and then moved by Offset before the operation.
type CSGShape struct {
	Op     CSGOp
	A, B   Shape
	Offset [3]float64
	Rotate [3]float64
}

func (CSGShape) shape() {}

func (c CSGShape) String() string {
	if c.Rotate != [3]float64{} {
		return fmt.Sprintf("(%s %v %v :rotate %v)", c.Op, c.A, c.B, c.Rotate)
	}
	return fmt.Sprintf("(%s %v %v)", c.Op, c.A, c.B)
}

// MeshShape carries raw buffers supplied directly by the caller. Vertices
// holds 3 floats per vertex; Indices holds vertex triples.
type MeshShape struct {
	Vertices []float32
	Indices  []uint32
}

func (MeshShape) shape() {}

func (m MeshShape) String() string {
	return fmt.Sprintf("mesh %d vertices %d indices", len(m.Vertices)/3, len(m.Indices))
}
