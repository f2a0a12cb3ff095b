// Package tessellate turns the shapes attached to scene objects into
// local-space triangle meshes using a geometry kernel. One mesh is produced
// per object. Object placement is never baked into the mesh; it stays on the
// object as its local-to-world matrix.
package tessellate

import (
	"fmt"

	"github.com/chazu/tricenter/pkg/kernel"
	"github.com/chazu/tricenter/pkg/scene"
)

// Tessellate builds a mesh for every object in s, in insertion order, and
// stores it on the object. Objects that already carry a mesh and have no
// shape are passed through unchanged.
func Tessellate(s *scene.Scene, k kernel.Kernel) ([]*kernel.Mesh, error) {
	if s == nil {
		return nil, nil
	}

	var meshes []*kernel.Mesh
	for _, name := range s.Order {
		o := s.Lookup(name)
		if o.Shape == nil {
			if o.Mesh == nil {
				return nil, fmt.Errorf("tessellate: object %q has no shape", name)
			}
			meshes = append(meshes, o.Mesh)
			continue
		}

		mesh, err := tessellateShape(k, o.Shape)
		if err != nil {
			return nil, fmt.Errorf("tessellate: object %q: %w", name, err)
		}
		mesh.PartName = name
		o.Mesh = mesh
		meshes = append(meshes, mesh)
	}
	return meshes, nil
}

// tessellateShape meshes a single shape. Raw meshes bypass the kernel.
func tessellateShape(k kernel.Kernel, sh scene.Shape) (mesh *kernel.Mesh, err error) {
	if ms, ok := sh.(scene.MeshShape); ok {
		return rawMesh(ms), nil
	}
	if k == nil {
		return nil, fmt.Errorf("no geometry kernel for %v", sh)
	}

	// Kernel constructors panic on degenerate input.
	defer func() {
		if r := recover(); r != nil {
			mesh = nil
			err = fmt.Errorf("kernel panic: %v", r)
		}
	}()

	solid, err := buildSolid(k, sh)
	if err != nil {
		return nil, err
	}
	if lo, hi := solid.BoundingBox(); !hasVolume(lo, hi) {
		return nil, fmt.Errorf("%v has an empty bounding box %v..%v", sh, lo, hi)
	}
	mesh, err = k.ToMesh(solid)
	if err != nil {
		return nil, fmt.Errorf("ToMesh failed: %w", err)
	}
	return mesh, nil
}

// buildSolid walks a shape tree bottom-up.
func buildSolid(k kernel.Kernel, sh scene.Shape) (kernel.Solid, error) {
	switch v := sh.(type) {
	case scene.BoxShape:
		return k.Box(v.X, v.Y, v.Z), nil

	case scene.CylinderShape:
		return k.Cylinder(v.Height, v.Radius), nil

	case scene.SphereShape:
		return k.Sphere(v.Radius), nil

	case scene.CSGShape:
		if v.A == nil || v.B == nil {
			return nil, fmt.Errorf("%s needs two operands", v.Op)
		}
		a, err := buildSolid(k, v.A)
		if err != nil {
			return nil, err
		}
		b, err := buildSolid(k, v.B)
		if err != nil {
			return nil, err
		}
		if rot := v.Rotate; rot != [3]float64{} {
			b = k.Rotate(b, rot[0], rot[1], rot[2])
		}
		if off := v.Offset; off != [3]float64{} {
			b = k.Translate(b, off[0], off[1], off[2])
		}
		switch v.Op {
		case scene.CSGUnion:
			return k.Union(a, b), nil
		case scene.CSGDifference:
			return k.Difference(a, b), nil
		case scene.CSGIntersection:
			return k.Intersection(a, b), nil
		default:
			return nil, fmt.Errorf("unknown boolean operation %v", v.Op)
		}

	case scene.MeshShape:
		return nil, fmt.Errorf("raw mesh cannot be used as a boolean operand")

	default:
		return nil, fmt.Errorf("unsupported shape type %T", sh)
	}
}

func hasVolume(lo, hi [3]float64) bool {
	for i := range lo {
		if !(hi[i] > lo[i]) {
			return false
		}
	}
	return true
}

// rawMesh copies caller buffers so later edits to the shape do not leak
// into the tessellated mesh.
func rawMesh(ms scene.MeshShape) *kernel.Mesh {
	m := &kernel.Mesh{
		Vertices: make([]float32, len(ms.Vertices)),
		Indices:  make([]uint32, len(ms.Indices)),
	}
	copy(m.Vertices, ms.Vertices)
	copy(m.Indices, ms.Indices)
	return m
}
