// Package scene holds the named objects a script or host defines. Each
// object is a target handle: a shape, its local mesh once tessellated, and
// the matrix that places it in the world. The scene is flat; objects are
// never parented to one another.
package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/chazu/tricenter/pkg/centroid"
	"github.com/chazu/tricenter/pkg/kernel"
	"github.com/chazu/tricenter/pkg/xform"
)

// Object is one named thing in the scene.
type Object struct {
	Name      string          `json:"name"`
	Shape     Shape           `json:"-"`
	Placement xform.Placement `json:"placement"`
	Matrix    *mgl32.Mat4     `json:"matrix,omitempty"` // overrides Placement when set
	Mesh      *kernel.Mesh    `json:"mesh,omitempty"`
}

var _ centroid.MeshSource = (*Object)(nil)

// Indices returns the mesh index buffer, or nil before tessellation.
func (o *Object) Indices() []uint32 {
	if o.Mesh == nil {
		return nil
	}
	return o.Mesh.Indices
}

// Vertices returns the mesh vertex positions, or nil before tessellation.
func (o *Object) Vertices() []mgl32.Vec3 {
	if o.Mesh == nil {
		return nil
	}
	return o.Mesh.Positions()
}

// LocalToWorld returns the object's local-to-world matrix.
func (o *Object) LocalToWorld() mgl32.Mat4 {
	if o.Matrix != nil {
		return *o.Matrix
	}
	return o.Placement.Matrix()
}

// Scene is an ordered set of uniquely named objects.
type Scene struct {
	Objects map[string]*Object `json:"objects"`
	Order   []string           `json:"order"`
}

// New creates an empty Scene.
func New() *Scene {
	return &Scene{Objects: make(map[string]*Object)}
}

// Add registers an object. Names must be non-empty and unique.
func (s *Scene) Add(o *Object) error {
	if o == nil {
		return fmt.Errorf("scene: nil object")
	}
	if o.Name == "" {
		return fmt.Errorf("scene: object has no name")
	}
	if _, dup := s.Objects[o.Name]; dup {
		return fmt.Errorf("scene: duplicate object name %q", o.Name)
	}
	s.Objects[o.Name] = o
	s.Order = append(s.Order, o.Name)
	return nil
}

// Lookup returns the object with the given name, or nil.
func (s *Scene) Lookup(name string) *Object {
	return s.Objects[name]
}

// Names returns object names in insertion order.
func (s *Scene) Names() []string {
	out := make([]string, len(s.Order))
	copy(out, s.Order)
	return out
}

// Len returns the number of objects.
func (s *Scene) Len() int {
	return len(s.Objects)
}

// Resolve implements centroid.Resolver. Unknown names and objects without a
// mesh do not resolve.
func (s *Scene) Resolve(target string) (centroid.MeshSource, bool) {
	o := s.Lookup(target)
	if o == nil || o.Mesh == nil {
		return nil, false
	}
	return o, true
}
