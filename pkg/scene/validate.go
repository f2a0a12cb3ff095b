package scene

import (
	"fmt"

	"github.com/chazu/tricenter/pkg/xform"
)

// ValidationSeverity indicates whether a validation finding blocks
// tessellation or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks tessellation
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Object   string             // which object has the problem (empty if scene-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.Object == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] object %q: %s", e.Severity, e.Object, e.Message)
}

// ValidationResult bundles errors (blocking) and warnings (advisory).
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// OK reports whether there are no blocking errors.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// Validate checks every object in insertion order. It never mutates the
// scene.
func Validate(s *Scene) ValidationResult {
	var result ValidationResult
	for _, name := range s.Order {
		o := s.Objects[name]
		for _, f := range validateObject(o) {
			if f.Severity == SeverityWarning {
				result.Warnings = append(result.Warnings, f)
			} else {
				result.Errors = append(result.Errors, f)
			}
		}
	}
	return result
}

func validateObject(o *Object) []ValidationError {
	var out []ValidationError
	add := func(sev ValidationSeverity, format string, args ...any) {
		out = append(out, ValidationError{
			Object:   o.Name,
			Message:  fmt.Sprintf(format, args...),
			Severity: sev,
		})
	}

	if o.Shape == nil && o.Mesh == nil {
		add(SeverityError, "object has no shape")
	}
	if o.Shape != nil {
		for _, msg := range validateShape(o.Shape) {
			add(SeverityError, "%s", msg)
		}
	}

	if ms, ok := o.Shape.(MeshShape); ok && len(ms.Indices)%3 != 0 {
		add(SeverityWarning, "index buffer length %d leaves %d trailing indices", len(ms.Indices), len(ms.Indices)%3)
	}
	if o.Matrix != nil && !xform.IsAffine(*o.Matrix) {
		add(SeverityWarning, "matrix bottom row is not (0 0 0 1), centers will be divided by w")
	}
	sc := o.Placement.Scale
	if o.Matrix == nil && (sc[0] == 0 || sc[1] == 0 || sc[2] == 0) {
		add(SeverityWarning, "placement scale %v collapses the object onto a plane", sc)
	}
	return out
}

// validateShape returns one message per problem found in sh and its operands.
func validateShape(sh Shape) []string {
	var msgs []string
	switch v := sh.(type) {
	case BoxShape:
		if v.X <= 0 || v.Y <= 0 || v.Z <= 0 {
			msgs = append(msgs, fmt.Sprintf("box dimensions %gx%gx%g must be positive", v.X, v.Y, v.Z))
		}
	case CylinderShape:
		if v.Height <= 0 || v.Radius <= 0 {
			msgs = append(msgs, fmt.Sprintf("cylinder height %g and radius %g must be positive", v.Height, v.Radius))
		}
	case SphereShape:
		if v.Radius <= 0 {
			msgs = append(msgs, fmt.Sprintf("sphere radius %g must be positive", v.Radius))
		}
	case CSGShape:
		if v.A == nil || v.B == nil {
			msgs = append(msgs, fmt.Sprintf("%s needs two operands", v.Op))
			break
		}
		msgs = append(msgs, validateShape(v.A)...)
		msgs = append(msgs, validateShape(v.B)...)
	case MeshShape:
		if len(v.Vertices)%3 != 0 {
			msgs = append(msgs, fmt.Sprintf("mesh vertex buffer length %d is not a multiple of 3", len(v.Vertices)))
		}
		if len(v.Indices) == 0 || len(v.Vertices) == 0 {
			msgs = append(msgs, "mesh has empty buffers")
		}
	}
	return msgs
}
