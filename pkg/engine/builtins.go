package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/tricenter/pkg/scene"
	"github.com/chazu/tricenter/pkg/xform"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource rewrites scene script source before passing it to
// zygomys. It performs three transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: base-plate -> base_plate
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
//  3. Line comments: ; and ;; become //, which is what zygomys expects.
//
// All of them respect string literal boundaries.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// ; line comments.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpShape wraps a scene.Shape so it can be passed between builtins.
type sexpShape struct {
	shape scene.Shape
}

func (s *sexpShape) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(%s)", s.shape)
}
func (s *sexpShape) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps an mgl32.Vec3.
type sexpVec3 struct {
	vec mgl32.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec[0], v.vec[1], v.vec[2])
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpMatrix wraps a 4x4 local-to-world matrix.
type sexpMatrix struct {
	m mgl32.Mat4
}

func (m *sexpMatrix) SexpString(ps *zygo.PrintState) string {
	rows := xform.Rows(m.m)
	parts := make([]string, len(rows))
	for i, v := range rows {
		parts[i] = fmt.Sprintf("%g", v)
	}
	return "(matrix " + strings.Join(parts, " ") + ")"
}
func (m *sexpMatrix) Type() *zygo.RegisteredType { return nil }

// sexpObjectRef names an object placed in the scene.
type sexpObjectRef struct {
	name string
}

func (o *sexpObjectRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(object %q)", o.name)
}
func (o *sexpObjectRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			i++
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i += 2
		} else {
			// Trailing keyword with no value.
			result.kw[name] = zygo.SexpNull
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toIndex extracts a vertex index. Only non-negative integers that fit in
// 32 bits are accepted.
func toIndex(s zygo.Sexp) (uint32, error) {
	v, ok := s.(*zygo.SexpInt)
	if !ok {
		return 0, fmt.Errorf("expected integer index, got %T (%s)", s, s.SexpString(nil))
	}
	if v.Val < 0 || v.Val > math.MaxUint32 {
		return 0, fmt.Errorf("index %d out of range", v.Val)
	}
	return uint32(v.Val), nil
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_name) and plain strings ("name").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toVec3 extracts a Vec3 from a sexpVec3.
func toVec3(s zygo.Sexp) (mgl32.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return mgl32.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toScale accepts a vec3 or a single number for uniform scale.
func toScale(s zygo.Sexp) (mgl32.Vec3, error) {
	if f, err := toFloat64(s); err == nil {
		return mgl32.Vec3{float32(f), float32(f), float32(f)}, nil
	}
	v, err := toVec3(s)
	if err != nil {
		return mgl32.Vec3{}, fmt.Errorf("expected vec3 or number: %w", err)
	}
	return v, nil
}

// toShape extracts a scene.Shape from a sexpShape.
func toShape(s zygo.Sexp) (scene.Shape, error) {
	if sh, ok := s.(*sexpShape); ok {
		return sh.shape, nil
	}
	return nil, fmt.Errorf("expected shape, got %T (%s)", s, s.SexpString(nil))
}

// toMatrix extracts a 4x4 matrix from a sexpMatrix.
func toMatrix(s zygo.Sexp) (mgl32.Mat4, error) {
	if m, ok := s.(*sexpMatrix); ok {
		return m.m, nil
	}
	return mgl32.Mat4{}, fmt.Errorf("expected matrix, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// toFloat32s converts a list or array of numbers.
func toFloat32s(s zygo.Sexp) ([]float32, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	out := make([]float32, len(items))
	for i, item := range items {
		f, err := toFloat64(item)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = float32(f)
	}
	return out, nil
}

// toIndices converts a list or array of vertex indices.
func toIndices(s zygo.Sexp) ([]uint32, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	out := make([]uint32, len(items))
	for i, item := range items {
		idx, err := toIndex(item)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = idx
	}
	return out, nil
}

// requireFloat reads a mandatory numeric keyword argument.
func requireFloat(pa kwArgs, fn, key string) (float64, error) {
	v, ok := pa.kw[key]
	if !ok {
		return 0, fmt.Errorf("%s: missing :%s", fn, key)
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %s: %w", fn, key, err)
	}
	return f, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs all scene builtins into a zygomys environment.
// The builtins populate the provided Scene during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, s *scene.Scene) {
	shapes := make(map[string]scene.Shape)

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		var vec mgl32.Vec3
		for i, axis := range []string{"x", "y", "z"} {
			f, err := toFloat64(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %s: %w", axis, err)
			}
			vec[i] = float32(f)
		}
		return &sexpVec3{vec: vec}, nil
	})

	// -----------------------------------------------------------------------
	// (box 10 20 30) or (box :size (vec3 10 20 30))
	// -----------------------------------------------------------------------
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if v, ok := pa.kw["size"]; ok {
			size, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("box: size: %w", err)
			}
			return &sexpShape{shape: scene.BoxShape{
				X: float64(size[0]), Y: float64(size[1]), Z: float64(size[2]),
			}}, nil
		}
		if len(pa.positional) != 3 {
			return zygo.SexpNull, fmt.Errorf("box requires 3 dimensions or :size, got %d arguments", len(pa.positional))
		}
		var dims [3]float64
		for i := range dims {
			f, err := toFloat64(pa.positional[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("box: dimension %d: %w", i, err)
			}
			dims[i] = f
		}
		return &sexpShape{shape: scene.BoxShape{X: dims[0], Y: dims[1], Z: dims[2]}}, nil
	})

	// -----------------------------------------------------------------------
	// (cylinder :height 50 :radius 10)
	// -----------------------------------------------------------------------
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		h, err := requireFloat(pa, "cylinder", "height")
		if err != nil {
			return zygo.SexpNull, err
		}
		r, err := requireFloat(pa, "cylinder", "radius")
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpShape{shape: scene.CylinderShape{Height: h, Radius: r}}, nil
	})

	// -----------------------------------------------------------------------
	// (sphere :radius 5) or (sphere 5)
	// -----------------------------------------------------------------------
	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) == 1 {
			r, err := toFloat64(pa.positional[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("sphere: radius: %w", err)
			}
			return &sexpShape{shape: scene.SphereShape{Radius: r}}, nil
		}
		r, err := requireFloat(pa, "sphere", "radius")
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpShape{shape: scene.SphereShape{Radius: r}}, nil
	})

	// -----------------------------------------------------------------------
	// (union a b :offset (vec3 10 0 0) :rotate (vec3 90 0 0)), likewise
	// difference and intersection
	// -----------------------------------------------------------------------
	for _, op := range []scene.CSGOp{scene.CSGUnion, scene.CSGDifference, scene.CSGIntersection} {
		env.AddFunction(op.String(), func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			pa := parseArgs(args)
			if len(pa.positional) != 2 {
				return zygo.SexpNull, fmt.Errorf("%s requires exactly 2 shapes, got %d", op, len(pa.positional))
			}
			var operands [2]scene.Shape
			for i := range operands {
				sh, err := toShape(pa.positional[i])
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("%s: operand %d: %w", op, i+1, err)
				}
				if _, raw := sh.(scene.MeshShape); raw {
					return zygo.SexpNull, fmt.Errorf("%s: operand %d: raw mesh cannot be a boolean operand", op, i+1)
				}
				operands[i] = sh
			}
			cs := scene.CSGShape{Op: op, A: operands[0], B: operands[1]}
			if v, ok := pa.kw["offset"]; ok {
				off, err := toVec3(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("%s: offset: %w", op, err)
				}
				cs.Offset = [3]float64{float64(off[0]), float64(off[1]), float64(off[2])}
			}
			if v, ok := pa.kw["rotate"]; ok {
				rot, err := toVec3(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("%s: rotate: %w", op, err)
				}
				cs.Rotate = [3]float64{float64(rot[0]), float64(rot[1]), float64(rot[2])}
			}
			return &sexpShape{shape: cs}, nil
		})
	}

	// -----------------------------------------------------------------------
	// (mesh :vertices [0 0 0  1 0 0  0 1 0] :indices [0 1 2])
	// -----------------------------------------------------------------------
	env.AddFunction("mesh", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		var ms scene.MeshShape

		v, ok := pa.kw["vertices"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("mesh: missing :vertices")
		}
		verts, err := toFloat32s(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mesh: vertices: %w", err)
		}
		if len(verts)%3 != 0 {
			return zygo.SexpNull, fmt.Errorf("mesh: vertices: %d values is not a whole number of points", len(verts))
		}
		ms.Vertices = verts

		v, ok = pa.kw["indices"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("mesh: missing :indices")
		}
		ms.Indices, err = toIndices(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mesh: indices: %w", err)
		}
		return &sexpShape{shape: ms}, nil
	})

	// -----------------------------------------------------------------------
	// (matrix 1 0 0 10  0 1 0 0  0 0 1 0  0 0 0 1), row-major
	// -----------------------------------------------------------------------
	env.AddFunction("matrix", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		items := args
		if len(args) == 1 {
			var err error
			if items, err = sexpListToSlice(args[0]); err != nil {
				return zygo.SexpNull, fmt.Errorf("matrix: %w", err)
			}
		}
		if len(items) != 16 {
			return zygo.SexpNull, fmt.Errorf("matrix requires 16 values, got %d", len(items))
		}
		var rows [16]float32
		for i, item := range items {
			f, err := toFloat64(item)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("matrix: element %d: %w", i, err)
			}
			rows[i] = float32(f)
		}
		return &sexpMatrix{m: xform.FromRows(rows)}, nil
	})

	// -----------------------------------------------------------------------
	// (defshape "bracket" (difference ...))
	// -----------------------------------------------------------------------
	env.AddFunction("defshape", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("defshape requires a name and a shape expression")
		}
		shapeName, err := toKeywordString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defshape: name: %w", err)
		}
		if _, dup := shapes[shapeName]; dup {
			return zygo.SexpNull, fmt.Errorf("defshape: shape %q already defined", shapeName)
		}
		sh, err := toShape(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defshape: %w", err)
		}
		shapes[shapeName] = sh
		return &sexpShape{shape: sh}, nil
	})

	// -----------------------------------------------------------------------
	// (shape "bracket")
	// -----------------------------------------------------------------------
	env.AddFunction("shape", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("shape requires a name argument")
		}
		shapeName, err := toKeywordString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("shape: name: %w", err)
		}
		sh, ok := shapes[shapeName]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("shape: no shape named %q", shapeName)
		}
		return &sexpShape{shape: sh}, nil
	})

	// -----------------------------------------------------------------------
	// (place "left" (shape "bracket") :at (vec3 0 0 10) :rotate (vec3 0 0 90)
	//        :scale 2)
	// (place "raw" (mesh ...) :matrix (matrix ...))
	// -----------------------------------------------------------------------
	env.AddFunction("place", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("place requires an object name and a shape")
		}
		objName, err := toKeywordString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("place: name: %w", err)
		}
		sh, err := toShape(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("place %q: %w", objName, err)
		}

		o := &scene.Object{Name: objName, Shape: sh, Placement: xform.NewPlacement()}

		if v, ok := pa.kw["matrix"]; ok {
			for _, k := range []string{"at", "rotate", "scale"} {
				if _, clash := pa.kw[k]; clash {
					return zygo.SexpNull, fmt.Errorf("place %q: :matrix cannot be combined with :%s", objName, k)
				}
			}
			m, err := toMatrix(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("place %q: matrix: %w", objName, err)
			}
			o.Matrix = &m
		}
		if v, ok := pa.kw["at"]; ok {
			if o.Placement.Translation, err = toVec3(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("place %q: at: %w", objName, err)
			}
		}
		if v, ok := pa.kw["rotate"]; ok {
			if o.Placement.Rotation, err = toVec3(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("place %q: rotate: %w", objName, err)
			}
		}
		if v, ok := pa.kw["scale"]; ok {
			if o.Placement.Scale, err = toScale(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("place %q: scale: %w", objName, err)
			}
		}

		if err := s.Add(o); err != nil {
			return zygo.SexpNull, fmt.Errorf("place: %w", err)
		}
		return &sexpObjectRef{name: objName}, nil
	})
}
