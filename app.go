package main

import (
	"errors"
	"fmt"
	"log"

	"github.com/chazu/tricenter/pkg/centroid"
	"github.com/chazu/tricenter/pkg/config"
	"github.com/chazu/tricenter/pkg/engine"
	"github.com/chazu/tricenter/pkg/kernel"
	"github.com/chazu/tricenter/pkg/kernel/sdfx"
	"github.com/chazu/tricenter/pkg/scene"
	"github.com/chazu/tricenter/pkg/tessellate"
	"github.com/chazu/tricenter/pkg/xform"
)

// Error kinds reported in ErrorData.Kind. Centroid failures use the text of
// the centroid sentinel instead.
const (
	KindFatal      = "fatal"
	KindEval       = "eval"
	KindValidation = "validation"
	KindTessellate = "tessellate"
)

// App runs scene scripts through the whole pipeline: evaluate, validate,
// tessellate, then compute triangle centers per object.
type App struct {
	engine *engine.Engine
	kernel kernel.Kernel
	calc   *centroid.Calculator
}

// ErrorData is a JSON-serializable error or warning.
type ErrorData struct {
	Kind    string `json:"kind"`
	Object  string `json:"object,omitempty"`
	Line    int    `json:"line,omitempty"`
	Col     int    `json:"col,omitempty"`
	Message string `json:"message"`
}

func (e ErrorData) Error() string {
	switch {
	case e.Line > 0:
		return fmt.Sprintf("%s: line %d: %s", e.Kind, e.Line, e.Message)
	case e.Object != "":
		return fmt.Sprintf("%s: object %q: %s", e.Kind, e.Object, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
}

// ObjectCenters holds the triangle centers of one object in both spaces.
type ObjectCenters struct {
	Name          string      `json:"name"`
	TriangleCount int         `json:"triangleCount"`
	Matrix        [16]float32 `json:"matrix"` // row-major local-to-world
	Local         []float32   `json:"local"`
	World         []float32   `json:"world"`
}

// EvalResult is the full result of one Evaluate call.
type EvalResult struct {
	Objects  []ObjectCenters `json:"objects"`
	Errors   []ErrorData     `json:"errors"`
	Warnings []ErrorData     `json:"warnings"`
}

// NewApp creates an App with default settings.
func NewApp() *App {
	return &App{
		engine: engine.NewEngine(),
		kernel: sdfx.New(),
		calc:   &centroid.Calculator{},
	}
}

// NewAppWithConfig creates an App from loaded settings.
func NewAppWithConfig(cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	timeout, err := cfg.Timeout()
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	calc, err := cfg.Calculator()
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	return &App{
		engine: engine.NewEngineWithTimeout(timeout),
		kernel: sdfx.NewWithCells(cfg.MeshCells),
		calc:   calc,
	}, nil
}

// Evaluate runs source and returns centers for every placed object.
// Objects whose centers cannot be computed are reported in Errors; the
// remaining objects are still returned.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Objects:  []ObjectCenters{},
		Errors:   []ErrorData{},
		Warnings: []ErrorData{},
	}

	s, errs, warnings := a.buildScene(source)
	result.Warnings = append(result.Warnings, warnings...)
	if len(errs) > 0 {
		result.Errors = append(result.Errors, errs...)
		return result
	}

	for _, name := range s.Names() {
		o := s.Lookup(name)
		centers, err := a.calc.ComputeBoth(o)
		if err != nil {
			log.Printf("Centers error for %q: %v", name, err)
			result.Errors = append(result.Errors, centroidError(name, err))
			continue
		}
		result.Objects = append(result.Objects, ObjectCenters{
			Name:          name,
			TriangleCount: centers.TriangleCount(),
			Matrix:        xform.Rows(o.LocalToWorld()),
			Local:         centers.Local,
			World:         centers.World,
		})
	}

	return result
}

// TriangleCenters runs source and returns the world-space centers of the
// object named target.
func (a *App) TriangleCenters(source, target string) ([]float32, error) {
	s, errs, _ := a.buildScene(source)
	if len(errs) > 0 {
		joined := make([]error, len(errs))
		for i, e := range errs {
			joined[i] = e
		}
		return nil, errors.Join(joined...)
	}
	return a.calc.ComputeTarget(s, target)
}

// buildScene evaluates, validates and tessellates source. The scene is nil
// whenever errs is non-empty.
func (a *App) buildScene(source string) (s *scene.Scene, errs, warnings []ErrorData) {
	// Step 1: Evaluate the Lisp source into a scene.
	s, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("Evaluate fatal error: %v", err)
		return nil, []ErrorData{{Kind: KindFatal, Message: err.Error()}}, nil
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			errs = append(errs, ErrorData{
				Kind:    KindEval,
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return nil, errs, nil
	}

	// Step 2: Validate before handing shapes to the kernel.
	v := scene.Validate(s)
	for _, w := range v.Warnings {
		warnings = append(warnings, ErrorData{Kind: KindValidation, Object: w.Object, Message: w.Message})
	}
	if !v.OK() {
		for _, e := range v.Errors {
			errs = append(errs, ErrorData{Kind: KindValidation, Object: e.Object, Message: e.Message})
		}
		return nil, errs, warnings
	}

	// Step 3: Tessellate every object into a local-space mesh.
	if _, err := tessellate.Tessellate(s, a.kernel); err != nil {
		log.Printf("Tessellate error: %v", err)
		return nil, []ErrorData{{Kind: KindTessellate, Message: err.Error()}}, warnings
	}

	return s, nil, warnings
}

func centroidError(object string, err error) ErrorData {
	kind := "centroid"
	if k := centroid.Kind(err); k != nil {
		kind = k.Error()
	}
	return ErrorData{Kind: kind, Object: object, Message: err.Error()}
}
