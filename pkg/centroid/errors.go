package centroid

import (
	"errors"
	"fmt"
)

// Sentinel errors identifying why a computation failed. Every error returned
// by this package is an *Error wrapping exactly one of them.
var (
	// ErrMissingSource means the target handle did not resolve to a mesh.
	ErrMissingSource = errors.New("mesh source not found")

	// ErrInvalidInput means a required buffer was absent or malformed at a
	// stage boundary.
	ErrInvalidInput = errors.New("invalid input")

	// ErrIndexOutOfRange means a triangle referenced a vertex past the end
	// of the vertex buffer.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// Error describes a failed stage.
type Error struct {
	Op     string // "resolve", "extract" or "transform"
	Err    error  // one of the sentinels above
	Detail string // which precondition failed
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("centroid: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("centroid: %s: %v: %s", e.Op, e.Err, e.Detail)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(op string, kind error, format string, args ...any) *Error {
	return &Error{Op: op, Err: kind, Detail: fmt.Sprintf(format, args...)}
}

// Kind returns the sentinel wrapped by err, or nil when err did not come
// from this package.
func Kind(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return e.Err
	}
	return nil
}
