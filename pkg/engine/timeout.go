package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/chazu/tricenter/pkg/scene"
)

// EvalTimeout is the default hard limit for a single evaluation.
const EvalTimeout = 5 * time.Second

// ErrSuperseded is returned by Evaluate when a later call on the same Engine
// started before this one finished.
var ErrSuperseded = errors.New("evaluation superseded by newer request")

// evalResult carries one evaluation back from its goroutine.
type evalResult struct {
	scene  *scene.Scene
	errors []EvalError
	err    error
}

// begin opens a new generation and returns its number. Any evaluation still
// running under an older generation loses its result.
func (e *Engine) begin() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generation++
	return e.generation
}

// latest reports whether gen is the most recent generation.
func (e *Engine) latest(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return gen == e.generation
}

// await blocks until ch delivers or the engine's limit elapses. A timed-out
// goroutine keeps running; whatever it sends later goes unread.
func (e *Engine) await(ch <-chan evalResult, gen uint64) (*scene.Scene, []EvalError, error) {
	timer := time.NewTimer(e.timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		if !e.latest(gen) {
			return nil, nil, ErrSuperseded
		}
		return res.scene, res.errors, res.err
	case <-timer.C:
		return nil, nil, fmt.Errorf("evaluation timed out after %s", e.timeout)
	}
}
