package reactivity

import (
	"log/slog"

	"github.com/vango-dev/quill/internal/errors"
)

// Observer receives runtime events, typically for metrics.
// Implementations must not mutate reactive state.
type Observer interface {
	// OnEffectRun is called each time an effect's computation starts.
	OnEffectRun(effectID uint64)

	// OnDiagnostic is called for every recovered misuse (readonly write,
	// computed without setter, ...).
	OnDiagnostic(err *errors.QuillError)
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger used for diagnostics.
// If not set, slog.Default() is used.
func WithLogger(l *slog.Logger) Option {
	return func(rt *Runtime) {
		rt.logger = l
	}
}

// WithObserver attaches an Observer to the runtime.
func WithObserver(o Observer) Option {
	return func(rt *Runtime) {
		rt.observer = o
	}
}

// Runtime is the reactivity context: it owns the dependency store, the
// active-effect stack and the reactive wrapper tables.
//
// A Runtime must only be used from one goroutine at a time.
type Runtime struct {
	logger   *slog.Logger
	observer Observer

	// deps maps a target to its per-key subscriber sets.
	deps map[TargetID]map[any]*dep

	// targets assigns a stable ID to every raw container placed under
	// observation. Entries are removed by Dispose.
	targets    map[rawKey]TargetID
	nextTarget TargetID

	// wrappers memoizes one wrapper per (raw container, readonly).
	wrappers map[wrapperKey]any

	// stack is the active-effect stack. The top is the active effect; a nil
	// entry pauses tracking.
	stack []*Effect

	nextEffect uint64
}

// NewRuntime creates an empty reactivity context.
func NewRuntime(opts ...Option) *Runtime {
	rt := &Runtime{
		deps:     make(map[TargetID]map[any]*dep),
		targets:  make(map[rawKey]TargetID),
		wrappers: make(map[wrapperKey]any),
	}
	for _, opt := range opts {
		opt(rt)
	}
	if rt.logger == nil {
		rt.logger = slog.Default()
	}
	return rt
}

// Logger returns the runtime's logger.
func (rt *Runtime) Logger() *slog.Logger {
	return rt.logger
}

// ActiveEffect returns the effect whose reads are currently being tracked,
// or nil.
func (rt *Runtime) ActiveEffect() *Effect {
	if len(rt.stack) == 0 {
		return nil
	}
	return rt.stack[len(rt.stack)-1]
}

// Untracked runs fn with no active effect, so reads inside fn record no
// dependencies. Effects already running stay on the stack and are still
// guarded against re-entry.
func (rt *Runtime) Untracked(fn func()) {
	rt.push(nil)
	defer rt.pop()
	fn()
}

// onStack reports whether e is anywhere on the active-effect stack.
func (rt *Runtime) onStack(e *Effect) bool {
	for _, s := range rt.stack {
		if s == e {
			return true
		}
	}
	return false
}

func (rt *Runtime) push(e *Effect) {
	rt.stack = append(rt.stack, e)
}

func (rt *Runtime) pop() {
	rt.stack[len(rt.stack)-1] = nil
	rt.stack = rt.stack[:len(rt.stack)-1]
}

// warn reports a recovered misuse.
func (rt *Runtime) warn(err *errors.QuillError) {
	rt.logger.Warn(err.Message,
		slog.String("code", err.Code),
		slog.String("detail", err.Detail),
	)
	rt.Notify(err)
}

// Notify passes a diagnostic to the Observer without logging it. Layers
// built on the runtime use it for warnings they log themselves.
func (rt *Runtime) Notify(err *errors.QuillError) {
	if rt.observer != nil {
		rt.observer.OnDiagnostic(err)
	}
}
