package reactivity

// Effect is a re-runnable computation that records the reactive reads it
// performs while running and re-runs when any of them change.
//
// Effects are identified by a monotonically increasing ID; effects created
// earlier have smaller IDs.
type Effect struct {
	id uint64
	rt *Runtime

	// fn is the wrapped computation.
	fn func() any

	// lazy effects do not run on creation.
	lazy bool

	// scheduler, when set, receives the effect on trigger instead of the
	// effect running inline.
	scheduler func(*Effect)

	// deps are the dep sets this effect is currently a member of.
	deps []*dep

	// stopped effects never run again and are skipped by Trigger.
	stopped bool
}

// EffectOption is an option for configuring an Effect.
type EffectOption interface {
	applyEffect(e *Effect)
}

type effectOptionFunc func(*Effect)

func (f effectOptionFunc) applyEffect(e *Effect) { f(e) }

// Lazy creates the effect without running it. The first Run starts tracking.
func Lazy() EffectOption {
	return effectOptionFunc(func(e *Effect) {
		e.lazy = true
	})
}

// WithScheduler makes triggers call fn with the effect instead of running it.
//
//	rt.Effect(render, reactivity.WithScheduler(func(e *reactivity.Effect) {
//	    queue.QueueJob(e)
//	}))
func WithScheduler(fn func(*Effect)) EffectOption {
	return effectOptionFunc(func(e *Effect) {
		e.scheduler = fn
	})
}

// Effect creates an effect around fn and runs it once unless Lazy is given.
func (rt *Runtime) Effect(fn func(), opts ...EffectOption) *Effect {
	return rt.newEffect(func() any {
		fn()
		return nil
	}, opts...)
}

// EffectFunc is like Effect for computations that produce a value.
// The value is returned from every Run.
func (rt *Runtime) EffectFunc(fn func() any, opts ...EffectOption) *Effect {
	return rt.newEffect(fn, opts...)
}

func (rt *Runtime) newEffect(fn func() any, opts ...EffectOption) *Effect {
	rt.nextEffect++
	e := &Effect{
		id: rt.nextEffect,
		rt: rt,
		fn: fn,
	}
	for _, opt := range opts {
		opt.applyEffect(e)
	}

	if !e.lazy {
		e.Run()
	}
	return e
}

// ID returns the unique identifier for this effect.
func (e *Effect) ID() uint64 {
	return e.id
}

// Stopped reports whether Stop has been called.
func (e *Effect) Stopped() bool {
	return e.stopped
}

// Run executes the computation with this effect active and returns its
// result.
//
// If the effect is already on the active-effect stack the call is skipped
// and Run returns nil. A stopped effect also returns nil without running.
// A panic raised by the computation propagates to the caller after the
// active-effect stack has been restored.
func (e *Effect) Run() any {
	if e.stopped {
		return nil
	}
	if e.rt.onStack(e) {
		return nil
	}

	e.clearDeps()

	e.rt.push(e)
	defer e.rt.pop()

	if e.rt.observer != nil {
		e.rt.observer.OnEffectRun(e.id)
	}
	return e.fn()
}

// Stop unsubscribes the effect from every dependency. Later triggers skip
// it and Run becomes a no-op.
func (e *Effect) Stop() {
	if e.stopped {
		return
	}
	e.clearDeps()
	e.stopped = true
}

// DepCount returns the number of dep sets the effect currently belongs to.
func (e *Effect) DepCount() int {
	return len(e.deps)
}

// clearDeps removes the effect from all dep sets it joined during its last
// run, so the next run records a fresh dependency set.
func (e *Effect) clearDeps() {
	for _, d := range e.deps {
		delete(d.effects, e)
	}
	e.deps = e.deps[:0]
}

// forget drops d from the effect's own dep list. Used by Runtime.Dispose.
func (e *Effect) forget(d *dep) {
	for i, x := range e.deps {
		if x == d {
			e.deps = append(e.deps[:i], e.deps[i+1:]...)
			return
		}
	}
}
