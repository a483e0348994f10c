package reactivity

import "github.com/vango-dev/quill/internal/errors"

// Computed is a cached derived value. It recomputes lazily: an invalidation
// only marks it dirty and notifies its own subscribers; the getter runs on
// the next read.
type Computed[T any] struct {
	rt     *Runtime
	id     TargetID
	effect *Effect

	getter func() T
	setter func(T)

	value T
	dirty bool
}

// NewComputed creates a read-only computed value from getter.
func NewComputed[T any](rt *Runtime, getter func() T) *Computed[T] {
	return newComputed(rt, getter, nil)
}

// NewWritableComputed creates a computed value whose Set calls setter.
func NewWritableComputed[T any](rt *Runtime, getter func() T, setter func(T)) *Computed[T] {
	return newComputed(rt, getter, setter)
}

func newComputed[T any](rt *Runtime, getter func() T, setter func(T)) *Computed[T] {
	c := &Computed[T]{
		rt:     rt,
		id:     rt.newTargetID(),
		getter: getter,
		setter: setter,
		dirty:  true,
	}
	c.effect = rt.newEffect(func() any {
		c.value = c.getter()
		return nil
	}, Lazy(), WithScheduler(func(*Effect) {
		if !c.dirty {
			c.dirty = true
			rt.Trigger(c, ValueKey, TriggerSet, nil)
		}
	}))
	return c
}

// TargetID implements Target.
func (c *Computed[T]) TargetID() TargetID {
	return c.id
}

// Value returns the cached value, recomputing first if dirty, and records a
// dependency from the active effect on this computed.
func (c *Computed[T]) Value() T {
	if c.dirty {
		c.effect.Run()
		c.dirty = false
	}
	c.rt.Track(c, ValueKey)
	return c.value
}

// Dirty reports whether the next read will recompute.
func (c *Computed[T]) Dirty() bool {
	return c.dirty
}

// Set delegates to the setter. Without one, a warning diagnostic is
// logged and nothing changes.
func (c *Computed[T]) Set(v T) {
	if c.setter == nil {
		c.rt.warn(errors.New("Q102"))
		return
	}
	c.setter(v)
}

// Effect returns the computed's backing effect.
func (c *Computed[T]) Effect() *Effect {
	return c.effect
}

// Stop detaches the computed from its dependencies. The cached value stays
// readable but is never invalidated again.
func (c *Computed[T]) Stop() {
	c.effect.Stop()
}
