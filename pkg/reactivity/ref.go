package reactivity

// Ref is a single reactive value tracked under ValueKey.
type Ref[T any] struct {
	rt    *Runtime
	id    TargetID
	value T
}

// NewRef creates a Ref holding v.
func NewRef[T any](rt *Runtime, v T) *Ref[T] {
	return &Ref[T]{rt: rt, id: rt.newTargetID(), value: v}
}

// TargetID implements Target.
func (r *Ref[T]) TargetID() TargetID {
	return r.id
}

// Value returns the current value and tracks it.
func (r *Ref[T]) Value() T {
	r.rt.Track(r, ValueKey)
	return r.value
}

// Peek returns the current value without tracking.
func (r *Ref[T]) Peek() T {
	return r.value
}

// Set replaces the value, notifying subscribers if it changed.
func (r *Ref[T]) Set(v T) {
	if !HasChanged(r.value, v) {
		return
	}
	r.value = v
	r.rt.Trigger(r, ValueKey, TriggerSet, v)
}

// Update sets the value to fn applied to the current value.
func (r *Ref[T]) Update(fn func(T) T) {
	r.Set(fn(r.value))
}

// PropertyRef points at one key of an Object or one index of an Array.
// Reads and writes go through the source wrapper, so they are tracked and
// triggered there.
type PropertyRef struct {
	get func() any
	set func(any)
}

// Value reads through to the source.
func (p *PropertyRef) Value() any {
	return p.get()
}

// Set writes through to the source.
func (p *PropertyRef) Set(v any) {
	p.set(v)
}

// ToRef returns a PropertyRef for o[key].
func ToRef(o *Object, key string) *PropertyRef {
	return &PropertyRef{
		get: func() any { return o.Get(key) },
		set: func(v any) { o.Set(key, v) },
	}
}

// ToIndexRef returns a PropertyRef for a[i].
func ToIndexRef(a *Array, i int) *PropertyRef {
	return &PropertyRef{
		get: func() any { return a.Get(i) },
		set: func(v any) { a.Set(i, v) },
	}
}

// ToRefs returns a PropertyRef for every key currently present in o.
func ToRefs(o *Object) map[string]*PropertyRef {
	refs := make(map[string]*PropertyRef, len(o.raw))
	for k := range o.raw {
		refs[k] = ToRef(o, k)
	}
	return refs
}

// ToArrayRefs returns a PropertyRef for every index currently present in a.
func ToArrayRefs(a *Array) []*PropertyRef {
	refs := make([]*PropertyRef, len(*a.raw))
	for i := range refs {
		refs[i] = ToIndexRef(a, i)
	}
	return refs
}
