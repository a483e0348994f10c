package reactivity

import (
	"unsafe"

	"github.com/vango-dev/quill/internal/errors"
)

// Array is a reactive view over a *[]any.
//
// Index reads are tracked under their int index, the length under
// LengthKey. Writing past the end is an add and grows the slice with nils.
type Array struct {
	rt       *Runtime
	id       TargetID
	raw      *[]any
	readonly bool
	shallow  bool
}

// ReactiveArray returns the deep mutable wrapper for s.
func (rt *Runtime) ReactiveArray(s *[]any) *Array {
	return rt.array(s, false, false)
}

// ShallowReactiveArray returns a mutable wrapper for s that does not wrap
// nested values.
func (rt *Runtime) ShallowReactiveArray(s *[]any) *Array {
	return rt.array(s, false, true)
}

// ReadonlyArray returns the deep read-only wrapper for s.
func (rt *Runtime) ReadonlyArray(s *[]any) *Array {
	return rt.array(s, true, false)
}

// ShallowReadonlyArray returns a read-only wrapper for s that does not wrap
// nested values.
func (rt *Runtime) ShallowReadonlyArray(s *[]any) *Array {
	return rt.array(s, true, true)
}

func (rt *Runtime) array(s *[]any, readonly, shallow bool) *Array {
	if s == nil {
		rt.warn(errors.New("Q103").WithDetail("nil slice pointer"))
		s = new([]any)
	}

	k := rawKey{ptr: unsafe.Pointer(s)}
	wk := wrapperKey{raw: k, readonly: readonly}
	if w, ok := rt.wrappers[wk].(*Array); ok {
		return w
	}

	a := &Array{
		rt:       rt,
		id:       rt.targetIDFor(k),
		raw:      s,
		readonly: readonly,
		shallow:  shallow,
	}
	rt.wrappers[wk] = a
	return a
}

// TargetID implements Target.
func (a *Array) TargetID() TargetID {
	return a.id
}

// IsReadonly reports whether writes through a are rejected.
func (a *Array) IsReadonly() bool {
	return a.readonly
}

// Raw returns the underlying slice pointer. Mutating it bypasses tracking.
func (a *Array) Raw() *[]any {
	return a.raw
}

// Get returns the element at i, or nil when i is out of range.
func (a *Array) Get(i int) any {
	if !a.readonly {
		a.rt.Track(a, i)
	}
	s := *a.raw
	if i < 0 || i >= len(s) {
		return nil
	}
	if a.shallow {
		return s[i]
	}
	return a.rt.wrapNested(s[i], a.readonly)
}

// Len returns the current length.
func (a *Array) Len() int {
	if !a.readonly {
		a.rt.Track(a, LengthKey)
	}
	return len(*a.raw)
}

// Items returns a copy of the elements, wrapping nested containers.
// The active effect is subscribed to the length and to every index.
func (a *Array) Items() []any {
	n := a.Len()
	out := make([]any, n)
	for i := range out {
		out[i] = a.Get(i)
	}
	return out
}

// Set stores v at index i. An index at or beyond the length is an add.
func (a *Array) Set(i int, v any) {
	if a.readonly {
		a.rt.warn(errors.New("Q101").WithDetailf("index %d", i))
		return
	}
	if i < 0 {
		a.rt.warn(errors.New("Q104").WithDetailf("index %d", i))
		return
	}
	if !a.shallow {
		v = toRaw(v)
	}

	s := *a.raw
	if i >= len(s) {
		for len(s) <= i {
			s = append(s, nil)
		}
		s[i] = v
		*a.raw = s
		a.rt.Trigger(a, i, TriggerAdd, v)
		return
	}
	if !HasChanged(s[i], v) {
		return
	}
	s[i] = v
	a.rt.Trigger(a, i, TriggerSet, v)
}

// SetLen truncates or grows the array to n. Subscribers of the length and
// of every index at or beyond n are notified.
func (a *Array) SetLen(n int) {
	if a.readonly {
		a.rt.warn(errors.New("Q101").WithDetail("length"))
		return
	}
	if n < 0 {
		a.rt.warn(errors.New("Q104").WithDetailf("length %d", n))
		return
	}

	s := *a.raw
	if n == len(s) {
		return
	}
	if n < len(s) {
		clear(s[n:])
		s = s[:n]
	} else {
		for len(s) < n {
			s = append(s, nil)
		}
	}
	*a.raw = s
	a.rt.Trigger(a, LengthKey, TriggerSet, n)
}

// Push appends values. The length read it performs is not tracked.
func (a *Array) Push(values ...any) {
	a.rt.Untracked(func() {
		for _, v := range values {
			a.Set(len(*a.raw), v)
		}
	})
}

// Pop removes and returns the last element, or nil when empty.
func (a *Array) Pop() any {
	if a.readonly {
		a.rt.warn(errors.New("Q101").WithDetail("pop"))
		return nil
	}
	var v any
	a.rt.Untracked(func() {
		s := *a.raw
		if len(s) == 0 {
			return
		}
		v = s[len(s)-1]
		a.SetLen(len(s) - 1)
	})
	return v
}
