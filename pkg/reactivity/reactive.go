package reactivity

import (
	"reflect"
	"sort"

	"github.com/vango-dev/quill/internal/errors"
)

// wrapperKey memoizes wrappers per raw container and mode.
type wrapperKey struct {
	raw      rawKey
	readonly bool
}

// Object is a reactive view over a map[string]any.
//
// Reads through a mutable Object are tracked. Writes trigger subscribers
// when the stored value changes. Nested maps and *[]any values are wrapped
// lazily on read unless the Object is shallow.
type Object struct {
	rt       *Runtime
	id       TargetID
	raw      map[string]any
	readonly bool
	shallow  bool
}

// Reactive returns the deep mutable wrapper for m.
func (rt *Runtime) Reactive(m map[string]any) *Object {
	return rt.object(m, false, false)
}

// ShallowReactive returns a mutable wrapper for m that does not wrap
// nested values.
func (rt *Runtime) ShallowReactive(m map[string]any) *Object {
	return rt.object(m, false, true)
}

// Readonly returns the deep read-only wrapper for m.
func (rt *Runtime) Readonly(m map[string]any) *Object {
	return rt.object(m, true, false)
}

// ShallowReadonly returns a read-only wrapper for m that does not wrap
// nested values.
func (rt *Runtime) ShallowReadonly(m map[string]any) *Object {
	return rt.object(m, true, true)
}

// object returns the memoized wrapper for (m, readonly). The shallow flag
// only applies when the wrapper is first created.
func (rt *Runtime) object(m map[string]any, readonly, shallow bool) *Object {
	if m == nil {
		rt.warn(errors.New("Q103").WithDetail("nil map"))
		m = make(map[string]any)
	}

	k := rawKey{ptr: reflect.ValueOf(m).UnsafePointer()}
	wk := wrapperKey{raw: k, readonly: readonly}
	if w, ok := rt.wrappers[wk].(*Object); ok {
		return w
	}

	o := &Object{
		rt:       rt,
		id:       rt.targetIDFor(k),
		raw:      m,
		readonly: readonly,
		shallow:  shallow,
	}
	rt.wrappers[wk] = o
	return o
}

// TargetID implements Target.
func (o *Object) TargetID() TargetID {
	return o.id
}

// IsReadonly reports whether writes through o are rejected.
func (o *Object) IsReadonly() bool {
	return o.readonly
}

// IsShallow reports whether nested values are returned unwrapped.
func (o *Object) IsShallow() bool {
	return o.shallow
}

// Raw returns the underlying map. Mutating it bypasses tracking.
func (o *Object) Raw() map[string]any {
	return o.raw
}

// Get returns the value at key, or nil.
func (o *Object) Get(key string) any {
	if !o.readonly {
		o.rt.Track(o, key)
	}
	v, ok := o.raw[key]
	if !ok {
		return nil
	}
	if o.shallow {
		return v
	}
	return o.rt.wrapNested(v, o.readonly)
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	if !o.readonly {
		o.rt.Track(o, key)
	}
	_, ok := o.raw[key]
	return ok
}

// Keys returns the sorted key set. The active effect is subscribed to key
// additions and deletions.
func (o *Object) Keys() []string {
	if !o.readonly {
		o.rt.Track(o, iterateKey)
	}
	keys := make([]string, 0, len(o.raw))
	for k := range o.raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of keys.
func (o *Object) Len() int {
	if !o.readonly {
		o.rt.Track(o, iterateKey)
	}
	return len(o.raw)
}

// Set stores v at key. Wrappers passed as v are stored as their raw
// container on deep Objects.
func (o *Object) Set(key string, v any) {
	if o.readonly {
		o.rt.warn(errors.New("Q101").WithDetailf("key %q", key))
		return
	}
	if !o.shallow {
		v = toRaw(v)
	}

	old, had := o.raw[key]
	if !had {
		o.raw[key] = v
		o.rt.Trigger(o, key, TriggerAdd, v)
		return
	}
	if !HasChanged(old, v) {
		return
	}
	o.raw[key] = v
	o.rt.Trigger(o, key, TriggerSet, v)
}

// Delete removes key.
func (o *Object) Delete(key string) {
	if o.readonly {
		o.rt.warn(errors.New("Q101").WithDetailf("delete key %q", key))
		return
	}
	if _, had := o.raw[key]; !had {
		return
	}
	delete(o.raw, key)
	o.rt.Trigger(o, key, TriggerDelete, nil)
}

// wrapNested returns the wrapper for container values and v itself
// otherwise.
func (rt *Runtime) wrapNested(v any, readonly bool) any {
	switch x := v.(type) {
	case map[string]any:
		if x == nil {
			return v
		}
		return rt.object(x, readonly, false)
	case *[]any:
		if x == nil {
			return v
		}
		return rt.array(x, readonly, false)
	}
	return v
}

// toRaw unwraps reactive wrappers to their raw containers.
func toRaw(v any) any {
	switch x := v.(type) {
	case *Object:
		return x.raw
	case *Array:
		return x.raw
	}
	return v
}

// ToRaw returns the raw container behind a wrapper, or v unchanged.
func ToRaw(v any) any {
	return toRaw(v)
}
