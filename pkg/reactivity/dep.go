package reactivity

import (
	"sort"
	"unsafe"
)

// TargetID identifies an observed target in the dependency store.
type TargetID uint64

// Target is anything whose keys can be tracked and triggered.
type Target interface {
	TargetID() TargetID
}

// TriggerKind classifies a mutation passed to Trigger.
type TriggerKind uint8

const (
	// TriggerSet is a change to an existing key.
	TriggerSet TriggerKind = iota
	// TriggerAdd is a key that did not exist before.
	TriggerAdd
	// TriggerDelete is a key that was removed.
	TriggerDelete
)

// String returns the string representation of the TriggerKind.
func (k TriggerKind) String() string {
	switch k {
	case TriggerSet:
		return "set"
	case TriggerAdd:
		return "add"
	case TriggerDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// LengthKey is the key under which an Array's length is tracked.
const LengthKey = "length"

// ValueKey is the key under which Ref and Computed values are tracked.
const ValueKey = "value"

// iterateKey is tracked by Object.Keys and triggered by key additions and
// deletions.
type iterateKeyType struct{}

var iterateKey = iterateKeyType{}

// dep is the set of effects subscribed to one (target, key).
type dep struct {
	effects map[*Effect]struct{}
}

// rawKey identifies a raw container by address.
type rawKey struct {
	ptr unsafe.Pointer
}

// targetIDFor returns the ID for a raw container, allocating one on first use.
func (rt *Runtime) targetIDFor(k rawKey) TargetID {
	if id, ok := rt.targets[k]; ok {
		return id
	}
	id := rt.newTargetID()
	rt.targets[k] = id
	return id
}

func (rt *Runtime) newTargetID() TargetID {
	rt.nextTarget++
	return rt.nextTarget
}

// Track records the active effect as a subscriber of (target, key).
// It is a no-op when no effect is active, and idempotent otherwise.
func (rt *Runtime) Track(target Target, key any) {
	e := rt.ActiveEffect()
	if e == nil || e.stopped {
		return
	}

	id := target.TargetID()
	depsMap := rt.deps[id]
	if depsMap == nil {
		depsMap = make(map[any]*dep)
		rt.deps[id] = depsMap
	}
	d := depsMap[key]
	if d == nil {
		d = &dep{effects: make(map[*Effect]struct{})}
		depsMap[key] = d
	}
	if _, ok := d.effects[e]; ok {
		return
	}
	d.effects[e] = struct{}{}
	e.deps = append(e.deps, d)
}

// Trigger notifies every effect subscribed to (target, key).
//
// Setting an Array's length also notifies subscribers of every index at or
// beyond the new length. Adding an index to an Array also notifies
// subscribers of its length. Adding or deleting an Object key also notifies
// subscribers of the Object's key set.
//
// Each selected effect runs at most once per call, in ascending ID order.
// Effects with a scheduler are handed to it instead of run.
func (rt *Runtime) Trigger(target Target, key any, kind TriggerKind, newValue any) {
	depsMap := rt.deps[target.TargetID()]
	if depsMap == nil {
		return
	}

	selected := make(map[*Effect]struct{})
	add := func(d *dep) {
		if d == nil {
			return
		}
		for e := range d.effects {
			selected[e] = struct{}{}
		}
	}

	_, isArray := target.(*Array)
	if isArray && key == LengthKey {
		newLen, _ := newValue.(int)
		for k, d := range depsMap {
			if k == LengthKey {
				add(d)
				continue
			}
			if i, ok := k.(int); ok && i >= newLen {
				add(d)
			}
		}
	} else {
		if key != nil {
			add(depsMap[key])
		}
		switch kind {
		case TriggerAdd:
			if isArray {
				if _, ok := key.(int); ok {
					add(depsMap[LengthKey])
				}
			} else {
				add(depsMap[iterateKey])
			}
		case TriggerDelete:
			if !isArray {
				add(depsMap[iterateKey])
			}
		}
	}

	if len(selected) == 0 {
		return
	}

	effects := make([]*Effect, 0, len(selected))
	for e := range selected {
		effects = append(effects, e)
	}
	sort.Slice(effects, func(i, j int) bool { return effects[i].id < effects[j].id })

	for _, e := range effects {
		if e.stopped {
			continue
		}
		if e.scheduler != nil {
			e.scheduler(e)
		} else {
			e.Run()
		}
	}
}

// Dispose removes every dependency entry recorded against target and
// forgets its wrappers, so the raw container is no longer retained by the
// runtime. Wrappers obtained earlier keep working but start a fresh entry.
func (rt *Runtime) Dispose(target Target) {
	id := target.TargetID()
	for _, d := range rt.deps[id] {
		for e := range d.effects {
			e.forget(d)
		}
	}
	delete(rt.deps, id)

	for k, tid := range rt.targets {
		if tid == id {
			delete(rt.targets, k)
			delete(rt.wrappers, wrapperKey{raw: k, readonly: false})
			delete(rt.wrappers, wrapperKey{raw: k, readonly: true})
		}
	}
}

// DepCount returns the number of subscribers of (target, key).
func (rt *Runtime) DepCount(target Target, key any) int {
	d := rt.deps[target.TargetID()][key]
	if d == nil {
		return 0
	}
	return len(d.effects)
}

// TrackedTargets returns the number of targets with at least one dependency entry.
func (rt *Runtime) TrackedTargets() int {
	return len(rt.deps)
}
