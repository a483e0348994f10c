// Package reactivity provides the dependency-tracking core for quill.
//
// State lives in map-backed reactive containers. Reading a key while an
// Effect is running records that the effect depends on (target, key).
// Writing a different value to that key re-runs the effect, or hands it to
// the effect's scheduler when one is configured.
//
// # Core Types
//
// Runtime owns all bookkeeping: the dependency store, the active-effect
// stack and the wrapper memo tables. Every other type is created from a
// Runtime:
//
//	rt := reactivity.NewRuntime()
//	state := rt.Reactive(map[string]any{"n": 0})
//
//	rt.Effect(func() {
//	    fmt.Println("n is", state.Get("n"))
//	})
//
//	state.Set("n", 1) // prints "n is 1"
//	state.Set("n", 1) // unchanged, prints nothing
//
// Computed is a lazily re-evaluated cached value:
//
//	doubled := reactivity.NewComputed(rt, func() int {
//	    return state.Get("n").(int) * 2
//	})
//	doubled.Value()
//
// Ref holds a single value; PropertyRef (ToRef, ToRefs) points at one key of
// a reactive Object or one index of a reactive Array.
//
// # Scheduling
//
// An effect created WithScheduler does not re-run inline on change. The
// scheduler callback receives the effect instead, which is how the renderer
// batches component updates through pkg/scheduler and how Computed marks
// itself dirty without recomputing.
//
// # Threading
//
// A Runtime is single-threaded. Use one Runtime per goroutine; Default
// returns a per-goroutine runtime for code that does not thread one through.
//
// Mutating a raw map or slice directly, without going through its wrapper,
// bypasses tracking entirely.
package reactivity
