package reactivity

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/vango-dev/quill/internal/errors"
)

type recordingObserver struct {
	runs  []uint64
	diags []string
}

func (o *recordingObserver) OnEffectRun(id uint64) { o.runs = append(o.runs, id) }

func (o *recordingObserver) OnDiagnostic(err *errors.QuillError) {
	o.diags = append(o.diags, err.Code)
}

func TestReactiveMemoized(t *testing.T) {
	rt := NewRuntime()
	raw := map[string]any{"a": 1}

	if rt.Reactive(raw) != rt.Reactive(raw) {
		t.Error("Reactive should return the same wrapper for the same map")
	}
	if rt.Readonly(raw) != rt.Readonly(raw) {
		t.Error("Readonly should return the same wrapper for the same map")
	}
	if rt.Reactive(raw) == rt.Readonly(raw) {
		t.Error("readonly and mutable wrappers must differ")
	}
	if rt.Reactive(raw).TargetID() != rt.Readonly(raw).TargetID() {
		t.Error("wrappers of one map should share a target")
	}
}

func TestReactiveNestedWrapping(t *testing.T) {
	rt := NewRuntime()
	inner := map[string]any{"x": 1}
	state := rt.Reactive(map[string]any{"inner": inner})

	nested, ok := state.Get("inner").(*Object)
	if !ok {
		t.Fatalf("Get(inner) = %T, want *Object", state.Get("inner"))
	}
	if nested != rt.Reactive(inner) {
		t.Error("nested wrapper should be the memoized one")
	}

	runs := 0
	rt.Effect(func() {
		_ = state.Get("inner").(*Object).Get("x")
		runs++
	})
	nested.Set("x", 2)
	if runs != 2 {
		t.Errorf("runs = %d, want 2", runs)
	}
}

func TestShallowReactiveDoesNotWrap(t *testing.T) {
	rt := NewRuntime()
	state := rt.ShallowReactive(map[string]any{"inner": map[string]any{"x": 1}})

	if _, ok := state.Get("inner").(map[string]any); !ok {
		t.Errorf("Get(inner) = %T, want map[string]any", state.Get("inner"))
	}
	if !state.IsShallow() {
		t.Error("IsShallow() = false")
	}
}

func TestReadonlyWriteWarns(t *testing.T) {
	var buf bytes.Buffer
	obs := &recordingObserver{}
	rt := NewRuntime(
		WithLogger(slog.New(slog.NewTextHandler(&buf, nil))),
		WithObserver(obs),
	)
	ro := rt.Readonly(map[string]any{"n": 1})

	ro.Set("n", 2)
	ro.Delete("n")

	if ro.Raw()["n"] != 1 {
		t.Errorf("n = %v, want 1", ro.Raw()["n"])
	}
	if !strings.Contains(buf.String(), "code=Q101") {
		t.Errorf("log missing Q101:\n%s", buf.String())
	}
	if len(obs.diags) != 2 || obs.diags[0] != "Q101" {
		t.Errorf("diags = %v, want [Q101 Q101]", obs.diags)
	}
}

func TestReadonlyDoesNotTrack(t *testing.T) {
	rt := NewRuntime()
	raw := map[string]any{"n": 1}
	ro := rt.Readonly(raw)

	rt.Effect(func() { _ = ro.Get("n") })

	if rt.DepCount(ro, "n") != 0 {
		t.Error("readonly read was tracked")
	}
}

func TestReadonlyNestedIsReadonly(t *testing.T) {
	rt := NewRuntime(WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
	ro := rt.Readonly(map[string]any{"inner": map[string]any{"x": 1}})

	nested := ro.Get("inner").(*Object)
	if !nested.IsReadonly() {
		t.Error("nested wrapper of readonly should be readonly")
	}
}

func TestObjectAddAndDelete(t *testing.T) {
	rt := NewRuntime()
	state := rt.Reactive(map[string]any{"a": 1})

	var keys [][]string
	rt.Effect(func() {
		keys = append(keys, state.Keys())
	})

	state.Set("b", 2)
	state.Set("b", 3) // existing key, Keys() subscriber not notified
	state.Delete("a")
	state.Delete("missing")

	if len(keys) != 3 {
		t.Fatalf("keys runs = %d, want 3: %v", len(keys), keys)
	}
	if got := strings.Join(keys[2], ","); got != "b" {
		t.Errorf("final keys = %q, want b", got)
	}
}

func TestObjectHasTracksKey(t *testing.T) {
	rt := NewRuntime()
	state := rt.Reactive(map[string]any{})

	var seen []bool
	rt.Effect(func() {
		seen = append(seen, state.Has("x"))
	})
	state.Set("x", 1)

	if len(seen) != 2 || seen[0] || !seen[1] {
		t.Errorf("seen = %v, want [false true]", seen)
	}
}

func TestObjectSetUnwrapsWrappers(t *testing.T) {
	rt := NewRuntime()
	inner := map[string]any{"x": 1}
	state := rt.Reactive(map[string]any{})

	state.Set("inner", rt.Reactive(inner))

	if _, ok := state.Raw()["inner"].(map[string]any); !ok {
		t.Errorf("raw value = %T, want map[string]any", state.Raw()["inner"])
	}
}

func TestReactiveNilMap(t *testing.T) {
	obs := &recordingObserver{}
	rt := NewRuntime(
		WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))),
		WithObserver(obs),
	)

	o := rt.Reactive(nil)
	o.Set("a", 1)

	if o.Raw()["a"] != 1 {
		t.Error("nil map wrapper should still be usable")
	}
	if len(obs.diags) != 1 || obs.diags[0] != "Q103" {
		t.Errorf("diags = %v, want [Q103]", obs.diags)
	}
}

func TestDispose(t *testing.T) {
	rt := NewRuntime()
	raw := map[string]any{"n": 0}
	state := rt.Reactive(raw)

	runs := 0
	e := rt.Effect(func() {
		_ = state.Get("n")
		runs++
	})

	rt.Dispose(state)

	if rt.TrackedTargets() != 0 {
		t.Errorf("TrackedTargets = %d, want 0", rt.TrackedTargets())
	}
	if e.DepCount() != 0 {
		t.Errorf("effect DepCount = %d, want 0", e.DepCount())
	}
	state.Set("n", 1)
	if runs != 1 {
		t.Errorf("runs = %d, want 1 after Dispose", runs)
	}
	if rt.Reactive(raw) == state {
		t.Error("Dispose should forget the memoized wrapper")
	}
}

func TestObserverSeesEffectRuns(t *testing.T) {
	obs := &recordingObserver{}
	rt := NewRuntime(WithObserver(obs))

	e := rt.Effect(func() {})
	e.Run()

	if len(obs.runs) != 2 || obs.runs[0] != e.ID() {
		t.Errorf("runs = %v, want two runs of %d", obs.runs, e.ID())
	}
}
