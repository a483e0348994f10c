package reactivity

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestComputedCaches(t *testing.T) {
	rt := NewRuntime()
	state := rt.Reactive(map[string]any{"n": 2})

	calls := 0
	doubled := NewComputed(rt, func() int {
		calls++
		return state.Get("n").(int) * 2
	})

	if calls != 0 {
		t.Fatalf("getter ran before first read")
	}
	if !doubled.Dirty() {
		t.Error("computed should start dirty")
	}

	if got := doubled.Value(); got != 4 {
		t.Errorf("Value() = %d, want 4", got)
	}
	if got := doubled.Value(); got != 4 {
		t.Errorf("Value() = %d, want 4", got)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}

	state.Set("n", 5)
	if calls != 1 {
		t.Errorf("invalidation recomputed eagerly")
	}
	if !doubled.Dirty() {
		t.Error("computed should be dirty after invalidation")
	}
	if got := doubled.Value(); got != 10 {
		t.Errorf("Value() = %d, want 10", got)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestComputedNotifiesSubscribers(t *testing.T) {
	rt := NewRuntime()
	state := rt.Reactive(map[string]any{"n": 1})

	doubled := NewComputed(rt, func() int {
		return state.Get("n").(int) * 2
	})

	var seen []int
	rt.Effect(func() {
		seen = append(seen, doubled.Value())
	})

	state.Set("n", 3)
	if len(seen) != 2 || seen[0] != 2 || seen[1] != 6 {
		t.Errorf("seen = %v, want [2 6]", seen)
	}
}

func TestComputedChain(t *testing.T) {
	rt := NewRuntime()
	r := NewRef(rt, 1)

	plusOne := NewComputed(rt, func() int { return r.Value() + 1 })
	timesTen := NewComputed(rt, func() int { return plusOne.Value() * 10 })

	if got := timesTen.Value(); got != 20 {
		t.Errorf("Value() = %d, want 20", got)
	}
	r.Set(4)
	if got := timesTen.Value(); got != 50 {
		t.Errorf("Value() = %d, want 50", got)
	}
}

func TestWritableComputed(t *testing.T) {
	rt := NewRuntime()
	r := NewRef(rt, 1)

	c := NewWritableComputed(rt,
		func() int { return r.Value() * 2 },
		func(v int) { r.Set(v / 2) },
	)

	c.Set(8)
	if r.Peek() != 4 {
		t.Errorf("ref = %d, want 4", r.Peek())
	}
	if c.Value() != 8 {
		t.Errorf("Value() = %d, want 8", c.Value())
	}
}

func TestComputedSetWithoutSetterWarns(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	rt := NewRuntime(WithLogger(logger))

	c := NewComputed(rt, func() int { return 1 })
	c.Set(5)

	if c.Value() != 1 {
		t.Errorf("Value() = %d, want 1", c.Value())
	}
	if !strings.Contains(buf.String(), "code=Q102") {
		t.Errorf("log missing Q102 diagnostic:\n%s", buf.String())
	}
}

func TestComputedStop(t *testing.T) {
	rt := NewRuntime()
	r := NewRef(rt, 1)
	c := NewComputed(rt, func() int { return r.Value() })

	_ = c.Value()
	c.Stop()
	r.Set(2)

	if c.Dirty() {
		t.Error("stopped computed was invalidated")
	}
	if c.Value() != 1 {
		t.Errorf("Value() = %d, want cached 1", c.Value())
	}
}

func TestComputedInterfaceNilIsFresh(t *testing.T) {
	rt := NewRuntime()
	r := NewRef[any](rt, "x")
	c := NewComputed(rt, func() any { return r.Value() })

	if got := c.Value(); got != "x" {
		t.Fatalf("Value() = %v, want x", got)
	}

	r.Set(nil)
	if got := c.Value(); got != nil {
		t.Errorf("Value() = %v after getter returned nil, want nil", got)
	}

	r.Set("y")
	if got := c.Value(); got != "y" {
		t.Errorf("Value() = %v, want y", got)
	}
}
