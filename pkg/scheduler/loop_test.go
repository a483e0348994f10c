package scheduler

import "testing"

func TestLoopFIFO(t *testing.T) {
	l := NewLoop()
	var order []int
	l.Post(func() { order = append(order, 1) })
	l.Post(func() {
		order = append(order, 2)
		l.Post(func() { order = append(order, 4) })
	})
	l.Post(func() { order = append(order, 3) })

	if n := l.Drain(); n != 4 {
		t.Errorf("Drain() = %d, want 4", n)
	}
	for i, want := range []int{1, 2, 3, 4} {
		if order[i] != want {
			t.Errorf("order[%d] = %d, want %d", i, order[i], want)
		}
	}
	if l.Len() != 0 {
		t.Errorf("Len() = %d, want 0", l.Len())
	}
}

func TestLoopNestedDrain(t *testing.T) {
	l := NewLoop()
	nested := -1
	l.Post(func() { nested = l.Drain() })
	l.Post(func() {})

	if n := l.Drain(); n != 2 {
		t.Errorf("Drain() = %d, want 2", n)
	}
	if nested != 0 {
		t.Errorf("nested Drain() = %d, want 0", nested)
	}
}

func TestLoopDo(t *testing.T) {
	l := NewLoop()
	ran := false
	l.Do(func() {
		l.Post(func() { ran = true })
		if ran {
			t.Error("posted work ran before fn returned")
		}
	})
	if !ran {
		t.Error("Do did not drain")
	}
}

func TestLoopPanicKeepsRemaining(t *testing.T) {
	l := NewLoop()
	ran := false
	l.Post(func() { panic("boom") })
	l.Post(func() { ran = true })

	func() {
		defer func() { _ = recover() }()
		l.Drain()
	}()

	if l.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", l.Len())
	}
	l.Drain()
	if !ran {
		t.Error("remaining task did not run on next drain")
	}
}
