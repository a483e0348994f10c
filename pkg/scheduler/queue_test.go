package scheduler

import (
	"bytes"
	stderrors "errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/quill/internal/errors"
	"github.com/vango-dev/quill/pkg/reactivity"
)

type testJob struct {
	id uint64
	fn func() any
}

func (j *testJob) ID() uint64 { return j.id }
func (j *testJob) Run() any   { return j.fn() }

func job(id uint64, fn func()) *testJob {
	return &testJob{id: id, fn: func() any {
		fn()
		return nil
	}}
}

type failure struct {
	id  uint64
	err error
}

type recordingObserver struct {
	flushes  []int
	failures []failure
}

func (o *recordingObserver) OnFlush(runs int, _ time.Duration) {
	o.flushes = append(o.flushes, runs)
}

func (o *recordingObserver) OnJobFailed(id uint64, err error) {
	o.failures = append(o.failures, failure{id, err})
}

func TestQueueJobDedupe(t *testing.T) {
	loop := NewLoop()
	q := New(loop)

	runs := 0
	j := job(1, func() { runs++ })

	loop.Do(func() {
		q.QueueJob(j)
		q.QueueJob(j)
		if q.Pending() != 1 {
			t.Errorf("Pending() = %d, want 1", q.Pending())
		}
	})

	if runs != 1 {
		t.Errorf("runs = %d, want 1", runs)
	}
}

func TestQueueSingleDeferredFlush(t *testing.T) {
	loop := NewLoop()
	q := New(loop)

	q.QueueJob(job(1, func() {}))
	q.QueueJob(job(2, func() {}))

	if loop.Len() != 1 {
		t.Errorf("loop.Len() = %d, want 1 deferred flush", loop.Len())
	}
	loop.Drain()
	if q.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", q.Pending())
	}

	q.QueueJob(job(3, func() {}))
	if loop.Len() != 1 {
		t.Errorf("next cycle should post a new flush, loop.Len() = %d", loop.Len())
	}
}

func TestQueueFlushOrder(t *testing.T) {
	q := New(nil)

	var order []uint64
	rec := func(id uint64) *testJob {
		return job(id, func() { order = append(order, id) })
	}

	q.QueueJob(rec(3))
	q.QueueJob(rec(1))
	q.QueueJob(rec(2))

	if err := q.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	for i, want := range []uint64{1, 2, 3} {
		if order[i] != want {
			t.Errorf("order[%d] = %d, want %d", i, order[i], want)
		}
	}
}

func TestQueueJobDuringFlush(t *testing.T) {
	q := New(nil)

	var order []uint64
	three := job(3, func() { order = append(order, 3) })
	one := job(1, func() {
		order = append(order, 1)
		q.QueueJob(three)
		q.QueueJob(three)
	})
	five := job(5, func() { order = append(order, 5) })

	q.QueueJob(one)
	q.QueueJob(five)
	if err := q.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	want := []uint64{1, 3, 5}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %d, want %d", i, order[i], want[i])
		}
	}
	if q.Loop().Len() != 1 {
		// Only the flush posted by the first QueueJob.
		t.Errorf("loop.Len() = %d, want 1", q.Loop().Len())
	}
}

func TestQueueRequeueRunningJob(t *testing.T) {
	q := New(nil)

	runs := 0
	var self *testJob
	self = job(1, func() {
		runs++
		if runs < 3 {
			q.QueueJob(self)
		}
	})

	q.QueueJob(self)
	if err := q.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if runs != 3 {
		t.Errorf("runs = %d, want 3", runs)
	}
}

func TestQueueRecursionLimit(t *testing.T) {
	obs := &recordingObserver{}
	q := New(nil, WithMaxRecursion(5), WithObserver(obs))

	runs := 0
	var loop *testJob
	loop = job(7, func() {
		runs++
		q.QueueJob(loop)
	})

	q.QueueJob(loop)
	err := q.Flush()

	if runs != 5 {
		t.Errorf("runs = %d, want 5", runs)
	}
	if !stderrors.Is(err, errors.New("Q201")) {
		t.Errorf("Flush() error = %v, want Q201", err)
	}
	if len(obs.failures) != 1 || obs.failures[0].id != 7 {
		t.Errorf("failures = %v, want one for job 7", obs.failures)
	}
	if q.Pending() != 0 || q.Flushing() {
		t.Error("queue not reset after flush")
	}
}

func TestQueueIsolatesFailures(t *testing.T) {
	obs := &recordingObserver{}
	q := New(nil, WithObserver(obs))

	ran := false
	q.QueueJob(job(1, func() { panic("boom") }))
	q.QueueJob(&testJob{id: 2, fn: func() any { return stderrors.New("bad") }})
	q.QueueJob(job(3, func() { ran = true }))

	err := q.Flush()
	if !ran {
		t.Error("job after failures did not run")
	}
	if !stderrors.Is(err, errors.New("Q202")) {
		t.Fatalf("Flush() error = %v, want Q202", err)
	}
	if !strings.Contains(err.Error(), "job 1: boom") {
		t.Errorf("error %q missing job 1 detail", err)
	}
	if !strings.Contains(err.Error(), "job 2: bad") {
		t.Errorf("error %q missing job 2 detail", err)
	}
	if len(obs.failures) != 2 {
		t.Errorf("failures = %d, want 2", len(obs.failures))
	}
	if len(obs.flushes) != 1 || obs.flushes[0] != 3 {
		t.Errorf("flushes = %v, want [3]", obs.flushes)
	}
}

func TestQueueDeferredFailureLogged(t *testing.T) {
	var buf bytes.Buffer
	loop := NewLoop()
	q := New(loop, WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	q.QueueJob(job(1, func() { panic("kaboom") }))
	loop.Drain()

	out := buf.String()
	if !strings.Contains(out, "scheduler flush failed") || !strings.Contains(out, "kaboom") {
		t.Errorf("log = %q", out)
	}
}

func TestQueueFlushEmpty(t *testing.T) {
	obs := &recordingObserver{}
	q := New(nil, WithObserver(obs))

	if err := q.Flush(); err != nil {
		t.Errorf("Flush() error = %v", err)
	}
	if len(obs.flushes) != 0 {
		t.Error("empty flush should not be observed")
	}
}

func TestQueueNestedFlushIsNoop(t *testing.T) {
	q := New(nil)

	var nested error = stderrors.New("unset")
	q.QueueJob(job(1, func() { nested = q.Flush() }))
	q.QueueJob(job(2, func() {}))

	if err := q.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if nested != nil {
		t.Errorf("nested Flush() = %v, want nil", nested)
	}
}

func TestQueueBatchesEffects(t *testing.T) {
	rt := reactivity.NewRuntime()
	loop := NewLoop()
	q := New(loop)

	counter := rt.Reactive(map[string]any{"n": 0})
	var observed []int
	rt.Effect(func() {
		observed = append(observed, counter.Get("n").(int))
	}, reactivity.WithScheduler(func(e *reactivity.Effect) {
		q.QueueJob(e)
	}))

	loop.Do(func() {
		counter.Set("n", 1)
		counter.Set("n", 2)
		counter.Set("n", 3)
	})

	if len(observed) != 2 || observed[1] != 3 {
		t.Errorf("observed = %v, want [0 3]", observed)
	}
}

func TestQueueParentBeforeChild(t *testing.T) {
	rt := reactivity.NewRuntime()
	q := New(nil)
	state := rt.Reactive(map[string]any{"n": 0})

	var order []string
	sched := reactivity.WithScheduler(func(e *reactivity.Effect) { q.QueueJob(e) })
	rt.Effect(func() {
		_ = state.Get("n")
		order = append(order, "parent")
	}, sched)
	rt.Effect(func() {
		_ = state.Get("n")
		order = append(order, "child")
	}, sched)

	order = nil
	state.Set("n", 1)
	if err := q.Flush(); err != nil {
		t.Fatal(err)
	}
	if len(order) != 2 || order[0] != "parent" {
		t.Errorf("order = %v, want [parent child]", order)
	}
}

func TestQueueInvalidate(t *testing.T) {
	q := New(nil)

	var order []uint64
	a := job(1, func() { order = append(order, 1) })
	b := job(2, func() { order = append(order, 2) })
	c := job(3, func() { order = append(order, 3) })

	q.QueueJob(a)
	q.QueueJob(b)
	q.QueueJob(c)
	q.Invalidate(b)
	q.Invalidate(job(9, func() {}))

	if q.Pending() != 2 {
		t.Errorf("Pending() = %d, want 2", q.Pending())
	}
	if err := q.Flush(); err != nil {
		t.Fatal(err)
	}
	if len(order) != 2 || order[0] != 1 || order[1] != 3 {
		t.Errorf("order = %v, want [1 3]", order)
	}
}

func TestQueueInvalidateDuringFlush(t *testing.T) {
	q := New(nil)

	ran := false
	later := job(5, func() { ran = true })
	q.QueueJob(job(1, func() { q.Invalidate(later) }))
	q.QueueJob(later)

	if err := q.Flush(); err != nil {
		t.Fatal(err)
	}
	if ran {
		t.Error("invalidated job ran")
	}
}
