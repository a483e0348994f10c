package scheduler

// Loop is a FIFO of deferred callbacks.
//
// Callbacks posted while the loop is draining run in the same drain, after
// everything posted before them.
type Loop struct {
	tasks    []func()
	draining bool
}

// NewLoop creates an empty Loop.
func NewLoop() *Loop {
	return &Loop{}
}

// Post schedules fn to run on the next drain.
func (l *Loop) Post(fn func()) {
	l.tasks = append(l.tasks, fn)
}

// Len returns the number of callbacks waiting to run.
func (l *Loop) Len() int {
	return len(l.tasks)
}

// Drain runs posted callbacks until none remain and returns how many ran.
// A nested call from inside a callback returns 0 immediately.
//
// If a callback panics the panic propagates; callbacks not yet run stay
// queued for the next drain.
func (l *Loop) Drain() int {
	if l.draining {
		return 0
	}
	l.draining = true
	defer func() { l.draining = false }()

	n := 0
	for len(l.tasks) > 0 {
		fn := l.tasks[0]
		l.tasks[0] = nil
		l.tasks = l.tasks[1:]
		fn()
		n++
	}
	l.tasks = nil
	return n
}

// Do runs fn and then drains the loop, so work deferred by fn runs once
// fn's synchronous call stack has unwound.
func (l *Loop) Do(fn func()) {
	fn()
	l.Drain()
}
