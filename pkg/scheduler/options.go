package scheduler

import (
	"log/slog"
	"time"
)

// DefaultMaxRecursion is the number of times one job may run in a single
// flush before it is dropped.
const DefaultMaxRecursion = 100

// Observer receives flush events, typically for metrics.
type Observer interface {
	// OnFlush is called when a flush completes with the number of job runs
	// and the wall time spent.
	OnFlush(runs int, elapsed time.Duration)

	// OnJobFailed is called for every job that panicked, returned an error
	// or exceeded the recursion limit.
	OnJobFailed(jobID uint64, err error)
}

// Option configures a Queue.
type Option func(*Queue)

// WithLogger sets the logger used to report failures of deferred flushes.
// If not set, slog.Default() is used.
func WithLogger(l *slog.Logger) Option {
	return func(q *Queue) {
		q.logger = l
	}
}

// WithObserver attaches an Observer.
func WithObserver(o Observer) Option {
	return func(q *Queue) {
		q.observer = o
	}
}

// WithMaxRecursion sets how many times one job may run within a single
// flush. Values below 1 are ignored.
func WithMaxRecursion(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.maxRecursion = n
		}
	}
}
