package scheduler

import (
	stderrors "errors"
	"log/slog"
	"sort"
	"time"

	"github.com/vango-dev/quill/internal/errors"
)

// Job is a unit of work identified by a stable ID. Lower IDs run first.
// *reactivity.Effect satisfies Job.
type Job interface {
	ID() uint64
	Run() any
}

// Queue is a deduplicating, ID-ordered job queue flushed once per cycle.
//
// Jobs queued while a flush is running join the same flush: they are
// inserted by ID among the jobs that have not run yet. A job that already
// ran in the current flush may be queued again and runs again, up to the
// recursion limit.
type Queue struct {
	loop     *Loop
	logger   *slog.Logger
	observer Observer

	maxRecursion int

	queue []Job

	// flushIndex is the position of the running job during a flush.
	flushIndex int
	flushing   bool

	// pending is set once a deferred flush has been posted to the loop.
	pending bool
}

// New creates a Queue that defers flushes through loop.
// A nil loop gets a private Loop, reachable through Loop().
func New(loop *Loop, opts ...Option) *Queue {
	if loop == nil {
		loop = NewLoop()
	}
	q := &Queue{
		loop:         loop,
		maxRecursion: DefaultMaxRecursion,
	}
	for _, opt := range opts {
		opt(q)
	}
	if q.logger == nil {
		q.logger = slog.Default()
	}
	return q
}

// Loop returns the loop the queue posts its flushes to.
func (q *Queue) Loop() *Loop {
	return q.loop
}

// Pending returns the number of queued jobs that have not run yet.
func (q *Queue) Pending() int {
	if q.flushing {
		return len(q.queue) - q.flushIndex - 1
	}
	return len(q.queue)
}

// Flushing reports whether a flush is in progress.
func (q *Queue) Flushing() bool {
	return q.flushing
}

// QueueJob adds job unless a job with the same ID is already waiting to run,
// and makes sure a flush is scheduled.
func (q *Queue) QueueJob(job Job) {
	start := 0
	if q.flushing {
		start = q.flushIndex + 1
	}
	id := job.ID()
	for _, j := range q.queue[start:] {
		if j.ID() == id {
			return
		}
	}

	if q.flushing {
		// Keep the unrun tail ordered by ID.
		tail := q.queue[start:]
		pos := start + sort.Search(len(tail), func(i int) bool {
			return tail[i].ID() > id
		})
		q.queue = append(q.queue, nil)
		copy(q.queue[pos+1:], q.queue[pos:])
		q.queue[pos] = job
		return
	}

	q.queue = append(q.queue, job)
	q.schedule()
}

// Invalidate removes job from the jobs waiting to run. It is used when the
// job is about to run synchronously anyway.
func (q *Queue) Invalidate(job Job) {
	start := 0
	if q.flushing {
		start = q.flushIndex + 1
	}
	id := job.ID()
	for i := start; i < len(q.queue); i++ {
		if q.queue[i].ID() == id {
			q.queue = append(q.queue[:i], q.queue[i+1:]...)
			return
		}
	}
}

func (q *Queue) schedule() {
	if q.pending {
		return
	}
	q.pending = true
	q.loop.Post(q.flushDeferred)
}

func (q *Queue) flushDeferred() {
	if err := q.Flush(); err != nil {
		q.logger.Error("scheduler flush failed", slog.Any("error", err))
	}
}

// Flush runs every queued job in ascending ID order and returns the joined
// failures. A failing job does not stop the jobs after it.
//
// Calling Flush from inside a running job is a no-op.
func (q *Queue) Flush() error {
	if q.flushing {
		return nil
	}
	q.pending = false
	if len(q.queue) == 0 {
		return nil
	}

	q.flushing = true
	start := time.Now()
	runs := make(map[uint64]int)
	total := 0
	var errs []error

	defer func() {
		clear(q.queue)
		q.queue = q.queue[:0]
		q.flushIndex = 0
		q.flushing = false
	}()

	sort.SliceStable(q.queue, func(i, j int) bool {
		return q.queue[i].ID() < q.queue[j].ID()
	})

	for q.flushIndex = 0; q.flushIndex < len(q.queue); q.flushIndex++ {
		job := q.queue[q.flushIndex]

		runs[job.ID()]++
		if runs[job.ID()] > q.maxRecursion {
			err := errors.New("Q201").WithDetailf("job %d ran more than %d times", job.ID(), q.maxRecursion)
			errs = append(errs, err)
			q.failed(job, err)
			continue
		}

		total++
		if err := runJob(job); err != nil {
			errs = append(errs, err)
			q.failed(job, err)
		}
	}

	if q.observer != nil {
		q.observer.OnFlush(total, time.Since(start))
	}
	return stderrors.Join(errs...)
}

func (q *Queue) failed(job Job, err error) {
	if q.observer != nil {
		q.observer.OnJobFailed(job.ID(), err)
	}
}

// runJob runs job, converting a panic or a returned error into a Q202
// error carrying the job ID.
func runJob(job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			qe := errors.FromPanic("Q202", r)
			err = qe.WithDetailf("job %d: %s", job.ID(), qe.Detail)
		}
	}()

	if res, ok := job.Run().(error); ok && res != nil {
		return errors.New("Q202").WithDetailf("job %d: %v", job.ID(), res).Wrap(res)
	}
	return nil
}
