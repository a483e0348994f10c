package telemetry

import (
	"time"

	"github.com/vango-dev/quill/pkg/scheduler"
)

type schedulerObservers []scheduler.Observer

// SchedulerObservers fans scheduler events out to every non-nil observer
// in order.
func SchedulerObservers(obs ...scheduler.Observer) scheduler.Observer {
	out := make(schedulerObservers, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

func (s schedulerObservers) OnFlush(runs int, elapsed time.Duration) {
	for _, o := range s {
		o.OnFlush(runs, elapsed)
	}
}

func (s schedulerObservers) OnJobFailed(jobID uint64, err error) {
	for _, o := range s {
		o.OnJobFailed(jobID, err)
	}
}
