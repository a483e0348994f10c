package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/quill/pkg/scheduler"
)

// Default tracer name for quill.
const defaultTracerName = "quill"

// TracerConfig configures the Tracer.
type TracerConfig struct {
	// TracerName is the name of the tracer (default: "quill").
	TracerName string

	// Tracer overrides the tracer resolved from the global provider.
	Tracer trace.Tracer
}

// TracerOption configures the Tracer.
type TracerOption func(*TracerConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracerOption {
	return func(c *TracerConfig) {
		c.TracerName = name
	}
}

// WithTracer sets the tracer directly, bypassing the global provider.
func WithTracer(t trace.Tracer) TracerOption {
	return func(c *TracerConfig) {
		c.Tracer = t
	}
}

// Tracer reports scheduler activity as spans. It implements
// scheduler.Observer.
//
// The tracer uses the global OpenTelemetry tracer provider unless
// WithTracer is given. Configure it in main() before creating the Tracer:
//
//	otel.SetTracerProvider(tp)
type Tracer struct {
	tracer trace.Tracer
}

var _ scheduler.Observer = (*Tracer)(nil)

// NewTracer creates a Tracer.
func NewTracer(opts ...TracerOption) *Tracer {
	config := TracerConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	if config.Tracer == nil {
		config.Tracer = otel.Tracer(config.TracerName)
	}
	return &Tracer{tracer: config.Tracer}
}

// OnFlush records a completed flush as a span covering its duration.
func (t *Tracer) OnFlush(runs int, elapsed time.Duration) {
	end := time.Now()
	_, span := t.tracer.Start(context.Background(), "quill.flush",
		trace.WithTimestamp(end.Add(-elapsed)),
		trace.WithAttributes(attribute.Int("quill.flush.jobs", runs)),
	)
	span.End(trace.WithTimestamp(end))
}

// OnJobFailed records a failed job as an errored span.
func (t *Tracer) OnJobFailed(jobID uint64, err error) {
	_, span := t.tracer.Start(context.Background(), "quill.job",
		trace.WithAttributes(
			attribute.Int64("quill.job.id", int64(jobID)),
			attribute.String("quill.error.code", errorCode(err)),
		),
	)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.End()
}

// Flush flushes q inside a span that is a child of ctx's span.
func (t *Tracer) Flush(ctx context.Context, q *scheduler.Queue) error {
	_, span := t.tracer.Start(ctx, "quill.dispatch",
		trace.WithAttributes(attribute.Int("quill.queue.pending", q.Pending())),
	)
	defer span.End()

	err := q.Flush()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	return err
}
