package telemetry

import (
	stderrors "errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/quill/internal/errors"
	"github.com/vango-dev/quill/pkg/reactivity"
	"github.com/vango-dev/quill/pkg/scheduler"
)

// MetricsConfig configures the Prometheus collectors.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "quill").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for flush duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus collectors.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the flush duration histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "quill",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors. It implements
// scheduler.Observer and reactivity.Observer.
type Metrics struct {
	flushesTotal  prometheus.Counter
	flushDuration prometheus.Histogram
	flushJobs     prometheus.Histogram
	jobFailures   *prometheus.CounterVec
	effectRuns    prometheus.Counter
	diagnostics   *prometheus.CounterVec
	hostOps       *prometheus.CounterVec
}

var (
	_ scheduler.Observer  = (*Metrics)(nil)
	_ reactivity.Observer = (*Metrics)(nil)
)

// NewMetrics creates and registers the collectors. Registering twice on
// the same registry panics, so create one Metrics per registry.
//
// Metrics collected:
//   - quill_flushes_total: Counter of non-empty scheduler flushes
//   - quill_flush_duration_seconds: Histogram of flush duration
//   - quill_flush_jobs: Histogram of jobs run per flush
//   - quill_job_failures_total: Counter of failed jobs by error code
//   - quill_effect_runs_total: Counter of effect runs
//   - quill_diagnostics_total: Counter of runtime diagnostics by code
//   - quill_host_operations_total: Counter of host operations by op
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		flushesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flushes_total",
			Help:        "Total number of scheduler flushes",
			ConstLabels: config.ConstLabels,
		}),

		flushDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_duration_seconds",
			Help:        "Scheduler flush duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		flushJobs: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_jobs",
			Help:        "Number of jobs run per scheduler flush",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{1, 2, 5, 10, 25, 50, 100},
		}),

		jobFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "job_failures_total",
			Help:        "Total number of failed scheduler jobs",
			ConstLabels: config.ConstLabels,
		}, []string{"code"}),

		effectRuns: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effect_runs_total",
			Help:        "Total number of effect runs",
			ConstLabels: config.ConstLabels,
		}),

		diagnostics: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "diagnostics_total",
			Help:        "Total number of runtime diagnostics",
			ConstLabels: config.ConstLabels,
		}, []string{"code"}),

		hostOps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "host_operations_total",
			Help:        "Total number of host operations",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),
	}
}

// OnFlush implements scheduler.Observer.
func (m *Metrics) OnFlush(runs int, elapsed time.Duration) {
	m.flushesTotal.Inc()
	m.flushDuration.Observe(elapsed.Seconds())
	m.flushJobs.Observe(float64(runs))
}

// OnJobFailed implements scheduler.Observer.
func (m *Metrics) OnJobFailed(_ uint64, err error) {
	m.jobFailures.WithLabelValues(errorCode(err)).Inc()
}

// OnEffectRun implements reactivity.Observer.
func (m *Metrics) OnEffectRun(uint64) {
	m.effectRuns.Inc()
}

// OnDiagnostic implements reactivity.Observer.
func (m *Metrics) OnDiagnostic(err *errors.QuillError) {
	m.diagnostics.WithLabelValues(err.Code).Inc()
}

// RecordHostOp counts one host operation.
func (m *Metrics) RecordHostOp(op string) {
	m.hostOps.WithLabelValues(op).Inc()
}

func errorCode(err error) string {
	var qe *errors.QuillError
	if stderrors.As(err, &qe) && qe.Code != "" {
		return qe.Code
	}
	return "unknown"
}
