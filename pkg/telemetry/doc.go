// Package telemetry exports scheduler, runtime and host activity as
// Prometheus metrics and OpenTelemetry spans.
//
// Metrics implements both scheduler.Observer and reactivity.Observer:
//
//	m := telemetry.NewMetrics(telemetry.WithNamespace("quill"))
//	rt := reactivity.NewRuntime(reactivity.WithObserver(m))
//	q := scheduler.New(nil, scheduler.WithObserver(m))
//	host := telemetry.InstrumentHost(memtree.New(), m)
//
// Tracer reports flushes and job failures as spans on the global tracer
// provider. Combine observers with SchedulerObservers.
package telemetry
