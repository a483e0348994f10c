package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vango-dev/quill/internal/config"
	"github.com/vango-dev/quill/pkg/telemetry"
)

// demoStep is one scripted mutation of the demo app.
type demoStep struct {
	name string
	run  func(ctx context.Context, d *demoApp) error
}

func defaultDemoSteps() []demoStep {
	return []demoStep{
		{"increment", func(ctx context.Context, d *demoApp) error { return d.Increment(ctx) }},
		{"add c", func(ctx context.Context, d *demoApp) error { return d.Add(ctx, "c") }},
		{"reverse", func(ctx context.Context, d *demoApp) error { return d.Reverse(ctx) }},
		{"remove b", func(ctx context.Context, d *demoApp) error {
			_, err := d.Remove(ctx, "b")
			return err
		}},
	}
}

func demoCmd(opts *globalOptions) *cobra.Command {
	var (
		showOps     bool
		showMetrics bool
		items       []string
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a scripted app against an in-memory tree",
		Long: `Mount a counter and a keyed list into an in-memory host tree, then
apply a scripted series of state changes. After each step the tree's
HTML is printed, optionally followed by the host operations the patch
issued.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			return demoRun{
				out:         cmd.OutOrStdout(),
				errOut:      cmd.ErrOrStderr(),
				items:       items,
				showOps:     showOps,
				showMetrics: showMetrics,
			}.run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().BoolVar(&showOps, "ops", false, "Print host operations after each step")
	cmd.Flags().BoolVar(&showMetrics, "metrics", false, "Print counters collected during the run")
	cmd.Flags().StringSliceVar(&items, "items", []string{"a", "b"}, "Initial list items")

	return cmd
}

// demoRun holds the output streams and flags of one demo run.
type demoRun struct {
	out, errOut io.Writer
	items       []string
	showOps     bool
	showMetrics bool
}

func (r demoRun) run(ctx context.Context, cfg *config.Config) error {
	w := r.out
	registry := prometheus.NewRegistry()
	o := demoOptions{
		logger:       cfg.Logger(r.errOut),
		maxRecursion: cfg.Scheduler.MaxRecursion,
		items:        r.items,
	}
	if cfg.Metrics.Enabled {
		o.metrics = telemetry.NewMetrics(
			telemetry.WithNamespace(cfg.Metrics.Namespace),
			telemetry.WithRegistry(registry),
		)
	}
	if cfg.Tracing.Enabled {
		o.tracer = telemetry.NewTracer(telemetry.WithTracerName(cfg.Tracing.TracerName))
	}

	d, err := newDemoApp(o)
	if err != nil {
		return err
	}

	printStep(w, "mount", d, r.showOps)
	for _, step := range defaultDemoSteps() {
		if err := step.run(ctx, d); err != nil {
			return fmt.Errorf("step %q: %w", step.name, err)
		}
		printStep(w, step.name, d, r.showOps)
	}

	if r.showMetrics && o.metrics != nil {
		if err := printCounters(w, registry); err != nil {
			return err
		}
	}

	success(w, "%d steps applied", len(defaultDemoSteps())+1)
	return nil
}

func printStep(w io.Writer, name string, d *demoApp, showOps bool) {
	fmt.Fprintf(w, "== %s\n%s\n", name, d.HTML())
	ops := d.Ops()
	if showOps && len(ops) > 0 {
		for _, line := range strings.Split(strings.TrimSuffix(ops.String(), "\n"), "\n") {
			info(w, "%s", line)
		}
	}
}

// printCounters prints every counter series gathered from registry.
func printCounters(w io.Writer, registry *prometheus.Registry) error {
	families, err := registry.Gather()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "== metrics")
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			c := m.GetCounter()
			if c == nil {
				continue
			}
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			name := mf.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}
			info(w, "%s %g", name, c.GetValue())
		}
	}
	return nil
}
