package main

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/vango-dev/quill/pkg/memtree"
	"github.com/vango-dev/quill/pkg/reactivity"
	"github.com/vango-dev/quill/pkg/renderer"
	"github.com/vango-dev/quill/pkg/scheduler"
	"github.com/vango-dev/quill/pkg/telemetry"
	"github.com/vango-dev/quill/pkg/vnode"
)

// demoOptions configures a demoApp. Nil metrics or tracer disable them.
type demoOptions struct {
	logger       *slog.Logger
	maxRecursion int
	metrics      *telemetry.Metrics
	tracer       *telemetry.Tracer
	items        []string
}

// demoApp is a counter above a keyed list, mounted into an in-memory tree.
// It is not safe for concurrent use.
type demoApp struct {
	tree   *memtree.Tree
	root   *memtree.Node
	app    *renderer.App
	tracer *telemetry.Tracer

	// Set by the root component's setup.
	state *reactivity.Object
	items *reactivity.Array
}

var counterComponent = vnode.Define("Counter", func(ctx vnode.SetupContext) vnode.RenderFunc {
	return func() *vnode.Node {
		return vnode.P(vnode.Class("count"), fmt.Sprintf("Count: %v", ctx.Props().Get("count")))
	}
})

var itemComponent = vnode.Define("Item", func(ctx vnode.SetupContext) vnode.RenderFunc {
	return func() *vnode.Node {
		return vnode.Li(ctx.Props().Get("label"))
	}
})

func newDemoApp(o demoOptions) (*demoApp, error) {
	if o.logger == nil {
		o.logger = slog.Default()
	}

	d := &demoApp{tree: memtree.New(), tracer: o.tracer}
	d.root = d.tree.Container("div")

	var host renderer.Host = d.tree
	rtOpts := []reactivity.Option{reactivity.WithLogger(o.logger)}
	var observers []scheduler.Observer
	if o.metrics != nil {
		host = telemetry.InstrumentHost(host, o.metrics)
		rtOpts = append(rtOpts, reactivity.WithObserver(o.metrics))
		observers = append(observers, o.metrics)
	}
	if o.tracer != nil {
		observers = append(observers, o.tracer)
	}

	queue := scheduler.New(nil,
		scheduler.WithLogger(o.logger),
		scheduler.WithMaxRecursion(o.maxRecursion),
		scheduler.WithObserver(telemetry.SchedulerObservers(observers...)),
	)

	initial := make([]any, len(o.items))
	for i, item := range o.items {
		initial[i] = item
	}

	root := vnode.Define("Demo", func(ctx vnode.SetupContext) vnode.RenderFunc {
		d.state = ctx.Runtime().Reactive(map[string]any{"count": 0})
		d.items = ctx.Runtime().ReactiveArray(&initial)
		return func() *vnode.Node {
			return vnode.Section(vnode.Class("app"),
				vnode.H1("Quill demo"),
				vnode.H(counterComponent, vnode.Props{"count": d.state.Get("count")}),
				vnode.Ul(vnode.Class("items"), vnode.Range(d.items.Items(), func(item any, _ int) *vnode.Node {
					return vnode.H(itemComponent, vnode.Props{"key": item, "label": item})
				})),
				vnode.If(d.items.Len() == 0, vnode.P(vnode.Class("empty"), "No items")),
			)
		}
	})

	d.app = renderer.CreateApp(host, root, nil,
		renderer.WithRuntime(reactivity.NewRuntime(rtOpts...)),
		renderer.WithQueue(queue),
		renderer.WithLogger(o.logger),
	)
	if err := d.app.Mount(d.root); err != nil {
		return nil, err
	}
	return d, nil
}

// dispatch runs fn and flushes the re-renders it caused, inside a span
// when tracing is enabled.
func (d *demoApp) dispatch(ctx context.Context, fn func()) error {
	if d.tracer == nil {
		return d.app.Dispatch(fn)
	}
	fn()
	err := d.tracer.Flush(ctx, d.app.Renderer().Queue())
	d.app.Loop().Drain()
	return err
}

// Increment adds one to the counter.
func (d *demoApp) Increment(ctx context.Context) error {
	return d.dispatch(ctx, func() {
		n, _ := d.state.Get("count").(int)
		d.state.Set("count", n+1)
	})
}

// Add appends an item. Items are keys, so adding a duplicate is reported
// by the renderer as a duplicate key.
func (d *demoApp) Add(ctx context.Context, item string) error {
	return d.dispatch(ctx, func() {
		d.items.Push(item)
	})
}

// Reverse reverses the list in place.
func (d *demoApp) Reverse(ctx context.Context) error {
	return d.dispatch(ctx, func() {
		items := slices.Clone(*d.items.Raw())
		slices.Reverse(items)
		for i, item := range items {
			d.items.Set(i, item)
		}
	})
}

// Remove deletes item from the list. It reports whether item was present.
func (d *demoApp) Remove(ctx context.Context, item string) (bool, error) {
	items := *d.items.Raw()
	i := slices.Index(items, any(item))
	if i < 0 {
		return false, nil
	}
	kept := slices.Delete(slices.Clone(items), i, i+1)
	err := d.dispatch(ctx, func() {
		for j, v := range kept {
			d.items.Set(j, v)
		}
		d.items.SetLen(len(kept))
	})
	return true, err
}

// Items returns the current list.
func (d *demoApp) Items() []string {
	raw := *d.items.Raw()
	out := make([]string, len(raw))
	for i, v := range raw {
		out[i] = fmt.Sprint(v)
	}
	return out
}

// HTML serializes the mounted tree.
func (d *demoApp) HTML() string {
	return memtree.InnerHTML(d.root)
}

// Ops returns the host operations recorded since the last call and clears
// the log.
func (d *demoApp) Ops() memtree.Log {
	ops := d.tree.Log()
	d.tree.Reset()
	return ops
}
