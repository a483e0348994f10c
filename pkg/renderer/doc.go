// Package renderer mounts vnode trees into a host tree and patches them
// with the minimal set of host operations when they change.
//
// # Host
//
// The renderer never touches an output tree directly. It drives a Host,
// which supplies eight operations: create an element or text node, insert
// and remove handles, set element and text content, look up a next sibling
// and patch a single property. pkg/memtree is an in-memory Host.
//
// # Patching
//
// Patch compares an old and a new node. Nodes of the same type and key are
// updated in place; anything else is replaced at the old node's position.
// Child lists without keys are patched by position. Keyed lists are
// reconciled by syncing the common prefix and suffix, then matching the
// middle region by key and moving only the nodes that are not part of the
// longest increasing subsequence of reused positions.
//
// # Components
//
// A component node gets an instance on first mount. Setup runs once with a
// vnode.SetupContext; its render function runs inside a reactivity effect
// whose re-runs are queued on the scheduler, so several mutations in one
// tick cause one re-render.
//
//	counter := vnode.Define("Counter", func(ctx vnode.SetupContext) vnode.RenderFunc {
//	    state := ctx.Runtime().Reactive(map[string]any{"n": 0})
//	    return func() *vnode.Node {
//	        return vnode.P(vnode.Textf("%d", state.Get("n")))
//	    }
//	})
//
//	app := renderer.CreateApp(host, counter, nil)
//	app.Mount(container)
package renderer
