package renderer

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/vango-dev/quill/internal/errors"
	"github.com/vango-dev/quill/pkg/reactivity"
	"github.com/vango-dev/quill/pkg/scheduler"
	"github.com/vango-dev/quill/pkg/vnode"
)

// Option configures a Renderer.
type Option func(*Renderer)

// WithRuntime sets the reactivity runtime component instances use.
// If not set, a new Runtime is created.
func WithRuntime(rt *reactivity.Runtime) Option {
	return func(r *Renderer) {
		r.rt = rt
	}
}

// WithQueue sets the queue component re-renders are scheduled on.
// If not set, a Queue with its own Loop is created.
func WithQueue(q *scheduler.Queue) Option {
	return func(r *Renderer) {
		r.queue = q
	}
}

// WithLogger sets the logger for renderer diagnostics.
// If not set, slog.Default() is used.
func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) {
		r.logger = l
	}
}

// Renderer mounts and patches vnode trees into a Host.
type Renderer struct {
	host   Host
	rt     *reactivity.Runtime
	queue  *scheduler.Queue
	logger *slog.Logger

	// roots holds the last tree rendered into each container by Render.
	roots map[any]*vnode.Node
}

// New creates a Renderer over host.
func New(host Host, opts ...Option) *Renderer {
	r := &Renderer{
		host:  host,
		roots: make(map[any]*vnode.Node),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.rt == nil {
		r.rt = reactivity.NewRuntime(reactivity.WithLogger(r.logger))
	}
	if r.queue == nil {
		r.queue = scheduler.New(nil, scheduler.WithLogger(r.logger))
	}
	return r
}

// Host returns the renderer's host.
func (r *Renderer) Host() Host {
	return r.host
}

// Runtime returns the reactivity runtime.
func (r *Renderer) Runtime() *reactivity.Runtime {
	return r.rt
}

// warn logs a recovered misuse and reports it to the runtime's Observer.
func (r *Renderer) warn(err *errors.QuillError, attrs ...any) {
	args := append([]any{slog.String("code", err.Code)}, attrs...)
	r.logger.Warn(err.Message, args...)
	r.rt.Notify(err)
}

// Queue returns the scheduler queue.
func (r *Renderer) Queue() *scheduler.Queue {
	return r.queue
}

// Render makes node the content of container, patching against the tree
// previously rendered there. A nil node unmounts it.
func (r *Renderer) Render(node *vnode.Node, container any) {
	prev := r.roots[container]
	if node == nil {
		if prev != nil {
			r.Unmount(prev)
			delete(r.roots, container)
		}
		return
	}
	r.Patch(prev, node, container, nil)
	r.roots[container] = node
}

// Patch brings the host in line with n2. A nil n1 mounts n2 into container
// before anchor.
func (r *Renderer) Patch(n1, n2 *vnode.Node, container, anchor any) {
	r.patch(n1, n2, container, anchor, nil)
}

// Unmount tears down n: component instances are unmounted recursively and
// n's host handle is removed.
func (r *Renderer) Unmount(n *vnode.Node) {
	r.unmount(n, true)
}

func (r *Renderer) patch(n1, n2 *vnode.Node, container, anchor any, parent *instance) {
	if n1 == n2 {
		return
	}
	if n2 == nil {
		panic(errors.New("Q301").WithDetail("patch target is nil"))
	}

	if n1 != nil && !vnode.SameNode(n1, n2) {
		anchor = r.host.NextSibling(hostEl(n1))
		r.unmount(n1, true)
		n1 = nil
	}

	switch n2.Kind {
	case vnode.KindText:
		r.processText(n1, n2, container, anchor)
	case vnode.KindElement:
		r.processElement(n1, n2, container, anchor, parent)
	case vnode.KindComponent:
		r.processComponent(n1, n2, container, anchor, parent)
	default:
		panic(errors.New("Q301").WithDetailf("unknown kind %s", n2.Kind))
	}
}

func (r *Renderer) processText(n1, n2 *vnode.Node, container, anchor any) {
	if n1 == nil {
		n2.El = r.host.CreateText(n2.Text)
		r.host.Insert(n2.El, container, anchor)
		return
	}
	n2.El = n1.El
	if n2.Text != n1.Text {
		r.host.SetText(n2.El, n2.Text)
	}
}

func (r *Renderer) processElement(n1, n2 *vnode.Node, container, anchor any, parent *instance) {
	if n1 == nil {
		r.mountElement(n2, container, anchor, parent)
		return
	}
	r.patchElement(n1, n2, parent)
}

func (r *Renderer) mountElement(n *vnode.Node, container, anchor any, parent *instance) {
	el := r.host.CreateElement(n.Tag)
	n.El = el

	switch n.Shape {
	case vnode.ShapeNone:
	case vnode.ShapeText:
		r.host.SetElementText(el, n.Text)
	case vnode.ShapeList:
		r.mountChildren(n.Children, el, nil, 0, parent)
	default:
		panic(errors.New("Q301").WithDetailf("%v has children shape %s", n, n.Shape))
	}

	for _, k := range sortedKeys(n.Props) {
		r.host.PatchProp(el, k, nil, n.Props[k])
	}

	r.host.Insert(el, container, anchor)
}

func (r *Renderer) patchElement(n1, n2 *vnode.Node, parent *instance) {
	el := n1.El
	n2.El = el

	r.patchChildren(n1, n2, el, nil, parent)
	r.patchProps(el, n1.Props, n2.Props)
}

// patchProps applies changed and new keys, then clears keys absent from
// next. Unchanged values are skipped.
func (r *Renderer) patchProps(el any, prev, next vnode.Props) {
	for _, k := range sortedKeys(next) {
		old, had := prev[k]
		v := next[k]
		if had && !reactivity.HasChanged(old, v) {
			continue
		}
		r.host.PatchProp(el, k, old, v)
	}
	for _, k := range sortedKeys(prev) {
		if _, ok := next[k]; !ok {
			r.host.PatchProp(el, k, prev[k], nil)
		}
	}
}

// move re-inserts n's host handle before anchor. Component nodes move their
// rendered subtree.
func (r *Renderer) move(n *vnode.Node, container, anchor any) {
	if n.Kind == vnode.KindComponent {
		r.move(instanceOf(n).subTree, container, anchor)
		return
	}
	r.host.Insert(n.El, container, anchor)
}

// unmount tears down n. Only the outermost handle is removed from the host;
// descendants are detached along with it, but their components still get
// unmounted.
func (r *Renderer) unmount(n *vnode.Node, remove bool) {
	switch n.Kind {
	case vnode.KindComponent:
		r.unmountComponent(instanceOf(n), remove)
	case vnode.KindElement:
		if n.Shape == vnode.ShapeList {
			for _, c := range n.Children {
				r.unmount(c, false)
			}
		}
		if remove {
			r.host.Remove(n.El)
		}
	case vnode.KindText:
		if remove {
			r.host.Remove(n.El)
		}
	default:
		panic(errors.New("Q301").WithDetailf("unknown kind %s", n.Kind))
	}
}

// hostEl returns the host handle that represents n in its parent.
func hostEl(n *vnode.Node) any {
	if n.El == nil {
		panic(errors.New("Q301").WithDetail(fmt.Sprintf("%v is not mounted", n)))
	}
	return n.El
}

func sortedKeys(p vnode.Props) []string {
	if len(p) == 0 {
		return nil
	}
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
