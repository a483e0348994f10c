package renderer

import (
	"log/slog"

	"github.com/vango-dev/quill/internal/errors"
	"github.com/vango-dev/quill/pkg/reactivity"
	"github.com/vango-dev/quill/pkg/vnode"
)

// HookType identifies a lifecycle hook.
type HookType uint8

const (
	HookBeforeMount HookType = iota
	HookMounted
	HookBeforeUpdate
	HookUpdated
	HookBeforeUnmount
	HookUnmounted
	hookCount
)

// String returns the string representation of the HookType.
func (h HookType) String() string {
	switch h {
	case HookBeforeMount:
		return "BeforeMount"
	case HookMounted:
		return "Mounted"
	case HookBeforeUpdate:
		return "BeforeUpdate"
	case HookUpdated:
		return "Updated"
	case HookBeforeUnmount:
		return "BeforeUnmount"
	case HookUnmounted:
		return "Unmounted"
	default:
		return "Unknown"
	}
}

// instance is a mounted component. It implements vnode.SetupContext.
type instance struct {
	r      *Renderer
	def    *vnode.Component
	parent *instance

	// vnode is the component node currently representing the instance.
	vnode *vnode.Node
	// next is set when a parent re-render hands the instance a new node.
	next *vnode.Node

	props   *reactivity.Object
	render  vnode.RenderFunc
	subTree *vnode.Node
	effect  *reactivity.Effect

	// container is the host parent the subtree was mounted into. A
	// component never changes parents; reparenting mounts a new instance.
	container any
	anchor    any

	mounted   bool
	unmounted bool

	hooks [hookCount][]func()
}

var _ vnode.SetupContext = (*instance)(nil)

func instanceOf(n *vnode.Node) *instance {
	inst, ok := n.Instance.(*instance)
	if !ok {
		panic(errors.New("Q301").WithDetailf("%v has no mounted instance", n))
	}
	return inst
}

// Props implements vnode.SetupContext.
func (i *instance) Props() *reactivity.Object { return i.props }

// Runtime implements vnode.SetupContext.
func (i *instance) Runtime() *reactivity.Runtime { return i.r.rt }

func (i *instance) OnBeforeMount(fn func())   { i.addHook(HookBeforeMount, fn) }
func (i *instance) OnMounted(fn func())       { i.addHook(HookMounted, fn) }
func (i *instance) OnBeforeUpdate(fn func())  { i.addHook(HookBeforeUpdate, fn) }
func (i *instance) OnUpdated(fn func())       { i.addHook(HookUpdated, fn) }
func (i *instance) OnBeforeUnmount(fn func()) { i.addHook(HookBeforeUnmount, fn) }
func (i *instance) OnUnmounted(fn func())     { i.addHook(HookUnmounted, fn) }

func (i *instance) addHook(h HookType, fn func()) {
	if fn != nil {
		i.hooks[h] = append(i.hooks[h], fn)
	}
}

// callHooks runs the hooks of type h without tracking, so reads inside a
// hook never subscribe the render effect.
func (i *instance) callHooks(h HookType) {
	if len(i.hooks[h]) == 0 {
		return
	}
	i.r.rt.Untracked(func() {
		for _, fn := range i.hooks[h] {
			fn()
		}
	})
}

func (r *Renderer) processComponent(n1, n2 *vnode.Node, container, anchor any, parent *instance) {
	if n1 == nil {
		r.mountComponent(n2, container, anchor, parent)
		return
	}
	r.updateComponent(n1, n2)
}

func (r *Renderer) mountComponent(n *vnode.Node, container, anchor any, parent *instance) {
	def := n.Component
	if def == nil || def.Setup == nil {
		panic(errors.New("Q303").WithDetailf("%v has no setup", n))
	}

	raw := make(map[string]any, len(n.Props))
	for k, v := range n.Props {
		raw[k] = v
	}

	inst := &instance{
		r:         r,
		def:       def,
		parent:    parent,
		vnode:     n,
		props:     r.rt.ShallowReactive(raw),
		container: container,
		anchor:    anchor,
	}
	n.Instance = inst

	r.rt.Untracked(func() {
		inst.render = def.Setup(inst)
	})
	if inst.render == nil {
		panic(errors.New("Q303").WithDetailf("%s setup returned no render function", componentName(def)))
	}

	inst.effect = r.rt.Effect(inst.update, reactivity.WithScheduler(func(e *reactivity.Effect) {
		r.queue.QueueJob(e)
	}))
}

// update is the render effect body: first run mounts, later runs patch.
func (i *instance) update() {
	r := i.r
	if !i.mounted {
		i.callHooks(HookBeforeMount)
		tree := i.renderTree()
		r.patch(nil, tree, i.container, i.anchor, i)
		i.subTree = tree
		i.setEl(tree.El)
		i.mounted = true
		i.anchor = nil
		i.callHooks(HookMounted)
		return
	}

	if next := i.next; next != nil {
		i.next = nil
		next.El = i.vnode.El
		i.vnode = next
	}

	i.callHooks(HookBeforeUpdate)
	prev := i.subTree
	tree := i.renderTree()
	i.subTree = tree
	r.patch(prev, tree, i.container, nil, i)
	i.setEl(tree.El)
	i.callHooks(HookUpdated)
}

// renderTree runs the render function. A nil result renders as empty text.
func (i *instance) renderTree() *vnode.Node {
	tree := i.render()
	if tree == nil {
		name := componentName(i.def)
		i.r.warn(errors.New("Q303").WithDetail(name), slog.String("component", name))
		return vnode.Text("")
	}
	if tree.El != nil && tree != i.subTree {
		tree = tree.Clone()
	}
	return tree
}

// setEl records el as the instance's host handle and propagates it to
// parents whose subtree root is this component.
func (i *instance) setEl(el any) {
	i.vnode.El = el
	for child, p := i, i.parent; p != nil && p.subTree == child.vnode; child, p = p, p.parent {
		p.vnode.El = el
	}
}

// updateComponent hands an existing instance its new node. When props
// changed the instance re-renders synchronously and its queued job, if
// any, is dropped.
func (r *Renderer) updateComponent(n1, n2 *vnode.Node) {
	inst := instanceOf(n1)
	n2.Instance = inst
	n2.El = n1.El

	if !propsChanged(n1.Props, n2.Props) {
		inst.vnode = n2
		return
	}

	inst.next = n2
	for _, k := range sortedKeys(n2.Props) {
		inst.props.Set(k, n2.Props[k])
	}
	for _, k := range sortedKeys(n1.Props) {
		if _, ok := n2.Props[k]; !ok {
			inst.props.Delete(k)
		}
	}

	r.queue.Invalidate(inst.effect)
	inst.effect.Run()
}

func propsChanged(prev, next vnode.Props) bool {
	if len(prev) != len(next) {
		return true
	}
	for k, v := range next {
		old, ok := prev[k]
		if !ok || reactivity.HasChanged(old, v) {
			return true
		}
	}
	return false
}

func (r *Renderer) unmountComponent(inst *instance, remove bool) {
	if inst.unmounted {
		return
	}
	inst.callHooks(HookBeforeUnmount)
	inst.effect.Stop()
	r.queue.Invalidate(inst.effect)
	if inst.subTree != nil {
		r.unmount(inst.subTree, remove)
	}
	r.rt.Dispose(inst.props)
	inst.unmounted = true
	inst.callHooks(HookUnmounted)
}

func componentName(def *vnode.Component) string {
	if def == nil || def.Name == "" {
		return "anonymous"
	}
	return def.Name
}
