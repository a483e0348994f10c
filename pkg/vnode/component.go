package vnode

import "github.com/vango-dev/quill/pkg/reactivity"

// RenderFunc produces a component's subtree. It runs inside the
// component's render effect, so reactive reads it performs schedule a
// re-render when they change.
type RenderFunc func() *Node

// Component is a component definition. Setup runs once per instance and
// returns the render function.
type Component struct {
	Name  string
	Setup func(ctx SetupContext) RenderFunc
}

// SetupContext is passed to Setup. Hooks registered through it belong to
// the instance being set up.
type SetupContext interface {
	// Props returns the instance's shallow-reactive props.
	Props() *reactivity.Object

	// Runtime returns the reactivity runtime the instance renders with.
	Runtime() *reactivity.Runtime

	OnBeforeMount(fn func())
	OnMounted(fn func())
	OnBeforeUpdate(fn func())
	OnUpdated(fn func())
	OnBeforeUnmount(fn func())
	OnUnmounted(fn func())
}

// Define is a shorthand for a named component.
func Define(name string, setup func(ctx SetupContext) RenderFunc) *Component {
	return &Component{Name: name, Setup: setup}
}
