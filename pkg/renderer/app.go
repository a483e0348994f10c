package renderer

import (
	"github.com/vango-dev/quill/internal/errors"
	"github.com/vango-dev/quill/pkg/reactivity"
	"github.com/vango-dev/quill/pkg/scheduler"
	"github.com/vango-dev/quill/pkg/vnode"
)

// App binds a root component to a Renderer.
type App struct {
	r         *Renderer
	root      *vnode.Component
	props     vnode.Props
	node      *vnode.Node
	container any
}

// CreateApp prepares root for mounting into host. Options configure the
// underlying Renderer.
func CreateApp(host Host, root *vnode.Component, props vnode.Props, opts ...Option) *App {
	return &App{
		r:     New(host, opts...),
		root:  root,
		props: props,
	}
}

// Renderer returns the app's renderer.
func (a *App) Renderer() *Renderer {
	return a.r
}

// Runtime returns the reactivity runtime components render with.
func (a *App) Runtime() *reactivity.Runtime {
	return a.r.rt
}

// Loop returns the loop deferred flushes are posted to.
func (a *App) Loop() *scheduler.Loop {
	return a.r.queue.Loop()
}

// Root returns the mounted root component node, or nil.
func (a *App) Root() *vnode.Node {
	return a.node
}

// Mount renders the root component into container.
func (a *App) Mount(container any) error {
	if a.node != nil {
		return errors.New("Q304")
	}
	a.node = vnode.H(a.root, a.props)
	a.container = container
	a.r.Render(a.node, container)
	a.Loop().Drain()
	return nil
}

// Unmount tears the app down. It is a no-op if the app is not mounted.
func (a *App) Unmount() {
	if a.node == nil {
		return
	}
	a.r.Render(nil, a.container)
	a.node = nil
	a.container = nil
}

// Dispatch runs fn, typically a state mutation, then flushes the re-renders
// it caused and drains the loop. It returns the flush failures.
func (a *App) Dispatch(fn func()) error {
	fn()
	err := a.r.queue.Flush()
	a.Loop().Drain()
	return err
}
