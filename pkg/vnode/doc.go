// Package vnode defines the node tree that components render and the
// renderer mounts and patches.
//
// # Core Types
//
// Node is a tagged variant: text, element or component. Its Kind never
// changes after creation. The renderer fills El with the host handle on
// mount and, for component nodes, Instance with the live component.
//
// Element children take one of three shapes: none, a single text string,
// or an ordered list of nodes. ChildShape records which.
//
// # Building Trees
//
// H is the general constructor:
//
//	vnode.H("ul", vnode.Props{"class": "list"},
//	    vnode.H("li", vnode.Props{"key": 1}, "one"),
//	    vnode.H("li", vnode.Props{"key": 2}, "two"),
//	)
//
// Element factories accept mixed arguments the same way:
//
//	vnode.Ul(vnode.Class("list"),
//	    vnode.Range(items, func(it Item, _ int) *vnode.Node {
//	        return vnode.Li(vnode.Key(it.ID), it.Label)
//	    }),
//	)
//
// # Keys
//
// A key lets the renderer match children across renders. Two nodes are the
// same node when they have the same type and equal keys; two absent keys are
// equal.
package vnode
