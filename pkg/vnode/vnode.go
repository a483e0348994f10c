package vnode

import "fmt"

// Kind is the node type discriminator.
type Kind uint8

const (
	KindText      Kind = iota // Plain text node
	KindElement               // <div>, <li>, etc.
	KindComponent             // Component placeholder
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "Text"
	case KindElement:
		return "Element"
	case KindComponent:
		return "Component"
	default:
		return "Unknown"
	}
}

// ChildShape describes how an element's children are stored.
type ChildShape uint8

const (
	ShapeNone ChildShape = iota // No children
	ShapeText                   // Node.Text holds the element's text content
	ShapeList                   // Node.Children holds child nodes
)

// String returns the string representation of the ChildShape.
func (s ChildShape) String() string {
	switch s {
	case ShapeNone:
		return "None"
	case ShapeText:
		return "Text"
	case ShapeList:
		return "List"
	default:
		return "Unknown"
	}
}

// Node is one node of a rendered tree.
type Node struct {
	Kind      Kind       // Node type, immutable
	Tag       string     // Element tag name
	Component *Component // For KindComponent
	Props     Props      // Element attributes or component props
	Key       any        // Reconciliation key, nil when absent
	Text      string     // Text node content, or element text when Shape is ShapeText
	Children  []*Node    // Child nodes when Shape is ShapeList
	Shape     ChildShape // Element children shape

	// El is the host handle once mounted. For component nodes it is the
	// handle of the component's root.
	El any

	// Instance is the live component instance for mounted component nodes.
	Instance any
}

// Props holds element attributes or component props.
type Props map[string]any

// HasKey reports whether the node carries a key.
func (n *Node) HasKey() bool {
	return n.Key != nil
}

// String returns a short description for diagnostics.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	switch n.Kind {
	case KindText:
		return fmt.Sprintf("Text(%q)", n.Text)
	case KindComponent:
		name := "anonymous"
		if n.Component != nil && n.Component.Name != "" {
			name = n.Component.Name
		}
		if n.HasKey() {
			return fmt.Sprintf("Component(%s key=%v)", name, n.Key)
		}
		return fmt.Sprintf("Component(%s)", name)
	default:
		if n.HasKey() {
			return fmt.Sprintf("<%s key=%v>", n.Tag, n.Key)
		}
		return fmt.Sprintf("<%s>", n.Tag)
	}
}

// SameType reports whether a and b have the same kind and type: equal tags
// for elements, the same definition for components.
func SameType(a, b *Node) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindElement:
		return a.Tag == b.Tag
	case KindComponent:
		return a.Component == b.Component
	default:
		return true
	}
}

// SameNode reports whether b can be patched onto a in place: the same type
// and equal keys, where two absent keys are equal.
func SameNode(a, b *Node) bool {
	return SameType(a, b) && a.Key == b.Key
}

// normalizeKey returns a comparable form of k.
func normalizeKey(k any) any {
	switch v := k.(type) {
	case nil:
		return nil
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Clone returns a deep copy of n without host handles or instances, so the
// copy can be mounted independently. Props maps are shared.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := *n
	c.El = nil
	c.Instance = nil
	if n.Children != nil {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}
	return &c
}
