package vnode

import "fmt"

// Text creates a text node.
func Text(content string) *Node {
	return &Node{
		Kind: KindText,
		Text: content,
	}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *Node {
	return Text(fmt.Sprintf(format, args...))
}

// H creates an element node when typ is a tag string, or a component node
// when typ is a *Component.
//
// A "key" entry in props becomes the node's Key and is removed from Props.
// For elements, a single string or number child becomes the element's text;
// otherwise children are flattened into a list where strings and numbers
// become text nodes, nil entries are skipped, and []*Node is spliced in.
// Component nodes carry no children.
func H(typ any, props Props, children ...any) *Node {
	var node *Node
	switch t := typ.(type) {
	case string:
		node = &Node{Kind: KindElement, Tag: t}
	case *Component:
		node = &Node{Kind: KindComponent, Component: t}
	default:
		panic(fmt.Sprintf("vnode: H called with %T, want string or *Component", typ))
	}

	if len(props) > 0 {
		node.Props = make(Props, len(props))
		for k, v := range props {
			if k == "key" {
				node.Key = normalizeKey(v)
				continue
			}
			node.Props[k] = v
		}
	}

	if node.Kind == KindComponent {
		return node
	}

	setChildren(node, children)
	return node
}

// setChildren normalizes children into node's Shape.
func setChildren(node *Node, children []any) {
	if len(children) == 1 {
		if s, ok := textValue(children[0]); ok {
			node.Shape = ShapeText
			node.Text = s
			return
		}
	}

	for _, child := range children {
		appendChild(node, child)
	}
	if len(node.Children) > 0 {
		node.Shape = ShapeList
	}
}

func appendChild(node *Node, child any) {
	switch v := child.(type) {
	case nil:
	case *Node:
		if v != nil {
			node.Children = append(node.Children, v)
		}
	case []*Node:
		for _, c := range v {
			if c != nil {
				node.Children = append(node.Children, c)
			}
		}
	default:
		if s, ok := textValue(v); ok {
			node.Children = append(node.Children, Text(s))
		}
	}
}

// textValue reports whether v is a string or number and returns its text.
func textValue(v any) (string, bool) {
	switch x := v.(type) {
	case *Node:
		return "", false
	case string:
		return x, true
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return fmt.Sprint(x), true
	case fmt.Stringer:
		return x.String(), true
	}
	return "", false
}
