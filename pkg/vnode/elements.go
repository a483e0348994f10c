package vnode

// Attr represents a single element attribute or component prop.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// El creates an element from mixed arguments.
// Arguments can be: nil, Attr, []Attr, Props, *Node, []*Node, string or a
// number. Attrs and Props are merged in order; the rest are children,
// normalized as in H.
func El(tag string, args ...any) *Node {
	props := Props{}
	var children []any

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			// Ignore nil (allows conditional attributes)
		case Attr:
			if !v.IsEmpty() {
				props[v.Key] = v.Value
			}
		case []Attr:
			for _, a := range v {
				if !a.IsEmpty() {
					props[a.Key] = a.Value
				}
			}
		case Props:
			for k, val := range v {
				props[k] = val
			}
		default:
			children = append(children, v)
		}
	}

	return H(tag, props, children...)
}

// Common elements

func Div(args ...any) *Node     { return El("div", args...) }
func Span(args ...any) *Node    { return El("span", args...) }
func P(args ...any) *Node       { return El("p", args...) }
func Ul(args ...any) *Node      { return El("ul", args...) }
func Ol(args ...any) *Node      { return El("ol", args...) }
func Li(args ...any) *Node      { return El("li", args...) }
func H1(args ...any) *Node      { return El("h1", args...) }
func H2(args ...any) *Node      { return El("h2", args...) }
func Button(args ...any) *Node  { return El("button", args...) }
func Input(args ...any) *Node   { return El("input", args...) }
func Label(args ...any) *Node   { return El("label", args...) }
func Section(args ...any) *Node { return El("section", args...) }

// Attributes

// Class sets the class attribute.
func Class(v string) Attr { return Attr{Key: "class", Value: v} }

// ID sets the id attribute.
func ID(v string) Attr { return Attr{Key: "id", Value: v} }

// Prop sets an arbitrary attribute or prop.
func Prop(key string, value any) Attr { return Attr{Key: key, Value: value} }

// Key sets the reconciliation key.
func Key(key any) Attr { return Attr{Key: "key", Value: key} }
