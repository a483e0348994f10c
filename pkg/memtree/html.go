package memtree

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vango-dev/quill/pkg/vnode"
)

// booleanAttrs are rendered without a value when true.
var booleanAttrs = map[string]bool{
	"checked":  true,
	"disabled": true,
	"hidden":   true,
	"readonly": true,
	"required": true,
	"selected": true,
}

// HTML serializes n and its descendants.
// Attributes are sorted; func-valued props (event handlers) are skipped.
func HTML(n *Node) string {
	var b strings.Builder
	writeNode(&b, n)
	return b.String()
}

// InnerHTML serializes n's content without n itself.
func InnerHTML(n *Node) string {
	var b strings.Builder
	writeContent(&b, n)
	return b.String()
}

func writeNode(b *strings.Builder, n *Node) {
	if n.IsText() {
		b.WriteString(escapeHTML(n.Text))
		return
	}

	b.WriteByte('<')
	b.WriteString(n.Tag)
	writeAttrs(b, n.Props)
	b.WriteByte('>')

	if vnode.IsVoidElement(n.Tag) {
		return
	}
	writeContent(b, n)
	fmt.Fprintf(b, "</%s>", n.Tag)
}

func writeContent(b *strings.Builder, n *Node) {
	if n.Text != "" && !n.IsText() {
		b.WriteString(escapeHTML(n.Text))
	}
	for _, c := range n.Children {
		writeNode(b, c)
	}
}

func writeAttrs(b *strings.Builder, props map[string]any) {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := props[k]
		if isFunc(v) {
			continue
		}
		if booleanAttrs[k] {
			if on, ok := v.(bool); ok {
				if on {
					fmt.Fprintf(b, " %s", k)
				}
				continue
			}
		}
		fmt.Fprintf(b, ` %s="%s"`, k, escapeAttr(fmt.Sprint(v)))
	}
}

// escapeHTML escapes text for inclusion in HTML content.
func escapeHTML(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))

	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&#39;")
		default:
			buf.WriteRune(r)
		}
	}

	return buf.String()
}

// escapeAttr escapes text for inclusion in attribute values. Whitespace
// that could break attribute parsing is escaped too.
func escapeAttr(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))

	for _, r := range s {
		switch r {
		case '\n':
			buf.WriteString("&#10;")
		case '\r':
			buf.WriteString("&#13;")
		case '\t':
			buf.WriteString("&#9;")
		default:
			buf.WriteString(escapeHTML(string(r)))
		}
	}

	return buf.String()
}
