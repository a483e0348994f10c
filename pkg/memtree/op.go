package memtree

import (
	"fmt"
	"strings"
)

// OpKind names a host operation.
type OpKind string

const (
	OpCreateElement  OpKind = "create-element"
	OpCreateText     OpKind = "create-text"
	OpInsert         OpKind = "insert"
	OpMove           OpKind = "move"
	OpRemove         OpKind = "remove"
	OpSetElementText OpKind = "set-element-text"
	OpSetText        OpKind = "set-text"
	OpPatchProp      OpKind = "patch-prop"
)

// Op is one recorded host operation. Node references are node IDs; 0 means
// none.
type Op struct {
	Kind   OpKind
	Node   int
	Parent int
	Anchor int
	Tag    string // create-element
	Text   string // create-text, set-element-text, set-text
	Key    string // patch-prop
	Prev   any    // patch-prop
	Next   any    // patch-prop
}

// String renders the op as one log line.
func (o Op) String() string {
	switch o.Kind {
	case OpCreateElement:
		return fmt.Sprintf("%s #%d %s", o.Kind, o.Node, o.Tag)
	case OpCreateText, OpSetElementText, OpSetText:
		return fmt.Sprintf("%s #%d %q", o.Kind, o.Node, o.Text)
	case OpInsert, OpMove:
		if o.Anchor == 0 {
			return fmt.Sprintf("%s #%d into #%d at end", o.Kind, o.Node, o.Parent)
		}
		return fmt.Sprintf("%s #%d into #%d before #%d", o.Kind, o.Node, o.Parent, o.Anchor)
	case OpPatchProp:
		return fmt.Sprintf("%s #%d %s %s -> %s", o.Kind, o.Node, o.Key, formatValue(o.Prev), formatValue(o.Next))
	default:
		return fmt.Sprintf("%s #%d", o.Kind, o.Node)
	}
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case string:
		return fmt.Sprintf("%q", x)
	default:
		if isFunc(v) {
			return "func"
		}
		return fmt.Sprintf("%v", x)
	}
}

func isFunc(v any) bool {
	return strings.HasPrefix(fmt.Sprintf("%T", v), "func")
}

// Log is an ordered list of ops.
type Log []Op

// String renders the log one op per line, with a trailing newline.
func (l Log) String() string {
	var b strings.Builder
	for _, op := range l {
		b.WriteString(op.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// Count returns the number of ops of kind k.
func (l Log) Count(k OpKind) int {
	n := 0
	for _, op := range l {
		if op.Kind == k {
			n++
		}
	}
	return n
}

// Filter returns the ops of the given kinds, in order.
func (l Log) Filter(kinds ...OpKind) Log {
	var out Log
	for _, op := range l {
		for _, k := range kinds {
			if op.Kind == k {
				out = append(out, op)
				break
			}
		}
	}
	return out
}
