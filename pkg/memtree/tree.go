package memtree

import (
	"fmt"

	"github.com/vango-dev/quill/internal/errors"
)

// Node is an element or text node of the in-memory tree.
type Node struct {
	ID       int
	Tag      string // Empty for text nodes
	Text     string // Text content, or element text set by SetElementText
	Props    map[string]any
	Parent   *Node
	Children []*Node
}

// IsText reports whether n is a text node.
func (n *Node) IsText() bool {
	return n.Tag == ""
}

// index returns n's position in its parent's children, or -1.
func (n *Node) index() int {
	if n.Parent == nil {
		return -1
	}
	for i, c := range n.Parent.Children {
		if c == n {
			return i
		}
	}
	return -1
}

func (n *Node) detach() {
	i := n.index()
	if i < 0 {
		n.Parent = nil
		return
	}
	p := n.Parent
	p.Children = append(p.Children[:i], p.Children[i+1:]...)
	n.Parent = nil
}

// Tree is an in-memory host. The zero value is not usable; call New.
type Tree struct {
	nextID int
	nodes  map[int]*Node
	log    Log
}

// New creates an empty Tree.
func New() *Tree {
	return &Tree{nodes: make(map[int]*Node)}
}

func (t *Tree) newNode(tag, text string) *Node {
	t.nextID++
	n := &Node{ID: t.nextID, Tag: tag, Text: text}
	t.nodes[n.ID] = n
	return n
}

// Container creates a detached element to mount into. It is not logged.
func (t *Tree) Container(tag string) *Node {
	return t.newNode(tag, "")
}

// Lookup returns the node with the given ID.
func (t *Tree) Lookup(id int) (*Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// Log returns the ops recorded since the last Reset.
func (t *Tree) Log() Log {
	return t.log
}

// Count returns the number of recorded ops of kind k.
func (t *Tree) Count(k OpKind) int {
	return t.log.Count(k)
}

// Reset clears the op log. Nodes are kept.
func (t *Tree) Reset() {
	t.log = nil
}

func (t *Tree) record(op Op) {
	t.log = append(t.log, op)
}

// node converts a handle to a *Node, panicking on foreign handles.
func (t *Tree) node(h any) *Node {
	n, ok := h.(*Node)
	if !ok || n == nil || t.nodes[n.ID] != n {
		panic(errors.New("Q302").WithDetail(fmt.Sprintf("%T %v", h, h)))
	}
	return n
}

func id(n *Node) int {
	if n == nil {
		return 0
	}
	return n.ID
}

// CreateElement creates a detached element.
func (t *Tree) CreateElement(tag string) any {
	n := t.newNode(tag, "")
	t.record(Op{Kind: OpCreateElement, Node: n.ID, Tag: tag})
	return n
}

// CreateText creates a detached text node.
func (t *Tree) CreateText(text string) any {
	n := t.newNode("", text)
	t.record(Op{Kind: OpCreateText, Node: n.ID, Text: text})
	return n
}

// Insert places h in parent before anchor, or at the end when anchor is
// nil. Inserting an attached node moves it.
func (t *Tree) Insert(h, parent, anchor any) {
	n := t.node(h)
	p := t.node(parent)
	var a *Node
	if anchor != nil {
		a = t.node(anchor)
		if a.Parent != p {
			panic(errors.New("Q302").WithDetailf("anchor #%d is not a child of #%d", a.ID, p.ID))
		}
	}

	kind := OpInsert
	if n.Parent != nil {
		kind = OpMove
		n.detach()
	}

	if a == nil {
		p.Children = append(p.Children, n)
	} else {
		i := a.index()
		p.Children = append(p.Children, nil)
		copy(p.Children[i+1:], p.Children[i:])
		p.Children[i] = n
	}
	n.Parent = p

	t.record(Op{Kind: kind, Node: n.ID, Parent: p.ID, Anchor: id(a)})
}

// Remove detaches h from its parent.
func (t *Tree) Remove(h any) {
	n := t.node(h)
	n.detach()
	t.record(Op{Kind: OpRemove, Node: n.ID})
}

// SetElementText replaces an element's content with text.
func (t *Tree) SetElementText(h any, text string) {
	n := t.node(h)
	for _, c := range n.Children {
		c.Parent = nil
	}
	n.Children = nil
	n.Text = text
	t.record(Op{Kind: OpSetElementText, Node: n.ID, Text: text})
}

// SetText updates a text node's content.
func (t *Tree) SetText(h any, text string) {
	n := t.node(h)
	n.Text = text
	t.record(Op{Kind: OpSetText, Node: n.ID, Text: text})
}

// NextSibling returns the node after h in its parent, or nil. It is not
// logged.
func (t *Tree) NextSibling(h any) any {
	n := t.node(h)
	i := n.index()
	if i < 0 || i+1 >= len(n.Parent.Children) {
		return nil
	}
	return n.Parent.Children[i+1]
}

// PatchProp sets or, when next is nil, removes a property.
func (t *Tree) PatchProp(h any, key string, prev, next any) {
	n := t.node(h)
	if next == nil {
		delete(n.Props, key)
	} else {
		if n.Props == nil {
			n.Props = make(map[string]any)
		}
		n.Props[key] = next
	}
	t.record(Op{Kind: OpPatchProp, Node: n.ID, Key: key, Prev: prev, Next: next})
}
