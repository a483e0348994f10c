package template

import (
	"fmt"
	"unicode/utf8"
)

// NodeType identifies a template node.
type NodeType uint8

const (
	NodeRoot NodeType = iota
	NodeElement
	NodeText
	NodeSimpleExpression
	NodeInterpolation
	NodeAttribute
	NodeCompoundExpression
)

var nodeTypeNames = [...]string{
	NodeRoot:               "root",
	NodeElement:            "element",
	NodeText:               "text",
	NodeSimpleExpression:   "simple-expression",
	NodeInterpolation:      "interpolation",
	NodeAttribute:          "attribute",
	NodeCompoundExpression: "compound-expression",
}

// String returns the string representation of the NodeType.
func (t NodeType) String() string {
	if int(t) < len(nodeTypeNames) {
		return nodeTypeNames[t]
	}
	return fmt.Sprintf("NodeType(%d)", t)
}

// MarshalText encodes the type by name.
func (t NodeType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Position is a point in the source. Line and Column are 1-based; Column
// counts runes. Offset is a byte offset.
type Position struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
	Offset int `json:"offset" yaml:"offset"`
}

// advance returns the position after s.
func (p Position) advance(s string) Position {
	p.Offset += len(s)
	lines, lastNL := 0, -1
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines++
			lastNL = i
		}
	}
	if lines == 0 {
		p.Column += utf8.RuneCountInString(s)
		return p
	}
	p.Line += lines
	p.Column = utf8.RuneCountInString(s[lastNL+1:]) + 1
	return p
}

// Loc is a source span. Source is the raw text between Start and End.
type Loc struct {
	Start  Position `json:"start" yaml:"start"`
	End    Position `json:"end" yaml:"end"`
	Source string   `json:"source" yaml:"source"`
}

// Node is any template node.
type Node interface {
	NodeType() NodeType
	Location() Loc
}

// Root is the top of a parsed template.
type Root struct {
	Type     NodeType `json:"type" yaml:"type"`
	Children []Node   `json:"children" yaml:"children"`
	Loc      Loc      `json:"loc" yaml:"loc"`
}

// Element is a tag with attributes and children.
type Element struct {
	Type        NodeType     `json:"type" yaml:"type"`
	Tag         string       `json:"tag" yaml:"tag"`
	SelfClosing bool         `json:"selfClosing,omitempty" yaml:"selfClosing,omitempty"`
	Attrs       []*Attribute `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	Children    []Node       `json:"children,omitempty" yaml:"children,omitempty"`
	Loc         Loc          `json:"loc" yaml:"loc"`
}

// Attribute is name or name="value" inside a start tag.
type Attribute struct {
	Type  NodeType `json:"type" yaml:"type"`
	Name  string   `json:"name" yaml:"name"`
	Value string   `json:"value,omitempty" yaml:"value,omitempty"`
	Loc   Loc      `json:"loc" yaml:"loc"`
}

// Text is literal text. Content has whitespace runs condensed to a single
// space; Loc.Source keeps the raw text.
type Text struct {
	Type    NodeType `json:"type" yaml:"type"`
	Content string   `json:"content" yaml:"content"`
	Loc     Loc      `json:"loc" yaml:"loc"`
}

// SimpleExpression is the trimmed content of an interpolation.
type SimpleExpression struct {
	Type     NodeType `json:"type" yaml:"type"`
	Content  string   `json:"content" yaml:"content"`
	IsStatic bool     `json:"isStatic" yaml:"isStatic"`
	Loc      Loc      `json:"loc" yaml:"loc"`
}

// Interpolation is {{ expression }}.
type Interpolation struct {
	Type    NodeType          `json:"type" yaml:"type"`
	Content *SimpleExpression `json:"content" yaml:"content"`
	Loc     Loc               `json:"loc" yaml:"loc"`
}

// CompoundExpression groups adjacent Text and Interpolation nodes.
type CompoundExpression struct {
	Type     NodeType `json:"type" yaml:"type"`
	Children []Node   `json:"children" yaml:"children"`
	Loc      Loc      `json:"loc" yaml:"loc"`
}

func (n *Root) NodeType() NodeType               { return NodeRoot }
func (n *Element) NodeType() NodeType            { return NodeElement }
func (n *Attribute) NodeType() NodeType          { return NodeAttribute }
func (n *Text) NodeType() NodeType               { return NodeText }
func (n *SimpleExpression) NodeType() NodeType   { return NodeSimpleExpression }
func (n *Interpolation) NodeType() NodeType      { return NodeInterpolation }
func (n *CompoundExpression) NodeType() NodeType { return NodeCompoundExpression }

func (n *Root) Location() Loc               { return n.Loc }
func (n *Element) Location() Loc            { return n.Loc }
func (n *Attribute) Location() Loc          { return n.Loc }
func (n *Text) Location() Loc               { return n.Loc }
func (n *SimpleExpression) Location() Loc   { return n.Loc }
func (n *Interpolation) Location() Loc      { return n.Loc }
func (n *CompoundExpression) Location() Loc { return n.Loc }

// Walk calls fn for n and its descendants in document order. Returning
// false from fn skips n's children.
func Walk(n Node, fn func(Node) bool) {
	if !fn(n) {
		return
	}
	var children []Node
	switch v := n.(type) {
	case *Root:
		children = v.Children
	case *Element:
		for _, a := range v.Attrs {
			Walk(a, fn)
		}
		children = v.Children
	case *Interpolation:
		if v.Content != nil {
			Walk(v.Content, fn)
		}
	case *CompoundExpression:
		children = v.Children
	}
	for _, c := range children {
		Walk(c, fn)
	}
}
