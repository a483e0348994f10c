package template

import (
	"strings"

	"github.com/vango-dev/quill/internal/errors"
	"github.com/vango-dev/quill/pkg/vnode"
)

const whitespace = " \t\r\n\f"

// Parse parses src. Syntax errors are *errors.QuillError with code Q401
// and the location of the offending construct.
func Parse(src string) (*Root, error) {
	return ParseFile("template", src)
}

// ParseFile is Parse with a file name for error locations.
func ParseFile(name, src string) (*Root, error) {
	p := &parser{name: name, src: src, pos: Position{Line: 1, Column: 1}}
	start := p.pos

	children, err := p.parseChildren()
	if err != nil {
		return nil, err
	}
	if rest := p.rest(); rest != "" {
		return nil, p.errorf(p.pos, "unexpected end tag %s", cutTag(rest))
	}

	return &Root{Type: NodeRoot, Children: children, Loc: p.loc(start)}, nil
}

type parser struct {
	name string
	src  string
	pos  Position
}

func (p *parser) rest() string {
	return p.src[p.pos.Offset:]
}

func (p *parser) advance(n int) {
	p.pos = p.pos.advance(p.rest()[:n])
}

func (p *parser) advanceSpaces() {
	rest := p.rest()
	p.advance(len(rest) - len(strings.TrimLeft(rest, whitespace)))
}

func (p *parser) loc(start Position) Loc {
	return Loc{Start: start, End: p.pos, Source: p.src[start.Offset:p.pos.Offset]}
}

func (p *parser) errorf(at Position, format string, args ...any) *errors.QuillError {
	return errors.New("Q401").
		WithLocation(p.name, at.Line, at.Column).
		WithDetailf(format, args...)
}

// parseChildren parses nodes up to the end of input or the next end tag.
func (p *parser) parseChildren() ([]Node, error) {
	var nodes []Node
	for {
		s := p.rest()
		if s == "" || strings.HasPrefix(s, "</") {
			break
		}

		var (
			node Node
			err  error
		)
		switch {
		case isStartTag(s):
			node, err = p.parseElement()
		case strings.HasPrefix(s, "{{"):
			node, err = p.parseInterpolation()
		default:
			node = p.parseText()
		}
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return condenseWhitespace(nodes), nil
}

func (p *parser) parseElement() (*Element, error) {
	start := p.pos
	el, err := p.parseStartTag()
	if err != nil {
		return nil, err
	}
	if el.SelfClosing || vnode.IsVoidElement(el.Tag) {
		el.Loc = p.loc(start)
		return el, nil
	}

	children, err := p.parseChildren()
	if err != nil {
		return nil, err
	}
	el.Children = children

	if !strings.HasPrefix(p.rest(), "</") {
		return nil, p.errorf(start, "element <%s> is missing its end tag", el.Tag)
	}
	if err := p.parseEndTag(el.Tag); err != nil {
		return nil, err
	}

	el.Loc = p.loc(start)
	return el, nil
}

func (p *parser) parseStartTag() (*Element, error) {
	start := p.pos
	p.advance(1)
	el := &Element{Type: NodeElement, Tag: p.readTagName()}

	for {
		p.advanceSpaces()
		s := p.rest()
		switch {
		case s == "":
			return nil, p.errorf(start, "unterminated start tag <%s>", el.Tag)
		case strings.HasPrefix(s, "/>"):
			p.advance(2)
			el.SelfClosing = true
			return el, nil
		case s[0] == '>':
			p.advance(1)
			return el, nil
		case s[0] == '/':
			// A slash not followed by '>' is ignored, as browsers do.
			p.advance(1)
			continue
		}

		attr, err := p.parseAttribute(el.Tag)
		if err != nil {
			return nil, err
		}
		el.Attrs = append(el.Attrs, attr)
	}
}

func (p *parser) parseAttribute(tag string) (*Attribute, error) {
	start := p.pos
	s := p.rest()
	n := strings.IndexAny(s, whitespace+"=/>")
	if n < 0 {
		n = len(s)
	}
	if n == 0 {
		return nil, p.errorf(start, "unexpected %q in <%s>", s[0], tag)
	}

	attr := &Attribute{Type: NodeAttribute, Name: s[:n]}
	p.advance(n)

	p.advanceSpaces()
	if !strings.HasPrefix(p.rest(), "=") {
		attr.Loc = p.loc(start)
		return attr, nil
	}
	p.advance(1)
	p.advanceSpaces()

	s = p.rest()
	switch {
	case s == "":
		return nil, p.errorf(start, "attribute %s in <%s> has no value", attr.Name, tag)
	case s[0] == '"' || s[0] == '\'':
		end := strings.IndexByte(s[1:], s[0])
		if end < 0 {
			return nil, p.errorf(start, "unterminated value for attribute %s in <%s>", attr.Name, tag)
		}
		attr.Value = s[1 : end+1]
		p.advance(end + 2)
	default:
		end := strings.IndexAny(s, whitespace+">")
		if end < 0 {
			end = len(s)
		}
		attr.Value = s[:end]
		p.advance(end)
	}

	attr.Loc = p.loc(start)
	return attr, nil
}

func (p *parser) parseEndTag(tag string) error {
	start := p.pos
	p.advance(2)
	name := p.readTagName()
	if name == "" {
		return p.errorf(start, "malformed end tag for <%s>", tag)
	}
	if !strings.EqualFold(name, tag) {
		return p.errorf(start, "end tag </%s> does not match <%s>", name, tag)
	}
	p.advanceSpaces()
	if !strings.HasPrefix(p.rest(), ">") {
		return p.errorf(start, "unterminated end tag </%s>", name)
	}
	p.advance(1)
	return nil
}

func (p *parser) readTagName() string {
	s := p.rest()
	n := strings.IndexAny(s, whitespace+"/>")
	if n < 0 {
		n = len(s)
	}
	p.advance(n)
	return s[:n]
}

func (p *parser) parseInterpolation() (*Interpolation, error) {
	start := p.pos
	closeIndex := strings.Index(p.rest()[2:], "}}")
	if closeIndex < 0 {
		return nil, p.errorf(start, "unterminated interpolation, expected }}")
	}
	p.advance(2)

	raw := p.rest()[:closeIndex]
	content := strings.Trim(raw, whitespace)
	lead := len(raw) - len(strings.TrimLeft(raw, whitespace))
	innerStart := p.pos.advance(raw[:lead])
	innerEnd := innerStart.advance(content)

	p.advance(closeIndex)
	p.advance(2)

	return &Interpolation{
		Type: NodeInterpolation,
		Content: &SimpleExpression{
			Type:    NodeSimpleExpression,
			Content: content,
			Loc:     Loc{Start: innerStart, End: innerEnd, Source: content},
		},
		Loc: p.loc(start),
	}, nil
}

// parseText consumes text up to the next tag, end tag or interpolation.
// A '<' that starts neither is literal text.
func (p *parser) parseText() *Text {
	start := p.pos
	s := p.rest()
	end := len(s)
	for i := 1; i < len(s); i++ {
		if strings.HasPrefix(s[i:], "{{") || strings.HasPrefix(s[i:], "</") || isStartTag(s[i:]) {
			end = i
			break
		}
	}
	p.advance(end)
	return &Text{Type: NodeText, Content: s[:end], Loc: p.loc(start)}
}

func isStartTag(s string) bool {
	return len(s) > 1 && s[0] == '<' && isLetter(s[1])
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// cutTag returns the tag at the start of s, for error messages.
func cutTag(s string) string {
	if i := strings.IndexByte(s, '>'); i >= 0 {
		return s[:i+1]
	}
	return s
}

// condenseWhitespace drops whitespace-only text that is first, last,
// next to an element or spans a line break, collapses the remaining
// whitespace-only text to a single space, and condenses whitespace runs
// inside other text.
func condenseWhitespace(nodes []Node) []Node {
	out := make([]Node, 0, len(nodes))
	for i, n := range nodes {
		t, ok := n.(*Text)
		if !ok {
			out = append(out, n)
			continue
		}
		if strings.Trim(t.Content, whitespace) != "" {
			t.Content = condense(t.Content)
			out = append(out, t)
			continue
		}

		first, last := i == 0, i == len(nodes)-1
		if first || last || isElement(nodes[i-1]) || isElement(nodes[i+1]) || strings.ContainsAny(t.Content, "\r\n") {
			continue
		}
		t.Content = " "
		out = append(out, t)
	}
	return out
}

func isElement(n Node) bool {
	_, ok := n.(*Element)
	return ok
}

func condense(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(whitespace, s[i]) >= 0 {
			if !space {
				b.WriteByte(' ')
			}
			space = true
			continue
		}
		space = false
		b.WriteByte(s[i])
	}
	return b.String()
}
