package template

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/quill/internal/errors"
)

func TestParseElementWithInterpolation(t *testing.T) {
	root, err := Parse("<div>hi {{ name }}</div>")
	require.NoError(t, err)

	assert.Equal(t, Loc{Start: Position{1, 1, 0}, End: Position{1, 25, 24}, Source: "<div>hi {{ name }}</div>"}, root.Loc)
	require.Len(t, root.Children, 1)

	div, ok := root.Children[0].(*Element)
	require.True(t, ok)
	assert.Equal(t, "div", div.Tag)
	assert.Equal(t, NodeElement, div.NodeType())
	assert.Equal(t, Position{1, 25, 24}, div.Loc.End)
	require.Len(t, div.Children, 2)

	text := div.Children[0].(*Text)
	assert.Equal(t, "hi ", text.Content)
	assert.Equal(t, Position{1, 6, 5}, text.Loc.Start)
	assert.Equal(t, Position{1, 9, 8}, text.Loc.End)

	interp := div.Children[1].(*Interpolation)
	assert.Equal(t, "{{ name }}", interp.Loc.Source)
	assert.Equal(t, Position{1, 9, 8}, interp.Loc.Start)
	assert.Equal(t, Position{1, 19, 18}, interp.Loc.End)
	assert.Equal(t, "name", interp.Content.Content)
	assert.False(t, interp.Content.IsStatic)
	assert.Equal(t, Position{1, 12, 11}, interp.Content.Loc.Start)
	assert.Equal(t, Position{1, 16, 15}, interp.Content.Loc.End)
}

func TestParseMultilinePositions(t *testing.T) {
	root, err := Parse("<p>\n  {{ a }}\n</p>")
	require.NoError(t, err)

	p := root.Children[0].(*Element)
	require.Len(t, p.Children, 1)

	interp := p.Children[0].(*Interpolation)
	assert.Equal(t, Position{2, 3, 6}, interp.Loc.Start)
	assert.Equal(t, Position{2, 10, 13}, interp.Loc.End)
	assert.Equal(t, Position{2, 6, 9}, interp.Content.Loc.Start)
	assert.Equal(t, Position{2, 7, 10}, interp.Content.Loc.End)
	assert.Equal(t, Position{3, 5, 18}, root.Loc.End)
}

func TestParseAttributes(t *testing.T) {
	root, err := Parse(`<input type="text" disabled><my-comp :a='1' />`)
	require.NoError(t, err)
	require.Len(t, root.Children, 2)

	input := root.Children[0].(*Element)
	assert.Equal(t, "input", input.Tag)
	assert.False(t, input.SelfClosing)
	assert.Empty(t, input.Children)
	require.Len(t, input.Attrs, 2)
	assert.Equal(t, "type", input.Attrs[0].Name)
	assert.Equal(t, "text", input.Attrs[0].Value)
	assert.Equal(t, `type="text"`, input.Attrs[0].Loc.Source)
	assert.Equal(t, Position{1, 8, 7}, input.Attrs[0].Loc.Start)
	assert.Equal(t, "disabled", input.Attrs[1].Name)
	assert.Empty(t, input.Attrs[1].Value)

	comp := root.Children[1].(*Element)
	assert.Equal(t, "my-comp", comp.Tag)
	assert.True(t, comp.SelfClosing)
	require.Len(t, comp.Attrs, 1)
	assert.Equal(t, ":a", comp.Attrs[0].Name)
	assert.Equal(t, "1", comp.Attrs[0].Value)
}

func TestParseWhitespace(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		types []NodeType
		texts []string
	}{
		{
			name:  "between elements",
			src:   "<b>x</b> <i>y</i>",
			types: []NodeType{NodeElement, NodeElement},
		},
		{
			name:  "between interpolations",
			src:   "{{ a }} {{ b }}",
			types: []NodeType{NodeInterpolation, NodeText, NodeInterpolation},
			texts: []string{" "},
		},
		{
			name:  "newline between interpolations",
			src:   "{{ a }}\n{{ b }}",
			types: []NodeType{NodeInterpolation, NodeInterpolation},
		},
		{
			name:  "runs condensed",
			src:   "  hello \n  world  ",
			types: []NodeType{NodeText},
			texts: []string{" hello world "},
		},
		{
			name:  "literal less-than",
			src:   "a < b <3",
			types: []NodeType{NodeText},
			texts: []string{"a < b <3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := Parse(tt.src)
			require.NoError(t, err)

			var types []NodeType
			var texts []string
			for _, c := range root.Children {
				types = append(types, c.NodeType())
				if txt, ok := c.(*Text); ok {
					texts = append(texts, txt.Content)
				}
			}
			assert.Equal(t, tt.types, types)
			assert.Equal(t, tt.texts, texts)
		})
	}
}

func TestParseNestedList(t *testing.T) {
	root, err := Parse("<ul>\n  <li>a</li>\n  <li>b</li>\n</ul>")
	require.NoError(t, err)

	ul := root.Children[0].(*Element)
	require.Len(t, ul.Children, 2)
	for i, want := range []string{"a", "b"} {
		li := ul.Children[i].(*Element)
		assert.Equal(t, "li", li.Tag)
		assert.Equal(t, want, li.Children[0].(*Text).Content)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		line   int
		column int
		detail string
	}{
		{"missing end tag", "<div>", 1, 1, "element <div> is missing its end tag"},
		{"unterminated interpolation", "{{ a", 1, 1, "unterminated interpolation"},
		{"unterminated start tag", "<p>\n  <span", 2, 3, "unterminated start tag <span>"},
		{"mismatched end tag", "<div></span>", 1, 6, "end tag </span> does not match <div>"},
		{"stray end tag", "</div>", 1, 1, "unexpected end tag </div>"},
		{"unterminated attribute", `<a href="x>`, 1, 4, "unterminated value for attribute href"},
		{"bad attribute", "<a =x>", 1, 4, "unexpected"},
		{"unterminated end tag", "<b></b", 1, 4, "unterminated end tag </b>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFile("card.tpl", tt.src)
			require.Error(t, err)

			var qe *errors.QuillError
			require.ErrorAs(t, err, &qe)
			assert.Equal(t, "Q401", qe.Code)
			require.NotNil(t, qe.Location)
			assert.Equal(t, "card.tpl", qe.Location.File)
			assert.Equal(t, tt.line, qe.Location.Line)
			assert.Equal(t, tt.column, qe.Location.Column)
			assert.Contains(t, qe.Detail, tt.detail)
		})
	}
}

func TestParseEmpty(t *testing.T) {
	root, err := Parse("")
	require.NoError(t, err)
	assert.Empty(t, root.Children)
	assert.Equal(t, NodeRoot, root.NodeType())
}

func TestWalk(t *testing.T) {
	root, err := Parse(`<p class="a">x {{ y }}<br></p>`)
	require.NoError(t, err)

	var types []NodeType
	Walk(root, func(n Node) bool {
		types = append(types, n.NodeType())
		return true
	})
	assert.Equal(t, []NodeType{
		NodeRoot, NodeElement, NodeAttribute, NodeText,
		NodeInterpolation, NodeSimpleExpression, NodeElement,
	}, types)

	count := 0
	Walk(root, func(n Node) bool {
		count++
		return n.NodeType() != NodeElement
	})
	assert.Equal(t, 2, count)
}

func TestMarshalJSON(t *testing.T) {
	root, err := Parse("<b>{{ x }}</b>")
	require.NoError(t, err)

	data, err := json.Marshal(root)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"root"`)
	assert.Contains(t, string(data), `"type":"element","tag":"b"`)
	assert.Contains(t, string(data), `"type":"simple-expression","content":"x"`)
}
