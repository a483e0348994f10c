// Package template parses template strings into a tree of Root, Element,
// Text and Interpolation nodes with source spans.
//
// The grammar is a small HTML subset:
//
//	<div class="card">Hello {{ name }}!</div>
//
// Elements may carry attributes and may be self-closing. Void elements
// (br, img, input, ...) never have children. Interpolations are delimited
// by {{ and }}; their content is kept as a SimpleExpression and is not
// evaluated.
//
// Compound merges adjacent Text and Interpolation siblings into a single
// CompoundExpression, the grouping a code generator concatenates into one
// text child.
//
// The renderer never parses template syntax. This package exists for
// tooling (see the quill parse command).
package template
