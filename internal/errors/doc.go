// Package errors provides structured, coded diagnostics for quill.
//
// Every diagnostic the reactive runtime, the scheduler, the renderer and the
// template parser can report has a registered code (e.g., "Q101") that maps to:
//   - A category (reactivity, scheduler, renderer, template, config, cli)
//   - A short message describing the problem
//   - A longer explanation
//
// # Usage
//
//	err := errors.New("Q401").
//	    WithLocation("counter.tpl", 3, 7).
//	    WithDetail("interpolation is never closed")
//
//	fmt.Println(err.FormatCompact())
//	// counter.tpl:3:7: Q401: Template syntax error
//
// Codes are stable and can be matched with errors.Is against a bare
// New(code) value:
//
//	if errors.Is(err, errors.New("Q202")) { ... }
package errors
