package errors

import (
	"fmt"
)

// Category represents the subsystem that reported an error.
type Category string

const (
	CategoryReactivity Category = "reactivity"
	CategoryScheduler  Category = "scheduler"
	CategoryRenderer   Category = "renderer"
	CategoryTemplate   Category = "template"
	CategoryConfig     Category = "config"
	CategoryCLI        Category = "cli"
)

// Location represents a position in a source file (templates, config files).
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// QuillError is a structured error with a stable code and optional location.
type QuillError struct {
	// Code is a unique error identifier (e.g., "Q101").
	Code string

	// Category is the reporting subsystem.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer, instance-specific explanation.
	Detail string

	// Location is the source location, if the error is tied to one.
	Location *Location

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *QuillError) Error() string {
	msg := e.Message
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *QuillError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a QuillError with the same code.
// Errors without a code never match by code.
func (e *QuillError) Is(target error) bool {
	t, ok := target.(*QuillError)
	if !ok {
		return false
	}
	return e.Code != "" && e.Code == t.Code
}

// WithLocation adds a source location to the error.
func (e *QuillError) WithLocation(file string, line, column int) *QuillError {
	e.Location = &Location{File: file, Line: line, Column: column}
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *QuillError) WithSuggestion(s string) *QuillError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *QuillError) WithDetail(d string) *QuillError {
	e.Detail = d
	return e
}

// WithDetailf adds a formatted detail to the error.
func (e *QuillError) WithDetailf(format string, args ...any) *QuillError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// Wrap wraps another error.
func (e *QuillError) Wrap(err error) *QuillError {
	e.Wrapped = err
	return e
}

// New creates a QuillError from a registered error code.
func New(code string) *QuillError {
	template, ok := registry[code]
	if !ok {
		return &QuillError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &QuillError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
	}
}

// Newf creates a new QuillError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *QuillError {
	return &QuillError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a QuillError.
func FromError(err error, code string) *QuillError {
	if err == nil {
		return nil
	}
	if qe, ok := err.(*QuillError); ok {
		return qe
	}
	return New(code).Wrap(err)
}

// FromPanic converts a recovered panic value into a QuillError with the given code.
// Error values are wrapped so errors.Is/As still see them.
func FromPanic(code string, recovered any) *QuillError {
	qe := New(code)
	switch v := recovered.(type) {
	case *QuillError:
		qe.Detail = v.Error()
		qe.Wrapped = v
	case error:
		qe.Detail = v.Error()
		qe.Wrapped = v
	default:
		qe.Detail = fmt.Sprint(v)
	}
	return qe
}
