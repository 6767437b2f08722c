package errors

import (
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryConfig   Category = "config"
	CategoryStartup  Category = "startup"
	CategoryTemplate Category = "template"
	CategoryRender   Category = "render"
	CategoryDeploy   Category = "deploy"
	CategoryCLI      Category = "cli"
)

// LumenError is a structured error with a stable code, a fix suggestion,
// and an optional wrapped cause.
type LumenError struct {
	// Code is a unique error identifier (e.g., "E101").
	Code string

	// Category is the error type (config, startup, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *LumenError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *LumenError) Unwrap() error {
	return e.Wrapped
}

// WithDetail adds a longer explanation to the error.
func (e *LumenError) WithDetail(detail string) *LumenError {
	e.Detail = detail
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *LumenError) WithSuggestion(s string) *LumenError {
	e.Suggestion = s
	return e
}

// Wrap attaches an underlying cause to the error.
func (e *LumenError) Wrap(err error) *LumenError {
	e.Wrapped = err
	return e
}

// New creates an error from a registered code.
// Unknown codes produce a generic error so callers never get nil.
func New(code string) *LumenError {
	tmpl, ok := registry[code]
	if !ok {
		return &LumenError{
			Code:     code,
			Category: CategoryStartup,
			Message:  "unknown error",
		}
	}
	return &LumenError{
		Code:     code,
		Category: tmpl.Category,
		Message:  tmpl.Message,
		Detail:   tmpl.Detail,
	}
}

// Newf creates an ad hoc error with a formatted message.
func Newf(category Category, format string, args ...any) *LumenError {
	return &LumenError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Format renders the error for terminal output, including detail and
// suggestion lines when present.
func Format(err error) string {
	le, ok := err.(*LumenError)
	if !ok {
		return err.Error()
	}

	out := le.Error()
	if le.Detail != "" {
		out += "\n  " + le.Detail
	}
	if le.Wrapped != nil {
		out += "\n  cause: " + le.Wrapped.Error()
	}
	if le.Suggestion != "" {
		out += "\n  hint: " + le.Suggestion
	}
	return out
}
