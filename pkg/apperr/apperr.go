// Package apperr defines the application error taxonomy shared by services
// and HTTP handlers. Services return *apperr.Error values; the response
// package maps them onto status codes and JSON bodies.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for HTTP mapping.
type Kind int

const (
	// Validation: client input malformed; may carry several messages.
	Validation Kind = iota + 1
	// Unauthenticated: missing/invalid/expired token or bad credentials.
	Unauthenticated
	// Forbidden: authenticated but wrong role, or a disallowed operation.
	Forbidden
	// Conflict: uniqueness or account-cap violation.
	Conflict
	// NotFound: a referenced id is absent or malformed.
	NotFound
	// Internal: unexpected failure; details stay server-side.
	Internal
)

// Error is the concrete error type carried across service boundaries.
type Error struct {
	Kind   Kind
	Detail string   // user-facing message
	Errors []string // per-field messages, Validation only
	Err    error    // wrapped cause, not exposed to clients
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Detail, e.Err)
	}
	return e.Detail
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a plain taxonomy error.
func New(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

// Wrap attaches a cause to a taxonomy error.
func Wrap(kind Kind, detail string, err error) *Error {
	return &Error{Kind: kind, Detail: detail, Err: err}
}

// Invalid builds a Validation error carrying every collected message.
func Invalid(messages ...string) *Error {
	return &Error{Kind: Validation, Detail: "Validation failed", Errors: messages}
}

// KindOf extracts the Kind from any error chain. Unknown errors are Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Status maps a Kind to its HTTP status code. Conflict maps to 400 rather
// than 409 to match the responses clients already depend on.
func Status(kind Kind) int {
	switch kind {
	case Validation, Conflict:
		return http.StatusBadRequest
	case Unauthenticated:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
