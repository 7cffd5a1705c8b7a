package entities

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingToken is returned when a login response carries no token
var ErrMissingToken = &AuthError{Reason: "missing token"}

// AuthError signals that the authentication endpoint broke its contract
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return e.Reason
}

// APIError is a non-success HTTP status returned by the server
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// NotFound reports whether the server answered 404
func (e *APIError) NotFound() bool {
	return e.StatusCode == 404
}

// Unauthorized reports whether the server rejected the credentials or token
func (e *APIError) Unauthorized() bool {
	return e.StatusCode == 401
}

// TransportError means the request never produced an HTTP response
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// FieldError describes one rejected input field
type FieldError struct {
	Field   string
	Message string
}

// ValidationError is raised before any network call when input is incomplete
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid input"
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "; ")
}

// NewValidationError builds a single-field validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// IsNotFound reports whether err is a 404 from the server or a local not-found sentinel
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.NotFound()
	}
	return errors.Is(err, ErrTaskNotFound) || errors.Is(err, ErrColumnNotFound) || errors.Is(err, ErrBoardNotFound)
}

// Message flattens err into the single line shown to the user. Server and
// validation errors keep only their own message, without wrapping context.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Error()
	}
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return valErr.Error()
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
