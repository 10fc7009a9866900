// Package apperror defines the closed set of failure kinds the API reports and
// the HTTP status each one maps to.
package apperror

import (
	"errors"
	"net/http"
)

type Kind int

const (
	Internal Kind = iota
	Validation
	BadRequest
	Unauthenticated
	MalformedCredential
	InvalidCredential
	InvalidOrExpiredToken
	NotFound
	Conflict
)

var statusByKind = map[Kind]int{
	Internal:              http.StatusInternalServerError,
	Validation:            http.StatusUnprocessableEntity,
	BadRequest:            http.StatusBadRequest,
	Unauthenticated:       http.StatusUnauthorized,
	MalformedCredential:   http.StatusUnauthorized,
	InvalidCredential:     http.StatusUnauthorized,
	InvalidOrExpiredToken: http.StatusUnauthorized,
	NotFound:              http.StatusNotFound,
	Conflict:              http.StatusConflict,
}

var kindNames = map[Kind]string{
	Internal:              "internal",
	Validation:            "validation",
	BadRequest:            "bad_request",
	Unauthenticated:       "unauthenticated",
	MalformedCredential:   "malformed_credential",
	InvalidCredential:     "invalid_credential",
	InvalidOrExpiredToken: "invalid_or_expired_token",
	NotFound:              "not_found",
	Conflict:              "conflict",
}

// Status returns the HTTP status code for k.
func (k Kind) Status() int {
	if s, ok := statusByKind[k]; ok {
		return s
	}
	return http.StatusInternalServerError
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a typed failure. Message is safe to show to API callers.
type Error struct {
	Kind    Kind
	Message string
	Details []FieldError
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches another *Error with the same kind and message, so wrapped copies
// of a sentinel still compare equal.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap returns a copy of e carrying cause.
func (e *Error) Wrap(cause error) *Error {
	c := *e
	c.cause = cause
	return &c
}

// WithDetails returns a copy of e carrying per-field details.
func (e *Error) WithDetails(details []FieldError) *Error {
	c := *e
	c.Details = details
	return &c
}

// InternalErr wraps an unexpected error as Internal.
func InternalErr(cause error) *Error {
	return &Error{Kind: Internal, Message: "Erro interno do servidor", cause: cause}
}

// From extracts the *Error in err's chain; anything else becomes Internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return InternalErr(err)
}

// KindOf is shorthand for From(err).Kind.
func KindOf(err error) Kind {
	if err == nil {
		return Internal
	}
	return From(err).Kind
}
