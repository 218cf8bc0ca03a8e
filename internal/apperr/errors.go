// Package apperr defines the error taxonomy shared by the services and the
// HTTP boundary. Services return *Error values; handlers map them to a status
// and a generic message and log the wrapped cause.
package apperr

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an error for the boundary layer.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindConflict
	KindAuthentication
	KindNotFound
	KindInfrastructure
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuthentication:
		return "authentication"
	case KindNotFound:
		return "not_found"
	case KindInfrastructure:
		return "infrastructure"
	default:
		return "unknown"
	}
}

// Code refines a Kind. Authentication failures use it to tell a bad
// credential apart from a store failure during token lookup.
type Code string

const (
	CodeBadCredentials Code = "bad_credentials"
	CodeTokenMissing   Code = "token_missing"
	CodeTokenInvalid   Code = "token_invalid"
	CodeLookupFailed   Code = "lookup_failed"
	CodeTimeout        Code = "timeout"
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the typed error carried from services to handlers.
type Error struct {
	Kind    Kind
	Code    Code
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Code != "" {
		b.WriteString("(" + string(e.Code) + ")")
	}
	if e.Message != "" {
		b.WriteString(": " + e.Message)
	}
	for _, f := range e.Fields {
		fmt.Fprintf(&b, "; %s %s", f.Field, f.Message)
	}
	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Kind, and on Code when the target sets one, so the package
// sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Code == "" || t.Code == e.Code
}

var (
	ErrValidation     = &Error{Kind: KindValidation}
	ErrConflict       = &Error{Kind: KindConflict}
	ErrAuthentication = &Error{Kind: KindAuthentication}
	ErrNotFound       = &Error{Kind: KindNotFound}
	ErrInfrastructure = &Error{Kind: KindInfrastructure}
)

// Validation builds a validation error from the rejected fields.
func Validation(fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Message: "invalid input", Fields: fields}
}

func Conflict(msg string, err error) *Error {
	return &Error{Kind: KindConflict, Message: msg, Err: err}
}

func Authentication(code Code, err error) *Error {
	return &Error{Kind: KindAuthentication, Code: code, Err: err}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// Infrastructure wraps a store or runtime failure. Deadline and
// cancellation errors get CodeTimeout so callers can treat them as
// retryable.
func Infrastructure(err error) *Error {
	e := &Error{Kind: KindInfrastructure, Err: err}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		e.Code = CodeTimeout
	}
	return e
}

// KindOf reports the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// CodeOf reports the Code of the first *Error in err's chain.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// FieldsOf returns the field errors of a validation error, if any.
func FieldsOf(err error) []FieldError {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}
