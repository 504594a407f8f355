// Package apperr defines the error kinds shared by every service.
//
// Services return either one of the sentinels or an *Error wrapping one, so callers
// classify with errors.Is and transports map kinds to status codes in one place.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrConflict        = errors.New("conflict")
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrInternal        = errors.New("internal error")
)

// Error carries a user-facing message and optional detail lines.
type Error struct {
	Kind    error
	Message string
	Details []string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}

	return e.Message
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	if e.cause != nil {
		return []error{e.Kind, e.cause}
	}

	return []error{e.Kind}
}

// WithDetails returns a copy of e with the given detail lines appended.
func (e *Error) WithDetails(details ...string) *Error {
	out := *e
	out.Details = append(append([]string(nil), e.Details...), details...)

	return &out
}

func newError(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) *Error {
	return newError(ErrValidation, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return newError(ErrConflict, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return newError(ErrNotFound, format, args...)
}

func Forbidden(format string, args ...any) *Error {
	return newError(ErrForbidden, format, args...)
}

func Unauthenticated(format string, args ...any) *Error {
	return newError(ErrUnauthenticated, format, args...)
}

// Internal wraps a store or infrastructure failure. The message shown to callers stays generic.
func Internal(op string, err error) *Error {
	return &Error{Kind: ErrInternal, Message: op, cause: err}
}

// Kind returns the sentinel that classifies err, defaulting to ErrInternal.
func Kind(err error) error {
	for _, k := range []error{ErrValidation, ErrConflict, ErrNotFound, ErrForbidden, ErrUnauthenticated} {
		if errors.Is(err, k) {
			return k
		}
	}

	return ErrInternal
}

// Message returns the user-facing message of err and its detail lines.
// Internal errors never expose their cause.
func Message(err error) (string, []string) {
	var e *Error
	if !errors.As(err, &e) {
		if Kind(err) == ErrInternal {
			return ErrInternal.Error(), nil
		}

		return err.Error(), nil
	}

	if e.Kind == ErrInternal {
		return ErrInternal.Error(), nil
	}

	return e.Message, e.Details
}
