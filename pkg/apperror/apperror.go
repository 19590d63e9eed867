// Package apperror defines the error taxonomy shared by the RBAC engine's
// services: NotFound, Conflict, InvalidInput, Forbidden and Internal.
//
// Services detect validation failures as early as possible and return them
// as one of these kinds; store-level constraint violations that slip past a
// pre-check under a race are mapped to the same kinds, so callers only ever
// branch on Kind.
package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the caller.
type Kind int

const (
	// KindInternal is a store or infrastructure failure.
	KindInternal Kind = iota
	// KindNotFound means a referenced role, permission, workflow or step
	// does not exist.
	KindNotFound
	// KindConflict is a uniqueness violation on a name, slug or identifier.
	KindConflict
	// KindInvalidInput is a malformed permission name or an unresolvable
	// permission id list.
	KindInvalidInput
	// KindForbidden is an attempted mutation of a system-protected role, or
	// a guard denial.
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInvalidInput:
		return "invalid_input"
	case KindForbidden:
		return "forbidden"
	default:
		return "internal"
	}
}

// Error is a kinded error with an optional wrapped cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind to an underlying error.
func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// NotFound creates a NotFound error.
func NotFound(format string, args ...interface{}) *Error {
	return New(KindNotFound, format, args...)
}

// Conflict creates a Conflict error.
func Conflict(format string, args ...interface{}) *Error {
	return New(KindConflict, format, args...)
}

// InvalidInput creates an InvalidInput error.
func InvalidInput(format string, args ...interface{}) *Error {
	return New(KindInvalidInput, format, args...)
}

// Forbidden creates a Forbidden error.
func Forbidden(format string, args ...interface{}) *Error {
	return New(KindForbidden, format, args...)
}

// Internal wraps a store failure.
func Internal(err error, format string, args ...interface{}) *Error {
	return Wrap(KindInternal, err, format, args...)
}

// KindOf returns the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsNotFound reports whether err is a NotFound error.
func IsNotFound(err error) bool { return is(err, KindNotFound) }

// IsConflict reports whether err is a Conflict error.
func IsConflict(err error) bool { return is(err, KindConflict) }

// IsInvalidInput reports whether err is an InvalidInput error.
func IsInvalidInput(err error) bool { return is(err, KindInvalidInput) }

// IsForbidden reports whether err is a Forbidden error.
func IsForbidden(err error) bool { return is(err, KindForbidden) }

func is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
