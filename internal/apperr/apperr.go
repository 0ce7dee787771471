// Package apperr defines the error taxonomy shared by all service operations.
//
// Core operations never panic across the package boundary; they return an
// *Error whose Kind tells the transport layer how to report it. The HTTP
// layer maps kinds onto status codes the same way the service layer maps
// validation and permission failures onto kinds.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error.
type Kind int

const (
	// Internal is an unexpected failure (storage, IO). The default.
	Internal Kind = iota

	// Validation covers invalid input: non-positive amounts, blank
	// required fields, length constraints.
	Validation

	// NotFound means a referenced trip/member/expense/settlement is absent.
	NotFound

	// Permission means the wrong actor attempted an operation, e.g. a
	// non-payer cancelling a settlement.
	Permission

	// StateConflict means the operation is invalid for the current state,
	// e.g. confirming an already-confirmed settlement.
	StateConflict

	// Integrity means derived data failed a correctness check, e.g. the
	// balance zero-sum invariant. Surfaced as a blocking error rather than
	// silently showing wrong numbers.
	Integrity
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case NotFound:
		return "not_found"
	case Permission:
		return "permission"
	case StateConflict:
		return "state_conflict"
	case Integrity:
		return "integrity"
	default:
		return "internal"
	}
}

// Error is a classified error. It wraps an optional cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// E creates a classified error with a formatted message.
func E(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap classifies an underlying error.
func Wrap(kind Kind, err error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the kind of err, or Internal when err carries no *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
