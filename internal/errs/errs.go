// Package errs defines the error kinds the pipeline distinguishes for
// user-facing behavior: what is fatal, what is local to one repository,
// and what a credential problem actually means.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an error for propagation policy decisions.
type Kind int

const (
	// InvalidRepository means the path is not a git repository.
	InvalidRepository Kind = iota
	// CloneFailure means a remote fetch failed (network, auth, or missing).
	CloneFailure
	// AuthenticationFailure means the credential was rejected outright.
	AuthenticationFailure
	// AuthorizationFailure means the credential lacks a required scope.
	AuthorizationFailure
	// NotFound means a named organization, team, or repository is absent.
	NotFound
	// PartialBatchFailure means one or more repositories in a batch could
	// not be analyzed. Carries the failures; not fatal to the batch.
	PartialBatchFailure
)

func (k Kind) String() string {
	switch k {
	case InvalidRepository:
		return "invalid repository"
	case CloneFailure:
		return "clone failure"
	case AuthenticationFailure:
		return "authentication failure"
	case AuthorizationFailure:
		return "authorization failure"
	case NotFound:
		return "not found"
	case PartialBatchFailure:
		return "partial batch failure"
	default:
		return "unknown"
	}
}

// Error is a classified error with a human-readable cause.
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

// New creates a classified error.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap classifies an underlying error.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// IsKind reports whether err (or anything it wraps) carries the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
