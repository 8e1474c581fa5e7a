// Package apperrors defines the error kinds shared by the repository, service and handler layers.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an application error so callers can branch on it without parsing messages.
type Kind int

const (
	// KindService is a generic failure of a business operation. It is also the kind reported for
	// errors that were never classified.
	KindService Kind = iota
	// KindValidation means the caller supplied bad input.
	KindValidation
	// KindNotFound means the addressed record does not exist.
	KindNotFound
	// KindUnauthorized means the caller could not be authenticated.
	KindUnauthorized
	// KindStorage means the underlying store failed.
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation_error"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindStorage:
		return "storage_error"
	case KindService:
		return "service_error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error carries a Kind, a message safe to show to clients and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports kind equality so that errors.Is(err, apperrors.NotFound("")) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New returns an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap returns an Error of the given kind that keeps err as its cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(message string) *Error { return New(KindValidation, message) }

func NotFound(message string) *Error { return New(KindNotFound, message) }

func Unauthorized(message string) *Error { return New(KindUnauthorized, message) }

func Storage(message string, err error) *Error { return Wrap(KindStorage, message, err) }

func Service(message string, err error) *Error { return Wrap(KindService, message, err) }

// KindOf returns the kind of the first *Error in err's chain, or KindService when there is none.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindService
}

// MessageOf returns the client-facing message of err. Storage and service failures, as well as
// errors that are not *Error, collapse to fallback.
func MessageOf(err error, fallback string) string {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return fallback
	}
	switch appErr.Kind {
	case KindStorage:
		return fallback
	default:
		if appErr.Message == "" {
			return fallback
		}
		return appErr.Message
	}
}
