package scheduling

import (
	"errors"
	"fmt"
)

// Kind classifies scheduling errors so the transport layer can map them to
// status codes without string matching.
type Kind string

const (
	KindValidation           Kind = "validation"
	KindInvalidTransition    Kind = "invalid_transition"
	KindSelfApprovalForbidden Kind = "self_approval_forbidden"
	KindNotFound             Kind = "not_found"
	KindStaleData            Kind = "stale_data"
)

// Error is a typed scheduling error. StaleData errors are recovered locally
// and only ever logged; the rest surface to the caller synchronously.
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

func validationError(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func invalidTransition(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidTransition, Message: fmt.Sprintf(format, args...)}
}

func notFound(what, id string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s %s not found", what, id)}
}

// KindOf extracts the Kind from an error chain, or "" if it carries none.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, k Kind) bool { return KindOf(err) == k }
