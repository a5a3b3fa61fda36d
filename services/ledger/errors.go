package ledger

import (
	"errors"
	"fmt"
)

// Kind classifies a workflow failure. Controllers map kinds onto HTTP
// statuses; the service layer never sees HTTP.
type Kind int

const (
	KindUnauthorized Kind = iota + 1
	KindForbidden
	KindNotFound
	KindInvalidState
	KindValidation
)

// Error is a workflow failure with a stable machine-readable code and a
// human-readable message. None of these are retried automatically; the
// caller resubmits with corrected input or state.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newError(kind Kind, code, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...)}
}

func errUnauthorized(code, format string, args ...interface{}) *Error {
	return newError(KindUnauthorized, code, format, args...)
}

func errForbidden(code, format string, args ...interface{}) *Error {
	return newError(KindForbidden, code, format, args...)
}

func errNotFound(code, format string, args ...interface{}) *Error {
	return newError(KindNotFound, code, format, args...)
}

func errInvalidState(code, format string, args ...interface{}) *Error {
	return newError(KindInvalidState, code, format, args...)
}

func errValidation(code, format string, args ...interface{}) *Error {
	return newError(KindValidation, code, format, args...)
}

// KindOf extracts the Kind from err, or 0 if err is not a workflow error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsKind reports whether err is a workflow error of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
