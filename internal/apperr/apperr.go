// Package apperr classifies domain failures so each inbound entry point can map
// them to the right response: caller mistakes, missing or expired resources,
// gateway trouble that an operator can retry, and everything else.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// KindInternal is the fallback for unexpected states and invariant violations.
	KindInternal Kind = iota
	// KindValidation marks bad input shape or semantics. Not retryable by the sender.
	KindValidation
	// KindNotFound marks a referenced entity that does not exist.
	KindNotFound
	// KindGone marks a time-bounded resource whose window has lapsed.
	KindGone
	// KindConflict marks a duplicate unique identity.
	KindConflict
	// KindGateway marks an external payment-provider failure. Retryable by an
	// operator or by event redelivery, never by changing the caller's input.
	KindGateway
)

type Error struct {
	kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.err }

func (e *Error) Kind() Kind { return e.kind }

func New(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{kind: kind, msg: msg, err: err}
}

func Validationf(format string, args ...any) *Error {
	return &Error{kind: KindValidation, msg: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) *Error {
	return &Error{kind: KindNotFound, msg: fmt.Sprintf(format, args...)}
}

func Gonef(format string, args ...any) *Error {
	return &Error{kind: KindGone, msg: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind from err, walking the wrap chain. Plain errors
// report KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
