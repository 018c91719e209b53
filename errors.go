package natsuzora

import (
	"fmt"

	juju "github.com/juju/errors"
)

// Kind enumerates every distinct failure mode the engine can produce.
// A single Error type carries one Kind plus the Location of the token
// or node at fault; nothing is retried or recovered internally, and
// the only failure that is also logged is a circular include (a
// WARNING from the loader's recursion guard).
type Kind int

const (
	KindSyntax Kind = iota
	KindUnclosedComment
	KindUnexpectedToken
	KindReservedWord
	KindInvalidIdentifier
	KindUndefinedVariable
	KindTypeError
	KindShadowing
	KindInclude
	KindIO
)

var kindNames = [...]string{
	"SyntaxError",
	"UnclosedComment",
	"UnexpectedToken",
	"ReservedWord",
	"InvalidIdentifier",
	"UndefinedVariable",
	"TypeError",
	"ShadowingError",
	"IncludeError",
	"IoError",
}

func (k Kind) String() string {
	if int(k) < 0 || int(k) >= len(kindNames) {
		return "Unknown"
	}
	return kindNames[k]
}

// Error is the single error type returned anywhere in the lex/parse/
// evaluate pipeline. It always carries a Kind and, whenever one is
// available, the source Location at fault.
//
// The underlying cause (when Error wraps another error, e.g. an os
// error from the loader or an inner parse error from an included
// partial) is annotated through github.com/juju/errors and exposed by
// Unwrap; this package's Cause(err) returns that original error.
type Error struct {
	Kind    Kind
	Loc     Location
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Loc == (Location{}) {
		return fmt.Sprintf("[natsuzora: %s] %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("[natsuzora: %s at %s] %s", e.Kind, e.Loc, e.Message)
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.cause
}

// newErr builds a location-carrying Error with no further cause.
func newErr(kind Kind, loc Location, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Loc:     loc,
		Message: fmt.Sprintf(format, args...),
	}
}

// wrapErr builds an Error whose Message is annotated onto cause via
// juju/errors.Annotate, preserving cause's traceback for Cause/%+v
// while still exposing a flat, spec-shaped Kind/Location/Message to
// callers who only care about the classification.
func wrapErr(kind Kind, loc Location, cause error, format string, args ...interface{}) *Error {
	msg := fmt.Sprintf(format, args...)
	annotated := juju.Annotate(cause, msg)
	return &Error{
		Kind:    kind,
		Loc:     loc,
		Message: msg,
		cause:   annotated,
	}
}

// AsKind reports the Kind of err if it is (or wraps) a *natsuzora.Error,
// and whether such a classification was found at all.
func AsKind(err error) (Kind, bool) {
	for err != nil {
		if ne, ok := err.(*Error); ok {
			return ne.Kind, true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = unwrapper.Unwrap()
	}
	return 0, false
}

// Cause returns the deepest underlying cause of err, using
// juju/errors' traceback-aware unwinding when err wraps one.
func Cause(err error) error {
	if ne, ok := err.(*Error); ok && ne.cause != nil {
		return juju.Cause(ne.cause)
	}
	return juju.Cause(err)
}
