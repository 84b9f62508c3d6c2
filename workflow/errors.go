package workflow

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the engine wraps exactly one of them.
var (
	ErrValidation   = errors.New("validation failed")
	ErrForbidden    = errors.New("not authorized")
	ErrPrecondition = errors.New("not allowed in current state")
	ErrNotFound     = errors.New("not found")
)

// Error is a rejected workflow operation. No snapshot or audit event is
// produced when an operation returns one.
type Error struct {
	Op   string
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(op string, kind error, format string, args ...interface{}) error {
	return &Error{Op: op, Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func invalid(op, format string, args ...interface{}) error {
	return newError(op, ErrValidation, format, args...)
}

func forbidden(op, format string, args ...interface{}) error {
	return newError(op, ErrForbidden, format, args...)
}

func notAllowed(op, format string, args ...interface{}) error {
	return newError(op, ErrPrecondition, format, args...)
}
