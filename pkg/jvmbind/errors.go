package jvmbind

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedText indicates string data that is not valid in its claimed
	// encoding. Conversion never substitutes replacement characters.
	ErrMalformedText = errors.New("jvmbind: malformed text")

	// ErrClassCast indicates that a managed object's runtime class does not
	// match the class the binding's descriptor requires.
	ErrClassCast = errors.New("jvmbind: class cast mismatch")

	// ErrNullObject indicates a null reference where the binding requires an
	// object.
	ErrNullObject = errors.New("jvmbind: null object reference")

	// ErrKindMismatch indicates a raw boundary value whose kind does not
	// match what the binding's descriptor promises.
	ErrKindMismatch = errors.New("jvmbind: value kind mismatch")

	// ErrOutOfRange indicates a value that does not fit the target type.
	// Narrowing is rejected, never wrapped.
	ErrOutOfRange = errors.New("jvmbind: value out of range")

	// ErrWideningDisabled is returned by the resolver for unsigned integer
	// bindings when Config.AllowWidening is false.
	ErrWideningDisabled = errors.New("jvmbind: integer widening not enabled")
)

// Error wraps an underlying failure with the boundary operation that hit it.
type Error struct {
	Op  string // operation that failed, e.g. "FindClass"
	Err error  // underlying error
}

func (e *Error) Error() string {
	return fmt.Sprintf("jvmbind.%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func errorf(op string, format string, args ...any) error {
	return &Error{Op: op, Err: fmt.Errorf(format, args...)}
}
