// Package coreerr defines the closed set of error kinds the core surfaces to
// its host: Integrity, Unimplemented, IO, and Protocol. Guest exceptions have
// no Kind: they are always recovered internally (see package sh4) and never
// surface as a coreerr.Error; the four kinds here are surfaced to the outer
// host, which decides whether to terminate.
//
// This follows the teacher's *current* idiom (plain errors wrapped with
// fmt.Errorf and sentinel errors.New values), not its deprecated
// Errno-based errors package — see DESIGN.md for why the deprecated
// approach was not revived.
package coreerr

import "fmt"

// Kind classifies a core error.
type Kind int

const (
	// Integrity means an internal invariant was violated: unmapped memory
	// access, an impossible register index. Fatal.
	Integrity Kind = iota
	// Unimplemented means a code path that has not been written was
	// reached. Fatal during development.
	Unimplemented
	// IO means a backing file (disc image, BIOS ROM) was missing or
	// corrupt. The core does not start.
	IO
	// Protocol means a malformed peripheral frame or command word was
	// seen. Logged and ignored where possible, fatal where not.
	Protocol
)

func (k Kind) String() string {
	switch k {
	case Integrity:
		return "integrity"
	case Unimplemented:
		return "unimplemented"
	case IO:
		return "io"
	case Protocol:
		return "protocol"
	default:
		return "unknown"
	}
}

// Error is a core-internal error tagged with a Kind so the host can decide
// how to react (most kinds are fatal; Protocol errors are sometimes
// recoverable at the call site).
type Error struct {
	Kind      Kind
	Component string
	Message   string
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Kind, e.Component, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Component, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New constructs an Error.
func New(kind Kind, component, message string) *Error {
	return &Error{Kind: kind, Component: component, Message: message}
}

// Wrap constructs an Error that wraps an underlying error.
func Wrap(kind Kind, component, message string, err error) *Error {
	return &Error{Kind: kind, Component: component, Message: message, Err: err}
}

// Integrityf is a convenience constructor for Integrity errors.
func Integrityf(component, format string, args ...interface{}) *Error {
	return New(Integrity, component, fmt.Sprintf(format, args...))
}

// Unimplementedf is a convenience constructor for Unimplemented errors.
func Unimplementedf(component, format string, args ...interface{}) *Error {
	return New(Unimplemented, component, fmt.Sprintf(format, args...))
}

// Protocolf is a convenience constructor for Protocol errors.
func Protocolf(component, format string, args ...interface{}) *Error {
	return New(Protocol, component, fmt.Sprintf(format, args...))
}
