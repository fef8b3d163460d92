package tcputils

import (
	"errors"
	"fmt"
	"net"
)

// ConnError classifies failures seen by the listener and the per-connection
// supervisor.
type ConnError int

const (
	BindFailure ConnError = iota
	AcceptFailure
	ReadFailure
	PeerClosed
	WriteFailure
	FrameTooLarge
	Flooded
)

const (
	RESPONSE_TIMED_OUT = "TIMED_OUT"
	RESPONSE_RESET     = "CONN_RESET"
)

func (e ConnError) Error() string {

	switch e {
	case BindFailure:
		return "bind failed"
	case AcceptFailure:
		return "accept failed"
	case ReadFailure:
		return "read failed"
	case PeerClosed:
		return "peer closed"
	case WriteFailure:
		return "write failed"
	case FrameTooLarge:
		return "frame too large"
	case Flooded:
		return "concurrency peak reached"
	default:
		return fmt.Sprintf("unknown connection error: %d", int(e))
	}
}

// Error wraps a ConnError with the underlying cause.
type Error struct {
	Kind       ConnError
	underlying error
}

func (e *Error) Error() string {

	if e.underlying != nil {
		return fmt.Sprintf("%s: %v", e.Kind.Error(), e.underlying)
	}

	return e.Kind.Error()
}

func (e *Error) Unwrap() error {

	return e.underlying
}

// Is lets errors.Is match a *Error against its bare kind.
func (e *Error) Is(target error) bool {

	if kind, ok := target.(ConnError); ok {
		return e.Kind == kind
	}

	return false
}

// NewError creates a new *Error of the given kind.
func NewError(kind ConnError, underlying error) *Error {

	return &Error{Kind: kind, underlying: underlying}
}

// KindOf returns the ConnError carried by err, if any.
func KindOf(err error) (ConnError, bool) {

	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr.Kind, true
	}

	var kind ConnError
	if errors.As(err, &kind) {
		return kind, true
	}

	return 0, false
}

// EvalError reduces a network error to a short reason for the logs.
func EvalError(err error) string {

	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return RESPONSE_TIMED_OUT
	}

	return RESPONSE_RESET
}
