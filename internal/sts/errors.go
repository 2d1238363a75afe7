// internal/sts/errors.go
package sts

import (
	"errors"
	"fmt"
	"time"
)

// ErrEmptyRequest is returned by Transmit and Receive when called with no
// data or ids. No connection is attempted.
var ErrEmptyRequest = errors.New("sts: empty request")

// ValidationError reports a Datum factory rejecting a value whose shape or
// bounds do not fit the wire format. It never reaches the wire.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "sts: invalid datum: " + e.Reason }

// EncodingError reports a kind the codec has no branch for. Unreachable for
// Datum values built through the factories; if it fires, a kind was added
// without a matching codec branch.
type EncodingError struct {
	Kind Kind
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("sts: cannot encode kind %d", uint8(e.Kind))
}

// MalformedPacketError reports a response whose bytes do not fit the
// protocol grammar: bad command byte, or a length that does not match what
// the header's record count implies.
type MalformedPacketError struct {
	Reason string
}

func (e *MalformedPacketError) Error() string { return "sts: malformed packet: " + e.Reason }

// UnknownKindError reports a record kind byte outside the closed kind set.
type UnknownKindError struct {
	Kind byte
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("sts: unknown kind byte 0x%02X", e.Kind)
}

// ConnectionError reports a socket-level failure. The connection is already
// closed by the time it propagates.
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string { return fmt.Sprintf("sts: %s: %v", e.Op, e.Err) }

func (e *ConnectionError) Unwrap() error { return e.Err }

// TimeoutError reports that no response arrived within the Radio's timeout.
// For Transmit this means "outcome unknown": the board may have applied the
// write even though the acknowledgement never arrived.
type TimeoutError struct {
	Op    string
	After time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("sts: %s timed out after %s", e.Op, e.After)
}

// Timeout reports true so callers can also match via net.Error style checks.
func (e *TimeoutError) Timeout() bool { return true }
