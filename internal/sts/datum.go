// internal/sts/datum.go
package sts

import (
	"fmt"
	"math"
	"strings"
)

// Kind discriminates the payload carried by a Datum.
type Kind uint8

// Wire kind bytes. Values are fixed by the board protocol and MUST NOT change.
const (
	KindInteger Kind = iota
	KindFloat
	KindText
	KindIntegerWithText
	KindFloatWithText
	// KindExponent is identical to KindFloat on the wire; the board applies
	// exponent-scale display semantics based on the tag alone.
	KindExponent
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	case KindIntegerWithText:
		return "integer_with_text"
	case KindFloatWithText:
		return "float_with_text"
	case KindExponent:
		return "exponent"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Field limits imposed by the wire format.
const (
	MaxID        int64 = math.MaxUint32
	MaxTimestamp int64 = math.MaxUint32
	MinInteger   int64 = math.MinInt32
	MaxInteger   int64 = math.MaxInt32
	MaxTextLen         = 64
)

// Datum is one typed, identified, timestamped telemetry value. A Datum is
// immutable once constructed; build one with the per-kind factories below.
// Datum is comparable: two are equal iff id, timestamp, kind and value are
// all equal (factories zero the payload slots their kind does not use).
type Datum struct {
	id        int64
	timestamp int64
	kind      Kind
	intVal    int64
	floatVal  float64
	text      string
}

// ID returns the channel id on the board. Stable identity, not unique
// across time: successive samples of one channel share it.
func (d Datum) ID() int64 { return d.id }

// Timestamp returns the sample time in seconds. Caller-supplied on
// transmit, board-assigned on receive.
func (d Datum) Timestamp() int64 { return d.timestamp }

func (d Datum) Kind() Kind { return d.kind }

// Int returns the integer payload. Meaningful for KindInteger and
// KindIntegerWithText; zero otherwise.
func (d Datum) Int() int64 { return d.intVal }

// Float returns the floating-point payload. Meaningful for KindFloat,
// KindExponent and KindFloatWithText; zero otherwise.
func (d Datum) Float() float64 { return d.floatVal }

// Text returns the text payload. Meaningful for KindText,
// KindIntegerWithText and KindFloatWithText; empty otherwise.
func (d Datum) Text() string { return d.text }

func (d Datum) String() string {
	switch d.kind {
	case KindInteger:
		return fmt.Sprintf("Datum(id=%d ts=%d %s %d)", d.id, d.timestamp, d.kind, d.intVal)
	case KindFloat, KindExponent:
		return fmt.Sprintf("Datum(id=%d ts=%d %s %g)", d.id, d.timestamp, d.kind, d.floatVal)
	case KindText:
		return fmt.Sprintf("Datum(id=%d ts=%d %s %q)", d.id, d.timestamp, d.kind, d.text)
	case KindIntegerWithText:
		return fmt.Sprintf("Datum(id=%d ts=%d %s %d %q)", d.id, d.timestamp, d.kind, d.intVal, d.text)
	case KindFloatWithText:
		return fmt.Sprintf("Datum(id=%d ts=%d %s %g %q)", d.id, d.timestamp, d.kind, d.floatVal, d.text)
	}
	return fmt.Sprintf("Datum(id=%d ts=%d %s)", d.id, d.timestamp, d.kind)
}

// WithID returns a copy of d carrying a different channel id. This is the
// only way to re-address a Datum; everything else stays immutable.
func (d Datum) WithID(id int64) (Datum, error) {
	if err := checkIdentity(id, d.timestamp); err != nil {
		return Datum{}, err
	}
	d.id = id
	return d, nil
}

// NewInteger builds a KindInteger Datum. value must fit the wire's signed
// 32-bit field.
func NewInteger(id, timestamp, value int64) (Datum, error) {
	if err := checkIdentity(id, timestamp); err != nil {
		return Datum{}, err
	}
	if err := checkInteger(value); err != nil {
		return Datum{}, err
	}
	return Datum{id: id, timestamp: timestamp, kind: KindInteger, intVal: value}, nil
}

// NewFloat builds a KindFloat Datum.
func NewFloat(id, timestamp int64, value float64) (Datum, error) {
	if err := checkIdentity(id, timestamp); err != nil {
		return Datum{}, err
	}
	return Datum{id: id, timestamp: timestamp, kind: KindFloat, floatVal: value}, nil
}

// NewText builds a KindText Datum. value must fit the fixed wire field:
// at most MaxTextLen bytes and no NUL bytes (NUL is the field pad).
func NewText(id, timestamp int64, value string) (Datum, error) {
	if err := checkIdentity(id, timestamp); err != nil {
		return Datum{}, err
	}
	if err := checkText(value); err != nil {
		return Datum{}, err
	}
	return Datum{id: id, timestamp: timestamp, kind: KindText, text: value}, nil
}

// NewIntegerWithText builds a KindIntegerWithText Datum.
func NewIntegerWithText(id, timestamp, value int64, text string) (Datum, error) {
	if err := checkIdentity(id, timestamp); err != nil {
		return Datum{}, err
	}
	if err := checkInteger(value); err != nil {
		return Datum{}, err
	}
	if err := checkText(text); err != nil {
		return Datum{}, err
	}
	return Datum{id: id, timestamp: timestamp, kind: KindIntegerWithText, intVal: value, text: text}, nil
}

// NewFloatWithText builds a KindFloatWithText Datum.
func NewFloatWithText(id, timestamp int64, value float64, text string) (Datum, error) {
	if err := checkIdentity(id, timestamp); err != nil {
		return Datum{}, err
	}
	if err := checkText(text); err != nil {
		return Datum{}, err
	}
	return Datum{id: id, timestamp: timestamp, kind: KindFloatWithText, floatVal: value, text: text}, nil
}

// NewExponent builds a KindExponent Datum: wire-identical to KindFloat but
// tagged for exponent-scale presentation on the board side.
func NewExponent(id, timestamp int64, value float64) (Datum, error) {
	if err := checkIdentity(id, timestamp); err != nil {
		return Datum{}, err
	}
	return Datum{id: id, timestamp: timestamp, kind: KindExponent, floatVal: value}, nil
}

func checkIdentity(id, timestamp int64) error {
	if id < 0 || id > MaxID {
		return &ValidationError{Reason: fmt.Sprintf("id %d outside 0..%d", id, MaxID)}
	}
	if timestamp < 0 || timestamp > MaxTimestamp {
		return &ValidationError{Reason: fmt.Sprintf("timestamp %d outside 0..%d", timestamp, MaxTimestamp)}
	}
	return nil
}

func checkInteger(value int64) error {
	if value < MinInteger || value > MaxInteger {
		return &ValidationError{Reason: fmt.Sprintf("integer %d outside %d..%d", value, MinInteger, MaxInteger)}
	}
	return nil
}

func checkText(text string) error {
	if len(text) > MaxTextLen {
		return &ValidationError{Reason: fmt.Sprintf("text of %d bytes exceeds %d", len(text), MaxTextLen)}
	}
	if strings.IndexByte(text, 0) >= 0 {
		return &ValidationError{Reason: "text contains NUL byte"}
	}
	return nil
}
