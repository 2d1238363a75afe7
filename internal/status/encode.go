// internal/status/encode.go
package status

import (
	"errors"

	"sts-replicator/internal/sts"
)

// Encode converts a Snapshot into the full status block for a base channel.
// Layout is protocol-locked. No IO. No side effects.
func Encode(base, timestamp int64, deviceName string, s Snapshot) ([]sts.Datum, error) {
	health, err := sts.NewInteger(base+ChannelHealth, timestamp, s.Health)
	if err != nil {
		return nil, err
	}

	lastErr, err := sts.NewIntegerWithText(base+ChannelLastError, timestamp, s.LastErrorCode, clipText(s.LastErrorText))
	if err != nil {
		return nil, err
	}

	secs := s.SecondsInError
	if secs > SecondsInErrorMax {
		secs = SecondsInErrorMax
	}
	inError, err := sts.NewInteger(base+ChannelSecondsInError, timestamp, secs)
	if err != nil {
		return nil, err
	}

	name, err := sts.NewText(base+ChannelDeviceName, timestamp, clipText(deviceName))
	if err != nil {
		return nil, err
	}

	return []sts.Datum{health, lastErr, inError, name}, nil
}

// ErrorCode maps a poll cycle error to its status block code.
func ErrorCode(err error) int64 {
	if err == nil {
		return ErrCodeNone
	}

	var te *sts.TimeoutError
	if errors.As(err, &te) {
		return ErrCodeTimeout
	}
	var ce *sts.ConnectionError
	if errors.As(err, &ce) {
		return ErrCodeConnection
	}
	var mpe *sts.MalformedPacketError
	if errors.As(err, &mpe) {
		return ErrCodeMalformed
	}
	var uke *sts.UnknownKindError
	if errors.As(err, &uke) {
		return ErrCodeBadKind
	}

	return ErrCodeGeneric
}

// clipText forces arbitrary text (error strings in particular) into the
// bounds a text datum accepts.
func clipText(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s) && len(out) < sts.MaxTextLen; i++ {
		if s[i] == 0 {
			continue
		}
		out = append(out, s[i])
	}
	return string(out)
}
