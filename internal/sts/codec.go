// internal/sts/codec.go
package sts

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// Wire layout. All multi-byte fields are big-endian.
//
// Header:
//   CMD(1) COUNT(2)
// Write/response record:
//   ID(4) TIMESTAMP(4) KIND(1) PAYLOAD(kind-specific, fixed per kind)
// Read-request record:
//   ID(4)
const (
	cmdWrite byte = 0x81 // write request and every board response
	cmdRead  byte = 0x82 // read request

	headerSize   = 3
	recordPrefix = 9 // id + timestamp + kind byte
	idSize       = 4
	integerSize  = 4
	floatSize    = 8
	textSize     = MaxTextLen

	maxRecords = math.MaxUint16
)

// payloadSize returns the fixed payload width for a kind, or -1 when the
// kind is outside the closed set.
func payloadSize(k Kind) int {
	switch k {
	case KindInteger:
		return integerSize
	case KindFloat, KindExponent:
		return floatSize
	case KindText:
		return textSize
	case KindIntegerWithText:
		return integerSize + textSize
	case KindFloatWithText:
		return floatSize + textSize
	}
	return -1
}

// Pack encodes data as a write request: header, then one full record per
// datum. Deterministic: identical input yields byte-identical output.
func Pack(data []Datum) ([]byte, error) {
	if len(data) > maxRecords {
		return nil, &ValidationError{Reason: fmt.Sprintf("request of %d records exceeds %d", len(data), maxRecords)}
	}

	size := headerSize
	for _, d := range data {
		w := payloadSize(d.kind)
		if w < 0 {
			return nil, &EncodingError{Kind: d.kind}
		}
		size += recordPrefix + w
	}

	buf := make([]byte, 0, size)
	buf = append(buf, cmdWrite)
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(data)))

	for _, d := range data {
		buf = binary.BigEndian.AppendUint32(buf, uint32(d.id))
		buf = binary.BigEndian.AppendUint32(buf, uint32(d.timestamp))
		buf = append(buf, byte(d.kind))

		switch d.kind {
		case KindInteger:
			buf = binary.BigEndian.AppendUint32(buf, uint32(int32(d.intVal)))
		case KindFloat, KindExponent:
			buf = binary.BigEndian.AppendUint64(buf, math.Float64bits(d.floatVal))
		case KindText:
			buf = appendText(buf, d.text)
		case KindIntegerWithText:
			buf = binary.BigEndian.AppendUint32(buf, uint32(int32(d.intVal)))
			buf = appendText(buf, d.text)
		case KindFloatWithText:
			buf = binary.BigEndian.AppendUint64(buf, math.Float64bits(d.floatVal))
			buf = appendText(buf, d.text)
		default:
			return nil, &EncodingError{Kind: d.kind}
		}
	}

	return buf, nil
}

// PackRead encodes ids as a read request: header, then one id per record.
// The board answers with full records carrying its current values.
func PackRead(ids []int64) ([]byte, error) {
	if len(ids) > maxRecords {
		return nil, &ValidationError{Reason: fmt.Sprintf("request of %d records exceeds %d", len(ids), maxRecords)}
	}

	buf := make([]byte, 0, headerSize+len(ids)*idSize)
	buf = append(buf, cmdRead)
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(ids)))

	for _, id := range ids {
		if id < 0 || id > MaxID {
			return nil, &ValidationError{Reason: fmt.Sprintf("id %d outside 0..%d", id, MaxID)}
		}
		buf = binary.BigEndian.AppendUint32(buf, uint32(id))
	}

	return buf, nil
}

// Unpack decodes one complete response packet into its Datum records.
// The buffer must contain exactly the bytes the header implies: short or
// overlong input fails with MalformedPacketError, a kind byte outside the
// closed set fails with UnknownKindError.
func Unpack(packet []byte) ([]Datum, error) {
	if len(packet) < headerSize {
		return nil, &MalformedPacketError{Reason: fmt.Sprintf("%d bytes is shorter than the %d-byte header", len(packet), headerSize)}
	}
	if packet[0] != cmdWrite {
		return nil, &MalformedPacketError{Reason: fmt.Sprintf("bad command byte 0x%02X", packet[0])}
	}

	count := int(binary.BigEndian.Uint16(packet[1:3]))
	data := make([]Datum, 0, count)
	off := headerSize

	for i := 0; i < count; i++ {
		if len(packet)-off < recordPrefix {
			return nil, &MalformedPacketError{Reason: fmt.Sprintf("record %d truncated", i)}
		}
		id := int64(binary.BigEndian.Uint32(packet[off : off+4]))
		timestamp := int64(binary.BigEndian.Uint32(packet[off+4 : off+8]))
		kindByte := packet[off+8]
		off += recordPrefix

		w := payloadSize(Kind(kindByte))
		if w < 0 {
			return nil, &UnknownKindError{Kind: kindByte}
		}
		if len(packet)-off < w {
			return nil, &MalformedPacketError{Reason: fmt.Sprintf("record %d truncated", i)}
		}
		payload := packet[off : off+w]
		off += w

		d := Datum{id: id, timestamp: timestamp, kind: Kind(kindByte)}
		switch d.kind {
		case KindInteger:
			d.intVal = int64(int32(binary.BigEndian.Uint32(payload)))
		case KindFloat, KindExponent:
			d.floatVal = math.Float64frombits(binary.BigEndian.Uint64(payload))
		case KindText:
			d.text = trimText(payload)
		case KindIntegerWithText:
			d.intVal = int64(int32(binary.BigEndian.Uint32(payload[:integerSize])))
			d.text = trimText(payload[integerSize:])
		case KindFloatWithText:
			d.floatVal = math.Float64frombits(binary.BigEndian.Uint64(payload[:floatSize]))
			d.text = trimText(payload[floatSize:])
		}
		data = append(data, d)
	}

	if off != len(packet) {
		return nil, &MalformedPacketError{Reason: fmt.Sprintf("%d trailing bytes after %d records", len(packet)-off, count)}
	}

	return data, nil
}

// appendText writes s into a fixed NUL-padded field. Length and NUL-freedom
// were enforced at Datum construction.
func appendText(buf []byte, s string) []byte {
	buf = append(buf, s...)
	for i := len(s); i < textSize; i++ {
		buf = append(buf, 0)
	}
	return buf
}

// trimText strips the field at the first NUL. Pad bytes never reach the
// decoded string.
func trimText(field []byte) string {
	if i := bytes.IndexByte(field, 0); i >= 0 {
		field = field[:i]
	}
	return string(field)
}
