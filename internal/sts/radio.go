// internal/sts/radio.go
package sts

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"
)

// Defaults of the deployed STS installation.
const (
	DefaultHost    = "sts"
	DefaultPort    = 9001
	DefaultTimeout = 5 * time.Second
)

// Radio is a connection recipe for one STS board, not a live connection.
// Every Transmit or Receive call dials, exchanges and closes its own
// socket, so a single Radio is safe for concurrent use and never leaks a
// connection across calls.
type Radio struct {
	host    string
	port    int
	timeout time.Duration
}

// NewRadio builds a Radio. Zero-value arguments fall back to the STS
// defaults; out-of-range values are rejected.
func NewRadio(host string, port int, timeout time.Duration) (*Radio, error) {
	if host == "" {
		host = DefaultHost
	}
	if port == 0 {
		port = DefaultPort
	}
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	if port < 1 || port > 65535 {
		return nil, fmt.Errorf("sts: port %d out of range", port)
	}
	if timeout < 0 {
		return nil, fmt.Errorf("sts: negative timeout %s", timeout)
	}
	return &Radio{host: host, port: port, timeout: timeout}, nil
}

// Addr returns the board endpoint in host:port form.
func (r *Radio) Addr() string {
	return net.JoinHostPort(r.host, strconv.Itoa(r.port))
}

func (r *Radio) String() string {
	return fmt.Sprintf("Radio(%s timeout=%s)", r.Addr(), r.timeout)
}

// Transmit writes data to the board and returns the decoded
// acknowledgement records. The request either lands whole or the call
// fails; there is no partial success. A TimeoutError here means "outcome
// unknown", not "request failed": the board may have applied the write
// before the acknowledgement was lost.
func (r *Radio) Transmit(data []Datum) ([]Datum, error) {
	if len(data) == 0 {
		return nil, ErrEmptyRequest
	}
	req, err := Pack(data)
	if err != nil {
		return nil, err
	}
	return r.exchange(req)
}

// Receive asks the board for the current values of ids and returns the
// decoded records. The result order is whatever the board chose to respond
// in; match results by ID, not by position.
func (r *Radio) Receive(ids []int64) ([]Datum, error) {
	if len(ids) == 0 {
		return nil, ErrEmptyRequest
	}
	req, err := PackRead(ids)
	if err != nil {
		return nil, err
	}
	return r.exchange(req)
}

// exchange owns one connection's full lifecycle: dial, write the request,
// read one response packet under the deadline, close.
func (r *Radio) exchange(req []byte) ([]Datum, error) {
	conn, err := net.DialTimeout("tcp", r.Addr(), r.timeout)
	if err != nil {
		return nil, r.classify("connect", err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(r.timeout)); err != nil {
		return nil, &ConnectionError{Op: "set deadline", Err: err}
	}
	if _, err := conn.Write(req); err != nil {
		return nil, r.classify("write", err)
	}

	packet, err := readPacket(conn)
	if err != nil {
		var mpe *MalformedPacketError
		var uke *UnknownKindError
		if errors.As(err, &mpe) || errors.As(err, &uke) {
			return nil, err
		}
		return nil, r.classify("read", err)
	}

	return Unpack(packet)
}

// classify maps a socket error into the client taxonomy: anything that
// timed out becomes TimeoutError, the rest ConnectionError.
func (r *Radio) classify(op string, err error) error {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return &TimeoutError{Op: op, After: r.timeout}
	}
	return &ConnectionError{Op: op, Err: err}
}

// readPacket reads exactly one response packet: the header first, then each
// record's fixed width as directed by its kind byte. The protocol carries
// no overall length, so walking the records is the only way to know where
// the response ends.
func readPacket(r io.Reader) ([]byte, error) {
	buf := make([]byte, headerSize)
	if err := readFull(r, buf, "header"); err != nil {
		return nil, err
	}
	if buf[0] != cmdWrite {
		return nil, &MalformedPacketError{Reason: fmt.Sprintf("bad command byte 0x%02X", buf[0])}
	}

	count := int(binary.BigEndian.Uint16(buf[1:3]))
	for i := 0; i < count; i++ {
		prefix := make([]byte, recordPrefix)
		if err := readFull(r, prefix, fmt.Sprintf("record %d", i)); err != nil {
			return nil, err
		}
		w := payloadSize(Kind(prefix[recordPrefix-1]))
		if w < 0 {
			return nil, &UnknownKindError{Kind: prefix[recordPrefix-1]}
		}
		payload := make([]byte, w)
		if err := readFull(r, payload, fmt.Sprintf("record %d payload", i)); err != nil {
			return nil, err
		}
		buf = append(buf, prefix...)
		buf = append(buf, payload...)
	}

	return buf, nil
}

// readFull fills p. A clean close mid-packet is a grammar violation, not a
// socket failure; real socket errors pass through for classify.
func readFull(r io.Reader, p []byte, what string) error {
	if _, err := io.ReadFull(r, p); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return &MalformedPacketError{Reason: "truncated " + what}
		}
		return err
	}
	return nil
}
