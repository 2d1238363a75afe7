// internal/sts/radio_test.go
package sts

import (
	"encoding/binary"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBoard serves one handler per accepted connection on the loopback and
// tears down with the test.
func fakeBoard(t *testing.T, handler func(conn net.Conn)) (host string, port int) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				handler(c)
			}(conn)
		}
	}()

	addr := ln.Addr().(*net.TCPAddr)
	return "127.0.0.1", addr.Port
}

// readReadRequest consumes one read request and returns the requested ids.
func readReadRequest(c net.Conn) []int64 {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(c, header); err != nil || header[0] != cmdRead {
		return nil
	}
	count := int(binary.BigEndian.Uint16(header[1:3]))
	body := make([]byte, count*idSize)
	if _, err := io.ReadFull(c, body); err != nil {
		return nil
	}
	ids := make([]int64, count)
	for i := range ids {
		ids[i] = int64(binary.BigEndian.Uint32(body[i*idSize:]))
	}
	return ids
}

func newTestRadio(t *testing.T, host string, port int, timeout time.Duration) *Radio {
	t.Helper()
	r, err := NewRadio(host, port, timeout)
	require.NoError(t, err)
	return r
}

func TestNewRadioDefaults(t *testing.T) {
	r, err := NewRadio("", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "sts:9001", r.Addr())

	_, err = NewRadio("sts", 70000, 0)
	assert.Error(t, err)
	_, err = NewRadio("sts", 9001, -time.Second)
	assert.Error(t, err)
}

func TestEmptyRequestRejectedBeforeDialing(t *testing.T) {
	// Endpoint that would refuse: rejection must come from validation alone.
	r := newTestRadio(t, "127.0.0.1", 1, 100*time.Millisecond)

	_, err := r.Transmit(nil)
	require.ErrorIs(t, err, ErrEmptyRequest)

	_, err = r.Receive([]int64{})
	require.ErrorIs(t, err, ErrEmptyRequest)
}

func TestReceiveEcho(t *testing.T) {
	want, err := NewInteger(1090, 0, 1)
	require.NoError(t, err)

	host, port := fakeBoard(t, func(c net.Conn) {
		ids := readReadRequest(c)
		if len(ids) != 1 || ids[0] != 1090 {
			return
		}
		resp, _ := Pack([]Datum{want})
		_, _ = c.Write(resp)
	})

	r := newTestRadio(t, host, port, time.Second)
	got, err := r.Receive([]int64{1090})
	require.NoError(t, err)
	assert.Equal(t, []Datum{want}, got)
}

func TestReceiveMatchByID(t *testing.T) {
	// Board replies in its own order; the caller must match by id.
	a, err := NewInteger(1090, 10, 1)
	require.NoError(t, err)
	b, err := NewFloat(1091, 10, 2.5)
	require.NoError(t, err)

	host, port := fakeBoard(t, func(c net.Conn) {
		_ = readReadRequest(c)
		resp, _ := Pack([]Datum{b, a})
		_, _ = c.Write(resp)
	})

	r := newTestRadio(t, host, port, time.Second)
	got, err := r.Receive([]int64{1090, 1091})
	require.NoError(t, err)
	require.Len(t, got, 2)

	byID := make(map[int64]Datum, len(got))
	for _, d := range got {
		byID[d.ID()] = d
	}
	assert.Equal(t, a, byID[1090])
	assert.Equal(t, b, byID[1091])
}

func TestTransmitAck(t *testing.T) {
	host, port := fakeBoard(t, func(c net.Conn) {
		// A write request is grammar-identical to a response: echo it back
		// as the acknowledgement.
		req, err := readPacket(c)
		if err != nil {
			return
		}
		_, _ = c.Write(req)
	})

	data := sampleData(t)
	r := newTestRadio(t, host, port, time.Second)
	ack, err := r.Transmit(data)
	require.NoError(t, err)
	assert.Equal(t, data, ack)
}

func TestReceiveTimeout(t *testing.T) {
	host, port := fakeBoard(t, func(c net.Conn) {
		_ = readReadRequest(c)
		// Never respond; hold the connection open past the client deadline.
		time.Sleep(2 * time.Second)
	})

	const timeout = 150 * time.Millisecond
	r := newTestRadio(t, host, port, timeout)

	start := time.Now()
	_, err := r.Receive([]int64{1090})
	elapsed := time.Since(start)

	var te *TimeoutError
	require.ErrorAs(t, err, &te)
	assert.True(t, te.Timeout())
	assert.GreaterOrEqual(t, elapsed, timeout)
	assert.Less(t, elapsed, 10*timeout)
}

func TestConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	r := newTestRadio(t, "127.0.0.1", port, time.Second)
	_, err = r.Receive([]int64{1090})

	var ce *ConnectionError
	require.ErrorAs(t, err, &ce)
}

func TestMalformedResponseHeader(t *testing.T) {
	host, port := fakeBoard(t, func(c net.Conn) {
		_ = readReadRequest(c)
		_, _ = c.Write([]byte{0x00, 0x00, 0x01})
	})

	r := newTestRadio(t, host, port, time.Second)
	_, err := r.Receive([]int64{1090})

	var mpe *MalformedPacketError
	require.ErrorAs(t, err, &mpe)
}

func TestTruncatedResponse(t *testing.T) {
	host, port := fakeBoard(t, func(c net.Conn) {
		_ = readReadRequest(c)
		// Header promises a record, connection closes before it arrives.
		_, _ = c.Write([]byte{cmdWrite, 0x00, 0x01})
	})

	r := newTestRadio(t, host, port, time.Second)
	_, err := r.Receive([]int64{1090})

	var mpe *MalformedPacketError
	require.ErrorAs(t, err, &mpe)
}

func TestUnknownKindResponse(t *testing.T) {
	host, port := fakeBoard(t, func(c net.Conn) {
		_ = readReadRequest(c)
		resp := []byte{cmdWrite, 0x00, 0x01}
		resp = binary.BigEndian.AppendUint32(resp, 1090)
		resp = binary.BigEndian.AppendUint32(resp, 0)
		resp = append(resp, 0xFF)
		_, _ = c.Write(resp)
	})

	r := newTestRadio(t, host, port, time.Second)
	_, err := r.Receive([]int64{1090})

	var uke *UnknownKindError
	require.ErrorAs(t, err, &uke)
}

func TestConcurrentReceives(t *testing.T) {
	want, err := NewInteger(1090, 0, 1)
	require.NoError(t, err)

	host, port := fakeBoard(t, func(c net.Conn) {
		_ = readReadRequest(c)
		resp, _ := Pack([]Datum{want})
		_, _ = c.Write(resp)
	})

	// One Radio, many goroutines: each call owns a private socket.
	r := newTestRadio(t, host, port, time.Second)
	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			_, err := r.Receive([]int64{1090})
			done <- err
		}()
	}
	for i := 0; i < 8; i++ {
		require.NoError(t, <-done)
	}
}
