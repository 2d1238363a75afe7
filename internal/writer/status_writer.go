// internal/writer/status_writer.go
package writer

import (
	"errors"
	"time"

	cfg "sts-replicator/internal/config"
	"sts-replicator/internal/status"
	"sts-replicator/internal/sts"
)

// statusTransmitter is the exact board contract the status writer uses.
type statusTransmitter interface {
	Transmit(data []sts.Datum) ([]sts.Datum, error)
}

// unitStatusWriter is the concrete implementation used by the replicator.
// It writes the status block to the unit's own source board.
type unitStatusWriter struct {
	board   statusTransmitter
	channel int64
	device  string

	needFull bool
	last     status.Snapshot

	now func() int64 // injection point for tests
}

// NewStatusWriter builds a status writer if status is enabled for the unit.
// If u.Status is nil, status is disabled.
func NewStatusWriter(u cfg.UnitConfig) (StatusWriter, bool, error) {
	if u.Status == nil {
		return nil, false, nil
	}

	radio, err := sts.NewRadio(
		u.Source.Host,
		u.Source.Port,
		time.Duration(u.Source.TimeoutMs)*time.Millisecond,
	)
	if err != nil {
		return nil, false, err
	}

	return &unitStatusWriter{
		board:   radio,
		channel: u.Status.Channel,
		device:  u.Status.DeviceName,

		needFull: true, // full block write on first call (identity re-assert)
		last: status.Snapshot{
			Health: status.HealthUnknown,
		},
		now: func() int64 { return time.Now().Unix() },
	}, true, nil
}

// WriteStatus delivers a unit status snapshot onto the status channels.
// Unchanged snapshots are skipped once the block has landed; after any
// failure the next call re-asserts the full block.
func (sw *unitStatusWriter) WriteStatus(s status.Snapshot) error {
	if sw == nil || sw.board == nil {
		return errors.New("status writer: disabled")
	}

	if !sw.needFull && s == sw.last {
		return nil
	}

	data, err := status.Encode(sw.channel, sw.now(), sw.device, s)
	if err != nil {
		return err
	}

	if _, err := sw.board.Transmit(data); err != nil {
		sw.needFull = true
		return err
	}

	sw.needFull = false
	sw.last = s
	return nil
}
