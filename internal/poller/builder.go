// internal/poller/builder.go
package poller

import (
	"time"

	cfg "sts-replicator/internal/config"
	"sts-replicator/internal/sts"
)

// Build constructs a Poller over a Radio for the unit's source board.
// The Radio dials per call, so there is no connection lifecycle to manage
// here: a dead board surfaces as a failed cycle and the next tick retries
// naturally.
func Build(u cfg.UnitConfig) (*Poller, error) {
	radio, err := sts.NewRadio(
		u.Source.Host,
		u.Source.Port,
		time.Duration(u.Source.TimeoutMs)*time.Millisecond,
	)
	if err != nil {
		return nil, err
	}

	reads := make([]ReadGroup, 0, len(u.Reads))
	for _, r := range u.Reads {
		reads = append(reads, ReadGroup{IDs: r.IDs})
	}

	return New(
		Config{
			UnitID:   u.ID,
			Interval: time.Duration(u.Poll.IntervalMs) * time.Millisecond,
			Reads:    reads,
		},
		radio,
	)
}
