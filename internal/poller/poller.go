// internal/poller/poller.go
package poller

import (
	"errors"
	"time"

	"sts-replicator/internal/sts"
)

// Client is the single board operation the poller depends on. A
// *sts.Radio satisfies it directly.
type Client interface {
	Receive(ids []int64) ([]sts.Datum, error)
}

// Config carries the immutable per-unit poll settings.
type Config struct {
	UnitID   string
	Interval time.Duration
	Reads    []ReadGroup
}

// Poller reads the configured id groups from one board on a fixed clock.
// It holds no state between cycles.
type Poller struct {
	cfg    Config
	client Client
}

func New(cfg Config, client Client) (*Poller, error) {
	switch {
	case cfg.UnitID == "":
		return nil, errors.New("poller: unit id required")
	case cfg.Interval <= 0:
		return nil, errors.New("poller: interval must be > 0")
	case len(cfg.Reads) == 0:
		return nil, errors.New("poller: at least one read group required")
	case client == nil:
		return nil, errors.New("poller: client required")
	}
	return &Poller{cfg: cfg, client: client}, nil
}

// PollOnce runs a single cycle: every read group in order, one Receive
// per group. A cycle is all-or-nothing; the first failing group aborts
// it and no partial data is reported.
func (p *Poller) PollOnce() PollResult {
	res := PollResult{UnitID: p.cfg.UnitID, At: time.Now()}

	total := 0
	for _, g := range p.cfg.Reads {
		total += len(g.IDs)
	}

	data := make([]sts.Datum, 0, total)
	for _, g := range p.cfg.Reads {
		got, err := p.client.Receive(g.IDs)
		if err != nil {
			res.Err = err
			return res
		}
		data = append(data, got...)
	}

	res.Data = data
	return res
}
