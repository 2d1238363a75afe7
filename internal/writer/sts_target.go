// internal/writer/sts_target.go
package writer

import (
	"time"

	cfg "sts-replicator/internal/config"
	"sts-replicator/internal/poller"
	"sts-replicator/internal/sts"
)

// stsTarget mirrors received records onto another STS board, optionally
// shifting channel ids so mirrored data lands in its own channel range.
type stsTarget struct {
	radio  *sts.Radio
	offset int64
}

func newSTSTarget(c cfg.STSTargetConfig) (*stsTarget, error) {
	radio, err := sts.NewRadio(
		c.Host,
		c.Port,
		time.Duration(c.TimeoutMs)*time.Millisecond,
	)
	if err != nil {
		return nil, err
	}
	return &stsTarget{radio: radio, offset: c.IDOffset}, nil
}

func (t *stsTarget) Name() string { return "sts" }

func (t *stsTarget) Deliver(res poller.PollResult) error {
	data := res.Data

	if t.offset != 0 {
		shifted := make([]sts.Datum, 0, len(data))
		for _, d := range data {
			nd, err := d.WithID(d.ID() + t.offset)
			if err != nil {
				return err
			}
			shifted = append(shifted, nd)
		}
		data = shifted
	}

	_, err := t.radio.Transmit(data)
	return err
}

// Close is a no-op: the Radio holds no socket between calls.
func (t *stsTarget) Close() error { return nil }
