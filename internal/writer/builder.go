// internal/writer/builder.go
package writer

import (
	"fmt"

	cfg "sts-replicator/internal/config"
)

// Build constructs one Target per configured destination.
// Assumes config has already passed validation.
func Build(u cfg.UnitConfig) ([]Target, func() error, error) {
	var targets []Target
	var closers []func() error

	abort := func(err error) ([]Target, func() error, error) {
		for _, fn := range closers {
			_ = fn()
		}
		return nil, nil, err
	}

	for ti, t := range u.Targets {
		switch {
		case t.STS != nil:
			tgt, err := newSTSTarget(*t.STS)
			if err != nil {
				return abort(fmt.Errorf("target %d: %w", ti, err))
			}
			targets = append(targets, tgt)
			closers = append(closers, tgt.Close)

		case t.MQTT != nil:
			tgt, err := newMQTTTarget(*t.MQTT)
			if err != nil {
				return abort(fmt.Errorf("target %d: %w", ti, err))
			}
			targets = append(targets, tgt)
			closers = append(closers, tgt.Close)

		case t.SQLite != nil:
			tgt, err := newRecorder(*t.SQLite)
			if err != nil {
				return abort(fmt.Errorf("target %d: %w", ti, err))
			}
			targets = append(targets, tgt)
			closers = append(closers, tgt.Close)

		default:
			return abort(fmt.Errorf("target %d: no destination set", ti))
		}
	}

	closeAll := func() error {
		var last error
		for _, fn := range closers {
			if err := fn(); err != nil {
				last = err
			}
		}
		return last
	}

	return targets, closeAll, nil
}
