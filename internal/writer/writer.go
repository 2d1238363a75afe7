// internal/writer/writer.go
package writer

import (
	"errors"
	"fmt"
	"strings"

	"sts-replicator/internal/poller"
)

type writerImpl struct {
	unitID  string
	targets []Target
}

func New(unitID string, targets []Target) Writer {
	return &writerImpl{
		unitID:  unitID,
		targets: targets,
	}
}

// Write fans one snapshot out to every target. Failed cycles carry no data
// and are not delivered. A target failure never blocks the others; all
// failures are collected and joined.
func (w *writerImpl) Write(res poller.PollResult) error {
	if res.Err != nil {
		return nil
	}
	if len(res.Data) == 0 {
		return nil
	}

	var errs []string

	for _, tgt := range w.targets {
		if err := tgt.Deliver(res); err != nil {
			errs = append(errs, fmt.Sprintf(
				"writer: unit=%s target=%s err=%v",
				w.unitID, tgt.Name(), err,
			))
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, " | "))
	}

	return nil
}
