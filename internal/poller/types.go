// internal/poller/types.go
package poller

import (
	"time"

	"sts-replicator/internal/sts"
)

// ReadGroup is one batch of channel ids fetched in a single exchange.
type ReadGroup struct {
	IDs []int64
}

// PollResult carries everything one poll cycle produced.
type PollResult struct {
	UnitID string
	At     time.Time

	// Data holds the records of every read group, in the order the board
	// responded. Consumers match by channel id, never by position.
	Data []sts.Datum

	Err error // set when the cycle aborted; Data is nil then
}
