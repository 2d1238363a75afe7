// internal/writer/types.go
package writer

import (
	"sts-replicator/internal/poller"
	"sts-replicator/internal/status"
)

// Target delivers one poll snapshot to a single destination. Targets own
// their connection lifecycle; Close releases whatever the target holds.
type Target interface {
	Name() string
	Deliver(res poller.PollResult) error
	Close() error
}

// Writer writes poll snapshots into all configured targets.
type Writer interface {
	Write(res poller.PollResult) error
}

// StatusWriter puts a unit status snapshot on the board. It delivers what
// it is handed; deciding what the snapshot should say is the caller's job.
type StatusWriter interface {
	WriteStatus(s status.Snapshot) error
}
