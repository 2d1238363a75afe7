// internal/status/snapshot.go
package status

// Snapshot is the unit state the status block reports: current health and
// the most recent error, nothing historical beyond the seconds counter.
type Snapshot struct {
	Health         int64
	LastErrorCode  int64
	LastErrorText  string
	SecondsInError int64
}
