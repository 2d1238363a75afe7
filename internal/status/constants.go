// internal/status/constants.go
package status

// Replicator status block layout.
// Offsets are relative to the unit's configured base channel and define the
// protocol between replicator and STS pages; they MUST NOT be configurable.

// ---- CHANNEL OFFSETS ----

// ChannelHealth holds the replicator health state (integer).
const ChannelHealth = 0

// ChannelLastError holds the last error code with a short reason text
// (integer_with_text).
const ChannelLastError = 1

// ChannelSecondsInError holds how long the unit has been unhealthy
// (integer, seconds).
const ChannelSecondsInError = 2

// ChannelDeviceName holds the configured device name (text).
const ChannelDeviceName = 3

// BlockChannels is the number of channels one status block occupies.
const BlockChannels = 4

// ---- HEALTH CODES ----

// HealthUnknown is the boot state before the first poll cycle.
const HealthUnknown int64 = 0

// HealthOK represents a healthy unit.
const HealthOK int64 = 1

// HealthError represents a unit whose last poll cycle failed.
const HealthError int64 = 2

// HealthStale marks data older than the poll interval allows.
const HealthStale int64 = 3

// HealthDisabled represents a disabled unit.
const HealthDisabled int64 = 4

// ---- ERROR CODES ----

// Error codes carried on ChannelLastError. 0 means no error.
const (
	ErrCodeNone       int64 = 0
	ErrCodeGeneric    int64 = 1
	ErrCodeTimeout    int64 = 2
	ErrCodeConnection int64 = 3
	ErrCodeMalformed  int64 = 4
	ErrCodeBadKind    int64 = 5
)

// SecondsInErrorMax caps the seconds counter so the channel value stays
// meaningful during long outages.
const SecondsInErrorMax int64 = 65535
