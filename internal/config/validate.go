// internal/config/validate.go
package config

import (
	"fmt"

	"sts-replicator/internal/sts"
)

// Validate rejects malformed configuration before anything is built.
// It only inspects; defaults are Normalize's job.
func Validate(cfg *Config) error {
	if len(cfg.Replicator.Units) == 0 {
		return fmt.Errorf("no units defined")
	}

	seen := make(map[string]struct{})

	// key = source endpoint | status channel
	statusOwner := make(map[string]string)

	for _, u := range cfg.Replicator.Units {
		if u.ID == "" {
			return fmt.Errorf("unit without id")
		}
		if _, dup := seen[u.ID]; dup {
			return fmt.Errorf("duplicate unit id %q", u.ID)
		}
		seen[u.ID] = struct{}{}

		if u.Source.Port < 0 || u.Source.Port > 65535 {
			return fmt.Errorf("unit %q: source port %d out of range", u.ID, u.Source.Port)
		}
		if u.Source.TimeoutMs < 0 {
			return fmt.Errorf("unit %q: negative source timeout_ms", u.ID)
		}
		if u.Poll.IntervalMs < 0 {
			return fmt.Errorf("unit %q: negative poll interval_ms", u.ID)
		}

		if len(u.Reads) == 0 {
			return fmt.Errorf("unit %q: at least one read group required", u.ID)
		}
		for gi, g := range u.Reads {
			if len(g.IDs) == 0 {
				return fmt.Errorf("unit %q: read group %d has no ids", u.ID, gi)
			}
			for _, id := range g.IDs {
				if id < 0 || id > sts.MaxID {
					return fmt.Errorf("unit %q: channel id %d outside 0..%d", u.ID, id, sts.MaxID)
				}
			}
		}

		for ti, t := range u.Targets {
			n := 0
			if t.STS != nil {
				n++
				if t.STS.Port < 0 || t.STS.Port > 65535 {
					return fmt.Errorf("unit %q: target %d: sts port %d out of range", u.ID, ti, t.STS.Port)
				}
				if t.STS.TimeoutMs < 0 {
					return fmt.Errorf("unit %q: target %d: negative sts timeout_ms", u.ID, ti)
				}
			}
			if t.MQTT != nil {
				n++
				if t.MQTT.Broker == "" {
					return fmt.Errorf("unit %q: target %d: mqtt broker required", u.ID, ti)
				}
				if t.MQTT.Topic == "" {
					return fmt.Errorf("unit %q: target %d: mqtt topic required", u.ID, ti)
				}
			}
			if t.SQLite != nil {
				n++
				if t.SQLite.Path == "" {
					return fmt.Errorf("unit %q: target %d: sqlite path required", u.ID, ti)
				}
			}
			if n != 1 {
				return fmt.Errorf("unit %q: target %d must set exactly one of sts/mqtt/sqlite", u.ID, ti)
			}
		}

		// no status block configured
		if u.Status == nil {
			continue
		}

		if u.Status.Channel < 0 || u.Status.Channel > sts.MaxID {
			return fmt.Errorf("unit %q: status channel %d outside 0..%d", u.ID, u.Status.Channel, sts.MaxID)
		}
		for i := 0; i < len(u.Status.DeviceName); i++ {
			if u.Status.DeviceName[i] > 0x7F {
				return fmt.Errorf("unit %q: device_name must contain ASCII characters only", u.ID)
			}
		}

		key := fmt.Sprintf("%s:%d|%d", u.Source.Host, u.Source.Port, u.Status.Channel)
		if prev, exists := statusOwner[key]; exists {
			return fmt.Errorf(
				"status channel collision: board=%s:%d channel=%d used by units %q and %q",
				u.Source.Host, u.Source.Port, u.Status.Channel, prev, u.ID,
			)
		}
		statusOwner[key] = u.ID
	}

	return nil
}
