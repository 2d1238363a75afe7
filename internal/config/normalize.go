// internal/config/normalize.go
package config

import "sts-replicator/internal/sts"

const (
	defaultTimeoutMs  = 5000
	defaultIntervalMs = 1000

	// DeviceNameMaxChars is the maximum device name length carried in the
	// status block text channel.
	DeviceNameMaxChars = 16
)

// Normalize fills defaults and trims oversized fields in place. Call it
// after Validate; it assumes the config is already well formed.
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	for ui := range cfg.Replicator.Units {
		u := &cfg.Replicator.Units[ui]

		if u.Source.Host == "" {
			u.Source.Host = sts.DefaultHost
		}
		if u.Source.Port == 0 {
			u.Source.Port = sts.DefaultPort
		}
		if u.Source.TimeoutMs == 0 {
			u.Source.TimeoutMs = defaultTimeoutMs
		}
		if u.Poll.IntervalMs == 0 {
			u.Poll.IntervalMs = defaultIntervalMs
		}

		for ti := range u.Targets {
			t := &u.Targets[ti]

			if t.STS != nil {
				if t.STS.Port == 0 {
					t.STS.Port = sts.DefaultPort
				}
				if t.STS.TimeoutMs == 0 {
					t.STS.TimeoutMs = u.Source.TimeoutMs
				}
			}
			if t.MQTT != nil && t.MQTT.ClientID == "" {
				t.MQTT.ClientID = "sts-replicator-" + u.ID
			}
		}

		// Status device name is carried on a text channel; keep it short.
		if u.Status != nil && len(u.Status.DeviceName) > DeviceNameMaxChars {
			u.Status.DeviceName = u.Status.DeviceName[:DeviceNameMaxChars]
		}
	}
}
