// internal/config/config.go
package config

type Config struct {
	Replicator ReplicatorConfig `yaml:"replicator"`
}

type ReplicatorConfig struct {
	Units []UnitConfig `yaml:"units"`
}

// ---- UNIT ----

type UnitConfig struct {
	ID      string         `yaml:"id"`
	Source  SourceConfig   `yaml:"source"`
	Reads   []ReadConfig   `yaml:"reads"`
	Poll    PollConfig     `yaml:"poll"`
	Status  *StatusConfig  `yaml:"status"`
	Targets []TargetConfig `yaml:"targets"`
}

// ---- SOURCE ----

type SourceConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// ---- READ GROUPS ----

// ReadConfig is one batch of channel ids fetched in a single exchange.
type ReadConfig struct {
	IDs []int64 `yaml:"ids"`
}

// ---- POLL ----

type PollConfig struct {
	IntervalMs int `yaml:"interval_ms"`
}

// ---- STATUS (optional, opt-in) ----

// StatusConfig enables writing replicator health back to the source board
// on a reserved channel block.
type StatusConfig struct {
	Channel    int64  `yaml:"channel"`
	DeviceName string `yaml:"device_name"`
}

// ---- TARGETS ----

// TargetConfig holds exactly one destination kind.
type TargetConfig struct {
	STS    *STSTargetConfig    `yaml:"sts"`
	MQTT   *MQTTTargetConfig   `yaml:"mqtt"`
	SQLite *SQLiteTargetConfig `yaml:"sqlite"`
}

type STSTargetConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	TimeoutMs int    `yaml:"timeout_ms"`
	IDOffset  int64  `yaml:"id_offset"`
}

type MQTTTargetConfig struct {
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
	Topic    string `yaml:"topic"`
}

type SQLiteTargetConfig struct {
	Path string `yaml:"path"`
}
