// internal/writer/recorder.go
package writer

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	cfg "sts-replicator/internal/config"
	"sts-replicator/internal/poller"
	"sts-replicator/internal/sts"
)

const samplesSchema = `
CREATE TABLE IF NOT EXISTS samples (
  unit_id   TEXT    NOT NULL,
  channel   INTEGER NOT NULL,
  ts        INTEGER NOT NULL,
  kind      TEXT    NOT NULL,
  int_val   INTEGER,
  float_val REAL,
  text_val  TEXT,
  stored_at TEXT    NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
);
CREATE INDEX IF NOT EXISTS idx_samples_channel_ts ON samples(channel, ts);
`

const insertSampleSQL = `
INSERT INTO samples (unit_id, channel, ts, kind, int_val, float_val, text_val)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

// recorder appends every received sample to a local SQLite file.
type recorder struct {
	db *sql.DB
}

func newRecorder(c cfg.SQLiteTargetConfig) (*recorder, error) {
	db, err := sql.Open("sqlite3", c.Path)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	if _, err := db.Exec(samplesSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}
	return &recorder{db: db}, nil
}

func (r *recorder) Name() string { return "sqlite" }

// Deliver stores the whole snapshot in one transaction: a cycle is recorded
// completely or not at all.
func (r *recorder) Deliver(res poller.PollResult) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	for _, d := range res.Data {
		intVal, floatVal, textVal := sampleColumns(d)
		if _, err := tx.Exec(insertSampleSQL,
			res.UnitID, d.ID(), d.Timestamp(), d.Kind().String(),
			intVal, floatVal, textVal,
		); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

func (r *recorder) Close() error { return r.db.Close() }

// sampleColumns maps a datum payload to nullable columns.
func sampleColumns(d sts.Datum) (intVal *int64, floatVal *float64, textVal *string) {
	switch d.Kind() {
	case sts.KindInteger:
		v := d.Int()
		intVal = &v
	case sts.KindFloat, sts.KindExponent:
		v := d.Float()
		floatVal = &v
	case sts.KindText:
		v := d.Text()
		textVal = &v
	case sts.KindIntegerWithText:
		iv, tv := d.Int(), d.Text()
		intVal, textVal = &iv, &tv
	case sts.KindFloatWithText:
		fv, tv := d.Float(), d.Text()
		floatVal, textVal = &fv, &tv
	}
	return intVal, floatVal, textVal
}
