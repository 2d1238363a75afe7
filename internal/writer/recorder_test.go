// internal/writer/recorder_test.go
package writer

import (
	"testing"
	"time"

	cfg "sts-replicator/internal/config"
	"sts-replicator/internal/poller"
	"sts-replicator/internal/sts"
)

func setupRecorder(t *testing.T) *recorder {
	t.Helper()
	r, err := newRecorder(cfg.SQLiteTargetConfig{Path: ":memory:"})
	if err != nil {
		t.Fatalf("newRecorder err=%v", err)
	}
	t.Cleanup(func() {
		if err := r.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
	})
	return r
}

func TestRecorder_StoresAllKinds(t *testing.T) {
	r := setupRecorder(t)

	mk := func(d sts.Datum, err error) sts.Datum {
		t.Helper()
		if err != nil {
			t.Fatalf("datum: %v", err)
		}
		return d
	}

	res := poller.PollResult{
		UnitID: "u1",
		At:     time.Now(),
		Data: []sts.Datum{
			mk(sts.NewInteger(1090, 10, 42)),
			mk(sts.NewFloat(1091, 10, 3.14)),
			mk(sts.NewText(1092, 10, "hello")),
			mk(sts.NewIntegerWithText(1093, 10, 7, "units")),
			mk(sts.NewFloatWithText(1094, 10, 2.5, "V")),
			mk(sts.NewExponent(1095, 10, 1e-9)),
		},
	}

	if err := r.Deliver(res); err != nil {
		t.Fatalf("Deliver err=%v", err)
	}

	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM samples`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != len(res.Data) {
		t.Fatalf("expected %d rows, got %d", len(res.Data), count)
	}

	var kind, text string
	var intVal int64
	row := r.db.QueryRow(`SELECT kind, int_val, text_val FROM samples WHERE channel = 1093`)
	if err := row.Scan(&kind, &intVal, &text); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if kind != "integer_with_text" || intVal != 7 || text != "units" {
		t.Fatalf("bad row: kind=%q int=%d text=%q", kind, intVal, text)
	}

	var floatVal float64
	row = r.db.QueryRow(`SELECT float_val FROM samples WHERE channel = 1095`)
	if err := row.Scan(&floatVal); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if floatVal != 1e-9 {
		t.Fatalf("bad exponent value: %g", floatVal)
	}
}

func TestRecorder_SecondDeliveryAppends(t *testing.T) {
	r := setupRecorder(t)

	d, err := sts.NewInteger(1090, 10, 1)
	if err != nil {
		t.Fatalf("datum: %v", err)
	}
	res := poller.PollResult{UnitID: "u1", At: time.Now(), Data: []sts.Datum{d}}

	if err := r.Deliver(res); err != nil {
		t.Fatalf("Deliver err=%v", err)
	}
	if err := r.Deliver(res); err != nil {
		t.Fatalf("Deliver err=%v", err)
	}

	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM samples WHERE channel = 1090`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 rows, got %d", count)
	}
}
