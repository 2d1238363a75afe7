// internal/writer/writer_test.go
package writer

import (
	"errors"
	"strings"
	"testing"
	"time"

	"sts-replicator/internal/poller"
	"sts-replicator/internal/sts"
)

// ---- fake target ----

type fakeTarget struct {
	name      string
	failWith  error
	delivered []poller.PollResult
}

func (f *fakeTarget) Name() string { return f.name }

func (f *fakeTarget) Deliver(res poller.PollResult) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.delivered = append(f.delivered, res)
	return nil
}

func (f *fakeTarget) Close() error { return nil }

func testResult(t *testing.T, ids ...int64) poller.PollResult {
	t.Helper()
	data := make([]sts.Datum, 0, len(ids))
	for _, id := range ids {
		d, err := sts.NewInteger(id, 0, 1)
		if err != nil {
			t.Fatalf("NewInteger err=%v", err)
		}
		data = append(data, d)
	}
	return poller.PollResult{UnitID: "u1", At: time.Now(), Data: data}
}

// ---- tests ----

func TestWriter_FanOut(t *testing.T) {
	a := &fakeTarget{name: "a"}
	b := &fakeTarget{name: "b"}
	w := New("u1", []Target{a, b})

	res := testResult(t, 1090, 1091)
	if err := w.Write(res); err != nil {
		t.Fatalf("Write err=%v", err)
	}

	if len(a.delivered) != 1 || len(b.delivered) != 1 {
		t.Fatalf("expected one delivery per target, got a=%d b=%d", len(a.delivered), len(b.delivered))
	}
	if len(a.delivered[0].Data) != 2 {
		t.Fatalf("expected 2 records, got %d", len(a.delivered[0].Data))
	}
}

func TestWriter_OneFailureDoesNotBlockOthers(t *testing.T) {
	a := &fakeTarget{name: "a", failWith: errors.New("broker down")}
	b := &fakeTarget{name: "b"}
	w := New("u1", []Target{a, b})

	err := w.Write(testResult(t, 1090))
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "target=a") {
		t.Fatalf("error does not name failed target: %v", err)
	}
	if len(b.delivered) != 1 {
		t.Fatalf("healthy target skipped")
	}
}

func TestWriter_AllFailuresJoined(t *testing.T) {
	a := &fakeTarget{name: "a", failWith: errors.New("x")}
	b := &fakeTarget{name: "b", failWith: errors.New("y")}
	w := New("u1", []Target{a, b})

	err := w.Write(testResult(t, 1090))
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "target=a") || !strings.Contains(err.Error(), "target=b") {
		t.Fatalf("joined error incomplete: %v", err)
	}
}

func TestWriter_FailedCycleNotDelivered(t *testing.T) {
	a := &fakeTarget{name: "a"}
	w := New("u1", []Target{a})

	res := poller.PollResult{UnitID: "u1", Err: errors.New("poll failed")}
	if err := w.Write(res); err != nil {
		t.Fatalf("Write err=%v", err)
	}
	if len(a.delivered) != 0 {
		t.Fatalf("failed cycle must not be delivered")
	}
}

func TestWriter_EmptyCycleSkipped(t *testing.T) {
	a := &fakeTarget{name: "a"}
	w := New("u1", []Target{a})

	if err := w.Write(poller.PollResult{UnitID: "u1"}); err != nil {
		t.Fatalf("Write err=%v", err)
	}
	if len(a.delivered) != 0 {
		t.Fatalf("empty cycle must not be delivered")
	}
}
