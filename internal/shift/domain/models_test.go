package domain

import (
	"testing"
	"time"
)

func TestShiftLifecycleFlags(t *testing.T) {
	var missing *Shift
	if missing.Started() || missing.Active() || missing.Ended() {
		t.Fatalf("nil shift must report nothing")
	}

	now := time.Now().UTC()
	shift := &Shift{}
	if shift.Active() {
		t.Fatalf("unstarted shift must not be active")
	}
	shift.StartedAt = &now
	if !shift.Active() {
		t.Fatalf("started shift must be active")
	}
	shift.EndedAt = &now
	if shift.Active() || !shift.Ended() {
		t.Fatalf("ended shift must not be active")
	}
}

func TestPauseDuration(t *testing.T) {
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(7 * time.Minute)

	open := Pause{StartedAt: start}
	if got := open.Duration(start.Add(3 * time.Minute)); got != 3*time.Minute {
		t.Fatalf("expected 3m, got %s", got)
	}
	if got := open.Duration(start.Add(-time.Minute)); got != 0 {
		t.Fatalf("expected clamp to zero, got %s", got)
	}

	closed := Pause{StartedAt: start, EndedAt: &end}
	if got := closed.Duration(start.Add(time.Hour)); got != 7*time.Minute {
		t.Fatalf("expected 7m, got %s", got)
	}
}
