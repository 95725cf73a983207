package clock

import (
	"testing"
	"time"
)

func TestFakeClockAdvance(t *testing.T) {
	start := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	c := NewFakeClock(start)

	c.Advance(90 * time.Second)
	if got := c.Now(); !got.Equal(start.Add(90 * time.Second)) {
		t.Fatalf("expected %s, got %s", start.Add(90*time.Second), got)
	}

	c.Set(start)
	if !c.Now().Equal(start) {
		t.Fatalf("expected reset to %s", start)
	}
}
