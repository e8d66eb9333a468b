package timeutil

import (
	"testing"
	"time"
)

func TestRealClock_Now(t *testing.T) {
	clock := RealClock{}

	before := time.Now()
	got := clock.Now()
	after := time.Now()

	if got.Before(before.Add(-time.Second)) || got.After(after.Add(time.Second)) {
		t.Errorf("Now() = %v, want between %v and %v", got, before, after)
	}
	if got.Location() != time.UTC {
		t.Errorf("Now() location = %v, want UTC", got.Location())
	}
}

func TestRealClock_Since(t *testing.T) {
	clock := RealClock{}
	start := time.Now().Add(-time.Minute)
	if d := clock.Since(start); d < time.Minute {
		t.Errorf("Since() = %v, want >= 1m", d)
	}
}

func TestMockClock(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := NewMockClock(start)

	if !clock.Now().Equal(start) {
		t.Errorf("Now() = %v, want %v", clock.Now(), start)
	}

	clock.Advance(90 * time.Second)
	if got := clock.Since(start); got != 90*time.Second {
		t.Errorf("Since() = %v, want 1m30s", got)
	}

	later := start.Add(24 * time.Hour)
	clock.Set(later)
	if !clock.Now().Equal(later) {
		t.Errorf("Now() after Set = %v, want %v", clock.Now(), later)
	}
}

func TestClockInterface(t *testing.T) {
	var _ Clock = RealClock{}
	var _ Clock = &MockClock{}
}
