package app

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestTimerClock_Due(t *testing.T) {
	fc := clockwork.NewFakeClockAt(epoch)
	logger := &mockLogger{}
	tc := NewTimerClock(fc, 10*time.Millisecond, 5, logger)

	steps := []struct {
		advance time.Duration
		want    int
	}{
		{5 * time.Millisecond, 0},
		{20 * time.Millisecond, 2},
		{5 * time.Millisecond, 1},
		{9 * time.Millisecond, 0},
		{time.Second, 5},
		{10 * time.Millisecond, 1},
	}
	for i, s := range steps {
		fc.Advance(s.advance)
		if got := tc.Due(); got != s.want {
			t.Fatalf("step %d: Due() = %d, want %d", i, got, s.want)
		}
	}
	if len(logger.Warnings()) != 1 {
		t.Errorf("warnings = %v, want one for the dropped ticks", logger.Warnings())
	}
}

func TestTimerClock_FireDeliversEachTickInOrder(t *testing.T) {
	fc := clockwork.NewFakeClock()
	tc := NewTimerClock(fc, 0, 0, &mockLogger{})
	if tc.Interval() != DefaultTickInterval {
		t.Errorf("Interval() = %v, want default", tc.Interval())
	}

	var order []string
	tc.Subscribe(func() { order = append(order, "a") })
	tc.Subscribe(func() { order = append(order, "b") })

	fc.Advance(30 * time.Millisecond)
	if n := tc.Advance(); n != 3 {
		t.Fatalf("Advance() = %d, want 3", n)
	}
	want := "ababab"
	got := ""
	for _, s := range order {
		got += s
	}
	if got != want {
		t.Errorf("order = %s, want %s", got, want)
	}
}
