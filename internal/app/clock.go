package app

import (
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/bft-labs/swimset/internal/ports"
)

// Default clock configuration values.
const (
	DefaultTickInterval = 10 * time.Millisecond
	DefaultMaxCatchUp   = 100
)

// TimerClock converts wall time into whole ticks. Each tick is one logical
// unit regardless of how late the caller woke up; the remainder of a partial
// period is carried to the next call.
type TimerClock struct {
	clock      clockwork.Clock
	interval   time.Duration
	maxCatchUp int
	last       time.Time
	logger     ports.Logger
	subs       []func()
}

// NewTimerClock creates a clock anchored at the current time of c.
func NewTimerClock(c clockwork.Clock, interval time.Duration, maxCatchUp int, logger ports.Logger) *TimerClock {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	if maxCatchUp <= 0 {
		maxCatchUp = DefaultMaxCatchUp
	}
	return &TimerClock{
		clock:      c,
		interval:   interval,
		maxCatchUp: maxCatchUp,
		last:       c.Now(),
		logger:     logger,
	}
}

// Interval returns the nominal tick period.
func (t *TimerClock) Interval() time.Duration {
	return t.interval
}

// Subscribe registers fn to be called once per tick, in registration order.
func (t *TimerClock) Subscribe(fn func()) {
	t.subs = append(t.subs, fn)
}

// Due returns how many ticks are owed since the last call. At most maxCatchUp
// are returned; older periods are dropped.
func (t *TimerClock) Due() int {
	now := t.clock.Now()
	elapsed := now.Sub(t.last)
	if elapsed < t.interval {
		return 0
	}
	n := int(elapsed / t.interval)
	t.last = t.last.Add(time.Duration(n) * t.interval)
	if n > t.maxCatchUp {
		t.logger.Warn("clock fell behind, dropping ticks",
			ports.Int("due", n),
			ports.Int("dropped", n-t.maxCatchUp),
		)
		n = t.maxCatchUp
	}
	return n
}

// Fire delivers n ticks to every subscriber.
func (t *TimerClock) Fire(n int) {
	for range n {
		for _, fn := range t.subs {
			fn()
		}
	}
}

// Advance fires every tick that is due and returns how many were fired.
func (t *TimerClock) Advance() int {
	n := t.Due()
	t.Fire(n)
	return n
}

// Ticker returns a clockwork ticker at the nominal period.
func (t *TimerClock) Ticker() clockwork.Ticker {
	return t.clock.NewTicker(t.interval)
}
