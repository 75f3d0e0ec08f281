package app

import (
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/bft-labs/swimset/internal/domain"
)

// Batcher collects records until a size or time trigger says to ship them.
type Batcher struct {
	clock        clockwork.Clock
	records      []domain.Record
	maxBatchSize int
	sendInterval time.Duration
	lastSend     time.Time
}

// NewBatcher creates a new batcher with the given configuration.
func NewBatcher(clock clockwork.Clock, maxBatchSize int, sendInterval time.Duration) *Batcher {
	return &Batcher{
		clock:        clock,
		maxBatchSize: maxBatchSize,
		sendInterval: sendInterval,
		lastSend:     clock.Now(),
	}
}

// Add adds a record to the batch.
// Returns true if the batch should be sent after this add (size trigger).
func (b *Batcher) Add(r domain.Record) bool {
	b.records = append(b.records, r)
	return b.maxBatchSize > 0 && len(b.records) >= b.maxBatchSize
}

// ShouldSend returns true if the batch should be sent based on the time trigger.
func (b *Batcher) ShouldSend() bool {
	if len(b.records) == 0 {
		return false
	}
	return b.clock.Since(b.lastSend) >= b.sendInterval
}

// Records returns the pending records.
func (b *Batcher) Records() []domain.Record {
	return b.records
}

// Reset clears the batch and updates the last send time.
func (b *Batcher) Reset() {
	b.records = nil
	b.lastSend = b.clock.Now()
}

// HasPending returns true if there are records waiting to be sent.
func (b *Batcher) HasPending() bool {
	return len(b.records) > 0
}

// Len returns the number of pending records.
func (b *Batcher) Len() int {
	return len(b.records)
}
