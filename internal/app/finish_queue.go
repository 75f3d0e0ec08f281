package app

import (
	"fmt"
	"slices"
	"time"

	"github.com/samber/lo"

	"github.com/bft-labs/swimset/internal/domain"
)

// FinishQueue buffers quick-finish rank assignments until they are confirmed.
// Ranks always form the contiguous sequence 1..Len().
type FinishQueue struct {
	entries  []domain.FinishEntry
	nextRank int
}

// NewFinishQueue creates an empty queue whose next rank is 1.
func NewFinishQueue() *FinishQueue {
	return &FinishQueue{nextRank: 1}
}

// Add queues the athlete with a snapshot of its current time and splits.
// It returns false without changes if the athlete is finished or already queued.
func (q *FinishQueue) Add(a *domain.Athlete, at time.Time) bool {
	if a.Status == domain.StatusFinished || q.Contains(a.ID) {
		return false
	}
	q.entries = append(q.entries, domain.FinishEntry{
		AthleteID: a.ID,
		Rank:      q.nextRank,
		Time:      a.Time,
		Splits:    slices.Clone(a.Splits),
		QueuedAt:  at,
	})
	q.nextRank++
	return true
}

// Remove deletes the athlete's entry and renumbers the rest from 1 in their existing order.
func (q *FinishQueue) Remove(id domain.AthleteID) error {
	i := slices.IndexFunc(q.entries, func(e domain.FinishEntry) bool { return e.AthleteID == id })
	if i < 0 {
		return fmt.Errorf("dequeue %s: %w", id, domain.ErrNotQueued)
	}
	q.entries = slices.Delete(q.entries, i, i+1)
	for i := range q.entries {
		q.entries[i].Rank = i + 1
	}
	q.nextRank = len(q.entries) + 1
	return nil
}

// Contains reports whether the athlete is queued.
func (q *FinishQueue) Contains(id domain.AthleteID) bool {
	return lo.ContainsBy(q.entries, func(e domain.FinishEntry) bool { return e.AthleteID == id })
}

// Entries returns a copy of the queued entries in rank order.
func (q *FinishQueue) Entries() []domain.FinishEntry {
	return lo.Map(q.entries, func(e domain.FinishEntry, _ int) domain.FinishEntry { return e.Clone() })
}

// Len returns the number of queued entries.
func (q *FinishQueue) Len() int {
	return len(q.entries)
}

// NextRank returns the rank the next Add will assign.
func (q *FinishQueue) NextRank() int {
	return q.nextRank
}

// Reset empties the queue and restarts ranking at 1.
func (q *FinishQueue) Reset() {
	q.entries = nil
	q.nextRank = 1
}
