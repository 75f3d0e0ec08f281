package domain

import (
	"slices"
	"time"
)

// FinishEntry is a pending rank assignment captured by a quick finish.
// Time and Splits are snapshots taken when the entry was queued.
type FinishEntry struct {
	AthleteID AthleteID `json:"athleteId"`
	Rank      int       `json:"rank"`
	Time      Centis    `json:"time"`
	Splits    []Split   `json:"splits"`
	QueuedAt  time.Time `json:"timestamp"`
}

// Clone returns a deep copy of e.
func (e FinishEntry) Clone() FinishEntry {
	e.Splits = slices.Clone(e.Splits)
	return e
}
