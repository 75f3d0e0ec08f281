package domain

import (
	"slices"
	"time"
)

// RecordID identifies a record.
type RecordID string

// Record is an immutable result. Rank is set when the finish came through the
// finish queue and nil for a direct single-athlete finish.
type Record struct {
	ID           RecordID  `json:"id"`
	AthleteID    AthleteID `json:"athleteId"`
	AthleteName  string    `json:"athleteName"`
	Lane         int       `json:"lane"`
	GroupID      GroupID   `json:"groupId"`
	GroupName    string    `json:"groupName"`
	SessionID    SessionID `json:"sessionId"`
	SessionName  string    `json:"sessionName"`
	SessionIndex int       `json:"sessionIndex"`
	Distance     int       `json:"distance"`
	Stroke       Stroke    `json:"stroke"`
	SetNumber    int       `json:"setNumber"`
	Time         Centis    `json:"rawTime"`
	Rank         *int      `json:"rank,omitempty"`
	Splits       []Split   `json:"splits"`
	TargetTime   *Centis   `json:"targetTime,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	r.Splits = slices.Clone(r.Splits)
	if r.Rank != nil {
		rank := *r.Rank
		r.Rank = &rank
	}
	if r.TargetTime != nil {
		t := *r.TargetTime
		r.TargetTime = &t
	}
	return r
}

// RecordGroup is the records of one set of one session, in result order.
type RecordGroup struct {
	SessionName  string
	SessionIndex int
	Distance     int
	Stroke       Stroke
	SetNumber    int
	Records      []Record
}

// TargetComparison relates a finish time to a session target.
type TargetComparison struct {
	Faster     bool
	Difference Centis
	Percentage float64
}

// CompareToTarget compares t against target. It returns false when there is no usable target.
func CompareToTarget(t Centis, target *Centis) (TargetComparison, bool) {
	if target == nil || *target <= 0 {
		return TargetComparison{}, false
	}
	diff := t - *target
	abs := diff
	if abs < 0 {
		abs = -abs
	}
	return TargetComparison{
		Faster:     diff < 0,
		Difference: abs,
		Percentage: float64(abs) * 100 / float64(*target),
	}, true
}
