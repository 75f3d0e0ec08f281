package domain

import (
	"fmt"
	"slices"
	"strings"
)

// AthleteID identifies an athlete. Athlete and group ids live in separate
// namespaces; see RestSubject.
type AthleteID string

// Status is the timer state of an athlete.
type Status int

const (
	StatusReady Status = iota
	StatusRunning
	StatusFinished
	StatusResting
)

// String returns the lowercase status name used in snapshots and output.
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusRunning:
		return "running"
	case StatusFinished:
		return "finished"
	case StatusResting:
		return "resting"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	if s < StatusReady || s > StatusResting {
		return nil, fmt.Errorf("marshal status %d: %w", int(s), ErrInvalidInput)
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "ready":
		*s = StatusReady
	case "running":
		*s = StatusRunning
	case "finished":
		*s = StatusFinished
	case "resting":
		*s = StatusResting
	default:
		return fmt.Errorf("unmarshal status %q: %w", string(b), ErrInvalidInput)
	}
	return nil
}

// Split is an intermediate time taken at a distance without stopping the clock.
type Split struct {
	Distance int    `json:"distance" yaml:"distance"`
	Time     Centis `json:"time" yaml:"time"`
}

// Athlete is a swimmer tracked by the engine.
type Athlete struct {
	ID       AthleteID `json:"id" yaml:"id"`
	Name     string    `json:"name" yaml:"name"`
	Lane     int       `json:"lane" yaml:"lane"`
	GroupID  GroupID   `json:"groupId" yaml:"group_id"`
	Time     Centis    `json:"time" yaml:"-"`
	Status   Status    `json:"status" yaml:"-"`
	Splits   []Split   `json:"splits" yaml:"-"`
	BestTime *Centis   `json:"bestTime,omitempty" yaml:"best_time,omitempty"`
}

// Clone returns a deep copy of a.
func (a Athlete) Clone() Athlete {
	a.Splits = slices.Clone(a.Splits)
	if a.BestTime != nil {
		best := *a.BestTime
		a.BestTime = &best
	}
	return a
}

// ResetRun puts the athlete back to the start of a repeat.
func (a *Athlete) ResetRun(status Status) {
	a.Time = 0
	a.Status = status
	a.Splits = nil
}

// ObserveFinish lowers BestTime to t when t is faster. An absent BestTime counts as infinitely slow.
func (a *Athlete) ObserveFinish(t Centis) {
	if a.BestTime == nil || t < *a.BestTime {
		best := t
		a.BestTime = &best
	}
}
