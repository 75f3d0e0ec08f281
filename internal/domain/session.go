package domain

import (
	"fmt"
	"strings"
)

// SessionID identifies a session.
type SessionID string

// Stroke is the swimming stroke of a session.
type Stroke string

const (
	StrokeFreestyle    Stroke = "freestyle"
	StrokeBackstroke   Stroke = "backstroke"
	StrokeBreaststroke Stroke = "breaststroke"
	StrokeButterfly    Stroke = "butterfly"
	StrokeMedley       Stroke = "medley"
)

// ParseStroke validates a stroke name.
func ParseStroke(s string) (Stroke, error) {
	switch st := Stroke(strings.ToLower(strings.TrimSpace(s))); st {
	case StrokeFreestyle, StrokeBackstroke, StrokeBreaststroke, StrokeButterfly, StrokeMedley:
		return st, nil
	default:
		return "", fmt.Errorf("unknown stroke %q: %w", s, ErrInvalidInput)
	}
}

// RestMode selects how rest countdowns are started.
type RestMode string

const (
	// RestIndividual starts one countdown per athlete as they finish.
	RestIndividual RestMode = "individual"
	// RestGroup starts one shared countdown once a whole group has finished.
	RestGroup RestMode = "group"
)

// ParseRestMode validates a rest mode name.
func ParseRestMode(s string) (RestMode, error) {
	switch m := RestMode(strings.ToLower(strings.TrimSpace(s))); m {
	case RestIndividual, RestGroup:
		return m, nil
	default:
		return "", fmt.Errorf("unknown rest mode %q: %w", s, ErrInvalidInput)
	}
}

// Session is one block of repeats: a distance and stroke swum TotalSets times.
type Session struct {
	ID            SessionID `json:"id" yaml:"id"`
	Name          string    `json:"name" yaml:"name"`
	Distance      int       `json:"distance" yaml:"distance"`
	Stroke        Stroke    `json:"stroke" yaml:"stroke"`
	TotalSets     int       `json:"sets" yaml:"sets"`
	CurrentSet    int       `json:"currentSet" yaml:"-"`
	RestSeconds   int       `json:"restDuration" yaml:"rest_seconds"`
	RestMode      RestMode  `json:"restMode" yaml:"rest_mode"`
	RestAutoStart bool      `json:"restAutoStart" yaml:"rest_auto_start"`
	TargetTime    *Centis   `json:"targetTime" yaml:"target_time,omitempty"`
}

// NewSession returns a session with the defaults used when an operator adds one.
func NewSession(id SessionID) Session {
	return Session{
		ID:          id,
		Distance:    50,
		Stroke:      StrokeFreestyle,
		TotalSets:   1,
		CurrentSet:  1,
		RestSeconds: 60,
		RestMode:    RestIndividual,
	}
}

// Named reports whether the session has a non-blank name.
func (s Session) Named() bool {
	return strings.TrimSpace(s.Name) != ""
}

// RestDuration returns the configured rest as Centis.
func (s Session) RestDuration() Centis {
	return Seconds(s.RestSeconds)
}

// Clone returns a deep copy of s.
func (s Session) Clone() Session {
	if s.TargetTime != nil {
		t := *s.TargetTime
		s.TargetTime = &t
	}
	return s
}

// Normalize clamps numeric fields into their valid ranges.
func (s *Session) Normalize() {
	s.Distance = max(s.Distance, 1)
	s.TotalSets = max(s.TotalSets, 1)
	s.RestSeconds = max(s.RestSeconds, 0)
	s.CurrentSet = min(max(s.CurrentSet, 1), s.TotalSets)
	if s.Stroke == "" {
		s.Stroke = StrokeFreestyle
	}
	if s.RestMode == "" {
		s.RestMode = RestIndividual
	}
}
