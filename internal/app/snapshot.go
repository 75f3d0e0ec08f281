package app

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/bft-labs/swimset/internal/domain"
)

// Export returns the athletes, groups, sessions and records as one value.
// Every slice in the result is non-nil.
func (e *Engine) Export() domain.Snapshot {
	return domain.Snapshot{
		Athletes:  e.Athletes(),
		Groups:    e.Groups(),
		Sessions:  e.Sessions(),
		Records:   e.Records(),
		Timestamp: e.clock.Now(),
	}
}

// Import replaces state from a snapshot. Each field is applied only when
// present (non-nil). A present but empty group or session list is rejected
// and nothing changes. The finish queue and rest countdowns are cleared;
// athletes saved while resting come back finished. Broken group references
// are logged, not repaired.
func (e *Engine) Import(snap domain.Snapshot) error {
	if snap.Groups != nil && len(snap.Groups) == 0 {
		return e.reject("import", fmt.Errorf("snapshot has no groups: %w", domain.ErrInvalidInput))
	}
	if snap.Sessions != nil && len(snap.Sessions) == 0 {
		return e.reject("import", fmt.Errorf("snapshot has no sessions: %w", domain.ErrInvalidInput))
	}

	if snap.Athletes != nil {
		e.athletes = lo.Map(snap.Athletes, func(a domain.Athlete, _ int) *domain.Athlete {
			c := a.Clone()
			if c.Status == domain.StatusResting {
				c.Status = domain.StatusFinished
			}
			return &c
		})
	}
	if snap.Groups != nil {
		e.groups = lo.Map(snap.Groups, func(g domain.Group, _ int) *domain.Group {
			c := g.Clone()
			return &c
		})
	}
	if snap.Sessions != nil {
		e.sessions = lo.Map(snap.Sessions, func(s domain.Session, _ int) *domain.Session {
			c := s.Clone()
			c.Normalize()
			return &c
		})
	}
	if snap.Records != nil {
		e.results.Replace(snap.Records)
	}

	e.current = min(e.current, len(e.sessions)-1)
	e.queue.Reset()
	e.rest.Reset()
	e.logIntegrity()
	return nil
}
