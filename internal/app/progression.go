package app

import (
	"fmt"

	"github.com/bft-labs/swimset/internal/domain"
	"github.com/bft-labs/swimset/internal/ports"
)

// NextSet advances to the next set, or to the first set of the next session,
// and resets every athlete. It is rejected during a rest phase. After the
// final set of the final session it returns ErrSessionsComplete and changes
// nothing; ConfirmWrap then starts over from the first session.
func (e *Engine) NextSet() error {
	if e.rest.Active() {
		return e.reject("next set", domain.ErrRestActive)
	}
	if err := e.advanceSet(); err != nil {
		return e.reject("next set", err)
	}
	return nil
}

// AtFinalSet reports whether the current set is the last set of the last session.
func (e *Engine) AtFinalSet() bool {
	s := e.session()
	return e.current == len(e.sessions)-1 && s.CurrentSet >= s.TotalSets
}

// ConfirmWrap moves from the final set of the final session back to the first
// set of the first session.
func (e *Engine) ConfirmWrap() error {
	if e.rest.Active() {
		return e.reject("wrap", domain.ErrRestActive)
	}
	if !e.AtFinalSet() {
		return e.reject("wrap", fmt.Errorf("wrap: sets remain: %w", domain.ErrInvalidTransition))
	}
	e.current = 0
	e.rewindSets()
	e.resetRuns()
	e.logger.Info("sessions wrapped")
	e.emit(domain.CueNextSet)
	return nil
}

// advanceSet moves the set and session counters. Rest bookkeeping is the
// caller's concern.
func (e *Engine) advanceSet() error {
	s := e.session()
	switch {
	case s.CurrentSet < s.TotalSets:
		s.CurrentSet++
	case e.current < len(e.sessions)-1:
		e.current++
		e.rewindSets()
	default:
		return domain.ErrSessionsComplete
	}
	e.resetRuns()

	s = e.session()
	e.logger.Info("set advanced",
		ports.String("session", s.Name),
		ports.Int("set", s.CurrentSet),
		ports.Int("of", s.TotalSets),
	)
	e.emit(domain.CueNextSet)
	return nil
}

func (e *Engine) rewindSets() {
	for _, s := range e.sessions {
		s.CurrentSet = 1
	}
}
