package app

import (
	"fmt"
	"slices"

	"github.com/bft-labs/swimset/internal/domain"
)

// The athlete timer state machine:
//
//	Ready ──start──▶ Running ──finish──▶ Finished ──start──▶ Running
//	  ▲                 │
//	  └─────pause───────┘
//
// Running/Finished ▶ Resting and Resting ▶ Ready/Running are driven only by
// the RestController.

// startTimer begins a fresh repeat from Ready or Finished.
func startTimer(a *domain.Athlete) error {
	switch a.Status {
	case domain.StatusReady, domain.StatusFinished:
		a.ResetRun(domain.StatusRunning)
		return nil
	case domain.StatusResting:
		return fmt.Errorf("start %s: %w", a.Name, domain.ErrAthleteResting)
	default:
		return fmt.Errorf("start %s: already %s: %w", a.Name, a.Status, domain.ErrInvalidTransition)
	}
}

// pauseTimer stops a running clock without resetting it.
func pauseTimer(a *domain.Athlete) error {
	if a.Status != domain.StatusRunning {
		return fmt.Errorf("pause %s: %s: %w", a.Name, a.Status, domain.ErrInvalidTransition)
	}
	a.Status = domain.StatusReady
	return nil
}

// finishTimer freezes the athlete and returns the captured time and splits.
func finishTimer(a *domain.Athlete) (domain.Centis, []domain.Split, error) {
	switch a.Status {
	case domain.StatusResting:
		return 0, nil, fmt.Errorf("finish %s: %w", a.Name, domain.ErrAthleteResting)
	case domain.StatusFinished:
		return 0, nil, fmt.Errorf("finish %s: already finished: %w", a.Name, domain.ErrInvalidTransition)
	case domain.StatusReady:
		if a.Time == 0 {
			return 0, nil, fmt.Errorf("finish %s: %w", a.Name, domain.ErrNothingToFinish)
		}
	}
	a.Status = domain.StatusFinished
	return a.Time, slices.Clone(a.Splits), nil
}

// tickTimer advances a running clock by one unit.
func tickTimer(a *domain.Athlete) {
	if a.Status == domain.StatusRunning {
		a.Time += domain.Tick
	}
}

// splitTimer appends a split at the current time. Repeated distances are kept.
func splitTimer(a *domain.Athlete, distance int) (domain.Split, error) {
	if distance <= 0 {
		return domain.Split{}, fmt.Errorf("split %s: distance %d: %w", a.Name, distance, domain.ErrInvalidInput)
	}
	if a.Status != domain.StatusRunning {
		return domain.Split{}, fmt.Errorf("split %s: %s: %w", a.Name, a.Status, domain.ErrInvalidTransition)
	}
	s := domain.Split{Distance: distance, Time: a.Time}
	a.Splits = append(a.Splits, s)
	return s, nil
}
