package app

import (
	"slices"

	"github.com/samber/lo"

	"github.com/bft-labs/swimset/internal/domain"
	"github.com/bft-labs/swimset/internal/ports"
)

// roster resolves live athletes and groups for the rest controller.
type roster interface {
	lookupAthlete(id domain.AthleteID) *domain.Athlete
	lookupGroup(id domain.GroupID) *domain.Group
	groupMembers(id domain.GroupID) []*domain.Athlete
}

// restOutcome is what a tick of the rest controller asks the engine to do next.
type restOutcome struct {
	// ended lists subjects whose rest finished this tick.
	ended []domain.RestSubject
	// advanceSet is set when a group rest phase completed with auto-start on.
	advanceSet bool
}

// RestController owns the rest countdowns. Countdowns are kept in the order
// they were started and no subject has more than one.
type RestController struct {
	countdowns []domain.Countdown
	logger     ports.Logger
}

// NewRestController creates a controller with no countdowns.
func NewRestController(logger ports.Logger) *RestController {
	return &RestController{logger: logger}
}

// Active reports whether a rest phase is in progress.
func (r *RestController) Active() bool {
	return len(r.countdowns) > 0
}

// Countdowns returns a copy of the countdowns in start order.
func (r *RestController) Countdowns() []domain.Countdown {
	return slices.Clone(r.countdowns)
}

// Has reports whether the subject has a countdown.
func (r *RestController) Has(s domain.RestSubject) bool {
	return lo.ContainsBy(r.countdowns, func(c domain.Countdown) bool { return c.Subject == s })
}

// Reset discards every countdown.
func (r *RestController) Reset() {
	r.countdowns = nil
}

// Forget discards the subject's countdown, if any.
func (r *RestController) Forget(s domain.RestSubject) {
	r.countdowns = slices.DeleteFunc(r.countdowns, func(c domain.Countdown) bool { return c.Subject == s })
}

// Begin starts rest for a batch of athletes that have just finished. In
// individual mode each athlete gets its own countdown. In group mode a group's
// countdown starts once every one of its members is finished. Groups are
// evaluated in batch order, once each. It returns the subjects that started.
func (r *RestController) Begin(sess domain.Session, batch []domain.AthleteID, ros roster) []domain.RestSubject {
	d := sess.RestDuration()
	if d <= 0 {
		return nil
	}

	var started []domain.RestSubject
	switch sess.RestMode {
	case domain.RestGroup:
		seen := make(map[domain.GroupID]bool)
		for _, id := range batch {
			a := ros.lookupAthlete(id)
			if a == nil || seen[a.GroupID] {
				continue
			}
			seen[a.GroupID] = true
			subject := domain.GroupSubject(a.GroupID)
			if ros.lookupGroup(a.GroupID) == nil || r.Has(subject) {
				continue
			}
			members := ros.groupMembers(a.GroupID)
			allDone := lo.EveryBy(members, func(m *domain.Athlete) bool { return m.Status == domain.StatusFinished })
			if len(members) == 0 || !allDone {
				continue
			}
			for _, m := range members {
				m.Status = domain.StatusResting
			}
			r.countdowns = append(r.countdowns, domain.NewCountdown(subject, d))
			started = append(started, subject)
		}
	default:
		for _, id := range batch {
			a := ros.lookupAthlete(id)
			subject := domain.AthleteSubject(id)
			if a == nil || r.Has(subject) {
				continue
			}
			a.Status = domain.StatusResting
			r.countdowns = append(r.countdowns, domain.NewCountdown(subject, d))
			started = append(started, subject)
		}
	}
	return started
}

// Tick advances every countdown by one unit.
//
// An individual countdown that elapses is removed at once and its athlete
// returns to Ready, or straight to Running when the session auto-starts.
// Group countdowns stay until all group countdowns of the phase have elapsed;
// then the members leave Resting together and, with auto-start, the engine is
// asked to advance to the next set. Countdowns whose subject no longer exists
// are dropped.
func (r *RestController) Tick(sess domain.Session, ros roster) restOutcome {
	var out restOutcome
	kept := r.countdowns[:0]
	for _, c := range r.countdowns {
		if !r.resolvable(c.Subject, ros) {
			r.logger.Warn("discarding orphaned rest countdown", ports.String("subject", c.Subject.String()))
			continue
		}
		elapsed := c.Advance(domain.Tick)
		if elapsed && c.Subject.Kind == domain.SubjectAthlete {
			a := ros.lookupAthlete(domain.AthleteID(c.Subject.ID))
			if sess.RestAutoStart {
				a.ResetRun(domain.StatusRunning)
			} else {
				a.ResetRun(domain.StatusReady)
			}
			out.ended = append(out.ended, c.Subject)
			continue
		}
		kept = append(kept, c)
	}
	r.countdowns = kept

	groups := lo.Filter(r.countdowns, func(c domain.Countdown, _ int) bool { return c.Subject.Kind == domain.SubjectGroup })
	if len(groups) == 0 || !lo.EveryBy(groups, func(c domain.Countdown) bool { return c.State == domain.Elapsed }) {
		return out
	}

	for _, c := range groups {
		for _, m := range ros.groupMembers(domain.GroupID(c.Subject.ID)) {
			if m.Status == domain.StatusResting {
				m.ResetRun(domain.StatusReady)
			}
		}
		out.ended = append(out.ended, c.Subject)
	}
	r.countdowns = slices.DeleteFunc(r.countdowns, func(c domain.Countdown) bool { return c.Subject.Kind == domain.SubjectGroup })
	out.advanceSet = sess.RestAutoStart
	return out
}

func (r *RestController) resolvable(s domain.RestSubject, ros roster) bool {
	if s.Kind == domain.SubjectGroup {
		return ros.lookupGroup(domain.GroupID(s.ID)) != nil
	}
	return ros.lookupAthlete(domain.AthleteID(s.ID)) != nil
}
