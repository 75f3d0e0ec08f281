package app

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/bft-labs/swimset/internal/domain"
	"github.com/bft-labs/swimset/internal/ports"
)

// SessionPatch holds the session fields to change. Nil fields are left alone.
type SessionPatch struct {
	Name          *string
	Distance      *int
	Stroke        *domain.Stroke
	TotalSets     *int
	CurrentSet    *int
	RestSeconds   *int
	RestMode      *domain.RestMode
	RestAutoStart *bool
	// TargetTime sets the target; ClearTarget removes it.
	TargetTime  *domain.Centis
	ClearTarget bool
}

// AddAthlete adds an athlete to the first group in the next free lane.
func (e *Engine) AddAthlete(name string) (domain.Athlete, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Athlete{}, e.reject("add athlete", fmt.Errorf("athlete name: %w", domain.ErrInvalidInput))
	}
	g := e.groups[0]
	a := &domain.Athlete{
		ID:      domain.AthleteID(e.newID()),
		Name:    name,
		Lane:    len(e.athletes) + 1,
		GroupID: g.ID,
		Status:  domain.StatusReady,
	}
	e.athletes = append(e.athletes, a)
	g.Members = append(g.Members, a.ID)
	return a.Clone(), nil
}

// RemoveAthlete deletes an athlete, renumbers lanes and drops any queue entry
// or rest countdown that referred to it.
func (e *Engine) RemoveAthlete(id domain.AthleteID) error {
	a, err := e.athlete(id)
	if err != nil {
		return e.reject("remove athlete", err)
	}
	e.athletes = slices.DeleteFunc(e.athletes, func(x *domain.Athlete) bool { return x.ID == id })
	e.renumberLanes()

	if g := e.lookupGroup(a.GroupID); g != nil {
		g.Members = slices.DeleteFunc(g.Members, func(m domain.AthleteID) bool { return m == id })
		if len(g.Members) == 0 {
			e.rest.Forget(domain.GroupSubject(g.ID))
		}
	}
	if e.queue.Contains(id) {
		_ = e.queue.Remove(id)
	}
	e.rest.Forget(domain.AthleteSubject(id))
	return nil
}

// RenameAthlete changes an athlete's display name.
func (e *Engine) RenameAthlete(id domain.AthleteID, name string) error {
	a, err := e.athlete(id)
	if err != nil {
		return e.reject("rename athlete", err)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return e.reject("rename athlete", fmt.Errorf("athlete name: %w", domain.ErrInvalidInput))
	}
	a.Name = name
	return nil
}

// MoveAthlete moves an athlete into another group.
func (e *Engine) MoveAthlete(id domain.AthleteID, groupID domain.GroupID) error {
	a, err := e.athlete(id)
	if err != nil {
		return e.reject("move athlete", err)
	}
	to := e.lookupGroup(groupID)
	if to == nil {
		return e.reject("move athlete", fmt.Errorf("group %s: %w", groupID, domain.ErrNotFound))
	}
	if a.Status == domain.StatusResting {
		return e.reject("move athlete", fmt.Errorf("move %s: %w", a.Name, domain.ErrAthleteResting))
	}
	if a.GroupID == groupID {
		return nil
	}
	if from := e.lookupGroup(a.GroupID); from != nil {
		from.Members = slices.DeleteFunc(from.Members, func(m domain.AthleteID) bool { return m == id })
	}
	to.Members = append(to.Members, id)
	a.GroupID = groupID
	return nil
}

// AddGroup creates a group with the next palette tag.
func (e *Engine) AddGroup(name string) (domain.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Group{}, e.reject("add group", fmt.Errorf("group name: %w", domain.ErrInvalidInput))
	}
	g := &domain.Group{
		ID:   domain.GroupID(e.newID()),
		Name: name,
		Tag:  domain.TagFor(len(e.groups)),
	}
	e.groups = append(e.groups, g)
	return g.Clone(), nil
}

// RemoveGroup deletes a group and moves its members to the first remaining group.
func (e *Engine) RemoveGroup(id domain.GroupID) error {
	g := e.lookupGroup(id)
	if g == nil {
		return e.reject("remove group", fmt.Errorf("group %s: %w", id, domain.ErrNotFound))
	}
	if len(e.groups) == 1 {
		return e.reject("remove group", domain.ErrLastGroup)
	}
	if e.rest.Has(domain.GroupSubject(id)) {
		return e.reject("remove group", fmt.Errorf("group %s: %w", g.Name, domain.ErrRestActive))
	}
	e.groups = slices.DeleteFunc(e.groups, func(x *domain.Group) bool { return x.ID == id })
	to := e.groups[0]
	for _, a := range e.athletes {
		if a.GroupID == id {
			a.GroupID = to.ID
			to.Members = append(to.Members, a.ID)
		}
	}
	return nil
}

// AddSession appends a session with default settings.
func (e *Engine) AddSession() domain.Session {
	s := domain.NewSession(domain.SessionID(e.newID()))
	e.sessions = append(e.sessions, &s)
	return s.Clone()
}

// RemoveSession deletes a session. The last session cannot be removed.
func (e *Engine) RemoveSession(id domain.SessionID) error {
	i := slices.IndexFunc(e.sessions, func(s *domain.Session) bool { return s.ID == id })
	if i < 0 {
		return e.reject("remove session", fmt.Errorf("session %s: %w", id, domain.ErrNotFound))
	}
	if len(e.sessions) == 1 {
		return e.reject("remove session", domain.ErrLastSession)
	}
	e.sessions = slices.Delete(e.sessions, i, i+1)
	if i < e.current {
		e.current--
	}
	e.current = min(e.current, len(e.sessions)-1)
	return nil
}

// UpdateSession applies a patch and clamps the result into valid ranges.
func (e *Engine) UpdateSession(id domain.SessionID, p SessionPatch) (domain.Session, error) {
	s, ok := lo.Find(e.sessions, func(s *domain.Session) bool { return s.ID == id })
	if !ok {
		return domain.Session{}, e.reject("update session", fmt.Errorf("session %s: %w", id, domain.ErrNotFound))
	}
	next := s.Clone()
	if p.Name != nil {
		next.Name = strings.TrimSpace(*p.Name)
	}
	if p.Distance != nil {
		next.Distance = *p.Distance
	}
	if p.Stroke != nil {
		st, err := domain.ParseStroke(string(*p.Stroke))
		if err != nil {
			return domain.Session{}, e.reject("update session", err)
		}
		next.Stroke = st
	}
	if p.TotalSets != nil {
		next.TotalSets = *p.TotalSets
	}
	if p.CurrentSet != nil {
		next.CurrentSet = *p.CurrentSet
	}
	if p.RestSeconds != nil {
		next.RestSeconds = *p.RestSeconds
	}
	if p.RestMode != nil {
		m, err := domain.ParseRestMode(string(*p.RestMode))
		if err != nil {
			return domain.Session{}, e.reject("update session", err)
		}
		next.RestMode = m
	}
	if p.RestAutoStart != nil {
		next.RestAutoStart = *p.RestAutoStart
	}
	switch {
	case p.ClearTarget:
		next.TargetTime = nil
	case p.TargetTime != nil:
		if *p.TargetTime <= 0 {
			return domain.Session{}, e.reject("update session", fmt.Errorf("target time %s: %w", *p.TargetTime, domain.ErrInvalidInput))
		}
		next.TargetTime = lo.ToPtr(*p.TargetTime)
	}
	next.Normalize()
	*s = next
	return next.Clone(), nil
}

// SelectSession makes the session current. Athletes keep their state.
func (e *Engine) SelectSession(id domain.SessionID) error {
	i := slices.IndexFunc(e.sessions, func(s *domain.Session) bool { return s.ID == id })
	if i < 0 {
		return e.reject("select session", fmt.Errorf("session %s: %w", id, domain.ErrNotFound))
	}
	if e.rest.Active() && i != e.current {
		return e.reject("select session", domain.ErrRestActive)
	}
	e.current = i
	return nil
}

// ValidateSetup reports whether timing can begin: at least one athlete and
// every session named.
func (e *Engine) ValidateSetup() error {
	if len(e.athletes) == 0 {
		return fmt.Errorf("no athletes: %w", domain.ErrInvalidInput)
	}
	for i, s := range e.sessions {
		if !s.Named() {
			return fmt.Errorf("session %d: %w", i+1, domain.ErrSessionUnnamed)
		}
	}
	return nil
}

// ReplaceRoster swaps athletes, groups and sessions, for example from a roster
// file. Missing ids are generated, lanes follow list order and group
// membership is rebuilt from each athlete's group. Run state, the queue and
// countdowns start fresh; records are kept.
func (e *Engine) ReplaceRoster(athletes []domain.Athlete, groups []domain.Group, sessions []domain.Session) error {
	if len(groups) == 0 || len(sessions) == 0 {
		return e.reject("replace roster", fmt.Errorf("roster needs a group and a session: %w", domain.ErrInvalidInput))
	}
	gs := lo.Map(groups, func(g domain.Group, i int) domain.Group {
		g = g.Clone()
		if g.ID == "" {
			g.ID = domain.GroupID(e.newID())
		}
		if g.Tag == "" {
			g.Tag = domain.TagFor(i)
		}
		g.Members = nil
		return g
	})
	byID := make(map[domain.GroupID]int, len(gs))
	for i, g := range gs {
		byID[g.ID] = i
	}
	as := make([]domain.Athlete, 0, len(athletes))
	for i, a := range athletes {
		a = a.Clone()
		if a.ID == "" {
			a.ID = domain.AthleteID(e.newID())
		}
		gi, ok := byID[a.GroupID]
		if !ok {
			gi = 0
			a.GroupID = gs[0].ID
		}
		gs[gi].Members = append(gs[gi].Members, a.ID)
		a.Lane = i + 1
		as = append(as, a)
	}
	ss := lo.Map(sessions, func(s domain.Session, _ int) domain.Session {
		s = s.Clone()
		if s.ID == "" {
			s.ID = domain.SessionID(e.newID())
		}
		return s
	})

	if err := e.Import(domain.Snapshot{Athletes: as, Groups: gs, Sessions: ss}); err != nil {
		return err
	}
	e.current = 0
	e.rewindSets()
	e.resetRuns()
	return nil
}

func (e *Engine) renumberLanes() {
	for i, a := range e.athletes {
		a.Lane = i + 1
	}
}

func (e *Engine) logIntegrity() {
	groupIDs := lo.SliceToMap(e.groups, func(g *domain.Group) (domain.GroupID, bool) { return g.ID, true })
	for _, a := range e.athletes {
		if !groupIDs[a.GroupID] {
			e.logger.Warn("athlete references unknown group",
				ports.String("athlete", a.Name),
				ports.String("group", string(a.GroupID)),
			)
		}
	}
	for _, g := range e.groups {
		for _, id := range g.Members {
			if e.lookupAthlete(id) == nil {
				e.logger.Warn("group lists unknown athlete",
					ports.String("group", g.Name),
					ports.String("athlete", string(id)),
				)
			}
		}
	}
}
