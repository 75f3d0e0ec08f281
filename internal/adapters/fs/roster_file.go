package fs

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/bft-labs/swimset/internal/domain"
)

// Roster is the setup read from a roster file.
type Roster struct {
	Athletes []domain.Athlete
	Groups   []domain.Group
	Sessions []domain.Session
}

// rosterFile is the YAML layout:
//
//	groups:
//	  - name: Sprint
//	    athletes: [Ana, Ben]
//	sessions:
//	  - name: Main set
//	    distance: 100
//	    stroke: freestyle
//	    sets: 4
//	    rest_seconds: 30
//	    rest_mode: group
//	    rest_auto_start: true
//	    target: "01:05.00"
type rosterFile struct {
	Groups   []rosterGroup   `yaml:"groups"`
	Sessions []rosterSession `yaml:"sessions"`
}

type rosterGroup struct {
	Name     string   `yaml:"name"`
	Tag      string   `yaml:"tag"`
	Athletes []string `yaml:"athletes"`
}

type rosterSession struct {
	Name          string `yaml:"name"`
	Distance      int    `yaml:"distance"`
	Stroke        string `yaml:"stroke"`
	Sets          int    `yaml:"sets"`
	RestSeconds   *int   `yaml:"rest_seconds"`
	RestMode      string `yaml:"rest_mode"`
	RestAutoStart bool   `yaml:"rest_auto_start"`
	Target        string `yaml:"target"`
}

// LoadRoster reads and validates a roster file.
func LoadRoster(path string) (Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Roster{}, fmt.Errorf("read roster: %w", err)
	}
	return ParseRoster(data)
}

// ParseRoster decodes roster YAML. Unknown keys are rejected.
func ParseRoster(data []byte) (Roster, error) {
	var rf rosterFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&rf); err != nil {
		return Roster{}, fmt.Errorf("decode roster: %v: %w", err, domain.ErrInvalidInput)
	}
	if len(rf.Groups) == 0 {
		return Roster{}, fmt.Errorf("roster has no groups: %w", domain.ErrInvalidInput)
	}
	if len(rf.Sessions) == 0 {
		return Roster{}, fmt.Errorf("roster has no sessions: %w", domain.ErrInvalidInput)
	}

	var r Roster
	for i, g := range rf.Groups {
		name := strings.TrimSpace(g.Name)
		if name == "" {
			return Roster{}, fmt.Errorf("group %d: empty name: %w", i+1, domain.ErrInvalidInput)
		}
		tag := g.Tag
		if tag == "" {
			tag = domain.TagFor(i)
		}
		group := domain.Group{ID: domain.GroupID(uuid.NewString()), Name: name, Tag: tag}
		for _, a := range g.Athletes {
			a = strings.TrimSpace(a)
			if a == "" {
				return Roster{}, fmt.Errorf("group %s: empty athlete name: %w", name, domain.ErrInvalidInput)
			}
			athlete := domain.Athlete{
				ID:      domain.AthleteID(uuid.NewString()),
				Name:    a,
				Lane:    len(r.Athletes) + 1,
				GroupID: group.ID,
			}
			group.Members = append(group.Members, athlete.ID)
			r.Athletes = append(r.Athletes, athlete)
		}
		r.Groups = append(r.Groups, group)
	}

	for i, rs := range rf.Sessions {
		s, err := rs.toSession()
		if err != nil {
			return Roster{}, fmt.Errorf("session %d: %w", i+1, err)
		}
		r.Sessions = append(r.Sessions, s)
	}
	return r, nil
}

func (rs rosterSession) toSession() (domain.Session, error) {
	s := domain.NewSession(domain.SessionID(uuid.NewString()))
	s.Name = strings.TrimSpace(rs.Name)
	if rs.Distance != 0 {
		s.Distance = rs.Distance
	}
	if rs.Sets != 0 {
		s.TotalSets = rs.Sets
	}
	if rs.RestSeconds != nil {
		s.RestSeconds = *rs.RestSeconds
	}
	if rs.Stroke != "" {
		st, err := domain.ParseStroke(rs.Stroke)
		if err != nil {
			return domain.Session{}, err
		}
		s.Stroke = st
	}
	if rs.RestMode != "" {
		m, err := domain.ParseRestMode(rs.RestMode)
		if err != nil {
			return domain.Session{}, err
		}
		s.RestMode = m
	}
	s.RestAutoStart = rs.RestAutoStart
	if rs.Target != "" {
		t, err := domain.ParseCentis(rs.Target)
		if err != nil {
			return domain.Session{}, err
		}
		s.TargetTime = &t
	}
	s.Normalize()
	return s, nil
}
