package domain

import "slices"

// GroupID identifies a group.
type GroupID string

// GroupTags is the display palette cycled through as groups are added.
var GroupTags = []string{"blue", "green", "purple", "red", "yellow", "indigo", "pink", "cyan"}

// Group is a named set of athletes. Membership is exclusive: an athlete is a
// member of exactly one group, mirrored by Athlete.GroupID.
type Group struct {
	ID      GroupID     `json:"id" yaml:"id"`
	Name    string      `json:"name" yaml:"name"`
	Tag     string      `json:"tag" yaml:"tag"`
	Members []AthleteID `json:"athletes" yaml:"-"`
}

// Clone returns a deep copy of g.
func (g Group) Clone() Group {
	g.Members = slices.Clone(g.Members)
	return g
}

// HasMember reports whether id belongs to the group.
func (g Group) HasMember(id AthleteID) bool {
	return slices.Contains(g.Members, id)
}

// TagFor returns the palette tag for the n-th group.
func TagFor(n int) string {
	return GroupTags[n%len(GroupTags)]
}
