package domain

// RestSubjectKind tells which id space a RestSubject.ID belongs to.
type RestSubjectKind int

const (
	SubjectAthlete RestSubjectKind = iota
	SubjectGroup
)

// String returns "athlete" or "group".
func (k RestSubjectKind) String() string {
	if k == SubjectGroup {
		return "group"
	}
	return "athlete"
}

// RestSubject is the owner of a countdown. The Kind tag keeps athlete and
// group ids from colliding even if their string values are equal.
type RestSubject struct {
	Kind RestSubjectKind
	ID   string
}

// AthleteSubject returns the subject for an individual countdown.
func AthleteSubject(id AthleteID) RestSubject {
	return RestSubject{Kind: SubjectAthlete, ID: string(id)}
}

// GroupSubject returns the subject for a group countdown.
func GroupSubject(id GroupID) RestSubject {
	return RestSubject{Kind: SubjectGroup, ID: string(id)}
}

// String returns kind:id.
func (s RestSubject) String() string {
	return s.Kind.String() + ":" + s.ID
}

// CountdownState distinguishes a countdown still counting from one that has elapsed.
type CountdownState int

const (
	Counting CountdownState = iota
	Elapsed
)

// String returns "counting" or "elapsed".
func (s CountdownState) String() string {
	if s == Elapsed {
		return "elapsed"
	}
	return "counting"
}

// Countdown is a rest timer. Remaining stays within [0, Duration].
type Countdown struct {
	Subject   RestSubject
	Duration  Centis
	Remaining Centis
	State     CountdownState
}

// NewCountdown returns a countdown starting at d.
func NewCountdown(subject RestSubject, d Centis) Countdown {
	d = max(d, 0)
	return Countdown{Subject: subject, Duration: d, Remaining: d, State: Counting}
}

// Advance subtracts step from a counting countdown, clamped at zero.
// It reports true only on the call that moves the countdown to Elapsed.
func (c *Countdown) Advance(step Centis) bool {
	if c.State == Elapsed {
		return false
	}
	c.Remaining = max(c.Remaining-step, 0)
	if c.Remaining == 0 {
		c.State = Elapsed
		return true
	}
	return false
}
