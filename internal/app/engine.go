package app

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/samber/lo"

	"github.com/bft-labs/swimset/internal/domain"
	"github.com/bft-labs/swimset/internal/ports"
)

// DefaultGroupName is the name of the group every new engine starts with.
const DefaultGroupName = "Group 1"

// Engine is the single owner of athletes, groups, sessions, the finish queue,
// rest countdowns and results. Every state change goes through its methods.
// An Engine is not safe for concurrent use; Runner serializes access to it.
type Engine struct {
	athletes []*domain.Athlete
	groups   []*domain.Group
	sessions []*domain.Session
	current  int

	queue   *FinishQueue
	rest    *RestController
	results *ResultStore

	notifier ports.Notifier
	sink     ports.RecordSink
	logger   ports.Logger
	clock    clockwork.Clock
	newID    func() string
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l ports.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// WithNotifier sets where cues are emitted.
func WithNotifier(n ports.Notifier) EngineOption {
	return func(e *Engine) { e.notifier = n }
}

// WithRecordSink sets where new records are persisted.
func WithRecordSink(s ports.RecordSink) EngineOption {
	return func(e *Engine) { e.sink = s }
}

// WithClock sets the wall clock used for record and queue timestamps.
func WithClock(c clockwork.Clock) EngineOption {
	return func(e *Engine) { e.clock = c }
}

// WithIDGenerator replaces the uuid id generator.
func WithIDGenerator(fn func() string) EngineOption {
	return func(e *Engine) { e.newID = fn }
}

// NewEngine creates an engine with one empty group and one default session.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		notifier: nopNotifier{},
		sink:     nopSink{},
		logger:   nopLogger{},
		clock:    clockwork.NewRealClock(),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.queue = NewFinishQueue()
	e.rest = NewRestController(e.logger)
	e.results = NewResultStore()

	e.groups = []*domain.Group{{
		ID:   domain.GroupID(e.newID()),
		Name: DefaultGroupName,
		Tag:  domain.TagFor(0),
	}}
	s := domain.NewSession(domain.SessionID(e.newID()))
	e.sessions = []*domain.Session{&s}
	return e
}

// StartAthlete starts (or restarts) one athlete's repeat.
func (e *Engine) StartAthlete(id domain.AthleteID) error {
	a, err := e.athlete(id)
	if err != nil {
		return e.reject("start", err)
	}
	sess := e.session()
	if !sess.Named() {
		return e.reject("start", fmt.Errorf("start %s: %w", a.Name, domain.ErrSessionUnnamed))
	}
	if a.Status != domain.StatusResting && e.rest.Active() && sess.RestMode == domain.RestGroup {
		return e.reject("start", fmt.Errorf("start %s: %w", a.Name, domain.ErrRestActive))
	}
	if err := startTimer(a); err != nil {
		return e.reject("start", err)
	}
	e.emit(domain.CueStart)
	return nil
}

// PauseAthlete stops an athlete's clock without resetting it.
func (e *Engine) PauseAthlete(id domain.AthleteID) error {
	a, err := e.athlete(id)
	if err != nil {
		return e.reject("pause", err)
	}
	if err := pauseTimer(a); err != nil {
		return e.reject("pause", err)
	}
	return nil
}

// FinishAthlete finishes one athlete directly and records an unranked result.
func (e *Engine) FinishAthlete(id domain.AthleteID) error {
	a, err := e.athlete(id)
	if err != nil {
		return e.reject("finish", err)
	}
	if e.queue.Contains(id) {
		return e.reject("finish", fmt.Errorf("finish %s: queued for confirmation: %w", a.Name, domain.ErrInvalidTransition))
	}
	t, splits, err := finishTimer(a)
	if err != nil {
		return e.reject("finish", err)
	}
	a.ObserveFinish(t)

	sess := e.session()
	rec := e.newRecord(a, sess, t, splits, nil)
	e.results.Append(rec)
	e.persist(rec)
	e.emit(domain.CueFinish)
	e.beginRest(sess, []domain.AthleteID{id})
	return nil
}

// RecordSplit records an intermediate time for a running athlete.
func (e *Engine) RecordSplit(id domain.AthleteID, distance int) error {
	a, err := e.athlete(id)
	if err != nil {
		return e.reject("split", err)
	}
	if _, err := splitTimer(a, distance); err != nil {
		return e.reject("split", err)
	}
	e.emit(domain.CueSplit)
	return nil
}

// QueueFinish assigns the athlete the next finish rank. Finished or already
// queued athletes are left alone.
func (e *Engine) QueueFinish(id domain.AthleteID) error {
	a, err := e.athlete(id)
	if err != nil {
		return e.reject("queue", err)
	}
	if a.Status == domain.StatusResting {
		return e.reject("queue", fmt.Errorf("queue %s: %w", a.Name, domain.ErrAthleteResting))
	}
	if e.queue.Add(a, e.clock.Now()) {
		e.emit(domain.CueQueue)
	}
	return nil
}

// DequeueFinish removes an athlete from the finish queue.
func (e *Engine) DequeueFinish(id domain.AthleteID) error {
	if err := e.queue.Remove(id); err != nil {
		return e.reject("dequeue", err)
	}
	return nil
}

// ConfirmFinishes turns every queued entry into a ranked record, finishes the
// athletes with their queued times and hands them to rest as one batch.
func (e *Engine) ConfirmFinishes() error {
	if e.queue.Len() == 0 {
		return e.reject("confirm", domain.ErrQueueEmpty)
	}
	entries := e.queue.Entries()
	batch := make([]*domain.Athlete, 0, len(entries))
	for _, entry := range entries {
		a, err := e.athlete(entry.AthleteID)
		if err != nil {
			return e.reject("confirm", err)
		}
		if a.Status == domain.StatusResting {
			return e.reject("confirm", fmt.Errorf("confirm %s: %w", a.Name, domain.ErrAthleteResting))
		}
		batch = append(batch, a)
	}

	sess := e.session()
	records := make([]domain.Record, 0, len(entries))
	for i, entry := range entries {
		a := batch[i]
		a.Status = domain.StatusFinished
		a.Time = entry.Time
		a.Splits = slices.Clone(entry.Splits)
		a.ObserveFinish(entry.Time)

		rec := e.newRecord(a, sess, entry.Time, entry.Splits, lo.ToPtr(entry.Rank))
		e.results.Append(rec)
		records = append(records, rec)
	}
	e.queue.Reset()

	for _, rec := range records {
		e.persist(rec)
	}
	e.emit(domain.CueConfirm)
	e.beginRest(sess, lo.Map(entries, func(f domain.FinishEntry, _ int) domain.AthleteID { return f.AthleteID }))
	return nil
}

// StartAll starts every athlete at once and clears the finish queue.
func (e *Engine) StartAll() error {
	if !e.session().Named() {
		return e.reject("start all", domain.ErrSessionUnnamed)
	}
	if e.rest.Active() {
		return e.reject("start all", domain.ErrRestActive)
	}
	for _, a := range e.athletes {
		a.ResetRun(domain.StatusRunning)
	}
	e.queue.Reset()
	e.emit(domain.CueStartAll)
	return nil
}

// ResetAll returns every athlete to a fresh Ready state and drops the queue
// and all rest countdowns. It is always safe to call.
func (e *Engine) ResetAll() {
	e.resetRuns()
	e.rest.Reset()
}

// Tick advances every running clock by one unit, then every rest countdown.
func (e *Engine) Tick() {
	for _, a := range e.athletes {
		tickTimer(a)
	}
	if !e.rest.Active() {
		return
	}
	out := e.rest.Tick(*e.session(), e)
	if len(out.ended) == 0 {
		return
	}
	for _, s := range out.ended {
		e.logger.Info("rest ended", ports.String("subject", s.String()))
	}
	e.emit(domain.CueRestEnd)
	if out.advanceSet {
		if err := e.advanceSet(); err != nil {
			e.logger.Info("auto start after rest stopped", ports.Err(err))
		}
	}
}

func (e *Engine) beginRest(sess *domain.Session, batch []domain.AthleteID) {
	started := e.rest.Begin(*sess, batch, e)
	if len(started) == 0 {
		return
	}
	for _, s := range started {
		e.logger.Info("rest started",
			ports.String("subject", s.String()),
			ports.Int("seconds", sess.RestSeconds),
		)
	}
	e.emit(domain.CueRestStart)
}

// resetRuns resets athletes and the finish queue, leaving countdowns alone.
func (e *Engine) resetRuns() {
	for _, a := range e.athletes {
		a.ResetRun(domain.StatusReady)
	}
	e.queue.Reset()
}

func (e *Engine) newRecord(a *domain.Athlete, sess *domain.Session, t domain.Centis, splits []domain.Split, rank *int) domain.Record {
	var groupName string
	if g := e.lookupGroup(a.GroupID); g != nil {
		groupName = g.Name
	}
	var target *domain.Centis
	if sess.TargetTime != nil {
		target = lo.ToPtr(*sess.TargetTime)
	}
	return domain.Record{
		ID:           domain.RecordID(e.newID()),
		AthleteID:    a.ID,
		AthleteName:  a.Name,
		Lane:         a.Lane,
		GroupID:      a.GroupID,
		GroupName:    groupName,
		SessionID:    sess.ID,
		SessionName:  sess.Name,
		SessionIndex: e.current,
		Distance:     sess.Distance,
		Stroke:       sess.Stroke,
		SetNumber:    sess.CurrentSet,
		Time:         t,
		Rank:         rank,
		Splits:       slices.Clone(splits),
		TargetTime:   target,
		Timestamp:    e.clock.Now(),
	}
}

func (e *Engine) persist(rec domain.Record) {
	if err := e.sink.Append(rec); err != nil {
		e.logger.Error("failed to persist record",
			ports.String("record", string(rec.ID)),
			ports.Err(err),
		)
	}
}

func (e *Engine) emit(c domain.Cue) {
	e.notifier.Emit(c)
}

func (e *Engine) reject(op string, err error) error {
	e.logger.Debug("operation rejected", ports.String("op", op), ports.Err(err))
	return err
}

func (e *Engine) session() *domain.Session {
	return e.sessions[e.current]
}

func (e *Engine) athlete(id domain.AthleteID) (*domain.Athlete, error) {
	if a := e.lookupAthlete(id); a != nil {
		return a, nil
	}
	return nil, fmt.Errorf("athlete %s: %w", id, domain.ErrNotFound)
}

func (e *Engine) lookupAthlete(id domain.AthleteID) *domain.Athlete {
	a, _ := lo.Find(e.athletes, func(a *domain.Athlete) bool { return a.ID == id })
	return a
}

func (e *Engine) lookupGroup(id domain.GroupID) *domain.Group {
	g, _ := lo.Find(e.groups, func(g *domain.Group) bool { return g.ID == id })
	return g
}

func (e *Engine) groupMembers(id domain.GroupID) []*domain.Athlete {
	return lo.Filter(e.athletes, func(a *domain.Athlete, _ int) bool { return a.GroupID == id })
}

// Athletes returns copies of the athletes in lane order.
func (e *Engine) Athletes() []domain.Athlete {
	return lo.Map(e.athletes, func(a *domain.Athlete, _ int) domain.Athlete { return a.Clone() })
}

// Athlete returns a copy of one athlete.
func (e *Engine) Athlete(id domain.AthleteID) (domain.Athlete, error) {
	a, err := e.athlete(id)
	if err != nil {
		return domain.Athlete{}, err
	}
	return a.Clone(), nil
}

// AthleteByLane returns a copy of the athlete in the given lane.
func (e *Engine) AthleteByLane(lane int) (domain.Athlete, error) {
	a, ok := lo.Find(e.athletes, func(a *domain.Athlete) bool { return a.Lane == lane })
	if !ok {
		return domain.Athlete{}, fmt.Errorf("lane %d: %w", lane, domain.ErrNotFound)
	}
	return a.Clone(), nil
}

// Groups returns copies of the groups in creation order.
func (e *Engine) Groups() []domain.Group {
	return lo.Map(e.groups, func(g *domain.Group, _ int) domain.Group { return g.Clone() })
}

// FindGroup looks a group up by id or, case-insensitively, by name.
func (e *Engine) FindGroup(key string) (domain.Group, error) {
	g, ok := lo.Find(e.groups, func(g *domain.Group) bool {
		return string(g.ID) == key || strings.EqualFold(g.Name, key)
	})
	if !ok {
		return domain.Group{}, fmt.Errorf("group %q: %w", key, domain.ErrNotFound)
	}
	return g.Clone(), nil
}

// Sessions returns copies of the sessions in order.
func (e *Engine) Sessions() []domain.Session {
	return lo.Map(e.sessions, func(s *domain.Session, _ int) domain.Session { return s.Clone() })
}

// CurrentSession returns a copy of the selected session and its index.
func (e *Engine) CurrentSession() (domain.Session, int) {
	return e.session().Clone(), e.current
}

// Queue returns the pending finish entries in rank order.
func (e *Engine) Queue() []domain.FinishEntry {
	return e.queue.Entries()
}

// NextRank returns the rank the next queued finish will get.
func (e *Engine) NextRank() int {
	return e.queue.NextRank()
}

// Countdowns returns the active rest countdowns in start order.
func (e *Engine) Countdowns() []domain.Countdown {
	return e.rest.Countdowns()
}

// RestActive reports whether a rest phase is in progress.
func (e *Engine) RestActive() bool {
	return e.rest.Active()
}

// Records returns every record in the order it was made.
func (e *Engine) Records() []domain.Record {
	return e.results.All()
}

// RecentRecords returns records newest first.
func (e *Engine) RecentRecords() []domain.Record {
	return e.results.Recent()
}

// Results returns records grouped by session and set, in result order.
func (e *Engine) Results() []domain.RecordGroup {
	return e.results.Grouped()
}

// DeleteRecord removes one record.
func (e *Engine) DeleteRecord(id domain.RecordID) error {
	if err := e.results.Delete(id); err != nil {
		return e.reject("delete record", err)
	}
	return nil
}

// ClearRecords removes every record.
func (e *Engine) ClearRecords() {
	e.results.Clear()
}

type nopNotifier struct{}

func (nopNotifier) Emit(domain.Cue) {}

type nopSink struct{}

func (nopSink) Append(domain.Record) error { return nil }

type nopLogger struct{}

func (nopLogger) Debug(string, ...ports.Field) {}
func (nopLogger) Info(string, ...ports.Field)  {}
func (nopLogger) Warn(string, ...ports.Field)  {}
func (nopLogger) Error(string, ...ports.Field) {}
