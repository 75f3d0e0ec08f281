package console

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logAdapter "github.com/bft-labs/swimset/internal/adapters/log"
	"github.com/bft-labs/swimset/internal/app"
	"github.com/bft-labs/swimset/internal/domain"
)

// direct runs commands on an engine owned by the test goroutine.
type direct struct{ engine *app.Engine }

func (d direct) Do(_ context.Context, fn func(*app.Engine) error) error {
	return fn(d.engine)
}

type memStore struct {
	snap  domain.Snapshot
	saves int
}

func (m *memStore) Load(context.Context) (domain.Snapshot, error) { return m.snap, nil }

func (m *memStore) Save(_ context.Context, s domain.Snapshot) error {
	m.snap = s
	m.saves++
	return nil
}

type fixture struct {
	engine  *app.Engine
	console *Console
	out     *bytes.Buffer
	store   *memStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		engine: app.NewEngine(app.WithClock(clockwork.NewFakeClock())),
		out:    &bytes.Buffer{},
		store:  &memStore{},
	}
	f.console = New(direct{f.engine}, f.store, f.out, logAdapter.NewNoopLogger())
	return f
}

func (f *fixture) run(t *testing.T, lines ...string) {
	t.Helper()
	for _, l := range lines {
		require.NoError(t, f.console.Exec(context.Background(), l), l)
	}
}

func (f *fixture) lane(t *testing.T, lane int) domain.Athlete {
	t.Helper()
	a, err := f.engine.AthleteByLane(lane)
	require.NoError(t, err)
	return a
}

func TestConsole_StartRequiresNamedSession(t *testing.T) {
	f := newFixture(t)
	f.run(t, "athlete add Ana Lopez")

	err := f.console.Exec(context.Background(), "start 1")
	assert.ErrorIs(t, err, domain.ErrSessionUnnamed)

	f.run(t, "session set name=Main_set", "start 1")
	assert.Equal(t, "Ana Lopez", f.lane(t, 1).Name)
	assert.Equal(t, domain.StatusRunning, f.lane(t, 1).Status)
	sess, _ := f.engine.CurrentSession()
	assert.Equal(t, "Main set", sess.Name)
}

func TestConsole_SplitDefaultsToHalfDistance(t *testing.T) {
	f := newFixture(t)
	f.run(t, "session set name=Main distance=100", "athlete add Ana", "start 1")
	for range 500 {
		f.engine.Tick()
	}
	f.out.Reset()

	f.run(t, "split 1")
	assert.Equal(t, "Ana 50m 00:05.00\n", f.out.String())

	f.run(t, "split 1 75")
	splits := f.lane(t, 1).Splits
	require.Len(t, splits, 2)
	assert.Equal(t, 75, splits[1].Distance)
}

func TestConsole_QueueAndConfirm(t *testing.T) {
	f := newFixture(t)
	f.run(t, "session set name=Main target=00:30.00", "athlete add Ana", "athlete add Ben", "startall")
	for range 100 {
		f.engine.Tick()
	}
	f.run(t, "queue 2", "queue 1", "dequeue 2", "queue 2", "confirm")

	records := f.engine.Records()
	require.Len(t, records, 2)
	ranks := map[string]int{}
	for _, r := range records {
		require.NotNil(t, r.Rank)
		ranks[r.AthleteName] = *r.Rank
	}
	assert.Equal(t, map[string]int{"Ana": 1, "Ben": 2}, ranks)

	f.out.Reset()
	f.run(t, "results")
	out := f.out.String()
	assert.Contains(t, out, "Main  50m freestyle  set 1")
	assert.Contains(t, out, "Ana")
	assert.Contains(t, out, "-00:29.00")
}

func TestConsole_Errors(t *testing.T) {
	f := newFixture(t)
	f.run(t, "athlete add Ana")

	tests := []struct {
		line string
		want error
	}{
		{line: "start x", want: domain.ErrInvalidInput},
		{line: "start 0", want: domain.ErrInvalidInput},
		{line: "pause 9", want: domain.ErrNotFound},
		{line: "confirm", want: domain.ErrQueueEmpty},
		{line: "session select 3", want: domain.ErrNotFound},
		{line: "session set sets", want: domain.ErrInvalidInput},
		{line: "session set stroke=doggy", want: domain.ErrInvalidInput},
		{line: "group rm nobody", want: domain.ErrNotFound},
		{line: "records rm r-1", want: domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.ErrorIs(t, f.console.Exec(context.Background(), tt.line), tt.want)
		})
	}

	assert.Error(t, f.console.Exec(context.Background(), "dance"))
	assert.Error(t, f.console.Exec(context.Background(), "start"))
}

func TestConsole_GroupsAndAthletes(t *testing.T) {
	f := newFixture(t)
	f.run(t, "athlete add Ana", "athlete add Ben", "group add Sprinters", "athlete move 2 sprinters")

	g, err := f.engine.FindGroup("Sprinters")
	require.NoError(t, err)
	assert.Equal(t, g.ID, f.lane(t, 2).GroupID)

	f.run(t, "athlete rename 2 Benjamin Ode", "athlete rm 1")
	assert.Equal(t, "Benjamin Ode", f.lane(t, 1).Name)

	f.run(t, "group rm Sprinters")
	assert.Len(t, f.engine.Groups(), 1)
	assert.Equal(t, f.engine.Groups()[0].ID, f.lane(t, 1).GroupID)
}

func TestConsole_Sessions(t *testing.T) {
	f := newFixture(t)
	f.run(t, "session add", "session select 2",
		"session set name=Kick distance=25 stroke=butterfly sets=4 set=2 rest=30 mode=group auto=true")

	sess, idx := f.engine.CurrentSession()
	assert.Equal(t, 1, idx)
	assert.Equal(t, "Kick", sess.Name)
	assert.Equal(t, 25, sess.Distance)
	assert.Equal(t, domain.StrokeButterfly, sess.Stroke)
	assert.Equal(t, 4, sess.TotalSets)
	assert.Equal(t, 2, sess.CurrentSet)
	assert.Equal(t, 30, sess.RestSeconds)
	assert.Equal(t, domain.RestGroup, sess.RestMode)
	assert.True(t, sess.RestAutoStart)

	f.run(t, "session rm 1")
	assert.Len(t, f.engine.Sessions(), 1)
}

func TestConsole_RecordsAndStatus(t *testing.T) {
	f := newFixture(t)
	f.run(t, "session set name=Main", "athlete add Ana", "start 1")
	for range 250 {
		f.engine.Tick()
	}
	f.run(t, "finish 1")
	require.Len(t, f.engine.Records(), 1)

	f.out.Reset()
	f.run(t, "status")
	out := f.out.String()
	assert.Contains(t, out, "session 1/1: Main")
	assert.Contains(t, out, "resting")
	assert.Contains(t, out, "rest: Ana 01:00.00")

	f.run(t, "records rm "+string(f.engine.Records()[0].ID))
	assert.Empty(t, f.engine.Records())
}

func TestConsole_SaveAndLoad(t *testing.T) {
	f := newFixture(t)
	f.run(t, "athlete add Ana", "save", "athlete add Ben")
	assert.Equal(t, 1, f.store.saves)
	assert.Len(t, f.engine.Athletes(), 2)

	f.run(t, "load")
	assert.Len(t, f.engine.Athletes(), 1)

	noStore := New(direct{f.engine}, nil, &bytes.Buffer{}, logAdapter.NewNoopLogger())
	assert.ErrorIs(t, noStore.Exec(context.Background(), "save"), errNoStore)
}

func TestConsole_Run(t *testing.T) {
	f := newFixture(t)
	in := strings.NewReader("athlete add Ana\n\n# comment\ndance\nquit\nathlete add Ben\n")

	require.NoError(t, f.console.Run(context.Background(), in))
	assert.True(t, f.console.Quit())
	assert.Len(t, f.engine.Athletes(), 1)
	assert.Contains(t, f.out.String(), "error: unknown command")
}

func TestConsole_RunStopsAtEOF(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.console.Run(context.Background(), strings.NewReader("athlete add Ana")))
	assert.False(t, f.console.Quit())
	assert.Len(t, f.engine.Athletes(), 1)
}

func TestParsePatch(t *testing.T) {
	p, err := parsePatch([]string{"target=01:05.50", "rest=0"})
	require.NoError(t, err)
	require.NotNil(t, p.TargetTime)
	assert.Equal(t, domain.Centis(6550), *p.TargetTime)
	assert.Equal(t, 0, *p.RestSeconds)

	p, err = parsePatch([]string{"target=none"})
	require.NoError(t, err)
	assert.True(t, p.ClearTarget)

	_, err = parsePatch([]string{"colour=red"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
