package app

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/swimset/internal/domain"
	"github.com/bft-labs/swimset/internal/ports"
)

// mockLogger implements ports.Logger and keeps warning messages.
type mockLogger struct {
	mu    sync.Mutex
	warns []string
}

func (*mockLogger) Debug(msg string, fields ...ports.Field) {}
func (*mockLogger) Info(msg string, fields ...ports.Field)  {}
func (m *mockLogger) Warn(msg string, fields ...ports.Field) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warns = append(m.warns, msg)
}
func (*mockLogger) Error(msg string, fields ...ports.Field) {}

func (m *mockLogger) Warnings() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.warns...)
}

// mockNotifier records emitted cues.
type mockNotifier struct {
	cues []domain.Cue
}

func (m *mockNotifier) Emit(c domain.Cue) { m.cues = append(m.cues, c) }

// mockSink records appended records and optionally fails.
type mockSink struct {
	records []domain.Record
	err     error
}

func (m *mockSink) Append(r domain.Record) error {
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, r)
	return nil
}

// seqIDs returns a deterministic id generator.
func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

type fixture struct {
	engine   *Engine
	clock    *clockwork.FakeClock
	logger   *mockLogger
	notifier *mockNotifier
	sink     *mockSink
}

var epoch = time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)

// newFixture builds an engine with a named session and one athlete per name.
func newFixture(t *testing.T, names ...string) *fixture {
	t.Helper()
	f := &fixture{
		clock:    clockwork.NewFakeClockAt(epoch),
		logger:   &mockLogger{},
		notifier: &mockNotifier{},
		sink:     &mockSink{},
	}
	f.engine = NewEngine(
		WithClock(f.clock),
		WithLogger(f.logger),
		WithNotifier(f.notifier),
		WithRecordSink(f.sink),
		WithIDGenerator(seqIDs()),
	)
	sess, _ := f.engine.CurrentSession()
	_, err := f.engine.UpdateSession(sess.ID, SessionPatch{Name: ptr("Main set")})
	require.NoError(t, err)
	for _, n := range names {
		_, err := f.engine.AddAthlete(n)
		require.NoError(t, err)
	}
	return f
}

// id returns the id of the athlete in the given lane.
func (f *fixture) id(t *testing.T, lane int) domain.AthleteID {
	t.Helper()
	a, err := f.engine.AthleteByLane(lane)
	require.NoError(t, err)
	return a.ID
}

func (f *fixture) athlete(t *testing.T, lane int) domain.Athlete {
	t.Helper()
	a, err := f.engine.AthleteByLane(lane)
	require.NoError(t, err)
	return a
}

// session patches the current session.
func (f *fixture) session(t *testing.T, p SessionPatch) {
	t.Helper()
	sess, _ := f.engine.CurrentSession()
	_, err := f.engine.UpdateSession(sess.ID, p)
	require.NoError(t, err)
}

func (f *fixture) ticks(n int) {
	for range n {
		f.engine.Tick()
	}
}

func ptr[T any](v T) *T { return &v }
