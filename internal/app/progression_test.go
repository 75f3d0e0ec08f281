package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/swimset/internal/domain"
)

func TestProgression_NextSetThroughSessions(t *testing.T) {
	f := newFixture(t, "Ana")
	e := f.engine
	f.session(t, SessionPatch{TotalSets: ptr(2)})
	second := e.AddSession()
	_, err := e.UpdateSession(second.ID, SessionPatch{Name: ptr("Kick"), TotalSets: ptr(2)})
	require.NoError(t, err)

	require.NoError(t, e.StartAthlete(f.id(t, 1)))
	f.ticks(30)

	require.NoError(t, e.NextSet())
	sess, idx := e.CurrentSession()
	assert.Equal(t, 0, idx)
	assert.Equal(t, 2, sess.CurrentSet)
	a := f.athlete(t, 1)
	assert.Equal(t, domain.StatusReady, a.Status)
	assert.Equal(t, domain.Centis(0), a.Time)

	require.NoError(t, e.NextSet())
	sess, idx = e.CurrentSession()
	assert.Equal(t, 1, idx)
	assert.Equal(t, "Kick", sess.Name)
	for _, s := range e.Sessions() {
		assert.Equal(t, 1, s.CurrentSet)
	}

	require.NoError(t, e.NextSet())
	assert.True(t, e.AtFinalSet())
	assert.ErrorIs(t, e.NextSet(), domain.ErrSessionsComplete)
	sess, idx = e.CurrentSession()
	assert.Equal(t, 1, idx, "terminal wrap needs confirmation")
	assert.Equal(t, 2, sess.CurrentSet)

	require.NoError(t, e.ConfirmWrap())
	sess, idx = e.CurrentSession()
	assert.Equal(t, 0, idx)
	assert.Equal(t, 1, sess.CurrentSet)
	for _, s := range e.Sessions() {
		assert.Equal(t, 1, s.CurrentSet)
	}
}

func TestProgression_WrapOnlyAtFinalSet(t *testing.T) {
	f := newFixture(t, "Ana")
	f.session(t, SessionPatch{TotalSets: ptr(3)})
	assert.ErrorIs(t, f.engine.ConfirmWrap(), domain.ErrInvalidTransition)
}

func TestProgression_NextSetClearsQueue(t *testing.T) {
	f := newFixture(t, "Ana")
	f.session(t, SessionPatch{TotalSets: ptr(2)})
	require.NoError(t, f.engine.StartAll())
	require.NoError(t, f.engine.QueueFinish(f.id(t, 1)))

	require.NoError(t, f.engine.NextSet())
	assert.Empty(t, f.engine.Queue())
	assert.Equal(t, 1, f.engine.NextRank())
}

func TestProgression_RecordsCarrySetNumber(t *testing.T) {
	f := newFixture(t, "Ana")
	f.session(t, SessionPatch{TotalSets: ptr(2), RestSeconds: ptr(0)})
	e, id := f.engine, f.id(t, 1)

	for range 2 {
		require.NoError(t, e.StartAthlete(id))
		f.ticks(10)
		require.NoError(t, e.FinishAthlete(id))
		_ = e.NextSet()
	}
	recs := e.Records()
	require.Len(t, recs, 2)
	assert.Equal(t, 1, recs[0].SetNumber)
	assert.Equal(t, 2, recs[1].SetNumber)
}
