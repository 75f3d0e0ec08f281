package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/swimset/internal/domain"
)

func rec(id string, session string, index, set int, t domain.Centis, rank *int) domain.Record {
	return domain.Record{
		ID:           domain.RecordID(id),
		SessionName:  session,
		SessionIndex: index,
		SetNumber:    set,
		Time:         t,
		Rank:         rank,
	}
}

func ids(recs []domain.Record) []domain.RecordID {
	out := make([]domain.RecordID, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}

func TestResultStore_Grouped(t *testing.T) {
	s := NewResultStore()
	s.Append(rec("k1", "Kick", 1, 1, 900, nil))
	s.Append(rec("m2a", "Main", 0, 2, 500, ptr(2)))
	s.Append(rec("m1a", "Main", 0, 1, 700, nil))
	s.Append(rec("m2b", "Main", 0, 2, 600, ptr(1)))
	s.Append(rec("m1b", "Main", 0, 1, 650, nil))

	groups := s.Grouped()
	require.Len(t, groups, 3)

	assert.Equal(t, "Main", groups[0].SessionName)
	assert.Equal(t, 1, groups[0].SetNumber)
	assert.Equal(t, []domain.RecordID{"m1b", "m1a"}, ids(groups[0].Records))

	assert.Equal(t, 2, groups[1].SetNumber)
	assert.Equal(t, []domain.RecordID{"m2b", "m2a"}, ids(groups[1].Records), "rank wins over time")

	assert.Equal(t, "Kick", groups[2].SessionName)
}

func TestResultStore_DeleteClearRecent(t *testing.T) {
	s := NewResultStore()
	s.Append(rec("a", "Main", 0, 1, 1, nil))
	s.Append(rec("b", "Main", 0, 1, 2, nil))
	s.Append(rec("c", "Main", 0, 1, 3, nil))

	assert.Equal(t, []domain.RecordID{"c", "b", "a"}, ids(s.Recent()))

	require.NoError(t, s.Delete("b"))
	assert.Equal(t, []domain.RecordID{"a", "c"}, ids(s.All()))
	assert.ErrorIs(t, s.Delete("b"), domain.ErrNotFound)

	s.Clear()
	assert.Zero(t, s.Len())
	assert.Empty(t, s.Grouped())
}

func TestResultStore_ReturnsCopies(t *testing.T) {
	s := NewResultStore()
	s.Append(domain.Record{ID: "a", Rank: ptr(1), Splits: []domain.Split{{Distance: 25, Time: 10}}})

	got := s.All()
	*got[0].Rank = 9
	got[0].Splits[0].Time = 99

	again := s.All()
	assert.Equal(t, 1, *again[0].Rank)
	assert.Equal(t, domain.Centis(10), again[0].Splits[0].Time)
}

func TestEngine_DeleteAndClearRecords(t *testing.T) {
	f := newFixture(t, "Ana")
	f.session(t, SessionPatch{RestSeconds: ptr(0)})
	e, id := f.engine, f.id(t, 1)
	for range 2 {
		require.NoError(t, e.StartAthlete(id))
		f.ticks(3)
		require.NoError(t, e.FinishAthlete(id))
	}
	recs := e.RecentRecords()
	require.Len(t, recs, 2)

	require.NoError(t, e.DeleteRecord(recs[0].ID))
	assert.Len(t, e.Records(), 1)
	assert.ErrorIs(t, e.DeleteRecord("nope"), domain.ErrNotFound)

	e.ClearRecords()
	assert.Empty(t, e.Results())
}
