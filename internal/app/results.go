package app

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/samber/lo"

	"github.com/bft-labs/swimset/internal/domain"
)

// ResultStore is the in-memory, append-only record log.
type ResultStore struct {
	records []domain.Record
}

// NewResultStore creates an empty store.
func NewResultStore() *ResultStore {
	return &ResultStore{}
}

// Append adds a record to the end of the log.
func (s *ResultStore) Append(r domain.Record) {
	s.records = append(s.records, r.Clone())
}

// Delete removes the record with the given id.
func (s *ResultStore) Delete(id domain.RecordID) error {
	i := slices.IndexFunc(s.records, func(r domain.Record) bool { return r.ID == id })
	if i < 0 {
		return fmt.Errorf("delete record %s: %w", id, domain.ErrNotFound)
	}
	s.records = slices.Delete(s.records, i, i+1)
	return nil
}

// Clear removes every record.
func (s *ResultStore) Clear() {
	s.records = nil
}

// Replace swaps the whole log, used by snapshot import.
func (s *ResultStore) Replace(records []domain.Record) {
	s.records = lo.Map(records, func(r domain.Record, _ int) domain.Record { return r.Clone() })
}

// All returns the records in append order.
func (s *ResultStore) All() []domain.Record {
	return lo.Map(s.records, func(r domain.Record, _ int) domain.Record { return r.Clone() })
}

// Recent returns the records newest first.
func (s *ResultStore) Recent() []domain.Record {
	out := s.All()
	slices.Reverse(out)
	return out
}

// Len returns the number of records.
func (s *ResultStore) Len() int {
	return len(s.records)
}

type groupKey struct {
	session string
	set     int
}

// Grouped groups records by session name and set number. Groups are ordered by
// session index, then set number. Within a group records are ordered by rank
// when both sides are ranked and by raw time otherwise; with a mix of ranked and
// unranked records that order depends on the input order.
func (s *ResultStore) Grouped() []domain.RecordGroup {
	byKey := lo.GroupBy(s.records, func(r domain.Record) groupKey {
		return groupKey{session: r.SessionName, set: r.SetNumber}
	})

	groups := lo.MapToSlice(byKey, func(_ groupKey, recs []domain.Record) domain.RecordGroup {
		first := recs[0]
		g := domain.RecordGroup{
			SessionName:  first.SessionName,
			SessionIndex: first.SessionIndex,
			Distance:     first.Distance,
			Stroke:       first.Stroke,
			SetNumber:    first.SetNumber,
			Records:      lo.Map(recs, func(r domain.Record, _ int) domain.Record { return r.Clone() }),
		}
		slices.SortStableFunc(g.Records, compareResults)
		return g
	})

	slices.SortFunc(groups, func(a, b domain.RecordGroup) int {
		return cmp.Or(
			cmp.Compare(a.SessionIndex, b.SessionIndex),
			cmp.Compare(a.SetNumber, b.SetNumber),
			cmp.Compare(a.SessionName, b.SessionName),
		)
	})
	return groups
}

func compareResults(a, b domain.Record) int {
	if a.Rank != nil && b.Rank != nil {
		return cmp.Compare(*a.Rank, *b.Rank)
	}
	return cmp.Compare(a.Time, b.Time)
}
