// Package postgres stores records in PostgreSQL.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bft-labs/swimset/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS swim_records (
  id            TEXT PRIMARY KEY,
  athlete_id    TEXT NOT NULL,
  athlete_name  TEXT NOT NULL,
  lane          INTEGER NOT NULL,
  group_id      TEXT NOT NULL,
  group_name    TEXT NOT NULL,
  session_id    TEXT NOT NULL,
  session_name  TEXT NOT NULL,
  session_index INTEGER NOT NULL,
  distance      INTEGER NOT NULL,
  stroke        TEXT NOT NULL,
  set_number    INTEGER NOT NULL,
  time_centis   BIGINT NOT NULL,
  rank          INTEGER,
  splits        JSONB NOT NULL,
  target_centis BIGINT,
  recorded_at   TIMESTAMPTZ NOT NULL
)`

const insertRecord = `
INSERT INTO swim_records (
  id, athlete_id, athlete_name, lane, group_id, group_name,
  session_id, session_name, session_index, distance, stroke, set_number,
  time_centis, rank, splits, target_centis, recorded_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
ON CONFLICT (id) DO NOTHING`

// RecordStore implements ports.RecordSender on a pgx pool. Inserts are
// idempotent on record id, so a retried batch does not duplicate rows.
type RecordStore struct {
	pool *pgxpool.Pool
}

// Open connects to the database at url and makes sure the table exists.
func Open(ctx context.Context, url string) (*RecordStore, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &RecordStore{pool: pool}, nil
}

// Send inserts the records in one transaction.
func (s *RecordStore) Send(ctx context.Context, records []domain.Record) error {
	if len(records) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, r := range records {
		args, err := recordArgs(r)
		if err != nil {
			return err
		}
		batch.Queue(insertRecord, args...)
	}
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return tx.SendBatch(ctx, batch).Close()
	})
}

// Records returns every stored record, oldest first.
func (s *RecordStore) Records(ctx context.Context) ([]domain.Record, error) {
	rows, err := s.pool.Query(ctx, `
SELECT id, athlete_id, athlete_name, lane, group_id, group_name,
       session_id, session_name, session_index, distance, stroke, set_number,
       time_centis, rank, splits, target_centis, recorded_at
FROM swim_records ORDER BY recorded_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Record, error) {
		var (
			r      domain.Record
			splits []byte
		)
		err := row.Scan(
			&r.ID, &r.AthleteID, &r.AthleteName, &r.Lane, &r.GroupID, &r.GroupName,
			&r.SessionID, &r.SessionName, &r.SessionIndex, &r.Distance, &r.Stroke, &r.SetNumber,
			&r.Time, &r.Rank, &splits, &r.TargetTime, &r.Timestamp,
		)
		if err != nil {
			return r, err
		}
		if err := json.Unmarshal(splits, &r.Splits); err != nil {
			return r, fmt.Errorf("decode splits of %s: %w", r.ID, err)
		}
		return r, nil
	})
}

// Close releases the pool.
func (s *RecordStore) Close() {
	s.pool.Close()
}

func recordArgs(r domain.Record) ([]any, error) {
	splits := r.Splits
	if splits == nil {
		splits = []domain.Split{}
	}
	splitsJSON, err := json.Marshal(splits)
	if err != nil {
		return nil, fmt.Errorf("encode splits of %s: %w", r.ID, err)
	}
	var rank, target any
	if r.Rank != nil {
		rank = int32(*r.Rank)
	}
	if r.TargetTime != nil {
		target = int64(*r.TargetTime)
	}
	return []any{
		string(r.ID), string(r.AthleteID), r.AthleteName, int32(r.Lane),
		string(r.GroupID), r.GroupName, string(r.SessionID), r.SessionName,
		int32(r.SessionIndex), int32(r.Distance), string(r.Stroke), int32(r.SetNumber),
		int64(r.Time), rank, splitsJSON, target, r.Timestamp,
	}, nil
}
