package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/swimset/internal/domain"
)

func TestRecordArgs(t *testing.T) {
	rank := 2
	target := domain.Centis(3000)
	at := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)

	args, err := recordArgs(domain.Record{ID: "r", Lane: 3, Time: 2850, Rank: &rank, TargetTime: &target, Timestamp: at})
	require.NoError(t, err)
	require.Len(t, args, 17)
	assert.Equal(t, "r", args[0])
	assert.Equal(t, int32(3), args[3])
	assert.Equal(t, int64(2850), args[12])
	assert.Equal(t, int32(2), args[13])
	assert.Equal(t, []byte("[]"), args[14])
	assert.Equal(t, int64(3000), args[15])
	assert.Equal(t, at, args[16])

	args, err = recordArgs(domain.Record{ID: "u"})
	require.NoError(t, err)
	assert.Nil(t, args[13])
	assert.Nil(t, args[15])
}

func TestRecordStore_Integration(t *testing.T) {
	url := os.Getenv("SWIMSET_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("SWIMSET_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	store, err := Open(ctx, url)
	require.NoError(t, err)
	defer store.Close()

	rank := 1
	rec := domain.Record{
		ID:          domain.RecordID(uuid.NewString()),
		AthleteID:   "a",
		AthleteName: "Ana",
		Lane:        1,
		SessionName: "Main",
		Stroke:      domain.StrokeFreestyle,
		SetNumber:   1,
		Time:        2850,
		Rank:        &rank,
		Splits:      []domain.Split{{Distance: 25, Time: 1400}},
		Timestamp:   time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, store.Send(ctx, []domain.Record{rec}))
	require.NoError(t, store.Send(ctx, []domain.Record{rec}), "retried batch is idempotent")

	all, err := store.Records(ctx)
	require.NoError(t, err)
	var found int
	for _, r := range all {
		if r.ID == rec.ID {
			found++
			assert.Equal(t, rec.Splits, r.Splits)
			assert.Equal(t, 1, *r.Rank)
			assert.Nil(t, r.TargetTime)
		}
	}
	assert.Equal(t, 1, found)
}
