package memory

import (
	"context"
	"testing"
	"time"

	"luckystat/domain/lotto"
	"luckystat/domain/week"
	"luckystat/internal/errors"
	"luckystat/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(at time.Time) models.ResultRecord {
	id := week.Current(at)
	sets := lotto.ResultSet{lotto.NewCandidateSet([]int{1, 2, 3, 4, 5, 6}, lotto.StrategyRandom)}
	return models.NewResultRecord(id, week.SeedFor(id), sets, nil, at)
}

func TestStatsStore(t *testing.T) {
	ctx := context.Background()
	store := NewStatsStore(models.StatsSnapshot{})

	snap, err := store.LoadStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, snap.Stats.Total())

	var stats lotto.NumberStats
	stats[7] = 3
	require.NoError(t, store.SaveStats(ctx, models.StatsSnapshot{Stats: stats, LastUpdated: time.Unix(100, 0)}))

	snap, err = store.LoadStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Stats[7])
	assert.Equal(t, time.Unix(100, 0), snap.LastUpdated)

	stats[8] = -1
	err = store.SaveStats(ctx, models.StatsSnapshot{Stats: stats})
	assert.Equal(t, errors.CodeValidationError, errors.GetCode(err))
}

func TestResultStoreEmptySlots(t *testing.T) {
	store := NewResultStore()
	_, err := store.Current(context.Background())
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
	_, err = store.LastWeek(context.Background())
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

func TestResultStoreRotate(t *testing.T) {
	ctx := context.Background()
	store := NewResultStore()
	first := record(time.Date(2025, 1, 2, 17, 0, 0, 0, week.Zone))
	second := record(time.Date(2025, 1, 9, 17, 0, 0, 0, week.Zone))

	require.NoError(t, store.Rotate(ctx, first))
	_, err := store.LastWeek(ctx)
	assert.Error(t, err, "rotating into an empty store leaves last week empty")

	require.NoError(t, store.Rotate(ctx, second))
	cur, err := store.Current(ctx)
	require.NoError(t, err)
	last, err := store.LastWeek(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, cur.ID)
	assert.Equal(t, first.ID, last.ID)
}

func TestResultStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewResultStore()
	rec := record(time.Date(2025, 1, 2, 17, 0, 0, 0, week.Zone))
	require.NoError(t, store.SaveCurrent(ctx, rec))

	got, err := store.Current(ctx)
	require.NoError(t, err)
	got.Sets[0].Numbers[0] = 40

	again, err := store.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, again.Sets[0].Numbers[0])
}
