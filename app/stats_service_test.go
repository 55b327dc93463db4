package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"luckystat/adapters/memory"
	"luckystat/domain/lotto"
	"luckystat/internal/errors"
	"luckystat/internal/logging"
	"luckystat/models"
	"luckystat/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var statsNow = time.Date(2025, 11, 16, 10, 0, 0, 0, time.UTC)

func newStatsService(t *testing.T, stats lotto.NumberStats) (*StatsService, *memory.StatsStore) {
	t.Helper()
	store := memory.NewStatsStore(models.StatsSnapshot{Stats: stats})
	clock := ports.ClockFunc(func() time.Time { return statsNow })
	return NewStatsService(store, lotto.DefaultDraws, clock, logging.Discard()), store
}

func TestRecordDraw(t *testing.T) {
	svc, store := newStatsService(t, lotto.NewNumberStats())
	ctx := context.Background()

	draw := lotto.Draw{Round: 1199, Date: "2025.11.22", Numbers: []int{3, 9, 14, 27, 35, 44}, Bonus: 12}
	snap, err := svc.RecordDraw(ctx, draw)
	require.NoError(t, err)
	assert.Equal(t, 6, snap.Stats.Total())
	assert.Equal(t, statsNow, snap.LastUpdated)

	stored, err := store.LoadStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Stats[27])
	assert.Equal(t, 0, stored.Stats[12], "the bonus is not counted")

	latest, err := svc.Draw(0)
	require.NoError(t, err)
	assert.Equal(t, 1199, latest.Round)
}

// slowStats delays every load the way a database round-trip would
type slowStats struct {
	*memory.StatsStore
	delay time.Duration
}

func (s slowStats) LoadStats(ctx context.Context) (models.StatsSnapshot, error) {
	time.Sleep(s.delay)
	return s.StatsStore.LoadStats(ctx)
}

func TestRecordDrawConcurrentSameRound(t *testing.T) {
	store := memory.NewStatsStore(models.StatsSnapshot{Stats: lotto.NewNumberStats()})
	clock := ports.ClockFunc(func() time.Time { return statsNow })
	svc := NewStatsService(slowStats{StatsStore: store, delay: 2 * time.Millisecond}, lotto.DefaultDraws, clock, logging.Discard())
	ctx := context.Background()

	draw := lotto.Draw{Round: 1199, Date: "2025.11.22", Numbers: []int{3, 9, 14, 27, 35, 44}, Bonus: 12}
	const callers = 4
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.RecordDraw(ctx, draw)
		}(i)
	}
	wg.Wait()

	accepted := 0
	for _, err := range errs {
		if err == nil {
			accepted++
			continue
		}
		assert.Equal(t, errors.CodeConflict, errors.GetCode(err))
	}
	assert.Equal(t, 1, accepted)

	stored, err := store.LoadStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Stats[27])
	assert.Equal(t, 6, stored.Stats.Total())
	assert.Len(t, svc.Draws(), len(lotto.DefaultDraws)+1)
}

func TestRecordDrawRejects(t *testing.T) {
	svc, store := newStatsService(t, lotto.NewNumberStats())
	ctx := context.Background()

	_, err := svc.RecordDraw(ctx, lotto.Draw{Round: 1199, Numbers: []int{3, 3, 14, 27, 35, 44}, Bonus: 12})
	assert.Equal(t, errors.CodeValidationError, errors.GetCode(err))

	_, err = svc.RecordDraw(ctx, lotto.Draw{Round: 1198, Numbers: []int{26, 30, 33, 38, 39, 41}, Bonus: 21})
	assert.Equal(t, errors.CodeConflict, errors.GetCode(err))

	stored, err := store.LoadStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stored.Stats.Total())
}

func TestImportHistoryReplacesCounts(t *testing.T) {
	stats := lotto.NewNumberStats()
	stats[1] = 100
	svc, _ := newStatsService(t, stats)

	snap, err := svc.ImportHistory(context.Background(), lotto.DefaultDraws)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Stats[2])
	assert.Equal(t, 1, snap.Stats[1])
	assert.Equal(t, 2, snap.Stats[26])
	assert.Equal(t, 12, snap.Stats.Total())
	assert.Len(t, svc.Draws(), 2)
}

func TestImportHistoryRejectsDuplicateRounds(t *testing.T) {
	svc, _ := newStatsService(t, lotto.NewNumberStats())
	draws := []lotto.Draw{lotto.DefaultDraws[0], lotto.DefaultDraws[0]}

	_, err := svc.ImportHistory(context.Background(), draws)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	_, err = svc.ImportHistory(context.Background(), nil)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestDrawLookup(t *testing.T) {
	svc, _ := newStatsService(t, lotto.NewNumberStats())

	d, err := svc.Draw(1197)
	require.NoError(t, err)
	assert.Equal(t, 30, d.Bonus)

	_, err = svc.Draw(5)
	assert.True(t, errors.Is(err, errors.CodeNotFound))

	draws := svc.Draws()
	assert.Equal(t, 1197, draws[0].Round)
	assert.Equal(t, 1198, draws[1].Round)
}

func TestReport(t *testing.T) {
	svc, _ := newStatsService(t, referenceStats())

	report, err := svc.Report(context.Background())
	require.NoError(t, err)

	assert.Len(t, report.Ranges, 9)
	assert.Len(t, report.NumberStats, lotto.MaxNumber)
	assert.Equal(t, referenceStats().Total(), report.Profile.Total)
	// n*37 % 11 is zero exactly for multiples of 11
	assert.Equal(t, []int{11}, report.Missing["11-20"])
	assert.Equal(t, []int{22}, report.Missing["21-30"])
	assert.Len(t, report.Profile.Hot, 5)
}

func TestReplaceValidates(t *testing.T) {
	svc, store := newStatsService(t, lotto.NewNumberStats())
	ctx := context.Background()

	bad := lotto.NewNumberStats()
	bad[3] = -1
	err := svc.Replace(ctx, models.StatsSnapshot{Stats: bad})
	assert.Equal(t, errors.CodeValidationError, errors.GetCode(err))

	require.NoError(t, svc.Replace(ctx, models.StatsSnapshot{Stats: referenceStats()}))
	stored, err := store.LoadStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, statsNow, stored.LastUpdated)
}
