package app

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"luckystat/domain/lotto"
	"luckystat/internal/errors"
	"luckystat/internal/profiling"
	"luckystat/models"
	"luckystat/ports"

	"github.com/sirupsen/logrus"
)

// StatsReport is the statistics page: bucket shares, missing numbers and the
// frequency profile
type StatsReport struct {
	LastUpdated time.Time         `json:"last_updated"`
	NumberStats map[int]int       `json:"number_stats"`
	Ranges      []lotto.RangeStat `json:"ranges"`
	Missing     map[string][]int  `json:"missing"`
	Profile     profiling.Profile `json:"profile"`
}

// StatsService maintains the frequency table and the list of published draws.
// Writes are serialized so a load-modify-save of the table never interleaves
// with another.
type StatsService struct {
	stats ports.StatsRepository
	clock ports.Clock
	log   logrus.FieldLogger

	writes sync.Mutex

	mu    sync.RWMutex
	draws []lotto.Draw
}

// NewStatsService creates the service with the known published draws
func NewStatsService(stats ports.StatsRepository, draws []lotto.Draw, clock ports.Clock, log logrus.FieldLogger) *StatsService {
	if clock == nil {
		clock = ports.SystemClock
	}
	s := &StatsService{
		stats: stats,
		clock: clock,
		log:   log.WithField("component", "stats"),
	}
	s.setDraws(draws)
	return s
}

func (s *StatsService) setDraws(draws []lotto.Draw) {
	sorted := append([]lotto.Draw(nil), draws...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Round < sorted[j].Round })
	s.mu.Lock()
	s.draws = sorted
	s.mu.Unlock()
}

// Snapshot returns the stored frequency table
func (s *StatsService) Snapshot(ctx context.Context) (models.StatsSnapshot, error) {
	snap, err := s.stats.LoadStats(ctx)
	if err != nil {
		return snap, errors.Wrap(err, "load stats")
	}
	return snap, nil
}

// Draws lists the known draws by ascending round
func (s *StatsService) Draws() []lotto.Draw {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]lotto.Draw(nil), s.draws...)
}

// Draw looks up a round; round 0 selects the latest draw
func (s *StatsService) Draw(round int) (lotto.Draw, error) {
	draws := s.Draws()
	if round == 0 {
		if d, ok := lotto.LatestDraw(draws); ok {
			return d, nil
		}
		return lotto.Draw{}, errors.NotFound("draw")
	}
	if d, ok := lotto.FindDraw(draws, round); ok {
		return d, nil
	}
	return lotto.Draw{}, errors.NotFound(fmt.Sprintf("draw %d", round))
}

// RecordDraw adds a newly published draw and counts its six main numbers
func (s *StatsService) RecordDraw(ctx context.Context, draw lotto.Draw) (models.StatsSnapshot, error) {
	if err := draw.Validate(); err != nil {
		return models.StatsSnapshot{}, errors.WithCode(errors.CodeValidationError, err)
	}

	s.writes.Lock()
	defer s.writes.Unlock()

	if _, ok := lotto.FindDraw(s.Draws(), draw.Round); ok {
		return models.StatsSnapshot{}, errors.Conflict(fmt.Sprintf("draw %d is already recorded", draw.Round))
	}

	snap, err := s.stats.LoadStats(ctx)
	if err != nil {
		return snap, errors.Wrap(err, "load stats")
	}
	if err := snap.Stats.Record(draw.Numbers); err != nil {
		return snap, errors.WithCode(errors.CodeValidationError, err)
	}
	snap.LastUpdated = s.clock.Now()
	if err := s.stats.SaveStats(ctx, snap); err != nil {
		return snap, errors.Wrap(err, "save stats")
	}

	s.setDraws(append(s.Draws(), draw))
	s.log.WithFields(logrus.Fields{"round": draw.Round, "numbers": draw.Numbers}).Info("recorded draw")
	return snap, nil
}

// ImportHistory replaces the frequency table with the counts of draws and adds
// them to the known draws, replacing known rounds
func (s *StatsService) ImportHistory(ctx context.Context, draws []lotto.Draw) (models.StatsSnapshot, error) {
	if len(draws) == 0 {
		return models.StatsSnapshot{}, errors.InvalidInput("history lists no draws")
	}
	seen := make(map[int]bool, len(draws))
	stats := lotto.NewNumberStats()
	for _, d := range draws {
		if seen[d.Round] {
			return models.StatsSnapshot{}, errors.InvalidInput(fmt.Sprintf("round %d appears twice", d.Round))
		}
		seen[d.Round] = true
		if err := stats.Record(d.Numbers); err != nil {
			return models.StatsSnapshot{}, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("round %d: %w", d.Round, err))
		}
	}

	s.writes.Lock()
	defer s.writes.Unlock()

	snap := models.StatsSnapshot{Stats: stats, LastUpdated: s.clock.Now()}
	if err := s.stats.SaveStats(ctx, snap); err != nil {
		return snap, errors.Wrap(err, "save stats")
	}
	s.setDraws(mergeDraws(s.Draws(), draws))
	s.log.WithFields(logrus.Fields{"draws": len(draws), "occurrences": stats.Total()}).Info("imported draw history")
	return snap, nil
}

// Replace stores a frequency table as is, e.g. from an imported bundle
func (s *StatsService) Replace(ctx context.Context, snap models.StatsSnapshot) error {
	if err := snap.Stats.Validate(); err != nil {
		return errors.WithCode(errors.CodeValidationError, err)
	}
	if snap.LastUpdated.IsZero() {
		snap.LastUpdated = s.clock.Now()
	}

	s.writes.Lock()
	defer s.writes.Unlock()

	if err := s.stats.SaveStats(ctx, snap); err != nil {
		return errors.Wrap(err, "save stats")
	}
	return nil
}

// Report builds the statistics page from the stored table
func (s *StatsService) Report(ctx context.Context) (StatsReport, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return StatsReport{}, err
	}
	profile, err := profiling.Analyze(snap.Stats)
	if err != nil {
		return StatsReport{}, errors.Wrap(err, "profile stats")
	}
	return StatsReport{
		LastUpdated: snap.LastUpdated,
		NumberStats: snap.Stats.Map(),
		Ranges:      snap.Stats.RangeStats(),
		Missing:     snap.Stats.MissingNumbers(),
		Profile:     profile,
	}, nil
}

// mergeDraws combines two draw lists; rounds in next win over known
func mergeDraws(known, next []lotto.Draw) []lotto.Draw {
	byRound := make(map[int]lotto.Draw, len(known)+len(next))
	for _, d := range known {
		byRound[d.Round] = d
	}
	for _, d := range next {
		byRound[d.Round] = d
	}
	out := make([]lotto.Draw, 0, len(byRound))
	for _, d := range byRound {
		out = append(out, d)
	}
	return out
}
