package app

import (
	"context"
	"time"

	"luckystat/domain/lotto"
	"luckystat/domain/week"
	"luckystat/internal/errors"
	"luckystat/internal/metrics"
	"luckystat/models"
	"luckystat/ports"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// Publish triggers, used as metric labels
const (
	TriggerOnDemand = "on_demand"
	TriggerSchedule = "schedule"
	TriggerStartup  = "startup"
)

// GenerationService publishes one generation per week and serves the stored
// current and last-week results
type GenerationService struct {
	pipeline *Pipeline
	stats    ports.StatsRepository
	results  ports.ResultRepository
	cache    ports.ResultCache
	clock    ports.Clock
	log      logrus.FieldLogger

	publishes singleflight.Group
}

// NewGenerationService wires the service. cache may be nil.
func NewGenerationService(
	pipeline *Pipeline,
	stats ports.StatsRepository,
	results ports.ResultRepository,
	cache ports.ResultCache,
	clock ports.Clock,
	log logrus.FieldLogger,
) *GenerationService {
	if clock == nil {
		clock = ports.SystemClock
	}
	return &GenerationService{
		pipeline: pipeline,
		stats:    stats,
		results:  results,
		cache:    cache,
		clock:    clock,
		log:      log.WithField("component", "generation"),
	}
}

// Current returns this week's results, publishing them first when the stored
// current slot is missing or belongs to an earlier week
func (s *GenerationService) Current(ctx context.Context) (*models.ResultRecord, error) {
	id := week.Current(s.clock.Now())

	if rec, ok := s.cached(ctx, id); ok {
		return rec, nil
	}

	rec, err := s.results.Current(ctx)
	switch {
	case err == nil && rec.BelongsTo(id):
		s.remember(ctx, *rec)
		return rec, nil
	case err != nil && !errors.Is(err, errors.CodeNotFound):
		return nil, errors.Wrap(err, "load current results")
	}
	return s.publish(ctx, id, TriggerOnDemand)
}

// Rotate publishes the week containing now, moving the stored results into the
// last-week slot. It is a no-op when this week is already published.
func (s *GenerationService) Rotate(ctx context.Context, trigger string) (*models.ResultRecord, error) {
	return s.publish(ctx, week.Current(s.clock.Now()), trigger)
}

// LastWeek returns the results the latest rotation retired
func (s *GenerationService) LastWeek(ctx context.Context) (*models.ResultRecord, error) {
	rec, err := s.results.LastWeek(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load last week results")
	}
	return rec, nil
}

// Preview generates the sets of the week containing at from the current stats
// without storing them
func (s *GenerationService) Preview(ctx context.Context, at time.Time) (Generation, error) {
	snap, err := s.stats.LoadStats(ctx)
	if err != nil {
		return Generation{}, errors.Wrap(err, "load stats")
	}
	return s.pipeline.Generate(at, snap.Stats), nil
}

// Grade ranks the stored results of a slot against a draw
func (s *GenerationService) Grade(ctx context.Context, lastWeek bool, draw lotto.Draw) (*models.ResultRecord, []lotto.RankedSet, error) {
	var rec *models.ResultRecord
	var err error
	if lastWeek {
		rec, err = s.LastWeek(ctx)
	} else {
		rec, err = s.Current(ctx)
	}
	if err != nil {
		return nil, nil, err
	}
	return rec, lotto.CheckAll(rec.Sets, draw), nil
}

func (s *GenerationService) cached(ctx context.Context, id week.Identifier) (*models.ResultRecord, bool) {
	if s.cache == nil {
		return nil, false
	}
	rec, ok, err := s.cache.Get(ctx, id.Key())
	if err != nil {
		s.log.WithError(err).Warn("result cache lookup failed")
		return nil, false
	}
	hit := ok && rec.BelongsTo(id)
	metrics.RecordCacheLookup(hit)
	return rec, hit
}

func (s *GenerationService) remember(ctx context.Context, rec models.ResultRecord) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, rec); err != nil {
		s.log.WithError(err).WithField("week", rec.Week.Key()).Warn("result cache update failed")
	}
}

// publish generates and stores the given week once; concurrent callers for the
// same week share the result
func (s *GenerationService) publish(ctx context.Context, id week.Identifier, trigger string) (*models.ResultRecord, error) {
	v, err, shared := s.publishes.Do(id.Key(), func() (interface{}, error) {
		current, err := s.results.Current(ctx)
		if err == nil && current.BelongsTo(id) {
			return current, nil
		}
		if err != nil && !errors.Is(err, errors.CodeNotFound) {
			return nil, errors.Wrap(err, "load current results")
		}

		snap, err := s.stats.LoadStats(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "load stats")
		}

		start := time.Now()
		gen := s.pipeline.Generate(id.Boundary, snap.Stats)
		elapsed := time.Since(start)

		rec := models.NewResultRecord(gen.Week, gen.Seed, gen.Sets, gen.Bonuses, s.clock.Now())
		if err := s.results.Rotate(ctx, rec); err != nil {
			return nil, errors.Wrap(err, "store generated results")
		}

		metrics.RecordGeneration(trigger, elapsed, gen.Diagnostics.Draws, gen.Diagnostics.Corrections, gen.Diagnostics.ConstraintFallbacks)
		s.log.WithFields(logrus.Fields{
			"week":                 gen.Week.Key(),
			"seed":                 gen.Seed,
			"trigger":              trigger,
			"draws":                gen.Diagnostics.Draws,
			"corrections":          gen.Diagnostics.Corrections,
			"constraint_fallbacks": gen.Diagnostics.ConstraintFallbacks,
		}).Info("published weekly results")

		s.remember(ctx, rec)
		return &rec, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.log.WithField("week", id.Key()).Debug("joined in-flight publish")
	}
	rec := v.(*models.ResultRecord).Clone()
	return &rec, nil
}
