package app

import (
	"context"

	"luckystat/adapters/legacy"
	"luckystat/internal/errors"
	"luckystat/models"
	"luckystat/ports"

	"github.com/sirupsen/logrus"
)

// TransferService moves the stored state in and out of the web client's export
// bundle
type TransferService struct {
	stats   *StatsService
	results ports.ResultRepository
	cache   ports.ResultCache
	clock   ports.Clock
	log     logrus.FieldLogger
}

// NewTransferService wires the service. cache may be nil.
func NewTransferService(stats *StatsService, results ports.ResultRepository, cache ports.ResultCache, clock ports.Clock, log logrus.FieldLogger) *TransferService {
	if clock == nil {
		clock = ports.SystemClock
	}
	return &TransferService{
		stats:   stats,
		results: results,
		cache:   cache,
		clock:   clock,
		log:     log.WithField("component", "transfer"),
	}
}

// Export renders the stats and both result slots as a bundle
func (s *TransferService) Export(ctx context.Context) ([]byte, error) {
	snap, err := s.stats.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	current, err := optionalSlot(s.results.Current(ctx))
	if err != nil {
		return nil, errors.Wrap(err, "load current results")
	}
	lastWeek, err := optionalSlot(s.results.LastWeek(ctx))
	if err != nil {
		return nil, errors.Wrap(err, "load last week results")
	}

	return legacy.Encode(legacy.Bundle{
		Stats:      snap,
		Current:    current,
		LastWeek:   lastWeek,
		ExportedAt: s.clock.Now(),
	})
}

// Import replaces the stats with the bundle's and restores its result slots.
// Last week's results alone land in the current slot, where the next publish
// retires them, unless a newer current slot is already stored.
func (s *TransferService) Import(ctx context.Context, raw []byte) (legacy.Bundle, error) {
	b, err := legacy.Decode(raw)
	if err != nil {
		return b, err
	}
	if b.Stats.LastUpdated.IsZero() {
		b.Stats.LastUpdated = s.clock.Now()
	}
	if err := s.stats.Replace(ctx, b.Stats); err != nil {
		return b, err
	}

	next := b.Current
	if next == nil && b.LastWeek != nil {
		stored, err := optionalSlot(s.results.Current(ctx))
		if err != nil {
			return b, errors.Wrap(err, "load current results")
		}
		if stored != nil && stored.Week.Boundary.After(b.LastWeek.Week.Boundary) {
			next = stored
		}
	}

	switch {
	case b.LastWeek != nil && next != nil:
		if err := s.results.SaveCurrent(ctx, *b.LastWeek); err != nil {
			return b, errors.Wrap(err, "restore last week results")
		}
		if err := s.results.Rotate(ctx, *next); err != nil {
			return b, errors.Wrap(err, "restore current results")
		}
	case next != nil:
		if err := s.results.SaveCurrent(ctx, *next); err != nil {
			return b, errors.Wrap(err, "restore current results")
		}
	case b.LastWeek != nil:
		if err := s.results.SaveCurrent(ctx, *b.LastWeek); err != nil {
			return b, errors.Wrap(err, "restore last week results")
		}
	}

	if s.cache != nil && next != nil {
		if err := s.cache.Invalidate(ctx, next.Week.Key()); err != nil {
			s.log.WithError(err).Warn("result cache invalidation failed")
		}
	}
	s.log.WithFields(logrus.Fields{
		"occurrences":  b.Stats.Stats.Total(),
		"has_current":  b.Current != nil,
		"has_lastweek": b.LastWeek != nil,
	}).Info("imported bundle")
	return b, nil
}

func optionalSlot(rec *models.ResultRecord, err error) (*models.ResultRecord, error) {
	if errors.Is(err, errors.CodeNotFound) {
		return nil, nil
	}
	return rec, err
}
