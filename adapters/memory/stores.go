// Package memory holds process-local stores used when no database is configured.
package memory

import (
	"context"
	"sync"

	"luckystat/internal/errors"
	"luckystat/models"
	"luckystat/ports"
)

// StatsStore keeps the frequency table in memory
type StatsStore struct {
	mu       sync.RWMutex
	snapshot models.StatsSnapshot
}

// NewStatsStore creates a store seeded with snapshot
func NewStatsStore(snapshot models.StatsSnapshot) *StatsStore {
	return &StatsStore{snapshot: snapshot}
}

var _ ports.StatsRepository = (*StatsStore)(nil)

func (s *StatsStore) LoadStats(ctx context.Context) (models.StatsSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot, nil
}

func (s *StatsStore) SaveStats(ctx context.Context, snapshot models.StatsSnapshot) error {
	if err := snapshot.Stats.Validate(); err != nil {
		return errors.WithCode(errors.CodeValidationError, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snapshot
	return nil
}

// ResultStore keeps the current and last-week slots in memory
type ResultStore struct {
	mu       sync.RWMutex
	current  *models.ResultRecord
	lastWeek *models.ResultRecord
}

// NewResultStore creates an empty store
func NewResultStore() *ResultStore {
	return &ResultStore{}
}

var _ ports.ResultRepository = (*ResultStore)(nil)

func (s *ResultStore) SaveCurrent(ctx context.Context, record models.ResultRecord) error {
	rec := record.Clone()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &rec
	return nil
}

func (s *ResultStore) Current(ctx context.Context) (*models.ResultRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlot(s.current, "current results")
}

func (s *ResultStore) LastWeek(ctx context.Context) (*models.ResultRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlot(s.lastWeek, "last week results")
}

func (s *ResultStore) Rotate(ctx context.Context, next models.ResultRecord) error {
	rec := next.Clone()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		s.lastWeek = s.current
	}
	s.current = &rec
	return nil
}

func cloneSlot(slot *models.ResultRecord, name string) (*models.ResultRecord, error) {
	if slot == nil {
		return nil, errors.NotFound(name)
	}
	rec := slot.Clone()
	return &rec, nil
}
