package sqlstore

import (
	"context"
	"time"

	"luckystat/domain/lotto"
	"luckystat/internal/errors"
	"luckystat/models"
	"luckystat/ports"

	"github.com/jmoiron/sqlx"
)

// StatsRepository stores one row per number in number_stats
type StatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository creates a SQL stats repository
func NewStatsRepository(db *sqlx.DB) ports.StatsRepository {
	return &StatsRepository{db: db}
}

type statsRow struct {
	Number      int       `db:"number"`
	Occurrences int       `db:"occurrences"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// LoadStats reads every stored count. Numbers without a row count zero.
func (r *StatsRepository) LoadStats(ctx context.Context) (models.StatsSnapshot, error) {
	var rows []statsRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT number, occurrences, updated_at FROM number_stats ORDER BY number`); err != nil {
		return models.StatsSnapshot{}, errors.DatabaseError("failed to load number stats", err)
	}

	var snap models.StatsSnapshot
	for _, row := range rows {
		if row.Number < lotto.MinNumber || row.Number > lotto.MaxNumber {
			continue
		}
		snap.Stats[row.Number] = row.Occurrences
		if row.UpdatedAt.After(snap.LastUpdated) {
			snap.LastUpdated = row.UpdatedAt
		}
	}
	return snap, nil
}

// SaveStats replaces all 45 counts in one transaction
func (r *StatsRepository) SaveStats(ctx context.Context, snapshot models.StatsSnapshot) error {
	if err := snapshot.Stats.Validate(); err != nil {
		return errors.WithCode(errors.CodeValidationError, err)
	}
	updated := snapshot.LastUpdated
	if updated.IsZero() {
		updated = time.Now()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.DatabaseError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	query := r.db.Rebind(`
		INSERT INTO number_stats (number, occurrences, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (number) DO UPDATE SET occurrences = excluded.occurrences, updated_at = excluded.updated_at`)
	for n := lotto.MinNumber; n <= lotto.MaxNumber; n++ {
		if _, err := tx.ExecContext(ctx, query, n, snapshot.Stats[n], updated.UTC()); err != nil {
			return errors.DatabaseError("failed to save number stats", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.DatabaseError("failed to commit number stats", err)
	}
	return nil
}
