package ports

import (
	"context"

	"luckystat/models"
)

// StatsRepository stores the per-number frequency table
type StatsRepository interface {
	// LoadStats returns the stored table. A store that was never written returns
	// all-zero stats with a zero LastUpdated.
	LoadStats(ctx context.Context) (models.StatsSnapshot, error)

	// SaveStats replaces the stored table
	SaveStats(ctx context.Context, snapshot models.StatsSnapshot) error
}
