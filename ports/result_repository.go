package ports

import (
	"context"

	"luckystat/models"
)

// ResultRepository keeps the published generation of the current week and the one
// it replaced. Lookups of an empty slot return a NOT_FOUND AppError.
type ResultRepository interface {
	// SaveCurrent overwrites the current slot
	SaveCurrent(ctx context.Context, record models.ResultRecord) error

	// Current returns the current slot
	Current(ctx context.Context) (*models.ResultRecord, error)

	// LastWeek returns the previous week's slot
	LastWeek(ctx context.Context) (*models.ResultRecord, error)

	// Rotate moves the current slot (if any) to last week and stores next as current,
	// atomically
	Rotate(ctx context.Context, next models.ResultRecord) error
}
