package ports

import (
	"context"

	"luckystat/models"
)

// ResultCache fronts the result repository, keyed by week key
type ResultCache interface {
	Get(ctx context.Context, weekKey string) (*models.ResultRecord, bool, error)
	Set(ctx context.Context, record models.ResultRecord) error
	Invalidate(ctx context.Context, weekKey string) error
}
