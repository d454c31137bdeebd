package store

import (
	"context"

	"github.com/imgworks/flux-kontext-api/internal/store/model"
)

// Repository is the contract for the data layer.
type Repository interface {
	Generations() GenerationRepository

	Close() error
}

type GenerationRepository interface {
	// Log stores a completed generation.
	Log(ctx context.Context, log *model.GenerationLog) error
	// GetByID returns a single generation log.
	GetByID(ctx context.Context, id string) (*model.GenerationLog, error)
	// GetRecent returns the last N generations.
	GetRecent(ctx context.Context, limit int) ([]model.GenerationLog, error)
	// GetDailyStats returns aggregated stats grouped by day.
	GetDailyStats(ctx context.Context, days int) ([]model.DailyStats, error)
}
