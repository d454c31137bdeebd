package analytics

import (
	"context"

	"github.com/imgworks/flux-kontext-api/internal/store"
	"github.com/imgworks/flux-kontext-api/internal/store/model"
)

type Service interface {
	GetGeneration(ctx context.Context, id string) (*model.GenerationLog, error)
	GetRecent(ctx context.Context, limit int) ([]model.GenerationLog, error)
	GetUsageOverview(ctx context.Context, days int) ([]model.DailyStats, error)
}

type service struct {
	repo store.Repository
}

func NewService(repo store.Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetGeneration(ctx context.Context, id string) (*model.GenerationLog, error) {
	return s.repo.Generations().GetByID(ctx, id)
}

func (s *service) GetRecent(ctx context.Context, limit int) ([]model.GenerationLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.Generations().GetRecent(ctx, limit)
}

func (s *service) GetUsageOverview(ctx context.Context, days int) ([]model.DailyStats, error) {
	if days <= 0 {
		days = 7 // default to last week
	}
	return s.repo.Generations().GetDailyStats(ctx, days)
}
