package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/imgworks/flux-kontext-api/internal/store"
	"github.com/imgworks/flux-kontext-api/internal/store/model"
)

// DB defines the interface for database operations (satisfied by *sqlx.DB
// and *sqlx.Tx).
type DB interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// SqliteRepository implements store.Repository.
type SqliteRepository struct {
	db *sqlx.DB
}

func NewSqliteRepository(db *sqlx.DB) *SqliteRepository {
	return &SqliteRepository{db: db}
}

func (r *SqliteRepository) Close() error {
	return r.db.Close()
}

func (r *SqliteRepository) Generations() store.GenerationRepository {
	return &generationRepo{db: r.db}
}

type generationRepo struct {
	db DB
}

func (r *generationRepo) Log(ctx context.Context, log *model.GenerationLog) error {
	query := `
	INSERT INTO generation_logs (
		id, kind, model_ref, version, prompt, image_url,
		status, output_url, error, latency_ms, created_at
	) VALUES (
		:id, :kind, :model_ref, :version, :prompt, :image_url,
		:status, :output_url, :error, :latency_ms, :created_at
	)`
	_, err := r.db.NamedExecContext(ctx, query, log)
	return err
}

func (r *generationRepo) GetByID(ctx context.Context, id string) (*model.GenerationLog, error) {
	var log model.GenerationLog
	err := r.db.GetContext(ctx, &log, `SELECT * FROM generation_logs WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *generationRepo) GetRecent(ctx context.Context, limit int) ([]model.GenerationLog, error) {
	var logs []model.GenerationLog
	err := r.db.SelectContext(ctx, &logs,
		`SELECT * FROM generation_logs ORDER BY created_at DESC LIMIT ?`, limit)
	return logs, err
}

func (r *generationRepo) GetDailyStats(ctx context.Context, days int) ([]model.DailyStats, error) {
	var stats []model.DailyStats
	query := `
	SELECT
		date(created_at) AS day,
		COUNT(*) AS requests,
		SUM(CASE WHEN kind = 'edit' THEN 1 ELSE 0 END) AS edits,
		SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END) AS failures,
		AVG(latency_ms) AS avg_latency_ms
	FROM generation_logs
	WHERE created_at >= datetime('now', ?)
	GROUP BY date(created_at)
	ORDER BY day DESC`
	err := r.db.SelectContext(ctx, &stats, query, fmt.Sprintf("-%d days", days))
	return stats, err
}
