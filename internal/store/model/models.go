package model

import (
	"database/sql"
	"time"
)

// GenerationLog captures one completed dispatch through the gateway, for
// offline usage analysis. Job state itself stays in memory; this table is an
// append-only audit trail.
type GenerationLog struct {
	ID         string         `db:"id" json:"id"`
	Kind       string         `db:"kind" json:"kind"` // 'edit' or 'generate'
	ModelRef   string         `db:"model_ref" json:"model_ref"`
	Version    string         `db:"version" json:"version"`
	Prompt     string         `db:"prompt" json:"prompt"`
	ImageURL   sql.NullString `db:"image_url" json:"image_url,omitempty"`
	Status     string         `db:"status" json:"status"`
	OutputURL  sql.NullString `db:"output_url" json:"output_url,omitempty"`
	Error      sql.NullString `db:"error" json:"error,omitempty"`
	LatencyMS  int64          `db:"latency_ms" json:"latency_ms"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
}

// DailyStats is one row of the aggregated usage overview.
type DailyStats struct {
	Day          string  `db:"day" json:"day"`
	Requests     int     `db:"requests" json:"requests"`
	Edits        int     `db:"edits" json:"edits"`
	Failures     int     `db:"failures" json:"failures"`
	AvgLatencyMS float64 `db:"avg_latency_ms" json:"avg_latency_ms"`
}
