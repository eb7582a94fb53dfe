package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/okian/pipedash/internal/domain/model"
	"github.com/okian/pipedash/internal/domain/pipeline"

	_ "github.com/lib/pq" // registers the "postgres" driver
)

const (
	latestRunQuery = `
        SELECT status, finished_at, rows_ingested, rows_validated, rows_failed, model_version
        FROM pipeline_runs
        WHERE finished_at IS NOT NULL
        ORDER BY finished_at DESC
        LIMIT 1
    `

	latestEvaluationQuery = `
        SELECT metric_name, metric_value, evaluated_at
        FROM model_evaluations
        WHERE evaluated_at IS NOT NULL
        ORDER BY evaluated_at DESC
        LIMIT 1
    `
)

// rowScanner is the subset of *sql.Row the mappers need.
type rowScanner interface {
	Scan(dest ...any) error
}

// PostgresProvider reads the latest run and evaluation the pipeline recorded
// in PostgreSQL.
type PostgresProvider struct {
	db *sql.DB

	maxOpenConns    int
	maxIdleConns    int
	connMaxLifetime time.Duration
}

// NewPostgresProvider opens a pool for dsn and verifies it with a ping bounded by ctx.
func NewPostgresProvider(ctx context.Context, dsn string, opts ...PostgresOption) (*PostgresProvider, error) {
	p := &PostgresProvider{
		maxOpenConns:    10,
		maxIdleConns:    2,
		connMaxLifetime: 5 * time.Minute,
	}
	for _, opt := range opts {
		opt(p)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnect, err)
	}

	db.SetMaxOpenConns(p.maxOpenConns)
	db.SetMaxIdleConns(p.maxIdleConns)
	db.SetConnMaxLifetime(p.connMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %w", ErrConnect, err)
	}

	p.db = db
	return p, nil
}

// LatestSummary returns the most recent finished run.
func (p *PostgresProvider) LatestSummary(ctx context.Context) (model.PipelineSummary, pipeline.Availability, error) {
	return scanSummary(p.db.QueryRowContext(ctx, latestRunQuery))
}

// LatestMetric returns the most recent evaluation.
func (p *PostgresProvider) LatestMetric(ctx context.Context) (model.MetricReading, pipeline.Availability, error) {
	return scanMetric(p.db.QueryRowContext(ctx, latestEvaluationQuery))
}

// Close releases the pool.
func (p *PostgresProvider) Close() error {
	return p.db.Close()
}

func scanSummary(row rowScanner) (model.PipelineSummary, pipeline.Availability, error) {
	var (
		status     string
		finishedAt time.Time
		s          model.PipelineSummary
	)
	err := row.Scan(&status, &finishedAt, &s.RowsIngested, &s.RowsValidated, &s.RowsFailed, &s.ModelVersion)
	if errors.Is(err, sql.ErrNoRows) {
		return model.UnavailableSummary(), pipeline.Unavailable, nil
	}
	if err != nil {
		return model.UnavailableSummary(), pipeline.Unavailable, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	s.PipelineStatus = model.PipelineStatus(status)
	s.LastRunUTC = model.NewTimestamp(finishedAt)
	if err := s.Validate(); err != nil {
		return model.UnavailableSummary(), pipeline.Unavailable, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	return s, pipeline.Available, nil
}

func scanMetric(row rowScanner) (model.MetricReading, pipeline.Availability, error) {
	var (
		name        string
		value       sql.NullFloat64
		evaluatedAt time.Time
	)
	err := row.Scan(&name, &value, &evaluatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.UnavailableMetric(""), pipeline.Unavailable, nil
	}
	if err != nil {
		return model.UnavailableMetric(""), pipeline.Unavailable, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	if !value.Valid {
		return model.UnavailableMetric(name), pipeline.Unavailable, nil
	}
	return model.NewMetricReading(name, value.Float64, model.NewTimestamp(evaluatedAt)), pipeline.Available, nil
}
