package repository

import (
	"context"
	"time"

	"github.com/okian/pipedash/internal/domain/model"
	"github.com/okian/pipedash/internal/domain/pipeline"
)

// Fixed values reported until a real pipeline store is configured.
const (
	placeholderRowsIngested  = 1200
	placeholderRowsValidated = 1189
	placeholderRowsFailed    = 11
	placeholderModelVersion  = "v0.1.0"
	placeholderMetricName    = "rmse"
	placeholderMetricValue   = 0.84
)

// PlaceholderProvider is always available and reports fixed values stamped
// with the current time.
type PlaceholderProvider struct {
	now func() time.Time
}

// NewPlaceholderProvider creates a placeholder provider.
func NewPlaceholderProvider(opts ...PlaceholderOption) *PlaceholderProvider {
	p := &PlaceholderProvider{now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// LatestSummary returns the fixed run summary.
func (p *PlaceholderProvider) LatestSummary(_ context.Context) (model.PipelineSummary, pipeline.Availability, error) {
	return model.PipelineSummary{
		PipelineStatus: model.StatusOK,
		LastRunUTC:     model.NewTimestamp(p.now()),
		RowsIngested:   placeholderRowsIngested,
		RowsValidated:  placeholderRowsValidated,
		RowsFailed:     placeholderRowsFailed,
		ModelVersion:   placeholderModelVersion,
	}, pipeline.Available, nil
}

// LatestMetric returns the fixed evaluation.
func (p *PlaceholderProvider) LatestMetric(_ context.Context) (model.MetricReading, pipeline.Availability, error) {
	return model.NewMetricReading(placeholderMetricName, placeholderMetricValue, model.NewTimestamp(p.now())), pipeline.Available, nil
}
