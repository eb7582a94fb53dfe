package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/okian/pipedash/internal/domain/model"
	"github.com/okian/pipedash/internal/domain/pipeline"
	"gopkg.in/yaml.v3"
)

// stateDocument is the YAML layout the pipeline writes after each run:
//
//	last_run:
//	  status: OK
//	  finished_at: 2026-01-02T03:04:05Z
//	  rows_ingested: 1200
//	  rows_validated: 1189
//	  rows_failed: 11
//	  model_version: v0.1.0
//	evaluation:
//	  metric_name: rmse
//	  metric_value: 0.84
//	  evaluated_at: 2026-01-02T03:05:00Z
type stateDocument struct {
	LastRun    *runRecord        `yaml:"last_run"`
	Evaluation *evaluationRecord `yaml:"evaluation"`
}

type runRecord struct {
	Status        string    `yaml:"status"`
	FinishedAt    time.Time `yaml:"finished_at"`
	RowsIngested  int64     `yaml:"rows_ingested"`
	RowsValidated int64     `yaml:"rows_validated"`
	RowsFailed    int64     `yaml:"rows_failed"`
	ModelVersion  string    `yaml:"model_version"`
}

type evaluationRecord struct {
	MetricName  string    `yaml:"metric_name"`
	MetricValue *float64  `yaml:"metric_value"`
	EvaluatedAt time.Time `yaml:"evaluated_at"`
}

// FileProvider reads the pipeline's state document on every call.
// The pipeline is the single writer; readers never modify the file.
type FileProvider struct {
	path string
}

// NewFileProvider creates a provider for the state document at path.
// The file does not need to exist yet.
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{path: path}
}

// Path returns the state document location.
func (p *FileProvider) Path() string { return p.path }

// LatestSummary returns the last_run section.
func (p *FileProvider) LatestSummary(ctx context.Context) (model.PipelineSummary, pipeline.Availability, error) {
	doc, ok, err := p.read(ctx)
	if err != nil || !ok || doc.LastRun == nil || doc.LastRun.FinishedAt.IsZero() {
		return model.UnavailableSummary(), pipeline.Unavailable, err
	}
	run := doc.LastRun
	s := model.PipelineSummary{
		PipelineStatus: model.PipelineStatus(run.Status),
		LastRunUTC:     model.NewTimestamp(run.FinishedAt),
		RowsIngested:   run.RowsIngested,
		RowsValidated:  run.RowsValidated,
		RowsFailed:     run.RowsFailed,
		ModelVersion:   run.ModelVersion,
	}
	if err := s.Validate(); err != nil {
		return model.UnavailableSummary(), pipeline.Unavailable, fmt.Errorf("%w: %s: %w", ErrStateFile, p.path, err)
	}
	return s, pipeline.Available, nil
}

// LatestMetric returns the evaluation section.
func (p *FileProvider) LatestMetric(ctx context.Context) (model.MetricReading, pipeline.Availability, error) {
	doc, ok, err := p.read(ctx)
	if err != nil || !ok || doc.Evaluation == nil || doc.Evaluation.MetricValue == nil {
		name := ""
		if doc.Evaluation != nil {
			name = doc.Evaluation.MetricName
		}
		return model.UnavailableMetric(name), pipeline.Unavailable, err
	}
	ev := doc.Evaluation
	return model.NewMetricReading(ev.MetricName, *ev.MetricValue, model.NewTimestamp(ev.EvaluatedAt)), pipeline.Available, nil
}

// read loads the document. ok is false when the pipeline has not written it yet.
func (p *FileProvider) read(ctx context.Context) (stateDocument, bool, error) {
	var doc stateDocument
	if err := ctx.Err(); err != nil {
		return doc, false, err
	}
	b, err := os.ReadFile(p.path)
	if errors.Is(err, fs.ErrNotExist) {
		return doc, false, nil
	}
	if err != nil {
		return doc, false, fmt.Errorf("%w: %w", ErrStateFile, err)
	}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return stateDocument{}, false, fmt.Errorf("%w: %s: %w", ErrStateFile, p.path, err)
	}
	return doc, true, nil
}
