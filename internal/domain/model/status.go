// Package model contains the response records passed between layers.
package model

import (
	"fmt"
	"math"
)

// HealthStatus is the liveness state reported by /health.
type HealthStatus string

// Health states.
const (
	HealthOK       HealthStatus = "ok"
	HealthDegraded HealthStatus = "degraded"
	HealthDown     HealthStatus = "down"
)

// PipelineStatus is the outcome of the most recent pipeline run.
type PipelineStatus string

// Pipeline states. StatusUnknown is only produced when no run is available.
const (
	StatusOK      PipelineStatus = "OK"
	StatusWarn    PipelineStatus = "WARN"
	StatusFail    PipelineStatus = "FAIL"
	StatusUnknown PipelineStatus = "UNKNOWN"
)

// Valid reports whether s is a status a pipeline run may record.
func (s PipelineStatus) Valid() bool {
	switch s {
	case StatusOK, StatusWarn, StatusFail:
		return true
	default:
		return false
	}
}

// unknownModelVersion is reported when no run has completed yet.
const unknownModelVersion = "unknown"

// HealthRecord is the body of GET /health.
type HealthRecord struct {
	Status  HealthStatus `json:"status"`
	TimeUTC Timestamp    `json:"time_utc"`
}

// PipelineSummary describes the most recent pipeline run.
type PipelineSummary struct {
	PipelineStatus PipelineStatus `json:"pipeline_status"`
	LastRunUTC     Timestamp      `json:"last_run_utc"`
	RowsIngested   int64          `json:"rows_ingested"`
	RowsValidated  int64          `json:"rows_validated"`
	RowsFailed     int64          `json:"rows_failed"`
	ModelVersion   string         `json:"model_version"`
}

// Validate checks the row accounting of a run record.
func (s PipelineSummary) Validate() error {
	if !s.PipelineStatus.Valid() {
		return fmt.Errorf("%w: pipeline_status %q", ErrInvalidRecord, s.PipelineStatus)
	}
	if s.RowsIngested < 0 || s.RowsValidated < 0 || s.RowsFailed < 0 {
		return fmt.Errorf("%w: negative row count", ErrInconsistentCounts)
	}
	if s.RowsValidated > s.RowsIngested-s.RowsFailed {
		return fmt.Errorf("%w: validated(%d)+failed(%d) > ingested(%d)",
			ErrInconsistentCounts, s.RowsValidated, s.RowsFailed, s.RowsIngested)
	}
	return nil
}

// UnavailableSummary is returned when no completed run can be read.
// Every field is present so callers always get the full schema.
func UnavailableSummary() PipelineSummary {
	return PipelineSummary{
		PipelineStatus: StatusUnknown,
		ModelVersion:   unknownModelVersion,
	}
}

// MetricReading is a single model-quality measurement.
// A nil MetricValue means no evaluation exists yet and serialises as null.
type MetricReading struct {
	MetricName     string    `json:"metric_name"`
	MetricValue    *float64  `json:"metric_value"`
	EvaluatedAtUTC Timestamp `json:"evaluated_at_utc"`
}

// NewMetricReading builds a reading, dropping values JSON cannot carry.
func NewMetricReading(name string, value float64, at Timestamp) MetricReading {
	return MetricReading{
		MetricName:     name,
		MetricValue:    MetricValue(value),
		EvaluatedAtUTC: at,
	}
}

// MetricValue returns a pointer to v, or nil for NaN and infinities.
func MetricValue(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// UnavailableMetric is returned when no evaluation can be read.
func UnavailableMetric(name string) MetricReading {
	return MetricReading{MetricName: name}
}
