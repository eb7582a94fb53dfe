// Package pipeline defines the read-only view of pipeline state the API reports on.
package pipeline

import (
	"context"

	"github.com/okian/pipedash/internal/domain/model"
)

// Availability tells whether a provider has a record to report.
type Availability int

const (
	// Unavailable means no run or evaluation has completed yet.
	Unavailable Availability = iota
	// Available means the returned record is real.
	Available
)

// String implements fmt.Stringer.
func (a Availability) String() string {
	if a == Available {
		return "available"
	}
	return "unavailable"
}

// StateProvider exposes the latest snapshot written by the pipeline.
// Implementations must be safe for concurrent readers. An error means the
// backing store could not be read; an empty store is Unavailable with a nil error.
type StateProvider interface {
	LatestSummary(ctx context.Context) (model.PipelineSummary, Availability, error)
	LatestMetric(ctx context.Context) (model.MetricReading, Availability, error)
}
