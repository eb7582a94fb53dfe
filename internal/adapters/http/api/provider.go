package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/pipedash/internal/domain/pipeline"
	"github.com/okian/pipedash/pkg/metrics"
)

type readResult[T any] struct {
	value T
	avail pipeline.Availability
	err   error
}

// readProvider runs read under timeout and returns as soon as either the read
// finishes or the deadline passes, so a provider that ignores its context
// cannot hold the request.
func readProvider[T any](
	ctx context.Context,
	timeout time.Duration,
	operation string,
	read func(context.Context) (T, pipeline.Availability, error),
) (T, pipeline.Availability, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	done := make(chan readResult[T], 1)
	go func() {
		var res readResult[T]
		defer func() {
			if rec := recover(); rec != nil {
				res = readResult[T]{err: fmt.Errorf("%w: provider panic: %v", ErrInternal, rec)}
			}
			done <- res
		}()
		res.value, res.avail, res.err = read(ctx)
	}()

	var res readResult[T]
	select {
	case res = <-done:
	case <-ctx.Done():
		res = readResult[T]{avail: pipeline.Unavailable, err: ctx.Err()}
	}

	metrics.RecordProviderRead(operation, outcomeOf(res.avail, res.err), float64(time.Since(start).Microseconds())/1000)
	return res.value, res.avail, res.err
}

func outcomeOf(avail pipeline.Availability, err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return metrics.OutcomeTimeout
	case err != nil:
		return metrics.OutcomeError
	case avail != pipeline.Available:
		return metrics.OutcomeUnavailable
	default:
		return metrics.OutcomeAvailable
	}
}
