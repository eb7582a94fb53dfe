package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/okian/pipedash/internal/domain/model"
	"github.com/okian/pipedash/pkg/metrics"
)

// PredictionsHandler handles prediction sample requests.
type PredictionsHandler struct{}

// NewPredictionsHandler creates a new predictions handler.
func NewPredictionsHandler() *PredictionsHandler {
	return &PredictionsHandler{}
}

// HandleGetPredictions handles GET /predictions?limit=N.
func (h *PredictionsHandler) HandleGetPredictions(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_predictions"
	if !allowRead(w, r, op) {
		return
	}

	limit, err := parseLimit(r.URL.Query())
	if err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}

	writeJSON(w, http.StatusOK, model.PlaceholderPredictions(limit))
}

// parseLimit reads the optional limit parameter. Absent means the default;
// any integer is clamped into range; anything else is rejected.
func parseLimit(q url.Values) (int, error) {
	values, ok := q["limit"]
	if !ok || len(values) == 0 {
		return model.DefaultLimit, nil
	}
	raw := values[0]

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		// Out-of-range integers come back saturated; clamp them like any other.
		var numErr *strconv.NumError
		if !errors.As(err, &numErr) || !errors.Is(numErr.Err, strconv.ErrRange) {
			return 0, fmt.Errorf("limit must be an integer, got %q", raw)
		}
	}

	switch {
	case n < model.MinLimit:
		metrics.RecordLimitClamped("min")
	case n > model.MaxLimit:
		metrics.RecordLimitClamped("max")
	}
	return model.ClampLimit(n), nil
}
