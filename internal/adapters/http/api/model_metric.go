package api

import (
	"net/http"
	"time"

	"github.com/okian/pipedash/internal/domain/model"
	"github.com/okian/pipedash/internal/domain/pipeline"
	"github.com/okian/pipedash/pkg/logger"
)

// MetricHandler handles model-quality metric requests.
type MetricHandler struct {
	provider    pipeline.StateProvider
	timeout     time.Duration
	defaultName string
	logger      logger.Logger
}

// NewMetricHandler creates a new metric handler.
func NewMetricHandler(provider pipeline.StateProvider, timeout time.Duration, defaultName string, l logger.Logger) *MetricHandler {
	return &MetricHandler{provider: provider, timeout: timeout, defaultName: defaultName, logger: l}
}

// HandleGetMetric handles GET /metrics. Without an evaluation metric_value is null.
func (h *MetricHandler) HandleGetMetric(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_metric"
	if !allowRead(w, r, op) {
		return
	}

	reading, avail, err := readProvider(r.Context(), h.timeout, "metric", h.provider.LatestMetric)
	if err != nil || avail != pipeline.Available || reading.MetricValue == nil {
		if err != nil {
			h.logger.Warn(r.Context(), "model metric unavailable",
				logger.String("request_id", RequestIDFromContext(r.Context())),
				logger.Error(WrapKind(op, ErrUnavailable, err)),
			)
		}
		name := reading.MetricName
		if name == "" {
			name = h.defaultName
		}
		reading = model.UnavailableMetric(name)
	}

	writeJSON(w, http.StatusOK, reading)
}
