package api

import (
	"net/http"
	"time"

	"github.com/okian/pipedash/internal/domain/model"
	"github.com/okian/pipedash/internal/domain/pipeline"
	"github.com/okian/pipedash/pkg/logger"
)

// SummaryHandler handles pipeline summary requests.
type SummaryHandler struct {
	provider pipeline.StateProvider
	timeout  time.Duration
	logger   logger.Logger
}

// NewSummaryHandler creates a new summary handler.
func NewSummaryHandler(provider pipeline.StateProvider, timeout time.Duration, l logger.Logger) *SummaryHandler {
	return &SummaryHandler{provider: provider, timeout: timeout, logger: l}
}

// HandleGetSummary handles GET /summary. When no valid run can be read the
// response still carries every field, with pipeline_status UNKNOWN.
func (h *SummaryHandler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_summary"
	if !allowRead(w, r, op) {
		return
	}

	summary, avail, err := readProvider(r.Context(), h.timeout, "summary", h.provider.LatestSummary)
	if err == nil && avail == pipeline.Available {
		err = summary.Validate()
	}
	if err != nil || avail != pipeline.Available {
		if err != nil {
			h.logger.Warn(r.Context(), "pipeline summary unavailable",
				logger.String("request_id", RequestIDFromContext(r.Context())),
				logger.Error(WrapKind(op, ErrUnavailable, err)),
			)
		}
		summary = model.UnavailableSummary()
	}

	writeJSON(w, http.StatusOK, summary)
}
