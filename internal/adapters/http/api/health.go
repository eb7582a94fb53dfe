package api

import (
	"net/http"
	"time"

	"github.com/okian/pipedash/internal/domain/model"
)

// HealthHandler handles liveness requests.
type HealthHandler struct {
	now func() time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(now func() time.Time) *HealthHandler {
	if now == nil {
		now = time.Now
	}
	return &HealthHandler{now: now}
}

// HandleHealth handles GET /health. It answers "ok" whenever the process can
// serve requests and does not consult the pipeline provider.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r, "api.health") {
		return
	}
	writeJSON(w, http.StatusOK, model.HealthRecord{
		Status:  model.HealthOK,
		TimeUTC: model.NewTimestamp(h.now()),
	})
}
