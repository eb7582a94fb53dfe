// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/pipedash/internal/domain/pipeline"
	"github.com/okian/pipedash/pkg/logger"
)

// Server wires HTTP routes for the status API.
type Server struct {
	prefix string
	logger logger.Logger

	healthHandler      *HealthHandler
	summaryHandler     *SummaryHandler
	metricHandler      *MetricHandler
	predictionsHandler *PredictionsHandler
}

// NewServer creates a new API server with all handlers reading from provider.
func NewServer(provider pipeline.StateProvider, opts ...Option) *Server {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Server{
		prefix:             o.prefix,
		logger:             o.logger,
		healthHandler:      NewHealthHandler(o.now),
		summaryHandler:     NewSummaryHandler(provider, o.providerTimeout, o.logger),
		metricHandler:      NewMetricHandler(provider, o.providerTimeout, o.defaultMetricName, o.logger),
		predictionsHandler: NewPredictionsHandler(),
	}
}

// Prefix returns the URL namespace the server registers under.
func (s *Server) Prefix() string { return s.prefix }

// Register attaches all API routes to mux under the configured prefix.
// The prefix subtree is claimed entirely so unmatched API paths answer with
// JSON 404s instead of falling through to the asset host.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.Handle(s.prefix+"/health", s.wrap("health", s.healthHandler.HandleHealth))
	mux.Handle(s.prefix+"/summary", s.wrap("summary", s.summaryHandler.HandleGetSummary))
	mux.Handle(s.prefix+"/metrics", s.wrap("metrics", s.metricHandler.HandleGetMetric))
	mux.Handle(s.prefix+"/predictions", s.wrap("predictions", s.predictionsHandler.HandleGetPredictions))
	mux.Handle(s.prefix+"/", s.wrap("unmatched", handleNotFound))
}

// wrap applies the middleware chain shared by every API route.
func (s *Server) wrap(endpoint string, h http.HandlerFunc) http.Handler {
	return RequestIDMiddleware(
		MetricsMiddleware(
			AccessLogMiddleware(
				RecoverMiddleware(h, s.logger),
				s.logger),
			endpoint))
}

func handleNotFound(w http.ResponseWriter, r *http.Request) {
	const op = "api.route"
	writeError(w, WrapKind(op, ErrNotFound, errNoRoute(r.URL.Path)))
}

type noRouteError string

func (e noRouteError) Error() string { return "no route for " + string(e) }

func errNoRoute(path string) error { return noRouteError(path) }

// allowRead rejects anything but GET and HEAD.
func allowRead(w http.ResponseWriter, r *http.Request, op string) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set("Allow", "GET, HEAD")
	writeError(w, NewKind(op, ErrMethodNotAllowed))
	return false
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError renders err as {"error": code, "message": text}. Internal
// errors never expose their cause.
func writeError(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	msg := http.StatusText(status)
	if status < http.StatusInternalServerError && err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Error: code, Message: msg})
}
