// Package app composes the status API, the API reference, the Prometheus
// exposition endpoint and the static asset host into one HTTP handler.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/pipedash/internal/adapters/http/api"
	"github.com/okian/pipedash/internal/adapters/http/site"
	"github.com/okian/pipedash/internal/adapters/http/swagger"
	"github.com/okian/pipedash/internal/domain/pipeline"
	"github.com/okian/pipedash/pkg/logger"
	"github.com/okian/pipedash/pkg/metrics"
)

// Error constants.
var (
	ErrNoProvider = errors.New("app: state provider is required")
	ErrNoAssets   = errors.New("app: asset root is required")
	ErrBadPrefix  = errors.New("app: invalid api prefix")
	ErrRoute      = errors.New("app: route registration failed")
)

// Config is everything New needs to build an App.
type Config struct {
	// APIPrefix is the namespace of the status API, e.g. "/api".
	APIPrefix string
	// Assets is the root served at "/".
	Assets      fs.FS
	SPAFallback bool
	Provider    pipeline.StateProvider
	// ProviderTimeout bounds every provider read. Zero keeps the API default.
	ProviderTimeout time.Duration
	// MetricsPath is where Prometheus metrics are exposed. Empty disables it.
	MetricsPath string
	Logger      logger.Logger
}

// App owns a private mux with every route registered on it.
type App struct {
	mux      *http.ServeMux
	provider pipeline.StateProvider
	log      logger.Logger

	closeOnce sync.Once
	closeErr  error
}

// New builds the dispatcher. Registration happens exactly once here; more
// specific patterns win over the "/" catch-all through ServeMux precedence.
func New(ctx context.Context, cfg Config) (*App, error) {
	if cfg.Provider == nil {
		return nil, ErrNoProvider
	}
	if cfg.Assets == nil {
		return nil, ErrNoAssets
	}
	prefix := strings.TrimSuffix(cfg.APIPrefix, "/")
	if prefix == "" || !strings.HasPrefix(prefix, "/") {
		return nil, fmt.Errorf("%w: %q", ErrBadPrefix, cfg.APIPrefix)
	}
	if cfg.MetricsPath != "" && (cfg.MetricsPath == "/" || !strings.HasPrefix(cfg.MetricsPath, "/")) {
		return nil, fmt.Errorf("%w: metrics path %q", ErrRoute, cfg.MetricsPath)
	}
	log := cfg.Logger
	if log == nil {
		log = logger.NewNop()
	}

	opts := []api.Option{api.WithPrefix(prefix), api.WithLogger(log.Named("api"))}
	if cfg.ProviderTimeout > 0 {
		opts = append(opts, api.WithProviderTimeout(cfg.ProviderTimeout))
	}

	assets := site.NewHandler(cfg.Assets, cfg.SPAFallback)
	if cfg.SPAFallback {
		if err := assets.CheckIndex(); err != nil {
			log.Warn(ctx, "spa fallback enabled but asset root has no index document")
		}
	}

	mux := http.NewServeMux()
	err := register(func() {
		api.NewServer(cfg.Provider, opts...).Register(ctx, mux)
		swagger.Register(ctx, mux, prefix)
		if cfg.MetricsPath != "" {
			mux.Handle(cfg.MetricsPath, promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
		}
		site.Register(ctx, mux, assets)
	})
	if err != nil {
		return nil, err
	}

	log.Info(ctx, "routes registered",
		logger.String("apiPrefix", prefix),
		logger.String("metricsPath", cfg.MetricsPath),
		logger.Any("spaFallback", cfg.SPAFallback))

	return &App{mux: mux, provider: cfg.Provider, log: log}, nil
}

// register runs fn and reports a ServeMux pattern panic (malformed or
// conflicting pattern) as ErrRoute.
func register(fn func()) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrRoute, rec)
		}
	}()
	fn()
	return nil
}

// Handler returns the composed HTTP handler.
func (a *App) Handler() http.Handler { return a.mux }

// Close releases the state provider when it holds resources.
func (a *App) Close() error {
	a.closeOnce.Do(func() {
		if c, ok := a.provider.(io.Closer); ok {
			a.closeErr = c.Close()
		}
	})
	return a.closeErr
}
