package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/pipedash/internal/adapters/http/site"
	"github.com/okian/pipedash/internal/adapters/repository"
	"github.com/okian/pipedash/internal/app"
	"github.com/okian/pipedash/internal/config"
	"github.com/okian/pipedash/internal/domain/pipeline"
	"github.com/okian/pipedash/pkg/logger"
	"github.com/okian/pipedash/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.InitWithFormat(cfg.LogFormat); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	loggerInstance := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	manager := setupMetrics(cfg)

	a, err := buildApp(ctx, cfg, loggerInstance)
	if err != nil {
		loggerInstance.Error(ctx, "failed to build application", logger.Error(err))
		os.Exit(1)
	}
	defer func() {
		if err := a.Close(); err != nil {
			loggerInstance.Error(ctx, "failed to release state provider", logger.Error(err))
		}
	}()

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx, manager.RefreshInterval())

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           a.Handler(),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("provider", cfg.Provider))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// Wait for shutdown signal or a listener failure
	select {
	case <-ctx.Done():
		loggerInstance.Info(ctx, "shutting down server...")
	case err := <-serveErr:
		loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// setupMetrics builds the global metrics manager from cfg. Collectors stay off
// the exposed registry when the metrics route is disabled.
func setupMetrics(cfg *config.Config) *metrics.Manager {
	return metrics.Init(
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithHistogramBuckets(cfg.MetricsBucketsMS),
		metrics.WithRefreshInterval(cfg.MetricsRefresh()),
		metrics.WithMetricsEnabled(cfg.MetricsPath != ""),
	)
}

// buildApp resolves the asset root and state provider from cfg and composes
// the HTTP application.
func buildApp(ctx context.Context, cfg *config.Config, l logger.Logger) (*app.App, error) {
	assets, err := site.FS(cfg.StaticDir)
	if err != nil {
		return nil, fmt.Errorf("static_dir %q: %w", cfg.StaticDir, err)
	}

	provider, err := newProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a, err := app.New(ctx, app.Config{
		APIPrefix:       cfg.APIPrefix,
		Assets:          assets,
		SPAFallback:     cfg.SPAFallback,
		Provider:        provider,
		ProviderTimeout: cfg.ProviderTimeout(),
		MetricsPath:     cfg.MetricsPath,
		Logger:          l,
	})
	if err != nil {
		if c, ok := provider.(interface{ Close() error }); ok {
			_ = c.Close()
		}
		return nil, err
	}
	return a, nil
}

// newProvider selects the pipeline state source named by cfg.Provider.
func newProvider(ctx context.Context, cfg *config.Config) (pipeline.StateProvider, error) {
	switch cfg.Provider {
	case config.ProviderPlaceholder:
		return repository.NewPlaceholderProvider(), nil
	case config.ProviderFile:
		return repository.NewFileProvider(cfg.StateFile), nil
	case config.ProviderPostgres:
		p, err := repository.NewPostgresProvider(ctx, cfg.PostgresDSN,
			repository.WithMaxOpenConns(cfg.PostgresMaxConns),
			repository.WithMaxIdleConns(cfg.PostgresMaxConns))
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", config.ErrInvalidConfig, cfg.Provider)
	}
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	// Update memory usage
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	// Update goroutine count
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	// Update GC pause time
	if m.NumGC > 0 {
		// Calculate average GC pause time
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
