// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and environment variables over the defaults.
// - Validation errors wrap ErrInvalidConfig; source errors wrap ErrLoadConfig.
package config

import "time"

// Provider kinds.
const (
	ProviderPlaceholder = "placeholder"
	ProviderFile        = "file"
	ProviderPostgres    = "postgres"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// APIPrefix is the URL namespace of the status API, e.g. "/api".
	APIPrefix string `koanf:"api_prefix"`

	// StaticDir serves the dashboard from disk; empty uses the embedded copy.
	StaticDir string `koanf:"static_dir"`

	// SPAFallback serves index.html for asset paths with no matching file.
	SPAFallback bool `koanf:"spa_fallback"`

	// Provider selects the pipeline state source: placeholder, file, postgres.
	Provider string `koanf:"provider"`

	// StateFile is the YAML document written by the pipeline (provider=file).
	StateFile string `koanf:"state_file"`

	// PostgresDSN is the lib/pq connection string (provider=postgres).
	PostgresDSN string `koanf:"postgres_dsn"`

	// PostgresMaxConns caps the provider's connection pool.
	PostgresMaxConns int `koanf:"postgres_max_conns"`

	// ProviderTimeoutMS bounds each pipeline state read.
	ProviderTimeoutMS int `koanf:"provider_timeout_ms"`

	// MetricsPath exposes Prometheus metrics; empty disables the route.
	MetricsPath string `koanf:"metrics_path"`

	// MetricsNamespace prefixes every metric name.
	MetricsNamespace string `koanf:"metrics_namespace"`

	// MetricsBucketsMS overrides the latency histogram buckets (milliseconds).
	MetricsBucketsMS []float64 `koanf:"metrics_buckets_ms"`

	// MetricsRefreshMS is how often system gauges are sampled.
	MetricsRefreshMS int `koanf:"metrics_refresh_ms"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":8000",
		APIPrefix:         "/api",
		SPAFallback:       true,
		Provider:          ProviderPlaceholder,
		PostgresMaxConns:  4,
		ProviderTimeoutMS: 2000,
		MetricsPath:       "/prometheus",
		MetricsNamespace:  "pipedash",
		MetricsRefreshMS:  10000,
	}
}

// MetricsRefresh returns MetricsRefreshMS as a duration.
func (c *Config) MetricsRefresh() time.Duration {
	return time.Duration(c.MetricsRefreshMS) * time.Millisecond
}

// ProviderTimeout returns ProviderTimeoutMS as a duration.
func (c *Config) ProviderTimeout() time.Duration {
	return time.Duration(c.ProviderTimeoutMS) * time.Millisecond
}
