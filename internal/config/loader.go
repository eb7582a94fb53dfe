package config

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variable names.
const (
	envPrefix     = "PIPEDASH_"
	envConfigFile = "PIPEDASH_CONFIG"
)

var (
	// routePath matches one or more plain segments: "/api", "/ops/metrics".
	routePath = regexp.MustCompile(`^(/[A-Za-z0-9._~-]+)+$`)
	// metricName matches a Prometheus name component.
	metricName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if PIPEDASH_CONFIG is set
//  3. env (prefix PIPEDASH_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(envConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// Map env keys like PIPEDASH_API_PREFIX -> api_prefix (flat keys).
	// PIPEDASH_CONFIG itself is not a config key.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		if s == envConfigFile {
			return ""
		}
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, strings.ToLower(envPrefix))
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field combinations Load cannot express through types.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case !routePath.MatchString(c.APIPrefix):
		return fmt.Errorf("%w: api_prefix must look like /name, got %q", ErrInvalidConfig, c.APIPrefix)
	case c.MetricsPath != "" && !routePath.MatchString(c.MetricsPath):
		return fmt.Errorf("%w: metrics_path must look like /name, got %q", ErrInvalidConfig, c.MetricsPath)
	case c.MetricsPath != "" && strings.HasPrefix(c.MetricsPath+"/", c.APIPrefix+"/"):
		return fmt.Errorf("%w: metrics_path must not live under api_prefix", ErrInvalidConfig)
	case c.ProviderTimeoutMS <= 0:
		return fmt.Errorf("%w: provider_timeout_ms must be positive", ErrInvalidConfig)
	case !metricName.MatchString(c.MetricsNamespace):
		return fmt.Errorf("%w: metrics_namespace %q is not a valid metric name", ErrInvalidConfig, c.MetricsNamespace)
	case c.MetricsRefreshMS <= 0:
		return fmt.Errorf("%w: metrics_refresh_ms must be positive", ErrInvalidConfig)
	case !increasing(c.MetricsBucketsMS):
		return fmt.Errorf("%w: metrics_buckets_ms must be strictly increasing", ErrInvalidConfig)
	}

	switch c.Provider {
	case ProviderPlaceholder:
	case ProviderFile:
		if c.StateFile == "" {
			return fmt.Errorf("%w: state_file is required for provider %q", ErrInvalidConfig, c.Provider)
		}
	case ProviderPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("%w: postgres_dsn is required for provider %q", ErrInvalidConfig, c.Provider)
		}
	default:
		return fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, c.Provider)
	}
	return nil
}

func increasing(buckets []float64) bool {
	for i := 1; i < len(buckets); i++ {
		if buckets[i] <= buckets[i-1] {
			return false
		}
	}
	return true
}
