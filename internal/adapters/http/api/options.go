package api

import (
	"time"

	"github.com/okian/pipedash/pkg/logger"
)

// Defaults for Server options.
const (
	defaultPrefix          = "/api"
	defaultProviderTimeout = 2 * time.Second
	defaultMetricName      = "rmse"
)

type options struct {
	prefix            string
	providerTimeout   time.Duration
	defaultMetricName string
	logger            logger.Logger
	now               func() time.Time
}

func defaultOptions() options {
	return options{
		prefix:            defaultPrefix,
		providerTimeout:   defaultProviderTimeout,
		defaultMetricName: defaultMetricName,
		logger:            logger.NewNop(),
		now:               time.Now,
	}
}

// Option applies a configuration option to the Server.
type Option func(*options)

// WithPrefix sets the URL namespace, e.g. "/api".
func WithPrefix(prefix string) Option {
	return func(o *options) {
		if prefix != "" && prefix != "/" {
			o.prefix = prefix
		}
	}
}

// WithProviderTimeout bounds each pipeline state read.
func WithProviderTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.providerTimeout = d
		}
	}
}

// WithDefaultMetricName names the metric reported when no evaluation can be read.
func WithDefaultMetricName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.defaultMetricName = name
		}
	}
}

// WithLogger sets the logger used by handlers and middleware.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock sets the time source for health timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}
