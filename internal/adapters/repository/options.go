package repository

import "time"

// PlaceholderOption applies a configuration option to the PlaceholderProvider.
type PlaceholderOption func(*PlaceholderProvider)

// WithClock sets the time source used for placeholder timestamps.
func WithClock(now func() time.Time) PlaceholderOption {
	return func(p *PlaceholderProvider) {
		if now != nil {
			p.now = now
		}
	}
}

// PostgresOption applies a configuration option to the PostgresProvider.
type PostgresOption func(*PostgresProvider)

// WithMaxOpenConns caps the connection pool.
func WithMaxOpenConns(n int) PostgresOption {
	return func(p *PostgresProvider) {
		if n > 0 {
			p.maxOpenConns = n
		}
	}
}

// WithMaxIdleConns sets the idle pool size.
func WithMaxIdleConns(n int) PostgresOption {
	return func(p *PostgresProvider) {
		if n > 0 {
			p.maxIdleConns = n
		}
	}
}

// WithConnMaxLifetime recycles connections older than d.
func WithConnMaxLifetime(d time.Duration) PostgresOption {
	return func(p *PostgresProvider) {
		if d > 0 {
			p.connMaxLifetime = d
		}
	}
}
