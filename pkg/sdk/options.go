package nsnsearch

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	dsn          string
	maxOpenConns int
	maxIdleConns int

	redisAddr     string
	redisPassword string
	fragmentTTL   time.Duration

	readinessTimeout time.Duration

	nameSearch          NameSearch
	skipOptional        bool
	memoTTL             time.Duration
	lookupTimeout       time.Duration
	discoveryMultiplier int
	discoveryMax        int
	discoveryTimeout    time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithPostgres sets the reference database DSN. Required.
func WithPostgres(dsn string) Option {
	return optionFunc(func(c *clientConfig) {
		c.dsn = dsn
	})
}

// WithPool sizes the database connection pool.
func WithPool(maxOpen, maxIdle int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxOpenConns = maxOpen
		c.maxIdleConns = maxIdle
	})
}

// WithRedisCache caches reference rows in Redis for ttl. Off by default.
func WithRedisCache(addr, password string, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.redisAddr = addr
		c.redisPassword = password
		c.fragmentTTL = ttl
	})
}

// WithReadinessTimeout bounds the initial wait for the stores. Default: 10s.
func WithReadinessTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.readinessTimeout = d
	})
}

// WithNameSearch selects how free text matches item names. Default: prefix.
func WithNameSearch(m NameSearch) Option {
	return optionFunc(func(c *clientConfig) {
		c.nameSearch = m
	})
}

// WithSkipOptionalFragments leaves weights and descriptions out of search pages.
// Lookup always loads them.
func WithSkipOptionalFragments() Option {
	return optionFunc(func(c *clientConfig) {
		c.skipOptional = true
	})
}

// WithDiscoveryMemo keeps discovered candidate lists in process for ttl,
// so paging through one query sees a stable result set.
func WithDiscoveryMemo(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.memoTTL = ttl
	})
}

// WithLookupTimeout bounds each per-table lookup. Default: 1.5s.
func WithLookupTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.lookupTimeout = d
	})
}

// WithDiscoveryLimit caps the candidates each discovery probe may return at
// multiplier times the page size, never more than ceiling. Default: 4 and 1000.
func WithDiscoveryLimit(multiplier, ceiling int) Option {
	return optionFunc(func(c *clientConfig) {
		c.discoveryMultiplier = multiplier
		c.discoveryMax = ceiling
	})
}

// WithDiscoveryTimeout bounds each discovery probe. Default: 3s.
func WithDiscoveryTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.discoveryTimeout = d
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
