package nsnsearch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	dbPostgres "github.com/kailas-cloud/nsnsearch/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/nsnsearch/internal/db/redis"
	"github.com/kailas-cloud/nsnsearch/internal/domain/search/request"
	"github.com/kailas-cloud/nsnsearch/internal/domain/search/result"
	"github.com/kailas-cloud/nsnsearch/internal/repository/fragcache"
	"github.com/kailas-cloud/nsnsearch/internal/repository/reference"
	healthuc "github.com/kailas-cloud/nsnsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/nsnsearch/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces, replaced by mocks in tests.
type searchUseCase interface {
	Resolve(ctx context.Context, req request.Request) (result.Page, error)
	Lookup(ctx context.Context, raw string) (result.Result, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Client is the nsnsearch SDK entry point.
type Client struct {
	db        pinger
	closers   []func()
	searchSvc searchUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New connects to the reference database (and the cache, if configured) and
// wires the search pipeline. ctx bounds the initial readiness checks.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{readinessTimeout: defaultReadinessTimeout}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.dsn == "" {
		return nil, errors.New("nsnsearch: database DSN required (use WithPostgres)")
	}
	nameMatch, err := searchuc.ParseNameMatch(string(cfg.nameSearch))
	if err != nil {
		return nil, fmt.Errorf("nsnsearch: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	pg, err := dbPostgres.NewStore(dbPostgres.Config{
		DSN:          cfg.dsn,
		MaxOpenConns: cfg.maxOpenConns,
		MaxIdleConns: cfg.maxIdleConns,
	})
	if err != nil {
		return nil, fmt.Errorf("nsnsearch: create postgres store: %w", err)
	}
	c := &Client{db: pg, obs: obs}
	c.closers = append(c.closers, func() { _ = pg.Close() })

	if err := pg.WaitForReady(ctx, cfg.readinessTimeout); err != nil {
		c.Close()
		return nil, fmt.Errorf("nsnsearch: database not ready: %w", err)
	}

	refRepo := reference.New(pg, reference.DefaultChunkSize)
	var loader searchuc.FragmentLoader = refRepo
	var cachePinger healthuc.Pinger

	if cfg.redisAddr != "" {
		rds, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    []string{cfg.redisAddr},
			Password: cfg.redisPassword,
		})
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("nsnsearch: create redis store: %w", err)
		}
		c.closers = append(c.closers, rds.Close)

		if err := rds.WaitForReady(ctx, cfg.readinessTimeout); err != nil {
			c.Close()
			return nil, fmt.Errorf("nsnsearch: cache not ready: %w", err)
		}
		loader = fragcache.New(refRepo, rds, cfg.fragmentTTL, nil, zap.NewNop())
		cachePinger = rds
	}

	c.searchSvc = searchuc.New(loader, refRepo, cfg.searchConfig(nameMatch), nil, zap.NewNop())
	c.healthSvc = healthuc.New(pg, cachePinger)
	return c, nil
}

func (c *clientConfig) searchConfig(nameMatch searchuc.NameMatch) searchuc.Config {
	return searchuc.Config{
		DiscoveryMultiplier:   c.discoveryMultiplier,
		DiscoveryMax:          c.discoveryMax,
		LookupTimeout:         c.lookupTimeout,
		DiscoveryTimeout:      c.discoveryTimeout,
		NameMatch:             nameMatch,
		SkipOptionalFragments: c.skipOptional,
		MemoTTL:               c.memoTTL,
	}
}

// Close releases all resources, most recently opened first.
func (c *Client) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe(opPing, start, err) }()

	if err = c.db.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}
