// Package fragcache caches per-table reference rows in a key-value store.
package fragcache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/nsnsearch/internal/db"
	"github.com/kailas-cloud/nsnsearch/internal/domain"
	"github.com/kailas-cloud/nsnsearch/internal/domain/nsn"
)

var cacheKeyPrefix = domain.KeyPrefix + "frag:"

// DefaultTTL applies when New is given a non-positive ttl.
const DefaultTTL = 15 * time.Minute

// loader is the wrapped source of fragments.
type loader interface {
	LoadTable(ctx context.Context, table nsn.Table, niins []string) (nsn.Batch, error)
}

// store is the consumer interface for the fragment cache (ISP).
type store interface {
	MGet(ctx context.Context, keys []string) ([][]byte, error)
	SetMultiWithTTL(ctx context.Context, items []db.KVItem, ttl time.Duration) error
}

// CachedLoader caches table rows per NIIN, including the absence of a row.
type CachedLoader struct {
	inner      loader
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner loader,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedLoader {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CachedLoader{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// LoadTable serves cached rows and loads the rest from the inner loader.
// A failed inner load is returned as-is and nothing is cached.
func (c *CachedLoader) LoadTable(ctx context.Context, table nsn.Table, niins []string) (nsn.Batch, error) {
	out := make(nsn.Batch, len(niins))
	misses := c.fromCache(ctx, table, niins, out)

	c.incCache("hit", len(niins)-len(misses))
	c.incCache("miss", len(misses))
	if len(misses) == 0 {
		return out, nil
	}

	loaded, err := c.inner.LoadTable(ctx, table, misses)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", table, err)
	}
	out.Merge(loaded)

	c.putToCache(ctx, table, misses, loaded)
	return out, nil
}

func (c *CachedLoader) incCache(result string, n int) {
	if c.cacheTotal != nil && n > 0 {
		c.cacheTotal.WithLabelValues(result).Add(float64(n))
	}
}

func cacheKey(table nsn.Table, niin string) string {
	return cacheKeyPrefix + string(table) + ":" + niin
}

// fromCache fills out with cached entries and returns the NIINs still to load.
func (c *CachedLoader) fromCache(ctx context.Context, table nsn.Table, niins []string, out nsn.Batch) []string {
	if len(niins) == 0 {
		return nil
	}
	keys := make([]string, len(niins))
	for i, n := range niins {
		keys[i] = cacheKey(table, n)
	}

	values, err := c.store.MGet(ctx, keys)
	if err != nil {
		c.logger.Warn("Failed to read fragment cache", zap.String("table", string(table)), zap.Error(err))
		return niins
	}

	var misses []string
	for i, n := range niins {
		if i >= len(values) || len(values[i]) == 0 {
			misses = append(misses, n)
			continue
		}
		var frag nsn.Fragments
		if err := json.Unmarshal(values[i], &frag); err != nil {
			c.logger.Warn("Failed to parse cached fragment", zap.String("key", keys[i]), zap.Error(err))
			misses = append(misses, n)
			continue
		}
		if !frag.IsEmpty() {
			out[n] = frag
		}
	}
	return misses
}

func (c *CachedLoader) putToCache(ctx context.Context, table nsn.Table, niins []string, loaded nsn.Batch) {
	items := make([]db.KVItem, 0, len(niins))
	for _, n := range niins {
		frag, ok := loaded[n]
		if !ok {
			frag = nsn.Fragments{NIIN: n}
		}
		data, err := json.Marshal(frag.Only(table))
		if err != nil {
			c.logger.Warn("Failed to encode fragment", zap.String("niin", n), zap.Error(err))
			continue
		}
		items = append(items, db.KVItem{Key: cacheKey(table, n), Value: data})
	}
	if err := c.store.SetMultiWithTTL(ctx, items, c.ttl); err != nil {
		c.logger.Warn("Failed to cache fragments", zap.String("table", string(table)), zap.Error(err))
	}
}
