package db

import (
	"context"
	"time"

	"github.com/kailas-cloud/nsnsearch/internal/domain/nsn"
	"github.com/kailas-cloud/nsnsearch/internal/domain/search/probe"
)

// ReferenceStore is the read-only relational parts dataset.
type ReferenceStore interface {
	Pinger
	FragmentLoader
	Prober
	Close() error
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// CacheStore is the key-value side: fragment cache and history stream.
type CacheStore interface {
	Pinger
	KVStore
	StreamStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// FragmentLoader fetches one table's rows for a set of NIINs.
// NIINs with no row are simply absent from the returned batch.
type FragmentLoader interface {
	LoadFragments(ctx context.Context, table nsn.Table, niins []string) (nsn.Batch, error)
}

// Prober answers discovery probes with distinct NIINs in ascending order.
type Prober interface {
	Probe(ctx context.Context, p probe.Probe) ([]string, error)
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// MGet returns one entry per key; missing keys yield nil.
	MGet(ctx context.Context, keys []string) ([][]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	SetMultiWithTTL(ctx context.Context, items []KVItem, ttl time.Duration) error
}

// KVItem holds a single key+value pair for pipelined SET.
type KVItem struct {
	Key   string
	Value []byte
}

// StreamStore appends entries to a capped stream.
type StreamStore interface {
	XAdd(ctx context.Context, stream string, maxLen int64, fields map[string]string) (string, error)
}
