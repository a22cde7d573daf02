package fragcache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/nsnsearch/internal/db"
	"github.com/kailas-cloud/nsnsearch/internal/domain/nsn"
)

type mockLoader struct {
	batch nsn.Batch
	err   error
	calls [][]string
}

func (m *mockLoader) LoadTable(_ context.Context, _ nsn.Table, niins []string) (nsn.Batch, error) {
	m.calls = append(m.calls, append([]string(nil), niins...))
	if m.err != nil {
		return nil, m.err
	}
	out := nsn.Batch{}
	for _, n := range niins {
		if f, ok := m.batch[n]; ok {
			out[n] = f
		}
	}
	return out, nil
}

// mockKVStore is an in-memory implementation of the consumer interface.
type mockKVStore struct {
	data   map[string][]byte
	getErr error
	setErr error
	ttl    time.Duration
}

func (m *mockKVStore) MGet(_ context.Context, keys []string) ([][]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	out := make([][]byte, len(keys))
	for i, k := range keys {
		out[i] = m.data[k]
	}
	return out, nil
}

func (m *mockKVStore) SetMultiWithTTL(_ context.Context, items []db.KVItem, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.ttl = ttl
	for _, it := range items {
		m.data[it.Key] = it.Value
	}
	return nil
}

func newTestLoader(t *testing.T, inner *mockLoader) (*CachedLoader, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{data: map[string][]byte{}}
	return New(inner, ms, time.Hour, nil, zap.NewNop()), ms
}
