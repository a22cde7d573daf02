package reference

import (
	"context"
	"testing"

	"github.com/kailas-cloud/nsnsearch/internal/domain/nsn"
	"github.com/kailas-cloud/nsnsearch/internal/domain/search/probe"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	loadFn  func(ctx context.Context, table nsn.Table, niins []string) (nsn.Batch, error)
	probeFn func(ctx context.Context, p probe.Probe) ([]string, error)
	loads   [][]string
}

func (m *mockStore) LoadFragments(ctx context.Context, table nsn.Table, niins []string) (nsn.Batch, error) {
	m.loads = append(m.loads, append([]string(nil), niins...))
	if m.loadFn != nil {
		return m.loadFn(ctx, table, niins)
	}
	return nsn.Batch{}, nil
}

func (m *mockStore) Probe(ctx context.Context, p probe.Probe) ([]string, error) {
	if m.probeFn != nil {
		return m.probeFn(ctx, p)
	}
	return nil, nil
}

func newTestRepo(t *testing.T, chunk int) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, chunk), ms
}
