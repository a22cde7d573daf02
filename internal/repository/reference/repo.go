// Package reference adapts the relational store to the resolution pipeline.
package reference

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/nsnsearch/internal/domain/nsn"
	"github.com/kailas-cloud/nsnsearch/internal/domain/search/probe"
)

// DefaultChunkSize caps how many NIINs go into one ANY($1) query.
const DefaultChunkSize = 500

// store is the consumer interface for reference lookups (ISP).
type store interface {
	LoadFragments(ctx context.Context, table nsn.Table, niins []string) (nsn.Batch, error)
	Probe(ctx context.Context, p probe.Probe) ([]string, error)
}

// Repo implements usecase/search.FragmentLoader and usecase/search.Discoverer.
type Repo struct {
	store     store
	chunkSize int
}

// New creates a reference repository. chunkSize <= 0 selects DefaultChunkSize.
func New(s store, chunkSize int) *Repo {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Repo{store: s, chunkSize: chunkSize}
}

// LoadTable fetches one table's rows for the given NIINs.
// Malformed and duplicate NIINs are dropped before querying.
func (r *Repo) LoadTable(ctx context.Context, table nsn.Table, niins []string) (nsn.Batch, error) {
	if !table.IsValid() {
		return nil, fmt.Errorf("load %s: unknown table", table)
	}
	ids := uniqueNIINs(niins)
	out := make(nsn.Batch, len(ids))

	for start := 0; start < len(ids); start += r.chunkSize {
		end := min(start+r.chunkSize, len(ids))
		batch, err := r.store.LoadFragments(ctx, table, ids[start:end])
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", table, err)
		}
		out.Merge(batch)
	}
	return out, nil
}

// Discover runs one probe and returns well-formed, distinct NIINs in store order.
func (r *Repo) Discover(ctx context.Context, p probe.Probe) ([]string, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("discover %s: %w", p, err)
	}
	niins, err := r.store.Probe(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", p, err)
	}
	ids := uniqueNIINs(niins)
	if len(ids) > p.Limit {
		ids = ids[:p.Limit]
	}
	return ids, nil
}

func uniqueNIINs(niins []string) []string {
	seen := make(map[string]struct{}, len(niins))
	out := make([]string, 0, len(niins))
	for _, n := range niins {
		if !nsn.IsNIIN(n) {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
