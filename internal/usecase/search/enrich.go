package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/nsnsearch/internal/domain/nsn"
)

// enrich loads the given tables for niins concurrently, each lookup under its own
// timeout. A failed lookup leaves its table absent, except for the critical table
// whose failure fails the whole call. Pass "" for no critical table.
func (s *Service) enrich(
	ctx context.Context, niins []string, tables []nsn.Table, critical nsn.Table,
) (nsn.Batch, error) {
	out := make(nsn.Batch, len(niins))
	if len(niins) == 0 {
		return out, nil
	}

	loaded := make([]nsn.Batch, len(tables))
	g, gctx := errgroup.WithContext(ctx)
	for i, table := range tables {
		g.Go(func() error {
			lctx, cancel := context.WithTimeout(gctx, s.cfg.LookupTimeout)
			defer cancel()

			batch, err := s.loader.LoadTable(lctx, table, niins)
			if err == nil {
				loaded[i] = batch
				return nil
			}
			if table == critical {
				return fmt.Errorf("load %s: %w", table, err)
			}
			if gctx.Err() != nil {
				// cancelled by a failed critical lookup
				return nil
			}
			s.observer.ObserveFragmentFailure(table)
			s.logger.Warn("Fragment lookup failed, treating as absent",
				zap.String("table", string(table)),
				zap.Strings("niins", niins),
				zap.Error(err),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Merge in table order so the result does not depend on completion order.
	for _, batch := range loaded {
		out.Merge(batch)
	}
	return out, nil
}

// pageTables lists the tables fetched for discovery pages.
func (s *Service) pageTables() []nsn.Table {
	if !s.cfg.SkipOptionalFragments {
		return nsn.AllTables
	}
	tables := make([]nsn.Table, 0, len(nsn.AllTables))
	for _, t := range nsn.AllTables {
		if !t.Optional() {
			tables = append(tables, t)
		}
	}
	return tables
}
