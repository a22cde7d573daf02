package search

import (
	"context"

	"github.com/kailas-cloud/nsnsearch/internal/domain/nsn"
	"github.com/kailas-cloud/nsnsearch/internal/domain/search/query"
	"github.com/kailas-cloud/nsnsearch/internal/domain/search/request"
	"github.com/kailas-cloud/nsnsearch/internal/domain/search/result"
)

// resolveExact answers a complete identifier with at most one record.
// Filters act as single-item predicates: a failing record empties the page.
func (s *Service) resolveExact(ctx context.Context, d query.Descriptor, req request.Request) (result.Page, error) {
	r, found, err := s.resolveOne(ctx, d)
	if err != nil {
		return result.Page{}, err
	}
	filters := req.Filters()
	if !found || !filters.Match(&r) {
		return result.EmptyPage(req.Page(), req.PageSize(), result.PathExact), nil
	}

	return result.Page{
		Results:    result.Slice([]result.Result{r}, req.Page(), req.PageSize()),
		Total:      1,
		Page:       req.Page(),
		PageSize:   req.PageSize(),
		TotalPages: 1,
		Path:       result.PathExact,
	}, nil
}

// resolveOne loads every table for the identifier and merges what exists.
// The stock lookup is the only one whose failure fails the call.
func (s *Service) resolveOne(ctx context.Context, d query.Descriptor) (result.Result, bool, error) {
	niin := d.NIINCandidate
	batch, err := s.enrich(ctx, []string{niin}, nsn.AllTables, nsn.TableStock)
	if err != nil {
		return result.Result{}, false, storageUnavailable(err)
	}

	frag, ok := batch[niin]
	if !ok || frag.IsEmpty() {
		return result.Result{}, false, nil
	}
	return result.Merge(niin, d.FSCCandidate, &frag), true, nil
}
