package request

import (
	"fmt"

	"github.com/kailas-cloud/nsnsearch/internal/domain/search/filter"
)

// Paging defaults and limits.
const (
	DefaultPage     = 1
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// Request is a validated search call.
type Request struct {
	query    string
	filters  filter.Filter
	page     int
	pageSize int
}

// New validates paging. page 0 and pageSize 0 mean "use the default"; pageSize is
// clamped to MaxPageSize. The query itself is never rejected here: unusable input,
// overlong input included, resolves to an empty page.
func New(query string, filters filter.Filter, page, pageSize int) (Request, error) {
	if page < 0 {
		return Request{}, fmt.Errorf("page must be >= 1, got %d", page)
	}
	if page == 0 {
		page = DefaultPage
	}
	if pageSize < 0 {
		return Request{}, fmt.Errorf("page size must be > 0, got %d", pageSize)
	}
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return Request{query: query, filters: filters, page: page, pageSize: pageSize}, nil
}

// WithMaxPageSize clamps the page size to a deployment-specific limit.
func (r Request) WithMaxPageSize(limit int) Request {
	if limit > 0 && r.pageSize > limit {
		r.pageSize = limit
	}
	return r
}

// Query returns the raw query text.
func (r Request) Query() string { return r.query }

// Filters returns the result predicates.
func (r Request) Filters() filter.Filter { return r.filters }

// Page returns the 1-based page number.
func (r Request) Page() int { return r.page }

// PageSize returns the number of results per page.
func (r Request) PageSize() int { return r.pageSize }
