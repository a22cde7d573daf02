package chi

import (
	"context"

	domhistory "github.com/kailas-cloud/nsnsearch/internal/domain/history"
	"github.com/kailas-cloud/nsnsearch/internal/domain/search/request"
	"github.com/kailas-cloud/nsnsearch/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/nsnsearch/internal/usecase/health"
)

// searcher resolves search queries and single-identifier lookups.
type searcher interface {
	Resolve(ctx context.Context, req request.Request) (result.Page, error)
	Lookup(ctx context.Context, raw string) (result.Result, error)
}

// healthChecker reports component health.
type healthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// historyNotifier accepts search events without blocking.
type historyNotifier interface {
	Notify(e domhistory.Event)
}
