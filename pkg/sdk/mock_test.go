package nsnsearch

import (
	"context"

	"github.com/kailas-cloud/nsnsearch/internal/domain/search/request"
	"github.com/kailas-cloud/nsnsearch/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/nsnsearch/internal/usecase/health"
)

// --- searchUseCase mock ---

type mockSearchUC struct {
	resolveFn func(ctx context.Context, req request.Request) (result.Page, error)
	lookupFn  func(ctx context.Context, raw string) (result.Result, error)
}

func (m *mockSearchUC) Resolve(ctx context.Context, req request.Request) (result.Page, error) {
	return m.resolveFn(ctx, req)
}

func (m *mockSearchUC) Lookup(ctx context.Context, raw string) (result.Result, error) {
	return m.lookupFn(ctx, raw)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report { return m.report }

// --- pinger mock ---

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

// --- helpers ---

func testClient(searchSvc searchUseCase) *Client {
	return &Client{searchSvc: searchSvc}
}
