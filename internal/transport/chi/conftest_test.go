package chi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"go.uber.org/zap"

	domhistory "github.com/kailas-cloud/nsnsearch/internal/domain/history"
	"github.com/kailas-cloud/nsnsearch/internal/domain/search/request"
	"github.com/kailas-cloud/nsnsearch/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/nsnsearch/internal/usecase/health"
)

type mockSearcher struct {
	page    result.Page
	rec     result.Result
	err     error
	lastReq *request.Request
	lastRaw string
}

func (m *mockSearcher) Resolve(_ context.Context, req request.Request) (result.Page, error) {
	m.lastReq = &req
	if m.err != nil {
		return result.Page{}, m.err
	}
	return m.page, nil
}

func (m *mockSearcher) Lookup(_ context.Context, raw string) (result.Result, error) {
	m.lastRaw = raw
	if m.err != nil {
		return result.Result{}, m.err
	}
	return m.rec, nil
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(_ context.Context) healthuc.Report { return m.report }

type mockNotifier struct {
	mu     sync.Mutex
	events []domhistory.Event
}

func (m *mockNotifier) Notify(e domhistory.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
}

func (m *mockNotifier) all() []domhistory.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domhistory.Event(nil), m.events...)
}

func newTestRouter(t *testing.T, s *mockSearcher, h *mockHealth, apiKeys ...string) http.Handler {
	t.Helper()
	if h == nil {
		h = &mockHealth{report: healthuc.Report{Status: healthuc.Healthy, Checks: map[string]healthuc.CheckResult{}}}
	}
	return NewRouter(NewServer(s, h, zap.NewNop()), apiKeys, zap.NewNop())
}

func do(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func strPtr(s string) *string { return &s }
