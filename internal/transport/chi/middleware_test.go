package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	logpkg "github.com/kailas-cloud/nsnsearch/internal/logger"
)

func TestRecoverer_ReturnsJSON(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	h := Recoverer(zap.New(core))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/search", http.NoBody))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d", rr.Code)
	}
	var errResp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if errResp.Code != ErrorCodeInternalError {
		t.Errorf("code: got %s", errResp.Code)
	}
	if logs.FilterMessage("panic recovered").Len() != 1 {
		t.Error("panic not logged")
	}
}

func TestWideEvent_LogsOneLineAndInjectsLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	h := WideEvent(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logpkg.FromContext(r.Context()).Info("inside handler")
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/search?q=gasket", http.NoBody))

	entries := logs.FilterMessage("http_request").All()
	if len(entries) != 1 {
		t.Fatalf("log lines: got %d, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["status"] != int64(http.StatusTeapot) {
		t.Errorf("status field: %v", fields["status"])
	}
	if fields["query"] != "gasket" {
		t.Errorf("query field: %v", fields["query"])
	}

	inner := logs.FilterMessage("inside handler").All()
	if len(inner) != 1 {
		t.Fatal("request logger not propagated")
	}
	if _, ok := inner[0].ContextMap()["request_id"]; !ok {
		t.Error("request logger lacks request_id")
	}
}
