package chi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	domhistory "github.com/kailas-cloud/nsnsearch/internal/domain/history"
	"github.com/kailas-cloud/nsnsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/nsnsearch/internal/domain/search/request"
	"github.com/kailas-cloud/nsnsearch/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/nsnsearch/internal/usecase/health"
)

// UserIDHeader identifies the caller in search history. Optional.
const UserIDHeader = "X-User-ID"

// Server serves the search API.
type Server struct {
	search  searcher
	health  healthChecker
	history historyNotifier
	logger  *zap.Logger

	defaultPageSize int
}

// NewServer creates an HTTP API server.
func NewServer(search searcher, health healthChecker, logger *zap.Logger) *Server {
	return &Server{
		search: search,
		health: health,
		logger: logger,
	}
}

// WithHistory records every answered search through n.
func (s *Server) WithHistory(n historyNotifier) *Server {
	s.history = n
	return s
}

// WithDefaultPageSize sets the page size used when limit is omitted.
func (s *Server) WithDefaultPageSize(n int) *Server {
	s.defaultPageSize = n
	return s
}

// SearchParams are the query parameters of GET /api/search.
type SearchParams struct {
	Q        string
	FSC      string
	ClassIX  *bool
	MinPrice string
	MaxPrice string
	Page     *int
	Limit    *int
}

// SearchResponse is the body of GET /api/search.
type SearchResponse struct {
	Results    []result.Result `json:"results"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
	TotalPages int             `json:"totalPages"`
	Path       result.Path     `json:"path"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Routes mounts the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/api/search", s.Search)
	r.Get("/api/nsn/{niin}", s.GetNSN)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Search handles GET /api/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	params, err := bindSearchParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	page, limit := 0, s.defaultPageSize
	if params.Page != nil {
		page = *params.Page
	}
	if params.Limit != nil {
		limit = *params.Limit
	}

	f := filter.New(params.FSC, params.ClassIX, params.MinPrice, params.MaxPrice)
	req, err := request.New(params.Q, f, page, limit)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	res, err := s.search.Resolve(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, pageToResponse(res))

	if s.history != nil && strings.TrimSpace(params.Q) != "" {
		s.history.Notify(domhistory.NewEvent(
			r.Header.Get(UserIDHeader), params.Q, string(res.Path), res.Total,
		))
	}
}

// GetNSN handles GET /api/nsn/{niin}.
func (s *Server) GetNSN(w http.ResponseWriter, r *http.Request) {
	rec, err := s.search.Lookup(r.Context(), chi.URLParam(r, "niin"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if rec.AlternateNames == nil {
		rec.AlternateNames = []string{}
	}
	writeJSON(w, http.StatusOK, rec)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// bindSearchParams reads the typed parameters with the OpenAPI form-style binder.
// Free-text parameters are taken as-is: malformed prices are a filter concern, not a 400.
func bindSearchParams(r *http.Request) (SearchParams, error) {
	q := r.URL.Query()
	params := SearchParams{
		Q:        q.Get("q"),
		FSC:      q.Get("fsc"),
		MinPrice: q.Get("minPrice"),
		MaxPrice: q.Get("maxPrice"),
	}
	if err := runtime.BindQueryParameter("form", true, false, "page", q, &params.Page); err != nil {
		return SearchParams{}, err
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", q, &params.Limit); err != nil {
		return SearchParams{}, err
	}
	if err := runtime.BindQueryParameter("form", true, false, "classIX", q, &params.ClassIX); err != nil {
		return SearchParams{}, err
	}
	return params, nil
}

func pageToResponse(p result.Page) SearchResponse {
	results := p.Results
	if results == nil {
		results = []result.Result{}
	}
	for i := range results {
		if results[i].AlternateNames == nil {
			results[i].AlternateNames = []string{}
		}
	}
	return SearchResponse{
		Results:    results,
		Total:      p.Total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages,
		Path:       p.Path,
	}
}
