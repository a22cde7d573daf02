package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/kailas-cloud/nsnsearch/internal/domain"
	"github.com/kailas-cloud/nsnsearch/internal/domain/search/mode"
	"github.com/kailas-cloud/nsnsearch/internal/domain/search/query"
	"github.com/kailas-cloud/nsnsearch/internal/domain/search/request"
	"github.com/kailas-cloud/nsnsearch/internal/domain/search/result"
)

// Resolution outcomes reported to the Observer.
const (
	OutcomeOK    = "ok"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

// Service resolves identifier queries into pages of merged records.
type Service struct {
	loader   FragmentLoader
	discover Discoverer
	cfg      Config
	memo     *cache.Cache
	observer Observer
	logger   *zap.Logger
}

// New creates a search service. observer may be nil.
func New(
	loader FragmentLoader, discover Discoverer, cfg Config,
	observer Observer, logger *zap.Logger,
) *Service {
	cfg = cfg.withDefaults()
	if observer == nil {
		observer = nopObserver{}
	}
	s := &Service{
		loader:   loader,
		discover: discover,
		cfg:      cfg,
		observer: observer,
		logger:   logger,
	}
	if cfg.MemoTTL > 0 {
		s.memo = cache.New(cfg.MemoTTL, cfg.MemoTTL*2)
	}
	return s
}

// Resolve runs the full pipeline: normalize, pick a strategy, resolve, filter, page.
// Unusable queries and missing data yield empty pages; only storage failures the
// answer cannot be built without are returned as errors (domain.ErrStorageUnavailable).
func (s *Service) Resolve(ctx context.Context, req request.Request) (result.Page, error) {
	start := time.Now()
	req = req.WithMaxPageSize(s.cfg.MaxPageSize)

	d := query.NormalizeWithMin(req.Query(), s.cfg.MinQueryLength)

	var (
		page result.Page
		err  error
		path = result.PathNone
	)
	switch mode.Select(d) {
	case mode.ExactMatch:
		path = result.PathExact
		page, err = s.resolveExact(ctx, d, req)
	case mode.PartialDiscovery:
		path = result.PathDiscovery
		page, err = s.resolveDiscovery(ctx, d, req)
	default:
		page = result.EmptyPage(req.Page(), req.PageSize(), path)
	}

	s.observe(path, page.Total, err, start)
	if err != nil {
		return result.Page{}, err
	}
	return page, nil
}

// Lookup returns the complete record for one identifier. raw must normalize to a
// 9-digit NIIN or a 13-digit NSN.
func (s *Service) Lookup(ctx context.Context, raw string) (result.Result, error) {
	start := time.Now()

	d := query.Normalize(raw)
	if mode.Select(d) != mode.ExactMatch {
		return result.Result{}, fmt.Errorf("%w: %q", domain.ErrInvalidNIIN, raw)
	}

	r, found, err := s.resolveOne(ctx, d)
	switch {
	case err != nil:
		s.observe(result.PathExact, 0, err, start)
		return result.Result{}, err
	case !found:
		s.observe(result.PathExact, 0, nil, start)
		return result.Result{}, fmt.Errorf("%w: niin %s", domain.ErrNotFound, d.NIINCandidate)
	}
	s.observe(result.PathExact, 1, nil, start)
	return r, nil
}

func (s *Service) observe(path result.Path, total int, err error, start time.Time) {
	outcome := OutcomeOK
	switch {
	case err != nil:
		outcome = OutcomeError
	case total == 0:
		outcome = OutcomeEmpty
	}
	s.observer.ObserveResolution(string(path), outcome, time.Since(start))
}

func storageUnavailable(err error) error {
	if errors.Is(err, domain.ErrStorageUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
}
