package search

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/nsnsearch/internal/domain/nsn"
	"github.com/kailas-cloud/nsnsearch/internal/domain/search/probe"
	"github.com/kailas-cloud/nsnsearch/internal/domain/search/query"
	"github.com/kailas-cloud/nsnsearch/internal/domain/search/request"
	"github.com/kailas-cloud/nsnsearch/internal/domain/search/result"
)

var errAllProbesFailed = errors.New("all discovery probes failed")

// niinPrefixTables are probed by identifier prefix.
var niinPrefixTables = []nsn.Table{nsn.TableStock, nsn.TableNames, nsn.TablePrices}

// classCodeTables are probed by supply class equality.
var classCodeTables = []nsn.Table{nsn.TableStock, nsn.TableNames, nsn.TableFscs}

// nameTables are probed by item name.
var nameTables = []nsn.Table{nsn.TableStock, nsn.TableNames}

// resolveDiscovery finds candidate NIINs, pages the sorted union, and enriches
// only the current page. Total is the distinct candidate count before filters.
func (s *Service) resolveDiscovery(ctx context.Context, d query.Descriptor, req request.Request) (result.Page, error) {
	filters := req.Filters()
	limit := s.cfg.discoveryLimit(req.PageSize())

	probes, fscCandidate := s.planProbes(d, filters.FSC(), limit)
	if len(probes) == 0 {
		return result.EmptyPage(req.Page(), req.PageSize(), result.PathDiscovery), nil
	}

	candidates, err := s.candidates(ctx, probes)
	if err != nil {
		return result.Page{}, storageUnavailable(err)
	}
	total := len(candidates)
	if total == 0 {
		return result.EmptyPage(req.Page(), req.PageSize(), result.PathDiscovery), nil
	}

	window := result.Slice(candidates, req.Page(), req.PageSize())
	batch, err := s.enrich(ctx, window, s.pageTables(), "")
	if err != nil {
		return result.Page{}, storageUnavailable(err)
	}

	results := make([]result.Result, 0, len(window))
	for _, niin := range window {
		frag := batch[niin]
		r := result.Merge(niin, fscCandidate, &frag)
		if filters.Match(&r) {
			results = append(results, r)
		}
	}

	return result.Page{
		Results:    results,
		Total:      total,
		Page:       req.Page(),
		PageSize:   req.PageSize(),
		TotalPages: result.TotalPages(total, req.PageSize()),
		Path:       result.PathDiscovery,
	}, nil
}

// planProbes turns a descriptor into per-table lookups. fsc restricts tables that
// carry a class column; tables without one are skipped while it is set.
// The returned candidate class code feeds Merge for records lacking one.
func (s *Service) planProbes(d query.Descriptor, fsc string, limit int) ([]probe.Probe, string) {
	var probes []probe.Probe
	add := func(tables []nsn.Table, m probe.Match, value, restrict string) {
		for _, t := range tables {
			if restrict != "" && !probe.HasClassColumn(t) {
				continue
			}
			probes = append(probes, probe.Probe{Table: t, Match: m, Value: value, FSC: restrict, Limit: limit})
		}
	}

	var fscCandidate string
	switch {
	case d.IsNumeric && len(d.Cleaned) <= nsn.NIINLength:
		add(niinPrefixTables, probe.NIINPrefix, d.Cleaned, fsc)
	case d.IsNumeric:
		// A partial stock number: class code followed by the start of a NIIN.
		class, niin := d.Cleaned[:nsn.FSCLength], d.Cleaned[nsn.FSCLength:]
		if fsc == "" || fsc == class {
			add(niinPrefixTables, probe.NIINPrefix, niin, class)
			fscCandidate = class
		}
	case s.cfg.NameMatch == NameMatchPrefix:
		add(nameTables, probe.NamePrefix, d.Text, fsc)
	case s.cfg.NameMatch == NameMatchSubstring:
		add(nameTables, probe.NameSubstring, d.Text, fsc)
	}

	if d.IsClassCode() && (fsc == "" || fsc == d.Cleaned) {
		add(classCodeTables, probe.ClassCode, d.Cleaned, "")
	}
	return probes, fscCandidate
}

// candidates runs the probes concurrently and returns the sorted, distinct union.
// Some probes failing is logged; all of them failing is an error.
func (s *Service) candidates(ctx context.Context, probes []probe.Probe) ([]string, error) {
	key := memoKey(probes)
	if s.memo != nil {
		if v, ok := s.memo.Get(key); ok {
			return v.([]string), nil
		}
	}

	found := make([][]string, len(probes))
	errs := make([]error, len(probes))
	var g errgroup.Group
	for i, p := range probes {
		g.Go(func() error {
			pctx, cancel := context.WithTimeout(ctx, s.cfg.DiscoveryTimeout)
			defer cancel()
			found[i], errs[i] = s.discover.Discover(pctx, p)
			return nil
		})
	}
	_ = g.Wait()

	seen := make(map[string]struct{})
	failed := 0
	for i, p := range probes {
		if errs[i] != nil {
			failed++
			s.logger.Warn("Discovery probe failed",
				zap.String("probe", p.String()),
				zap.Error(errs[i]),
			)
			continue
		}
		if len(found[i]) >= p.Limit {
			s.observer.ObserveDiscoveryTruncated()
			s.logger.Debug("Discovery probe hit its limit",
				zap.String("probe", p.String()),
				zap.Int("limit", p.Limit),
			)
		}
		for _, niin := range found[i] {
			seen[niin] = struct{}{}
		}
	}
	if failed == len(probes) {
		return nil, errors.Join(append([]error{errAllProbesFailed}, errs...)...)
	}

	out := make([]string, 0, len(seen))
	for niin := range seen {
		out = append(out, niin)
	}
	sort.Strings(out)

	if s.memo != nil && failed == 0 {
		s.memo.Set(key, out, cache.DefaultExpiration)
	}
	return out, nil
}

func memoKey(probes []probe.Probe) string {
	parts := make([]string, len(probes))
	for i, p := range probes {
		parts[i] = p.String() + "|" + p.FSC + "|" + strconv.Itoa(p.Limit)
	}
	return strings.Join(parts, ";")
}
