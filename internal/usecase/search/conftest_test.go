package search

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/nsnsearch/internal/domain/nsn"
	"github.com/kailas-cloud/nsnsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/nsnsearch/internal/domain/search/probe"
	"github.com/kailas-cloud/nsnsearch/internal/domain/search/request"
)

// --- Mocks ---

type loadCall struct {
	table nsn.Table
	niins []string
}

// mockLoader serves rows from an in-memory dataset. Safe for concurrent use.
// Tables listed in hang block until the lookup context is done.
type mockLoader struct {
	mu    sync.Mutex
	rows  map[nsn.Table]nsn.Batch
	errs  map[nsn.Table]error
	hang  map[nsn.Table]bool
	calls []loadCall
}

func newMockLoader() *mockLoader {
	return &mockLoader{rows: map[nsn.Table]nsn.Batch{}, errs: map[nsn.Table]error{}, hang: map[nsn.Table]bool{}}
}

func (m *mockLoader) LoadTable(ctx context.Context, table nsn.Table, niins []string) (nsn.Batch, error) {
	m.mu.Lock()
	m.calls = append(m.calls, loadCall{table: table, niins: append([]string(nil), niins...)})
	hang := m.hang[table]
	m.mu.Unlock()
	if hang {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errs[table]; err != nil {
		return nil, err
	}
	out := nsn.Batch{}
	for _, n := range niins {
		if f, ok := m.rows[table][n]; ok {
			out[n] = f
		}
	}
	return out, nil
}

func (m *mockLoader) put(table nsn.Table, f nsn.Fragments) {
	if m.rows[table] == nil {
		m.rows[table] = nsn.Batch{}
	}
	m.rows[table][f.NIIN] = f
}

func (m *mockLoader) stock(niin, fsc, name string) {
	m.put(nsn.TableStock, nsn.Fragments{NIIN: niin, Stock: &nsn.StockRecord{NIIN: niin, FSC: fsc, ItemName: name}})
}

func (m *mockLoader) price(niin, price string) {
	m.put(nsn.TablePrices, nsn.Fragments{NIIN: niin, Price: &nsn.PriceEntry{NIIN: niin, UnitPrice: &price}})
}

func (m *mockLoader) aac(niin, aac string) {
	m.put(nsn.TableAacs, nsn.Fragments{NIIN: niin, Aac: &nsn.AacEntry{NIIN: niin, AAC: aac}})
}

func (m *mockLoader) tablesLoaded() map[nsn.Table]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[nsn.Table]int{}
	for _, c := range m.calls {
		out[c.table]++
	}
	return out
}

func (m *mockLoader) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// mockDiscoverer answers probes through fn. Probes matching hang block until
// the probe context is done.
type mockDiscoverer struct {
	mu     sync.Mutex
	fn     func(p probe.Probe) ([]string, error)
	hang   func(p probe.Probe) bool
	probes []probe.Probe
}

func (m *mockDiscoverer) Discover(ctx context.Context, p probe.Probe) ([]string, error) {
	m.mu.Lock()
	m.probes = append(m.probes, p)
	m.mu.Unlock()
	if m.hang != nil && m.hang(p) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.fn != nil {
		return m.fn(p)
	}
	return nil, nil
}

func (m *mockDiscoverer) seen() []probe.Probe {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]probe.Probe(nil), m.probes...)
}

// byTable answers NIIN-prefix style probes from a fixed per-table list.
func byTable(lists map[nsn.Table][]string) func(p probe.Probe) ([]string, error) {
	return func(p probe.Probe) ([]string, error) {
		return lists[p.Table], nil
	}
}

type recordingObserver struct {
	mu               sync.Mutex
	resolutions      []string
	fragmentFailures map[nsn.Table]int
	truncated        int
}

func (o *recordingObserver) ObserveResolution(path, outcome string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.resolutions = append(o.resolutions, path+":"+outcome)
}

func (o *recordingObserver) ObserveFragmentFailure(table nsn.Table) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.fragmentFailures == nil {
		o.fragmentFailures = map[nsn.Table]int{}
	}
	o.fragmentFailures[table]++
}

func (o *recordingObserver) ObserveDiscoveryTruncated() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.truncated++
}

// --- Helpers ---

func newTestService(t *testing.T, cfg Config) (*Service, *mockLoader, *mockDiscoverer, *recordingObserver) {
	t.Helper()
	loader := newMockLoader()
	disc := &mockDiscoverer{}
	obs := &recordingObserver{}
	return New(loader, disc, cfg, obs, zap.NewNop()), loader, disc, obs
}

func mustRequest(t *testing.T, q string, f filter.Filter, page, size int) request.Request {
	t.Helper()
	req, err := request.New(q, f, page, size)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return req
}

func noFilter() filter.Filter {
	return filter.New("", nil, "", "")
}

func boolPtr(b bool) *bool { return &b }
