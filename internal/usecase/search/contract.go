package search

import (
	"context"
	"time"

	"github.com/kailas-cloud/nsnsearch/internal/domain/nsn"
	"github.com/kailas-cloud/nsnsearch/internal/domain/search/probe"
)

// FragmentLoader fetches one reference table's rows for a set of NIINs.
type FragmentLoader interface {
	LoadTable(ctx context.Context, table nsn.Table, niins []string) (nsn.Batch, error)
}

// Discoverer answers discovery probes with NIINs.
type Discoverer interface {
	Discover(ctx context.Context, p probe.Probe) ([]string, error)
}

// Observer receives pipeline measurements. Implementations must be safe for concurrent use.
type Observer interface {
	ObserveResolution(path, outcome string, d time.Duration)
	ObserveFragmentFailure(table nsn.Table)
	ObserveDiscoveryTruncated()
}

type nopObserver struct{}

func (nopObserver) ObserveResolution(string, string, time.Duration) {}
func (nopObserver) ObserveFragmentFailure(nsn.Table)                {}
func (nopObserver) ObserveDiscoveryTruncated()                      {}
