package mode

import "github.com/kailas-cloud/nsnsearch/internal/domain/search/query"

// Mode is the resolution strategy.
type Mode string

// Resolution strategies.
const (
	// None short-circuits invalid input without touching storage.
	None Mode = "none"
	// ExactMatch resolves one complete NIIN.
	ExactMatch Mode = "exact"
	// PartialDiscovery collects candidate NIINs from several indexes.
	PartialDiscovery Mode = "discovery"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == None || m == ExactMatch || m == PartialDiscovery
}

// Select picks the strategy for a normalized query.
func Select(d query.Descriptor) Mode {
	switch d.Kind {
	case query.Invalid:
		return None
	case query.FullStockNumber, query.ItemIdentifier:
		return ExactMatch
	default:
		return PartialDiscovery
	}
}
