package search

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/nsnsearch/internal/domain/search/query"
	"github.com/kailas-cloud/nsnsearch/internal/domain/search/request"
)

// NameMatch controls how free-text queries are matched against item names.
type NameMatch string

// Name matching modes.
const (
	NameMatchOff       NameMatch = "off"
	NameMatchPrefix    NameMatch = "prefix"
	NameMatchSubstring NameMatch = "substring"
)

// ParseNameMatch validates a configured name matching mode. Empty selects prefix.
func ParseNameMatch(s string) (NameMatch, error) {
	switch NameMatch(s) {
	case "":
		return NameMatchPrefix, nil
	case NameMatchOff, NameMatchPrefix, NameMatchSubstring:
		return NameMatch(s), nil
	default:
		return "", fmt.Errorf("unknown name match mode %q", s)
	}
}

// Pipeline defaults.
const (
	DefaultDiscoveryMultiplier = 4
	DefaultDiscoveryMax        = 1000
	DefaultLookupTimeout       = 1500 * time.Millisecond
	DefaultDiscoveryTimeout    = 3 * time.Second
)

// Config tunes the resolution pipeline.
type Config struct {
	MinQueryLength        int
	MaxPageSize           int
	DiscoveryMultiplier   int
	DiscoveryMax          int
	LookupTimeout         time.Duration
	DiscoveryTimeout      time.Duration
	NameMatch             NameMatch
	SkipOptionalFragments bool
	// MemoTTL keeps discovered candidate lists in process. Zero disables the memo.
	MemoTTL time.Duration
}

func (c Config) withDefaults() Config {
	if c.MinQueryLength <= 0 {
		c.MinQueryLength = query.DefaultMinLength
	}
	if c.MaxPageSize <= 0 {
		c.MaxPageSize = request.MaxPageSize
	}
	if c.DiscoveryMultiplier <= 0 {
		c.DiscoveryMultiplier = DefaultDiscoveryMultiplier
	}
	if c.DiscoveryMax <= 0 {
		c.DiscoveryMax = DefaultDiscoveryMax
	}
	if c.LookupTimeout <= 0 {
		c.LookupTimeout = DefaultLookupTimeout
	}
	if c.DiscoveryTimeout <= 0 {
		c.DiscoveryTimeout = DefaultDiscoveryTimeout
	}
	if c.NameMatch == "" {
		c.NameMatch = NameMatchPrefix
	}
	return c
}

// discoveryLimit is the per-probe row cap. It depends on the page size only,
// so every page of one query sees the same candidate set.
func (c Config) discoveryLimit(pageSize int) int {
	limit := pageSize * c.DiscoveryMultiplier
	if limit < pageSize {
		limit = pageSize
	}
	if limit > c.DiscoveryMax {
		limit = c.DiscoveryMax
	}
	return limit
}
