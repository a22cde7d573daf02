// Package filter holds the predicates applied to merged search results.
package filter

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kailas-cloud/nsnsearch/internal/domain/search/result"
)

// Filter is the set of optional result predicates. The zero value passes everything.
type Filter struct {
	fsc            string
	classIX        *bool
	minPrice       *decimal.Decimal
	maxPrice       *decimal.Decimal
	priceBounded   bool
	priceMalformed bool
}

// New builds a filter from raw request values. Empty strings leave a bound unset.
// A price bound that does not parse as a decimal is kept as "matches nothing".
func New(fsc string, classIX *bool, minPrice, maxPrice string) Filter {
	f := Filter{fsc: strings.TrimSpace(fsc), classIX: classIX}
	f.minPrice = f.parseBound(minPrice)
	f.maxPrice = f.parseBound(maxPrice)
	return f
}

func (f *Filter) parseBound(raw string) *decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	f.priceBounded = true
	d, err := decimal.NewFromString(raw)
	if err != nil {
		f.priceMalformed = true
		return nil
	}
	return &d
}

// FSC returns the supply class restriction ("" when unset).
func (f Filter) FSC() string { return f.fsc }

// ClassIX returns the requested Class IX flag (nil when unset).
func (f Filter) ClassIX() *bool { return f.classIX }

// MinPrice returns the lower price bound (nil when unset or malformed).
func (f Filter) MinPrice() *decimal.Decimal { return f.minPrice }

// MaxPrice returns the upper price bound (nil when unset or malformed).
func (f Filter) MaxPrice() *decimal.Decimal { return f.maxPrice }

// HasPriceBound reports whether any price bound was supplied, malformed or not.
func (f Filter) HasPriceBound() bool { return f.priceBounded }

// IsEmpty reports whether the filter passes every record.
func (f Filter) IsEmpty() bool {
	return f.fsc == "" && f.classIX == nil && !f.priceBounded
}

// NeedsPostFilter reports whether a predicate must run after merge.
func (f Filter) NeedsPostFilter() bool {
	return f.classIX != nil || f.priceBounded
}

// Match applies every predicate to a merged record.
func (f Filter) Match(r *result.Result) bool {
	return f.MatchFSC(r.FSC) && f.MatchClassIX(r.ClassIX) && f.MatchPrice(r.UnitPrice)
}

// MatchFSC compares the merged supply class with the restriction.
func (f Filter) MatchFSC(fsc string) bool {
	return f.fsc == "" || f.fsc == fsc
}

// MatchClassIX compares the derived Class IX flag with the requested one.
func (f Filter) MatchClassIX(classIX bool) bool {
	return f.classIX == nil || *f.classIX == classIX
}

// MatchPrice checks the unit price against the bounds. A missing or unparsable price
// fails any bound, and a malformed bound fails every price.
func (f Filter) MatchPrice(unitPrice *string) bool {
	if !f.priceBounded {
		return true
	}
	if f.priceMalformed || unitPrice == nil {
		return false
	}
	price, err := decimal.NewFromString(strings.TrimSpace(*unitPrice))
	if err != nil {
		return false
	}
	if f.minPrice != nil && price.LessThan(*f.minPrice) {
		return false
	}
	if f.maxPrice != nil && price.GreaterThan(*f.maxPrice) {
		return false
	}
	return true
}

// CacheKey renders the database-side part of the filter for memo keys.
func (f Filter) CacheKey() string {
	return "fsc=" + f.fsc
}
