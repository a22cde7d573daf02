package filter

import (
	"testing"

	"github.com/kailas-cloud/nsnsearch/internal/domain/search/result"
)

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }

func TestFilter_ZeroValuePassesEverything(t *testing.T) {
	var f Filter
	if !f.IsEmpty() {
		t.Fatal("zero filter should be empty")
	}
	r := result.Result{FSC: "5965", ClassIX: true}
	if !f.Match(&r) {
		t.Error("zero filter should match")
	}
}

func TestFilter_ClassIX(t *testing.T) {
	f := New("", boolPtr(true), "", "")
	if !f.Match(&result.Result{ClassIX: true}) {
		t.Error("expected class IX record to pass")
	}
	if f.Match(&result.Result{ClassIX: false}) {
		t.Error("expected non class IX record to fail")
	}

	f = New("", boolPtr(false), "", "")
	if !f.Match(&result.Result{ClassIX: false}) {
		t.Error("expected non class IX record to pass classIX=false")
	}
}

func TestFilter_Price(t *testing.T) {
	tests := []struct {
		name     string
		min, max string
		price    *string
		want     bool
	}{
		{"within range", "10", "20", strPtr("15.00"), true},
		{"inclusive min", "10", "", strPtr("10"), true},
		{"inclusive max", "", "20", strPtr("20.00"), true},
		{"below min", "10", "", strPtr("9.99"), false},
		{"above max", "", "20", strPtr("20.01"), false},
		{"missing price with min", "1", "", nil, false},
		{"missing price with max", "", "1", nil, false},
		{"malformed stored price", "1", "", strPtr("N/A"), false},
		{"malformed bound", "abc", "", strPtr("5"), false},
		{"no bounds", "", "", nil, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := New("", nil, tc.min, tc.max)
			if got := f.Match(&result.Result{UnitPrice: tc.price}); got != tc.want {
				t.Errorf("Match = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFilter_FSC(t *testing.T) {
	f := New(" 5965 ", nil, "", "")
	if f.FSC() != "5965" {
		t.Fatalf("fsc = %q", f.FSC())
	}
	if !f.Match(&result.Result{FSC: "5965"}) || f.Match(&result.Result{FSC: "5310"}) {
		t.Error("fsc predicate mismatch")
	}
	if f.NeedsPostFilter() {
		t.Error("fsc alone is pushed to storage")
	}
}

func TestFilter_Flags(t *testing.T) {
	f := New("", nil, "oops", "")
	if !f.HasPriceBound() || f.MinPrice() != nil {
		t.Error("malformed bound should count as bounded with no value")
	}
	if !f.NeedsPostFilter() || f.IsEmpty() {
		t.Error("price bound needs a post filter")
	}
	if got := New("5965", nil, "", "").CacheKey(); got != "fsc=5965" {
		t.Errorf("cache key = %q", got)
	}
}
