package mode

import (
	"testing"

	"github.com/kailas-cloud/nsnsearch/internal/domain/search/query"
)

func TestSelect(t *testing.T) {
	tests := []struct {
		raw  string
		want Mode
	}{
		{"015726371", ExactMatch},
		{"5965-01-572-6371", ExactMatch},
		{"596501572637", PartialDiscovery},
		{"5965", PartialDiscovery},
		{"headset", PartialDiscovery},
		{"59", None},
		{"", None},
	}
	for _, tc := range tests {
		if got := Select(query.Normalize(tc.raw)); got != tc.want {
			t.Errorf("Select(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestSelect_EveryNineDigitKeyIsExact(t *testing.T) {
	for _, raw := range []string{"000000000", "123456789", "999999999", "010203040"} {
		if got := Select(query.Normalize(raw)); got != ExactMatch {
			t.Errorf("Select(%q) = %q, want %q", raw, got, ExactMatch)
		}
	}
}

func TestIsValid(t *testing.T) {
	for _, m := range []Mode{None, ExactMatch, PartialDiscovery} {
		if !m.IsValid() {
			t.Errorf("%q should be valid", m)
		}
	}
	if Mode("hybrid").IsValid() {
		t.Error("unknown mode should be invalid")
	}
}
