// Package probe describes a single discovery lookup against one reference table.
package probe

import (
	"fmt"

	"github.com/kailas-cloud/nsnsearch/internal/domain/nsn"
)

// Match selects which column a probe compares and how.
type Match string

// Supported probe matches.
const (
	NIINPrefix    Match = "niin_prefix"
	ClassCode     Match = "fsc"
	NamePrefix    Match = "name_prefix"
	NameSubstring Match = "name_substring"
)

// Probe asks one table for the NIINs matching Value.
// FSC, when set, restricts matches to that supply class on tables that carry one.
type Probe struct {
	Table nsn.Table
	Match Match
	Value string
	FSC   string
	Limit int
}

var capabilities = map[nsn.Table][]Match{
	nsn.TableStock:  {NIINPrefix, ClassCode, NamePrefix, NameSubstring},
	nsn.TableNames:  {NIINPrefix, ClassCode, NamePrefix, NameSubstring},
	nsn.TablePrices: {NIINPrefix},
	nsn.TableFscs:   {NIINPrefix, ClassCode},
}

// Supports reports whether table t can answer match m.
func Supports(t nsn.Table, m Match) bool {
	for _, c := range capabilities[t] {
		if c == m {
			return true
		}
	}
	return false
}

// HasClassColumn reports whether t carries an FSC column usable for filtering.
func HasClassColumn(t nsn.Table) bool {
	return Supports(t, ClassCode)
}

// Validate checks that the probe is answerable.
func (p Probe) Validate() error {
	if !Supports(p.Table, p.Match) {
		return fmt.Errorf("table %q does not support %q probes", p.Table, p.Match)
	}
	if p.Value == "" {
		return fmt.Errorf("probe value is empty")
	}
	if p.Limit <= 0 {
		return fmt.Errorf("probe limit must be positive, got %d", p.Limit)
	}
	if p.FSC != "" && !HasClassColumn(p.Table) {
		return fmt.Errorf("table %q cannot filter by fsc", p.Table)
	}
	return nil
}

// String renders the probe for logs.
func (p Probe) String() string {
	return fmt.Sprintf("%s:%s=%s", p.Table, p.Match, p.Value)
}
