package postgres

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/nsnsearch/internal/db"
	"github.com/kailas-cloud/nsnsearch/internal/domain/search/probe"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// buildProbe renders a discovery probe as a DISTINCT niin query ordered by niin.
func buildProbe(p probe.Probe) (string, []any, error) {
	if err := p.Validate(); err != nil {
		return "", nil, fmt.Errorf("%w: %w", db.ErrUnsupportedOp, err)
	}
	t, ok := tables[p.Table]
	if !ok {
		return "", nil, fmt.Errorf("%w: %s", db.ErrUnknownTable, p.Table)
	}

	var cond string
	args := make([]any, 0, 3)
	switch p.Match {
	case probe.NIINPrefix:
		cond = "niin LIKE $1"
		args = append(args, likeEscaper.Replace(p.Value)+"%")
	case probe.ClassCode:
		cond = t.fscCol + " = $1"
		args = append(args, p.Value)
	case probe.NamePrefix:
		cond = t.nameCol + " ILIKE $1"
		args = append(args, likeEscaper.Replace(p.Value)+"%")
	case probe.NameSubstring:
		cond = t.nameCol + " ILIKE $1"
		args = append(args, "%"+likeEscaper.Replace(p.Value)+"%")
	default:
		return "", nil, fmt.Errorf("%w: %s", db.ErrUnsupportedOp, p.Match)
	}

	var b strings.Builder
	b.WriteString("SELECT DISTINCT niin FROM ")
	b.WriteString(t.relation)
	b.WriteString(" WHERE ")
	b.WriteString(cond)
	if p.FSC != "" && p.Match != probe.ClassCode {
		args = append(args, p.FSC)
		b.WriteString(" AND " + t.fscCol + " = $" + strconv.Itoa(len(args)))
	}
	args = append(args, p.Limit)
	b.WriteString(" ORDER BY niin LIMIT $" + strconv.Itoa(len(args)))

	return b.String(), args, nil
}
