package redis

import (
	"context"
	"sort"
	"strconv"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/nsnsearch/internal/db"
)

// XAdd appends an entry to a stream. With maxLen > 0 the stream is trimmed
// to roughly that many entries (MAXLEN ~). Fields are written in key order.
func (s *Store) XAdd(ctx context.Context, stream string, maxLen int64, fields map[string]string) (string, error) {
	if stream == "" {
		return "", db.ErrEmptyStreamKey
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	key := s.b().Xadd().Key(stream)
	var id rueidis.Completed
	if maxLen > 0 {
		cmd := key.Maxlen().Almost().Threshold(strconv.FormatInt(maxLen, 10)).Id("*").FieldValue()
		for _, k := range keys {
			cmd = cmd.FieldValue(k, fields[k])
		}
		id = cmd.Build()
	} else {
		cmd := key.Id("*").FieldValue()
		for _, k := range keys {
			cmd = cmd.FieldValue(k, fields[k])
		}
		id = cmd.Build()
	}

	entryID, err := s.do(ctx, id).ToString()
	if err != nil {
		return "", &db.Error{Op: db.OpXAdd, Err: err}
	}
	return entryID, nil
}
