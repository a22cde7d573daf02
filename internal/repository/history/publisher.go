// Package history writes search events to a capped stream.
package history

import (
	"context"
	"fmt"

	domhistory "github.com/kailas-cloud/nsnsearch/internal/domain/history"
)

// DefaultStream is the stream key used when none is configured.
const DefaultStream = "nsnsearch:history"

// store is the consumer interface for stream writes (ISP).
type store interface {
	XAdd(ctx context.Context, stream string, maxLen int64, fields map[string]string) (string, error)
}

// Publisher implements usecase/history.Publisher.
type Publisher struct {
	store  store
	stream string
	maxLen int64
}

// New creates a publisher. An empty stream selects DefaultStream.
func New(s store, stream string, maxLen int64) *Publisher {
	if stream == "" {
		stream = DefaultStream
	}
	return &Publisher{store: s, stream: stream, maxLen: maxLen}
}

// Publish appends the event to the stream.
func (p *Publisher) Publish(ctx context.Context, e domhistory.Event) error {
	if _, err := p.store.XAdd(ctx, p.stream, p.maxLen, e.Fields()); err != nil {
		return fmt.Errorf("publish event %s: %w", e.ID, err)
	}
	return nil
}
