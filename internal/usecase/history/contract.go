package history

import (
	"context"

	domhistory "github.com/kailas-cloud/nsnsearch/internal/domain/history"
)

// Publisher writes one event to durable storage.
type Publisher interface {
	Publish(ctx context.Context, e domhistory.Event) error
}

// Counter tracks event outcomes by status ("published", "dropped", "failed").
type Counter interface {
	Inc(status string)
}
