// Package history records searches off the request path.
package history

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	domhistory "github.com/kailas-cloud/nsnsearch/internal/domain/history"
)

// Event statuses reported to the Counter.
const (
	StatusPublished = "published"
	StatusDropped   = "dropped"
	StatusFailed    = "failed"
)

// Defaults for a zero Config.
const (
	DefaultBuffer         = 1024
	DefaultWorkers        = 2
	DefaultPublishTimeout = 2 * time.Second
)

// Config sizes the dispatcher.
type Config struct {
	Buffer         int
	Workers        int
	PublishTimeout time.Duration
}

// Stats is a snapshot of dispatcher counters.
type Stats struct {
	Published uint64
	Dropped   uint64
	Failed    uint64
}

// Dispatcher queues events and publishes them from background workers.
// Notify never blocks: a full queue drops the event.
type Dispatcher struct {
	pub     Publisher
	counter Counter
	cfg     Config
	logger  *zap.Logger

	queue  chan domhistory.Event
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool

	published atomic.Uint64
	dropped   atomic.Uint64
	failed    atomic.Uint64
}

// NewDispatcher starts cfg.Workers publishing goroutines. counter may be nil.
func NewDispatcher(pub Publisher, cfg Config, counter Counter, logger *zap.Logger) *Dispatcher {
	if cfg.Buffer <= 0 {
		cfg.Buffer = DefaultBuffer
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = DefaultPublishTimeout
	}

	d := &Dispatcher{
		pub:     pub,
		counter: counter,
		cfg:     cfg,
		logger:  logger,
		queue:   make(chan domhistory.Event, cfg.Buffer),
	}
	for range cfg.Workers {
		d.wg.Add(1)
		go d.run()
	}
	return d
}

// Notify enqueues a search for recording. Safe to call after Close (the event is dropped).
func (d *Dispatcher) Notify(e domhistory.Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(e, "dispatcher closed")
		return
	}
	select {
	case d.queue <- e:
	default:
		d.drop(e, "queue full")
	}
}

// Close stops accepting events and waits for queued ones to be published or ctx to end.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns the current counters.
func (d *Dispatcher) Stats() Stats {
	return Stats{
		Published: d.published.Load(),
		Dropped:   d.dropped.Load(),
		Failed:    d.failed.Load(),
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for e := range d.queue {
		d.publish(e)
	}
}

func (d *Dispatcher) publish(e domhistory.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), d.cfg.PublishTimeout)
	defer cancel()

	if err := d.pub.Publish(ctx, e); err != nil {
		d.failed.Add(1)
		d.count(StatusFailed)
		d.logger.Warn("Failed to publish search history",
			zap.String("event_id", e.ID),
			zap.Error(err),
		)
		return
	}
	d.published.Add(1)
	d.count(StatusPublished)
}

func (d *Dispatcher) drop(e domhistory.Event, reason string) {
	d.dropped.Add(1)
	d.count(StatusDropped)
	d.logger.Debug("Search history event dropped",
		zap.String("event_id", e.ID),
		zap.String("reason", reason),
	)
}

func (d *Dispatcher) count(status string) {
	if d.counter != nil {
		d.counter.Inc(status)
	}
}
