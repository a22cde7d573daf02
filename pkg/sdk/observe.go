package nsnsearch

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// operation names a public Client call in logs and metric labels.
type operation string

const (
	opSearch operation = "search"
	opLookup operation = "lookup"
	opPing   operation = "ping"
)

// outcome buckets a call result by whose problem it was.
type outcome string

const (
	outcomeOK outcome = "ok"
	// outcomeRejected covers bad input and unknown identifiers. The stores answered.
	outcomeRejected    outcome = "rejected"
	outcomeUnavailable outcome = "unavailable"
	outcomeError       outcome = "error"
)

func classify(err error) outcome {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrInvalidNIIN), errors.Is(err, ErrNotFound):
		return outcomeRejected
	case errors.Is(err, ErrStorageUnavailable):
		return outcomeUnavailable
	default:
		return outcomeError
	}
}

type sdkMetrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nsnsearch",
			Subsystem: "sdk",
			Name:      "calls_total",
			Help:      "SDK calls by operation and outcome.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "nsnsearch",
			Subsystem: "sdk",
			Name:      "call_duration_seconds",
			Help:      "SDK call latency in seconds.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"operation"}),
	}
	if err := registerOrReuse(reg, &m.calls); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers c, or points it at the collector a previous Client
// already registered on reg.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	err := reg.Register(*c)
	if err == nil {
		return nil
	}
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return fmt.Errorf("nsnsearch: register metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return fmt.Errorf("nsnsearch: metric already registered as %T", are.ExistingCollector)
	}
	*c = existing
	return nil
}

// observer logs and counts Client calls. A nil observer, logger or metrics set
// is a no-op.
type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{logger: logger}
	if reg != nil {
		m, err := newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
		o.metrics = m
	}
	return o, nil
}

func (o *observer) observe(op operation, start time.Time, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)
	out := classify(err)

	if o.metrics != nil {
		o.metrics.calls.WithLabelValues(string(op), string(out)).Inc()
		o.metrics.duration.WithLabelValues(string(op)).Observe(dur.Seconds())
	}
	if o.logger == nil {
		return
	}

	switch out {
	case outcomeOK:
		o.logger.Debug("nsnsearch call completed", "op", op, "duration", dur)
	case outcomeRejected:
		o.logger.Debug("nsnsearch call rejected", "op", op, "duration", dur, "error", err)
	default:
		o.logger.Warn("nsnsearch call failed", "op", op, "outcome", out, "duration", dur, "error", err)
	}
}
