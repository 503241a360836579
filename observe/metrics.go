package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records stage-transition outcomes. Its signature matches the
// cache middleware's Recorder so an Observer's metrics plug straight in.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines and return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordTransition records one transition attempt: the stage kind,
	// whether the cache answered it, how long it took, and its error.
	RecordTransition(ctx context.Context, kind string, hit bool, duration time.Duration, err error)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	meter        metric.Meter
	totalCount   metric.Int64Counter
	hitCount     metric.Int64Counter
	missCount    metric.Int64Counter
	errorCount   metric.Int64Counter
	durationHist metric.Float64Histogram
}

// newMetrics creates a new Metrics instance with the given meter.
func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	totalCount, err := meter.Int64Counter(
		"jit.transition.total",
		metric.WithDescription("Total number of stage transition attempts"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	hitCount, err := meter.Int64Counter(
		"jit.cache.hits",
		metric.WithDescription("Transition attempts answered from the cache"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	missCount, err := meter.Int64Counter(
		"jit.cache.misses",
		metric.WithDescription("Transition attempts that ran the real transition"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"jit.transition.errors",
		metric.WithDescription("Total number of failed stage transitions"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"jit.transition.duration_ms",
		metric.WithDescription("Stage transition duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:        meter,
		totalCount:   totalCount,
		hitCount:     hitCount,
		missCount:    missCount,
		errorCount:   errorCount,
		durationHist: durationHist,
	}, nil
}

// RecordTransition records metrics for one transition attempt.
func (m *metricsImpl) RecordTransition(ctx context.Context, kind string, hit bool, duration time.Duration, err error) {
	opt := metric.WithAttributes(
		attribute.String("jit.stage.kind", kind),
		attribute.Bool("jit.cache.hit", hit),
	)

	m.totalCount.Add(ctx, 1, opt)
	if hit {
		m.hitCount.Add(ctx, 1, opt)
	} else {
		m.missCount.Add(ctx, 1, opt)
	}
	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Microseconds())/1000.0, opt)
}

// noopMetrics discards all recordings.
type noopMetrics struct{}

// NewNoopMetrics returns a Metrics that does nothing.
func NewNoopMetrics() Metrics { return &noopMetrics{} }

func (m *noopMetrics) RecordTransition(context.Context, string, bool, time.Duration, error) {}

// Ensure implementations satisfy Metrics
var (
	_ Metrics = (*metricsImpl)(nil)
	_ Metrics = (*noopMetrics)(nil)
)
