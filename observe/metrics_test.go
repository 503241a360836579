package observe

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestMetrics_RecordTransition(t *testing.T) {
	reader := metric.NewManualReader()
	mp := metric.NewMeterProvider(metric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := newMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordTransition(ctx, "lower", false, 5*time.Millisecond, nil)
	m.RecordTransition(ctx, "lower", true, time.Millisecond, nil)
	m.RecordTransition(ctx, "compile", false, 20*time.Millisecond, errors.New("codegen failed"))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	sums := map[string]int64{}
	for _, sm := range rm.ScopeMetrics[0].Metrics {
		sum, ok := sm.Data.(metricdata.Sum[int64])
		if !ok {
			continue
		}
		for _, dp := range sum.DataPoints {
			sums[sm.Name] += dp.Value
		}
	}

	assert.EqualValues(t, 3, sums["jit.transition.total"])
	assert.EqualValues(t, 1, sums["jit.cache.hits"])
	assert.EqualValues(t, 2, sums["jit.cache.misses"])
	assert.EqualValues(t, 1, sums["jit.transition.errors"])
}

func TestNoopMetrics(t *testing.T) {
	m := NewNoopMetrics()
	assert.NotPanics(t, func() {
		m.RecordTransition(context.Background(), "lower", true, time.Second, errors.New("x"))
	})
}
