package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
)

func newTestLineMetrics(t *testing.T) (*LineMetrics, *prometheus.Registry) {
	t.Helper()
	registry := prometheus.NewRegistry()
	m, err := NewLineMetrics(registry, noop.NewMeterProvider(), Config{ServiceName: "corte", Environment: "test"})
	require.NoError(t, err)
	return m, registry
}

func TestRecordTransition(t *testing.T) {
	m, _ := newTestLineMetrics(t)

	m.RecordTransition(context.Background(), "pause", "button", OutcomeOK)
	m.RecordTransition(context.Background(), "pause", "button", OutcomeOK)
	m.RecordTransition(context.Background(), "pause", "api", OutcomeRefused)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.transitions.WithLabelValues("pause", "button", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("pause", "api", OutcomeRefused)))
}

func TestSetStateIsExclusive(t *testing.T) {
	m, registry := newTestLineMetrics(t)

	m.SetState("running")
	m.SetState("paused")

	families, err := registry.Gather()
	require.NoError(t, err)

	var gauge *dto.MetricFamily
	for _, family := range families {
		if family.GetName() == "corte_state" {
			gauge = family
		}
	}
	require.NotNil(t, gauge)

	lit := 0
	for _, metric := range gauge.GetMetric() {
		if metric.GetGauge().GetValue() != 1 {
			continue
		}
		lit++
		for _, label := range metric.GetLabel() {
			if label.GetName() == "state" {
				assert.Equal(t, "paused", label.GetValue())
			}
		}
	}
	assert.Equal(t, 1, lit)
}

func TestRecordCountOnlyAddsAcceptedQuantity(t *testing.T) {
	m, _ := newTestLineMetrics(t)

	m.RecordCount(context.Background(), CountAccepted, 0.5)
	m.RecordCount(context.Background(), CountDropped, 0.5)

	assert.Equal(t, 0.5, testutil.ToFloat64(m.quantity))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.counts.WithLabelValues(CountDropped)))
}

func TestRecordLampWrite(t *testing.T) {
	m, _ := newTestLineMetrics(t)

	m.RecordLampWrite("running", nil)
	m.RecordLampWrite("running", errors.New("gpio busy"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.lampWrites.WithLabelValues("running", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.lampWrites.WithLabelValues("running", OutcomeError)))
}

func TestNilLineMetricsIsSafe(t *testing.T) {
	var m *LineMetrics
	m.RecordTransition(context.Background(), "start", "api", OutcomeOK)
	m.RecordHold("start", HoldIgnored)
	m.SetState("stopped")
}
