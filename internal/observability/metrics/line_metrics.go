package metrics

import (
	"context"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	OutcomeOK      = "ok"
	OutcomeRefused = "refused"
	OutcomeError   = "error"

	HoldDispatched = "dispatched"
	HoldIgnored    = "ignored"
	HoldFailed     = "failed"

	CountAccepted = "accepted"
	CountDropped  = "dropped"
	CountNoShift  = "no_shift"
)

// LineMetrics exposes production-line signals both to the local prometheus
// scrape and to the OTLP pipeline.
type LineMetrics struct {
	transitions *prometheus.CounterVec
	holds       *prometheus.CounterVec
	lampWrites  *prometheus.CounterVec
	state       *prometheus.GaugeVec
	counts      *prometheus.CounterVec
	quantity    prometheus.Counter

	otelTransitions metric.Int64Counter
	otelQuantity    metric.Float64Counter
}

var lineStates = []string{"stopped", "running", "paused"}

// NewLineMetrics registers the line vectors on registerer. provider may be nil.
func NewLineMetrics(registerer prometheus.Registerer, provider metric.MeterProvider, cfg Config) (*LineMetrics, error) {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	constLabels := constLabelsFor(cfg)

	m := &LineMetrics{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "corte_transitions_total",
			Help:        "Shift transitions by action, control surface and outcome.",
			ConstLabels: constLabels,
		}, []string{"action", "source", "outcome"}),
		holds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "corte_hold_events_total",
			Help:        "Physical button holds by button and gate result.",
			ConstLabels: constLabels,
		}, []string{"button", "result"}),
		lampWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "corte_lamp_writes_total",
			Help:        "Lamp synchronizations that reached the hardware.",
			ConstLabels: constLabels,
		}, []string{"state", "result"}),
		state: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "corte_state",
			Help:        "Canonical state of the active shift (1 for the current state).",
			ConstLabels: constLabels,
		}, []string{"state"}),
		counts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "corte_counts_total",
			Help:        "Count pulses by result.",
			ConstLabels: constLabels,
		}, []string{"result"}),
		quantity: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "corte_counted_quantity_total",
			Help:        "Quantity recorded from count pulses.",
			ConstLabels: constLabels,
		}),
	}

	for _, c := range []prometheus.Collector{m.transitions, m.holds, m.lampWrites, m.state, m.counts, m.quantity} {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}

	if provider != nil {
		meter := provider.Meter(serviceName(cfg))
		transitions, err := meter.Int64Counter("corte.transitions")
		if err != nil {
			return nil, err
		}
		quantity, err := meter.Float64Counter("corte.counted_quantity")
		if err != nil {
			return nil, err
		}
		m.otelTransitions = transitions
		m.otelQuantity = quantity
	}

	return m, nil
}

func (m *LineMetrics) RecordTransition(ctx context.Context, action, source, outcome string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(action, source, outcome).Inc()
	if m.otelTransitions != nil {
		attrs := FilterAttributes(
			attribute.String("action", action),
			attribute.String("source", source),
			attribute.String("outcome", outcome),
		)
		m.otelTransitions.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

func (m *LineMetrics) RecordHold(button, result string) {
	if m == nil {
		return
	}
	m.holds.WithLabelValues(strings.ToLower(button), result).Inc()
}

func (m *LineMetrics) RecordLampWrite(state string, err error) {
	if m == nil {
		return
	}
	result := OutcomeOK
	if err != nil {
		result = OutcomeError
	}
	m.lampWrites.WithLabelValues(state, result).Inc()
}

// SetState flips the state gauge so exactly one label reads 1.
func (m *LineMetrics) SetState(state string) {
	if m == nil {
		return
	}
	for _, s := range lineStates {
		value := 0.0
		if s == state {
			value = 1
		}
		m.state.WithLabelValues(s).Set(value)
	}
}

func (m *LineMetrics) RecordCount(ctx context.Context, result string, quantity float64) {
	if m == nil {
		return
	}
	m.counts.WithLabelValues(result).Inc()
	if result != CountAccepted {
		return
	}
	m.quantity.Add(quantity)
	if m.otelQuantity != nil {
		m.otelQuantity.Add(ctx, quantity)
	}
}

func constLabelsFor(cfg Config) prometheus.Labels {
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	labels := prometheus.Labels{
		"service": serviceName(cfg),
		"env":     environment,
	}
	if line := strings.TrimSpace(cfg.LineID); line != "" {
		labels["line"] = line
	}
	return labels
}

func serviceName(cfg Config) string {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		return "corte"
	}
	return name
}
