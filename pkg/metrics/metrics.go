// Package metrics holds the prometheus collectors recorded during renders.
// All methods are safe to call on a nil *Metrics, which records nothing.
package metrics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

const namespace = "salesdash"

// Metrics groups the render collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	rowsLoaded     *prometheus.CounterVec
	valueFallbacks *prometheus.CounterVec
	renders        *prometheus.CounterVec
	identities     *prometheus.GaugeVec
	renderDuration prometheus.Histogram
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		rowsLoaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_loaded_total",
			Help:      "Rows read from source files, by dataset kind.",
		}, []string{"kind"}),
		valueFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "value_fallbacks_total",
			Help:      "Unparseable values replaced by zero, by field.",
		}, []string{"field"}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Dataset renders, by outcome.",
		}, []string{"outcome"}),
		identities: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "resolved_identities",
			Help:      "Distinct canonical identities in the last render, by dataset.",
		}, []string{"dataset"}),
		renderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Wall time of a full load, join, clean and resolve pass.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
	}

	m.registry.MustRegister(m.rowsLoaded, m.valueFallbacks, m.renders, m.identities, m.renderDuration)
	return m
}

// Registry exposes the private registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) RowsLoaded(kind string, n int) {
	if m == nil {
		return
	}
	m.rowsLoaded.WithLabelValues(kind).Add(float64(n))
}

func (m *Metrics) ValueFallback(field string) {
	if m == nil {
		return
	}
	m.valueFallbacks.WithLabelValues(field).Inc()
}

func (m *Metrics) RenderFinished(dataset string, identities int, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.renderDuration.Observe(elapsed.Seconds())
	if err != nil {
		m.renders.WithLabelValues("failed").Inc()
		return
	}
	m.renders.WithLabelValues("ok").Inc()
	m.identities.WithLabelValues(dataset).Set(float64(identities))
}

// Snapshot flattens the gathered families into name{labels} -> value.
// Histograms report their sample count.
func (m *Metrics) Snapshot() (map[string]float64, error) {
	if m == nil {
		return map[string]float64{}, nil
	}

	families, err := m.registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("failed to gather metrics: %w", err)
	}

	out := make(map[string]float64)
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			key := family.GetName() + labelSuffix(metric.GetLabel())
			switch family.GetType() {
			case dto.MetricType_COUNTER:
				out[key] = metric.GetCounter().GetValue()
			case dto.MetricType_GAUGE:
				out[key] = metric.GetGauge().GetValue()
			case dto.MetricType_HISTOGRAM:
				out[key+"_count"] = float64(metric.GetHistogram().GetSampleCount())
			}
		}
	}
	return out, nil
}

func labelSuffix(labels []*dto.LabelPair) string {
	if len(labels) == 0 {
		return ""
	}
	parts := make([]string, 0, len(labels))
	for _, l := range labels {
		parts = append(parts, fmt.Sprintf("%s=%q", l.GetName(), l.GetValue()))
	}
	sort.Strings(parts)
	return "{" + strings.Join(parts, ",") + "}"
}
