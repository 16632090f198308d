// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

// Package metrics provides Prometheus instrumentation of tool calls.
package metrics

import (
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "corpus_mcp"

	// maxLabelLen is the maximum length of a label value.
	maxLabelLen = 64
)

func sanitizeLabel(s string) string {
	if s == "" {
		return "unknown"
	}
	s = strings.ReplaceAll(s, " ", "_")
	if len(s) > maxLabelLen {
		s = s[:maxLabelLen]
	}
	return s
}

// Metrics records tool calls. A nil *Metrics records nothing.
type Metrics struct {
	registry  *prometheus.Registry
	calls     *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	inFlight  prometheus.Gauge
	resources *prometheus.GaugeVec
}

// New returns metrics registered on a new registry, together with the Go and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "tool",
				Name:      "calls_total",
				Help:      "Total tool calls by tool and outcome",
			},
			[]string{"tool", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "tool",
				Name:      "call_duration_seconds",
				Help:      "Duration of tool calls by tool",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
			},
			[]string{"tool"},
		),
		inFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "tool",
				Name:      "calls_in_flight",
				Help:      "Tool calls currently being served",
			},
		),
		resources: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "catalog",
				Name:      "resources",
				Help:      "Top-level resources of the catalog at startup, by backend",
			},
			[]string{"backend"},
		),
	}
	m.registry.MustRegister(
		m.calls,
		m.duration,
		m.inFlight,
		m.resources,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry holding the metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// StartCall records the start of a call to tool. The returned function records
// its end and must be called exactly once.
func (m *Metrics) StartCall(tool string) func(outcome string) {
	if m == nil {
		return func(string) {}
	}
	start := time.Now()
	m.inFlight.Inc()
	tool = sanitizeLabel(tool)
	return func(outcome string) {
		m.inFlight.Dec()
		m.duration.WithLabelValues(tool).Observe(time.Since(start).Seconds())
		m.calls.WithLabelValues(tool, sanitizeLabel(outcome)).Inc()
	}
}

// SetResources records the number of resources held by a catalog backend.
func (m *Metrics) SetResources(backend string, n int) {
	if m == nil {
		return
	}
	m.resources.WithLabelValues(sanitizeLabel(backend)).Set(float64(n))
}
