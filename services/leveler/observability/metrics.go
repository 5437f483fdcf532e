// Copyright (C) 2026 Relevel Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package observability provides Prometheus metrics for the leveler
// service. All metric operations are thread-safe via Prometheus's internal
// locking; initialize once at startup via InitMetrics.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "relevel"

const transformSubsystem = "transform"

// TransformMetrics holds all Prometheus metrics for rewrite operations.
type TransformMetrics struct {
	// RequestsTotal counts transform requests.
	// Labels: endpoint (transform, transform_batch), status (success, error)
	RequestsTotal *prometheus.CounterVec

	// DeclinedTotal counts oracle refusals (failure marker replies).
	// Labels: endpoint
	DeclinedTotal *prometheus.CounterVec

	// ProtocolViolationsTotal counts oracle replies with neither marker.
	// Labels: endpoint
	ProtocolViolationsTotal *prometheus.CounterVec

	// OracleDurationSeconds measures wall time of the oracle call.
	// Labels: endpoint, status (success, error)
	OracleDurationSeconds *prometheus.HistogramVec

	// WordsTotal counts words passing through, by direction. Output words
	// are only counted for validated successes.
	// Labels: direction (input, output)
	WordsTotal *prometheus.CounterVec

	// InFlight tracks transform requests currently being served.
	InFlight prometheus.Gauge
}

// DefaultMetrics is the singleton instance, set by InitMetrics.
var DefaultMetrics *TransformMetrics

// InitMetrics creates and registers all leveler metrics on the default
// registry. Call once at startup; a second call panics on duplicate
// registration.
func InitMetrics() *TransformMetrics {
	DefaultMetrics = newMetrics(nil)
	return DefaultMetrics
}

// InitMetricsWithRegistry registers on a caller-owned registry. Tests use
// this to avoid cross-test duplicate registration.
func InitMetricsWithRegistry(reg *prometheus.Registry) *TransformMetrics {
	return newMetrics(reg)
}

func newMetrics(reg prometheus.Registerer) *TransformMetrics {
	factory := promauto.With(reg)
	if reg == nil {
		factory = promauto.With(prometheus.DefaultRegisterer)
	}
	return &TransformMetrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: transformSubsystem,
				Name:      "requests_total",
				Help:      "Total transform requests by endpoint and status",
			},
			[]string{"endpoint", "status"},
		),
		DeclinedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: transformSubsystem,
				Name:      "declined_total",
				Help:      "Oracle refusals (failure-marker replies) by endpoint",
			},
			[]string{"endpoint"},
		),
		ProtocolViolationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: transformSubsystem,
				Name:      "protocol_violations_total",
				Help:      "Oracle replies carrying neither protocol marker",
			},
			[]string{"endpoint"},
		),
		OracleDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: transformSubsystem,
				Name:      "oracle_duration_seconds",
				Help:      "Oracle call duration by endpoint and status",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"endpoint", "status"},
		),
		WordsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: transformSubsystem,
				Name:      "words_total",
				Help:      "Words processed by direction (output counts validated successes only)",
			},
			[]string{"direction"},
		),
		InFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: transformSubsystem,
				Name:      "in_flight",
				Help:      "Transform requests currently being served",
			},
		),
	}
}

// RecordRequest increments the request counter if metrics are initialized.
// Handlers call the nil-safe helpers so unit tests don't need a registry.
func (m *TransformMetrics) RecordRequest(endpoint, status string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(endpoint, status).Inc()
}

// RecordDeclined increments the refusal counter.
func (m *TransformMetrics) RecordDeclined(endpoint string) {
	if m == nil {
		return
	}
	m.DeclinedTotal.WithLabelValues(endpoint).Inc()
}

// RecordProtocolViolation increments the marker-violation counter.
func (m *TransformMetrics) RecordProtocolViolation(endpoint string) {
	if m == nil {
		return
	}
	m.ProtocolViolationsTotal.WithLabelValues(endpoint).Inc()
}

// ObserveOracleDuration records one oracle call duration in seconds.
func (m *TransformMetrics) ObserveOracleDuration(endpoint, status string, seconds float64) {
	if m == nil {
		return
	}
	m.OracleDurationSeconds.WithLabelValues(endpoint, status).Observe(seconds)
}

// AddWords adds to the word throughput counter.
func (m *TransformMetrics) AddWords(direction string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.WordsTotal.WithLabelValues(direction).Add(float64(n))
}

// TrackInFlight increments the gauge and returns the matching decrement.
func (m *TransformMetrics) TrackInFlight() func() {
	if m == nil {
		return func() {}
	}
	m.InFlight.Inc()
	return m.InFlight.Dec
}
