// Copyright (C) 2026 Relevel Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordAndGather(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := InitMetricsWithRegistry(reg)

	m.RecordRequest("transform", "success")
	m.RecordRequest("transform", "success")
	m.RecordRequest("transform", "error")
	m.RecordDeclined("transform")
	m.RecordProtocolViolation("transform_batch")
	m.AddWords("input", 8)
	m.AddWords("output", 6)
	m.ObserveOracleDuration("transform", "success", 0.42)

	assert.Equal(t, float64(2), testutil.ToFloat64(
		m.RequestsTotal.WithLabelValues("transform", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		m.RequestsTotal.WithLabelValues("transform", "error")))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		m.DeclinedTotal.WithLabelValues("transform")))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		m.ProtocolViolationsTotal.WithLabelValues("transform_batch")))
	assert.Equal(t, float64(8), testutil.ToFloat64(
		m.WordsTotal.WithLabelValues("input")))
	assert.Equal(t, float64(6), testutil.ToFloat64(
		m.WordsTotal.WithLabelValues("output")))
}

func TestMetrics_InFlight(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := InitMetricsWithRegistry(reg)

	done := m.TrackInFlight()
	assert.Equal(t, float64(1), testutil.ToFloat64(m.InFlight))
	done()
	assert.Equal(t, float64(0), testutil.ToFloat64(m.InFlight))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *TransformMetrics

	require.NotPanics(t, func() {
		m.RecordRequest("transform", "success")
		m.RecordDeclined("transform")
		m.RecordProtocolViolation("transform")
		m.ObserveOracleDuration("transform", "success", 1)
		m.AddWords("input", 3)
		m.TrackInFlight()()
	})
}

func TestMetrics_AddWordsIgnoresNonPositive(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := InitMetricsWithRegistry(reg)

	m.AddWords("input", 0)
	m.AddWords("input", -4)
	assert.Equal(t, float64(0), testutil.ToFloat64(m.WordsTotal.WithLabelValues("input")))
}
