package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecorded(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.IncrementVerdict("acute", "Acute 1")
	m.IncrementVerdict("acute", "Acute 1")
	m.IncrementError("invalid_input")
	m.ObserveRequest("/api/classify", "200", 3*time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)

	counts := map[string]float64{}
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			switch {
			case metric.GetCounter() != nil:
				counts[mf.GetName()] += metric.GetCounter().GetValue()
			case metric.GetHistogram() != nil:
				counts[mf.GetName()] += float64(metric.GetHistogram().GetSampleCount())
			}
		}
	}
	assert.Equal(t, 2.0, counts["csa_verdicts_total"])
	assert.Equal(t, 1.0, counts["csa_errors_total"])
	assert.Equal(t, 1.0, counts["csa_http_request_duration_seconds"])
}

func TestNewPerRegistry(t *testing.T) {
	// Separate registries must not collide on collector names.
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}

func TestNilMetricsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementVerdict("simple", "UN 3077")
		m.IncrementError("division_by_zero")
		m.ObserveRequest("/", "200", time.Millisecond)
	})
}
