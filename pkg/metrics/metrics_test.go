package metrics

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetricsExportsCounterAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)
	m.Observe(http.MethodGet, "/api/dashboard/stats", http.StatusOK, 120*time.Millisecond)
	m.Observe(http.MethodGet, "/api/dashboard/stats", http.StatusOK, 80*time.Millisecond)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	got, err := fetchCounterValue(mfs, "bakery_http_requests_total", "route", "/api/dashboard/stats")
	require.NoError(t, err)
	assert.Equal(t, float64(2), got)

	sum, err := fetchHistogramSum(mfs, "bakery_http_request_duration_seconds", "route", "/api/dashboard/stats")
	require.NoError(t, err)
	assert.Greater(t, sum, 0.0)
}

func TestSequenceMetricsCountsPerEntity(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSequenceMetrics(reg)
	m.IncAllocation("orders")
	m.IncAllocation("orders")
	m.IncFallback("orders")

	mfs, err := reg.Gather()
	require.NoError(t, err)

	got, err := fetchCounterValue(mfs, "bakery_id_allocations_total", "entity", "orders")
	require.NoError(t, err)
	assert.Equal(t, float64(2), got)

	got, err = fetchCounterValue(mfs, "bakery_id_allocation_fallbacks_total", "entity", "orders")
	require.NoError(t, err)
	assert.Equal(t, float64(1), got)
}

func TestNilMetricsAreSafe(t *testing.T) {
	var h *HTTPMetrics
	h.Observe(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	var s *SequenceMetrics
	s.IncAllocation("orders")
	NewSequenceMetrics(nil).IncFallback("orders")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
