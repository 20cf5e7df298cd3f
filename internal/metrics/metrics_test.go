package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveToggle(t *testing.T) {
	m := MustNewMetrics(prometheus.NewRegistry())

	m.ObserveToggle("Stopped")
	m.ObserveToggle("Stopped")
	m.ObserveToggle("JobNotFound")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.toggleRequests.WithLabelValues("Stopped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.toggleRequests.WithLabelValues("JobNotFound")))
}

func TestObserveSnapshot(t *testing.T) {
	m := MustNewMetrics(prometheus.NewRegistry())
	m.ObserveSnapshot(7)
	assert.Equal(t, 7.0, testutil.ToFloat64(m.listedJobs))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveToggle("Started")
		m.ObserveSnapshot(1)
	})
}
