package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.FormEvent("contact", "field_focus")
	m.FormEvent("contact", "field_focus")
	m.Submission("contact", "success", 20*time.Millisecond)
	m.Submission("contact", "persist_failed", time.Millisecond)
	m.NotifyFailure("admin_email")
	m.AnalyticsDropped()
	m.SessionOpened()
	m.SessionOpened()
	m.SessionClosed()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.formEvents.WithLabelValues("contact", "field_focus")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.submissions.WithLabelValues("contact", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.submissions.WithLabelValues("contact", "persist_failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notifyFailures.WithLabelValues("admin_email")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.analyticsDropped))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.activeSessions))
	assert.Equal(t, 1, testutil.CollectAndCount(m.pipelineDuration))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.FormEvent("contact", "x")
		m.Submission("contact", "success", time.Second)
		m.NotifyFailure("x")
		m.AnalyticsDropped()
		m.SessionOpened()
		m.SessionClosed()
	})
}
