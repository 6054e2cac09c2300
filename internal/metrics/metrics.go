// Package metrics holds the Prometheus collectors for form traffic.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "portfolio"

// Metrics groups every collector the service exports. Each instance owns
// its collectors so tests can use a private registry.
type Metrics struct {
	// formEvents counts analytics events by form and type.
	formEvents *prometheus.CounterVec

	// submissions counts pipeline runs by form and status (success, persist_failed).
	submissions *prometheus.CounterVec

	// notifyFailures counts swallowed notification errors by channel.
	notifyFailures *prometheus.CounterVec

	// pipelineDuration observes how long a submission takes end to end.
	pipelineDuration *prometheus.HistogramVec

	// analyticsDropped counts events discarded because the buffer was full.
	analyticsDropped prometheus.Counter

	// activeSessions is the number of live wizard sessions.
	activeSessions prometheus.Gauge
}

// New creates the collectors and registers them on reg. A nil reg skips
// registration.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		formEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "form_events_total",
				Help:      "Form interaction events by form and type",
			},
			[]string{"form", "type"},
		),
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "form_submissions_total",
				Help:      "Form submissions by form and status",
			},
			[]string{"form", "status"},
		),
		notifyFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notification_failures_total",
				Help:      "Notification side effects that failed and were skipped",
			},
			[]string{"channel"},
		),
		pipelineDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "submission_duration_seconds",
				Help:      "Duration of the submission pipeline in seconds",
				Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"form"},
		),
		analyticsDropped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "analytics_events_dropped_total",
				Help:      "Analytics events dropped because the dispatch buffer was full",
			},
		),
		activeSessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "form_sessions_active",
				Help:      "Number of live form sessions",
			},
		),
	}
	if reg != nil {
		reg.MustRegister(
			m.formEvents,
			m.submissions,
			m.notifyFailures,
			m.pipelineDuration,
			m.analyticsDropped,
			m.activeSessions,
		)
	}
	return m
}

// FormEvent counts one analytics event.
func (m *Metrics) FormEvent(form, eventType string) {
	if m == nil {
		return
	}
	m.formEvents.WithLabelValues(form, eventType).Inc()
}

// Submission records the outcome and duration of a pipeline run.
func (m *Metrics) Submission(form, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(form, status).Inc()
	m.pipelineDuration.WithLabelValues(form).Observe(d.Seconds())
}

// NotifyFailure counts a swallowed notification error.
func (m *Metrics) NotifyFailure(channel string) {
	if m == nil {
		return
	}
	m.notifyFailures.WithLabelValues(channel).Inc()
}

// AnalyticsDropped counts one dropped analytics event.
func (m *Metrics) AnalyticsDropped() {
	if m == nil {
		return
	}
	m.analyticsDropped.Inc()
}

// SessionOpened and SessionClosed track live wizard sessions.
func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.activeSessions.Inc()
}

func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.activeSessions.Dec()
}
