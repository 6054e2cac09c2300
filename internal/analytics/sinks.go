package analytics

import (
	"context"
	"errors"

	applog "github.com/nambiararyan24/portfolio/internal"
	"github.com/nambiararyan24/portfolio/internal/metrics"
	"github.com/nambiararyan24/portfolio/models"
	"github.com/nambiararyan24/portfolio/ports"
)

// LogSink writes events to the structured log.
type LogSink struct {
	logger *applog.Logger
}

func NewLogSink(logger *applog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Record(_ context.Context, e models.FormEvent) error {
	if s.logger.GetLevel() < applog.LogLevelDebug && (e.Type == models.FormEventFocus || e.Type == models.FormEventBlur) {
		return nil
	}
	l := s.logger.With("form", e.Form, "session", e.SessionID, "event", string(e.Type), "elapsed_ms", e.ElapsedMS)
	switch e.Type {
	case models.FormEventFocus:
		l.Debug("[Analytics] field %s focused", e.Field)
	case models.FormEventBlur:
		l.Debug("[Analytics] field %s completed with value length %d", e.Field, e.ValueLength)
	case models.FormEventSubmit:
		l.Info("[Analytics] form submitted success=%t fields=%d %s", e.Success, e.FieldsTouched, e.Detail)
	case models.FormEventAbandon:
		l.Info("[Analytics] form abandoned fields=%d", e.FieldsTouched)
	}
	return nil
}

// MetricsSink counts events in Prometheus.
type MetricsSink struct {
	metrics *metrics.Metrics
}

func NewMetricsSink(m *metrics.Metrics) *MetricsSink {
	return &MetricsSink{metrics: m}
}

func (s *MetricsSink) Record(_ context.Context, e models.FormEvent) error {
	s.metrics.FormEvent(e.Form, string(e.Type))
	return nil
}

// MultiSink fans an event out to every sink. One failing sink does not
// stop the others.
type MultiSink []ports.AnalyticsSink

func (m MultiSink) Record(ctx context.Context, e models.FormEvent) error {
	var errs []error
	for _, sink := range m {
		if err := sink.Record(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
