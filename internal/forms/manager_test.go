package forms

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/nambiararyan24/portfolio/domain/core"
	"github.com/nambiararyan24/portfolio/domain/form"
	"github.com/nambiararyan24/portfolio/internal/errors"
	"github.com/nambiararyan24/portfolio/internal/metrics"
	"github.com/nambiararyan24/portfolio/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type captured struct {
	mu     sync.Mutex
	events []models.FormEvent
}

func (c *captured) Publish(e models.FormEvent) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
	return true
}

func (c *captured) types() []models.FormEventType {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.FormEventType, len(c.events))
	for i, e := range c.events {
		out[i] = e.Type
	}
	return out
}

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type countingSubmitter struct {
	mu    sync.Mutex
	calls []form.Values
}

func (s *countingSubmitter) Submit(_ context.Context, _ string, values form.Values) (core.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, values)
	return core.NewID(), nil
}

func newManager(t *testing.T, opts ...Option) (*Manager, *countingSubmitter, *captured) {
	t.Helper()
	sub := &countingSubmitter{}
	pub := &captured{}
	opts = append([]Option{WithAbandonWindow(time.Hour)}, opts...)
	m := NewManager(form.MustDefaultCatalog(), sub, pub, opts...)
	t.Cleanup(func() { require.NoError(t, m.Shutdown(context.Background())) })
	return m, sub, pub
}

func validContact() form.Values {
	return form.Values{
		"name":         "Jordan",
		"email":        "jordan@example.com",
		"project_type": "Web Application",
		"message":      "We need a customer portal rebuilt.",
	}
}

func TestOpenUnknownForm(t *testing.T) {
	m, _, _ := newManager(t)
	_, _, err := m.Open("survey")
	assert.ErrorIs(t, err, core.ErrFormNotFound)
}

func TestOpenRespectsMaxSessions(t *testing.T) {
	m, _, _ := newManager(t, WithMaxSessions(2))
	first, _, err := m.Open(form.Contact)
	require.NoError(t, err)
	_, _, err = m.Open(form.Feedback)
	require.NoError(t, err)

	_, _, err = m.Open(form.Contact)
	assert.ErrorIs(t, err, core.ErrSessionLimit)
	assert.Equal(t, errors.CodeRateLimited, errors.GetCode(err))
	assert.Equal(t, 2, m.Len())

	m.Close(first)
	_, _, err = m.Open(form.Contact)
	assert.NoError(t, err, "closing a session frees a slot")
}

func TestGetChecksFormName(t *testing.T) {
	m, _, _ := newManager(t)
	id, _, err := m.Open(form.Contact)
	require.NoError(t, err)

	_, err = m.Get(form.Feedback, id)
	assert.ErrorIs(t, err, core.ErrSessionNotFound)

	s, err := m.Get(form.Contact, id)
	require.NoError(t, err)
	assert.Equal(t, form.Contact, s.Schema().Name)
}

func TestSubmitReleasesSession(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, sub, pub := newManager(t, WithMetrics(metrics.New(reg)))

	id, s, err := m.Open(form.Contact)
	require.NoError(t, err)
	require.NoError(t, s.SetAll(validContact()))
	require.NoError(t, s.Focus("name"))

	recordID, _, err := m.Submit(context.Background(), form.Contact, id)
	require.NoError(t, err)
	assert.False(t, recordID.IsEmpty())
	assert.Len(t, sub.calls, 1)
	assert.Equal(t, 0, m.Len())

	_, err = m.Get(form.Contact, id)
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
	assert.Equal(t, []models.FormEventType{models.FormEventFocus, models.FormEventSubmit}, pub.types())

	assert.Equal(t, 0.0, activeSessions(t, reg))
}

func TestSubmitValidationFailureKeepsSession(t *testing.T) {
	m, sub, _ := newManager(t)
	id, s, err := m.Open(form.Contact)
	require.NoError(t, err)
	require.NoError(t, s.Set("name", "Jo"))

	_, _, err = m.Submit(context.Background(), form.Contact, id)
	var stepErr *form.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Contains(t, stepErr.Errors, "email")
	assert.Empty(t, sub.calls)
	assert.Equal(t, 1, m.Len())
}

func TestSubmitOnce(t *testing.T) {
	m, sub, pub := newManager(t)

	id, err := m.SubmitOnce(context.Background(), form.Contact, validContact())
	require.NoError(t, err)
	assert.False(t, id.IsEmpty())
	assert.Len(t, sub.calls, 1)
	assert.Empty(t, pub.types())
	assert.Equal(t, 0, m.Len())
}

func TestSubmitOnceReportsAllErrors(t *testing.T) {
	m, sub, _ := newManager(t)
	_, err := m.SubmitOnce(context.Background(), form.Onboarding, form.Values{"client_name": "Jordan"})

	var stepErr *form.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, 0, stepErr.Step)
	assert.Contains(t, stepErr.Errors, "email")
	assert.Contains(t, stepErr.Errors, "project_description")
	assert.Empty(t, sub.calls)
}

func TestSubmitOnceRejectsUnknownFields(t *testing.T) {
	m, _, _ := newManager(t)
	values := validContact()
	values["admin"] = true
	_, err := m.SubmitOnce(context.Background(), form.Contact, values)
	assert.ErrorIs(t, err, core.ErrUnknownField)
}

func TestSweepEvictsIdleSessions(t *testing.T) {
	clock := &manualClock{now: time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)}
	reg := prometheus.NewRegistry()
	m, _, _ := newManager(t, WithClock(clock), WithIdleTTL(30*time.Minute), WithMetrics(metrics.New(reg)))

	stale, _, err := m.Open(form.Contact)
	require.NoError(t, err)
	clock.Advance(20 * time.Minute)
	fresh, _, err := m.Open(form.Feedback)
	require.NoError(t, err)
	assert.Equal(t, 2.0, activeSessions(t, reg))

	clock.Advance(15 * time.Minute)
	assert.Equal(t, 1, m.Sweep())

	_, err = m.Get(form.Contact, stale)
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
	_, err = m.Get(form.Feedback, fresh)
	assert.NoError(t, err)
	assert.Equal(t, 1.0, activeSessions(t, reg))
}

func TestGetKeepsSessionAlive(t *testing.T) {
	clock := &manualClock{now: time.Now()}
	m, _, _ := newManager(t, WithClock(clock), WithIdleTTL(time.Minute))

	id, _, err := m.Open(form.Contact)
	require.NoError(t, err)
	clock.Advance(50 * time.Second)
	_, err = m.Get(form.Contact, id)
	require.NoError(t, err)
	clock.Advance(50 * time.Second)
	assert.Equal(t, 0, m.Sweep())
}

func TestStartAndShutdown(t *testing.T) {
	m := NewManager(form.MustDefaultCatalog(), &countingSubmitter{}, nil, WithIdleTTL(time.Minute))
	m.Start()
	m.Start()
	_, _, err := m.Open(form.Contact)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, m.Shutdown(ctx))
	require.NoError(t, m.Shutdown(ctx))
	assert.Equal(t, 0, m.Len())
}

func activeSessions(t *testing.T, reg *prometheus.Registry) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == "portfolio_form_sessions_active" {
			return f.GetMetric()[0].GetGauge().GetValue()
		}
	}
	t.Fatal("portfolio_form_sessions_active not registered")
	return 0
}
