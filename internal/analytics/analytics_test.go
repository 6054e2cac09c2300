package analytics

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/nambiararyan24/portfolio/domain/form"
	applog "github.com/nambiararyan24/portfolio/internal"
	"github.com/nambiararyan24/portfolio/internal/metrics"
	"github.com/nambiararyan24/portfolio/models"
	"github.com/nambiararyan24/portfolio/ports"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type collector struct {
	mu     sync.Mutex
	events []models.FormEvent
}

func (c *collector) Publish(e models.FormEvent) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
	return true
}

func (c *collector) Record(_ context.Context, e models.FormEvent) error {
	c.Publish(e)
	return nil
}

func (c *collector) count(t models.FormEventType) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, e := range c.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

func (c *collector) all() []models.FormEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.FormEvent(nil), c.events...)
}

type sinkFunc func(context.Context, models.FormEvent) error

func (f sinkFunc) Record(ctx context.Context, e models.FormEvent) error { return f(ctx, e) }

const window = 20 * time.Millisecond

func TestAbandonFiresExactlyOnce(t *testing.T) {
	c := &collector{}
	r := NewRecorder(c, "contact", "s1", WithWindow(window))
	defer r.Stop()

	r.OnFieldFocus("name")
	r.OnFieldBlur("name", "Jordan")

	require.Eventually(t, func() bool { return c.count(models.FormEventAbandon) == 1 }, time.Second, 5*time.Millisecond)

	r.OnAbandon()
	r.OnFieldFocus("email")
	time.Sleep(4 * window)
	assert.Equal(t, 1, c.count(models.FormEventAbandon))

	var abandon models.FormEvent
	for _, e := range c.all() {
		if e.Type == models.FormEventAbandon {
			abandon = e
		}
	}
	assert.Equal(t, 1, abandon.FieldsTouched)
	assert.Equal(t, "contact", abandon.Form)
	assert.Equal(t, "s1", abandon.SessionID)
}

func TestNoAbandonBeforeAnyTouch(t *testing.T) {
	c := &collector{}
	r := NewRecorder(c, "contact", "s1", WithWindow(window))
	defer r.Stop()

	r.OnAbandon()
	time.Sleep(3 * window)
	assert.Zero(t, c.count(models.FormEventAbandon))
}

func TestSuccessfulSubmitDisarmsAbandon(t *testing.T) {
	c := &collector{}
	r := NewRecorder(c, "feedback", "s2", WithWindow(window))
	defer r.Stop()

	r.OnFieldFocus("name")
	r.OnSubmit(true, "id-1")
	time.Sleep(4 * window)
	r.OnAbandon()

	assert.Zero(t, c.count(models.FormEventAbandon))
	assert.Equal(t, 1, c.count(models.FormEventSubmit))
}

func TestFailedSubmitRearmsAbandon(t *testing.T) {
	c := &collector{}
	r := NewRecorder(c, "feedback", "s3", WithWindow(window))
	defer r.Stop()

	r.OnFieldFocus("name")
	r.OnSubmit(false, "store down")

	require.Eventually(t, func() bool { return c.count(models.FormEventAbandon) == 1 }, time.Second, 5*time.Millisecond)
	submit := c.all()[1]
	assert.False(t, submit.Success)
	assert.Equal(t, "store down", submit.Detail)
}

func TestActivityPostponesAbandon(t *testing.T) {
	c := &collector{}
	r := NewRecorder(c, "onboarding", "s4", WithWindow(60*time.Millisecond))
	defer r.Stop()

	for i := 0; i < 5; i++ {
		r.OnFieldFocus("phone")
		time.Sleep(20 * time.Millisecond)
	}
	assert.Zero(t, c.count(models.FormEventAbandon))
}

func TestFieldEditsPostponeAbandon(t *testing.T) {
	c := &collector{}
	r := NewRecorder(c, "contact", "s6", WithWindow(60*time.Millisecond))
	defer r.Stop()

	schema := form.MustDefaultCatalog().MustGet(form.Contact)
	s := form.NewSession(schema, form.WithObserver(r))
	require.NoError(t, s.Focus("message"))
	for i := 0; i < 10; i++ {
		require.NoError(t, s.Set("message", strings.Repeat("a", i+1)))
		time.Sleep(20 * time.Millisecond)
	}
	assert.Zero(t, c.count(models.FormEventAbandon), "typing is activity")

	require.Eventually(t, func() bool { return c.count(models.FormEventAbandon) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, c.count(models.FormEventFocus))
}

func TestFieldChangeAloneArmsAbandon(t *testing.T) {
	c := &collector{}
	r := NewRecorder(c, "contact", "s7", WithWindow(window))
	defer r.Stop()

	schema := form.MustDefaultCatalog().MustGet(form.Contact)
	s := form.NewSession(schema, form.WithObserver(r))
	require.NoError(t, s.Set("name", "Jo"))

	require.Eventually(t, func() bool { return c.count(models.FormEventAbandon) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, r.Touched())
	time.Sleep(4 * window)
	assert.Equal(t, 1, c.count(models.FormEventAbandon))
}

func TestClearedFieldDoesNotArm(t *testing.T) {
	c := &collector{}
	r := NewRecorder(c, "contact", "s8", WithWindow(window))
	defer r.Stop()

	r.OnFieldChange("company", false)
	r.OnStepChange(0)
	time.Sleep(4 * window)
	assert.Zero(t, c.count(models.FormEventAbandon))
	assert.Zero(t, r.Touched())
}

func TestStepChangesPostponeAbandon(t *testing.T) {
	c := &collector{}
	r := NewRecorder(c, "onboarding", "s9", WithWindow(60*time.Millisecond))
	defer r.Stop()

	r.OnFieldChange("client_name", true)
	for i := 0; i < 5; i++ {
		time.Sleep(20 * time.Millisecond)
		r.OnStepChange(i % 2)
	}
	assert.Zero(t, c.count(models.FormEventAbandon))
	require.Eventually(t, func() bool { return c.count(models.FormEventAbandon) == 1 }, time.Second, 5*time.Millisecond)
}

func TestBlurReportsLengthNotValue(t *testing.T) {
	c := &collector{}
	r := NewRecorder(c, "contact", "s5", WithWindow(time.Hour))
	defer r.Stop()

	r.OnFieldBlur("message", "héllo")
	r.OnFieldBlur("features", []string{"a", "b"})

	events := c.all()
	require.Len(t, events, 2)
	assert.Equal(t, 5, events[0].ValueLength)
	assert.Equal(t, 2, events[1].ValueLength)
	assert.Equal(t, 2, r.Touched())
}

func TestDispatcherDeliversAndDrains(t *testing.T) {
	c := &collector{}
	d := NewDispatcher(c, 16)

	for i := 0; i < 10; i++ {
		assert.True(t, d.Publish(models.FormEvent{Type: models.FormEventFocus}))
	}
	require.NoError(t, d.Close(context.Background()))
	assert.Len(t, c.all(), 10)
	assert.False(t, d.Publish(models.FormEvent{Type: models.FormEventFocus}), "closed dispatcher drops")
	require.NoError(t, d.Close(context.Background()), "close is idempotent")
}

func TestDispatcherNeverBlocks(t *testing.T) {
	release := make(chan struct{})
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	d := NewDispatcher(sinkFunc(func(ctx context.Context, _ models.FormEvent) error {
		select {
		case <-release:
		case <-ctx.Done():
		}
		return nil
	}), 1, WithMetrics(m))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			d.Publish(models.FormEvent{Type: models.FormEventBlur})
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a slow sink")
	}
	assert.Greater(t, d.Dropped(), uint64(0))

	close(release)
	require.NoError(t, d.Close(context.Background()))
	assert.Equal(t, float64(d.Dropped()), gatherCounter(t, reg, "portfolio_analytics_events_dropped_total"))
}

func gatherCounter(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == name {
			return f.GetMetric()[0].GetCounter().GetValue()
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}

func TestDispatcherSurvivesSinkErrors(t *testing.T) {
	c := &collector{}
	calls := 0
	var mu sync.Mutex
	failing := sinkFunc(func(context.Context, models.FormEvent) error {
		mu.Lock()
		calls++
		mu.Unlock()
		return errors.New("sink down")
	})
	panicking := sinkFunc(func(context.Context, models.FormEvent) error {
		panic("boom")
	})

	d := NewDispatcher(MultiSink{failing, c}, 8, WithLogger(applog.NewNopLogger()))
	d.Publish(models.FormEvent{Type: models.FormEventSubmit})
	require.NoError(t, d.Close(context.Background()))
	assert.Equal(t, 1, calls)
	assert.Len(t, c.all(), 1)

	p := NewDispatcher(panicking, 8)
	p.Publish(models.FormEvent{Type: models.FormEventSubmit})
	p.Publish(models.FormEvent{Type: models.FormEventSubmit})
	require.NoError(t, p.Close(context.Background()))
}

func TestMetricsSinkCountsEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	var sink ports.AnalyticsSink = NewMetricsSink(m)
	require.NoError(t, sink.Record(context.Background(), models.FormEvent{Form: "contact", Type: models.FormEventAbandon}))
	require.NoError(t, sink.Record(context.Background(), models.FormEvent{Form: "contact", Type: models.FormEventAbandon}))
	assert.Equal(t, 2.0, gatherCounter(t, reg, "portfolio_form_events_total"))

	logSink := NewLogSink(applog.NewNopLogger())
	for _, typ := range []models.FormEventType{models.FormEventFocus, models.FormEventBlur, models.FormEventSubmit, models.FormEventAbandon} {
		assert.NoError(t, logSink.Record(context.Background(), models.FormEvent{Type: typ}))
	}
}
