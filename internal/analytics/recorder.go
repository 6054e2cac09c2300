package analytics

import (
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/nambiararyan24/portfolio/domain/core"
	"github.com/nambiararyan24/portfolio/models"
)

// DefaultAbandonWindow is how long a touched form may sit idle before it
// counts as abandoned.
const DefaultAbandonWindow = 30 * time.Second

// Recorder observes one form session. It implements form.Observer and
// never blocks: events go to a Publisher and the abandonment check runs
// on a timer.
type Recorder struct {
	publisher Publisher
	form      string
	sessionID string
	window    time.Duration
	clock     core.Clock
	started   time.Time

	mu        sync.Mutex
	touched   map[string]struct{}
	timer     *time.Timer
	gen       uint64
	submitted bool
	abandoned bool
	stopped   bool
}

// RecorderOption configures a Recorder
type RecorderOption func(*Recorder)

// WithWindow overrides the inactivity window.
func WithWindow(d time.Duration) RecorderOption {
	return func(r *Recorder) {
		if d > 0 {
			r.window = d
		}
	}
}

// WithClock sets the clock used for event timestamps.
func WithClock(c core.Clock) RecorderOption {
	return func(r *Recorder) {
		if c != nil {
			r.clock = c
		}
	}
}

func NewRecorder(p Publisher, form, sessionID string, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		publisher: p,
		form:      form,
		sessionID: sessionID,
		window:    DefaultAbandonWindow,
		clock:     core.SystemClock{},
		touched:   make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.started = r.clock.Now()
	return r
}

func (r *Recorder) OnFieldFocus(field string) {
	r.mu.Lock()
	r.touchLocked(field)
	r.mu.Unlock()
	r.publish(models.FormEvent{Type: models.FormEventFocus, Field: field})
}

func (r *Recorder) OnFieldBlur(field string, value any) {
	r.mu.Lock()
	r.touchLocked(field)
	r.mu.Unlock()
	r.publish(models.FormEvent{Type: models.FormEventBlur, Field: field, ValueLength: valueLength(value)})
}

// OnFieldChange counts as activity. A filled value touches the field and
// arms the timer; a cleared one only postpones an armed timer.
func (r *Recorder) OnFieldChange(field string, filled bool) {
	r.mu.Lock()
	if filled {
		r.touchLocked(field)
	} else {
		r.armLocked()
	}
	r.mu.Unlock()
}

// OnStepChange postpones abandonment; moving between steps is activity.
func (r *Recorder) OnStepChange(int) {
	r.mu.Lock()
	r.armLocked()
	r.mu.Unlock()
}

// OnSubmit records a submit attempt. Success disarms the abandonment
// timer for good; a failure re-arms it because the user may still leave.
func (r *Recorder) OnSubmit(success bool, detail string) {
	r.mu.Lock()
	touched := len(r.touched)
	if success {
		r.submitted = true
		r.stopTimerLocked()
	} else {
		r.armLocked()
	}
	r.mu.Unlock()
	r.publish(models.FormEvent{
		Type:          models.FormEventSubmit,
		Success:       success,
		Detail:        detail,
		FieldsTouched: touched,
	})
}

// OnAbandon reports an explicit abandonment. Like the timer it fires at
// most once and only after a field was touched.
func (r *Recorder) OnAbandon() {
	r.fireAbandon()
}

// Stop disarms the timer without emitting anything.
func (r *Recorder) Stop() {
	r.mu.Lock()
	r.stopped = true
	r.stopTimerLocked()
	r.mu.Unlock()
}

// Touched returns the number of distinct fields interacted with.
func (r *Recorder) Touched() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.touched)
}

func (r *Recorder) touchLocked(field string) {
	r.touched[field] = struct{}{}
	r.armLocked()
}

// armLocked (re)starts the inactivity timer.
func (r *Recorder) armLocked() {
	if r.submitted || r.abandoned || r.stopped || len(r.touched) == 0 {
		return
	}
	r.stopTimerLocked()
	r.gen++
	gen := r.gen
	r.timer = time.AfterFunc(r.window, func() { r.expire(gen) })
}

// expire runs on the timer goroutine. A timer superseded by later activity
// does nothing.
func (r *Recorder) expire(gen uint64) {
	r.mu.Lock()
	if gen != r.gen {
		r.mu.Unlock()
		return
	}
	event, ok := r.abandonLocked()
	r.mu.Unlock()
	if ok {
		r.publish(event)
	}
}

func (r *Recorder) stopTimerLocked() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.gen++
}

func (r *Recorder) fireAbandon() {
	r.mu.Lock()
	event, ok := r.abandonLocked()
	r.mu.Unlock()
	if ok {
		r.publish(event)
	}
}

func (r *Recorder) abandonLocked() (models.FormEvent, bool) {
	if r.submitted || r.abandoned || r.stopped || len(r.touched) == 0 {
		return models.FormEvent{}, false
	}
	r.abandoned = true
	r.stopTimerLocked()
	return models.FormEvent{Type: models.FormEventAbandon, FieldsTouched: len(r.touched)}, true
}

func (r *Recorder) publish(e models.FormEvent) {
	now := r.clock.Now()
	e.Form = r.form
	e.SessionID = r.sessionID
	e.At = now
	e.ElapsedMS = now.Sub(r.started).Milliseconds()
	r.publisher.Publish(e)
}

func valueLength(v any) int {
	switch val := v.(type) {
	case nil:
		return 0
	case string:
		return utf8.RuneCountInString(val)
	case []string:
		return len(val)
	default:
		return utf8.RuneCountInString(fmt.Sprint(val))
	}
}
