package form

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/nambiararyan24/portfolio/domain/core"
)

// State is the submission lifecycle of a session
type State int

const (
	StateEditing State = iota
	StateSubmitting
	StateSubmitted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateSubmitting:
		return "submitting"
	case StateSubmitted:
		return "submitted"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Submitter persists a validated form and returns the new record id.
type Submitter interface {
	Submit(ctx context.Context, form string, values Values) (core.ID, error)
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, form string, values Values) (core.ID, error)

func (f SubmitterFunc) Submit(ctx context.Context, form string, values Values) (core.ID, error) {
	return f(ctx, form, values)
}

// Observer receives interaction events. Implementations must not block;
// a session never inspects what they do.
type Observer interface {
	OnFieldFocus(field string)
	OnFieldBlur(field string, value any)
	// OnFieldChange reports a stored value; filled is false when the
	// value was cleared.
	OnFieldChange(field string, filled bool)
	// OnStepChange reports a navigation call and the resulting step.
	OnStepChange(step int)
	OnSubmit(success bool, detail string)
	OnAbandon()
}

type nopObserver struct{}

func (nopObserver) OnFieldFocus(string)        {}
func (nopObserver) OnFieldBlur(string, any)    {}
func (nopObserver) OnFieldChange(string, bool) {}
func (nopObserver) OnStepChange(int)           {}
func (nopObserver) OnSubmit(bool, string)      {}
func (nopObserver) OnAbandon()                 {}

// StepError is returned when a transition is blocked by invalid fields.
type StepError struct {
	Step   int
	Errors Errors
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d: %d invalid field(s): %v", e.Step, len(e.Errors), e.Errors.Fields())
}

func (e *StepError) Unwrap() error {
	return core.ErrStepInvalid
}

// SessionOption configures a Session
type SessionOption func(*Session)

// WithObserver attaches an analytics observer.
func WithObserver(o Observer) SessionOption {
	return func(s *Session) {
		if o != nil {
			s.observer = o
		}
	}
}

// Session is the state of one user working through one form. It is safe
// for concurrent use; the observer and submitter are always called without
// the session lock held.
type Session struct {
	schema   *Schema
	observer Observer

	mu       sync.Mutex
	current  int
	values   Values
	errors   Errors
	state    State
	recordID core.ID
	lastErr  string
}

// NewSession starts a session on the first step with no values.
func NewSession(schema *Schema, opts ...SessionOption) *Session {
	s := &Session{
		schema:   schema,
		observer: nopObserver{},
		values:   Values{},
		errors:   Errors{},
		state:    StateEditing,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schema returns the form definition the session runs.
func (s *Session) Schema() *Schema {
	return s.schema
}

// Set stores one field value. Editing a failed session returns it to
// editing so it can be resubmitted.
func (s *Session) Set(name string, value any) error {
	return s.SetAll(Values{name: value})
}

// SetAll stores several values atomically. Nothing is stored if any name
// is unknown.
func (s *Session) SetAll(values Values) error {
	normalized := make(Values, len(values))
	for name, raw := range values {
		f, ok := s.schema.Field(name)
		if !ok {
			return fmt.Errorf("%w: %s", core.ErrUnknownField, name)
		}
		normalized[name] = normalize(f.Type, raw)
	}

	s.mu.Lock()
	if err := s.editableLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	for name, v := range normalized {
		s.values[name] = v
	}
	if s.state == StateFailed {
		s.state = StateEditing
	}
	s.mu.Unlock()

	names := make([]string, 0, len(normalized))
	for name := range normalized {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s.observer.OnFieldChange(name, !isEmpty(normalized[name]))
	}
	return nil
}

func (s *Session) editableLocked() error {
	switch s.state {
	case StateSubmitting:
		return core.ErrSubmissionInFlight
	case StateSubmitted:
		return core.ErrSessionClosed
	}
	return nil
}

// GoNext validates the current step and advances when it passes. On the
// last step a passing validation leaves the index where it is.
func (s *Session) GoNext() error {
	s.mu.Lock()
	if err := s.editableLocked(); err != nil {
		s.mu.Unlock()
		return err
	}

	errs := s.schema.ValidateStep(s.current, s.values)
	s.errors = errs
	if len(errs) > 0 {
		step := s.current
		s.mu.Unlock()
		s.observer.OnStepChange(step)
		return &StepError{Step: step, Errors: errs}
	}
	if s.current < len(s.schema.Steps)-1 {
		s.current++
	}
	step := s.current
	s.mu.Unlock()
	s.observer.OnStepChange(step)
	return nil
}

// GoPrevious moves back one step without validating.
func (s *Session) GoPrevious() error {
	s.mu.Lock()
	if err := s.editableLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.current > 0 {
		s.current--
	}
	step := s.current
	s.mu.Unlock()
	s.observer.OnStepChange(step)
	return nil
}

// FastForward walks every step in order, stopping at the first one that
// fails. The returned errors cover every step so one-shot callers can
// report all of them at once.
func (s *Session) FastForward() error {
	s.mu.Lock()
	if err := s.editableLocked(); err != nil {
		s.mu.Unlock()
		return err
	}

	var err error
	all := s.schema.ValidateAll(s.values)
	s.errors = all
	if len(all) == 0 {
		s.current = len(s.schema.Steps) - 1
	} else {
		for i := range s.schema.Steps {
			if len(s.schema.ValidateStep(i, s.values)) > 0 {
				s.current = i
				err = &StepError{Step: i, Errors: all}
				break
			}
		}
	}
	step := s.current
	s.mu.Unlock()
	s.observer.OnStepChange(step)
	return err
}

// IsLastStep reports whether the session is on the final step.
func (s *Session) IsLastStep() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isLastLocked()
}

func (s *Session) isLastLocked() bool {
	return s.current == len(s.schema.Steps)-1
}

// Submit hands the values to submitter. It is only allowed on the last
// step and at most one submission runs at a time. Every step is validated
// again first. A failed submission keeps all data and may be retried.
func (s *Session) Submit(ctx context.Context, submitter Submitter) (core.ID, error) {
	s.mu.Lock()
	if err := s.editableLocked(); err != nil {
		s.mu.Unlock()
		return "", err
	}
	if !s.isLastLocked() {
		s.mu.Unlock()
		return "", core.ErrNotLastStep
	}
	if errs := s.schema.ValidateAll(s.values); len(errs) > 0 {
		s.errors = errs
		s.mu.Unlock()
		return "", &StepError{Step: s.current, Errors: errs}
	}
	s.errors = Errors{}
	s.state = StateSubmitting
	values := s.values.Clone()
	s.mu.Unlock()

	id, err := submitter.Submit(ctx, s.schema.Name, values)

	s.mu.Lock()
	if err != nil {
		s.state = StateFailed
		s.lastErr = err.Error()
	} else {
		s.state = StateSubmitted
		s.recordID = id
		s.lastErr = ""
	}
	s.mu.Unlock()

	if err != nil {
		s.observer.OnSubmit(false, err.Error())
		return "", err
	}
	s.observer.OnSubmit(true, id.String())
	return id, nil
}

// Focus reports that the user entered a field.
func (s *Session) Focus(field string) error {
	if _, ok := s.schema.Field(field); !ok {
		return fmt.Errorf("%w: %s", core.ErrUnknownField, field)
	}
	s.observer.OnFieldFocus(field)
	return nil
}

// Blur reports that the user left a field, with its current value.
func (s *Session) Blur(field string) error {
	if _, ok := s.schema.Field(field); !ok {
		return fmt.Errorf("%w: %s", core.ErrUnknownField, field)
	}
	s.mu.Lock()
	value := s.values[field]
	s.mu.Unlock()
	s.observer.OnFieldBlur(field, value)
	return nil
}

// Abandon reports that the user left the form. Submitted sessions ignore it.
func (s *Session) Abandon() {
	s.mu.Lock()
	done := s.state == StateSubmitted
	s.mu.Unlock()
	if !done {
		s.observer.OnAbandon()
	}
}

// State returns the submission state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CurrentStep returns the zero-based step index.
func (s *Session) CurrentStep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Values returns a copy of the field values.
func (s *Session) Values() Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values.Clone()
}

// Errors returns a copy of the errors of the last attempted transition.
func (s *Session) Errors() Errors {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(Errors, len(s.errors))
	for k, v := range s.errors {
		out[k] = v
	}
	return out
}

// Snapshot is the serialisable view of a session.
type Snapshot struct {
	Form      string   `json:"form"`
	Step      int      `json:"step"`
	StepTitle string   `json:"step_title"`
	StepCount int      `json:"step_count"`
	IsLast    bool     `json:"is_last_step"`
	Fields    []string `json:"fields"`
	Values    Values   `json:"values"`
	Errors    Errors   `json:"errors"`
	State     State    `json:"state"`
	RecordID  string   `json:"record_id,omitempty"`
	LastError string   `json:"last_error,omitempty"`
}

// Snapshot captures the session under a single lock.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	errs := make(Errors, len(s.errors))
	for k, v := range s.errors {
		errs[k] = v
	}
	snap := Snapshot{
		Form:      s.schema.Name,
		Step:      s.current,
		StepTitle: s.schema.Steps[s.current].Title,
		StepCount: len(s.schema.Steps),
		IsLast:    s.isLastLocked(),
		Fields:    s.schema.Steps[s.current].Names(),
		Values:    s.values.Clone(),
		Errors:    errs,
		State:     s.state,
		LastError: s.lastErr,
	}
	if !s.recordID.IsEmpty() {
		snap.RecordID = s.recordID.String()
	}
	return snap
}

// TouchedFields lists fields that currently hold a non-empty value.
func (s *Session) TouchedFields() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var names []string
	for name, v := range s.values {
		if !isEmpty(v) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
