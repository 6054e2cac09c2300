package form

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nambiararyan24/portfolio/domain/core"
)

type mockObserver struct {
	mock.Mock
}

func (m *mockObserver) OnFieldFocus(field string)           { m.Called(field) }
func (m *mockObserver) OnFieldBlur(field string, value any) { m.Called(field, value) }
func (m *mockObserver) OnSubmit(success bool, detail string) {
	m.Called(success, detail)
}
func (m *mockObserver) OnAbandon() { m.Called() }
func (m *mockObserver) OnFieldChange(field string, filled bool) {
	m.Called(field, filled)
}
func (m *mockObserver) OnStepChange(step int) { m.Called(step) }

// newMockObserver tolerates edit and navigation calls so tests can focus
// on the events they assert.
func newMockObserver() *mockObserver {
	m := &mockObserver{}
	m.On("OnFieldChange", mock.Anything, mock.Anything).Maybe()
	m.On("OnStepChange", mock.Anything).Maybe()
	return m
}

func newSession(t *testing.T, name string, opts ...SessionOption) *Session {
	t.Helper()
	schema, err := MustDefaultCatalog().Get(name)
	require.NoError(t, err)
	return NewSession(schema, opts...)
}

func staticSubmitter(id core.ID, err error) SubmitterFunc {
	return func(context.Context, string, Values) (core.ID, error) {
		return id, err
	}
}

func validOnboarding() Values {
	return Values{
		"client_name":         "Jordan",
		"email":               "jordan@example.com",
		"company":             "Acme",
		"phone":               "5551234567",
		"project_type":        "Web Application",
		"budget_range":        "$5k-$10k",
		"timeline":            "1-2 months",
		"preferred_contact":   "email",
		"project_description": "A booking platform for clinics",
		"project_goals":       "More bookings",
		"target_audience":     "Patients",
	}
}

func TestContactScenarioErrors(t *testing.T) {
	s := newSession(t, Contact)
	require.NoError(t, s.SetAll(Values{
		"name":         "Jo",
		"email":        "bad",
		"project_type": "",
		"message":      "short",
	}))

	err := s.GoNext()
	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.ErrorIs(t, err, core.ErrStepInvalid)

	errs := s.Errors()
	assert.Equal(t, []string{"email", "message", "project_type"}, errs.Fields())
	assert.NotContains(t, errs, "name")
	assert.Equal(t, "Please enter a valid email address", errs["email"])
	assert.Equal(t, "Please select a project type", errs["project_type"])
	assert.Equal(t, "Message must be at least 10 characters", errs["message"])
}

func TestGoNextGatesAndClamps(t *testing.T) {
	s := newSession(t, Onboarding)

	assert.Error(t, s.GoNext())
	assert.Equal(t, 0, s.CurrentStep())

	require.NoError(t, s.SetAll(validOnboarding()))
	for i := 1; i <= 3; i++ {
		require.NoError(t, s.GoNext())
		assert.Equal(t, i, s.CurrentStep())
		assert.Empty(t, s.Errors())
	}
	assert.True(t, s.IsLastStep())

	require.NoError(t, s.GoNext())
	assert.Equal(t, 3, s.CurrentStep(), "next on the last step stays put")
}

func TestGoNextKeepsOnlyLatestErrors(t *testing.T) {
	s := newSession(t, Onboarding)
	require.Error(t, s.GoNext())
	assert.Len(t, s.Errors(), 4)

	require.NoError(t, s.SetAll(Values{"client_name": "Jordan", "email": "j@x.io", "company": "Acme"}))
	require.Error(t, s.GoNext())
	assert.Equal(t, []string{"phone"}, s.Errors().Fields())
}

func TestGoPreviousNeverValidates(t *testing.T) {
	s := newSession(t, Onboarding)
	require.NoError(t, s.SetAll(validOnboarding()))
	require.NoError(t, s.GoNext())
	require.NoError(t, s.Set("email", "broken"))

	require.NoError(t, s.GoPrevious())
	assert.Equal(t, 0, s.CurrentStep())
	assert.Empty(t, s.Errors())

	require.NoError(t, s.GoPrevious())
	assert.Equal(t, 0, s.CurrentStep(), "previous is floored at zero")
}

func TestNavigationDoesNotMutateValues(t *testing.T) {
	s := newSession(t, Onboarding)
	values := validOnboarding()
	require.NoError(t, s.SetAll(values))
	before := s.Values()

	_ = s.GoNext()
	_ = s.GoNext()
	_ = s.GoPrevious()
	_ = s.GoNext()
	_ = s.GoPrevious()
	_ = s.GoPrevious()
	_ = s.GoPrevious()

	assert.Equal(t, before, s.Values())
}

func TestTouchedOptionalFieldBlocksAdvance(t *testing.T) {
	s := newSession(t, Onboarding)
	require.NoError(t, s.SetAll(validOnboarding()))
	require.NoError(t, s.GoNext())

	require.NoError(t, s.Set("existing_website", "not a url"))
	require.Error(t, s.GoNext())
	assert.Equal(t, "Please enter a valid URL", s.Errors()["existing_website"])

	require.NoError(t, s.Set("existing_website", ""))
	require.NoError(t, s.GoNext())
	assert.Equal(t, 2, s.CurrentStep())
}

func TestSetRejectsUnknownField(t *testing.T) {
	s := newSession(t, Contact)
	err := s.SetAll(Values{"name": "Jordan", "fax": "123"})
	assert.ErrorIs(t, err, core.ErrUnknownField)
	assert.Empty(t, s.Values(), "nothing stored on error")
}

func TestSetNormalizesTransportValues(t *testing.T) {
	s := newSession(t, Feedback)
	require.NoError(t, s.Set("rating", "4"))
	n, ok := s.Values().Number("rating")
	require.True(t, ok)
	assert.Equal(t, 4.0, n)

	o := newSession(t, Onboarding)
	require.NoError(t, o.Set("features_needed", []any{"SEO Setup", "SEO Setup", " CMS (Editable Pages) "}))
	require.NoError(t, o.Set("newsletter_signup", "true"))
	v := o.Values()
	assert.Equal(t, []string{"SEO Setup", "CMS (Editable Pages)"}, v.List("features_needed"))
	assert.True(t, v.Bool("newsletter_signup"))
}

func TestFractionalRatingIsRejected(t *testing.T) {
	s := newSession(t, Feedback)
	require.NoError(t, s.SetAll(Values{"name": "Sam", "company": "Acme"}))
	require.NoError(t, s.GoNext())

	require.NoError(t, s.Set("rating", 2.5))
	require.ErrorIs(t, s.GoNext(), core.ErrStepInvalid)
	assert.Equal(t, "Please select a whole-star rating", s.Errors()["rating"])
	assert.Equal(t, 1, s.CurrentStep())

	require.NoError(t, s.Set("rating", 3))
	require.NoError(t, s.GoNext())
	assert.Equal(t, 2, s.CurrentStep())
}

func TestSubmitOnlyOnLastStep(t *testing.T) {
	s := newSession(t, Feedback)
	_, err := s.Submit(context.Background(), staticSubmitter(core.NewID(), nil))
	assert.ErrorIs(t, err, core.ErrNotLastStep)
	assert.Equal(t, StateEditing, s.State())
}

func TestSubmitSuccessIsTerminal(t *testing.T) {
	obs := newMockObserver()
	id := core.NewID()
	obs.On("OnSubmit", true, id.String()).Once()

	s := newSession(t, Contact, WithObserver(obs))
	require.NoError(t, s.SetAll(Values{
		"name": "Jordan", "email": "j@example.com", "project_type": "Other", "message": "Need a new site soon",
	}))

	got, err := s.Submit(context.Background(), staticSubmitter(id, nil))
	require.NoError(t, err)
	assert.Equal(t, id, got)
	assert.Equal(t, StateSubmitted, s.State())
	assert.Equal(t, id.String(), s.Snapshot().RecordID)

	assert.ErrorIs(t, s.Set("name", "Other"), core.ErrSessionClosed)
	assert.ErrorIs(t, s.GoPrevious(), core.ErrSessionClosed)
	_, err = s.Submit(context.Background(), staticSubmitter(core.NewID(), nil))
	assert.ErrorIs(t, err, core.ErrSessionClosed)

	s.Abandon()
	obs.AssertExpectations(t)
	obs.AssertNotCalled(t, "OnAbandon")
}

func TestSubmitValidatesEverything(t *testing.T) {
	s := newSession(t, Contact)
	calls := 0
	_, err := s.Submit(context.Background(), SubmitterFunc(func(context.Context, string, Values) (core.ID, error) {
		calls++
		return core.NewID(), nil
	}))
	assert.ErrorIs(t, err, core.ErrStepInvalid)
	assert.Zero(t, calls)
	assert.Equal(t, StateEditing, s.State())
}

func TestSubmitFailureKeepsDataForRetry(t *testing.T) {
	obs := newMockObserver()
	obs.On("OnSubmit", false, "store down").Once()
	obs.On("OnSubmit", true, mock.AnythingOfType("string")).Once()

	s := newSession(t, Onboarding, WithObserver(obs))
	require.NoError(t, s.SetAll(validOnboarding()))
	require.NoError(t, s.FastForward())
	before := s.Values()

	_, err := s.Submit(context.Background(), staticSubmitter("", errors.New("store down")))
	require.Error(t, err)
	assert.Equal(t, StateFailed, s.State())
	assert.True(t, s.IsLastStep())
	assert.Equal(t, before, s.Values())
	assert.Equal(t, "store down", s.Snapshot().LastError)

	id, err := s.Submit(context.Background(), staticSubmitter(core.NewID(), nil))
	require.NoError(t, err)
	assert.False(t, id.IsEmpty())
	assert.Equal(t, StateSubmitted, s.State())
	obs.AssertExpectations(t)
}

func TestEditAfterFailureReturnsToEditing(t *testing.T) {
	s := newSession(t, Feedback)
	require.NoError(t, s.SetAll(Values{"name": "Sam", "company": "Acme", "rating": 5, "content": "Great work overall"}))
	require.NoError(t, s.FastForward())
	_, err := s.Submit(context.Background(), staticSubmitter("", errors.New("boom")))
	require.Error(t, err)

	require.NoError(t, s.Set("content", "Great work overall, thanks"))
	assert.Equal(t, StateEditing, s.State())
}

func TestConcurrentSubmitCreatesOneRecord(t *testing.T) {
	s := newSession(t, Feedback)
	require.NoError(t, s.SetAll(Values{"name": "Sam", "company": "Acme", "rating": 4, "content": "Solid delivery, on time"}))
	require.NoError(t, s.FastForward())

	var created atomic.Int32
	entered := make(chan struct{})
	release := make(chan struct{})
	submitter := SubmitterFunc(func(context.Context, string, Values) (core.ID, error) {
		if created.Add(1) == 1 {
			close(entered)
		}
		<-release
		return core.NewID(), nil
	})

	type result struct {
		id  core.ID
		err error
	}
	first := make(chan result, 1)
	go func() {
		id, err := s.Submit(context.Background(), submitter)
		first <- result{id, err}
	}()
	<-entered

	// The first submission is blocked inside the submitter, so every
	// other caller must be turned away by the guard.
	const callers = 7
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.Submit(context.Background(), submitter)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, StateSubmitting, s.State())

	close(release)
	res := <-first

	require.NoError(t, res.err)
	assert.False(t, res.id.IsEmpty())
	for _, err := range errs {
		assert.ErrorIs(t, err, core.ErrSubmissionInFlight)
	}
	assert.Equal(t, int32(1), created.Load())
	assert.Equal(t, StateSubmitted, s.State())
}

func TestEditsAndNavigationReachObserver(t *testing.T) {
	obs := &mockObserver{}
	obs.On("OnFieldChange", "name", true).Once()
	obs.On("OnFieldChange", "company", false).Once()
	obs.On("OnFieldChange", "company", true).Once()
	obs.On("OnStepChange", 0).Twice()
	obs.On("OnStepChange", 1).Once()

	s := newSession(t, Feedback, WithObserver(obs))
	require.NoError(t, s.SetAll(Values{"name": "Sam", "company": ""}))
	require.Error(t, s.GoNext())
	require.NoError(t, s.Set("company", "Acme"))
	require.NoError(t, s.GoNext())
	require.NoError(t, s.GoPrevious())

	obs.AssertExpectations(t)
}

func TestFastForwardReportsEveryStep(t *testing.T) {
	s := newSession(t, Onboarding)
	v := validOnboarding()
	delete(v, "timeline")
	delete(v, "target_audience")
	require.NoError(t, s.SetAll(v))

	err := s.FastForward()
	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, 1, stepErr.Step)
	assert.Equal(t, []string{"target_audience", "timeline"}, stepErr.Errors.Fields())
	assert.Equal(t, 1, s.CurrentStep())
}

func TestFocusBlurAbandonReachObserver(t *testing.T) {
	obs := newMockObserver()
	obs.On("OnFieldFocus", "email").Once()
	obs.On("OnFieldBlur", "email", "j@example.com").Once()
	obs.On("OnAbandon").Once()

	s := newSession(t, Contact, WithObserver(obs))
	require.NoError(t, s.Focus("email"))
	require.NoError(t, s.Set("email", "j@example.com"))
	require.NoError(t, s.Blur("email"))
	assert.ErrorIs(t, s.Focus("fax"), core.ErrUnknownField)
	s.Abandon()

	obs.AssertExpectations(t)
	assert.Equal(t, []string{"email"}, s.TouchedFields())
}

func TestSnapshot(t *testing.T) {
	s := newSession(t, Feedback)
	snap := s.Snapshot()
	assert.Equal(t, Feedback, snap.Form)
	assert.Equal(t, 0, snap.Step)
	assert.Equal(t, 3, snap.StepCount)
	assert.False(t, snap.IsLast)
	assert.Equal(t, []string{"name", "company"}, snap.Fields)
	assert.Equal(t, StateEditing, snap.State)
}
