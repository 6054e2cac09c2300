// Package submission turns validated form values into stored records and
// runs the optional side effects that follow.
package submission

import (
	"context"

	"github.com/nambiararyan24/portfolio/domain/core"
	"github.com/nambiararyan24/portfolio/domain/form"
	applog "github.com/nambiararyan24/portfolio/internal"
	"github.com/nambiararyan24/portfolio/internal/errors"
	"github.com/nambiararyan24/portfolio/internal/metrics"
	"github.com/nambiararyan24/portfolio/ports"
)

// Client describes who sent a submission. It travels in the context so the
// pipeline can satisfy form.Submitter.
type Client struct {
	RecaptchaToken string
	RemoteIP       string
}

type clientKey struct{}

// WithClient attaches client details to ctx.
func WithClient(ctx context.Context, c Client) context.Context {
	return context.WithValue(ctx, clientKey{}, c)
}

// ClientFrom returns the client details in ctx, if any.
func ClientFrom(ctx context.Context) Client {
	c, _ := ctx.Value(clientKey{}).(Client)
	return c
}

// Pipeline persists a submission and then sends notifications. Only the
// persist stage can fail a submission.
type Pipeline struct {
	store    ports.RecordStore
	notifier ports.Notifier
	verifier ports.Verifier
	notify   NotifyConfig
	logger   *applog.Logger
	metrics  *metrics.Metrics
	clock    core.Clock
}

// Option configures a Pipeline
type Option func(*Pipeline)

func WithNotifier(n ports.Notifier, cfg NotifyConfig) Option {
	return func(p *Pipeline) {
		p.notifier = n
		p.notify = cfg
	}
}

func WithVerifier(v ports.Verifier) Option {
	return func(p *Pipeline) { p.verifier = v }
}

func WithLogger(l *applog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

func WithClock(c core.Clock) Option {
	return func(p *Pipeline) {
		if c != nil {
			p.clock = c
		}
	}
}

func NewPipeline(store ports.RecordStore, opts ...Option) *Pipeline {
	p := &Pipeline{
		store:  store,
		logger: applog.NewNopLogger(),
		clock:  core.SystemClock{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Submit implements form.Submitter.
func (p *Pipeline) Submit(ctx context.Context, formName string, values form.Values) (core.ID, error) {
	record, err := BuildRecord(formName, values, p.clock.Now().UTC())
	if err != nil {
		return "", errors.WithCode(errors.CodeInvalidInput, err)
	}
	return p.Run(ctx, record, values)
}

// Run executes the stages for one record. A persist failure is returned as
// PERSIST_FAILED and nothing else runs. Notification failures are logged
// and never returned.
func (p *Pipeline) Run(ctx context.Context, record Record, values form.Values) (core.ID, error) {
	start := p.clock.Now()
	p.verify(ctx, record.Form)

	id, err := p.store.Create(ctx, record.Table, record.Fields)
	if err != nil {
		p.metrics.Submission(record.Form, "persist_failed", p.clock.Now().Sub(start))
		p.logger.Error("[Submission] %s: persist to %s failed: %v", record.Form, record.Table, err)
		return "", errors.PersistFailed(err)
	}
	p.logger.Info("[Submission] %s stored as %s/%s", record.Form, record.Table, id)

	if record.Form == form.Contact {
		p.sendContactNotifications(ctx, values)
	}

	p.metrics.Submission(record.Form, "success", p.clock.Now().Sub(start))
	return id, nil
}

// verify runs the advisory bot check. Its outcome is only logged.
func (p *Pipeline) verify(ctx context.Context, formName string) {
	if p.verifier == nil {
		return
	}
	client := ClientFrom(ctx)
	result, err := p.verifier.Verify(ctx, client.RecaptchaToken, client.RemoteIP)
	switch {
	case err != nil:
		p.logger.Warn("[Submission] %s: verification unavailable, continuing: %v", formName, err)
	case result.Checked && !result.Human:
		p.logger.Warn("[Submission] %s: verification flagged client (score %.2f, %s)", formName, result.Score, result.Reason)
	}
}

func (p *Pipeline) sendContactNotifications(ctx context.Context, values form.Values) {
	if p.notifier == nil {
		return
	}
	notes, err := ContactNotifications(p.notify, values)
	if err != nil {
		p.logger.Warn("[Submission] %v", errors.NotifyFailed("render", err))
		return
	}
	for _, n := range notes {
		if err := p.notifier.Send(ctx, n.Email); err != nil {
			p.metrics.NotifyFailure(n.Channel)
			p.logger.Warn("[Submission] %v", errors.NotifyFailed(n.Channel, err))
		}
	}
}
