// Package forms hosts in-memory wizard sessions for the HTTP layer. Each
// session gets its own analytics recorder; idle sessions are evicted by a
// background sweeper.
package forms

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nambiararyan24/portfolio/domain/core"
	"github.com/nambiararyan24/portfolio/domain/form"
	applog "github.com/nambiararyan24/portfolio/internal"
	"github.com/nambiararyan24/portfolio/internal/analytics"
	"github.com/nambiararyan24/portfolio/internal/errors"
	"github.com/nambiararyan24/portfolio/internal/metrics"
)

const (
	DefaultIdleTTL     = 30 * time.Minute
	DefaultMaxSessions = 10000
)

type entry struct {
	session  *form.Session
	recorder *analytics.Recorder
	lastSeen time.Time
}

// Manager owns every live wizard session
type Manager struct {
	catalog   *form.Catalog
	submitter form.Submitter
	publisher analytics.Publisher
	logger    *applog.Logger
	metrics   *metrics.Metrics
	clock     core.Clock
	idleTTL   time.Duration
	window    time.Duration
	maxLive   int

	mu      sync.Mutex
	entries map[core.SessionID]*entry

	started  atomic.Bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

type Option func(*Manager)

func WithIdleTTL(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.idleTTL = d
		}
	}
}

// WithMaxSessions bounds the number of live sessions. Open fails with
// RATE_LIMITED once the bound is reached.
func WithMaxSessions(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.maxLive = n
		}
	}
}

// WithAbandonWindow sets the inactivity window handed to each recorder
func WithAbandonWindow(d time.Duration) Option {
	return func(m *Manager) { m.window = d }
}

func WithLogger(l *applog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Manager) { m.metrics = mt }
}

func WithClock(c core.Clock) Option {
	return func(m *Manager) {
		if c != nil {
			m.clock = c
		}
	}
}

// NewManager creates a manager. A nil publisher disables analytics. Call
// Start to run the idle sweeper and Close to stop it.
func NewManager(catalog *form.Catalog, submitter form.Submitter, publisher analytics.Publisher, opts ...Option) *Manager {
	m := &Manager{
		catalog:   catalog,
		submitter: submitter,
		publisher: publisher,
		logger:    applog.NewNopLogger(),
		clock:     core.SystemClock{},
		idleTTL:   DefaultIdleTTL,
		window:    analytics.DefaultAbandonWindow,
		maxLive:   DefaultMaxSessions,
		entries:   make(map[core.SessionID]*entry),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start launches the sweeper. It checks every tenth of the idle TTL.
func (m *Manager) Start() {
	if !m.started.CompareAndSwap(false, true) {
		return
	}
	interval := m.idleTTL / 10
	if interval < time.Second {
		interval = time.Second
	}
	go func() {
		defer close(m.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-m.stop:
				return
			case <-ticker.C:
				if n := m.Sweep(); n > 0 {
					m.logger.Debug("[Forms] evicted %d idle sessions", n)
				}
			}
		}
	}()
}

// Open starts a session for the named form
func (m *Manager) Open(formName string) (core.SessionID, *form.Session, error) {
	schema, err := m.catalog.Get(formName)
	if err != nil {
		return "", nil, err
	}
	id := core.NewSessionID()

	var opts []form.SessionOption
	var rec *analytics.Recorder
	if m.publisher != nil {
		rec = analytics.NewRecorder(m.publisher, schema.Name, id.String(),
			analytics.WithWindow(m.window), analytics.WithClock(m.clock))
		opts = append(opts, form.WithObserver(rec))
	}
	session := form.NewSession(schema, opts...)

	m.mu.Lock()
	if len(m.entries) >= m.maxLive {
		m.mu.Unlock()
		if rec != nil {
			rec.Stop()
		}
		m.logger.Warn("[Forms] %d sessions open, rejecting new %s session", m.maxLive, schema.Name)
		return "", nil, errors.WithCode(errors.CodeRateLimited, core.ErrSessionLimit)
	}
	m.entries[id] = &entry{session: session, recorder: rec, lastSeen: m.clock.Now()}
	m.mu.Unlock()
	m.metrics.SessionOpened()
	m.logger.Trace("[Forms] opened %s session %s", schema.Name, id)
	return id, session, nil
}

// Get returns a live session of the named form and marks it as active
func (m *Manager) Get(formName string, id core.SessionID) (*form.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok || e.session.Schema().Name != formName {
		return nil, fmt.Errorf("%w: %s", core.ErrSessionNotFound, id)
	}
	e.lastSeen = m.clock.Now()
	return e.session, nil
}

// Submit runs the session's final submit. A successful session is
// released immediately since it accepts no further input.
func (m *Manager) Submit(ctx context.Context, formName string, id core.SessionID) (core.ID, *form.Session, error) {
	session, err := m.Get(formName, id)
	if err != nil {
		return "", nil, err
	}
	recordID, err := session.Submit(ctx, m.submitter)
	if err != nil {
		return "", session, err
	}
	m.Close(id)
	return recordID, session, nil
}

// SubmitOnce validates and submits a complete payload through a fresh
// session with no analytics attached. It backs the single-request
// submission endpoints.
func (m *Manager) SubmitOnce(ctx context.Context, formName string, values form.Values) (core.ID, error) {
	schema, err := m.catalog.Get(formName)
	if err != nil {
		return "", err
	}
	session := form.NewSession(schema)
	if err := session.SetAll(values); err != nil {
		return "", err
	}
	if err := session.FastForward(); err != nil {
		return "", err
	}
	return session.Submit(ctx, m.submitter)
}

// Close releases a session. Unknown ids are ignored.
func (m *Manager) Close(id core.SessionID) {
	m.mu.Lock()
	e, ok := m.entries[id]
	delete(m.entries, id)
	m.mu.Unlock()
	if ok {
		m.release(e)
	}
}

// Sweep evicts sessions idle for longer than the TTL and returns how many
// went.
func (m *Manager) Sweep() int {
	cutoff := m.clock.Now().Add(-m.idleTTL)
	var evicted []*entry
	m.mu.Lock()
	for id, e := range m.entries {
		if e.lastSeen.Before(cutoff) {
			evicted = append(evicted, e)
			delete(m.entries, id)
		}
	}
	m.mu.Unlock()
	for _, e := range evicted {
		m.release(e)
	}
	return len(evicted)
}

// Len counts live sessions
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Shutdown stops the sweeper and releases every session.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.stopOnce.Do(func() { close(m.stop) })
	if m.started.Load() {
		select {
		case <-m.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	m.mu.Lock()
	entries := m.entries
	m.entries = make(map[core.SessionID]*entry)
	m.mu.Unlock()
	for _, e := range entries {
		m.release(e)
	}
	m.logger.Debug("[Forms] released %d sessions on shutdown", len(entries))
	return nil
}

func (m *Manager) release(e *entry) {
	if e.recorder != nil {
		e.recorder.Stop()
	}
	m.metrics.SessionClosed()
}
