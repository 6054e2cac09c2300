// Package analytics records form interaction events without ever blocking
// or failing the form that produced them.
package analytics

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	applog "github.com/nambiararyan24/portfolio/internal"
	"github.com/nambiararyan24/portfolio/internal/metrics"
	"github.com/nambiararyan24/portfolio/models"
	"github.com/nambiararyan24/portfolio/ports"
)

// Publisher accepts events without blocking.
type Publisher interface {
	Publish(event models.FormEvent) bool
}

const sinkTimeout = 5 * time.Second

// Dispatcher buffers events and feeds them to a sink on one worker
// goroutine. When the buffer is full events are dropped.
type Dispatcher struct {
	sink    ports.AnalyticsSink
	logger  *applog.Logger
	metrics *metrics.Metrics

	mu      sync.RWMutex
	closed  bool
	events  chan models.FormEvent
	done    chan struct{}
	dropped atomic.Uint64
}

// DispatcherOption configures a Dispatcher
type DispatcherOption func(*Dispatcher)

func WithLogger(logger *applog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) DispatcherOption {
	return func(d *Dispatcher) { d.metrics = m }
}

// NewDispatcher starts the worker. Close must be called to stop it.
func NewDispatcher(sink ports.AnalyticsSink, buffer int, opts ...DispatcherOption) *Dispatcher {
	if buffer < 1 {
		buffer = 1
	}
	d := &Dispatcher{
		sink:   sink,
		logger: applog.NewNopLogger(),
		events: make(chan models.FormEvent, buffer),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	go d.run()
	return d
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for event := range d.events {
		d.deliver(event)
	}
}

func (d *Dispatcher) deliver(event models.FormEvent) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("[Analytics] sink panicked on %s event: %v", event.Type, r)
		}
	}()
	ctx, cancel := context.WithTimeout(context.Background(), sinkTimeout)
	defer cancel()
	if err := d.sink.Record(ctx, event); err != nil {
		d.logger.Warn("[Analytics] sink failed for %s event on %s: %v", event.Type, event.Form, err)
	}
}

// Publish queues an event. It reports false when the event was dropped.
func (d *Dispatcher) Publish(event models.FormEvent) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return false
	}
	select {
	case d.events <- event:
		return true
	default:
		d.dropped.Add(1)
		d.metrics.AnalyticsDropped()
		d.logger.Debug("[Analytics] buffer full, dropping %s event", event.Type)
		return false
	}
}

// Dropped returns how many events were discarded.
func (d *Dispatcher) Dropped() uint64 {
	return d.dropped.Load()
}

// Close stops accepting events and waits for the queue to drain or ctx to
// end, whichever comes first.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.events)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
