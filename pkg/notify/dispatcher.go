package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/tendant/leadflow/internal/metrics"
)

// DefaultPublishTimeout bounds a single detached publish.
const DefaultPublishTimeout = 5 * time.Second

// Dispatcher publishes events in the background. The caller never waits
// and never sees the outcome; failures are logged and counted, not retried.
type Dispatcher struct {
	publisher Publisher
	timeout   time.Duration
	logger    *slog.Logger
	run       func(func())
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithRunner replaces the goroutine launcher. Tests pass a synchronous
// runner.
func WithRunner(run func(func())) DispatcherOption {
	return func(d *Dispatcher) {
		d.run = run
	}
}

// NewDispatcher creates a dispatcher around publisher.
func NewDispatcher(publisher Publisher, timeout time.Duration, logger *slog.Logger, opts ...DispatcherOption) *Dispatcher {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	d := &Dispatcher{
		publisher: publisher,
		timeout:   timeout,
		logger:    logger,
		run:       func(f func()) { go f() },
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch publishes event without blocking. The publish gets its own
// context so it outlives the request that triggered it.
func (d *Dispatcher) Dispatch(event Event) {
	if _, ok := d.publisher.(NopPublisher); ok {
		metrics.RecordNotification(metrics.ResultSkipped)
		return
	}

	d.run(func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		defer func() {
			if rec := recover(); rec != nil {
				metrics.RecordNotification(metrics.ResultFailed)
				d.logger.Error("realtime publish panicked",
					"panic", rec,
					"event", event.Type,
					"task_id", event.TaskID,
					"tenant_id", event.TenantID,
				)
			}
		}()

		if err := d.publisher.Publish(ctx, event); err != nil {
			metrics.RecordNotification(metrics.ResultFailed)
			d.logger.Error("realtime publish failed",
				"error", err,
				"event", event.Type,
				"task_id", event.TaskID,
				"tenant_id", event.TenantID,
			)
			return
		}
		metrics.RecordNotification(metrics.ResultPublished)
	})
}
