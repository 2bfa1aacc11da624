package audit

import (
	"context"
	"log/slog"
	"time"

	"arbiter/pkg/requestcontext"
)

// Worker decouples event emission from delivery through a bounded inbox.
// Emit never blocks the adjudication path; when the inbox is full the event
// is dropped and counted in the logs.
type Worker struct {
	publisher Publisher
	inbox     chan Event
	logger    *slog.Logger
	done      chan struct{}
}

// NewWorker creates a worker with the given inbox capacity.
func NewWorker(publisher Publisher, capacity int, logger *slog.Logger) *Worker {
	if capacity < 1 {
		capacity = 256
	}
	return &Worker{
		publisher: publisher,
		inbox:     make(chan Event, capacity),
		logger:    logger,
		done:      make(chan struct{}),
	}
}

// Emit enqueues an event, stamping the timestamp and request context fields.
func (w *Worker) Emit(ctx context.Context, e Event) {
	if e.Timestamp.IsZero() {
		e.Timestamp = requestcontext.Now(ctx).UTC()
	}
	if e.RequestID == "" {
		e.RequestID = requestcontext.RequestID(ctx)
	}
	if e.Subject == "" {
		e.Subject = requestcontext.Subject(ctx)
	}

	select {
	case w.inbox <- e:
	default:
		if w.logger != nil {
			w.logger.WarnContext(ctx, "audit inbox full, event dropped", "type", e.Type, "case_id", e.CaseID)
		}
	}
}

// Run consumes the inbox until ctx is canceled, then drains what remains.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return
		case e := <-w.inbox:
			w.publish(ctx, e)
		}
	}
}

func (w *Worker) drain() {
	drainCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		select {
		case e := <-w.inbox:
			w.publish(drainCtx, e)
		default:
			return
		}
	}
}

func (w *Worker) publish(ctx context.Context, e Event) {
	if err := w.publisher.Publish(ctx, e); err != nil && w.logger != nil {
		w.logger.WarnContext(ctx, "audit event publish failed", "type", e.Type, "error", err)
	}
}

// Wait blocks until Run has returned.
func (w *Worker) Wait() {
	<-w.done
}
