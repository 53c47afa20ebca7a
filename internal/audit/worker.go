package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/models"
)

// saveTimeout bounds one SaveEvent call. Saves do not inherit the worker's
// cancellation, so an event being written when Shutdown runs still lands.
const saveTimeout = 5 * time.Second

// Worker saves events on a background goroutine through a bounded buffer.
type Worker struct {
	eventCh chan models.Event
	saver   Saver
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewWorker(saver Saver, bufferSize int) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		eventCh: make(chan models.Event, bufferSize),
		saver:   saver,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the consumer. Call Shutdown to stop it.
func (w *Worker) Start() {
	w.wg.Go(func() {
		for {
			select {
			case <-w.ctx.Done():
				slog.Info("draining audit events before shutdown", "remaining_events", len(w.eventCh))
				for len(w.eventCh) > 0 {
					w.save(<-w.eventCh)
				}
				return
			case event := <-w.eventCh:
				w.save(event)
			}
		}
	})
}

func (w *Worker) save(event models.Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(w.ctx), saveTimeout)
	defer cancel()
	if err := w.saver.SaveEvent(ctx, event); err != nil {
		slog.Error("failed to save audit event", "error", err, "kind", event.Kind, "group_id", event.GroupID)
		metrics.AuditEvents.WithLabelValues("failed").Inc()
		return
	}
	metrics.AuditEvents.WithLabelValues("saved").Inc()
}

// Record queues an event without blocking. Events are dropped when the
// buffer is full.
func (w *Worker) Record(event models.Event) {
	select {
	case w.eventCh <- event:
	default:
		slog.Warn("audit buffer full, dropping event", "kind", event.Kind, "group_id", event.GroupID)
		metrics.AuditEvents.WithLabelValues("dropped").Inc()
	}
}

// Shutdown stops the consumer after saving everything already queued.
func (w *Worker) Shutdown() {
	w.cancel()
	w.wg.Wait()
}
