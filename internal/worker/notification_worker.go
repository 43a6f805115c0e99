package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/events"
)

const receiveBackoff = time.Second

// Deliverer handles one dequeued event.
type Deliverer interface {
	Deliver(ctx context.Context, event events.Event)
}

// NotificationWorker drains the outbound queue on its own goroutine.
type NotificationWorker struct {
	queue     events.Queue
	deliverer Deliverer
	logger    *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewNotificationWorker creates a stopped worker.
func NewNotificationWorker(queue events.Queue, deliverer Deliverer, logger *zap.Logger) *NotificationWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationWorker{queue: queue, deliverer: deliverer, logger: logger}
}

// Start launches the consume loop. It runs until Stop or until ctx is done.
func (w *NotificationWorker) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.run(ctx)
	}()
}

// Stop cancels the loop and waits for the in-flight delivery to finish.
func (w *NotificationWorker) Stop() {
	if w.cancel == nil {
		return
	}
	w.cancel()
	w.wg.Wait()
}

func (w *NotificationWorker) run(ctx context.Context) {
	w.logger.Info("notification worker started")
	defer w.logger.Info("notification worker stopped")

	for {
		event, err := w.queue.Receive(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			w.logger.Warn("notification receive failed", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(receiveBackoff):
			}
			continue
		}
		w.deliver(ctx, event)
	}
}

func (w *NotificationWorker) deliver(ctx context.Context, event events.Event) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("notification delivery panicked", zap.Any("panic", r), zap.String("event_id", event.ID))
		}
	}()
	w.deliverer.Deliver(ctx, event)
}
