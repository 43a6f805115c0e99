package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/notify"
	"github.com/spec-kit/helpdesk/internal/observability"
)

// NotificationService turns queued events into webhook messages.
type NotificationService struct {
	renderer *notify.Renderer
	sink     notify.Sink
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(renderer *notify.Renderer, sink notify.Sink, metrics *observability.Metrics, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		renderer: renderer,
		sink:     sink,
		metrics:  metrics,
		logger:   logger,
	}
}

// Deliver renders and sends event once. Failures are logged and counted, never retried.
func (n *NotificationService) Deliver(ctx context.Context, event events.Event) {
	msg, ok := n.renderer.Render(event)
	if !ok {
		n.metrics.RecordNotification(string(event.Type), observability.OutcomeSkipped)
		return
	}

	if err := n.sink.Send(ctx, msg); err != nil {
		n.logger.Warn("notification delivery failed",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		n.metrics.RecordNotification(string(event.Type), observability.OutcomeFailed)
		return
	}

	n.logger.Info("notification delivered",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.Int("tickets", len(event.Tickets)))
	n.metrics.RecordNotification(string(event.Type), observability.OutcomeSent)
}
