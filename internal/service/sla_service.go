package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/repository"
)

// SLAService finds active tickets past their deadline and reports them as one batch.
// It keeps no state between sweeps, so a ticket is reported until its status changes.
type SLAService struct {
	tickets   repository.TicketRepository
	publisher events.Publisher
	metrics   *observability.Metrics
	logger    *zap.Logger
	clock     Clock
}

// NewSLAService constructs the service.
func NewSLAService(tickets repository.TicketRepository, publisher events.Publisher, metrics *observability.Metrics, logger *zap.Logger, clock Clock) *SLAService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SLAService{tickets: tickets, publisher: publisher, metrics: metrics, logger: logger, clock: clock}
}

// Sweep reports tickets overdue at the current instant.
func (s *SLAService) Sweep(ctx context.Context) ([]domain.Ticket, error) {
	return s.SweepAt(ctx, s.clock.now())
}

// SweepAt reports tickets whose status is open or in_progress and whose deadline is before now.
func (s *SLAService) SweepAt(ctx context.Context, now time.Time) ([]domain.Ticket, error) {
	overdue, err := s.tickets.ListOverdue(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("list overdue tickets: %w", err)
	}
	if len(overdue) == 0 {
		return nil, nil
	}

	refs := make([]events.TicketRef, 0, len(overdue))
	for i := range overdue {
		refs = append(refs, events.NewTicketRef(&overdue[i], false))
	}
	s.logger.Info("overdue tickets found", zap.Int("count", len(overdue)))

	if s.publisher == nil {
		return overdue, nil
	}
	if err := s.publisher.Publish(ctx, events.Event{Type: events.EventSLABreached, Tickets: refs}); err != nil {
		s.metrics.RecordNotification(string(events.EventSLABreached), observability.OutcomeDropped)
		return overdue, fmt.Errorf("publish sla breach: %w", err)
	}
	return overdue, nil
}
