package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/policy"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

const (
	msgTitleContentRequired = "Título e descrição são obrigatórios"
	msgInvalidPriority      = "Prioridade inválida"
	msgInvalidStatus        = "Status inválido"
	msgInvalidAssignee      = "Responsável inválido"
	msgCreateFailed         = "Erro ao criar chamado"
)

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets   repository.TicketRepository
	users     repository.UserRepository
	publisher events.Publisher
	metrics   *observability.Metrics
	logger    *zap.Logger
	clock     Clock
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	UserRepo   repository.UserRepository
	Publisher  events.Publisher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
	Clock      Clock
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title    string
	Content  string
	Priority domain.TicketPriority
}

// TicketUpdateInput is a partial update. Nil Status and AssigneeSet=false leave the stored values alone.
type TicketUpdateInput struct {
	Status      *domain.TicketStatus
	AssigneeSet bool
	AssigneeID  *string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets:   deps.TicketRepo,
		users:     deps.UserRepo,
		publisher: deps.Publisher,
		metrics:   deps.Metrics,
		logger:    logger,
		clock:     deps.Clock,
	}
}

// CreateTicket opens a ticket for actor with a deadline derived from its priority.
func (s *TicketService) CreateTicket(ctx context.Context, actor domain.Actor, input TicketCreateInput) (*domain.Ticket, error) {
	if !policy.Can(actor.Role, policy.CreateTicket) {
		return nil, apperrors.NewForbidden(msgForbidden)
	}

	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)
	if title == "" || content == "" {
		return nil, apperrors.NewValidationError(msgTitleContentRequired)
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.DefaultPriority
	}
	if !priority.Valid() {
		return nil, apperrors.NewValidationError(msgInvalidPriority)
	}

	now := s.clock.now()
	ticket := &domain.Ticket{
		Title:       title,
		Content:     content,
		Priority:    priority,
		Status:      domain.TicketStatusOpen,
		RequesterID: actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
		DueAt:       priority.DueAt(now),
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.NewInternal(msgCreateFailed, err)
	}

	s.publish(ctx, events.Event{
		Type:    events.EventTicketCreated,
		Tickets: []events.TicketRef{events.NewTicketRef(ticket, true)},
	})
	return ticket, nil
}

// ListTickets returns the newest tickets visible to actor.
func (s *TicketService) ListTickets(ctx context.Context, actor domain.Actor) ([]domain.TicketSummary, error) {
	filter := repository.TicketFilter{Limit: repository.MaxTicketList}
	if !policy.Can(actor.Role, policy.ViewAllTickets) {
		requesterID := actor.ID
		filter.RequesterID = &requesterID
	}
	tickets, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return tickets, nil
}

// GetTicket fetches a ticket the actor is allowed to see.
func (s *TicketService) GetTicket(ctx context.Context, actor domain.Actor, id string) (*domain.Ticket, error) {
	return loadVisibleTicket(ctx, s.tickets, actor, id)
}

// UpdateTicket changes status and/or assignee. Any status may follow any other.
func (s *TicketService) UpdateTicket(ctx context.Context, actor domain.Actor, id string, input TicketUpdateInput) (*domain.Ticket, error) {
	if !policy.Can(actor.Role, policy.UpdateTicket) {
		return nil, apperrors.NewForbidden(msgForbidden)
	}
	if input.Status != nil && !input.Status.Valid() {
		return nil, apperrors.NewValidationError(msgInvalidStatus)
	}
	if !validID(id) {
		return nil, apperrors.NewNotFound(msgNotFound)
	}
	if input.AssigneeSet && input.AssigneeID != nil {
		if err := s.ensureUserExists(ctx, *input.AssigneeID); err != nil {
			return nil, err
		}
	}

	patch := repository.TicketPatch{
		Status:      input.Status,
		AssigneeSet: input.AssigneeSet,
		AssigneeID:  input.AssigneeID,
	}
	ticket, err := s.tickets.Patch(ctx, id, patch, s.clock.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound(msgNotFound)
		}
		return nil, apperrors.NewInternalError(err)
	}

	s.logger.Info("ticket updated",
		zap.String("ticket_id", ticket.ID),
		zap.String("actor_id", actor.ID),
		zap.String("status", string(ticket.Status)))
	return ticket, nil
}

func (s *TicketService) ensureUserExists(ctx context.Context, id string) error {
	if !validID(id) {
		return apperrors.NewValidationError(msgInvalidAssignee)
	}
	if _, err := s.users.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewValidationError(msgInvalidAssignee)
		}
		return apperrors.NewInternalError(err)
	}
	return nil
}

// publish hands the event to the outbound queue. Failures never reach the caller.
func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("notification dropped", zap.String("event_type", string(event.Type)), zap.Error(err))
		s.metrics.RecordNotification(string(event.Type), observability.OutcomeDropped)
	}
}
