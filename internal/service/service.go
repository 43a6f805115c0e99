package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/policy"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// User-facing error messages shared by the ticket and comment flows.
const (
	msgNotFound  = "Não encontrado"
	msgForbidden = "Forbidden"
)

// Clock returns the current instant. Tests replace it.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC().Truncate(time.Microsecond)
	}
	return c().UTC().Truncate(time.Microsecond)
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// loadVisibleTicket applies the read preconditions shared by ticket and comment operations.
func loadVisibleTicket(ctx context.Context, tickets repository.TicketRepository, actor domain.Actor, id string) (*domain.Ticket, error) {
	if !validID(id) {
		return nil, apperrors.NewNotFound(msgNotFound)
	}
	ticket, err := tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound(msgNotFound)
		}
		return nil, apperrors.NewInternalError(err)
	}
	if !policy.CanView(actor, ticket) {
		return nil, apperrors.NewForbidden(msgForbidden)
	}
	return ticket, nil
}
