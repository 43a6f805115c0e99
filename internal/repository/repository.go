package repository

import (
	"context"
	"errors"
	"iter"
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned when registering an email twice.
	ErrDuplicateEmail = errors.New("email already registered")
)

// MaxTicketList caps the number of tickets returned by a listing.
const MaxTicketList = 100

// UserRepository defines persistence access for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// TicketFilter narrows a ticket listing. A nil RequesterID lists every ticket.
type TicketFilter struct {
	RequesterID *string
	Limit       int
}

// TicketPatch is a partial update. Nil Status keeps the stored status;
// AssigneeSet=false keeps the stored assignee, otherwise AssigneeID replaces it (nil unassigns).
type TicketPatch struct {
	Status      *domain.TicketStatus
	AssigneeSet bool
	AssigneeID  *string
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.TicketSummary, error)
	// Patch applies the patch and stamps updatedAt in one atomic write.
	Patch(ctx context.Context, id string, patch TicketPatch, updatedAt time.Time) (*domain.Ticket, error)
	ListOverdue(ctx context.Context, now time.Time) ([]domain.Ticket, error)
}

// CommentRepository manages ticket comment threads.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	// ListByTicket yields comments oldest first. Each range performs a fresh read.
	ListByTicket(ctx context.Context, ticketID string) iter.Seq2[domain.Comment, error]
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > MaxTicketList {
		return MaxTicketList
	}
	return limit
}
