package events

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated EventType = "ticket_created"
	EventSLABreached   EventType = "sla_breached"
)

// TicketRef is the slice of ticket state a notification needs.
type TicketRef struct {
	ID       string                `json:"id"`
	Title    string                `json:"title"`
	Priority domain.TicketPriority `json:"priority"`
	Content  string                `json:"content,omitempty"`
	DueAt    time.Time             `json:"due_at"`
}

// Event represents a notification-worthy fact emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Tickets   []TicketRef `json:"tickets"`
}

// NewTicketRef copies the fields notifications use. Content is included only when withContent is set.
func NewTicketRef(ticket *domain.Ticket, withContent bool) TicketRef {
	ref := TicketRef{
		ID:       ticket.ID,
		Title:    ticket.Title,
		Priority: ticket.Priority,
		DueAt:    ticket.DueAt,
	}
	if withContent {
		ref.Content = ticket.Content
	}
	return ref
}
