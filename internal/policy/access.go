// Package policy decides what an actor may do with tickets.
package policy

import "github.com/spec-kit/helpdesk/internal/domain"

// Capability is an action gated by role.
type Capability int

const (
	CreateTicket Capability = iota
	Comment
	ViewAllTickets
	UpdateTicket
)

func (c Capability) String() string {
	switch c {
	case CreateTicket:
		return "create_ticket"
	case Comment:
		return "comment"
	case ViewAllTickets:
		return "view_all_tickets"
	case UpdateTicket:
		return "update_ticket"
	}
	return "unknown"
}

// Can reports whether role grants capability.
func Can(role domain.Role, capability Capability) bool {
	if !role.Valid() {
		return false
	}
	switch capability {
	case CreateTicket, Comment:
		return true
	case ViewAllTickets, UpdateTicket:
		return role == domain.RoleAgent || role == domain.RoleAdmin
	}
	return false
}

// CanView reports whether actor may read ticket and its comment thread.
// Assignment changes between calls, so callers must not cache the result.
func CanView(actor domain.Actor, ticket *domain.Ticket) bool {
	if ticket == nil {
		return false
	}
	if Can(actor.Role, ViewAllTickets) {
		return true
	}
	if actor.ID != "" && ticket.RequesterID == actor.ID {
		return true
	}
	return ticket.AssigneeID != nil && actor.ID != "" && *ticket.AssigneeID == actor.ID
}
