package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// Valid reports whether s is one of the four known statuses.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// ActiveStatuses are the statuses the SLA clock still runs for.
var ActiveStatuses = []TicketStatus{TicketStatusOpen, TicketStatusInProgress}

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityP1 TicketPriority = "P1"
	TicketPriorityP2 TicketPriority = "P2"
	TicketPriorityP3 TicketPriority = "P3"
)

// DefaultPriority applies when a ticket is created without one.
const DefaultPriority = TicketPriorityP3

var slaWindows = map[TicketPriority]time.Duration{
	TicketPriorityP1: 30 * time.Minute,
	TicketPriorityP2: 60 * time.Minute,
	TicketPriorityP3: 8 * time.Hour,
}

// Valid reports whether p is P1, P2 or P3.
func (p TicketPriority) Valid() bool {
	_, ok := slaWindows[p]
	return ok
}

// SLAWindow returns the time allowed before a ticket of this priority is overdue.
func (p TicketPriority) SLAWindow() time.Duration {
	return slaWindows[p]
}

// DueAt derives the deadline of a ticket created at createdAt.
func (p TicketPriority) DueAt(createdAt time.Time) time.Time {
	return createdAt.Add(p.SLAWindow())
}

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID          string
	Title       string
	Content     string
	Priority    TicketPriority
	Status      TicketStatus
	RequesterID string
	AssigneeID  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DueAt       time.Time
}

// Overdue reports whether the ticket is still active past its deadline.
func (t *Ticket) Overdue(now time.Time) bool {
	if t.Status != TicketStatusOpen && t.Status != TicketStatusInProgress {
		return false
	}
	return t.DueAt.Before(now)
}

// TicketSummary is a list entry enriched with display names.
type TicketSummary struct {
	Ticket
	RequesterName *string
	AssigneeName  *string
}
