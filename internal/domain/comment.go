package domain

import "time"

// Comment is an append-only remark on a ticket.
type Comment struct {
	ID         string
	TicketID   string
	AuthorID   string
	Content    string
	CreatedAt  time.Time
	AuthorName *string
}
