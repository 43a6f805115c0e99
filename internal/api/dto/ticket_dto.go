package dto

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title    string                `json:"title"`
	Content  string                `json:"content"`
	Priority domain.TicketPriority `json:"priority"`
}

// UpdateTicketRequest payload. Empty fields leave the ticket unchanged;
// an explicit "assignee_id": null clears the assignee.
type UpdateTicketRequest struct {
	Status     domain.TicketStatus `json:"status"`
	AssigneeID OptionalString      `json:"assignee_id"`
}

// OptionalString tells an absent JSON field apart from an explicit null.
type OptionalString struct {
	Set   bool
	Value *string
}

// UnmarshalJSON is only called when the key is present.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// TicketResponse is a stored ticket.
type TicketResponse struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Content     string                `json:"content"`
	Priority    domain.TicketPriority `json:"priority"`
	Status      domain.TicketStatus   `json:"status"`
	RequesterID string                `json:"requester_id"`
	AssigneeID  *string               `json:"assignee_id"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
	DueAt       time.Time             `json:"due_at"`
}

// TicketListItem adds participant names to a ticket.
type TicketListItem struct {
	TicketResponse
	Requester *string `json:"requester"`
	Assignee  *string `json:"assignee"`
}

// CommentRequest payload.
type CommentRequest struct {
	Content string `json:"content"`
}

// CommentResponse is one entry of a ticket thread.
type CommentResponse struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticket_id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	Author    *string   `json:"author,omitempty"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:          t.ID,
		Title:       t.Title,
		Content:     t.Content,
		Priority:    t.Priority,
		Status:      t.Status,
		RequesterID: t.RequesterID,
		AssigneeID:  t.AssigneeID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		DueAt:       t.DueAt,
	}
}

// NewTicketListItem maps a ticket summary.
func NewTicketListItem(s *domain.TicketSummary) TicketListItem {
	return TicketListItem{
		TicketResponse: NewTicketResponse(&s.Ticket),
		Requester:      s.RequesterName,
		Assignee:       s.AssigneeName,
	}
}

// NewCommentResponse maps a domain comment.
func NewCommentResponse(c *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		TicketID:  c.TicketID,
		AuthorID:  c.AuthorID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		Author:    c.AuthorName,
	}
}
