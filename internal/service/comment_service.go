package service

import (
	"context"
	"iter"
	"strings"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/policy"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

const msgEmptyComment = "Comentário vazio"

// CommentService manages ticket comment threads.
type CommentService struct {
	tickets  repository.TicketRepository
	comments repository.CommentRepository
	clock    Clock
}

// NewCommentService constructs the service.
func NewCommentService(tickets repository.TicketRepository, comments repository.CommentRepository, clock Clock) *CommentService {
	return &CommentService{tickets: tickets, comments: comments, clock: clock}
}

// ListComments checks access now and returns the thread as a lazy, oldest-first sequence.
func (s *CommentService) ListComments(ctx context.Context, actor domain.Actor, ticketID string) (iter.Seq2[domain.Comment, error], error) {
	ticket, err := loadVisibleTicket(ctx, s.tickets, actor, ticketID)
	if err != nil {
		return nil, err
	}
	return s.comments.ListByTicket(ctx, ticket.ID), nil
}

// AddComment appends a comment authored by actor.
func (s *CommentService) AddComment(ctx context.Context, actor domain.Actor, ticketID, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError(msgEmptyComment)
	}
	if !policy.Can(actor.Role, policy.Comment) {
		return nil, apperrors.NewForbidden(msgForbidden)
	}
	ticket, err := loadVisibleTicket(ctx, s.tickets, actor, ticketID)
	if err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		TicketID:  ticket.ID,
		AuthorID:  actor.ID,
		Content:   content,
		CreatedAt: s.clock.now(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return comment, nil
}
