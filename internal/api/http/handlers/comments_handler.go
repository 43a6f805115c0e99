package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// CommentsHandler serves ticket threads.
type CommentsHandler struct {
	service *service.CommentService
}

// NewCommentsHandler constructs handler.
func NewCommentsHandler(commentService *service.CommentService) *CommentsHandler {
	return &CommentsHandler{service: commentService}
}

// ListComments GET /api/tickets/:id/comments.
func (h *CommentsHandler) ListComments(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	thread, err := h.service.ListComments(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}

	items := []dto.CommentResponse{}
	for comment, err := range thread {
		if err != nil {
			return apperrors.NewInternalError(err)
		}
		items = append(items, dto.NewCommentResponse(&comment))
	}
	return c.JSON(items)
}

// AddComment POST /api/tickets/:id/comments.
func (h *CommentsHandler) AddComment(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Comentário vazio")
	}

	comment, err := h.service.AddComment(c.UserContext(), actor, c.Params("id"), req.Content)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewCommentResponse(comment))
}
