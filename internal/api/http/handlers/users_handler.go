package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

const msgInvalidRegistration = "Dados inválidos"

// UsersHandler exposes account endpoints.
type UsersHandler struct {
	auth     *service.AuthService
	validate *validator.Validate
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService) *UsersHandler {
	return &UsersHandler{auth: authService, validate: validator.New()}
}

// Register handles POST /api/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.UserRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError(msgInvalidRegistration)
	}
	if err := h.validate.Struct(req); err != nil {
		return apperrors.NewValidationError(msgInvalidRegistration)
	}

	user, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}

// Login handles POST /api/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.UserLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewUnauthorized("Credenciais inválidas")
	}

	user, token, exp, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.LoginResponse{Token: token, ExpiresAt: exp, User: dto.NewUserResponse(user)})
}

// Me handles GET /api/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("Unauthenticated")
	}
	user, err := h.auth.Me(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}
