package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

const (
	msgInvalidRegistration = "Dados inválidos"
	msgDuplicateEmail      = "E-mail já cadastrado"
	msgRegisterFailed      = "Erro ao registrar"
	msgInvalidCredentials  = "Credenciais inválidas"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	users    repository.UserRepository
	tokenMgr *auth.TokenManager
	hasher   auth.PasswordHasher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository) *AuthService {
	return &AuthService{
		users:    users,
		tokenMgr: auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		hasher:   auth.NewPasswordHasher(cfg.BcryptCost),
	}
}

// TokenManager exposes the token issuer for the auth middleware.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// RegisterInput describes a new account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates a requester account. Roles are never chosen at registration.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	if name == "" || email == "" || len(input.Password) < MinPasswordLength {
		return nil, apperrors.NewValidationError(msgInvalidRegistration)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, apperrors.NewValidationError(msgInvalidRegistration)
		}
		return nil, apperrors.NewInternal(msgRegisterFailed, err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleRequester,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.NewValidationError(msgDuplicateEmail)
		}
		return nil, apperrors.NewInternal(msgRegisterFailed, err)
	}
	return user, nil
}

// Login verifies credentials and issues a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized(msgInvalidCredentials)
		}
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	if !s.hasher.Verify(user.PasswordHash, password) {
		return nil, "", time.Time{}, apperrors.NewUnauthorized(msgInvalidCredentials)
	}
	token, exp, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return user, token, exp, nil
}

// Me returns the caller's own profile.
func (s *AuthService) Me(ctx context.Context, actor domain.Actor) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound(msgNotFound)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}
