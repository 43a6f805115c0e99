package service

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository/memory"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

func newAuthService() *AuthService {
	cfg := config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 60, BcryptCost: 4}
	return NewAuthService(cfg, memory.NewStore().Users())
}

func TestRegister_AlwaysRequester(t *testing.T) {
	svc := newAuthService()

	user, err := svc.Register(context.Background(), RegisterInput{Name: "Ana", Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, domain.RoleRequester, user.Role)
	assert.NotEqual(t, "secret1", user.PasswordHash)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterInput{Name: "Ana", Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Name: "Outra", Email: "ana@example.com", Password: "secret2"})
	require.Error(t, err)
	assert.True(t, apperrors.HasStatus(err, http.StatusBadRequest))
	assert.Equal(t, "E-mail já cadastrado", apperrors.ToDomainError(err).Message)
}

func TestRegister_Invalid(t *testing.T) {
	svc := newAuthService()

	_, err := svc.Register(context.Background(), RegisterInput{Name: "Ana", Email: "ana@example.com", Password: "123"})
	assert.Equal(t, "Dados inválidos", apperrors.ToDomainError(err).Message)

	_, err = svc.Register(context.Background(), RegisterInput{Name: "Ana", Email: "ana@example.com", Password: strings.Repeat("x", 80)})
	assert.True(t, apperrors.HasStatus(err, http.StatusBadRequest))
	assert.Equal(t, "Dados inválidos", apperrors.ToDomainError(err).Message)
}

func TestLogin(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()
	registered, err := svc.Register(ctx, RegisterInput{Name: "Ana", Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)

	user, token, _, err := svc.Login(ctx, "ana@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.ID)
	assert.Equal(t, domain.RoleRequester, claims.Role)

	me, err := svc.Me(ctx, claims.Actor())
	require.NoError(t, err)
	assert.Equal(t, "Ana", me.Name)

	for _, tc := range []struct{ email, password string }{
		{"ana@example.com", "wrong-pass"},
		{"nobody@example.com", "secret1"},
	} {
		_, _, _, err := svc.Login(ctx, tc.email, tc.password)
		require.Error(t, err)
		assert.True(t, apperrors.HasStatus(err, http.StatusUnauthorized))
		assert.Equal(t, "Credenciais inválidas", apperrors.ToDomainError(err).Message)
	}
}
