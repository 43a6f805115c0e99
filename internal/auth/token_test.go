package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/domain"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 0)
	user := &domain.User{ID: "u-1", Email: "a@x.com", Role: domain.RoleAgent}

	token, exp, err := tm.GenerateToken(user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(8*time.Hour), exp, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, domain.Actor{ID: "u-1", Email: "a@x.com", Role: domain.RoleAgent}, claims.Actor())
}

func TestTokenManager_RejectsWrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("one", 60).GenerateToken(&domain.User{ID: "u", Role: domain.RoleRequester})
	require.NoError(t, err)

	_, err = NewTokenManager("two", 60).ParseToken(token)
	assert.Error(t, err)
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	tm := NewTokenManager("secret", 1)
	tm.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := tm.GenerateToken(&domain.User{ID: "u", Role: domain.RoleRequester})
	require.NoError(t, err)

	tm.now = time.Now
	_, err = tm.ParseToken(token)
	assert.Error(t, err)
}

func TestTokenManager_RejectsUnknownRole(t *testing.T) {
	tm := NewTokenManager("secret", 60)
	claims := &Claims{ID: "u", Role: "root"}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = tm.ParseToken(token)
	assert.Error(t, err)
}
