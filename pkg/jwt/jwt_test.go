package jwt_test

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/hhqqrrzz1/Fitness-app-backend/internal/config"
	domain "github.com/hhqqrrzz1/Fitness-app-backend/internal/domain/user"
	jwtsvc "github.com/hhqqrrzz1/Fitness-app-backend/pkg/jwt"
)

func newTestService(ttl time.Duration) jwtsvc.Service {
	return jwtsvc.NewService(&config.JWTConfig{
		Secret:    "test-secret",
		Issuer:    "fitness-app-test",
		AccessTTL: ttl,
	})
}

func TestAccessToken_RoundTrip(t *testing.T) {
	svc := newTestService(20 * time.Minute)
	user := domain.NewUser("u@example.com", "alice", "hash")

	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ParseAccessToken(token)
	require.NoError(t, err)
	require.Equal(t, user.ID.String(), claims.UserID)
	require.Equal(t, "alice", claims.Subject)
	require.False(t, claims.IsAdmin)
	require.True(t, claims.IsGuest)

	caller, err := claims.Caller()
	require.NoError(t, err)
	require.Equal(t, user.ID, caller.ID)
	require.Equal(t, "alice", caller.Username)
	require.False(t, caller.IsAdmin())
}

func TestAccessToken_AdminFlags(t *testing.T) {
	svc := newTestService(20 * time.Minute)
	user := domain.NewUser("a@example.com", "boss", "hash")
	user.Role = domain.RoleAdmin

	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)

	claims, err := svc.ParseAccessToken(token)
	require.NoError(t, err)
	require.True(t, claims.IsAdmin)
	require.False(t, claims.IsGuest)

	caller, err := claims.Caller()
	require.NoError(t, err)
	require.True(t, caller.IsAdmin())
}

func TestParseAccessToken_Expired(t *testing.T) {
	svc := newTestService(-time.Minute)
	user := domain.NewUser("u@example.com", "alice", "hash")

	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)

	_, err = svc.ParseAccessToken(token)
	require.ErrorIs(t, err, gojwt.ErrTokenExpired)
}

func TestParseAccessToken_WrongSecret(t *testing.T) {
	issuer := newTestService(20 * time.Minute)
	user := domain.NewUser("u@example.com", "alice", "hash")

	token, err := issuer.GenerateAccessToken(user)
	require.NoError(t, err)

	parser := jwtsvc.NewService(&config.JWTConfig{
		Secret:    "another-secret",
		Issuer:    "fitness-app-test",
		AccessTTL: 20 * time.Minute,
	})
	_, err = parser.ParseAccessToken(token)
	require.Error(t, err)
}

func TestParseAccessToken_Garbage(t *testing.T) {
	svc := newTestService(20 * time.Minute)

	_, err := svc.ParseAccessToken("not-a-token")
	require.Error(t, err)
}
