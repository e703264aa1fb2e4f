package auth

import (
	"testing"
	"time"

	"fintrack_backend/internal/config"
	"fintrack_backend/internal/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testJWTConfig() *config.Config {
	return &config.Config{
		JWTAccessSecret:       "test-access-secret",
		JWTRefreshSecret:      "test-refresh-secret",
		JWTAccessTokenExpiry:  15 * time.Minute,
		JWTRefreshTokenExpiry: 7 * 24 * time.Hour,
	}
}

type testTokenUser struct {
	id    uuid.UUID
	email string
	role  string
}

func (u *testTokenUser) GetID() uuid.UUID  { return u.id }
func (u *testTokenUser) GetEmail() *string { return &u.email }
func (u *testTokenUser) GetRole() string   { return u.role }

func TestJWTService_AccessTokenRoundTrip(t *testing.T) {
	svc := NewJWTService(testJWTConfig(), zap.NewNop())
	usr := &testTokenUser{id: uuid.New(), email: "jwt@example.com", role: "user"}

	token, expiresAt, err := svc.GenerateAccessToken(usr)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, usr.id, claims.UserID)
	assert.Equal(t, "jwt@example.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
	assert.NotEmpty(t, claims.ID, "each token carries a unique JTI")
}

func TestJWTService_RefreshTokenNotValidAsAccessToken(t *testing.T) {
	svc := NewJWTService(testJWTConfig(), zap.NewNop())
	usr := &testTokenUser{id: uuid.New(), email: "jwt@example.com", role: "user"}

	refreshToken, _, err := svc.GenerateRefreshToken(usr)
	require.NoError(t, err)

	// Different signing secret: must be rejected on the access path.
	_, err = svc.ValidateToken(refreshToken)
	require.Error(t, err)

	claims, err := svc.ParseRefreshToken(refreshToken)
	require.NoError(t, err)
	assert.Equal(t, usr.id, claims.UserID)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	cfg := testJWTConfig()
	cfg.JWTAccessTokenExpiry = -time.Minute
	svc := NewJWTService(cfg, zap.NewNop())
	usr := &testTokenUser{id: uuid.New(), email: "jwt@example.com", role: "user"}

	token, _, err := svc.GenerateAccessToken(usr)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Token has expired.")
}

func TestJWTService_TamperedToken(t *testing.T) {
	svc := NewJWTService(testJWTConfig(), zap.NewNop())
	usr := &testTokenUser{id: uuid.New(), email: "jwt@example.com", role: "user"}

	token, _, err := svc.GenerateAccessToken(usr)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token + "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid token.")
}

var _ shared.UserDataForToken = (*testTokenUser)(nil)
