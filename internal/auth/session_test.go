package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"fintrack_backend/internal/common"
	"fintrack_backend/internal/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeRefreshTokenStore is an in-memory RefreshTokenStore for tests.
type fakeRefreshTokenStore struct {
	mu     sync.Mutex
	tokens map[uuid.UUID]*string
}

func newFakeRefreshTokenStore() *fakeRefreshTokenStore {
	return &fakeRefreshTokenStore{tokens: make(map[uuid.UUID]*string)}
}

func (f *fakeRefreshTokenStore) SetRefreshToken(ctx context.Context, id uuid.UUID, token *string, expiresAt *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[id] = token
	return nil
}

func (f *fakeRefreshTokenStore) GetRefreshToken(ctx context.Context, id uuid.UUID) (*string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	token, ok := f.tokens[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return token, nil
}

func newTestSessionService(t *testing.T) (*SessionService, *fakeRefreshTokenStore, *InMemoryBlocklistService) {
	t.Helper()
	tokens := NewJWTService(testJWTConfig(), zap.NewNop())
	store := newFakeRefreshTokenStore()
	blocklist := NewInMemoryBlocklistService(InMemoryBlocklistConfig{
		DefaultExpiration: time.Hour,
		CleanupInterval:   time.Hour,
	})
	return NewSessionService(tokens, store, blocklist, zap.NewNop()), store, blocklist
}

func testSharedUser() *shared.User {
	email := "session@example.com"
	return &shared.User{
		ID:    uuid.New(),
		Email: &email,
		Role:  "user",
	}
}

func TestSessionService_IssueAndRefresh(t *testing.T) {
	svc, store, _ := newTestSessionService(t)
	ctx := context.Background()
	usr := testSharedUser()

	tokens, err := svc.IssueSession(ctx, usr)
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Equal(t, "Bearer", tokens.TokenType)

	stored, err := store.GetRefreshToken(ctx, usr.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, tokens.RefreshToken, *stored)

	refreshed, err := svc.Refresh(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, tokens.RefreshToken, refreshed.RefreshToken, "refresh token is not rotated")
}

func TestSessionService_NewSessionRevokesPreviousRefreshToken(t *testing.T) {
	svc, _, _ := newTestSessionService(t)
	ctx := context.Background()
	usr := testSharedUser()

	first, err := svc.IssueSession(ctx, usr)
	require.NoError(t, err)

	// JTIs are unique, so the second refresh token value always differs.
	second, err := svc.IssueSession(ctx, usr)
	require.NoError(t, err)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = svc.Refresh(ctx, first.RefreshToken)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	_, err = svc.Refresh(ctx, second.RefreshToken)
	require.NoError(t, err)
}

func TestSessionService_RefreshRejectsGarbageToken(t *testing.T) {
	svc, _, _ := newTestSessionService(t)

	_, err := svc.Refresh(context.Background(), "not-a-jwt")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestSessionService_Revoke(t *testing.T) {
	svc, store, blocklist := newTestSessionService(t)
	ctx := context.Background()
	usr := testSharedUser()

	tokens, err := svc.IssueSession(ctx, usr)
	require.NoError(t, err)

	claims, err := svc.tokens.ValidateToken(tokens.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, claims))

	stored, err := store.GetRefreshToken(ctx, usr.ID)
	require.NoError(t, err)
	assert.Nil(t, stored, "stored refresh token is cleared on logout")

	_, err = svc.Refresh(ctx, tokens.RefreshToken)
	require.Error(t, err)

	revoked, err := blocklist.IsBlocklisted(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked, "access token JTI is blocklisted until expiry")
}
