package user

import (
	"context"
	"testing"
	"time"

	"fintrack_backend/internal/common"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestRepo(t *testing.T) Repository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open in-memory sqlite")
	require.NoError(t, db.AutoMigrate(&User{}), "failed to migrate users table")
	return NewGORMRepository(db)
}

func newTestUser(email string) *User {
	name := "Test User"
	hash := "$2a$10$notarealhashnotarealhashnotarealhashnotarealhash"
	now := time.Now()
	return &User{
		BaseModel:    common.BaseModel{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Name:         &name,
		Email:        &email,
		PasswordHash: &hash,
		Role:         common.RoleUser,
	}
}

func TestRepository_CreateAndFindByEmail(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	usr := newTestUser("Mixed.Case@Example.COM")
	require.NoError(t, repo.Create(ctx, usr))

	// Lookup is case-insensitive because both sides are normalized.
	found, err := repo.FindByEmail(ctx, "  mixed.case@example.com ")
	require.NoError(t, err)
	assert.Equal(t, usr.ID, found.ID)
	assert.Equal(t, "mixed.case@example.com", *found.Email)

	_, err = repo.FindByEmail(ctx, "absent@example.com")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestRepository_CreateDuplicateEmail(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestUser("dup@example.com")))

	err := repo.Create(ctx, newTestUser("dup@example.com"))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestRepository_MarkEmailConfirmed(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	usr := newTestUser("confirm@example.com")
	require.NoError(t, repo.Create(ctx, usr))

	confirmed, err := repo.MarkEmailConfirmed(ctx, "confirm@example.com")
	require.NoError(t, err)
	assert.True(t, confirmed, "first transition should affect a row")

	found, err := repo.FindByID(ctx, usr.ID)
	require.NoError(t, err)
	assert.True(t, found.IsEmailConfirmed)

	// Second confirm is a no-op: the conditional update matches no rows.
	confirmed, err = repo.MarkEmailConfirmed(ctx, "confirm@example.com")
	require.NoError(t, err)
	assert.False(t, confirmed)

	confirmed, err = repo.MarkEmailConfirmed(ctx, "absent@example.com")
	require.NoError(t, err)
	assert.False(t, confirmed)
}

func TestRepository_SetAndGetRefreshToken(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	usr := newTestUser("refresh@example.com")
	require.NoError(t, repo.Create(ctx, usr))

	stored, err := repo.GetRefreshToken(ctx, usr.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)

	first := "first-token"
	exp := time.Now().Add(24 * time.Hour)
	require.NoError(t, repo.SetRefreshToken(ctx, usr.ID, &first, &exp))

	stored, err = repo.GetRefreshToken(ctx, usr.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, first, *stored)

	// Overwriting replaces the single stored value.
	second := "second-token"
	require.NoError(t, repo.SetRefreshToken(ctx, usr.ID, &second, &exp))
	stored, err = repo.GetRefreshToken(ctx, usr.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, second, *stored)

	// Clearing (logout) nulls the value.
	require.NoError(t, repo.SetRefreshToken(ctx, usr.ID, nil, nil))
	stored, err = repo.GetRefreshToken(ctx, usr.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)

	err = repo.SetRefreshToken(ctx, uuid.New(), &first, &exp)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestRepository_ClearExpiredRefreshTokens(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	expired := newTestUser("expired@example.com")
	active := newTestUser("active@example.com")
	require.NoError(t, repo.Create(ctx, expired))
	require.NoError(t, repo.Create(ctx, active))

	staleToken := "stale"
	staleExp := time.Now().Add(-time.Hour)
	require.NoError(t, repo.SetRefreshToken(ctx, expired.ID, &staleToken, &staleExp))

	freshToken := "fresh"
	freshExp := time.Now().Add(time.Hour)
	require.NoError(t, repo.SetRefreshToken(ctx, active.ID, &freshToken, &freshExp))

	cleared, err := repo.ClearExpiredRefreshTokens(ctx, time.Now())
	require.NoError(t, err)
	assert.EqualValues(t, 1, cleared)

	stored, err := repo.GetRefreshToken(ctx, expired.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)

	stored, err = repo.GetRefreshToken(ctx, active.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, freshToken, *stored)
}
