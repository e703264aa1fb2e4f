// File: internal/user/repository.go
package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"fintrack_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for user data operations.
type Repository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	Update(ctx context.Context, user *User) error
	MarkEmailConfirmed(ctx context.Context, email string) (bool, error)
	SetRefreshToken(ctx context.Context, id uuid.UUID, token *string, expiresAt *time.Time) error
	GetRefreshToken(ctx context.Context, id uuid.UUID) (*string, error)
	ClearExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM user repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Create inserts a new user record into the database.
func (r *gormRepository) Create(ctx context.Context, user *User) error {
	if user.Email != nil {
		*user.Email = strings.ToLower(strings.TrimSpace(*user.Email))
	}
	err := r.db.WithContext(ctx).Create(user).Error
	if err != nil {
		if isDuplicateKeyError(err) {
			return common.ErrConflict.WithDetails("User with this email already exists.")
		}
		return err
	}
	return nil
}

// FindByEmail retrieves a user by their email address.
func (r *gormRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var userModel User
	normalizedEmail := strings.ToLower(strings.TrimSpace(email))
	err := r.db.WithContext(ctx).Where("email = ?", normalizedEmail).First(&userModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("User not found with this email.")
		}
		return nil, err
	}
	return &userModel, nil
}

// FindByID retrieves a user by their pid.
func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var userModel User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&userModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("User not found with this ID.")
		}
		return nil, err
	}
	return &userModel, nil
}

// Update modifies an existing user record in the database.
func (r *gormRepository) Update(ctx context.Context, user *User) error {
	if user.Email != nil {
		*user.Email = strings.ToLower(strings.TrimSpace(*user.Email))
	}
	err := r.db.WithContext(ctx).Save(user).Error
	if err != nil {
		if isDuplicateKeyError(err) {
			return common.ErrConflict.WithDetails("Update failed: email already taken.")
		}
		return err
	}
	return nil
}

// isDuplicateKeyError matches unique constraint violations across the
// postgres and sqlite (test) drivers.
func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

// MarkEmailConfirmed flips the confirmed flag with a single conditional
// update. Returns false when no row transitioned, i.e. the user was already
// confirmed (or vanished) by the time the update ran.
func (r *gormRepository) MarkEmailConfirmed(ctx context.Context, email string) (bool, error) {
	normalizedEmail := strings.ToLower(strings.TrimSpace(email))
	result := r.db.WithContext(ctx).Model(&User{}).
		Where("email = ? AND is_email_confirmed = ?", normalizedEmail, false).
		Updates(map[string]interface{}{
			"is_email_confirmed": true,
			"updated_at":         time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// SetRefreshToken overwrites the stored refresh token value for the user.
// Passing nil clears it, which revokes the current session's refresh token.
func (r *gormRepository) SetRefreshToken(ctx context.Context, id uuid.UUID, token *string, expiresAt *time.Time) error {
	result := r.db.WithContext(ctx).Model(&User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"refresh_token":            token,
			"refresh_token_expires_at": expiresAt,
			"updated_at":               time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("User not found with this ID.")
	}
	return nil
}

// GetRefreshToken returns the currently stored refresh token value for the
// user, nil when none is stored.
func (r *gormRepository) GetRefreshToken(ctx context.Context, id uuid.UUID) (*string, error) {
	usr, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return usr.RefreshToken, nil
}

// ClearExpiredRefreshTokens nulls out refresh token values whose tokens have
// expired. Used by the periodic sweep job.
func (r *gormRepository) ClearExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&User{}).
		Where("refresh_token IS NOT NULL AND refresh_token_expires_at < ?", now).
		Updates(map[string]interface{}{
			"refresh_token":            nil,
			"refresh_token_expires_at": nil,
		})
	return result.RowsAffected, result.Error
}
