// File: internal/auth/interfaces.go
package auth

import (
	"context"
	"time"

	"fintrack_backend/internal/shared"

	"github.com/google/uuid"
)

// RefreshTokenStore persists the single active refresh token value per user.
// Implemented by user.Repository.
type RefreshTokenStore interface {
	SetRefreshToken(ctx context.Context, id uuid.UUID, token *string, expiresAt *time.Time) error
	GetRefreshToken(ctx context.Context, id uuid.UUID) (*string, error)
}

// GoogleUserProvider defines the user operations needed by the GoogleService.
// Implemented by user.ServiceImplementation.
type GoogleUserProvider interface {
	GetUserByEmail(ctx context.Context, email string) (*shared.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*shared.User, error)
	CreateGoogleUser(ctx context.Context, name, email string, emailVerified bool) (*shared.User, error)
}
