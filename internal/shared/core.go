// File: internal/shared/core.go
package shared

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// User represents a user in the system, detached from its storage model.
// The ID is the persistent identifier (pid) carried in session tokens.
type User struct {
	ID                     uuid.UUID
	Name                   *string
	Email                  *string
	Role                   string
	IsEmailConfirmed       bool
	IsRegisteredWithGoogle bool
	CreatedAt              time.Time
	UpdatedAt              time.Time
	LastLoginAt            *time.Time
}

func (u *User) GetID() uuid.UUID {
	return u.ID
}

func (u *User) GetEmail() *string {
	return u.Email
}

func (u *User) GetRole() string {
	return u.Role
}

// CreateUserRequest represents a request to create a new user.
type CreateUserRequest struct {
	Name     string
	Email    string
	Password string
}

// TokenResponse represents the response containing the session token pair.
type TokenResponse struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
	TokenType    string    `json:"tokenType"`
}

// Claims represents the session JWT claims structure.
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
	jwt.RegisteredClaims
}

// UserDataForToken abstracts the user data needed for token generation.
type UserDataForToken interface {
	GetID() uuid.UUID
	GetEmail() *string
	GetRole() string
}

// TokenService defines the interface for session JWT operations. Access and
// refresh tokens are signed with distinct secrets and TTLs.
type TokenService interface {
	GenerateAccessToken(userData UserDataForToken) (string, time.Time, error)
	GenerateRefreshToken(userData UserDataForToken) (string, time.Time, error)
	ValidateToken(tokenString string) (*Claims, error)
	ParseRefreshToken(refreshTokenString string) (*Claims, error)
}

// SessionIssuer issues a session token pair for a validated user and persists
// the refresh token value on the user record, overwriting any previous value.
type SessionIssuer interface {
	IssueSession(ctx context.Context, usr *User) (*TokenResponse, error)
}

// Mailer dispatches transactional email. Implementations do not retry;
// a delivery failure surfaces to the caller.
type Mailer interface {
	Send(ctx context.Context, to, subject, textBody, htmlBody string) error
}

// ConfirmationSender issues a fresh confirmation token for the address and
// dispatches the confirmation mail.
type ConfirmationSender interface {
	SendConfirmationLink(ctx context.Context, email string) error
}

// Service defines the interface for user-related business logic.
type Service interface {
	Register(ctx context.Context, req CreateUserRequest) (*User, *TokenResponse, error)
	Login(ctx context.Context, email, password string) (*User, *TokenResponse, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	ChangePassword(ctx context.Context, id uuid.UUID, currentPassword, newPassword string) error
}
