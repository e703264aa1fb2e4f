// File: internal/user/model.go
package user

import (
	"time"

	"fintrack_backend/internal/common"

	"github.com/google/uuid"
)

// User represents the user model in the database. A user either has a
// password hash or is registered with Google (linking the two later is not
// supported by the current flows).
type User struct {
	common.BaseModel                  // Embeds ID (pid), CreatedAt, UpdatedAt
	Name                   *string    `gorm:"type:varchar(100)"`
	Email                  *string    `gorm:"type:varchar(255);uniqueIndex"`
	PasswordHash           *string    `gorm:"type:varchar(255)"` // NULL for OAuth-only accounts
	IsEmailConfirmed       bool       `gorm:"not null;default:false"`
	RefreshToken           *string    `gorm:"type:text"` // current session's refresh token, NULL when logged out
	RefreshTokenExpiresAt  *time.Time `gorm:"column:refresh_token_expires_at"`
	IsRegisteredWithGoogle bool       `gorm:"not null;default:false"`
	Role                   string     `gorm:"type:varchar(50);not null;default:'user'"`
	LastLoginAt            *time.Time
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}

// Sanitize removes sensitive information like the password hash.
func (u *User) Sanitize() {
	u.PasswordHash = nil
	u.RefreshToken = nil
}

// --- DTOs for API requests/responses ---

// RegisterRequest defines the structure for creating a new user.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"` // bcrypt max is 72 bytes
}

// ChangePasswordRequest defines the structure for password change requests.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8,max=72"`
}

// UserResponse defines the structure for user data sent in API responses.
type UserResponse struct {
	Pid                    uuid.UUID  `json:"pid"`
	Name                   *string    `json:"name,omitempty"`
	Email                  *string    `json:"email,omitempty"`
	Role                   string     `json:"role"`
	IsEmailConfirmed       bool       `json:"isEmailConfirmed"`
	IsRegisteredWithGoogle bool       `json:"isRegisteredWithGoogle"`
	CreatedAt              time.Time  `json:"createdAt"`
	UpdatedAt              time.Time  `json:"updatedAt"`
	LastLoginAt            *time.Time `json:"lastLoginAt,omitempty"`
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
