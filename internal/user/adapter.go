// File: internal/user/adapter.go
package user

import (
	"strings"
	"time"

	"fintrack_backend/internal/common"
	"fintrack_backend/internal/shared"

	"github.com/google/uuid"
)

// DBToShared converts a GORM user.User model to a shared.User DTO.
func DBToShared(dbUser *User) *shared.User {
	if dbUser == nil {
		return nil
	}
	return &shared.User{
		ID:                     dbUser.ID,
		Name:                   dbUser.Name,
		Email:                  dbUser.Email,
		Role:                   dbUser.Role,
		IsEmailConfirmed:       dbUser.IsEmailConfirmed,
		IsRegisteredWithGoogle: dbUser.IsRegisteredWithGoogle,
		CreatedAt:              dbUser.CreatedAt,
		UpdatedAt:              dbUser.UpdatedAt,
		LastLoginAt:            dbUser.LastLoginAt,
	}
}

// CreateRequestToDB builds a GORM user.User model for a password signup.
func CreateRequestToDB(req *shared.CreateUserRequest, passwordHash string) *User {
	now := time.Now()
	email := strings.ToLower(strings.TrimSpace(req.Email))
	name := req.Name
	return &User{
		BaseModel: common.BaseModel{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:         &name,
		Email:        &email,
		PasswordHash: &passwordHash,
		Role:         common.RoleUser,
	}
}

// ToUserResponse converts a shared.User to a UserResponse DTO.
func ToUserResponse(usr *shared.User) UserResponse {
	return UserResponse{
		Pid:                    usr.ID,
		Name:                   usr.Name,
		Email:                  usr.Email,
		Role:                   usr.Role,
		IsEmailConfirmed:       usr.IsEmailConfirmed,
		IsRegisteredWithGoogle: usr.IsRegisteredWithGoogle,
		CreatedAt:              usr.CreatedAt,
		UpdatedAt:              usr.UpdatedAt,
		LastLoginAt:            usr.LastLoginAt,
	}
}
