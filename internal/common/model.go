// File: internal/common/model.go
package common

import (
	"time"

	"github.com/google/uuid"
)

// Role constants for the user role set.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// BaseModel defines common fields for GORM models. The ID doubles as the
// user-facing persistent identifier (pid): it never changes for the lifetime
// of the record.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	CreatedAt time.Time `gorm:"column:created_at;not null;default:current_timestamp"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:current_timestamp"`
}
