// File: internal/user/store.go
package user

import (
	"context"

	"fintrack_backend/internal/shared"

	"github.com/google/uuid"
)

// Store is a thin repository-backed lookup adapter. The email confirmation
// flow consumes it instead of the full service so the two packages do not
// depend on each other at construction time (the user service itself holds
// a ConfirmationSender).
type Store struct {
	repo Repository
}

// NewStore creates a new Store.
func NewStore(repo Repository) *Store {
	return &Store{repo: repo}
}

func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (*shared.User, error) {
	dbUser, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return DBToShared(dbUser), nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*shared.User, error) {
	dbUser, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return DBToShared(dbUser), nil
}

// MarkEmailConfirmed performs the conditional confirmed-flag transition.
// Returns false when the flag was already set.
func (s *Store) MarkEmailConfirmed(ctx context.Context, email string) (bool, error) {
	return s.repo.MarkEmailConfirmed(ctx, email)
}
