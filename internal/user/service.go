// File: internal/user/service.go
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fintrack_backend/internal/common"
	"fintrack_backend/internal/shared"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ServiceImplementation implements the shared.Service interface. It also
// satisfies the lookup/provisioning interfaces consumed by the auth and
// emailconfirmation packages.
type ServiceImplementation struct {
	repo          Repository
	sessions      shared.SessionIssuer
	confirmations shared.ConfirmationSender
	logger        *zap.Logger
}

var _ shared.Service = (*ServiceImplementation)(nil)

// NewService creates a new user service.
func NewService(
	repo Repository,
	sessions shared.SessionIssuer,
	confirmations shared.ConfirmationSender,
	logger *zap.Logger,
) *ServiceImplementation {
	return &ServiceImplementation{
		repo:          repo,
		sessions:      sessions,
		confirmations: confirmations,
		logger:        logger.Named("UserService"),
	}
}

// Register creates a new password-based user, sends the email confirmation
// link and issues a session.
func (s *ServiceImplementation) Register(ctx context.Context, req shared.CreateUserRequest) (*shared.User, *shared.TokenResponse, error) {
	_, err := s.repo.FindByEmail(ctx, req.Email)
	if err == nil {
		return nil, nil, common.ErrConflict.WithDetails("User with this email already exists.")
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, nil, fmt.Errorf("failed to check existing user by email: %w", err)
	}

	hashedPassword, err := common.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("Failed to hash password during registration", zap.Error(err))
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	dbUser := CreateRequestToDB(&req, hashedPassword)
	if err := s.repo.Create(ctx, dbUser); err != nil {
		s.logger.Error("Failed to create user in repository", zap.Error(err), zap.String("email", req.Email))
		if apiErr, ok := common.IsAPIError(err); ok {
			return nil, nil, apiErr
		}
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	sharedUser := DBToShared(dbUser)

	// No automatic retry on delivery failure: the user record exists and the
	// caller is told to try again via the resend endpoint.
	if err := s.confirmations.SendConfirmationLink(ctx, *dbUser.Email); err != nil {
		s.logger.Error("Failed to send confirmation link after registration",
			zap.Error(err), zap.String("userID", dbUser.ID.String()))
		return nil, nil, err
	}

	tokenResponse, err := s.sessions.IssueSession(ctx, sharedUser)
	if err != nil {
		s.logger.Error("Failed to issue session after registration", zap.Error(err), zap.String("userID", dbUser.ID.String()))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not issue session.")
	}

	s.logger.Info("User registered successfully", zap.String("userID", sharedUser.ID.String()))
	return sharedUser, tokenResponse, nil
}

// Login authenticates an email/password pair and issues a session.
func (s *ServiceImplementation) Login(ctx context.Context, email, password string) (*shared.User, *shared.TokenResponse, error) {
	dbUser, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Info("User not found during login", zap.String("email", email))
			return nil, nil, common.ErrUnauthorized.WithDetails("Invalid email or password.")
		}
		s.logger.Error("Error finding user by email during login", zap.Error(err), zap.String("email", email))
		return nil, nil, common.ErrInternalServer.WithDetails("Login failed due to an internal error.")
	}

	if dbUser.PasswordHash == nil || *dbUser.PasswordHash == "" {
		s.logger.Warn("Password login attempted for account without a password hash",
			zap.String("userID", dbUser.ID.String()))
		return nil, nil, common.ErrUnauthorized.WithDetails("Login with email/password not configured for this account.")
	}

	if !common.CheckPasswordHash(password, *dbUser.PasswordHash) {
		s.logger.Warn("Invalid password attempt", zap.String("userID", dbUser.ID.String()))
		return nil, nil, common.ErrUnauthorized.WithDetails("Invalid email or password.")
	}

	now := time.Now()
	dbUser.LastLoginAt = &now
	if err := s.repo.Update(ctx, dbUser); err != nil {
		// Not critical for auth, proceed with login.
		s.logger.Error("Failed to update last login time", zap.Error(err), zap.String("userID", dbUser.ID.String()))
	}

	sharedUser := DBToShared(dbUser)
	tokenResponse, err := s.sessions.IssueSession(ctx, sharedUser)
	if err != nil {
		s.logger.Error("Failed to issue session on login", zap.Error(err), zap.String("userID", dbUser.ID.String()))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not issue session.")
	}

	s.logger.Info("User logged in successfully", zap.String("userID", sharedUser.ID.String()))
	return sharedUser, tokenResponse, nil
}

func (s *ServiceImplementation) GetUserByID(ctx context.Context, id uuid.UUID) (*shared.User, error) {
	dbUser, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Info("User not found by ID", zap.String("userID", id.String()))
		} else {
			s.logger.Error("Error finding user by ID", zap.Error(err), zap.String("userID", id.String()))
		}
		return nil, err
	}
	return DBToShared(dbUser), nil
}

func (s *ServiceImplementation) GetUserByEmail(ctx context.Context, email string) (*shared.User, error) {
	dbUser, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Info("User not found by email", zap.String("email", email))
		} else {
			s.logger.Error("Error finding user by email", zap.Error(err), zap.String("email", email))
		}
		return nil, err
	}
	return DBToShared(dbUser), nil
}

// ChangePassword verifies the current password and replaces the stored hash.
func (s *ServiceImplementation) ChangePassword(ctx context.Context, id uuid.UUID, currentPassword, newPassword string) error {
	dbUser, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if dbUser.PasswordHash == nil || *dbUser.PasswordHash == "" {
		return common.ErrConflict.WithDetails("Password change is not available for accounts registered with Google.")
	}
	if !common.CheckPasswordHash(currentPassword, *dbUser.PasswordHash) {
		s.logger.Warn("Password change with wrong current password", zap.String("userID", id.String()))
		return common.ErrUnauthorized.WithDetails("Current password is incorrect.")
	}

	newHash, err := common.HashPassword(newPassword)
	if err != nil {
		s.logger.Error("Failed to hash new password", zap.Error(err), zap.String("userID", id.String()))
		return fmt.Errorf("failed to hash password: %w", err)
	}

	dbUser.PasswordHash = &newHash
	if err := s.repo.Update(ctx, dbUser); err != nil {
		s.logger.Error("Failed to persist new password hash", zap.Error(err), zap.String("userID", id.String()))
		return common.ErrInternalServer.WithDetails("Could not update password.")
	}

	s.logger.Info("Password changed", zap.String("userID", id.String()))
	return nil
}

// CreateGoogleUser provisions a new account for a decoded Google identity
// claim: no password hash, Google flag set, email confirmed per the claim.
func (s *ServiceImplementation) CreateGoogleUser(ctx context.Context, name, email string, emailVerified bool) (*shared.User, error) {
	now := time.Now()
	emailCopy := strings.ToLower(strings.TrimSpace(email))
	dbUser := &User{
		BaseModel: common.BaseModel{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Email:                  &emailCopy,
		IsRegisteredWithGoogle: true,
		IsEmailConfirmed:       emailVerified,
		Role:                   common.RoleUser,
		LastLoginAt:            &now,
	}
	if name != "" {
		nameCopy := name
		dbUser.Name = &nameCopy
	}

	if err := s.repo.Create(ctx, dbUser); err != nil {
		s.logger.Error("Failed to create Google user", zap.Error(err), zap.String("email", email))
		if apiErr, ok := common.IsAPIError(err); ok {
			return nil, apiErr
		}
		return nil, common.ErrInternalServer.WithDetails("Could not create new user account.")
	}

	s.logger.Info("New Google user created", zap.String("userID", dbUser.ID.String()))
	return DBToShared(dbUser), nil
}

// MarkEmailConfirmed delegates the conditional confirmed-flag transition to
// the repository. Returns false when the flag was already set.
func (s *ServiceImplementation) MarkEmailConfirmed(ctx context.Context, email string) (bool, error) {
	return s.repo.MarkEmailConfirmed(ctx, email)
}
