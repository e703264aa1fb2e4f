// File: internal/auth/session.go
package auth

import (
	"context"

	"fintrack_backend/internal/common"
	"fintrack_backend/internal/shared"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionService issues and revokes session token pairs. Issuing a session
// overwrites the user's stored refresh token value, which implicitly revokes
// any previously issued refresh token (single active refresh token per user).
type SessionService struct {
	tokens    shared.TokenService
	store     RefreshTokenStore
	blocklist TokenBlocklistService
	logger    *zap.Logger
}

var _ shared.SessionIssuer = (*SessionService)(nil)

// NewSessionService creates a new session service.
func NewSessionService(
	tokens shared.TokenService,
	store RefreshTokenStore,
	blocklist TokenBlocklistService,
	logger *zap.Logger,
) *SessionService {
	return &SessionService{
		tokens:    tokens,
		store:     store,
		blocklist: blocklist,
		logger:    logger.Named("SessionService"),
	}
}

// IssueSession generates an access and a refresh token for a validated user
// and persists the refresh token value on the user record.
func (s *SessionService) IssueSession(ctx context.Context, usr *shared.User) (*shared.TokenResponse, error) {
	accessToken, accessExpiresAt, err := s.tokens.GenerateAccessToken(usr)
	if err != nil {
		return nil, err
	}
	refreshToken, refreshExpiresAt, err := s.tokens.GenerateRefreshToken(usr)
	if err != nil {
		return nil, err
	}

	if err := s.store.SetRefreshToken(ctx, usr.ID, &refreshToken, &refreshExpiresAt); err != nil {
		s.logger.Error("Failed to persist refresh token", zap.Error(err), zap.String("userID", usr.ID.String()))
		return nil, common.ErrInternalServer.WithDetails("Could not persist session.")
	}

	return &shared.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresAt:    accessExpiresAt,
	}, nil
}

// Refresh exchanges a valid, still-stored refresh token for a new access
// token. The refresh token itself is not rotated.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (*shared.TokenResponse, error) {
	claims, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, common.ErrUnauthorized.WithDetails("Invalid or expired refresh token.")
	}

	stored, err := s.store.GetRefreshToken(ctx, claims.UserID)
	if err != nil {
		return nil, common.ErrUnauthorized.WithDetails("User associated with refresh token not found.")
	}
	if stored == nil || *stored != refreshToken {
		// A newer session overwrote this value, or logout cleared it.
		s.logger.Warn("Refresh attempted with revoked token", zap.String("userID", claims.UserID.String()))
		return nil, common.ErrUnauthorized.WithDetails("Refresh token has been revoked.")
	}

	accessToken, accessExpiresAt, err := s.tokens.GenerateAccessToken(&tokenUser{claims: claims})
	if err != nil {
		return nil, err
	}

	return &shared.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresAt:    accessExpiresAt,
	}, nil
}

// Revoke ends the session identified by the access token claims: the stored
// refresh token value is cleared and the access token's JTI is blocklisted
// until its natural expiry.
func (s *SessionService) Revoke(ctx context.Context, claims *shared.Claims) error {
	if err := s.store.SetRefreshToken(ctx, claims.UserID, nil, nil); err != nil {
		s.logger.Error("Failed to clear refresh token on logout", zap.Error(err), zap.String("userID", claims.UserID.String()))
		return common.ErrInternalServer.WithDetails("Could not end session.")
	}
	if claims.ExpiresAt != nil {
		if err := s.blocklist.AddToBlocklist(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
			s.logger.Error("Failed to blocklist access token on logout", zap.Error(err), zap.String("jti", claims.ID))
		}
	}
	s.logger.Info("Session revoked", zap.String("userID", claims.UserID.String()))
	return nil
}

// tokenUser adapts refresh-token claims to the token generation interface so
// a new access token can be minted without a user lookup.
type tokenUser struct {
	claims *shared.Claims
}

func (t *tokenUser) GetID() uuid.UUID { return t.claims.UserID }

func (t *tokenUser) GetEmail() *string {
	if t.claims.Email == "" {
		return nil
	}
	return &t.claims.Email
}

func (t *tokenUser) GetRole() string { return t.claims.Role }
