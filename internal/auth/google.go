// File: internal/auth/google.go
package auth

import (
	"context"
	"errors"

	"fintrack_backend/internal/common"
	"fintrack_backend/internal/config"
	"fintrack_backend/internal/shared"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const googleIssuer = "https://accounts.google.com"

// Authentication intents for the Google flow. The client states whether the
// token is presented to log into an existing account or to create one; there
// is no account-linking path between the two.
const (
	IntentLogin  = "login"
	IntentSignup = "signup"
)

// GoogleService validates Google-issued identity tokens and maps them onto
// local accounts.
type GoogleService struct {
	cfg      *config.Config
	users    GoogleUserProvider
	sessions *SessionService
	logger   *zap.Logger
}

// NewGoogleService creates a new Google authentication service.
func NewGoogleService(
	cfg *config.Config,
	users GoogleUserProvider,
	sessions *SessionService,
	logger *zap.Logger,
) *GoogleService {
	return &GoogleService{
		cfg:      cfg,
		users:    users,
		sessions: sessions,
		logger:   logger.Named("GoogleService"),
	}
}

// googleIdentityClaim is the decoded third-party token payload used to
// authorize or provision a local account. It is never persisted.
type googleIdentityClaim struct {
	Email         string
	Name          string
	EmailVerified bool
}

// Authenticate validates a Google identity token and either logs into or
// provisions a local account, depending on the stated intent.
//
// The token payload is decoded without cryptographic signature verification;
// only the audience and issuer claims are checked against configuration.
// This mirrors the upstream client contract where the token was just handed
// to the browser by Google, but it does mean a forged token with matching
// claims would pass. Full verification against Google's published JWKS is a
// known follow-up.
func (s *GoogleService) Authenticate(ctx context.Context, identityToken, intent string) (*shared.User, *shared.TokenResponse, error) {
	if identityToken == "" {
		return nil, nil, common.ErrUnauthorized.WithDetails("Google auth token is required.")
	}

	claim, err := s.decodeIdentityToken(identityToken)
	if err != nil {
		return nil, nil, err
	}

	usr, err := s.users.GetUserByEmail(ctx, claim.Email)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		s.logger.Error("Error looking up user for Google auth", zap.Error(err), zap.String("email", claim.Email))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not look up user account.")
	}
	found := err == nil

	switch {
	case found && intent == IntentLogin:
		return s.handleRegisteredUser(ctx, usr)
	case !found && intent == IntentSignup:
		newUser, err := s.users.CreateGoogleUser(ctx, claim.Name, claim.Email, claim.EmailVerified)
		if err != nil {
			return nil, nil, err
		}
		tokens, err := s.sessions.IssueSession(ctx, newUser)
		if err != nil {
			return nil, nil, err
		}
		s.logger.Info("Google signup successful", zap.String("userID", newUser.ID.String()))
		return newUser, tokens, nil
	default:
		// Signup for an already-registered email, or login for an unknown
		// one. There is no linking path, both are terminal.
		if found {
			s.logger.Info("Google signup attempted for registered email", zap.String("email", claim.Email))
		}
		return nil, nil, common.ErrConflict.WithDetails("Invalid signup type.")
	}
}

// decodeIdentityToken extracts and validates the claims of a Google identity
// token without verifying its signature.
func (s *GoogleService) decodeIdentityToken(identityToken string) (*googleIdentityClaim, error) {
	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(identityToken, jwt.MapClaims{})
	if err != nil {
		s.logger.Warn("Failed to decode Google identity token", zap.Error(err))
		return nil, common.ErrUnauthorized.WithDetails("Invalid token.")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || len(claims) == 0 {
		return nil, common.ErrUnauthorized.WithDetails("Invalid token.")
	}

	audience, err := claims.GetAudience()
	if err != nil || !containsAudience(audience, s.cfg.GoogleClientID) {
		s.logger.Warn("Google identity token audience mismatch", zap.Strings("aud", audience))
		return nil, common.ErrUnauthorized.WithDetails("Invalid audience.")
	}

	issuer, err := claims.GetIssuer()
	if err != nil || issuer != googleIssuer {
		s.logger.Warn("Google identity token issuer mismatch", zap.String("iss", issuer))
		return nil, common.ErrUnauthorized.WithDetails("Invalid issuer.")
	}

	email, _ := claims["email"].(string)
	if email == "" {
		return nil, common.ErrUnauthorized.WithDetails("Invalid token.")
	}
	name, _ := claims["name"].(string)
	emailVerified, _ := claims["email_verified"].(bool)

	return &googleIdentityClaim{
		Email:         email,
		Name:          name,
		EmailVerified: emailVerified,
	}, nil
}

// handleRegisteredUser issues a session for an existing account, provided it
// was originally registered via Google.
func (s *GoogleService) handleRegisteredUser(ctx context.Context, usr *shared.User) (*shared.User, *shared.TokenResponse, error) {
	if usr == nil || !usr.IsRegisteredWithGoogle {
		return nil, nil, common.ErrUnauthorized.WithDetails("Email not registered with Google.")
	}
	tokens, err := s.sessions.IssueSession(ctx, usr)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Info("Google login successful", zap.String("userID", usr.ID.String()))
	return usr, tokens, nil
}

func containsAudience(audience jwt.ClaimStrings, clientID string) bool {
	if clientID == "" {
		return false
	}
	for _, aud := range audience {
		if aud == clientID {
			return true
		}
	}
	return false
}
