// File: internal/emailconfirmation/service.go
package emailconfirmation

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"fintrack_backend/internal/common"
	"fintrack_backend/internal/config"
	"fintrack_backend/internal/shared"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserStore defines the user operations needed by the confirmation flow.
// Implemented by user.Store.
type UserStore interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*shared.User, error)
	GetUserByEmail(ctx context.Context, email string) (*shared.User, error)
	MarkEmailConfirmed(ctx context.Context, email string) (bool, error)
}

// verificationClaims is the confirmation token payload. The token exists
// only in transit (emailed link); it is never persisted.
type verificationClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Service drives the Unconfirmed -> Confirmed transition: it issues signed,
// time-limited confirmation tokens, mails the links and verifies clicks.
type Service struct {
	cfg    *config.Config
	users  UserStore
	mailer shared.Mailer
	logger *zap.Logger
}

var _ shared.ConfirmationSender = (*Service)(nil)

// NewService creates a new email confirmation service.
func NewService(cfg *config.Config, users UserStore, mailer shared.Mailer, logger *zap.Logger) *Service {
	return &Service{
		cfg:    cfg,
		users:  users,
		mailer: mailer,
		logger: logger.Named("EmailConfirmationService"),
	}
}

// SendConfirmationLink issues a confirmation token for the address and
// dispatches the mail containing the confirmation URL.
func (s *Service) SendConfirmationLink(ctx context.Context, email string) error {
	token, err := s.issueConfirmationToken(email)
	if err != nil {
		s.logger.Error("Failed to sign confirmation token", zap.Error(err), zap.String("email", email))
		return common.ErrInternalServer.WithDetails("Could not issue confirmation token.")
	}

	confirmationURL := fmt.Sprintf("%s?token=%s", s.cfg.EmailConfirmationURL, url.QueryEscape(token))
	textBody := "Confirm Email"
	htmlBody := fmt.Sprintf(
		`<p>Welcome to the application. To confirm the email address, <a href="%s">CLICK HERE:</a></p>`,
		confirmationURL,
	)

	if err := s.mailer.Send(ctx, email, "Email confirmation", textBody, htmlBody); err != nil {
		return err
	}

	s.logger.Info("Confirmation link sent", zap.String("email", email))
	return nil
}

// ResendConfirmationLink re-issues and re-sends the confirmation link for an
// existing, still-unconfirmed user. Repeated calls produce repeated emails;
// there is no rate limiting.
func (s *Service) ResendConfirmationLink(ctx context.Context, pid uuid.UUID) error {
	usr, err := s.users.GetUserByID(ctx, pid)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound.WithDetails("User not found.")
		}
		return err
	}
	if usr.IsEmailConfirmed {
		return common.ErrConflict.WithDetails("Email already confirmed.")
	}
	if usr.Email == nil {
		return common.ErrInternalServer.WithDetails("User has no email address on record.")
	}
	return s.SendConfirmationLink(ctx, *usr.Email)
}

// ConfirmEmail verifies a confirmation token and performs the terminal
// Unconfirmed -> Confirmed transition for the embedded address.
func (s *Service) ConfirmEmail(ctx context.Context, token string) error {
	email, err := s.DecodeConfirmationToken(token)
	if err != nil {
		return err
	}

	usr, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound.WithDetails("User not found.")
		}
		return err
	}
	if usr.IsEmailConfirmed {
		return common.ErrConflict.WithDetails("Email address has already been confirmed.")
	}

	// Conditional update: 0 rows means a concurrent confirm won the race
	// between the read above and this write.
	confirmed, err := s.users.MarkEmailConfirmed(ctx, email)
	if err != nil {
		s.logger.Error("Failed to mark email as confirmed", zap.Error(err), zap.String("email", email))
		return common.ErrInternalServer.WithDetails("Could not confirm email.")
	}
	if !confirmed {
		return common.ErrConflict.WithDetails("Email address has already been confirmed.")
	}

	s.logger.Info("Email confirmed", zap.String("email", email))
	return nil
}

// DecodeConfirmationToken verifies the token signature and expiry and
// returns the embedded email address. Expiry surfaces as ErrExpired; every
// other decode failure surfaces uniformly as an invalid-token error.
func (s *Service) DecodeConfirmationToken(token string) (string, error) {
	claims := &verificationClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.EmailVerificationSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrExpired.WithDetails("Email confirmation token expired.")
		}
		s.logger.Warn("Failed to decode confirmation token", zap.Error(err))
		return "", common.ErrUnauthorized.WithDetails("Invalid confirmation token.")
	}
	if !parsed.Valid || claims.Email == "" {
		return "", common.ErrUnauthorized.WithDetails("Invalid confirmation token.")
	}
	return claims.Email, nil
}

func (s *Service) issueConfirmationToken(email string) (string, error) {
	now := time.Now()
	claims := &verificationClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.EmailVerificationExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.EmailVerificationSecret))
}
