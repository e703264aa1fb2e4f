// File: internal/auth/service.go
package auth

import (
	"errors"
	"time"

	"fintrack_backend/internal/common"
	"fintrack_backend/internal/config"
	"fintrack_backend/internal/shared"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	accessTokenIssuer  = "fintrack_backend"
	refreshTokenIssuer = "fintrack_backend_refresh"
)

// JWTService signs and verifies the session token pair. Access and refresh
// tokens use distinct secrets and TTLs from the configuration.
type JWTService struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewJWTService creates a new JWT service.
func NewJWTService(cfg *config.Config, logger *zap.Logger) shared.TokenService {
	return &JWTService{cfg: cfg, logger: logger.Named("JWTService")}
}

func (s *JWTService) GenerateAccessToken(userData shared.UserDataForToken) (string, time.Time, error) {
	return s.generate(userData, []byte(s.cfg.JWTAccessSecret), s.cfg.JWTAccessTokenExpiry, accessTokenIssuer)
}

func (s *JWTService) GenerateRefreshToken(userData shared.UserDataForToken) (string, time.Time, error) {
	return s.generate(userData, []byte(s.cfg.JWTRefreshSecret), s.cfg.JWTRefreshTokenExpiry, refreshTokenIssuer)
}

func (s *JWTService) generate(userData shared.UserDataForToken, secret []byte, ttl time.Duration, issuer string) (string, time.Time, error) {
	expirationTime := time.Now().Add(ttl)

	userEmail := ""
	if userData.GetEmail() != nil {
		userEmail = *userData.GetEmail()
	}

	claims := &shared.Claims{
		UserID: userData.GetID(),
		Email:  userEmail,
		Role:   userData.GetRole(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    issuer,
			Subject:   userData.GetID().String(),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secret)
	if err != nil {
		s.logger.Error("Failed to sign token", zap.String("issuer", issuer), zap.Error(err))
		return "", time.Time{}, common.ErrInternalServer.WithDetails("Could not sign token.")
	}
	return tokenString, expirationTime, nil
}

// ValidateToken validates an access token and returns its claims.
func (s *JWTService) ValidateToken(tokenString string) (*shared.Claims, error) {
	return s.parse(tokenString, []byte(s.cfg.JWTAccessSecret))
}

// ParseRefreshToken validates a refresh token and returns its claims.
func (s *JWTService) ParseRefreshToken(refreshTokenString string) (*shared.Claims, error) {
	return s.parse(refreshTokenString, []byte(s.cfg.JWTRefreshSecret))
}

func (s *JWTService) parse(tokenString string, secret []byte) (*shared.Claims, error) {
	claims := &shared.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrUnauthorized.WithDetails("Token has expired.")
		}
		return nil, common.ErrUnauthorized.WithDetails("Invalid token.")
	}
	if !token.Valid {
		return nil, common.ErrUnauthorized.WithDetails("Invalid token.")
	}
	return claims, nil
}
