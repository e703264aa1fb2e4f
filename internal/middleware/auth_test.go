package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fintrack_backend/internal/common"
	"fintrack_backend/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeTokenService validates exactly one known token string.
type fakeTokenService struct {
	validToken string
	claims     *shared.Claims
}

func (f *fakeTokenService) GenerateAccessToken(userData shared.UserDataForToken) (string, time.Time, error) {
	return "", time.Time{}, nil
}

func (f *fakeTokenService) GenerateRefreshToken(userData shared.UserDataForToken) (string, time.Time, error) {
	return "", time.Time{}, nil
}

func (f *fakeTokenService) ValidateToken(tokenString string) (*shared.Claims, error) {
	if tokenString == f.validToken {
		return f.claims, nil
	}
	return nil, common.ErrUnauthorized.WithDetails("Invalid token.")
}

func (f *fakeTokenService) ParseRefreshToken(refreshTokenString string) (*shared.Claims, error) {
	return nil, common.ErrUnauthorized
}

// fakeBlocklist marks a single JTI as revoked.
type fakeBlocklist struct {
	revokedJTI string
}

func (f *fakeBlocklist) IsBlocklisted(ctx context.Context, jti string) (bool, error) {
	return jti == f.revokedJTI, nil
}

func setupAuthRouter(tokens shared.TokenService, blocklist TokenBlocklist) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", AuthMiddleware(tokens, blocklist, zap.NewNop()), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userID": GetUserIDFromContext(c).String()})
	})
	return router
}

func testClaims(userID uuid.UUID, jti string) *shared.Claims {
	return &shared.Claims{
		UserID: userID,
		Email:  "mw@example.com",
		Role:   "user",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	tokens := &fakeTokenService{
		validToken: "valid-token",
		claims:     testClaims(userID, "jti-1"),
	}

	tests := []struct {
		name       string
		authHeader string
		blocklist  TokenBlocklist
		wantStatus int
	}{
		{
			name:       "missing header",
			authHeader: "",
			blocklist:  &fakeBlocklist{},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed header",
			authHeader: "valid-token",
			blocklist:  &fakeBlocklist{},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid token",
			authHeader: "Bearer bogus",
			blocklist:  &fakeBlocklist{},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "valid token",
			authHeader: "Bearer valid-token",
			blocklist:  &fakeBlocklist{},
			wantStatus: http.StatusOK,
		},
		{
			name:       "revoked token",
			authHeader: "Bearer valid-token",
			blocklist:  &fakeBlocklist{revokedJTI: "jti-1"},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupAuthRouter(tokens, tt.blocklist)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set(AuthorizationHeader, tt.authHeader)
			}
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestGetUserIDFromContext_Missing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	require.Equal(t, uuid.Nil, GetUserIDFromContext(c))
	require.Equal(t, "", GetUserRoleFromContext(c))
	require.Nil(t, GetUserClaimsFromContext(c))
}
