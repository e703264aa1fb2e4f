// File: internal/auth/oauth_web.go
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"fintrack_backend/internal/common"
	"fintrack_backend/internal/shared"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// GetLoginURL generates the URL for the browser-initiated Google OAuth flow
// and plants the anti-CSRF state cookie.
func (s *GoogleService) GetLoginURL(c *gin.Context) (string, error) {
	state, err := generateAndSetOAuthState(c, s.cfg)
	if err != nil {
		s.logger.Error("Failed to generate OAuth state for Google", zap.Error(err))
		return "", common.ErrInternalServer.WithDetails("Could not initiate Google login.")
	}
	googleCfg := getGoogleOAuthConfig(s.cfg)
	return googleCfg.AuthCodeURL(state, oauth2.AccessTypeOffline), nil
}

// HandleCallback processes the redirect back from Google: it checks the
// state cookie, exchanges the code, fetches the user profile and funnels it
// through the same find-or-create path as the token-based flow.
func (s *GoogleService) HandleCallback(c *gin.Context, code, state string) (*shared.User, *shared.TokenResponse, error) {
	storedState, err := getOAuthCookie(c, s.cfg, s.cfg.OAuthStateCookieName)
	if err != nil {
		s.logger.Error("Failed to get stored OAuth state for Google callback", zap.Error(err))
		return nil, nil, common.ErrBadRequest.WithDetails("Invalid session or state mismatch.")
	}
	if state != storedState {
		s.logger.Error("Google OAuth state mismatch",
			zap.String("received_state", state), zap.String("stored_state", storedState))
		return nil, nil, common.ErrBadRequest.WithDetails("OAuth state mismatch. Possible CSRF attack.")
	}

	googleCfg := getGoogleOAuthConfig(s.cfg)
	ctx := c.Request.Context()

	token, err := googleCfg.Exchange(ctx, code)
	if err != nil {
		s.logger.Error("Failed to exchange Google auth code for token", zap.Error(err))
		return nil, nil, common.ErrServiceUnavailable.WithDetails("Could not exchange Google auth code.")
	}
	if !token.Valid() {
		return nil, nil, common.ErrServiceUnavailable.WithDetails("Received invalid token from Google.")
	}

	profile, err := s.fetchUserInfo(ctx, googleCfg, token)
	if err != nil {
		return nil, nil, err
	}

	usr, err := s.findOrCreateFromProfile(ctx, profile)
	if err != nil {
		return nil, nil, err
	}

	tokens, err := s.sessions.IssueSession(ctx, usr)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("Google OAuth callback successful", zap.String("userID", usr.ID.String()))
	return usr, tokens, nil
}

type googleUserInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

func (s *GoogleService) fetchUserInfo(ctx context.Context, googleCfg *oauth2.Config, token *oauth2.Token) (*googleUserInfo, error) {
	client := googleCfg.Client(ctx, token)
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		s.logger.Error("Failed to fetch user info from Google", zap.Error(err))
		return nil, common.ErrServiceUnavailable.WithDetails("Could not fetch user info from Google.")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		s.logger.Error("Google user info request failed",
			zap.Int("status", resp.StatusCode), zap.String("body", string(body)))
		return nil, common.ErrServiceUnavailable.WithDetails(
			fmt.Sprintf("Google returned status %d for user info.", resp.StatusCode))
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		s.logger.Error("Failed to decode Google user info", zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not process Google user information.")
	}
	if info.Email == "" {
		return nil, common.ErrServiceUnavailable.WithDetails("Google user info is missing an email address.")
	}
	info.Email = strings.ToLower(info.Email)
	return &info, nil
}

func (s *GoogleService) findOrCreateFromProfile(ctx context.Context, profile *googleUserInfo) (*shared.User, error) {
	usr, err := s.users.GetUserByEmail(ctx, profile.Email)
	if err == nil {
		if !usr.IsRegisteredWithGoogle {
			return nil, common.ErrConflict.WithDetails("This email is registered with a password. Log in with email and password instead.")
		}
		return usr, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		s.logger.Error("Error looking up user after Google callback", zap.Error(err), zap.String("email", profile.Email))
		return nil, common.ErrInternalServer.WithDetails("Could not look up user account.")
	}
	return s.users.CreateGoogleUser(ctx, profile.Name, profile.Email, profile.EmailVerified)
}
