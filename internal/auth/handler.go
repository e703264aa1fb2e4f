// File: internal/auth/handler.go
package auth

import (
	"errors"
	"net/http"

	"fintrack_backend/internal/common"
	"fintrack_backend/internal/middleware"
	"fintrack_backend/internal/shared"
	"fintrack_backend/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for auth handlers.
type Handler struct {
	userService   shared.Service
	sessions      *SessionService
	googleService *GoogleService
	logger        *zap.Logger
}

// NewHandler creates a new auth handler.
func NewHandler(
	userService shared.Service,
	sessions *SessionService,
	googleService *GoogleService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		userService:   userService,
		sessions:      sessions,
		googleService: googleService,
		logger:        logger,
	}
}

// RegisterRoutes sets up the routes for authentication operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", h.login)
		authGroup.POST("/refresh-token", h.refreshToken)
		authGroup.POST("/logout", authMW, h.logout)
		authGroup.POST("/google", h.googleAuthenticate)
		authGroup.GET("/google/login", h.googleLogin)
		authGroup.GET("/google/callback", h.googleCallback)
	}
}

func (h *Handler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Login: Invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	loggedInUser, tokenResponse, err := h.userService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	response := gin.H{
		"user":  user.ToUserResponse(loggedInUser),
		"token": tokenResponse,
	}
	common.RespondOK(c, "Login successful.", response)
}

func (h *Handler) refreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Refresh token: Invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	tokenResponse, err := h.sessions.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Token refreshed successfully.", tokenResponse)
}

func (h *Handler) logout(c *gin.Context) {
	claims := middleware.GetUserClaimsFromContext(c)
	if claims == nil {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}

	if err := h.sessions.Revoke(c.Request.Context(), claims); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Logged out successfully.", nil)
}

func (h *Handler) googleAuthenticate(c *gin.Context) {
	var req GoogleAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Google authenticate: Invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	authedUser, tokenResponse, err := h.googleService.Authenticate(c.Request.Context(), req.Token, req.IsSignup)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accessToken":  tokenResponse.AccessToken,
		"refreshToken": tokenResponse.RefreshToken,
		"user":         user.ToUserResponse(authedUser),
	})
}

func (h *Handler) googleLogin(c *gin.Context) {
	authURL, err := h.googleService.GetLoginURL(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, authURL)
}

func (h *Handler) googleCallback(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")
	if errorParam := c.Query("error"); errorParam != "" {
		errorDesc := c.Query("error_description")
		h.logger.Error("Google OAuth callback error", zap.String("error", errorParam), zap.String("description", errorDesc))
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Google login failed: "+errorDesc))
		return
	}
	if code == "" || state == "" {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Missing authorization code or state from Google."))
		return
	}

	authedUser, tokenResponse, err := h.googleService.HandleCallback(c, code, state)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	response := gin.H{
		"user":  user.ToUserResponse(authedUser),
		"token": tokenResponse,
	}
	common.RespondOK(c, "Google login processed successfully.", response)
}
