// File: internal/emailconfirmation/handler.go
package emailconfirmation

import (
	"net/http"

	"fintrack_backend/internal/common"
	"fintrack_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler exposes the email confirmation HTTP endpoints.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new email confirmation handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger.Named("EmailConfirmationHandler"),
	}
}

// RegisterRoutes sets up the routes for email confirmation operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	group := router.Group("/email-confirmation")
	{
		group.POST("/resend-confirmation-link", authMW, h.ResendConfirmationLink)
		group.GET("/confirm", h.ConfirmEmail)
	}
}

// ResendConfirmationLink handles POST /email-confirmation/resend-confirmation-link.
// The target address is the authenticated caller's own; it is never taken
// from the request body.
func (h *Handler) ResendConfirmationLink(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("User not authenticated."))
		return
	}

	if err := h.service.ResendConfirmationLink(c.Request.Context(), userID); err != nil {
		common.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Confirmation link sent."})
}

// ConfirmEmail handles GET /email-confirmation/confirm?token=...
func (h *Handler) ConfirmEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Confirmation token is required."))
		return
	}

	if err := h.service.ConfirmEmail(c.Request.Context(), token); err != nil {
		common.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Email confirmed successfully!"})
}
