package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mentorhub/mentor-dash-api/internal/dto"
	"github.com/mentorhub/mentor-dash-api/internal/service"
	appErrors "github.com/mentorhub/mentor-dash-api/pkg/errors"
	"github.com/mentorhub/mentor-dash-api/pkg/response"
)

// AuthHandler manages the magic-link sign-in endpoints.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// MagicLink godoc
// @Summary Issue a sign-in token for a mentor email
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.MagicLinkRequest true "Credentials"
// @Success 200 {object} response.Envelope
// @Router /auth/magic-link [post]
func (h *AuthHandler) MagicLink(c *gin.Context) {
	var req dto.MagicLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}

	data, err := h.service.MagicLink(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, data)
}

// Verify godoc
// @Summary Exchange a sign-in token for an access token
// @Tags Auth
// @Produce json
// @Param token query string true "Magic-link token"
// @Success 200 {object} response.Envelope
// @Router /auth/verify [get]
func (h *AuthHandler) Verify(c *gin.Context) {
	data, err := h.service.Verify(c.Request.Context(), c.Query("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, data)
}
