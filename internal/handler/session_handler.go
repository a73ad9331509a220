package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mentorhub/mentor-dash-api/internal/dto"
	"github.com/mentorhub/mentor-dash-api/internal/middleware"
	"github.com/mentorhub/mentor-dash-api/internal/service"
	appErrors "github.com/mentorhub/mentor-dash-api/pkg/errors"
	"github.com/mentorhub/mentor-dash-api/pkg/response"
)

// SessionHandler manages the mentor session feed and detail endpoints.
type SessionHandler struct {
	service *service.SessionService
}

// NewSessionHandler constructs handler.
func NewSessionHandler(svc *service.SessionService) *SessionHandler {
	return &SessionHandler{service: svc}
}

// Upcoming godoc
// @Summary Get a mentor's upcoming sessions across cohorts
// @Tags Sessions
// @Produce json
// @Param mentor_id query int true "Mentor ID"
// @Param days query int false "Days ahead"
// @Success 200 {object} response.Envelope
// @Router /mentor/sessions [get]
func (h *SessionHandler) Upcoming(c *gin.Context) {
	mentorID, _ := strconv.ParseInt(c.Query("mentor_id"), 10, 64)
	days, _ := strconv.Atoi(c.Query("days"))

	feed, err := h.service.Upcoming(c.Request.Context(), mentorID, days)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, feed)
}

// Details godoc
// @Summary Get one session's details
// @Tags Sessions
// @Produce json
// @Param table query string true "Cohort table name"
// @Param date query string true "Session date (YYYY-MM-DD)"
// @Param time query string true "Session time"
// @Success 200 {object} response.Envelope
// @Router /mentor/session-details [get]
func (h *SessionHandler) Details(c *gin.Context) {
	detail, err := h.service.Details(c.Request.Context(), c.Query("table"), c.Query("date"), c.Query("time"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail)
}

// AddMaterial godoc
// @Summary Append material links to a session
// @Tags Sessions
// @Accept json
// @Produce json
// @Param request body dto.AddMaterialRequest true "Links"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /mentor/session-material [post]
func (h *SessionHandler) AddMaterial(c *gin.Context) {
	var req dto.AddMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	if claims, ok := middleware.MentorClaims(c); ok {
		req.ActorMentorID = claims.MentorID
	}

	links, err := h.service.AddMaterials(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"materialLinks": links})
}
