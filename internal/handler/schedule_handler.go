package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mentorhub/mentor-dash-api/internal/dto"
	"github.com/mentorhub/mentor-dash-api/internal/service"
	appErrors "github.com/mentorhub/mentor-dash-api/pkg/errors"
	"github.com/mentorhub/mentor-dash-api/pkg/response"
)

// ScheduleHandler manages cohort catalog, schedule and reschedule endpoints.
type ScheduleHandler struct {
	schedules   *service.ScheduleService
	reschedules *service.RescheduleService
}

// NewScheduleHandler constructs handler.
func NewScheduleHandler(schedules *service.ScheduleService, reschedules *service.RescheduleService) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules, reschedules: reschedules}
}

// Cohorts godoc
// @Summary List cohort timelines
// @Tags Schedule
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /cohorts [get]
func (h *ScheduleHandler) Cohorts(c *gin.Context) {
	cohorts, err := h.schedules.Cohorts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cohorts)
}

// Schedule godoc
// @Summary Get one cohort's schedule
// @Tags Schedule
// @Produce json
// @Param tableName query string true "Cohort table name"
// @Param mentor_id query int false "Restrict to one mentor's rows"
// @Success 200 {object} response.Envelope
// @Router /cohort/schedule [get]
func (h *ScheduleHandler) Schedule(c *gin.Context) {
	tableName := c.Query("tableName")
	mentorID, _ := strconv.ParseInt(c.Query("mentor_id"), 10, 64)

	sessions, err := h.schedules.Schedule(c.Request.Context(), tableName, mentorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sessions)
}

// UpdateCell godoc
// @Summary Update a single schedule field
// @Tags Schedule
// @Accept json
// @Produce json
// @Param request body dto.UpdateCellRequest true "Cell update"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /cohort/schedule [patch]
func (h *ScheduleHandler) UpdateCell(c *gin.Context) {
	var req dto.UpdateCellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}

	if err := h.schedules.UpdateCell(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "schedule updated", nil)
}

// RescheduleOptions godoc
// @Summary List legal target dates for moving a session
// @Tags Schedule
// @Produce json
// @Param tableName query string true "Cohort table name"
// @Param id query int true "Session ID"
// @Param direction query string true "postpone or prepone"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /cohort/schedule/reschedule-options [get]
func (h *ScheduleHandler) RescheduleOptions(c *gin.Context) {
	sessionID, _ := strconv.ParseInt(c.Query("id"), 10, 64)

	options, err := h.reschedules.Options(c.Request.Context(), c.Query("tableName"), sessionID, c.Query("direction"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, options)
}

// Reschedule godoc
// @Summary Commit a session move
// @Tags Schedule
// @Accept json
// @Produce json
// @Param request body dto.MoveSessionRequest true "Move"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /cohort/schedule/reschedule [post]
func (h *ScheduleHandler) Reschedule(c *gin.Context) {
	var req dto.MoveSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}

	applied, err := h.reschedules.Move(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, applied)
}
