package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mentorhub/mentor-dash-api/internal/dto"
	"github.com/mentorhub/mentor-dash-api/internal/service"
	appErrors "github.com/mentorhub/mentor-dash-api/pkg/errors"
	"github.com/mentorhub/mentor-dash-api/pkg/response"
)

// AttendanceHandler manages mentor attendance endpoints.
type AttendanceHandler struct {
	service *service.AttendanceService
}

// NewAttendanceHandler constructs handler.
func NewAttendanceHandler(svc *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: svc}
}

// Compute godoc
// @Summary Recompute one mentor's attendance summary
// @Tags Attendance
// @Accept json
// @Produce json
// @Param request body dto.ComputeAttendanceRequest true "Mentor"
// @Success 200 {object} response.Envelope
// @Router /mentor-attendance [post]
func (h *AttendanceHandler) Compute(c *gin.Context) {
	var req dto.ComputeAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}

	data, err := h.service.Compute(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, data)
}

// Leaderboard godoc
// @Summary List all attendance summaries
// @Tags Attendance
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /mentor-attendance [get]
func (h *AttendanceHandler) Leaderboard(c *gin.Context) {
	data, err := h.service.Leaderboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, data)
}

// Recompute godoc
// @Summary Queue an attendance recompute for every mentor
// @Tags Attendance
// @Produce json
// @Success 202 {object} response.Envelope
// @Router /mentor-attendance/recompute [post]
func (h *AttendanceHandler) Recompute(c *gin.Context) {
	queued, err := h.service.RecomputeAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusAccepted, "recompute queued", gin.H{"queued": queued})
}

// Export godoc
// @Summary Export attendance summaries as CSV or PDF
// @Tags Attendance
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Router /mentor-attendance/export [get]
func (h *AttendanceHandler) Export(c *gin.Context) {
	body, contentType, filename, err := h.service.Export(c.Request.Context(), c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, body)
}
