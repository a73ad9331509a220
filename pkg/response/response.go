package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/mentorhub/mentor-dash-api/pkg/errors"
)

// Envelope matches the wire contract the dashboard frontend was built
// against: {"success":true,"data":...} on success and
// {"error":"...","details":"..."} on failure. Field names are fixed for
// compatibility.
type Envelope struct {
	Success bool        `json:"success,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Details string      `json:"details,omitempty"`
}

// JSON sends a success response.
func JSON(c *gin.Context, status int, data interface{}) {
	c.Header("Cache-Control", "no-store")
	c.JSON(status, Envelope{Success: true, Data: data})
}

// Message sends a success response carrying a human-readable message.
func Message(c *gin.Context, status int, message string, data interface{}) {
	c.Header("Cache-Control", "no-store")
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	envelope := Envelope{Error: appErr.Message}
	if appErr.Err != nil {
		envelope.Details = appErr.Err.Error()
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(appErr.Status, envelope)
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
