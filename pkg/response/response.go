package response

import (
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"

	"github.com/talentdesk/intake-api/internal/models"
	appErrors "github.com/talentdesk/intake-api/pkg/errors"
)

// Envelope represents the common response contract.
type Envelope struct {
	Success    bool                   `json:"success"`
	Data       interface{}            `json:"data,omitempty"`
	Error      string                 `json:"error,omitempty"`
	Message    string                 `json:"message,omitempty"`
	Hint       string                 `json:"hint,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Pagination *models.Pagination     `json:"pagination,omitempty"`
}

// exposeDetails controls whether error detail payloads are returned to
// clients. Enabled outside production only.
var exposeDetails atomic.Bool

// ExposeDetails toggles detail payloads on error responses.
func ExposeDetails(enabled bool) {
	exposeDetails.Store(enabled)
}

// JSON sends a success response with optional pagination metadata.
func JSON(c *gin.Context, status int, data interface{}, pagination *models.Pagination) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(status, Envelope{Success: true, Data: data, Pagination: pagination})
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data, nil)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	envelope := Envelope{
		Success: false,
		Error:   appErr.Code,
		Message: appErr.Message,
		Hint:    appErr.Hint,
	}
	if exposeDetails.Load() {
		envelope.Details = appErr.Details
	}
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(appErr.Status, envelope)
}

// MethodNotAllowed writes the fixed 405 body used by the submission route.
func MethodNotAllowed(c *gin.Context) {
	appErr := appErrors.ErrMethodNotAllowed
	c.JSON(appErr.Status, Envelope{Success: false, Error: appErr.Code, Message: appErr.Message})
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
