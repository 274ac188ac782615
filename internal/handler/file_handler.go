package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/talentdesk/intake-api/internal/dto"
	appErrors "github.com/talentdesk/intake-api/pkg/errors"
	"github.com/talentdesk/intake-api/pkg/response"
)

type fileService interface {
	Get(ctx context.Context, id string) (*dto.FileSummary, error)
	List(ctx context.Context, query dto.FileListQuery, limit, offset int) ([]dto.FileSummary, error)
	Delete(ctx context.Context, id string) error
}

// FileHandler serves the admin file-metadata endpoints.
type FileHandler struct {
	service fileService
}

// NewFileHandler constructs the handler.
func NewFileHandler(service fileService) *FileHandler {
	return &FileHandler{service: service}
}

// Get godoc
// @Summary Get file metadata
// @Tags Files
// @Produce json
// @Param id path string true "File ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/files/{id} [get]
func (h *FileHandler) Get(c *gin.Context) {
	summary, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, 200, summary, nil)
}

// List godoc
// @Summary List file metadata
// @Tags Files
// @Produce json
// @Param uploadedBy query string false "Uploader email"
// @Param category query string false "Category filter"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/files [get]
func (h *FileHandler) List(c *gin.Context) {
	var query dto.FileListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid file query"))
		return
	}
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)

	summaries, err := h.service.List(c.Request.Context(), query, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, 200, summaries, nil)
}

// Delete godoc
// @Summary Delete a file
// @Tags Files
// @Param id path string true "File ID"
// @Success 204 "No Content"
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/files/{id} [delete]
func (h *FileHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
