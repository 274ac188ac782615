package handler

import (
	"fmt"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/talentdesk/intake-api/pkg/errors"
	"github.com/talentdesk/intake-api/pkg/response"
	"github.com/talentdesk/intake-api/pkg/storage"
)

type blobOpener interface {
	Open(objectID string) (*os.File, error)
}

// DownloadHandler serves locally stored blobs behind the signed URLs the
// local backend mints. It is only mounted when that backend is active;
// the provider backend serves its own URLs.
type DownloadHandler struct {
	blobs  blobOpener
	signer *storage.URLSigner
}

// NewDownloadHandler constructs the handler. signer may be nil, in which
// case downloads are unauthenticated (dev only).
func NewDownloadHandler(blobs blobOpener, signer *storage.URLSigner) *DownloadHandler {
	return &DownloadHandler{blobs: blobs, signer: signer}
}

// Download streams one stored blob. The token must both verify and name
// the exact object being requested.
func (h *DownloadHandler) Download(c *gin.Context) {
	object := strings.TrimPrefix(c.Param("object"), "/")
	if object == "" || strings.Contains(object, "..") {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "object not found"))
		return
	}

	if h.signer != nil {
		signed, _, err := h.signer.Parse(c.Query("token"))
		if err != nil || signed != object {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "download link is invalid or expired"))
			return
		}
	}

	file, err := h.blobs.Open(object)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "object not found"))
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read object"))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", path.Base(object)))
	c.DataFromReader(http.StatusOK, info.Size(), "application/octet-stream", file, nil)
}
