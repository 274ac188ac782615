package handler

import (
	"context"
	"mime/multipart"

	"github.com/gin-gonic/gin"

	"github.com/talentdesk/intake-api/internal/dto"
	"github.com/talentdesk/intake-api/internal/service"
	appErrors "github.com/talentdesk/intake-api/pkg/errors"
	"github.com/talentdesk/intake-api/pkg/filecheck"
	"github.com/talentdesk/intake-api/pkg/response"
)

type submissionService interface {
	Submit(ctx context.Context, req dto.SubmissionRequest, photograph, resume filecheck.Upload, meta service.SubmissionMeta) (*dto.SubmissionResponse, error)
}

// SubmissionHandler serves the public candidate intake endpoint.
type SubmissionHandler struct {
	service submissionService
}

// NewSubmissionHandler constructs the handler.
func NewSubmissionHandler(service submissionService) *SubmissionHandler {
	return &SubmissionHandler{service: service}
}

// Submit godoc
// @Summary Submit a candidate application
// @Tags Applications
// @Accept multipart/form-data
// @Produce json
// @Param fullName formData string true "Full name"
// @Param age formData int true "Age"
// @Param mobile formData string true "Mobile number"
// @Param email formData string true "Email"
// @Param city formData string true "City"
// @Param state formData string true "State"
// @Param qualification formData string true "Qualification"
// @Param specialization formData string true "Specialization"
// @Param college formData string true "College"
// @Param yearOfPassing formData int true "Year of passing"
// @Param role formData string true "Role applied for"
// @Param skillSet formData string true "Skill set"
// @Param experience formData string true "Experience"
// @Param availability formData string true "Availability"
// @Param declaration formData bool true "Declaration accepted"
// @Param photograph formData file true "Photograph (JPEG, PNG or WebP)"
// @Param resume formData file true "Resume (PDF)"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Router /applications [post]
func (h *SubmissionHandler) Submit(c *gin.Context) {
	var req dto.SubmissionRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrMalformedRequest.Code, appErrors.ErrMalformedRequest.Status, "request body could not be parsed"))
		return
	}

	photograph, closePhoto, err := formUpload(c, "photograph")
	if err != nil {
		response.Error(c, err)
		return
	}
	defer closePhoto()

	resume, closeResume, err := formUpload(c, "resume")
	if err != nil {
		response.Error(c, err)
		return
	}
	defer closeResume()

	meta := service.SubmissionMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Source:    "careers-site",
	}

	resp, err := h.service.Submit(c.Request.Context(), req, photograph, resume, meta)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, resp)
}

// formUpload opens one multipart file part. A missing part returns a zero
// Upload so the validator reports the per-field MISSING_FILE error instead
// of a generic bind failure.
func formUpload(c *gin.Context, field string) (filecheck.Upload, func(), error) {
	header, err := c.FormFile(field)
	if err != nil {
		return filecheck.Upload{Field: field}, func() {}, nil
	}
	src, err := header.Open()
	if err != nil {
		return filecheck.Upload{}, func() {}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open uploaded file")
	}
	return filecheck.Upload{
		Field:    field,
		Filename: header.Filename,
		MimeType: contentType(header),
		Size:     header.Size,
		Content:  src,
	}, func() { src.Close() }, nil
}

func contentType(header *multipart.FileHeader) string {
	return header.Header.Get("Content-Type")
}
