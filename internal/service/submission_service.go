package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/talentdesk/intake-api/internal/dto"
	"github.com/talentdesk/intake-api/internal/models"
	appErrors "github.com/talentdesk/intake-api/pkg/errors"
	"github.com/talentdesk/intake-api/pkg/filecheck"
	"github.com/talentdesk/intake-api/pkg/jobs"
	"github.com/talentdesk/intake-api/pkg/storage"
)

type applicationWriter interface {
	Create(ctx context.Context, app *models.Application) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type fileWriter interface {
	Create(ctx context.Context, file *models.FileUpload) error
}

type cleanupEnqueuer interface {
	Enqueue(task jobs.CleanupTask) error
}

type pipelineMetrics interface {
	ObserveSubmission(outcome string)
	ObserveRejection(reason string)
	ObserveUpload(category string, bytes int64)
}

// SubmissionMeta captures request provenance recorded alongside file rows.
type SubmissionMeta struct {
	IPAddress string
	UserAgent string
	Source    string
}

// SubmissionService runs the intake pipeline: field validation, duplicate
// guard, file validation, blob uploads and persistence. Steps execute in a
// fixed order so no blob is uploaded for a submission that was going to be
// rejected anyway.
type SubmissionService struct {
	apps         applicationWriter
	files        fileWriter
	blobs        storage.BlobStore
	cleanup      cleanupEnqueuer
	validate     *validator.Validate
	logger       *zap.Logger
	metrics      pipelineMetrics
	folderPrefix string
}

// NewSubmissionService wires the pipeline. cleanup and metrics may be nil.
func NewSubmissionService(
	apps applicationWriter,
	files fileWriter,
	blobs storage.BlobStore,
	cleanup cleanupEnqueuer,
	validate *validator.Validate,
	logger *zap.Logger,
	metrics pipelineMetrics,
	folderPrefix string,
) *SubmissionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if folderPrefix == "" {
		folderPrefix = "candidates"
	}
	return &SubmissionService{
		apps:         apps,
		files:        files,
		blobs:        blobs,
		cleanup:      cleanup,
		validate:     validate,
		logger:       logger,
		metrics:      metrics,
		folderPrefix: folderPrefix,
	}
}

// Submit processes one candidate application end to end.
func (s *SubmissionService) Submit(ctx context.Context, req dto.SubmissionRequest, photograph, resume filecheck.Upload, meta SubmissionMeta) (*dto.SubmissionResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FullName = strings.TrimSpace(req.FullName)

	if err := s.validateFields(req); err != nil {
		return nil, s.reject(err)
	}

	exists, err := s.apps.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, s.reject(err)
	}
	if exists {
		return nil, s.reject(appErrors.ErrDuplicateEmail)
	}

	photograph.Field = "photograph"
	resume.Field = "resume"

	photoResult, err := filecheck.Validate(photograph, filecheck.CategoryImage)
	if err != nil {
		return nil, s.reject(err)
	}
	resumeResult, err := filecheck.Validate(resume, filecheck.CategoryPDF)
	if err != nil {
		return nil, s.reject(err)
	}

	photoObj, err := s.upload(ctx, photoResult, storage.KindImage, "photographs")
	if err != nil {
		return nil, s.reject(err)
	}
	resumeObj, err := s.upload(ctx, resumeResult, storage.KindRaw, "resumes")
	if err != nil {
		s.discard(photoObj.ID, storage.KindImage, "resume upload failed")
		return nil, s.reject(err)
	}

	app := &models.Application{
		ID:             uuid.NewString(),
		FullName:       req.FullName,
		Age:            req.Age,
		Gender:         req.Gender,
		Mobile:         req.Mobile,
		Email:          req.Email,
		City:           req.City,
		State:          req.State,
		Qualification:  req.Qualification,
		Specialization: req.Specialization,
		College:        req.College,
		YearOfPassing:  req.YearOfPassing,
		CareerGapYears: req.CareerGapYears,
		Role:           req.Role,
		SkillSet:       req.SkillSet,
		Experience:     req.Experience,
		LinkedInURL:    optional(req.LinkedInURL),
		GitHubURL:      optional(req.GitHubURL),
		PhotographURL:  photoObj.URL,
		ResumeURL:      resumeObj.URL,
		Availability:   req.Availability,
		Declaration:    req.Declaration,
		Status:         models.StatusPending,
		SubmittedAt:    time.Now().UTC(),
	}

	if err := s.apps.Create(ctx, app); err != nil {
		s.discard(photoObj.ID, storage.KindImage, "application insert failed")
		s.discard(resumeObj.ID, storage.KindRaw, "application insert failed")
		return nil, s.reject(err)
	}

	// Metadata rows are best-effort: the application row is the source of
	// truth and a failed index write must not fail the accepted submission.
	s.recordFile(ctx, app, photoResult, photoObj, "photograph", meta)
	s.recordFile(ctx, app, resumeResult, resumeObj, "resume", meta)

	if s.metrics != nil {
		s.metrics.ObserveSubmission("accepted")
	}
	s.logger.Sugar().Infow("application accepted",
		"application_id", app.ID, "email", app.Email, "role", app.Role)

	return &dto.SubmissionResponse{
		ApplicationID: app.ID,
		FullName:      app.FullName,
		Email:         app.Email,
		Role:          app.Role,
		SubmittedAt:   app.SubmittedAt,
	}, nil
}

// validateFields aggregates every field failure into one VALIDATION_FAILED
// error so the client can fix the form in a single round trip.
func (s *SubmissionService) validateFields(req dto.SubmissionRequest) error {
	var messages []string

	if err := s.validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "validation failed")
		}
		for _, fe := range fieldErrs {
			messages = append(messages, fieldMessage(fe))
		}
	}

	if max := time.Now().Year() + 5; req.YearOfPassing > max {
		messages = append(messages, fmt.Sprintf("yearOfPassing must not be later than %d", max))
	}

	if len(messages) == 0 {
		return nil
	}
	// The field messages go into the envelope message itself; details are
	// stripped in production and clients still need to know which fields
	// to fix.
	err := appErrors.Clone(appErrors.ErrValidation,
		"submission failed validation: "+strings.Join(messages, "; "))
	return appErrors.WithDetails(err, map[string]interface{}{"errors": messages})
}

func fieldMessage(fe validator.FieldError) string {
	field := formFieldName(fe.Field())
	switch fe.Tag() {
	case "required":
		if field == "declaration" {
			return "declaration must be accepted"
		}
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", field, fe.Param())
	case "numeric":
		return fmt.Sprintf("%s must contain digits only", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// formFieldName maps struct field names back to their multipart form keys.
var formFieldNames = map[string]string{
	"FullName":       "fullName",
	"Age":            "age",
	"Gender":         "gender",
	"Mobile":         "mobile",
	"Email":          "email",
	"City":           "city",
	"State":          "state",
	"Qualification":  "qualification",
	"Specialization": "specialization",
	"College":        "college",
	"YearOfPassing":  "yearOfPassing",
	"CareerGapYears": "careerGap",
	"Role":           "role",
	"SkillSet":       "skillSet",
	"Experience":     "experience",
	"LinkedInURL":    "linkedinUrl",
	"GitHubURL":      "githubUrl",
	"Availability":   "availability",
	"Declaration":    "declaration",
}

func formFieldName(structField string) string {
	if name, ok := formFieldNames[structField]; ok {
		return name
	}
	return structField
}

func (s *SubmissionService) upload(ctx context.Context, result *filecheck.Result, kind storage.Kind, purpose string) (*storage.Object, error) {
	obj, err := s.blobs.Upload(ctx, storage.UploadInput{
		Data:     result.Content,
		Filename: result.SanitizedName,
		MimeType: result.MimeType,
		Folder:   s.folderPrefix + "/" + purpose,
		Kind:     kind,
	})
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.ObserveUpload(string(result.Category), result.Size)
	}
	return obj, nil
}

// discard hands an already uploaded blob to the cleanup workers after a
// later pipeline step failed.
func (s *SubmissionService) discard(objectID string, kind storage.Kind, reason string) {
	if s.cleanup == nil || objectID == "" {
		return
	}
	if err := s.cleanup.Enqueue(jobs.CleanupTask{ObjectID: objectID, Kind: kind, Reason: reason}); err != nil {
		s.logger.Sugar().Errorw("failed to enqueue blob cleanup",
			"object_id", objectID, "reason", reason, "error", err)
	}
}

func (s *SubmissionService) recordFile(ctx context.Context, app *models.Application, result *filecheck.Result, obj *storage.Object, purpose string, meta SubmissionMeta) {
	relatedType := "application"
	file := &models.FileUpload{
		ID:               uuid.NewString(),
		StorageURL:       obj.URL,
		StorageObjectID:  obj.ID,
		OriginalFilename: result.OriginalName,
		SanitizedName:    result.SanitizedName,
		MimeType:         result.MimeType,
		Category:         string(result.Category),
		SizeBytes:        result.Size,
		SizeHuman:        filecheck.FormatSize(result.Size),
		UploadedBy:       app.Email,
		Purpose:          purpose,
		RelatedID:        &app.ID,
		RelatedType:      &relatedType,
		Source:           meta.Source,
		IPAddress:        meta.IPAddress,
		UserAgent:        meta.UserAgent,
		Status:           models.FileStatusActive,
		UploadedAt:       time.Now().UTC(),
	}
	if err := s.files.Create(ctx, file); err != nil {
		s.logger.Sugar().Errorw("failed to record file metadata",
			"application_id", app.ID, "purpose", purpose, "object_id", obj.ID, "error", err)
	}
}

func (s *SubmissionService) reject(err error) error {
	e := appErrors.FromError(err)
	if s.metrics != nil {
		s.metrics.ObserveSubmission("rejected")
		s.metrics.ObserveRejection(e.Code)
	}
	return e
}

func optional(v string) *string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return &v
}
