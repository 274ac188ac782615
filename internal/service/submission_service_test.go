package service

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talentdesk/intake-api/internal/dto"
	"github.com/talentdesk/intake-api/internal/models"
	appErrors "github.com/talentdesk/intake-api/pkg/errors"
	"github.com/talentdesk/intake-api/pkg/filecheck"
	"github.com/talentdesk/intake-api/pkg/jobs"
	"github.com/talentdesk/intake-api/pkg/storage"
)

type applicationRepoStub struct {
	existing  map[string]bool
	created   []*models.Application
	createErr error
	existsErr error
}

func newApplicationRepoStub() *applicationRepoStub {
	return &applicationRepoStub{existing: make(map[string]bool)}
}

func (r *applicationRepoStub) Create(ctx context.Context, app *models.Application) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, app)
	return nil
}

func (r *applicationRepoStub) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if r.existsErr != nil {
		return false, r.existsErr
	}
	return r.existing[email], nil
}

type fileRepoStub struct {
	created   []*models.FileUpload
	createErr error
}

func (r *fileRepoStub) Create(ctx context.Context, file *models.FileUpload) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, file)
	return nil
}

type blobStoreStub struct {
	uploads  []storage.UploadInput
	deleted  []string
	failNth  int
	uploadID int
}

func (s *blobStoreStub) Upload(ctx context.Context, in storage.UploadInput) (*storage.Object, error) {
	s.uploadID++
	if s.failNth > 0 && s.uploadID == s.failNth {
		return nil, appErrors.Clone(appErrors.ErrUploadFailed, "provider returned 500")
	}
	s.uploads = append(s.uploads, in)
	id := fmt.Sprintf("obj-%d", s.uploadID)
	return &storage.Object{URL: "https://blobs.example.com/" + id, ID: id}, nil
}

func (s *blobStoreStub) Delete(ctx context.Context, objectID string, kind storage.Kind) error {
	s.deleted = append(s.deleted, objectID)
	return nil
}

type cleanupStub struct {
	tasks []jobs.CleanupTask
}

func (c *cleanupStub) Enqueue(task jobs.CleanupTask) error {
	c.tasks = append(c.tasks, task)
	return nil
}

var jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}

func validRequest() dto.SubmissionRequest {
	return dto.SubmissionRequest{
		FullName:       "Asha Iyer",
		Age:            24,
		Gender:         "female",
		Mobile:         "9876543210",
		Email:          "Asha.Iyer@example.com",
		City:           "Pune",
		State:          "Maharashtra",
		Qualification:  "B.Tech",
		Specialization: "Computer Science",
		College:        "COEP",
		YearOfPassing:  2023,
		CareerGapYears: 0,
		Role:           "backend-engineer",
		SkillSet:       "Go, PostgreSQL",
		Experience:     "1 year",
		Availability:   "immediate",
		Declaration:    true,
	}
}

func photoUpload() filecheck.Upload {
	return filecheck.Upload{
		Filename: "asha photo.jpg",
		MimeType: "image/jpeg",
		Size:     int64(len(jpegHeader)),
		Content:  bytes.NewReader(jpegHeader),
	}
}

func resumeUpload() filecheck.Upload {
	content := []byte("%PDF-1.7 resume body")
	return filecheck.Upload{
		Filename: "resume.pdf",
		MimeType: "application/pdf",
		Size:     int64(len(content)),
		Content:  bytes.NewReader(content),
	}
}

func newTestSubmissionService(apps *applicationRepoStub, files *fileRepoStub, blobs *blobStoreStub, cleanup *cleanupStub) *SubmissionService {
	return NewSubmissionService(apps, files, blobs, cleanup, nil, nil, nil, "candidates")
}

func TestSubmissionServiceAccepts(t *testing.T) {
	apps := newApplicationRepoStub()
	files := &fileRepoStub{}
	blobs := &blobStoreStub{}
	svc := newTestSubmissionService(apps, files, blobs, &cleanupStub{})

	resp, err := svc.Submit(context.Background(), validRequest(), photoUpload(), resumeUpload(), SubmissionMeta{
		IPAddress: "203.0.113.7",
		UserAgent: "test-agent",
		Source:    "careers-site",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.ApplicationID)
	require.Equal(t, "asha.iyer@example.com", resp.Email)
	require.False(t, resp.SubmittedAt.IsZero())

	require.Len(t, apps.created, 1)
	app := apps.created[0]
	require.Equal(t, "asha.iyer@example.com", app.Email)
	require.Equal(t, models.StatusPending, app.Status)
	require.Equal(t, "https://blobs.example.com/obj-1", app.PhotographURL)
	require.Equal(t, "https://blobs.example.com/obj-2", app.ResumeURL)
	require.Nil(t, app.LinkedInURL)

	require.Len(t, blobs.uploads, 2)
	require.Equal(t, "candidates/photographs", blobs.uploads[0].Folder)
	require.Equal(t, storage.KindImage, blobs.uploads[0].Kind)
	require.Equal(t, "candidates/resumes", blobs.uploads[1].Folder)
	require.Equal(t, storage.KindRaw, blobs.uploads[1].Kind)

	require.Len(t, files.created, 2)
	require.Equal(t, "photograph", files.created[0].Purpose)
	require.Equal(t, "resume", files.created[1].Purpose)
	require.Equal(t, "asha photo.jpg", files.created[0].OriginalFilename)
	require.Equal(t, "asha_photo.jpg", files.created[0].SanitizedName)
	require.Equal(t, app.ID, *files.created[0].RelatedID)
	require.Equal(t, "203.0.113.7", files.created[0].IPAddress)
	require.Equal(t, "careers-site", files.created[0].Source)
}

func TestSubmissionServiceAggregatesFieldErrors(t *testing.T) {
	apps := newApplicationRepoStub()
	blobs := &blobStoreStub{}
	svc := newTestSubmissionService(apps, &fileRepoStub{}, blobs, &cleanupStub{})

	req := validRequest()
	req.Email = "not-an-email"
	req.Mobile = "12345"
	req.Age = 16
	req.Declaration = false

	_, err := svc.Submit(context.Background(), req, photoUpload(), resumeUpload(), SubmissionMeta{})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	require.Equal(t, 400, appErr.Status)

	messages, ok := appErr.Details["errors"].([]string)
	require.True(t, ok)
	require.GreaterOrEqual(t, len(messages), 4)
	require.Contains(t, messages, "declaration must be accepted")
	require.Contains(t, messages, "email must be a valid email address")

	// The field messages must survive even when details are suppressed.
	require.Contains(t, appErr.Message, "declaration must be accepted")
	require.Contains(t, appErr.Message, "email must be a valid email address")

	require.Empty(t, blobs.uploads)
	require.Empty(t, apps.created)
}

func TestSubmissionServiceRejectsFutureYearOfPassing(t *testing.T) {
	svc := newTestSubmissionService(newApplicationRepoStub(), &fileRepoStub{}, &blobStoreStub{}, &cleanupStub{})

	req := validRequest()
	req.YearOfPassing = 2999

	_, err := svc.Submit(context.Background(), req, photoUpload(), resumeUpload(), SubmissionMeta{})
	require.Error(t, err)
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSubmissionServiceDuplicateEmailBeforeUpload(t *testing.T) {
	apps := newApplicationRepoStub()
	apps.existing["asha.iyer@example.com"] = true
	blobs := &blobStoreStub{}
	svc := newTestSubmissionService(apps, &fileRepoStub{}, blobs, &cleanupStub{})

	_, err := svc.Submit(context.Background(), validRequest(), photoUpload(), resumeUpload(), SubmissionMeta{})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrDuplicateEmail.Code, appErr.Code)
	require.Equal(t, 409, appErr.Status)
	require.Empty(t, blobs.uploads)
}

func TestSubmissionServiceRejectsMismatchedResume(t *testing.T) {
	blobs := &blobStoreStub{}
	svc := newTestSubmissionService(newApplicationRepoStub(), &fileRepoStub{}, blobs, &cleanupStub{})

	pngBytes := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	resume := filecheck.Upload{
		Filename: "resume.pdf",
		MimeType: "application/pdf",
		Size:     int64(len(pngBytes)),
		Content:  bytes.NewReader(pngBytes),
	}

	_, err := svc.Submit(context.Background(), validRequest(), photoUpload(), resume, SubmissionMeta{})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrInvalidFileType.Code, appErr.Code)
	require.Equal(t, "resume", appErr.Details["field"])
	require.Empty(t, blobs.uploads)
}

func TestSubmissionServiceCleansUpPhotoWhenResumeUploadFails(t *testing.T) {
	apps := newApplicationRepoStub()
	blobs := &blobStoreStub{failNth: 2}
	cleanup := &cleanupStub{}
	svc := newTestSubmissionService(apps, &fileRepoStub{}, blobs, cleanup)

	_, err := svc.Submit(context.Background(), validRequest(), photoUpload(), resumeUpload(), SubmissionMeta{})
	require.Error(t, err)
	require.Equal(t, appErrors.ErrUploadFailed.Code, appErrors.FromError(err).Code)

	require.Empty(t, apps.created)
	require.Len(t, cleanup.tasks, 1)
	require.Equal(t, "obj-1", cleanup.tasks[0].ObjectID)
	require.Equal(t, storage.KindImage, cleanup.tasks[0].Kind)
}

func TestSubmissionServiceCleansUpBothWhenInsertFails(t *testing.T) {
	apps := newApplicationRepoStub()
	apps.createErr = appErrors.ErrStoreUnavailable
	blobs := &blobStoreStub{}
	cleanup := &cleanupStub{}
	svc := newTestSubmissionService(apps, &fileRepoStub{}, blobs, cleanup)

	_, err := svc.Submit(context.Background(), validRequest(), photoUpload(), resumeUpload(), SubmissionMeta{})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	require.Equal(t, "STORE_UNAVAILABLE", appErr.Code)
	require.Equal(t, 503, appErr.Status)

	require.Len(t, cleanup.tasks, 2)
	require.ElementsMatch(t, []string{"obj-1", "obj-2"}, []string{cleanup.tasks[0].ObjectID, cleanup.tasks[1].ObjectID})
}

func TestSubmissionServiceFileRecordFailureStillAccepts(t *testing.T) {
	apps := newApplicationRepoStub()
	files := &fileRepoStub{createErr: fmt.Errorf("connection reset")}
	svc := newTestSubmissionService(apps, files, &blobStoreStub{}, &cleanupStub{})

	resp, err := svc.Submit(context.Background(), validRequest(), photoUpload(), resumeUpload(), SubmissionMeta{})
	require.NoError(t, err)
	require.NotEmpty(t, resp.ApplicationID)
	require.Len(t, apps.created, 1)
	require.Empty(t, files.created)
}

func TestSubmissionServiceDuplicateRaceSurfacesConflict(t *testing.T) {
	apps := newApplicationRepoStub()
	apps.createErr = appErrors.ErrDuplicateEmail
	blobs := &blobStoreStub{}
	cleanup := &cleanupStub{}
	svc := newTestSubmissionService(apps, &fileRepoStub{}, blobs, cleanup)

	_, err := svc.Submit(context.Background(), validRequest(), photoUpload(), resumeUpload(), SubmissionMeta{})
	require.Error(t, err)
	require.Equal(t, appErrors.ErrDuplicateEmail.Code, appErrors.FromError(err).Code)
	require.Len(t, cleanup.tasks, 2)
}
