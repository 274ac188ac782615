package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/talentdesk/intake-api/internal/models"
	appErrors "github.com/talentdesk/intake-api/pkg/errors"
)

type applicationReaderStub struct {
	apps    map[string]*models.Application
	listed  []models.Application
	filter  models.ApplicationFilter
	updated map[string]models.ApplicationStatus
}

func newApplicationReaderStub() *applicationReaderStub {
	return &applicationReaderStub{
		apps:    make(map[string]*models.Application),
		updated: make(map[string]models.ApplicationStatus),
	}
}

func (r *applicationReaderStub) GetByID(ctx context.Context, id string) (*models.Application, error) {
	if app, ok := r.apps[id]; ok {
		copy := *app
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (r *applicationReaderStub) List(ctx context.Context, filter models.ApplicationFilter) ([]models.Application, error) {
	r.filter = filter
	return r.listed, nil
}

func (r *applicationReaderStub) UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) error {
	if _, ok := r.apps[id]; !ok {
		return sql.ErrNoRows
	}
	r.updated[id] = status
	return nil
}

func sampleApplication(id string) models.Application {
	return models.Application{
		ID:             id,
		FullName:       "Asha Iyer",
		Age:            24,
		Mobile:         "9876543210",
		Email:          id + "@example.com",
		City:           "Pune",
		State:          "Maharashtra",
		Qualification:  "B.Tech",
		Specialization: "Computer Science",
		YearOfPassing:  2023,
		Role:           "backend-engineer",
		Experience:     "1 year",
		Status:         models.StatusPending,
		SubmittedAt:    time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestApplicationServiceListRejectsUnknownStatus(t *testing.T) {
	svc := NewApplicationService(newApplicationReaderStub(), nil)

	_, err := svc.List(context.Background(), models.ApplicationFilter{Status: "archived"})
	require.Error(t, err)
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestApplicationServiceUpdateStatus(t *testing.T) {
	repo := newApplicationReaderStub()
	app := sampleApplication("app-1")
	repo.apps[app.ID] = &app
	svc := NewApplicationService(repo, nil)

	require.NoError(t, svc.UpdateStatus(context.Background(), "app-1", models.StatusShortlisted))
	require.Equal(t, models.StatusShortlisted, repo.updated["app-1"])

	err := svc.UpdateStatus(context.Background(), "missing", models.StatusReviewed)
	require.Error(t, err)
	require.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	err = svc.UpdateStatus(context.Background(), "app-1", "archived")
	require.Error(t, err)
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestApplicationServiceExportCSV(t *testing.T) {
	repo := newApplicationReaderStub()
	repo.listed = []models.Application{sampleApplication("app-1"), sampleApplication("app-2")}
	svc := NewApplicationService(repo, nil)

	result, err := svc.Export(context.Background(), models.ApplicationFilter{}, ExportCSV)
	require.NoError(t, err)
	require.Equal(t, "text/csv", result.ContentType)
	require.True(t, strings.HasSuffix(result.Filename, ".csv"))

	lines := strings.Split(strings.TrimSpace(string(result.Content)), "\n")
	require.Len(t, lines, 3)
	require.Contains(t, lines[0], "Full Name")
	require.Contains(t, lines[1], "app-1@example.com")
}

func TestApplicationServiceExportPDF(t *testing.T) {
	repo := newApplicationReaderStub()
	repo.listed = []models.Application{sampleApplication("app-1")}
	svc := NewApplicationService(repo, nil)

	result, err := svc.Export(context.Background(), models.ApplicationFilter{}, ExportPDF)
	require.NoError(t, err)
	require.Equal(t, "application/pdf", result.ContentType)
	require.True(t, strings.HasPrefix(string(result.Content), "%PDF"))
}

func TestApplicationServiceExportUnknownFormat(t *testing.T) {
	svc := NewApplicationService(newApplicationReaderStub(), nil)

	_, err := svc.Export(context.Background(), models.ApplicationFilter{}, "xlsx")
	require.Error(t, err)
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
