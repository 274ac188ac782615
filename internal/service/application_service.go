package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/talentdesk/intake-api/internal/models"
	appErrors "github.com/talentdesk/intake-api/pkg/errors"
	"github.com/talentdesk/intake-api/pkg/export"
)

type applicationReader interface {
	GetByID(ctx context.Context, id string) (*models.Application, error)
	List(ctx context.Context, filter models.ApplicationFilter) ([]models.Application, error)
	UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) error
}

// ExportFormat selects the rendering of an application export.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

// ExportResult carries the rendered document with its transport metadata.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ApplicationService serves the reviewer-facing application endpoints.
type ApplicationService struct {
	repo   applicationReader
	logger *zap.Logger
}

// NewApplicationService constructs an ApplicationService.
func NewApplicationService(repo applicationReader, logger *zap.Logger) *ApplicationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApplicationService{repo: repo, logger: logger}
}

// Get returns one application by ID.
func (s *ApplicationService) Get(ctx context.Context, id string) (*models.Application, error) {
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, appErrors.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
		}
		return nil, appErrors.FromError(err)
	}
	return app, nil
}

// List returns applications matching the filter.
func (s *ApplicationService) List(ctx context.Context, filter models.ApplicationFilter) ([]models.Application, error) {
	if filter.Status != "" && !models.ValidStatus(filter.Status) {
		err := appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", filter.Status))
		return nil, appErrors.WithDetails(err, map[string]interface{}{"field": "status"})
	}
	apps, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.FromError(err)
	}
	return apps, nil
}

// UpdateStatus moves an application through the review workflow.
func (s *ApplicationService) UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) error {
	if !models.ValidStatus(status) {
		err := appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", status))
		return appErrors.WithDetails(err, map[string]interface{}{"field": "status"})
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, appErrors.ErrNotFound) {
			return appErrors.Clone(appErrors.ErrNotFound, "application not found")
		}
		return appErrors.FromError(err)
	}
	s.logger.Sugar().Infow("application status updated", "application_id", id, "status", status)
	return nil
}

var exportColumns = []string{
	"Full Name", "Email", "Mobile", "Age", "City", "State",
	"Qualification", "Specialization", "Year", "Role", "Experience",
	"Status", "Submitted At",
}

// Export renders the filtered applications as CSV or PDF.
func (s *ApplicationService) Export(ctx context.Context, filter models.ApplicationFilter, format ExportFormat) (*ExportResult, error) {
	apps, err := s.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	table := export.Table{
		Title:   "Candidate Applications",
		Columns: exportColumns,
		Rows:    make([][]string, 0, len(apps)),
	}
	for _, app := range apps {
		table.Rows = append(table.Rows, []string{
			app.FullName, app.Email, app.Mobile, strconv.Itoa(app.Age),
			app.City, app.State, app.Qualification, app.Specialization,
			strconv.Itoa(app.YearOfPassing), app.Role, app.Experience,
			string(app.Status), app.SubmittedAt.Format(time.RFC3339),
		})
	}

	stamp := time.Now().UTC().Format("20060102-150405")
	switch format {
	case ExportCSV:
		content, err := export.RenderCSV(table)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return &ExportResult{
			Content:     content,
			ContentType: "text/csv",
			Filename:    fmt.Sprintf("applications-%s.csv", stamp),
		}, nil
	case ExportPDF:
		content, err := export.RenderPDF(table)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return &ExportResult{
			Content:     content,
			ContentType: "application/pdf",
			Filename:    fmt.Sprintf("applications-%s.pdf", stamp),
		}, nil
	default:
		err := appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown export format %q", format))
		return nil, appErrors.WithDetails(err, map[string]interface{}{"field": "format"})
	}
}
