package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/talentdesk/intake-api/internal/models"
	appErrors "github.com/talentdesk/intake-api/pkg/errors"
)

const applicationEmailConstraint = "applications_email_key"

const applicationColumns = `id, full_name, age, gender, mobile, email, city, state,
       qualification, specialization, college, year_of_passing, career_gap_years,
       role, skill_set, experience, linkedin_url, github_url,
       photograph_url, resume_url, availability, declaration, status, submitted_at`

// ApplicationRepository handles candidate application persistence.
type ApplicationRepository struct {
	conn Conn
}

// NewApplicationRepository constructs the repository.
func NewApplicationRepository(conn Conn) *ApplicationRepository {
	return &ApplicationRepository{conn: conn}
}

// Create stores one application row. A duplicate email, whether caught here
// or raced past the pre-check, surfaces as the duplicate-email error.
func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	if app.Status == "" {
		app.Status = models.StatusPending
	}
	if app.SubmittedAt.IsZero() {
		app.SubmittedAt = time.Now().UTC()
	}

	const query = `INSERT INTO applications
	(id, full_name, age, gender, mobile, email, city, state,
	 qualification, specialization, college, year_of_passing, career_gap_years,
	 role, skill_set, experience, linkedin_url, github_url,
	 photograph_url, resume_url, availability, declaration, status, submitted_at)
	VALUES (:id, :full_name, :age, :gender, :mobile, :email, :city, :state,
	 :qualification, :specialization, :college, :year_of_passing, :career_gap_years,
	 :role, :skill_set, :experience, :linkedin_url, :github_url,
	 :photograph_url, :resume_url, :availability, :declaration, :status, :submitted_at)`

	db, err := r.conn.EnsureConnected()
	if err != nil {
		return classifyStoreError(err)
	}
	if _, err := db.NamedExecContext(ctx, query, app); err != nil {
		if isUniqueViolation(err, applicationEmailConstraint) {
			return appErrors.Wrap(err, appErrors.ErrDuplicateEmail.Code, appErrors.ErrDuplicateEmail.Status, appErrors.ErrDuplicateEmail.Message)
		}
		return classifyStoreError(err)
	}
	return nil
}

// ExistsByEmail reports whether an application already uses the given
// normalized email address.
func (r *ApplicationRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM applications WHERE email = $1)`
	db, err := r.conn.EnsureConnected()
	if err != nil {
		return false, classifyStoreError(err)
	}
	var exists bool
	if err := db.GetContext(ctx, &exists, query, email); err != nil {
		return false, classifyStoreError(err)
	}
	return exists, nil
}

// GetByID retrieves one application row.
func (r *ApplicationRepository) GetByID(ctx context.Context, id string) (*models.Application, error) {
	query := fmt.Sprintf(`SELECT %s FROM applications WHERE id = $1`, applicationColumns)
	db, err := r.conn.EnsureConnected()
	if err != nil {
		return nil, classifyStoreError(err)
	}
	var app models.Application
	if err := db.GetContext(ctx, &app, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, classifyStoreError(err)
	}
	return &app, nil
}

// List returns applications applying status and search filters.
func (r *ApplicationRepository) List(ctx context.Context, filter models.ApplicationFilter) ([]models.Application, error) {
	builder := strings.Builder{}
	builder.WriteString(fmt.Sprintf(`SELECT %s FROM applications`, applicationColumns))
	args := make([]interface{}, 0, 2)
	conditions := make([]string, 0, 2)

	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conditions = append(conditions, fmt.Sprintf("(full_name ILIKE $%d OR email ILIKE $%d)", len(args), len(args)))
	}

	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	builder.WriteString(" ORDER BY submitted_at DESC")

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	builder.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset))

	db, err := r.conn.EnsureConnected()
	if err != nil {
		return nil, classifyStoreError(err)
	}
	var records []models.Application
	if err := db.SelectContext(ctx, &records, builder.String(), args...); err != nil {
		return nil, classifyStoreError(err)
	}
	return records, nil
}

// UpdateStatus moves an application through the review workflow.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) error {
	const query = `UPDATE applications SET status = $2 WHERE id = $1`
	db, err := r.conn.EnsureConnected()
	if err != nil {
		return classifyStoreError(err)
	}
	res, err := db.ExecContext(ctx, query, id, status)
	if err != nil {
		return classifyStoreError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return classifyStoreError(err)
	}
	if affected == 0 {
		return appErrors.ErrNotFound
	}
	return nil
}
