package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/talentdesk/intake-api/internal/models"
	appErrors "github.com/talentdesk/intake-api/pkg/errors"
)

const fileObjectConstraint = "file_uploads_storage_object_id_key"

const fileColumns = `id, storage_url, storage_object_id, original_filename, sanitized_name,
       mime_type, category, size_bytes, size_human, uploaded_by, purpose,
       related_id, related_type, source, ip_address, user_agent, status, uploaded_at, deleted_at`

// FileRepository handles file-metadata persistence.
type FileRepository struct {
	conn Conn
	// allowedHost guards the persisted invariant that storage URLs point
	// at the blob provider, not an arbitrary location.
	allowedHost string
}

// NewFileRepository constructs the repository. allowedHost may be empty in
// development, which disables the URL host check.
func NewFileRepository(conn Conn, allowedHost string) *FileRepository {
	return &FileRepository{conn: conn, allowedHost: allowedHost}
}

// Create stores metadata for an uploaded blob. A duplicate storage object
// id surfaces as a conflict error the caller treats as recoverable.
func (r *FileRepository) Create(ctx context.Context, file *models.FileUpload) error {
	if err := r.checkStorageURL(file.StorageURL); err != nil {
		return err
	}
	if file.ID == "" {
		file.ID = uuid.NewString()
	}
	if file.Status == "" {
		file.Status = models.FileStatusActive
	}
	if file.UploadedAt.IsZero() {
		file.UploadedAt = time.Now().UTC()
	}

	const query = `INSERT INTO file_uploads
	(id, storage_url, storage_object_id, original_filename, sanitized_name,
	 mime_type, category, size_bytes, size_human, uploaded_by, purpose,
	 related_id, related_type, source, ip_address, user_agent, status, uploaded_at, deleted_at)
	VALUES (:id, :storage_url, :storage_object_id, :original_filename, :sanitized_name,
	 :mime_type, :category, :size_bytes, :size_human, :uploaded_by, :purpose,
	 :related_id, :related_type, :source, :ip_address, :user_agent, :status, :uploaded_at, :deleted_at)`

	db, err := r.conn.EnsureConnected()
	if err != nil {
		return classifyStoreError(err)
	}
	if _, err := db.NamedExecContext(ctx, query, file); err != nil {
		if isUniqueViolation(err, fileObjectConstraint) {
			return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "storage object id already recorded")
		}
		return classifyStoreError(err)
	}
	return nil
}

// GetByID retrieves one file-metadata row, excluding soft-deleted rows.
func (r *FileRepository) GetByID(ctx context.Context, id string) (*models.FileUpload, error) {
	query := fmt.Sprintf(`SELECT %s FROM file_uploads WHERE id = $1 AND deleted_at IS NULL`, fileColumns)
	db, err := r.conn.EnsureConnected()
	if err != nil {
		return nil, classifyStoreError(err)
	}
	var file models.FileUpload
	if err := db.GetContext(ctx, &file, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, classifyStoreError(err)
	}
	return &file, nil
}

// List returns file metadata applying uploader and category filters.
func (r *FileRepository) List(ctx context.Context, filter models.FileFilter) ([]models.FileUpload, error) {
	builder := strings.Builder{}
	builder.WriteString(fmt.Sprintf(`SELECT %s FROM file_uploads`, fileColumns))
	args := make([]interface{}, 0, 2)
	conditions := make([]string, 0, 3)

	if !filter.IncludeDeleted {
		conditions = append(conditions, "deleted_at IS NULL")
	}
	if filter.UploadedBy != "" {
		args = append(args, filter.UploadedBy)
		conditions = append(conditions, fmt.Sprintf("uploaded_by = $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}

	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	builder.WriteString(" ORDER BY uploaded_at DESC")

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
	var records []models.FileUpload
	if err := db.SelectContext(ctx, &records, builder.String(), args...); err != nil {
		return nil, classifyStoreError(err)
	}
	return records, nil
}

// SoftDelete marks a file record as deleted without touching the blob.
func (r *FileRepository) SoftDelete(ctx context.Context, id string, deletedAt time.Time) error {
	const query = `UPDATE file_uploads SET status = $2, deleted_at = $3 WHERE id = $1 AND deleted_at IS NULL`
	db, err := r.conn.EnsureConnected()
	if err != nil {
		return classifyStoreError(err)
	}
	res, err := db.ExecContext(ctx, query, id, models.FileStatusDeleted, deletedAt)
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

func (r *FileRepository) checkStorageURL(raw string) error {
	if r.allowedHost == "" {
		return nil
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return appErrors.Clone(appErrors.ErrValidation, "storage url is not a valid absolute url")
	}
	if !strings.EqualFold(parsed.Host, r.allowedHost) {
		return appErrors.Clone(appErrors.ErrValidation, "storage url does not reference the storage provider")
	}
	return nil
}
