package models

import "time"

// FileStatus is the lifecycle state of a stored file record.
type FileStatus string

const (
	FileStatusActive   FileStatus = "active"
	FileStatusDeleted  FileStatus = "deleted"
	FileStatusArchived FileStatus = "archived"
)

// FileUpload is the metadata row written after a successful blob upload.
// These rows are an auxiliary index over the blob store, not the source of
// truth for whether an application was received; their writes are
// best-effort relative to the application row.
type FileUpload struct {
	ID               string     `db:"id" json:"id"`
	StorageURL       string     `db:"storage_url" json:"storageUrl"`
	StorageObjectID  string     `db:"storage_object_id" json:"storageObjectId"`
	OriginalFilename string     `db:"original_filename" json:"originalFilename"`
	SanitizedName    string     `db:"sanitized_name" json:"sanitizedName"`
	MimeType         string     `db:"mime_type" json:"mimeType"`
	Category         string     `db:"category" json:"category"`
	SizeBytes        int64      `db:"size_bytes" json:"sizeBytes"`
	SizeHuman        string     `db:"size_human" json:"sizeHuman"`
	UploadedBy       string     `db:"uploaded_by" json:"uploadedBy"`
	Purpose          string     `db:"purpose" json:"purpose"`
	RelatedID        *string    `db:"related_id" json:"relatedId,omitempty"`
	RelatedType      *string    `db:"related_type" json:"relatedType,omitempty"`
	Source           string     `db:"source" json:"source"`
	IPAddress        string     `db:"ip_address" json:"ipAddress"`
	UserAgent        string     `db:"user_agent" json:"userAgent"`
	Status           FileStatus `db:"status" json:"status"`
	UploadedAt       time.Time  `db:"uploaded_at" json:"uploadedAt"`
	DeletedAt        *time.Time `db:"deleted_at" json:"deletedAt,omitempty"`
}

// FileFilter narrows file-metadata listing queries.
type FileFilter struct {
	UploadedBy     string
	Category       string
	IncludeDeleted bool
	Limit          int
	Offset         int
}
