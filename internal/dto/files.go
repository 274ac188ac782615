package dto

import "time"

// FileSummary is the normalized shape returned by the file-metadata read
// endpoints.
type FileSummary struct {
	ID         string    `json:"id"`
	FileName   string    `json:"fileName"`
	FileSize   string    `json:"fileSize"`
	FileType   string    `json:"fileType"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploadedAt"`
	Status     string    `json:"status"`
}

// FileListQuery captures the list endpoint's query parameters.
type FileListQuery struct {
	UploadedBy string `form:"uploadedBy"`
	Category   string `form:"category" validate:"omitempty,oneof=image pdf document"`
}
