// Package storage abstracts the external blob store holding candidate
// photographs and resumes.
package storage

import "context"

// Kind selects the provider-side processing pipeline.
type Kind string

const (
	// KindImage routes through the provider's image pipeline.
	KindImage Kind = "image"
	// KindRaw routes through the raw binary pipeline used for documents.
	KindRaw Kind = "raw"
)

// Object identifies a stored blob.
type Object struct {
	URL string
	ID  string
}

// UploadInput carries one blob payload. Folder namespaces assets as
// <prefix>/<purpose> in the remote store.
type UploadInput struct {
	Data     []byte
	Filename string
	MimeType string
	Folder   string
	Kind     Kind
}

// BlobStore uploads and deletes blobs. Upload is a single remote call with
// no internal retry; failures surface immediately to the caller.
type BlobStore interface {
	Upload(ctx context.Context, in UploadInput) (*Object, error)
	Delete(ctx context.Context, objectID string, kind Kind) error
}
