package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	appErrors "github.com/talentdesk/intake-api/pkg/errors"
)

// Local persists blobs on disk under a base directory. It implements
// BlobStore for development and test environments; download URLs are
// signed so stored resumes are not publicly enumerable.
type Local struct {
	baseDir   string
	publicURL string
	signer    *URLSigner
}

// NewLocal ensures the base directory exists and returns a handle.
func NewLocal(baseDir, publicURL string, signer *URLSigner) (*Local, error) {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads directory: %w", err)
	}
	return &Local{
		baseDir:   baseDir,
		publicURL: strings.TrimRight(publicURL, "/"),
		signer:    signer,
	}, nil
}

// Upload writes the payload under <folder>/<uuid>-<filename> and returns a
// signed download URL plus the relative path as the object id.
func (s *Local) Upload(_ context.Context, in UploadInput) (*Object, error) {
	if len(in.Data) == 0 {
		return nil, appErrors.Clone(appErrors.ErrUploadFailed, "upload payload is empty")
	}

	rel := filepath.Join(in.Folder, uuid.NewString()+"-"+filepath.Base(in.Filename))
	path := filepath.Join(s.baseDir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUploadFailed.Code, appErrors.ErrUploadFailed.Status, "failed to prepare upload directory")
	}
	if err := os.WriteFile(path, in.Data, 0o644); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUploadFailed.Code, appErrors.ErrUploadFailed.Status, "failed to write upload")
	}

	rel = filepath.ToSlash(rel)
	downloadURL := fmt.Sprintf("%s/files/download/%s", s.publicURL, rel)
	if s.signer != nil {
		token, _, err := s.signer.Generate(rel)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrUploadFailed.Code, appErrors.ErrUploadFailed.Status, "failed to sign download url")
		}
		downloadURL = fmt.Sprintf("%s?token=%s", downloadURL, token)
	}

	return &Object{URL: downloadURL, ID: rel}, nil
}

// Delete removes a stored blob if present.
func (s *Local) Delete(_ context.Context, objectID string, _ Kind) error {
	path := filepath.Join(s.baseDir, filepath.FromSlash(objectID))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete upload: %w", err)
	}
	return nil
}

// Open returns a read-only handle for a stored blob.
func (s *Local) Open(objectID string) (*os.File, error) {
	path := filepath.Join(s.baseDir, filepath.FromSlash(objectID))
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	return file, nil
}
