// Package filecheck validates candidate file uploads against category
// profiles: declared MIME type, exact size ceiling, leading byte signature
// and filename hygiene. It performs no I/O beyond reading the provided
// stream and every call is independent of any other.
package filecheck

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	appErrors "github.com/talentdesk/intake-api/pkg/errors"
)

// Category identifies a file class with its own allow-list and ceiling.
type Category string

const (
	CategoryImage    Category = "image"
	CategoryPDF      Category = "pdf"
	CategoryDocument Category = "document"
)

const (
	MaxImageSizeBytes    = 5 * 1024 * 1024
	MaxPDFSizeBytes      = 10 * 1024 * 1024
	MaxDocumentSizeBytes = 10 * 1024 * 1024

	maxFilenameLength = 100
)

// Profile is the set of allowed MIME types and the byte ceiling for a
// category.
type Profile struct {
	MimeTypes []string
	MaxSize   int64
}

var profiles = map[Category]Profile{
	CategoryImage: {
		MimeTypes: []string{"image/jpeg", "image/jpg", "image/png", "image/webp"},
		MaxSize:   MaxImageSizeBytes,
	},
	CategoryPDF: {
		MimeTypes: []string{"application/pdf"},
		MaxSize:   MaxPDFSizeBytes,
	},
	CategoryDocument: {
		MimeTypes: []string{
			"application/pdf",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		},
		MaxSize: MaxDocumentSizeBytes,
	},
}

// signature is a required byte prefix at a fixed offset.
type signature struct {
	offset int
	prefix []byte
}

var signatures = map[string][]signature{
	"image/jpeg": {{0, []byte{0xFF, 0xD8, 0xFF}}},
	"image/jpg":  {{0, []byte{0xFF, 0xD8, 0xFF}}},
	"image/png":  {{0, []byte{0x89, 0x50, 0x4E, 0x47}}},
	"image/webp": {
		{0, []byte{0x52, 0x49, 0x46, 0x46}},
		{8, []byte{0x57, 0x45, 0x42, 0x50}},
	},
	"application/pdf": {{0, []byte{0x25, 0x50, 0x44, 0x46}}},
}

// Upload describes one incoming file part.
type Upload struct {
	Field    string
	Filename string
	MimeType string
	Size     int64
	Content  io.Reader
}

// Result carries the sanitized name plus the fully read content so the
// upload step does not re-read the stream.
type Result struct {
	OriginalName  string
	SanitizedName string
	MimeType      string
	Category      Category
	Size          int64
	Content       []byte
}

// ProfileFor returns the profile of a category.
func ProfileFor(category Category) (Profile, bool) {
	p, ok := profiles[category]
	return p, ok
}

// Configure overrides the category byte ceilings. Call once at startup,
// before any Validate; non-positive values keep the defaults.
func Configure(maxImage, maxPDF int64) {
	if maxImage > 0 {
		p := profiles[CategoryImage]
		p.MaxSize = maxImage
		profiles[CategoryImage] = p
	}
	if maxPDF > 0 {
		p := profiles[CategoryPDF]
		p.MaxSize = maxPDF
		profiles[CategoryPDF] = p
	}
}

// Validate runs the ordered checks for the category, short-circuiting on
// the first failure.
func Validate(upload Upload, category Category) (*Result, error) {
	profile, ok := profiles[category]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrInternal, fmt.Sprintf("unknown file category %q", category))
	}

	field := upload.Field
	if field == "" {
		field = "file"
	}

	if upload.Content == nil || upload.Size <= 0 {
		return nil, fieldError(appErrors.ErrMissingFile, field,
			fmt.Sprintf("%s is required and must not be empty", field))
	}

	mimeType := strings.ToLower(strings.TrimSpace(upload.MimeType))
	if !allowedMime(profile, mimeType) {
		return nil, fieldError(appErrors.ErrInvalidFileType, field,
			fmt.Sprintf("%s must be one of: %s", field, strings.Join(profile.MimeTypes, ", ")))
	}

	if upload.Size > profile.MaxSize {
		return nil, fieldError(appErrors.ErrFileTooLarge, field,
			fmt.Sprintf("%s exceeds the %s limit", field, FormatSize(profile.MaxSize)))
	}

	content, err := io.ReadAll(upload.Content)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload stream")
	}
	if int64(len(content)) == 0 {
		return nil, fieldError(appErrors.ErrMissingFile, field,
			fmt.Sprintf("%s is required and must not be empty", field))
	}
	if int64(len(content)) > profile.MaxSize {
		return nil, fieldError(appErrors.ErrFileTooLarge, field,
			fmt.Sprintf("%s exceeds the %s limit", field, FormatSize(profile.MaxSize)))
	}

	if !matchesSignature(mimeType, content) {
		return nil, fieldError(appErrors.ErrInvalidFileType, field,
			fmt.Sprintf("%s content does not match declared type", field))
	}

	return &Result{
		OriginalName:  upload.Filename,
		SanitizedName: SanitizeFilename(upload.Filename),
		MimeType:      mimeType,
		Category:      category,
		Size:          int64(len(content)),
		Content:       content,
	}, nil
}

func allowedMime(profile Profile, mimeType string) bool {
	for _, mt := range profile.MimeTypes {
		if mt == mimeType {
			return true
		}
	}
	return false
}

// matchesSignature verifies the leading bytes against the known prefixes
// of the declared MIME type. A type without a registered signature passes,
// since there is nothing to check against.
func matchesSignature(mimeType string, content []byte) bool {
	sigs, ok := signatures[mimeType]
	if !ok {
		return true
	}
	for _, sig := range sigs {
		end := sig.offset + len(sig.prefix)
		if len(content) < end {
			return false
		}
		if !bytes.Equal(content[sig.offset:end], sig.prefix) {
			return false
		}
	}
	return true
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// SanitizeFilename strips traversal sequences, restricts the character set
// to [A-Za-z0-9._-] and truncates to 100 characters while preserving the
// extension. The function is idempotent.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "..", "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "_")

	if name == "" || name == "." {
		name = "file"
	}

	if len(name) > maxFilenameLength {
		ext := filepath.Ext(name)
		if len(ext) >= maxFilenameLength {
			ext = ""
		}
		// The cut can land right after a dot, which would splice into the
		// extension's leading dot and reintroduce "..".
		base := strings.TrimRight(name[:maxFilenameLength-len(ext)], "._")
		if base == "" {
			base = "file"
		}
		name = base + ext
	}

	return name
}

// FormatSize renders a byte count in a human-readable unit.
func FormatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}

func fieldError(base *appErrors.Error, field, message string) *appErrors.Error {
	err := appErrors.Clone(base, message)
	return appErrors.WithDetails(err, map[string]interface{}{"field": field})
}
