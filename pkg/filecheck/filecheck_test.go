package filecheck

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/talentdesk/intake-api/pkg/errors"
)

func jpegBytes(size int) []byte {
	content := make([]byte, size)
	copy(content, []byte{0xFF, 0xD8, 0xFF, 0xE0})
	return content
}

func pdfBytes(size int) []byte {
	content := make([]byte, size)
	copy(content, []byte("%PDF-1.7"))
	return content
}

func pngBytes(size int) []byte {
	content := make([]byte, size)
	copy(content, []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A})
	return content
}

func upload(field, name, mime string, content []byte) Upload {
	return Upload{
		Field:    field,
		Filename: name,
		MimeType: mime,
		Size:     int64(len(content)),
		Content:  bytes.NewReader(content),
	}
}

func TestValidateEmptyFileRejected(t *testing.T) {
	for _, category := range []Category{CategoryImage, CategoryPDF, CategoryDocument} {
		_, err := Validate(upload("photograph", "p.jpg", "image/jpeg", nil), category)
		require.Error(t, err, "category %s", category)
		appErr := appErrors.FromError(err)
		assert.Equal(t, appErrors.ErrMissingFile.Code, appErr.Code)
	}
}

func TestValidateMimeNotAllowed(t *testing.T) {
	_, err := Validate(upload("photograph", "p.gif", "image/gif", pngBytes(128)), CategoryImage)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidFileType.Code, appErr.Code)
	assert.Equal(t, "photograph", appErr.Details["field"])

	_, err = Validate(upload("resume", "r.docx", "application/msword", pdfBytes(128)), CategoryPDF)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidFileType.Code, appErrors.FromError(err).Code)
}

func TestValidateSignatureMismatch(t *testing.T) {
	// Correct extension and MIME type, wrong leading bytes.
	content := make([]byte, 64)
	copy(content, []byte{0x00, 0x01, 0x02})
	_, err := Validate(upload("photograph", "photo.jpg", "image/jpeg", content), CategoryImage)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidFileType.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "does not match declared type")
}

func TestValidatePDFWithPNGBytesRejected(t *testing.T) {
	_, err := Validate(upload("resume", "resume.pdf", "application/pdf", pngBytes(256)), CategoryPDF)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidFileType.Code, appErr.Code)
	assert.Equal(t, "resume", appErr.Details["field"])
}

func TestValidateWebpSignature(t *testing.T) {
	content := make([]byte, 64)
	copy(content, []byte("RIFF"))
	copy(content[8:], []byte("WEBP"))
	res, err := Validate(upload("photograph", "p.webp", "image/webp", content), CategoryImage)
	require.NoError(t, err)
	assert.Equal(t, "image/webp", res.MimeType)

	// RIFF container that is not WEBP at offset 8.
	copy(content[8:], []byte("WAVE"))
	_, err = Validate(upload("photograph", "p.webp", "image/webp", content), CategoryImage)
	require.Error(t, err)
}

func TestValidateSizeCeilingBoundary(t *testing.T) {
	atLimit := jpegBytes(MaxImageSizeBytes)
	res, err := Validate(upload("photograph", "p.jpg", "image/jpeg", atLimit), CategoryImage)
	require.NoError(t, err)
	assert.Equal(t, int64(MaxImageSizeBytes), res.Size)

	oneOver := jpegBytes(MaxImageSizeBytes + 1)
	_, err = Validate(upload("photograph", "p.jpg", "image/jpeg", oneOver), CategoryImage)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrFileTooLarge.Code, appErr.Code)

	pdfAtLimit := pdfBytes(MaxPDFSizeBytes)
	_, err = Validate(upload("resume", "r.pdf", "application/pdf", pdfAtLimit), CategoryPDF)
	require.NoError(t, err)

	pdfOver := pdfBytes(MaxPDFSizeBytes + 1)
	_, err = Validate(upload("resume", "r.pdf", "application/pdf", pdfOver), CategoryPDF)
	require.Error(t, err)
}

func TestValidateSuccessReturnsContentAndSanitizedName(t *testing.T) {
	content := jpegBytes(2 * 1024 * 1024)
	res, err := Validate(upload("photograph", "my photo (1).jpg", "image/jpeg", content), CategoryImage)
	require.NoError(t, err)
	assert.Equal(t, "my photo (1).jpg", res.OriginalName)
	assert.Equal(t, "my_photo__1_.jpg", res.SanitizedName)
	assert.Equal(t, content, res.Content)
	assert.Equal(t, CategoryImage, res.Category)
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"resume.pdf":             "resume.pdf",
		"../../etc/passwd":       "passwd",
		"my file@2024!.pdf":      "my_file_2024_.pdf",
		"..hidden":               "_hidden",
		"über resume.pdf":        "_ber_resume.pdf",
		"":                       "file",
		"a/b/c.png":              "c.png",
		`windows\path\photo.jpg`: "photo.jpg",
	}
	for input, expected := range cases {
		assert.Equal(t, expected, SanitizeFilename(input), "input %q", input)
	}
}

func TestSanitizeFilenameIdempotent(t *testing.T) {
	inputs := []string{
		"../../etc/passwd",
		"weird  name @@ file.tar.gz",
		strings.Repeat("a", 300) + ".pdf",
		"normal-file_1.0.png",
	}
	for _, input := range inputs {
		once := SanitizeFilename(input)
		twice := SanitizeFilename(once)
		assert.Equal(t, once, twice, "input %q", input)
		assert.NotContains(t, once, "/")
		assert.NotContains(t, once, "..")
		assert.LessOrEqual(t, len(once), 100)
	}
}

func TestSanitizeFilenameTruncationNeverSplicesDots(t *testing.T) {
	// A cut landing right after a dot must not join the extension's
	// leading dot into "..".
	long := strings.Repeat("a", 95) + "." + strings.Repeat("b", 10) + ".txt"
	got := SanitizeFilename(long)
	assert.NotContains(t, got, "..")
	assert.True(t, strings.HasSuffix(got, ".txt"))
	assert.LessOrEqual(t, len(got), 100)
	assert.Equal(t, got, SanitizeFilename(got))

	underscored := strings.Repeat("a", 95) + "_" + strings.Repeat("b", 10) + ".txt"
	got = SanitizeFilename(underscored)
	assert.NotContains(t, got, "..")
	assert.Equal(t, got, SanitizeFilename(got))
}

func TestSanitizeFilenamePreservesExtensionOnTruncate(t *testing.T) {
	long := strings.Repeat("x", 200) + ".pdf"
	got := SanitizeFilename(long)
	assert.Len(t, got, 100)
	assert.True(t, strings.HasSuffix(got, ".pdf"))
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "512 B", FormatSize(512))
	assert.Equal(t, "2.00 KB", FormatSize(2048))
	assert.Equal(t, "5.00 MB", FormatSize(5*1024*1024))
}
