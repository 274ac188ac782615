package storage

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalUploadAndDelete(t *testing.T) {
	signer := NewURLSigner("secret", time.Hour)
	local, err := NewLocal(t.TempDir(), "http://localhost:8080", signer)
	require.NoError(t, err)

	obj, err := local.Upload(context.Background(), UploadInput{
		Data:     []byte("%PDF-1.7 test"),
		Filename: "resume.pdf",
		Folder:   "candidates/resume",
		Kind:     KindRaw,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(obj.URL, "http://localhost:8080/files/download/candidates/resume/"))
	assert.Contains(t, obj.URL, "?token=")
	assert.True(t, strings.HasPrefix(obj.ID, "candidates/resume/"))

	file, err := local.Open(obj.ID)
	require.NoError(t, err)
	content, err := io.ReadAll(file)
	require.NoError(t, err)
	require.NoError(t, file.Close())
	assert.Equal(t, []byte("%PDF-1.7 test"), content)

	require.NoError(t, local.Delete(context.Background(), obj.ID, KindRaw))
	_, err = local.Open(obj.ID)
	require.Error(t, err)

	// Deleting a missing object is not an error.
	require.NoError(t, local.Delete(context.Background(), obj.ID, KindRaw))
}

func TestLocalUploadEmptyPayload(t *testing.T) {
	local, err := NewLocal(t.TempDir(), "http://localhost:8080", nil)
	require.NoError(t, err)
	_, err = local.Upload(context.Background(), UploadInput{Filename: "x.pdf"})
	require.Error(t, err)
}

func TestURLSignerRoundTrip(t *testing.T) {
	signer := NewURLSigner("secret", time.Hour)
	token, expiresAt, err := signer.Generate("candidates/resume/abc.pdf")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.False(t, expiresAt.IsZero())

	path, parsedExpiry, err := signer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "candidates/resume/abc.pdf", path)
	assert.WithinDuration(t, expiresAt, parsedExpiry, time.Second)
}

func TestURLSignerExpired(t *testing.T) {
	signer := NewURLSigner("secret", 10*time.Millisecond)
	token, _, err := signer.Generate("candidates/resume/abc.pdf")
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)

	_, _, err = signer.Parse(token)
	require.Error(t, err)
}

func TestURLSignerTamperedToken(t *testing.T) {
	signer := NewURLSigner("secret", time.Hour)
	token, _, err := signer.Generate("candidates/resume/abc.pdf")
	require.NoError(t, err)

	other := NewURLSigner("other-secret", time.Hour)
	_, _, err = other.Parse(token)
	require.Error(t, err)

	_, _, err = signer.Parse(token + "x")
	require.Error(t, err)
}
