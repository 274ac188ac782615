package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/talentdesk/intake-api/pkg/storage"
)

func newDownloadRouter(t *testing.T, signer *storage.URLSigner) (*gin.Engine, *storage.Local) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	local, err := storage.NewLocal(t.TempDir(), "http://localhost:8080", signer)
	require.NoError(t, err)

	router := gin.New()
	router.GET("/files/download/*object", NewDownloadHandler(local, signer).Download)
	return router, local
}

func TestDownloadHandlerServesSignedURL(t *testing.T) {
	signer := storage.NewURLSigner("test-secret", time.Hour)
	router, local := newDownloadRouter(t, signer)

	payload := []byte("%PDF-1.7 stored resume")
	obj, err := local.Upload(context.Background(), storage.UploadInput{
		Data:     payload,
		Filename: "resume.pdf",
		MimeType: "application/pdf",
		Folder:   "candidates/resumes",
	})
	require.NoError(t, err)

	minted, err := url.Parse(obj.URL)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, minted.Path+"?"+minted.RawQuery, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, payload, rec.Body.Bytes())
	require.Contains(t, rec.Header().Get("Content-Disposition"), "resume.pdf")
}

func TestDownloadHandlerRejectsTamperedToken(t *testing.T) {
	signer := storage.NewURLSigner("test-secret", time.Hour)
	router, local := newDownloadRouter(t, signer)

	obj, err := local.Upload(context.Background(), storage.UploadInput{
		Data:     []byte("%PDF-1.7 body"),
		Filename: "resume.pdf",
		Folder:   "candidates/resumes",
	})
	require.NoError(t, err)

	minted, err := url.Parse(obj.URL)
	require.NoError(t, err)
	token := minted.Query().Get("token")
	require.NotEmpty(t, token)

	for _, bad := range []string{"", token + "x", strings.ToUpper(token)} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, minted.Path+"?token="+url.QueryEscape(bad), nil))
		require.Equal(t, http.StatusForbidden, rec.Code, "token %q", bad)
	}
}

func TestDownloadHandlerTokenBoundToObject(t *testing.T) {
	signer := storage.NewURLSigner("test-secret", time.Hour)
	router, local := newDownloadRouter(t, signer)

	first, err := local.Upload(context.Background(), storage.UploadInput{
		Data:     []byte("first"),
		Filename: "a.pdf",
		Folder:   "candidates/resumes",
	})
	require.NoError(t, err)
	second, err := local.Upload(context.Background(), storage.UploadInput{
		Data:     []byte("second"),
		Filename: "b.pdf",
		Folder:   "candidates/resumes",
	})
	require.NoError(t, err)

	firstURL, err := url.Parse(first.URL)
	require.NoError(t, err)
	secondURL, err := url.Parse(second.URL)
	require.NoError(t, err)

	// A valid token for one object must not unlock another.
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, secondURL.Path+"?"+firstURL.RawQuery, nil))
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDownloadHandlerMissingObject(t *testing.T) {
	signer := storage.NewURLSigner("test-secret", time.Hour)
	router, _ := newDownloadRouter(t, signer)

	token, _, err := signer.Generate("candidates/resumes/gone.pdf")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/files/download/candidates/resumes/gone.pdf?token="+url.QueryEscape(token), nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
