package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	appErrors "github.com/talentdesk/intake-api/pkg/errors"
)

// ProviderConfig configures the remote blob provider client.
type ProviderConfig struct {
	BaseURL        string
	APIKey         string
	RequestTimeout time.Duration
}

// Provider talks to the external blob store over its REST API. Responses
// are normalized into Object or a typed error; errors are classified by
// HTTP status code, never by parsing human-readable text.
type Provider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

type providerUploadResponse struct {
	URL      string `json:"url"`
	ObjectID string `json:"object_id"`
	Error    *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewProvider constructs the client with a bounded request timeout.
func NewProvider(cfg ProviderConfig) *Provider {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Provider{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// Upload performs one atomic remote upload call.
func (p *Provider) Upload(ctx context.Context, in UploadInput) (*Object, error) {
	if len(in.Data) == 0 {
		return nil, appErrors.Clone(appErrors.ErrUploadFailed, "upload payload is empty")
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", in.Filename)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUploadFailed.Code, appErrors.ErrUploadFailed.Status, "failed to build upload payload")
	}
	if _, err := part.Write(in.Data); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUploadFailed.Code, appErrors.ErrUploadFailed.Status, "failed to build upload payload")
	}
	if err := writer.WriteField("folder", in.Folder); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUploadFailed.Code, appErrors.ErrUploadFailed.Status, "failed to build upload payload")
	}
	if err := writer.Close(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUploadFailed.Code, appErrors.ErrUploadFailed.Status, "failed to build upload payload")
	}

	endpoint := fmt.Sprintf("%s/%s/upload", p.baseURL, in.Kind)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUploadFailed.Code, appErrors.ErrUploadFailed.Status, "failed to build upload request")
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUploadFailed.Code, appErrors.ErrUploadFailed.Status, "storage provider unreachable")
	}
	defer resp.Body.Close() //nolint:errcheck

	payload, err := decodeProviderResponse(resp)
	if err != nil {
		return nil, err
	}
	if payload.URL == "" || payload.ObjectID == "" {
		return nil, appErrors.Clone(appErrors.ErrUploadFailed, "storage provider returned an incomplete response")
	}

	return &Object{URL: payload.URL, ID: payload.ObjectID}, nil
}

// Delete removes a remote blob. Used by the orphan compensation workers,
// never automatically inside the submission pipeline.
func (p *Provider) Delete(ctx context.Context, objectID string, kind Kind) error {
	form := url.Values{}
	form.Set("object_id", objectID)

	endpoint := fmt.Sprintf("%s/%s/destroy", p.baseURL, kind)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrUploadFailed.Code, appErrors.ErrUploadFailed.Status, "failed to build delete request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrUploadFailed.Code, appErrors.ErrUploadFailed.Status, "storage provider unreachable")
	}
	defer resp.Body.Close() //nolint:errcheck

	if _, err := decodeProviderResponse(resp); err != nil {
		return err
	}
	return nil
}

func decodeProviderResponse(resp *http.Response) (*providerUploadResponse, error) {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUploadFailed.Code, appErrors.ErrUploadFailed.Status, "failed to read provider response")
	}

	payload := &providerUploadResponse{}
	if len(raw) > 0 {
		// Tolerate non-JSON bodies on error statuses.
		_ = json.Unmarshal(raw, payload)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return payload, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, appErrors.Clone(appErrors.ErrStoreUnauthorized, "storage provider rejected the configured credentials")
	case resp.StatusCode == http.StatusRequestEntityTooLarge:
		return nil, appErrors.Clone(appErrors.ErrFileTooLarge, "storage provider rejected the payload size")
	default:
		message := "storage provider request failed"
		if payload.Error != nil && payload.Error.Message != "" {
			message = fmt.Sprintf("storage provider request failed: %s", payload.Error.Message)
		}
		return nil, appErrors.Clone(appErrors.ErrUploadFailed, message)
	}
}
