package repl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
)

// ServiceClient calls an extraction service: multipart file upload with the
// shared-secret bearer credential.
type ServiceClient struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

// NewServiceClient creates a client for one service base URL.
func NewServiceClient(baseURL, token string) *ServiceClient {
	return &ServiceClient{
		BaseURL: baseURL,
		Token:   token,
		HTTP:    http.DefaultClient,
	}
}

// ExtractText uploads the file bytes to the given endpoint (e.g. "/ocr",
// "/extract") and returns the extracted text. A non-200 response or a body
// without a "text" field is an error.
func (c *ServiceClient) ExtractText(ctx context.Context, endpoint, path string, data []byte) (string, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", err
	}
	if _, err := part.Write(data); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("service call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errText, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("service error (status %d): %s", resp.StatusCode, bytes.TrimSpace(errText))
	}

	var parsed struct {
		Text *string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("service response malformed: %w", err)
	}
	if parsed.Text == nil {
		return "", fmt.Errorf("service response missing text field")
	}
	return *parsed.Text, nil
}
