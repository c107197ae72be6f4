// Package client is a Go client for the file gateway's REST surface.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/andresuchdata/s3-file-manager/internal/domain"
)

// APIError is a non-2xx answer from the gateway.
type APIError struct {
	StatusCode  int      `json:"-"`
	Err         string   `json:"error"`
	Message     string   `json:"message,omitempty"`
	MissingVars []string `json:"missingVars,omitempty"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Err, e.Message)
	}
	return fmt.Sprintf("%d %s", e.StatusCode, e.Err)
}

// Health is the body of GET /health.
type Health struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Storage   string `json:"storage"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a Client for baseURL. A nil httpClient uses a client with a
// 60 second timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Upload sends r as the multipart field "file" named filename.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (*domain.UploadedObject, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", mime.FormatMediaType("form-data", map[string]string{
		"name":     "file",
		"filename": filepath.Base(filename),
	}))
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("create form part: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("copy file into form: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var out struct {
		File domain.UploadedObject `json:"file"`
	}
	if err := c.doJSON(req, &out); err != nil {
		return nil, err
	}
	return &out.File, nil
}

func (c *Client) List(ctx context.Context) (*domain.FileListing, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/files", nil)
	if err != nil {
		return nil, err
	}

	var out domain.FileListing
	if err := c.doJSON(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Download copies the object at key into w and returns its content type
// and the number of bytes written.
func (c *Client) Download(ctx context.Context, key string, w io.Writer) (string, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.objectURL("/api/download/", key), nil)
	if err != nil {
		return "", 0, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("download %s: %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", 0, decodeAPIError(resp)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return "", n, fmt.Errorf("read download body: %w", err)
	}
	return resp.Header.Get("Content-Type"), n, nil
}

func (c *Client) Delete(ctx context.Context, key string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.objectURL("/api/delete/", key), nil)
	if err != nil {
		return err
	}
	return c.doJSON(req, nil)
}

func (c *Client) Info(ctx context.Context, key string) (*domain.FileInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.objectURL("/api/info/", key), nil)
	if err != nil {
		return nil, err
	}

	var out domain.FileInfo
	if err := c.doJSON(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Health(ctx context.Context) (*Health, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, err
	}

	var out Health
	if err := c.doJSON(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) objectURL(prefix, key string) string {
	return c.baseURL + prefix + url.PathEscape(key)
}

func (c *Client) doJSON(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil || apiErr.Err == "" {
		apiErr.Err = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
