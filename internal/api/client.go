// Package api provides the HTTP client for the video trimmer server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/financiallyruined/trimtui/internal/model"
)

const (
	requestTimeout = 10 * time.Second
	maxBodySize    = 1 << 20 // 1 MB
)

// ErrNotFound indicates the requested resource does not exist on the server.
var ErrNotFound = errors.New("api: not found")

// APIError carries the server-provided error message for a non-success status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api: HTTP %d", e.StatusCode)
}

// errorBody is the server's failure payload shape.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Client talks to the trimmer server.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the given server base URL.
// Returns nil if the URL is empty or unparseable.
func NewClient(baseURL string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{},
	}
}

// BaseURL returns the server base URL the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListDirectory fetches the listing for path. An empty path denotes the root.
func (c *Client) ListDirectory(ctx context.Context, path string) ([]model.DirectoryEntry, error) {
	payload, err := json.Marshal(map[string]string{"path": path})
	if err != nil {
		return nil, fmt.Errorf("api: encoding listing request: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, "/list_directory", "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	var entries []model.DirectoryEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("api: parsing listing: %w", err)
	}
	return entries, nil
}

// VideoInfo fetches the output size for a completed job.
func (c *Client) VideoInfo(ctx context.Context, jobID string) (int64, error) {
	body, err := c.do(ctx, http.MethodGet, "/video_info/"+url.PathEscape(jobID), "", nil)
	if err != nil {
		return 0, err
	}

	var info struct {
		Size int64 `json:"size"`
	}
	if err := json.Unmarshal(body, &info); err != nil {
		return 0, fmt.Errorf("api: parsing video info: %w", err)
	}
	return info.Size, nil
}

// Library fetches the list of previously produced videos.
func (c *Client) Library(ctx context.Context) ([]model.LibraryVideo, error) {
	body, err := c.do(ctx, http.MethodGet, "/my_videos", "", nil)
	if err != nil {
		return nil, err
	}

	var videos []model.LibraryVideo
	if err := json.Unmarshal(body, &videos); err != nil {
		return nil, fmt.Errorf("api: parsing library: %w", err)
	}
	return videos, nil
}

// DeleteVideo asks the server to delete a produced video by its library id.
func (c *Client) DeleteVideo(ctx context.Context, id int64) error {
	body, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/delete_video/%d", id), "", nil)
	if err != nil {
		return err
	}

	var result struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("api: parsing delete response: %w", err)
	}
	if !result.Success {
		return &APIError{StatusCode: http.StatusOK, Message: result.Message}
	}
	return nil
}

// DownloadURL returns the download link for a produced file name.
func (c *Client) DownloadURL(fileName string) string {
	return c.baseURL + "/download_trimmed/" + url.PathEscape(fileName)
}

// Download streams the produced artifact to w.
func (c *Client) Download(ctx context.Context, fileName string, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.DownloadURL(fileName), nil)
	if err != nil {
		return 0, fmt.Errorf("api: creating download request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("api: download failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return 0, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, &APIError{StatusCode: resp.StatusCode}
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("api: reading download: %w", err)
	}
	return n, nil
}

// do performs a request with a bounded timeout and returns the response body.
// Non-success statuses are turned into *APIError carrying the server message.
func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("api: creating request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	return c.send(req)
}

// send executes a prepared request and maps statuses to errors.
func (c *Client) send(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("api: reading response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: serverMessage(data)}
	}

	return data, nil
}

// serverMessage extracts the error string from a failure payload, if any.
func serverMessage(data []byte) string {
	var eb errorBody
	if err := json.Unmarshal(data, &eb); err != nil {
		return ""
	}
	if eb.Error != "" {
		return eb.Error
	}
	return eb.Message
}
