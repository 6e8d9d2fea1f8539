package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/financiallyruined/trimtui/internal/model"
)

// SubmitRequest carries everything needed to create a trimming job.
// Exactly one of FilePath, CustomPath, or Upload must be set.
type SubmitRequest struct {
	// FilePath is a server-side path relative to the video root,
	// as returned by ListDirectory.
	FilePath string

	// CustomPath is a manually typed location that bypasses the browser.
	CustomPath string

	// Upload streams a local file to the server instead of referencing
	// a server-side path. UploadName is its file name.
	Upload     io.Reader
	UploadName string

	// Segments is the ordered list of time ranges to extract.
	Segments []model.TimeSegment
}

// ErrNoInput indicates the request resolves to no usable input file.
var ErrNoInput = errors.New("api: no input file selected")

// ErrNoSegments indicates the request carries no time segments.
var ErrNoSegments = errors.New("api: no time segments")

// SubmitJob creates a trimming job. The request is a multipart form with the
// chosen file reference and a time_segments field carrying the serialized
// segment array. On success the server acknowledges with a job id and the
// output file name.
func (c *Client) SubmitJob(ctx context.Context, sr SubmitRequest) (model.Job, error) {
	if sr.FilePath == "" && sr.CustomPath == "" && sr.Upload == nil {
		return model.Job{}, ErrNoInput
	}
	if len(sr.Segments) == 0 {
		return model.Job{}, ErrNoSegments
	}

	segJSON, err := json.Marshal(sr.Segments)
	if err != nil {
		return model.Job{}, fmt.Errorf("api: encoding segments: %w", err)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if sr.FilePath != "" {
		if err := mw.WriteField("file", sr.FilePath); err != nil {
			return model.Job{}, fmt.Errorf("api: writing file field: %w", err)
		}
	}
	if sr.CustomPath != "" {
		if err := mw.WriteField("custom_path", sr.CustomPath); err != nil {
			return model.Job{}, fmt.Errorf("api: writing custom_path field: %w", err)
		}
	}
	if err := mw.WriteField("time_segments", string(segJSON)); err != nil {
		return model.Job{}, fmt.Errorf("api: writing time_segments field: %w", err)
	}
	if sr.Upload != nil {
		part, err := mw.CreateFormFile("upload", sr.UploadName)
		if err != nil {
			return model.Job{}, fmt.Errorf("api: creating upload part: %w", err)
		}
		if _, err := io.Copy(part, sr.Upload); err != nil {
			return model.Job{}, fmt.Errorf("api: copying upload: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return model.Job{}, fmt.Errorf("api: finalizing form: %w", err)
	}

	// No bounded timeout here: uploads can be large, and the caller's
	// context governs cancellation.
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/trim", &buf)
	if err != nil {
		return model.Job{}, fmt.Errorf("api: creating request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	body, err := c.send(req)
	if err != nil {
		return model.Job{}, err
	}

	var job model.Job
	if err := json.Unmarshal(body, &job); err != nil {
		return model.Job{}, fmt.Errorf("api: parsing job ack: %w", err)
	}
	if job.ID == "" {
		return model.Job{}, &APIError{StatusCode: http.StatusOK, Message: "server returned no job id"}
	}
	return job, nil
}
