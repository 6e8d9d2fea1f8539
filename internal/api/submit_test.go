package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/financiallyruined/trimtui/internal/model"
)

func TestSubmitJob_MultipartFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/trim" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parsing multipart form: %v", err)
		}

		if got := r.FormValue("file"); got != "clips/final.mp4" {
			t.Errorf("file field = %q", got)
		}
		if got := r.FormValue("custom_path"); got != "" {
			t.Errorf("custom_path field = %q, want empty", got)
		}

		var segs []model.TimeSegment
		if err := json.Unmarshal([]byte(r.FormValue("time_segments")), &segs); err != nil {
			t.Fatalf("time_segments is not JSON: %v", err)
		}
		if len(segs) != 2 || segs[0].StartTime != "00:00:10" || segs[1].EndTime != "00:03:00" {
			t.Errorf("time_segments = %+v", segs)
		}

		_, _ = w.Write([]byte(`{"job_id": "job-1", "file_name": "trimmed_final.mp4"}`))
	}))
	defer srv.Close()

	job, err := NewClient(srv.URL).SubmitJob(context.Background(), SubmitRequest{
		FilePath: "clips/final.mp4",
		Segments: []model.TimeSegment{
			{StartTime: "00:00:10", EndTime: "00:00:25"},
			{StartTime: "00:02:00", EndTime: "00:03:00"},
		},
	})
	if err != nil {
		t.Fatalf("SubmitJob: %v", err)
	}
	if job.ID != "job-1" || job.FileName != "trimmed_final.mp4" {
		t.Fatalf("job = %+v", job)
	}
}

func TestSubmitJob_CustomPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parsing multipart form: %v", err)
		}
		if got := r.FormValue("custom_path"); got != "/mnt/raw/input.mkv" {
			t.Errorf("custom_path field = %q", got)
		}
		if got := r.FormValue("file"); got != "" {
			t.Errorf("file field = %q, want empty", got)
		}
		_, _ = w.Write([]byte(`{"job_id": "job-2", "file_name": "trimmed_input.mkv"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).SubmitJob(context.Background(), SubmitRequest{
		CustomPath: "/mnt/raw/input.mkv",
		Segments:   []model.TimeSegment{{StartTime: "0:05", EndTime: "0:10"}},
	})
	if err != nil {
		t.Fatalf("SubmitJob: %v", err)
	}
}

func TestSubmitJob_Upload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parsing multipart form: %v", err)
		}

		f, hdr, err := r.FormFile("upload")
		if err != nil {
			t.Fatalf("upload part missing: %v", err)
		}
		defer func() { _ = f.Close() }()

		if hdr.Filename != "local.mp4" {
			t.Errorf("upload filename = %q", hdr.Filename)
		}
		data, _ := io.ReadAll(f)
		if string(data) != "fake video bytes" {
			t.Errorf("upload body = %q", data)
		}

		_, _ = w.Write([]byte(`{"job_id": "job-3", "file_name": "trimmed_local.mp4"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).SubmitJob(context.Background(), SubmitRequest{
		Upload:     strings.NewReader("fake video bytes"),
		UploadName: "local.mp4",
		Segments:   []model.TimeSegment{{StartTime: "0:00", EndTime: "0:05"}},
	})
	if err != nil {
		t.Fatalf("SubmitJob: %v", err)
	}
}

func TestSubmitJob_RejectsEmptyInput(t *testing.T) {
	c := NewClient("http://localhost:5000")

	_, err := c.SubmitJob(context.Background(), SubmitRequest{
		Segments: []model.TimeSegment{{StartTime: "0:00", EndTime: "0:05"}},
	})
	if !errors.Is(err, ErrNoInput) {
		t.Fatalf("err = %v, want ErrNoInput", err)
	}

	_, err = c.SubmitJob(context.Background(), SubmitRequest{FilePath: "a.mp4"})
	if !errors.Is(err, ErrNoSegments) {
		t.Fatalf("err = %v, want ErrNoSegments", err)
	}
}

func TestSubmitJob_MissingJobID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).SubmitJob(context.Background(), SubmitRequest{
		FilePath: "a.mp4",
		Segments: []model.TimeSegment{{StartTime: "0:00", EndTime: "0:05"}},
	})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError for a missing job id", err)
	}
}
