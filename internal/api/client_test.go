package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewClient(t *testing.T) {
	if c := NewClient(""); c != nil {
		t.Fatal("NewClient(\"\") should return nil")
	}
	if c := NewClient("   "); c != nil {
		t.Fatal("NewClient(blank) should return nil")
	}

	c := NewClient("http://localhost:5000/")
	if c == nil {
		t.Fatal("NewClient returned nil for a valid URL")
	}
	if got := c.BaseURL(); got != "http://localhost:5000" {
		t.Fatalf("BaseURL() = %q, want trailing slash stripped", got)
	}
}

func TestListDirectory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/list_directory" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}

		var req struct {
			Path string `json:"path"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		if req.Path != "clips/2024" {
			t.Errorf("request path = %q, want clips/2024", req.Path)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"name": "march", "path": "clips/2024/march", "type": "directory"},
			{"name": "final.mp4", "path": "clips/2024/final.mp4", "type": "file", "size": 52428800}
		]`))
	}))
	defer srv.Close()

	entries, err := NewClient(srv.URL).ListDirectory(context.Background(), "clips/2024")
	if err != nil {
		t.Fatalf("ListDirectory: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].IsFile() {
		t.Errorf("first entry should be a directory: %+v", entries[0])
	}
	if !entries[1].IsFile() || entries[1].Size != 52428800 {
		t.Errorf("second entry = %+v, want a 50 MB file", entries[1])
	}
}

func TestListDirectory_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": "no such directory"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).ListDirectory(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDo_ServerErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": "ffmpeg exploded"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Library(context.Background())

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", apiErr.StatusCode)
	}
	if apiErr.Message != "ffmpeg exploded" {
		t.Errorf("Message = %q, want the server's error field", apiErr.Message)
	}
}

func TestVideoInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/video_info/job-42" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"size": 2400000}`))
	}))
	defer srv.Close()

	size, err := NewClient(srv.URL).VideoInfo(context.Background(), "job-42")
	if err != nil {
		t.Fatalf("VideoInfo: %v", err)
	}
	if size != 2400000 {
		t.Fatalf("size = %d, want 2400000", size)
	}
}

func TestLibrary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/my_videos" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`[
			{"id": 7, "filename": "trimmed_final.mp4", "date_added": "2026-08-01T10:30:00", "file_size": 1048576}
		]`))
	}))
	defer srv.Close()

	videos, err := NewClient(srv.URL).Library(context.Background())
	if err != nil {
		t.Fatalf("Library: %v", err)
	}
	if len(videos) != 1 {
		t.Fatalf("got %d videos, want 1", len(videos))
	}
	v := videos[0]
	if v.ID != 7 || v.Filename != "trimmed_final.mp4" || v.FileSize != 1048576 {
		t.Errorf("video = %+v", v)
	}
	if v.Added().IsZero() {
		t.Error("Added() should parse the server timestamp")
	}
}

func TestDeleteVideo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/delete_video/7" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"success": true}`))
	}))
	defer srv.Close()

	if err := NewClient(srv.URL).DeleteVideo(context.Background(), 7); err != nil {
		t.Fatalf("DeleteVideo: %v", err)
	}
}

func TestDeleteVideo_ServerRefusal(t *testing.T) {
	// The server reports some failures with HTTP 200 and success: false.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success": false, "message": "file in use"}`))
	}))
	defer srv.Close()

	err := NewClient(srv.URL).DeleteVideo(context.Background(), 7)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "file in use" {
		t.Fatalf("err = %v, want *APIError with the server message", err)
	}
}

func TestDownloadURL_EscapesFileName(t *testing.T) {
	c := NewClient("http://localhost:5000")
	got := c.DownloadURL("trimmed my video.mp4")
	want := "http://localhost:5000/download_trimmed/trimmed%20my%20video.mp4"
	if got != want {
		t.Fatalf("DownloadURL() = %q, want %q", got, want)
	}
}

func TestDownload(t *testing.T) {
	payload := []byte("not really an mp4")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/download_trimmed/out.mp4" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	var buf bytes.Buffer
	n, err := NewClient(srv.URL).Download(context.Background(), "out.mp4", &buf)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if n != int64(len(payload)) || !bytes.Equal(buf.Bytes(), payload) {
		t.Fatalf("downloaded %d bytes %q, want %q", n, buf.Bytes(), payload)
	}
}

func TestDownload_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	var buf bytes.Buffer
	if _, err := NewClient(srv.URL).Download(context.Background(), "gone.mp4", &buf); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
