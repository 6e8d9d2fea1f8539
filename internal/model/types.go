// Package model defines domain types shared by the trimtui client.
package model

import (
	"path"
	"regexp"
	"strings"
	"time"
)

// EntryKind distinguishes files from directories in a server listing.
type EntryKind string

const (
	KindFile      EntryKind = "file"
	KindDirectory EntryKind = "directory"
)

// DirectoryEntry is one item of a server directory listing.
// Size is only meaningful for files.
type DirectoryEntry struct {
	Name string    `json:"name"`
	Path string    `json:"path"`
	Kind EntryKind `json:"type"`
	Size int64     `json:"size,omitempty"`
}

// IsFile reports whether the entry is a selectable video file.
func (e DirectoryEntry) IsFile() bool {
	return e.Kind == KindFile
}

// TimeSegment is one (start, end) range to extract from the source video.
// Values are raw user input; validation happens at submit time.
type TimeSegment struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// Job identifies one server-side trimming task.
type Job struct {
	ID       string `json:"job_id"`
	FileName string `json:"file_name"`
}

// LibraryVideo is one previously produced output, as listed by the server.
type LibraryVideo struct {
	ID        int64  `json:"id"`
	Filename  string `json:"filename"`
	DateAdded string `json:"date_added"`
	FileSize  int64  `json:"file_size"`
}

// Added parses the server's ISO-8601 date_added for sorting; zero on failure.
func (v LibraryVideo) Added() time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, v.DateAdded); err == nil {
			return t
		}
	}
	return time.Time{}
}

// timePattern matches the trim form's time-of-day inputs: an optional
// hours component, optional minutes, and seconds, e.g. "5", "04:30",
// "1:02:03". Minutes and seconds are 0-59.
var timePattern = regexp.MustCompile(`^(?:(?:([0-9]{1,2}):)?([0-5]?[0-9]):)?([0-5]?[0-9])$`)

// ValidTimecode reports whether s is a well-formed segment boundary.
func ValidTimecode(s string) bool {
	return timePattern.MatchString(s)
}

// AllowedExtensions lists the input formats the server will trim.
// The server remains authoritative; this is a client-side hint.
var AllowedExtensions = []string{".mp4", ".avi", ".mov", ".mkv"}

// AllowedFile reports whether name has a trimmable extension.
func AllowedFile(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	for _, a := range AllowedExtensions {
		if ext == a {
			return true
		}
	}
	return false
}
