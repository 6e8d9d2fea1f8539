// Package navigator tracks the server directory browsing state used to pick
// an input video: the current path, the rendered listing, the single selected
// file, and the manually typed override path.
package navigator

import (
	"errors"
	"strings"

	"github.com/financiallyruined/trimtui/internal/model"
)

// ErrNoInput indicates neither a selection nor an override path is set.
var ErrNoInput = errors.New("navigator: no input file selected")

// ErrNotAFile indicates an attempt to select a directory entry.
var ErrNotAFile = errors.New("navigator: only files can be selected")

// Input is the resolved file reference handed to job submission.
// Exactly one of FilePath (server-side, relative to the video root) or
// CustomPath (typed override) is non-empty.
type Input struct {
	FilePath   string
	CustomPath string
}

// State is the directory navigator. The zero value browses the root with
// nothing selected.
type State struct {
	currentPath string
	entries     []model.DirectoryEntry

	selected    model.DirectoryEntry
	hasSelected bool

	overridePath string
}

// CurrentPath returns the path of the listing currently rendered.
// Empty means the root.
func (s *State) CurrentPath() string {
	return s.currentPath
}

// Entries returns the rendered listing.
func (s *State) Entries() []model.DirectoryEntry {
	return s.entries
}

// ApplyListing replaces the rendered entry set with a fresh server response
// and records the browsed path. It is a full replace: nothing from a previous
// path survives. The selection is deliberately kept — a listing failure or a
// navigation elsewhere must not clear a file the user already picked.
func (s *State) ApplyListing(path string, entries []model.DirectoryEntry) {
	s.currentPath = path
	s.entries = entries
}

// ParentPath returns the path one level up from the current one, derived by
// dropping the last path component. At the root it returns the root.
func (s *State) ParentPath() string {
	if s.currentPath == "" {
		return ""
	}
	i := strings.LastIndex(s.currentPath, "/")
	if i < 0 {
		return ""
	}
	return s.currentPath[:i]
}

// AtRoot reports whether the navigator is at the listing root, where
// navigating up is not offered.
func (s *State) AtRoot() bool {
	return s.currentPath == ""
}

// Select marks a file entry as the chosen input and clears any override path.
// Directories are opened, never selected.
func (s *State) Select(e model.DirectoryEntry) error {
	if !e.IsFile() {
		return ErrNotAFile
	}
	s.selected = e
	s.hasSelected = true
	s.overridePath = ""
	return nil
}

// Selected returns the currently selected file entry, if any.
func (s *State) Selected() (model.DirectoryEntry, bool) {
	if !s.hasSelected {
		return model.DirectoryEntry{}, false
	}
	return s.selected, true
}

// IsSelected reports whether e is the currently selected entry. At most one
// entry is selected at any time.
func (s *State) IsSelected(e model.DirectoryEntry) bool {
	return s.hasSelected && s.selected.Path == e.Path
}

// SetOverride records a manually typed path. Any non-empty value clears the
// selection (last write wins).
func (s *State) SetOverride(text string) {
	s.overridePath = text
	if text != "" {
		s.selected = model.DirectoryEntry{}
		s.hasSelected = false
	}
}

// Override returns the current override path, or empty.
func (s *State) Override() string {
	return s.overridePath
}

// Resolve returns the input file reference for submission. It fails when
// neither a selection nor a non-empty override path is set; the caller must
// reject submission before any network call in that case.
func (s *State) Resolve() (Input, error) {
	if s.overridePath != "" {
		return Input{CustomPath: s.overridePath}, nil
	}
	if s.hasSelected {
		return Input{FilePath: s.selected.Path}, nil
	}
	return Input{}, ErrNoInput
}

// Reset clears the selection, override, and rendered listing.
func (s *State) Reset() {
	*s = State{}
}
