// Package library implements the client-side view over the produced-videos
// snapshot: filename search, sorting, and fixed-size pagination.
package library

import (
	"sort"
	"strings"

	"github.com/financiallyruined/trimtui/internal/model"
)

// PageSize is the number of videos shown per page.
const PageSize = 10

// SortField selects the column videos are ordered by.
type SortField string

const (
	SortByFilename SortField = "filename"
	SortByDate     SortField = "date_added"
	SortBySize     SortField = "file_size"
)

// View filters, sorts, and paginates a fixed snapshot of library videos.
// Mutating operations reset the page to the first one.
type View struct {
	videos   []model.LibraryVideo
	filtered []model.LibraryVideo

	query     string
	sortField SortField
	ascending bool
	page      int // 1-based
}

// NewView creates a view over a snapshot, sorted by filename ascending.
func NewView(videos []model.LibraryVideo) *View {
	v := &View{
		videos:    videos,
		sortField: SortByFilename,
		ascending: true,
		page:      1,
	}
	v.refresh()
	return v
}

// SetSnapshot replaces the underlying snapshot, keeping the current query and
// sort order.
func (v *View) SetSnapshot(videos []model.LibraryVideo) {
	v.videos = videos
	v.page = 1
	v.refresh()
}

// Search filters to filenames containing term, case-insensitively.
func (v *View) Search(term string) {
	v.query = term
	v.page = 1
	v.refresh()
}

// Query returns the active search term.
func (v *View) Query() string {
	return v.query
}

// SortBy orders the filtered list by field. Sorting by the already-active
// field flips the direction.
func (v *View) SortBy(field SortField) {
	if v.sortField == field {
		v.ascending = !v.ascending
	} else {
		v.sortField = field
		v.ascending = true
	}
	v.page = 1
	v.refresh()
}

// Sort returns the active sort field and direction.
func (v *View) Sort() (SortField, bool) {
	return v.sortField, v.ascending
}

func (v *View) refresh() {
	if v.query == "" {
		v.filtered = append([]model.LibraryVideo(nil), v.videos...)
	} else {
		term := strings.ToLower(v.query)
		v.filtered = v.filtered[:0]
		for _, vid := range v.videos {
			if strings.Contains(strings.ToLower(vid.Filename), term) {
				v.filtered = append(v.filtered, vid)
			}
		}
	}

	field, asc := v.sortField, v.ascending
	sort.SliceStable(v.filtered, func(i, j int) bool {
		a, b := v.filtered[i], v.filtered[j]
		var less bool
		switch field {
		case SortByDate:
			less = a.Added().Before(b.Added())
		case SortBySize:
			less = a.FileSize < b.FileSize
		default:
			less = strings.ToLower(a.Filename) < strings.ToLower(b.Filename)
		}
		if asc {
			return less
		}
		return !less
	})
}

// TotalPages returns the page count for the filtered list, at least 1.
func (v *View) TotalPages() int {
	n := (len(v.filtered) + PageSize - 1) / PageSize
	if n < 1 {
		n = 1
	}
	return n
}

// Page returns the 1-based current page number.
func (v *View) Page() int {
	return v.page
}

// NextPage advances one page if there is one.
func (v *View) NextPage() {
	if v.page < v.TotalPages() {
		v.page++
	}
}

// PrevPage goes back one page if there is one.
func (v *View) PrevPage() {
	if v.page > 1 {
		v.page--
	}
}

// PageVideos returns the videos visible on the current page.
func (v *View) PageVideos() []model.LibraryVideo {
	start := (v.page - 1) * PageSize
	if start >= len(v.filtered) {
		return nil
	}
	end := start + PageSize
	if end > len(v.filtered) {
		end = len(v.filtered)
	}
	return v.filtered[start:end]
}

// Len returns the filtered video count.
func (v *View) Len() int {
	return len(v.filtered)
}

// Remove drops a video from the snapshot after a confirmed server delete,
// clamping the page if the last item of the last page disappeared.
func (v *View) Remove(id int64) {
	for i, vid := range v.videos {
		if vid.ID == id {
			v.videos = append(v.videos[:i], v.videos[i+1:]...)
			break
		}
	}
	v.refresh()
	if v.page > v.TotalPages() {
		v.page = v.TotalPages()
	}
}
