package library

import (
	"fmt"
	"testing"

	"github.com/financiallyruined/trimtui/internal/model"
)

func video(id int64, name, added string, size int64) model.LibraryVideo {
	return model.LibraryVideo{ID: id, Filename: name, DateAdded: added, FileSize: size}
}

func sample() []model.LibraryVideo {
	return []model.LibraryVideo{
		video(1, "beach_day.mp4", "2026-03-01T09:00:00", 300),
		video(2, "Concert_Final.mp4", "2026-01-15T12:00:00", 900),
		video(3, "birthday.mkv", "2026-02-20T18:30:00", 100),
	}
}

func names(videos []model.LibraryVideo) []string {
	out := make([]string, len(videos))
	for i, v := range videos {
		out[i] = v.Filename
	}
	return out
}

func TestSearch_CaseInsensitive(t *testing.T) {
	v := NewView(sample())

	v.Search("FINAL")
	if v.Len() != 1 || v.PageVideos()[0].ID != 2 {
		t.Fatalf("search FINAL matched %v", names(v.PageVideos()))
	}

	v.Search("b")
	if v.Len() != 2 {
		t.Fatalf("search b matched %v", names(v.PageVideos()))
	}

	v.Search("")
	if v.Len() != 3 {
		t.Fatalf("clearing search left %d videos", v.Len())
	}
}

func TestSortBy_FlipsDirection(t *testing.T) {
	v := NewView(sample())

	v.SortBy(SortBySize)
	got := names(v.PageVideos())
	if got[0] != "birthday.mkv" || got[2] != "Concert_Final.mp4" {
		t.Fatalf("size ascending = %v", got)
	}

	// Same field again reverses the order.
	v.SortBy(SortBySize)
	got = names(v.PageVideos())
	if got[0] != "Concert_Final.mp4" {
		t.Fatalf("size descending = %v", got)
	}

	// A different field resets to ascending.
	v.SortBy(SortByFilename)
	got = names(v.PageVideos())
	if got[0] != "beach_day.mp4" || got[1] != "birthday.mkv" {
		t.Fatalf("filename ascending (case-insensitive) = %v", got)
	}
}

func TestSortByDate(t *testing.T) {
	v := NewView(sample())
	v.SortBy(SortByDate)
	got := names(v.PageVideos())
	if got[0] != "Concert_Final.mp4" || got[2] != "beach_day.mp4" {
		t.Fatalf("date ascending = %v", got)
	}
}

func TestPagination(t *testing.T) {
	var videos []model.LibraryVideo
	for i := 1; i <= 23; i++ {
		videos = append(videos, video(int64(i), fmt.Sprintf("clip_%02d.mp4", i), "2026-01-01T00:00:00", int64(i)))
	}
	v := NewView(videos)

	if v.TotalPages() != 3 {
		t.Fatalf("TotalPages() = %d, want 3", v.TotalPages())
	}
	if len(v.PageVideos()) != PageSize {
		t.Fatalf("page 1 has %d rows, want %d", len(v.PageVideos()), PageSize)
	}

	v.NextPage()
	v.NextPage()
	if v.Page() != 3 || len(v.PageVideos()) != 3 {
		t.Fatalf("page 3: Page() = %d with %d rows", v.Page(), len(v.PageVideos()))
	}

	v.NextPage() // clamped at the last page
	if v.Page() != 3 {
		t.Fatalf("NextPage past the end moved to %d", v.Page())
	}

	v.PrevPage()
	v.PrevPage()
	v.PrevPage() // clamped at the first page
	if v.Page() != 1 {
		t.Fatalf("PrevPage past the start moved to %d", v.Page())
	}
}

func TestSearch_ResetsToFirstPage(t *testing.T) {
	var videos []model.LibraryVideo
	for i := 1; i <= 15; i++ {
		videos = append(videos, video(int64(i), fmt.Sprintf("clip_%02d.mp4", i), "2026-01-01T00:00:00", 1))
	}
	v := NewView(videos)
	v.NextPage()

	v.Search("clip_01")
	if v.Page() != 1 {
		t.Fatalf("Page() = %d after a narrowing search, want 1", v.Page())
	}
}

func TestRemove_ClampsPage(t *testing.T) {
	var videos []model.LibraryVideo
	for i := 1; i <= 11; i++ {
		videos = append(videos, video(int64(i), fmt.Sprintf("clip_%02d.mp4", i), "2026-01-01T00:00:00", 1))
	}
	v := NewView(videos)
	v.NextPage()
	if len(v.PageVideos()) != 1 {
		t.Fatalf("page 2 rows = %d, want 1", len(v.PageVideos()))
	}

	// Deleting the only row of the last page pulls the view back a page.
	v.Remove(v.PageVideos()[0].ID)
	if v.Page() != 1 || v.Len() != 10 {
		t.Fatalf("after Remove: Page() = %d, Len() = %d", v.Page(), v.Len())
	}
}

func TestSetSnapshot_KeepsQueryAndSort(t *testing.T) {
	v := NewView(sample())
	v.Search("mp4")
	v.SortBy(SortBySize)

	refreshed := append(sample(), video(4, "new_clip.mp4", "2026-04-01T00:00:00", 50))
	v.SetSnapshot(refreshed)

	if v.Len() != 3 {
		t.Fatalf("Len() = %d after refresh, want 3 mp4 files", v.Len())
	}
	if got := v.PageVideos()[0].Filename; got != "new_clip.mp4" {
		t.Fatalf("smallest mp4 first, got %v", names(v.PageVideos()))
	}
}
