package cmd

import (
	"testing"
)

func TestParseSegments(t *testing.T) {
	segs, err := parseSegments([]string{"00:01:30-00:02:45", "05:00 - 06:10"})
	if err != nil {
		t.Fatalf("parseSegments: %v", err)
	}
	if len(segs) != 2 {
		t.Fatalf("got %d segments, want 2", len(segs))
	}
	if segs[0].StartTime != "00:01:30" || segs[0].EndTime != "00:02:45" {
		t.Errorf("segment 0 = %+v", segs[0])
	}
	if segs[1].StartTime != "05:00" || segs[1].EndTime != "06:10" {
		t.Errorf("whitespace not trimmed: %+v", segs[1])
	}
}

func TestParseSegments_Errors(t *testing.T) {
	if _, err := parseSegments(nil); err == nil {
		t.Error("no segments should be rejected")
	}
	if _, err := parseSegments([]string{"00:01:30"}); err == nil {
		t.Error("missing separator should be rejected")
	}
	if _, err := parseSegments([]string{"00:99-01:00"}); err == nil {
		t.Error("invalid timecode should be rejected")
	}
	if _, err := parseSegments([]string{"-01:00"}); err == nil {
		t.Error("empty start should be rejected")
	}
}

func TestSortFieldNames(t *testing.T) {
	for _, name := range []string{"name", "filename", "date", "added", "size"} {
		if _, err := sortField(name); err != nil {
			t.Errorf("sortField(%q): %v", name, err)
		}
	}
	if _, err := sortField("color"); err == nil {
		t.Error("unknown field should be rejected")
	}
}
