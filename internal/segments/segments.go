// Package segments maintains the ordered list of time ranges to extract.
package segments

import (
	"errors"

	"github.com/financiallyruined/trimtui/internal/model"
)

// ErrLastSegment indicates a removal that would leave the list empty.
var ErrLastSegment = errors.New("segments: at least one time segment is required")

// ErrUnknownID indicates a removal targeting an id that is not in the list.
var ErrUnknownID = errors.New("segments: no such segment")

// Segment is one editable (start, end) range. ID is assigned at creation,
// monotonically increasing and never reused, so removal targets the right
// element even after earlier removals shift indexes.
type Segment struct {
	ID    int
	Start string
	End   string
}

// Builder holds the ordered segment list. Use New; the zero value has no
// initial segment.
type Builder struct {
	segs   []Segment
	nextID int
}

// New returns a builder seeded with one empty segment. The first segment
// behaves exactly like any added one; it only exists eagerly.
func New() *Builder {
	b := &Builder{}
	b.Add()
	return b
}

// Add appends one empty segment at the end and returns its id.
func (b *Builder) Add() int {
	id := b.nextID
	b.nextID++
	b.segs = append(b.segs, Segment{ID: id})
	return id
}

// Remove deletes the segment with the given id. Removal is rejected, with no
// mutation, when it would drop the list below one segment.
func (b *Builder) Remove(id int) error {
	if len(b.segs) <= 1 {
		return ErrLastSegment
	}
	for i, s := range b.segs {
		if s.ID == id {
			b.segs = append(b.segs[:i], b.segs[i+1:]...)
			return nil
		}
	}
	return ErrUnknownID
}

// Set updates the start and end values of the segment with the given id.
func (b *Builder) Set(id int, start, end string) error {
	for i := range b.segs {
		if b.segs[i].ID == id {
			b.segs[i].Start = start
			b.segs[i].End = end
			return nil
		}
	}
	return ErrUnknownID
}

// Len returns the number of segments.
func (b *Builder) Len() int {
	return len(b.segs)
}

// Segments returns the ordered segment list.
func (b *Builder) Segments() []Segment {
	return b.segs
}

// Serialize produces the ordered wire form exactly as currently populated,
// including empty or invalid strings. Validation is a submit-time and
// server-side concern.
func (b *Builder) Serialize() []model.TimeSegment {
	out := make([]model.TimeSegment, len(b.segs))
	for i, s := range b.segs {
		out[i] = model.TimeSegment{StartTime: s.Start, EndTime: s.End}
	}
	return out
}

// Validate checks every populated boundary against the time-of-day pattern
// and that no segment is empty. It returns the id of the first offending
// segment, or -1 when all are valid.
func (b *Builder) Validate() int {
	for _, s := range b.segs {
		if !model.ValidTimecode(s.Start) || !model.ValidTimecode(s.End) {
			return s.ID
		}
	}
	return -1
}
