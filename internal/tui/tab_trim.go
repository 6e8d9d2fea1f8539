package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/financiallyruined/trimtui/internal/api"
	"github.com/financiallyruined/trimtui/internal/cli"
	"github.com/financiallyruined/trimtui/internal/navigator"
	"github.com/financiallyruined/trimtui/internal/reconcile"
	"github.com/financiallyruined/trimtui/internal/segments"
	"github.com/financiallyruined/trimtui/internal/tui/components"
	"github.com/financiallyruined/trimtui/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Trim tab input zones.
const (
	focusBrowser = iota
	focusOverride
	focusSegments
)

// segInput pairs a segment id with its two editable boundary inputs.
type segInput struct {
	id    int
	start textinput.Model
	end   textinput.Model
}

// trimState holds the trim tab state: the directory navigator, the segment
// builder, and the text inputs bound to them.
type trimState struct {
	startPath string

	nav  navigator.State
	segs *segments.Builder

	browserCursor int
	loading       bool
	submitting    bool

	override  textinput.Model
	segInputs []segInput
	segCursor int
	segField  int // 0 = start, 1 = end

	focus   int
	spinner spinner.Model
}

func newTrimState(startPath string) trimState {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent)

	ov := textinput.New()
	ov.Placeholder = "/absolute/path/to/video.mp4"
	ov.CharLimit = 512
	ov.Width = 40

	ts := trimState{
		startPath: startPath,
		segs:      segments.New(),
		loading:   true,
		override:  ov,
		spinner:   sp,
	}
	ts.syncSegInputs()
	return ts
}

func newTimeInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "HH:MM:SS"
	ti.CharLimit = 8
	ti.Width = 9
	return ti
}

// syncSegInputs reconciles the input models with the builder's segment list,
// keeping inputs for surviving ids and creating inputs for new ones.
func (ts *trimState) syncSegInputs() {
	existing := make(map[int]segInput, len(ts.segInputs))
	for _, si := range ts.segInputs {
		existing[si.id] = si
	}

	ts.segInputs = ts.segInputs[:0]
	for _, seg := range ts.segs.Segments() {
		if si, ok := existing[seg.ID]; ok {
			ts.segInputs = append(ts.segInputs, si)
			continue
		}
		ts.segInputs = append(ts.segInputs, segInput{
			id:    seg.ID,
			start: newTimeInput(),
			end:   newTimeInput(),
		})
	}

	if ts.segCursor >= len(ts.segInputs) {
		ts.segCursor = len(ts.segInputs) - 1
	}
	if ts.segCursor < 0 {
		ts.segCursor = 0
	}
}

// flushSegInputs copies the current input values into the builder.
func (ts *trimState) flushSegInputs() {
	for _, si := range ts.segInputs {
		_ = ts.segs.Set(si.id, strings.TrimSpace(si.start.Value()), strings.TrimSpace(si.end.Value()))
	}
}

// focusSegInput focuses the input under the segment cursor and blurs the rest.
func (ts *trimState) focusSegInput() tea.Cmd {
	var cmd tea.Cmd
	for i := range ts.segInputs {
		ts.segInputs[i].start.Blur()
		ts.segInputs[i].end.Blur()
	}
	if ts.segCursor < len(ts.segInputs) {
		if ts.segField == 0 {
			cmd = ts.segInputs[ts.segCursor].start.Focus()
		} else {
			cmd = ts.segInputs[ts.segCursor].end.Focus()
		}
	}
	return cmd
}

func (ts *trimState) blurAll() {
	ts.override.Blur()
	for i := range ts.segInputs {
		ts.segInputs[i].start.Blur()
		ts.segInputs[i].end.Blur()
	}
}

// browserRows returns the number of selectable rows in the browser pane,
// including the parent row when not at the root.
func (ts *trimState) browserRows() int {
	n := len(ts.nav.Entries())
	if !ts.nav.AtRoot() {
		n++
	}
	return n
}

// ─── Key handling ───────────────────────────────────────────────

func (a App) updateTrimKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Zone cycling and submission work from every zone.
	switch key {
	case "tab":
		return a.cycleTrimFocus(1)
	case "shift+tab":
		return a.cycleTrimFocus(-1)
	case "ctrl+s":
		return a.submitTrim()
	}

	switch a.trim.focus {
	case focusBrowser:
		return a.updateBrowserKeys(key)
	case focusOverride:
		return a.updateOverrideKeys(msg)
	case focusSegments:
		return a.updateSegmentKeys(msg)
	}
	return a, nil
}

func (a App) cycleTrimFocus(dir int) (tea.Model, tea.Cmd) {
	a.trim.blurAll()
	a.trim.focus = (a.trim.focus + dir + 3) % 3

	switch a.trim.focus {
	case focusOverride:
		return a, a.trim.override.Focus()
	case focusSegments:
		return a, a.trim.focusSegInput()
	}
	return a, nil
}

func (a App) updateBrowserKeys(key string) (tea.Model, tea.Cmd) {
	ts := &a.trim

	switch key {
	case "j", "down":
		if ts.browserCursor < ts.browserRows()-1 {
			ts.browserCursor++
		}
	case "k", "up":
		if ts.browserCursor > 0 {
			ts.browserCursor--
		}
	case "g":
		ts.browserCursor = 0
	case "G":
		if n := ts.browserRows(); n > 0 {
			ts.browserCursor = n - 1
		}
	case "backspace":
		if !ts.nav.AtRoot() && !ts.loading {
			ts.loading = true
			return a, tea.Batch(ts.spinner.Tick, a.browseCmd(ts.nav.ParentPath()))
		}
	case "enter", " ":
		return a.openBrowserRow()
	}
	return a, nil
}

// openBrowserRow opens a directory or selects a file under the cursor.
func (a App) openBrowserRow() (tea.Model, tea.Cmd) {
	ts := &a.trim
	if ts.loading {
		return a, nil
	}

	cursor := ts.browserCursor
	if !ts.nav.AtRoot() {
		if cursor == 0 {
			ts.loading = true
			return a, tea.Batch(ts.spinner.Tick, a.browseCmd(ts.nav.ParentPath()))
		}
		cursor--
	}

	entries := ts.nav.Entries()
	if cursor >= len(entries) {
		return a, nil
	}
	entry := entries[cursor]

	if entry.IsFile() {
		if err := ts.nav.Select(entry); err == nil {
			// Selecting a file clears the override path (mutual exclusion).
			ts.override.SetValue("")
			a.errMsg = ""
		}
		return a, nil
	}

	ts.loading = true
	return a, tea.Batch(ts.spinner.Tick, a.browseCmd(entry.Path))
}

func (a App) updateOverrideKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	a.trim.override, cmd = a.trim.override.Update(msg)

	// Mirror every edit into the navigator: any non-empty override clears
	// the selection, last write wins.
	a.trim.nav.SetOverride(strings.TrimSpace(a.trim.override.Value()))
	return a, cmd
}

func (a App) updateSegmentKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ts := &a.trim

	switch msg.String() {
	case "up":
		if ts.segCursor > 0 {
			ts.segCursor--
		}
		return a, ts.focusSegInput()
	case "down":
		if ts.segCursor < len(ts.segInputs)-1 {
			ts.segCursor++
		}
		return a, ts.focusSegInput()
	case "enter":
		// Toggle between start and end; from the end field, advance a row.
		if ts.segField == 0 {
			ts.segField = 1
		} else if ts.segCursor < len(ts.segInputs)-1 {
			ts.segField = 0
			ts.segCursor++
		} else {
			ts.segField = 0
		}
		return a, ts.focusSegInput()
	case "ctrl+a":
		ts.flushSegInputs()
		ts.segs.Add()
		ts.syncSegInputs()
		ts.segCursor = len(ts.segInputs) - 1
		ts.segField = 0
		return a, ts.focusSegInput()
	case "ctrl+d":
		ts.flushSegInputs()
		if ts.segCursor < len(ts.segInputs) {
			if err := ts.segs.Remove(ts.segInputs[ts.segCursor].id); err != nil {
				a.errMsg = "You must have at least one time segment."
				return a, nil
			}
			ts.syncSegInputs()
			a.errMsg = ""
		}
		return a, ts.focusSegInput()
	}

	// Forward everything else to the focused time input.
	var cmd tea.Cmd
	if ts.segCursor < len(ts.segInputs) {
		si := &ts.segInputs[ts.segCursor]
		if ts.segField == 0 {
			si.start, cmd = si.start.Update(msg)
		} else {
			si.end, cmd = si.end.Update(msg)
		}
	}
	return a, cmd
}

// ─── Submission ─────────────────────────────────────────────────

// submitTrim validates the form and fires the job-creation request. All
// validation failures are reported before any network call.
func (a App) submitTrim() (tea.Model, tea.Cmd) {
	ts := &a.trim

	if ts.submitting {
		return a, nil // one in-flight submission at a time
	}

	input, err := ts.nav.Resolve()
	if err != nil {
		a.errMsg = "Select a file or enter a custom path first."
		return a, nil
	}

	ts.flushSegInputs()
	if id := ts.segs.Validate(); id >= 0 {
		a.errMsg = "Invalid time format — use HH:MM:SS (e.g. 00:01:30)."
		return a, nil
	}

	// A new submission supersedes any prior job: the old stream, if still
	// open, is closed before the new job is created.
	a.closeStream()
	a.job = nil
	a.errMsg = ""
	ts.submitting = true

	sourcePath := input.FilePath
	if sourcePath == "" {
		sourcePath = input.CustomPath
	}
	a.pendingSource = sourcePath
	a.pendingSegments = ts.segs.Len()

	return a, a.submitCmd(api.SubmitRequest{
		FilePath:   input.FilePath,
		CustomPath: input.CustomPath,
		Segments:   ts.segs.Serialize(),
	})
}

// handleListing folds a listing response into the navigator. On failure the
// current path and any selection are left untouched.
func (a App) handleListing(msg ListingMsg) (tea.Model, tea.Cmd) {
	a.trim.loading = false

	if msg.Err != nil {
		if errors.Is(msg.Err, api.ErrNotFound) {
			a.errMsg = "Failed to load directory: not found."
		} else {
			a.errMsg = fmt.Sprintf("Failed to load directory: %s", msg.Err)
		}
		return a, nil
	}

	a.errMsg = ""
	a.trim.nav.ApplyListing(msg.Path, msg.Entries)
	a.trim.browserCursor = 0
	return a, nil
}

// ─── Rendering ──────────────────────────────────────────────────

func (a App) renderTrimTab(cw, h int) string {
	leftW := cw / 2
	if leftW < 34 {
		leftW = 34
	}
	rightW := cw - leftW

	left := a.renderBrowserCard(leftW, h)
	right := lipgloss.JoinVertical(lipgloss.Left,
		a.renderSourceCard(rightW),
		a.renderSegmentsCard(rightW),
		a.renderJobCard(rightW),
	)

	return components.CardRow([]string{left, right})
}

func (a App) renderBrowserCard(w, h int) string {
	t := theme.Active
	ts := a.trim
	inner := components.CardInnerWidth(w)

	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	dirStyle := lipgloss.NewStyle().Foreground(t.Accent)
	selStyle := lipgloss.NewStyle().Foreground(t.Background).Background(t.Accent).Bold(true)
	curStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	sizeStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	title := "Browse /"
	if p := ts.nav.CurrentPath(); p != "" {
		title = "Browse /" + p
	}

	if ts.loading {
		body := ts.spinner.View() + " Loading directory..."
		return components.ContentCard(title, body, w, ts.focus == focusBrowser)
	}

	visible := h - 8
	if visible < 5 {
		visible = 5
	}

	var rows []string
	if !ts.nav.AtRoot() {
		rows = append(rows, dirStyle.Render(".. (parent directory)"))
	}
	for _, e := range ts.nav.Entries() {
		if e.IsFile() {
			name := truncStr(e.Name, inner-12)
			line := fmt.Sprintf("%-*s %10s", inner-11, name, cli.FormatBytes(e.Size))
			if ts.nav.IsSelected(e) {
				rows = append(rows, selStyle.Render(line))
			} else {
				rows = append(rows, rowStyle.Render(line))
			}
		} else {
			rows = append(rows, dirStyle.Render(truncStr(e.Name+"/", inner)))
		}
	}

	// Window the rows around the cursor and mark it.
	offset := 0
	if ts.browserCursor >= visible {
		offset = ts.browserCursor - visible + 1
	}
	end := offset + visible
	if end > len(rows) {
		end = len(rows)
	}

	var b strings.Builder
	for i := offset; i < end; i++ {
		if i == ts.browserCursor && ts.focus == focusBrowser {
			b.WriteString(curStyle.Render("▸ "))
		} else {
			b.WriteString("  ")
		}
		b.WriteString(rows[i])
		b.WriteString("\n")
	}
	if len(rows) == 0 {
		b.WriteString(sizeStyle.Render("  (empty directory)"))
	}

	return components.ContentCard(title, b.String(), w, ts.focus == focusBrowser)
}

func (a App) renderSourceCard(w int) string {
	t := theme.Active
	ts := a.trim

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	valueStyle := lipgloss.NewStyle().Foreground(t.Green)

	var b strings.Builder
	if sel, ok := ts.nav.Selected(); ok {
		b.WriteString(labelStyle.Render("Selected: "))
		b.WriteString(valueStyle.Render(truncStr(sel.Name, components.CardInnerWidth(w)-16)))
		b.WriteString(labelStyle.Render(fmt.Sprintf(" (%s)", cli.FormatBytes(sel.Size))))
	} else {
		b.WriteString(labelStyle.Render("No file selected"))
	}
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Custom path: "))
	b.WriteString(ts.override.View())

	return components.ContentCard("Source", b.String(), w, ts.focus == focusOverride)
}

func (a App) renderSegmentsCard(w int) string {
	t := theme.Active
	ts := a.trim

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	curStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)

	var b strings.Builder
	for i, si := range ts.segInputs {
		marker := "  "
		if i == ts.segCursor && ts.focus == focusSegments {
			marker = curStyle.Render("▸ ")
		}
		fmt.Fprintf(&b, "%s%s %s %s %s\n",
			marker,
			labelStyle.Render(fmt.Sprintf("%d.", i+1)),
			si.start.View(),
			labelStyle.Render("→"),
			si.end.View(),
		)
	}
	b.WriteString(dimStyle.Render("  ctrl+a add · ctrl+d remove · ctrl+s submit"))

	title := fmt.Sprintf("Time Segments (%d)", ts.segs.Len())
	return components.ContentCard(title, b.String(), w, ts.focus == focusSegments)
}

// renderJobCard shows the progress of the active job, the download reference
// after success, or nothing when no job exists. After a failure the progress
// bar is hidden and only the message area speaks.
func (a App) renderJobCard(w int) string {
	t := theme.Active
	js := a.job

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	greenStyle := lipgloss.NewStyle().Foreground(t.Green).Bold(true)

	if a.trim.submitting {
		return components.ContentCard("Job", a.trim.spinner.View()+" Submitting...", w, false)
	}
	if js == nil {
		return ""
	}

	var b strings.Builder
	switch {
	case js.rec.State() == reconcile.Succeeded:
		b.WriteString(greenStyle.Render("✓ Trimming complete"))
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("Download: "))
		b.WriteString(valueStyle.Render(truncStr(js.downloadURL, components.CardInnerWidth(w)-10)))
		if js.sizeKnown {
			b.WriteString("\n")
			b.WriteString(labelStyle.Render("Size: "))
			b.WriteString(valueStyle.Render(cli.FormatBytes(js.outputSize)))
		}
	case js.rec.Terminal():
		// Failed: the persistent message area carries the error.
		return ""
	default:
		pct := js.visibleProgress(time.Now())
		b.WriteString(labelStyle.Render(fmt.Sprintf("Trimming %s", truncStr(js.job.FileName, 30))))
		b.WriteString("\n")
		b.WriteString(components.JobProgressBar(pct, components.CardInnerWidth(w)))
	}

	return components.ContentCard("Job "+js.job.ID, b.String(), w, false)
}
