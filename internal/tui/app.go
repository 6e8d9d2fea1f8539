// Package tui provides the interactive Bubble Tea interface for trimtui.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/financiallyruined/trimtui/internal/api"
	"github.com/financiallyruined/trimtui/internal/config"
	"github.com/financiallyruined/trimtui/internal/model"
	"github.com/financiallyruined/trimtui/internal/store"
	"github.com/financiallyruined/trimtui/internal/tui/components"
	"github.com/financiallyruined/trimtui/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// ListingMsg is sent when a directory listing request finishes.
type ListingMsg struct {
	Path    string
	Entries []model.DirectoryEntry
	Err     error
}

// SubmitResultMsg is sent when the job-creation request finishes.
type SubmitResultMsg struct {
	Job model.Job
	Err error
}

// StreamOpenedMsg is sent when the progress stream for a job is established.
type StreamOpenedMsg struct {
	JobID string
	Sub   *api.Subscription
	Err   error
}

// StreamEventMsg carries one progress event, or the end of the stream when
// OK is false.
type StreamEventMsg struct {
	JobID string
	Event api.ProgressEvent
	OK    bool
}

// VideoInfoMsg is sent when the result-metadata follow-up finishes.
type VideoInfoMsg struct {
	JobID string
	Size  int64
	Err   error
}

// LibraryMsg is sent when the library snapshot fetch finishes.
type LibraryMsg struct {
	Videos []model.LibraryVideo
	Err    error
}

// DeleteResultMsg is sent when a library delete request finishes.
type DeleteResultMsg struct {
	ID  int64
	Err error
}

// HistoryMsg is sent when the local job history load finishes.
type HistoryMsg struct {
	Records []store.Record
	Err     error
}

// animTickMsg drives the cosmetic progress animation while it is running.
type animTickMsg time.Time

const (
	minTerminalWidth = 70
	maxContentWidth  = 160

	animTickInterval = 50 * time.Millisecond
)

// App is the root Bubble Tea model.
type App struct {
	client   *api.Client
	histPath string

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	errMsg    string

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals setupValues
	needSetup bool

	// Per-tab state
	trim trimState
	lib  libState
	hist histState

	// Active job tracking; nil when no job has been submitted
	job *jobState

	// Captured at submission time for the local history record
	pendingSource   string
	pendingSegments int
}

// NewApp creates the root TUI model. client may be nil when no server is
// configured yet; the first-run setup form collects one.
func NewApp(client *api.Client, cfg config.Config) App {
	needSetup := client == nil || !config.Exists()

	a := App{
		client:    client,
		histPath:  config.HistoryPath(cfg),
		needSetup: needSetup,
		trim:      newTrimState(cfg.General.StartPath),
		lib:       newLibState(),
		hist:      newHistState(),
	}
	if needSetup {
		a.setupVals.serverURL = config.ServerURL(cfg)
		a.setupVals.theme = theme.Active.Name
		a.setupForm = newSetupForm(&a.setupVals)
	}
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	if a.needSetup {
		return a.setupForm.Init()
	}
	return tea.Batch(
		a.trim.spinner.Tick,
		a.browseCmd(a.trim.startPath),
	)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKeys(msg)

	case ListingMsg:
		return a.handleListing(msg)

	case SubmitResultMsg:
		return a.handleSubmitResult(msg)

	case StreamOpenedMsg:
		return a.handleStreamOpened(msg)

	case StreamEventMsg:
		return a.handleStreamEvent(msg)

	case VideoInfoMsg:
		return a.handleVideoInfo(msg)

	case animTickMsg:
		return a.handleAnimTick(time.Time(msg))

	case LibraryMsg:
		return a.handleLibrary(msg)

	case DeleteResultMsg:
		return a.handleDeleteResult(msg)

	case HistoryMsg:
		a.hist.loading = false
		if msg.Err != nil {
			a.errMsg = fmt.Sprintf("Could not load history: %s", msg.Err)
			return a, nil
		}
		a.hist.records = msg.Records
		if a.hist.cursor >= len(a.hist.records) {
			a.hist.cursor = 0
		}
		return a, nil
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	// Spinner ticks and other component messages
	if a.trim.loading || a.lib.loading {
		var cmd tea.Cmd
		a.trim.spinner, cmd = a.trim.spinner.Update(msg)
		return a, cmd
	}

	return a, nil
}

func (a App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Global: quit
	if key == "ctrl+c" {
		a.closeStream()
		return a, tea.Quit
	}

	// First-run setup wizard intercepts all keys
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	// Text-editing zones swallow almost everything
	if a.editingText() {
		switch a.activeTab {
		case tabTrim:
			return a.updateTrimKeys(msg)
		case tabLibrary:
			return a.updateLibraryKeys(msg)
		}
	}

	// Help toggle / dismiss
	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	if key == "q" {
		a.closeStream()
		return a, tea.Quit
	}

	// Tab navigation
	switch key {
	case "T":
		a.activeTab = tabTrim
		return a, nil
	case "L":
		a.activeTab = tabLibrary
		if a.lib.view == nil && !a.lib.loading {
			a.lib.loading = true
			return a, tea.Batch(a.trim.spinner.Tick, a.libraryCmd())
		}
		return a, nil
	case "Y":
		a.activeTab = tabHistory
		if !a.hist.loaded && !a.hist.loading {
			a.hist.loading = true
			a.hist.loaded = true
			return a, a.historyCmd()
		}
		return a, nil
	}

	switch a.activeTab {
	case tabTrim:
		return a.updateTrimKeys(msg)
	case tabLibrary:
		return a.updateLibraryKeys(msg)
	case tabHistory:
		return a.updateHistoryKeys(msg)
	}
	return a, nil
}

// editingText reports whether keystrokes belong to a focused text input.
func (a App) editingText() bool {
	switch a.activeTab {
	case tabTrim:
		return a.trim.focus == focusOverride || a.trim.focus == focusSegments
	case tabLibrary:
		return a.lib.searching
	}
	return false
}

// closeStream tears down the active progress subscription, if any.
// Closing is synchronous and idempotent.
func (a *App) closeStream() {
	if a.job != nil && a.job.sub != nil {
		a.job.sub.Close()
	}
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}

	if a.width < minTerminalWidth {
		return fmt.Sprintf(
			"\n  Terminal too narrow (%d cols)\n\n  trimtui needs at least %d columns.\n",
			a.width, minTerminalWidth,
		)
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)
	server := ""
	if a.client != nil {
		server = a.client.BaseURL()
	}
	statusBar := components.RenderStatusBar(w, server)

	headerH := lipgloss.Height(header)
	statusH := lipgloss.Height(statusBar)
	contentH := h - headerH - statusH - 1 // one line for the message area
	if contentH < 5 {
		contentH = 5
	}

	var content string
	switch a.activeTab {
	case tabTrim:
		content = a.renderTrimTab(cw, contentH)
	case tabLibrary:
		content = a.renderLibraryTab(cw, contentH)
	case tabHistory:
		content = a.renderHistoryTab(cw, contentH)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = lipgloss.PlaceHorizontal(w, lipgloss.Center, content)

	msgLine := ""
	if a.errMsg != "" {
		msgLine = lipgloss.NewStyle().Foreground(t.Red).Render(" " + a.errMsg)
	}
	msgLine = lipgloss.PlaceHorizontal(w, lipgloss.Left, msgLine)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, msgLine, statusBar)
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	sections := []struct {
		name     string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"T L Y", "Jump to tab"},
			{"j k", "Move cursor"},
			{"tab", "Next input zone (Trim)"},
			{"enter", "Open directory / select file"},
			{"backspace", "Parent directory"},
		}},
		{"Trim", []struct{ key, desc string }{
			{"ctrl+a", "Add time segment"},
			{"ctrl+d", "Remove current segment"},
			{"ctrl+s", "Submit trimming job"},
		}},
		{"Library", []struct{ key, desc string }{
			{"/", "Search by filename"},
			{"f d s", "Sort by name / date / size"},
			{"h l", "Previous / next page"},
			{"x", "Delete selected video"},
			{"r", "Refresh"},
		}},
	}

	for _, sec := range sections {
		b.WriteString(sectionStyle.Render(sec.name))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
		cardStyle.Render(b.String()))
}

// ─── Tab indexes ────────────────────────────────────────────────

const (
	tabTrim = iota
	tabLibrary
	tabHistory
)

// ─── Commands ───────────────────────────────────────────────────

func (a App) browseCmd(path string) tea.Cmd {
	client := a.client
	return func() tea.Msg {
		entries, err := client.ListDirectory(context.Background(), path)
		return ListingMsg{Path: path, Entries: entries, Err: err}
	}
}

func (a App) submitCmd(req api.SubmitRequest) tea.Cmd {
	client := a.client
	return func() tea.Msg {
		job, err := client.SubmitJob(context.Background(), req)
		return SubmitResultMsg{Job: job, Err: err}
	}
}

func (a App) subscribeCmd(jobID string) tea.Cmd {
	client := a.client
	return func() tea.Msg {
		sub, err := client.Subscribe(context.Background(), jobID)
		return StreamOpenedMsg{JobID: jobID, Sub: sub, Err: err}
	}
}

// waitForStreamCmd blocks until the next event arrives from the stream
// goroutine, or the channel closes.
func waitForStreamCmd(sub *api.Subscription, jobID string) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-sub.Events()
		return StreamEventMsg{JobID: jobID, Event: ev, OK: ok}
	}
}

func (a App) videoInfoCmd(jobID string) tea.Cmd {
	client := a.client
	return func() tea.Msg {
		size, err := client.VideoInfo(context.Background(), jobID)
		return VideoInfoMsg{JobID: jobID, Size: size, Err: err}
	}
}

func (a App) libraryCmd() tea.Cmd {
	client := a.client
	return func() tea.Msg {
		videos, err := client.Library(context.Background())
		return LibraryMsg{Videos: videos, Err: err}
	}
}

func (a App) deleteCmd(id int64) tea.Cmd {
	client := a.client
	return func() tea.Msg {
		err := client.DeleteVideo(context.Background(), id)
		return DeleteResultMsg{ID: id, Err: err}
	}
}

func (a App) historyCmd() tea.Cmd {
	path := a.histPath
	return func() tea.Msg {
		hist, err := store.Open(path)
		if err != nil {
			return HistoryMsg{Err: err}
		}
		defer func() { _ = hist.Close() }()

		records, err := hist.Recent(100)
		return HistoryMsg{Records: records, Err: err}
	}
}

// saveHistoryCmd records a terminal job in the local history, best-effort.
func (a App) saveHistoryCmd(rec store.Record) tea.Cmd {
	path := a.histPath
	return func() tea.Msg {
		hist, err := store.Open(path)
		if err != nil {
			return nil
		}
		defer func() { _ = hist.Close() }()
		_ = hist.Save(rec)
		return nil
	}
}

func animTickCmd() tea.Cmd {
	return tea.Tick(animTickInterval, func(t time.Time) tea.Msg {
		return animTickMsg(t)
	})
}

// ─── Helpers ────────────────────────────────────────────────────

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
