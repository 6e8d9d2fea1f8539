package tui

import (
	"fmt"
	"strings"

	"github.com/financiallyruined/trimtui/internal/cli"
	"github.com/financiallyruined/trimtui/internal/library"
	"github.com/financiallyruined/trimtui/internal/model"
	"github.com/financiallyruined/trimtui/internal/tui/components"
	"github.com/financiallyruined/trimtui/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// libState holds the library tab: the server snapshot wrapped in a view
// with search, sort and pagination.
type libState struct {
	view    *library.View
	loading bool

	searching bool
	search    textinput.Model

	cursor        int
	confirmDelete *model.LibraryVideo
}

func newLibState() libState {
	si := textinput.New()
	si.Placeholder = "filename..."
	si.CharLimit = 128
	si.Width = 28
	return libState{search: si}
}

// pageRows returns the videos on the current page, or nil before the first
// load finishes.
func (ls *libState) pageRows() []model.LibraryVideo {
	if ls.view == nil {
		return nil
	}
	return ls.view.PageVideos()
}

func (ls *libState) clampCursor() {
	rows := ls.pageRows()
	if ls.cursor >= len(rows) {
		ls.cursor = len(rows) - 1
	}
	if ls.cursor < 0 {
		ls.cursor = 0
	}
}

// ─── Key handling ───────────────────────────────────────────────

func (a App) updateLibraryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ls := &a.lib
	key := msg.String()

	// Search mode captures keystrokes and filters as the query changes.
	if ls.searching {
		switch key {
		case "esc":
			ls.searching = false
			ls.search.Blur()
			return a, nil
		case "enter":
			ls.searching = false
			ls.search.Blur()
			return a, nil
		}
		var cmd tea.Cmd
		ls.search, cmd = ls.search.Update(msg)
		if ls.view != nil {
			ls.view.Search(ls.search.Value())
			ls.clampCursor()
		}
		return a, cmd
	}

	// Pending delete confirmation.
	if ls.confirmDelete != nil {
		switch key {
		case "y", "enter":
			id := ls.confirmDelete.ID
			ls.confirmDelete = nil
			return a, a.deleteCmd(id)
		default:
			ls.confirmDelete = nil
			return a, nil
		}
	}

	if ls.view == nil {
		return a, nil
	}

	switch key {
	case "/":
		ls.searching = true
		return a, ls.search.Focus()
	case "j", "down":
		if ls.cursor < len(ls.pageRows())-1 {
			ls.cursor++
		}
	case "k", "up":
		if ls.cursor > 0 {
			ls.cursor--
		}
	case "h", "left":
		ls.view.PrevPage()
		ls.clampCursor()
	case "l", "right":
		ls.view.NextPage()
		ls.clampCursor()
	case "f":
		ls.view.SortBy(library.SortByFilename)
	case "d":
		ls.view.SortBy(library.SortByDate)
	case "s":
		ls.view.SortBy(library.SortBySize)
	case "x":
		rows := ls.pageRows()
		if ls.cursor < len(rows) {
			v := rows[ls.cursor]
			ls.confirmDelete = &v
		}
	case "r":
		if !ls.loading {
			ls.loading = true
			return a, tea.Batch(a.trim.spinner.Tick, a.libraryCmd())
		}
	}
	return a, nil
}

func (a App) handleLibrary(msg LibraryMsg) (tea.Model, tea.Cmd) {
	a.lib.loading = false

	if msg.Err != nil {
		a.errMsg = fmt.Sprintf("Could not load library: %s", msg.Err)
		return a, nil
	}

	a.errMsg = ""
	if a.lib.view == nil {
		a.lib.view = library.NewView(msg.Videos)
	} else {
		a.lib.view.SetSnapshot(msg.Videos)
	}
	a.lib.clampCursor()
	return a, nil
}

func (a App) handleDeleteResult(msg DeleteResultMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		a.errMsg = fmt.Sprintf("Delete failed: %s", msg.Err)
		return a, nil
	}

	a.errMsg = ""
	if a.lib.view != nil {
		a.lib.view.Remove(msg.ID)
		a.lib.clampCursor()
	}
	return a, nil
}

// ─── Rendering ──────────────────────────────────────────────────

func (a App) renderLibraryTab(cw, h int) string {
	t := theme.Active
	ls := a.lib
	inner := components.CardInnerWidth(cw)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	curStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Bold(true)

	if ls.loading && ls.view == nil {
		body := a.trim.spinner.View() + " Loading library..."
		return components.ContentCard("My Videos", body, cw, false)
	}
	if ls.view == nil {
		return components.ContentCard("My Videos", dimStyle.Render("Press L to load the library."), cw, false)
	}

	var b strings.Builder

	// Search line.
	if ls.searching {
		b.WriteString(labelStyle.Render("Search: "))
		b.WriteString(ls.search.View())
	} else if q := ls.view.Query(); q != "" {
		b.WriteString(labelStyle.Render("Search: "))
		b.WriteString(rowStyle.Render(q))
		b.WriteString(dimStyle.Render("  (/ to edit)"))
	} else {
		b.WriteString(dimStyle.Render("/ search · f/d/s sort · h/l page · x delete · r refresh"))
	}
	b.WriteString("\n\n")

	// Column header with the active sort marker.
	field, asc := ls.view.Sort()
	marker := func(f library.SortField) string {
		if f != field {
			return ""
		}
		if asc {
			return " ↑"
		}
		return " ↓"
	}
	nameW := inner - 38
	if nameW < 20 {
		nameW = 20
	}
	b.WriteString(labelStyle.Render(fmt.Sprintf("  %-*s %-18s %10s",
		nameW, "Filename"+marker(library.SortByFilename),
		"Added"+marker(library.SortByDate),
		"Size"+marker(library.SortBySize))))
	b.WriteString("\n")

	rows := ls.pageRows()
	if len(rows) == 0 {
		b.WriteString(dimStyle.Render("  No videos found."))
		b.WriteString("\n")
	}
	for i, v := range rows {
		line := fmt.Sprintf("%-*s %-18s %10s",
			nameW, cli.TruncateName(v.Filename, nameW),
			cli.FormatDate(v.Added()),
			cli.FormatBytes(v.FileSize))
		if i == ls.cursor {
			b.WriteString(curStyle.Render("▸ " + line))
		} else {
			b.WriteString(rowStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if ls.confirmDelete != nil {
		b.WriteString(warnStyle.Render(fmt.Sprintf("Delete %q? [y/n]",
			cli.TruncateName(ls.confirmDelete.Filename, 40))))
	} else {
		b.WriteString(dimStyle.Render(fmt.Sprintf("Page %d/%d · %d videos",
			ls.view.Page(), ls.view.TotalPages(), ls.view.Len())))
	}

	title := "My Videos"
	if ls.loading {
		title += " " + a.trim.spinner.View()
	}
	return components.ContentCard(title, b.String(), cw, false)
}
