package tui

import (
	"fmt"
	"strings"

	"github.com/financiallyruined/trimtui/internal/cli"
	"github.com/financiallyruined/trimtui/internal/store"
	"github.com/financiallyruined/trimtui/internal/tui/components"
	"github.com/financiallyruined/trimtui/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// histState holds the local job history tab. Records load lazily on the
// first visit and refresh with r.
type histState struct {
	records []store.Record
	loading bool
	loaded  bool
	cursor  int
}

func newHistState() histState {
	return histState{}
}

func (a App) updateHistoryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	hs := &a.hist

	switch msg.String() {
	case "j", "down":
		if hs.cursor < len(hs.records)-1 {
			hs.cursor++
		}
	case "k", "up":
		if hs.cursor > 0 {
			hs.cursor--
		}
	case "r":
		if !hs.loading {
			hs.loading = true
			return a, a.historyCmd()
		}
	}
	return a, nil
}

func (a App) renderHistoryTab(cw, h int) string {
	t := theme.Active
	hs := a.hist
	inner := components.CardInnerWidth(cw)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	curStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	okStyle := lipgloss.NewStyle().Foreground(t.Green)
	failStyle := lipgloss.NewStyle().Foreground(t.Red)

	if hs.loading {
		return components.ContentCard("Job History", "Loading history...", cw, false)
	}
	if len(hs.records) == 0 {
		body := dimStyle.Render("No jobs recorded yet. Finished jobs land here automatically.")
		return components.ContentCard("Job History", body, cw, false)
	}

	nameW := inner - 44
	if nameW < 18 {
		nameW = 18
	}

	var b strings.Builder
	b.WriteString(labelStyle.Render(fmt.Sprintf("  %-*s %-9s %-18s %10s",
		nameW, "Output", "Outcome", "Finished", "Size")))
	b.WriteString("\n")

	visible := h - 6
	if visible < 5 {
		visible = 5
	}
	offset := 0
	if hs.cursor >= visible {
		offset = hs.cursor - visible + 1
	}
	end := offset + visible
	if end > len(hs.records) {
		end = len(hs.records)
	}

	for i := offset; i < end; i++ {
		r := hs.records[i]

		outcome := okStyle.Render(fmt.Sprintf("%-9s", r.Outcome))
		if r.Outcome == store.OutcomeFailed {
			outcome = failStyle.Render(fmt.Sprintf("%-9s", r.Outcome))
		}

		size := "-"
		if r.OutputSize > 0 {
			size = cli.FormatBytes(r.OutputSize)
		}

		line := fmt.Sprintf("%-*s %s %-18s %10s",
			nameW, cli.TruncateName(r.OutputName, nameW),
			outcome,
			cli.FormatDate(r.FinishedAt),
			size)

		if i == hs.cursor {
			b.WriteString(curStyle.Render("▸ ") + rowStyle.Render(line))
		} else {
			b.WriteString("  " + rowStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("%s jobs · j/k move · r refresh",
		cli.FormatNumber(int64(len(hs.records))))))

	return components.ContentCard("Job History", b.String(), cw, false)
}
