package components

import (
	"fmt"

	"github.com/financiallyruined/trimtui/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// colorForPct returns the bar color for a progress percentage in [0, 100].
func colorForPct(pct float64) string {
	t := theme.Active
	switch {
	case pct >= 80:
		return string(t.AccentBright)
	case pct >= 50:
		return string(t.Accent)
	default:
		return string(t.Cyan)
	}
}

// JobProgressBar renders the trimming progress bar with a percentage label.
// pct is the visible (possibly animating) value in [0, 100].
func JobProgressBar(pct float64, width int) string {
	t := theme.Active

	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}

	barW := width - 6
	if barW < 10 {
		barW = 10
	}

	bar := progress.New(
		progress.WithSolidFill(colorForPct(pct)),
		progress.WithWidth(barW),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	pctStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorForPct(pct))).
		Bold(true)

	return bar.ViewAs(pct/100) + " " + pctStyle.Render(fmt.Sprintf("%3.0f%%", pct))
}
