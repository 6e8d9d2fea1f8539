package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme colors (Flexoki Dark)
var (
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorRed       = lipgloss.Color("#D14D41")
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	okStyle = lipgloss.NewStyle().
		Foreground(ColorGreen)

	failStyle = lipgloss.NewStyle().
			Foreground(ColorRed)
)

// Table is a plain aligned text table for CLI output.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Render produces the aligned table with a header rule.
func (t Table) Render() string {
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	var b strings.Builder
	for i, h := range t.Headers {
		b.WriteString(headerStyle.Render(pad(h, widths[i])))
		if i < len(t.Headers)-1 {
			b.WriteString("  ")
		}
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(strings.Repeat("─", ruleWidth(widths))))
	b.WriteString("\n")

	for _, row := range t.Rows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			b.WriteString(valueStyle.Render(pad(cell, widths[i])))
			if i < len(row)-1 {
				b.WriteString("  ")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Outcome renders a colored succeeded/failed marker.
func Outcome(s string) string {
	if s == "succeeded" {
		return okStyle.Render(s)
	}
	return failStyle.Render(s)
}

func pad(s string, w int) string {
	gap := w - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}

func ruleWidth(widths []int) int {
	total := 0
	for _, w := range widths {
		total += w
	}
	return total + 2*(len(widths)-1)
}

// Bar renders a simple textual progress bar for non-TUI progress output.
func Bar(pct float64, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := int(pct / 100 * float64(width))
	return fmt.Sprintf("[%s%s] %3.0f%%",
		okStyle.Render(strings.Repeat("█", filled)),
		mutedStyle.Render(strings.Repeat("░", width-filled)),
		pct)
}
