package components

import (
	"fmt"
	"strings"

	"github.com/spendpilot/spendpilot/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// NewUploadBar returns the progress bar used on the loading screen.
func NewUploadBar(width int) progress.Model {
	t := theme.Active
	bar := progress.New(
		progress.WithGradient(string(t.Highlight), string(t.AccentBright)),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.SurfaceBright)
	return bar
}

// UploadProgress renders bar at pct (0-100) followed by the percentage.
func UploadProgress(bar progress.Model, pct float64) string {
	t := theme.Active
	pct = max(0, min(pct, 100))

	pctStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return bar.ViewAs(pct/100) + spaceStyle.Render(" ") + pctStyle.Render(fmt.Sprintf("%3.0f%%", pct))
}

// ShareBar renders a compact block bar for a 0-100 share with the
// percentage, used in category rows.
func ShareBar(pct float64, width int, color lipgloss.Color) string {
	t := theme.Active
	filled := int(pct / 100 * float64(width))
	filled = max(0, min(filled, width))

	filledStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	return filledStyle.Render(strings.Repeat("█", filled)) +
		emptyStyle.Render(strings.Repeat("░", width-filled)) +
		pctStyle.Render(fmt.Sprintf(" %5.1f%%", pct))
}
