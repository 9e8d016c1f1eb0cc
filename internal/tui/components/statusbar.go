package components

import (
	"strings"

	"github.com/spendpilot/spendpilot/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar with key hints on the left
// and context (source file, storage backend) on the right.
func RenderStatusBar(width int, hints, info string) string {
	t := theme.Active

	hintStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	infoStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	left := hintStyle.Render(" " + hints)
	right := ""
	if info != "" {
		right = infoStyle.Render(info + " ")
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		right = ""
		gap = max(0, width-lipgloss.Width(left))
	}

	return left + infoStyle.Render(strings.Repeat(" ", gap)) + right
}
