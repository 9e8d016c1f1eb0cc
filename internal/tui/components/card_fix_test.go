package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spendpilot/spendpilot/internal/tui/theme"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestCardRowPadsShorterCards(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := lipgloss.Height(shortCard)
	tallLines := lipgloss.Height(tallCard)
	if shortLines >= tallLines {
		t.Fatal("test setup: short card should be shorter than tall card")
	}

	joined := CardRow([]string{shortCard, tallCard})
	lines := strings.Split(joined, "\n")
	if len(lines) != tallLines {
		t.Fatalf("joined height = %d, want %d", len(lines), tallLines)
	}
	for i, line := range lines {
		if i >= shortLines && !strings.Contains(line, "\x1b[") {
			t.Errorf("line %d has no background styling: %q", i, line)
		}
		if w := lipgloss.Width(line); w != 44 {
			t.Errorf("line %d width = %d, want 44", i, w)
		}
	}
}

func TestCardRowSkipsEmpty(t *testing.T) {
	card := ContentCard("Only", "A", 20)
	if got := CardRow([]string{"", card}); got != card {
		t.Errorf("CardRow with empty card should equal the lone card")
	}
	if CardRow(nil) != "" {
		t.Error("CardRow(nil) should be empty")
	}
}

func TestLayoutRow(t *testing.T) {
	got := LayoutRow(10, 3)
	want := []int{4, 3, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("LayoutRow(10,3) = %v, want %v", got, want)
		}
	}
	if LayoutRow(10, 0) != nil {
		t.Error("LayoutRow with n=0 should be nil")
	}
}

func TestTabVisualWidthMatchesRender(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)
	defer lipgloss.SetColorProfile(termenv.TrueColor)

	for active := range Tabs {
		want := 0
		for i, tab := range Tabs {
			want += TabVisualWidth(tab, i == active)
		}
		want += len(Tabs) - 1 // separators

		bar := RenderTabBar(active, 0)
		if got := lipgloss.Width(bar); got != want {
			t.Errorf("active=%d: rendered width %d, want %d (%q)", active, got, want, bar)
		}
	}
}

func TestFormatAxisLabel(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{950, "950"},
		{12000, "12k"},
		{1500, "1.5k"},
		{2_000_000, "2M"},
	}
	for _, tt := range tests {
		if got := FormatAxisLabel(tt.in); got != tt.want {
			t.Errorf("FormatAxisLabel(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBarChartHeight(t *testing.T) {
	out := BarChart([]float64{1, 5, 3}, []string{"a", "b", "c"}, theme.Active.Accent, 40, 6)
	// rows + axis + labels
	if h := lipgloss.Height(out); h != 8 {
		t.Errorf("chart height = %d, want 8", h)
	}
	if got := BarChart([]float64{1, 2}, nil, theme.Active.Accent, 10, 6); lipgloss.Height(got) != 1 {
		t.Error("narrow chart should fall back to a sparkline")
	}
}
