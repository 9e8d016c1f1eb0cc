package cli

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/spendpilot/spendpilot/internal/model"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestRenderTable_AlignsWideRunes(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Category", "Amount"},
		Rows: [][]string{
			{"Food", FormatCurrency(12500)},
			{"---"},
			{"Total", FormatCurrency(1250000)},
		},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("got %d lines, want 7:\n%s", len(lines), out)
	}
	want := lipgloss.Width(lines[0])
	for i, l := range lines {
		if w := lipgloss.Width(l); w != want {
			t.Errorf("line %d width = %d, want %d: %q", i, w, want, l)
		}
	}
	if !strings.Contains(out, "₦1,250,000") {
		t.Errorf("table missing total:\n%s", out)
	}
}

func TestRenderTable_Empty(t *testing.T) {
	if RenderTable(Table{}) != "" {
		t.Error("empty table should render nothing")
	}
}

func TestRenderProgressBar(t *testing.T) {
	out := RenderProgressBar(50, 10, "Reading")
	if !strings.Contains(out, "█████░░░░░") || !strings.Contains(out, "50%") || !strings.Contains(out, "Reading") {
		t.Errorf("RenderProgressBar(50) = %q", out)
	}
	if !strings.Contains(RenderProgressBar(150, 4, ""), "████") {
		t.Error("progress over 100 should clamp to a full bar")
	}
}

func TestRenderSparkline(t *testing.T) {
	if got := RenderSparkline([]float64{0, 50, 100}); got != "▁▄█" {
		t.Errorf("RenderSparkline = %q, want ▁▄█", got)
	}
	if RenderSparkline(nil) != "" {
		t.Error("empty sparkline should be empty")
	}
}

func TestRunwayColor(t *testing.T) {
	if RunwayColor(model.RunwayCritical) != ColorRed {
		t.Error("critical runway should be red")
	}
	if RunwayColor(model.RunwayLow) != ColorYellow {
		t.Error("low runway should be yellow")
	}
	if RunwayColor(model.RunwayHealthy) != ColorGreen {
		t.Error("healthy runway should be green")
	}
	if got := RenderRunway(5.2, model.RunwayCritical); !strings.Contains(got, "5.2 days") {
		t.Errorf("RenderRunway = %q", got)
	}
}
