package theme

import (
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/spendpilot/spendpilot/internal/model"
)

func TestByNameFallsBack(t *testing.T) {
	if got := ByName("tokyo-night"); got.Name != "tokyo-night" {
		t.Errorf("ByName(tokyo-night) = %q", got.Name)
	}
	if got := ByName("nope"); got.Name != FlexokiDark.Name {
		t.Errorf("unknown theme should fall back to %q, got %q", FlexokiDark.Name, got.Name)
	}
}

func TestValidAndNames(t *testing.T) {
	names := Names()
	if len(names) != len(All) {
		t.Fatalf("Names() returned %d names, want %d", len(names), len(All))
	}
	for _, n := range names {
		if !Valid(n) {
			t.Errorf("Valid(%q) = false", n)
		}
	}
	if Valid("") {
		t.Error("empty name should not be valid")
	}
}

func TestAmountColor(t *testing.T) {
	th := FlexokiDark
	if th.Amount(10) != th.Credit || th.Amount(-1) != th.Debit || th.Amount(0) != th.TextMuted {
		t.Error("Amount should map sign to credit, debit and muted colors")
	}
}

func TestSeverityColor(t *testing.T) {
	th := TokyoNight
	tests := []struct {
		sev  model.RunwaySeverity
		want lipgloss.Color
	}{
		{model.RunwayCritical, th.Debit},
		{model.RunwayLow, th.Caution},
		{model.RunwayHealthy, th.Credit},
		{model.RunwayUnknown, th.TextMuted},
	}
	for _, tt := range tests {
		if got := th.Severity(tt.sev); got != tt.want {
			t.Errorf("Severity(%v) = %q, want %q", tt.sev, got, tt.want)
		}
	}
}

func TestCategoryRotation(t *testing.T) {
	for _, th := range All {
		if len(th.Categories) == 0 {
			t.Fatalf("%s has no category colors", th.Name)
		}
		n := len(th.Categories)
		if th.Category(n+1) != th.Categories[1] {
			t.Errorf("%s: Category(%d) should wrap to Categories[1]", th.Name, n+1)
		}
	}
	if got := (Theme{Accent: "#fff"}).Category(3); got != "#fff" {
		t.Errorf("empty rotation should fall back to Accent, got %q", got)
	}
}
