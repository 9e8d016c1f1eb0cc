// Package theme holds the SpendPilot TUI palettes. Each palette names colors
// by the role they play on screen (money in, money out, runway warnings)
// rather than by hue.
package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/spendpilot/spendpilot/internal/model"
)

// Theme maps screen roles to colors.
type Theme struct {
	Name string

	Background    lipgloss.Color
	Surface       lipgloss.Color // cards and panels
	SurfaceHover  lipgloss.Color // active tab, selected row
	SurfaceBright lipgloss.Color
	Border        lipgloss.Color
	BorderAccent  lipgloss.Color // focused input

	TextDim     lipgloss.Color // hints, key help
	TextMuted   lipgloss.Color // labels
	TextPrimary lipgloss.Color

	Accent       lipgloss.Color
	AccentBright lipgloss.Color

	Credit    lipgloss.Color // inflow, healthy runway
	Debit     lipgloss.Color // outflow, critical runway, failures
	Success   lipgloss.Color // completed upload, saved settings
	Warning   lipgloss.Color // notices
	Caution   lipgloss.Color // low runway
	Highlight lipgloss.Color // key hints, categories in tables

	// Categories is the rotation for category bars and legends.
	Categories []lipgloss.Color
}

// Active is the currently selected theme.
var Active = FlexokiDark

// FlexokiDark is the default: warm ink-on-paper tones, green for money in.
var FlexokiDark = Theme{
	Name:          "flexoki-dark",
	Background:    lipgloss.Color("#100F0F"),
	Surface:       lipgloss.Color("#1C1B1A"),
	SurfaceHover:  lipgloss.Color("#282726"),
	SurfaceBright: lipgloss.Color("#343331"),
	Border:        lipgloss.Color("#403E3C"),
	BorderAccent:  lipgloss.Color("#3AA99F"),
	TextDim:       lipgloss.Color("#575653"),
	TextMuted:     lipgloss.Color("#878580"),
	TextPrimary:   lipgloss.Color("#FFFCF0"),
	Accent:        lipgloss.Color("#3AA99F"),
	AccentBright:  lipgloss.Color("#5BC8BE"),
	Credit:        lipgloss.Color("#879A39"),
	Debit:         lipgloss.Color("#D14D41"),
	Success:       lipgloss.Color("#A3B859"),
	Warning:       lipgloss.Color("#DA702C"),
	Caution:       lipgloss.Color("#D0A215"),
	Highlight:     lipgloss.Color("#24837B"),
	Categories:    []lipgloss.Color{
		lipgloss.Color("#3AA99F"), lipgloss.Color("#4385BE"), lipgloss.Color("#CE5D97"), lipgloss.Color("#DA702C"),
		lipgloss.Color("#D0A215"), lipgloss.Color("#879A39"), lipgloss.Color("#24837B"), lipgloss.Color("#6BA3D6"),
	},
}

// CatppuccinMocha is a soft pastel palette.
var CatppuccinMocha = Theme{
	Name:          "catppuccin-mocha",
	Background:    lipgloss.Color("#1E1E2E"),
	Surface:       lipgloss.Color("#313244"),
	SurfaceHover:  lipgloss.Color("#45475A"),
	SurfaceBright: lipgloss.Color("#585B70"),
	Border:        lipgloss.Color("#585B70"),
	BorderAccent:  lipgloss.Color("#89B4FA"),
	TextDim:       lipgloss.Color("#6C7086"),
	TextMuted:     lipgloss.Color("#A6ADC8"),
	TextPrimary:   lipgloss.Color("#CDD6F4"),
	Accent:        lipgloss.Color("#89B4FA"),
	AccentBright:  lipgloss.Color("#B4D0FB"),
	Credit:        lipgloss.Color("#A6E3A1"),
	Debit:         lipgloss.Color("#F38BA8"),
	Success:       lipgloss.Color("#C6F6C1"),
	Warning:       lipgloss.Color("#FAB387"),
	Caution:       lipgloss.Color("#F9E2AF"),
	Highlight:     lipgloss.Color("#94E2D5"),
	Categories:    []lipgloss.Color{
		lipgloss.Color("#89B4FA"), lipgloss.Color("#89B4FA"), lipgloss.Color("#F5C2E7"), lipgloss.Color("#FAB387"),
		lipgloss.Color("#F9E2AF"), lipgloss.Color("#A6E3A1"), lipgloss.Color("#94E2D5"), lipgloss.Color("#B4D0FB"),
	},
}

// TokyoNight is a cool blue and violet palette.
var TokyoNight = Theme{
	Name:          "tokyo-night",
	Background:    lipgloss.Color("#1A1B26"),
	Surface:       lipgloss.Color("#24283B"),
	SurfaceHover:  lipgloss.Color("#343A52"),
	SurfaceBright: lipgloss.Color("#414868"),
	Border:        lipgloss.Color("#565F89"),
	BorderAccent:  lipgloss.Color("#7AA2F7"),
	TextDim:       lipgloss.Color("#565F89"),
	TextMuted:     lipgloss.Color("#A9B1D6"),
	TextPrimary:   lipgloss.Color("#C0CAF5"),
	Accent:        lipgloss.Color("#7AA2F7"),
	AccentBright:  lipgloss.Color("#A9C1FF"),
	Credit:        lipgloss.Color("#9ECE6A"),
	Debit:         lipgloss.Color("#F7768E"),
	Success:       lipgloss.Color("#B9E87A"),
	Warning:       lipgloss.Color("#FF9E64"),
	Caution:       lipgloss.Color("#E0AF68"),
	Highlight:     lipgloss.Color("#7DCFFF"),
	Categories:    []lipgloss.Color{
		lipgloss.Color("#7AA2F7"), lipgloss.Color("#7AA2F7"), lipgloss.Color("#BB9AF7"), lipgloss.Color("#FF9E64"),
		lipgloss.Color("#E0AF68"), lipgloss.Color("#9ECE6A"), lipgloss.Color("#7DCFFF"), lipgloss.Color("#A9C1FF"),
	},
}

// Terminal sticks to the 16 ANSI colors for plain terminals.
var Terminal = Theme{
	Name:          "terminal",
	Background:    lipgloss.Color("0"),
	Surface:       lipgloss.Color("0"),
	SurfaceHover:  lipgloss.Color("8"),
	SurfaceBright: lipgloss.Color("8"),
	Border:        lipgloss.Color("8"),
	BorderAccent:  lipgloss.Color("6"),
	TextDim:       lipgloss.Color("8"),
	TextMuted:     lipgloss.Color("7"),
	TextPrimary:   lipgloss.Color("15"),
	Accent:        lipgloss.Color("6"),
	AccentBright:  lipgloss.Color("14"),
	Credit:        lipgloss.Color("2"),
	Debit:         lipgloss.Color("1"),
	Success:       lipgloss.Color("10"),
	Warning:       lipgloss.Color("3"),
	Caution:       lipgloss.Color("3"),
	Highlight:     lipgloss.Color("6"),
	Categories:    []lipgloss.Color{
		lipgloss.Color("6"), lipgloss.Color("4"), lipgloss.Color("5"), lipgloss.Color("3"),
		lipgloss.Color("3"), lipgloss.Color("2"), lipgloss.Color("6"), lipgloss.Color("12"),
	},
}
// All lists the themes offered in setup and settings, default first.
var All = []Theme{FlexokiDark, CatppuccinMocha, TokyoNight, Terminal}

// Names lists the theme names in display order.
func Names() []string {
	names := make([]string, len(All))
	for i, t := range All {
		names[i] = t.Name
	}
	return names
}

// Valid reports whether name is a known theme.
func Valid(name string) bool {
	for _, t := range All {
		if t.Name == name {
			return true
		}
	}
	return false
}

// Amount picks Credit or Debit by sign; zero is muted.
func (t Theme) Amount(v float64) lipgloss.Color {
	switch {
	case v > 0:
		return t.Credit
	case v < 0:
		return t.Debit
	}
	return t.TextMuted
}

// Severity colors a runway bucket.
func (t Theme) Severity(s model.RunwaySeverity) lipgloss.Color {
	switch s {
	case model.RunwayCritical:
		return t.Debit
	case model.RunwayLow:
		return t.Caution
	case model.RunwayHealthy:
		return t.Credit
	}
	return t.TextMuted
}

// Category returns the bar color for the i-th category.
func (t Theme) Category(i int) lipgloss.Color {
	if len(t.Categories) == 0 {
		return t.Accent
	}
	return t.Categories[i%len(t.Categories)]
}

// ByName returns a theme by its name, defaulting to FlexokiDark.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return FlexokiDark
}

// SetActive switches the active theme.
func SetActive(name string) {
	Active = ByName(name)
}
