package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spendpilot/spendpilot/internal/config"
	"github.com/spendpilot/spendpilot/internal/tui/components"
	"github.com/spendpilot/spendpilot/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

const (
	settingsFieldBaseURL = iota
	settingsFieldTimeout
	settingsFieldMaxSize
	settingsFieldTheme
	settingsFieldCount // sentinel
)

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor   int
	editing  bool
	input    textinput.Model
	saved    bool  // flash "saved" message
	saveErr  error // non-nil if last save failed
	checking bool
	health   *healthMsg
}

func newSettingsState() settingsState {
	return settingsState{input: newSettingsInput()}
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 50
	return ti
}

func (a App) updateSettingsKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "j", "down":
		if a.settings.cursor < settingsFieldCount-1 {
			a.settings.cursor++
		}
	case "k", "up":
		if a.settings.cursor > 0 {
			a.settings.cursor--
		}
	case "enter":
		return a.settingsStartEdit()
	case "H":
		if !a.settings.checking {
			a.settings.checking = true
			return a, healthCmd(a.backend)
		}
	}
	return a, nil
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	cfg := loadConfigOrDefault()
	a.settings.editing = true
	a.settings.saved = false

	ti := newSettingsInput()
	switch a.settings.cursor {
	case settingsFieldBaseURL:
		ti.Placeholder = "http://localhost:8000/"
		ti.SetValue(cfg.API.BaseURL)
	case settingsFieldTimeout:
		ti.Placeholder = "1200 (seconds)"
		ti.SetValue(strconv.Itoa(cfg.API.TimeoutSec))
	case settingsFieldMaxSize:
		ti.Placeholder = "10 (megabytes)"
		ti.SetValue(strconv.Itoa(cfg.Upload.MaxSizeMB))
	case settingsFieldTheme:
		ti.Placeholder = strings.Join(theme.Names(), ", ")
		ti.SetValue(cfg.Appearance.Theme)
	}

	cmd := ti.Focus()
	a.settings.input = ti
	return a, cmd
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.settings.saveErr = a.settingsSave()
		a.settings.editing = false
		a.settings.saved = a.settings.saveErr == nil
		return a, nil
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

// settingsSave validates the edited value and writes the config file.
// Backend settings take effect on the next launch; the theme applies
// immediately.
func (a *App) settingsSave() error {
	cfg := loadConfigOrDefault()
	val := strings.TrimSpace(a.settings.input.Value())

	switch a.settings.cursor {
	case settingsFieldBaseURL:
		if val != "" && !strings.HasPrefix(val, "http://") && !strings.HasPrefix(val, "https://") {
			return fmt.Errorf("base URL must start with http:// or https://")
		}
		cfg.API.BaseURL = val
	case settingsFieldTimeout:
		n, err := strconv.Atoi(val)
		if err != nil || n <= 0 {
			return fmt.Errorf("timeout must be a positive number of seconds")
		}
		cfg.API.TimeoutSec = n
	case settingsFieldMaxSize:
		n, err := strconv.Atoi(val)
		if err != nil || n <= 0 {
			return fmt.Errorf("max size must be a positive number of megabytes")
		}
		cfg.Upload.MaxSizeMB = n
	case settingsFieldTheme:
		if !theme.Valid(val) {
			return fmt.Errorf("unknown theme %q", val)
		}
		cfg.Appearance.Theme = val
		theme.SetActive(val)
		a.bar = components.NewUploadBar(uploadBarWidth)
	}

	if err := config.Save(cfg); err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active
	cfg := a.cfg

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	greenStyle := lipgloss.NewStyle().Foreground(t.Success).Background(t.Surface)
	warnStyle := lipgloss.NewStyle().Foreground(t.Warning).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)

	fields := []struct{ label, value string }{
		{"API Base URL", cfg.BaseURL()},
		{"Request Timeout", cfg.Timeout().String()},
		{"Max Upload Size", fmt.Sprintf("%d MB", cfg.Limits().MaxMB())},
		{"Theme", cfg.Appearance.Theme},
	}

	innerW := components.CardInnerWidth(cw)
	var formBody strings.Builder
	for i, f := range fields {
		if a.settings.editing && i == a.settings.cursor {
			formBody.WriteString(markerStyle.Render("▸ "))
			formBody.WriteString(accentStyle.Render(fmt.Sprintf("%-18s ", f.label)))
			formBody.WriteString(a.settings.input.View())
			formBody.WriteString("\n")
			continue
		}
		if i == a.settings.cursor {
			marker := markerStyle.Render("▸ ")
			label := selectedLabelStyle.Render(fmt.Sprintf("%-18s ", f.label+":"))
			value := selectedStyle.Render(f.value)
			formBody.WriteString(marker + label + value)
			if pad := innerW - lipgloss.Width(marker+label+value); pad > 0 {
				formBody.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", pad)))
			}
		} else {
			formBody.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
			formBody.WriteString(labelStyle.Render(fmt.Sprintf("%-18s ", f.label+":")))
			formBody.WriteString(valueStyle.Render(f.value))
		}
		formBody.WriteString("\n")
	}

	switch {
	case a.settings.saveErr != nil:
		formBody.WriteString("\n")
		formBody.WriteString(warnStyle.Render("Not saved: " + a.settings.saveErr.Error()))
		formBody.WriteString("\n")
	case a.settings.saved:
		formBody.WriteString("\n")
		formBody.WriteString(greenStyle.Render("Saved. Backend changes apply the next time you start spendpilot."))
		formBody.WriteString("\n")
	}
	formBody.WriteString("\n")
	formBody.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit  [Esc] cancel  [H] check backend"))

	// Storage and backend info
	var infoBody strings.Builder
	row := func(label, value string) {
		infoBody.WriteString(labelStyle.Render(fmt.Sprintf("%-17s", label)) + valueStyle.Render(value) + "\n")
	}
	row("Config file:", config.ConfigPath())
	row("Result store:", cfg.StorePath())
	if a.info.Backend != "" {
		row("Saved in:", a.info.Backend)
	}
	if a.info.SourceName != "" {
		row("Last analysis:", fmt.Sprintf("%s (%s)", a.info.SourceName, humanize.Time(a.info.SavedAt)))
	}

	backend := "press H to check"
	switch h := a.settings.health; {
	case a.settings.checking:
		backend = "checking…"
	case h != nil && h.err != nil:
		backend = "unreachable: " + h.err.Error()
	case h != nil && h.status != nil:
		backend = fmt.Sprintf("%s (%s %s)", h.status.Status, h.status.Service, h.status.Version)
	}
	row("Backend:", a.backend.BaseURL())
	infoBody.WriteString(labelStyle.Render(fmt.Sprintf("%-17s", "Health:")) + valueStyle.Render(backend))

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", formBody.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Storage & Backend", infoBody.String(), cw))
	return b.String()
}
