package tui

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/spendpilot/spendpilot/internal/config"
	"github.com/spendpilot/spendpilot/internal/tui/components"
	"github.com/spendpilot/spendpilot/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// setupValues holds the first-run form fields. The form writes through
// these pointers, so they survive App copies.
type setupValues struct {
	baseURL *string
	timeout *string
	theme   *string
}

// newSetupForm builds the first-run form, prefilled from cfg.
func newSetupForm(cfg config.Config) (*huh.Form, setupValues) {
	vals := setupValues{
		baseURL: new(string),
		timeout: new(string),
		theme:   new(string),
	}
	*vals.baseURL = cfg.BaseURL()
	*vals.timeout = strconv.Itoa(cfg.API.TimeoutSec)
	*vals.theme = cfg.Appearance.Theme

	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to SpendPilot").
				Description("Upload a bank statement and get a breakdown of where your money goes.\n\nA couple of settings first."),
			huh.NewInput().
				Title("Analysis API base URL").
				Description("Where the statement analysis service runs.").
				Value(vals.baseURL).
				Validate(ValidateBaseURL),
			huh.NewInput().
				Title("Request timeout (seconds)").
				Description("Large statements can take several minutes to analyze.").
				Value(vals.timeout).
				Validate(validatePositiveInt),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(vals.theme),
		),
	).WithShowHelp(false)

	return form, vals
}

// ValidateBaseURL accepts absolute http(s) URLs.
func ValidateBaseURL(s string) error {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("enter an http:// or https:// URL")
	}
	return nil
}

func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return errors.New("enter a positive whole number")
	}
	return nil
}

// saveSetupConfig writes the first-run answers to the config file.
func (a *App) saveSetupConfig() error {
	cfg := loadConfigOrDefault()

	cfg.API.BaseURL = strings.TrimSpace(*a.setupVals.baseURL)
	if n, err := strconv.Atoi(strings.TrimSpace(*a.setupVals.timeout)); err == nil && n > 0 {
		cfg.API.TimeoutSec = n
	}
	if theme.Valid(*a.setupVals.theme) {
		cfg.Appearance.Theme = *a.setupVals.theme
		theme.SetActive(cfg.Appearance.Theme)
		a.bar = components.NewUploadBar(uploadBarWidth)
	}

	if err := config.Save(cfg); err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}
