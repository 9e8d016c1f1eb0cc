package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spendpilot/spendpilot/internal/config"
	"github.com/spendpilot/spendpilot/internal/tui"
	"github.com/spendpilot/spendpilot/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	// Load existing config or defaults
	cfg, _ := config.Load()

	baseURL := cfg.BaseURL()
	timeout := strconv.Itoa(cfg.API.TimeoutSec)
	maxSize := strconv.Itoa(cfg.Upload.MaxSizeMB)
	themeName := cfg.Appearance.Theme

	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to SpendPilot").
				Description("Statement analysis runs on a separate service; point SpendPilot at it."),
			huh.NewInput().
				Title("Analysis API base URL").
				Value(&baseURL).
				Validate(tui.ValidateBaseURL),
			huh.NewInput().
				Title("Request timeout (seconds)").
				Value(&timeout).
				Validate(positiveInt),
			huh.NewInput().
				Title("Maximum statement size (MB)").
				Value(&maxSize).
				Validate(positiveInt),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&themeName),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("\n  Setup canceled; nothing saved.")
			return nil
		}
		return err
	}

	cfg.API.BaseURL = strings.TrimSpace(baseURL)
	cfg.API.TimeoutSec, _ = strconv.Atoi(strings.TrimSpace(timeout))
	cfg.Upload.MaxSizeMB, _ = strconv.Atoi(strings.TrimSpace(maxSize))
	if theme.Valid(themeName) {
		cfg.Appearance.Theme = themeName
	}

	// Save
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `spendpilot setup` anytime to reconfigure.")
	fmt.Println()

	return nil
}

func positiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return errors.New("enter a positive whole number")
	}
	return nil
}
