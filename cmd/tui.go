package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spendpilot/spendpilot/internal/apiclient"
	"github.com/spendpilot/spendpilot/internal/config"
	"github.com/spendpilot/spendpilot/internal/logger"
	"github.com/spendpilot/spendpilot/internal/store"
	"github.com/spendpilot/spendpilot/internal/tui"
	"github.com/spendpilot/spendpilot/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiScanDir string

var tuiCmd = &cobra.Command{
	Use:   "tui [file]",
	Short: "Launch the interactive upload flow and dashboard",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTUI,
}

func init() {
	tuiCmd.Flags().StringVar(&tuiScanDir, "dir", "", "Directory listed for statements (default: working directory)")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, args []string) error {
	cfg := loadConfig()
	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	// The alt screen owns stderr, so logs go to a file.
	logPath := cfg.LogPath()
	_ = os.MkdirAll(filepath.Dir(logPath), 0o750)
	if closer, err := logger.InitFile(cfg.Log.Level, logPath); err == nil {
		defer func() { _ = closer.Close() }()
	} else {
		logger.Init(cfg.Log.Level, io.Discard)
	}

	results := store.OpenBridge(cfg.StorePath())
	defer func() { _ = results.Close() }()

	var file string
	if len(args) == 1 {
		file = args[0]
	}

	app := tui.NewApp(tui.Deps{
		Config:    cfg,
		Backend:   apiclient.NewClient(cfg.BaseURL(), cfg.Timeout()),
		Results:   results,
		ScanDir:   tuiScanDir,
		File:      file,
		NeedSetup: !config.Exists(),
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
