package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spendpilot/spendpilot/internal/cli"
	"github.com/spendpilot/spendpilot/internal/config"
	"github.com/spendpilot/spendpilot/internal/logger"
	"github.com/spendpilot/spendpilot/internal/pipeline"
	"github.com/spendpilot/spendpilot/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagAPIURL   string
	flagDB       string
	flagLogLevel string
	flagQuiet    bool

	configWarned bool
)

var rootCmd = &cobra.Command{
	Use:   "spendpilot",
	Short: "Bank statement analysis in your terminal",
	Long:  "Upload a bank statement for analysis, then explore spending, monthly trends and financial runway.",
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		cfg := loadConfig()
		logger.Init(cfg.Log.Level, os.Stderr)
	},
	RunE: runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "Analysis API base URL (overrides config and environment)")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "Result store database path")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

// loadConfig reads the config file and environment, then applies flags.
// A broken config file falls back to defaults with a warning.
func loadConfig() config.Config {
	cfg, err := config.Load()
	if err != nil && !configWarned {
		configWarned = true
		fmt.Fprintf(os.Stderr, "  Config unreadable, using defaults: %v\n", err)
	}
	if flagAPIURL != "" {
		cfg.API.BaseURL = flagAPIURL
	}
	if flagDB != "" {
		cfg.Storage.Path = flagDB
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	return cfg
}

// withDashboard opens the result store, derives the dashboard and hands it
// to fn. With nothing stored it prints a hint instead of failing.
func withDashboard(fn func(dash *pipeline.Dashboard, info store.Info) error) error {
	cfg := loadConfig()
	results := store.OpenBridge(cfg.StorePath())
	defer func() { _ = results.Close() }()

	dash, err := pipeline.LoadDashboard(results)
	if errors.Is(err, pipeline.ErrNoResult) {
		printNoResult()
		return nil
	}
	if err != nil {
		return err
	}
	info, _ := results.Info()
	return fn(dash, info)
}

func printNoResult() {
	fmt.Println()
	fmt.Println("  No analysis found — run `spendpilot analyze <file>`")
	fmt.Println()
}

// sourceTitle renders a section title tagged with the analyzed file.
func sourceTitle(section string, info store.Info) string {
	if info.SourceName == "" {
		return cli.RenderTitle(section)
	}
	return cli.RenderTitle(fmt.Sprintf("%s  %s", section, info.SourceName))
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-1]) + "…"
}
