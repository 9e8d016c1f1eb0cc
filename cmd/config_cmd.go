// Package cmd implements the spendpilot CLI commands.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spendpilot/spendpilot/internal/config"
	"github.com/spendpilot/spendpilot/internal/upload"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [API]")
	fmt.Printf("    Base URL: %s", cfg.BaseURL())
	if os.Getenv(config.EnvAPIBaseURL) != "" {
		fmt.Printf("  (from %s)", config.EnvAPIBaseURL)
	}
	fmt.Println()
	fmt.Printf("    Timeout:  %s\n", cfg.Timeout())
	fmt.Println()

	limits := cfg.Limits()
	fmt.Println("  [Upload]")
	fmt.Printf("    Max size: %d MB\n", limits.MaxMB())
	fmt.Printf("    Accepted: %s\n", upload.DescribeAccepted(limits.Accepted))
	fmt.Printf("    Types:    %s\n", strings.Join(limits.AcceptedTypes(), ", "))
	fmt.Println()

	fmt.Println("  [Storage]")
	fmt.Printf("    Database: %s\n", cfg.StorePath())
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level:    %s\n", cfg.Log.Level)
	fmt.Printf("    TUI file: %s\n", cfg.LogPath())
	fmt.Println()

	fmt.Println("  Run `spendpilot setup` to reconfigure.")
	return nil
}
