package cmd

import (
	"errors"
	"fmt"

	"github.com/spendpilot/spendpilot/internal/store"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard the stored analysis",
	RunE:  runReset,
}

func init() {
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(resetCmd)
}

func runReset(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	results := store.OpenBridge(cfg.StorePath())
	defer func() { _ = results.Close() }()

	info, err := results.Info()
	if errors.Is(err, store.ErrNotFound) {
		fmt.Println("\n  Nothing to reset.")
		return nil
	}

	if !resetYes {
		title := "Discard the stored analysis?"
		if info.SourceName != "" {
			title = fmt.Sprintf("Discard the analysis of %s?", info.SourceName)
		}
		confirmed := false
		err := huh.NewConfirm().
			Title(title).
			Affirmative("Discard").
			Negative("Keep").
			Value(&confirmed).
			Run()
		if err != nil && !errors.Is(err, huh.ErrUserAborted) {
			return err
		}
		if !confirmed {
			fmt.Println("\n  Kept.")
			return nil
		}
	}

	if err := results.Clear(); err != nil {
		return fmt.Errorf("clearing result store: %w", err)
	}
	fmt.Println("\n  Stored analysis discarded. Run `spendpilot analyze <file>` to start over.")
	return nil
}
