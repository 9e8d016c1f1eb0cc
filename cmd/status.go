package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spendpilot/spendpilot/internal/apiclient"
	"github.com/spendpilot/spendpilot/internal/cli"
	"github.com/spendpilot/spendpilot/internal/store"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show analysis service health and the stored result",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	client := apiclient.NewClient(cfg.BaseURL(), cfg.Timeout())

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Checking %s...\n", client.BaseURL())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	health, herr := client.Health(ctx)

	fmt.Println()
	fmt.Println(cli.RenderTitle("SPENDPILOT STATUS"))
	fmt.Println()

	rows := [][]string{{"URL", client.BaseURL()}}
	switch {
	case herr != nil && apiclient.IsTimeout(herr):
		rows = append(rows, []string{"Health", cli.RenderWarning("timed out")})
	case herr != nil:
		rows = append(rows, []string{"Health", cli.RenderWarning("unreachable")})
	default:
		rows = append(rows, []string{"Health", health.Status})
		if health.Service != "" {
			rows = append(rows, []string{"Service", health.Service})
		}
		if health.Version != "" {
			rows = append(rows, []string{"Version", health.Version})
		}
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Analysis Service",
		Headers: []string{"Setting", "Value"},
		Rows:    rows,
	}))

	results := store.OpenBridge(cfg.StorePath())
	defer func() { _ = results.Close() }()

	backend := "sqlite  " + cfg.StorePath()
	if !results.Persistent() {
		backend = "memory (database unavailable)"
	}
	rows = [][]string{{"Backend", backend}}

	info, err := results.Info()
	switch {
	case errors.Is(err, store.ErrNotFound):
		rows = append(rows, []string{"Analysis", cli.RenderMuted("none stored")})
	case err != nil:
		rows = append(rows, []string{"Analysis", cli.RenderWarning(err.Error())})
	default:
		rows = append(rows,
			[]string{"Source", info.SourceName},
			[]string{"Saved", humanize.Time(info.SavedAt)},
			[]string{"Contract", fmt.Sprintf("v%d", info.ContractVersion)},
		)
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Result Store",
		Headers: []string{"Setting", "Value"},
		Rows:    rows,
	}))

	if herr != nil {
		fmt.Printf("  %s\n\n", cli.RenderMuted(fmt.Sprintf("Health check failed: %v", herr)))
	}
	return nil
}
