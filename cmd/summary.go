package cmd

import (
	"fmt"

	"github.com/spendpilot/spendpilot/internal/cli"
	"github.com/spendpilot/spendpilot/internal/pipeline"
	"github.com/spendpilot/spendpilot/internal/store"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Headline metrics for the stored analysis",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	return withDashboard(func(dash *pipeline.Dashboard, info store.Info) error {
		printSummary(dash, info)
		return nil
	})
}

func printSummary(dash *pipeline.Dashboard, info store.Info) {
	fmt.Println()
	fmt.Println(sourceTitle("SPENDING SUMMARY", info))
	fmt.Println()

	if dash.RunwayAlert {
		fmt.Printf("  %s\n\n", cli.RenderWarning(fmt.Sprintf(
			"⚠ Cash runway critical: your balance may last only %s at the current rate",
			cli.FormatRunway(dash.Runway))))
	}

	stats := dash.Stats
	top := "—"
	if dash.Top.Name != "" {
		top = fmt.Sprintf("%s  (%s)", dash.Top.Name, cli.FormatCurrency(dash.Top.Value))
	}

	rows := [][]string{
		{"Total Spent", cli.FormatCurrency(stats.TotalDebit)},
		{"Total Income", cli.FormatCurrency(stats.TotalCredit)},
		{"Net Flow", cli.RenderAmount(stats.NetFlow)},
		{"---"},
		{"Avg Daily Spend", cli.FormatCurrency(stats.AvgDailySpend)},
		{"Days With Spend", cli.FormatNumber(int64(stats.DistinctDays))},
		{"Transactions", cli.FormatNumber(int64(stats.Transactions))},
		{"---"},
		{"Top Category", top},
		{"Runway", cli.RenderRunway(dash.Runway, dash.Severity)},
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	if dash.Narrative != "" {
		fmt.Printf("  %s\n\n", dash.Narrative)
	}
}
