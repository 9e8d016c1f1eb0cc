package cmd

import (
	"fmt"

	"github.com/spendpilot/spendpilot/internal/cli"
	"github.com/spendpilot/spendpilot/internal/pipeline"
	"github.com/spendpilot/spendpilot/internal/store"

	"github.com/spf13/cobra"
)

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Daily spending table",
	RunE:  runDaily,
}

func init() {
	rootCmd.AddCommand(dailyCmd)
}

func runDaily(_ *cobra.Command, _ []string) error {
	return withDashboard(func(dash *pipeline.Dashboard, info store.Info) error {
		if len(dash.Daily) == 0 {
			fmt.Println("\n  No debits in this analysis.")
			return nil
		}

		fmt.Println()
		fmt.Println(sourceTitle("DAILY SPENDING", info))
		fmt.Println()

		rows := make([][]string, 0, len(dash.Daily))
		amounts := make([]float64, 0, len(dash.Daily))
		for _, d := range dash.Daily {
			rows = append(rows, []string{
				d.Date.Format("2006-01-02"),
				d.Date.Format("Mon"),
				cli.FormatCurrency(d.Amount),
				cli.FormatCurrency(d.Balance),
			})
			amounts = append(amounts, d.Amount)
		}

		fmt.Print(cli.RenderTable(cli.Table{
			Headers: []string{"Date", "Day", "Spent", "Balance"},
			Rows:    rows,
		}))

		fmt.Printf("  %s  avg %s/day\n\n", cli.RenderSparkline(amounts), cli.FormatCurrency(dash.Stats.AvgDailySpend))
		return nil
	})
}
