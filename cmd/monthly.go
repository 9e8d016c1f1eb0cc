package cmd

import (
	"fmt"

	"github.com/spendpilot/spendpilot/internal/cli"
	"github.com/spendpilot/spendpilot/internal/pipeline"
	"github.com/spendpilot/spendpilot/internal/store"

	"github.com/spf13/cobra"
)

var monthlyCmd = &cobra.Command{
	Use:   "monthly",
	Short: "Month-by-month inflow, outflow and closing balance",
	RunE:  runMonthly,
}

func init() {
	rootCmd.AddCommand(monthlyCmd)
}

func runMonthly(_ *cobra.Command, _ []string) error {
	return withDashboard(func(dash *pipeline.Dashboard, info store.Info) error {
		if len(dash.Monthly) == 0 {
			fmt.Println("\n  No monthly summary in this analysis.")
			return nil
		}

		fmt.Println()
		fmt.Println(sourceTitle("MONTHLY TRENDS", info))
		fmt.Println()

		rows := make([][]string, 0, len(dash.Monthly))
		balances := make([]float64, 0, len(dash.Monthly))
		for _, m := range dash.Monthly {
			rows = append(rows, []string{
				m.Month,
				cli.FormatCurrency(m.Inflow),
				cli.FormatCurrency(m.Outflow),
				cli.RenderAmount(m.Net),
				cli.FormatCurrency(m.Balance),
			})
			balances = append(balances, m.Balance)
		}

		fmt.Print(cli.RenderTable(cli.Table{
			Headers: []string{"Month", "Inflow", "Outflow", "Net", "Closing"},
			Rows:    rows,
		}))

		if len(balances) > 1 {
			fmt.Printf("  Balance trend  %s\n\n", cli.RenderSparkline(balances))
		}
		return nil
	})
}
