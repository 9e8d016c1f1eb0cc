package cmd

import (
	"fmt"

	"github.com/spendpilot/spendpilot/internal/cli"
	"github.com/spendpilot/spendpilot/internal/pipeline"
	"github.com/spendpilot/spendpilot/internal/store"

	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Spending breakdown by category",
	RunE:  runCategories,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(_ *cobra.Command, _ []string) error {
	return withDashboard(func(dash *pipeline.Dashboard, info store.Info) error {
		if len(dash.Categories) == 0 {
			fmt.Println("\n  No spending categories in this analysis.")
			return nil
		}

		fmt.Println()
		fmt.Println(sourceTitle("SPENDING BY CATEGORY", info))
		fmt.Println()

		var total float64
		labelW := 0
		for _, c := range dash.Categories {
			total += c.Value
			labelW = max(labelW, len([]rune(c.Name)))
		}
		labelW = min(labelW, 20)

		rows := make([][]string, 0, len(dash.Categories)+2)
		for _, c := range dash.Categories {
			rows = append(rows, []string{
				truncate(c.Name, 24),
				cli.FormatCurrency(c.Value),
				cli.FormatPercent(c.Percent),
			})
		}
		rows = append(rows, []string{"---"})
		rows = append(rows, []string{"Total", cli.FormatCurrency(total), cli.FormatPercent(100)})

		fmt.Print(cli.RenderTable(cli.Table{
			Headers: []string{"Category", "Spent", "Share"},
			Rows:    rows,
		}))

		top := dash.Categories[0].Value
		for _, c := range dash.Categories {
			fmt.Printf("  %s\n", cli.RenderHorizontalBar(truncate(c.Name, labelW), labelW, c.Value, top, 30))
		}
		fmt.Println()
		return nil
	})
}
