package cmd

import (
	"fmt"

	"github.com/spendpilot/spendpilot/internal/cli"
	"github.com/spendpilot/spendpilot/internal/pipeline"
	"github.com/spendpilot/spendpilot/internal/store"

	"github.com/spf13/cobra"
)

var (
	txnSort  string
	txnDesc  bool
	txnLimit int
)

var transactionsCmd = &cobra.Command{
	Use:     "transactions",
	Aliases: []string{"txns"},
	Short:   "Categorized transactions from the stored analysis",
	RunE:    runTransactions,
}

func init() {
	transactionsCmd.Flags().StringVarP(&txnSort, "sort", "s", "", "Sort column: date, description, amount, balance, category")
	transactionsCmd.Flags().BoolVar(&txnDesc, "desc", false, "Sort descending")
	transactionsCmd.Flags().IntVarP(&txnLimit, "limit", "l", pipeline.TransactionPageSize, "Max transactions to show")
	rootCmd.AddCommand(transactionsCmd)
}

func runTransactions(_ *cobra.Command, _ []string) error {
	key, err := pipeline.ParseSortKey(txnSort)
	if err != nil {
		return err
	}
	sortCfg := pipeline.SortConfig{Key: key, Desc: txnDesc && key != pipeline.SortNone}

	return withDashboard(func(dash *pipeline.Dashboard, info store.Info) error {
		txns := pipeline.SortTransactions(dash.Result.Transactions, sortCfg)
		total := len(txns)
		if len(txns) == 0 {
			fmt.Println("\n  The statement contained no transactions.")
			return nil
		}
		if txnLimit > 0 && len(txns) > txnLimit {
			txns = txns[:txnLimit]
		}

		fmt.Println()
		fmt.Println(sourceTitle("TRANSACTIONS", info))
		fmt.Println()

		rows := make([][]string, 0, len(txns))
		for _, t := range txns {
			rows = append(rows, []string{
				cli.FormatDate(t.Date),
				truncate(cli.CleanText(t.Description), 36),
				cli.RenderAmount(t.Amount),
				cli.FormatCurrency(t.Balance),
				cli.CleanText(t.Category),
			})
		}

		fmt.Print(cli.RenderTable(cli.Table{
			Headers: []string{"Date", "Description", "Amount", "Balance", "Category"},
			Rows:    rows,
		}))

		footer := fmt.Sprintf("%d transactions", total)
		if len(txns) < total {
			footer = fmt.Sprintf("Showing first %d of %d transactions", len(txns), total)
		}
		if sortCfg.Key != pipeline.SortNone {
			footer += fmt.Sprintf(" · sorted by %s %s", sortCfg.Key, sortCfg.Direction())
		}
		fmt.Printf("  %s\n\n", cli.RenderMuted(footer))
		return nil
	})
}
