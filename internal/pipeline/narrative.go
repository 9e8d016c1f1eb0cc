package pipeline

import (
	"fmt"
	"math"

	"github.com/spendpilot/spendpilot/internal/cli"
	"github.com/spendpilot/spendpilot/internal/model"
)

// Narrative renders the one-paragraph summary shown above the charts.
func Narrative(stats model.DashboardStats, spending model.SpendingByCategory) string {
	top := TopCategory(spending)

	flow := fmt.Sprintf("You had a negative cash flow of %s.", cli.FormatCurrency(math.Abs(stats.NetFlow)))
	if stats.NetFlow > 0 {
		flow = fmt.Sprintf("You had a positive cash flow of %s.", cli.FormatCurrency(stats.NetFlow))
	}

	return fmt.Sprintf(
		"Based on your transaction history, you spent %s across various categories. "+
			"Your highest spending category was %s at %s. %s "+
			"Your average daily spending is %s.",
		cli.FormatCurrency(stats.TotalDebit),
		top.Name, cli.FormatCurrency(top.Value),
		flow,
		cli.FormatCurrency(stats.AvgDailySpend),
	)
}
