package tui

import (
	"fmt"
	"strings"

	"github.com/spendpilot/spendpilot/internal/cli"
	"github.com/spendpilot/spendpilot/internal/tui/components"
	"github.com/spendpilot/spendpilot/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderMonthlyTab(cw int) string {
	t := theme.Active
	months := a.dash.Monthly

	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	if len(months) == 0 {
		return components.ContentCard("Monthly Summary", muted.Render("No monthly summary in this analysis"), cw)
	}

	headStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	cellStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	const numW = 14
	var table strings.Builder
	table.WriteString(headStyle.Render(fmt.Sprintf("%-10s %*s %*s %*s %*s",
		"Month", numW, "Inflow", numW, "Outflow", numW, "Net", numW, "Balance")))
	table.WriteString("\n")
	table.WriteString(dimStyle.Render(strings.Repeat("─", 10+4*(numW+1))))
	table.WriteString("\n")

	var inflow, outflow float64
	for _, m := range months {
		inflow += m.Inflow
		outflow += m.Outflow
		netStyle := lipgloss.NewStyle().Foreground(t.Amount(m.Net)).Background(t.Surface)
		table.WriteString(cellStyle.Render(fmt.Sprintf("%-10s ", m.Month)))
		table.WriteString(lipgloss.NewStyle().Foreground(t.Credit).Background(t.Surface).
			Render(fmt.Sprintf("%*s ", numW, cli.FormatCurrency(m.Inflow))))
		table.WriteString(lipgloss.NewStyle().Foreground(t.Debit).Background(t.Surface).
			Render(fmt.Sprintf("%*s ", numW, cli.FormatCurrency(m.Outflow))))
		table.WriteString(netStyle.Render(fmt.Sprintf("%*s ", numW, cli.FormatSignedCurrency(m.Net))))
		table.WriteString(cellStyle.Render(fmt.Sprintf("%*s", numW, cli.FormatCurrency(m.Balance))))
		table.WriteString("\n")
	}
	table.WriteString(dimStyle.Render(strings.Repeat("─", 10+4*(numW+1))))
	table.WriteString("\n")
	table.WriteString(headStyle.Render(fmt.Sprintf("%-10s %*s %*s %*s",
		"Total", numW, cli.FormatCurrency(inflow), numW, cli.FormatCurrency(outflow),
		numW, cli.FormatSignedCurrency(inflow-outflow))))

	var b strings.Builder
	b.WriteString(components.ContentCard("Monthly Summary", table.String(), cw))
	b.WriteString("\n")

	// Inflow vs outflow charts side by side, stacked when compact.
	inVals := make([]float64, len(months))
	outVals := make([]float64, len(months))
	labels := make([]string, len(months))
	for i, m := range months {
		inVals[i] = m.Inflow
		outVals[i] = m.Outflow
		labels[i] = m.Month
	}

	chartH := 8
	if a.isCompactLayout() {
		inCard := components.ContentCard("Inflow",
			components.BarChart(inVals, labels, t.Credit, components.CardInnerWidth(cw), chartH-2), cw)
		outCard := components.ContentCard("Outflow",
			components.BarChart(outVals, labels, t.Debit, components.CardInnerWidth(cw), chartH-2), cw)
		b.WriteString(inCard + "\n" + outCard)
		return b.String()
	}
	halves := components.LayoutRow(cw, 2)
	b.WriteString(components.CardRow([]string{
		components.ContentCard("Inflow",
			components.BarChart(inVals, labels, t.Credit, components.CardInnerWidth(halves[0]), chartH), halves[0]),
		components.ContentCard("Outflow",
			components.BarChart(outVals, labels, t.Debit, components.CardInnerWidth(halves[1]), chartH), halves[1]),
	}))
	return b.String()
}
