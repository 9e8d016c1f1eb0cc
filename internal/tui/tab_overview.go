package tui

import (
	"fmt"
	"strings"

	"github.com/spendpilot/spendpilot/internal/cli"
	"github.com/spendpilot/spendpilot/internal/tui/components"
	"github.com/spendpilot/spendpilot/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	d := a.dash
	stats := d.Stats
	var b strings.Builder

	// Row 0: runway alert, only when the runway is critically short.
	if d.RunwayAlert {
		b.WriteString(components.AlertCard(
			"⚠ Cash runway critical",
			fmt.Sprintf("At your current pace your balance lasts about %s. Consider cutting back on %s.",
				cli.FormatRunway(d.Runway), d.Top.Name),
			t.Debit, cw,
		))
		b.WriteString("\n")
	}

	// Row 1: metric cards
	metrics := []components.Metric{
		{Label: "Total Spent", Value: cli.FormatCurrency(stats.TotalDebit), Color: t.Debit,
			Note: fmt.Sprintf("%d transactions", stats.Transactions)},
		{Label: "Total Income", Value: cli.FormatCurrency(stats.TotalCredit), Color: t.Credit},
		{Label: "Net Flow", Value: cli.FormatSignedCurrency(stats.NetFlow), Color: t.Amount(stats.NetFlow)},
		{Label: "Avg Daily Spend", Value: cli.FormatCurrency(stats.AvgDailySpend),
			Note: fmt.Sprintf("over %d days", stats.DistinctDays)},
		{Label: "Runway", Value: cli.FormatRunway(d.Runway), Color: t.Severity(d.Severity),
			Note: d.Severity.String()},
	}
	if a.isCompactLayout() {
		b.WriteString(components.MetricCardRow(metrics[:3], cw))
		b.WriteString("\n")
		b.WriteString(components.MetricCardRow(metrics[3:], cw))
	} else {
		b.WriteString(components.MetricCardRow(metrics, cw))
	}
	b.WriteString("\n")

	// Row 2: narrative
	textStyle := lipgloss.NewStyle().
		Foreground(t.TextPrimary).
		Background(t.Surface).
		Width(components.CardInnerWidth(cw))
	b.WriteString(components.ContentCard("Summary", textStyle.Render(d.Narrative), cw))
	b.WriteString("\n")

	// Row 3: daily spending chart, with top categories beside it when wide.
	chartH := 10
	if a.isCompactLayout() {
		chartH = 7
	}
	if a.isCompactLayout() || len(d.Categories) == 0 {
		b.WriteString(a.dailyChartCard(cw, chartH))
		return b.String()
	}

	widths := components.LayoutRow(cw, 3)
	chartW := widths[0] + widths[1]
	b.WriteString(components.CardRow([]string{
		a.dailyChartCard(chartW, chartH),
		a.topCategoriesCard(widths[2], chartH),
	}))
	return b.String()
}

func (a App) dailyChartCard(w, h int) string {
	t := theme.Active
	days := a.dash.Daily
	if len(days) == 0 {
		muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
		return components.ContentCard("Daily Spending", muted.Render("No debits in this statement"), w)
	}

	vals := make([]float64, len(days))
	labels := make([]string, len(days))
	for i, d := range days {
		vals[i] = d.Amount
		labels[i] = d.Label
	}
	title := fmt.Sprintf("Daily Spending (%d days, %s)", len(days), cli.CurrencySymbol)
	return components.ContentCard(title,
		components.BarChart(vals, labels, t.Debit, components.CardInnerWidth(w), h), w)
}

func (a App) topCategoriesCard(w, rows int) string {
	t := theme.Active
	cats := a.dash.Categories
	inner := components.CardInnerWidth(w)

	limit := min(len(cats), max(rows/2+2, 3))
	labelW := 0
	for _, c := range cats[:limit] {
		labelW = max(labelW, len([]rune(c.Name)))
	}
	labelW = min(labelW, inner/3)
	barW := max(inner-labelW-9, 4)

	var body strings.Builder
	for i, c := range cats[:limit] {
		body.WriteString(lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).
			Render(fmt.Sprintf("%-*s ", labelW, truncStr(c.Name, labelW))))
		body.WriteString(components.ShareBar(c.Percent, barW, t.Category(i)))
		if i < limit-1 {
			body.WriteString("\n")
		}
	}
	return components.ContentCard("Top Categories", body.String(), w)
}
