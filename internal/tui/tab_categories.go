package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spendpilot/spendpilot/internal/cli"
	"github.com/spendpilot/spendpilot/internal/model"
	"github.com/spendpilot/spendpilot/internal/tui/components"
	"github.com/spendpilot/spendpilot/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderCategoriesTab(cw int) string {
	t := theme.Active
	cats := a.dash.Categories

	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	if len(cats) == 0 {
		return components.ContentCard("Spending by Category", muted.Render("No categorized spending"), cw)
	}

	var left, right string
	if a.isCompactLayout() {
		left = a.categoryBreakdownCard(cats, cw)
		right = a.categoryActivityCard(cw)
		return left + "\n" + right
	}
	halves := components.LayoutRow(cw, 2)
	left = a.categoryBreakdownCard(cats, halves[0])
	right = a.categoryActivityCard(halves[1])
	return components.CardRow([]string{left, right})
}

func (a App) categoryBreakdownCard(cats []model.CategoryShare, w int) string {
	t := theme.Active
	inner := components.CardInnerWidth(w)

	labelW := 0
	for _, c := range cats {
		labelW = max(labelW, len([]rune(c.Name)))
	}
	labelW = min(labelW, 18)
	const amountW = 13
	barW := max(inner-labelW-amountW-10, 5)

	amountStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	totalStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var body strings.Builder
	var total float64
	for i, c := range cats {
		total += c.Value
		body.WriteString(nameStyle.Render(fmt.Sprintf("%-*s ", labelW, truncStr(c.Name, labelW))))
		body.WriteString(amountStyle.Render(fmt.Sprintf("%*s ", amountW, cli.FormatCurrency(c.Value))))
		body.WriteString(components.ShareBar(c.Percent, barW, t.Category(i)))
		body.WriteString("\n")
	}
	body.WriteString(totalStyle.Render(fmt.Sprintf("%-*s %*s", labelW, "Total", amountW, cli.FormatCurrency(total))))

	return components.ContentCard("Spending by Category", body.String(), w)
}

// categoryActivityCard counts debit transactions per category from the
// transaction list, which the backend's totals do not carry.
func (a App) categoryActivityCard(w int) string {
	t := theme.Active
	type row struct {
		name  string
		count int
		total float64
	}

	byName := map[string]*row{}
	for _, txn := range a.dash.Result.Transactions {
		if !txn.IsDebit() || txn.Category == model.IncomeCategory {
			continue
		}
		r, ok := byName[txn.Category]
		if !ok {
			r = &row{name: txn.Category}
			byName[txn.Category] = r
		}
		r.count++
		r.total -= txn.Amount
	}
	rows := make([]*row, 0, len(byName))
	for _, r := range byName {
		rows = append(rows, r)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		return rows[i].name < rows[j].name
	})

	headStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	cellStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	inner := components.CardInnerWidth(w)
	nameW := max(inner-6-14-14-3, 8)

	var body strings.Builder
	body.WriteString(headStyle.Render(fmt.Sprintf("%-*s %6s %14s %14s", nameW, "Category", "Txns", "Avg", "Largest")))
	body.WriteString("\n")
	if len(rows) == 0 {
		body.WriteString(dimStyle.Render("No debit transactions"))
	}
	largest := largestDebits(a.dash.Result.Transactions)
	for i, r := range rows {
		avg := r.total / float64(r.count)
		body.WriteString(cellStyle.Render(fmt.Sprintf("%-*s %6d %14s %14s",
			nameW, truncStr(r.name, nameW), r.count,
			cli.FormatCurrency(avg), cli.FormatCurrency(largest[r.name]))))
		if i < len(rows)-1 {
			body.WriteString("\n")
		}
	}
	return components.ContentCard("Category Activity", body.String(), w)
}

func largestDebits(txns []model.Transaction) map[string]float64 {
	out := map[string]float64{}
	for _, txn := range txns {
		if txn.IsDebit() && -txn.Amount > out[txn.Category] {
			out[txn.Category] = -txn.Amount
		}
	}
	return out
}
