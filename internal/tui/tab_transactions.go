package tui

import (
	"fmt"
	"strings"

	"github.com/spendpilot/spendpilot/internal/cli"
	"github.com/spendpilot/spendpilot/internal/pipeline"
	"github.com/spendpilot/spendpilot/internal/tui/components"
	"github.com/spendpilot/spendpilot/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// transactionsState holds the transactions tab state.
type transactionsState struct {
	sort   pipeline.SortConfig
	offset int // first visible row
}

// txnColumn describes one table column. Flexible columns share whatever
// width is left after the fixed ones.
type txnColumn struct {
	title string
	key   pipeline.SortKey
	width int
	flex  bool
	right bool
}

var txnColumns = []txnColumn{
	{title: "Date", key: pipeline.SortDate, width: 12},
	{title: "Description", key: pipeline.SortDescription, flex: true},
	{title: "Amount", key: pipeline.SortAmount, width: 14, right: true},
	{title: "Balance", key: pipeline.SortBalance, width: 14, right: true},
	{title: "Category", key: pipeline.SortCategory, width: 16},
}

func (a App) updateTransactionsKey(key string) (tea.Model, tea.Cmd) {
	_, total := a.dash.Transactions(a.txn.sort)
	shown := min(total, pipeline.TransactionPageSize)
	maxOffset := max(shown-txnVisibleRows(a.height-2), 0) // tab bar + status bar

	switch key {
	case "1", "2", "3", "4", "5":
		col := txnColumns[int(key[0]-'1')]
		a.txn.sort = a.txn.sort.Toggle(col.key)
		a.txn.offset = 0
	case "0":
		a.txn.sort = pipeline.SortConfig{}
		a.txn.offset = 0
	case "j", "down":
		if a.txn.offset < maxOffset {
			a.txn.offset++
		}
	case "k", "up":
		if a.txn.offset > 0 {
			a.txn.offset--
		}
	case "g":
		a.txn.offset = 0
	case "G":
		a.txn.offset = maxOffset
	}
	return a, nil
}

func (a App) renderTransactionsTab(cw, h int) string {
	t := theme.Active
	rows, total := a.dash.Transactions(a.txn.sort)

	if total == 0 {
		muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
		return components.ContentCard("Transactions", muted.Render("No transactions in this statement"), cw)
	}

	inner := components.CardInnerWidth(cw)
	widths := txnColumnWidths(inner, a.isCompactLayout())

	headStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	sortedStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true).Underline(true)
	cellStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	catStyle := lipgloss.NewStyle().Foreground(t.Highlight).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface).Render(" ")

	var body strings.Builder

	// Header, numbered for the sort keys.
	for i, col := range txnColumns {
		title := fmt.Sprintf("%d %s", i+1, col.title)
		style := headStyle
		if a.txn.sort.Key == col.key {
			arrow := "▲"
			if a.txn.sort.Desc {
				arrow = "▼"
			}
			title += " " + arrow
			style = sortedStyle
		}
		if i > 0 {
			body.WriteString(space)
		}
		body.WriteString(style.Render(fitCell(title, widths[i], col.right)))
	}
	body.WriteString("\n")
	body.WriteString(dimStyle.Render(strings.Repeat("─", inner)))
	body.WriteString("\n")

	visible := txnVisibleRows(h)
	start := min(a.txn.offset, max(len(rows)-visible, 0))
	end := min(start+visible, len(rows))

	for _, txn := range rows[start:end] {
		cells := []string{
			cellStyle.Render(fitCell(cli.FormatDate(txn.Date), widths[0], false)),
			cellStyle.Render(fitCell(cli.CleanText(txn.Description), widths[1], false)),
			lipgloss.NewStyle().Foreground(t.Amount(txn.Amount)).Background(t.Surface).
				Render(fitCell(cli.FormatCurrency(txn.Amount), widths[2], true)),
			cellStyle.Render(fitCell(cli.FormatCurrency(txn.Balance), widths[3], true)),
			catStyle.Render(fitCell(txn.Category, widths[4], false)),
		}
		body.WriteString(strings.Join(cells, space))
		body.WriteString("\n")
	}

	footer := fmt.Sprintf("Rows %d–%d", start+1, end)
	if total > len(rows) {
		footer = fmt.Sprintf("Showing first %d of %s · ", len(rows), cli.FormatNumber(int64(total))) + footer
	}
	footer += fmt.Sprintf(" · sort: %s", sortLabel(a.txn.sort))
	body.WriteString(dimStyle.Render(footer))

	return components.ContentCard("Transactions", body.String(), cw)
}

// txnVisibleRows is how many table rows fit in a content area h lines tall
// (card border, title, header, rule and footer take the rest).
func txnVisibleRows(h int) int {
	return max(h-6, 3)
}

func sortLabel(c pipeline.SortConfig) string {
	if c.Key == pipeline.SortNone {
		return "statement order"
	}
	return fmt.Sprintf("%s %s", c.Key, c.Direction())
}

// txnColumnWidths fits the columns into width, giving the remainder to the
// description. Compact layouts shrink the fixed columns first.
func txnColumnWidths(width int, compact bool) []int {
	widths := make([]int, len(txnColumns))
	fixed := 0
	for i, col := range txnColumns {
		w := col.width
		if compact && !col.flex {
			w = w * 3 / 4
		}
		widths[i] = w
		fixed += w
	}
	gaps := len(txnColumns) - 1
	for i, col := range txnColumns {
		if col.flex {
			widths[i] = max(width-fixed-gaps, 10)
		}
	}
	return widths
}

// fitCell truncates s to w display cells and pads it to exactly w.
func fitCell(s string, w int, right bool) string {
	s = ansi.Truncate(s, w, "…")
	pad := w - ansi.StringWidth(s)
	if pad <= 0 {
		return s
	}
	if right {
		return strings.Repeat(" ", pad) + s
	}
	return s + strings.Repeat(" ", pad)
}
