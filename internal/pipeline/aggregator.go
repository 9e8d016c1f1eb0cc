// Package pipeline derives dashboard metrics from an analysis result. Every
// function here is pure and leaves its input untouched.
package pipeline

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/spendpilot/spendpilot/internal/cli"
	"github.com/spendpilot/spendpilot/internal/model"
)

// Stats computes the headline totals. Only debits count toward spending but
// every transaction's day counts toward the day span.
func Stats(txns []model.Transaction) model.DashboardStats {
	debit, credit := decimal.Zero, decimal.Zero
	days := make(map[string]struct{})

	for _, t := range txns {
		amt := decimal.NewFromFloat(t.Amount)
		switch {
		case t.Amount < 0:
			debit = debit.Add(amt.Abs())
		case t.Amount > 0:
			credit = credit.Add(amt)
		}
		days[t.Day()] = struct{}{}
	}

	stats := model.DashboardStats{
		TotalDebit:   debit.InexactFloat64(),
		TotalCredit:  credit.InexactFloat64(),
		NetFlow:      credit.Sub(debit).InexactFloat64(),
		DistinctDays: len(days),
		Transactions: len(txns),
	}
	if len(days) > 0 {
		stats.AvgDailySpend = debit.Div(decimal.NewFromInt(int64(len(days)))).InexactFloat64()
	}
	return stats
}

// DailySpending groups debits by calendar day in ascending date order. The
// balance of each day is taken from its first debit.
func DailySpending(txns []model.Transaction) []model.DailySpend {
	type acc struct {
		sum     decimal.Decimal
		balance float64
	}
	byDay := make(map[string]*acc)
	var order []string

	for _, t := range txns {
		if t.Amount >= 0 {
			continue
		}
		day := t.Day()
		a, ok := byDay[day]
		if !ok {
			a = &acc{balance: t.Balance}
			byDay[day] = a
			order = append(order, day)
		}
		a.sum = a.sum.Add(decimal.NewFromFloat(t.Amount).Abs())
	}

	out := make([]model.DailySpend, 0, len(order))
	for _, day := range order {
		d := model.DailySpend{
			Label:   day,
			Amount:  byDay[day].sum.InexactFloat64(),
			Balance: byDay[day].balance,
		}
		if ts, ok := cli.ParseDate(day); ok {
			d.Date = ts
			d.Label = ts.Format("Jan 2")
		}
		out = append(out, d)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date.IsZero() || out[j].Date.IsZero() {
			return !out[i].Date.IsZero() && out[j].Date.IsZero()
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// CategoryBreakdown lists spending categories by value, largest first.
// Income and non-positive values are excluded, and shares are computed
// against the included categories only so they sum to 100.
func CategoryBreakdown(spending model.SpendingByCategory) []model.CategoryShare {
	total := decimal.Zero
	var out []model.CategoryShare
	for name, v := range spending {
		if name == model.IncomeCategory || v <= 0 {
			continue
		}
		total = total.Add(decimal.NewFromFloat(v))
		out = append(out, model.CategoryShare{Name: name, Value: v})
	}

	if total.IsPositive() {
		for i := range out {
			share := decimal.NewFromFloat(out[i].Value).Div(total).Mul(decimal.NewFromInt(100))
			out[i].Percent = share.Round(1).InexactFloat64()
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// MonthlySeries maps backend month rows to chart points, preserving order.
func MonthlySeries(months []model.MonthlySummary) []model.MonthlyPoint {
	out := make([]model.MonthlyPoint, 0, len(months))
	for _, m := range months {
		outflow := math.Abs(m.Outflow)
		out = append(out, model.MonthlyPoint{
			Month:   m.Month,
			Inflow:  m.Inflow,
			Outflow: outflow,
			Net:     decimal.NewFromFloat(m.Inflow).Sub(decimal.NewFromFloat(outflow)).InexactFloat64(),
			Balance: m.ClosingBalance,
		})
	}
	return out
}

// OtherCategory names the top category when there is no spending.
const OtherCategory = "Other"

// TopCategory returns the largest spending category, or "Other" at zero.
func TopCategory(spending model.SpendingByCategory) model.CategoryShare {
	cats := CategoryBreakdown(spending)
	if len(cats) == 0 {
		return model.CategoryShare{Name: OtherCategory}
	}
	return cats[0]
}

// Runway thresholds in days.
const (
	RunwayCriticalDays = 7
	RunwayLowDays      = 30
)

// ClassifyRunway buckets a runway estimate. Non-positive and non-finite
// estimates are unknown.
func ClassifyRunway(days float64) model.RunwaySeverity {
	switch {
	case days <= 0 || math.IsNaN(days) || math.IsInf(days, 0):
		return model.RunwayUnknown
	case days < RunwayCriticalDays:
		return model.RunwayCritical
	case days < RunwayLowDays:
		return model.RunwayLow
	}
	return model.RunwayHealthy
}

// ShowRunwayAlert reports whether the low-runway banner is shown.
func ShowRunwayAlert(days float64) bool {
	return days > 0 && days < RunwayCriticalDays
}
