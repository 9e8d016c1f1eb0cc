package pipeline

import (
	"errors"
	"fmt"

	"github.com/spendpilot/spendpilot/internal/model"
	"github.com/spendpilot/spendpilot/internal/store"
)

// ErrNoResult indicates there is no analysis to show; callers send the user
// back to the upload flow.
var ErrNoResult = errors.New("pipeline: no analysis result available")

// TransactionPageSize is how many transactions the table shows.
const TransactionPageSize = 50

// Dashboard is everything the dashboard views render.
type Dashboard struct {
	Result      *model.AnalysisResult
	Stats       model.DashboardStats
	Daily       []model.DailySpend
	Categories  []model.CategoryShare
	Monthly     []model.MonthlyPoint
	Top         model.CategoryShare
	Narrative   string
	Runway      float64
	Severity    model.RunwaySeverity
	RunwayAlert bool
}

// Derive computes the full dashboard for r.
func Derive(r *model.AnalysisResult) *Dashboard {
	stats := Stats(r.Transactions)
	return &Dashboard{
		Result:      r,
		Stats:       stats,
		Daily:       DailySpending(r.Transactions),
		Categories:  CategoryBreakdown(r.SpendingByCategory),
		Monthly:     MonthlySeries(r.MonthlySummary),
		Top:         TopCategory(r.SpendingByCategory),
		Narrative:   Narrative(stats, r.SpendingByCategory),
		Runway:      r.RunwayEstimate,
		Severity:    ClassifyRunway(r.RunwayEstimate),
		RunwayAlert: ShowRunwayAlert(r.RunwayEstimate),
	}
}

// Transactions returns the first page of transactions under cfg and the
// total count.
func (d *Dashboard) Transactions(cfg SortConfig) ([]model.Transaction, int) {
	sorted := SortTransactions(d.Result.Transactions, cfg)
	total := len(sorted)
	if total > TransactionPageSize {
		sorted = sorted[:TransactionPageSize]
	}
	return sorted, total
}

// ResultLoader reads the stored analysis.
type ResultLoader interface {
	Load() (*model.AnalysisResult, error)
}

// LoadDashboard reads the stored analysis and derives its dashboard.
func LoadDashboard(s ResultLoader) (*Dashboard, error) {
	r, err := s.Load()
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNoResult
	}
	if err != nil {
		return nil, fmt.Errorf("loading analysis: %w", err)
	}
	return Derive(r), nil
}
