// Package model defines the analysis contract exchanged with the SpendPilot
// backend and the projections derived from it.
package model

import "strings"

// ContractVersion identifies the single supported result shape. Stored
// results carrying any other version are treated as corrupt.
const ContractVersion = 1

// IncomeCategory is the reserved category excluded from spending breakdowns.
const IncomeCategory = "Income"

// Transaction is one categorized statement line. A negative amount is a
// debit (outflow), a positive amount a credit (inflow).
type Transaction struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Balance     float64 `json:"balance"`
	Category    string  `json:"category"`
}

// Day returns the calendar-date portion of Date (everything before "T").
func (t Transaction) Day() string {
	if i := strings.IndexByte(t.Date, 'T'); i >= 0 {
		return t.Date[:i]
	}
	return t.Date
}

// IsDebit reports whether the transaction is an outflow.
func (t Transaction) IsDebit() bool { return t.Amount < 0 }

// SpendingByCategory maps category name to total spent.
type SpendingByCategory map[string]float64

// MonthlySummary is one backend-supplied month row. Outflow may arrive signed.
type MonthlySummary struct {
	Month          string  `json:"month"`
	Inflow         float64 `json:"inflow"`
	Outflow        float64 `json:"outflow"`
	ClosingBalance float64 `json:"closing_balance"`
}

// AnalysisResult is the backend's full response to a statement upload.
type AnalysisResult struct {
	Transactions       []Transaction      `json:"transactions"`
	SpendingByCategory SpendingByCategory `json:"spending_by_category"`
	MonthlySummary     []MonthlySummary   `json:"monthly_summary"`
	RunwayEstimate     float64            `json:"runway_estimate"`
}
