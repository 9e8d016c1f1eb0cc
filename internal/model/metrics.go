package model

import (
	"fmt"
	"time"
)

// DashboardStats holds the headline figures shown in the metric cards.
type DashboardStats struct {
	TotalDebit    float64 `json:"total_debit"`
	TotalCredit   float64 `json:"total_credit"`
	NetFlow       float64 `json:"net_flow"`
	AvgDailySpend float64 `json:"avg_daily_spend"`
	DistinctDays  int     `json:"distinct_days"`
	Transactions  int     `json:"transactions"`
}

// DailySpend is the total outflow for one calendar day.
type DailySpend struct {
	Date    time.Time `json:"date"`
	Label   string    `json:"label"` // "Jan 2"
	Amount  float64   `json:"amount"`
	Balance float64   `json:"balance"` // balance after the first debit of the day
}

// CategoryShare is one slice of the spending breakdown.
type CategoryShare struct {
	Name    string  `json:"name"`
	Value   float64 `json:"value"`
	Percent float64 `json:"percent"` // rounded to one decimal
}

// MonthlyPoint is one month of the inflow/outflow series.
type MonthlyPoint struct {
	Month   string  `json:"month"`
	Inflow  float64 `json:"inflow"`
	Outflow float64 `json:"outflow"` // always non-negative
	Net     float64 `json:"net"`
	Balance float64 `json:"balance"`
}

// RunwaySeverity buckets the runway estimate for display.
type RunwaySeverity int

const (
	RunwayUnknown RunwaySeverity = iota
	RunwayCritical
	RunwayLow
	RunwayHealthy
)

func (r RunwaySeverity) String() string {
	switch r {
	case RunwayCritical:
		return "critical"
	case RunwayLow:
		return "low"
	case RunwayHealthy:
		return "healthy"
	}
	return "unknown"
}

// MarshalText renders the severity by name in JSON.
func (r RunwaySeverity) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText parses a severity name written by MarshalText.
func (r *RunwaySeverity) UnmarshalText(text []byte) error {
	for sev := RunwayUnknown; sev <= RunwayHealthy; sev++ {
		if sev.String() == string(text) {
			*r = sev
			return nil
		}
	}
	return fmt.Errorf("model: unknown runway severity %q", text)
}
