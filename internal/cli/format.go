// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

// CurrencySymbol prefixes every money amount (Nigerian naira).
const CurrencySymbol = "₦"

var strictPolicy = bluemonday.StrictPolicy()

// FormatCurrency formats an amount in whole naira with thousands separators.
// e.g., 1234567.6 -> "₦1,234,568", -2500 -> "-₦2,500"
func FormatCurrency(v float64) string {
	n := int64(math.Round(v))
	if n < 0 {
		return "-" + CurrencySymbol + FormatNumber(-n)
	}
	return CurrencySymbol + FormatNumber(n)
}

// FormatSignedCurrency is FormatCurrency with an explicit "+" for gains.
func FormatSignedCurrency(v float64) string {
	if math.Round(v) > 0 {
		return "+" + FormatCurrency(v)
	}
	return FormatCurrency(v)
}

// FormatCompactCurrency formats an amount in thousands for chart axes.
// e.g., 12400 -> "₦12k"
func FormatCompactCurrency(v float64) string {
	return fmt.Sprintf("%s%.0fk", CurrencySymbol, v/1000)
}

// FormatRunway renders a runway estimate in days, or "N/A" when unknown.
func FormatRunway(days float64) string {
	if days <= 0 || math.IsNaN(days) || math.IsInf(days, 0) {
		return "N/A"
	}
	return fmt.Sprintf("%.1f days", days)
}

// Accepted transaction date layouts, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"02/01/2006",
}

// ParseDate parses a backend transaction date.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders a backend date as "Jan 2, 2006", or returns it
// unchanged when it cannot be parsed.
func FormatDate(s string) string {
	if t, ok := ParseDate(s); ok {
		return t.Format("Jan 2, 2006")
	}
	return s
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-100 share with one decimal.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// CleanText strips markup and control characters from backend-supplied text
// and collapses runs of whitespace.
func CleanText(s string) string {
	s = html.UnescapeString(strictPolicy.Sanitize(s))
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		if !unicode.IsPrint(r) {
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}
