package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spendpilot/spendpilot/internal/model"
)

// SortKey names a sortable transaction column.
type SortKey string

const (
	SortNone        SortKey = ""
	SortDate        SortKey = "date"
	SortDescription SortKey = "description"
	SortAmount      SortKey = "amount"
	SortBalance     SortKey = "balance"
	SortCategory    SortKey = "category"
)

// SortKeys lists the columns in table order.
var SortKeys = []SortKey{SortDate, SortDescription, SortAmount, SortBalance, SortCategory}

// ParseSortKey validates a user-supplied column name.
func ParseSortKey(s string) (SortKey, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SortNone, nil
	}
	if s == "desc" {
		s = string(SortDescription)
	}
	for _, k := range SortKeys {
		if string(k) == s {
			return k, nil
		}
	}
	return SortNone, fmt.Errorf("unknown sort column %q (want one of date, description, amount, balance, category)", s)
}

// SortConfig is the transaction table's sort state. The zero value keeps
// backend order.
type SortConfig struct {
	Key  SortKey
	Desc bool
}

// Toggle returns the state after the user selects key: the same key while
// ascending flips to descending, anything else sorts ascending by key.
func (c SortConfig) Toggle(key SortKey) SortConfig {
	if c.Key == key && !c.Desc {
		return SortConfig{Key: key, Desc: true}
	}
	return SortConfig{Key: key}
}

// Direction returns "asc" or "desc".
func (c SortConfig) Direction() string {
	if c.Desc {
		return "desc"
	}
	return "asc"
}

// SortTransactions returns a sorted copy of txns. Equal keys keep their
// relative order in both directions.
func SortTransactions(txns []model.Transaction, cfg SortConfig) []model.Transaction {
	out := make([]model.Transaction, len(txns))
	copy(out, txns)

	cmp := compareFunc(cfg.Key)
	if cmp == nil {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		c := cmp(out[i], out[j])
		if cfg.Desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

func compareFunc(key SortKey) func(a, b model.Transaction) int {
	switch key {
	case SortDate:
		return func(a, b model.Transaction) int { return strings.Compare(a.Date, b.Date) }
	case SortDescription:
		return func(a, b model.Transaction) int { return strings.Compare(a.Description, b.Description) }
	case SortAmount:
		return func(a, b model.Transaction) int { return compareFloat(a.Amount, b.Amount) }
	case SortBalance:
		return func(a, b model.Transaction) int { return compareFloat(a.Balance, b.Balance) }
	case SortCategory:
		return func(a, b model.Transaction) int { return strings.Compare(a.Category, b.Category) }
	}
	return nil
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
