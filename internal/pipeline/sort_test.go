package pipeline

import (
	"testing"

	"github.com/spendpilot/spendpilot/internal/model"
)

func TestSortConfig_Toggle(t *testing.T) {
	var c SortConfig
	c = c.Toggle(SortAmount)
	if c != (SortConfig{Key: SortAmount}) {
		t.Fatalf("first toggle = %+v, want amount asc", c)
	}
	c = c.Toggle(SortAmount)
	if c != (SortConfig{Key: SortAmount, Desc: true}) {
		t.Fatalf("second toggle = %+v, want amount desc", c)
	}
	c = c.Toggle(SortAmount)
	if c != (SortConfig{Key: SortAmount}) {
		t.Fatalf("third toggle = %+v, want amount asc", c)
	}
	c = c.Toggle(SortDate)
	if c != (SortConfig{Key: SortDate}) {
		t.Fatalf("switching column = %+v, want date asc", c)
	}
}

func TestSortTransactions_AscDescReversed(t *testing.T) {
	txns := []model.Transaction{
		{Description: "b", Amount: -20},
		{Description: "a", Amount: 300},
		{Description: "c", Amount: -5},
		{Description: "d", Amount: 12},
	}
	cfg := SortConfig{}.Toggle(SortAmount)
	asc := SortTransactions(txns, cfg)
	desc := SortTransactions(txns, cfg.Toggle(SortAmount))

	for i := range asc {
		if asc[i] != desc[len(desc)-1-i] {
			t.Fatalf("desc is not the reverse of asc: %v vs %v", asc, desc)
		}
	}
	if asc[0].Amount != -20 || asc[3].Amount != 300 {
		t.Errorf("asc = %v", asc)
	}
	if txns[0].Description != "b" {
		t.Error("input was mutated")
	}
}

func TestSortTransactions_StableAndUnsorted(t *testing.T) {
	txns := []model.Transaction{
		{Description: "first", Category: "Food"},
		{Description: "second", Category: "Food"},
		{Description: "third", Category: "Bills"},
	}
	got := SortTransactions(txns, SortConfig{Key: SortCategory, Desc: true})
	if got[0].Description != "first" || got[1].Description != "second" {
		t.Errorf("equal keys reordered: %v", got)
	}
	if none := SortTransactions(txns, SortConfig{}); none[2].Description != "third" {
		t.Errorf("zero config should keep order: %v", none)
	}
}

func TestParseSortKey(t *testing.T) {
	for in, want := range map[string]SortKey{"": SortNone, "Amount": SortAmount, "desc": SortDescription, " balance ": SortBalance} {
		got, err := ParseSortKey(in)
		if err != nil || got != want {
			t.Errorf("ParseSortKey(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseSortKey("merchant"); err == nil {
		t.Error("expected error for unknown column")
	}
}
