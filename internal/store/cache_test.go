package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/spendpilot/spendpilot/internal/model"
)

func sampleResult(runway float64) *model.AnalysisResult {
	return &model.AnalysisResult{
		Transactions: []model.Transaction{
			{Date: "2024-03-01", Description: "POS", Amount: -2500, Balance: 10000, Category: "Food"},
		},
		SpendingByCategory: model.SpendingByCategory{"Food": 2500},
		MonthlySummary:     []model.MonthlySummary{{Month: "2024-03", Inflow: 0, Outflow: 2500, ClosingBalance: 10000}},
		RunwayEstimate:     runway,
	}
}

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "nested", "spendpilot.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestCache_LoadEmpty(t *testing.T) {
	c := openTestCache(t)
	if _, err := c.Load(); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load() err = %v, want ErrNotFound", err)
	}
	if _, err := c.Info(); !errors.Is(err, ErrNotFound) {
		t.Errorf("Info() err = %v, want ErrNotFound", err)
	}
}

func TestCache_SaveLoadLastWriteWins(t *testing.T) {
	c := openTestCache(t)
	if err := c.Save(sampleResult(3), "jan.pdf"); err != nil {
		t.Fatal(err)
	}
	if err := c.Save(sampleResult(42), "feb.pdf"); err != nil {
		t.Fatal(err)
	}

	got, err := c.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.RunwayEstimate != 42 {
		t.Errorf("RunwayEstimate = %v, want 42 (last write)", got.RunwayEstimate)
	}
	if got.Transactions[0].Description != "POS" {
		t.Errorf("transactions not round-tripped: %+v", got.Transactions)
	}

	info, err := c.Info()
	if err != nil {
		t.Fatal(err)
	}
	if info.SourceName != "feb.pdf" || info.ContractVersion != model.ContractVersion || info.SavedAt.IsZero() {
		t.Errorf("Info = %+v", info)
	}
}

func TestCache_Clear(t *testing.T) {
	c := openTestCache(t)
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear on empty store: %v", err)
	}
	if err := c.Save(sampleResult(1), ""); err != nil {
		t.Fatal(err)
	}
	if err := c.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Load(); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load after Clear err = %v, want ErrNotFound", err)
	}
}

func TestCache_CorruptPayload(t *testing.T) {
	c := openTestCache(t)
	_, err := c.db.Exec(`INSERT INTO results (key, contract_version, payload, saved_at) VALUES (?, ?, ?, ?)`,
		ResultKey, model.ContractVersion, "{not json", "2024-01-01T00:00:00Z")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Load(); !errors.Is(err, ErrCorrupt) {
		t.Errorf("Load() err = %v, want ErrCorrupt", err)
	}
}

func TestCache_ContractMismatch(t *testing.T) {
	c := openTestCache(t)
	_, err := c.db.Exec(`INSERT INTO results (key, contract_version, payload, saved_at) VALUES (?, ?, ?, ?)`,
		ResultKey, 0, `{"summary":{},"stats":{}}`, "2024-01-01T00:00:00Z")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Load(); !errors.Is(err, ErrCorrupt) {
		t.Errorf("Load() err = %v, want ErrCorrupt", err)
	}
}
