package cmd

import (
	"path/filepath"
	"testing"

	"github.com/spendpilot/spendpilot/internal/model"
	"github.com/spendpilot/spendpilot/internal/pipeline"
	"github.com/spendpilot/spendpilot/internal/store"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"POS Purchase", 20, "POS Purchase"},
		{"Transfer to Adaeze Okafor", 10, "Transfer …"},
		{"₦₦₦₦", 4, "₦₦₦₦"},
		{"₦₦₦₦₦", 4, "₦₦₦…"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("SPENDPILOT_API_BASE_URL", "http://env.example:9000/")
	flagAPIURL, flagDB, flagLogLevel = "http://flag.example:7000/", "/tmp/override.db", "debug"
	t.Cleanup(func() { flagAPIURL, flagDB, flagLogLevel = "", "", "" })

	cfg := loadConfig()
	if cfg.BaseURL() != "http://flag.example:7000/" {
		t.Errorf("BaseURL = %q, flag should win over environment", cfg.BaseURL())
	}
	if cfg.StorePath() != "/tmp/override.db" {
		t.Errorf("StorePath = %q", cfg.StorePath())
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
}

func TestWithDashboard(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	flagDB = filepath.Join(t.TempDir(), "results.db")
	t.Cleanup(func() { flagDB = "" })

	called := false
	err := withDashboard(func(*pipeline.Dashboard, store.Info) error {
		called = true
		return nil
	})
	if err != nil || called {
		t.Fatalf("empty store: err=%v called=%v, want hint only", err, called)
	}

	b := store.OpenBridge(flagDB)
	res := &model.AnalysisResult{
		Transactions: []model.Transaction{
			{Date: "2024-03-01", Description: "Salary", Amount: 250000, Balance: 260000, Category: "Income"},
			{Date: "2024-03-02", Description: "Groceries", Amount: -12000, Balance: 248000, Category: "Food"},
		},
		SpendingByCategory: model.SpendingByCategory{"Food": 12000, "Income": 250000},
		RunwayEstimate:     42,
	}
	if err := b.Save(res, "march.pdf"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	_ = b.Close()

	err = withDashboard(func(dash *pipeline.Dashboard, info store.Info) error {
		called = true
		if dash.Stats.TotalDebit != 12000 {
			t.Errorf("TotalDebit = %v, want 12000", dash.Stats.TotalDebit)
		}
		if info.SourceName != "march.pdf" {
			t.Errorf("SourceName = %q, want march.pdf", info.SourceName)
		}
		return nil
	})
	if err != nil || !called {
		t.Fatalf("stored result: err=%v called=%v", err, called)
	}
}
