package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spendpilot/spendpilot/internal/apiclient"
	"github.com/spendpilot/spendpilot/internal/config"
	"github.com/spendpilot/spendpilot/internal/model"
	"github.com/spendpilot/spendpilot/internal/source"
	"github.com/spendpilot/spendpilot/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

type fakeBackend struct {
	result *model.AnalysisResult
	err    error
}

func (f *fakeBackend) UploadStatement(context.Context, *source.Statement) (*model.AnalysisResult, error) {
	return f.result, f.err
}

func (f *fakeBackend) Health(context.Context) (*apiclient.HealthStatus, error) {
	return &apiclient.HealthStatus{Status: "ok", Service: "spendpilot-api", Version: "1.0"}, nil
}

func (f *fakeBackend) BaseURL() string { return "http://backend.test" }

func sampleResult(n int) *model.AnalysisResult {
	r := &model.AnalysisResult{
		SpendingByCategory: model.SpendingByCategory{"Food": 0, "Transport": 0, "Income": 0},
		RunwayEstimate:     4.5,
	}
	balance := 500000.0
	for i := range n {
		amt := -float64(1000 + i*10)
		cat := "Food"
		if i%3 == 0 {
			cat = "Transport"
		}
		balance += amt
		r.Transactions = append(r.Transactions, model.Transaction{
			Date:        fmt.Sprintf("2024-05-%02d", i%28+1),
			Description: fmt.Sprintf("Purchase %d", i),
			Amount:      amt,
			Balance:     balance,
			Category:    cat,
		})
		r.SpendingByCategory[cat] += -amt
	}
	r.Transactions = append(r.Transactions, model.Transaction{
		Date: "2024-05-28", Description: "Salary", Amount: 300000, Balance: balance + 300000, Category: "Income",
	})
	r.SpendingByCategory["Income"] = 300000
	r.MonthlySummary = []model.MonthlySummary{{Month: "2024-05", Inflow: 300000, Outflow: -r.SpendingByCategory["Food"] - r.SpendingByCategory["Transport"], ClosingBalance: balance + 300000}}
	return r
}

func newTestApp(t *testing.T, results *store.Bridge, backend *fakeBackend) App {
	t.Helper()
	if backend == nil {
		backend = &fakeBackend{result: sampleResult(3)}
	}
	a := NewApp(Deps{
		Config:  config.DefaultConfig(),
		Backend: backend,
		Results: results,
		ScanDir: t.TempDir(),
	})
	t.Cleanup(a.stop)
	m, _ := a.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	return m.(App)
}

func press(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func step(t *testing.T, a App, msg tea.Msg) (App, tea.Cmd) {
	t.Helper()
	m, cmd := a.Update(msg)
	return m.(App), cmd
}

// withDashboard loads the stored result into a, as the startup load does.
func withDashboard(t *testing.T, a App) App {
	t.Helper()
	a, _ = step(t, a, loadDashboardCmd(a.results, false)())
	if a.screen != screenDashboard {
		t.Fatalf("expected dashboard screen, notice=%q", a.notice)
	}
	return a
}

func TestOpenDashboardWithoutResultShowsNotice(t *testing.T) {
	a := newTestApp(t, store.NewMemoryBridge(), nil)

	a, cmd := step(t, a, press("d"))
	if cmd == nil {
		t.Fatal("d should load the dashboard")
	}
	a, _ = step(t, a, cmd())

	if a.screen != screenUpload {
		t.Fatalf("screen = %v, want upload", a.screen)
	}
	if !strings.Contains(a.notice, "No analysis found") {
		t.Errorf("notice = %q", a.notice)
	}
	if !strings.Contains(a.View(), "No analysis found") {
		t.Error("notice should be rendered on the upload screen")
	}
}

func TestStartupWithoutResultIsQuiet(t *testing.T) {
	a := newTestApp(t, store.NewMemoryBridge(), nil)
	a, _ = step(t, a, loadDashboardCmd(a.results, false)())
	if a.screen != screenUpload || a.notice != "" {
		t.Errorf("startup with empty store: screen=%v notice=%q", a.screen, a.notice)
	}
}

func TestStartupLoadsStoredDashboard(t *testing.T) {
	b := store.NewMemoryBridge()
	if err := b.Save(sampleResult(5), "may.pdf"); err != nil {
		t.Fatal(err)
	}
	a := withDashboard(t, newTestApp(t, b, nil))
	if a.info.SourceName != "may.pdf" {
		t.Errorf("info source = %q", a.info.SourceName)
	}
	if v := a.View(); !strings.Contains(v, "Total Spent") || !strings.Contains(v, "may.pdf") {
		t.Errorf("overview missing metric cards or source name:\n%s", v)
	}
}

func TestSuccessPausesBeforeDashboard(t *testing.T) {
	b := store.NewMemoryBridge()
	if err := b.Save(sampleResult(3), "may.pdf"); err != nil {
		t.Fatal(err)
	}
	a := newTestApp(t, b, nil)

	a, cmd := step(t, a, sessionMsg{ID: "s1", State: model.StateSuccess, Progress: 100, Message: "Analysis complete"})
	if cmd == nil {
		t.Fatal("success should schedule the dashboard")
	}
	if a.screen != screenUpload || !strings.Contains(a.View(), "Analysis complete") {
		t.Fatal("success state should be shown before the dashboard")
	}

	if _, cmd := step(t, a, showDashboardMsg{sessionID: "stale"}); cmd != nil {
		t.Error("a stale success timer should be ignored")
	}

	a, cmd = step(t, a, showDashboardMsg{sessionID: "s1"})
	if cmd == nil {
		t.Fatal("expected dashboard load")
	}
	a, _ = step(t, a, cmd())
	if a.screen != screenDashboard {
		t.Errorf("screen = %v, want dashboard", a.screen)
	}
}

func TestSubmitFlowReachesSuccess(t *testing.T) {
	b := store.NewMemoryBridge()
	want := sampleResult(4)
	a := newTestApp(t, b, &fakeBackend{result: want})

	path := filepath.Join(t.TempDir(), "may.json")
	if err := os.WriteFile(path, []byte(`{"rows":[]}`), 0o600); err != nil {
		t.Fatal(err)
	}

	// Submission blocks until the attempt settles.
	done := a.submitPathCmd(path)()
	if msg, ok := done.(submitDoneMsg); !ok || msg.err != nil {
		t.Fatalf("submit returned %#v", done)
	}

	// Drain the observed snapshots in order.
	var states []model.UploadState
	for len(a.sub) > 0 {
		a, _ = step(t, a, <-a.sub)
		states = append(states, a.session.State)
	}
	if len(states) < 2 || states[0] != model.StateLoading || a.session.State != model.StateSuccess {
		t.Fatalf("observed states %v, final %v", states, a.session.State)
	}
	if a.session.Progress != 100 {
		t.Errorf("final progress = %v, want 100", a.session.Progress)
	}
	got, err := b.Load()
	if err != nil || len(got.Transactions) != len(want.Transactions) {
		t.Fatalf("stored result = %v, %v", got, err)
	}
}

func TestSubmitFailureShowsError(t *testing.T) {
	a := newTestApp(t, store.NewMemoryBridge(), &fakeBackend{err: &apiclient.APIError{Status: 422, Detail: "Could not read statement"}})

	path := filepath.Join(t.TempDir(), "bad.txt")
	if err := os.WriteFile(path, []byte("not a statement"), 0o600); err != nil {
		t.Fatal(err)
	}
	a.submitPathCmd(path)()
	for len(a.sub) > 0 {
		a, _ = step(t, a, <-a.sub)
	}

	if a.session.State != model.StateError {
		t.Fatalf("state = %v, want error", a.session.State)
	}
	v := a.View()
	if !strings.Contains(v, "Could not read statement") || !strings.Contains(v, "try again") {
		t.Errorf("error screen missing message or retry hint:\n%s", v)
	}
	if _, cmd := step(t, a, press("r")); cmd == nil {
		t.Error("r should retry")
	}
}

func TestMissingPathShowsNotice(t *testing.T) {
	a := newTestApp(t, store.NewMemoryBridge(), nil)
	msg := a.submitPathCmd(filepath.Join(t.TempDir(), "nope.pdf"))()
	a, _ = step(t, a, msg)
	if !strings.HasPrefix(a.notice, "File not found") {
		t.Errorf("notice = %q", a.notice)
	}
	if a.session.State != model.StateUpload {
		t.Errorf("state = %v, want upload", a.session.State)
	}
}

func TestLoadingEscCancels(t *testing.T) {
	a := newTestApp(t, store.NewMemoryBridge(), nil)
	a, _ = step(t, a, sessionMsg{ID: "s1", State: model.StateLoading, Progress: 42, FileName: "may.pdf", Message: "Reading your statement..."})

	v := a.View()
	if !strings.Contains(v, "may.pdf") || !strings.Contains(v, "42%") {
		t.Errorf("loading screen missing file or progress:\n%s", v)
	}
	if _, cmd := step(t, a, press("esc")); cmd == nil {
		t.Error("esc should cancel while loading")
	}
	if _, cmd := step(t, a, press("enter")); cmd != nil {
		t.Error("enter should be ignored while loading")
	}
}

func TestTransactionSortKeys(t *testing.T) {
	b := store.NewMemoryBridge()
	if err := b.Save(sampleResult(60), "may.pdf"); err != nil {
		t.Fatal(err)
	}
	a := withDashboard(t, newTestApp(t, b, nil))

	a, _ = step(t, a, press("t"))
	if a.activeTab != tabTransactions {
		t.Fatalf("activeTab = %d", a.activeTab)
	}
	if !strings.Contains(a.View(), "Showing first 50 of 61") {
		t.Error("expected the first-50 notice")
	}

	a, _ = step(t, a, press("3"))
	if a.txn.sort.Key != "amount" || a.txn.sort.Desc {
		t.Fatalf("after 3: %+v", a.txn.sort)
	}
	a, _ = step(t, a, press("3"))
	if a.txn.sort.Key != "amount" || !a.txn.sort.Desc {
		t.Fatalf("after 3 3: %+v", a.txn.sort)
	}
	a, _ = step(t, a, press("1"))
	if a.txn.sort.Key != "date" || a.txn.sort.Desc {
		t.Fatalf("after 1: %+v", a.txn.sort)
	}
	if !strings.Contains(a.View(), "date asc") {
		t.Error("footer should show the sort state")
	}
}

func TestUploadNewClearsStore(t *testing.T) {
	b := store.NewMemoryBridge()
	if err := b.Save(sampleResult(3), "may.pdf"); err != nil {
		t.Fatal(err)
	}
	a := withDashboard(t, newTestApp(t, b, nil))

	a, cmd := step(t, a, press("u"))
	if cmd == nil {
		t.Fatal("u should clear the store")
	}
	a, _ = step(t, a, cmd())
	if a.screen != screenUpload || a.dash != nil {
		t.Fatalf("screen = %v, dash = %v", a.screen, a.dash)
	}
	if _, err := b.Load(); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("store should be empty, got %v", err)
	}
}

func TestAllTabsRenderAtBothWidths(t *testing.T) {
	b := store.NewMemoryBridge()
	if err := b.Save(sampleResult(20), "may.pdf"); err != nil {
		t.Fatal(err)
	}
	for _, width := range []int{100, 160} {
		a := withDashboard(t, newTestApp(t, b, nil))
		a, _ = step(t, a, tea.WindowSizeMsg{Width: width, Height: 40})
		wantCompact := width < compactWidth
		if a.isCompactLayout() != wantCompact {
			t.Errorf("width %d: compact = %v", width, a.isCompactLayout())
		}
		for tab := range 5 {
			a.activeTab = tab
			v := a.View()
			if h := lipgloss.Height(v); h != 40 {
				t.Errorf("width %d tab %d: height %d, want 40", width, tab, h)
			}
			if w := lipgloss.Width(v); w != width {
				t.Errorf("width %d tab %d: rendered width %d", width, tab, w)
			}
		}
	}
}

func TestRunwayAlertShownWhenCritical(t *testing.T) {
	b := store.NewMemoryBridge()
	r := sampleResult(3) // runway 4.5 days
	if err := b.Save(r, "may.pdf"); err != nil {
		t.Fatal(err)
	}
	a := withDashboard(t, newTestApp(t, b, nil))
	if !strings.Contains(a.View(), "Cash runway critical") {
		t.Error("critical runway should show the alert")
	}

	r.RunwayEstimate = 45
	if err := b.Save(r, "may.pdf"); err != nil {
		t.Fatal(err)
	}
	a = withDashboard(t, newTestApp(t, b, nil))
	if strings.Contains(a.View(), "Cash runway critical") {
		t.Error("healthy runway should not show the alert")
	}
}

func TestTooNarrow(t *testing.T) {
	a := newTestApp(t, store.NewMemoryBridge(), nil)
	a, _ = step(t, a, tea.WindowSizeMsg{Width: 60, Height: 20})
	if !strings.Contains(a.View(), "too narrow") {
		t.Error("expected the narrow-terminal message")
	}
}
