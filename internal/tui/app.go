// Package tui provides the interactive Bubble Tea flow for SpendPilot:
// pick a statement, watch the analysis, then explore the dashboard.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spendpilot/spendpilot/internal/apiclient"
	"github.com/spendpilot/spendpilot/internal/cli"
	"github.com/spendpilot/spendpilot/internal/config"
	"github.com/spendpilot/spendpilot/internal/logger"
	"github.com/spendpilot/spendpilot/internal/model"
	"github.com/spendpilot/spendpilot/internal/pipeline"
	"github.com/spendpilot/spendpilot/internal/source"
	"github.com/spendpilot/spendpilot/internal/store"
	"github.com/spendpilot/spendpilot/internal/tui/components"
	"github.com/spendpilot/spendpilot/internal/tui/theme"
	"github.com/spendpilot/spendpilot/internal/upload"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Backend is the analysis service the app talks to.
type Backend interface {
	upload.Analyzer
	Health(ctx context.Context) (*apiclient.HealthStatus, error)
	BaseURL() string
}

// ResultStore is where analyses are kept between the upload flow and the
// dashboard.
type ResultStore interface {
	upload.ResultSaver
	pipeline.ResultLoader
	Clear() error
	Info() (store.Info, error)
}

// Deps wires the app to its collaborators.
type Deps struct {
	Config  config.Config
	Backend Backend
	Results ResultStore
	// ScanDir is listed on the upload screen. Empty means the working
	// directory.
	ScanDir string
	// File, when set, is analyzed as soon as the app starts.
	File string
	// Simulator overrides the progress simulator (tests).
	Simulator func() *upload.Simulator
	// NeedSetup shows the first-run form before anything else.
	NeedSetup bool
}

type screen int

const (
	screenUpload screen = iota
	screenDashboard
)

const (
	tabOverview = iota
	tabTransactions
	tabCategories
	tabMonthly
	tabSettings
)

// sessionMsg carries an upload session snapshot from the machine.
type sessionMsg model.UploadSession

// submitDoneMsg is sent when a submission or retry returns.
type submitDoneMsg struct{ err error }

// showDashboardMsg fires after the success pause for the given session.
type showDashboardMsg struct{ sessionID string }

type dashboardLoadedMsg struct {
	dash *pipeline.Dashboard
	info store.Info
	err  error
	// explicit is set when the user asked for the dashboard, so an empty
	// store produces a notice.
	explicit bool
}

type filesScannedMsg struct {
	files []*source.Statement
	err   error
}

type clearedMsg struct{ err error }

// pathErrMsg reports a statement path that could not be opened.
type pathErrMsg struct {
	path string
	err  error
}

type healthMsg struct {
	status *apiclient.HealthStatus
	err    error
}

// App is the root Bubble Tea model.
type App struct {
	cfg     config.Config
	backend Backend
	results ResultStore
	machine *upload.Machine
	scanDir string
	initial string

	// ctx is canceled on quit; it aborts an in-flight upload and releases
	// the observer.
	ctx  context.Context
	stop context.CancelFunc
	sub  chan tea.Msg

	// Upload flow
	screen  screen
	session model.UploadSession
	files   []*source.Statement
	cursor  int
	path    textinput.Model
	typing  bool
	notice  string
	spinner spinner.Model
	bar     progress.Model

	// Dashboard
	dash     *pipeline.Dashboard
	info     store.Info
	txn      transactionsState
	settings settingsState

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals setupValues
	needSetup bool
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180

	minContentHeight = 5
	uploadBarWidth   = 44
)

// loadConfigOrDefault loads config, returning defaults on error so the TUI
// can always start.
func loadConfigOrDefault() config.Config {
	cfg, err := config.Load()
	if err != nil {
		logger.L.Warn("config unreadable, using defaults", "error", err)
		return config.DefaultConfig()
	}
	return cfg
}

// NewApp creates a new TUI app model.
func NewApp(d Deps) App {
	ctx, stop := context.WithCancel(context.Background())
	sub := make(chan tea.Msg, 64)

	// The machine delivers snapshots in order; forwarding them through one
	// channel keeps that order for Update.
	observe := func(s model.UploadSession) {
		select {
		case sub <- sessionMsg(s):
		case <-ctx.Done():
		}
	}
	opts := []upload.Option{upload.WithObserver(observe)}
	if d.Simulator != nil {
		opts = append(opts, upload.WithSimulator(d.Simulator))
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	scanDir := d.ScanDir
	if scanDir == "" {
		scanDir = "."
	}

	a := App{
		cfg:       d.Config,
		backend:   d.Backend,
		results:   d.Results,
		machine:   upload.New(d.Backend, d.Results, d.Config.Limits(), opts...),
		scanDir:   scanDir,
		initial:   d.File,
		ctx:       ctx,
		stop:      stop,
		sub:       sub,
		path:      newPathInput(),
		spinner:   sp,
		bar:       components.NewUploadBar(uploadBarWidth),
		settings:  newSettingsState(),
		needSetup: d.NeedSetup,
	}
	a.session = a.machine.Snapshot()
	if a.needSetup {
		a.setupForm, a.setupVals = newSetupForm(d.Config)
	}
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnableMouseCellMotion,
		waitForSession(a.sub),
		a.spinner.Tick,
		scanFilesCmd(a.scanDir),
	}
	if a.setupForm != nil {
		cmds = append(cmds, a.setupForm.Init())
	}
	if a.initial != "" {
		cmds = append(cmds, a.submitPathCmd(a.initial))
	} else {
		cmds = append(cmds, loadDashboardCmd(a.results, false))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case sessionMsg:
		return a.applySession(model.UploadSession(msg))

	case submitDoneMsg:
		if msg.err != nil && !errors.Is(msg.err, upload.ErrCanceled) {
			logger.L.Debug("submission settled with error", "error", msg.err)
		}
		return a, nil

	case showDashboardMsg:
		if a.session.ID != msg.sessionID || a.session.State != model.StateSuccess {
			return a, nil
		}
		return a, loadDashboardCmd(a.results, true)

	case dashboardLoadedMsg:
		return a.applyDashboard(msg)

	case filesScannedMsg:
		if msg.err != nil {
			a.notice = "Could not list statements: " + msg.err.Error()
			return a, nil
		}
		a.files = msg.files
		a.cursor = min(a.cursor, max(len(a.files)-1, 0))
		return a, nil

	case clearedMsg:
		if msg.err != nil {
			a.notice = "Could not clear the saved analysis: " + msg.err.Error()
		}
		return a.enterUpload(), tea.Batch(scanFilesCmd(a.scanDir), machineCmd(a.machine.Reset))

	case pathErrMsg:
		if errors.Is(msg.err, fs.ErrNotExist) {
			a.notice = "File not found: " + msg.path
		} else {
			a.notice = fmt.Sprintf("Cannot open %s: %v", msg.path, msg.err)
		}
		return a, nil

	case healthMsg:
		a.settings.health = &msg
		a.settings.checking = false
		return a, nil

	case tea.MouseMsg:
		return a.updateMouse(msg)

	case tea.KeyMsg:
		return a.updateKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	// Forward remaining messages (cursor blink, form internals).
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.typing {
		var cmd tea.Cmd
		a.path, cmd = a.path.Update(msg)
		return a, cmd
	}
	if a.settings.editing {
		var cmd tea.Cmd
		a.settings.input, cmd = a.settings.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

// applySession adopts a machine snapshot. Snapshot order is preserved by
// the channel, so the latest message always wins.
func (a App) applySession(s model.UploadSession) (tea.Model, tea.Cmd) {
	a.session = s
	cmds := []tea.Cmd{waitForSession(a.sub)}
	switch s.State {
	case model.StateSuccess:
		id := s.ID
		cmds = append(cmds, tea.Tick(upload.SuccessDelay, func(time.Time) tea.Msg {
			return showDashboardMsg{sessionID: id}
		}))
	case model.StateLoading:
		a.notice = ""
	}
	return a, tea.Batch(cmds...)
}

func (a App) applyDashboard(msg dashboardLoadedMsg) (tea.Model, tea.Cmd) {
	if !msg.explicit && a.session.State != model.StateUpload {
		// The startup load lost the race with a submission.
		return a, nil
	}
	switch {
	case errors.Is(msg.err, pipeline.ErrNoResult):
		if msg.explicit {
			a.notice = "No analysis found. Upload a statement to see your dashboard."
		}
		a.screen = screenUpload
		return a, nil
	case msg.err != nil:
		logger.L.Warn("dashboard load failed", "error", msg.err)
		a.notice = "Could not load the saved analysis: " + msg.err.Error()
		a.screen = screenUpload
		return a, nil
	}
	a.dash = msg.dash
	a.info = msg.info
	a.txn = transactionsState{}
	a.screen = screenDashboard
	a.activeTab = tabOverview
	a.notice = ""
	return a, nil
}

// enterUpload returns the app to a fresh upload screen.
func (a App) enterUpload() App {
	a.screen = screenUpload
	a.dash = nil
	a.typing = false
	a.path.Blur()
	a.path.SetValue("")
	return a
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a.quit()
	}

	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	if a.typing {
		return a.updatePathInput(msg)
	}
	if a.screen == screenDashboard && a.activeTab == tabSettings && a.settings.editing {
		return a.updateSettingsInput(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	if a.screen == screenUpload {
		return a.updateUploadKey(key)
	}
	return a.updateDashboardKey(key)
}

func (a App) updateDashboardKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q":
		return a.quit()
	case "u":
		return a, clearResultCmd(a.results)
	case "left", "h":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "right", "l", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	}

	if len(key) == 1 {
		if idx := components.TabIdxByKey(rune(key[0])); idx >= 0 {
			a.activeTab = idx
			return a, nil
		}
	}

	switch a.activeTab {
	case tabTransactions:
		return a.updateTransactionsKey(key)
	case tabSettings:
		return a.updateSettingsKey(key)
	}
	return a, nil
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if a.screen != screenDashboard || a.showHelp || a.needSetup {
		return a, nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if a.activeTab == tabTransactions {
			return a.updateTransactionsKey("k")
		}
	case tea.MouseButtonWheelDown:
		if a.activeTab == tabTransactions {
			return a.updateTransactionsKey("j")
		}
	case tea.MouseButtonLeft:
		if msg.Action == tea.MouseActionRelease && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
	}
	return a, nil
}

func (a App) quit() (tea.Model, tea.Cmd) {
	a.stop()
	return a, tea.Quit
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		if err := a.saveSetupConfig(); err != nil {
			a.notice = "Could not save settings: " + err.Error()
		}
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}
	return a, cmd
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	if a.screen == screenUpload {
		return a.viewUpload()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  spendpilot needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Highlight).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Upload", []struct{ key, desc string }{
			{"j k", "Choose a statement"},
			{"Enter", "Analyze selected statement"},
			{"/", "Type a file path"},
			{"Esc", "Cancel analysis"},
			{"r", "Retry after an error"},
			{"n", "Pick a new file"},
			{"d", "Open the saved dashboard"},
		}},
		{"Dashboard", []struct{ key, desc string }{
			{"o t c m x", "Jump to tab"},
			{"← →", "Previous / Next tab"},
			{"1-5", "Sort transactions by column"},
			{"j k", "Scroll transactions"},
			{"u", "Upload new statement"},
		}},
		{"General", []struct{ key, desc string }{
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, sec := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)

	info := ""
	if a.dash != nil {
		info = cli.FormatNumber(int64(len(a.dash.Result.Transactions))) + " transactions"
	}
	if a.info.SourceName != "" {
		info = a.info.SourceName + " · " + info
	}
	if a.info.Backend == "memory" {
		info += " · not saved to disk"
	}
	statusBar := components.RenderStatusBar(w, a.statusHints(), info)

	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case tabOverview:
		content = a.renderOverviewTab(cw)
	case tabTransactions:
		content = a.renderTransactionsTab(cw, contentH)
	case tabCategories:
		content = a.renderCategoriesTab(cw)
	case tabMonthly:
		content = a.renderMonthlyTab(cw)
	case tabSettings:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) statusHints() string {
	switch a.activeTab {
	case tabTransactions:
		return "[1-5]sort  [j/k]scroll  [u]pload new  [?]help  [q]uit"
	case tabSettings:
		return "[j/k]select  [Enter]edit  [H]ealth check  [?]help  [q]uit"
	}
	return "[u]pload new  [?]help  [q]uit"
}

// ─── Commands ───────────────────────────────────────────────────

func waitForSession(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

func scanFilesCmd(dir string) tea.Cmd {
	return func() tea.Msg {
		files, err := source.ScanDir(dir)
		return filesScannedMsg{files: files, err: err}
	}
}

func loadDashboardCmd(results ResultStore, explicit bool) tea.Cmd {
	return func() tea.Msg {
		d, err := pipeline.LoadDashboard(results)
		msg := dashboardLoadedMsg{dash: d, err: err, explicit: explicit}
		if err == nil {
			msg.info, _ = results.Info()
		}
		return msg
	}
}

func clearResultCmd(results ResultStore) tea.Cmd {
	return func() tea.Msg {
		return clearedMsg{err: results.Clear()}
	}
}

func healthCmd(b Backend) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		st, err := b.Health(ctx)
		return healthMsg{status: st, err: err}
	}
}

// submitCmd runs a submission off the event loop. State changes arrive
// separately as sessionMsg.
func (a App) submitCmd(stmt *source.Statement) tea.Cmd {
	m, ctx := a.machine, a.ctx
	return func() tea.Msg {
		_, err := m.Submit(ctx, stmt)
		return submitDoneMsg{err: err}
	}
}

// submitPathCmd builds a statement from path and submits it.
func (a App) submitPathCmd(path string) tea.Cmd {
	m, ctx := a.machine, a.ctx
	return func() tea.Msg {
		stmt, err := source.FromPath(path)
		if err != nil {
			logger.L.Info("statement unreadable", "path", path, "error", err)
			return pathErrMsg{path: path, err: err}
		}
		_, err = m.Submit(ctx, stmt)
		return submitDoneMsg{err: err}
	}
}

func (a App) retryCmd() tea.Cmd {
	m, ctx := a.machine, a.ctx
	return func() tea.Msg {
		_, err := m.Retry(ctx)
		return submitDoneMsg{err: err}
	}
}

// machineCmd runs fn off the event loop so the observer can always deliver.
func machineCmd(fn func()) tea.Cmd {
	return func() tea.Msg {
		fn()
		return nil
	}
}

// ─── Helpers ────────────────────────────────────────────────────

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 1 // separator
	}
	return -1
}
