package server

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"net/url"

	"github.com/spendpilot/spendpilot/internal/cli"
	"github.com/spendpilot/spendpilot/internal/logger"
	"github.com/spendpilot/spendpilot/internal/model"
	"github.com/spendpilot/spendpilot/internal/pipeline"
	"github.com/spendpilot/spendpilot/internal/store"

	"github.com/dustin/go-humanize"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"landing", "upload", "dashboard"}

var templateFuncs = template.FuncMap{
	"currency": cli.FormatCurrency,
	"signed":   cli.FormatSignedCurrency,
	"runway":   cli.FormatRunway,
	"date":     cli.FormatDate,
	"percent":  cli.FormatPercent,
	"clean":    cli.CleanText,
	"number":   func(n int) string { return cli.FormatNumber(int64(n)) },
	"ago":      humanize.Time,
	"credit":   func(v float64) bool { return v > 0 },
	"inc":      func(i int) int { return i + 1 },
	"share":    share,
	"dailyMax": dailyMax,
	"clamp":    clampPercent,
}

func clampPercent(p float64) float64 {
	return min(max(p, 0), 100)
}

// share returns v as a percentage of top, clamped to 0..100.
func share(v, top float64) float64 {
	if top <= 0 {
		return 0
	}
	return min(max(v/top*100, 0), 100)
}

func dailyMax(days []model.DailySpend) float64 {
	var top float64
	for _, d := range days {
		top = max(top, d.Amount)
	}
	return top
}

// parsePages builds one template set per page, each sharing the layout.
func parsePages() map[string]*template.Template {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		pages[name] = template.Must(template.New("layout.html").
			Funcs(templateFuncs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html"))
	}
	return pages
}

// render executes the named page into a buffer so a template failure never
// sends a half-written body.
func (s *Service) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.pages[name].Execute(&buf, data); err != nil {
		logger.FromContext(r.Context()).Error("failed to render page", "page", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

type feature struct {
	Title string
	Body  string
}

type landingPage struct {
	HasResult bool
	Features  []feature
	Steps     []feature
}

var landingFeatures = []feature{
	{"Automatic categorization", "Every transaction on your statement is sorted into spending categories for you."},
	{"Financial runway", "See how many days your balance lasts at your current rate of spending."},
	{"Monthly trends", "Compare inflow and outflow month by month and watch your closing balance."},
	{"Stays on your machine", "Your latest analysis is kept in a local database and nowhere else."},
	{"PDF, JSON or text", "Upload the statement your bank already gives you."},
	{"Plain-language summary", "A short narrative of where your money went and what stood out."},
}

var landingSteps = []feature{
	{"Upload statement", "Choose a PDF, JSON or text bank statement."},
	{"Analysis", "The analysis service reads your transactions and categorizes them."},
	{"Get insights", "Open your dashboard for spending, trends and runway."},
}

type uploadPage struct {
	Session      model.UploadSession
	Notice       string
	Accepted     string
	AcceptAttr   string
	MaxMB        int64
	SuccessDelay int
}

type dashboardPage struct {
	Dash    *pipeline.Dashboard
	Info    store.Info
	Txns    []model.Transaction
	Total   int
	Sort    pipeline.SortConfig
	Columns []sortColumn
}

// sortColumn is one clickable transaction table header.
type sortColumn struct {
	Label     string
	Href      string
	Indicator string
	Numeric   bool
}

var columnLabels = map[pipeline.SortKey]string{
	pipeline.SortDate:        "Date",
	pipeline.SortDescription: "Description",
	pipeline.SortAmount:      "Amount",
	pipeline.SortBalance:     "Balance",
	pipeline.SortCategory:    "Category",
}

// sortColumns builds table headers whose links apply the next sort state.
func sortColumns(cur pipeline.SortConfig) []sortColumn {
	cols := make([]sortColumn, 0, len(pipeline.SortKeys))
	for _, key := range pipeline.SortKeys {
		next := cur.Toggle(key)
		q := url.Values{"sort": {string(next.Key)}}
		if next.Desc {
			q.Set("desc", "1")
		}

		col := sortColumn{
			Label:   columnLabels[key],
			Href:    dashboardPath + "?" + q.Encode() + "#transactions",
			Numeric: key == pipeline.SortAmount || key == pipeline.SortBalance,
		}
		if cur.Key == key {
			col.Indicator = "▲"
			if cur.Desc {
				col.Indicator = "▼"
			}
		}
		cols = append(cols, col)
	}
	return cols
}
