package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/spendpilot/spendpilot/internal/config"
	"github.com/spendpilot/spendpilot/internal/logger"
	"github.com/spendpilot/spendpilot/internal/model"
	"github.com/spendpilot/spendpilot/internal/pipeline"
	"github.com/spendpilot/spendpilot/internal/source"
	"github.com/spendpilot/spendpilot/internal/store"
	"github.com/spendpilot/spendpilot/internal/upload"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	uploadPath    = "/upload-statement"
	dashboardPath = "/dashboard"

	// multipartOverhead is the allowance for multipart framing on top of the
	// file size limit.
	multipartOverhead = 1 << 20
	multipartMemory   = 32 << 20
)

// Handler returns the HTTP handler for all routes.
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/", s.handleLanding)
	r.Get("/healthz", s.handleHealth)

	r.Get(uploadPath, s.handleUploadPage)
	r.With(s.rateLimit).Post(uploadPath, s.handleUpload)
	r.With(s.rateLimit).Post(uploadPath+"/retry", s.handleRetry)
	r.Post(uploadPath+"/reset", s.handleReset)
	r.Post(uploadPath+"/cancel", s.handleCancel)

	r.Get(dashboardPath, s.handleDashboard)
	r.Post(dashboardPath+"/reset", s.handleDashboardReset)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/session", s.handleSession)
		r.Get("/result", s.handleResult)
		r.Get("/events", s.handleEvents)
		r.Get("/stream", s.handleStream)
	})
	return r
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleLanding(w http.ResponseWriter, r *http.Request) {
	_, err := s.results.Info()
	s.render(w, r, http.StatusOK, "landing", landingPage{
		HasResult: err == nil,
		Features:  landingFeatures,
		Steps:     landingSteps,
	})
}

func (s *Service) handleUploadPage(w http.ResponseWriter, r *http.Request) {
	s.renderUpload(w, r, http.StatusOK, "")
}

func (s *Service) renderUpload(w http.ResponseWriter, r *http.Request, status int, notice string) {
	limits := s.machine.Limits()
	s.render(w, r, status, "upload", uploadPage{
		Session:      s.machine.Snapshot(),
		Notice:       notice,
		Accepted:     upload.DescribeAccepted(limits.Accepted),
		AcceptAttr:   acceptAttr(limits),
		MaxMB:        limits.MaxMB(),
		SuccessDelay: int(upload.SuccessDelay.Round(time.Second) / time.Second),
	})
}

func (s *Service) handleUpload(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	limits := s.machine.Limits()

	if s.machine.Snapshot().State == model.StateLoading {
		s.reject(w, r, http.StatusConflict, "An upload is already in progress.")
		return
	}

	maxBody := limits.MaxBytes + multipartOverhead
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || r.ContentLength > maxBody {
			log.Warn("upload exceeds size limit", "limit", limits.MaxBytes)
			s.reject(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("File size must be less than %d MB", limits.MaxMB()))
			return
		}
		log.Warn("failed to parse multipart form", "error", err)
		s.reject(w, r, http.StatusBadRequest, "No file selected")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.reject(w, r, http.StatusBadRequest, "No file selected")
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, limits.MaxBytes+1))
	if err != nil {
		log.Error("failed to read uploaded file", "error", err)
		s.reject(w, r, http.StatusBadRequest, "Could not read the uploaded file")
		return
	}

	stmt := source.FromBytes(header.Filename, header.Header.Get("Content-Type"), data)
	log.Info("statement received", "file", stmt.Name, "size", stmt.Size, "type", stmt.ContentType)

	s.launch(func(ctx context.Context) (*model.AnalysisResult, error) {
		return s.machine.Submit(ctx, stmt)
	})
	s.respondSession(w, r, http.StatusAccepted)
}

func (s *Service) handleRetry(w http.ResponseWriter, r *http.Request) {
	if s.machine.Snapshot().State == model.StateLoading {
		s.reject(w, r, http.StatusConflict, "An upload is already in progress.")
		return
	}
	s.launch(s.machine.Retry)
	s.respondSession(w, r, http.StatusAccepted)
}

func (s *Service) handleReset(w http.ResponseWriter, r *http.Request) {
	s.machine.Reset()
	s.respondSession(w, r, http.StatusOK)
}

func (s *Service) handleCancel(w http.ResponseWriter, r *http.Request) {
	if !s.machine.Cancel() {
		logger.FromContext(r.Context()).Debug("cancel with nothing in flight")
	}
	s.respondSession(w, r, http.StatusOK)
}

func (s *Service) handleDashboard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	dash, err := pipeline.LoadDashboard(s.results)
	if errors.Is(err, pipeline.ErrNoResult) {
		http.Redirect(w, r, uploadPath, http.StatusSeeOther)
		return
	}
	if err != nil {
		log.Error("failed to load dashboard", "error", err)
		http.Error(w, "could not load the stored analysis", http.StatusInternalServerError)
		return
	}

	sortCfg := sortFromQuery(r)
	txns, total := dash.Transactions(sortCfg)
	info, _ := s.results.Info()

	s.render(w, r, http.StatusOK, "dashboard", dashboardPage{
		Dash:    dash,
		Info:    info,
		Txns:    txns,
		Total:   total,
		Sort:    sortCfg,
		Columns: sortColumns(sortCfg),
	})
}

func (s *Service) handleDashboardReset(w http.ResponseWriter, r *http.Request) {
	s.machine.Reset()
	if err := s.results.Clear(); err != nil {
		logger.FromContext(r.Context()).Error("failed to clear stored analysis", "error", err)
		http.Error(w, "could not clear the stored analysis", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, uploadPath, http.StatusSeeOther)
}

func (s *Service) handleSession(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.machine.Snapshot())
}

// resultResponse is served at /v1/result.
type resultResponse struct {
	Result     *model.AnalysisResult `json:"result"`
	Source     store.Info            `json:"source"`
	Stats      model.DashboardStats  `json:"stats"`
	Daily      []model.DailySpend    `json:"daily"`
	Categories []model.CategoryShare `json:"categories"`
	Monthly    []model.MonthlyPoint  `json:"monthly"`
	Top        model.CategoryShare   `json:"top_category"`
	Narrative  string                `json:"narrative"`
	Runway     runwayResponse        `json:"runway"`
}

type runwayResponse struct {
	Days     float64              `json:"days"`
	Severity model.RunwaySeverity `json:"severity"`
	Alert    bool                 `json:"alert"`
}

func (s *Service) handleResult(w http.ResponseWriter, r *http.Request) {
	dash, err := pipeline.LoadDashboard(s.results)
	if errors.Is(err, pipeline.ErrNoResult) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no analysis result stored"})
		return
	}
	if err != nil {
		logger.FromContext(r.Context()).Error("failed to load dashboard", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "could not load the stored analysis"})
		return
	}
	info, _ := s.results.Info()

	writeJSON(w, http.StatusOK, resultResponse{
		Result:     dash.Result,
		Source:     info,
		Stats:      dash.Stats,
		Daily:      dash.Daily,
		Categories: dash.Categories,
		Monthly:    dash.Monthly,
		Top:        dash.Top,
		Narrative:  dash.Narrative,
		Runway: runwayResponse{
			Days:     dash.Runway,
			Severity: dash.Severity,
			Alert:    dash.RunwayAlert,
		},
	})
}

func (s *Service) handleEvents(w http.ResponseWriter, r *http.Request) {
	var since int64
	if v := r.URL.Query().Get("since"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "since must be an event ID"})
			return
		}
		since = n
	}
	writeJSON(w, http.StatusOK, s.eventsSince(since))
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// A reconnecting client replays what it missed; a new one gets the
	// current session.
	if last, err := strconv.ParseInt(r.Header.Get("Last-Event-ID"), 10, 64); err == nil {
		for _, ev := range s.eventsSince(last) {
			writeSSE(w, ev)
		}
	} else {
		writeSSE(w, Event{
			Type:      EventSnapshot,
			Timestamp: time.Now(),
			Session:   s.machine.Snapshot(),
		})
	}
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-s.ctx.Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w io.Writer, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if ev.ID > 0 {
		_, _ = fmt.Fprintf(w, "id: %d\n", ev.ID)
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.L.Error("failed to encode JSON response", "error", err)
	}
}

// wantsJSON reports whether the client asked for a JSON reply rather than a
// page.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// respondSession answers a session-changing POST: API clients get the
// snapshot, browsers go back to the upload page.
func (s *Service) respondSession(w http.ResponseWriter, r *http.Request, status int) {
	if wantsJSON(r) {
		writeJSON(w, status, s.machine.Snapshot())
		return
	}
	http.Redirect(w, r, uploadPath, http.StatusSeeOther)
}

// reject answers a POST the machine never saw.
func (s *Service) reject(w http.ResponseWriter, r *http.Request, status int, msg string) {
	if wantsJSON(r) {
		writeJSON(w, status, errorResponse{Error: msg})
		return
	}
	s.renderUpload(w, r, status, msg)
}

// acceptAttr builds the file input's accept list from extensions and types.
func acceptAttr(l config.UploadLimits) string {
	parts := make([]string, 0, 2*len(l.Accepted))
	parts = append(parts, l.Accepted...)
	parts = append(parts, l.AcceptedTypes()...)
	return strings.Join(parts, ",")
}

func sortFromQuery(r *http.Request) pipeline.SortConfig {
	q := r.URL.Query()
	key, err := pipeline.ParseSortKey(q.Get("sort"))
	if err != nil {
		logger.FromContext(r.Context()).Debug("ignoring sort parameter", "error", err)
		return pipeline.SortConfig{}
	}
	return pipeline.SortConfig{Key: key, Desc: key != pipeline.SortNone && q.Get("desc") == "1"}
}
