// Package server provides the local web surface: the upload form, the
// rendered dashboard, and a JSON/SSE API over the live upload session.
package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/spendpilot/spendpilot/internal/config"
	"github.com/spendpilot/spendpilot/internal/logger"
	"github.com/spendpilot/spendpilot/internal/model"
	"github.com/spendpilot/spendpilot/internal/pipeline"
	"github.com/spendpilot/spendpilot/internal/store"
	"github.com/spendpilot/spendpilot/internal/upload"

	"golang.org/x/time/rate"
)

// DefaultAddr is the listen address when none is configured.
const DefaultAddr = "127.0.0.1:8787"

// launchWait bounds how long a POST waits for a background attempt to
// publish its first state before redirecting.
const launchWait = 2 * time.Second

// Config controls the server runtime behavior.
type Config struct {
	Addr         string
	Limits       config.UploadLimits
	EventsBuffer int
	// UploadEvery and UploadBurst shape the token bucket applied to upload
	// and retry POSTs.
	UploadEvery time.Duration
	UploadBurst int
}

// ResultStore is the persistence the server reads dashboards from and the
// machine saves into.
type ResultStore interface {
	upload.ResultSaver
	pipeline.ResultLoader
	Clear() error
	Info() (store.Info, error)
}

// Event is emitted whenever the upload session changes.
type Event struct {
	ID        int64               `json:"id"`
	Type      string              `json:"type"`
	Timestamp time.Time           `json:"timestamp"`
	Session   model.UploadSession `json:"session"`
}

// Event types.
const (
	EventSnapshot = "snapshot"
	EventState    = "state"
	EventProgress = "progress"
)

// Service owns one upload machine and serves it over HTTP.
type Service struct {
	cfg     Config
	machine *upload.Machine
	results ResultStore
	limiter *rate.Limiter
	pages   map[string]*template.Template

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu          sync.RWMutex
	startedAt   time.Time
	lastID      string
	lastState   model.UploadState
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a service uploading through client and storing into results.
// opts are passed to the upload machine.
func New(cfg Config, client upload.Analyzer, results ResultStore, opts ...upload.Option) *Service {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.UploadEvery <= 0 {
		cfg.UploadEvery = 100 * time.Millisecond
	}
	if cfg.UploadBurst < 1 {
		cfg.UploadBurst = 30
	}
	if cfg.Limits.MaxBytes <= 0 {
		cfg.Limits = config.DefaultConfig().Limits()
	}

	s := &Service{
		cfg:       cfg,
		results:   results,
		limiter:   rate.NewLimiter(rate.Every(cfg.UploadEvery), cfg.UploadBurst),
		pages:     parsePages(),
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	opts = append(opts, upload.WithObserver(s.observe))
	s.machine = upload.New(client, results, cfg.Limits, opts...)
	return s
}

// Addr returns the configured listen address.
func (s *Service) Addr() string { return s.cfg.Addr }

// Run serves HTTP until ctx is canceled, then shuts down and aborts any
// in-flight upload.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	logger.L.Info("server listening", "addr", s.cfg.Addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.Close()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		s.Close()
		return fmt.Errorf("http server: %w", err)
	}
}

// Close aborts any in-flight upload and waits for background work.
func (s *Service) Close() {
	s.cancel()
	s.wg.Wait()
}

// observe turns machine snapshots into events. The machine serializes
// observer calls, so IDs follow snapshot order.
func (s *Service) observe(sess model.UploadSession) {
	s.mu.Lock()
	typ := EventProgress
	if sess.ID != s.lastID || sess.State != s.lastState {
		typ = EventState
	}
	s.lastID = sess.ID
	s.lastState = sess.State
	s.nextEventID++
	ev := Event{
		ID:        s.nextEventID,
		Type:      typ,
		Timestamp: time.Now(),
		Session:   sess,
	}
	s.mu.Unlock()

	s.publishEvent(ev)
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

// eventsSince returns buffered events with IDs greater than id.
func (s *Service) eventsSince(id int64) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Event, 0, len(s.events))
	for _, ev := range s.events {
		if ev.ID > id {
			out = append(out, ev)
		}
	}
	return out
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}

// launch runs fn in the background against the service lifetime and waits
// until it publishes its first session change, so a redirect that follows
// shows the new state.
func (s *Service) launch(fn func(context.Context) (*model.AnalysisResult, error)) {
	ch := make(chan Event, 1)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if _, err := fn(s.ctx); err != nil && !errors.Is(err, upload.ErrCanceled) {
			logger.L.Debug("background upload ended", "error", err)
		}
	}()

	select {
	case <-ch:
	case <-time.After(launchWait):
	}
}
