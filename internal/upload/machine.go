package upload

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spendpilot/spendpilot/internal/config"
	"github.com/spendpilot/spendpilot/internal/logger"
	"github.com/spendpilot/spendpilot/internal/model"
	"github.com/spendpilot/spendpilot/internal/source"
)

// SuccessDelay is how long callers show the success state before moving on
// to the dashboard.
const SuccessDelay = 1500 * time.Millisecond

var (
	// ErrBusy is returned when a submission is already in flight.
	ErrBusy = errors.New("upload: an upload is already in progress")
	// ErrCanceled is returned by Submit when the session was canceled or
	// reset before the backend answered.
	ErrCanceled = errors.New("upload: canceled")
)

// Analyzer sends a statement to the analysis backend.
type Analyzer interface {
	UploadStatement(ctx context.Context, stmt *source.Statement) (*model.AnalysisResult, error)
}

// ResultSaver persists a successful analysis.
type ResultSaver interface {
	Save(r *model.AnalysisResult, sourceName string) error
}

// Option configures a Machine.
type Option func(*Machine)

// WithObserver registers fn to receive a snapshot on every state or progress
// change. Observers are never called with the machine locked, and never
// receive an older snapshot after a newer one. fn must not call back into
// the machine synchronously.
func WithObserver(fn func(model.UploadSession)) Option {
	return func(m *Machine) { m.observers = append(m.observers, fn) }
}

// WithSimulator overrides how progress simulators are built.
func WithSimulator(fn func() *Simulator) Option {
	return func(m *Machine) { m.newSim = fn }
}

// Machine is the upload state machine:
//
//	upload -> loading -> success
//	loading -> error -> upload (Reset) | loading (Retry)
//	loading -> upload (Cancel)
type Machine struct {
	client Analyzer
	store  ResultSaver
	limits config.UploadLimits
	newSim func() *Simulator

	mu      sync.Mutex
	session model.UploadSession
	gen     uint64 // bumped whenever the current attempt is superseded
	cancel  context.CancelFunc
	seq     uint64

	notifyMu  sync.Mutex
	delivered uint64
	observers []func(model.UploadSession)
}

// New returns a machine in the upload state.
func New(client Analyzer, store ResultSaver, limits config.UploadLimits, opts ...Option) *Machine {
	m := &Machine{
		client: client,
		store:  store,
		limits: limits,
		newSim: NewSimulator,
	}
	for _, o := range opts {
		o(m)
	}
	m.session = model.UploadSession{ID: uuid.NewString(), State: model.StateUpload}
	return m
}

// Snapshot returns a copy of the current session.
func (m *Machine) Snapshot() model.UploadSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// Limits returns the validation limits in force.
func (m *Machine) Limits() config.UploadLimits { return m.limits }

// Submit validates stmt and, if it passes, uploads it and blocks until the
// attempt settles. On success the result is stored before the session
// enters the success state.
func (m *Machine) Submit(ctx context.Context, stmt *source.Statement) (*model.AnalysisResult, error) {
	m.mu.Lock()
	if m.session.State == model.StateLoading {
		m.mu.Unlock()
		return nil, ErrBusy
	}

	if err := Validate(stmt, m.limits); err != nil {
		m.gen++
		m.session = model.UploadSession{
			ID:    uuid.NewString(),
			State: model.StateError,
			Error: Classify(err),
		}
		m.publishLocked()
		return nil, err
	}

	m.gen++
	gen := m.gen
	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.session = model.UploadSession{
		ID:        uuid.NewString(),
		State:     model.StateLoading,
		File:      stmt,
		FileName:  stmt.Name,
		Message:   Message(0, 0),
		StartedAt: time.Now(),
	}
	log := logger.FromContext(ctx).With("session", m.session.ID, "file", stmt.Name)
	m.publishLocked()
	defer cancel()

	log.Info("upload started", "size", stmt.Size, "content_type", stmt.ContentType)

	// The simulator and the request run concurrently. Whichever way the
	// request settles, the simulator is stopped and joined before the final
	// state is published.
	simCtx, stopSim := context.WithCancel(runCtx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		m.newSim().Run(simCtx, func(f Frame) { m.progress(gen, f) })
	}()

	res, err := m.client.UploadStatement(runCtx, stmt)
	stopSim()
	wg.Wait()

	m.mu.Lock()
	if m.gen != gen {
		m.mu.Unlock()
		log.Info("discarding response for superseded upload")
		return nil, ErrCanceled
	}
	m.cancel = nil

	if err == nil && res == nil {
		err = errors.New("upload: empty analysis response")
	}
	if err != nil && ctx.Err() != nil && errors.Is(err, context.Canceled) {
		m.gen++
		m.session = model.UploadSession{ID: uuid.NewString(), State: model.StateUpload}
		m.publishLocked()
		return nil, ErrCanceled
	}
	if err == nil {
		if serr := m.store.Save(res, stmt.Name); serr != nil {
			err = serr
		}
	}
	if err != nil {
		m.session.State = model.StateError
		m.session.Error = Classify(err)
		m.session.Message = ""
		m.publishLocked()
		log.Warn("upload failed", "error", err)
		return nil, err
	}

	m.session.Progress = 100
	m.session.Message = "Analysis complete"
	m.session.State = model.StateSuccess
	m.publishLocked()
	log.Info("upload succeeded", "transactions", len(res.Transactions))
	return res, nil
}

// Retry re-submits the held file. Without one it behaves as Reset.
func (m *Machine) Retry(ctx context.Context) (*model.AnalysisResult, error) {
	m.mu.Lock()
	if m.session.State == model.StateLoading {
		m.mu.Unlock()
		return nil, ErrBusy
	}
	stmt := m.session.File
	m.mu.Unlock()

	if stmt == nil {
		m.Reset()
		return nil, nil
	}
	return m.Submit(ctx, stmt)
}

// Reset aborts any in-flight request and returns to the upload state with
// no file, error or progress.
func (m *Machine) Reset() {
	m.mu.Lock()
	m.abortLocked()
	m.session = model.UploadSession{ID: uuid.NewString(), State: model.StateUpload}
	m.publishLocked()
}

// Cancel aborts the in-flight request and returns to the upload state. It
// reports false when nothing was loading.
func (m *Machine) Cancel() bool {
	m.mu.Lock()
	if m.session.State != model.StateLoading {
		m.mu.Unlock()
		return false
	}
	m.abortLocked()
	m.session = model.UploadSession{ID: uuid.NewString(), State: model.StateUpload}
	m.publishLocked()
	return true
}

func (m *Machine) abortLocked() {
	m.gen++
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// progress applies a simulator frame if it belongs to the live attempt.
func (m *Machine) progress(gen uint64, f Frame) {
	m.mu.Lock()
	if gen != m.gen || m.session.State != model.StateLoading {
		m.mu.Unlock()
		return
	}
	if f.Progress > m.session.Progress {
		m.session.Progress = min(f.Progress, Ceiling)
	}
	m.session.Message = f.Message
	m.publishLocked()
}

// publishLocked snapshots the session, releases m.mu and notifies observers.
func (m *Machine) publishLocked() {
	m.seq++
	seq := m.seq
	snap := m.session
	m.mu.Unlock()

	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()
	if seq <= m.delivered {
		return
	}
	m.delivered = seq
	for _, fn := range m.observers {
		fn(snap)
	}
}
