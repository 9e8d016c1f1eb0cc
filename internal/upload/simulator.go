package upload

import (
	"context"
	"math/rand/v2"
	"time"
)

// Ceiling is the highest progress the simulator reports before the real
// response arrives.
const Ceiling = 90.0

const (
	defaultTick   = 120 * time.Millisecond
	defaultRotate = 2500 * time.Millisecond
	defaultJitter = 1.5
)

// Stage is one leg of the simulated progress curve.
type Stage struct {
	Target   float64
	Duration time.Duration
}

// DefaultStages front-load visible motion and slow down toward the ceiling,
// since backend analysis time dominates.
var DefaultStages = []Stage{
	{Target: 15, Duration: 2 * time.Second},
	{Target: 35, Duration: 6 * time.Second},
	{Target: 60, Duration: 15 * time.Second},
	{Target: 80, Duration: 30 * time.Second},
	{Target: Ceiling, Duration: 60 * time.Second},
}

// messagePool holds status lines keyed by progress bracket. bracketOf maps a
// progress value to an index.
var messagePool = [][]string{
	{"Uploading your statement...", "Securing your file...", "Sending to the analysis service..."},
	{"Reading transactions...", "Extracting statement lines...", "Matching dates and balances..."},
	{"Categorizing your spending...", "Spotting recurring payments...", "Grouping merchants..."},
	{"Calculating your runway...", "Summarizing monthly cash flow...", "Preparing your dashboard..."},
}

func bracketOf(p float64) int {
	switch {
	case p < 25:
		return 0
	case p < 50:
		return 1
	case p < 75:
		return 2
	}
	return 3
}

// Frame is one simulator update.
type Frame struct {
	Progress float64
	Message  string
}

// Simulator produces a monotonic, jittered progress curve with rotating status
// text. It is cosmetic only; a Simulator is used for one run.
type Simulator struct {
	Stages []Stage
	Tick   time.Duration
	Rotate time.Duration
	Jitter float64

	rng  *rand.Rand
	last float64
}

// NewSimulator returns a simulator with the default curve and a random seed.
func NewSimulator() *Simulator {
	return NewSeededSimulator(rand.Uint64())
}

// NewSeededSimulator returns a simulator whose jitter is reproducible.
func NewSeededSimulator(seed uint64) *Simulator {
	return &Simulator{
		Stages: DefaultStages,
		Tick:   defaultTick,
		Rotate: defaultRotate,
		Jitter: defaultJitter,
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Step returns the displayed progress after elapsed time. Successive calls
// never decrease and never exceed the current stage's target.
func (s *Simulator) Step(elapsed time.Duration) float64 {
	lo, target, frac := s.locate(elapsed)

	v := lo + (target-lo)*frac
	if s.Jitter > 0 && s.rng != nil {
		v += (s.rng.Float64()*2 - 1) * s.Jitter
	}
	v = min(max(v, s.last), target)
	s.last = v
	return v
}

// locate finds the stage containing elapsed and how far through it we are.
func (s *Simulator) locate(elapsed time.Duration) (from, target, frac float64) {
	var start time.Duration
	for _, st := range s.Stages {
		if elapsed < start+st.Duration {
			return from, st.Target, float64(elapsed-start) / float64(st.Duration)
		}
		start += st.Duration
		from = st.Target
	}
	return from, from, 1
}

// Message returns the status line for progress p at rotation step n.
func Message(p float64, n int) string {
	pool := messagePool[bracketOf(p)]
	return pool[n%len(pool)]
}

// Run emits frames until ctx is done. Progress advances every Tick; the
// status line rotates every Rotate independently of progress.
func (s *Simulator) Run(ctx context.Context, emit func(Frame)) {
	start := time.Now()
	tick := time.NewTicker(s.Tick)
	defer tick.Stop()
	rotate := time.NewTicker(s.Rotate)
	defer rotate.Stop()

	n := 0
	emit(Frame{Progress: s.last, Message: Message(s.last, n)})
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			p := s.Step(time.Since(start))
			emit(Frame{Progress: p, Message: Message(p, n)})
		case <-rotate.C:
			n++
			emit(Frame{Progress: s.last, Message: Message(s.last, n)})
		}
	}
}
