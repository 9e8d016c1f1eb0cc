package upload

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestSimulator_MonotonicAndBounded(t *testing.T) {
	s := NewSeededSimulator(42)
	prev := 0.0
	for ms := 0; ms <= 200_000; ms += 120 {
		elapsed := time.Duration(ms) * time.Millisecond
		_, target, _ := s.locate(elapsed)
		p := s.Step(elapsed)
		if p < prev {
			t.Fatalf("progress went backwards at %v: %.2f < %.2f", elapsed, p, prev)
		}
		if p > target {
			t.Fatalf("progress %.2f exceeds stage target %.2f at %v", p, target, elapsed)
		}
		if p > Ceiling {
			t.Fatalf("progress %.2f exceeds ceiling", p)
		}
		prev = p
	}
	if prev < Ceiling-1e-9 {
		t.Errorf("final progress = %.2f, want ceiling %.0f after all stages", prev, Ceiling)
	}
}

func TestSimulator_StagesInOrder(t *testing.T) {
	s := &Simulator{Stages: []Stage{{Target: 50, Duration: time.Second}, {Target: 90, Duration: time.Second}}}
	tests := []struct {
		elapsed time.Duration
		want    float64
	}{
		{0, 0},
		{500 * time.Millisecond, 25},
		{time.Second, 50},
		{1500 * time.Millisecond, 70},
		{5 * time.Second, 90},
	}
	for _, tt := range tests {
		if got := s.Step(tt.elapsed); got != tt.want {
			t.Errorf("Step(%v) = %.2f, want %.2f", tt.elapsed, got, tt.want)
		}
	}
}

func TestMessage_Brackets(t *testing.T) {
	if Message(0, 0) != messagePool[0][0] {
		t.Errorf("Message(0,0) = %q", Message(0, 0))
	}
	if Message(10, 1) != messagePool[0][1] {
		t.Errorf("rotation did not advance within bracket")
	}
	if Message(89, 0) != messagePool[3][0] {
		t.Errorf("Message(89,0) = %q, want last bracket", Message(89, 0))
	}
	n := len(messagePool[1])
	if Message(40, n) != Message(40, 0) {
		t.Errorf("rotation should wrap around the pool")
	}
}

func TestSimulator_RunStopsOnCancel(t *testing.T) {
	s := NewSeededSimulator(1)
	s.Tick = time.Millisecond
	s.Rotate = 3 * time.Millisecond

	var mu sync.Mutex
	var frames []Frame
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, func(f Frame) {
			mu.Lock()
			frames = append(frames, f)
			mu.Unlock()
		})
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(frames) < 2 {
		t.Fatalf("got %d frames, want several", len(frames))
	}
	for i := 1; i < len(frames); i++ {
		if frames[i].Progress < frames[i-1].Progress {
			t.Fatalf("frame %d regressed: %.2f < %.2f", i, frames[i].Progress, frames[i-1].Progress)
		}
	}
}
