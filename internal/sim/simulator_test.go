package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/sandsim/internal/dynamo"
	"github.com/san-kum/sandsim/internal/metrics"
	"github.com/san-kum/sandsim/internal/physics"
)

func newSolver(t *testing.T, seed int64) *physics.Solver {
	t.Helper()
	s, err := physics.New(physics.DefaultConfig(900, 900), dynamo.NewRand(seed))
	if err != nil {
		t.Fatalf("solver: %v", err)
	}
	return s
}

type frameCounter struct {
	frames int
	last   float64
}

func (f *frameCounter) OnFrame(w dynamo.World, t float64) {
	f.frames++
	f.last = t
}

func TestSimulatorRun(t *testing.T) {
	solver := newSolver(t, 1)
	solver.SpawnRegion(450, 200, dynamo.Sand, 4, 4)

	s := New(solver)
	s.AddMetric(metrics.NewParticleCount())
	obs := &frameCounter{}
	s.AddObserver(obs)

	result, err := s.Run(context.Background(), Config{FrameDt: 1.0 / 120.0, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.Frames != 120 {
		t.Errorf("expected 120 frames, got %d", result.Frames)
	}
	if len(result.Times) != 120 {
		t.Errorf("expected 120 samples, got %d", len(result.Times))
	}
	if math.Abs(result.Times[len(result.Times)-1]-1.0) > 1e-9 {
		t.Errorf("expected final time 1.0, got %f", result.Times[len(result.Times)-1])
	}
	if obs.frames != 120 {
		t.Errorf("observer saw %d frames", obs.frames)
	}
	if result.Metrics["particles"] != 16 {
		t.Errorf("expected 16 particles, got %f", result.Metrics["particles"])
	}
	if len(result.Series["particles"]) != len(result.Times) {
		t.Error("series and times should line up")
	}
	if result.Final.Particles != 16 {
		t.Errorf("expected final stats of 16 particles, got %d", result.Final.Particles)
	}
}

func TestSimulatorSampling(t *testing.T) {
	s := New(newSolver(t, 1))
	s.AddMetric(metrics.NewParticleCount())

	result, err := s.Run(context.Background(), Config{FrameDt: 1.0 / 120.0, Duration: 1.0, SampleEvery: 10})
	if err != nil {
		t.Fatal(err)
	}
	// frames 0, 10, ... 110 and the last one
	if len(result.Times) != 13 {
		t.Errorf("expected 13 samples, got %d", len(result.Times))
	}
}

func TestSimulatorClampsFrame(t *testing.T) {
	s := New(newSolver(t, 1))
	obs := &frameCounter{}
	s.AddObserver(obs)

	result, err := s.Run(context.Background(), Config{FrameDt: 0.1, MaxFrameDt: 0.03, Duration: 0.3})
	if err != nil {
		t.Fatal(err)
	}
	if result.Frames != 10 {
		t.Errorf("expected 10 clamped frames, got %d", result.Frames)
	}
	if math.Abs(obs.last-0.3) > 1e-9 {
		t.Errorf("expected to end at t=0.3, got %f", obs.last)
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	s := New(newSolver(t, 1))

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{FrameDt: 0, Duration: 1.0}},
		{"negative dt", Config{FrameDt: -0.1, Duration: 1.0}},
		{"nan dt", Config{FrameDt: math.NaN(), Duration: 1.0}},
		{"zero duration", Config{FrameDt: 0.1, Duration: 0}},
		{"negative clamp", Config{FrameDt: 0.1, Duration: 1.0, MaxFrameDt: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Run(context.Background(), tt.cfg)
			if !errors.Is(err, dynamo.ErrParameterBounds) {
				t.Errorf("expected ErrParameterBounds, got %v", err)
			}
		})
	}
}

func TestSimulatorCancel(t *testing.T) {
	s := New(newSolver(t, 1))
	s.AddMetric(metrics.NewParticleCount())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := s.Run(ctx, Config{FrameDt: 0.01, Duration: 1.0})
	if !errors.Is(err, dynamo.ErrContextCanceled) {
		t.Errorf("expected ErrContextCanceled, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled in chain, got %v", err)
	}
	if result == nil || result.Frames != 0 {
		t.Fatal("expected an empty partial result")
	}
	if _, ok := result.Metrics["particles"]; !ok {
		t.Error("partial result should still carry metrics")
	}
}

func TestSimulatorCallback(t *testing.T) {
	s := New(newSolver(t, 1))

	result, err := s.RunWithCallback(context.Background(), Config{FrameDt: 0.01, Duration: 1.0},
		func(solver *physics.Solver, frame int, _ float64) bool {
			if frame == 0 {
				solver.AddParticle(100, 100, dynamo.Water, false)
			}
			return frame < 5
		})
	if err != nil {
		t.Fatal(err)
	}
	if result.Frames != 5 {
		t.Errorf("expected callback to stop after 5 frames, got %d", result.Frames)
	}
	if result.Final.Particles != 1 {
		t.Errorf("expected the spawned particle, got %d", result.Final.Particles)
	}
}

func TestResultNames(t *testing.T) {
	s := New(newSolver(t, 1))
	s.AddMetric(metrics.NewParticleCount())
	s.AddMetric(metrics.NewSleepingCount())

	result, err := s.Run(context.Background(), Config{FrameDt: 0.01, Duration: 0.05})
	if err != nil {
		t.Fatal(err)
	}
	names := result.Names(s.Metrics())
	if len(names) != 2 || names[0] != "particles" || names[1] != "sleeping" {
		t.Errorf("unexpected names %v", names)
	}
}
