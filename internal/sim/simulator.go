package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/sandsim/internal/dynamo"
	"github.com/san-kum/sandsim/internal/physics"
)

// FrameFunc runs before each frame. Returning false ends the run early.
type FrameFunc func(s *physics.Solver, frame int, t float64) bool

type Simulator struct {
	solver    *physics.Solver
	metrics   []dynamo.Metric
	observers []dynamo.Observer
}

func New(solver *physics.Solver) *Simulator {
	return &Simulator{
		solver:    solver,
		metrics:   make([]dynamo.Metric, 0),
		observers: make([]dynamo.Observer, 0),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }
func (s *Simulator) Metrics() []dynamo.Metric      { return s.metrics }
func (s *Simulator) Solver() *physics.Solver       { return s.solver }

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	return s.RunWithCallback(ctx, cfg, nil)
}

// RunWithCallback is Run with a hook that may mutate the solver before
// each frame, used by scripted scenarios.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, before FrameFunc) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	frames := cfg.frames()
	every := cfg.SampleEvery
	if every < 1 {
		every = 1
	}

	result := &Result{
		Times:   make([]float64, 0, frames/every+1),
		Series:  make(map[string][]float64, len(s.metrics)),
		Metrics: make(map[string]float64, len(s.metrics)),
	}
	for _, m := range s.metrics {
		m.Reset()
		result.Series[m.Name()] = make([]float64, 0, frames/every+1)
	}

	dt := cfg.step()
	t := 0.0

	for i := 0; i < frames; i++ {
		select {
		case <-ctx.Done():
			s.finish(result)
			return result, fmt.Errorf("%w at t=%.3f: %w", dynamo.ErrContextCanceled, t, ctx.Err())
		default:
		}

		if before != nil && !before(s.solver, i, t) {
			break
		}

		s.solver.Update(dt)
		t += dt
		result.Frames++

		for _, m := range s.metrics {
			m.Observe(s.solver, t)
		}
		for _, obs := range s.observers {
			obs.OnFrame(s.solver, t)
		}

		if i%every == 0 || i == frames-1 {
			result.Times = append(result.Times, t)
			for _, m := range s.metrics {
				result.Series[m.Name()] = append(result.Series[m.Name()], m.Value())
			}
		}
	}

	s.finish(result)
	return result, nil
}

func (s *Simulator) finish(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.Final = s.solver.Stats()
}
