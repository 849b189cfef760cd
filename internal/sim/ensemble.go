package sim

import (
	"context"
	"sync"

	"github.com/san-kum/sandsim/internal/dynamo"
	"github.com/san-kum/sandsim/internal/physics"
)

// SolverFactory builds an independent world for one trial.
type SolverFactory func(seed int64) (*physics.Solver, error)

// MetricFactory returns fresh metric instances; metrics carry state and
// cannot be shared across concurrent trials.
type MetricFactory func() []dynamo.Metric

// Ensemble runs the same scene under consecutive seeds in parallel.
// Each trial owns its solver, so no state is shared.
type Ensemble struct {
	build     SolverFactory
	metrics   MetricFactory
	numRuns   int
	seedStart int64
	workers   int
}

func NewEnsemble(build SolverFactory, metrics MetricFactory, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{build: build, metrics: metrics, numRuns: numRuns, seedStart: seedStart, workers: 4}
}

// SetWorkers caps the number of trials in flight.
func (e *Ensemble) SetWorkers(n int) {
	if n > 0 {
		e.workers = n
	}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)
	sem := make(chan struct{}, e.workers)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			solver, err := e.build(e.seedStart + int64(idx))
			if err != nil {
				errs[idx] = err
				return
			}

			s := New(solver)
			if e.metrics != nil {
				for _, m := range e.metrics() {
					s.AddMetric(m)
				}
			}

			results[idx], errs[idx] = s.Run(ctx, cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
