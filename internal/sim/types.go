package sim

import (
	"fmt"
	"math"

	"github.com/san-kum/sandsim/internal/dynamo"
	"github.com/san-kum/sandsim/internal/physics"
)

// Config drives a headless run. Each frame advances the solver by
// min(FrameDt, MaxFrameDt); metrics are sampled every SampleEvery frames.
type Config struct {
	FrameDt     float64
	MaxFrameDt  float64
	Duration    float64
	SampleEvery int
}

func (c Config) Validate() error {
	if !(c.FrameDt > 0) || math.IsInf(c.FrameDt, 0) {
		return fmt.Errorf("%w: frame dt must be positive, got %f", dynamo.ErrParameterBounds, c.FrameDt)
	}
	if !(c.Duration > 0) {
		return fmt.Errorf("%w: duration must be positive, got %f", dynamo.ErrParameterBounds, c.Duration)
	}
	if c.MaxFrameDt < 0 {
		return fmt.Errorf("%w: max frame dt must not be negative", dynamo.ErrParameterBounds)
	}
	return nil
}

func (c Config) step() float64 {
	if c.MaxFrameDt > 0 && c.FrameDt > c.MaxFrameDt {
		return c.MaxFrameDt
	}
	return c.FrameDt
}

func (c Config) frames() int {
	return int(math.Round(c.Duration / c.step()))
}

type Result struct {
	Times   []float64
	Series  map[string][]float64
	Metrics map[string]float64
	Frames  int
	Final   physics.Stats
}

// Names lists the recorded series in metric registration order.
func (r *Result) Names(metrics []dynamo.Metric) []string {
	names := make([]string, 0, len(metrics))
	for _, m := range metrics {
		if _, ok := r.Series[m.Name()]; ok {
			names = append(names, m.Name())
		}
	}
	return names
}
