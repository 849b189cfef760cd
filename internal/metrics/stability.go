package metrics

import (
	"math"

	"github.com/san-kum/sandsim/internal/dynamo"
	"github.com/san-kum/sandsim/internal/physics"
)

// Stability is the fraction of observed frames in which no pair of
// colliding (non-gas) particles overlaps by more than threshold.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
	worst      float64
	grid       *physics.SpatialGrid
	scratch    []int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
		grid:      physics.NewSpatialGrid(physics.DefaultCellSize),
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(w dynamo.World, t float64) {
	ps := w.Particles()
	s.worst = WorstOverlap(ps, s.grid, &s.scratch)
	s.samples++
	if s.worst > s.threshold {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

// Worst returns the deepest overlap seen in the latest frame.
func (s *Stability) Worst() float64 { return s.worst }

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
	s.worst = 0
}

// WorstOverlap returns the largest radius-sum minus distance over all
// pairs that physically collide. Gas pairs and static pairs are skipped.
func WorstOverlap(ps []dynamo.Particle, grid *physics.SpatialGrid, scratch *[]int) float64 {
	grid.Clear()
	for i := range ps {
		if ps[i].Pos.IsValid() {
			grid.Insert(i, ps[i].Pos.X, ps[i].Pos.Y)
		}
	}

	worst := 0.0
	for i := range ps {
		a := &ps[i]
		if !a.Pos.IsValid() {
			continue
		}
		*scratch = grid.QueryNeighbors(a.Pos.X, a.Pos.Y, (*scratch)[:0])
		for _, j := range *scratch {
			if j <= i {
				continue
			}
			b := &ps[j]
			if (a.Material.IsGas() && b.Material.IsGas()) || (a.Static && b.Static) {
				continue
			}
			gap := a.Radius + b.Radius - a.Pos.Sub(b.Pos).Len()
			worst = math.Max(worst, gap)
		}
	}
	return worst
}
