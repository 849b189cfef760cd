package physics

import (
	"math"

	"github.com/san-kum/sandsim/internal/dynamo"
)

const (
	gasJitter         = 20.0
	attractorMinDist2 = 100.0
	floorSolidDamping = 0.9
	floorFluidDamping = 0.05
)

// applyGravity pushes solids down and, through their negative mass,
// lifts gases. Gases also drift sideways at random.
func (s *Solver) applyGravity() {
	for i := range s.particles {
		p := &s.particles[i]
		if p.Static || p.Sleeping {
			continue
		}
		if p.Material.IsGas() {
			p.Acc.X += dynamo.Uniform(s.rng, -gasJitter, gasJitter)
		}
		p.Acc.Y += s.cfg.Gravity * p.Mass
	}
}

// applyAttractor wakes every movable particle and pulls it toward the
// attractor with a force falling off as 1/distance.
func (s *Solver) applyAttractor() {
	if !s.hasAttractor {
		return
	}
	target := s.attractor.Pos
	for i := range s.particles {
		p := &s.particles[i]
		if p.Static {
			continue
		}
		p.Wake()

		d := target.Sub(p.Pos)
		distSq := d.LenSq()
		if distSq <= attractorMinDist2 {
			continue
		}
		dist := math.Sqrt(distSq)
		f := s.attractor.Force / dist
		p.Acc = p.Acc.Add(d.Scale(f / dist))
	}
}

// applyBounds clamps against the floor and both side walls. There is no
// ceiling: gases leave through the top and are culled later.
func (s *Solver) applyBounds() {
	w, h := s.cfg.Width, s.cfg.Height
	for i := range s.particles {
		p := &s.particles[i]
		if p.Static || p.Sleeping {
			continue
		}

		if p.Pos.Y > h-p.Radius {
			p.Pos.Y = h - p.Radius
			k := floorFluidDamping
			if p.Material.IsGranular() {
				k = floorSolidDamping
			}
			p.Prev.X += (p.Pos.X - p.Prev.X) * k
			p.Prev.Y = p.Pos.Y
		}

		if p.Pos.X < p.Radius {
			p.Pos.X = p.Radius
			p.Prev.X = p.Pos.X
		} else if p.Pos.X > w-p.Radius {
			p.Pos.X = w - p.Radius
			p.Prev.X = p.Pos.X
		}
	}
}
