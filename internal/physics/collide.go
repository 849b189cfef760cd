package physics

import (
	"math"

	"github.com/san-kum/sandsim/internal/dynamo"
)

const (
	responseCoef     = 0.3
	pairFriction     = 0.05
	pairFrictionMul  = 0.1
	minPairDistSq    = 0.0001
	contactFrictionK = pairFriction * pairFrictionMul
)

func (s *Solver) solveCollisions() {
	if s.cfg.Optimize {
		s.grid.Clear()
		for i := range s.particles {
			s.grid.Insert(i, s.particles[i].Pos.X, s.particles[i].Pos.Y)
		}
	}

	for i := range s.particles {
		p := &s.particles[i]
		if p.Sleeping || p.Static {
			continue
		}
		for _, o := range s.obstacles {
			o.Resolve(p)
		}
	}

	n := len(s.particles)
	if !s.cfg.Optimize {
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				s.checkPair(&s.particles[i], &s.particles[j])
			}
		}
		return
	}

	for i := 0; i < n; i++ {
		p := &s.particles[i]
		s.candidates = s.grid.QueryNeighbors(p.Pos.X, p.Pos.Y, s.candidates[:0])
		for _, j := range s.candidates {
			if i < j {
				s.checkPair(p, &s.particles[j])
			}
		}
	}
}

// checkPair runs material reactions and then, unless the reaction
// consumed the pair, a soft positional correction.
func (s *Solver) checkPair(a, b *dynamo.Particle) {
	if a.Sleeping && b.Sleeping {
		return
	}
	if a.Static && b.Static {
		return
	}

	if s.interact(a, b) {
		return
	}

	aGas, bGas := a.Material.IsGas(), b.Material.IsGas()
	if aGas && bGas {
		return
	}

	d := a.Pos.Sub(b.Pos)
	distSq := d.LenSq()
	minDist := a.Radius + b.Radius
	if !(distSq < minDist*minDist) || distSq <= minPairDistSq {
		return
	}

	dist := math.Sqrt(distSq)
	n := d.Scale(1 / dist)
	delta := minDist - dist

	if a.Sleeping {
		a.Wake()
	}
	if b.Sleeping {
		b.Wake()
	}

	wa, wb := inverseMass(a), inverseMass(b)
	total := wa + wb
	if total == 0 {
		return
	}
	ra, rb := wa/total, wb/total
	switch {
	case aGas:
		ra, rb = 1, 0
	case bGas:
		ra, rb = 0, 1
	}

	move := n.Scale(delta * responseCoef)
	if !a.Static {
		a.Pos = a.Pos.Add(move.Scale(ra))
	}
	if !b.Static {
		b.Pos = b.Pos.Sub(move.Scale(rb))
	}

	if aGas || bGas {
		return
	}

	// tangential friction on the implicit velocities
	tan := dynamo.Vec2{X: -n.Y, Y: n.X}
	if !a.Static {
		a.Prev = a.Prev.Add(tan.Scale(a.Velocity().Dot(tan) * contactFrictionK))
	}
	if !b.Static {
		b.Prev = b.Prev.Add(tan.Scale(b.Velocity().Dot(tan) * contactFrictionK))
	}
}

func inverseMass(p *dynamo.Particle) float64 {
	if p.Static {
		return 0
	}
	return 1 / p.Mass
}
