package physics

import "github.com/san-kum/sandsim/internal/dynamo"

const (
	steamChance  = 0.2
	spreadChance = 0.005
)

// interact applies material reactions for an unordered pair. It returns
// true when the reaction replaces physical collision for this sub-step.
func (s *Solver) interact(a, b *dynamo.Particle) bool {
	ma, mb := a.Material, b.Material

	switch {
	case ma == dynamo.Water && mb == dynamo.Fire:
		s.quench(a, b)
		return true
	case ma == dynamo.Fire && mb == dynamo.Water:
		s.quench(b, a)
		return true

	case ma == dynamo.Sand && mb == dynamo.Fire:
		s.ignite(a, b)
		return true
	case ma == dynamo.Fire && mb == dynamo.Sand:
		s.ignite(b, a)
		return true

	case ma == dynamo.Sand && mb == dynamo.Sand:
		switch {
		case a.Burning && !b.Burning:
			if s.rng.Float64() < spreadChance {
				b.Ignite(s.rng)
			}
		case b.Burning && !a.Burning:
			if s.rng.Float64() < spreadChance {
				a.Ignite(s.rng)
			}
		}
	}
	return false
}

// quench puts the fire out; sometimes the water flashes to steam.
func (s *Solver) quench(water, fire *dynamo.Particle) {
	fire.Life = 0
	if s.rng.Float64() < steamChance {
		water.SetMaterial(dynamo.Steam)
		water.Wake()
	}
}

// ignite sets sand alight. The fire is spent either way.
func (s *Solver) ignite(sand, fire *dynamo.Particle) {
	if !sand.Burning {
		sand.Ignite(s.rng)
	}
	fire.Life = 0
}
