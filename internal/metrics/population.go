package metrics

import "github.com/san-kum/sandsim/internal/dynamo"

// Population reports, for the latest frame, how many particles match a
// predicate.
type Population struct {
	name  string
	match func(p *dynamo.Particle) bool
	count int
}

func NewParticleCount() *Population {
	return &Population{name: "particles", match: func(*dynamo.Particle) bool { return true }}
}

func NewSleepingCount() *Population {
	return &Population{name: "sleeping", match: func(p *dynamo.Particle) bool { return p.Sleeping }}
}

func NewBurningCount() *Population {
	return &Population{name: "burning", match: func(p *dynamo.Particle) bool { return p.Burning }}
}

func NewMaterialCount(m dynamo.Material) *Population {
	return &Population{name: m.String(), match: func(p *dynamo.Particle) bool { return p.Material == m }}
}

func (c *Population) Name() string { return c.name }

func (c *Population) Observe(w dynamo.World, t float64) {
	c.count = 0
	ps := w.Particles()
	for i := range ps {
		if c.match(&ps[i]) {
			c.count++
		}
	}
}

func (c *Population) Value() float64 { return float64(c.count) }

func (c *Population) Reset() { c.count = 0 }

// Default returns the metric set recorded by headless runs.
func Default() []dynamo.Metric {
	return []dynamo.Metric{
		NewParticleCount(),
		NewSleepingCount(),
		NewBurningCount(),
		NewKineticEnergy(),
		NewStability(1.0),
	}
}
