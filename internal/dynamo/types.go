package dynamo

// Integrator advances one particle by a sub-step of length dt.
type Integrator interface {
	Step(p *Particle, dt float64)
}

// World is the read-only view of a running simulation.
type World interface {
	Particles() []Particle
}

type Metric interface {
	Name() string
	Observe(w World, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(w World, t float64)
}
