package integrators

import "github.com/san-kum/sandsim/internal/dynamo"

// Verlet is a position-Verlet stepper. Velocity lives in Pos - Prev and
// the acceleration accumulator is consumed by each step.
type Verlet struct{}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Step(p *dynamo.Particle, dt float64) {
	if p.Static || p.Sleeping {
		return
	}

	vel := p.Pos.Sub(p.Prev)
	p.Prev = p.Pos

	dt2 := dt * dt
	p.Pos = p.Pos.Add(vel.Scale(p.Material.Damping())).Add(p.Acc.Scale(dt2))
	p.Acc = dynamo.Vec2{}

	if p.Decay > 0 {
		p.Life -= p.Decay
	}

	p.TickBurn(dt)
}
