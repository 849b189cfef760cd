package dynamo

// Burn colour bands, from fresh flame to ash.
var (
	burnHot   = RGB{255, 150, 0}
	burnEmber = RGB{100, 20, 0}
	burnAsh   = RGB{50, 50, 50}
)

// Particle holds the state of one simulated grain, droplet or puff.
// Velocity is implicit: Pos - Prev.
type Particle struct {
	Pos  Vec2
	Prev Vec2
	Acc  Vec2

	Material Material
	Static   bool

	Sleeping   bool
	SleepTimer float64

	Radius   float64
	Mass     float64
	Friction float64
	Color    RGB

	Life  float64
	Decay float64

	Burning     bool
	BurnTimer   float64
	MaxBurnTime float64
}

func NewParticle(x, y float64, m Material, static bool) Particle {
	p := Particle{
		Pos:    Vec2{x, y},
		Prev:   Vec2{x, y},
		Static: static,
		Life:   1.0,
	}
	p.SetMaterial(m)
	return p
}

// SetMaterial transforms the particle in place, re-deriving every
// material constant. Position, life and burn state are kept.
func (p *Particle) SetMaterial(m Material) {
	props := m.Props()
	p.Material = m
	p.Radius = props.Radius
	p.Mass = props.Mass
	p.Friction = props.Friction
	p.Decay = props.Decay
	p.Color = props.Color
}

func (p *Particle) Velocity() Vec2 { return p.Pos.Sub(p.Prev) }

func (p *Particle) Alive() bool { return p.Life > 0 }

// ApplyForce accumulates acceleration unless the particle is static or asleep.
func (p *Particle) ApplyForce(f Vec2) {
	if p.Static || p.Sleeping {
		return
	}
	p.Acc = p.Acc.Add(f)
}

func (p *Particle) Wake() {
	p.Sleeping = false
	p.SleepTimer = 0
}

// Sleep zeroes the implicit velocity and parks the particle.
func (p *Particle) Sleep() {
	p.Sleeping = true
	p.Prev = p.Pos
}

// Ignite starts a burn lasting 2-3 seconds and wakes the particle.
func (p *Particle) Ignite(r Rand) {
	p.Burning = true
	p.BurnTimer = 2.0 + Uniform(r, 0, 1.0)
	p.MaxBurnTime = p.BurnTimer
	p.Wake()
}

// TickBurn advances an active burn by dt. The particle dies when the
// timer runs out.
func (p *Particle) TickBurn(dt float64) {
	if !p.Burning {
		return
	}
	p.BurnTimer -= dt

	progress := 0.0
	if p.MaxBurnTime > 0 {
		progress = p.BurnTimer / p.MaxBurnTime
	}
	switch {
	case progress > 0.6:
		p.Color = burnHot
	case progress > 0.3:
		p.Color = burnEmber
	default:
		p.Color = burnAsh
	}

	if p.BurnTimer <= 0 {
		p.Life = 0
	}
}
