package physics

import (
	"github.com/san-kum/sandsim/internal/dynamo"
	"github.com/san-kum/sandsim/internal/integrators"
)

const (
	sleepMoveSq   = 0.002
	sleepDelay    = 0.5
	smokeBurnLeft = 0.1
	smokeChance   = 0.3
)

// Attractor is a transient push/pull point set by the input layer.
// Positive force pulls, negative pushes.
type Attractor struct {
	Pos   dynamo.Vec2
	Force float64
}

// Stats summarises the live particle set for a HUD.
type Stats struct {
	Particles  int
	Sleeping   int
	Burning    int
	Static     int
	ByMaterial map[dynamo.Material]int
}

// Solver owns every particle and obstacle and advances them frame by
// frame. Particle indices are only stable within one frame: dead
// particles are compacted away at the start of each Update.
type Solver struct {
	cfg        Config
	particles  []dynamo.Particle
	obstacles  []Obstacle
	grid       *SpatialGrid
	integrator dynamo.Integrator
	rng        dynamo.Rand

	attractor    Attractor
	hasAttractor bool

	candidates []int
}

// New builds an empty solver. rng drives every probabilistic branch.
func New(cfg Config, rng dynamo.Rand) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Solver{
		cfg:        cfg,
		particles:  make([]dynamo.Particle, 0, 1024),
		obstacles:  make([]Obstacle, 0),
		grid:       NewSpatialGrid(cfg.CellSize),
		integrator: integrators.NewVerlet(),
		rng:        rng,
		candidates: make([]int, 0, 64),
	}, nil
}

func (s *Solver) Config() Config { return s.cfg }

// Particles returns the live set. Callers must treat it as read-only and
// must not hold it across Update.
func (s *Solver) Particles() []dynamo.Particle { return s.particles }

func (s *Solver) Obstacles() []Obstacle { return s.obstacles }

func (s *Solver) Optimized() bool { return s.cfg.Optimize }

func (s *Solver) SetOptimized(on bool) { s.cfg.Optimize = on }

// ToggleOptimization flips between grid and all-pairs and returns the new mode.
func (s *Solver) ToggleOptimization() bool {
	s.cfg.Optimize = !s.cfg.Optimize
	return s.cfg.Optimize
}

func (s *Solver) Attractor() (Attractor, bool) { return s.attractor, s.hasAttractor }

func (s *Solver) SetAttractor(x, y, force float64) {
	s.attractor = Attractor{Pos: dynamo.Vec2{X: x, Y: y}, Force: force}
	s.hasAttractor = true
}

func (s *Solver) ClearAttractor() {
	s.attractor = Attractor{}
	s.hasAttractor = false
}

// Reset drops every particle and obstacle.
func (s *Solver) Reset() {
	s.particles = s.particles[:0]
	s.obstacles = s.obstacles[:0]
	s.grid.Clear()
}

// AddParticle inserts one particle and returns its current index.
func (s *Solver) AddParticle(x, y float64, m dynamo.Material, static bool) int {
	s.particles = append(s.particles, dynamo.NewParticle(x, y, m, static))
	return len(s.particles) - 1
}

func (s *Solver) AddObstacle(o Obstacle) {
	s.obstacles = append(s.obstacles, o)
}

// CanPlaceObstacle reports whether no existing obstacle centre lies
// within minDist of (x, y).
func (s *Solver) CanPlaceObstacle(x, y, minDist float64) bool {
	p := dynamo.Vec2{X: x, Y: y}
	for _, o := range s.obstacles {
		if o.Center().DistSq(p) < minDist*minDist {
			return false
		}
	}
	return true
}

// SpawnRegion seeds a cols x rows block of particles centred on (x, y)
// with half a unit of jitter. Candidates outside the world are dropped.
// It returns the number of particles added.
func (s *Solver) SpawnRegion(x, y float64, m dynamo.Material, cols, rows int) int {
	spacing := m.Props().Radius * 2.2
	startX := x - float64(cols)*spacing/2
	startY := y - float64(rows)*spacing/2

	added := 0
	for i := 0; i < cols; i++ {
		for j := 0; j < rows; j++ {
			px := startX + float64(i)*spacing + dynamo.Uniform(s.rng, -0.5, 0.5)
			py := startY + float64(j)*spacing + dynamo.Uniform(s.rng, -0.5, 0.5)
			if px > 0 && px < s.cfg.Width && py > 0 && py < s.cfg.Height {
				s.AddParticle(px, py, m, false)
				added++
			}
		}
	}
	return added
}

func (s *Solver) Stats() Stats {
	st := Stats{
		Particles:  len(s.particles),
		ByMaterial: make(map[dynamo.Material]int),
	}
	for i := range s.particles {
		p := &s.particles[i]
		st.ByMaterial[p.Material]++
		if p.Sleeping {
			st.Sleeping++
		}
		if p.Burning {
			st.Burning++
		}
		if p.Static {
			st.Static++
		}
	}
	return st
}

// Update advances the world by dt seconds in fixed sub-steps. dt must be
// clamped by the caller; dt == 0 leaves every particle untouched.
func (s *Solver) Update(dt float64) {
	if dt == 0 {
		return
	}

	s.removeDead()
	s.emitSmoke()

	subDt := dt / float64(s.cfg.SubSteps)
	for i := 0; i < s.cfg.SubSteps; i++ {
		s.applyGravity()
		s.applyAttractor()
		s.applyBounds()
		s.solveCollisions()
		s.updatePositions(subDt)
	}
}

// removeDead compacts the particle slice in place, keeping order.
func (s *Solver) removeDead() {
	live := s.particles[:0]
	for _, p := range s.particles {
		if p.Life > 0 {
			live = append(live, p)
		}
	}
	for i := len(live); i < len(s.particles); i++ {
		s.particles[i] = dynamo.Particle{}
	}
	s.particles = live
}

// emitSmoke gives nearly burnt-out sand a chance to puff smoke.
func (s *Solver) emitSmoke() {
	n := len(s.particles)
	for i := 0; i < n; i++ {
		p := s.particles[i]
		if p.Material != dynamo.Sand || !p.Burning || p.BurnTimer >= smokeBurnLeft {
			continue
		}
		if s.rng.Float64() < smokeChance {
			s.AddParticle(p.Pos.X, p.Pos.Y, dynamo.Smoke, false)
		}
	}
}

func (s *Solver) updatePositions(dt float64) {
	maxStep := s.cfg.MaxSpeed * dt
	for i := range s.particles {
		p := &s.particles[i]

		if p.Material.IsGranular() && !p.Sleeping && !p.Static {
			if p.Velocity().LenSq() < sleepMoveSq {
				p.SleepTimer += dt
				if p.SleepTimer > sleepDelay {
					p.Sleep()
				}
			} else {
				p.SleepTimer = 0
			}
		}

		v := p.Velocity()
		if speed := v.Len(); speed > maxStep {
			p.Prev = p.Pos.Sub(v.Scale(maxStep / speed))
		}

		s.integrator.Step(p, dt)

		if !p.Pos.IsValid() || s.outOfBounds(p.Pos) {
			p.Life = 0
		}
	}
}

func (s *Solver) outOfBounds(pos dynamo.Vec2) bool {
	m := s.cfg.CullMargin
	return pos.X <= -m || pos.X >= s.cfg.Width+m || pos.Y <= -m || pos.Y >= s.cfg.Height+m
}
