package physics

import (
	"fmt"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/sandsim/internal/dynamo"
)

const frameDt = 1.0 / 120

func advance(s *Solver, seconds float64) {
	for t := 0.0; t < seconds; t += frameDt {
		s.Update(frameDt)
	}
}

func worstOverlap(ps []dynamo.Particle) float64 {
	worst := 0.0
	for i := range ps {
		for j := i + 1; j < len(ps); j++ {
			if ps[i].Material.IsGas() || ps[j].Material.IsGas() {
				continue
			}
			gap := ps[i].Radius + ps[j].Radius - ps[i].Pos.Sub(ps[j].Pos).Len()
			worst = math.Max(worst, gap)
		}
	}
	return worst
}

var _ = Describe("Solver", func() {
	var s *Solver

	BeforeEach(func() {
		var err error
		s, err = New(DefaultConfig(900, 900), dynamo.NewRand(3))
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("floor containment", func() {
		It("lets a falling droplet settle on the floor", func() {
			s.AddParticle(450, 800, dynamo.Water, false)

			advance(s, 2.0)

			p := s.Particles()[0]
			Expect(p.Pos.Y).To(BeNumerically("~", 900-p.Radius, 0.01))
			Expect(p.Pos.X).To(BeNumerically("~", 450, 1e-9))

			for i := 0; i < 30; i++ {
				s.Update(frameDt)
				Expect(s.Particles()[0].Pos.Y).To(BeNumerically("<=", 900-p.Radius+0.01))
			}
		})
	})

	Describe("sleeping", func() {
		It("parks resting sand and then leaves it untouched", func() {
			s.AddParticle(450, 896, dynamo.Sand, false)

			advance(s, 0.3)
			Expect(s.Particles()[0].Sleeping).To(BeFalse())

			advance(s, 0.5)
			p := s.Particles()[0]
			Expect(p.Sleeping).To(BeTrue())
			Expect(p.Pos.Y).To(Equal(896.0))

			advance(s, 0.5)
			Expect(s.Particles()[0].Pos).To(Equal(p.Pos))
			Expect(s.Particles()[0].Sleeping).To(BeTrue())
		})

		It("never puts liquids to sleep", func() {
			s.AddParticle(450, 897, dynamo.Water, false)
			advance(s, 1.5)
			Expect(s.Particles()[0].Sleeping).To(BeFalse())
		})

		It("wakes a sleeper when an awake grain lands on it", func() {
			s.AddParticle(450, 896, dynamo.Sand, false)
			advance(s, 1.0)
			Expect(s.Particles()[0].Sleeping).To(BeTrue())

			s.AddParticle(451, 870, dynamo.Stone, false)
			woke := false
			for i := 0; i < 60 && !woke; i++ {
				s.Update(frameDt)
				woke = !s.Particles()[0].Sleeping
			}
			Expect(woke).To(BeTrue())
		})
	})

	Describe("pile resolution", func() {
		for _, optimize := range []bool{true, false} {
			optimize := optimize
			It(fmt.Sprintf("separates a dropped pile of grains (grid=%v)", optimize), func() {
				s.SetOptimized(optimize)
				s.SpawnRegion(450, 820, dynamo.Sand, 5, 4)

				advance(s, 3.0)

				ps := s.Particles()
				Expect(ps).To(HaveLen(20))
				Expect(worstOverlap(ps)).To(BeNumerically("<", 1.0))
				for _, p := range ps {
					Expect(p.Pos.Y).To(BeNumerically("<=", 900-p.Radius+0.5))
				}
			})
		}
	})

	Describe("materials", func() {
		It("keeps every movable particle's mass non-zero through reactions", func() {
			s.SpawnRegion(450, 850, dynamo.Water, 6, 4)
			s.SpawnRegion(300, 850, dynamo.Sand, 5, 5)
			for i := 0; i < 20; i++ {
				s.SpawnRegion(450, 780, dynamo.Fire, 2, 2)
				s.SpawnRegion(300, 780, dynamo.Fire, 2, 2)
				advance(s, 0.1)
			}

			for _, p := range s.Particles() {
				if !p.Static {
					Expect(p.Mass).NotTo(BeZero())
				}
				Expect(p.Life).To(BeNumerically("<=", 1))
			}
		})

		It("burns awake sand away after its burn timer", func() {
			i := s.AddParticle(450, 896, dynamo.Sand, false)
			s.particles[i].Ignite(s.rng)
			// a faint attractor keeps the grain awake
			s.SetAttractor(450, 100, 1)

			advance(s, 3.2)

			Expect(s.Stats().ByMaterial[dynamo.Sand]).To(BeZero())
		})

		It("freezes the burn of a sleeping grain", func() {
			i := s.AddParticle(450, 896, dynamo.Sand, false)
			s.particles[i].Ignite(s.rng)

			advance(s, 1.0)
			p := s.Particles()[0]
			Expect(p.Sleeping).To(BeTrue())
			Expect(p.Burning).To(BeTrue())

			advance(s, 3.0)
			Expect(s.Particles()).To(HaveLen(1))
			Expect(s.Particles()[0].BurnTimer).To(Equal(p.BurnTimer))
		})

		It("lifts gases and lets them fade out", func() {
			s.AddParticle(450, 500, dynamo.Steam, false)
			advance(s, 0.1)
			Expect(s.Particles()[0].Pos.Y).To(BeNumerically("<", 500))

			advance(s, 3.0)
			Expect(s.Particles()).To(BeEmpty())
		})
	})

	Describe("obstacles", func() {
		It("pushes a particle spawned inside a box out through the nearest face", func() {
			cfg := DefaultConfig(900, 900)
			cfg.Gravity = 0
			var err error
			s, err = New(cfg, dynamo.NewRand(3))
			Expect(err).NotTo(HaveOccurred())

			box := NewRect(450, 450, 60, 30)
			s.AddObstacle(box)
			s.AddParticle(425, 452, dynamo.Sand, false)

			s.Update(frameDt)

			p := s.Particles()[0]
			Expect(p.Pos.X).To(BeNumerically("<=", 450-30-p.Radius))
			probe := p
			Expect(box.Resolve(&probe)).To(BeFalse())
		})

		It("rolls grains off a circle", func() {
			s.AddObstacle(NewCircle(450, 600, 30))
			s.AddParticle(452, 500, dynamo.Sand, false)

			advance(s, 2.0)

			p := s.Particles()[0]
			Expect(p.Pos.Sub(dynamo.Vec2{X: 450, Y: 600}).Len()).To(BeNumerically(">=", 34-0.5))
		})
	})
})
