package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/sandsim/internal/dynamo"
)

func TestVerletFreeFall(t *testing.T) {
	v := NewVerlet()
	p := dynamo.NewParticle(0, 0, dynamo.Water, false)
	dt := 0.01

	p.ApplyForce(dynamo.Vec2{Y: 100})
	v.Step(&p, dt)

	if math.Abs(p.Pos.Y-0.01) > 1e-12 {
		t.Errorf("expected y=0.01 after first step, got %f", p.Pos.Y)
	}
	if p.Acc != (dynamo.Vec2{}) {
		t.Error("acceleration should be cleared after step")
	}

	// no new force: carries the implicit velocity forward unchanged
	v.Step(&p, dt)
	if math.Abs(p.Pos.Y-0.02) > 1e-12 {
		t.Errorf("expected y=0.02, got %f", p.Pos.Y)
	}
}

func TestVerletGasDamping(t *testing.T) {
	v := NewVerlet()
	p := dynamo.NewParticle(10, 0, dynamo.Smoke, false)
	p.Prev = dynamo.Vec2{X: 9}

	v.Step(&p, 0.01)

	if math.Abs(p.Pos.X-10.98) > 1e-12 {
		t.Errorf("expected damped x=10.98, got %f", p.Pos.X)
	}
	if math.Abs(p.Life-0.99) > 1e-12 {
		t.Errorf("expected life 0.99 after one decay, got %f", p.Life)
	}
}

func TestVerletSkipsStaticAndSleeping(t *testing.T) {
	v := NewVerlet()

	tests := []struct {
		name string
		prep func(p *dynamo.Particle)
	}{
		{"static", func(p *dynamo.Particle) { p.Static = true }},
		{"sleeping", func(p *dynamo.Particle) { p.Sleeping = true; p.SleepTimer = 0.7 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := dynamo.NewParticle(1, 1, dynamo.Sand, false)
			tt.prep(&p)
			p.Prev = dynamo.Vec2{X: 0, Y: 0}
			p.Acc = dynamo.Vec2{Y: 50}
			before := p

			v.Step(&p, 0.01)

			if p != before {
				t.Errorf("particle mutated: %+v", p)
			}
		})
	}
}

func TestVerletBurnOut(t *testing.T) {
	v := NewVerlet()
	p := dynamo.NewParticle(0, 0, dynamo.Sand, false)
	p.Burning = true
	p.BurnTimer = 0.005
	p.MaxBurnTime = 2.0

	v.Step(&p, 0.01)

	if p.Alive() {
		t.Error("burnt-out sand should have zero life")
	}
}
