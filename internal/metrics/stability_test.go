package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/sandsim/internal/dynamo"
	"github.com/san-kum/sandsim/internal/physics"
)

func TestWorstOverlap(t *testing.T) {
	tests := []struct {
		name string
		ps   world
		want float64
	}{
		{"empty", world{}, 0},
		{"apart", world{
			dynamo.NewParticle(0, 0, dynamo.Sand, false),
			dynamo.NewParticle(20, 0, dynamo.Sand, false),
		}, 0},
		{"overlapping solids", world{
			dynamo.NewParticle(0, 0, dynamo.Sand, false),
			dynamo.NewParticle(6, 0, dynamo.Sand, false),
			dynamo.NewParticle(100, 0, dynamo.Stone, false),
			dynamo.NewParticle(111, 0, dynamo.Stone, false),
		}, 2},
		{"gases ignored", world{
			dynamo.NewParticle(0, 0, dynamo.Smoke, false),
			dynamo.NewParticle(1, 0, dynamo.Steam, false),
		}, 0},
		{"gas against solid counts", world{
			dynamo.NewParticle(0, 0, dynamo.Fire, false),
			dynamo.NewParticle(5, 0, dynamo.Water, false),
		}, 2},
	}

	grid := physics.NewSpatialGrid(physics.DefaultCellSize)
	var scratch []int
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WorstOverlap(tt.ps, grid, &scratch)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("WorstOverlap = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestStability(t *testing.T) {
	s := NewStability(1.0)
	if s.Value() != 1.0 {
		t.Error("no samples should mean fully stable")
	}

	s.Observe(world{
		dynamo.NewParticle(0, 0, dynamo.Sand, false),
		dynamo.NewParticle(7.5, 0, dynamo.Sand, false),
	}, 0)
	s.Observe(world{
		dynamo.NewParticle(0, 0, dynamo.Sand, false),
		dynamo.NewParticle(4, 0, dynamo.Sand, false),
	}, 0)

	if s.Value() != 0.5 {
		t.Errorf("expected stability 0.5, got %f", s.Value())
	}
	if s.Worst() != 4 {
		t.Errorf("expected worst overlap 4, got %f", s.Worst())
	}

	s.Reset()
	if s.Value() != 1.0 || s.Worst() != 0 {
		t.Error("reset should clear samples")
	}
}

func TestPopulation(t *testing.T) {
	a := dynamo.NewParticle(0, 0, dynamo.Sand, false)
	a.Sleeping = true
	b := dynamo.NewParticle(0, 0, dynamo.Sand, false)
	b.Burning = true
	c := dynamo.NewParticle(0, 0, dynamo.Water, false)
	w := world{a, b, c}

	tests := []struct {
		m    *Population
		want float64
	}{
		{NewParticleCount(), 3},
		{NewSleepingCount(), 1},
		{NewBurningCount(), 1},
		{NewMaterialCount(dynamo.Sand), 2},
		{NewMaterialCount(dynamo.Steam), 0},
	}

	for _, tt := range tests {
		tt.m.Observe(w, 0)
		if tt.m.Value() != tt.want {
			t.Errorf("%s = %f, want %f", tt.m.Name(), tt.m.Value(), tt.want)
		}
	}

	names := map[string]bool{}
	for _, m := range Default() {
		if names[m.Name()] {
			t.Errorf("duplicate metric name %s", m.Name())
		}
		names[m.Name()] = true
	}
}
