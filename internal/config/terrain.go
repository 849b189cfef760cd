package config

import (
	"fmt"

	"github.com/aquilax/go-perlin"

	"github.com/san-kum/sandsim/internal/dynamo"
	"github.com/san-kum/sandsim/internal/physics"
)

// TerrainConfig raises a ridge of static stone whose height follows 1D
// Perlin noise across the world width.
type TerrainConfig struct {
	Seed      int64   `yaml:"seed"`
	BaseY     float64 `yaml:"base_y"`
	Amplitude float64 `yaml:"amplitude"`
	Scale     float64 `yaml:"scale"`
	Alpha     float64 `yaml:"alpha"`
	Beta      float64 `yaml:"beta"`
	Octaves   int32   `yaml:"octaves"`
}

func DefaultTerrain() *TerrainConfig {
	return &TerrainConfig{
		Seed:      7,
		BaseY:     DefaultHeight - FloorThickness - 80,
		Amplitude: 120,
		Scale:     300,
		Alpha:     2,
		Beta:      2,
		Octaves:   3,
	}
}

func (t *TerrainConfig) Validate() error {
	if !(t.Scale > 0) {
		return fmt.Errorf("%w: terrain scale must be positive", dynamo.ErrParameterBounds)
	}
	if t.Octaves < 1 {
		return fmt.Errorf("%w: terrain octaves must be at least 1", dynamo.ErrParameterBounds)
	}
	if t.Amplitude < 0 {
		return fmt.Errorf("%w: terrain amplitude must not be negative", dynamo.ErrParameterBounds)
	}
	return nil
}

// Heights samples the ridge at stone-diameter intervals starting half a
// stone in from the left wall.
func (t *TerrainConfig) Heights(width float64) []dynamo.Vec2 {
	noise := perlin.NewPerlin(t.Alpha, t.Beta, t.Octaves, t.Seed)
	step := dynamo.Stone.Props().Radius * 2

	var pts []dynamo.Vec2
	for x := step / 2; x < width; x += step {
		y := t.BaseY + t.Amplitude*noise.Noise1D(x/t.Scale)
		pts = append(pts, dynamo.Vec2{X: x, Y: y})
	}
	return pts
}

// Apply adds the ridge to s and returns the number of stones placed.
func (t *TerrainConfig) Apply(s *physics.Solver, width float64) int {
	pts := t.Heights(width)
	for _, p := range pts {
		s.AddParticle(p.X, p.Y, dynamo.Stone, true)
	}
	return len(pts)
}
