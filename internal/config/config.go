package config

import (
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/sandsim/internal/dynamo"
	"github.com/san-kum/sandsim/internal/physics"
)

const (
	DefaultWidth      = 900.0
	DefaultHeight     = 900.0
	DefaultFrameDt    = 1.0 / 120.0
	DefaultMaxFrameDt = 0.03
	DefaultDuration   = 10.0
	FloorThickness    = 40.0
)

type Config struct {
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	Gravity    float64 `yaml:"gravity"`
	SubSteps   int     `yaml:"sub_steps"`
	CellSize   float64 `yaml:"cell_size"`
	Optimize   bool    `yaml:"optimize"`
	Seed       int64   `yaml:"seed"`
	FrameDt    float64 `yaml:"frame_dt"`
	MaxFrameDt float64 `yaml:"max_frame_dt"`
	Duration   float64 `yaml:"duration"`
	MaxSpeed   float64 `yaml:"max_speed"`
	CullMargin float64 `yaml:"cull_margin"`

	Obstacles []ObstacleConfig `yaml:"obstacles"`
	Spawns    []SpawnConfig    `yaml:"spawns"`
	Terrain   *TerrainConfig   `yaml:"terrain,omitempty"`
}

// ObstacleConfig describes a circle (radius) or a rect (w, h) centred
// on (x, y).
type ObstacleConfig struct {
	Shape  string  `yaml:"shape"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	W      float64 `yaml:"w,omitempty"`
	H      float64 `yaml:"h,omitempty"`
	Radius float64 `yaml:"radius,omitempty"`
}

type SpawnConfig struct {
	Material dynamo.Material `yaml:"material"`
	X        float64         `yaml:"x"`
	Y        float64         `yaml:"y"`
	Cols     int             `yaml:"cols"`
	Rows     int             `yaml:"rows"`
	Static   bool            `yaml:"static,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		Gravity:    physics.DefaultGravity,
		SubSteps:   physics.DefaultSubSteps,
		CellSize:   physics.DefaultCellSize,
		Optimize:   true,
		Seed:       1,
		FrameDt:    DefaultFrameDt,
		MaxFrameDt: DefaultMaxFrameDt,
		Duration:   DefaultDuration,
		MaxSpeed:   physics.DefaultMaxSpeed,
		CullMargin: physics.DefaultCullMargin,
		Obstacles:  []ObstacleConfig{Floor(DefaultWidth, DefaultHeight)},
	}
}

// Floor is the full-width slab sitting at the bottom edge of the world.
func Floor(width, height float64) ObstacleConfig {
	return ObstacleConfig{
		Shape: physics.ShapeRect.String(),
		X:     width / 2,
		Y:     height - FloorThickness/2,
		W:     width,
		H:     FloorThickness,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Write encodes cfg as YAML to w.
func Write(w io.Writer, cfg *Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}

// Physics returns the solver parameters carried by c.
func (c *Config) Physics() physics.Config {
	return physics.Config{
		Width:      c.Width,
		Height:     c.Height,
		Gravity:    c.Gravity,
		SubSteps:   c.SubSteps,
		CellSize:   c.CellSize,
		MaxSpeed:   c.MaxSpeed,
		CullMargin: c.CullMargin,
		Optimize:   c.Optimize,
	}
}

func (c *Config) Validate() error {
	if err := c.Physics().Validate(); err != nil {
		return err
	}
	if !(c.FrameDt > 0) || math.IsInf(c.FrameDt, 0) {
		return fmt.Errorf("%w: frame_dt must be positive, got %f", dynamo.ErrParameterBounds, c.FrameDt)
	}
	if c.MaxFrameDt < c.FrameDt {
		return fmt.Errorf("%w: max_frame_dt %f below frame_dt %f", dynamo.ErrParameterBounds, c.MaxFrameDt, c.FrameDt)
	}
	if c.Duration < 0 {
		return fmt.Errorf("%w: duration must not be negative, got %f", dynamo.ErrParameterBounds, c.Duration)
	}
	for i, o := range c.Obstacles {
		if _, err := o.Build(); err != nil {
			return fmt.Errorf("obstacle %d: %w", i, err)
		}
	}
	for i, sp := range c.Spawns {
		if !sp.Material.Valid() {
			return fmt.Errorf("spawn %d: %w", i, dynamo.ErrUnknownMaterial)
		}
		if sp.Cols < 1 || sp.Rows < 1 {
			return fmt.Errorf("spawn %d: %w: cols and rows must be at least 1", i, dynamo.ErrParameterBounds)
		}
	}
	if c.Terrain != nil {
		if err := c.Terrain.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (o ObstacleConfig) Build() (physics.Obstacle, error) {
	shape, err := physics.ParseShape(o.Shape)
	if err != nil {
		return nil, err
	}
	switch shape {
	case physics.ShapeCircle:
		if !(o.Radius > 0) {
			return nil, fmt.Errorf("%w: circle radius must be positive", dynamo.ErrParameterBounds)
		}
		return physics.NewCircle(o.X, o.Y, o.Radius), nil
	default:
		if !(o.W > 0) || !(o.H > 0) {
			return nil, fmt.Errorf("%w: rect size must be positive", dynamo.ErrParameterBounds)
		}
		return physics.NewRect(o.X, o.Y, o.W, o.H), nil
	}
}

// Build validates c and returns a solver populated with its obstacles,
// terrain and spawn blocks.
func (c *Config) Build(rng dynamo.Rand) (*physics.Solver, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	s, err := physics.New(c.Physics(), rng)
	if err != nil {
		return nil, err
	}
	if err := c.Populate(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Populate adds the configured scene to an existing solver. Reset
// followed by Populate restores the initial scene.
func (c *Config) Populate(s *physics.Solver) error {
	for _, o := range c.Obstacles {
		obs, err := o.Build()
		if err != nil {
			return err
		}
		s.AddObstacle(obs)
	}
	if c.Terrain != nil {
		c.Terrain.Apply(s, c.Width)
	}
	for _, sp := range c.Spawns {
		if sp.Static {
			placeStatic(s, sp)
			continue
		}
		s.SpawnRegion(sp.X, sp.Y, sp.Material, sp.Cols, sp.Rows)
	}
	return nil
}

// placeStatic lays out a fixed block on an exact lattice.
func placeStatic(s *physics.Solver, sp SpawnConfig) {
	spacing := sp.Material.Props().Radius * 2
	startX := sp.X - float64(sp.Cols-1)*spacing/2
	startY := sp.Y - float64(sp.Rows-1)*spacing/2
	for i := 0; i < sp.Cols; i++ {
		for j := 0; j < sp.Rows; j++ {
			s.AddParticle(startX+float64(i)*spacing, startY+float64(j)*spacing, sp.Material, true)
		}
	}
}
