package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/sandsim/internal/dynamo"
)

const (
	DefaultGravity    = 1500.0
	DefaultSubSteps   = 8
	DefaultCellSize   = 2 * dynamo.MaxRadius
	DefaultMaxSpeed   = 1500.0
	DefaultCullMargin = 1000.0
)

// Config fixes the world rectangle and the solver constants.
type Config struct {
	Width      float64
	Height     float64
	Gravity    float64
	SubSteps   int
	CellSize   float64
	MaxSpeed   float64
	CullMargin float64
	Optimize   bool
}

func DefaultConfig(width, height float64) Config {
	return Config{
		Width:      width,
		Height:     height,
		Gravity:    DefaultGravity,
		SubSteps:   DefaultSubSteps,
		CellSize:   DefaultCellSize,
		MaxSpeed:   DefaultMaxSpeed,
		CullMargin: DefaultCullMargin,
		Optimize:   true,
	}
}

func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: world size must be positive, got %.1fx%.1f", dynamo.ErrParameterBounds, c.Width, c.Height)
	}
	if c.SubSteps < 1 {
		return fmt.Errorf("%w: sub_steps must be at least 1, got %d", dynamo.ErrParameterBounds, c.SubSteps)
	}
	if c.CellSize < 2*dynamo.MaxRadius {
		return fmt.Errorf("%w: cell_size %.1f is below two max radii (%.1f)", dynamo.ErrParameterBounds, c.CellSize, 2*dynamo.MaxRadius)
	}
	if c.MaxSpeed <= 0 || c.CullMargin < 0 {
		return fmt.Errorf("%w: max_speed must be positive and cull_margin non-negative", dynamo.ErrParameterBounds)
	}
	if math.IsNaN(c.Gravity) || math.IsInf(c.Gravity, 0) {
		return fmt.Errorf("%w: gravity must be finite", dynamo.ErrParameterBounds)
	}
	return nil
}
