package viz

import (
	"github.com/san-kum/sandsim/internal/dynamo"
	"github.com/san-kum/sandsim/internal/physics"
)

const (
	AttractorForce  = 250000.0
	ObstacleSpacing = 20.0
	wallRadius      = 30.0
	wallWidth       = 60.0
	wallHeight      = 30.0
)

var materialKeys = map[string]dynamo.Material{
	"1": dynamo.Water,
	"2": dynamo.Sand,
	"3": dynamo.Stone,
	"4": dynamo.Fire,
}

// BrushSize is the spawn block laid down per click.
func BrushSize(m dynamo.Material) (cols, rows int) {
	if m == dynamo.Fire {
		return 2, 2
	}
	return 3, 3
}

// Wall builds the obstacle placed by a right click.
func Wall(shape physics.Shape, at dynamo.Vec2) physics.Obstacle {
	if shape == physics.ShapeRect {
		return physics.NewRect(at.X, at.Y, wallWidth, wallHeight)
	}
	return physics.NewCircle(at.X, at.Y, wallRadius)
}

// Brush applies the editing tools to a solver.
type Brush struct {
	Material dynamo.Material
	Shape    physics.Shape
	// Attract is +1 to pull toward the cursor, -1 to push, 0 for off.
	Attract int
}

func NewBrush() Brush {
	return Brush{Material: dynamo.Water, Shape: physics.ShapeCircle}
}

func (b Brush) Spawn(s *physics.Solver, at dynamo.Vec2) int {
	cols, rows := BrushSize(b.Material)
	return s.SpawnRegion(at.X, at.Y, b.Material, cols, rows)
}

// PlaceWall adds a wall unless another obstacle centre is too close.
func (b Brush) PlaceWall(s *physics.Solver, at dynamo.Vec2) bool {
	if !s.CanPlaceObstacle(at.X, at.Y, ObstacleSpacing) {
		return false
	}
	s.AddObstacle(Wall(b.Shape, at))
	return true
}

// Toggle flips between dir and off.
func (b *Brush) Toggle(dir int) {
	if b.Attract == dir {
		b.Attract = 0
		return
	}
	b.Attract = dir
}

// ApplyAttractor places or clears the solver attractor for this frame.
func (b Brush) ApplyAttractor(s *physics.Solver, at dynamo.Vec2, ok bool) {
	if b.Attract == 0 || !ok {
		s.ClearAttractor()
		return
	}
	s.SetAttractor(at.X, at.Y, float64(b.Attract)*AttractorForce)
}
