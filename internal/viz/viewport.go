package viz

import (
	"math"

	"github.com/san-kum/sandsim/internal/dynamo"
)

// Viewport maps world units onto canvas dots and terminal cells back
// onto world units. The world keeps its aspect ratio; braille dots are
// treated as square.
type Viewport struct {
	Cols, Rows       int
	OffsetX, OffsetY int
	Scale            float64
	worldW, worldH   float64
}

func NewViewport(cols, rows int, worldW, worldH float64) Viewport {
	return Viewport{
		Cols:    cols,
		Rows:    rows,
		OffsetX: canvasPadX,
		OffsetY: canvasPadY,
		Scale:   math.Min(float64(cols*2)/worldW, float64(rows*4)/worldH),
		worldW:  worldW,
		worldH:  worldH,
	}
}

func (v Viewport) ToCanvas(p dynamo.Vec2) (int, int) {
	return int(math.Floor(p.X * v.Scale)), int(math.Floor(p.Y * v.Scale))
}

// ToWorld converts a terminal cell (as reported by mouse events) to the
// world point under the cell's centre. ok is false outside the world.
func (v Viewport) ToWorld(col, row int) (dynamo.Vec2, bool) {
	cx := float64(col-v.OffsetX)*2 + 1
	cy := float64(row-v.OffsetY)*4 + 2
	p := dynamo.Vec2{X: cx / v.Scale, Y: cy / v.Scale}
	ok := p.X >= 0 && p.X < v.worldW && p.Y >= 0 && p.Y < v.worldH
	return p, ok
}

// Dots converts a world length to a dot count.
func (v Viewport) Dots(length float64) int {
	return int(math.Round(length * v.Scale))
}
