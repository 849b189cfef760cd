package viz

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/sandsim/internal/dynamo"
)

var (
	background    = colorful.Color{R: 20.0 / 255, G: 20.0 / 255, B: 30.0 / 255}
	obstacleColor = colorful.Color{R: 0.55, G: 0.55, B: 0.6}
	sleepDim      = 0.7
)

func fromRGB(c dynamo.RGB) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// Shade returns the display colour of a particle. Gases fade into the
// background as their life runs out; sleepers are dimmed.
func Shade(p *dynamo.Particle) colorful.Color {
	c := fromRGB(p.Color)
	switch {
	case p.Material.IsGas():
		alpha := math.Max(0, math.Min(1, p.Life))
		c = background.BlendRgb(c, alpha)
	case p.Sleeping:
		c = colorful.Color{R: c.R * sleepDim, G: c.G * sleepDim, B: c.B * sleepDim}
	}
	return c.Clamped()
}
