package physics

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/sandsim/internal/dynamo"
)

type Shape uint8

const (
	ShapeCircle Shape = iota
	ShapeRect
)

func (s Shape) String() string {
	switch s {
	case ShapeCircle:
		return "circle"
	case ShapeRect:
		return "rect"
	}
	return fmt.Sprintf("shape(%d)", uint8(s))
}

func ParseShape(s string) (Shape, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "circle":
		return ShapeCircle, nil
	case "rect", "rectangle":
		return ShapeRect, nil
	}
	return 0, fmt.Errorf("%w: %q", dynamo.ErrUnknownShape, s)
}

// Obstacle is a static collider. Resolve pushes an overlapping particle
// out and softly damps its velocity; it reports whether it did anything.
type Obstacle interface {
	Shape() Shape
	Center() dynamo.Vec2
	Resolve(p *dynamo.Particle) bool
}

const obstacleFrictionBlend = 0.1

// dampAgainstObstacle pulls Prev toward Pos so the particle keeps
// 99% (water) or 92% (everything else) of its implicit velocity.
func dampAgainstObstacle(p *dynamo.Particle) {
	friction := 0.8
	if p.Material == dynamo.Water {
		friction = 0.1
	}
	k := friction * obstacleFrictionBlend
	p.Prev = p.Prev.Add(p.Pos.Sub(p.Prev).Scale(k))
}

type Circle struct {
	Pos    dynamo.Vec2
	Radius float64
}

func NewCircle(x, y, radius float64) *Circle {
	return &Circle{Pos: dynamo.Vec2{X: x, Y: y}, Radius: radius}
}

func (c *Circle) Shape() Shape        { return ShapeCircle }
func (c *Circle) Center() dynamo.Vec2 { return c.Pos }

// Resolve is a no-op when the particle sits exactly on the centre: the
// push-out normal is undefined there.
func (c *Circle) Resolve(p *dynamo.Particle) bool {
	d := p.Pos.Sub(c.Pos)
	distSq := d.LenSq()
	minDist := c.Radius + p.Radius
	if !(distSq < minDist*minDist) {
		return false
	}
	dist := math.Sqrt(distSq)
	if dist == 0 {
		return false
	}

	n := d.Scale(1 / dist)
	p.Pos = p.Pos.Add(n.Scale(minDist - dist))
	dampAgainstObstacle(p)
	return true
}

// Rect is an axis-aligned box given by its centre and half extents.
type Rect struct {
	Pos          dynamo.Vec2
	HalfW, HalfH float64
}

// NewRect takes full width and height.
func NewRect(x, y, w, h float64) *Rect {
	return &Rect{Pos: dynamo.Vec2{X: x, Y: y}, HalfW: w / 2, HalfH: h / 2}
}

func (r *Rect) Shape() Shape        { return ShapeRect }
func (r *Rect) Center() dynamo.Vec2 { return r.Pos }

// Resolve moves the particle to the nearest face of the box inflated by
// its radius. Equal depths resolve left, right, top, bottom in that order.
func (r *Rect) Resolve(p *dynamo.Particle) bool {
	left := r.Pos.X - r.HalfW - p.Radius
	right := r.Pos.X + r.HalfW + p.Radius
	top := r.Pos.Y - r.HalfH - p.Radius
	bottom := r.Pos.Y + r.HalfH + p.Radius

	x, y := p.Pos.X, p.Pos.Y
	if !(x > left && x < right && y > top && y < bottom) {
		return false
	}

	dl := x - left
	dr := right - x
	dt := y - top
	db := bottom - y
	m := math.Min(math.Min(dl, dr), math.Min(dt, db))

	switch m {
	case dl:
		p.Pos.X = left
	case dr:
		p.Pos.X = right
	case dt:
		p.Pos.Y = top
	default:
		p.Pos.Y = bottom
	}

	dampAgainstObstacle(p)
	return true
}
