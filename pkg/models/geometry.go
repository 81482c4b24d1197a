package models

import "math"

// Point is a position in canonical page space (0° rotation, 1.0 scale).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// DistanceToSegment returns the shortest distance from p to the segment ab.
func (p Point) DistanceToSegment(a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y

	lengthSq := dx*dx + dy*dy
	if lengthSq == 0 {
		return p.Distance(a)
	}

	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lengthSq
	t = math.Max(0, math.Min(1, t))

	closest := Point{
		X: a.X + t*dx,
		Y: a.Y + t*dy,
	}
	return p.Distance(closest)
}

// Rect is an axis-aligned box with its origin at the top-left corner.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) Center() Point {
	return Point{
		X: r.X + r.Width/2,
		Y: r.Y + r.Height/2,
	}
}

func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

type PageDimensions struct {
	Width  float64
	Height float64
}
