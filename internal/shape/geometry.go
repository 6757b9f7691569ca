package shape

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Box is an axis-aligned rectangle with Min <= Max on both axes.
type Box struct {
	Min, Max Point
}

// NewBox builds a normalized box from two opposite corners.
func NewBox(a, b Point) Box {
	return Box{
		Min: Point{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)},
		Max: Point{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)},
	}
}

func (b Box) Width() float64  { return b.Max.X - b.Min.X }
func (b Box) Height() float64 { return b.Max.Y - b.Min.Y }

// Center returns the midpoint of the box.
func (b Box) Center() Point {
	return Point{X: (b.Min.X + b.Max.X) / 2, Y: (b.Min.Y + b.Max.Y) / 2}
}

// Contains reports whether p lies inside the box, edges included.
func (b Box) Contains(p Point) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Inflate grows the box by d on every side.
func (b Box) Inflate(d float64) Box {
	return Box{
		Min: Point{X: b.Min.X - d, Y: b.Min.Y - d},
		Max: Point{X: b.Max.X + d, Y: b.Max.Y + d},
	}
}

func vec(p Point) r2.Vec { return r2.Vec{X: p.X, Y: p.Y} }

// Distance is the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return r2.Norm(r2.Sub(vec(b), vec(a)))
}

// Bounds returns the normalized bounding box of the region.
func (r Region) Bounds() Box {
	switch r.Kind {
	case Circle:
		rad := math.Abs(r.Radius)
		return Box{
			Min: Point{X: r.X - rad, Y: r.Y - rad},
			Max: Point{X: r.X + rad, Y: r.Y + rad},
		}
	default:
		return NewBox(r.Anchor(), Point{X: r.X + r.Width, Y: r.Y + r.Height})
	}
}

// Contains is the hit test used for selection. Rectangles are tested on
// their normalized box, circles on distance from the center.
func (r Region) Contains(p Point) bool {
	switch r.Kind {
	case Circle:
		return Distance(r.Anchor(), p) <= math.Abs(r.Radius)
	default:
		return r.Bounds().Contains(p)
	}
}

// DragTo sizes the region as if the pointer moved from the anchor to p.
func (r *Region) DragTo(p Point) {
	switch r.Kind {
	case Circle:
		r.Radius = Distance(r.Anchor(), p)
	default:
		r.Width = p.X - r.X
		r.Height = p.Y - r.Y
	}
}

// Translate moves the anchor by d.
func (r *Region) Translate(d Point) {
	r.X += d.X
	r.Y += d.Y
}

// Bounds returns the box covering every point of the stroke, grown by half
// the stroke width.
func (s Stroke) Bounds() Box {
	if len(s.Points) == 0 {
		return Box{}
	}
	b := Box{Min: s.Points[0], Max: s.Points[0]}
	for _, p := range s.Points[1:] {
		b.Min.X = math.Min(b.Min.X, p.X)
		b.Min.Y = math.Min(b.Min.Y, p.Y)
		b.Max.X = math.Max(b.Max.X, p.X)
		b.Max.Y = math.Max(b.Max.Y, p.Y)
	}
	return b.Inflate(s.Width / 2)
}
