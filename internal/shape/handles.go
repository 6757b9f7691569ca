package shape

import "math"

// Handle names one of the eight resize grips around a selected region.
type Handle int

const (
	HandleNone Handle = iota - 1
	HandleTopLeft
	HandleTop
	HandleTopRight
	HandleRight
	HandleBottomRight
	HandleBottom
	HandleBottomLeft
	HandleLeft
)

// DefaultHandleSize is the edge length of a handle square.
const DefaultHandleSize = 8.0

// DefaultMinSize is the smallest width or height a resize may produce.
const DefaultMinSize = 5.0

// Handles returns the grip squares of box in Handle order.
func Handles(box Box, size float64) [8]Box {
	hs := size / 2
	c := box.Center()
	at := func(x, y float64) Box {
		return Box{Min: Point{X: x - hs, Y: y - hs}, Max: Point{X: x + hs, Y: y + hs}}
	}
	return [8]Box{
		at(box.Min.X, box.Min.Y),
		at(c.X, box.Min.Y),
		at(box.Max.X, box.Min.Y),
		at(box.Max.X, c.Y),
		at(box.Max.X, box.Max.Y),
		at(c.X, box.Max.Y),
		at(box.Min.X, box.Max.Y),
		at(box.Min.X, c.Y),
	}
}

// HandleAt returns the grip of box under p, or HandleNone.
func HandleAt(box Box, size float64, p Point) Handle {
	for i, h := range Handles(box, size) {
		if h.Contains(p) {
			return Handle(i)
		}
	}
	return HandleNone
}

// resizeBox moves the edges attached to h by d and swaps crossed edges.
func resizeBox(b Box, h Handle, d Point) Box {
	switch h {
	case HandleTopLeft:
		b.Min.X += d.X
		b.Min.Y += d.Y
	case HandleTop:
		b.Min.Y += d.Y
	case HandleTopRight:
		b.Min.Y += d.Y
		b.Max.X += d.X
	case HandleRight:
		b.Max.X += d.X
	case HandleBottomRight:
		b.Max.X += d.X
		b.Max.Y += d.Y
	case HandleBottom:
		b.Max.Y += d.Y
	case HandleBottomLeft:
		b.Min.X += d.X
		b.Max.Y += d.Y
	case HandleLeft:
		b.Min.X += d.X
	}
	if b.Min.X > b.Max.X {
		b.Min.X, b.Max.X = b.Max.X, b.Min.X
	}
	if b.Min.Y > b.Max.Y {
		b.Min.Y, b.Max.Y = b.Max.Y, b.Min.Y
	}
	return b
}

// Resize applies a handle drag from down to p to the region as it was when
// the drag started. It returns false, and orig unchanged, when the result
// would be narrower or shorter than minSize.
func Resize(orig Region, h Handle, down, p Point, minSize float64) (Region, bool) {
	if h == HandleNone {
		return orig, false
	}
	out := orig
	switch orig.Kind {
	case Circle:
		dx := math.Abs(p.X - orig.X)
		dy := math.Abs(p.Y - orig.Y)
		var r float64
		switch h {
		case HandleLeft, HandleRight:
			r = dx
		case HandleTop, HandleBottom:
			r = dy
		default:
			r = math.Max(dx, dy)
		}
		if 2*r < minSize {
			return orig, false
		}
		if orig.Radius < 0 {
			r = -r
		}
		out.Radius = r
	default:
		b := resizeBox(orig.Bounds(), h, Point{X: p.X - down.X, Y: p.Y - down.Y})
		w, ht := b.Width(), b.Height()
		if w < minSize || ht < minSize {
			return orig, false
		}
		// keep the sign the rectangle was drawn with
		if orig.Width < 0 {
			out.X, out.Width = b.Max.X, -w
		} else {
			out.X, out.Width = b.Min.X, w
		}
		if orig.Height < 0 {
			out.Y, out.Height = b.Max.Y, -ht
		} else {
			out.Y, out.Height = b.Min.Y, ht
		}
	}
	return out, true
}
