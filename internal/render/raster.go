package render

import (
	"image"
	"math"

	"golang.org/x/image/vector"

	"github.com/example/mediastudio/internal/shape"
)

// curveSteps is how many line segments approximate one spline segment.
const curveSteps = 8

// path accumulates closed polygons for one rasterizer. All polygons are
// wound the same way so overlapping pieces union instead of cancelling.
type path struct {
	z      *vector.Rasterizer
	origin shape.Point
}

func newPath(bounds image.Rectangle) *path {
	return &path{
		z:      vector.NewRasterizer(bounds.Dx(), bounds.Dy()),
		origin: shape.Pt(float64(bounds.Min.X), float64(bounds.Min.Y)),
	}
}

func signedArea(pts []shape.Point) float64 {
	var a float64
	for i := range pts {
		j := (i + 1) % len(pts)
		a += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return a / 2
}

// polygon adds pts, reversed if needed so the winding is positive, or
// negative when hole is set.
func (p *path) polygon(pts []shape.Point, hole bool) {
	if len(pts) < 3 {
		return
	}
	area := signedArea(pts)
	if area == 0 {
		return
	}
	reverse := (area < 0) != hole
	at := func(i int) (float32, float32) {
		if reverse {
			i = len(pts) - 1 - i
		}
		return float32(pts[i].X - p.origin.X), float32(pts[i].Y - p.origin.Y)
	}
	p.z.MoveTo(at(0))
	for i := 1; i < len(pts); i++ {
		p.z.LineTo(at(i))
	}
	p.z.ClosePath()
}

func (p *path) disc(c shape.Point, r float64) {
	if r <= 0 {
		return
	}
	p.polygon(circlePoints(c, r), false)
}

func (p *path) segment(a, b shape.Point, hw float64) {
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math.Hypot(dx, dy)
	if l == 0 || hw <= 0 {
		return
	}
	nx, ny := -dy/l*hw, dx/l*hw
	p.polygon([]shape.Point{
		{X: a.X + nx, Y: a.Y + ny},
		{X: b.X + nx, Y: b.Y + ny},
		{X: b.X - nx, Y: b.Y - ny},
		{X: a.X - nx, Y: a.Y - ny},
	}, false)
}

func (p *path) box(b shape.Box, hole bool) {
	p.polygon([]shape.Point{
		b.Min,
		{X: b.Max.X, Y: b.Min.Y},
		b.Max,
		{X: b.Min.X, Y: b.Max.Y},
	}, hole)
}

func (p *path) mask(bounds image.Rectangle) *image.Alpha {
	m := image.NewAlpha(bounds)
	p.z.Draw(m, bounds, image.Opaque, image.Point{})
	return m
}

func circlePoints(c shape.Point, r float64) []shape.Point {
	n := int(math.Ceil(r * 2))
	if n < 12 {
		n = 12
	}
	if n > 96 {
		n = 96
	}
	pts := make([]shape.Point, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = shape.Point{X: c.X + r*math.Cos(a), Y: c.Y + r*math.Sin(a)}
	}
	return pts
}

// clip converts a float box to the pixel rectangle covering it, limited to
// the canvas.
func clip(b shape.Box, canvas image.Rectangle) image.Rectangle {
	r := image.Rect(
		int(math.Floor(b.Min.X)), int(math.Floor(b.Min.Y)),
		int(math.Ceil(b.Max.X))+1, int(math.Ceil(b.Max.Y))+1,
	)
	return r.Intersect(canvas)
}

// strokeMask rasterizes a stroke with round caps and joins.
func strokeMask(canvas image.Rectangle, st shape.Stroke) (*image.Alpha, image.Rectangle) {
	if len(st.Points) == 0 {
		return nil, image.Rectangle{}
	}
	bounds := clip(st.Bounds().Inflate(1), canvas)
	if bounds.Empty() {
		return nil, bounds
	}
	hw := st.Width / 2
	pts := smooth(st.Points, st.Tension)
	p := newPath(bounds)
	for i, pt := range pts {
		p.disc(pt, hw)
		if i > 0 {
			p.segment(pts[i-1], pt, hw)
		}
	}
	return p.mask(bounds), bounds
}

// regionMask covers the fill and the outline, which share color and opacity.
func regionMask(canvas image.Rectangle, r shape.Region) (*image.Alpha, image.Rectangle) {
	grow := shape.OutlineWidth / 2
	outer := r.Bounds().Inflate(grow)
	bounds := clip(outer, canvas)
	if bounds.Empty() {
		return nil, bounds
	}
	p := newPath(bounds)
	switch r.Kind {
	case shape.Circle:
		p.disc(r.Anchor(), math.Abs(r.Radius)+grow)
	default:
		p.box(outer, false)
	}
	return p.mask(bounds), bounds
}

// smooth flattens a cardinal spline through pts. A tension of zero keeps
// the polyline as is.
func smooth(pts []shape.Point, tension float64) []shape.Point {
	if tension == 0 || len(pts) < 3 {
		return pts
	}
	n := len(pts)
	before := make([]shape.Point, n)
	after := make([]shape.Point, n)
	for i := 1; i < n-1; i++ {
		before[i], after[i] = controlPoints(pts[i-1], pts[i], pts[i+1], tension)
	}
	out := []shape.Point{pts[0]}
	out = appendQuad(out, pts[0], before[1], pts[1])
	for i := 1; i < n-2; i++ {
		out = appendCubic(out, pts[i], after[i], before[i+1], pts[i+1])
	}
	out = appendQuad(out, pts[n-2], after[n-2], pts[n-1])
	return out
}

func controlPoints(p0, p1, p2 shape.Point, t float64) (shape.Point, shape.Point) {
	d01 := shape.Distance(p0, p1)
	d12 := shape.Distance(p1, p2)
	if d01+d12 == 0 {
		return p1, p1
	}
	fa := t * d01 / (d01 + d12)
	fb := t * d12 / (d01 + d12)
	dx, dy := p2.X-p0.X, p2.Y-p0.Y
	return shape.Point{X: p1.X - fa*dx, Y: p1.Y - fa*dy},
		shape.Point{X: p1.X + fb*dx, Y: p1.Y + fb*dy}
}

func appendQuad(out []shape.Point, a, c, b shape.Point) []shape.Point {
	for i := 1; i <= curveSteps; i++ {
		t := float64(i) / curveSteps
		u := 1 - t
		out = append(out, shape.Point{
			X: u*u*a.X + 2*u*t*c.X + t*t*b.X,
			Y: u*u*a.Y + 2*u*t*c.Y + t*t*b.Y,
		})
	}
	return out
}

func appendCubic(out []shape.Point, a, c1, c2, b shape.Point) []shape.Point {
	for i := 1; i <= curveSteps; i++ {
		t := float64(i) / curveSteps
		u := 1 - t
		out = append(out, shape.Point{
			X: u*u*u*a.X + 3*u*u*t*c1.X + 3*u*t*t*c2.X + t*t*t*b.X,
			Y: u*u*u*a.Y + 3*u*u*t*c1.Y + 3*u*t*t*c2.Y + t*t*t*b.Y,
		})
	}
	return out
}
