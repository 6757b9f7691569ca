// Package shape holds the drawing model of an annotation canvas: freehand
// strokes, rectangle and circle region markers, and the geometry needed to
// hit-test and resize them.
package shape

import (
	"image/color"

	"github.com/google/uuid"
)

// ID identifies a stroke or region for its whole lifetime.
type ID string

// NewID returns a random unique identifier.
func NewID() ID {
	return ID(uuid.NewString())
}

// Tool selects the compositing mode of a stroke.
type Tool int

const (
	Brush Tool = iota
	Eraser
)

func (t Tool) String() string {
	switch t {
	case Brush:
		return "brush"
	case Eraser:
		return "eraser"
	default:
		return "unknown"
	}
}

// Kind discriminates the region union.
type Kind int

const (
	Rectangle Kind = iota
	Circle
)

func (k Kind) String() string {
	switch k {
	case Rectangle:
		return "rectangle"
	case Circle:
		return "circle"
	default:
		return "unknown"
	}
}

const (
	DefaultWidth   = 5.0
	MinWidth       = 1.0
	MaxWidth       = 50.0
	DefaultTension = 0.5
	DefaultOpacity = 0.3
	OutlineWidth   = 2.0
)

var (
	// DefaultColor is the initial brush and region color.
	DefaultColor = color.RGBA{R: 0xff, A: 0xff}
	// EraserColor is recorded on eraser strokes. It never reaches the output.
	EraserColor = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// Point is a position in canvas-local coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Stroke is a freehand polyline. Points are only appended while the
// gesture that created it is open.
type Stroke struct {
	ID      ID         `json:"id"`
	Tool    Tool       `json:"tool"`
	Points  []Point    `json:"points"`
	Color   color.RGBA `json:"color"`
	Width   float64    `json:"strokeWidth"`
	Tension float64    `json:"tension"`
}

// NewStroke seeds a stroke with its first point.
func NewStroke(id ID, tool Tool, start Point, col color.RGBA, width float64) Stroke {
	if tool == Eraser {
		col = EraserColor
	}
	return Stroke{
		ID:      id,
		Tool:    tool,
		Points:  []Point{start},
		Color:   col,
		Width:   ClampWidth(width),
		Tension: DefaultTension,
	}
}

// Append adds a point to the end of the stroke.
func (s *Stroke) Append(p Point) {
	s.Points = append(s.Points, p)
}

// ClampWidth limits a stroke width to the supported brush sizes.
func ClampWidth(w float64) float64 {
	switch {
	case w < MinWidth:
		return MinWidth
	case w > MaxWidth:
		return MaxWidth
	}
	return w
}

// Region is a rectangle or circle marker anchored at X,Y. Width, Height
// and Radius keep the sign they were dragged with.
type Region struct {
	Kind    Kind       `json:"kind"`
	ID      ID         `json:"id"`
	X       float64    `json:"x"`
	Y       float64    `json:"y"`
	Width   float64    `json:"width,omitempty"`
	Height  float64    `json:"height,omitempty"`
	Radius  float64    `json:"radius,omitempty"`
	Color   color.RGBA `json:"color"`
	Opacity float64    `json:"opacity"`
}

// NewRect anchors a zero sized rectangle at p.
func NewRect(id ID, p Point, col color.RGBA, opacity float64) Region {
	return Region{Kind: Rectangle, ID: id, X: p.X, Y: p.Y, Color: col, Opacity: opacity}
}

// NewCircle anchors a zero radius circle at p.
func NewCircle(id ID, p Point, col color.RGBA, opacity float64) Region {
	return Region{Kind: Circle, ID: id, X: p.X, Y: p.Y, Color: col, Opacity: opacity}
}

// Anchor returns the drag-start point of the region.
func (r Region) Anchor() Point {
	return Point{X: r.X, Y: r.Y}
}
