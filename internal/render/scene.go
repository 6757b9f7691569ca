// Package render composes an annotation scene into pixels and encodes the
// result for export.
package render

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/example/mediastudio/internal/shape"
)

// Scene is the read-only draw list handed to a surface.
type Scene struct {
	Size       image.Point
	Background image.Image
	Strokes    []shape.Stroke
	Regions    []shape.Region
	// Selected names the region that gets resize handles. Empty for none.
	Selected   shape.ID
	HandleSize float64
}

// Style holds the colors of the selection decoration.
type Style struct {
	Outline      color.RGBA
	OutlineAlt   color.RGBA
	HandleFill   color.RGBA
	HandleBorder color.RGBA
}

// DefaultStyle matches a white and black dashed selection frame.
func DefaultStyle() Style {
	return Style{
		Outline:      color.RGBA{255, 255, 255, 255},
		OutlineAlt:   color.RGBA{0, 0, 0, 255},
		HandleFill:   color.RGBA{255, 255, 255, 255},
		HandleBorder: color.RGBA{0, 0, 0, 255},
	}
}

// Snapshot composes background, strokes and regions. Selection decoration
// is left out.
func Snapshot(sc Scene) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, sc.Size.X, sc.Size.Y))
	if dst.Bounds().Empty() {
		return dst
	}
	if sc.Background != nil {
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), sc.Background, sc.Background.Bounds(), draw.Src, nil)
	}

	// Erasers cut through the stroke layer only, never the background.
	strokes := image.NewRGBA(dst.Bounds())
	for _, st := range sc.Strokes {
		paintStroke(strokes, st)
	}
	draw.Draw(dst, dst.Bounds(), strokes, image.Point{}, draw.Over)

	for _, r := range sc.Regions {
		paintRegion(dst, r)
	}
	return dst
}

// Compose renders the scene as a surface shows it, selection included.
func Compose(sc Scene, style Style) *image.RGBA {
	dst := Snapshot(sc)
	if sc.Selected == "" {
		return dst
	}
	for _, r := range sc.Regions {
		if r.ID == sc.Selected {
			decorate(dst, r, sc.HandleSize, style)
			break
		}
	}
	return dst
}

func paintStroke(layer *image.RGBA, st shape.Stroke) {
	mask, bounds := strokeMask(layer.Bounds(), st)
	if mask == nil {
		return
	}
	if st.Tool == shape.Eraser {
		draw.DrawMask(layer, bounds, image.Transparent, image.Point{}, mask, bounds.Min, draw.Src)
		return
	}
	draw.DrawMask(layer, bounds, image.NewUniform(st.Color), image.Point{}, mask, bounds.Min, draw.Over)
}

func paintRegion(dst *image.RGBA, r shape.Region) {
	mask, bounds := regionMask(dst.Bounds(), r)
	if mask == nil {
		return
	}
	src := color.NRGBA{R: r.Color.R, G: r.Color.G, B: r.Color.B, A: scaleAlpha(r.Color.A, r.Opacity)}
	draw.DrawMask(dst, bounds, image.NewUniform(src), image.Point{}, mask, bounds.Min, draw.Over)
}

func scaleAlpha(a uint8, opacity float64) uint8 {
	switch {
	case opacity <= 0:
		return 0
	case opacity >= 1:
		return a
	}
	return uint8(float64(a)*opacity + 0.5)
}
