package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/example/mediastudio/internal/shape"
)

const dashLength = 4

func pixelRect(b shape.Box) image.Rectangle {
	return image.Rect(
		int(math.Round(b.Min.X)), int(math.Round(b.Min.Y)),
		int(math.Round(b.Max.X)), int(math.Round(b.Max.Y)),
	)
}

// decorate draws the dashed frame and the eight resize handles of r.
func decorate(dst *image.RGBA, r shape.Region, handleSize float64, style Style) {
	if handleSize <= 0 {
		handleSize = shape.DefaultHandleSize
	}
	box := r.Bounds()
	dashedRect(dst, pixelRect(box), style.Outline, style.OutlineAlt)
	for _, h := range shape.Handles(box, handleSize) {
		hr := pixelRect(h)
		draw.Draw(dst, hr.Intersect(dst.Bounds()), image.NewUniform(style.HandleFill), image.Point{}, draw.Src)
		outlineRect(dst, hr, style.HandleBorder)
	}
}

// dashedRect walks the perimeter clockwise switching color every dash.
func dashedRect(dst *image.RGBA, r image.Rectangle, c1, c2 color.RGBA) {
	if r.Dx() == 0 && r.Dy() == 0 {
		return
	}
	step := 0
	plot := func(x, y int) {
		c := c1
		if (step/dashLength)%2 == 1 {
			c = c2
		}
		if image.Pt(x, y).In(dst.Bounds()) {
			dst.SetRGBA(x, y, c)
		}
		step++
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		plot(x, r.Min.Y)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		plot(r.Max.X, y)
	}
	for x := r.Max.X; x > r.Min.X; x-- {
		plot(x, r.Max.Y)
	}
	for y := r.Max.Y; y > r.Min.Y; y-- {
		plot(r.Min.X, y)
	}
}

func outlineRect(dst *image.RGBA, r image.Rectangle, c color.RGBA) {
	if r.Empty() {
		return
	}
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1),
		image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y),
		image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(dst, e.Intersect(dst.Bounds()), image.NewUniform(c), image.Point{}, draw.Src)
	}
}
