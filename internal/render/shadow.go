package render

import (
	"image"
	"image/color"
	"image/draw"
)

// Shadow configures the drop shadow that can be added around an exported
// snapshot.
type Shadow struct {
	Radius  int
	Offset  image.Point
	Opacity float64
}

// DefaultShadow is a soft shadow down and to the right.
func DefaultShadow() Shadow {
	return Shadow{Radius: 24, Offset: image.Pt(16, 16), Opacity: 0.55}
}

// Apply returns img on a larger transparent canvas with a blurred shadow of
// its alpha behind it, and where img's origin landed. A zero opacity returns
// img unchanged.
func (s Shadow) Apply(img *image.RGBA) (*image.RGBA, image.Point) {
	if img == nil || img.Bounds().Empty() || s.Opacity <= 0 {
		return img, image.Point{}
	}
	opacity := min(s.Opacity, 1)
	radius := max(s.Radius, 0)

	src := img.Bounds()
	spread := src.Inset(-radius)
	cast := spread.Add(s.Offset)
	all := src.Union(cast)

	alpha := image.NewAlpha(spread)
	for y := src.Min.Y; y < src.Max.Y; y++ {
		for x := src.Min.X; x < src.Max.X; x++ {
			alpha.SetAlpha(x, y, color.Alpha{A: img.RGBAAt(x, y).A})
		}
	}
	boxBlur(alpha, radius)

	out := image.NewRGBA(all.Sub(all.Min))
	tint := image.NewUniform(color.NRGBA{A: uint8(opacity*255 + 0.5)})
	draw.DrawMask(out, cast.Sub(all.Min), tint, image.Point{}, alpha, spread.Min, draw.Over)
	origin := src.Min.Sub(all.Min)
	draw.Draw(out, src.Sub(all.Min), img, src.Min, draw.Over)
	return out, origin
}

// boxBlur blurs m in place with a separable running-sum box filter.
func boxBlur(m *image.Alpha, radius int) {
	if radius <= 0 {
		return
	}
	b := m.Bounds()
	w, h := b.Dx(), b.Dy()
	line := make([]int, max(w, h))
	pass := func(n int, get func(i int) uint8, set func(i int, v uint8)) {
		for i := 0; i < n; i++ {
			line[i] = int(get(i))
		}
		sum, count := 0, 0
		for i := 0; i < radius && i < n; i++ {
			sum += line[i]
			count++
		}
		for i := 0; i < n; i++ {
			if j := i + radius; j < n {
				sum += line[j]
				count++
			}
			if j := i - radius - 1; j >= 0 {
				sum -= line[j]
				count--
			}
			set(i, uint8(sum/count))
		}
	}
	for y := 0; y < h; y++ {
		row := m.Pix[y*m.Stride:]
		pass(w, func(i int) uint8 { return row[i] }, func(i int, v uint8) { row[i] = v })
	}
	for x := 0; x < w; x++ {
		pass(h, func(i int) uint8 { return m.Pix[i*m.Stride+x] }, func(i int, v uint8) { m.Pix[i*m.Stride+x] = v })
	}
}
