package background

import (
	"image"
	"math"
)

const (
	DefaultMaxWidth  = 800
	DefaultMaxHeight = 600
)

// Fit scales an image of size w×h by min(maxW/w, maxH/h), keeping its aspect
// ratio. Images smaller than the bounds are scaled up, as the canvas always
// fills the available area.
func Fit(w, h, maxW, maxH int) image.Point {
	if w <= 0 || h <= 0 || maxW <= 0 || maxH <= 0 {
		return image.Point{}
	}
	ratio := math.Min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	return image.Point{
		X: int(math.Round(float64(w) * ratio)),
		Y: int(math.Round(float64(h) * ratio)),
	}
}
