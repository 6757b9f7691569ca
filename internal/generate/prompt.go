// Package generate turns annotated prompts into placeholder image and video
// results. Region annotations drawn on the canvas are folded into the
// prompt text so a generator knows where to focus.
package generate

import (
	"fmt"
	"math"
	"strings"

	"github.com/example/mediastudio/internal/shape"
	"github.com/example/mediastudio/internal/theme"
)

// Annotation is the wire form of a region marker.
type Annotation struct {
	ID      string  `json:"id,omitempty"`
	Type    string  `json:"type"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width,omitempty"`
	Height  float64 `json:"height,omitempty"`
	Radius  float64 `json:"radius,omitempty"`
	Color   string  `json:"color,omitempty"`
	Opacity float64 `json:"opacity,omitempty"`
}

// FromRegion converts a canvas region.
func FromRegion(r shape.Region) Annotation {
	a := Annotation{
		ID:      string(r.ID),
		Type:    r.Kind.String(),
		X:       r.X,
		Y:       r.Y,
		Color:   theme.Hex(r.Color),
		Opacity: r.Opacity,
	}
	if r.Kind == shape.Circle {
		a.Radius = r.Radius
	} else {
		a.Width, a.Height = r.Width, r.Height
	}
	return a
}

// FromRegions converts a region list, keeping its order.
func FromRegions(rs []shape.Region) []Annotation {
	out := make([]Annotation, 0, len(rs))
	for _, r := range rs {
		out = append(out, FromRegion(r))
	}
	return out
}

// Describe renders one annotation as "<type> at (x, y) size WxH". Circles
// are sized by their diameter. A marker without extent is "small".
func (a Annotation) Describe() string {
	typ := a.Type
	if typ == "" {
		typ = "annotation"
	}
	w, h := a.Width, a.Height
	if w == 0 && h == 0 && a.Radius != 0 {
		w, h = 2*a.Radius, 2*a.Radius
	}
	size := "small"
	if w != 0 && h != 0 {
		size = fmt.Sprintf("%dx%d", round(w), round(h))
	}
	return fmt.Sprintf("%s at (%d, %d) size %s", typ, round(a.X), round(a.Y), size)
}

// Describe joins the descriptions of every annotation.
func Describe(as []Annotation) string {
	parts := make([]string, len(as))
	for i, a := range as {
		parts[i] = a.Describe()
	}
	return strings.Join(parts, ", ")
}

// EnhanceGenerate builds the prompt for a new image.
func EnhanceGenerate(prompt, negative string, as []Annotation) string {
	out := prompt
	if len(as) > 0 {
		out = prompt + ". Focus on areas marked by: " + Describe(as)
	}
	if negative != "" {
		out += ". Avoid: " + negative
	}
	return out
}

// EnhanceEdit builds the prompt for editing an existing image.
func EnhanceEdit(prompt string, as []Annotation) string {
	if len(as) == 0 {
		return prompt
	}
	return prompt + ". Apply changes to areas marked by: " + Describe(as)
}

// round rounds half up, so -2.5 becomes -2.
func round(v float64) int {
	return int(math.Floor(v + 0.5))
}
