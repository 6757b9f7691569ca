package canvas

import (
	"image"
	"io"

	"github.com/example/mediastudio/internal/render"
)

// Scene returns the draw list for a render surface. The slices are shared
// with the session and are only valid until the next mutation.
func (s *Session) Scene() render.Scene {
	return render.Scene{
		Size:       s.size,
		Background: s.bg,
		Strokes:    s.state.Strokes,
		Regions:    s.state.Regions,
		Selected:   s.selected,
		HandleSize: s.handleSize,
	}
}

// Snapshot rasterizes the drawing without selection decoration.
func (s *Session) Snapshot() *image.RGBA {
	return render.Snapshot(s.Scene())
}

// Export writes the snapshot encoded by exp.
func (s *Session) Export(w io.Writer, exp render.Exporter) error {
	return exp.Encode(w, s.Snapshot())
}
