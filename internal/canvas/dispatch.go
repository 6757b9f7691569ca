package canvas

import (
	"go.uber.org/zap"

	"github.com/example/mediastudio/internal/shape"
)

// grab records the region under a select-tool gesture as it was on
// pointer-down.
type grab struct {
	handle shape.Handle
	down   shape.Point
	orig   shape.Region
}

// PointerDown starts a gesture at p. It reports whether anything visible
// changed. A second pointer-down during an open gesture is ignored.
func (s *Session) PointerDown(p shape.Point) bool {
	if s.mode != Idle {
		s.logger.Debug("pointer down ignored", zap.Stringer("mode", s.mode))
		return false
	}
	switch s.tool {
	case Select:
		return s.selectDown(p)
	case Brush, Eraser:
		kind := shape.Brush
		if s.tool == Eraser {
			kind = shape.Eraser
		}
		st := shape.NewStroke(s.newID(), kind, p, s.color, s.width)
		s.state.Strokes = append(s.state.Strokes, st)
		s.open = st.ID
	case Rectangle, Circle:
		var r shape.Region
		if s.tool == Circle {
			r = shape.NewCircle(s.newID(), p, s.color, s.opacity)
		} else {
			r = shape.NewRect(s.newID(), p, s.color, s.opacity)
		}
		s.state.Regions = append(s.state.Regions, r)
		s.open = r.ID
		s.notify()
	default:
		return false
	}
	s.mode = Drawing
	return true
}

// PointerMove extends the open shape, or moves or resizes the grabbed
// region. Without an open gesture it does nothing.
func (s *Session) PointerMove(p shape.Point) bool {
	switch s.mode {
	case Drawing:
		if i := s.state.StrokeIndex(s.open); i >= 0 {
			s.state.Strokes[i].Append(p)
			return true
		}
		if i := s.state.RegionIndex(s.open); i >= 0 {
			s.state.Regions[i].DragTo(p)
			s.notify()
			return true
		}
	case Transforming:
		return s.transformMove(p)
	}
	return false
}

// PointerUp ends the gesture and commits it to history. The position of
// the release is not recorded; the last move already placed the shape.
func (s *Session) PointerUp(shape.Point) bool {
	switch s.mode {
	case Drawing:
		s.commit(s.drawEvent())
		s.open = ""
	case Transforming:
		s.transformEnd()
	default:
		return false
	}
	s.mode = Idle
	if s.pending != nil {
		s.tool = *s.pending
		s.pending = nil
	}
	return true
}

// Cancel abandons the open gesture. A drawn shape is removed and a
// transformed region returns to where it started; nothing is committed.
func (s *Session) Cancel() bool {
	switch s.mode {
	case Drawing:
		s.state.Remove(s.open)
		s.open = ""
		if s.tool == Rectangle || s.tool == Circle {
			s.notify()
		}
	case Transforming:
		if i := s.state.RegionIndex(s.grab.orig.ID); i >= 0 && s.state.Regions[i] != s.grab.orig {
			s.state.Regions[i] = s.grab.orig
			s.notify()
		}
	default:
		return false
	}
	s.mode = Idle
	if s.pending != nil {
		s.tool = *s.pending
		s.pending = nil
	}
	return true
}

func (s *Session) drawEvent() string {
	switch s.tool {
	case Eraser:
		return EventErase
	case Rectangle:
		return EventRectangle
	case Circle:
		return EventCircle
	default:
		return EventStroke
	}
}
