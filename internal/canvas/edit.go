package canvas

import (
	"github.com/example/mediastudio/internal/shape"
)

// Undo steps back one history entry. It is a no-op at the oldest entry or
// during a gesture.
func (s *Session) Undo() bool {
	if s.mode != Idle {
		return false
	}
	st, ok := s.hist.Undo()
	if !ok {
		return false
	}
	s.install(st)
	s.observe(EventUndo)
	return true
}

// Redo steps forward one history entry. It is a no-op at the newest entry
// or during a gesture.
func (s *Session) Redo() bool {
	if s.mode != Idle {
		return false
	}
	st, ok := s.hist.Redo()
	if !ok {
		return false
	}
	s.install(st)
	s.observe(EventRedo)
	return true
}

// Clear removes every stroke and region and commits the empty drawing, so
// it can be undone. The background image stays.
func (s *Session) Clear() bool {
	if s.mode != Idle {
		return false
	}
	had := len(s.state.Regions) > 0
	s.state = shape.DrawingState{}
	s.selected = ""
	s.commit(EventClear)
	if had {
		s.notify()
	}
	return true
}

func (s *Session) install(st shape.DrawingState) {
	changed := !shape.RegionsEqual(s.state.Regions, st.Regions)
	s.state = st
	if s.selected != "" && s.state.RegionIndex(s.selected) < 0 {
		s.selected = ""
	}
	if changed {
		s.notify()
	}
}
