package canvas

import (
	"github.com/example/mediastudio/internal/shape"
)

// Selected returns the selected region id.
func (s *Session) Selected() (shape.ID, bool) {
	return s.selected, s.selected != ""
}

// SelectedRegion resolves the selection against the current drawing.
func (s *Session) SelectedRegion() (shape.Region, bool) {
	if s.selected == "" {
		return shape.Region{}, false
	}
	i := s.state.RegionIndex(s.selected)
	if i < 0 {
		return shape.Region{}, false
	}
	return s.state.Regions[i], true
}

// Select makes id the selection. An empty id clears it. Ids that do not
// name a region are ignored. It reports whether the selection changed.
func (s *Session) Select(id shape.ID) bool {
	if id != "" && s.state.RegionIndex(id) < 0 {
		return false
	}
	if id == s.selected {
		return false
	}
	s.selected = id
	return true
}

// Delete removes the selected region and commits. Without a selection it
// does nothing.
func (s *Session) Delete() bool {
	if s.mode != Idle || s.selected == "" {
		return false
	}
	return s.Remove(s.selected)
}

// Remove deletes the stroke or region with id and commits. Unknown ids
// are ignored.
func (s *Session) Remove(id shape.ID) bool {
	if s.mode != Idle || id == "" {
		return false
	}
	region := s.state.RegionIndex(id) >= 0
	if !s.state.Remove(id) {
		return false
	}
	if s.selected == id {
		s.selected = ""
	}
	s.commit(EventDelete)
	if region {
		s.notify()
	}
	return true
}

func (s *Session) selectDown(p shape.Point) bool {
	if r, ok := s.SelectedRegion(); ok {
		if h := shape.HandleAt(r.Bounds(), s.handleSize, p); h != shape.HandleNone {
			s.startTransform(r, h, p)
			return false
		}
	}
	r, ok := s.state.RegionAt(p)
	if !ok {
		if s.selected == "" {
			return false
		}
		s.selected = ""
		return true
	}
	changed := s.selected != r.ID
	s.selected = r.ID
	s.startTransform(r, shape.HandleNone, p)
	return changed
}

func (s *Session) startTransform(r shape.Region, h shape.Handle, p shape.Point) {
	s.grab = grab{handle: h, down: p, orig: r}
	s.mode = Transforming
}

func (s *Session) transformMove(p shape.Point) bool {
	i := s.state.RegionIndex(s.grab.orig.ID)
	if i < 0 {
		return false
	}
	next := s.grab.orig
	if s.grab.handle == shape.HandleNone {
		next.Translate(shape.Pt(p.X-s.grab.down.X, p.Y-s.grab.down.Y))
	} else {
		r, ok := shape.Resize(s.grab.orig, s.grab.handle, s.grab.down, p, s.minSize)
		if !ok {
			return false
		}
		next = r
	}
	if next == s.state.Regions[i] {
		return false
	}
	s.state.Regions[i] = next
	s.notify()
	return true
}

func (s *Session) transformEnd() {
	i := s.state.RegionIndex(s.grab.orig.ID)
	if i < 0 || s.state.Regions[i] == s.grab.orig {
		return
	}
	if s.grab.handle == shape.HandleNone {
		s.commit(EventMove)
	} else {
		s.commit(EventResize)
	}
}
