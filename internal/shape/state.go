package shape

import "slices"

// DrawingState is everything undo and redo operate on.
type DrawingState struct {
	Strokes []Stroke `json:"strokes"`
	Regions []Region `json:"regions"`
}

// Counts summarises a drawing for status displays.
type Counts struct {
	Rectangles int
	Circles    int
	Strokes    int
}

// Clone returns a deep copy that shares no slices with s.
func (s DrawingState) Clone() DrawingState {
	out := DrawingState{
		Strokes: make([]Stroke, len(s.Strokes)),
		Regions: CloneRegions(s.Regions),
	}
	for i, st := range s.Strokes {
		st.Points = slices.Clone(st.Points)
		out.Strokes[i] = st
	}
	return out
}

// CloneRegions copies a region list.
func CloneRegions(rs []Region) []Region {
	out := make([]Region, len(rs))
	copy(out, rs)
	return out
}

// Empty reports whether there is nothing drawn.
func (s DrawingState) Empty() bool {
	return len(s.Strokes) == 0 && len(s.Regions) == 0
}

// Equal compares two drawings by value. A nil list equals an empty one.
func (s DrawingState) Equal(o DrawingState) bool {
	if !slices.EqualFunc(s.Strokes, o.Strokes, strokeEqual) {
		return false
	}
	return RegionsEqual(s.Regions, o.Regions)
}

func strokeEqual(a, b Stroke) bool {
	return a.ID == b.ID && a.Tool == b.Tool && a.Color == b.Color &&
		a.Width == b.Width && a.Tension == b.Tension && slices.Equal(a.Points, b.Points)
}

// RegionsEqual compares two region lists by value and order.
func RegionsEqual(a, b []Region) bool {
	return slices.Equal(a, b)
}

// Counts tallies shapes by kind.
func (s DrawingState) Counts() Counts {
	c := Counts{Strokes: len(s.Strokes)}
	for _, r := range s.Regions {
		switch r.Kind {
		case Rectangle:
			c.Rectangles++
		case Circle:
			c.Circles++
		}
	}
	return c
}

// RegionIndex returns the position of the region with id, or -1.
func (s DrawingState) RegionIndex(id ID) int {
	return slices.IndexFunc(s.Regions, func(r Region) bool { return r.ID == id })
}

// StrokeIndex returns the position of the stroke with id, or -1.
func (s DrawingState) StrokeIndex(id ID) int {
	return slices.IndexFunc(s.Strokes, func(st Stroke) bool { return st.ID == id })
}

// RegionAt returns the topmost region containing p.
func (s DrawingState) RegionAt(p Point) (Region, bool) {
	for i := len(s.Regions) - 1; i >= 0; i-- {
		if s.Regions[i].Contains(p) {
			return s.Regions[i], true
		}
	}
	return Region{}, false
}

// Remove deletes the stroke or region with id. It reports whether anything
// was removed.
func (s *DrawingState) Remove(id ID) bool {
	if i := s.RegionIndex(id); i >= 0 {
		s.Regions = slices.Delete(s.Regions, i, i+1)
		return true
	}
	if i := s.StrokeIndex(id); i >= 0 {
		s.Strokes = slices.Delete(s.Strokes, i, i+1)
		return true
	}
	return false
}
