package shape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestRectangleDrag(t *testing.T) {
	r := NewRect("a", Pt(10, 10), DefaultColor, DefaultOpacity)
	r.DragTo(Pt(50, 80))
	assert.Equal(t, 10.0, r.X)
	assert.Equal(t, 10.0, r.Y)
	assert.Equal(t, 40.0, r.Width)
	assert.Equal(t, 70.0, r.Height)

	r.DragTo(Pt(-10, -20))
	assert.Equal(t, -20.0, r.Width, "width keeps its sign")
	assert.Equal(t, -30.0, r.Height, "height keeps its sign")
	assert.True(t, r.Contains(Pt(0, 0)))
	assert.False(t, r.Contains(Pt(11, 0)))
	assert.Equal(t, NewBox(Pt(-10, -20), Pt(10, 10)), r.Bounds())
}

func TestCircleDrag(t *testing.T) {
	c := NewCircle("c", Pt(100, 100), DefaultColor, DefaultOpacity)
	c.DragTo(Pt(103, 104))
	assert.InDelta(t, 5.0, c.Radius, 1e-9)
	assert.True(t, c.Contains(Pt(105, 100)))
	assert.False(t, c.Contains(Pt(104, 104)))
}

func TestStrokeDefaults(t *testing.T) {
	s := NewStroke("s", Eraser, Pt(1, 2), DefaultColor, 80)
	assert.Equal(t, EraserColor, s.Color)
	assert.Equal(t, MaxWidth, s.Width)
	assert.Equal(t, DefaultTension, s.Tension)
	s.Append(Pt(3, 4))
	assert.Equal(t, []Point{{1, 2}, {3, 4}}, s.Points)
	assert.Equal(t, NewBox(Pt(-24, -23), Pt(28, 29)), s.Bounds())
}

func TestCloneIsDeep(t *testing.T) {
	st := DrawingState{
		Strokes: []Stroke{NewStroke("s", Brush, Pt(0, 0), DefaultColor, 5)},
		Regions: []Region{NewRect("r", Pt(1, 1), DefaultColor, DefaultOpacity)},
	}
	cp := st.Clone()
	require.True(t, st.Equal(cp))

	cp.Strokes[0].Append(Pt(9, 9))
	cp.Regions[0].DragTo(Pt(5, 5))
	assert.Len(t, st.Strokes[0].Points, 1)
	assert.Zero(t, st.Regions[0].Width)
	assert.False(t, st.Equal(cp))
}

func TestRemoveAndCounts(t *testing.T) {
	st := DrawingState{
		Strokes: []Stroke{NewStroke("s", Brush, Pt(0, 0), DefaultColor, 5)},
		Regions: []Region{
			NewRect("r", Pt(1, 1), DefaultColor, DefaultOpacity),
			NewCircle("c", Pt(1, 1), DefaultColor, DefaultOpacity),
		},
	}
	assert.Equal(t, Counts{Rectangles: 1, Circles: 1, Strokes: 1}, st.Counts())
	assert.True(t, st.Remove("s"))
	assert.True(t, st.Remove("r"))
	assert.False(t, st.Remove("r"))
	assert.Equal(t, Counts{Circles: 1}, st.Counts())
	assert.Equal(t, -1, st.RegionIndex("r"))
}

func TestRegionAtPrefersTopmost(t *testing.T) {
	a := NewRect("a", Pt(0, 0), DefaultColor, DefaultOpacity)
	a.DragTo(Pt(100, 100))
	b := NewRect("b", Pt(50, 50), DefaultColor, DefaultOpacity)
	b.DragTo(Pt(10, 10))
	st := DrawingState{Regions: []Region{a, b}}

	got, ok := st.RegionAt(Pt(20, 20))
	require.True(t, ok)
	assert.Equal(t, ID("b"), got.ID)

	got, ok = st.RegionAt(Pt(80, 80))
	require.True(t, ok)
	assert.Equal(t, ID("a"), got.ID)

	_, ok = st.RegionAt(Pt(200, 200))
	assert.False(t, ok)
}

func TestHandleAt(t *testing.T) {
	box := NewBox(Pt(10, 10), Pt(50, 30))
	assert.Equal(t, HandleTopLeft, HandleAt(box, 8, Pt(12, 8)))
	assert.Equal(t, HandleBottom, HandleAt(box, 8, Pt(30, 33)))
	assert.Equal(t, HandleLeft, HandleAt(box, 8, Pt(10, 20)))
	assert.Equal(t, HandleNone, HandleAt(box, 8, Pt(30, 20)))
}

func TestResizeRectangle(t *testing.T) {
	r := NewRect("r", Pt(10, 10), DefaultColor, DefaultOpacity)
	r.DragTo(Pt(50, 50))

	got, ok := Resize(r, HandleBottomRight, Pt(50, 50), Pt(70, 60), DefaultMinSize)
	require.True(t, ok)
	assert.Equal(t, 60.0, got.Width)
	assert.Equal(t, 50.0, got.Height)

	got, ok = Resize(r, HandleRight, Pt(50, 30), Pt(12, 30), DefaultMinSize)
	assert.False(t, ok, "a 2px wide box is below the minimum")
	assert.Equal(t, r, got)

	got, ok = Resize(r, HandleLeft, Pt(10, 30), Pt(80, 30), DefaultMinSize)
	require.True(t, ok, "crossing edges swap")
	assert.Equal(t, NewBox(Pt(50, 10), Pt(80, 50)), got.Bounds())
}

func TestResizeKeepsDragSign(t *testing.T) {
	r := NewRect("r", Pt(50, 50), DefaultColor, DefaultOpacity)
	r.DragTo(Pt(10, 10))
	got, ok := Resize(r, HandleTopLeft, Pt(10, 10), Pt(0, 0), DefaultMinSize)
	require.True(t, ok)
	assert.Equal(t, 50.0, got.X)
	assert.Equal(t, -50.0, got.Width)
	assert.Equal(t, -50.0, got.Height)
}

func TestResizeCircle(t *testing.T) {
	c := NewCircle("c", Pt(100, 100), DefaultColor, DefaultOpacity)
	c.DragTo(Pt(110, 100))

	got, ok := Resize(c, HandleRight, Pt(110, 100), Pt(130, 140), DefaultMinSize)
	require.True(t, ok)
	assert.Equal(t, 30.0, got.Radius)

	got, ok = Resize(c, HandleTopLeft, Pt(90, 90), Pt(60, 95), DefaultMinSize)
	require.True(t, ok)
	assert.Equal(t, 40.0, got.Radius)

	_, ok = Resize(c, HandleTop, Pt(100, 90), Pt(100, 98), DefaultMinSize)
	assert.False(t, ok)
}

func TestPropertyRectContainmentIgnoresDragDirection(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		coord := func(name string, limit int) float64 {
			return float64(rapid.IntRange(-limit, limit).Draw(rt, name))
		}
		x0, y0 := coord("x0", 500), coord("y0", 500)
		x1, y1 := coord("x1", 500), coord("y1", 500)
		px, py := coord("px", 600), coord("py", 600)

		forward := NewRect("f", Pt(x0, y0), DefaultColor, DefaultOpacity)
		forward.DragTo(Pt(x1, y1))
		backward := NewRect("b", Pt(x1, y1), DefaultColor, DefaultOpacity)
		backward.DragTo(Pt(x0, y0))

		p := Pt(px, py)
		require.Equal(rt, forward.Contains(p), backward.Contains(p))
		require.Equal(rt, forward.Bounds(), backward.Bounds())
	})
}

func TestPropertyCircleRadiusIsDistance(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ax := rapid.Float64Range(-500, 500).Draw(rt, "ax")
		ay := rapid.Float64Range(-500, 500).Draw(rt, "ay")
		px := rapid.Float64Range(-500, 500).Draw(rt, "px")
		py := rapid.Float64Range(-500, 500).Draw(rt, "py")

		c := NewCircle("c", Pt(ax, ay), DefaultColor, DefaultOpacity)
		c.DragTo(Pt(px, py))
		require.GreaterOrEqual(rt, c.Radius, 0.0)
		require.InDelta(rt, Distance(Pt(px, py), Pt(ax, ay)), c.Radius, 1e-9)
		require.True(rt, c.Bounds().Contains(Pt(ax, ay)))
	})
}
