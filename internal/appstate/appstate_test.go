package appstate

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/mediastudio/internal/canvas"
	"github.com/example/mediastudio/internal/shape"
)

func newTestApp(t *testing.T, opts ...Option) *AppState {
	t.Helper()
	n := 0
	sess := canvas.New(
		canvas.WithMaxSize(200, 100),
		canvas.WithIDs(func() shape.ID { n++; return shape.ID(string(rune('a' + n - 1))) }),
	)
	a := New(opts...)
	a.Attach(sess)
	a.resize(a.width, a.height)
	return a
}

func press(a *AppState, x, y float32) bool {
	return a.handleMouse(mouse.Event{X: x, Y: y, Button: mouse.ButtonLeft, Direction: mouse.DirPress})
}

func moveTo(a *AppState, x, y float32) bool {
	return a.handleMouse(mouse.Event{X: x, Y: y, Direction: mouse.DirNone})
}

func release(a *AppState, x, y float32) bool {
	return a.handleMouse(mouse.Event{X: x, Y: y, Button: mouse.ButtonLeft, Direction: mouse.DirRelease})
}

func typeRune(a *AppState, r rune, mods key.Modifiers) bool {
	return a.handleKey(key.Event{Rune: r, Modifiers: mods, Direction: key.DirPress})
}

func TestPreferredSizeFitsCanvasAtFullScale(t *testing.T) {
	a := newTestApp(t)
	if a.zoom != 1 {
		t.Fatalf("zoom = %v, want 1", a.zoom)
	}
	if got := a.canvasRect().Size(); got != image.Pt(200, 100) {
		t.Fatalf("canvas rect size = %v", got)
	}
}

func TestDragDrawsRectangleInCanvasCoordinates(t *testing.T) {
	a := newTestApp(t)
	if !typeRune(a, 'r', 0) {
		t.Fatalf("r should be a shortcut")
	}
	if a.Session.Tool() != canvas.Rectangle {
		t.Fatalf("tool = %v", a.Session.Tool())
	}
	o := a.canvasOrigin()
	ox, oy := float32(o.X), float32(o.Y)
	press(a, ox+10, oy+10)
	moveTo(a, ox+50, oy+80)
	release(a, ox+50, oy+80)

	rs := a.Session.Regions()
	if len(rs) != 1 {
		t.Fatalf("regions = %d, want 1", len(rs))
	}
	r := rs[0]
	if r.X != 10 || r.Y != 10 || r.Width != 40 || r.Height != 70 {
		t.Fatalf("region = %+v", r)
	}
	if a.Session.Mode() != canvas.Idle {
		t.Fatalf("mode = %v", a.Session.Mode())
	}

	typeRune(a, 'z', key.ModControl)
	if n := len(a.Session.Regions()); n != 0 {
		t.Fatalf("after undo regions = %d", n)
	}
	typeRune(a, 'Z', key.ModControl|key.ModShift)
	if n := len(a.Session.Regions()); n != 1 {
		t.Fatalf("after redo regions = %d", n)
	}
}

func TestDragContinuesOutsideCanvas(t *testing.T) {
	a := newTestApp(t)
	o := a.canvasOrigin()
	ox, oy := float32(o.X), float32(o.Y)
	press(a, ox+5, oy+5)
	moveTo(a, 1, 1)
	release(a, 1, 1)
	strokes := a.Session.State().Strokes
	if len(strokes) != 1 {
		t.Fatalf("strokes = %d, want 1", len(strokes))
	}
	pts := strokes[0].Points
	if last := pts[len(pts)-1]; last != shape.Pt(0, 0) {
		t.Fatalf("last point = %v, want clamped to (0,0)", last)
	}
	if a.pressed {
		t.Fatalf("pointer should be released")
	}
}

func TestPressOutsideCanvasIsIgnored(t *testing.T) {
	a := newTestApp(t)
	a.zoomed = true
	a.resize(a.width+300, a.height+200)
	typeRune(a, 'r', 0)
	c := a.canvasRect()
	x, y := float32(c.Max.X+100), float32(c.Max.Y+50)
	press(a, x, y)
	moveTo(a, x+20, y+16)
	release(a, x+20, y+16)
	if a.pressed {
		t.Fatalf("press outside the canvas should not start a gesture")
	}
	if n := len(a.Session.Regions()); n != 0 {
		t.Fatalf("regions = %d, want 0", n)
	}
}

func TestDragClampsToFarCanvasEdge(t *testing.T) {
	a := newTestApp(t)
	typeRune(a, 'r', 0)
	o := a.canvasOrigin()
	press(a, float32(o.X+150), float32(o.Y+50))
	moveTo(a, float32(o.X+900), float32(o.Y+900))
	release(a, float32(o.X+900), float32(o.Y+900))
	rs := a.Session.Regions()
	if len(rs) != 1 {
		t.Fatalf("regions = %d, want 1", len(rs))
	}
	if r := rs[0]; r.X+r.Width != 200 || r.Y+r.Height != 100 {
		t.Fatalf("region = %+v, want far corner at (200,100)", r)
	}
}

func TestToolbarSelection(t *testing.T) {
	a := newTestApp(t)
	circle := a.toolButtons[len(a.toolButtons)-1].Rect()
	press(a, float32(circle.Min.X+2), float32(circle.Min.Y+2))
	if a.Session.Tool() != canvas.Circle {
		t.Fatalf("tool = %v, want circle", a.Session.Tool())
	}

	blue := a.paletteRects[4]
	press(a, float32(blue.Min.X+1), float32(blue.Min.Y+1))
	if got := a.Session.Color(); got != (color.RGBA{0, 0, 255, 255}) {
		t.Fatalf("color = %v", got)
	}

	last := a.widthRects[len(a.widthRects)-1]
	press(a, float32(last.Min.X+1), float32(last.Min.Y+1))
	if got := a.Session.Width(); got != 50 {
		t.Fatalf("width = %v, want 50", got)
	}
	typeRune(a, '[', 0)
	if got := a.Session.Width(); got != 20 {
		t.Fatalf("width = %v, want 20", got)
	}
}

func TestShortcutBarTriggersAction(t *testing.T) {
	a := newTestApp(t)
	o := a.canvasOrigin()
	press(a, float32(o.X+5), float32(o.Y+5))
	release(a, float32(o.X+5), float32(o.Y+5))
	for _, sc := range a.shortcuts {
		if sc.name == "clear" {
			press(a, float32(sc.rect.Min.X+2), float32(sc.rect.Min.Y+2))
		}
	}
	if got := a.Session.Counts().Strokes; got != 0 {
		t.Fatalf("strokes after clear = %d", got)
	}
	if !a.Session.CanUndo() {
		t.Fatalf("clear should be undoable")
	}
}

func TestSaveAndCopy(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.png")
	a := newTestApp(t, WithOutput(out))
	var copied image.Image
	a.copyImage = func(img image.Image) error { copied = img; return nil }

	if err := a.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if format != "png" || cfg.Width != 200 || cfg.Height != 100 {
		t.Fatalf("saved %s %dx%d", format, cfg.Width, cfg.Height)
	}
	if a.message != "saved "+out {
		t.Fatalf("message = %q", a.message)
	}

	if err := a.Copy(); err != nil {
		t.Fatalf("copy: %v", err)
	}
	if copied == nil || copied.Bounds().Size() != image.Pt(200, 100) {
		t.Fatalf("copied = %v", copied)
	}

	a.copyImage = func(image.Image) error { return errors.New("no clipboard") }
	if err := a.Copy(); err == nil {
		t.Fatalf("expected copy error")
	}
}

func TestPostQueuesUntilWindowOpens(t *testing.T) {
	a := newTestApp(t)
	ran := 0
	a.Post(func() { ran++ })
	var sent []any
	pending := a.setSender(func(e any) { sent = append(sent, e) })
	if len(pending) != 1 {
		t.Fatalf("pending = %d", len(pending))
	}
	a.Post(func() { ran++ })
	if len(sent) != 1 {
		t.Fatalf("sent = %d", len(sent))
	}
	for _, fn := range pending {
		a.runPosted(fn)
	}
	a.runPosted(sent[0].(postEvent).fn)
	if ran != 2 {
		t.Fatalf("ran = %d", ran)
	}
}

func TestRenderFrame(t *testing.T) {
	a := newTestApp(t)
	dst := image.NewRGBA(image.Rect(0, 0, a.width, a.height))
	a.render(dst)
	if got := dst.RGBAAt(a.width-1, 1); got != a.Theme.ToolbarBackground {
		t.Fatalf("title bar pixel = %v", got)
	}
	cr := a.canvasRect()
	if got := dst.RGBAAt(cr.Min.X, cr.Min.Y); got != a.Theme.CheckerLight {
		t.Fatalf("canvas corner = %v, want checker", got)
	}
}

func TestEnsureWidthKeepsOrder(t *testing.T) {
	idx := EnsureWidth(7)
	ws := WidthOptions()
	if ws[idx] != 7 {
		t.Fatalf("widths[%d] = %d", idx, ws[idx])
	}
	for i := 1; i < len(ws); i++ {
		if ws[i-1] >= ws[i] {
			t.Fatalf("widths not sorted: %v", ws)
		}
	}
	if again := EnsureWidth(7); again != idx {
		t.Fatalf("second insert moved index %d -> %d", idx, again)
	}
}
