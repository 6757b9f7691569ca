// Package appstate runs the interactive annotation window. It turns shiny
// pointer and key events into canvas session calls and paints the session
// scene with a toolbar and a status bar around it.
package appstate

import (
	"context"
	"fmt"
	"image"
	"os"
	"sync"
	"time"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/mediastudio/internal/background"
	"github.com/example/mediastudio/internal/canvas"
	"github.com/example/mediastudio/internal/clipboard"
	"github.com/example/mediastudio/internal/notify"
	"github.com/example/mediastudio/internal/platform"
	"github.com/example/mediastudio/internal/render"
	"github.com/example/mediastudio/internal/shape"
	"github.com/example/mediastudio/internal/theme"
)

const (
	titleHeight  = 24
	bottomHeight = 24
	rowHeight    = 24
	swatchSize   = 16
	messageTTL   = 2 * time.Second
)

// AppState holds the window state around a canvas session. Every method
// other than Post must be called from the window's event goroutine.
type AppState struct {
	Session  *canvas.Session
	Theme    *theme.Theme
	Output   string
	Exporter render.Exporter
	Notifier *notify.Notifier
	Title    string

	logger    *zap.Logger
	copyImage func(image.Image) error
	now       func() time.Time
	onClose   func()
	closeOnce sync.Once

	postMu  sync.Mutex
	send    func(any)
	pending []func()

	width, height int
	toolbarWidth  int
	zoom          float64
	zoomed        bool
	pressed       bool
	quit          bool
	paintQueued   bool

	colorIdx int
	widthIdx int

	message      string
	messageUntil time.Time

	toolButtons  []*CacheButton
	paletteRects []image.Rectangle
	widthRects   []image.Rectangle
	shortcuts    []*Shortcut
	hover        hoverState

	actions        map[string]func()
	keyboardAction map[KeyShortcut]string
}

type hoverState struct {
	tool, palette, width, shortcut int
}

func noHover() hoverState { return hoverState{-1, -1, -1, -1} }

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithTheme sets the window colors.
func WithTheme(t *theme.Theme) Option { return func(a *AppState) { a.Theme = t } }

// WithOutput sets the export file path.
func WithOutput(out string) Option { return func(a *AppState) { a.Output = out } }

// WithExporter sets the export encoder.
func WithExporter(e render.Exporter) Option { return func(a *AppState) { a.Exporter = e } }

// WithNotifier reports exports and copies through n.
func WithNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.Notifier = n } }

// WithTitle sets the window title.
func WithTitle(title string) Option { return func(a *AppState) { a.Title = title } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(a *AppState) { a.logger = l } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates an AppState. Attach a session before running it.
func New(opts ...Option) *AppState {
	a := &AppState{
		Theme:     theme.Default(),
		Output:    render.DefaultFileName,
		Title:     platform.DefaultAppName,
		logger:    zap.NewNop(),
		copyImage: clipboard.WriteImage,
		now:       time.Now,
		zoom:      1,
		colorIdx:  defaultColorIndex,
		widthIdx:  defaultWidthIndex,
		hover:     noHover(),
	}
	for _, o := range opts {
		o(a)
	}
	a.Exporter.Format = render.FormatForPath(a.Output)
	a.registerActions()
	return a
}

// Attach binds the session the window edits and syncs the brush selectors
// with the session settings.
func (a *AppState) Attach(s *canvas.Session) {
	a.Session = s
	a.colorIdx = EnsurePaletteColor(s.Color(), "")
	a.widthIdx = EnsureWidth(int(s.Width()))
	a.width, a.height = a.preferredSize()
	a.layout()
}

// Post runs fn on the event goroutine. It is safe to call from any
// goroutine and is meant for canvas.WithPost. Calls made before the window
// opens run once it does.
func (a *AppState) Post(fn func()) {
	a.postMu.Lock()
	send := a.send
	if send == nil {
		a.pending = append(a.pending, fn)
	}
	a.postMu.Unlock()
	if send != nil {
		send(postEvent{fn: fn})
	}
}

type postEvent struct{ fn func() }

func (a *AppState) setSender(send func(any)) []func() {
	a.postMu.Lock()
	defer a.postMu.Unlock()
	a.send = send
	p := a.pending
	a.pending = nil
	return p
}

func (a *AppState) runPosted(fn func()) {
	fn()
	if !a.zoomed {
		a.zoom = a.fitZoom()
	}
}

// Flash shows msg over the canvas for a short while.
func (a *AppState) Flash(msg string) {
	a.message = msg
	a.messageUntil = a.now().Add(messageTTL)
	a.logger.Info(msg)
}

func (a *AppState) flashing() bool {
	return a.message != "" && a.now().Before(a.messageUntil)
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		a.setSender(nil)
		if a.onClose != nil {
			a.onClose()
		}
	})
}

func (a *AppState) register(name string, keys []KeyShortcut, fn func()) {
	a.actions[name] = fn
	for _, sc := range keys {
		a.keyboardAction[sc] = name
	}
}

func (a *AppState) registerActions() {
	a.actions = map[string]func(){}
	a.keyboardAction = map[KeyShortcut]string{}
	ctrl := key.ModControl

	tools := map[canvas.Tool]rune{
		canvas.Select: 's', canvas.Brush: 'b', canvas.Eraser: 'e',
		canvas.Rectangle: 'r', canvas.Circle: 'o',
	}
	for t, r := range tools {
		a.register(t.String(), []KeyShortcut{{Rune: r}}, func() { a.Session.SetTool(t) })
	}

	a.register("undo", []KeyShortcut{{Rune: 'z', Modifiers: ctrl}}, func() { a.Session.Undo() })
	a.register("redo", []KeyShortcut{
		{Rune: 'y', Modifiers: ctrl},
		{Rune: 'z', Modifiers: ctrl | key.ModShift},
	}, func() { a.Session.Redo() })
	a.register("delete", []KeyShortcut{{Code: key.CodeDeleteForward}, {Code: key.CodeDeleteBackspace}}, func() {
		a.Session.Delete()
	})
	a.register("clear", []KeyShortcut{{Rune: 'l', Modifiers: ctrl}}, func() { a.Session.Clear() })
	a.register("cancel", []KeyShortcut{{Code: key.CodeEscape}}, func() {
		a.Session.Cancel()
		a.pressed = false
	})
	a.register("save", []KeyShortcut{{Rune: 's', Modifiers: ctrl}}, func() {
		if err := a.Save(); err != nil {
			a.logger.Warn("save failed", zap.Error(err))
			a.Flash("save failed")
		}
	})
	a.register("copy", []KeyShortcut{{Rune: 'c', Modifiers: ctrl}}, func() {
		if err := a.Copy(); err != nil {
			a.logger.Warn("copy failed", zap.Error(err))
			a.Flash("copy failed")
		}
	})
	a.register("paste", []KeyShortcut{{Rune: 'v', Modifiers: ctrl}}, func() {
		a.Session.LoadBackground(context.Background(), background.ClipboardSource)
	})
	a.register("zoomin", []KeyShortcut{{Rune: '+'}, {Rune: '='}}, func() { a.setZoom(a.zoom * 1.25) })
	a.register("zoomout", []KeyShortcut{{Rune: '-'}}, func() { a.setZoom(a.zoom / 1.25) })
	a.register("thicker", []KeyShortcut{{Rune: ']'}}, func() { a.selectWidth(a.widthIdx + 1) })
	a.register("thinner", []KeyShortcut{{Rune: '['}}, func() { a.selectWidth(a.widthIdx - 1) })
	a.register("quit", []KeyShortcut{{Rune: 'q'}}, func() { a.quit = true })
}

// trigger runs a named action. Unknown names are ignored.
func (a *AppState) trigger(name string) {
	if fn, ok := a.actions[name]; ok {
		fn()
	}
}

// Save exports the session snapshot to the output path.
func (a *AppState) Save() error {
	f, err := os.Create(a.Output)
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}
	if err := a.Session.Export(f, a.Exporter); err != nil {
		_ = f.Close()
		return fmt.Errorf("save: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("save: closing file: %w", err)
	}
	a.Flash("saved " + a.Output)
	a.Notifier.Export(a.Output)
	return nil
}

// Copy places the session snapshot on the clipboard.
func (a *AppState) Copy() error {
	img := a.Session.Snapshot()
	if err := a.copyImage(img); err != nil {
		return fmt.Errorf("copy: %w", err)
	}
	a.Flash("image copied to clipboard")
	a.Notifier.Copy("annotated image", img)
	return nil
}

func (a *AppState) selectColor(idx int) {
	a.colorIdx = clampIndex(idx, paletteLen())
	a.Session.SetColor(paletteAt(a.colorIdx).Color)
}

func (a *AppState) selectWidth(idx int) {
	a.widthIdx = clampIndex(idx, widthsLen())
	a.Session.SetWidth(float64(widthAt(a.widthIdx)))
}

func (a *AppState) setZoom(z float64) {
	a.zoom = min(max(z, 0.1), 8)
	a.zoomed = true
}

// canvasOrigin is the window position of canvas coordinate (0, 0).
func (a *AppState) canvasOrigin() image.Point {
	return image.Pt(a.toolbarWidth, titleHeight)
}

func (a *AppState) canvasRect() image.Rectangle {
	size := a.Session.Size()
	o := a.canvasOrigin()
	return image.Rect(o.X, o.Y, o.X+int(float64(size.X)*a.zoom), o.Y+int(float64(size.Y)*a.zoom))
}

// toCanvas maps a window position to canvas coordinates, clamped to the
// canvas bounds.
func (a *AppState) toCanvas(x, y float32) shape.Point {
	o := a.canvasOrigin()
	size := a.Session.Size()
	cx := (float64(x) - float64(o.X)) / a.zoom
	cy := (float64(y) - float64(o.Y)) / a.zoom
	return shape.Pt(clamp(cx, 0, float64(size.X)), clamp(cy, 0, float64(size.Y)))
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}

// handleMouse applies a pointer event and reports whether a repaint is needed.
func (a *AppState) handleMouse(e mouse.Event) bool {
	if a.flashing() && e.Direction == mouse.DirPress {
		a.messageUntil = time.Time{}
		return true
	}
	p := image.Pt(int(e.X), int(e.Y))

	// An open gesture keeps the pointer even outside the canvas.
	if a.pressed {
		switch {
		case e.Direction == mouse.DirRelease && e.Button == mouse.ButtonLeft:
			a.pressed = false
			return a.Session.PointerUp(a.toCanvas(e.X, e.Y))
		case e.Direction == mouse.DirNone:
			return a.Session.PointerMove(a.toCanvas(e.X, e.Y))
		}
		return false
	}

	press := e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress
	prev := a.hover
	a.hover = noHover()

	switch {
	case p.Y >= a.height-bottomHeight:
		for i, sc := range a.shortcuts {
			if p.In(sc.rect) {
				a.hover.shortcut = i
				if press {
					sc.Activate()
					return true
				}
				break
			}
		}
	case p.X < a.toolbarWidth && p.Y >= titleHeight:
		if i := indexAt(p, a.buttonRects()); i >= 0 {
			a.hover.tool = i
			if press {
				a.toolButtons[i].Activate()
				return true
			}
		}
		if i := indexAt(p, a.paletteRects); i >= 0 {
			a.hover.palette = i
			if press {
				a.selectColor(i)
				return true
			}
		}
		if i := indexAt(p, a.widthRects); i >= 0 {
			a.hover.width = i
			if press {
				a.selectWidth(i)
				return true
			}
		}
	case press && p.In(a.canvasRect()):
		a.pressed = true
		a.Session.PointerDown(a.toCanvas(e.X, e.Y))
		return true
	}
	return a.hover != prev
}

// handleKey applies a key press and reports whether a repaint is needed.
func (a *AppState) handleKey(e key.Event) bool {
	if e.Direction == key.DirRelease {
		return false
	}
	mods := e.Modifiers & (key.ModControl | key.ModShift)
	r := unicode.ToLower(e.Rune)
	name, ok := a.keyboardAction[KeyShortcut{Rune: r, Modifiers: mods}]
	if !ok {
		// Shift is part of the rune for punctuation such as '+'.
		name, ok = a.keyboardAction[KeyShortcut{Rune: r, Modifiers: mods &^ key.ModShift}]
	}
	if !ok {
		name, ok = a.keyboardAction[KeyShortcut{Code: e.Code, Modifiers: mods}]
	}
	if !ok {
		return false
	}
	a.trigger(name)
	return true
}

func indexAt(p image.Point, rects []image.Rectangle) int {
	for i, r := range rects {
		if p.In(r) {
			return i
		}
	}
	return -1
}
