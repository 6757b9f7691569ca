package appstate

import (
	"fmt"
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/example/mediastudio/internal/canvas"
	"github.com/example/mediastudio/internal/render"
)

var toolLabels = map[canvas.Tool]string{
	canvas.Select:    "S:Select",
	canvas.Brush:     "B:Brush",
	canvas.Eraser:    "E:Eraser",
	canvas.Rectangle: "R:Rect",
	canvas.Circle:    "O:Circle",
}

var shortcutLabels = []struct{ name, text string }{
	{"undo", "^Z:undo"},
	{"redo", "^Y:redo"},
	{"delete", "Del:delete"},
	{"clear", "^L:clear"},
	{"paste", "^V:paste bg"},
	{"copy", "^C:copy"},
	{"save", "^S:save"},
	{"quit", "Q:quit"},
}

// layout positions the toolbar and shortcut bar for the current window
// size and returns the bottom edge of the toolbar.
func (a *AppState) layout() int {
	if a.toolButtons == nil {
		for _, t := range canvas.Tools() {
			tb := &ToolButton{label: label{text: toolLabels[t], theme: a.Theme, baseline: 16}, tool: t}
			tb.action = func() { a.Session.SetTool(tb.tool) }
			a.toolButtons = append(a.toolButtons, &CacheButton{Button: tb})
		}
		for _, sl := range shortcutLabels {
			sc := &Shortcut{label: label{text: sl.text, theme: a.Theme, baseline: 14, border: true}, name: sl.name}
			sc.action = func() { a.trigger(sc.name) }
			a.shortcuts = append(a.shortcuts, sc)
		}
	}

	tw := textWidth(a.Title) + 8
	for _, l := range toolLabels {
		tw = max(tw, textWidth(l)+8)
	}
	a.toolbarWidth = tw

	y := titleHeight
	for _, cb := range a.toolButtons {
		cb.SetRect(image.Rect(0, y, tw, y+rowHeight))
		y += rowHeight
	}

	y += 4
	x := 4
	a.paletteRects = a.paletteRects[:0]
	for range paletteLen() {
		if x+swatchSize > tw {
			x = 4
			y += swatchSize + 2
		}
		a.paletteRects = append(a.paletteRects, image.Rect(x, y, x+swatchSize, y+swatchSize))
		x += swatchSize + 2
	}
	y += swatchSize + 6

	a.widthRects = a.widthRects[:0]
	for range widthsLen() {
		a.widthRects = append(a.widthRects, image.Rect(0, y, tw, y+16))
		y += 16
	}

	x = tw + 4
	for _, sc := range a.shortcuts {
		w := textWidth(sc.text)
		sc.SetRect(image.Rect(x-2, a.height-bottomHeight+2, x+w+6, a.height-4))
		x = sc.rect.Max.X + 8
	}
	return y
}

func (a *AppState) buttonRects() []image.Rectangle {
	out := make([]image.Rectangle, len(a.toolButtons))
	for i, cb := range a.toolButtons {
		out[i] = cb.Rect()
	}
	return out
}

// preferredSize fits the canvas at full scale next to the toolbar.
func (a *AppState) preferredSize() (int, int) {
	bottom := a.layout()
	size := a.Session.Size()
	h := max(titleHeight+size.Y, bottom) + bottomHeight
	return a.toolbarWidth + size.X, h
}

// fitZoom scales the canvas to the space left by the toolbar and bars.
func (a *AppState) fitZoom() float64 {
	size := a.Session.Size()
	if size.X <= 0 || size.Y <= 0 {
		return 1
	}
	availW := a.width - a.toolbarWidth
	availH := a.height - titleHeight - bottomHeight
	if availW <= 0 || availH <= 0 {
		return 1
	}
	zx := float64(availW) / float64(size.X)
	zy := float64(availH) / float64(size.Y)
	return min(zx, zy)
}

func (a *AppState) resize(w, h int) {
	a.width, a.height = w, h
	a.layout()
	if !a.zoomed {
		a.zoom = a.fitZoom()
	}
}

// render paints the whole window into dst.
func (a *AppState) render(dst *image.RGBA) {
	t := a.Theme
	draw.Draw(dst, dst.Bounds(), image.NewUniform(t.Background), image.Point{}, draw.Src)

	cr := a.canvasRect()
	drawCheckerboard(dst, cr.Intersect(dst.Bounds()), 8, t.CheckerLight, t.CheckerDark)
	img := render.Compose(a.Session.Scene(), t.Selection())
	xdraw.NearestNeighbor.Scale(dst, cr, img, img.Bounds(), draw.Over, nil)

	a.drawTitle(dst)
	a.drawToolbar(dst)
	a.drawShortcuts(dst)

	if a.flashing() {
		w := textWidth(a.message)
		px := (dst.Bounds().Dx() - w) / 2
		py := dst.Bounds().Dy() / 2
		box := image.Rect(px-8, py-18, px+w+8, py+8)
		draw.Draw(dst, box, image.NewUniform(t.ButtonBackground), image.Point{}, draw.Src)
		drawRect(dst, box, t.ButtonBorder, 2)
		drawText(dst, px, py, a.message, t.ButtonText)
	}
}

func (a *AppState) drawTitle(dst *image.RGBA) {
	t := a.Theme
	bar := image.Rect(0, 0, dst.Bounds().Dx(), titleHeight)
	draw.Draw(dst, bar, image.NewUniform(t.ToolbarBackground), image.Point{}, draw.Src)
	drawText(dst, 4, 16, a.Title, t.Foreground)
	drawText(dst, a.toolbarWidth+4, 16, a.status(), t.Foreground)
}

// status summarises the session for the title bar.
func (a *AppState) status() string {
	c := a.Session.Counts()
	s := fmt.Sprintf("%s | %dpx | %.0f%% | rectangles %d, circles %d, strokes %d",
		a.Session.Tool(), int(a.Session.Width()), a.zoom*100, c.Rectangles, c.Circles, c.Strokes)
	if _, src := a.Session.Background(); src != "" {
		s += " | " + src
	}
	return s
}

func (a *AppState) drawToolbar(dst *image.RGBA) {
	t := a.Theme
	h := dst.Bounds().Dy() - bottomHeight
	draw.Draw(dst, image.Rect(0, titleHeight, a.toolbarWidth, h), image.NewUniform(t.ToolbarBackground), image.Point{}, draw.Src)

	current := a.Session.Tool()
	for i, cb := range a.toolButtons {
		state := StateDefault
		if cb.Button.(*ToolButton).tool == current {
			state = StatePressed
		} else if i == a.hover.tool {
			state = StateHover
		}
		cb.Draw(dst, state)
	}

	for i, r := range a.paletteRects {
		draw.Draw(dst, r, image.NewUniform(paletteAt(i).Color), image.Point{}, draw.Src)
		switch {
		case i == a.colorIdx:
			drawRect(dst, r, t.SelectionOutline, 1)
			drawRect(dst, r.Inset(1), t.SelectionOutlineAlt, 1)
		case i == a.hover.palette:
			drawRect(dst, r, t.ButtonBackgroundHover, 1)
		}
	}

	col := paletteAt(a.colorIdx).Color
	for i, r := range a.widthRects {
		bg := t.ButtonBackground
		if i == a.widthIdx {
			bg = t.ButtonBackgroundPress
		} else if i == a.hover.width {
			bg = t.ButtonBackgroundHover
		}
		draw.Draw(dst, r, image.NewUniform(bg), image.Point{}, draw.Src)
		w := widthAt(i)
		drawText(dst, 4, r.Min.Y+12, fmt.Sprintf("%d", w), t.ButtonText)
		// Preview thickness is capped to the row height.
		drawLine(dst, 30, r.Min.Y+8, r.Max.X-4, r.Min.Y+8, col, min(w, 12))
	}
}

func (a *AppState) drawShortcuts(dst *image.RGBA) {
	b := dst.Bounds()
	bar := image.Rect(0, b.Dy()-bottomHeight, b.Dx(), b.Dy())
	draw.Draw(dst, bar, image.NewUniform(a.Theme.ToolbarBackground), image.Point{}, draw.Src)
	for i, sc := range a.shortcuts {
		state := StateDefault
		if i == a.hover.shortcut {
			state = StateHover
		}
		sc.Draw(dst, state)
	}
}
