package appstate

import (
	"fmt"
	"image"

	"go.uber.org/zap"
	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
)

// Run opens the window and blocks until it closes.
func (a *AppState) Run() error {
	if a.Session == nil {
		return fmt.Errorf("appstate: no session attached")
	}
	var err error
	driver.Main(func(s screen.Screen) { err = a.Main(s) })
	return err
}

// Main runs the event loop on s.
func (a *AppState) Main(s screen.Screen) error {
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: a.width, Height: a.height, Title: a.Title})
	if err != nil {
		return fmt.Errorf("new window: %w", err)
	}
	defer w.Release()
	defer a.notifyClose()

	for _, fn := range a.setSender(w.Send) {
		w.Send(postEvent{fn: fn})
	}
	a.zoom = a.fitZoom()

	for {
		repaint := false
		switch e := w.NextEvent().(type) {
		case postEvent:
			a.runPosted(e.fn)
			repaint = true
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return nil
			}
		case size.Event:
			a.resize(e.WidthPx, e.HeightPx)
			repaint = true
		case paint.Event:
			a.paintQueued = false
			a.paint(s, w)
		case mouse.Event:
			repaint = a.handleMouse(e)
		case key.Event:
			repaint = a.handleKey(e)
		case error:
			a.logger.Warn("window event", zap.Error(e))
		}
		if a.quit {
			return nil
		}
		if repaint && !a.paintQueued {
			a.paintQueued = true
			w.Send(paint.Event{})
		}
	}
}

func (a *AppState) paint(s screen.Screen, w screen.Window) {
	if a.width <= 0 || a.height <= 0 {
		return
	}
	b, err := s.NewBuffer(image.Pt(a.width, a.height))
	if err != nil {
		a.logger.Warn("new buffer", zap.Error(err))
		return
	}
	defer b.Release()
	a.render(b.RGBA())
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}
