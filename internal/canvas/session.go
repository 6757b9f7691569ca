// Package canvas is the annotation session. It owns the drawing state and
// its history, turns pointer gestures into shape edits according to the
// active tool, tracks the selected region and installs background images.
//
// A Session is not safe for concurrent use. Every method is expected to be
// called from the one goroutine that receives input events; background
// loads hand their completion back to that goroutine through the post
// function given to WithPost, or through Flush.
package canvas

import (
	"image"
	"image/color"
	"sync"

	"go.uber.org/zap"

	"github.com/example/mediastudio/internal/background"
	"github.com/example/mediastudio/internal/history"
	"github.com/example/mediastudio/internal/shape"
)

// Listener receives the current region list whenever it changes. The
// slice is a copy owned by the listener.
type Listener func(regions []shape.Region)

// Observer is told about session events such as committed gestures and
// history navigation. metrics.Collector implements it.
type Observer interface {
	Observe(event string)
}

// Session event names passed to an Observer.
const (
	EventStroke           = "stroke"
	EventErase            = "erase"
	EventRectangle        = "rectangle"
	EventCircle           = "circle"
	EventMove             = "move"
	EventResize           = "resize"
	EventDelete           = "delete"
	EventUndo             = "undo"
	EventRedo             = "redo"
	EventClear            = "clear"
	EventBackgroundLoaded = "background_loaded"
	EventBackgroundFailed = "background_failed"
)

// Session is one annotation canvas.
type Session struct {
	state    shape.DrawingState
	hist     *history.Stack
	selected shape.ID

	tool    Tool
	pending *Tool
	mode    Mode
	open    shape.ID
	grab    grab

	color   color.RGBA
	width   float64
	opacity float64

	maxSize    image.Point
	size       image.Point
	minSize    float64
	handleSize float64

	bg       image.Image
	bgSource string
	fetcher  background.Fetcher
	loader   *background.Loader
	post     func(func())
	queueMu  sync.Mutex
	queue    []func()
	onBGErr  func(error)
	onBGLoad func(src string, size image.Point)

	newID     func() shape.ID
	listeners []Listener
	observer  Observer
	logger    *zap.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithIDs replaces the random id generator.
func WithIDs(gen func() shape.ID) Option {
	return func(s *Session) { s.newID = gen }
}

// WithListener registers an annotation consumer.
func WithListener(l Listener) Option {
	return func(s *Session) { s.listeners = append(s.listeners, l) }
}

// WithObserver reports session events to o.
func WithObserver(o Observer) Option {
	return func(s *Session) { s.observer = o }
}

// WithMaxSize bounds the canvas. It is also the size used without a
// background image.
func WithMaxSize(w, h int) Option {
	return func(s *Session) {
		if w > 0 && h > 0 {
			s.maxSize = image.Pt(w, h)
		}
	}
}

// WithMinSize sets the smallest width or height a resize may produce.
func WithMinSize(v float64) Option {
	return func(s *Session) {
		if v > 0 {
			s.minSize = v
		}
	}
}

// WithHandleSize sets the side of the square resize handles.
func WithHandleSize(v float64) Option {
	return func(s *Session) {
		if v > 0 {
			s.handleSize = v
		}
	}
}

// WithBrush sets the initial brush color and width.
func WithBrush(c color.RGBA, width float64) Option {
	return func(s *Session) {
		s.color = c
		s.width = shape.ClampWidth(width)
	}
}

// WithOpacity sets the fill opacity of new regions.
func WithOpacity(v float64) Option {
	return func(s *Session) { s.opacity = clampOpacity(v) }
}

// WithTool sets the initial tool.
func WithTool(t Tool) Option {
	return func(s *Session) { s.tool = t }
}

// WithFetcher sets where LoadBackground reads images from.
func WithFetcher(f background.Fetcher) Option {
	return func(s *Session) { s.fetcher = f }
}

// WithPost sets how background completions reach the event goroutine.
// Without it completions are queued until Flush is called.
func WithPost(post func(func())) Option {
	return func(s *Session) { s.post = post }
}

// WithBackgroundErrorHandler is called when a background load fails. The
// error wraps background.ErrNoBackground.
func WithBackgroundErrorHandler(fn func(error)) Option {
	return func(s *Session) { s.onBGErr = fn }
}

// WithBackgroundHandler is called after a background image is installed.
func WithBackgroundHandler(fn func(src string, size image.Point)) Option {
	return func(s *Session) { s.onBGLoad = fn }
}

// New returns an empty session. History starts with the empty drawing so
// the first gesture can be undone.
func New(opts ...Option) *Session {
	s := &Session{
		hist:       history.New(),
		tool:       Brush,
		color:      shape.DefaultColor,
		width:      shape.DefaultWidth,
		opacity:    shape.DefaultOpacity,
		maxSize:    image.Pt(background.DefaultMaxWidth, background.DefaultMaxHeight),
		minSize:    shape.DefaultMinSize,
		handleSize: shape.DefaultHandleSize,
		newID:      shape.NewID,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.size = s.maxSize
	if s.post == nil {
		s.post = s.enqueue
	}
	if s.fetcher == nil {
		s.fetcher = background.NewSources()
	}
	s.loader = background.NewLoader(s.fetcher,
		background.WithPost(s.post),
		background.WithLogger(s.logger.Named("background")),
	)
	s.hist.Commit(s.state)
	return s
}

// State returns a deep copy of the drawing.
func (s *Session) State() shape.DrawingState {
	return s.state.Clone()
}

// Regions returns a copy of the region list.
func (s *Session) Regions() []shape.Region {
	return shape.CloneRegions(s.state.Regions)
}

// Counts tallies the drawing.
func (s *Session) Counts() shape.Counts {
	return s.state.Counts()
}

// Tool returns the active tool.
func (s *Session) Tool() Tool { return s.tool }

// SetTool changes the active tool. During a gesture the change is applied
// once the gesture ends.
func (s *Session) SetTool(t Tool) {
	if s.mode != Idle {
		s.pending = &t
		return
	}
	s.tool = t
	s.pending = nil
}

// Mode returns the gesture state.
func (s *Session) Mode() Mode { return s.mode }

// Color returns the brush and region color.
func (s *Session) Color() color.RGBA { return s.color }

// SetColor changes the color of shapes drawn from now on.
func (s *Session) SetColor(c color.RGBA) { s.color = c }

// Width returns the brush width.
func (s *Session) Width() float64 { return s.width }

// SetWidth changes the brush width, clamped to the supported range.
func (s *Session) SetWidth(w float64) { s.width = shape.ClampWidth(w) }

// Opacity returns the fill opacity of new regions.
func (s *Session) Opacity() float64 { return s.opacity }

// SetOpacity changes the fill opacity of new regions.
func (s *Session) SetOpacity(v float64) { s.opacity = clampOpacity(v) }

// Size returns the canvas size in pixels.
func (s *Session) Size() image.Point { return s.size }

// HandleSize returns the side of the resize handles.
func (s *Session) HandleSize() float64 { return s.handleSize }

// CanUndo reports whether Undo would change the drawing.
func (s *Session) CanUndo() bool { return s.mode == Idle && s.hist.CanUndo() }

// CanRedo reports whether Redo would change the drawing.
func (s *Session) CanRedo() bool { return s.mode == Idle && s.hist.CanRedo() }

// HistoryLen returns the number of history entries.
func (s *Session) HistoryLen() int { return s.hist.Len() }

// OnRegionsChange registers another annotation consumer.
func (s *Session) OnRegionsChange(l Listener) {
	s.listeners = append(s.listeners, l)
}

func (s *Session) commit(event string) {
	s.hist.Commit(s.state)
	s.observe(event)
	s.logger.Debug("commit", zap.String("event", event), zap.Int("history", s.hist.Len()))
}

func (s *Session) observe(event string) {
	if s.observer != nil {
		s.observer.Observe(event)
	}
}

func (s *Session) notify() {
	for _, l := range s.listeners {
		l(shape.CloneRegions(s.state.Regions))
	}
}

func clampOpacity(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
