package canvas

import (
	"context"
	"errors"
	"fmt"
	"image"

	"go.uber.org/zap"

	"github.com/example/mediastudio/internal/background"
)

// Background returns the installed background image and its source.
func (s *Session) Background() (image.Image, string) {
	return s.bg, s.bgSource
}

// SetBackground installs img and resizes the canvas to fit it within the
// maximum size. A nil image removes the background and restores the
// maximum size. The drawing is left untouched.
func (s *Session) SetBackground(src string, img image.Image) {
	if img == nil {
		s.bg, s.bgSource = nil, ""
		s.size = s.maxSize
		return
	}
	b := img.Bounds()
	s.bg, s.bgSource = img, src
	s.size = background.Fit(b.Dx(), b.Dy(), s.maxSize.X, s.maxSize.Y)
	s.logger.Info("background installed",
		zap.String("source", src),
		zap.Int("width", s.size.X),
		zap.Int("height", s.size.Y),
	)
}

// LoadBackground fetches src without blocking. The image is installed
// when the fetch completes, unless another LoadBackground was made in the
// meantime. On failure the prior background and size are kept.
func (s *Session) LoadBackground(ctx context.Context, src string) {
	s.loader.Load(ctx, src, s.backgroundDone)
}

// CancelBackground abandons an in-flight load.
func (s *Session) CancelBackground() {
	s.loader.Cancel()
}

// WaitBackground blocks until in-flight fetches have returned. The
// completion may still be waiting in the post queue.
func (s *Session) WaitBackground() {
	s.loader.Wait()
}

// Flush runs queued background completions when no post function was
// configured. It returns how many ran.
func (s *Session) Flush() int {
	s.queueMu.Lock()
	q := s.queue
	s.queue = nil
	s.queueMu.Unlock()
	for _, fn := range q {
		fn()
	}
	return len(q)
}

func (s *Session) enqueue(fn func()) {
	s.queueMu.Lock()
	s.queue = append(s.queue, fn)
	s.queueMu.Unlock()
}

func (s *Session) backgroundDone(res background.Result) {
	if res.Err != nil {
		err := res.Err
		if !errors.Is(err, background.ErrNoBackground) {
			err = fmt.Errorf("%w: %w", background.ErrNoBackground, err)
		}
		s.logger.Warn("background load failed", zap.String("source", res.Source), zap.Error(err))
		s.observe(EventBackgroundFailed)
		if s.onBGErr != nil {
			s.onBGErr(err)
		}
		return
	}
	s.SetBackground(res.Source, res.Image)
	s.observe(EventBackgroundLoaded)
	if s.onBGLoad != nil {
		s.onBGLoad(res.Source, s.size)
	}
}
