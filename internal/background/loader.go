// Package background resolves, decodes and fits the image shown behind an
// annotation canvas.
package background

import (
	"context"
	"fmt"
	"image"
	"sync"

	"go.uber.org/zap"
)

// Result is the outcome of one load request.
type Result struct {
	Source string
	Image  image.Image
	Err    error
}

// Loader runs at most one fetch at a time. Starting a new load cancels the
// previous one, and a superseded result is never delivered.
type Loader struct {
	fetcher Fetcher
	post    func(func())
	logger  *zap.Logger

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures a Loader.
type Option func(*Loader)

// WithPost sets how completions are handed back to the caller's event
// thread. The default runs them on the fetching goroutine.
func WithPost(post func(func())) Option {
	return func(l *Loader) { l.post = post }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// NewLoader returns a Loader reading through f.
func NewLoader(f Fetcher, opts ...Option) *Loader {
	l := &Loader{
		fetcher: f,
		post:    func(fn func()) { fn() },
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load starts fetching src and calls done with the result unless another
// Load or Cancel happens first.
func (l *Loader) Load(ctx context.Context, src string, done func(Result)) {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.seq++
	seq := l.seq
	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.mu.Unlock()

	l.logger.Debug("background load started", zap.String("source", src), zap.Uint64("seq", seq))
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		defer cancel()
		img, err := l.fetcher.Fetch(ctx, src)
		if err == nil && img == nil {
			err = fmt.Errorf("%s: empty image", src)
		}
		res := Result{Source: src, Image: img}
		if err != nil {
			res = Result{Source: src, Err: fmt.Errorf("%w: %w", ErrNoBackground, err)}
		}
		l.post(func() {
			if !l.current(seq) {
				l.logger.Debug("background load superseded", zap.String("source", src), zap.Uint64("seq", seq))
				return
			}
			done(res)
		})
	}()
}

// Cancel abandons the in-flight load, if any.
func (l *Loader) Cancel() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.seq++
}

// Wait blocks until every started fetch has returned.
func (l *Loader) Wait() {
	l.wg.Wait()
}

func (l *Loader) current(seq uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return seq == l.seq
}
