// Package server exposes the generation service over HTTP and streams the
// canvas annotations to websocket subscribers.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/example/mediastudio/internal/generate"
	"github.com/example/mediastudio/internal/metrics"
)

const (
	// DefaultAddr matches the port the browser front end expects.
	DefaultAddr = ":3001"
	// MaxBodySize bounds JSON bodies and uploads.
	MaxBodySize     = 50 << 20
	shutdownTimeout = 10 * time.Second
)

// Server serves the generation API.
type Server struct {
	svc      *generate.Service
	hub      *Hub
	metrics  *metrics.Collector
	gatherer prometheus.Gatherer
	limiter  *limiter
	logger   *zap.Logger
	addr     string

	handler http.Handler
	ready   chan net.Addr
}

// Option configures a Server.
type Option func(*Server)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(s *Server) { s.addr = addr }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithHub shares an annotation hub, typically one fed by a canvas session.
func WithHub(h *Hub) Option {
	return func(s *Server) { s.hub = h }
}

// WithMetrics records request metrics in c and serves g on /metrics.
func WithMetrics(c *metrics.Collector, g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = c
		s.gatherer = g
	}
}

// WithRateLimit limits generation requests per client. A non-positive rps
// disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if rps <= 0 {
			s.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		s.limiter = newLimiter(rps, burst)
	}
}

// New builds a Server around svc.
func New(svc *generate.Service, opts ...Option) *Server {
	s := &Server{
		svc:     svc,
		logger:  zap.NewNop(),
		addr:    DefaultAddr,
		limiter: newLimiter(5, 10),
		ready:   make(chan net.Addr, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.hub == nil {
		s.hub = NewHub(s.logger.Named("hub"))
	}
	if s.metrics != nil {
		s.hub.counts = s.metrics
	}
	s.handler = s.routes()
	return s
}

// Hub returns the annotation hub.
func (s *Server) Hub() *Hub { return s.hub }

// Handler returns the full middleware-wrapped handler.
func (s *Server) Handler() http.Handler { return s.handler }

// Ready yields the bound address once Run is listening.
func (s *Server) Ready() <-chan net.Addr { return s.ready }

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("POST /api/generate-image", s.rateLimit(http.HandlerFunc(s.handleGenerateImage)))
	mux.Handle("POST /api/edit-image", s.rateLimit(http.HandlerFunc(s.handleEditImage)))
	mux.Handle("POST /api/generate-video", s.rateLimit(http.HandlerFunc(s.handleGenerateVideo)))
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/annotations", s.handleGetAnnotations)
	mux.HandleFunc("POST /api/annotations", s.handlePostAnnotations)
	mux.HandleFunc("GET /api/annotations/stream", s.handleAnnotationStream)
	if s.gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	mws := []Middleware{
		RequestID(),
		Recovery(s.logger),
		RequestLogger(s.logger),
		CORS(),
		Tracing(),
	}
	if s.metrics != nil {
		mws = append(mws, Metrics(s.metrics))
	}
	return Chain(mux, mws...)
}

// Run serves until ctx is cancelled, then shuts down gracefully. The hub
// broadcaster and limiter sweeper run alongside the listener and stop with
// it. A stopped Server may be run again.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.hub.Run(ctx) })
	if s.limiter != nil {
		g.Go(func() error { return s.limiter.run(ctx) })
	}
	g.Go(func() error {
		s.logger.Info("server listening", zap.String("addr", ln.Addr().String()))
		// Ready holds the first address only; later runs do not block on it.
		select {
		case s.ready <- ln.Addr():
		default:
		}
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
