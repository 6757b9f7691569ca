package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/example/mediastudio/internal/generate"
	"github.com/example/mediastudio/internal/metrics"
	"github.com/example/mediastudio/internal/server"
)

// serveCmd runs the generation API without a window.
type serveCmd struct {
	*root
	fs     *flag.FlagSet
	listen string
	rate   float64
	burst  int
}

func (s *serveCmd) FlagSet() *flag.FlagSet {
	return s.fs
}

func (s *serveCmd) Program() string {
	return s.root.subcommand("serve")
}

func parseServeCmd(args []string, r *root) (*serveCmd, error) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	s := &serveCmd{root: r, fs: fs}
	fs.Usage = usageFunc(s)
	fs.StringVar(&s.listen, "listen", r.config.Server.Listen, "listen address")
	fs.Float64Var(&s.rate, "rate", r.config.Server.Rate, "generation requests per second per client (0 disables limiting)")
	fs.IntVar(&s.burst, "burst", r.config.Server.Burst, "generation request burst per client")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: s}
	}
	return s, nil
}

func (s *serveCmd) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector("mediastudio", reg, s.root.logger)

	svc := generate.NewService(
		generate.WithCredentials(s.root.credentials()),
		generate.WithLogger(s.root.logger.Named("generate")),
	)
	srv := server.New(svc,
		server.WithAddr(s.listen),
		server.WithLogger(s.root.logger.Named("server")),
		server.WithMetrics(collector, reg),
		server.WithRateLimit(s.rate, s.burst),
	)
	go func() {
		select {
		case addr := <-srv.Ready():
			fmt.Fprintf(s.root.stderr, "%s listening on %s\n", s.root.program, addr)
		case <-ctx.Done():
		}
	}()
	return srv.Run(ctx)
}

func (r *root) credentials() generate.Credentials {
	return generate.Credentials{
		APIKey:    r.config.Server.APIKey,
		ProjectID: r.config.Server.ProjectID,
		Region:    r.config.Server.Region,
	}
}
