package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/example/mediastudio/internal/appstate"
	"github.com/example/mediastudio/internal/canvas"
	"github.com/example/mediastudio/internal/generate"
	"github.com/example/mediastudio/internal/metrics"
	"github.com/example/mediastudio/internal/server"
)

// annotateCmd opens the interactive annotation window.
type annotateCmd struct {
	*root
	fs         *flag.FlagSet
	background string
	output     string
	tool       string
	listen     string
	brush      brushFlags
}

func (a *annotateCmd) FlagSet() *flag.FlagSet {
	return a.fs
}

func (a *annotateCmd) Program() string {
	return a.root.subcommand("annotate")
}

func parseAnnotateCmd(args []string, r *root) (*annotateCmd, error) {
	fs := flag.NewFlagSet("annotate", flag.ExitOnError)
	a := &annotateCmd{root: r, fs: fs}
	fs.Usage = usageFunc(a)
	fs.StringVar(&a.background, "background", "", "background image: file path, http(s) URL, data URL or clipboard:")
	fs.StringVar(&a.output, "output", r.config.Export.File, "export file path")
	fs.StringVar(&a.tool, "tool", canvas.Brush.String(), "initial tool (select, brush, eraser, rect, circle)")
	fs.StringVar(&a.listen, "listen", "", "also serve the generation API and live region stream on this address")
	a.brush.register(fs, r)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() == 1 && a.background == "" {
		a.background = fs.Arg(0)
	} else if fs.NArg() > 0 {
		return nil, &UsageError{of: a}
	}
	if _, err := canvas.ParseTool(a.tool); err != nil {
		return nil, &UsageError{of: a, msg: err.Error()}
	}
	return a, nil
}

func (a *annotateCmd) Run() error {
	tool, _ := canvas.ParseTool(a.tool)
	opts, err := a.root.sessionOptions(a.brush)
	if err != nil {
		return err
	}
	exp, err := a.brush.exporter(a.output)
	if err != nil {
		return err
	}

	app := appstate.New(
		appstate.WithTheme(a.root.activeTheme),
		appstate.WithOutput(a.output),
		appstate.WithExporter(exp),
		appstate.WithNotifier(a.root.notifier),
		appstate.WithLogger(a.root.logger.Named("window")),
	)
	opts = append(opts,
		canvas.WithTool(tool),
		canvas.WithPost(app.Post),
		canvas.WithBackgroundHandler(func(src string, size image.Point) {
			app.Flash(fmt.Sprintf("background %dx%d", size.X, size.Y))
			a.root.notifier.Background(src, nil)
		}),
		canvas.WithBackgroundErrorHandler(func(err error) {
			app.Flash("background unavailable")
			a.root.notifier.Background(a.background, err)
		}),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var srvDone chan error
	if a.listen != "" {
		srv, collector := a.newServer()
		hub := srv.Hub()
		opts = append(opts, canvas.WithListener(hub.Regions), canvas.WithObserver(collector))
		srvDone = make(chan error, 1)
		go func() { srvDone <- srv.Run(ctx) }()
		fmt.Fprintf(a.root.stderr, "serving regions on %s\n", a.listen)
	}

	sess := canvas.New(opts...)
	app.Attach(sess)
	if a.background != "" {
		sess.LoadBackground(ctx, a.background)
	}

	runErr := app.Run()
	sess.CancelBackground()
	cancel()
	if srvDone != nil {
		if err := <-srvDone; err != nil && !errors.Is(err, context.Canceled) {
			a.root.logger.Warn("server stopped", zap.Error(err))
		}
	}
	return runErr
}

func (a *annotateCmd) newServer() (*server.Server, *metrics.Collector) {
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector("mediastudio", reg, a.root.logger)
	svc := generate.NewService(
		generate.WithCredentials(a.root.credentials()),
		generate.WithLogger(a.root.logger.Named("generate")),
	)
	srv := server.New(svc,
		server.WithAddr(a.listen),
		server.WithLogger(a.root.logger.Named("server")),
		server.WithMetrics(collector, reg),
		server.WithRateLimit(a.root.config.Server.Rate, a.root.config.Server.Burst),
	)
	return srv, collector
}
