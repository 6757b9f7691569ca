package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/example/mediastudio/internal/config"
	"github.com/example/mediastudio/internal/notify"
	"github.com/example/mediastudio/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs          *flag.FlagSet
	program     string
	config      *config.Config
	notifier    *notify.Notifier
	logger      *zap.Logger
	activeTheme *theme.Theme
	stdout      io.Writer
	stderr      io.Writer

	themeName   string
	logLevel    string
	logJSON     bool
	exportAlert bool
	copyAlert   bool
	bgAlert     bool
	genAlert    bool
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func (r *root) subcommand(name string) string {
	return strings.TrimSpace(r.program + " " + name)
}

func newRoot() *root {
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	return newRootWith(cfg, os.Stdout, os.Stderr)
}

func newRootWith(cfg *config.Config, stdout, stderr io.Writer) *root {
	r := &root{
		fs:      flag.NewFlagSet("mediastudio", flag.ExitOnError),
		program: "mediastudio",
		config:  cfg,
		logger:  zap.NewNop(),
		stdout:  stdout,
		stderr:  stderr,
	}
	r.fs.BoolVar(&r.exportAlert, "notify-export", cfg.Notify.Export, "show a desktop notification after exporting an image")
	r.fs.BoolVar(&r.copyAlert, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")
	r.fs.BoolVar(&r.bgAlert, "notify-background", cfg.Notify.Background, "show a desktop notification when a background loads or fails")
	r.fs.BoolVar(&r.genAlert, "notify-generate", cfg.Notify.Generate, "show a desktop notification after a generation request")
	// Precedence: CLI > Env > Config > Default. Env is already folded into cfg.
	r.fs.StringVar(&r.themeName, "theme", "", "color theme to use (default, dark, light, contrast or a config theme)")
	r.fs.StringVar(&r.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	r.fs.BoolVar(&r.logJSON, "log-json", false, "write logs as JSON")
	r.fs.Usage = usageFunc(r)
	return r
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}

	logger, err := newLogger(r.logLevel, r.logJSON)
	if err != nil {
		return err
	}
	r.logger = logger
	defer func() { _ = r.logger.Sync() }()

	r.notifier = notify.New(notify.LoadPreferences(os.Getenv), r.logger.Named("notify"))
	r.notifier.Enable(notify.EventExport, r.exportAlert)
	r.notifier.Enable(notify.EventCopy, r.copyAlert)
	r.notifier.Enable(notify.EventBackground, r.bgAlert)
	r.notifier.Enable(notify.EventGenerate, r.genAlert)

	r.activeTheme = r.resolveTheme()

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var cmd runnable
	switch cmdName {
	case "annotate":
		cmd, err = parseAnnotateCmd(subArgs, r)
	case "draw":
		cmd, err = parseDrawCmd(subArgs, r)
	case "serve":
		cmd, err = parseServeCmd(subArgs, r)
	case "prompt":
		cmd, err = parsePromptCmd(subArgs, r)
	case "tools":
		cmd, err = parseToolsCmd(subArgs, r)
	case "colors":
		cmd, err = parseColorsCmd(subArgs, r)
	case "widths":
		cmd, err = parseWidthsCmd(subArgs, r)
	case "styles":
		cmd, err = parseStylesCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{root: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

// resolveTheme picks the -theme flag, then the configured theme, falling
// back to the built-in default.
func (r *root) resolveTheme() *theme.Theme {
	name := r.themeName
	if name == "" {
		name = r.config.Theme
	}
	if name == "" || strings.EqualFold(name, "default") {
		return theme.Default()
	}
	t, err := r.config.ThemeLoader().Load(name)
	if err != nil {
		fmt.Fprintf(r.stderr, "warning: failed to load theme '%s': %v. using default.\n", name, err)
		return theme.Default()
	}
	return t
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
