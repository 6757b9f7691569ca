package main

import (
	"flag"
	"fmt"
	"image/color"
	"path/filepath"
	"strings"

	"github.com/example/mediastudio/internal/appstate"
	"github.com/example/mediastudio/internal/canvas"
	"github.com/example/mediastudio/internal/render"
	"github.com/example/mediastudio/internal/theme"
)

// brushFlags are the drawing settings shared by annotate and draw.
type brushFlags struct {
	colorSpec string
	width     float64
	opacity   float64
	format    string
	fallback  string
	shadow    bool
}

func (b *brushFlags) register(fs *flag.FlagSet, r *root) {
	cfg := r.config
	fs.StringVar(&b.colorSpec, "color", theme.Hex(cfg.Brush.Color), "brush and region color name or hex value")
	fs.Float64Var(&b.width, "width", cfg.Brush.Width, "brush width in pixels (1-50)")
	fs.Float64Var(&b.opacity, "opacity", cfg.Region.Opacity, "region fill opacity between 0 and 1")
	fs.StringVar(&b.format, "format", "", "export format (png, jpeg, pdf); empty uses the output extension, then the configured format")
	b.fallback = cfg.Export.Format
	fs.BoolVar(&b.shadow, "shadow", cfg.Export.Shadow, "add a drop shadow to exported images")
}

// parseColor accepts palette names as well as everything theme.ParseColor does.
func parseColor(s string) (color.RGBA, error) {
	val := strings.TrimSpace(s)
	if val == "" {
		return color.RGBA{}, fmt.Errorf("color cannot be empty")
	}
	for _, entry := range appstate.PaletteColors() {
		if strings.EqualFold(entry.Name, val) {
			return entry.Color, nil
		}
	}
	c, err := theme.ParseColor(val)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	return c, nil
}

// sessionOptions maps configuration and brush flags onto a canvas session.
func (r *root) sessionOptions(b brushFlags) ([]canvas.Option, error) {
	col, err := parseColor(b.colorSpec)
	if err != nil {
		return nil, err
	}
	if b.opacity < 0 || b.opacity > 1 {
		return nil, fmt.Errorf("opacity must be between 0 and 1")
	}
	cfg := r.config.Canvas
	return []canvas.Option{
		canvas.WithLogger(r.logger.Named("canvas")),
		canvas.WithMaxSize(cfg.MaxWidth, cfg.MaxHeight),
		canvas.WithMinSize(cfg.MinSize),
		canvas.WithHandleSize(cfg.HandleSize),
		canvas.WithBrush(col, b.width),
		canvas.WithOpacity(b.opacity),
	}, nil
}

// exporter resolves the export format for output.
func (b brushFlags) exporter(output string) (render.Exporter, error) {
	var e render.Exporter
	name := b.format
	if name == "" {
		name = filepath.Ext(output)
		if _, err := render.ParseFormat(name); err != nil || name == "" {
			name = b.fallback
		}
	}
	f, err := render.ParseFormat(name)
	if err != nil {
		return e, err
	}
	e.Format = f
	if b.shadow {
		s := render.DefaultShadow()
		e.Shadow = &s
	}
	return e, nil
}
