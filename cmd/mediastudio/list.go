package main

import (
	"flag"
	"fmt"

	"github.com/example/mediastudio/internal/appstate"
	"github.com/example/mediastudio/internal/canvas"
	"github.com/example/mediastudio/internal/generate"
	"github.com/example/mediastudio/internal/theme"
)

// listCmd is the shape shared by the argument-free listing commands.
type listCmd struct {
	*root
	fs   *flag.FlagSet
	name string
}

func (c *listCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *listCmd) Program() string {
	return c.root.subcommand(c.name)
}

func newListCmd(name string, r *root) *listCmd {
	return &listCmd{root: r, fs: flag.NewFlagSet(name, flag.ExitOnError), name: name}
}

// parse accepts no arguments. help renders the concrete command's usage.
func (c *listCmd) parse(args []string, help HelpData) error {
	c.fs.Usage = usageFunc(help)
	if err := c.fs.Parse(args); err != nil {
		return err
	}
	if c.fs.NArg() != 0 {
		return &UsageError{of: help}
	}
	return nil
}

type toolsCmd struct{ *listCmd }

func parseToolsCmd(args []string, r *root) (*toolsCmd, error) {
	t := &toolsCmd{newListCmd("tools", r)}
	if err := t.parse(args, t); err != nil {
		return nil, err
	}
	return t, nil
}

var toolHelp = map[canvas.Tool]string{
	canvas.Select:    "click a region to select it, drag to move, drag a handle to resize",
	canvas.Brush:     "freehand stroke",
	canvas.Eraser:    "freehand eraser, removes strokes but never the background",
	canvas.Rectangle: "drag a rectangular region marker",
	canvas.Circle:    "drag a circular region marker from its center",
}

func (c *toolsCmd) Run() error {
	fmt.Fprintln(c.root.stdout, "available tools (* marks the default tool):")
	for _, t := range canvas.Tools() {
		marker := " "
		if t == canvas.Brush {
			marker = "*"
		}
		fmt.Fprintf(c.root.stdout, "%s %-7s %s\n", marker, t, toolHelp[t])
	}
	return nil
}

type colorsCmd struct{ *listCmd }

func parseColorsCmd(args []string, r *root) (*colorsCmd, error) {
	cc := &colorsCmd{newListCmd("colors", r)}
	if err := cc.parse(args, cc); err != nil {
		return nil, err
	}
	return cc, nil
}

func (c *colorsCmd) Run() error {
	palette := appstate.PaletteColors()
	if len(palette) == 0 {
		fmt.Fprintln(c.root.stdout, "no colors available")
		return nil
	}
	fmt.Fprintln(c.root.stdout, "available palette colors (* marks the default color):")
	for idx, entry := range palette {
		marker := " "
		if idx == appstate.DefaultColorIndex() {
			marker = "*"
		}
		hex := theme.Hex(entry.Color)
		block := fmt.Sprintf("\x1b[48;2;%d;%d;%dm  \x1b[0m", entry.Color.R, entry.Color.G, entry.Color.B)
		fmt.Fprintf(c.root.stdout, "%s %2d: %-12s %s %s\n", marker, idx, entry.Name, hex, block)
	}
	return nil
}

type widthsCmd struct{ *listCmd }

func parseWidthsCmd(args []string, r *root) (*widthsCmd, error) {
	w := &widthsCmd{newListCmd("widths", r)}
	if err := w.parse(args, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (c *widthsCmd) Run() error {
	widths := appstate.WidthOptions()
	if len(widths) == 0 {
		fmt.Fprintln(c.root.stdout, "no widths available")
		return nil
	}
	fmt.Fprintln(c.root.stdout, "available brush widths (* marks the default width):")
	for idx, width := range widths {
		marker := " "
		if idx == appstate.DefaultWidthIndex() {
			marker = "*"
		}
		fmt.Fprintf(c.root.stdout, "%s %3dpx\n", marker, width)
	}
	return nil
}

type stylesCmd struct{ *listCmd }

func parseStylesCmd(args []string, r *root) (*stylesCmd, error) {
	s := &stylesCmd{newListCmd("styles", r)}
	if err := s.parse(args, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (c *stylesCmd) Run() error {
	cat := generate.DefaultCatalog()
	fmt.Fprintln(c.root.stdout, "generation styles (* marks the fallback style):")
	for _, s := range cat.ImageStyles() {
		marker := " "
		if s == generate.DefaultStyle {
			marker = "*"
		}
		fmt.Fprintf(c.root.stdout, "%s %s (%d images)\n", marker, s, len(cat.Images[s]))
	}
	fmt.Fprintln(c.root.stdout, "edit styles:")
	for _, s := range cat.EditStyles() {
		fmt.Fprintf(c.root.stdout, "  %-10s %s\n", s, cat.Effects[s])
	}
	return nil
}
