package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/example/mediastudio/internal/background"
	"github.com/example/mediastudio/internal/canvas"
	"github.com/example/mediastudio/internal/clipboard"
	"github.com/example/mediastudio/internal/generate"
	"github.com/example/mediastudio/internal/shape"
)

// drawCmd replays one pointer gesture on a fresh session and exports the result.
type drawCmd struct {
	*root
	fs            *flag.FlagSet
	file          string
	output        string
	fromClipboard bool
	toClipboard   bool
	describe      bool
	brush         brushFlags
	tool          canvas.Tool
	points        []shape.Point
}

func (d *drawCmd) FlagSet() *flag.FlagSet {
	return d.fs
}

func (d *drawCmd) Program() string {
	return d.root.subcommand("draw")
}

func parseDrawCmd(args []string, r *root) (*drawCmd, error) {
	fs := flag.NewFlagSet("draw", flag.ExitOnError)
	d := &drawCmd{root: r, fs: fs}
	fs.Usage = usageFunc(d)
	fs.StringVar(&d.file, "file", "", "background image: file path, http(s) URL or data URL")
	fs.StringVar(&d.output, "output", "", "output file path (defaults to the configured export file)")
	fs.BoolVar(&d.fromClipboard, "from-clipboard", false, "use the clipboard image as background")
	fs.BoolVar(&d.toClipboard, "to-clipboard", false, "copy the result to the clipboard")
	fs.BoolVar(&d.describe, "describe", false, "print the region description used for prompts")
	d.brush.register(fs, r)

	flagArgs, positionals, err := splitDrawArgs(args, fs)
	if err != nil {
		return nil, err
	}
	if err := fs.Parse(flagArgs); err != nil {
		return nil, err
	}
	if len(positionals) < 1 {
		return nil, &UsageError{of: d}
	}
	d.tool, err = canvas.ParseTool(positionals[0])
	if err != nil {
		return nil, err
	}
	if d.tool == canvas.Select {
		return nil, fmt.Errorf("draw needs a drawing tool, not %s", d.tool)
	}
	nums, err := expectFloats(positionals[1:], d.tool.String())
	if err != nil {
		return nil, err
	}
	switch d.tool {
	case canvas.Rectangle:
		if len(nums) != 4 {
			return nil, fmt.Errorf("rect requires x0 y0 x1 y1")
		}
		d.points = []shape.Point{shape.Pt(nums[0], nums[1]), shape.Pt(nums[2], nums[3])}
	case canvas.Circle:
		if len(nums) != 3 {
			return nil, fmt.Errorf("circle requires center x y and radius")
		}
		d.points = []shape.Point{shape.Pt(nums[0], nums[1]), shape.Pt(nums[0]+nums[2], nums[1])}
	default:
		if len(nums) < 2 || len(nums)%2 != 0 {
			return nil, fmt.Errorf("%s requires x y pairs", d.tool)
		}
		for i := 0; i < len(nums); i += 2 {
			d.points = append(d.points, shape.Pt(nums[i], nums[i+1]))
		}
	}
	if d.fromClipboard && d.file != "" {
		return nil, fmt.Errorf("-file and -from-clipboard cannot be combined")
	}
	if d.output == "" {
		d.output = r.config.Export.File
	}
	if r.config.SaveDir != "" && !filepath.IsAbs(d.output) && !strings.ContainsRune(d.output, filepath.Separator) {
		d.output = filepath.Join(r.config.SaveDir, d.output)
	}
	return d, nil
}

func (d *drawCmd) source() string {
	if d.fromClipboard {
		return background.ClipboardSource
	}
	return d.file
}

func (d *drawCmd) Run() error {
	opts, err := d.root.sessionOptions(d.brush)
	if err != nil {
		return err
	}
	exp, err := d.brush.exporter(d.output)
	if err != nil {
		return err
	}
	var bgErr error
	opts = append(opts,
		canvas.WithTool(d.tool),
		canvas.WithBackgroundErrorHandler(func(err error) { bgErr = err }),
	)
	sess := canvas.New(opts...)

	if src := d.source(); src != "" {
		sess.LoadBackground(context.Background(), src)
		sess.WaitBackground()
		sess.Flush()
		d.root.notifier.Background(src, bgErr)
		if bgErr != nil {
			return bgErr
		}
	}

	pts := clampPoints(d.points, sess.Size())
	sess.PointerDown(pts[0])
	for _, p := range pts[1:] {
		sess.PointerMove(p)
	}
	sess.PointerUp(pts[len(pts)-1])

	out, err := os.Create(d.output)
	if err != nil {
		return err
	}
	if err := sess.Export(out, exp); err != nil {
		_ = out.Close()
		return fmt.Errorf("export %s: %w", d.output, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", d.output, err)
	}
	saved := d.output
	if abs, err := filepath.Abs(d.output); err == nil {
		saved = abs
	}
	fmt.Fprintf(d.root.stderr, "saved %s\n", saved)
	d.root.notifier.Export(saved)

	if d.toClipboard {
		img := sess.Snapshot()
		if err := clipboard.WriteImage(img); err != nil {
			return fmt.Errorf("copy image to clipboard: %w", err)
		}
		detail := filepath.Base(d.output)
		fmt.Fprintf(d.root.stderr, "copied %s to clipboard\n", detail)
		d.root.notifier.Copy(detail, img)
	}
	if d.describe {
		fmt.Fprintln(d.root.stdout, generate.Describe(generate.FromRegions(sess.Regions())))
	}
	return nil
}

// clampPoints keeps every point inside a canvas of the given size.
func clampPoints(pts []shape.Point, size image.Point) []shape.Point {
	out := make([]shape.Point, len(pts))
	for i, p := range pts {
		out[i] = shape.Pt(
			max(0, min(p.X, float64(size.X))),
			max(0, min(p.Y, float64(size.Y))),
		)
	}
	return out
}

func expectFloats(args []string, what string) ([]float64, error) {
	vals := make([]float64, len(args))
	for i, raw := range args {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid number %q", what, raw)
		}
		vals[i] = v
	}
	return vals, nil
}

// splitDrawArgs separates flags from positionals so flags may follow the
// tool name. Negative numbers stay positional.
func splitDrawArgs(args []string, fs *flag.FlagSet) ([]string, []string, error) {
	var flags []string
	var positionals []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			positionals = append(positionals, args[i+1:]...)
			break
		}
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			positionals = append(positionals, arg)
			continue
		}
		if _, err := strconv.ParseFloat(arg, 64); err == nil {
			positionals = append(positionals, arg)
			continue
		}
		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		f := fs.Lookup(strings.ToLower(name))
		if f == nil {
			return nil, nil, fmt.Errorf("unknown flag %s", arg)
		}
		norm := "-" + f.Name
		if hasValue {
			flags = append(flags, norm+"="+value)
			continue
		}
		if bf, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && bf.IsBoolFlag() {
			flags = append(flags, norm)
			continue
		}
		if i+1 >= len(args) {
			return nil, nil, fmt.Errorf("flag %s requires a value", arg)
		}
		flags = append(flags, norm, args[i+1])
		i++
	}
	return flags, positionals, nil
}
