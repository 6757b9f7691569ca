package main

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/mediastudio/internal/background"
	"github.com/example/mediastudio/internal/canvas"
	"github.com/example/mediastudio/internal/config"
	"github.com/example/mediastudio/internal/render"
	"github.com/example/mediastudio/internal/theme"
)

func testRoot(t *testing.T) (*root, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	r := newRootWith(config.New(), &stdout, &stderr)
	r.activeTheme = theme.Default()
	return r, &stdout, &stderr
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{255, 255, 255, 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
}

func TestSplitDrawArgs(t *testing.T) {
	r, _, _ := testRoot(t)
	d, err := parseDrawCmd([]string{"rect", "-10", "5", "20", "-output", "out.png", "30", "--describe"}, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.tool != canvas.Rectangle {
		t.Fatalf("tool = %v", d.tool)
	}
	if !d.describe || d.output != "out.png" {
		t.Fatalf("flags not applied: describe=%v output=%q", d.describe, d.output)
	}
	if d.points[0].X != -10 || d.points[1].Y != 30 {
		t.Fatalf("points = %v", d.points)
	}

	if _, err := parseDrawCmd([]string{"rect", "0", "0", "1", "1", "-bogus"}, r); err == nil || !strings.Contains(err.Error(), "unknown flag") {
		t.Fatalf("expected unknown flag error, got %v", err)
	}
}

func TestParseDrawCmdErrors(t *testing.T) {
	cases := map[string][]string{
		"select":      {"select", "1", "2"},
		"rect arity":  {"rect", "1", "2", "3"},
		"circle":      {"circle", "1", "2"},
		"brush pairs": {"brush", "1", "2", "3"},
		"bad number":  {"brush", "1", "x"},
		"bad tool":    {"lasso"},
		"exclusive":   {"-file", "a.png", "-from-clipboard", "rect", "0", "0", "1", "1"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			r, _, _ := testRoot(t)
			if _, err := parseDrawCmd(args, r); err == nil {
				t.Fatalf("expected error for %v", args)
			}
		})
	}

	r, _, _ := testRoot(t)
	_, err := parseDrawCmd(nil, r)
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestParseDrawCmdCircle(t *testing.T) {
	r, _, _ := testRoot(t)
	d, err := parseDrawCmd([]string{"circle", "100", "80", "25"}, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(d.points) != 2 || d.points[1].X != 125 || d.points[1].Y != 80 {
		t.Fatalf("points = %v", d.points)
	}
	if d.output != config.New().Export.File {
		t.Fatalf("output = %q", d.output)
	}
}

func TestDrawRun(t *testing.T) {
	dir := t.TempDir()
	bg := filepath.Join(dir, "bg.png")
	writePNG(t, bg, 80, 60)
	out := filepath.Join(dir, "out.png")

	r, stdout, stderr := testRoot(t)
	d, err := parseDrawCmd([]string{"-file", bg, "-output", out, "-color", "blue", "-describe", "rect", "10", "10", "50", "40"}, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := d.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 800 || b.Dy() != 600 {
		t.Fatalf("output size = %v", b)
	}
	if got := strings.TrimSpace(stdout.String()); got != "rectangle at (10, 10) size 40x30" {
		t.Fatalf("describe = %q", got)
	}
	if !strings.Contains(stderr.String(), "saved ") {
		t.Fatalf("stderr = %q", stderr.String())
	}
}

func TestDrawRunClampsToCanvas(t *testing.T) {
	dir := t.TempDir()
	bg := filepath.Join(dir, "bg.png")
	writePNG(t, bg, 80, 60)

	r, stdout, _ := testRoot(t)
	d, err := parseDrawCmd([]string{"-file", bg, "-output", filepath.Join(dir, "out.png"), "-describe", "rect", "-10", "-20", "900", "700"}, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := d.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := strings.TrimSpace(stdout.String()); got != "rectangle at (0, 0) size 800x600" {
		t.Fatalf("describe = %q", got)
	}
}

func TestDrawRunMissingBackground(t *testing.T) {
	dir := t.TempDir()
	r, _, _ := testRoot(t)
	d, err := parseDrawCmd([]string{"-file", filepath.Join(dir, "missing.png"), "-output", filepath.Join(dir, "out.png"), "brush", "1", "1", "5", "5"}, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	err = d.Run()
	if !errors.Is(err, background.ErrNoBackground) {
		t.Fatalf("expected ErrNoBackground, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "out.png")); statErr == nil {
		t.Fatalf("output written despite failed background")
	}
}

func TestPromptCmd(t *testing.T) {
	dir := t.TempDir()
	ann := filepath.Join(dir, "ann.json")
	if err := os.WriteFile(ann, []byte(`[{"type":"rectangle","x":1,"y":2,"width":3,"height":4}]`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	r, stdout, _ := testRoot(t)
	p, err := parsePromptCmd([]string{"-annotations", ann, "-negative", "dogs", "a", "cat"}, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := p.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := "a cat. Focus on areas marked by: rectangle at (1, 2) size 3x4. Avoid: dogs"
	if got := strings.TrimSpace(stdout.String()); got != want {
		t.Fatalf("got %q want %q", got, want)
	}

	stdout.Reset()
	p, err = parsePromptCmd([]string{"-edit", "-annotations", ann, "brighter"}, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := p.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := strings.TrimSpace(stdout.String()); got != "brighter. Apply changes to areas marked by: rectangle at (1, 2) size 3x4" {
		t.Fatalf("edit prompt = %q", got)
	}
}

func TestPromptCmdEmpty(t *testing.T) {
	r, _, _ := testRoot(t)
	_, err := parsePromptCmd([]string{"  "}, r)
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if !strings.Contains(uerr.Error(), "Usage: mediastudio prompt") {
		t.Fatalf("help missing: %q", uerr.Error())
	}
}

func TestUsageErrorRendersFlags(t *testing.T) {
	r, _, _ := testRoot(t)
	msg := (&UsageError{of: r}).Error()
	for _, want := range []string{"Usage: mediastudio", "annotate", "-theme", "-log-level (default warn)"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("root help missing %q:\n%s", want, msg)
		}
	}
	v := &versionCmd{root: r}
	if msg := (&UsageError{of: v, msg: "oops"}).Error(); !strings.HasPrefix(msg, "oops\n\n") {
		t.Fatalf("version help = %q", msg)
	}
}

func TestRootUnknownCommand(t *testing.T) {
	r, _, _ := testRoot(t)
	err := r.Run([]string{"paint"})
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestConfigPrint(t *testing.T) {
	r, stdout, _ := testRoot(t)
	c, err := parseConfigCmd([]string{"print"}, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := c.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, want := range []string{"[canvas]", "max_width = 800", "[export]"} {
		if !strings.Contains(stdout.String(), want) {
			t.Fatalf("config output missing %q", want)
		}
	}

	c, err = parseConfigCmd([]string{"reset"}, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var uerr *UsageError
	if err := c.Run(); !errors.As(err, &uerr) || !strings.Contains(err.Error(), "unknown config command: reset") {
		t.Fatalf("expected unknown command usage error, got %v", err)
	}
}

func TestVersion(t *testing.T) {
	oldCommit, oldDate := commit, date
	t.Cleanup(func() { commit, date = oldCommit, oldDate })
	commit, date = "abc123", "2024-01-01"

	r, stdout, _ := testRoot(t)
	if err := (&versionCmd{root: r}).Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := "mediastudio version " + version + " (abc123, 2024-01-01)"
	if got := strings.TrimSpace(stdout.String()); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestExporterFormat(t *testing.T) {
	b := brushFlags{fallback: "png"}
	e, err := b.exporter("shot.jpg")
	if err != nil {
		t.Fatalf("exporter: %v", err)
	}
	b.format = "pdf"
	f, err := b.exporter("shot.jpg")
	if err != nil {
		t.Fatalf("exporter: %v", err)
	}
	if e.Format != render.JPEG || f.Format != render.PDF {
		t.Fatalf("formats = %v, %v", e.Format, f.Format)
	}
	b.format = "tiff"
	if _, err := b.exporter("shot.png"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
