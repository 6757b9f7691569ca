package config

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	input := `
theme = my_custom_theme
save_dir = /tmp/annotations

[canvas]
max_width = 1024
max_height = 768
min_size = 10
handle_size = 12

[brush]
color = #00FF00
width = 7.5

[region]
opacity = 0.5

[export]
format = jpeg
file = "out.jpg"
shadow = true

[server]
listen = 127.0.0.1:9000
rate = 2
burst = 4
api_key = secret

[notify]
export = true
copy = false
generate = true

[theme.my_custom_theme]
Background = #111111
Foreground = #FFFFFF
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Theme != "my_custom_theme" {
		t.Errorf("Expected theme 'my_custom_theme', got '%s'", cfg.Theme)
	}
	if cfg.SaveDir != "/tmp/annotations" {
		t.Errorf("Expected save_dir '/tmp/annotations', got '%s'", cfg.SaveDir)
	}
	if cfg.Canvas != (Canvas{MaxWidth: 1024, MaxHeight: 768, MinSize: 10, HandleSize: 12}) {
		t.Errorf("Unexpected canvas section: %+v", cfg.Canvas)
	}
	if cfg.Brush.Color != (color.RGBA{0, 255, 0, 255}) || cfg.Brush.Width != 7.5 {
		t.Errorf("Unexpected brush section: %+v", cfg.Brush)
	}
	if cfg.Region.Opacity != 0.5 {
		t.Errorf("Expected opacity 0.5, got %v", cfg.Region.Opacity)
	}
	if cfg.Export != (Export{Format: "jpeg", File: "out.jpg", Shadow: true}) {
		t.Errorf("Unexpected export section: %+v", cfg.Export)
	}
	if cfg.Server.Listen != "127.0.0.1:9000" || cfg.Server.Rate != 2 || cfg.Server.Burst != 4 || cfg.Server.APIKey != "secret" {
		t.Errorf("Unexpected server section: %+v", cfg.Server)
	}
	if cfg.Server.Region != "us-central1" {
		t.Errorf("Expected default region, got %q", cfg.Server.Region)
	}
	if !cfg.Notify.Export || cfg.Notify.Copy || cfg.Notify.Background || !cfg.Notify.Generate {
		t.Errorf("Unexpected notify section: %+v", cfg.Notify)
	}

	theme, ok := cfg.Themes["my_custom_theme"]
	if !ok {
		t.Fatal("Expected theme 'my_custom_theme' to be loaded")
	}
	if theme.Background.R != 0x11 || theme.Background.G != 0x11 || theme.Background.B != 0x11 {
		t.Errorf("Unexpected Background color: %+v", theme.Background)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []string{
		"[canvas]\nmax_width = -1\n",
		"[brush]\ncolor = notacolor\n",
		"[region]\nopacity = 2\n",
		"[export]\nformat = gif\n",
		"[notify]\nexport = maybe\n",
		"[theme.x]\nBackground = #12\n",
	}
	for _, in := range cases {
		if _, err := Parse(strings.NewReader(in)); err == nil {
			t.Errorf("expected error for %q", in)
		}
	}
}

func TestParseIgnoresUnknown(t *testing.T) {
	cfg, err := Parse(strings.NewReader("[future]\nkey = value\n[canvas]\nfancy = yes\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.Canvas.MaxWidth != 800 {
		t.Errorf("defaults lost: %+v", cfg.Canvas)
	}
}

func TestCircular(t *testing.T) {
	input := `theme = dark
save_dir = /home/user/annotations

[canvas]
max_width = 640
max_height = 480

[brush]
color = #0000FF80
width = 3

[export]
format = pdf
shadow = true

[notify]
export = true
copy = true
background = false

[theme.custom]
Name = custom
Background = #000000
Foreground = #FFFFFF
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	generated := cfg.String()

	cfg2, err := Parse(strings.NewReader(generated))
	if err != nil {
		t.Fatalf("Circular parse failed: %v\n%s", err, generated)
	}

	if cfg.Theme != cfg2.Theme {
		t.Errorf("Theme mismatch: %q vs %q", cfg.Theme, cfg2.Theme)
	}
	if cfg.SaveDir != cfg2.SaveDir {
		t.Errorf("SaveDir mismatch: %q vs %q", cfg.SaveDir, cfg2.SaveDir)
	}
	if cfg.Canvas != cfg2.Canvas || cfg.Brush != cfg2.Brush || cfg.Export != cfg2.Export {
		t.Errorf("Section mismatch:\n%+v\n%+v", cfg, cfg2)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}

	t1 := cfg.Themes["custom"]
	t2 := cfg2.Themes["custom"]
	if t1 == nil || t2 == nil {
		t.Fatalf("Custom theme missing in one config")
	}
	if *t1 != *t2 {
		t.Errorf("Theme mismatch: %+v vs %+v", t1, t2)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvPort:                      "4000",
		EnvAPIKey:                    "key",
		EnvProjectID:                 "proj",
		EnvRegion:                    "europe-west1",
		EnvTheme:                     "dark",
		EnvNotifyPrefix + "COPY":     "true",
		EnvNotifyPrefix + "GENERATE": "1",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
	cfg := New()
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.Server.Listen != ":4000" || cfg.Server.APIKey != "key" || cfg.Server.ProjectID != "proj" || cfg.Server.Region != "europe-west1" {
		t.Errorf("Unexpected server: %+v", cfg.Server)
	}
	if cfg.Theme != "dark" {
		t.Errorf("Theme = %q", cfg.Theme)
	}
	if !cfg.Notify.Copy || !cfg.Notify.Generate || cfg.Notify.Export {
		t.Errorf("Unexpected notify: %+v", cfg.Notify)
	}

	env[EnvPort] = "http"
	if err := New().ApplyEnv(lookup); err == nil {
		t.Errorf("expected error for bad port")
	}
}

func TestLoaderOverrideAndSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "test.rc")

	l := NewLoader("1.0.0", path)
	if _, err := l.Load(); err == nil {
		t.Fatalf("expected error for missing override")
	}

	cfg := New()
	cfg.Theme = "dark"
	saved, err := l.Save(cfg)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved != path {
		t.Fatalf("saved to %s, want %s", saved, path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not written: %v", err)
	}

	got, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Theme != "dark" {
		t.Errorf("Theme = %q", got.Theme)
	}
}
