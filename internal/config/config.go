package config

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/example/mediastudio/internal/theme"
)

// Canvas holds the [canvas] section.
type Canvas struct {
	MaxWidth   int
	MaxHeight  int
	MinSize    float64
	HandleSize float64
}

// Brush holds the [brush] section.
type Brush struct {
	Color color.RGBA
	Width float64
}

// Region holds the [region] section.
type Region struct {
	Opacity float64
}

// Export holds the [export] section.
type Export struct {
	Format string
	File   string
	Shadow bool
}

// Server holds the [server] section.
type Server struct {
	Listen    string
	Rate      float64 // generation requests per second
	Burst     int
	APIKey    string
	ProjectID string
	Region    string
}

// Notify holds notification settings.
type Notify struct {
	Export     bool
	Copy       bool
	Background bool
	Generate   bool
}

// Config holds the application configuration.
type Config struct {
	Theme   string
	SaveDir string
	Canvas  Canvas
	Brush   Brush
	Region  Region
	Export  Export
	Server  Server
	Notify  Notify
	Themes  map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Canvas: Canvas{MaxWidth: 800, MaxHeight: 600, MinSize: 5, HandleSize: 8},
		Brush:  Brush{Color: color.RGBA{255, 0, 0, 255}, Width: 5},
		Region: Region{Opacity: 0.3},
		Export: Export{Format: "png", File: "ai-media-studio-annotated.png"},
		Server: Server{Listen: ":3001", Rate: 5, Burst: 10, Region: "us-central1"},
		Themes: make(map[string]*theme.Theme),
	}
}

// ThemeLoader returns a theme loader that also knows the themes defined in
// this config.
func (c *Config) ThemeLoader() *theme.Loader {
	l := theme.NewLoader()
	l.Custom = c.Themes
	return l
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	sb.WriteString("\n")

	sb.WriteString("[canvas]\n")
	fmt.Fprintf(&sb, "max_width = %d\n", c.Canvas.MaxWidth)
	fmt.Fprintf(&sb, "max_height = %d\n", c.Canvas.MaxHeight)
	fmt.Fprintf(&sb, "min_size = %g\n", c.Canvas.MinSize)
	fmt.Fprintf(&sb, "handle_size = %g\n\n", c.Canvas.HandleSize)

	sb.WriteString("[brush]\n")
	fmt.Fprintf(&sb, "color = %s\n", theme.Hex(c.Brush.Color))
	fmt.Fprintf(&sb, "width = %g\n\n", c.Brush.Width)

	sb.WriteString("[region]\n")
	fmt.Fprintf(&sb, "opacity = %g\n\n", c.Region.Opacity)

	sb.WriteString("[export]\n")
	fmt.Fprintf(&sb, "format = %s\n", c.Export.Format)
	fmt.Fprintf(&sb, "file = %s\n", c.Export.File)
	fmt.Fprintf(&sb, "shadow = %v\n\n", c.Export.Shadow)

	// credentials are never written back
	sb.WriteString("[server]\n")
	fmt.Fprintf(&sb, "listen = %s\n", c.Server.Listen)
	fmt.Fprintf(&sb, "rate = %g\n", c.Server.Rate)
	fmt.Fprintf(&sb, "burst = %d\n", c.Server.Burst)
	fmt.Fprintf(&sb, "region = %s\n\n", c.Server.Region)

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	fmt.Fprintf(&sb, "background = %v\n", c.Notify.Background)
	fmt.Fprintf(&sb, "generate = %v\n", c.Notify.Generate)
	sb.WriteString("\n")

	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		for _, f := range t.Fields() {
			fmt.Fprintf(&sb, "%s: %s\n", f.Name, theme.Hex(f.Color))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
