package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/example/mediastudio/internal/render"
	"github.com/example/mediastudio/internal/theme"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var section string
	var currentTheme *theme.Theme
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.ToLower(strings.TrimSpace(line[1 : len(line)-1]))
			currentTheme = nil
			if name, ok := strings.CutPrefix(section, "theme."); ok {
				// Start with defaults so missing keys are fine
				currentTheme = theme.Default()
				currentTheme.Name = name
				cfg.Themes[name] = currentTheme
			}
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			key, value, ok = strings.Cut(line, ":")
		}
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		if len(value) >= 2 && strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
			value = value[1 : len(value)-1]
		}

		var err error
		switch {
		case currentTheme != nil:
			err = theme.Set(currentTheme, key, value)
		case section == "":
			err = setRootField(cfg, key, value)
		default:
			set, known := sections[section]
			if !known {
				continue
			}
			err = set(cfg, key, value)
		}
		if err != nil {
			name := section
			if name == "" {
				name = "root"
			}
			return nil, fmt.Errorf("line %d: error in section [%s]: %w", lineNo, name, err)
		}
	}

	return cfg, scanner.Err()
}

var sections = map[string]func(*Config, string, string) error{
	"canvas": setCanvasField,
	"brush":  setBrushField,
	"region": setRegionField,
	"export": setExportField,
	"server": setServerField,
	"notify": setNotifyField,
}

func setRootField(cfg *Config, key, value string) error {
	switch key {
	case "theme":
		cfg.Theme = value
	case "save_dir":
		cfg.SaveDir = value
	}
	return nil
}

func setCanvasField(cfg *Config, key, value string) error {
	var err error
	switch key {
	case "max_width":
		cfg.Canvas.MaxWidth, err = positiveInt(key, value)
	case "max_height":
		cfg.Canvas.MaxHeight, err = positiveInt(key, value)
	case "min_size":
		cfg.Canvas.MinSize, err = positiveFloat(key, value)
	case "handle_size":
		cfg.Canvas.HandleSize, err = positiveFloat(key, value)
	}
	return err
}

func setBrushField(cfg *Config, key, value string) error {
	var err error
	switch key {
	case "color":
		cfg.Brush.Color, err = theme.ParseColor(value)
		if err != nil {
			err = fmt.Errorf("invalid color for key %s: %w", key, err)
		}
	case "width":
		cfg.Brush.Width, err = positiveFloat(key, value)
	}
	return err
}

func setRegionField(cfg *Config, key, value string) error {
	if key != "opacity" {
		return nil
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil || v < 0 || v > 1 {
		return fmt.Errorf("opacity must be between 0 and 1, got %q", value)
	}
	cfg.Region.Opacity = v
	return nil
}

func setExportField(cfg *Config, key, value string) error {
	switch key {
	case "format":
		f, err := render.ParseFormat(value)
		if err != nil {
			return err
		}
		cfg.Export.Format = string(f)
	case "file":
		cfg.Export.File = value
	case "shadow":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for key %s: %w", key, err)
		}
		cfg.Export.Shadow = b
	}
	return nil
}

func setServerField(cfg *Config, key, value string) error {
	var err error
	switch key {
	case "listen":
		cfg.Server.Listen = value
	case "rate":
		cfg.Server.Rate, err = positiveFloat(key, value)
	case "burst":
		cfg.Server.Burst, err = positiveInt(key, value)
	case "api_key":
		cfg.Server.APIKey = value
	case "project_id":
		cfg.Server.ProjectID = value
	case "region":
		cfg.Server.Region = value
	}
	return err
}

func setNotifyField(cfg *Config, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch key {
	case "export":
		cfg.Notify.Export = b
	case "copy":
		cfg.Notify.Copy = b
	case "background":
		cfg.Notify.Background = b
	case "generate":
		cfg.Notify.Generate = b
	}
	return nil
}

func positiveInt(key, value string) (int, error) {
	v, err := strconv.Atoi(value)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, value)
	}
	return v, nil
}

func positiveFloat(key, value string) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%s must be a positive number, got %q", key, value)
	}
	return v, nil
}
