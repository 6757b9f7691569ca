package theme

import (
	"image/color"

	"github.com/example/mediastudio/internal/render"
)

// Theme defines the color palette of the annotation window.
type Theme struct {
	Name string

	// General
	Background color.RGBA // behind the canvas
	Foreground color.RGBA // status and label text

	// Toolbar
	ToolbarBackground     color.RGBA
	ButtonBackground      color.RGBA
	ButtonBackgroundHover color.RGBA
	ButtonBackgroundPress color.RGBA // active tool
	ButtonText            color.RGBA
	ButtonTextPress       color.RGBA
	ButtonBorder          color.RGBA

	// Canvas
	CanvasBackground color.RGBA // shown when no background image is loaded
	CheckerLight     color.RGBA
	CheckerDark      color.RGBA

	// Selection
	SelectionOutline    color.RGBA
	SelectionOutlineAlt color.RGBA
	HandleFill          color.RGBA
	HandleBorder        color.RGBA
}

// Default returns the built-in light theme.
func Default() *Theme {
	return &Theme{
		Name:                  "Default",
		Background:            color.RGBA{220, 220, 220, 255},
		Foreground:            color.RGBA{0, 0, 0, 255},
		ToolbarBackground:     color.RGBA{220, 220, 220, 255},
		ButtonBackground:      color.RGBA{200, 200, 200, 255},
		ButtonBackgroundHover: color.RGBA{180, 180, 180, 255},
		ButtonBackgroundPress: color.RGBA{150, 150, 150, 255},
		ButtonText:            color.RGBA{0, 0, 0, 255},
		ButtonTextPress:       color.RGBA{0, 0, 0, 255},
		ButtonBorder:          color.RGBA{0, 0, 0, 255},
		CanvasBackground:      color.RGBA{255, 255, 255, 255},
		CheckerLight:          color.RGBA{220, 220, 220, 255},
		CheckerDark:           color.RGBA{192, 192, 192, 255},
		SelectionOutline:      color.RGBA{255, 255, 255, 255},
		SelectionOutlineAlt:   color.RGBA{0, 0, 0, 255},
		HandleFill:            color.RGBA{255, 255, 255, 255},
		HandleBorder:          color.RGBA{0, 0, 0, 255},
	}
}

// Selection returns the decoration style for the selected region.
func (t *Theme) Selection() render.Style {
	return render.Style{
		Outline:      t.SelectionOutline,
		OutlineAlt:   t.SelectionOutlineAlt,
		HandleFill:   t.HandleFill,
		HandleBorder: t.HandleBorder,
	}
}
