package canvas

import (
	"fmt"
	"strings"
)

// Tool is the active pointer tool.
type Tool int

const (
	Select Tool = iota
	Brush
	Eraser
	Rectangle
	Circle
)

// Tools lists every tool in toolbar order.
func Tools() []Tool {
	return []Tool{Select, Brush, Eraser, Rectangle, Circle}
}

func (t Tool) String() string {
	switch t {
	case Select:
		return "select"
	case Brush:
		return "brush"
	case Eraser:
		return "eraser"
	case Rectangle:
		return "rect"
	case Circle:
		return "circle"
	default:
		return fmt.Sprintf("tool(%d)", int(t))
	}
}

// ParseTool maps a tool name to a Tool.
func ParseTool(s string) (Tool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "select", "move":
		return Select, nil
	case "brush", "pen", "draw":
		return Brush, nil
	case "eraser", "erase":
		return Eraser, nil
	case "rect", "rectangle", "box":
		return Rectangle, nil
	case "circle":
		return Circle, nil
	}
	return Select, fmt.Errorf("unknown tool %q", s)
}

// Mode is the gesture state of a session.
type Mode int

const (
	Idle Mode = iota
	// Drawing means a stroke or region created by pointer-down is open.
	Drawing
	// Transforming means a selected region is being moved or resized.
	Transforming
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Drawing:
		return "drawing"
	case Transforming:
		return "transforming"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}
