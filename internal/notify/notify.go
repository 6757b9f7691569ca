// Package notify raises desktop notifications for finished exports,
// clipboard copies, background loads and generation results.
package notify

import (
	"fmt"
	"image"
	"image/png"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/example/mediastudio/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventExport fires when an annotated image is written to disk.
	EventExport Event = "export"
	// EventCopy fires when the annotated image is copied to the clipboard.
	EventCopy Event = "copy"
	// EventBackground fires when a background image finishes loading or
	// fails to.
	EventBackground Event = "background"
	// EventGenerate fires when a generation request returns.
	EventGenerate Event = "generate"
)

// Events lists every event in display order.
func Events() []Event {
	return []Event{EventExport, EventCopy, EventBackground, EventGenerate}
}

// EventPreference describes formatting for a notification event.
type EventPreference struct {
	Template string
}

// Preferences describes notification behaviour loaded from configuration.
type Preferences struct {
	Title  string
	Events map[Event]EventPreference
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: platform.DefaultAppName,
		Events: map[Event]EventPreference{
			EventExport:     {Template: "Saved %s"},
			EventCopy:       {Template: "Copied %s to clipboard"},
			EventBackground: {Template: "Background %s"},
			EventGenerate:   {Template: "Generated %s"},
		},
	}
}

// LoadPreferences overlays MEDIASTUDIO_NOTIFY_TITLE and
// MEDIASTUDIO_NOTIFY_<EVENT>_TEXT on the defaults.
func LoadPreferences(getenv func(string) string) Preferences {
	if getenv == nil {
		getenv = os.Getenv
	}
	prefs := DefaultPreferences()
	if v := strings.TrimSpace(getenv("MEDIASTUDIO_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	for _, event := range Events() {
		key := "MEDIASTUDIO_NOTIFY_" + strings.ToUpper(string(event)) + "_TEXT"
		if v := strings.TrimSpace(getenv(key)); v != "" {
			prefs.Events[event] = EventPreference{Template: v}
		}
	}
	return prefs
}

// Notifier sends OS-level notifications based on the configured preferences.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
	send    func(title, body string, opts platform.Options) error
	logger  *zap.Logger
}

// New creates a new Notifier using the provided preferences. Every event
// starts disabled.
func New(prefs Preferences, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{
		prefs:   Preferences{Title: prefs.Title, Events: maps.Clone(prefs.Events)},
		enabled: make(map[Event]bool),
		send:    platform.Notify,
		logger:  logger,
	}
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	n.enabled[event] = enabled
}

// Export reports a written file, using it as the icon when it exists.
func (n *Notifier) Export(path string) {
	if !n.enabledFor(EventExport) {
		return
	}
	detail := strings.TrimSpace(path)
	opts := platform.Options{}
	if abs, err := filepath.Abs(path); err == nil {
		detail = abs
		if _, err := os.Stat(abs); err == nil {
			opts.IconPath = abs
		}
	}
	n.dispatch(EventExport, detail, opts)
}

// Copy reports a clipboard copy with an optional preview.
func (n *Notifier) Copy(detail string, img image.Image) {
	if !n.enabledFor(EventCopy) {
		return
	}
	if strings.TrimSpace(detail) == "" {
		detail = "image"
	}
	opts := platform.Options{}
	if img != nil {
		path, cleanup, err := createPreview(img)
		if err != nil {
			n.logger.Warn("notification preview", zap.Error(err))
		} else {
			defer cleanup()
			opts.IconPath = path
		}
	}
	n.dispatch(EventCopy, detail, opts)
}

// Background reports the outcome of a background load.
func (n *Notifier) Background(src string, err error) {
	if !n.enabledFor(EventBackground) {
		return
	}
	detail := "loaded from " + src
	if err != nil {
		detail = "unavailable: " + err.Error()
	}
	n.dispatch(EventBackground, detail, platform.Options{})
}

// Generate reports a generation result.
func (n *Notifier) Generate(kind, url string) {
	if !n.enabledFor(EventGenerate) {
		return
	}
	n.dispatch(EventGenerate, kind+" "+url, platform.Options{})
}

func (n *Notifier) enabledFor(event Event) bool {
	return n != nil && n.enabled[event]
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	template := strings.TrimSpace(n.prefs.Events[event].Template)
	if template == "" {
		return
	}
	var body string
	if strings.Contains(template, "%s") {
		body = fmt.Sprintf(template, strings.TrimSpace(detail))
	} else {
		body = template
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return
	}
	opts.AppName = n.prefs.Title
	if err := n.send(n.prefs.Title, body, opts); err != nil {
		n.logger.Warn("notification failed", zap.String("event", string(event)), zap.Error(err))
	}
}

func createPreview(img image.Image) (string, func(), error) {
	f, err := os.CreateTemp("", "mediastudio-preview-*.png")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}
	return path, func() { _ = os.Remove(path) }, nil
}
