// Package platform sends desktop notifications through the native
// notification service of each operating system.
package platform

import "time"

// DefaultAppName is reported to the notification service when Options
// leaves AppName empty.
const DefaultAppName = "AI Media Studio"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// AppName identifies the sender. Empty means DefaultAppName.
	AppName string
	// IconPath, when non-empty, points to an image file shown with the
	// notification where supported.
	IconPath string
	// Timeout is how long the notification stays up. Zero lets the
	// platform decide.
	Timeout time.Duration
}

func (o Options) appName() string {
	if o.AppName == "" {
		return DefaultAppName
	}
	return o.AppName
}
