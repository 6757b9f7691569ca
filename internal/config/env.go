package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment variables read by ApplyEnv.
const (
	EnvPort      = "PORT"
	EnvAPIKey    = "REACT_APP_GOOGLE_API_KEY"
	EnvProjectID = "REACT_APP_GOOGLE_PROJECT_ID"
	EnvRegion    = "REACT_APP_GOOGLE_REGION"
	EnvTheme     = "MEDIASTUDIO_THEME"
	// EnvNotifyPrefix is followed by EXPORT, COPY, BACKGROUND or GENERATE.
	EnvNotifyPrefix = "MEDIASTUDIO_NOTIFY_"
)

// ApplyEnv overlays environment variables on top of the file settings.
// lookup is usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if v, ok := lookup(EnvPort); ok && v != "" {
		if _, err := strconv.Atoi(v); err != nil {
			return fmt.Errorf("%s: invalid port %q", EnvPort, v)
		}
		c.Server.Listen = ":" + v
	}
	if v, ok := lookup(EnvAPIKey); ok {
		c.Server.APIKey = v
	}
	if v, ok := lookup(EnvProjectID); ok {
		c.Server.ProjectID = v
	}
	if v, ok := lookup(EnvRegion); ok && v != "" {
		c.Server.Region = v
	}
	if v, ok := lookup(EnvTheme); ok && v != "" {
		c.Theme = v
	}
	for _, key := range []string{"export", "copy", "background", "generate"} {
		name := EnvNotifyPrefix + strings.ToUpper(key)
		v, ok := lookup(name)
		if !ok || v == "" {
			continue
		}
		if err := setNotifyField(c, key, v); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}
