package platform

import "testing"

func TestOptionsAppName(t *testing.T) {
	if got := (Options{}).appName(); got != DefaultAppName {
		t.Fatalf("appName() = %q, want %q", got, DefaultAppName)
	}
	if got := (Options{AppName: "x"}).appName(); got != "x" {
		t.Fatalf("appName() = %q, want x", got)
	}
}
