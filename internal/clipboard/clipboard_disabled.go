//go:build !cgo && !windows

package clipboard

import "fmt"

var errCGODisabled = fmt.Errorf("%w: clipboard operations require cgo support", ErrUnavailable)

func writeImage([]byte) error { return errCGODisabled }

func readImage() ([]byte, error) { return nil, errCGODisabled }

func writeText(string) error { return errCGODisabled }

func readText() ([]byte, error) { return nil, errCGODisabled }
