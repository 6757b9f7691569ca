// Package clipboard moves exported snapshots and background images through
// the system clipboard.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
)

var (
	// ErrNoImage is returned when the clipboard holds no decodable image.
	ErrNoImage = errors.New("clipboard does not contain image data")
	// ErrNoText is returned when the clipboard holds no text.
	ErrNoText = errors.New("clipboard does not contain text data")
	// ErrUnavailable is returned when no clipboard backend can be reached.
	ErrUnavailable = errors.New("clipboard is not available")
)

// WriteImage encodes img as PNG and publishes it.
func WriteImage(img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode clipboard image: %w", err)
	}
	return WritePNG(buf.Bytes())
}

// WritePNG publishes already encoded PNG bytes.
func WritePNG(data []byte) error {
	return writeImage(data)
}

// ReadImage decodes the clipboard image in any registered image format.
func ReadImage() (image.Image, error) {
	data, err := readImage()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrNoImage
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode clipboard image: %w", err)
	}
	return img, nil
}

// WriteText replaces the clipboard content with text.
func WriteText(text string) error {
	return writeText(text)
}

// ReadText returns the clipboard text.
func ReadText() (string, error) {
	data, err := readText()
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", ErrNoText
	}
	return string(data), nil
}
