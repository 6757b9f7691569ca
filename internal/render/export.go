package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// Format is an export encoding.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	PDF  Format = "pdf"
)

// DefaultFileName is used when an export has no explicit destination.
const DefaultFileName = "ai-media-studio-annotated.png"

// ErrUnknownFormat is returned for unsupported format names.
var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat accepts png, jpg, jpeg and pdf in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "png", "":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "pdf":
		return PDF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FormatForPath picks the format from a file extension, falling back to
// PNG.
func FormatForPath(path string) Format {
	f, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return PNG
	}
	return f
}

// Exporter encodes composed snapshots.
type Exporter struct {
	Format Format
	// Shadow, when set, wraps the snapshot in a drop shadow first.
	Shadow  *Shadow
	Quality int
}

// Encode writes img to w.
func (e Exporter) Encode(w io.Writer, img *image.RGBA) error {
	if e.Shadow != nil {
		img, _ = e.Shadow.Apply(img)
	}
	switch e.Format {
	case PNG, "":
		return png.Encode(w, img)
	case JPEG:
		q := e.Quality
		if q <= 0 {
			q = 92
		}
		return jpeg.Encode(w, flatten(img), &jpeg.Options{Quality: q})
	case PDF:
		return encodePDF(w, img)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, string(e.Format))
}

// flatten puts img on white, as JPEG has no alpha.
func flatten(img *image.RGBA) *image.RGBA {
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Over)
	return out
}

// encodePDF writes a one page document sized to the image, in points, with
// the PNG snapshot as its only content.
func encodePDF(w io.Writer, img *image.RGBA) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode pdf page: %w", err)
	}
	wd := float64(img.Bounds().Dx())
	ht := float64(img.Bounds().Dy())
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: wd, Ht: ht},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("snapshot", opts, &buf)
	pdf.ImageOptions("snapshot", 0, 0, wd, ht, false, opts, 0, "")
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
