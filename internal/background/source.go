package background

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/example/mediastudio/internal/clipboard"
)

var (
	// ErrNoBackground is reported when a requested background could not be
	// installed. The previous background stays in place.
	ErrNoBackground = errors.New("no background image available")
	// ErrUnsupportedSource is returned for source strings no fetcher handles.
	ErrUnsupportedSource = errors.New("unsupported background source")
)

// ClipboardSource selects the system clipboard as the image source.
const ClipboardSource = "clipboard:"

// maxDownload caps remote image bodies.
const maxDownload = 50 << 20

// Fetcher resolves a source string to a decoded image.
type Fetcher interface {
	Fetch(ctx context.Context, src string) (image.Image, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, src string) (image.Image, error)

func (f FetcherFunc) Fetch(ctx context.Context, src string) (image.Image, error) {
	return f(ctx, src)
}

// Sources fetches from local files, http(s) and data URLs, and the clipboard.
type Sources struct {
	Client    *http.Client
	Clipboard func() (image.Image, error)
}

// NewSources returns a Sources using http.DefaultClient and the system clipboard.
func NewSources() *Sources {
	return &Sources{Client: http.DefaultClient, Clipboard: clipboard.ReadImage}
}

// Fetch implements Fetcher.
func (s *Sources) Fetch(ctx context.Context, src string) (image.Image, error) {
	src = strings.TrimSpace(src)
	switch {
	case src == "":
		return nil, fmt.Errorf("%w: empty source", ErrUnsupportedSource)
	case src == ClipboardSource:
		if s.Clipboard == nil {
			return nil, fmt.Errorf("%w: clipboard", ErrUnsupportedSource)
		}
		return s.Clipboard()
	case strings.HasPrefix(src, "data:"):
		return decodeDataURL(src)
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		return s.fetchURL(ctx, src)
	case strings.HasPrefix(src, "file://"):
		u, err := url.Parse(src)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", src, err)
		}
		return decodeFile(u.Path)
	default:
		return decodeFile(src)
	}
}

func (s *Sources) fetchURL(ctx context.Context, src string) (image.Image, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", src, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", src, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", src, resp.Status)
	}
	return decode(io.LimitReader(resp.Body, maxDownload))
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

func decodeDataURL(src string) (image.Image, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(src, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("malformed data url")
	}
	var data []byte
	if strings.HasSuffix(meta, ";base64") {
		var err error
		data, err = base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("decode data url: %w", err)
		}
	} else {
		unescaped, err := url.PathUnescape(payload)
		if err != nil {
			return nil, fmt.Errorf("decode data url: %w", err)
		}
		data = []byte(unescaped)
	}
	return decode(bytes.NewReader(data))
}

func decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}
