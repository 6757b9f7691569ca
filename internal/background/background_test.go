package background

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestFit(t *testing.T) {
	tests := []struct {
		w, h int
		want image.Point
	}{
		{1600, 1200, image.Pt(800, 600)},
		{1000, 1000, image.Pt(600, 600)},
		{1920, 1080, image.Pt(800, 450)},
		{400, 300, image.Pt(800, 600)},
		{0, 10, image.Point{}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Fit(tt.w, tt.h, DefaultMaxWidth, DefaultMaxHeight), "%dx%d", tt.w, tt.h)
	}
}

func TestSourcesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bg.png")
	require.NoError(t, os.WriteFile(path, pngBytes(t, 4, 3), 0o644))

	img, err := NewSources().Fetch(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 3), img.Bounds())

	img, err = NewSources().Fetch(context.Background(), "file://"+path)
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())
}

func TestSourcesDataURL(t *testing.T) {
	src := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes(t, 2, 5))
	img, err := NewSources().Fetch(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2, 5), img.Bounds())
}

func TestSourcesHTTP(t *testing.T) {
	data := pngBytes(t, 6, 6)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	s := &Sources{Client: srv.Client()}
	img, err := s.Fetch(context.Background(), srv.URL+"/bg.png")
	require.NoError(t, err)
	assert.Equal(t, 6, img.Bounds().Dx())

	_, err = s.Fetch(context.Background(), srv.URL+"/missing")
	assert.Error(t, err)
}

func TestSourcesRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))
	_, err := NewSources().Fetch(context.Background(), path)
	assert.Error(t, err)

	_, err = NewSources().Fetch(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrUnsupportedSource)

	_, err = (&Sources{}).Fetch(context.Background(), ClipboardSource)
	assert.ErrorIs(t, err, ErrUnsupportedSource)
}

func TestLoaderSupersedesEarlierRequest(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	f := FetcherFunc(func(ctx context.Context, src string) (image.Image, error) {
		if src == "slow" {
			close(started)
			<-release
			return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
		}
		return image.NewRGBA(image.Rect(0, 0, 2, 2)), nil
	})

	var mu sync.Mutex
	var got []Result
	done := func(r Result) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, r)
	}

	l := NewLoader(f)
	l.Load(context.Background(), "slow", done)
	<-started
	l.Load(context.Background(), "fast", done)
	close(release)
	l.Wait()

	require.Len(t, got, 1)
	assert.Equal(t, "fast", got[0].Source)
	assert.NoError(t, got[0].Err)
}

func TestLoaderReportsFailure(t *testing.T) {
	boom := errors.New("boom")
	l := NewLoader(FetcherFunc(func(context.Context, string) (image.Image, error) {
		return nil, boom
	}))
	var res Result
	l.Load(context.Background(), "x", func(r Result) { res = r })
	l.Wait()
	assert.ErrorIs(t, res.Err, ErrNoBackground)
	assert.ErrorIs(t, res.Err, boom)
	assert.Nil(t, res.Image)
}

func TestLoaderCancel(t *testing.T) {
	f := FetcherFunc(func(ctx context.Context, _ string) (image.Image, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	called := false
	l := NewLoader(f)
	l.Load(context.Background(), "x", func(Result) { called = true })
	l.Cancel()
	l.Wait()
	assert.False(t, called)
}
