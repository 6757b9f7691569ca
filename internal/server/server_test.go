package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/mediastudio/internal/generate"
	"github.com/example/mediastudio/internal/metrics"
	"github.com/example/mediastudio/internal/shape"
)

var fixed = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, opts ...Option) (*Server, *httptest.Server) {
	t.Helper()
	svc := generate.NewService(
		generate.WithClock(func() time.Time { return fixed }),
		generate.WithRand(func(int) int { return 0 }),
		generate.WithCredentials(generate.Credentials{APIKey: "k"}),
	)
	s := New(svc, opts...)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestGenerateImage(t *testing.T) {
	_, ts := newTestServer(t)
	resp := postJSON(t, ts.URL+"/api/generate-image", map[string]any{
		"prompt":         "a lighthouse",
		"style":          "cartoon",
		"aspectRatio":    "1:1",
		"negativePrompt": "fog",
		"annotations":    []map[string]any{{"type": "rectangle", "x": 10, "y": 20, "width": 30, "height": 40}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	res := decode[generate.ImageResult](t, resp)
	assert.True(t, res.Success)
	assert.Equal(t, generate.DefaultCatalog().Images["cartoon"][0]+"&w=600&h=600&random=1714564800000", res.ImageURL)
	assert.Equal(t, "a lighthouse. Focus on areas marked by: rectangle at (10, 20) size 30x40. Avoid: fog", res.Metadata.Prompt)
	assert.Equal(t, "a lighthouse", res.Metadata.OriginalPrompt)
}

func TestGenerateImageErrors(t *testing.T) {
	_, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/generate-image", map[string]any{"style": "cartoon"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[errorBody](t, resp)
	assert.Equal(t, "invalid request", body.Error)
	assert.Equal(t, generate.ErrEmptyPrompt.Error(), body.Message)

	bad, err := http.Post(ts.URL+"/api/generate-image", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	defer bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)

	get, err := http.Get(ts.URL + "/api/generate-image")
	require.NoError(t, err)
	defer get.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, get.StatusCode)
}

func TestEditImageMultipart(t *testing.T) {
	_, ts := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("prompt", "brighter sky"))
	require.NoError(t, mw.WriteField("style", "vintage"))
	require.NoError(t, mw.WriteField("annotations", `[{"type":"circle","x":50,"y":60,"radius":10}]`))
	fw, err := mw.CreateFormFile("image", "photo.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("not really a png"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(ts.URL+"/api/edit-image", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	res := decode[generate.ImageResult](t, resp)
	assert.Equal(t, "https://picsum.photos/800/600?random=1714564800000&sepia=50&contrast=0.8", res.ImageURL)
	assert.Equal(t, "brighter sky. Apply changes to areas marked by: circle at (50, 60) size 20x20", res.Metadata.Prompt)
	require.Len(t, res.Metadata.Annotations, 1)
}

func TestEditImageBadAnnotationsIgnored(t *testing.T) {
	_, ts := newTestServer(t)
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("prompt", "sky"))
	require.NoError(t, mw.WriteField("annotations", "not json"))
	require.NoError(t, mw.Close())

	resp, err := http.Post(ts.URL+"/api/edit-image", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	res := decode[generate.ImageResult](t, resp)
	assert.Equal(t, "sky", res.Metadata.Prompt)
	assert.Empty(t, res.Metadata.Annotations)
}

func TestGenerateVideo(t *testing.T) {
	_, ts := newTestServer(t)
	resp := postJSON(t, ts.URL+"/api/generate-video", map[string]any{"prompt": "waves", "duration": 8, "includeAudio": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	res := decode[generate.VideoResult](t, resp)
	assert.Equal(t, generate.DefaultCatalog().Videos[0], res.VideoURL)
	assert.Equal(t, 8.0, res.Metadata.Duration)
	assert.True(t, res.Metadata.IncludeAudio)
}

func TestStatus(t *testing.T) {
	_, ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	st := decode[generate.Status](t, resp)
	assert.Equal(t, "online", st.Status)
	assert.True(t, st.APIKeyConfigured)
	assert.False(t, st.ProjectIDConfigured)
	assert.True(t, st.Features.ImageEditing)
}

func TestPreflight(t *testing.T) {
	_, ts := newTestServer(t)
	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/generate-image", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "POST")
}

func TestRateLimit(t *testing.T) {
	_, ts := newTestServer(t, WithRateLimit(0.001, 2))
	codes := make([]int, 0, 3)
	for range 3 {
		resp := postJSON(t, ts.URL+"/api/generate-video", map[string]any{"prompt": "x"})
		codes = append(codes, resp.StatusCode)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	// status is not limited
	resp, err := http.Get(ts.URL + "/api/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRecoveryReturnsJSON(t *testing.T) {
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), Recovery(zapNop()))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "boom", body.Message)
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.NewCollector(metrics.Namespace, reg, nil)
	_, ts := newTestServer(t, WithMetrics(c, reg))

	resp := postJSON(t, ts.URL+"/api/generate-image", map[string]any{"prompt": "x"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	m, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer m.Body.Close()
	var sb bytes.Buffer
	_, err = sb.ReadFrom(m.Body)
	require.NoError(t, err)
	assert.Contains(t, sb.String(), `mediastudio_generations_total{kind="image",status="success"} 1`)
	assert.Contains(t, sb.String(), `path="POST /api/generate-image"`)
}

func TestAnnotationsPublishAndGet(t *testing.T) {
	s, ts := newTestServer(t)
	s.Hub().Regions([]shape.Region{{Kind: shape.Rectangle, ID: "r1", X: 1, Y: 2, Width: 3, Height: 4}})

	resp, err := http.Get(ts.URL + "/api/annotations")
	require.NoError(t, err)
	defer resp.Body.Close()
	u := decode[Update](t, resp)
	assert.Equal(t, uint64(1), u.Version)
	assert.Equal(t, "rectangle at (1, 2) size 3x4", u.Description)

	post := postJSON(t, ts.URL+"/api/annotations", map[string]any{
		"annotations": []map[string]any{{"type": "circle", "x": 5, "y": 5, "radius": 2}},
	})
	require.Equal(t, http.StatusOK, post.StatusCode)
	u = decode[Update](t, post)
	assert.Equal(t, uint64(2), u.Version)
	assert.Equal(t, "circle at (5, 5) size 4x4", u.Description)
}

func TestAnnotationStream(t *testing.T) {
	s, ts := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	hubCtx, stopHub := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.Hub().Run(hubCtx)
	}()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/annotations/stream"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	var first Update
	require.NoError(t, wsjson.Read(ctx, conn, &first))
	assert.Equal(t, uint64(0), first.Version)

	s.Hub().Publish([]generate.Annotation{{Type: "rectangle", X: 1, Y: 1, Width: 2, Height: 2}})
	var next Update
	require.NoError(t, wsjson.Read(ctx, conn, &next))
	assert.Equal(t, uint64(1), next.Version)
	require.Len(t, next.Annotations, 1)

	stopHub()
	<-done
	_, _, err = conn.Read(ctx)
	assert.Equal(t, websocket.StatusGoingAway, websocket.CloseStatus(err))
}

func TestRunRestarts(t *testing.T) {
	s, _ := newTestServer(t, WithAddr("127.0.0.1:0"))
	for i := 0; i < 2; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- s.Run(ctx) }()

		if i == 0 {
			select {
			case addr := <-s.Ready():
				require.NotNil(t, addr)
			case <-time.After(5 * time.Second):
				t.Fatal("server not ready")
			}
		}

		require.Eventually(t, func() bool {
			sub, unsubscribe := s.Hub().Subscribe()
			defer unsubscribe()
			_, open := <-sub
			return open
		}, 5*time.Second, 10*time.Millisecond, "run %d: hub should accept subscribers", i)

		cancel()
		select {
		case err := <-done:
			require.NoError(t, err, "run %d", i)
		case <-time.After(5 * time.Second):
			t.Fatalf("run %d did not stop", i)
		}
	}
}
