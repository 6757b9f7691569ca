package generate

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Version is reported by Status.
const Version = "1.0.0"

// ErrEmptyPrompt is returned when a request has no prompt text.
var ErrEmptyPrompt = errors.New("prompt is required")

// Credentials name the upstream generator account. Only their presence is
// reported.
type Credentials struct {
	APIKey    string
	ProjectID string
	Region    string
}

// ImageRequest asks for a new image.
type ImageRequest struct {
	Prompt         string       `json:"prompt"`
	Style          string       `json:"style,omitempty"`
	AspectRatio    string       `json:"aspectRatio,omitempty"`
	Quality        float64      `json:"quality,omitempty"`
	Creativity     float64      `json:"creativity,omitempty"`
	NegativePrompt string       `json:"negativePrompt,omitempty"`
	Annotations    []Annotation `json:"annotations,omitempty"`
}

// ImageMetadata echoes the request next to the prompt actually used.
type ImageMetadata struct {
	Prompt         string       `json:"prompt"`
	OriginalPrompt string       `json:"originalPrompt"`
	Style          string       `json:"style,omitempty"`
	AspectRatio    string       `json:"aspectRatio,omitempty"`
	Quality        float64      `json:"quality,omitempty"`
	Creativity     float64      `json:"creativity,omitempty"`
	Annotations    []Annotation `json:"annotations"`
	GeneratedAt    *time.Time   `json:"generatedAt,omitempty"`
	EditedAt       *time.Time   `json:"editedAt,omitempty"`
}

// ImageResult is the answer to an image request.
type ImageResult struct {
	Success     bool          `json:"success"`
	ImageURL    string        `json:"imageUrl"`
	Metadata    ImageMetadata `json:"metadata"`
	IsSimulated bool          `json:"isSimulated,omitempty"`
}

// EditRequest asks for changes to an existing image.
type EditRequest struct {
	Prompt      string       `json:"prompt"`
	Style       string       `json:"style,omitempty"`
	Creativity  float64      `json:"creativity,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
	// Image is the uploaded source, if any.
	Image []byte `json:"-"`
}

// VideoRequest asks for a video clip.
type VideoRequest struct {
	Prompt          string  `json:"prompt"`
	Duration        float64 `json:"duration,omitempty"`
	AspectRatio     string  `json:"aspectRatio,omitempty"`
	Quality         string  `json:"quality,omitempty"`
	FPS             int     `json:"fps,omitempty"`
	CameraMovement  string  `json:"cameraMovement,omitempty"`
	MotionIntensity float64 `json:"motionIntensity,omitempty"`
	IncludeAudio    bool    `json:"includeAudio,omitempty"`
	AudioType       string  `json:"audioType,omitempty"`
}

// VideoMetadata echoes a video request.
type VideoMetadata struct {
	VideoRequest
	GeneratedAt time.Time `json:"generatedAt"`
}

// VideoResult is the answer to a video request.
type VideoResult struct {
	Success  bool          `json:"success"`
	VideoURL string        `json:"videoUrl"`
	Metadata VideoMetadata `json:"metadata"`
}

// Features lists what the service can do.
type Features struct {
	ImageGeneration bool `json:"imageGeneration"`
	ImageEditing    bool `json:"imageEditing"`
	VideoGeneration bool `json:"videoGeneration"`
	Annotations     bool `json:"annotations"`
}

// Status describes the service.
type Status struct {
	Status              string    `json:"status"`
	Timestamp           time.Time `json:"timestamp"`
	APIKeyConfigured    bool      `json:"apiKeyConfigured"`
	ProjectIDConfigured bool      `json:"projectIdConfigured"`
	Version             string    `json:"version"`
	Features            Features  `json:"features"`
}

// Service answers generation requests with placeholder media.
type Service struct {
	catalog Catalog
	creds   Credentials
	now     func() time.Time
	intn    func(n int) int
	tracer  trace.Tracer
	logger  *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithCatalog replaces the placeholder media.
func WithCatalog(c Catalog) Option {
	return func(s *Service) { s.catalog = c }
}

// WithCredentials sets the upstream account.
func WithCredentials(c Credentials) Option {
	return func(s *Service) { s.creds = c }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithRand replaces the random index source. intn must return a value in
// [0, n).
func WithRand(intn func(n int) int) Option {
	return func(s *Service) { s.intn = intn }
}

// WithTracer sets the tracer used for generation spans.
func WithTracer(t trace.Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// NewService returns a Service using the default catalog.
func NewService(opts ...Option) *Service {
	s := &Service{
		catalog: DefaultCatalog(),
		now:     time.Now,
		intn:    rand.IntN,
		tracer:  otel.Tracer("github.com/example/mediastudio/internal/generate"),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog returns the placeholder media in use.
func (s *Service) Catalog() Catalog { return s.catalog }

// GenerateImage picks an image for the style and reports the enhanced
// prompt.
func (s *Service) GenerateImage(ctx context.Context, req ImageRequest) (ImageResult, error) {
	_, span := s.tracer.Start(ctx, "generate.image", trace.WithAttributes(
		attribute.String("style", req.Style),
		attribute.String("aspect_ratio", req.AspectRatio),
		attribute.Int("annotations", len(req.Annotations)),
	))
	defer span.End()

	if strings.TrimSpace(req.Prompt) == "" {
		span.RecordError(ErrEmptyPrompt)
		return ImageResult{}, ErrEmptyPrompt
	}
	now := s.now()
	enhanced := EnhanceGenerate(req.Prompt, req.NegativePrompt, req.Annotations)
	s.logger.Info("generating image",
		zap.String("prompt", preview(req.Prompt)),
		zap.String("style", req.Style),
		zap.String("aspect_ratio", req.AspectRatio),
		zap.Int("annotations", len(req.Annotations)),
	)

	res := ImageResult{
		Success: true,
		Metadata: ImageMetadata{
			Prompt:         enhanced,
			OriginalPrompt: req.Prompt,
			Style:          req.Style,
			AspectRatio:    req.AspectRatio,
			Quality:        req.Quality,
			Creativity:     req.Creativity,
			Annotations:    nonNil(req.Annotations),
			GeneratedAt:    &now,
		},
	}
	if list := s.catalog.images(req.Style); len(list) > 0 {
		res.ImageURL = list[s.intn(len(list))] + AspectParams(req.AspectRatio) + stamp(now)
	} else {
		res.ImageURL = editBase + "?" + strings.TrimPrefix(stamp(now), "&")
		res.IsSimulated = true
	}
	span.SetAttributes(attribute.String("image_url", res.ImageURL))
	return res, nil
}

// EditImage reports an edited placeholder for the uploaded image.
func (s *Service) EditImage(ctx context.Context, req EditRequest) (ImageResult, error) {
	_, span := s.tracer.Start(ctx, "generate.edit", trace.WithAttributes(
		attribute.String("style", req.Style),
		attribute.Int("annotations", len(req.Annotations)),
		attribute.Int("image_bytes", len(req.Image)),
	))
	defer span.End()

	if strings.TrimSpace(req.Prompt) == "" {
		span.RecordError(ErrEmptyPrompt)
		return ImageResult{}, ErrEmptyPrompt
	}
	now := s.now()
	s.logger.Info("editing image",
		zap.String("prompt", preview(req.Prompt)),
		zap.String("style", req.Style),
		zap.Int("annotations", len(req.Annotations)),
		zap.Bool("has_image", len(req.Image) > 0),
	)
	return ImageResult{
		Success:  true,
		ImageURL: fmt.Sprintf("%s?random=%d%s", editBase, now.UnixMilli(), s.catalog.effect(req.Style)),
		Metadata: ImageMetadata{
			Prompt:         EnhanceEdit(req.Prompt, req.Annotations),
			OriginalPrompt: req.Prompt,
			Style:          req.Style,
			Creativity:     req.Creativity,
			Annotations:    nonNil(req.Annotations),
			EditedAt:       &now,
		},
	}, nil
}

// GenerateVideo picks a sample clip.
func (s *Service) GenerateVideo(ctx context.Context, req VideoRequest) (VideoResult, error) {
	_, span := s.tracer.Start(ctx, "generate.video", trace.WithAttributes(
		attribute.Float64("duration", req.Duration),
		attribute.String("aspect_ratio", req.AspectRatio),
	))
	defer span.End()

	if strings.TrimSpace(req.Prompt) == "" {
		span.RecordError(ErrEmptyPrompt)
		return VideoResult{}, ErrEmptyPrompt
	}
	if len(s.catalog.Videos) == 0 {
		err := errors.New("no sample videos configured")
		span.RecordError(err)
		return VideoResult{}, err
	}
	s.logger.Info("generating video",
		zap.String("prompt", preview(req.Prompt)),
		zap.Float64("duration", req.Duration),
		zap.String("quality", req.Quality),
	)
	return VideoResult{
		Success:  true,
		VideoURL: s.catalog.Videos[s.intn(len(s.catalog.Videos))],
		Metadata: VideoMetadata{VideoRequest: req, GeneratedAt: s.now()},
	}, nil
}

// Status reports the service state.
func (s *Service) Status() Status {
	return Status{
		Status:              "online",
		Timestamp:           s.now(),
		APIKeyConfigured:    s.creds.APIKey != "",
		ProjectIDConfigured: s.creds.ProjectID != "",
		Version:             Version,
		Features: Features{
			ImageGeneration: true,
			ImageEditing:    true,
			VideoGeneration: true,
			Annotations:     true,
		},
	}
}

func stamp(t time.Time) string {
	return fmt.Sprintf("&random=%d", t.UnixMilli())
}

func preview(p string) string {
	r := []rune(p)
	if len(r) <= 50 {
		return p
	}
	return string(r[:50]) + "..."
}

func nonNil(as []Annotation) []Annotation {
	if as == nil {
		return []Annotation{}
	}
	return as
}
