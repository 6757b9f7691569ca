package generate

import (
	"slices"
)

// Placeholder media used while no real generator is configured.
const (
	DefaultStyle = "realistic"
	editBase     = "https://picsum.photos/800/600"
)

// Catalog lists the placeholder media a Service picks from.
type Catalog struct {
	// Images maps a style to candidate image URLs.
	Images map[string][]string
	// Effects maps a style to query parameters appended to edited images.
	Effects map[string]string
	Videos  []string
}

// DefaultCatalog returns the built-in placeholder media.
func DefaultCatalog() Catalog {
	return Catalog{
		Images: map[string][]string{
			"realistic": {
				"https://images.unsplash.com/photo-1506905925346-21bda4d32df4?w=800&h=600&fit=crop",
				"https://images.unsplash.com/photo-1441974231531-c6227db76b6e?w=800&h=600&fit=crop",
				"https://images.unsplash.com/photo-1469474968028-56623f02e42e?w=800&h=600&fit=crop",
			},
			"artistic": {
				"https://images.unsplash.com/photo-1541961017774-22349e4a1262?w=800&h=600&fit=crop",
				"https://images.unsplash.com/photo-1578662996442-48f60103fc96?w=800&h=600&fit=crop",
				"https://images.unsplash.com/photo-1549490349-8643362247b5?w=800&h=600&fit=crop",
			},
			"cartoon": {
				"https://images.unsplash.com/photo-1578662996442-48f60103fc96?w=800&h=600&fit=crop&sat=2",
				"https://images.unsplash.com/photo-1541961017774-22349e4a1262?w=800&h=600&fit=crop&sat=2",
				"https://images.unsplash.com/photo-1549490349-8643362247b5?w=800&h=600&fit=crop&sat=2",
			},
		},
		Effects: map[string]string{
			"realistic": "&contrast=1.2&brightness=1.1",
			"artistic":  "&sat=1.5&hue=15",
			"cartoon":   "&sat=2&contrast=1.3",
			"vintage":   "&sepia=50&contrast=0.8",
			"modern":    "&sat=1.2&sharp=1.1",
		},
		Videos: []string{
			"https://sample-videos.com/zip/10/mp4/SampleVideo_1280x720_1mb.mp4",
			"https://commondatastorage.googleapis.com/gtv-videos-bucket/sample/BigBuckBunny.mp4",
			"https://commondatastorage.googleapis.com/gtv-videos-bucket/sample/ElephantsDream.mp4",
		},
	}
}

// ImageStyles returns the styles with their own image list, sorted.
func (c Catalog) ImageStyles() []string {
	return sortedKeys(c.Images)
}

// EditStyles returns the styles with an edit effect, sorted.
func (c Catalog) EditStyles() []string {
	return sortedKeys(c.Effects)
}

func (c Catalog) images(style string) []string {
	if l, ok := c.Images[style]; ok {
		return l
	}
	return c.Images[DefaultStyle]
}

func (c Catalog) effect(style string) string {
	if e, ok := c.Effects[style]; ok {
		return e
	}
	return c.Effects[DefaultStyle]
}

// AspectParams returns the size query for an aspect ratio.
func AspectParams(ratio string) string {
	switch ratio {
	case "16:9":
		return "&w=800&h=450"
	case "1:1":
		return "&w=600&h=600"
	default:
		return "&w=600&h=800"
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
