package server

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/example/mediastudio/internal/generate"
	"github.com/example/mediastudio/internal/shape"
)

// Update is one published region list.
type Update struct {
	Version     uint64                `json:"version"`
	Annotations []generate.Annotation `json:"annotations"`
	Description string                `json:"description"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

// Hub keeps the latest region list and fans it out to stream subscribers.
// Bursts of updates are coalesced: a slow subscriber only ever sees the
// newest list.
type Hub struct {
	mu     sync.Mutex
	latest Update
	subs   map[chan Update]struct{}
	closed bool

	wake   chan struct{}
	now    func() time.Time
	logger *zap.Logger
	// counts feeds subscriber and update metrics. Optional.
	counts hubMetrics
}

type hubMetrics interface {
	RecordAnnotationUpdate()
	SetAnnotationSubscribers(n int)
}

// NewHub returns an empty hub. Run must be running for subscribers to see
// updates after the first one.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		latest: Update{Annotations: []generate.Annotation{}},
		subs:   make(map[chan Update]struct{}),
		wake:   make(chan struct{}, 1),
		now:    time.Now,
		logger: logger,
	}
}

// Publish replaces the region list and wakes the broadcaster. It never
// blocks.
func (h *Hub) Publish(as []generate.Annotation) Update {
	if as == nil {
		as = []generate.Annotation{}
	}
	h.mu.Lock()
	h.latest = Update{
		Version:     h.latest.Version + 1,
		Annotations: as,
		Description: generate.Describe(as),
		UpdatedAt:   h.now(),
	}
	u := h.latest
	h.mu.Unlock()

	if h.counts != nil {
		h.counts.RecordAnnotationUpdate()
	}
	select {
	case h.wake <- struct{}{}:
	default:
	}
	return u
}

// Regions publishes canvas regions. It has the signature of a canvas
// listener.
func (h *Hub) Regions(rs []shape.Region) {
	h.Publish(generate.FromRegions(rs))
}

// Latest returns the most recent update.
func (h *Hub) Latest() Update {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.latest
}

// Subscribe returns a channel that first yields the latest update and then
// every newer one. The channel is closed when cancel is called or the hub
// stops.
func (h *Hub) Subscribe() (<-chan Update, func()) {
	ch := make(chan Update, 1)
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	ch <- h.latest
	h.subs[ch] = struct{}{}
	n := len(h.subs)
	h.mu.Unlock()
	h.setSubscribers(n)

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			_, ok := h.subs[ch]
			if ok {
				delete(h.subs, ch)
				close(ch)
			}
			n := len(h.subs)
			h.mu.Unlock()
			h.setSubscribers(n)
		})
	}
}

// Run broadcasts updates until ctx is done, then closes every subscriber.
func (h *Hub) Run(ctx context.Context) error {
	h.mu.Lock()
	h.closed = false
	h.mu.Unlock()
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			h.closed = true
			for ch := range h.subs {
				close(ch)
				delete(h.subs, ch)
			}
			h.mu.Unlock()
			h.setSubscribers(0)
			return nil
		case <-h.wake:
			h.broadcast()
		}
	}
}

func (h *Hub) broadcast() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		// drop the stale pending update, if any
		select {
		case <-ch:
		default:
		}
		ch <- h.latest
	}
	h.logger.Debug("annotations broadcast", zap.Uint64("version", h.latest.Version), zap.Int("subscribers", len(h.subs)))
}

func (h *Hub) setSubscribers(n int) {
	if h.counts != nil {
		h.counts.SetAnnotationSubscribers(n)
	}
}
