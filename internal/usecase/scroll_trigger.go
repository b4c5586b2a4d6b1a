package usecase

import (
	"context"
	"log"
	"sync"
)

// VisibilityEvent reports how visible the sentinel element is. The rendering
// layer owns the actual observer; only this contract crosses into the core.
type VisibilityEvent struct {
	SentinelID string  `json:"sentinelId"`
	Ratio      float64 `json:"ratio"`
	// BottomDistance is how far, in pixels, the sentinel sits below the
	// viewport. Zero or negative means it is at or inside the viewport edge.
	BottomDistance int `json:"bottomDistance"`
}

// pageLoader is the slice of the catalog service the trigger depends on.
type pageLoader interface {
	Loading() bool
	LoadNextPage(ctx context.Context) error
}

// ScrollTriggerConfig holds configuration for the scroll trigger.
type ScrollTriggerConfig struct {
	// VisibilityThreshold is the visibility ratio at which the trigger fires.
	VisibilityThreshold float64
	// LeadMarginPx fires the trigger early, when the sentinel is within this
	// many pixels of the viewport, so loading starts before the user reaches
	// the bottom. Zero disables the margin.
	LeadMarginPx int
}

// ScrollTrigger turns sentinel visibility events into load-more requests.
// It observes at most one sentinel, fires at most once per attachment, and
// never fires while a list fetch is in flight.
type ScrollTrigger struct {
	loader    pageLoader
	threshold float64
	leadPx    int

	mu       sync.Mutex
	sentinel string
	armed    bool
}

// NewScrollTrigger creates a scroll trigger bound to the given loader.
func NewScrollTrigger(loader pageLoader, cfg ScrollTriggerConfig) *ScrollTrigger {
	threshold := cfg.VisibilityThreshold
	if threshold <= 0 || threshold > 1 {
		threshold = 0.5
	}

	return &ScrollTrigger{
		loader:    loader,
		threshold: threshold,
		leadPx:    cfg.LeadMarginPx,
	}
}

// Attach starts observing a sentinel, releasing any previous observation
// first. While a fetch is in flight the trigger is inert: the existing
// observation is torn down and no new one is registered.
func (t *ScrollTrigger) Attach(sentinelID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	// A re-render always replaces the previous observation.
	t.sentinel = ""
	t.armed = false

	if t.loader.Loading() {
		return
	}
	if sentinelID == "" {
		return
	}

	t.sentinel = sentinelID
	t.armed = true
}

// Release drops the current observation. Safe to call repeatedly; called when
// the owning view is torn down.
func (t *ScrollTrigger) Release() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sentinel = ""
	t.armed = false
}

// Observing returns the sentinel currently observed, or "" if none.
func (t *ScrollTrigger) Observing() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sentinel
}

// OnVisibility handles one visibility event. It fires the load-more path
// exactly once per attachment, and only when the event belongs to the
// observed sentinel, crosses the threshold, and no fetch is in flight.
func (t *ScrollTrigger) OnVisibility(ctx context.Context, event VisibilityEvent) error {
	t.mu.Lock()
	if !t.armed || event.SentinelID != t.sentinel {
		t.mu.Unlock()
		return nil
	}
	if !t.crossed(event) {
		t.mu.Unlock()
		return nil
	}
	if t.loader.Loading() {
		t.mu.Unlock()
		return nil
	}
	// Disarm before loading so repeated intersection events cannot fire twice.
	t.armed = false
	t.mu.Unlock()

	log.Printf("[Scroll] Sentinel %s crossed threshold, loading next page", event.SentinelID)
	return t.loader.LoadNextPage(ctx)
}

// crossed reports whether the event satisfies the visibility threshold or the
// lead margin.
func (t *ScrollTrigger) crossed(event VisibilityEvent) bool {
	if event.Ratio >= t.threshold {
		return true
	}
	return t.leadPx > 0 && event.BottomDistance <= t.leadPx
}
