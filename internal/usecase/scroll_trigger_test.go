package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLoader is a controllable pageLoader.
type fakeLoader struct {
	loading   bool
	loadCalls int
}

func (f *fakeLoader) Loading() bool { return f.loading }

func (f *fakeLoader) LoadNextPage(ctx context.Context) error {
	f.loadCalls++
	return nil
}

func newTestTrigger(loader *fakeLoader) *ScrollTrigger {
	return NewScrollTrigger(loader, ScrollTriggerConfig{VisibilityThreshold: 0.5})
}

func visible(sentinel string) VisibilityEvent {
	return VisibilityEvent{SentinelID: sentinel, Ratio: 1.0}
}

func TestTrigger_FiresOncePerAttachment(t *testing.T) {
	loader := &fakeLoader{}
	trigger := newTestTrigger(loader)
	ctx := context.Background()

	trigger.Attach("sentinel-1")

	require.NoError(t, trigger.OnVisibility(ctx, visible("sentinel-1")))
	assert.Equal(t, 1, loader.loadCalls)

	// Rapid repeated intersection events must not cause a request storm.
	require.NoError(t, trigger.OnVisibility(ctx, visible("sentinel-1")))
	require.NoError(t, trigger.OnVisibility(ctx, visible("sentinel-1")))
	assert.Equal(t, 1, loader.loadCalls)

	// Re-attaching (list re-render) arms it again.
	trigger.Attach("sentinel-2")
	require.NoError(t, trigger.OnVisibility(ctx, visible("sentinel-2")))
	assert.Equal(t, 2, loader.loadCalls)
}

func TestTrigger_BelowThresholdDoesNotFire(t *testing.T) {
	loader := &fakeLoader{}
	trigger := newTestTrigger(loader)
	ctx := context.Background()

	trigger.Attach("s")
	require.NoError(t, trigger.OnVisibility(ctx, VisibilityEvent{SentinelID: "s", Ratio: 0.2}))
	assert.Equal(t, 0, loader.loadCalls)

	require.NoError(t, trigger.OnVisibility(ctx, VisibilityEvent{SentinelID: "s", Ratio: 0.5}))
	assert.Equal(t, 1, loader.loadCalls)
}

func TestTrigger_LeadMarginFiresEarly(t *testing.T) {
	loader := &fakeLoader{}
	trigger := NewScrollTrigger(loader, ScrollTriggerConfig{
		VisibilityThreshold: 0.5,
		LeadMarginPx:        300,
	})
	ctx := context.Background()

	trigger.Attach("s")

	// Not visible yet, but within the lead margin of the viewport.
	require.NoError(t, trigger.OnVisibility(ctx, VisibilityEvent{SentinelID: "s", Ratio: 0, BottomDistance: 250}))
	assert.Equal(t, 1, loader.loadCalls)
}

func TestTrigger_InertWhileLoading(t *testing.T) {
	loader := &fakeLoader{loading: true}
	trigger := newTestTrigger(loader)
	ctx := context.Background()

	// Attaching while a fetch is in flight is refused.
	trigger.Attach("s")
	assert.Equal(t, "", trigger.Observing())

	require.NoError(t, trigger.OnVisibility(ctx, visible("s")))
	assert.Equal(t, 0, loader.loadCalls)

	// An attach during loading also tears down a previous observation.
	loader.loading = false
	trigger.Attach("s")
	loader.loading = true
	trigger.Attach("s2")
	assert.Equal(t, "", trigger.Observing())
}

func TestTrigger_IgnoresOtherSentinels(t *testing.T) {
	loader := &fakeLoader{}
	trigger := newTestTrigger(loader)
	ctx := context.Background()

	trigger.Attach("current")
	require.NoError(t, trigger.OnVisibility(ctx, visible("stale-node")))
	assert.Equal(t, 0, loader.loadCalls)
}

func TestTrigger_ReleaseStopsObservation(t *testing.T) {
	loader := &fakeLoader{}
	trigger := newTestTrigger(loader)
	ctx := context.Background()

	trigger.Attach("s")
	trigger.Release()
	assert.Equal(t, "", trigger.Observing())

	require.NoError(t, trigger.OnVisibility(ctx, visible("s")))
	assert.Equal(t, 0, loader.loadCalls)

	// Release is idempotent.
	trigger.Release()
}

func TestTrigger_AttachReplacesPreviousObservation(t *testing.T) {
	loader := &fakeLoader{}
	trigger := newTestTrigger(loader)
	ctx := context.Background()

	trigger.Attach("old")
	trigger.Attach("new")
	assert.Equal(t, "new", trigger.Observing())

	// Events from the replaced sentinel no longer fire.
	require.NoError(t, trigger.OnVisibility(ctx, visible("old")))
	assert.Equal(t, 0, loader.loadCalls)

	require.NoError(t, trigger.OnVisibility(ctx, visible("new")))
	assert.Equal(t, 1, loader.loadCalls)
}
