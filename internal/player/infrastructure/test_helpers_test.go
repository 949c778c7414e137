package infrastructure

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/avolyn/groovebox/internal/player/domain"
)

// fakeOutput records commands and lets tests control when an in-flight
// play completes, to exercise the stale-completion paths.
type fakeOutput struct {
	mu    sync.Mutex
	loads []string
	seeks []time.Duration
	vols  []float64
	plays int

	loadErr error
	playErr error

	// playGate, when non-nil, blocks Play until the channel is closed.
	playGate chan struct{}
}

func (f *fakeOutput) Load(_ context.Context, src string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads = append(f.loads, src)
	return f.loadErr
}

func (f *fakeOutput) Play(_ context.Context) error {
	f.mu.Lock()
	gate := f.playGate
	f.plays++
	err := f.playErr
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return err
}

func (f *fakeOutput) Pause(_ context.Context) error { return nil }
func (f *fakeOutput) Stop(_ context.Context) error  { return nil }

func (f *fakeOutput) Seek(_ context.Context, pos time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seeks = append(f.seeks, pos)
	return nil
}

func (f *fakeOutput) SetVolume(_ context.Context, level float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.vols = append(f.vols, level)
	return nil
}

func (f *fakeOutput) Close() error { return nil }

func (f *fakeOutput) loadedSources() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.loads))
	copy(out, f.loads)
	return out
}

func (f *fakeOutput) playCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.plays
}

func (f *fakeOutput) lastVolume() (float64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.vols) == 0 {
		return 0, false
	}
	return f.vols[len(f.vols)-1], true
}

// capturingPublisher is a goroutine-safe event recorder.
type capturingPublisher struct {
	mu       sync.Mutex
	started  []domain.TrackStartedEvent
	ended    []domain.TrackEndedEvent
	failed   []domain.PlaybackFailedEvent
	enqueued []domain.TrackEnqueuedEvent
	cleared  []domain.QueueClearedEvent
}

func (p *capturingPublisher) PublishTrackStarted(event domain.TrackStartedEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.started = append(p.started, event)
}

func (p *capturingPublisher) PublishTrackEnded(event domain.TrackEndedEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ended = append(p.ended, event)
}

func (p *capturingPublisher) PublishPlaybackFailed(event domain.PlaybackFailedEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failed = append(p.failed, event)
}

func (p *capturingPublisher) PublishTrackEnqueued(event domain.TrackEnqueuedEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enqueued = append(p.enqueued, event)
}

func (p *capturingPublisher) PublishQueueCleared(event domain.QueueClearedEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cleared = append(p.cleared, event)
}

func (p *capturingPublisher) failedCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.failed)
}

func (p *capturingPublisher) startedCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.started)
}

func (p *capturingPublisher) endedCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.ended)
}

// waitFor polls the condition until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met: %s", msg)
}

// settle gives background goroutines a moment to run before asserting
// that something did NOT happen.
func settle() {
	time.Sleep(50 * time.Millisecond)
}
