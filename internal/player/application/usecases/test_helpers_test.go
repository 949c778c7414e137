package usecases

import (
	"context"
	"time"

	"github.com/avolyn/groovebox/internal/player/domain"
)

func mockTrack(id string) domain.Track {
	return domain.Track{
		ID:     domain.TrackID(id),
		Title:  "Track " + id,
		Artist: "Artist",
	}
}

func mockTracks(ids ...string) []domain.Track {
	tracks := make([]domain.Track, 0, len(ids))
	for _, id := range ids {
		tracks = append(tracks, mockTrack(id))
	}
	return tracks
}

// mockTransport records every transport call in order.
type mockTransport struct {
	calls  []string
	loaded []domain.Track
	seeks  []time.Duration

	loadErr error
	playErr error
	seekErr error
}

func (m *mockTransport) LoadTrack(_ context.Context, track domain.Track) error {
	m.calls = append(m.calls, "load")
	m.loaded = append(m.loaded, track)
	return m.loadErr
}

func (m *mockTransport) Play(_ context.Context) error {
	m.calls = append(m.calls, "play")
	return m.playErr
}

func (m *mockTransport) Pause(_ context.Context) error {
	m.calls = append(m.calls, "pause")
	return nil
}

func (m *mockTransport) Stop(_ context.Context) error {
	m.calls = append(m.calls, "stop")
	return nil
}

func (m *mockTransport) SeekTo(_ context.Context, pos time.Duration) error {
	m.calls = append(m.calls, "seek")
	m.seeks = append(m.seeks, pos)
	return m.seekErr
}

func (m *mockTransport) BeginScrub() {
	m.calls = append(m.calls, "begin-scrub")
}

func (m *mockTransport) Scrub(_ float64) {
	m.calls = append(m.calls, "scrub")
}

func (m *mockTransport) EndScrub(_ context.Context) error {
	m.calls = append(m.calls, "end-scrub")
	return nil
}

func (m *mockTransport) SyncVolume(_ context.Context) error {
	m.calls = append(m.calls, "sync-volume")
	return nil
}

func (m *mockTransport) lastLoaded() *domain.Track {
	if len(m.loaded) == 0 {
		return nil
	}
	return &m.loaded[len(m.loaded)-1]
}

// mockPublisher records published events.
type mockPublisher struct {
	started  []domain.TrackStartedEvent
	ended    []domain.TrackEndedEvent
	failed   []domain.PlaybackFailedEvent
	enqueued []domain.TrackEnqueuedEvent
	cleared  []domain.QueueClearedEvent
}

func (m *mockPublisher) PublishTrackStarted(event domain.TrackStartedEvent) {
	m.started = append(m.started, event)
}

func (m *mockPublisher) PublishTrackEnded(event domain.TrackEndedEvent) {
	m.ended = append(m.ended, event)
}

func (m *mockPublisher) PublishPlaybackFailed(event domain.PlaybackFailedEvent) {
	m.failed = append(m.failed, event)
}

func (m *mockPublisher) PublishTrackEnqueued(event domain.TrackEnqueuedEvent) {
	m.enqueued = append(m.enqueued, event)
}

func (m *mockPublisher) PublishQueueCleared(event domain.QueueClearedEvent) {
	m.cleared = append(m.cleared, event)
}
