package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/avolyn/groovebox/internal/player/domain"
)

func newQueueFixture() (*QueueService, *domain.PlayerState, *mockTransport, *mockPublisher) {
	state := domain.NewPlayerState(0.7)
	transport := &mockTransport{}
	publisher := &mockPublisher{}
	return NewQueueService(state, transport, publisher), state, transport, publisher
}

func TestPlayNow(t *testing.T) {
	service, state, transport, _ := newQueueFixture()

	err := service.PlayNow(context.Background(), mockTracks("1", "2", "3"), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !state.IsPlaying() {
		t.Error("expected play intent set")
	}
	loaded := transport.lastLoaded()
	if loaded == nil || loaded.ID != "1" {
		t.Errorf("expected first track loaded, got %v", loaded)
	}
}

func TestPlayNow_EmptyQueue(t *testing.T) {
	service, _, _, _ := newQueueFixture()

	err := service.PlayNow(context.Background(), nil, "")
	if !errors.Is(err, ErrQueueEmpty) {
		t.Errorf("expected ErrQueueEmpty, got %v", err)
	}
}

func TestPlayNow_PreferredTrack(t *testing.T) {
	service, _, transport, _ := newQueueFixture()

	err := service.PlayNow(context.Background(), mockTracks("1", "2", "3"), "2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded := transport.lastLoaded()
	if loaded == nil || loaded.ID != "2" {
		t.Errorf("expected preferred track loaded, got %v", loaded)
	}
}

func TestPlayNow_SameTrackDoesNotReload(t *testing.T) {
	service, state, transport, _ := newQueueFixture()
	state.SetQueue(mockTracks("1", "2"), "")

	// Replacing the queue while track 1 stays current must not restart it.
	err := service.PlayNow(context.Background(), mockTracks("1", "3"), "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(transport.loaded) != 0 {
		t.Errorf("expected no reload for the same track, got %v", transport.loaded)
	}
	if transport.calls[len(transport.calls)-1] != "play" {
		t.Errorf("expected play, got %v", transport.calls)
	}
}

func TestSetQueue_EmptyStopsTransport(t *testing.T) {
	service, state, transport, _ := newQueueFixture()
	state.SetQueue(mockTracks("1"), "")

	if err := service.SetQueue(context.Background(), nil, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(transport.calls) != 1 || transport.calls[0] != "stop" {
		t.Errorf("expected [stop], got %v", transport.calls)
	}
}

func TestEnqueue(t *testing.T) {
	service, state, _, publisher := newQueueFixture()

	if err := service.Enqueue(context.Background(), mockTrack("1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := service.Enqueue(context.Background(), mockTrack("2")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if state.Len() != 2 {
		t.Errorf("expected 2 tracks, got %d", state.Len())
	}
	if len(publisher.enqueued) != 2 {
		t.Fatalf("expected 2 enqueued events, got %d", len(publisher.enqueued))
	}
	if !publisher.enqueued[0].WasEmpty {
		t.Error("expected WasEmpty=true for the first enqueue")
	}
	if publisher.enqueued[1].WasEmpty {
		t.Error("expected WasEmpty=false for the second enqueue")
	}
}

func TestEnqueue_InvalidTrack(t *testing.T) {
	service, _, _, publisher := newQueueFixture()

	err := service.Enqueue(context.Background(), domain.Track{Title: "no id"})
	if !errors.Is(err, ErrInvalidTrack) {
		t.Errorf("expected ErrInvalidTrack, got %v", err)
	}
	if len(publisher.enqueued) != 0 {
		t.Error("expected no event for an invalid track")
	}
}

func TestEnqueueNext(t *testing.T) {
	service, state, _, publisher := newQueueFixture()
	state.SetQueue(mockTracks("1", "2"), "")

	if err := service.EnqueueNext(context.Background(), mockTrack("99")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	queue := state.Queue()
	if queue[1].ID != "99" {
		t.Errorf("expected inserted track after current, got %v", queue)
	}
	if len(publisher.enqueued) != 1 || publisher.enqueued[0].WasEmpty {
		t.Errorf("unexpected enqueued events: %v", publisher.enqueued)
	}
}

func TestRemove_CurrentLoadsSuccessor(t *testing.T) {
	service, state, transport, _ := newQueueFixture()
	state.SetQueue(mockTracks("1", "2", "3"), "")

	if err := service.Remove(context.Background(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded := transport.lastLoaded()
	if loaded == nil || loaded.ID != "2" {
		t.Errorf("expected successor loaded, got %v", loaded)
	}
}

func TestRemove_OtherTrackNoReload(t *testing.T) {
	service, state, transport, _ := newQueueFixture()
	state.SetQueue(mockTracks("1", "2", "3"), "")

	if err := service.Remove(context.Background(), 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(transport.calls) != 0 {
		t.Errorf("expected no transport calls, got %v", transport.calls)
	}
}

func TestRemove_StaleIndexIgnored(t *testing.T) {
	service, state, transport, _ := newQueueFixture()
	state.SetQueue(mockTracks("1"), "")

	if err := service.Remove(context.Background(), 7); err != nil {
		t.Fatalf("expected stale removal to be dropped, got %v", err)
	}
	if state.Len() != 1 {
		t.Errorf("expected queue untouched, got length %d", state.Len())
	}
	if len(transport.calls) != 0 {
		t.Errorf("expected no transport calls, got %v", transport.calls)
	}
}

func TestRemove_LastTrackClearsQueue(t *testing.T) {
	service, state, _, publisher := newQueueFixture()
	state.SetQueue(mockTracks("1"), "")

	if err := service.Remove(context.Background(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if state.CurrentTrack() != nil {
		t.Error("expected no current track")
	}
	if len(publisher.cleared) != 1 {
		t.Errorf("expected a queue-cleared event, got %d", len(publisher.cleared))
	}
}

func TestJumpTo(t *testing.T) {
	service, state, transport, _ := newQueueFixture()
	state.SetQueue(mockTracks("1", "2", "3"), "")

	if err := service.JumpTo(context.Background(), 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !state.IsPlaying() {
		t.Error("expected play intent set")
	}
	loaded := transport.lastLoaded()
	if loaded == nil || loaded.ID != "3" {
		t.Errorf("expected track 3 loaded, got %v", loaded)
	}
}

func TestJumpTo_CurrentTrackRestarts(t *testing.T) {
	service, state, transport, _ := newQueueFixture()
	state.SetQueue(mockTracks("1", "2"), "")

	if err := service.JumpTo(context.Background(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(transport.loaded) != 0 {
		t.Errorf("expected no reload for the current track, got %v", transport.loaded)
	}
	if len(transport.calls) != 2 || transport.calls[0] != "seek" || transport.calls[1] != "play" {
		t.Errorf("expected [seek play], got %v", transport.calls)
	}
}

func TestJumpTo_StaleIndexIgnored(t *testing.T) {
	service, state, transport, _ := newQueueFixture()
	state.SetQueue(mockTracks("1", "2"), "")

	if err := service.JumpTo(context.Background(), 9); err != nil {
		t.Fatalf("expected stale jump to be dropped, got %v", err)
	}
	if state.IsPlaying() {
		t.Error("expected play intent untouched")
	}
	if len(transport.calls) != 0 {
		t.Errorf("expected no transport calls, got %v", transport.calls)
	}
}

func TestClear(t *testing.T) {
	service, state, _, publisher := newQueueFixture()
	state.SetQueue(mockTracks("1", "2"), "")
	state.SetPlaying(true)

	if err := service.Clear(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if state.Len() != 0 {
		t.Errorf("expected empty queue, got %d", state.Len())
	}
	if state.IsPlaying() {
		t.Error("expected play intent cleared")
	}
	if len(publisher.cleared) != 1 {
		t.Errorf("expected a queue-cleared event, got %d", len(publisher.cleared))
	}
}

func TestReorder(t *testing.T) {
	service, state, _, _ := newQueueFixture()
	state.SetQueue(mockTracks("1", "2", "3"), "")

	if err := service.Reorder(context.Background(), 2, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	queue := service.Tracks()
	if queue[0].ID != "3" || queue[1].ID != "1" || queue[2].ID != "2" {
		t.Errorf("unexpected order: %v", queue)
	}
	if current := state.CurrentTrack(); current == nil || current.ID != "1" {
		t.Errorf("expected track 1 still current, got %v", current)
	}
}
