package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/avolyn/groovebox/internal/player/domain"
)

func newTransportFixture() (*TransportService, *domain.PlayerState, *mockTransport) {
	state := domain.NewPlayerState(0.7)
	transport := &mockTransport{}
	return NewTransportService(state, transport), state, transport
}

func TestTogglePlay_NoTrack(t *testing.T) {
	service, _, transport := newTransportFixture()

	err := service.TogglePlay(context.Background())
	if !errors.Is(err, ErrNoTrack) {
		t.Errorf("expected ErrNoTrack, got %v", err)
	}
	if len(transport.calls) != 0 {
		t.Errorf("expected no transport calls, got %v", transport.calls)
	}
}

func TestTogglePlay_StartsAndPauses(t *testing.T) {
	service, state, transport := newTransportFixture()
	state.SetQueue(mockTracks("1", "2"), "")

	if err := service.TogglePlay(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !state.IsPlaying() {
		t.Error("expected play intent set")
	}
	if len(transport.calls) != 1 || transport.calls[0] != "play" {
		t.Errorf("expected [play], got %v", transport.calls)
	}

	if err := service.TogglePlay(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.IsPlaying() {
		t.Error("expected play intent cleared")
	}
	if transport.calls[1] != "pause" {
		t.Errorf("expected pause, got %v", transport.calls)
	}
}

func TestTogglePlay_IntentSetBeforeTransportError(t *testing.T) {
	service, state, transport := newTransportFixture()
	state.SetQueue(mockTracks("1"), "")
	transport.playErr = errors.New("output broken")

	err := service.TogglePlay(context.Background())
	if err == nil {
		t.Fatal("expected error from transport")
	}
	// Intent is logical state; the transport catches up or fails on its own.
	if !state.IsPlaying() {
		t.Error("expected play intent set despite transport error")
	}
}

func TestNext_LoadsNewTrack(t *testing.T) {
	service, state, transport := newTransportFixture()
	state.SetQueue(mockTracks("1", "2", "3"), "")

	if err := service.Next(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded := transport.lastLoaded()
	if loaded == nil || loaded.ID != "2" {
		t.Errorf("expected track 2 loaded, got %v", loaded)
	}
}

func TestNext_EndOfQueuePauses(t *testing.T) {
	service, state, transport := newTransportFixture()
	state.SetQueue(mockTracks("1", "2"), "")
	state.SetCurrentIndex(1)
	state.SetPlaying(true)

	if err := service.Next(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if state.IsPlaying() {
		t.Error("expected play intent cleared at end of queue")
	}
	if len(transport.calls) != 1 || transport.calls[0] != "pause" {
		t.Errorf("expected [pause], got %v", transport.calls)
	}
}

func TestPrevious_RestartsAtFirstTrack(t *testing.T) {
	service, state, transport := newTransportFixture()
	state.SetQueue(mockTracks("1", "2"), "")
	state.SetPlaying(true)

	if err := service.Previous(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Restart seeks to zero and resumes, no reload.
	if len(transport.calls) != 2 || transport.calls[0] != "seek" || transport.calls[1] != "play" {
		t.Errorf("expected [seek play], got %v", transport.calls)
	}
	if transport.seeks[0] != 0 {
		t.Errorf("expected seek to 0, got %v", transport.seeks[0])
	}
}

func TestPrevious_RestartWhilePausedDoesNotPlay(t *testing.T) {
	service, state, transport := newTransportFixture()
	state.SetQueue(mockTracks("1", "2"), "")

	if err := service.Previous(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(transport.calls) != 1 || transport.calls[0] != "seek" {
		t.Errorf("expected [seek], got %v", transport.calls)
	}
}

func TestPrevious_LoadsPreviousTrack(t *testing.T) {
	service, state, transport := newTransportFixture()
	state.SetQueue(mockTracks("1", "2", "3"), "")
	state.SetCurrentIndex(2)

	if err := service.Previous(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded := transport.lastLoaded()
	if loaded == nil || loaded.ID != "2" {
		t.Errorf("expected track 2 loaded, got %v", loaded)
	}
}

func TestSeekToFraction_NoDurationIsNoop(t *testing.T) {
	service, state, transport := newTransportFixture()
	state.SetQueue(mockTracks("1"), "")

	if err := service.SeekToFraction(context.Background(), 0.5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(transport.calls) != 0 {
		t.Errorf("expected no transport calls without a duration, got %v", transport.calls)
	}
}

func TestSeekToFraction(t *testing.T) {
	service, state, transport := newTransportFixture()
	state.SetQueue(mockTracks("1"), "")
	state.SetDuration(4 * time.Minute)

	if err := service.SeekToFraction(context.Background(), 0.5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if state.Position() != 2*time.Minute {
		t.Errorf("expected position 2m, got %v", state.Position())
	}
	if len(transport.seeks) != 1 || transport.seeks[0] != 2*time.Minute {
		t.Errorf("expected seek to 2m, got %v", transport.seeks)
	}
}

func TestSeekToFraction_ClampsFraction(t *testing.T) {
	service, state, transport := newTransportFixture()
	state.SetQueue(mockTracks("1"), "")
	state.SetDuration(time.Minute)

	if err := service.SeekToFraction(context.Background(), 1.7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if transport.seeks[0] != time.Minute {
		t.Errorf("expected seek clamped to duration, got %v", transport.seeks[0])
	}

	if err := service.SeekToFraction(context.Background(), -0.3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if transport.seeks[1] != 0 {
		t.Errorf("expected seek clamped to 0, got %v", transport.seeks[1])
	}
}

func TestSeekDrag(t *testing.T) {
	service, state, transport := newTransportFixture()
	state.SetQueue(mockTracks("1"), "")
	state.SetDuration(time.Minute)

	service.BeginSeek()
	service.DragSeek(0.25)
	service.DragSeek(0.5)
	if err := service.EndSeek(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if state.Position() != 30*time.Second {
		t.Errorf("expected position at last drag, got %v", state.Position())
	}
	expected := []string{"begin-scrub", "scrub", "scrub", "end-scrub"}
	if len(transport.calls) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, transport.calls)
	}
	for i, call := range expected {
		if transport.calls[i] != call {
			t.Errorf("call %d: expected %q, got %q", i, call, transport.calls[i])
		}
	}
}

func TestSetVolume_SyncsOutput(t *testing.T) {
	service, state, transport := newTransportFixture()

	if err := service.SetVolume(context.Background(), 0.3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if state.Volume() != 0.3 {
		t.Errorf("expected volume 0.3, got %v", state.Volume())
	}
	if len(transport.calls) != 1 || transport.calls[0] != "sync-volume" {
		t.Errorf("expected [sync-volume], got %v", transport.calls)
	}
}

func TestToggleMute_RestoresVolume(t *testing.T) {
	service, state, _ := newTransportFixture()
	state.SetVolume(0.6)

	muted, err := service.ToggleMute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !muted {
		t.Error("expected muted")
	}
	if state.EffectiveVolume() != 0 {
		t.Errorf("expected effective volume 0, got %v", state.EffectiveVolume())
	}

	muted, err = service.ToggleMute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if muted {
		t.Error("expected unmuted")
	}
	if state.EffectiveVolume() != 0.6 {
		t.Errorf("expected volume restored, got %v", state.EffectiveVolume())
	}
}

func TestToggleShuffle_KeepsCurrentPlaying(t *testing.T) {
	service, state, transport := newTransportFixture()
	state.SetQueue(mockTracks("1", "2", "3"), "")
	state.SetPlaying(true)

	if enabled := service.ToggleShuffle(); !enabled {
		t.Error("expected shuffle enabled")
	}

	if len(transport.calls) != 0 {
		t.Errorf("expected no transport calls, got %v", transport.calls)
	}
	if current := state.CurrentTrack(); current == nil || current.ID != "1" {
		t.Errorf("expected current track unchanged, got %v", current)
	}
}

func TestCycleRepeat(t *testing.T) {
	service, _, _ := newTransportFixture()

	if got := service.CycleRepeat(); got != domain.RepeatAll {
		t.Errorf("expected all, got %v", got)
	}
	if got := service.CycleRepeat(); got != domain.RepeatOne {
		t.Errorf("expected one, got %v", got)
	}
	if got := service.CycleRepeat(); got != domain.RepeatOff {
		t.Errorf("expected off, got %v", got)
	}
}
