package usecases

import (
	"context"
	"log/slog"
	"time"

	"github.com/avolyn/groovebox/internal/player/application/ports"
	"github.com/avolyn/groovebox/internal/player/domain"
)

// TransportService handles transport intents: play/pause, next/previous,
// seeking, volume, shuffle and repeat. Each intent mutates the player state
// first, then tells the transport to catch up, so the UI can always render
// from logical state without waiting on the audio output.
type TransportService struct {
	state     *domain.PlayerState
	transport ports.Transport
}

// NewTransportService creates a new TransportService.
func NewTransportService(state *domain.PlayerState, transport ports.Transport) *TransportService {
	return &TransportService{
		state:     state,
		transport: transport,
	}
}

// TogglePlay flips the play intent for the current track.
func (s *TransportService) TogglePlay(ctx context.Context) error {
	if s.state.CurrentTrack() == nil {
		return ErrNoTrack
	}

	if s.state.IsPlaying() {
		s.state.SetPlaying(false)
		return s.transport.Pause(ctx)
	}

	s.state.SetPlaying(true)
	return s.transport.Play(ctx)
}

// Next advances to the next track per shuffle and repeat rules.
func (s *TransportService) Next(ctx context.Context) error {
	return s.applyStep(ctx, s.state.Advance())
}

// Previous steps back to the previous track, or restarts the current one
// at the queue boundary.
func (s *TransportService) Previous(ctx context.Context) error {
	return s.applyStep(ctx, s.state.Retreat())
}

// applyStep reconciles the transport with the result of an Advance/Retreat.
func (s *TransportService) applyStep(ctx context.Context, outcome domain.StepOutcome) error {
	switch outcome {
	case domain.StepChanged:
		current := s.state.CurrentTrack()
		if current == nil {
			return nil
		}
		return s.transport.LoadTrack(ctx, *current)

	case domain.StepRestarted:
		if err := s.transport.SeekTo(ctx, 0); err != nil {
			return err
		}
		if s.state.IsPlaying() {
			return s.transport.Play(ctx)
		}
		return nil

	case domain.StepStopped:
		return s.transport.Pause(ctx)

	default:
		return nil
	}
}

// SeekToFraction seeks to a fraction of the known duration. A no-op until
// the output has reported a duration.
func (s *TransportService) SeekToFraction(ctx context.Context, fraction float64) error {
	duration := s.state.Duration()
	if duration <= 0 {
		return nil
	}

	pos := fractionToPosition(fraction, duration)
	s.state.SetPosition(pos)
	return s.transport.SeekTo(ctx, pos)
}

// BeginSeek starts a seek drag: output time updates stop overwriting the
// position until EndSeek.
func (s *TransportService) BeginSeek() {
	s.transport.BeginScrub()
}

// DragSeek previews a drag position without issuing a seek.
func (s *TransportService) DragSeek(fraction float64) {
	duration := s.state.Duration()
	if duration <= 0 {
		return
	}
	s.state.SetPosition(fractionToPosition(fraction, duration))
	s.transport.Scrub(fraction)
}

// EndSeek releases the drag, issuing the real seek at the last previewed
// position.
func (s *TransportService) EndSeek(ctx context.Context) error {
	return s.transport.EndScrub(ctx)
}

// SetVolume stores the volume and mirrors it onto the output.
func (s *TransportService) SetVolume(ctx context.Context, volume float64) error {
	s.state.SetVolume(volume)
	return s.transport.SyncVolume(ctx)
}

// ToggleMute flips mute and mirrors the effective volume onto the output.
// The stored volume is untouched, so unmuting restores it exactly.
func (s *TransportService) ToggleMute(ctx context.Context) (bool, error) {
	muted := s.state.ToggleMute()
	return muted, s.transport.SyncVolume(ctx)
}

// ToggleShuffle flips shuffle mode. A pure state change: the current track
// keeps playing.
func (s *TransportService) ToggleShuffle() bool {
	enabled := s.state.ToggleShuffle()
	slog.Debug("shuffle toggled", "enabled", enabled)
	return enabled
}

// CycleRepeat cycles the repeat mode off -> all -> one -> off.
func (s *TransportService) CycleRepeat() domain.RepeatMode {
	mode := s.state.CycleRepeatMode()
	slog.Debug("repeat mode cycled", "mode", mode.String())
	return mode
}

func fractionToPosition(fraction float64, duration time.Duration) time.Duration {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	return time.Duration(fraction * float64(duration))
}
