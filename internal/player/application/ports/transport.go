package ports

import (
	"context"
	"time"

	"github.com/avolyn/groovebox/internal/player/domain"
)

// Transport bridges the logical player state to the audio output. Use cases
// call it after mutating state; it owns the output and reconciles
// asynchronously.
type Transport interface {
	// LoadTrack resolves the track's playable source and begins loading
	// it, replacing the current one.
	LoadTrack(ctx context.Context, track domain.Track) error

	// Play applies a true play intent to the loaded source. After a
	// surfaced failure it reloads the current track for a fresh attempt.
	Play(ctx context.Context) error

	// Pause applies a false play intent.
	Pause(ctx context.Context) error

	// Stop halts playback and forgets the loaded source.
	Stop(ctx context.Context) error

	// SeekTo moves playback to an absolute position.
	SeekTo(ctx context.Context, pos time.Duration) error

	// BeginScrub suspends output time updates while the user drags the
	// progress control. Scrub previews positions during the drag;
	// EndScrub issues the real seek and resumes time updates.
	BeginScrub()
	Scrub(fraction float64)
	EndScrub(ctx context.Context) error

	// SyncVolume mirrors the state's effective volume onto the output.
	SyncVolume(ctx context.Context) error
}
