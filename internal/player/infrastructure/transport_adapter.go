package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/avolyn/groovebox/internal/player/application/ports"
	"github.com/avolyn/groovebox/internal/player/domain"
)

// TransportStatus is the adapter's view of the loaded source. This is fact
// reported by the output, distinct from the play intent in PlayerState.
type TransportStatus int

const (
	StatusIdle TransportStatus = iota
	StatusLoading
	StatusReady
	StatusPlaying
	StatusPaused
	StatusEnded
	StatusFailed
)

// String returns a human-readable representation of the status.
func (s TransportStatus) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	case StatusEnded:
		return "ended"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Compile-time check that TransportAdapter implements ports.Transport.
var _ ports.Transport = (*TransportAdapter)(nil)

// TransportAdapter bridges the logical player state to the audio output.
// It is the only component that touches the output, and the only place
// where the asynchronous seams live: loads and plays complete out of band,
// and completions for a source that is no longer current are discarded.
//
// Per track change the adapter retries exactly one fallback source; a
// second failure is terminal for that track until the user retries.
type TransportAdapter struct {
	mu        sync.Mutex
	state     *domain.PlayerState
	output    ports.AudioOutput
	publisher ports.EventPublisher
	fallbacks []string

	status        TransportStatus
	track         domain.Track
	src           string
	triedFallback bool
	scrubbing     bool
}

// NewTransportAdapter creates a TransportAdapter. An output must be
// attached with AttachOutput before use.
func NewTransportAdapter(
	state *domain.PlayerState,
	publisher ports.EventPublisher,
	fallbackURLs []string,
) *TransportAdapter {
	return &TransportAdapter{
		state:     state,
		publisher: publisher,
		fallbacks: fallbackURLs,
	}
}

// AttachOutput wires the audio output. The output's events must be routed
// to HandleOutputEvent.
func (a *TransportAdapter) AttachOutput(output ports.AudioOutput) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.output = output
}

// Status returns the adapter's current status.
func (a *TransportAdapter) Status() TransportStatus {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

// LoadTrack resolves the track's playable source and starts loading it.
// The previous source, and any of its in-flight completions, are
// abandoned. A TrackStarted event is published for the history recorder.
func (a *TransportAdapter) LoadTrack(ctx context.Context, track domain.Track) error {
	a.mu.Lock()
	src := a.resolveSource(track)
	a.track = track
	a.src = src
	a.triedFallback = src != track.AudioURL // primary was already unusable
	a.status = StatusLoading
	output := a.output
	a.mu.Unlock()

	slog.Debug("loading track", "track", track.Title, "src", src)

	if err := output.Load(ctx, src); err != nil {
		a.handleLoadFailure(src, err)
		return nil
	}

	a.publisher.PublishTrackStarted(domain.TrackStartedEvent{
		Track:     track,
		StartedAt: time.Now().UTC(),
	})
	return nil
}

// Play applies a true play intent. While the source is still loading the
// intent is deferred until metadata arrives; after a terminal failure the
// track is reloaded for a fresh attempt.
func (a *TransportAdapter) Play(ctx context.Context) error {
	a.mu.Lock()

	switch a.status {
	case StatusLoading:
		// Metadata handler issues the play once the source is ready.
		a.mu.Unlock()
		return nil

	case StatusFailed:
		// Fresh user intent after a surfaced error: start over from the
		// primary source.
		track := a.track
		a.mu.Unlock()
		if !track.IsValid() {
			return nil
		}
		return a.LoadTrack(ctx, track)

	case StatusEnded:
		src := a.src
		output := a.output
		a.mu.Unlock()
		if err := output.Seek(ctx, 0); err != nil {
			return fmt.Errorf("failed to rewind ended track: %w", err)
		}
		go a.issuePlay(src)
		return nil

	default:
		src := a.src
		a.mu.Unlock()
		if src == "" {
			return nil
		}
		go a.issuePlay(src)
		return nil
	}
}

// issuePlay sends the play command and classifies the asynchronous result.
// A completion for a superseded source, or an aborted command, is
// discarded; any other failure is surfaced and clears the play intent.
func (a *TransportAdapter) issuePlay(src string) {
	a.mu.Lock()
	output := a.output
	a.mu.Unlock()

	err := output.Play(context.Background())

	a.mu.Lock()
	stale := src != a.src
	if err == nil {
		if !stale {
			a.status = StatusPlaying
		}
		a.mu.Unlock()
		return
	}
	if stale || errors.Is(err, ports.ErrLoadAborted) {
		a.mu.Unlock()
		slog.Debug("discarding stale play completion", "src", src, "error", err)
		return
	}
	a.status = StatusFailed
	track := a.track
	a.mu.Unlock()

	slog.Error("play command rejected", "track", track.Title, "error", err)
	a.state.SetPlaying(false)
	a.publisher.PublishPlaybackFailed(domain.PlaybackFailedEvent{
		Track:   track,
		Message: err.Error(),
	})
}

// Pause applies a false play intent.
func (a *TransportAdapter) Pause(ctx context.Context) error {
	a.mu.Lock()
	output := a.output
	if a.status == StatusPlaying {
		a.status = StatusPaused
	}
	a.mu.Unlock()

	return output.Pause(ctx)
}

// Stop halts playback and forgets the loaded source.
func (a *TransportAdapter) Stop(ctx context.Context) error {
	a.mu.Lock()
	output := a.output
	a.status = StatusIdle
	a.track = domain.Track{}
	a.src = ""
	a.scrubbing = false
	a.mu.Unlock()

	return output.Stop(ctx)
}

// SeekTo moves playback to an absolute position.
func (a *TransportAdapter) SeekTo(ctx context.Context, pos time.Duration) error {
	a.mu.Lock()
	output := a.output
	if a.status == StatusEnded {
		a.status = StatusReady
	}
	a.mu.Unlock()

	return output.Seek(ctx, pos)
}

// BeginScrub suspends output time updates while the user drags the
// progress control.
func (a *TransportAdapter) BeginScrub() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.scrubbing = true
}

// Scrub previews a drag position. The logical position is owned by the
// caller; the adapter only keeps time updates from overwriting it.
func (a *TransportAdapter) Scrub(fraction float64) {}

// EndScrub releases the drag: the position the caller settled on is issued
// as a real seek, then time updates resume.
func (a *TransportAdapter) EndScrub(ctx context.Context) error {
	a.mu.Lock()
	wasScrubbing := a.scrubbing
	a.scrubbing = false
	output := a.output
	if a.status == StatusEnded {
		a.status = StatusReady
	}
	a.mu.Unlock()

	if !wasScrubbing {
		return nil
	}
	return output.Seek(ctx, a.state.Position())
}

// SyncVolume mirrors the state's effective volume onto the output:
// 0 when muted, the stored volume otherwise.
func (a *TransportAdapter) SyncVolume(ctx context.Context) error {
	a.mu.Lock()
	output := a.output
	a.mu.Unlock()

	return output.SetVolume(ctx, a.state.EffectiveVolume())
}

// HandleOutputEvent receives asynchronous events from the audio output and
// folds them back into the player state. Events tagged with a source that
// is no longer current are discarded.
func (a *TransportAdapter) HandleOutputEvent(event ports.OutputEvent) {
	switch ev := event.(type) {
	case ports.MetadataLoadedEvent:
		a.handleMetadataLoaded(ev)
	case ports.TimeUpdatedEvent:
		a.handleTimeUpdated(ev)
	case ports.PlaybackEndedEvent:
		a.handlePlaybackEnded(ev)
	case ports.OutputErrorEvent:
		a.handleOutputError(ev)
	}
}

func (a *TransportAdapter) handleMetadataLoaded(ev ports.MetadataLoadedEvent) {
	a.mu.Lock()
	if ev.Src != a.src {
		a.mu.Unlock()
		slog.Debug("discarding stale metadata", "src", ev.Src)
		return
	}
	a.status = StatusReady
	src := a.src
	a.mu.Unlock()

	a.state.SetDuration(ev.Duration)

	// Mirror volume onto the freshly loaded source before any sound.
	if err := a.SyncVolume(context.Background()); err != nil {
		slog.Warn("failed to sync volume on load", "error", err)
	}

	if a.state.IsPlaying() {
		go a.issuePlay(src)
	}
}

func (a *TransportAdapter) handleTimeUpdated(ev ports.TimeUpdatedEvent) {
	a.mu.Lock()
	stale := ev.Src != a.src
	scrubbing := a.scrubbing
	a.mu.Unlock()

	if stale || scrubbing {
		return
	}
	a.state.SetPosition(ev.Position)
}

func (a *TransportAdapter) handlePlaybackEnded(ev ports.PlaybackEndedEvent) {
	a.mu.Lock()
	if ev.Src != a.src {
		a.mu.Unlock()
		slog.Debug("discarding stale end-of-track", "src", ev.Src)
		return
	}
	a.status = StatusEnded
	track := a.track
	a.mu.Unlock()

	a.publisher.PublishTrackEnded(domain.TrackEndedEvent{Track: track})
}

func (a *TransportAdapter) handleOutputError(ev ports.OutputErrorEvent) {
	if errors.Is(ev.Err, ports.ErrLoadAborted) {
		slog.Debug("discarding aborted load", "src", ev.Src)
		return
	}
	a.handleLoadFailure(ev.Src, ev.Err)
}

// handleLoadFailure retries once with the track's fallback source, then
// surfaces a terminal error for the track. The queue pointer is never
// moved on error, so the user can retry or skip manually.
func (a *TransportAdapter) handleLoadFailure(src string, cause error) {
	a.mu.Lock()
	if src != a.src {
		a.mu.Unlock()
		slog.Debug("discarding stale load failure", "src", src, "error", cause)
		return
	}

	if !a.triedFallback {
		fallback := a.fallbackFor(a.track)
		if fallback != "" && fallback != src {
			a.triedFallback = true
			a.src = fallback
			a.status = StatusLoading
			track := a.track
			output := a.output
			a.mu.Unlock()

			slog.Warn("audio source failed, trying fallback",
				"track", track.Title,
				"src", src,
				"fallback", fallback,
				"error", cause,
			)
			if err := output.Load(context.Background(), fallback); err != nil {
				a.handleLoadFailure(fallback, err)
			}
			return
		}
	}

	a.status = StatusFailed
	track := a.track
	a.mu.Unlock()

	slog.Error("audio source failed", "track", track.Title, "src", src, "error", cause)
	a.state.SetPlaying(false)
	a.publisher.PublishPlaybackFailed(domain.PlaybackFailedEvent{
		Track:   track,
		Message: cause.Error(),
	})
}

// resolveSource picks the playable source for a track: its own audio URL
// when present and sane, else its deterministic fallback.
func (a *TransportAdapter) resolveSource(track domain.Track) string {
	if track.AudioURL != "" && !strings.Contains(track.AudioURL, "undefined") {
		return track.AudioURL
	}
	return a.fallbackFor(track)
}

// fallbackFor maps a track id onto one of the configured fallback sources.
// The same id always maps to the same fallback.
func (a *TransportAdapter) fallbackFor(track domain.Track) string {
	if len(a.fallbacks) == 0 {
		return ""
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(track.ID))
	return a.fallbacks[int(h.Sum32())%len(a.fallbacks)]
}
