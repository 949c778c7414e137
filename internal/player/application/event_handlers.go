package application

import (
	"context"
	"log/slog"

	"github.com/avolyn/groovebox/internal/player/application/ports"
	"github.com/avolyn/groovebox/internal/player/domain"
)

// PlaybackEventHandler reacts to playback-flow events: track ends advance
// the queue, enqueues into an empty queue preload the track, and queue
// clears stop the transport.
type PlaybackEventHandler struct {
	state      *domain.PlayerState
	transport  ports.Transport
	subscriber ports.EventSubscriber
}

// NewPlaybackEventHandler creates a new PlaybackEventHandler.
func NewPlaybackEventHandler(
	state *domain.PlayerState,
	transport ports.Transport,
	subscriber ports.EventSubscriber,
) *PlaybackEventHandler {
	return &PlaybackEventHandler{
		state:      state,
		transport:  transport,
		subscriber: subscriber,
	}
}

// Start registers event handlers with the subscriber.
func (h *PlaybackEventHandler) Start() {
	h.subscriber.OnTrackEnded(h.handleTrackEnded)
	h.subscriber.OnTrackEnqueued(h.handleTrackEnqueued)
	h.subscriber.OnQueueCleared(h.handleQueueCleared)

	slog.Debug("playback event handler started")
}

// handleTrackEnded auto-advances when a track plays to its end. Repeat-one
// only applies here: it restarts the same track instead of advancing.
// A manual "next" never reaches this path.
func (h *PlaybackEventHandler) handleTrackEnded(ctx context.Context, event domain.TrackEndedEvent) {
	if h.state.RepeatMode() == domain.RepeatOne {
		slog.Debug("track ended, repeat-one restart", "track", event.Track.Title)
		h.state.SetPosition(0)
		if err := h.transport.SeekTo(ctx, 0); err != nil {
			slog.Error("failed to restart track", "track", event.Track.Title, "error", err)
			return
		}
		if err := h.transport.Play(ctx); err != nil {
			slog.Error("failed to replay track", "track", event.Track.Title, "error", err)
		}
		return
	}

	outcome := h.state.Advance()
	slog.Debug("track ended, advancing queue",
		"track", event.Track.Title,
		"outcome", int(outcome),
	)

	switch outcome {
	case domain.StepChanged:
		current := h.state.CurrentTrack()
		if current == nil {
			return
		}
		if err := h.transport.LoadTrack(ctx, *current); err != nil {
			slog.Error("failed to load next track after track ended",
				"track", current.Title,
				"error", err,
			)
		}

	case domain.StepRestarted:
		if err := h.transport.SeekTo(ctx, 0); err != nil {
			slog.Error("failed to restart track after track ended", "error", err)
			return
		}
		if h.state.IsPlaying() {
			if err := h.transport.Play(ctx); err != nil {
				slog.Error("failed to replay track after track ended", "error", err)
			}
		}

	default:
		// Queue ran out; the transport already sits at Ended.
	}
}

// handleTrackEnqueued preloads the track when it landed in an empty queue,
// so a later play intent starts immediately. It does not start playback.
func (h *PlaybackEventHandler) handleTrackEnqueued(
	ctx context.Context,
	event domain.TrackEnqueuedEvent,
) {
	if !event.WasEmpty {
		return
	}

	current := h.state.CurrentTrack()
	if current == nil || current.ID != event.Track.ID {
		slog.Debug("enqueued track no longer current, skipping preload",
			"track", event.Track.Title,
		)
		return
	}

	slog.Debug("preloading first enqueued track", "track", event.Track.Title)
	if err := h.transport.LoadTrack(ctx, *current); err != nil {
		slog.Error("failed to preload enqueued track",
			"track", event.Track.Title,
			"error", err,
		)
	}
}

func (h *PlaybackEventHandler) handleQueueCleared(
	ctx context.Context,
	_ domain.QueueClearedEvent,
) {
	slog.Debug("queue cleared, stopping transport")
	if err := h.transport.Stop(ctx); err != nil {
		slog.Error("failed to stop transport after queue cleared", "error", err)
	}
}

// HistoryEventHandler records track starts into the recently-played
// history.
type HistoryEventHandler struct {
	recorder   ports.HistoryRecorder
	subscriber ports.EventSubscriber
}

// NewHistoryEventHandler creates a new HistoryEventHandler.
func NewHistoryEventHandler(
	recorder ports.HistoryRecorder,
	subscriber ports.EventSubscriber,
) *HistoryEventHandler {
	return &HistoryEventHandler{
		recorder:   recorder,
		subscriber: subscriber,
	}
}

// Start registers event handlers with the subscriber.
func (h *HistoryEventHandler) Start() {
	h.subscriber.OnTrackStarted(h.handleTrackStarted)

	slog.Debug("history event handler started")
}

func (h *HistoryEventHandler) handleTrackStarted(
	_ context.Context,
	event domain.TrackStartedEvent,
) {
	h.recorder.Add(event.Track, event.StartedAt)
}
