package usecases

import (
	"context"
	"log/slog"

	"github.com/avolyn/groovebox/internal/player/application/ports"
	"github.com/avolyn/groovebox/internal/player/domain"
)

// QueueService handles queue intents: replacing the queue, enqueuing,
// removing, reordering and jumping. Index arguments that have gone stale
// against the current queue are dropped silently, since the UI may race
// with state changes.
type QueueService struct {
	state     *domain.PlayerState
	transport ports.Transport
	publisher ports.EventPublisher
}

// NewQueueService creates a new QueueService.
func NewQueueService(
	state *domain.PlayerState,
	transport ports.Transport,
	publisher ports.EventPublisher,
) *QueueService {
	return &QueueService{
		state:     state,
		transport: transport,
		publisher: publisher,
	}
}

// PlayNow replaces the queue and starts playing. If preferredID matches a
// track in the new queue playback starts there, otherwise at the first
// track.
func (s *QueueService) PlayNow(
	ctx context.Context,
	tracks []domain.Track,
	preferredID domain.TrackID,
) error {
	if len(tracks) == 0 {
		return ErrQueueEmpty
	}

	previous := s.currentID()
	s.state.SetQueue(tracks, preferredID)
	s.state.SetPlaying(true)

	current := s.state.CurrentTrack()
	if current == nil {
		return nil
	}
	if current.ID == previous {
		// Same track stays loaded; just make sure it is playing.
		return s.transport.Play(ctx)
	}
	return s.transport.LoadTrack(ctx, *current)
}

// SetQueue replaces the queue without changing the play intent.
func (s *QueueService) SetQueue(
	ctx context.Context,
	tracks []domain.Track,
	preferredID domain.TrackID,
) error {
	previous := s.currentID()
	s.state.SetQueue(tracks, preferredID)

	current := s.state.CurrentTrack()
	if current == nil {
		return s.transport.Stop(ctx)
	}
	if current.ID == previous {
		return nil
	}
	return s.transport.LoadTrack(ctx, *current)
}

// Enqueue appends a track to the end of the queue.
func (s *QueueService) Enqueue(ctx context.Context, track domain.Track) error {
	if !track.IsValid() {
		return ErrInvalidTrack
	}

	wasEmpty := s.state.AddToQueue(track)
	s.publisher.PublishTrackEnqueued(domain.TrackEnqueuedEvent{
		Track:    track,
		WasEmpty: wasEmpty,
	})
	return nil
}

// EnqueueNext inserts a track right after the current one.
func (s *QueueService) EnqueueNext(ctx context.Context, track domain.Track) error {
	if !track.IsValid() {
		return ErrInvalidTrack
	}

	wasEmpty := s.state.Len() == 0
	s.state.InsertNext(track)
	s.publisher.PublishTrackEnqueued(domain.TrackEnqueuedEvent{
		Track:    track,
		WasEmpty: wasEmpty,
	})
	return nil
}

// Remove deletes the queue entry at the given index. Stale indices are
// dropped. Removing the current entry hands the transport whichever track
// took its place, without touching the play intent.
func (s *QueueService) Remove(ctx context.Context, index int) error {
	previous := s.currentID()
	removed := s.state.RemoveFromQueue(index)
	if removed == nil {
		slog.Debug("ignoring stale queue removal", "index", index)
		return nil
	}

	current := s.state.CurrentTrack()
	if current == nil {
		s.publisher.PublishQueueCleared(domain.QueueClearedEvent{})
		return nil
	}
	if current.ID != previous {
		return s.transport.LoadTrack(ctx, *current)
	}
	return nil
}

// Reorder moves a queue entry from one slot to another, keeping the same
// logical track current.
func (s *QueueService) Reorder(ctx context.Context, from, to int) error {
	s.state.Reorder(from, to)
	return nil
}

// JumpTo starts playing the track at the given queue index. Stale indices
// are dropped.
func (s *QueueService) JumpTo(ctx context.Context, index int) error {
	if index < 0 || index >= s.state.Len() {
		slog.Debug("ignoring stale queue jump", "index", index)
		return nil
	}

	previous := s.currentID()
	s.state.SetCurrentIndex(index)

	current := s.state.CurrentTrack()
	if current == nil {
		return nil
	}

	s.state.SetPlaying(true)
	if current.ID == previous {
		if err := s.transport.SeekTo(ctx, 0); err != nil {
			return err
		}
		return s.transport.Play(ctx)
	}
	return s.transport.LoadTrack(ctx, *current)
}

// Clear empties the queue and stops playback.
func (s *QueueService) Clear(ctx context.Context) error {
	s.state.Clear()
	s.publisher.PublishQueueCleared(domain.QueueClearedEvent{})
	return nil
}

// Tracks returns a copy of the queue for display.
func (s *QueueService) Tracks() []domain.Track {
	return s.state.Queue()
}

// Upcoming returns the tracks after the current one.
func (s *QueueService) Upcoming() []domain.Track {
	return s.state.Upcoming()
}

func (s *QueueService) currentID() domain.TrackID {
	if current := s.state.CurrentTrack(); current != nil {
		return current.ID
	}
	return ""
}
