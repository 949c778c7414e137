package ports

import (
	"context"

	"github.com/avolyn/groovebox/internal/player/domain"
)

// EventPublisher defines the interface for publishing events asynchronously.
type EventPublisher interface {
	PublishTrackStarted(event domain.TrackStartedEvent)
	PublishTrackEnded(event domain.TrackEndedEvent)
	PublishPlaybackFailed(event domain.PlaybackFailedEvent)
	PublishTrackEnqueued(event domain.TrackEnqueuedEvent)
	PublishQueueCleared(event domain.QueueClearedEvent)
}

// EventSubscriber defines the interface for subscribing to events.
// Handlers are registered with the subscriber and invoked when events occur.
type EventSubscriber interface {
	OnTrackStarted(handler func(context.Context, domain.TrackStartedEvent))
	OnTrackEnded(handler func(context.Context, domain.TrackEndedEvent))
	OnPlaybackFailed(handler func(context.Context, domain.PlaybackFailedEvent))
	OnTrackEnqueued(handler func(context.Context, domain.TrackEnqueuedEvent))
	OnQueueCleared(handler func(context.Context, domain.QueueClearedEvent))
}
