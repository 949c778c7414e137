package infrastructure

import (
	"context"
	"log/slog"
	"sync"

	"github.com/avolyn/groovebox/internal/player/application/ports"
	"github.com/avolyn/groovebox/internal/player/domain"
)

// DefaultEventBufferSize is the default buffer size for event channels.
const DefaultEventBufferSize = 100

// Compile-time checks that ChannelEventBus implements ports interfaces.
var (
	_ ports.EventPublisher  = (*ChannelEventBus)(nil)
	_ ports.EventSubscriber = (*ChannelEventBus)(nil)
)

// ChannelEventBus provides a channel-based event bus for async event
// handling. It implements both EventPublisher and EventSubscriber.
type ChannelEventBus struct {
	trackStarted   chan domain.TrackStartedEvent
	trackEnded     chan domain.TrackEndedEvent
	playbackFailed chan domain.PlaybackFailedEvent
	trackEnqueued  chan domain.TrackEnqueuedEvent
	queueCleared   chan domain.QueueClearedEvent

	trackStartedHandlers   []func(context.Context, domain.TrackStartedEvent)
	trackEndedHandlers     []func(context.Context, domain.TrackEndedEvent)
	playbackFailedHandlers []func(context.Context, domain.PlaybackFailedEvent)
	trackEnqueuedHandlers  []func(context.Context, domain.TrackEnqueuedEvent)
	queueClearedHandlers   []func(context.Context, domain.QueueClearedEvent)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool
	mu     sync.RWMutex
}

// NewChannelEventBus creates a new ChannelEventBus with the given buffer size.
func NewChannelEventBus(bufferSize int) *ChannelEventBus {
	if bufferSize <= 0 {
		bufferSize = DefaultEventBufferSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	bus := &ChannelEventBus{
		trackStarted:   make(chan domain.TrackStartedEvent, bufferSize),
		trackEnded:     make(chan domain.TrackEndedEvent, bufferSize),
		playbackFailed: make(chan domain.PlaybackFailedEvent, bufferSize),
		trackEnqueued:  make(chan domain.TrackEnqueuedEvent, bufferSize),
		queueCleared:   make(chan domain.QueueClearedEvent, bufferSize),
		ctx:            ctx,
		cancel:         cancel,
	}

	bus.startDispatchers()

	return bus
}

// startDispatchers starts goroutines that dispatch events to registered handlers.
func (b *ChannelEventBus) startDispatchers() {
	b.wg.Add(5)

	go b.dispatchTrackStarted()
	go b.dispatchTrackEnded()
	go b.dispatchPlaybackFailed()
	go b.dispatchTrackEnqueued()
	go b.dispatchQueueCleared()
}

func (b *ChannelEventBus) dispatchTrackStarted() {
	defer b.wg.Done()
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-b.trackStarted:
			if !ok {
				return
			}
			b.mu.RLock()
			handlers := b.trackStartedHandlers
			b.mu.RUnlock()
			for _, handler := range handlers {
				handler(b.ctx, event)
			}
		}
	}
}

func (b *ChannelEventBus) dispatchTrackEnded() {
	defer b.wg.Done()
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-b.trackEnded:
			if !ok {
				return
			}
			b.mu.RLock()
			handlers := b.trackEndedHandlers
			b.mu.RUnlock()
			for _, handler := range handlers {
				handler(b.ctx, event)
			}
		}
	}
}

func (b *ChannelEventBus) dispatchPlaybackFailed() {
	defer b.wg.Done()
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-b.playbackFailed:
			if !ok {
				return
			}
			b.mu.RLock()
			handlers := b.playbackFailedHandlers
			b.mu.RUnlock()
			for _, handler := range handlers {
				handler(b.ctx, event)
			}
		}
	}
}

func (b *ChannelEventBus) dispatchTrackEnqueued() {
	defer b.wg.Done()
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-b.trackEnqueued:
			if !ok {
				return
			}
			b.mu.RLock()
			handlers := b.trackEnqueuedHandlers
			b.mu.RUnlock()
			for _, handler := range handlers {
				handler(b.ctx, event)
			}
		}
	}
}

func (b *ChannelEventBus) dispatchQueueCleared() {
	defer b.wg.Done()
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-b.queueCleared:
			if !ok {
				return
			}
			b.mu.RLock()
			handlers := b.queueClearedHandlers
			b.mu.RUnlock()
			for _, handler := range handlers {
				handler(b.ctx, event)
			}
		}
	}
}

// --- EventPublisher interface ---

// PublishTrackStarted publishes a TrackStartedEvent.
// Non-blocking: if the channel buffer is full, the event is dropped with a warning.
func (b *ChannelEventBus) PublishTrackStarted(event domain.TrackStartedEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		slog.Warn("attempted to publish to closed event bus", "type", "TrackStarted")
		return
	}

	select {
	case b.trackStarted <- event:
		slog.Debug("published event", "type", "TrackStarted", "track", event.Track.Title)
	default:
		slog.Warn("event buffer full, dropping event", "type", "TrackStarted")
	}
}

// PublishTrackEnded publishes a TrackEndedEvent.
// Non-blocking: if the channel buffer is full, the event is dropped with a warning.
func (b *ChannelEventBus) PublishTrackEnded(event domain.TrackEndedEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		slog.Warn("attempted to publish to closed event bus", "type", "TrackEnded")
		return
	}

	select {
	case b.trackEnded <- event:
		slog.Debug("published event", "type", "TrackEnded", "track", event.Track.Title)
	default:
		slog.Warn("event buffer full, dropping event", "type", "TrackEnded")
	}
}

// PublishPlaybackFailed publishes a PlaybackFailedEvent.
// Non-blocking: if the channel buffer is full, the event is dropped with a warning.
func (b *ChannelEventBus) PublishPlaybackFailed(event domain.PlaybackFailedEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		slog.Warn("attempted to publish to closed event bus", "type", "PlaybackFailed")
		return
	}

	select {
	case b.playbackFailed <- event:
		slog.Debug("published event", "type", "PlaybackFailed", "track", event.Track.Title)
	default:
		slog.Warn("event buffer full, dropping event", "type", "PlaybackFailed")
	}
}

// PublishTrackEnqueued publishes a TrackEnqueuedEvent.
// Non-blocking: if the channel buffer is full, the event is dropped with a warning.
func (b *ChannelEventBus) PublishTrackEnqueued(event domain.TrackEnqueuedEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		slog.Warn("attempted to publish to closed event bus", "type", "TrackEnqueued")
		return
	}

	select {
	case b.trackEnqueued <- event:
		slog.Debug("published event", "type", "TrackEnqueued", "track", event.Track.Title)
	default:
		slog.Warn("event buffer full, dropping event", "type", "TrackEnqueued")
	}
}

// PublishQueueCleared publishes a QueueClearedEvent.
// Non-blocking: if the channel buffer is full, the event is dropped with a warning.
func (b *ChannelEventBus) PublishQueueCleared(event domain.QueueClearedEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		slog.Warn("attempted to publish to closed event bus", "type", "QueueCleared")
		return
	}

	select {
	case b.queueCleared <- event:
		slog.Debug("published event", "type", "QueueCleared")
	default:
		slog.Warn("event buffer full, dropping event", "type", "QueueCleared")
	}
}

// --- EventSubscriber interface ---

// OnTrackStarted registers a handler for TrackStartedEvent.
func (b *ChannelEventBus) OnTrackStarted(
	handler func(context.Context, domain.TrackStartedEvent),
) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.trackStartedHandlers = append(b.trackStartedHandlers, handler)
}

// OnTrackEnded registers a handler for TrackEndedEvent.
func (b *ChannelEventBus) OnTrackEnded(handler func(context.Context, domain.TrackEndedEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.trackEndedHandlers = append(b.trackEndedHandlers, handler)
}

// OnPlaybackFailed registers a handler for PlaybackFailedEvent.
func (b *ChannelEventBus) OnPlaybackFailed(
	handler func(context.Context, domain.PlaybackFailedEvent),
) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.playbackFailedHandlers = append(b.playbackFailedHandlers, handler)
}

// OnTrackEnqueued registers a handler for TrackEnqueuedEvent.
func (b *ChannelEventBus) OnTrackEnqueued(
	handler func(context.Context, domain.TrackEnqueuedEvent),
) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.trackEnqueuedHandlers = append(b.trackEnqueuedHandlers, handler)
}

// OnQueueCleared registers a handler for QueueClearedEvent.
func (b *ChannelEventBus) OnQueueCleared(handler func(context.Context, domain.QueueClearedEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queueClearedHandlers = append(b.queueClearedHandlers, handler)
}

// Close closes all event channels and stops dispatchers.
// After calling Close, publishing will no longer send events.
func (b *ChannelEventBus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.mu.Unlock()

	// Cancel context to stop dispatchers
	b.cancel()

	// Close channels to unblock any pending reads
	close(b.trackStarted)
	close(b.trackEnded)
	close(b.playbackFailed)
	close(b.trackEnqueued)
	close(b.queueCleared)

	// Wait for dispatchers to finish
	b.wg.Wait()

	slog.Debug("channel event bus closed")
}
