package domain

import "time"

// TrackStartedEvent is published when a track becomes the loaded track.
// The recently-played recorder consumes it.
type TrackStartedEvent struct {
	Track     Track
	StartedAt time.Time
}

// TrackEndedEvent is published when the audio output reports that the
// current track played to its natural end.
type TrackEndedEvent struct {
	Track Track
}

// PlaybackFailedEvent is published when a track could not be loaded after
// the fallback retry, or when a play command was rejected.
type PlaybackFailedEvent struct {
	Track   Track
	Message string
}

// TrackEnqueuedEvent is published when a track is added to the queue.
type TrackEnqueuedEvent struct {
	Track    Track
	WasEmpty bool // true if the queue was empty before this enqueue
}

// QueueClearedEvent is published when the queue is emptied, including the
// current track. It signals the transport to stop.
type QueueClearedEvent struct{}
