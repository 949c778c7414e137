package usecases

import "errors"

// Domain errors for the player use cases.
var (
	// ErrNoTrack is returned when an operation needs a current track and
	// there is none.
	ErrNoTrack = errors.New("no track is loaded")

	// ErrQueueEmpty is returned when an operation needs a non-empty queue.
	ErrQueueEmpty = errors.New("the queue is empty")

	// ErrInvalidTrack is returned when a track is missing its identity.
	ErrInvalidTrack = errors.New("track has no id")
)
