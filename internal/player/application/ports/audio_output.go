package ports

import (
	"context"
	"errors"
	"time"
)

// ErrLoadAborted is returned or reported by an AudioOutput when an
// in-flight load or play was superseded by a newer source. It is expected
// during rapid track changes and must never surface to the user.
var ErrLoadAborted = errors.New("aborted: superseded by a newer source")

// ErrPlaybackRejected is returned by an AudioOutput when it refused to
// start playback (for example an autoplay policy). It is surfaced once and
// never retried automatically.
var ErrPlaybackRejected = errors.New("playback rejected by audio output")

// AudioOutput is the playback primitive: the one component that actually
// produces sound. Load is asynchronous; completion arrives as OutputEvents
// on the listener, tagged with the source they belong to so stale
// completions can be told apart.
type AudioOutput interface {
	// Load begins loading the given source, replacing any current one.
	// MetadataLoaded or OutputError events follow asynchronously.
	Load(ctx context.Context, src string) error

	// Play starts or resumes playback of the loaded source. It returns
	// ErrLoadAborted if the source changed while the command was in
	// flight, or ErrPlaybackRejected if the output refused to start.
	Play(ctx context.Context) error

	// Pause pauses playback without unloading the source.
	Pause(ctx context.Context) error

	// Stop halts playback and unloads the source.
	Stop(ctx context.Context) error

	// Seek moves the playback position of the loaded source.
	Seek(ctx context.Context, pos time.Duration) error

	// SetVolume sets the effective output volume in [0, 1].
	SetVolume(ctx context.Context, level float64) error

	// Close releases the output.
	Close() error
}

// OutputListener receives OutputEvents from an AudioOutput.
type OutputListener func(OutputEvent)

// OutputEvent is an asynchronous signal from the audio output. Source
// identifies which loaded source the event belongs to.
type OutputEvent interface {
	Source() string
}

// MetadataLoadedEvent reports that a source loaded and its real duration
// is known.
type MetadataLoadedEvent struct {
	Src      string
	Duration time.Duration
}

func (e MetadataLoadedEvent) Source() string { return e.Src }

// TimeUpdatedEvent reports playback progress.
type TimeUpdatedEvent struct {
	Src      string
	Position time.Duration
}

func (e TimeUpdatedEvent) Source() string { return e.Src }

// PlaybackEndedEvent reports that the source played to its end.
type PlaybackEndedEvent struct {
	Src string
}

func (e PlaybackEndedEvent) Source() string { return e.Src }

// OutputErrorEvent reports that the source failed to load or play.
type OutputErrorEvent struct {
	Src string
	Err error
}

func (e OutputErrorEvent) Source() string { return e.Src }
