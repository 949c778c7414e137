package infrastructure

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/avolyn/groovebox/internal/player/application/ports"
)

// timeUpdateInterval is how often the output reports playback progress.
const timeUpdateInterval = 500 * time.Millisecond

// Compile-time check that BeepOutput implements ports.AudioOutput.
var _ ports.AudioOutput = (*BeepOutput)(nil)

// BeepOutput is the real playback primitive: it fetches the source over
// HTTP, decodes MP3 and plays through the speaker. Loads run in the
// background; completions carry the source they belong to, so a load
// superseded by a newer one resolves as aborted.
type BeepOutput struct {
	mu       sync.Mutex
	listener ports.OutputListener
	client   *http.Client

	initialized bool
	sampleRate  beep.SampleRate

	src      string
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	level    float64
	playing  bool
	ticker   chan struct{}
}

// NewBeepOutput creates a BeepOutput delivering events to the listener.
func NewBeepOutput(listener ports.OutputListener) *BeepOutput {
	return &BeepOutput{
		listener:   listener,
		client:     &http.Client{Timeout: 30 * time.Second},
		sampleRate: beep.SampleRate(44100),
		level:      1,
	}
}

// Load begins fetching and decoding the source, replacing any current one.
func (o *BeepOutput) Load(ctx context.Context, src string) error {
	o.mu.Lock()
	o.stopLocked()
	o.src = src
	o.mu.Unlock()

	go o.fetch(context.WithoutCancel(ctx), src)
	return nil
}

// fetch downloads and decodes the source, then reports metadata. Any step
// noticing that the source was replaced resolves as aborted.
func (o *BeepOutput) fetch(ctx context.Context, src string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		o.emit(ports.OutputErrorEvent{Src: src, Err: err})
		return
	}

	resp, err := o.client.Do(req)
	if err != nil {
		o.emit(ports.OutputErrorEvent{Src: src, Err: err})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		o.emit(ports.OutputErrorEvent{
			Src: src,
			Err: fmt.Errorf("fetch returned status %d", resp.StatusCode),
		})
		return
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		o.emit(ports.OutputErrorEvent{Src: src, Err: err})
		return
	}

	streamer, format, err := mp3.Decode(nopCloser{bytes.NewReader(data)})
	if err != nil {
		o.emit(ports.OutputErrorEvent{Src: src, Err: fmt.Errorf("decode failed: %w", err)})
		return
	}

	o.mu.Lock()
	if o.src != src {
		o.mu.Unlock()
		streamer.Close()
		o.emit(ports.OutputErrorEvent{Src: src, Err: ports.ErrLoadAborted})
		return
	}

	if !o.initialized {
		if err := speaker.Init(o.sampleRate, o.sampleRate.N(time.Second/10)); err != nil {
			o.mu.Unlock()
			streamer.Close()
			o.emit(ports.OutputErrorEvent{Src: src, Err: err})
			return
		}
		o.initialized = true
	}

	resampled := beep.Resample(4, format.SampleRate, o.sampleRate, streamer)
	o.streamer = streamer
	o.format = format
	o.ctrl = &beep.Ctrl{Streamer: resampled, Paused: true}
	o.volume = &effects.Volume{Streamer: o.ctrl, Base: 2}
	o.applyVolumeLocked()
	o.playing = false
	duration := format.SampleRate.D(streamer.Len())
	o.mu.Unlock()

	o.emit(ports.MetadataLoadedEvent{Src: src, Duration: duration})
}

// Play starts or resumes the loaded source.
func (o *BeepOutput) Play(_ context.Context) error {
	o.mu.Lock()

	if o.ctrl == nil {
		o.mu.Unlock()
		return ports.ErrLoadAborted
	}

	src := o.src
	if !o.playing {
		o.playing = true
		o.ticker = make(chan struct{})
		speaker.Play(beep.Seq(o.volume, beep.Callback(func() {
			o.emit(ports.PlaybackEndedEvent{Src: src})
		})))
		go o.reportProgress(src, o.ticker)
	}
	ctrl := o.ctrl
	o.mu.Unlock()

	speaker.Lock()
	ctrl.Paused = false
	speaker.Unlock()
	return nil
}

// Pause pauses playback without unloading the source.
func (o *BeepOutput) Pause(_ context.Context) error {
	o.mu.Lock()
	ctrl := o.ctrl
	o.mu.Unlock()

	if ctrl == nil {
		return nil
	}
	speaker.Lock()
	ctrl.Paused = true
	speaker.Unlock()
	return nil
}

// Stop halts playback and unloads the source.
func (o *BeepOutput) Stop(_ context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stopLocked()
	o.src = ""
	return nil
}

// Seek moves the playback position of the loaded source.
func (o *BeepOutput) Seek(_ context.Context, pos time.Duration) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.streamer == nil {
		return nil
	}

	speaker.Lock()
	defer speaker.Unlock()
	return o.streamer.Seek(o.format.SampleRate.N(pos))
}

// SetVolume sets the effective output volume in [0, 1]. Zero silences the
// output entirely.
func (o *BeepOutput) SetVolume(_ context.Context, level float64) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.level = level
	if o.volume == nil {
		return nil
	}
	speaker.Lock()
	o.applyVolumeLocked()
	speaker.Unlock()
	return nil
}

// applyVolumeLocked maps the linear level onto beep's exponential volume.
func (o *BeepOutput) applyVolumeLocked() {
	if o.volume == nil {
		return
	}
	if o.level <= 0 {
		o.volume.Silent = true
		return
	}
	o.volume.Silent = false
	o.volume.Volume = math.Log2(o.level)
}

// Close releases the output.
func (o *BeepOutput) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stopLocked()
	o.src = ""
	return nil
}

// stopLocked tears down the current source (caller holds o.mu). Closing
// the streamer makes the playing sequence finish; the resulting end
// callback reports the old source and is discarded upstream as stale.
func (o *BeepOutput) stopLocked() {
	if o.ticker != nil {
		close(o.ticker)
		o.ticker = nil
	}
	if o.ctrl != nil {
		speaker.Lock()
		o.ctrl.Paused = true
		speaker.Unlock()
	}
	if o.streamer != nil {
		o.streamer.Close()
		o.streamer = nil
	}
	o.ctrl = nil
	o.volume = nil
	o.playing = false
}

// reportProgress emits periodic time updates until the source is torn down.
func (o *BeepOutput) reportProgress(src string, done <-chan struct{}) {
	ticker := time.NewTicker(timeUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			o.mu.Lock()
			if o.streamer == nil || o.src != src {
				o.mu.Unlock()
				return
			}
			speaker.Lock()
			pos := o.format.SampleRate.D(o.streamer.Position())
			speaker.Unlock()
			o.mu.Unlock()

			o.emit(ports.TimeUpdatedEvent{Src: src, Position: pos})
		}
	}
}

func (o *BeepOutput) emit(event ports.OutputEvent) {
	if o.listener != nil {
		o.listener(event)
	}
}

// nopCloser wraps a bytes.Reader to implement io.ReadCloser.
type nopCloser struct {
	*bytes.Reader
}

func (nopCloser) Close() error { return nil }
