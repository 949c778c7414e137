package domain

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/samber/lo"
)

// StepOutcome describes what Advance/Retreat did to the player.
type StepOutcome int

const (
	// StepNone means nothing happened (empty queue).
	StepNone StepOutcome = iota
	// StepChanged means the current track changed.
	StepChanged
	// StepRestarted means the current track stayed and its position was reset.
	StepRestarted
	// StepStopped means the queue ran out and the play intent was cleared.
	StepStopped
)

// PlayerState is the playback queue and transport state aggregate.
// It holds logical state only: what track is current, what comes next, and
// what the transport flags say. It never touches the audio output itself.
//
// All mutation goes through the exported operations, each of which is atomic.
// The zero index is meaningless while the queue is empty.
type PlayerState struct {
	mu sync.Mutex

	queue        []Track
	currentIndex int
	current      *Track

	isPlaying bool
	position  time.Duration
	duration  time.Duration
	volume    float64
	isMuted   bool

	shuffleEnabled bool
	repeatMode     RepeatMode

	// shuffleHistory records visited queue indices while shuffle is on,
	// newest last. Bounded to len(queue); trimmed to the most recent half
	// on overflow.
	shuffleHistory []int
	// originalOrder is the queue snapshot taken when shuffle was enabled,
	// restored when shuffle is disabled.
	originalOrder []Track
}

// NewPlayerState creates an empty PlayerState with the given initial volume.
func NewPlayerState(volume float64) *PlayerState {
	return &PlayerState{
		volume: clampUnit(volume),
	}
}

// SetQueue replaces the queue wholesale. The index resets to 0 and the
// shuffle history is cleared. If preferredID matches a track in the new
// queue, the index moves to its position and the current track is left
// unchanged; otherwise the first track becomes current.
func (p *PlayerState) SetQueue(tracks []Track, preferredID TrackID) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.queue = make([]Track, len(tracks))
	copy(p.queue, tracks)
	p.currentIndex = 0
	p.shuffleHistory = nil

	if len(p.queue) == 0 {
		p.current = nil
		p.isPlaying = false
		return
	}

	if preferredID != "" {
		if i := p.indexOfID(preferredID); i >= 0 {
			p.currentIndex = i
			if p.current == nil {
				p.setCurrentLocked(i)
			}
			return
		}
	}
	p.setCurrentLocked(0)
}

// SetCurrentTrack makes the given track current. If it is present in the
// queue the index moves to its position; either way the position resets.
func (p *PlayerState) SetCurrentTrack(t Track) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if i := p.indexOfID(t.ID); i >= 0 {
		p.currentIndex = i
	}
	track := t
	p.current = &track
	p.position = 0
}

// SetCurrentIndex jumps to the given queue index. Out-of-range indices are
// ignored. In shuffle mode the index is appended to the shuffle history.
func (p *PlayerState) SetCurrentIndex(i int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.isValidIndexLocked(i) {
		return
	}
	p.setCurrentLocked(i)
	if p.shuffleEnabled {
		p.pushHistoryLocked(i)
	}
}

// AddToQueue appends a track at the end of the queue. If the queue was
// empty the track becomes current. Returns true if the queue was empty.
func (p *PlayerState) AddToQueue(t Track) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	wasEmpty := len(p.queue) == 0
	p.queue = append(p.queue, t)
	if wasEmpty && p.current == nil {
		p.setCurrentLocked(0)
	}
	return wasEmpty
}

// InsertNext inserts a track immediately after the current one. Shuffle
// history indices at or past the insertion point shift to stay valid.
func (p *PlayerState) InsertNext(t Track) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.queue) == 0 {
		p.queue = append(p.queue, t)
		p.setCurrentLocked(0)
		return
	}

	at := p.currentIndex + 1
	p.queue = append(p.queue[:at], append([]Track{t}, p.queue[at:]...)...)

	if p.shuffleEnabled {
		p.shuffleHistory = lo.Map(p.shuffleHistory, func(i int, _ int) int {
			if i >= at {
				return i + 1
			}
			return i
		})
	}
}

// RemoveFromQueue removes the entry at the given index and returns it.
// Out-of-range indices are a no-op returning nil. Removing an entry before
// the current one shifts the index down; removing the current entry makes
// the next one current (wrapping to 0 past the end) without touching the
// play intent, or clears the player if the queue is now empty.
func (p *PlayerState) RemoveFromQueue(index int) *Track {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.isValidIndexLocked(index) {
		return nil
	}

	removed := p.queue[index]
	p.queue = append(p.queue[:index], p.queue[index+1:]...)

	switch {
	case index < p.currentIndex:
		p.currentIndex--
	case index == p.currentIndex:
		if len(p.queue) == 0 {
			p.current = nil
			p.currentIndex = 0
			p.isPlaying = false
			p.position = 0
			break
		}
		if p.currentIndex >= len(p.queue) {
			p.currentIndex = 0
		}
		p.setCurrentLocked(p.currentIndex)
	}

	return &removed
}

// Reorder moves the entry at from to the slot at to, preserving which
// logical track is current.
func (p *PlayerState) Reorder(from, to int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.isValidIndexLocked(from) || to < 0 || to > len(p.queue) || from == to {
		return
	}

	moved := p.queue[from]
	p.queue = append(p.queue[:from], p.queue[from+1:]...)
	at := to
	if from < to {
		at = to - 1
	}
	p.queue = append(p.queue[:at], append([]Track{moved}, p.queue[at:]...)...)

	switch {
	case from == p.currentIndex:
		p.currentIndex = at
	case from < p.currentIndex && at >= p.currentIndex:
		p.currentIndex--
	case from > p.currentIndex && at <= p.currentIndex:
		p.currentIndex++
	}
}

// Advance moves to the next track ("next" intent / natural track end).
//
// Sequential mode walks forward, wrapping only in RepeatAll; shuffle mode
// picks a random index outside the recent-history window, never repeating
// the current track while more than one exists.
func (p *PlayerState) Advance() StepOutcome {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch len(p.queue) {
	case 0:
		return StepNone
	case 1:
		if p.repeatMode == RepeatOne || p.repeatMode == RepeatAll {
			p.position = 0
			return StepRestarted
		}
		p.isPlaying = false
		return StepStopped
	}

	if p.shuffleEnabled {
		p.currentIndex = p.pickShuffleIndexLocked()
		p.pushHistoryLocked(p.currentIndex)
	} else {
		switch {
		case p.currentIndex < len(p.queue)-1:
			p.currentIndex++
		case p.repeatMode == RepeatAll:
			p.currentIndex = 0
		default:
			p.isPlaying = false
			return StepStopped
		}
	}

	p.setCurrentLocked(p.currentIndex)
	return StepChanged
}

// Retreat moves to the previous track ("previous" intent).
//
// In shuffle mode it steps backward through the actual shuffle history; in
// sequential mode it walks backward, wrapping only in RepeatAll. At the
// first track with RepeatOff the current track restarts instead.
func (p *PlayerState) Retreat() StepOutcome {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch len(p.queue) {
	case 0:
		return StepNone
	case 1:
		p.position = 0
		return StepRestarted
	}

	if p.shuffleEnabled {
		if prev, ok := p.popHistoryLocked(); ok {
			p.currentIndex = prev
		} else {
			p.currentIndex = p.pickOtherIndexLocked()
			p.shuffleHistory = []int{p.currentIndex}
		}
	} else {
		switch {
		case p.currentIndex > 0:
			p.currentIndex--
		case p.repeatMode == RepeatAll:
			p.currentIndex = len(p.queue) - 1
		default:
			p.position = 0
			return StepRestarted
		}
	}

	p.setCurrentLocked(p.currentIndex)
	return StepChanged
}

// ToggleShuffle flips shuffle mode and returns the new value.
//
// Enabling snapshots the queue order and seeds the history with the current
// index. Disabling restores the snapshot and relocates the index to the
// current track's position in it; if the track is gone from the snapshot
// the index is kept and clamped into range.
func (p *PlayerState) ToggleShuffle() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.shuffleEnabled = !p.shuffleEnabled

	if p.shuffleEnabled {
		p.originalOrder = make([]Track, len(p.queue))
		copy(p.originalOrder, p.queue)
		p.shuffleHistory = nil
		if p.current != nil {
			p.shuffleHistory = []int{p.currentIndex}
		}
		return true
	}

	if len(p.originalOrder) > 0 {
		p.queue = p.originalOrder
		if p.current != nil {
			if i := p.indexOfID(p.current.ID); i >= 0 {
				p.currentIndex = i
			} else if p.currentIndex >= len(p.queue) {
				p.currentIndex = len(p.queue) - 1
			}
		}
	}
	p.shuffleHistory = nil
	p.originalOrder = nil
	return false
}

// CycleRepeatMode cycles off -> all -> one -> off and returns the new mode.
func (p *PlayerState) CycleRepeatMode() RepeatMode {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.repeatMode {
	case RepeatOff:
		p.repeatMode = RepeatAll
	case RepeatAll:
		p.repeatMode = RepeatOne
	default:
		p.repeatMode = RepeatOff
	}
	return p.repeatMode
}

// SetVolume sets the stored volume, clamped to [0, 1]. Muting is tracked
// separately so unmuting restores the exact value.
func (p *PlayerState) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = clampUnit(v)
}

// ToggleMute flips the mute flag without touching the stored volume.
// Returns the new value.
func (p *PlayerState) ToggleMute() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.isMuted = !p.isMuted
	return p.isMuted
}

// SetPlaying records the play intent. This is intent, not fact: the audio
// output catches up asynchronously.
func (p *PlayerState) SetPlaying(playing bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.isPlaying = playing
}

// SetPosition updates the playback position, clamped to [0, duration] when
// the duration is known.
func (p *PlayerState) SetPosition(pos time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if pos < 0 {
		pos = 0
	}
	if p.duration > 0 && pos > p.duration {
		pos = p.duration
	}
	p.position = pos
}

// SetDuration records the real track duration reported by the output.
func (p *PlayerState) SetDuration(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if d < 0 {
		d = 0
	}
	p.duration = d
}

// Clear empties the queue and stops playback.
func (p *PlayerState) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.queue = nil
	p.currentIndex = 0
	p.current = nil
	p.isPlaying = false
	p.position = 0
	p.duration = 0
	p.shuffleHistory = nil
	p.originalOrder = nil
}

// Reset returns the player to its initial empty form, preserving volume and
// mute so the user's level survives.
func (p *PlayerState) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.queue = nil
	p.currentIndex = 0
	p.current = nil
	p.isPlaying = false
	p.position = 0
	p.duration = 0
	p.shuffleEnabled = false
	p.repeatMode = RepeatOff
	p.shuffleHistory = nil
	p.originalOrder = nil
}

// --- accessors ---

// Queue returns a copy of the queue.
func (p *PlayerState) Queue() []Track {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]Track, len(p.queue))
	copy(out, p.queue)
	return out
}

// Len returns the number of tracks in the queue.
func (p *PlayerState) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// CurrentIndex returns the current queue index.
func (p *PlayerState) CurrentIndex() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currentIndex
}

// CurrentTrack returns a copy of the current track, or nil if there is none.
func (p *PlayerState) CurrentTrack() *Track {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil {
		return nil
	}
	track := *p.current
	return &track
}

// Upcoming returns copies of the tracks after the current index.
func (p *PlayerState) Upcoming() []Track {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.currentIndex+1 >= len(p.queue) {
		return nil
	}
	rest := p.queue[p.currentIndex+1:]
	out := make([]Track, len(rest))
	copy(out, rest)
	return out
}

// IsPlaying reports the play intent.
func (p *PlayerState) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.isPlaying
}

// Position returns the playback position.
func (p *PlayerState) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position
}

// Duration returns the current track duration as last reported.
func (p *PlayerState) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duration
}

// Volume returns the stored volume, ignoring mute.
func (p *PlayerState) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// IsMuted reports whether the player is muted.
func (p *PlayerState) IsMuted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.isMuted
}

// EffectiveVolume returns the volume the output should use: 0 when muted,
// the stored volume otherwise.
func (p *PlayerState) EffectiveVolume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isMuted {
		return 0
	}
	return p.volume
}

// ShuffleEnabled reports whether shuffle mode is on.
func (p *PlayerState) ShuffleEnabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.shuffleEnabled
}

// RepeatMode returns the current repeat mode.
func (p *PlayerState) RepeatMode() RepeatMode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.repeatMode
}

// HasNext reports whether a "next" intent would move or restart playback.
func (p *PlayerState) HasNext() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.queue) <= 1 {
		return p.repeatMode == RepeatOne || p.repeatMode == RepeatAll
	}
	if p.shuffleEnabled {
		return true
	}
	return p.currentIndex < len(p.queue)-1 || p.repeatMode == RepeatAll
}

// HasPrevious reports whether a "previous" intent would move or restart
// playback. It is always true with a current track, since "previous" at the
// first track restarts it.
func (p *PlayerState) HasPrevious() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue) > 0
}

// QueuePosition returns the 1-based position of the current track and the
// queue length, for display.
func (p *PlayerState) QueuePosition() (current, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.queue) == 0 {
		return 0, 0
	}
	return p.currentIndex + 1, len(p.queue)
}

// --- internals (caller holds p.mu) ---

func (p *PlayerState) isValidIndexLocked(i int) bool {
	return 0 <= i && i < len(p.queue)
}

// setCurrentLocked points the player at queue[i] and resets the position.
func (p *PlayerState) setCurrentLocked(i int) {
	p.currentIndex = i
	track := p.queue[i]
	p.current = &track
	p.position = 0
}

func (p *PlayerState) indexOfID(id TrackID) int {
	_, i, ok := lo.FindIndexOf(p.queue, func(t Track) bool { return t.ID == id })
	if !ok {
		return -1
	}
	return i
}

// pushHistoryLocked appends a visited index, trimming to the most recent
// half whenever the history would exceed the queue length.
func (p *PlayerState) pushHistoryLocked(i int) {
	p.shuffleHistory = append(p.shuffleHistory, i)
	if len(p.shuffleHistory) > len(p.queue) {
		keep := len(p.queue) / 2
		p.shuffleHistory = p.shuffleHistory[len(p.shuffleHistory)-keep:]
	}
}

// popHistoryLocked drops the newest history entry (the current index) and
// returns the one before it. Entries invalidated by queue mutations are
// skipped.
func (p *PlayerState) popHistoryLocked() (int, bool) {
	for len(p.shuffleHistory) > 1 {
		p.shuffleHistory = p.shuffleHistory[:len(p.shuffleHistory)-1]
		prev := p.shuffleHistory[len(p.shuffleHistory)-1]
		if p.isValidIndexLocked(prev) {
			return prev, true
		}
	}
	return 0, false
}

// recentWindowLocked returns the most recent floor(len(queue)/2) history
// entries, the span shuffle refuses to revisit.
func (p *PlayerState) recentWindowLocked() []int {
	window := len(p.queue) / 2
	if len(p.shuffleHistory) < window {
		window = len(p.shuffleHistory)
	}
	return p.shuffleHistory[len(p.shuffleHistory)-window:]
}

// pickShuffleIndexLocked chooses the next shuffle index: uniform over all
// indices that are neither current nor in the recent-history window. If
// every index has been heard recently the history resets to just the
// current index and any other index qualifies.
func (p *PlayerState) pickShuffleIndexLocked() int {
	recent := p.recentWindowLocked()
	candidates := make([]int, 0, len(p.queue))
	for i := range p.queue {
		if i != p.currentIndex && !lo.Contains(recent, i) {
			candidates = append(candidates, i)
		}
	}

	if len(candidates) == 0 {
		p.shuffleHistory = []int{p.currentIndex}
		return p.pickOtherIndexLocked()
	}
	return candidates[rand.IntN(len(candidates))]
}

// pickOtherIndexLocked returns a uniformly random index other than the
// current one. The queue has at least two tracks when this is called.
func (p *PlayerState) pickOtherIndexLocked() int {
	i := rand.IntN(len(p.queue) - 1)
	if i >= p.currentIndex {
		i++
	}
	return i
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
