package domain

import (
	"strconv"
	"time"
)

// TrackID is a unique identifier for a track. IDs are opaque: they come from
// whatever catalog supplied the track and are only compared for equality.
type TrackID string

// Track represents a playable audio track.
type Track struct {
	ID       TrackID
	Title    string
	Artist   string
	Duration time.Duration // zero until the output reports the real duration
	CoverURL string
	AudioURL string // may be empty or invalid; the transport substitutes a fallback
}

// IsValid returns true if the track has the minimum required fields.
func (t *Track) IsValid() bool {
	return t.ID != ""
}

// FormattedDuration returns the duration as a human-readable string (mm:ss or hh:mm:ss).
func (t *Track) FormattedDuration() string {
	totalSeconds := int(t.Duration.Seconds())
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	if hours > 0 {
		return pad(hours) + ":" + pad(minutes) + ":" + pad(seconds)
	}
	return pad(minutes) + ":" + pad(seconds)
}

func pad(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// HistoryEntry records a track that started playing, for the
// recently-played history.
type HistoryEntry struct {
	Track    Track
	PlayedAt time.Time
}
