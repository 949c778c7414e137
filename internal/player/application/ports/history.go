package ports

import (
	"time"

	"github.com/avolyn/groovebox/internal/player/domain"
)

// HistoryRecorder stores recently-played tracks. The engine emits track
// starts into it; it owns nothing else.
type HistoryRecorder interface {
	// Add records that a track started playing at the given time.
	Add(track domain.Track, playedAt time.Time)

	// Recent returns history entries, newest first, up to limit
	// (all entries when limit <= 0).
	Recent(limit int) []domain.HistoryEntry
}
