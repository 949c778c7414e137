package infrastructure

import (
	"sync"
	"time"

	"github.com/avolyn/groovebox/internal/player/application/ports"
	"github.com/avolyn/groovebox/internal/player/domain"
)

// DefaultHistoryLimit is the default recently-played capacity.
const DefaultHistoryLimit = 50

// Compile-time check that MemoryHistoryStore implements ports.HistoryRecorder.
var _ ports.HistoryRecorder = (*MemoryHistoryStore)(nil)

// MemoryHistoryStore is an in-memory recently-played store, newest first.
// A replayed track moves to the front instead of duplicating.
type MemoryHistoryStore struct {
	mu      sync.RWMutex
	entries []domain.HistoryEntry
	limit   int
}

// NewMemoryHistoryStore creates a MemoryHistoryStore with the given capacity.
func NewMemoryHistoryStore(limit int) *MemoryHistoryStore {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &MemoryHistoryStore{limit: limit}
}

// Add records that a track started playing at the given time.
func (s *MemoryHistoryStore) Add(track domain.Track, playedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]domain.HistoryEntry, 0, len(s.entries)+1)
	kept = append(kept, domain.HistoryEntry{Track: track, PlayedAt: playedAt})
	for _, e := range s.entries {
		if e.Track.ID == track.ID {
			continue
		}
		kept = append(kept, e)
	}
	if len(kept) > s.limit {
		kept = kept[:s.limit]
	}
	s.entries = kept
}

// Recent returns history entries, newest first, up to limit (all entries
// when limit <= 0).
func (s *MemoryHistoryStore) Recent(limit int) []domain.HistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.entries)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]domain.HistoryEntry, n)
	copy(out, s.entries[:n])
	return out
}

// Len returns the number of stored entries.
func (s *MemoryHistoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
