// Package catalog loads track records from JSON catalogs and normalizes
// the field aliases found in the wild into domain tracks.
package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/avolyn/groovebox/internal/player/domain"
)

// PlaceholderCoverURL is used when a record carries no cover art.
const PlaceholderCoverURL = "https://via.placeholder.com/300x300.png?text=No+Cover"

// Record is a raw catalog entry. Different catalog sources name the same
// fields differently, so every aliased field is declared here and resolved
// during normalization.
type Record struct {
	ID     any    `json:"id"`
	Title  string `json:"title"`
	Name   string `json:"name"`
	Artist string `json:"artist"`

	// Duration is in seconds, possibly fractional.
	Duration float64 `json:"duration"`

	CoverImage string `json:"coverImage"`
	Image      string `json:"image"`

	AudioURL string `json:"audioUrl"`
	Preview  string `json:"preview"`
	Audio    string `json:"audio"`
}

// Normalize resolves the record's aliased fields into a domain track.
// Records without an ID get a generated one.
func (r Record) Normalize() domain.Track {
	return domain.Track{
		ID:       domain.TrackID(normalizeID(r.ID)),
		Title:    firstNonEmpty(r.Title, r.Name),
		Artist:   r.Artist,
		Duration: time.Duration(r.Duration * float64(time.Second)),
		CoverURL: firstNonEmpty(r.CoverImage, r.Image, PlaceholderCoverURL),
		AudioURL: firstNonEmpty(r.AudioURL, r.Preview, r.Audio),
	}
}

// ParseTracks decodes a JSON array of records and normalizes each entry.
func ParseTracks(r io.Reader) ([]domain.Track, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	tracks := make([]domain.Track, 0, len(records))
	for _, record := range records {
		tracks = append(tracks, record.Normalize())
	}
	return tracks, nil
}

// normalizeID stringifies whatever the catalog used as an identifier.
// JSON numbers arrive as float64.
func normalizeID(id any) string {
	switch v := id.(type) {
	case string:
		if strings.TrimSpace(v) != "" {
			return v
		}
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	}
	return uuid.NewString()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
