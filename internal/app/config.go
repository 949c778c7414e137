// Package app wires configuration and the playback engine together.
package app

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the player configuration loaded from environment variables.
type Config struct {
	// FallbackURLs are substitute audio sources used when a track has no
	// usable audio URL of its own.
	FallbackURLs []string `env:"GROOVEBOX_FALLBACK_URLS" envSeparator:","`

	DefaultVolume   float64 `env:"GROOVEBOX_DEFAULT_VOLUME" envDefault:"0.7"`
	EventBufferSize int     `env:"GROOVEBOX_EVENT_BUFFER" envDefault:"100"`
	HistoryLimit    int     `env:"GROOVEBOX_HISTORY_LIMIT" envDefault:"50"`
}

// defaultFallbackURLs are used when no fallback sources are configured.
var defaultFallbackURLs = []string{
	"https://www.soundhelix.com/examples/mp3/SoundHelix-Song-1.mp3",
	"https://www.soundhelix.com/examples/mp3/SoundHelix-Song-2.mp3",
	"https://www.soundhelix.com/examples/mp3/SoundHelix-Song-3.mp3",
	"https://www.soundhelix.com/examples/mp3/SoundHelix-Song-4.mp3",
	"https://www.soundhelix.com/examples/mp3/SoundHelix-Song-5.mp3",
}

// LoadConfig loads configuration from environment variables.
// Returns an error if any field is out of range.
func LoadConfig() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if len(cfg.FallbackURLs) == 0 {
		cfg.FallbackURLs = defaultFallbackURLs
	}

	if cfg.DefaultVolume < 0 || cfg.DefaultVolume > 1 {
		return nil, fmt.Errorf("default volume must be in [0, 1], got %v", cfg.DefaultVolume)
	}
	if cfg.EventBufferSize <= 0 {
		return nil, fmt.Errorf("event buffer size must be positive, got %d", cfg.EventBufferSize)
	}
	if cfg.HistoryLimit <= 0 {
		return nil, fmt.Errorf("history limit must be positive, got %d", cfg.HistoryLimit)
	}

	return cfg, nil
}
