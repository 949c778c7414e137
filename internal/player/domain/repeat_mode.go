package domain

// RepeatMode represents the repeat mode for queue playback.
type RepeatMode int

const (
	RepeatOff RepeatMode = iota // Default: stop at the end of the queue
	RepeatAll                   // Wrap to the start when reaching the end
	RepeatOne                   // Restart the current track when it ends
)

// String returns a human-readable representation of the repeat mode.
func (m RepeatMode) String() string {
	switch m {
	case RepeatAll:
		return "all"
	case RepeatOne:
		return "one"
	default:
		return "off"
	}
}

// ParseRepeatMode converts a string to a RepeatMode.
func ParseRepeatMode(s string) RepeatMode {
	switch s {
	case "all":
		return RepeatAll
	case "one":
		return RepeatOne
	default:
		return RepeatOff
	}
}
