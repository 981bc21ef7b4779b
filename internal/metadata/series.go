package metadata

import (
	"regexp"
	"strings"
)

// SeriesGuess is the result of inferring a series from a title.
type SeriesGuess struct {
	Title  string // title with the series marker removed
	Series string
	Number string
}

// Patterns a series marker commonly takes inside a book title. Order
// matters; the first match wins.
var (
	// "The Fifth Season (The Broken Earth, #1)" and the "Book 1" variant.
	parenSeriesRe = regexp.MustCompile(`^(.*?)\s*\((.+?),\s*(?:#|Book\s+|Vol\.?\s+)(\d+(?:\.\d+)?)\)\s*$`)

	// "Discworld Book 3: Equal Rites"
	prefixSeriesRe = regexp.MustCompile(`^(.+?)\s+(?:Book|Vol\.?|Volume)\s+(\d+(?:\.\d+)?):\s*(.+)$`)

	// "Equal Rites - Discworld #3"
	dashSeriesRe = regexp.MustCompile(`^(.*?)\s+-\s+(.+?)\s*#(\d+(?:\.\d+)?)\s*$`)
)

// GuessSeries applies title heuristics to extract a series name and number.
// Returns nil when the title carries no recognizable series marker. The
// guess is a suggestion for the caller to confirm, never applied silently.
func GuessSeries(title string) *SeriesGuess {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil
	}

	if m := parenSeriesRe.FindStringSubmatch(title); m != nil {
		return &SeriesGuess{Title: strings.TrimSpace(m[1]), Series: strings.TrimSpace(m[2]), Number: m[3]}
	}
	if m := prefixSeriesRe.FindStringSubmatch(title); m != nil {
		return &SeriesGuess{Title: strings.TrimSpace(m[3]), Series: strings.TrimSpace(m[1]), Number: m[2]}
	}
	if m := dashSeriesRe.FindStringSubmatch(title); m != nil {
		return &SeriesGuess{Title: strings.TrimSpace(m[1]), Series: strings.TrimSpace(m[2]), Number: m[3]}
	}
	return nil
}
