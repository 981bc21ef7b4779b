// Package domain contains the core entities and domain logic for the Shelfmark catalog.
package domain

import (
	"fmt"
	"github.com/go-json-experiment/json"
	"math"
	"strings"
	"time"
)

// Status is the reading status of a record.
type Status string

// Reading statuses.
const (
	StatusWishlist   Status = "wishlist"
	StatusReading    Status = "reading"
	StatusUnfinished Status = "unfinished"
	StatusFinished   Status = "finished"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusWishlist, StatusReading, StatusUnfinished, StatusFinished:
		return true
	}
	return false
}

// ParseStatus converts free-form input to a Status.
// Unknown values fall back to StatusReading.
func ParseStatus(raw string) Status {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if s.Valid() {
		return s
	}
	return StatusReading
}

// PlaceholderCover is the sentinel returned by EffectiveCover when a record
// has neither a bibliographic cover nor a user override.
const PlaceholderCover = "/static/cover-placeholder.svg"

// StringList is an ordered list of non-empty strings. Legacy persisted
// entries sometimes carry a bare scalar where a list belongs; unmarshaling
// wraps those in a single-element list instead of failing.
type StringList []string

// UnmarshalJSON accepts either a JSON array of strings or a single string.
func (l *StringList) UnmarshalJSON(data []byte) error {
	var items []string
	if err := json.Unmarshal(data, &items); err == nil {
		*l = items
		return nil
	}

	var scalar string
	if err := json.Unmarshal(data, &scalar); err == nil {
		if scalar == "" {
			*l = nil
		} else {
			*l = StringList{scalar}
		}
		return nil
	}

	return fmt.Errorf("string list: unsupported JSON shape: %s", data)
}

// Record represents one catalog entry (a book).
//
// Bibliographic fields are the source of truth from lookup or manual entry.
// User fields belong to the owner of the catalog; the override fields shadow
// their bibliographic counterparts without destroying them.
type Record struct {
	ID string `json:"id"`

	// Bibliographic fields.
	ISBN         string     `json:"isbn,omitempty"`
	Title        string     `json:"title"`
	Authors      StringList `json:"authors"`
	Publisher    string     `json:"publisher,omitempty"`
	PublishYear  string     `json:"publish_year,omitempty"`
	Synopsis     string     `json:"synopsis,omitempty"`
	Pages        int        `json:"pages,omitempty"`
	Genres       StringList `json:"genres,omitempty"`
	Series       string     `json:"series,omitempty"`
	SeriesNumber string     `json:"series_number,omitempty"`
	CoverURL     string     `json:"cover_url,omitempty"`

	// User fields.
	Status               Status     `json:"status"`
	Reader               string     `json:"reader,omitempty"`
	Rating               *float64   `json:"rating,omitempty"`
	Review               string     `json:"review,omitempty"`
	Tags                 StringList `json:"tags,omitempty"`
	SeriesOverride       string     `json:"series_override,omitempty"`
	SeriesNumberOverride string     `json:"series_number_override,omitempty"`
	PagesOverride        int        `json:"pages_override,omitempty"`
	CoverOverride        string     `json:"cover_override,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	FinishedAt           time.Time  `json:"finished_at,omitzero"`
}

// EffectiveSeries returns the user override if non-empty, else the
// bibliographic series title.
func (r *Record) EffectiveSeries() string {
	if r.SeriesOverride != "" {
		return r.SeriesOverride
	}
	return r.Series
}

// EffectiveSeriesNumber returns the user override if non-empty, else the
// bibliographic series number.
func (r *Record) EffectiveSeriesNumber() string {
	if r.SeriesNumberOverride != "" {
		return r.SeriesNumberOverride
	}
	return r.SeriesNumber
}

// EffectivePages returns the user override if present, else the bibliographic
// page count. Zero means unknown.
func (r *Record) EffectivePages() int {
	if r.PagesOverride > 0 {
		return r.PagesOverride
	}
	return r.Pages
}

// EffectiveCover returns the user override, else the bibliographic cover,
// else PlaceholderCover.
func (r *Record) EffectiveCover() string {
	if r.CoverOverride != "" {
		return r.CoverOverride
	}
	if r.CoverURL != "" {
		return r.CoverURL
	}
	return PlaceholderCover
}

// FirstAuthor returns the first author name, or "" when unknown.
func (r *Record) FirstAuthor() string {
	if len(r.Authors) == 0 {
		return ""
	}
	return r.Authors[0]
}

// Finished reports whether the record carries a meaningful completion time.
func (r *Record) Finished() bool {
	return r.Status == StatusFinished && !r.FinishedAt.IsZero()
}

// ValidRating reports whether v is a permitted personal rating:
// a multiple of 0.5 in [0, 5].
func ValidRating(v float64) bool {
	if v < 0 || v > 5 {
		return false
	}
	doubled := v * 2
	return doubled == math.Trunc(doubled)
}

// Normalize brings a record into canonical shape. It is applied to every
// entry loaded from storage or import so partially-shaped legacy data gets
// field defaults instead of crashing callers.
//
// Rules:
//   - list fields become ordered lists of trimmed, non-empty strings
//   - unknown statuses fall back to the default
//   - an invalid rating is dropped rather than clamped
//   - the completion timestamp is cleared unless status is Finished
func (r *Record) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Authors = normalizeList(r.Authors)
	r.Genres = normalizeList(r.Genres)
	r.Tags = normalizeList(r.Tags)

	if !r.Status.Valid() {
		r.Status = ParseStatus(string(r.Status))
	}

	if r.Rating != nil && !ValidRating(*r.Rating) {
		r.Rating = nil
	}

	if r.Status != StatusFinished {
		r.FinishedAt = time.Time{}
	}
}

// normalizeList trims entries and drops empties, preserving order.
func normalizeList(values StringList) StringList {
	if len(values) == 0 {
		return nil
	}
	out := make(StringList, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
