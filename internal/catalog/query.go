// Package catalog computes the visible, ordered subset of records from a
// collection snapshot plus the current view state and sort. Everything here
// is pure: no caching, no incremental diffing, recomputed on every call.
package catalog

import (
	"strings"

	"github.com/shelfmarkapp/shelfmark-server/internal/domain"
)

// EmptyReason explains an empty result. Exactly one applies, chosen by
// precedence: filter > search > wishlist > empty collection.
type EmptyReason string

// Empty-result reasons.
const (
	EmptyNone       EmptyReason = ""
	EmptyFilter     EmptyReason = "filter"
	EmptySearch     EmptyReason = "search"
	EmptyWishlist   EmptyReason = "wishlist"
	EmptyCollection EmptyReason = "collection"
)

// Compute filters and orders the collection for display.
// The returned slice is a fresh copy; the input is never reordered.
func Compute(records []domain.Record, view *domain.ViewState, sort Sort) ([]domain.Record, EmptyReason) {
	searchActive := view.Base == domain.ViewSearch && view.SearchTerm != ""

	out := make([]domain.Record, 0, len(records))
	for _, rec := range records {
		if !baseMatch(&rec, view, searchActive) {
			continue
		}
		if view.FilterActive && !filterMatch(&rec, view.Filter) {
			continue
		}
		out = append(out, rec)
	}

	sortRecords(out, sort)

	if len(out) > 0 {
		return out, EmptyNone
	}
	return out, emptyReason(view, searchActive)
}

// baseMatch applies the single active base-view predicate, in precedence
// order Search > Wishlist > Library-default.
func baseMatch(rec *domain.Record, view *domain.ViewState, searchActive bool) bool {
	switch {
	case searchActive:
		return matchesSearch(rec, view.SearchTerm)
	case view.Base == domain.ViewWishlist:
		return rec.Status == domain.StatusWishlist
	default:
		return rec.Status != domain.StatusWishlist
	}
}

// matchesSearch does a case-insensitive substring match against title, any
// author, publisher, any genre, any tag, or the effective series title.
func matchesSearch(rec *domain.Record, term string) bool {
	needle := strings.ToLower(term)

	if containsFold(rec.Title, needle) ||
		containsFold(rec.Publisher, needle) ||
		containsFold(rec.EffectiveSeries(), needle) {
		return true
	}
	for _, a := range rec.Authors {
		if containsFold(a, needle) {
			return true
		}
	}
	for _, g := range rec.Genres {
		if containsFold(g, needle) {
			return true
		}
	}
	for _, tag := range rec.Tags {
		if containsFold(tag, needle) {
			return true
		}
	}
	return false
}

// containsFold reports whether haystack contains the already-lowercased needle.
func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}

// filterMatch AND-composes the active filter dimensions.
func filterMatch(rec *domain.Record, f domain.FilterState) bool {
	if len(f.Statuses) > 0 && !containsStatus(f.Statuses, rec.Status) {
		return false
	}
	if len(f.Readers) > 0 && !containsString(f.Readers, rec.Reader) {
		return false
	}
	return ratingMatch(rec.Rating, f.RatingTarget)
}

// ratingMatch applies the rating band. Target 0 is inactive; -1 matches only
// unrated records; a positive target t matches ratings in [t-0.5, t],
// inclusive on both ends.
func ratingMatch(rating *float64, target float64) bool {
	switch {
	case target == 0:
		return true
	case target == -1:
		return rating == nil
	default:
		if rating == nil {
			return false
		}
		return *rating >= target-0.5 && *rating <= target
	}
}

func containsStatus(set []domain.Status, s domain.Status) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func containsString(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

// emptyReason picks the single reported reason for an empty result.
func emptyReason(view *domain.ViewState, searchActive bool) EmptyReason {
	switch {
	case view.FilterActive:
		return EmptyFilter
	case searchActive:
		return EmptySearch
	case view.Base == domain.ViewWishlist:
		return EmptyWishlist
	default:
		return EmptyCollection
	}
}
