// Package metadata provides bibliographic lookup and inference helpers:
// ISBN sanitizing, a provider-neutral lookup interface, and series
// heuristics applied to titles.
package metadata

import (
	"context"
	"strings"

	"github.com/shelfmarkapp/shelfmark-server/internal/domain"
)

// Lookup resolves an ISBN to a partially populated record. Implementations
// return errors.ErrNotFound when the provider has no entry for the ISBN and
// errors.ErrUnavailable for transport or upstream failures.
type Lookup interface {
	LookupISBN(ctx context.Context, isbn string) (*domain.Record, error)
}

// SanitizeISBN strips everything that is not a digit or a check-digit X, so
// hyphenated and space-separated forms resolve the same as bare ones.
func SanitizeISBN(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == 'X' || r == 'x':
			b.WriteRune('X')
		}
	}
	return b.String()
}

// ValidISBN reports whether a sanitized ISBN has a plausible length. Check
// digits are the provider's problem; this only rejects obvious garbage.
func ValidISBN(isbn string) bool {
	return len(isbn) == 10 || len(isbn) == 13
}
