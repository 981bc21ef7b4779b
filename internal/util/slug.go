// Package util provides common utility functions.
package util

import (
	"regexp"
	"strings"
)

var (
	// Matches spaces, underscores, and slashes (for replacement with dashes).
	wordSeparatorRe = regexp.MustCompile(`[\s_/]+`)
	// Matches non-alphanumeric characters (except dashes).
	nonAlphanumericRe = regexp.MustCompile(`[^a-z0-9-]`)
	// Matches multiple consecutive dashes.
	multipleDashRe = regexp.MustCompile(`-+`)
)

// Slug converts free text to a canonical slug. Used for synthesized record
// keys and custom tag identity.
//
// Normalization rules:
//  1. Trim whitespace and lowercase
//  2. Replace spaces, underscores, and slashes with dashes
//  3. Remove non-alphanumeric characters (except dashes)
//  4. Collapse multiple dashes
//  5. Trim leading/trailing dashes
//
// Examples:
//
//	"Dune Messiah"  → "dune-messiah"
//	"slow_burn"     → "slow-burn"
//	"  multi   word " → "multi-word"
//	"--leading--"   → "leading"
func Slug(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	s = wordSeparatorRe.ReplaceAllString(s, "-")
	s = nonAlphanumericRe.ReplaceAllString(s, "")
	s = multipleDashRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
