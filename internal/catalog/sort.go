package catalog

import (
	"sort"
	"strconv"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/shelfmarkapp/shelfmark-server/internal/domain"
)

// SortField names a sortable record attribute.
type SortField string

// Sortable fields.
const (
	SortTitle     SortField = "title"
	SortAuthor    SortField = "author"
	SortSeries    SortField = "series"
	SortPages     SortField = "pages"
	SortYear      SortField = "year"
	SortRating    SortField = "rating"
	SortAdded     SortField = "added"
	SortFinished  SortField = "finished"
	SortStatus    SortField = "status"
	SortPublisher SortField = "publisher"
)

// Direction of a sort.
type Direction string

// Sort directions.
const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Sort is the single active sort field and direction.
type Sort struct {
	Field     SortField `json:"field"`
	Direction Direction `json:"direction"`
}

// DefaultSort orders by title ascending.
func DefaultSort() Sort {
	return Sort{Field: SortTitle, Direction: Ascending}
}

// sortKey is the typed comparison key extracted from a record for one field.
// Exactly one of str/num/instant is meaningful, per kind.
type sortKey struct {
	present bool
	kind    keyKind
	str     string
	num     float64
	instant time.Time
}

type keyKind int

const (
	kindString keyKind = iota
	kindNumber
	kindTime
)

// sortRecords orders records in place with a stable sort.
// Records with an absent key always sort last, in both directions.
func sortRecords(records []domain.Record, s Sort) {
	if s.Field == "" {
		s = DefaultSort()
	}

	keys := make([]sortKey, len(records))
	for i := range records {
		keys[i] = extractKey(&records[i], s.Field)
	}

	coll := collate.New(language.English, collate.IgnoreCase)
	desc := s.Direction == Descending

	indices := make([]int, len(records))
	for i := range indices {
		indices[i] = i
	}

	sort.SliceStable(indices, func(x, y int) bool {
		a, b := keys[indices[x]], keys[indices[y]]
		if a.present != b.present {
			return a.present // absent last regardless of direction
		}
		if !a.present {
			return false
		}
		c := compareKeys(coll, a, b)
		if desc {
			c = -c
		}
		return c < 0
	})

	reorder(records, indices)
}

// reorder applies the sorted index permutation to records.
func reorder(records []domain.Record, indices []int) {
	sorted := make([]domain.Record, len(records))
	for pos, idx := range indices {
		sorted[pos] = records[idx]
	}
	copy(records, sorted)
}

func compareKeys(coll *collate.Collator, a, b sortKey) int {
	switch a.kind {
	case kindNumber:
		switch {
		case a.num < b.num:
			return -1
		case a.num > b.num:
			return 1
		}
		return 0
	case kindTime:
		switch {
		case a.instant.Before(b.instant):
			return -1
		case a.instant.After(b.instant):
			return 1
		}
		return 0
	default:
		return coll.CompareString(a.str, b.str)
	}
}

// extractKey pulls the comparison key for a field out of a record.
//
// Conventions from the display contract:
//   - "author" compares by first author name only
//   - "series" compares by the effective series title
//   - date fields compare by instant; a zero time counts as absent and, for
//     tie-break purposes, as the earliest possible instant
//   - numeric fields compare as floats; unparsable values become zero
func extractKey(rec *domain.Record, field SortField) sortKey {
	switch field {
	case SortAuthor:
		return stringKey(rec.FirstAuthor())
	case SortSeries:
		return stringKey(rec.EffectiveSeries())
	case SortPages:
		pages := rec.EffectivePages()
		return sortKey{present: pages > 0, kind: kindNumber, num: float64(pages)}
	case SortYear:
		return numericKey(rec.PublishYear)
	case SortRating:
		if rec.Rating == nil {
			return sortKey{kind: kindNumber}
		}
		return sortKey{present: true, kind: kindNumber, num: *rec.Rating}
	case SortAdded:
		return timeKey(rec.CreatedAt)
	case SortFinished:
		return timeKey(rec.FinishedAt)
	case SortStatus:
		return stringKey(string(rec.Status))
	case SortPublisher:
		return stringKey(rec.Publisher)
	default:
		return stringKey(rec.Title)
	}
}

func stringKey(s string) sortKey {
	return sortKey{present: s != "", kind: kindString, str: s}
}

// numericKey parses a numeric string field. Empty is absent; a non-empty
// value that fails to parse compares as zero.
func numericKey(raw string) sortKey {
	if raw == "" {
		return sortKey{kind: kindNumber}
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		n = 0
	}
	return sortKey{present: true, kind: kindNumber, num: n}
}

func timeKey(t time.Time) sortKey {
	return sortKey{present: !t.IsZero(), kind: kindTime, instant: t}
}
