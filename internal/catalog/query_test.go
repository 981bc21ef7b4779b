package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfmarkapp/shelfmark-server/internal/domain"
)

func rec(id, title string, status domain.Status) domain.Record {
	return domain.Record{
		ID:        id,
		Title:     title,
		Status:    status,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func ratedRec(id string, rating float64) domain.Record {
	r := rec(id, id, domain.StatusFinished)
	r.Rating = &rating
	return r
}

func ids(records []domain.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestCompute_LibraryExcludesWishlist(t *testing.T) {
	records := []domain.Record{
		rec("a", "Dune", domain.StatusReading),
		rec("b", "Hyperion", domain.StatusWishlist),
		rec("c", "Foundation", domain.StatusFinished),
	}

	got, reason := Compute(records, domain.NewViewState(), DefaultSort())

	assert.Equal(t, EmptyNone, reason)
	assert.ElementsMatch(t, []string{"a", "c"}, ids(got))
}

func TestCompute_WishlistView(t *testing.T) {
	records := []domain.Record{
		rec("a", "Dune", domain.StatusReading),
		rec("b", "Hyperion", domain.StatusWishlist),
	}

	view := domain.NewViewState()
	view.EnterWishlist()
	got, _ := Compute(records, view, DefaultSort())

	assert.Equal(t, []string{"b"}, ids(got))
}

func TestCompute_SearchMixedCase(t *testing.T) {
	records := []domain.Record{
		rec("a", "Dune", domain.StatusReading),
		rec("b", "Dune Messiah", domain.StatusWishlist),
		rec("c", "Foundation", domain.StatusReading),
	}

	view := domain.NewViewState()
	view.SubmitSearch("dune")
	got, reason := Compute(records, view, DefaultSort())

	assert.Equal(t, EmptyNone, reason)
	assert.Equal(t, []string{"a", "b"}, ids(got))
}

func TestCompute_SearchSpansFields(t *testing.T) {
	byAuthor := rec("a", "Foundation", domain.StatusReading)
	byAuthor.Authors = domain.StringList{"Isaac Asimov"}
	byGenre := rec("b", "Hyperion", domain.StatusReading)
	byGenre.Genres = domain.StringList{"Space Opera"}
	byTag := rec("c", "Dune", domain.StatusReading)
	byTag.Tags = domain.StringList{"asimov-adjacent"}
	bySeries := rec("d", "Second Foundation", domain.StatusReading)
	bySeries.SeriesOverride = "Asimov Collection"
	miss := rec("e", "Neuromancer", domain.StatusReading)

	view := domain.NewViewState()
	view.SubmitSearch("asimov")
	got, _ := Compute([]domain.Record{byAuthor, byGenre, byTag, bySeries, miss}, view, DefaultSort())

	assert.ElementsMatch(t, []string{"a", "c", "d"}, ids(got))
}

func TestCompute_RatingBand(t *testing.T) {
	records := []domain.Record{
		ratedRec("r30", 3.0),
		ratedRec("r35", 3.5),
		ratedRec("r40", 4.0),
		ratedRec("r45", 4.5),
		rec("unrated", "No Stars", domain.StatusFinished),
	}

	view := domain.NewViewState()
	view.ApplyFilter(domain.FilterState{RatingTarget: 4})
	got, _ := Compute(records, view, DefaultSort())
	assert.ElementsMatch(t, []string{"r35", "r40"}, ids(got))

	view.ApplyFilter(domain.FilterState{RatingTarget: -1})
	got, _ = Compute(records, view, DefaultSort())
	assert.Equal(t, []string{"unrated"}, ids(got))
}

func TestCompute_FilterDimensionsANDCombined(t *testing.T) {
	match := rec("a", "Dune", domain.StatusFinished)
	match.Reader = "sam"
	wrongReader := rec("b", "Hyperion", domain.StatusFinished)
	wrongReader.Reader = "alex"
	wrongStatus := rec("c", "Foundation", domain.StatusReading)
	wrongStatus.Reader = "sam"

	view := domain.NewViewState()
	view.ApplyFilter(domain.FilterState{
		Statuses: []domain.Status{domain.StatusFinished},
		Readers:  []string{"sam"},
	})
	got, _ := Compute([]domain.Record{match, wrongReader, wrongStatus}, view, DefaultSort())

	assert.Equal(t, []string{"a"}, ids(got))
}

func TestCompute_FilterAppliesOnTopOfSearch(t *testing.T) {
	a := ratedRec("a", 4.0)
	a.Title = "Dune"
	b := ratedRec("b", 2.0)
	b.Title = "Dune Messiah"

	view := domain.NewViewState()
	view.SubmitSearch("dune")
	view.ApplyFilter(domain.FilterState{RatingTarget: 4})
	got, _ := Compute([]domain.Record{a, b}, view, DefaultSort())

	assert.Equal(t, []string{"a"}, ids(got))
}

func TestCompute_EmptyReasonPrecedence(t *testing.T) {
	records := []domain.Record{rec("a", "Dune", domain.StatusReading)}

	// Filter beats search even when both are active and both miss.
	view := domain.NewViewState()
	view.SubmitSearch("dune")
	view.ApplyFilter(domain.FilterState{Readers: []string{"nobody"}})
	_, reason := Compute(records, view, DefaultSort())
	assert.Equal(t, EmptyFilter, reason)

	view = domain.NewViewState()
	view.SubmitSearch("zebra")
	_, reason = Compute(records, view, DefaultSort())
	assert.Equal(t, EmptySearch, reason)

	view = domain.NewViewState()
	view.EnterWishlist()
	_, reason = Compute(records, view, DefaultSort())
	assert.Equal(t, EmptyWishlist, reason)

	_, reason = Compute(nil, domain.NewViewState(), DefaultSort())
	assert.Equal(t, EmptyCollection, reason)
}

func TestCompute_FilterReasonWinsOverEmptyCollection(t *testing.T) {
	view := domain.NewViewState()
	view.ApplyFilter(domain.FilterState{RatingTarget: -1})
	_, reason := Compute(nil, view, DefaultSort())
	assert.Equal(t, EmptyFilter, reason)
}

func TestCompute_InputNotReordered(t *testing.T) {
	records := []domain.Record{
		rec("b", "Zebra", domain.StatusReading),
		rec("a", "Aardvark", domain.StatusReading),
	}

	got, _ := Compute(records, domain.NewViewState(), DefaultSort())

	assert.Equal(t, []string{"a", "b"}, ids(got))
	assert.Equal(t, "b", records[0].ID, "input slice must stay untouched")
}

func TestSort_NullsLastBothDirections(t *testing.T) {
	rated := ratedRec("rated", 3.0)
	unrated := rec("unrated", "No Stars", domain.StatusFinished)
	records := []domain.Record{unrated, rated}

	for _, dir := range []Direction{Ascending, Descending} {
		got, _ := Compute(records, domain.NewViewState(), Sort{Field: SortRating, Direction: dir})
		require.Len(t, got, 2)
		assert.Equal(t, "rated", got[0].ID, "direction %s", dir)
		assert.Equal(t, "unrated", got[1].ID, "direction %s", dir)
	}
}

func TestSort_AuthorUsesFirstAuthorOnly(t *testing.T) {
	a := rec("a", "Many Hands", domain.StatusReading)
	a.Authors = domain.StringList{"Zoe Adams", "Aaron Aardvark"}
	b := rec("b", "Solo", domain.StatusReading)
	b.Authors = domain.StringList{"Ben Katz"}

	got, _ := Compute([]domain.Record{a, b}, domain.NewViewState(), Sort{Field: SortAuthor, Direction: Ascending})
	assert.Equal(t, []string{"b", "a"}, ids(got))
}

func TestSort_SeriesUsesEffectiveTitle(t *testing.T) {
	a := rec("a", "Book A", domain.StatusReading)
	a.Series = "Zeta Cycle"
	a.SeriesOverride = "Alpha Cycle"
	b := rec("b", "Book B", domain.StatusReading)
	b.Series = "Beta Cycle"

	got, _ := Compute([]domain.Record{b, a}, domain.NewViewState(), Sort{Field: SortSeries, Direction: Ascending})
	assert.Equal(t, []string{"a", "b"}, ids(got))
}

func TestSort_YearUnparsableComparesAsZero(t *testing.T) {
	old := rec("old", "Old", domain.StatusReading)
	old.PublishYear = "1965"
	junk := rec("junk", "Junk", domain.StatusReading)
	junk.PublishYear = "circa 1700"
	missing := rec("missing", "Missing", domain.StatusReading)

	got, _ := Compute([]domain.Record{old, junk, missing}, domain.NewViewState(), Sort{Field: SortYear, Direction: Ascending})
	// junk parses as zero so it precedes 1965; missing is absent and lands last.
	assert.Equal(t, []string{"junk", "old", "missing"}, ids(got))
}

func TestSort_DatesByInstant(t *testing.T) {
	early := rec("early", "Early", domain.StatusFinished)
	early.FinishedAt = time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	late := rec("late", "Late", domain.StatusFinished)
	late.FinishedAt = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	never := rec("never", "Never", domain.StatusReading)

	got, _ := Compute([]domain.Record{late, never, early}, domain.NewViewState(), Sort{Field: SortFinished, Direction: Descending})
	assert.Equal(t, []string{"late", "early", "never"}, ids(got))
}

func TestSort_StableForEqualKeys(t *testing.T) {
	a := rec("a", "Same", domain.StatusReading)
	b := rec("b", "Same", domain.StatusReading)
	c := rec("c", "Same", domain.StatusReading)

	got, _ := Compute([]domain.Record{a, b, c}, domain.NewViewState(), DefaultSort())
	assert.Equal(t, []string{"a", "b", "c"}, ids(got))
}

func TestSort_TitleCaseInsensitive(t *testing.T) {
	lower := rec("lower", "dune messiah", domain.StatusReading)
	upper := rec("upper", "Dune", domain.StatusReading)

	got, _ := Compute([]domain.Record{lower, upper}, domain.NewViewState(), DefaultSort())
	assert.Equal(t, []string{"upper", "lower"}, ids(got))
}
