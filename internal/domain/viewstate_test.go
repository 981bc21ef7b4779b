package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewState_SubmitSearchResetsFilter(t *testing.T) {
	v := NewViewState()
	v.ApplyFilter(FilterState{Statuses: []Status{StatusFinished}})
	assert.True(t, v.FilterActive)

	v.SubmitSearch("dune")

	assert.Equal(t, ViewSearch, v.Base)
	assert.Equal(t, "dune", v.SearchTerm)
	assert.False(t, v.FilterActive)
	assert.Empty(t, v.Filter.Statuses)
}

func TestViewState_SubmitEmptySearchIgnored(t *testing.T) {
	v := NewViewState()
	v.SubmitSearch("")
	assert.Equal(t, ViewLibrary, v.Base)
}

func TestViewState_ClearSearchRevertsToWishlist(t *testing.T) {
	v := NewViewState()
	v.EnterWishlist()
	v.SubmitSearch("dune")
	v.ClearSearch()

	assert.Equal(t, ViewWishlist, v.Base)
	assert.Empty(t, v.SearchTerm)
}

func TestViewState_ClearSearchRevertsToLibrary(t *testing.T) {
	v := NewViewState()
	v.SubmitSearch("dune")
	v.ClearSearch()

	assert.Equal(t, ViewLibrary, v.Base)
}

func TestViewState_EnterWishlistClearsSearch(t *testing.T) {
	v := NewViewState()
	v.SubmitSearch("dune")
	v.EnterWishlist()

	assert.Equal(t, ViewWishlist, v.Base)
	assert.Empty(t, v.SearchTerm)
}

func TestViewState_FilterSurvivesViewChange(t *testing.T) {
	v := NewViewState()
	v.ApplyFilter(FilterState{Readers: []string{"sam"}})
	v.EnterWishlist()

	assert.True(t, v.FilterActive)
	assert.Equal(t, []string{"sam"}, v.Filter.Readers)
}

func TestViewState_ApplyEmptyFilterDeactivates(t *testing.T) {
	v := NewViewState()
	v.ApplyFilter(FilterState{Statuses: []Status{StatusReading}})
	assert.True(t, v.FilterActive)

	v.ApplyFilter(FilterState{})
	assert.False(t, v.FilterActive)
}

func TestViewState_AddModeRestoresView(t *testing.T) {
	v := NewViewState()
	v.EnterWishlist()
	v.ApplyFilter(FilterState{RatingTarget: 4})

	v.EnterAddMode()
	assert.True(t, v.AddMode)

	v.ExitAddMode()
	assert.False(t, v.AddMode)
	assert.Equal(t, ViewWishlist, v.Base)
	assert.True(t, v.FilterActive)
}

func TestViewState_AddModeIdempotent(t *testing.T) {
	v := NewViewState()
	v.EnterAddMode()
	v.EnterAddMode()
	v.ExitAddMode()
	assert.False(t, v.AddMode)

	// Exit when idle is a no-op.
	v.ExitAddMode()
	assert.Equal(t, ViewLibrary, v.Base)
}

func TestFilterState_Active(t *testing.T) {
	assert.False(t, FilterState{}.Active())
	assert.True(t, FilterState{Statuses: []Status{StatusReading}}.Active())
	assert.True(t, FilterState{Readers: []string{"sam"}}.Active())
	assert.True(t, FilterState{RatingTarget: -1}.Active())
	assert.True(t, FilterState{RatingTarget: 4}.Active())
}
