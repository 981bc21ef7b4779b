package domain

// BaseView is the single active top-level display mode.
type BaseView string

// Base views.
const (
	ViewLibrary  BaseView = "library"
	ViewSearch   BaseView = "search"
	ViewWishlist BaseView = "wishlist"
)

// FilterState holds the independent filter overlay dimensions. Each active
// dimension is AND-combined by the query pipeline; within a dimension the
// selected values are OR-combined.
type FilterState struct {
	Statuses []Status `json:"statuses,omitempty"`
	Readers  []string `json:"readers,omitempty"`

	// RatingTarget selects a rating band. 0 means inactive; -1 matches only
	// unrated records; a positive target t matches ratings in [t-0.5, t].
	RatingTarget float64 `json:"rating_target,omitempty"`
}

// Active reports whether any filter dimension is non-empty.
func (f FilterState) Active() bool {
	return len(f.Statuses) > 0 || len(f.Readers) > 0 || f.RatingTarget != 0
}

// ViewState tracks which base view, filter overlay, and transient add/edit
// mode are active. The displayed predicate is a pure function of the exported
// fields; no transition leaves hidden state behind.
type ViewState struct {
	Base         BaseView    `json:"base"`
	SearchTerm   string      `json:"search_term,omitempty"`
	FilterActive bool        `json:"filter_active"`
	Filter       FilterState `json:"filter"`
	AddMode      bool        `json:"add_mode"`

	// lastNonSearch remembers where ClearSearch should land.
	lastNonSearch BaseView
	// returnView is the base view to restore when add/edit mode ends.
	returnView BaseView
}

// NewViewState starts in the library view with no overlays.
func NewViewState() *ViewState {
	return &ViewState{
		Base:          ViewLibrary,
		lastNonSearch: ViewLibrary,
	}
}

// SubmitSearch activates the search view for a non-empty term and resets the
// filter overlay. An empty term is ignored.
func (v *ViewState) SubmitSearch(term string) {
	if term == "" {
		return
	}
	if v.Base != ViewSearch {
		v.lastNonSearch = v.Base
	}
	v.Base = ViewSearch
	v.SearchTerm = term
	v.FilterActive = false
	v.Filter = FilterState{}
}

// ClearSearch reverts to the last non-search view: Wishlist if that was
// active before searching, else Library.
func (v *ViewState) ClearSearch() {
	if v.Base != ViewSearch {
		return
	}
	v.SearchTerm = ""
	if v.lastNonSearch == ViewWishlist {
		v.Base = ViewWishlist
	} else {
		v.Base = ViewLibrary
	}
}

// EnterWishlist switches to the wishlist view, clearing any active search.
func (v *ViewState) EnterWishlist() {
	v.SearchTerm = ""
	v.Base = ViewWishlist
	v.lastNonSearch = ViewWishlist
}

// EnterLibrary switches to the library view, clearing any active search.
func (v *ViewState) EnterLibrary() {
	v.SearchTerm = ""
	v.Base = ViewLibrary
	v.lastNonSearch = ViewLibrary
}

// ApplyFilter replaces the filter dimensions. The overlay is active exactly
// when any dimension is non-empty; the base view is untouched.
func (v *ViewState) ApplyFilter(f FilterState) {
	v.Filter = f
	v.FilterActive = f.Active()
}

// ClearFilter deactivates the overlay and resets all dimensions.
func (v *ViewState) ClearFilter() {
	v.Filter = FilterState{}
	v.FilterActive = false
}

// EnterAddMode suspends the base-view axis and remembers the view to restore.
// Re-entering while already in add mode is a no-op.
func (v *ViewState) EnterAddMode() {
	if v.AddMode {
		return
	}
	v.AddMode = true
	v.returnView = v.Base
}

// ExitAddMode restores the remembered base view. The filter overlay is left
// untouched. Used for both cancel and completion.
func (v *ViewState) ExitAddMode() {
	if !v.AddMode {
		return
	}
	v.AddMode = false
	v.Base = v.returnView
}
