package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfmarkapp/shelfmark-server/internal/catalog"
	"github.com/shelfmarkapp/shelfmark-server/internal/domain"
)

func (s *Server) registerViewRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getView",
		Method:      http.MethodGet,
		Path:        "/api/v1/view",
		Summary:     "Get the current view state",
		Tags:        []string{"View"},
	}, s.handleGetView)

	huma.Register(s.api, huma.Operation{
		OperationID: "submitSearch",
		Method:      http.MethodPost,
		Path:        "/api/v1/view/search",
		Summary:     "Enter the search view",
		Description: "Activates search for a non-empty term and resets the filter overlay",
		Tags:        []string{"View"},
	}, s.handleSubmitSearch)

	huma.Register(s.api, huma.Operation{
		OperationID: "clearSearch",
		Method:      http.MethodDelete,
		Path:        "/api/v1/view/search",
		Summary:     "Leave the search view",
		Tags:        []string{"View"},
	}, s.handleClearSearch)

	huma.Register(s.api, huma.Operation{
		OperationID: "enterWishlist",
		Method:      http.MethodPost,
		Path:        "/api/v1/view/wishlist",
		Summary:     "Switch to the wishlist view",
		Tags:        []string{"View"},
	}, s.handleEnterWishlist)

	huma.Register(s.api, huma.Operation{
		OperationID: "enterLibrary",
		Method:      http.MethodPost,
		Path:        "/api/v1/view/library",
		Summary:     "Switch to the library view",
		Tags:        []string{"View"},
	}, s.handleEnterLibrary)

	huma.Register(s.api, huma.Operation{
		OperationID: "applyFilter",
		Method:      http.MethodPut,
		Path:        "/api/v1/view/filter",
		Summary:     "Apply the filter overlay",
		Tags:        []string{"View"},
	}, s.handleApplyFilter)

	huma.Register(s.api, huma.Operation{
		OperationID: "clearFilter",
		Method:      http.MethodDelete,
		Path:        "/api/v1/view/filter",
		Summary:     "Clear the filter overlay",
		Tags:        []string{"View"},
	}, s.handleClearFilter)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSort",
		Method:      http.MethodGet,
		Path:        "/api/v1/view/sort",
		Summary:     "Get the active sort",
		Tags:        []string{"View"},
	}, s.handleGetSort)

	huma.Register(s.api, huma.Operation{
		OperationID: "setSort",
		Method:      http.MethodPut,
		Path:        "/api/v1/view/sort",
		Summary:     "Set the active sort",
		Tags:        []string{"View"},
	}, s.handleSetSort)

	huma.Register(s.api, huma.Operation{
		OperationID: "enterAddMode",
		Method:      http.MethodPost,
		Path:        "/api/v1/view/add-mode",
		Summary:     "Enter add/edit mode",
		Tags:        []string{"View"},
	}, s.handleEnterAddMode)

	huma.Register(s.api, huma.Operation{
		OperationID: "exitAddMode",
		Method:      http.MethodDelete,
		Path:        "/api/v1/view/add-mode",
		Summary:     "Exit add/edit mode",
		Description: "Restores the view that was active before entering, keeping the filter overlay",
		Tags:        []string{"View"},
	}, s.handleExitAddMode)
}

// === DTOs ===

// ViewOutput is the Huma output wrapper for the view state.
type ViewOutput struct {
	Body domain.ViewState
}

// SearchRequest carries the search term.
type SearchRequest struct {
	Term string `json:"term" doc:"Search term; empty terms are ignored"`
}

// SearchInput is the Huma input for entering search.
type SearchInput struct {
	Body SearchRequest
}

// FilterInput is the Huma input for applying the filter overlay.
type FilterInput struct {
	Body domain.FilterState
}

// SortOutput is the Huma output wrapper for the active sort.
type SortOutput struct {
	Body catalog.Sort
}

// SortInput is the Huma input for setting the sort.
type SortInput struct {
	Body catalog.Sort
}

// === Handlers ===

func (s *Server) viewOutput() (*ViewOutput, error) {
	return &ViewOutput{Body: s.catalog.View()}, nil
}

func (s *Server) handleGetView(ctx context.Context, _ *struct{}) (*ViewOutput, error) {
	return s.viewOutput()
}

func (s *Server) handleSubmitSearch(ctx context.Context, input *SearchInput) (*ViewOutput, error) {
	s.catalog.Search(input.Body.Term)
	return s.viewOutput()
}

func (s *Server) handleClearSearch(ctx context.Context, _ *struct{}) (*ViewOutput, error) {
	s.catalog.ClearSearch()
	return s.viewOutput()
}

func (s *Server) handleEnterWishlist(ctx context.Context, _ *struct{}) (*ViewOutput, error) {
	s.catalog.ShowWishlist()
	return s.viewOutput()
}

func (s *Server) handleEnterLibrary(ctx context.Context, _ *struct{}) (*ViewOutput, error) {
	s.catalog.ShowLibrary()
	return s.viewOutput()
}

func (s *Server) handleApplyFilter(ctx context.Context, input *FilterInput) (*ViewOutput, error) {
	if err := s.catalog.SetFilter(input.Body); err != nil {
		return nil, err
	}
	return s.viewOutput()
}

func (s *Server) handleClearFilter(ctx context.Context, _ *struct{}) (*ViewOutput, error) {
	s.catalog.ClearFilter()
	return s.viewOutput()
}

func (s *Server) handleGetSort(ctx context.Context, _ *struct{}) (*SortOutput, error) {
	return &SortOutput{Body: s.catalog.Sort()}, nil
}

func (s *Server) handleSetSort(ctx context.Context, input *SortInput) (*SortOutput, error) {
	s.catalog.SetSort(input.Body)
	return &SortOutput{Body: s.catalog.Sort()}, nil
}

func (s *Server) handleEnterAddMode(ctx context.Context, _ *struct{}) (*ViewOutput, error) {
	s.catalog.EnterAddMode()
	return s.viewOutput()
}

func (s *Server) handleExitAddMode(ctx context.Context, _ *struct{}) (*ViewOutput, error) {
	s.catalog.ExitAddMode()
	return s.viewOutput()
}
