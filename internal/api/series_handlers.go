package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerSeriesRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listSeriesNames",
		Method:      http.MethodGet,
		Path:        "/api/v1/series",
		Summary:     "List known series names",
		Description: "Returns the series-name registry used for autocomplete",
		Tags:        []string{"Series"},
	}, s.handleListSeriesNames)
}

// SeriesNamesResponse is the autocomplete registry.
type SeriesNamesResponse struct {
	Names []string `json:"names" doc:"Known series titles, sorted"`
	Total int      `json:"total" doc:"Number of known series"`
}

// SeriesNamesOutput is the Huma output wrapper for the registry.
type SeriesNamesOutput struct {
	Body SeriesNamesResponse
}

func (s *Server) handleListSeriesNames(ctx context.Context, _ *struct{}) (*SeriesNamesOutput, error) {
	names := s.catalog.SeriesNames()
	return &SeriesNamesOutput{
		Body: SeriesNamesResponse{Names: names, Total: len(names)},
	}, nil
}
