package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfmarkapp/shelfmark-server/internal/domain"
	"github.com/shelfmarkapp/shelfmark-server/internal/metadata"
)

func (s *Server) registerLookupRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "lookupISBN",
		Method:      http.MethodGet,
		Path:        "/api/v1/lookup/{isbn}",
		Summary:     "Look up bibliographic data by ISBN",
		Description: "Returns provider data plus a series guess inferred from the title; nothing is added to the catalog",
		Tags:        []string{"Lookup"},
	}, s.handleLookupISBN)
}

// LookupInput is the Huma input for an ISBN lookup.
type LookupInput struct {
	ISBN string `path:"isbn" doc:"ISBN-10 or ISBN-13, hyphens allowed"`
}

// LookupResponse carries the prefill data for the add form.
type LookupResponse struct {
	Record      domain.Record         `json:"record" doc:"Partially populated bibliographic record"`
	SeriesGuess *metadata.SeriesGuess `json:"series_guess,omitempty" doc:"Series inferred from the title, if any"`
}

// LookupOutput is the Huma output wrapper for a lookup.
type LookupOutput struct {
	Body LookupResponse
}

func (s *Server) handleLookupISBN(ctx context.Context, input *LookupInput) (*LookupOutput, error) {
	rec, guess, err := s.catalog.LookupISBN(ctx, input.ISBN)
	if err != nil {
		return nil, err
	}
	return &LookupOutput{
		Body: LookupResponse{Record: *rec, SeriesGuess: guess},
	}, nil
}
