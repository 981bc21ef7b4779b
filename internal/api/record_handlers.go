package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfmarkapp/shelfmark-server/internal/domain"
	"github.com/shelfmarkapp/shelfmark-server/internal/service"
)

func (s *Server) registerRecordRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listRecords",
		Method:      http.MethodGet,
		Path:        "/api/v1/records",
		Summary:     "List visible records",
		Description: "Returns the records visible under the current view, filter, and sort",
		Tags:        []string{"Records"},
	}, s.handleListRecords)

	huma.Register(s.api, huma.Operation{
		OperationID: "createRecord",
		Method:      http.MethodPost,
		Path:        "/api/v1/records",
		Summary:     "Add a record",
		Tags:        []string{"Records"},
	}, s.handleCreateRecord)

	huma.Register(s.api, huma.Operation{
		OperationID: "getRecord",
		Method:      http.MethodGet,
		Path:        "/api/v1/records/{id}",
		Summary:     "Get a record",
		Tags:        []string{"Records"},
	}, s.handleGetRecord)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateRecord",
		Method:      http.MethodPut,
		Path:        "/api/v1/records/{id}",
		Summary:     "Update a record",
		Description: "Replaces the writable fields; identity and creation time are preserved",
		Tags:        []string{"Records"},
	}, s.handleUpdateRecord)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteRecord",
		Method:      http.MethodDelete,
		Path:        "/api/v1/records/{id}",
		Summary:     "Delete a record",
		Tags:        []string{"Records"},
	}, s.handleDeleteRecord)

	huma.Register(s.api, huma.Operation{
		OperationID: "rateRecord",
		Method:      http.MethodPut,
		Path:        "/api/v1/records/{id}/rating",
		Summary:     "Set or clear a record's rating",
		Tags:        []string{"Records"},
	}, s.handleRateRecord)

	huma.Register(s.api, huma.Operation{
		OperationID: "setRecordStatus",
		Method:      http.MethodPut,
		Path:        "/api/v1/records/{id}/status",
		Summary:     "Change a record's reading status",
		Tags:        []string{"Records"},
	}, s.handleSetRecordStatus)
}

// === DTOs ===

// RecordResponse is the API shape of a record, bibliographic and user fields
// plus the derived effective values.
type RecordResponse struct {
	domain.Record

	EffectiveSeries       string `json:"effective_series,omitempty" doc:"Series title after override"`
	EffectiveSeriesNumber string `json:"effective_series_number,omitempty" doc:"Series number after override"`
	EffectivePages        int    `json:"effective_pages,omitempty" doc:"Page count after override"`
	EffectiveCover        string `json:"effective_cover" doc:"Cover URL after override, placeholder when none"`
}

func recordResponse(rec *domain.Record) RecordResponse {
	return RecordResponse{
		Record:                *rec,
		EffectiveSeries:       rec.EffectiveSeries(),
		EffectiveSeriesNumber: rec.EffectiveSeriesNumber(),
		EffectivePages:        rec.EffectivePages(),
		EffectiveCover:        rec.EffectiveCover(),
	}
}

// ListRecordsResponse is the visible subset plus the reason it is empty.
type ListRecordsResponse struct {
	Records     []RecordResponse `json:"records" doc:"Visible records in display order"`
	Total       int              `json:"total" doc:"Number of visible records"`
	EmptyReason string           `json:"empty_reason,omitempty" doc:"Why the result is empty: filter, search, wishlist, or collection"`
}

// ListRecordsOutput is the Huma output wrapper for listing records.
type ListRecordsOutput struct {
	Body ListRecordsResponse
}

// CreateRecordInput is the Huma input for creating a record.
type CreateRecordInput struct {
	Body service.RecordInput
}

// RecordOutput is the Huma output wrapper for a single record.
type RecordOutput struct {
	Body RecordResponse
}

// RecordIDInput is the Huma input for operations addressing one record.
type RecordIDInput struct {
	ID string `path:"id" doc:"Record identity"`
}

// UpdateRecordInput is the Huma input for updating a record.
type UpdateRecordInput struct {
	ID   string `path:"id" doc:"Record identity"`
	Body service.RecordInput
}

// RateRecordRequest carries the committed rating. Null clears it.
type RateRecordRequest struct {
	Rating *float64 `json:"rating" doc:"Half-star rating in [0, 5], null to clear"`
}

// RateRecordInput is the Huma input for rating a record.
type RateRecordInput struct {
	ID   string `path:"id" doc:"Record identity"`
	Body RateRecordRequest
}

// SetStatusRequest carries the new reading status.
type SetStatusRequest struct {
	Status string `json:"status" enum:"wishlist,reading,unfinished,finished" doc:"New reading status"`
}

// SetStatusInput is the Huma input for changing a record's status.
type SetStatusInput struct {
	ID   string `path:"id" doc:"Record identity"`
	Body SetStatusRequest
}

// === Handlers ===

func (s *Server) handleListRecords(ctx context.Context, _ *struct{}) (*ListRecordsOutput, error) {
	visible, reason := s.catalog.Visible()

	records := make([]RecordResponse, len(visible))
	for i := range visible {
		records[i] = recordResponse(&visible[i])
	}

	return &ListRecordsOutput{
		Body: ListRecordsResponse{
			Records:     records,
			Total:       len(records),
			EmptyReason: string(reason),
		},
	}, nil
}

func (s *Server) handleCreateRecord(ctx context.Context, input *CreateRecordInput) (*RecordOutput, error) {
	rec, err := s.catalog.Add(ctx, &input.Body)
	if err != nil {
		return nil, err
	}
	return &RecordOutput{Body: recordResponse(rec)}, nil
}

func (s *Server) handleGetRecord(ctx context.Context, input *RecordIDInput) (*RecordOutput, error) {
	rec, err := s.catalog.Get(input.ID)
	if err != nil {
		return nil, err
	}
	return &RecordOutput{Body: recordResponse(rec)}, nil
}

func (s *Server) handleUpdateRecord(ctx context.Context, input *UpdateRecordInput) (*RecordOutput, error) {
	rec, err := s.catalog.Update(ctx, input.ID, &input.Body)
	if err != nil {
		return nil, err
	}
	return &RecordOutput{Body: recordResponse(rec)}, nil
}

func (s *Server) handleDeleteRecord(ctx context.Context, input *RecordIDInput) (*struct{}, error) {
	if err := s.catalog.Delete(ctx, input.ID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

func (s *Server) handleRateRecord(ctx context.Context, input *RateRecordInput) (*RecordOutput, error) {
	rec, err := s.catalog.Rate(ctx, input.ID, input.Body.Rating)
	if err != nil {
		return nil, err
	}
	return &RecordOutput{Body: recordResponse(rec)}, nil
}

func (s *Server) handleSetRecordStatus(ctx context.Context, input *SetStatusInput) (*RecordOutput, error) {
	rec, err := s.catalog.SetStatus(ctx, input.ID, domain.Status(input.Body.Status))
	if err != nil {
		return nil, err
	}
	return &RecordOutput{Body: recordResponse(rec)}, nil
}
