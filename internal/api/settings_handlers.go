package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerSettingsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getPreferences",
		Method:      http.MethodGet,
		Path:        "/api/v1/preferences",
		Summary:     "Get display preferences",
		Tags:        []string{"Preferences"},
	}, s.handleGetPreferences)

	huma.Register(s.api, huma.Operation{
		OperationID: "updatePreferences",
		Method:      http.MethodPut,
		Path:        "/api/v1/preferences",
		Summary:     "Update display preferences",
		Description: "Omitted fields keep their current value",
		Tags:        []string{"Preferences"},
	}, s.handleUpdatePreferences)
}

// PreferencesResponse holds the scalar display preferences.
type PreferencesResponse struct {
	Layout string `json:"layout" doc:"Display layout: grid or list"`
	Theme  string `json:"theme" doc:"Color theme: light or dark"`
}

// PreferencesOutput is the Huma output wrapper for preferences.
type PreferencesOutput struct {
	Body PreferencesResponse
}

// UpdatePreferencesRequest carries partial preference updates.
type UpdatePreferencesRequest struct {
	Layout *string `json:"layout,omitempty" enum:"grid,list" doc:"Display layout"`
	Theme  *string `json:"theme,omitempty" enum:"light,dark" doc:"Color theme"`
}

// UpdatePreferencesInput is the Huma input for updating preferences.
type UpdatePreferencesInput struct {
	Body UpdatePreferencesRequest
}

func (s *Server) preferencesOutput(ctx context.Context) (*PreferencesOutput, error) {
	layout, err := s.settings.Layout(ctx)
	if err != nil {
		return nil, err
	}
	theme, err := s.settings.Theme(ctx)
	if err != nil {
		return nil, err
	}
	return &PreferencesOutput{Body: PreferencesResponse{Layout: layout, Theme: theme}}, nil
}

func (s *Server) handleGetPreferences(ctx context.Context, _ *struct{}) (*PreferencesOutput, error) {
	return s.preferencesOutput(ctx)
}

func (s *Server) handleUpdatePreferences(ctx context.Context, input *UpdatePreferencesInput) (*PreferencesOutput, error) {
	if input.Body.Layout != nil {
		if err := s.settings.SetLayout(ctx, *input.Body.Layout); err != nil {
			return nil, err
		}
	}
	if input.Body.Theme != nil {
		if err := s.settings.SetTheme(ctx, *input.Body.Theme); err != nil {
			return nil, err
		}
	}
	return s.preferencesOutput(ctx)
}
