package service

import (
	"context"
	"log/slog"

	"github.com/shelfmarkapp/shelfmark-server/internal/errors"
	"github.com/shelfmarkapp/shelfmark-server/internal/store"
)

// Allowed preference values.
var (
	validLayouts = map[string]bool{"grid": true, "list": true}
	validThemes  = map[string]bool{"light": true, "dark": true}
)

// SettingsService manages the scalar display preferences. They persist
// independently of the catalog blob.
type SettingsService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewSettingsService creates a new settings service.
func NewSettingsService(st *store.Store, logger *slog.Logger) *SettingsService {
	return &SettingsService{store: st, logger: logger}
}

// Layout returns the active display layout, defaulting when unset.
func (s *SettingsService) Layout(ctx context.Context) (string, error) {
	return s.store.GetLayout(ctx)
}

// SetLayout stores the display layout preference.
func (s *SettingsService) SetLayout(ctx context.Context, layout string) error {
	if !validLayouts[layout] {
		return errors.Validationf("unknown layout %q", layout)
	}
	if err := s.store.SetLayout(ctx, layout); err != nil {
		return err
	}
	s.logger.Debug("layout preference updated", "layout", layout)
	return nil
}

// Theme returns the active theme, defaulting when unset.
func (s *SettingsService) Theme(ctx context.Context) (string, error) {
	return s.store.GetTheme(ctx)
}

// SetTheme stores the theme preference.
func (s *SettingsService) SetTheme(ctx context.Context, theme string) error {
	if !validThemes[theme] {
		return errors.Validationf("unknown theme %q", theme)
	}
	if err := s.store.SetTheme(ctx, theme); err != nil {
		return err
	}
	s.logger.Debug("theme preference updated", "theme", theme)
	return nil
}
