package store

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/shelfmarkapp/shelfmark-server/internal/domain"
)

// Storage keys. The collection and each side-table live under their own key;
// every write is a full overwrite of that key's blob.
const (
	keyRecords     = "catalog:records"
	keySeriesNames = "catalog:series"
	keyPrefLayout  = "pref:layout"
	keyPrefTheme   = "pref:theme"
)

// Preference defaults.
const (
	DefaultLayout = "grid"
	DefaultTheme  = "light"
)

// LoadCatalog reads the full record collection. Missing data yields an empty
// collection; malformed data is logged and also yields an empty collection so
// startup never fails on a bad blob. Every entry passes through the record
// normalizer so partially-shaped legacy entries receive field defaults.
func (s *Store) LoadCatalog(ctx context.Context) ([]domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var records []domain.Record
	err := s.get([]byte(keyRecords), &records)
	if isNotFound(err) {
		return []domain.Record{}, nil
	}
	if err != nil {
		if s.logger != nil {
			s.logger.LogAttrs(ctx, slog.LevelError, "catalog blob unreadable, starting empty",
				slog.String("error", err.Error()),
			)
		}
		return []domain.Record{}, nil
	}

	for i := range records {
		records[i].Normalize()
	}
	return records, nil
}

// SaveCatalog serializes the entire collection as one blob, full overwrite.
// On failure the previously persisted blob is left as-is; the caller keeps
// its in-memory state, which may then diverge from disk until the next
// successful save.
func (s *Store) SaveCatalog(ctx context.Context, records []domain.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.set([]byte(keyRecords), records); err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}

	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelDebug, "catalog saved",
			slog.Int("records", len(records)),
		)
	}
	return nil
}

// LoadSeriesNames reads the series-name registry. Missing or malformed data
// yields an empty registry.
func (s *Store) LoadSeriesNames(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var names []string
	err := s.get([]byte(keySeriesNames), &names)
	if isNotFound(err) {
		return []string{}, nil
	}
	if err != nil {
		if s.logger != nil {
			s.logger.LogAttrs(ctx, slog.LevelError, "series registry unreadable, starting empty",
				slog.String("error", err.Error()),
			)
		}
		return []string{}, nil
	}
	return names, nil
}

// SaveSeriesNames persists the registry: deduplicated, empty entries dropped,
// sorted for stable autocomplete ordering.
func (s *Store) SaveSeriesNames(ctx context.Context, names []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	seen := make(map[string]bool, len(names))
	cleaned := make([]string, 0, len(names))
	for _, name := range names {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		cleaned = append(cleaned, name)
	}
	sort.Strings(cleaned)

	if err := s.set([]byte(keySeriesNames), cleaned); err != nil {
		return fmt.Errorf("save series names: %w", err)
	}
	return nil
}

// GetLayout returns the active display layout preference.
func (s *Store) GetLayout(ctx context.Context) (string, error) {
	return s.getPref(ctx, keyPrefLayout, DefaultLayout)
}

// SetLayout stores the display layout preference.
func (s *Store) SetLayout(ctx context.Context, layout string) error {
	return s.setPref(ctx, keyPrefLayout, layout)
}

// GetTheme returns the theme preference.
func (s *Store) GetTheme(ctx context.Context) (string, error) {
	return s.getPref(ctx, keyPrefTheme, DefaultTheme)
}

// SetTheme stores the theme preference.
func (s *Store) SetTheme(ctx context.Context, theme string) error {
	return s.setPref(ctx, keyPrefTheme, theme)
}

// getPref reads a scalar preference with default-on-absence behavior.
func (s *Store) getPref(ctx context.Context, key, fallback string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var value string
	err := s.get([]byte(key), &value)
	if isNotFound(err) {
		return fallback, nil
	}
	if err != nil {
		return "", fmt.Errorf("get preference %s: %w", key, err)
	}
	if value == "" {
		return fallback, nil
	}
	return value, nil
}

func (s *Store) setPref(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.set([]byte(key), value); err != nil {
		return fmt.Errorf("set preference %s: %w", key, err)
	}
	return nil
}
