// Package service contains the application services that sit between the
// HTTP handlers and the store.
package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/shelfmarkapp/shelfmark-server/internal/catalog"
	"github.com/shelfmarkapp/shelfmark-server/internal/domain"
	"github.com/shelfmarkapp/shelfmark-server/internal/errors"
	"github.com/shelfmarkapp/shelfmark-server/internal/id"
	"github.com/shelfmarkapp/shelfmark-server/internal/metadata"
	"github.com/shelfmarkapp/shelfmark-server/internal/store"
	"github.com/shelfmarkapp/shelfmark-server/internal/tabular"
)

// CatalogService owns the in-memory collection snapshot, the view state, and
// the active sort. All reads and mutations go through it; every mutation
// persists the full collection and the visible set is recomputed from scratch
// on each read.
type CatalogService struct {
	mu       sync.RWMutex
	store    *store.Store
	lookup   metadata.Lookup
	validate *validator.Validate
	logger   *slog.Logger

	records     []domain.Record
	seriesNames []string
	view        *domain.ViewState
	sort        catalog.Sort
}

// NewCatalogService creates the service. lookup may be nil when external
// lookup is disabled.
func NewCatalogService(st *store.Store, lookup metadata.Lookup, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		store:    st,
		lookup:   lookup,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
		view:     domain.NewViewState(),
		sort:     catalog.DefaultSort(),
	}
}

// Load hydrates the snapshot from storage. Called once at startup; a missing
// or unreadable blob yields an empty collection rather than a failed boot.
func (s *CatalogService) Load(ctx context.Context) error {
	records, err := s.store.LoadCatalog(ctx)
	if err != nil {
		return err
	}
	names, err := s.store.LoadSeriesNames(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.records = records
	s.seriesNames = names
	s.mu.Unlock()

	s.logger.Info("catalog loaded",
		"records", len(records),
		"series_names", len(names),
	)
	return nil
}

// RecordInput carries the writable fields of a record for create and update.
//
// Status, rating, review, and the completion timestamp are carried over from
// the existing record when an update omits them. A nil review pointer means
// unchanged; an explicit empty string clears the review. Ratings are cleared
// through the dedicated rate operation, statuses through the status one.
type RecordInput struct {
	ISBN                 string    `json:"isbn,omitempty" validate:"omitempty,max=17"`
	Title                string    `json:"title" validate:"required,max=500"`
	Authors              []string  `json:"authors,omitempty" validate:"omitempty,dive,max=200"`
	Publisher            string    `json:"publisher,omitempty" validate:"omitempty,max=200"`
	PublishYear          string    `json:"publish_year,omitempty" validate:"omitempty,max=10"`
	Synopsis             string    `json:"synopsis,omitempty"`
	Pages                int       `json:"pages,omitempty" validate:"omitempty,min=0"`
	Genres               []string  `json:"genres,omitempty" validate:"omitempty,dive,max=100"`
	Series               string    `json:"series,omitempty" validate:"omitempty,max=200"`
	SeriesNumber         string    `json:"series_number,omitempty" validate:"omitempty,max=20"`
	CoverURL             string    `json:"cover_url,omitempty" validate:"omitempty,max=1000"`
	Status               string    `json:"status,omitempty" validate:"omitempty,oneof=wishlist reading unfinished finished"`
	Reader               string    `json:"reader,omitempty" validate:"omitempty,max=100"`
	Rating               *float64  `json:"rating,omitempty" validate:"omitempty,min=0,max=5"`
	Review               *string   `json:"review,omitempty"`
	Tags                 []string  `json:"tags,omitempty" validate:"omitempty,dive,max=100"`
	SeriesOverride       string    `json:"series_override,omitempty" validate:"omitempty,max=200"`
	SeriesNumberOverride string    `json:"series_number_override,omitempty" validate:"omitempty,max=20"`
	PagesOverride        int       `json:"pages_override,omitempty" validate:"omitempty,min=0"`
	CoverOverride        string    `json:"cover_override,omitempty" validate:"omitempty,max=1000"`
	FinishedAt           time.Time `json:"finished_at,omitzero"`
}

func (in *RecordInput) apply(rec *domain.Record) {
	rec.ISBN = metadata.SanitizeISBN(in.ISBN)
	rec.Title = in.Title
	rec.Authors = domain.StringList(in.Authors)
	rec.Publisher = in.Publisher
	rec.PublishYear = in.PublishYear
	rec.Synopsis = in.Synopsis
	rec.Pages = in.Pages
	rec.Genres = domain.StringList(in.Genres)
	rec.Series = in.Series
	rec.SeriesNumber = in.SeriesNumber
	rec.CoverURL = in.CoverURL
	if in.Status != "" {
		rec.Status = domain.ParseStatus(in.Status)
	}
	rec.Reader = in.Reader
	if in.Rating != nil {
		rec.Rating = in.Rating
	}
	if in.Review != nil {
		rec.Review = *in.Review
	}
	rec.Tags = domain.StringList(in.Tags)
	rec.SeriesOverride = in.SeriesOverride
	rec.SeriesNumberOverride = in.SeriesNumberOverride
	rec.PagesOverride = in.PagesOverride
	rec.CoverOverride = in.CoverOverride
	if !in.FinishedAt.IsZero() {
		rec.FinishedAt = in.FinishedAt
	}
}

// checkInput runs struct validation plus the rating grid rule.
func (s *CatalogService) checkInput(in *RecordInput) error {
	if err := s.validate.Struct(in); err != nil {
		return errors.ValidationWithDetails("invalid record input", err.Error())
	}
	if in.Rating != nil && !domain.ValidRating(*in.Rating) {
		return errors.Validation("rating must be a half-star value between 0 and 5")
	}
	return nil
}

// Add creates a record from the input. Identity is the sanitized ISBN when
// present, otherwise a key derived from title and creation time. Adding an
// identity that already exists is a conflict.
func (s *CatalogService) Add(ctx context.Context, in *RecordInput) (*domain.Record, error) {
	if err := s.checkInput(in); err != nil {
		return nil, err
	}

	rec := domain.Record{CreatedAt: time.Now().UTC()}
	in.apply(&rec)
	rec.Normalize()
	if rec.Title == "" {
		return nil, errors.Validation("title must not be blank")
	}

	if rec.ISBN != "" {
		rec.ID = rec.ISBN
	} else {
		rec.ID = id.RecordKey(rec.Title, rec.CreatedAt)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(rec.ID) >= 0 {
		return nil, errors.Conflict("a record with this identity already exists")
	}

	s.records = append(s.records, rec)
	s.registerSeries(rec.EffectiveSeries())
	s.persist(ctx)

	s.logger.Info("record added", "id", rec.ID, "title", rec.Title)
	return &rec, nil
}

// Update replaces the writable fields of an existing record. Identity and
// creation time are always preserved; status, rating, review, and the
// completion timestamp are preserved when the input omits them.
func (s *CatalogService) Update(ctx context.Context, recordID string, in *RecordInput) (*domain.Record, error) {
	if err := s.checkInput(in); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(recordID)
	if idx < 0 {
		return nil, errors.NotFoundf("record %s not found", recordID)
	}

	rec := s.records[idx]
	in.apply(&rec)
	rec.ID = recordID
	rec.CreatedAt = s.records[idx].CreatedAt
	rec.Normalize()
	if rec.Title == "" {
		return nil, errors.Validation("title must not be blank")
	}

	s.records[idx] = rec
	s.registerSeries(rec.EffectiveSeries())
	s.persist(ctx)

	s.logger.Info("record updated", "id", rec.ID)
	return &rec, nil
}

// Delete removes a record. Confirmation is the caller's responsibility; the
// removal itself is unconditional.
func (s *CatalogService) Delete(ctx context.Context, recordID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(recordID)
	if idx < 0 {
		return errors.NotFoundf("record %s not found", recordID)
	}

	s.records = append(s.records[:idx], s.records[idx+1:]...)
	s.persist(ctx)

	s.logger.Info("record deleted", "id", recordID)
	return nil
}

// Rate sets or clears a record's personal rating.
func (s *CatalogService) Rate(ctx context.Context, recordID string, rating *float64) (*domain.Record, error) {
	if rating != nil && !domain.ValidRating(*rating) {
		return nil, errors.Validation("rating must be a half-star value between 0 and 5")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(recordID)
	if idx < 0 {
		return nil, errors.NotFoundf("record %s not found", recordID)
	}

	s.records[idx].Rating = rating
	s.persist(ctx)

	rec := s.records[idx]
	return &rec, nil
}

// SetStatus moves a record to a new reading status. Leaving the finished
// status clears the completion timestamp; entering it stamps now unless a
// timestamp is already set.
func (s *CatalogService) SetStatus(ctx context.Context, recordID string, status domain.Status) (*domain.Record, error) {
	if !status.Valid() {
		return nil, errors.Validationf("unknown status %q", status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(recordID)
	if idx < 0 {
		return nil, errors.NotFoundf("record %s not found", recordID)
	}

	rec := &s.records[idx]
	rec.Status = status
	if status == domain.StatusFinished {
		if rec.FinishedAt.IsZero() {
			rec.FinishedAt = time.Now().UTC()
		}
	} else {
		rec.FinishedAt = time.Time{}
	}
	s.persist(ctx)

	out := *rec
	return &out, nil
}

// Get returns a single record by identity.
func (s *CatalogService) Get(recordID string) (*domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(recordID)
	if idx < 0 {
		return nil, errors.NotFoundf("record %s not found", recordID)
	}
	rec := s.records[idx]
	return &rec, nil
}

// Visible recomputes the displayed subset from the current snapshot, view
// state, and sort.
func (s *CatalogService) Visible() ([]domain.Record, catalog.EmptyReason) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return catalog.Compute(s.records, s.view, s.sort)
}

// All returns a copy of the full collection regardless of view.
func (s *CatalogService) All() []domain.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Record, len(s.records))
	copy(out, s.records)
	return out
}

// View returns the current view state by value.
func (s *CatalogService) View() domain.ViewState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return *s.view
}

// Sort returns the active sort.
func (s *CatalogService) Sort() catalog.Sort {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sort
}

// SetSort replaces the active sort.
func (s *CatalogService) SetSort(sort catalog.Sort) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sort.Field == "" {
		sort = catalog.DefaultSort()
	}
	s.sort = sort
}

// View transitions. Each delegates to the state machine; the next Visible
// call reflects the change.

func (s *CatalogService) Search(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.SubmitSearch(term)
}

func (s *CatalogService) ClearSearch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.ClearSearch()
}

func (s *CatalogService) ShowWishlist() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.EnterWishlist()
}

func (s *CatalogService) ShowLibrary() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.EnterLibrary()
}

func (s *CatalogService) SetFilter(f domain.FilterState) error {
	if f.RatingTarget != 0 && f.RatingTarget != -1 && !domain.ValidRating(f.RatingTarget) {
		return errors.Validation("rating filter target must be -1 or a half-star value")
	}
	for _, st := range f.Statuses {
		if !st.Valid() {
			return errors.Validationf("unknown status %q in filter", st)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.ApplyFilter(f)
	return nil
}

func (s *CatalogService) ClearFilter() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.ClearFilter()
}

func (s *CatalogService) EnterAddMode() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.EnterAddMode()
}

func (s *CatalogService) ExitAddMode() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.ExitAddMode()
}

// LookupISBN asks the configured provider for bibliographic data and attaches
// a series guess inferred from the returned title. The caller decides what to
// keep; nothing is added to the collection here.
func (s *CatalogService) LookupISBN(ctx context.Context, isbn string) (*domain.Record, *metadata.SeriesGuess, error) {
	if s.lookup == nil {
		return nil, nil, errors.Unavailable("metadata lookup is disabled")
	}

	rec, err := s.lookup.LookupISBN(ctx, isbn)
	if err != nil {
		return nil, nil, err
	}

	guess := metadata.GuessSeries(rec.Title)
	if guess != nil && rec.Series == "" {
		rec.Title = guess.Title
		rec.Series = guess.Series
		rec.SeriesNumber = guess.Number
	}
	return rec, guess, nil
}

// SeriesNames returns the autocomplete registry.
func (s *CatalogService) SeriesNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.seriesNames))
	copy(out, s.seriesNames)
	return out
}

// ImportCSV replaces the whole collection with the parsed file and rebuilds
// the series registry from it. confirm must be set; the handler surfaces the
// replace semantics to the user before calling. A parse failure leaves the
// current collection untouched.
func (s *CatalogService) ImportCSV(ctx context.Context, r io.Reader, confirm bool) (*tabular.Result, error) {
	if !confirm {
		return nil, errors.Validation("import replaces the current collection and requires confirmation")
	}

	result, err := tabular.Import(r)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = result.Records
	s.seriesNames = tabular.SeriesNames(result.Records)
	s.persist(ctx)

	s.logger.Info("catalog replaced by import",
		"job_id", result.JobID,
		"imported", result.Imported,
		"skipped", len(result.Skipped),
	)
	return result, nil
}

// ExportCSV streams the full collection in schema order.
func (s *CatalogService) ExportCSV(w io.Writer) error {
	s.mu.RLock()
	records := make([]domain.Record, len(s.records))
	copy(records, s.records)
	s.mu.RUnlock()

	return tabular.Export(w, records)
}

// indexOf returns the position of a record by identity, or -1. Callers hold
// the lock.
func (s *CatalogService) indexOf(recordID string) int {
	for i := range s.records {
		if s.records[i].ID == recordID {
			return i
		}
	}
	return -1
}

// registerSeries appends a series title to the registry if new. Callers hold
// the lock; the registry persists together with the catalog.
func (s *CatalogService) registerSeries(name string) {
	if name == "" {
		return
	}
	for _, existing := range s.seriesNames {
		if existing == name {
			return
		}
	}
	s.seriesNames = append(s.seriesNames, name)
}

// persist writes the snapshot and registry through to storage. A failure is
// logged and the in-memory state kept; disk catches up on the next successful
// save. Callers hold the lock.
func (s *CatalogService) persist(ctx context.Context) {
	if err := s.store.SaveCatalog(ctx, s.records); err != nil {
		s.logger.Error("catalog save failed, keeping in-memory state", "error", err)
		return
	}
	if err := s.store.SaveSeriesNames(ctx, s.seriesNames); err != nil {
		s.logger.Error("series registry save failed", "error", err)
	}
}
