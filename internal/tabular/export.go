// Package tabular implements the CSV interchange format for the catalog:
// a fixed column schema covering every persisted record field, quote-on-demand
// escaping, and "; "-joined list cells.
package tabular

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shelfmarkapp/shelfmark-server/internal/domain"
)

// listSeparator joins list-valued cells. Flattening happens before CSV
// escaping; the joined string is escaped like any other field.
const listSeparator = "; "

// Schema is the fixed, ordered column layout. Derived fields are never
// exported; they are recomputed from these columns.
func Schema() []string {
	return []string{
		"id",
		"isbn",
		"title",
		"authors",
		"publisher",
		"publish_year",
		"synopsis",
		"pages",
		"genres",
		"series",
		"series_number",
		"cover_url",
		"status",
		"reader",
		"rating",
		"review",
		"tags",
		"series_override",
		"series_number_override",
		"pages_override",
		"cover_override",
		"created_at",
		"finished_at",
	}
}

// Export writes the collection as CSV: header row first, CRLF line endings,
// UTF-8 text.
func Export(w io.Writer, records []domain.Record) error {
	if err := writeRow(w, Schema()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i := range records {
		if err := writeRow(w, recordRow(&records[i])); err != nil {
			return fmt.Errorf("write record %s: %w", records[i].ID, err)
		}
	}
	return nil
}

// recordRow flattens a record into schema order.
func recordRow(rec *domain.Record) []string {
	return []string{
		rec.ID,
		rec.ISBN,
		rec.Title,
		joinList(rec.Authors),
		rec.Publisher,
		rec.PublishYear,
		rec.Synopsis,
		formatInt(rec.Pages),
		joinList(rec.Genres),
		rec.Series,
		rec.SeriesNumber,
		rec.CoverURL,
		string(rec.Status),
		rec.Reader,
		formatRating(rec.Rating),
		rec.Review,
		joinList(rec.Tags),
		rec.SeriesOverride,
		rec.SeriesNumberOverride,
		formatInt(rec.PagesOverride),
		rec.CoverOverride,
		formatTime(rec.CreatedAt),
		formatTime(rec.FinishedAt),
	}
}

func writeRow(w io.Writer, fields []string) error {
	for i, field := range fields {
		if i > 0 {
			if _, err := io.WriteString(w, ","); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, escapeField(field)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\r\n")
	return err
}

// escapeField wraps a field in quotes, doubling internal quotes, if and only
// if it contains a comma, a quote, or a newline. CRLF pairs inside a field
// are normalized to LF, like the date columns are normalized to UTC, so a
// quoted cell re-imports byte for byte.
func escapeField(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func joinList(values domain.StringList) string {
	return strings.Join(values, listSeparator)
}

func formatInt(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func formatRating(r *float64) string {
	if r == nil {
		return ""
	}
	return strconv.FormatFloat(*r, 'f', -1, 64)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
