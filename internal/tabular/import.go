package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shelfmarkapp/shelfmark-server/internal/domain"
	"github.com/shelfmarkapp/shelfmark-server/internal/errors"
	"github.com/shelfmarkapp/shelfmark-server/internal/id"
)

// RowWarning records a skipped row during import.
type RowWarning struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// Result is the outcome of a successful parse. JobID correlates log lines
// and API responses for one import run.
type Result struct {
	JobID    string          `json:"job_id"`
	Records  []domain.Record `json:"-"`
	Imported int             `json:"imported"`
	Skipped  []RowWarning    `json:"skipped,omitempty"`
}

// Import parses a CSV export back into records. Quoted fields are honored
// (doubled-quote unescape, commas and newlines preserved inside quotes);
// list cells are split on "; "; numeric fields parse leniently with invalid
// input coerced to absent. A row whose column count does not match the
// header, or whose identity repeats an earlier row's, is skipped with a
// warning. An empty or unparsable file fails the whole import and leaves the
// caller's collection untouched.
//
// Replacing the collection with the result is the caller's decision; this
// function only parses.
func Import(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1 // column counts are checked per row below

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.ImportFailed("file is empty")
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeImportFailed, "unreadable header row")
	}
	if !headerMatches(header) {
		return nil, errors.ImportFailedf("header does not match the expected %d-column schema", len(Schema()))
	}

	jobID, err := id.Generate("imp")
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeImportFailed, "generate job id")
	}

	result := &Result{JobID: jobID}
	columns := len(Schema())
	seen := make(map[string]bool)
	line := 1

	for {
		line++
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, errors.CodeImportFailed, "unparsable row at line %d", line)
		}

		if len(row) != columns {
			result.Skipped = append(result.Skipped, RowWarning{
				Line:    line,
				Message: fmt.Sprintf("expected %d columns, got %d", columns, len(row)),
			})
			continue
		}

		rec := rowRecord(row)
		rec.Normalize()
		ensureIdentity(&rec)

		// Identities must be unique within the collection.
		if seen[rec.ID] {
			result.Skipped = append(result.Skipped, RowWarning{
				Line:    line,
				Message: fmt.Sprintf("duplicate identity %s", rec.ID),
			})
			continue
		}
		seen[rec.ID] = true
		result.Records = append(result.Records, rec)
	}

	result.Imported = len(result.Records)
	return result, nil
}

// SeriesNames returns the union of effective series titles in a collection,
// used to rebuild the registry after a replace-import.
func SeriesNames(records []domain.Record) []string {
	seen := make(map[string]bool)
	var names []string
	for i := range records {
		name := records[i].EffectiveSeries()
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

func headerMatches(header []string) bool {
	schema := Schema()
	if len(header) != len(schema) {
		return false
	}
	for i, col := range schema {
		if strings.TrimSpace(header[i]) != col {
			return false
		}
	}
	return true
}

// rowRecord reconstructs a record from a schema-ordered row.
func rowRecord(row []string) domain.Record {
	return domain.Record{
		ID:                   row[0],
		ISBN:                 row[1],
		Title:                row[2],
		Authors:              splitList(row[3]),
		Publisher:            row[4],
		PublishYear:          row[5],
		Synopsis:             row[6],
		Pages:                parseInt(row[7]),
		Genres:               splitList(row[8]),
		Series:               row[9],
		SeriesNumber:         row[10],
		CoverURL:             row[11],
		Status:               domain.ParseStatus(row[12]),
		Reader:               row[13],
		Rating:               parseRating(row[14]),
		Review:               row[15],
		Tags:                 splitList(row[16]),
		SeriesOverride:       row[17],
		SeriesNumberOverride: row[18],
		PagesOverride:        parseInt(row[19]),
		CoverOverride:        row[20],
		CreatedAt:            parseTime(row[21]),
		FinishedAt:           parseTime(row[22]),
	}
}

// ensureIdentity fills a missing ID: the ISBN when present, otherwise a key
// synthesized from title and creation timestamp.
func ensureIdentity(rec *domain.Record) {
	if rec.ID != "" {
		return
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if rec.ISBN != "" {
		rec.ID = rec.ISBN
		return
	}
	rec.ID = id.RecordKey(rec.Title, rec.CreatedAt)
}

func splitList(cell string) domain.StringList {
	if cell == "" {
		return nil
	}
	parts := strings.Split(cell, listSeparator)
	out := make(domain.StringList, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// parseInt coerces invalid numeric input to absent rather than erroring.
func parseInt(cell string) int {
	n, err := strconv.Atoi(strings.TrimSpace(cell))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func parseRating(cell string) *float64 {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseTime(cell string) time.Time {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, cell)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
