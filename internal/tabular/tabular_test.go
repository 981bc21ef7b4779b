package tabular

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfmarkapp/shelfmark-server/internal/domain"
)

func sampleRecord() domain.Record {
	rating := 4.5
	return domain.Record{
		ID:           "9780441013593",
		ISBN:         "9780441013593",
		Title:        "Dune",
		Authors:      domain.StringList{"Ada Lovelace", "Charles Babbage"},
		Publisher:    "Ace",
		PublishYear:  "1965",
		Synopsis:     `He said, "hello"`,
		Pages:        412,
		Genres:       domain.StringList{"sci-fi"},
		Series:       "Dune Chronicles",
		SeriesNumber: "1",
		Status:       domain.StatusFinished,
		Reader:       "sam",
		Rating:       &rating,
		Review:       "Lines\nof praise",
		Tags:         domain.StringList{"desert", "politics"},
		CreatedAt:    time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		FinishedAt:   time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestExport_HeaderAndLineEndings(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, nil))

	out := buf.String()
	assert.Equal(t, strings.Join(Schema(), ",")+"\r\n", out)
}

func TestExport_ListFlattening(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, []domain.Record{sampleRecord()}))

	assert.Contains(t, buf.String(), "Ada Lovelace; Charles Babbage")
}

func TestExport_EscapingRule(t *testing.T) {
	assert.Equal(t, `plain`, escapeField(`plain`))
	assert.Equal(t, `"a,b"`, escapeField(`a,b`))
	assert.Equal(t, `"He said, ""hello"""`, escapeField(`He said, "hello"`))
	assert.Equal(t, "\"two\nlines\"", escapeField("two\nlines"))
	// A joined list with no special characters stays unquoted.
	assert.Equal(t, `a; b`, escapeField(`a; b`))
}

func TestRoundTrip(t *testing.T) {
	want := sampleRecord()

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, []domain.Record{want}))

	result, err := Import(&buf)
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Empty(t, result.Skipped)
	assert.True(t, strings.HasPrefix(result.JobID, "imp-"))

	got := result.Records[0]
	assert.Equal(t, want, got)
	assert.Equal(t, `He said, "hello"`, got.Synopsis)
	assert.Equal(t, "Lines\nof praise", got.Review)
	assert.Equal(t, domain.StringList{"Ada Lovelace", "Charles Babbage"}, got.Authors)
}

func TestRoundTrip_NormalizesCRLFInFields(t *testing.T) {
	rec := sampleRecord()
	rec.Review = "line one\r\nline two"

	var first bytes.Buffer
	require.NoError(t, Export(&first, []domain.Record{rec}))

	result, err := Import(bytes.NewReader(first.Bytes()))
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "line one\nline two", result.Records[0].Review)

	// A second cycle is a fixed point.
	var second bytes.Buffer
	require.NoError(t, Export(&second, result.Records))
	assert.Equal(t, first.String(), second.String())
}

func TestImport_SkipsDuplicateIdentities(t *testing.T) {
	row := make([]string, len(Schema()))
	row[1] = "9780441013593"
	row[2] = "Dune"
	row[12] = "finished"
	row[21] = "2024-01-01T00:00:00Z"

	var buf bytes.Buffer
	buf.WriteString(strings.Join(Schema(), ",") + "\r\n")
	buf.WriteString(strings.Join(row, ",") + "\r\n")
	buf.WriteString(strings.Join(row, ",") + "\r\n")

	result, err := Import(&buf)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	require.Len(t, result.Records, 1)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, 3, result.Skipped[0].Line)
	assert.Contains(t, result.Skipped[0].Message, "duplicate identity")
}

func TestImport_EmptyFileFails(t *testing.T) {
	_, err := Import(strings.NewReader(""))
	assert.Error(t, err)
}

func TestImport_WrongHeaderFails(t *testing.T) {
	_, err := Import(strings.NewReader("title,author\r\nDune,Herbert\r\n"))
	assert.Error(t, err)
}

func TestImport_ColumnMismatchSkipsRow(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, []domain.Record{sampleRecord()}))
	buf.WriteString("short,row\r\n")

	result, err := Import(&buf)
	require.NoError(t, err)
	assert.Len(t, result.Records, 1)
	require.Len(t, result.Skipped, 1)
	assert.Contains(t, result.Skipped[0].Message, "columns")
}

func TestImport_LenientNumerics(t *testing.T) {
	row := make([]string, len(Schema()))
	row[0] = "rec-x"
	row[2] = "Broken Numbers"
	row[7] = "many"     // pages
	row[12] = "reading" // status
	row[14] = "lots"    // rating
	row[21] = "2024-01-01T00:00:00Z"

	var buf bytes.Buffer
	buf.WriteString(strings.Join(Schema(), ",") + "\r\n")
	buf.WriteString(strings.Join(row, ",") + "\r\n")

	result, err := Import(&buf)
	require.NoError(t, err)
	require.Len(t, result.Records, 1)

	got := result.Records[0]
	assert.Zero(t, got.Pages)
	assert.Nil(t, got.Rating)
}

func TestImport_SynthesizesMissingIdentity(t *testing.T) {
	row := make([]string, len(Schema()))
	row[2] = "No Identity"
	row[12] = "reading"
	row[21] = "2024-01-01T00:00:00Z"

	var buf bytes.Buffer
	buf.WriteString(strings.Join(Schema(), ",") + "\r\n")
	buf.WriteString(strings.Join(row, ",") + "\r\n")

	result, err := Import(&buf)
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.True(t, strings.HasPrefix(result.Records[0].ID, "rec-no-identity-"))
}

func TestImport_ISBNBecomesIdentity(t *testing.T) {
	row := make([]string, len(Schema()))
	row[1] = "9780441013593"
	row[2] = "Dune"
	row[12] = "finished"
	row[21] = "2024-01-01T00:00:00Z"

	var buf bytes.Buffer
	buf.WriteString(strings.Join(Schema(), ",") + "\r\n")
	buf.WriteString(strings.Join(row, ",") + "\r\n")

	result, err := Import(&buf)
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "9780441013593", result.Records[0].ID)
}

func TestSeriesNames_UnionOfEffectiveTitles(t *testing.T) {
	a := sampleRecord()
	b := sampleRecord()
	b.ID = "other"
	b.SeriesOverride = "Dune Saga"
	c := sampleRecord()
	c.ID = "third"
	c.Series = ""

	names := SeriesNames([]domain.Record{a, b, c})
	assert.ElementsMatch(t, []string{"Dune Chronicles", "Dune Saga"}, names)
}
