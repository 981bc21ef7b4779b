package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeISBN(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare", "9780441013593", "9780441013593"},
		{"hyphenated", "978-0-441-01359-3", "9780441013593"},
		{"spaced with prefix", "ISBN 0 441 01359 7", "0441013597"},
		{"check digit x", "043942089x", "043942089X"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeISBN(tt.in))
		})
	}
}

func TestValidISBN(t *testing.T) {
	assert.True(t, ValidISBN("9780441013593"))
	assert.True(t, ValidISBN("043942089X"))
	assert.False(t, ValidISBN("12345"))
	assert.False(t, ValidISBN(""))
}

func TestGuessSeries(t *testing.T) {
	tests := []struct {
		name   string
		title  string
		series string
		number string
		clean  string
	}{
		{
			name:   "parenthesized hash marker",
			title:  "The Fifth Season (The Broken Earth, #1)",
			series: "The Broken Earth",
			number: "1",
			clean:  "The Fifth Season",
		},
		{
			name:   "parenthesized book marker",
			title:  "Royal Assassin (Farseer Trilogy, Book 2)",
			series: "Farseer Trilogy",
			number: "2",
			clean:  "Royal Assassin",
		},
		{
			name:   "prefix colon marker",
			title:  "Discworld Book 3: Equal Rites",
			series: "Discworld",
			number: "3",
			clean:  "Equal Rites",
		},
		{
			name:   "dash hash marker",
			title:  "Equal Rites - Discworld #3",
			series: "Discworld",
			number: "3",
			clean:  "Equal Rites",
		},
		{
			name:   "fractional number",
			title:  "The Slow Regard of Silent Things (The Kingkiller Chronicle, #2.5)",
			series: "The Kingkiller Chronicle",
			number: "2.5",
			clean:  "The Slow Regard of Silent Things",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guess := GuessSeries(tt.title)
			require.NotNil(t, guess)
			assert.Equal(t, tt.series, guess.Series)
			assert.Equal(t, tt.number, guess.Number)
			assert.Equal(t, tt.clean, guess.Title)
		})
	}
}

func TestGuessSeries_NoMarker(t *testing.T) {
	assert.Nil(t, GuessSeries("Dune"))
	assert.Nil(t, GuessSeries("A Memory Called Empire"))
	// Plain parenthetical without a number is not a series marker.
	assert.Nil(t, GuessSeries("Emma (Penguin Classics)"))
	assert.Nil(t, GuessSeries(""))
}
