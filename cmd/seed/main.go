// Package main provides a tool to seed the catalog with sample records.
//
// Useful for exercising views, filters, and sorting against realistic data
// without typing in a library by hand.
//
// Usage:
//
//	DATA_PATH=~/Shelfmark/data go run ./cmd/seed
//	DATA_PATH=~/Shelfmark/data go run ./cmd/seed --count 50
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/shelfmarkapp/shelfmark-server/internal/domain"
	"github.com/shelfmarkapp/shelfmark-server/internal/id"
	"github.com/shelfmarkapp/shelfmark-server/internal/store"
	"github.com/shelfmarkapp/shelfmark-server/internal/tabular"
)

var count = flag.Int("count", 25, "Number of sample records to generate")

var sampleTitles = []struct {
	title  string
	author string
	series string
	number string
	genre  string
	year   string
	pages  int
}{
	{"Dune", "Frank Herbert", "Dune Chronicles", "1", "sci-fi", "1965", 412},
	{"Dune Messiah", "Frank Herbert", "Dune Chronicles", "2", "sci-fi", "1969", 256},
	{"Hyperion", "Dan Simmons", "Hyperion Cantos", "1", "sci-fi", "1989", 482},
	{"The Fifth Season", "N. K. Jemisin", "The Broken Earth", "1", "fantasy", "2015", 468},
	{"The Obelisk Gate", "N. K. Jemisin", "The Broken Earth", "2", "fantasy", "2016", 410},
	{"A Memory Called Empire", "Arkady Martine", "Teixcalaan", "1", "sci-fi", "2019", 462},
	{"Piranesi", "Susanna Clarke", "", "", "fantasy", "2020", 245},
	{"The Dispossessed", "Ursula K. Le Guin", "Hainish Cycle", "6", "sci-fi", "1974", 341},
	{"Equal Rites", "Terry Pratchett", "Discworld", "3", "fantasy", "1987", 283},
	{"Small Gods", "Terry Pratchett", "Discworld", "13", "fantasy", "1992", 344},
}

var readers = []string{"sam", "alex", ""}

var statuses = []domain.Status{
	domain.StatusWishlist,
	domain.StatusReading,
	domain.StatusUnfinished,
	domain.StatusFinished,
	domain.StatusFinished,
}

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/Shelfmark/data")
	}
	dbPath := filepath.Join(dataPath, "db")

	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := store.New(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	existing, err := s.LoadCatalog(ctx)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}
	if len(existing) > 0 {
		log.Fatalf("Catalog already has %d records; refusing to seed over it", len(existing))
	}

	records := generate(*count)
	if err := s.SaveCatalog(ctx, records); err != nil {
		log.Fatalf("Failed to save catalog: %v", err)
	}
	if err := s.SaveSeriesNames(ctx, tabular.SeriesNames(records)); err != nil {
		log.Fatalf("Failed to save series names: %v", err)
	}

	fmt.Printf("Seeded %d records\n", len(records))
}

func generate(n int) []domain.Record {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	records := make([]domain.Record, 0, n)
	for i := 0; i < n; i++ {
		sample := sampleTitles[i%len(sampleTitles)]

		title := sample.title
		if i >= len(sampleTitles) {
			title = fmt.Sprintf("%s (copy %d)", sample.title, i/len(sampleTitles))
		}

		createdAt := time.Now().UTC().Add(-time.Duration(rng.Intn(365*24)) * time.Hour)
		rec := domain.Record{
			ID:           id.RecordKey(title, createdAt),
			Title:        title,
			Authors:      domain.StringList{sample.author},
			PublishYear:  sample.year,
			Pages:        sample.pages,
			Genres:       domain.StringList{sample.genre},
			Series:       sample.series,
			SeriesNumber: sample.number,
			Status:       statuses[rng.Intn(len(statuses))],
			Reader:       readers[rng.Intn(len(readers))],
			CreatedAt:    createdAt,
		}

		if rec.Status == domain.StatusFinished {
			rec.FinishedAt = createdAt.Add(time.Duration(rng.Intn(30*24)) * time.Hour)
			rating := float64(rng.Intn(8)+3) / 2 // 1.5 through 5.0
			rec.Rating = &rating
		}

		rec.Normalize()
		records = append(records, rec)
	}
	return records
}
