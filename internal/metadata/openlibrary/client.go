// Package openlibrary implements ISBN lookup against the Open Library
// Books API.
package openlibrary

import (
	"context"
	"fmt"
	"github.com/go-json-experiment/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shelfmarkapp/shelfmark-server/internal/domain"
	"github.com/shelfmarkapp/shelfmark-server/internal/errors"
	"github.com/shelfmarkapp/shelfmark-server/internal/metadata"
	"github.com/shelfmarkapp/shelfmark-server/internal/ratelimit"
)

const (
	DefaultBaseURL = "https://openlibrary.org"

	// One request per second with a small burst keeps us well inside the
	// published fair-use guidance.
	defaultRPS   = 1.0
	defaultBurst = 3

	defaultTimeout = 30 * time.Second
)

// Client is a rate-limited Open Library client.
type Client struct {
	http    *http.Client
	limiter *ratelimit.KeyedRateLimiter
	baseURL string
	logger  *slog.Logger
}

var _ metadata.Lookup = (*Client)(nil)

// New creates an Open Library client. An empty baseURL selects the public
// endpoint.
func New(baseURL string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http: &http.Client{
			Timeout: defaultTimeout,
		},
		limiter: ratelimit.New(defaultRPS, defaultBurst),
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// LookupISBN resolves an ISBN to a partial bibliographic record. User fields
// are left at their zero values for the caller to fill in.
func (c *Client) LookupISBN(ctx context.Context, isbn string) (*domain.Record, error) {
	isbn = metadata.SanitizeISBN(isbn)
	if !metadata.ValidISBN(isbn) {
		return nil, errors.Validationf("invalid ISBN %q", isbn)
	}

	body, err := c.doRequest(ctx, isbn)
	if err != nil {
		return nil, err
	}

	// The books endpoint returns a map keyed by bib key; an unknown ISBN
	// yields an empty object rather than a 404.
	var payload map[string]rawBook
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, errors.Wrap(err, errors.CodeUnavailable, "openlibrary: malformed response")
	}

	raw, ok := payload["ISBN:"+isbn]
	if !ok {
		return nil, errors.NotFoundf("no metadata found for ISBN %s", isbn)
	}

	rec := raw.record(isbn)
	rec.Normalize()
	return rec, nil
}

func (c *Client) doRequest(ctx context.Context, isbn string) ([]byte, error) {
	if err := c.limiter.Wait(ctx, c.baseURL); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	query := url.Values{}
	query.Set("bibkeys", "ISBN:"+isbn)
	query.Set("format", "json")
	query.Set("jscmd", "data")

	reqURL := c.baseURL + "/api/books?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Shelfmark/1.0")

	if c.logger != nil {
		c.logger.Debug("openlibrary request", "isbn", isbn)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnavailable, "openlibrary: request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnavailable, "openlibrary: read response")
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.NotFoundf("no metadata found for ISBN %s", isbn)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, errors.Unavailable("openlibrary: rate limited by server")
	case resp.StatusCode >= 500:
		return nil, errors.Unavailable(fmt.Sprintf("openlibrary: server error %d", resp.StatusCode))
	default:
		return nil, errors.Unavailable(fmt.Sprintf("openlibrary: unexpected status %d", resp.StatusCode))
	}
}

// Raw API response types.

type rawBook struct {
	Title         string       `json:"title"`
	Subtitle      string       `json:"subtitle"`
	Authors       []rawNamed   `json:"authors"`
	Publishers    []rawNamed   `json:"publishers"`
	PublishDate   string       `json:"publish_date"`
	NumberOfPages int          `json:"number_of_pages"`
	Subjects      []rawNamed   `json:"subjects"`
	Cover         *rawCover    `json:"cover"`
	Excerpts      []rawExcerpt `json:"excerpts"`
}

type rawNamed struct {
	Name string `json:"name"`
}

type rawCover struct {
	Small  string `json:"small"`
	Medium string `json:"medium"`
	Large  string `json:"large"`
}

type rawExcerpt struct {
	Text string `json:"text"`
}

func (b *rawBook) record(isbn string) *domain.Record {
	rec := &domain.Record{
		ID:          isbn,
		ISBN:        isbn,
		Title:       b.Title,
		Publisher:   firstName(b.Publishers),
		PublishYear: extractYear(b.PublishDate),
		Pages:       b.NumberOfPages,
		CoverURL:    b.coverURL(),
	}
	if b.Subtitle != "" {
		rec.Title = b.Title + ": " + b.Subtitle
	}
	for _, a := range b.Authors {
		if a.Name != "" {
			rec.Authors = append(rec.Authors, a.Name)
		}
	}
	// Subject lists run long; the first few make reasonable genres.
	for _, s := range b.Subjects {
		if s.Name == "" {
			continue
		}
		rec.Genres = append(rec.Genres, s.Name)
		if len(rec.Genres) == 5 {
			break
		}
	}
	if len(b.Excerpts) > 0 {
		rec.Synopsis = b.Excerpts[0].Text
	}
	return rec
}

// coverURL picks the best available cover, preferring larger sizes.
func (b *rawBook) coverURL() string {
	if b.Cover == nil {
		return ""
	}
	for _, u := range []string{b.Cover.Large, b.Cover.Medium, b.Cover.Small} {
		if u != "" {
			return u
		}
	}
	return ""
}

func firstName(named []rawNamed) string {
	if len(named) == 0 {
		return ""
	}
	return named[0].Name
}

// extractYear pulls a four-digit year out of publish dates like
// "Jun 01, 1965" or "1965".
func extractYear(date string) string {
	for i := 0; i+4 <= len(date); i++ {
		candidate := date[i : i+4]
		if n, err := strconv.Atoi(candidate); err == nil && n >= 1000 {
			if i+4 == len(date) || !isDigit(date[i+4]) {
				return candidate
			}
		}
	}
	return ""
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
