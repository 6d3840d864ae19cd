// OMDb [Lookup] implementation
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moviweb/internal/models"
	"github.com/desertthunder/moviweb/internal/shared"
)

const (
	defaultOMDbBaseURL string = "http://www.omdbapi.com/"
	notAvailable       string = "N/A"
	cacheKeyPrefix     string = "omdb:"
)

var _ Lookup = (*OMDbService)(nil)

// OMDbMovie is the subset of the OMDb title response used by the app.
type OMDbMovie struct {
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Director   string `json:"Director"`
	Poster     string `json:"Poster"`
	IMDBRating string `json:"imdbRating"`
	Response   string `json:"Response"`
	Error      string `json:"Error,omitempty"`
}

// Fields normalizes the response into [models.MovieFields].
func (m OMDbMovie) Fields() (models.MovieFields, error) {
	rating, err := parseRating(m.IMDBRating)
	if err != nil {
		return models.MovieFields{}, err
	}

	return models.MovieFields{
		Name:     m.Title,
		Director: orEmpty(m.Director),
		Year:     parseYear(m.Year),
		Rating:   rating,
		Poster:   orEmpty(m.Poster),
	}, nil
}

// OMDbService implements [Lookup] against the OMDb API.
type OMDbService struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cache      LookupCache
	logger     *log.Logger
}

// NewOMDbService creates a new OMDb lookup client.
//
// An empty API key returns [shared.ErrMissingCredentials]. A nil client is replaced by one using
// the configured timeout. cache may be nil to disable caching.
func NewOMDbService(cfg shared.OMDbConfig, client *http.Client, cache LookupCache, logger *log.Logger) (*OMDbService, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%w: omdb api key is not set (use [omdb] api_key or %s)", shared.ErrMissingCredentials, shared.OMDbAPIKeyEnv)
	}

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultOMDbBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("%w: omdb base url: %w", shared.ErrInvalidConfig, err)
	}

	if client == nil {
		timeout, err := cfg.TimeoutDuration()
		if err != nil {
			return nil, err
		}
		client = &http.Client{Timeout: timeout}
	}

	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &OMDbService{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: client,
		cache:      cache,
		logger:     shared.WithLogger(logger, "component", "omdb"),
	}, nil
}

// Name returns the service name.
func (o *OMDbService) Name() string {
	return "OMDb"
}

// LookupByTitle resolves title, reporting false on any failure.
func (o *OMDbService) LookupByTitle(ctx context.Context, title string) (models.MovieFields, bool) {
	fields, err := o.Lookup(ctx, title)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidInput) {
			o.logger.Debug("skipping blank title")
		} else {
			o.logger.Warn("lookup failed", "title", title, "error", err)
		}
		return models.MovieFields{}, false
	}
	return fields, true
}

// Lookup resolves title, consulting the cache first when one is configured.
func (o *OMDbService) Lookup(ctx context.Context, title string) (models.MovieFields, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.MovieFields{}, fmt.Errorf("%w: title is required", shared.ErrInvalidInput)
	}

	key := CacheKey(title)
	if o.cache != nil {
		fields, ok, err := o.cache.Get(ctx, key)
		switch {
		case err != nil:
			o.logger.Warn("cache read failed", "key", key, "error", err)
		case ok:
			o.logger.Debug("cache hit", "key", key)
			return fields, nil
		}
	}

	fields, err := o.fetch(ctx, title)
	if err != nil {
		return models.MovieFields{}, err
	}

	if o.cache != nil {
		if err := o.cache.Set(ctx, key, fields); err != nil {
			o.logger.Warn("cache write failed", "key", key, "error", err)
		}
	}
	return fields, nil
}

func (o *OMDbService) fetch(ctx context.Context, title string) (models.MovieFields, error) {
	u, err := url.Parse(o.baseURL)
	if err != nil {
		return models.MovieFields{}, fmt.Errorf("%w: invalid base url: %w", shared.ErrAPIRequest, err)
	}

	q := u.Query()
	q.Set("apikey", o.apiKey)
	q.Set("t", title)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return models.MovieFields{}, fmt.Errorf("%w: failed to create request: %w", shared.ErrAPIRequest, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		timedOut := isTimeout(err)
		err = stripURL(err)
		if timedOut {
			return models.MovieFields{}, fmt.Errorf("%w: %w", shared.ErrTimeout, err)
		}
		return models.MovieFields{}, fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return models.MovieFields{}, fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var movie OMDbMovie
	if err := json.NewDecoder(resp.Body).Decode(&movie); err != nil {
		if isTimeout(err) {
			return models.MovieFields{}, fmt.Errorf("%w: %w", shared.ErrTimeout, err)
		}
		return models.MovieFields{}, fmt.Errorf("%w: failed to decode response: %w", shared.ErrAPIRequest, err)
	}

	if movie.Response != "True" {
		reason := movie.Error
		if reason == "" {
			reason = "response was " + strconv.Quote(movie.Response)
		}
		return models.MovieFields{}, fmt.Errorf("%w: %q: %s", shared.ErrLookupNoMatch, title, reason)
	}

	fields, err := movie.Fields()
	if err != nil {
		return models.MovieFields{}, fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}
	return fields, nil
}

// CacheKey returns the cache key for title.
func CacheKey(title string) string {
	return cacheKeyPrefix + shared.NormalizeTitle(title)
}

// parseYear returns the year when s is all digits, otherwise 0.
func parseYear(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
	}
	year, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return year
}

func parseRating(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == notAvailable {
		return 0, nil
	}
	rating, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(rating) || math.IsInf(rating, 0) {
		return 0, fmt.Errorf("unparsable rating %q", s)
	}
	return rating, nil
}

func orEmpty(s string) string {
	s = strings.TrimSpace(s)
	if s == notAvailable {
		return ""
	}
	return s
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// stripURL drops the request URL from transport errors; it carries the API key in its query.
func stripURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s request: %w", urlErr.Op, urlErr.Err)
	}
	return err
}
