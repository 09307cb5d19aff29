// Package geocode resolves free-text place names to geographic coordinates
// using the Nominatim geocoding service.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"github.com/voyagekit/tripmcp/pkg/geo"
)

const (
	// DefaultBaseURL is the Nominatim endpoint used for forward geocoding
	DefaultBaseURL = "https://nominatim.openstreetmap.org"

	// UserAgent identifies this service to the provider (required by
	// Nominatim's usage policy)
	UserAgent = "tripmcp/0.1.0"

	// locationPrefix is an optional key-value marker some agents prepend
	// to the free-text query
	locationPrefix = "location="

	cacheSize = 256
	cacheTTL  = 15 * time.Minute
)

// Result is a resolved location: the cleaned query plus its coordinates.
type Result struct {
	Query       string       `json:"query"`
	DisplayName string       `json:"display_name"`
	Location    geo.Location `json:"location"`
}

// NotFoundError indicates the provider returned no match for a query.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("geocode: no match found for %q", e.Query)
}

// ProviderError indicates a failure while talking to the geocoding provider.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("geocode: provider failure: %v", e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Geocoder resolves place names against Nominatim. Consecutive provider
// calls are spaced at least one second apart per Nominatim's usage policy;
// the limiter suspends the calling turn rather than dropping requests.
type Geocoder struct {
	// BaseURL may be overridden for testing.
	BaseURL string

	// HTTPClient may be overridden for testing.
	HTTPClient *http.Client

	limiter *rate.Limiter
	cache   *expirable.LRU[string, Result]
	logger  *slog.Logger
}

// New creates a Geocoder with the default provider endpoint, a one request
// per second rate limiter and a TTL-bounded result cache.
func New() *Geocoder {
	return &Geocoder{
		BaseURL: DefaultBaseURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     30 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Every(1*time.Second), 1),
		cache:   expirable.NewLRU[string, Result](cacheSize, nil, cacheTTL),
		logger:  slog.Default(),
	}
}

// SetLogger sets the logger for the geocoder
func (g *Geocoder) SetLogger(logger *slog.Logger) {
	g.logger = logger
}

// cleanQuery strips the optional location= prefix and surrounding whitespace
func cleanQuery(query string) string {
	query = strings.TrimSpace(query)
	if strings.HasPrefix(query, locationPrefix) {
		query = strings.TrimSpace(query[len(locationPrefix):])
	}
	return query
}

// Resolve converts a free-text place name to coordinates. It returns a
// *NotFoundError when the provider has no match and a *ProviderError for
// transport or decoding failures. Failed lookups are not retried.
func (g *Geocoder) Resolve(ctx context.Context, query string) (Result, error) {
	query = cleanQuery(query)
	if query == "" {
		return Result{}, &NotFoundError{Query: query}
	}

	if cached, ok := g.cache.Get(query); ok {
		g.logger.Debug("geocode cache hit", "query", query)
		return cached, nil
	}

	// Blocks the calling turn until the provider spacing allows a call
	if err := g.limiter.Wait(ctx); err != nil {
		return Result{}, &ProviderError{Err: err}
	}

	reqURL, err := url.Parse(g.BaseURL + "/search")
	if err != nil {
		return Result{}, &ProviderError{Err: err}
	}
	q := reqURL.Query()
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("limit", "1")
	reqURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return Result{}, &ProviderError{Err: err}
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := g.HTTPClient.Do(req)
	if err != nil {
		g.logger.Error("geocode request failed", "query", query, "error", err)
		return Result{}, &ProviderError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		g.logger.Error("geocoding service returned error", "query", query, "status", resp.StatusCode)
		return Result{}, &ProviderError{Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var results []struct {
		DisplayName string `json:"display_name"`
		Lat         string `json:"lat"`
		Lon         string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return Result{}, &ProviderError{Err: fmt.Errorf("decode response: %w", err)}
	}

	if len(results) == 0 {
		return Result{}, &NotFoundError{Query: query}
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Result{}, &ProviderError{Err: fmt.Errorf("parse latitude: %w", err)}
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Result{}, &ProviderError{Err: fmt.Errorf("parse longitude: %w", err)}
	}

	result := Result{
		Query:       query,
		DisplayName: results[0].DisplayName,
		Location:    geo.Location{Latitude: lat, Longitude: lon},
	}
	g.cache.Add(query, result)

	return result, nil
}
