// Package places discovers points of interest near a location using the
// Foursquare Places API and enriches each result with short descriptions
// from the per-place tips endpoint.
package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/voyagekit/tripmcp/pkg/geo"
)

const (
	// DefaultBaseURL is the Foursquare Places API endpoint
	DefaultBaseURL = "https://api.foursquare.com/v3"

	// EnvAPIKey is the environment variable holding the places credential
	EnvAPIKey = "FSQ_API_KEY"

	// SearchRadius is the fixed search radius in meters
	SearchRadius = 100000

	searchLimit = 10
	tipsLimit   = 2
)

// ErrMissingCredential is returned when the places credential is absent
// from the environment. No outbound call is made in that case.
var ErrMissingCredential = errors.New("places: missing " + EnvAPIKey + " credential")

// FetchError indicates the places provider returned a non-success status.
type FetchError struct {
	Endpoint   string
	StatusCode int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("places: %s returned status %d", e.Endpoint, e.StatusCode)
}

// Place is a single search result prior to enrichment.
type Place struct {
	Name string `json:"name"`
	ID   string `json:"fsq_id"`
}

// Client talks to the places provider.
type Client struct {
	// BaseURL may be overridden for testing.
	BaseURL string

	// HTTPClient may be overridden for testing.
	HTTPClient *http.Client

	apiKey string
	logger *slog.Logger
}

// NewClient creates a places client with the given API credential.
func NewClient(apiKey string) *Client {
	return &Client{
		BaseURL: DefaultBaseURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     30 * time.Second,
			},
		},
		apiKey: apiKey,
		logger: slog.Default(),
	}
}

// NewFromEnv creates a places client with the credential from the process
// environment. The credential is validated at call time, not here, so a
// missing key fails only the invoking tool call.
func NewFromEnv() *Client {
	return NewClient(os.Getenv(EnvAPIKey))
}

// SetLogger sets the logger for the client
func (c *Client) SetLogger(logger *slog.Logger) {
	c.logger = logger
}

func (c *Client) get(ctx context.Context, rawURL string, params url.Values) (*http.Response, error) {
	reqURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	reqURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("Authorization", c.apiKey)

	return c.HTTPClient.Do(req)
}

// Search queries the provider for up to ten places around the center point,
// sorted by relevance.
func (c *Client) Search(ctx context.Context, center geo.Location) ([]Place, error) {
	if c.apiKey == "" {
		return nil, ErrMissingCredential
	}

	params := url.Values{}
	params.Set("ll", fmt.Sprintf("%f,%f", center.Latitude, center.Longitude))
	params.Set("radius", strconv.Itoa(SearchRadius))
	params.Set("sort", "RELEVANCE")
	params.Set("limit", strconv.Itoa(searchLimit))

	resp, err := c.get(ctx, c.BaseURL+"/places/search", params)
	if err != nil {
		return nil, fmt.Errorf("places: search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{Endpoint: "search", StatusCode: resp.StatusCode}
	}

	var body struct {
		Results []Place `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("places: decode search response: %w", err)
	}

	return body.Results, nil
}

// Tips fetches up to two popular tips for a place, identified by its
// provider-assigned ID.
func (c *Client) Tips(ctx context.Context, placeID string) ([]string, error) {
	if c.apiKey == "" {
		return nil, ErrMissingCredential
	}

	params := url.Values{}
	params.Set("sort", "POPULAR")
	params.Set("limit", strconv.Itoa(tipsLimit))

	resp, err := c.get(ctx, c.BaseURL+"/places/"+url.PathEscape(placeID)+"/tips", params)
	if err != nil {
		return nil, fmt.Errorf("places: tips request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{Endpoint: "tips", StatusCode: resp.StatusCode}
	}

	var tips []struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tips); err != nil {
		return nil, fmt.Errorf("places: decode tips response: %w", err)
	}

	texts := make([]string, 0, len(tips))
	for _, tip := range tips {
		texts = append(texts, tip.Text)
	}
	return texts, nil
}

// DescribeNearby searches around the center point and enriches each result
// with its tips, producing one "Name: tip tip" line per place in provider
// order. A place whose enrichment call fails is dropped with a logged
// warning; the rest of the lookup proceeds.
func (c *Client) DescribeNearby(ctx context.Context, center geo.Location) (string, error) {
	results, err := c.Search(ctx, center)
	if err != nil {
		return "", err
	}

	lines := make([]string, 0, len(results))
	for _, place := range results {
		tips, err := c.Tips(ctx, place.ID)
		if err != nil {
			c.logger.Warn("dropping place after failed enrichment",
				"place", place.Name, "fsq_id", place.ID, "error", err)
			continue
		}
		lines = append(lines, place.Name+": "+strings.Join(tips, " "))
	}

	return strings.Join(lines, "\n"), nil
}
