// Package routing retrieves turn-by-turn itineraries between named
// locations using the Bing Maps routes API.
package routing

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
	// DefaultBaseURL is the Bing Maps routes endpoint; the transport mode
	// is appended as a path segment
	DefaultBaseURL = "http://dev.virtualearth.net/REST/V1/Routes"

	// EnvAPIKey is the environment variable holding the routing credential
	EnvAPIKey = "BING_API_KEY"
)

// Transport modes understood by the routing provider.
const (
	ModeWalking = "Walking"
	ModeCycling = "bicycle"
	ModeTransit = "Transit"
	ModeDriving = "Driving"
)

// ErrMissingCredential is returned when the routing credential is absent
// from the environment. No outbound call is made in that case.
var ErrMissingCredential = errors.New("routing: missing " + EnvAPIKey + " credential")

// RetrievalError indicates a failure while requesting or parsing a route.
type RetrievalError struct {
	Err error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("routing: route retrieval failed: %v", e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// Route is an ordered itinerary. Instructions and Points are index-aligned:
// Points[i] is the maneuver point at which Instructions[i] applies.
type Route struct {
	Instructions []string
	Points       []geo.Location
}

// NormalizeMode maps a free-text transport description to a provider mode.
// Matching is case-insensitive and evaluated in fixed priority order, first
// match wins; anything unrecognized defaults to driving.
func NormalizeMode(transportMode string) string {
	mode := strings.ToLower(strings.TrimSpace(transportMode))
	switch {
	case strings.Contains(mode, "foot") || strings.Contains(mode, "walk"):
		return ModeWalking
	case strings.Contains(mode, "cycle"):
		return ModeCycling
	case strings.Contains(mode, "public") || strings.Contains(mode, "bus") ||
		strings.Contains(mode, "train") || strings.Contains(mode, "transit"):
		return ModeTransit
	default:
		return ModeDriving
	}
}

// Client talks to the routing provider.
type Client struct {
	// BaseURL may be overridden for testing.
	BaseURL string

	// HTTPClient may be overridden for testing.
	HTTPClient *http.Client

	apiKey string
	logger *slog.Logger
}

// NewClient creates a routing client with the given API credential.
func NewClient(apiKey string) *Client {
	return &Client{
		BaseURL: DefaultBaseURL,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
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

// NewFromEnv creates a routing client with the credential from the process
// environment. The credential is validated at call time so a missing key
// fails only the invoking tool call.
func NewFromEnv() *Client {
	return NewClient(os.Getenv(EnvAPIKey))
}

// SetLogger sets the logger for the client
func (c *Client) SetLogger(logger *slog.Logger) {
	c.logger = logger
}

// buildURL assembles the route request. Waypoints are numbered wp.0, wp.1,
// ... in input order; the query string is built by hand because url.Values
// sorts keys and waypoint order is semantically significant.
func (c *Client) buildURL(locations []string, mode string) string {
	var sb strings.Builder
	sb.WriteString(c.BaseURL)
	sb.WriteString("/")
	sb.WriteString(url.PathEscape(mode))
	sb.WriteString("?")
	for i, loc := range locations {
		if i > 0 {
			sb.WriteString("&")
		}
		sb.WriteString("wp.")
		sb.WriteString(strconv.Itoa(i))
		sb.WriteString("=")
		sb.WriteString(url.QueryEscape(loc))
	}
	sb.WriteString("&key=")
	sb.WriteString(url.QueryEscape(c.apiKey))
	return sb.String()
}

// GetRoute requests an itinerary through the given locations, in order,
// for a provider transport mode (see NormalizeMode). Failures are not
// retried.
func (c *Client) GetRoute(ctx context.Context, locations []string, mode string) (*Route, error) {
	if c.apiKey == "" {
		return nil, ErrMissingCredential
	}
	if len(locations) < 2 {
		return nil, &RetrievalError{Err: fmt.Errorf("need at least 2 locations, got %d", len(locations))}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(locations, mode), nil)
	if err != nil {
		return nil, &RetrievalError{Err: err}
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.logger.Error("route request failed", "mode", mode, "error", err)
		return nil, &RetrievalError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("routing service returned error", "status", resp.StatusCode)
		return nil, &RetrievalError{Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var body struct {
		ResourceSets []struct {
			Resources []struct {
				RouteLegs []struct {
					ItineraryItems []struct {
						Instruction struct {
							Text string `json:"text"`
						} `json:"instruction"`
						ManeuverPoint struct {
							Coordinates []float64 `json:"coordinates"`
						} `json:"maneuverPoint"`
					} `json:"itineraryItems"`
				} `json:"routeLegs"`
			} `json:"resources"`
		} `json:"resourceSets"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &RetrievalError{Err: fmt.Errorf("decode response: %w", err)}
	}

	if len(body.ResourceSets) == 0 || len(body.ResourceSets[0].Resources) == 0 ||
		len(body.ResourceSets[0].Resources[0].RouteLegs) == 0 {
		return nil, &RetrievalError{Err: errors.New("response contains no route")}
	}

	items := body.ResourceSets[0].Resources[0].RouteLegs[0].ItineraryItems
	route := &Route{
		Instructions: make([]string, 0, len(items)),
		Points:       make([]geo.Location, 0, len(items)),
	}
	for _, item := range items {
		if len(item.ManeuverPoint.Coordinates) < 2 {
			return nil, &RetrievalError{Err: errors.New("itinerary item missing maneuver point")}
		}
		route.Instructions = append(route.Instructions, "- "+item.Instruction.Text)
		route.Points = append(route.Points, geo.Location{
			Latitude:  item.ManeuverPoint.Coordinates[0],
			Longitude: item.ManeuverPoint.Coordinates[1],
		})
	}

	return route, nil
}
