package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/voyagekit/tripmcp/pkg/geocode"
	"github.com/voyagekit/tripmcp/pkg/places"
)

// FindPlacesOfInterestTool returns a tool definition for discovering places
// of interest near a location
func FindPlacesOfInterestTool() mcp.Tool {
	return mcp.NewTool("find_places_of_interest",
		mcp.WithDescription("Discover places of interest near a location (city, town or locality): "+
			"attractions, restaurants and more, each with a short description. "+
			"Use it only to list places of interest in the given area, not to fetch information "+
			"about the area itself (for history or religious/spiritual importance use wiki_lookup). "+
			"Provide only one area at a time; the location has to be granular like a city, town or "+
			"locality, not as broad as a district or country."),
		mcp.WithString("location",
			mcp.Required(),
			mcp.Description("Name or address of the area to search for places of interest. "+
				"The string must not contain anything else but the location."),
		),
	)
}

// HandleFindPlacesOfInterest resolves the location and describes nearby
// places of interest, one per line in provider order.
func (r *Registry) HandleFindPlacesOfInterest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := r.logger.With("tool", "find_places_of_interest")

	location := mcp.ParseString(req, "location", "")
	if location == "" {
		return ErrorResponse("Location must not be empty"), nil
	}

	resolved, err := r.geocoder.Resolve(ctx, location)
	if err != nil {
		var notFound *geocode.NotFoundError
		if errors.As(err, &notFound) {
			return ErrorResponse(fmt.Sprintf("Location %q not found. Please refine the query.", notFound.Query)), nil
		}
		logger.Error("geocoding failed", "location", location, "error", err)
		return ErrorResponse("Failed to resolve the location"), nil
	}

	description, err := r.places.DescribeNearby(ctx, resolved.Location)
	if err != nil {
		logger.Error("places lookup failed", "location", resolved.Query, "error", err)
		if errors.Is(err, places.ErrMissingCredential) {
			return ErrorResponse("Places API credential is not configured"), nil
		}
		return ErrorResponse("Failed to fetch places of interest"), nil
	}

	if description == "" {
		return ErrorResponse(fmt.Sprintf("No places of interest found near %q", resolved.Query)), nil
	}

	return Envelope{Output: description}.ToResult(), nil
}
