package tools

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/voyagekit/tripmcp/pkg/routing"
)

// GetRouteTool returns a tool definition for retrieving a route through an
// ordered list of locations
func GetRouteTool() mcp.Tool {
	return mcp.NewTool("get_route",
		mcp.WithDescription("Retrieve a route for the given locations and mode of transport. "+
			"'locations' is a list of strings, each the name or address of a location, indicating "+
			"the starting point, intermediate stops and endpoint of the travel, in order. "+
			"'transportation_mode' indicates the mode of transport (can be cycle, walking, transit or car). "+
			"Example: {'locations': ['Mumbai', 'Pune', 'Nagpur'], 'transportation_mode': 'cycle'}. "+
			"The response is instructions through different waypoints; do not change the response."),
		mcp.WithArray("locations",
			mcp.Description("Ordered place names: starting point, intermediate stops, endpoint"),
		),
		mcp.WithString("transportation_mode",
			mcp.Description("Mode of transport (cycle, walking, transit or car)"),
			mcp.DefaultString("car"),
		),
		mcp.WithString("input_data",
			mcp.Description("Alternative serialized form: an object with 'locations' and 'transportation_mode' keys"),
		),
	)
}

// routeInput is the normalized route tool argument.
type routeInput struct {
	Locations          []string `json:"locations"`
	TransportationMode string   `json:"transportation_mode"`
}

// parseSerializedInput parses the serialized-dictionary form of the route
// argument. Some agents emit single-quoted pseudo-JSON, which is tolerated.
func parseSerializedInput(raw string) (routeInput, error) {
	var in routeInput
	if err := json.Unmarshal([]byte(raw), &in); err == nil {
		return in, nil
	}
	normalized := strings.ReplaceAll(raw, "'", `"`)
	if err := json.Unmarshal([]byte(normalized), &in); err != nil {
		return routeInput{}, &MalformedInputError{Raw: raw, Err: err}
	}
	return in, nil
}

// parseRouteInput normalizes the tool arguments: either structured
// 'locations' + 'transportation_mode' arguments, or a serialized dictionary
// passed as 'input_data'.
func parseRouteInput(req mcp.CallToolRequest) (routeInput, error) {
	if raw, ok := req.Params.Arguments["input_data"].(string); ok && strings.TrimSpace(raw) != "" {
		return parseSerializedInput(raw)
	}

	var in routeInput
	if rawLocations, ok := req.Params.Arguments["locations"]; ok {
		data, err := json.Marshal(rawLocations)
		if err != nil {
			return routeInput{}, &MalformedInputError{Raw: "locations", Err: err}
		}
		if err := json.Unmarshal(data, &in.Locations); err != nil {
			return routeInput{}, &MalformedInputError{Raw: "locations", Err: err}
		}
	}
	in.TransportationMode = mcp.ParseString(req, "transportation_mode", "car")
	return in, nil
}

// HandleGetRoute retrieves a turn-by-turn itinerary. The returned envelope
// carries the instruction text plus the maneuver coordinates for the map
// side channel.
func (r *Registry) HandleGetRoute(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := r.logger.With("tool", "get_route")

	in, err := parseRouteInput(req)
	if err != nil {
		logger.Error("failed to parse route input", "error", err)
		return ErrorResponse("Malformed route input: provide 'locations' and 'transportation_mode'"), nil
	}
	if len(in.Locations) < 2 {
		return ErrorResponse("At least two locations are required: a starting point and an endpoint"), nil
	}

	mode := routing.NormalizeMode(in.TransportationMode)

	route, err := r.routes.GetRoute(ctx, in.Locations, mode)
	if err != nil {
		logger.Error("route retrieval failed", "mode", mode, "error", err)
		if errors.Is(err, routing.ErrMissingCredential) {
			return ErrorResponse("Routing API credential is not configured"), nil
		}
		return ErrorResponse("Failed to retrieve the route"), nil
	}

	return Envelope{
		Output:        strings.Join(route.Instructions, "\n"),
		GeocodePoints: route.Points,
	}.ToResult(), nil
}
