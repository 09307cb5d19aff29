// Package prompts provides prompt templates for use with the MCP server.
package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterTripPrompts registers all trip-planning prompts with the MCP server
func RegisterTripPrompts(s *server.MCPServer) {
	// Register the main trip planning prompt
	s.AddPrompt(mcp.NewPrompt("trip_planning",
		mcp.WithPromptDescription("Instructions for properly using the trip-planning tools"),
	), TripPlanningPromptHandler)

	// Register examples for get_route
	s.AddPrompt(mcp.NewPrompt("get_route_examples",
		mcp.WithPromptDescription("Examples of properly formatted route requests"),
	), GetRouteExamplesHandler)
}

// TripPlanningPromptHandler returns the main prompt for the trip-planning tools
func TripPlanningPromptHandler(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	systemPrompt := `You are a travel assistant with access to trip-planning tools.
When using these tools:

1. Use find_places_of_interest to list attractions, restaurants and other sights near ONE city, town or locality at a time
2. Use wiki_lookup when the question is about an area itself: its history, geography or religious/spiritual importance
3. Use get_route to retrieve directions through an ordered list of locations; pass the starting point first and the endpoint last
4. Pass only the location name to find_places_of_interest, nothing else
5. Return route instructions to the user unchanged

TOOL SELECTION EXAMPLES:
"What can I see in Pune?" -> find_places_of_interest with "Pune"
"Why is Varanasi sacred?" -> wiki_lookup with "Varanasi"
"How do I cycle from Mumbai to Pune?" -> get_route with locations ["Mumbai", "Pune"] and transportation_mode "cycle"

ERROR HANDLING GUIDELINES:
1. If a location is not found, ask the user to refine it or retry with city and country added
2. If a tool reports a missing credential, tell the user that capability is unavailable instead of retrying
3. Never invent places or directions when a tool fails`

	return mcp.NewGetPromptResult(
		"Trip Planning Tool Usage Guidelines",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(
				mcp.RoleAssistant,
				mcp.NewTextContent(systemPrompt),
			),
		},
	), nil
}

// GetRouteExamplesHandler returns examples for get_route
func GetRouteExamplesHandler(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	examplesPrompt := `EXAMPLES OF EFFECTIVE GET_ROUTE USAGE:

User: "How do I get from Mumbai to Pune by bicycle?"
AI: *uses get_route with locations ["Mumbai", "Pune"] and transportation_mode "cycle"*

User: "I want to walk from the Gateway of India to Colaba and then to Churchgate"
AI: *uses get_route with locations ["Gateway of India", "Colaba", "Churchgate"] and transportation_mode "walking"*

User: "Take the bus from Delhi to Agra"
AI: *uses get_route with locations ["Delhi", "Agra"] and transportation_mode "transit"*

MODE SELECTION:
1. Mention of walking or going on foot -> "walking"
2. Mention of a cycle or bicycle -> "cycle"
3. Mention of public transport, bus or train -> "transit"
4. Anything else, or no mode mentioned -> "car"

ORDERING RULES:
1. The first location is always the starting point and the last is the endpoint
2. Keep intermediate stops in the order the user gave them
3. Do not reorder, merge or drop locations`

	return mcp.NewGetPromptResult(
		"Get Route Examples",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(
				mcp.RoleAssistant,
				mcp.NewTextContent(examplesPrompt),
			),
		},
	), nil
}
