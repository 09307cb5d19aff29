package tools

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/voyagekit/tripmcp/pkg/geocode"
	"github.com/voyagekit/tripmcp/pkg/places"
	"github.com/voyagekit/tripmcp/pkg/routing"
)

// Registry holds the trip-planner tool registrations and the provider
// clients they invoke. Clients are injected so tools can be exercised
// against test servers in isolation.
type Registry struct {
	logger   *slog.Logger
	geocoder *geocode.Geocoder
	places   *places.Client
	routes   *routing.Client

	wikiBaseURL string
	httpClient  *http.Client
}

// NewRegistry creates a tool registry over the given provider clients.
func NewRegistry(logger *slog.Logger, geocoder *geocode.Geocoder, placesClient *places.Client, routesClient *routing.Client) *Registry {
	return &Registry{
		logger:      logger,
		geocoder:    geocoder,
		places:      placesClient,
		routes:      routesClient,
		wikiBaseURL: DefaultWikiBaseURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

// ToolDefinition represents a trip-planner MCP tool definition.
type ToolDefinition struct {
	Name        string
	Description string
	Tool        mcp.Tool
	Handler     server.ToolHandlerFunc
}

// GetToolDefinitions returns all trip-planner MCP tool definitions.
func (r *Registry) GetToolDefinitions() []ToolDefinition {
	return []ToolDefinition{
		{
			Name:        "find_places_of_interest",
			Description: "Discover places of interest near a location",
			Tool:        FindPlacesOfInterestTool(),
			Handler:     r.HandleFindPlacesOfInterest,
		},
		{
			Name:        "get_route",
			Description: "Retrieve a route through an ordered list of locations",
			Tool:        GetRouteTool(),
			Handler:     r.HandleGetRoute,
		},
		{
			Name:        "wiki_lookup",
			Description: "Look up encyclopedic information about a place or topic",
			Tool:        WikiLookupTool(),
			Handler:     r.HandleWikiLookup,
		},
	}
}

// RegisterTools registers all tools with the MCP server. If wrap is
// non-nil it is applied to every handler; the side-channel interceptor
// plugs in here so that each tool completion passes through it exactly
// once.
func (r *Registry) RegisterTools(mcpServer *server.MCPServer, wrap func(server.ToolHandlerFunc) server.ToolHandlerFunc) {
	for _, def := range r.GetToolDefinitions() {
		handler := def.Handler
		if wrap != nil {
			handler = wrap(handler)
		}
		r.logger.Info("registering tool", "name", def.Name)
		mcpServer.AddTool(def.Tool, handler)
	}
}
