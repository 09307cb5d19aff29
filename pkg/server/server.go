// Package server provides the MCP server implementation for the trip planner.
package server

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/voyagekit/tripmcp/pkg/geocode"
	"github.com/voyagekit/tripmcp/pkg/places"
	"github.com/voyagekit/tripmcp/pkg/routing"
	"github.com/voyagekit/tripmcp/pkg/session"
	"github.com/voyagekit/tripmcp/pkg/tools"
	"github.com/voyagekit/tripmcp/pkg/tools/prompts"
)

const (
	// ServerName is the name of the MCP server
	ServerName = "trip-planner-mcp-server"

	// ServerVersion is the version of the MCP server
	ServerVersion = "0.1.0"
)

// Server encapsulates the MCP server with the trip-planning tools.
type Server struct {
	srv *server.MCPServer
	log *session.Log
}

// NewServer creates a new trip-planner MCP server with all tools registered.
// Every tool handler is wrapped by the side-channel interceptor, so geocode
// point sequences are diverted into the session log before any result
// reaches the agent.
func NewServer() (*Server, error) {
	logger := slog.Default()
	logger.Info("initializing trip-planner MCP server",
		"name", ServerName,
		"version", ServerVersion)

	// Create MCP server with options
	srv := server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithRecovery(),
	)

	sessionLog := session.NewLog()
	interceptor := session.NewInterceptor(sessionLog, logger)

	geocoder := geocode.New()
	geocoder.SetLogger(logger)
	placesClient := places.NewFromEnv()
	placesClient.SetLogger(logger)
	routesClient := routing.NewFromEnv()
	routesClient.SetLogger(logger)

	// Create tool registry and register all tools through the interceptor
	registry := tools.NewRegistry(logger, geocoder, placesClient, routesClient)
	registry.RegisterTools(srv, interceptor.Wrap)

	prompts.RegisterTripPrompts(srv)

	s := &Server{srv: srv, log: sessionLog}
	s.registerRouteResource(logger)
	return s, nil
}

// Session returns the server's session log.
func (s *Server) Session() *session.Log {
	return s.log
}

// Run starts the MCP server using stdin/stdout for communication.
func (s *Server) Run() error {
	return server.ServeStdio(s.srv)
}
