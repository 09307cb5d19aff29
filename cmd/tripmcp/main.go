package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/voyagekit/tripmcp/pkg/places"
	"github.com/voyagekit/tripmcp/pkg/routing"
	"github.com/voyagekit/tripmcp/pkg/server"
	"github.com/voyagekit/tripmcp/pkg/version"
)

var (
	showVersion    bool
	debug          bool
	generateConfig string
)

func init() {
	flag.BoolVar(&showVersion, "version", false, "Display version information")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging")
	flag.StringVar(&generateConfig, "generate-config", "", "Generate an MCP client config file at the specified path")
}

func main() {
	flag.Parse()

	// Configure logging
	var logLevel slog.Level
	if debug {
		logLevel = slog.LevelDebug
	} else {
		logLevel = slog.LevelInfo
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Show version and exit if requested
	if showVersion {
		fmt.Println(version.String())
		return
	}

	// Generate MCP client config if requested
	if generateConfig != "" {
		if err := generateClientConfig(generateConfig); err != nil {
			logger.Error("failed to generate config", "error", err)
			os.Exit(1)
		}
		logger.Info("successfully generated MCP client config", "path", generateConfig)
		return
	}

	logger.Info("starting trip-planner MCP server",
		"version", version.BuildVersion,
		"log_level", logLevel.String())

	// Missing credentials fail the affected tool calls, not the server.
	if os.Getenv(places.EnvAPIKey) == "" {
		logger.Warn("places credential not set, find_places_of_interest will be unavailable",
			"env", places.EnvAPIKey)
	}
	if os.Getenv(routing.EnvAPIKey) == "" {
		logger.Warn("routing credential not set, get_route will be unavailable",
			"env", routing.EnvAPIKey)
	}

	// Create and run the MCP server
	srv, err := server.NewServer()
	if err != nil {
		logger.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	logger.Info("server initialized, waiting for requests")
	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// generateClientConfig creates or updates an MCP client config file,
// registering this binary under the mcpServers section and preserving any
// existing entries.
func generateClientConfig(outputPath string) error {
	logger := slog.Default()

	if outputPath == "" {
		return fmt.Errorf("config path must not be empty")
	}
	if filepath.Ext(outputPath) != ".json" {
		return fmt.Errorf("config path must have a .json extension")
	}
	if strings.Contains(outputPath, "..") {
		return fmt.Errorf("config path must not contain '..'")
	}

	// Get absolute path to executable
	execPath, err := os.Executable()
	if err != nil {
		execPath = os.Args[0] // Fallback to args if cannot get executable path
	}
	absExecPath, err := filepath.Abs(execPath)
	if err != nil {
		absExecPath = execPath // Use as is if cannot resolve absolute path
	}

	tripConfig := map[string]interface{}{
		"command": absExecPath,
		"args":    []string{},
	}

	var config map[string]interface{}

	// Merge into an existing config file when present
	if _, err := os.Stat(outputPath); err == nil {
		data, err := os.ReadFile(outputPath)
		if err != nil {
			return fmt.Errorf("failed to read existing config: %w", err)
		}
		if err := json.Unmarshal(data, &config); err != nil {
			logger.Warn("existing config is not valid JSON, will create new", "error", err)
			config = make(map[string]interface{})
		}
	} else {
		config = make(map[string]interface{})
	}

	mcpServers, ok := config["mcpServers"].(map[string]interface{})
	if !ok {
		mcpServers = make(map[string]interface{})
		config["mcpServers"] = mcpServers
	}
	mcpServers["TripPlanner"] = tripConfig

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
