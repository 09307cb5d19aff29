package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestGenerateClientConfig(t *testing.T) {
	tmpDir := t.TempDir()

	oldDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get current directory: %v", err)
	}
	defer os.Chdir(oldDir)
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Failed to change to temp directory: %v", err)
	}

	tests := []struct {
		name     string
		path     string
		existing map[string]interface{}
		wantErr  bool
	}{
		{
			name: "valid path",
			path: "config.json",
		},
		{
			name:    "empty path",
			path:    "",
			wantErr: true,
		},
		{
			name:    "non-json extension",
			path:    "config.txt",
			wantErr: true,
		},
		{
			name:    "path with ..",
			path:    filepath.Join("..", "config.json"),
			wantErr: true,
		},
		{
			name: "merge with existing",
			path: "merge.json",
			existing: map[string]interface{}{
				"existing_key": "existing_value",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.existing != nil {
				data, err := json.Marshal(tt.existing)
				if err != nil {
					t.Fatalf("Failed to marshal existing config: %v", err)
				}
				if err := os.WriteFile(tt.path, data, 0600); err != nil {
					t.Fatalf("Failed to write existing config: %v", err)
				}
			}

			err := generateClientConfig(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("generateClientConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			info, err := os.Stat(tt.path)
			if err != nil {
				t.Fatalf("Failed to stat config file: %v", err)
			}
			if mode := info.Mode(); mode != 0600 {
				t.Errorf("Config file has wrong permissions: %v, want 0600", mode)
			}

			data, err := os.ReadFile(tt.path)
			if err != nil {
				t.Fatalf("Failed to read config file: %v", err)
			}
			var config map[string]interface{}
			if err := json.Unmarshal(data, &config); err != nil {
				t.Fatalf("Failed to parse config JSON: %v", err)
			}

			mcpServers, ok := config["mcpServers"].(map[string]interface{})
			if !ok {
				t.Fatal("Config missing 'mcpServers' section")
			}
			entry, ok := mcpServers["TripPlanner"].(map[string]interface{})
			if !ok {
				t.Fatal("Config missing 'TripPlanner' server entry")
			}
			if _, ok := entry["command"].(string); !ok {
				t.Error("Server entry missing 'command'")
			}

			if tt.existing != nil {
				if val, ok := config["existing_key"]; !ok || val != "existing_value" {
					t.Error("Merge failed to preserve existing content")
				}
			}
		})
	}
}
