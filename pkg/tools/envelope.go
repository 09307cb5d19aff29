// Package tools provides the trip-planner MCP tool implementations.
package tools

import (
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/voyagekit/tripmcp/pkg/geo"
)

// Envelope is the structured return value of a tool invocation: a mandatory
// text field and an optional ordered coordinate sequence destined for the
// map-rendering side channel. It is marshaled as the tool result text.
type Envelope struct {
	Output        string         `json:"output"`
	GeocodePoints []geo.Location `json:"geocode_points,omitempty"`
}

// ToResult marshals the envelope into an MCP tool result.
func (e Envelope) ToResult() *mcp.CallToolResult {
	data, err := json.Marshal(e)
	if err != nil {
		return ErrorResponse("Failed to generate result")
	}
	return mcp.NewToolResultText(string(data))
}

// ResultText extracts the first text content of a tool result, or "" if
// the result carries none.
func ResultText(result *mcp.CallToolResult) string {
	if result == nil {
		return ""
	}
	for _, content := range result.Content {
		if text, ok := content.(mcp.TextContent); ok {
			return text.Text
		}
	}
	return ""
}

// ParseEnvelope reports whether a tool result carries a structured envelope
// and returns it. Plain-text results parse as not-an-envelope.
func ParseEnvelope(result *mcp.CallToolResult) (Envelope, bool) {
	text := ResultText(result)
	if !strings.HasPrefix(strings.TrimSpace(text), "{") {
		return Envelope{}, false
	}
	var env Envelope
	if err := json.Unmarshal([]byte(text), &env); err != nil {
		return Envelope{}, false
	}
	if env.Output == "" && len(env.GeocodePoints) == 0 {
		return Envelope{}, false
	}
	return env, true
}
