package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mark3labs/mcp-go/mcp"
)

// DefaultWikiBaseURL is the Wikipedia REST endpoint for page summaries
const DefaultWikiBaseURL = "https://en.wikipedia.org/api/rest_v1"

// WikiLookupTool returns a tool definition for encyclopedic lookups
func WikiLookupTool() mcp.Tool {
	return mcp.NewTool("wiki_lookup",
		mcp.WithDescription("Look up encyclopedic information about a place or topic: its history, "+
			"geography, religious/spiritual importance or other background. "+
			"Use this, not find_places_of_interest, when the question is about the area itself "+
			"rather than about attractions in it."),
		mcp.WithString("topic",
			mcp.Required(),
			mcp.Description("The place or topic to look up"),
		),
	)
}

// HandleWikiLookup fetches a short encyclopedia summary for a topic.
func (r *Registry) HandleWikiLookup(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := r.logger.With("tool", "wiki_lookup")

	topic := mcp.ParseString(req, "topic", "")
	if topic == "" {
		return ErrorResponse("Topic must not be empty"), nil
	}

	reqURL := r.wikiBaseURL + "/page/summary/" + url.PathEscape(topic)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		logger.Error("failed to create request", "error", err)
		return ErrorResponse("Failed to create request"), nil
	}
	httpReq.Header.Set("accept", "application/json")

	resp, err := r.httpClient.Do(httpReq)
	if err != nil {
		logger.Error("failed to execute request", "topic", topic, "error", err)
		return ErrorResponse("Failed to communicate with the encyclopedia service"), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrorResponse(fmt.Sprintf("No encyclopedia entry found for %q", topic)), nil
	}
	if resp.StatusCode != http.StatusOK {
		logger.Error("encyclopedia service returned error", "status", resp.StatusCode)
		return ErrorResponse(fmt.Sprintf("Encyclopedia service error: %d", resp.StatusCode)), nil
	}

	var summary struct {
		Title   string `json:"title"`
		Extract string `json:"extract"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		logger.Error("failed to decode response", "error", err)
		return ErrorResponse("Failed to parse encyclopedia response"), nil
	}

	if summary.Extract == "" {
		return ErrorResponse(fmt.Sprintf("No encyclopedia entry found for %q", topic)), nil
	}

	return Envelope{Output: summary.Title + ": " + summary.Extract}.ToResult(), nil
}
