package tools

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// ErrorResponse is used for consistent error reporting. Tool-level failures
// are always surfaced to the agent as a failed tool result, never as a Go
// error raised out of the handler; the agent decides whether to retry with
// different input, pick another tool or apologize to the user.
func ErrorResponse(message string) *mcp.CallToolResult {
	return mcp.NewToolResultError(message)
}

// MalformedInputError indicates a tool argument that could not be parsed,
// such as an unreadable serialized-dictionary string.
type MalformedInputError struct {
	Raw string
	Err error
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed tool input %q: %v", e.Raw, e.Err)
}

func (e *MalformedInputError) Unwrap() error { return e.Err }
